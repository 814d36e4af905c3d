package transaction

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weisyn/qtum-sdk-go/client/clienttest"
	"github.com/weisyn/qtum-sdk-go/services/event"
)

var txID = strings.Repeat("9f", 32)

func newService(t *testing.T, fake *clienttest.FakeClient) Service {
	t.Helper()
	events, err := event.NewService(fake, nil, nil)
	require.NoError(t, err)
	return NewService(fake, events)
}

func TestGetTransaction(t *testing.T) {
	tests := []struct {
		name       string
		reply      map[string]interface{}
		wantStatus string
		wantTime   time.Time
	}{
		{
			name: "已确认",
			reply: map[string]interface{}{
				"txid": txID, "hash": txID, "size": 225,
				"blockhash": strings.Repeat("0a", 32), "confirmations": 3,
				"time": 1700000000, "blocktime": 1700000000,
			},
			wantStatus: "confirmed",
			wantTime:   time.Unix(1700000000, 0).UTC(),
		},
		{
			name:       "内存池中",
			reply:      map[string]interface{}{"txid": txID, "hash": txID, "size": 225},
			wantStatus: "pending",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := clienttest.New(nil).Handle("getrawtransaction", func(params []interface{}) (interface{}, error) {
				return tt.reply, nil
			})
			info, err := newService(t, fake).GetTransaction(context.Background(), "0x"+txID)
			require.NoError(t, err)
			assert.Equal(t, txID, info.TxID)
			assert.Equal(t, 225, info.Size)
			assert.Equal(t, tt.wantStatus, info.Status)
			assert.Equal(t, tt.wantTime, info.Timestamp)
			assert.Equal(t, []interface{}{txID, true}, fake.Calls()[0].Params)
		})
	}
}

func TestSubmitRawTransaction(t *testing.T) {
	fake := clienttest.New(nil).Handle("sendrawtransaction", func(params []interface{}) (interface{}, error) {
		return txID, nil
	})
	svc := newService(t, fake)

	got, err := svc.SubmitRawTransaction(context.Background(), "0x0200")
	require.NoError(t, err)
	assert.Equal(t, txID, got)
	assert.Equal(t, []interface{}{"0200"}, fake.Calls()[0].Params)

	_, err = svc.SubmitRawTransaction(context.Background(), "")
	assert.Error(t, err)
}

func TestWaitForReceipt(t *testing.T) {
	var polls atomic.Int32
	fake := clienttest.New(nil).Handle("gettransactionreceipt", func(params []interface{}) (interface{}, error) {
		if polls.Add(1) < 3 {
			return []interface{}{}, nil
		}
		return []interface{}{map[string]interface{}{"blockNumber": 42, "transactionHash": txID}}, nil
	})

	receipts, err := newService(t, fake).WaitForReceipt(context.Background(), txID, time.Millisecond)
	require.NoError(t, err)
	require.Len(t, receipts, 1)
	assert.Equal(t, int64(42), receipts[0].BlockNumber)
	assert.Equal(t, int32(3), polls.Load())
}

func TestWaitForReceipt_Timeout(t *testing.T) {
	fake := clienttest.New(nil).Handle("gettransactionreceipt", func(params []interface{}) (interface{}, error) {
		return []interface{}{}, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := newService(t, fake).WaitForReceipt(ctx, txID, 5*time.Millisecond)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
