package contract

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weisyn/qtum-sdk-go/abi"
	"github.com/weisyn/qtum-sdk-go/client"
	"github.com/weisyn/qtum-sdk-go/client/clienttest"
	"github.com/weisyn/qtum-sdk-go/services"
	"github.com/weisyn/qtum-sdk-go/types"
)

const tokenABIJSON = `[
	{"constant": true, "inputs": [{"name": "_owner", "type": "address"}], "name": "balanceOf",
	 "outputs": [{"name": "balance", "type": "uint256"}], "type": "function"},
	{"constant": false, "inputs": [{"name": "_to", "type": "address"}, {"name": "_value", "type": "uint256"}],
	 "name": "transfer", "outputs": [{"name": "success", "type": "bool"}], "type": "function"},
	{"anonymous": false, "inputs": [
		{"indexed": true, "name": "_from", "type": "address"},
		{"indexed": true, "name": "_to", "type": "address"},
		{"indexed": false, "name": "_value", "type": "uint256"}
	 ], "name": "Transfer", "type": "event"}
]`

const (
	tokenRaw20    = "a0ce0e8f1bfc8b5b6e4ec1e3f1c3b0e2d4c5b6a7"
	senderRaw20   = "17e7888aa7412a735f336d2f6d784caefabb6fa3"
	senderChecked = "qKjn4fStBaAtwGiwueJf9qFxgpbAvf1xAy"
	holderRaw20   = "0102030405060708090a0b0c0d0e0f1011121314"
	transferTopic = "ddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef"
)

func leftWord(s string) string {
	return strings.Repeat("0", 64-len(s)) + s
}

func tokenTable(t *testing.T) abi.ContractTable {
	t.Helper()
	tokenABI, err := abi.ParseJSON([]byte(tokenABIJSON))
	require.NoError(t, err)
	return abi.ContractTable{"Token": {Address: tokenRaw20, ABI: tokenABI}}
}

func newService(t *testing.T, fake *clienttest.FakeClient, cfg *services.Config) Service {
	t.Helper()
	svc, err := NewServiceWithConfig(fake, tokenTable(t), cfg)
	require.NoError(t, err)
	return svc
}

func callContractReply(excepted, output string, logs ...abi.Log) map[string]interface{} {
	return map[string]interface{}{
		"address": tokenRaw20,
		"executionResult": map[string]interface{}{
			"gasUsed":  21000,
			"excepted": excepted,
			"output":   output,
		},
		"transactionReceipt": map[string]interface{}{
			"stateRoot": strings.Repeat("0", 64),
			"gasUsed":   21000,
			"log":       logs,
		},
	}
}

func TestService_Call(t *testing.T) {
	transferLog := abi.Log{
		Address: tokenRaw20,
		Topics:  []string{transferTopic, leftWord(senderRaw20), leftWord(holderRaw20)},
		Data:    leftWord("64"),
	}
	fake := clienttest.New(nil).Handle("callcontract", func(params []interface{}) (interface{}, error) {
		return callContractReply("None", leftWord("3e8"), transferLog), nil
	})
	svc := newService(t, fake, &services.Config{SenderAddress: "0x" + senderRaw20})

	result, err := svc.Call(context.Background(), &CallRequest{
		Contract: "Token",
		Method:   "balanceOf",
		Args:     []interface{}{holderRaw20},
	})
	require.NoError(t, err)

	calls := fake.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "callcontract", calls[0].Method)
	assert.Equal(t, []interface{}{tokenRaw20, "70a08231" + leftWord(holderRaw20), senderChecked}, calls[0].Params)

	assert.Equal(t, tokenRaw20, result.Address)
	assert.Equal(t, int64(21000), result.Execution.GasUsed)
	assert.Equal(t, 0, big.NewInt(1000).Cmp(result.Outputs["balance"].(*big.Int)))

	require.Len(t, result.Logs, 1)
	assert.True(t, result.Logs[0].Decoded)
	assert.Equal(t, "Transfer", result.Logs[0].Event)
	assert.Equal(t, "0x"+holderRaw20, result.Logs[0].Values["_to"])
	assert.Equal(t, int64(100), result.Logs[0].Values["_value"].(*big.Int).Int64())
}

func TestService_Call_RemoveHexPrefixAndNoSender(t *testing.T) {
	fake := clienttest.New(nil).Handle("callcontract", func(params []interface{}) (interface{}, error) {
		return callContractReply("None", leftWord("1")), nil
	})
	svc := newService(t, fake, &services.Config{RemoveHexPrefix: true})

	result, err := svc.Call(context.Background(), &CallRequest{
		Contract: "Token",
		Method:   "transfer",
		Args:     []interface{}{senderChecked, 5},
	})
	require.NoError(t, err)
	assert.Equal(t, true, result.Outputs["success"])
	assert.Empty(t, result.Logs)
	assert.Len(t, fake.Calls()[0].Params, 2)
}

func TestService_Call_Errors(t *testing.T) {
	tests := []struct {
		name    string
		reply   clienttest.Handler
		req     *CallRequest
		wantErr func(t *testing.T, err error)
	}{
		{
			name: "合约执行异常",
			reply: func(params []interface{}) (interface{}, error) {
				return callContractReply("Revert", ""), nil
			},
			req: &CallRequest{Contract: "Token", Method: "balanceOf", Args: []interface{}{holderRaw20}},
			wantErr: func(t *testing.T, err error) {
				var execErr *ExecutionError
				require.True(t, errors.As(err, &execErr), "got %v", err)
				assert.Equal(t, "Revert", execErr.Excepted)
				assert.Equal(t, int64(21000), execErr.GasUsed)
			},
		},
		{
			name: "未知合约",
			req:  &CallRequest{Contract: "Nope", Method: "balanceOf"},
			wantErr: func(t *testing.T, err error) {
				assert.True(t, errors.Is(err, ErrUnknownContract), "got %v", err)
			},
		},
		{
			name: "参数个数不符",
			req:  &CallRequest{Contract: "Token", Method: "balanceOf"},
			wantErr: func(t *testing.T, err error) {
				assert.True(t, errors.Is(err, types.ErrArityMismatch), "got %v", err)
			},
		},
		{
			name: "节点 RPC 错误",
			reply: func(params []interface{}) (interface{}, error) {
				return nil, client.NewRPCError(-5, "Incorrect address")
			},
			req: &CallRequest{Contract: "Token", Method: "balanceOf", Args: []interface{}{holderRaw20}},
			wantErr: func(t *testing.T, err error) {
				rpcErr, ok := client.IsRPCError(err)
				require.True(t, ok, "got %v", err)
				assert.Equal(t, -5, rpcErr.RPCCode)
			},
		},
		{
			name: "输出过短",
			reply: func(params []interface{}) (interface{}, error) {
				return callContractReply("None", "00"), nil
			},
			req: &CallRequest{Contract: "Token", Method: "balanceOf", Args: []interface{}{holderRaw20}},
			wantErr: func(t *testing.T, err error) {
				assert.True(t, errors.Is(err, types.ErrDecode), "got %v", err)
			},
		},
		{
			name: "缺少方法名",
			req:  &CallRequest{Contract: "Token"},
			wantErr: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "method name is required")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := clienttest.New(nil)
			if tt.reply != nil {
				fake.Handle("callcontract", tt.reply)
			}
			_, err := newService(t, fake, nil).Call(context.Background(), tt.req)
			require.Error(t, err)
			tt.wantErr(t, err)
		})
	}
}

func TestService_BatchCall(t *testing.T) {
	fake := clienttest.New(nil).Handle("callcontract", func(params []interface{}) (interface{}, error) {
		return callContractReply("None", leftWord("2a")), nil
	})
	svc := newService(t, fake, nil)

	result, err := svc.BatchCall(context.Background(), []*CallRequest{
		{Contract: "Token", Method: "balanceOf", Args: []interface{}{holderRaw20}},
		{Contract: "Missing", Method: "balanceOf", Args: []interface{}{holderRaw20}},
		{Contract: "Token", Method: "balanceOf", Args: []interface{}{senderChecked}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Success)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, []int{0, 2}, result.Indexes)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 1, result.Errors[0].Index)
	assert.True(t, errors.Is(result.Errors[0].Error, ErrUnknownContract))
	assert.Equal(t, int64(42), result.Results[1].Outputs["balance"].(*big.Int).Int64())
}

func TestService_Send(t *testing.T) {
	fake := clienttest.New(nil).Handle("sendtocontract", func(params []interface{}) (interface{}, error) {
		return map[string]interface{}{
			"txid":    strings.Repeat("ab", 32),
			"sender":  senderChecked,
			"hash160": senderRaw20,
		}, nil
	})
	svc := newService(t, fake, &services.Config{
		SenderAddress:  senderChecked,
		Broadcast:      true,
		ChangeToSender: true,
	})

	result, err := svc.Send(context.Background(), &SendRequest{
		Contract: "Token",
		Method:   "transfer",
		Args:     []interface{}{holderRaw20, 100},
	})
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("ab", 32), result.TxID)
	assert.Equal(t, senderRaw20, result.Hash160)

	calls := fake.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, []interface{}{
		tokenRaw20,
		"a9059cbb" + leftWord(holderRaw20) + leftWord("64"),
		json.Number("0"),
		uint64(250000),
		json.Number("0.0000004"),
		senderChecked,
		true,
		true,
	}, calls[0].Params)
}

func TestService_Send_Overrides(t *testing.T) {
	fake := clienttest.New(nil).Handle("sendtocontract", func(params []interface{}) (interface{}, error) {
		return map[string]interface{}{"raw transaction": "0200"}, nil
	})
	svc := newService(t, fake, nil)

	result, err := svc.Send(context.Background(), &SendRequest{
		Contract: "Token",
		Method:   "transfer",
		Args:     []interface{}{holderRaw20, 1},
		Amount:   "0.5",
		GasLimit: 100000,
		GasPrice: "0.0000005",
	})
	require.NoError(t, err)
	assert.Equal(t, "0200", result.RawTransaction)

	params := fake.Calls()[0].Params
	require.Len(t, params, 5)
	assert.Equal(t, json.Number("0.5"), params[2])
	assert.Equal(t, uint64(100000), params[3])
	assert.Equal(t, json.Number("0.0000005"), params[4])
}

func TestService_Deploy(t *testing.T) {
	ctorABI, err := abi.ParseJSON([]byte(`[{"type": "constructor", "inputs": [{"name": "supply", "type": "uint256"}]}]`))
	require.NoError(t, err)

	fake := clienttest.New(nil).Handle("createcontract", func(params []interface{}) (interface{}, error) {
		return map[string]interface{}{
			"txid":    strings.Repeat("cd", 32),
			"sender":  senderChecked,
			"hash160": senderRaw20,
			"address": tokenRaw20,
		}, nil
	})
	svc := newService(t, fake, &services.Config{SenderAddress: senderRaw20, Broadcast: true})

	result, err := svc.Deploy(context.Background(), &DeployRequest{
		ABI:      ctorABI,
		Bytecode: "0x6080AB",
		Args:     []interface{}{big.NewInt(1000)},
	})
	require.NoError(t, err)
	assert.Equal(t, tokenRaw20, result.Address)

	assert.Equal(t, []interface{}{
		"6080ab" + leftWord("3e8"),
		DefaultDeployGasLimit,
		json.Number("0.0000004"),
		senderChecked,
		true,
		false,
	}, fake.Calls()[0].Params)
}

func TestService_Deploy_Errors(t *testing.T) {
	svc := newService(t, clienttest.New(nil), nil)

	_, err := svc.Deploy(context.Background(), &DeployRequest{})
	assert.Error(t, err)

	_, err = svc.Deploy(context.Background(), &DeployRequest{Bytecode: "zz"})
	assert.Error(t, err)

	_, err = svc.Deploy(context.Background(), &DeployRequest{Bytecode: "00", Args: []interface{}{1}})
	assert.True(t, errors.Is(err, types.ErrArityMismatch), "got %v", err)
}

func TestNewService_Errors(t *testing.T) {
	_, err := NewService(nil, nil)
	assert.Error(t, err)

	_, err = NewService(clienttest.New(nil), abi.ContractTable{"bad": {Address: "0x12"}})
	assert.True(t, errors.Is(err, types.ErrInvalidHexAddress), "got %v", err)
}
