package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/weisyn/qtum-sdk-go/abi"
	"github.com/weisyn/qtum-sdk-go/client"
	"github.com/weisyn/qtum-sdk-go/services/event"
	"github.com/weisyn/qtum-sdk-go/services/transaction"
)

// MineBlocks 在 regtest 上生成区块，返回新区块哈希
func MineBlocks(t *testing.T, c client.Client, n int, minerAddress string) []string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), DefaultTimeout)
	defer cancel()

	var hashes []string
	require.NoError(t, c.Call(ctx, "generatetoaddress", []interface{}{n, minerAddress}, &hashes), "生成区块失败")
	return hashes
}

// BlockHeight 当前区块高度
func BlockHeight(t *testing.T, c client.Client) int64 {
	t.Helper()
	events, err := event.NewService(c, nil, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), DefaultTimeout)
	defer cancel()
	height, err := events.BlockCount(ctx)
	require.NoError(t, err, "获取区块高度失败")
	return height
}

// WaitForReceipt 挖一个块并等待交易回执，回执日志按 table 解码
func WaitForReceipt(t *testing.T, c client.Client, table abi.ContractTable, txID, miner string) []*event.Receipt {
	t.Helper()
	events, err := event.NewService(c, table, nil)
	require.NoError(t, err)

	MineBlocks(t, c, 1, miner)

	ctx, cancel := context.WithTimeout(context.Background(), TransactionConfirmTimeout)
	defer cancel()
	receipts, err := transaction.NewService(c, events).WaitForReceipt(ctx, txID, TransactionConfirmInterval)
	require.NoError(t, err, "等待交易回执失败: %s", txID)
	require.NotEmpty(t, receipts)
	return receipts
}
