package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/weisyn/qtum-sdk-go/abi"
	"github.com/weisyn/qtum-sdk-go/client"
	"github.com/weisyn/qtum-sdk-go/services/event"
)

// DefaultPollInterval WaitForReceipt 默认轮询间隔
const DefaultPollInterval = 2 * time.Second

// Service Transaction 业务服务接口
type Service interface {
	// GetTransaction 获取交易信息（getrawtransaction verbose）
	GetTransaction(ctx context.Context, txID string) (*TransactionInfo, error)

	// SubmitRawTransaction 广播已签名的原始交易（sendrawtransaction）
	SubmitRawTransaction(ctx context.Context, signedTxHex string) (string, error)

	// WaitForReceipt 轮询直到交易回执出现或 ctx 结束
	WaitForReceipt(ctx context.Context, txID string, interval time.Duration) ([]*event.Receipt, error)
}

// transactionService Transaction 服务实现
type transactionService struct {
	client client.Client
	events event.Service
}

// NewService 创建 Transaction 服务，回执日志由 events 解码
func NewService(cli client.Client, events event.Service) Service {
	return &transactionService{
		client: cli,
		events: events,
	}
}

// TransactionInfo 交易信息
type TransactionInfo struct {
	TxID          string
	Hash          string
	Size          int
	BlockHash     string
	Confirmations int64
	Status        string // "pending" | "confirmed"
	Timestamp     time.Time
}

type rawTransaction struct {
	TxID          string `json:"txid"`
	Hash          string `json:"hash"`
	Size          int    `json:"size"`
	BlockHash     string `json:"blockhash"`
	Confirmations int64  `json:"confirmations"`
	Time          int64  `json:"time"`
	BlockTime     int64  `json:"blocktime"`
}

// GetTransaction 获取交易信息
func (s *transactionService) GetTransaction(ctx context.Context, txID string) (*TransactionInfo, error) {
	txID = abi.TrimHexPrefix(txID)
	if txID == "" {
		return nil, fmt.Errorf("transaction id is required")
	}

	var raw rawTransaction
	if err := s.client.Call(ctx, "getrawtransaction", []interface{}{txID, true}, &raw); err != nil {
		return nil, fmt.Errorf("get transaction failed: %w", err)
	}

	info := &TransactionInfo{
		TxID:          raw.TxID,
		Hash:          raw.Hash,
		Size:          raw.Size,
		BlockHash:     raw.BlockHash,
		Confirmations: raw.Confirmations,
		Status:        "pending",
	}
	if raw.Confirmations > 0 {
		info.Status = "confirmed"
	}
	switch {
	case raw.BlockTime > 0:
		info.Timestamp = time.Unix(raw.BlockTime, 0).UTC()
	case raw.Time > 0:
		info.Timestamp = time.Unix(raw.Time, 0).UTC()
	}
	return info, nil
}

// SubmitRawTransaction 广播已签名交易，返回交易哈希
func (s *transactionService) SubmitRawTransaction(ctx context.Context, signedTxHex string) (string, error) {
	signedTxHex = abi.TrimHexPrefix(signedTxHex)
	if signedTxHex == "" {
		return "", fmt.Errorf("signed transaction is required")
	}

	var txID string
	if err := s.client.Call(ctx, "sendrawtransaction", []interface{}{signedTxHex}, &txID); err != nil {
		return "", fmt.Errorf("send raw transaction failed: %w", err)
	}
	return txID, nil
}

// WaitForReceipt 轮询交易回执
func (s *transactionService) WaitForReceipt(ctx context.Context, txID string, interval time.Duration) ([]*event.Receipt, error) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		receipts, err := s.events.GetReceipt(ctx, txID)
		if err != nil {
			return nil, err
		}
		if len(receipts) > 0 {
			return receipts, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("wait for receipt of %s: %w", txID, ctx.Err())
		case <-ticker.C:
		}
	}
}
