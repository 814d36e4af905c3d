package event

import (
	"context"
	"fmt"
	"sort"

	"github.com/weisyn/qtum-sdk-go/abi"
	"github.com/weisyn/qtum-sdk-go/address"
	"github.com/weisyn/qtum-sdk-go/client"
	"github.com/weisyn/qtum-sdk-go/services"
	"github.com/weisyn/qtum-sdk-go/utils"
)

// LatestBlock searchlogs 中表示最新区块的块高
const LatestBlock int64 = -1

// Service Event 业务服务接口
type Service interface {
	// SearchLogs 按区块范围查询回执（searchlogs）并解码其中的事件日志
	SearchLogs(ctx context.Context, filters *LogFilters) ([]*Receipt, error)

	// GetReceipt 查询单笔交易的回执（gettransactionreceipt），交易未上链时返回空切片
	GetReceipt(ctx context.Context, txID string) ([]*Receipt, error)

	// BlockCount 当前最新块高（getblockcount）
	BlockCount(ctx context.Context) (int64, error)
}

// eventService Event 服务实现
type eventService struct {
	client client.Client
	config *services.Config
	table  abi.ContractTable
	index  *abi.TopicIndex
	logger client.Logger
}

// NewService 创建 Event 服务
func NewService(cli client.Client, table abi.ContractTable, cfg *services.Config) (Service, error) {
	if cli == nil {
		return nil, fmt.Errorf("client is required")
	}
	index, err := abi.NewTopicIndex(table)
	if err != nil {
		return nil, fmt.Errorf("build topic index failed: %w", err)
	}
	logger := cli.Config().Logger
	if logger == nil {
		logger = client.NopLogger()
	}
	return &eventService{
		client: cli,
		config: cfg.WithDefaults(),
		table:  table,
		index:  index,
		logger: logger,
	}, nil
}

// LogFilters 日志查询过滤器
type LogFilters struct {
	FromBlock int64
	ToBlock   int64 // LatestBlock 表示最新块

	// Contracts 限定的合约键，为空时使用 ContractTable 中所有带地址的合约
	Contracts []string
	// Topics 按位置匹配的 topic，可带 0x 前缀
	Topics []string
	// MinConf 最少确认数
	MinConf int
}

// Receipt 带解码日志的交易回执
type Receipt struct {
	BlockHash         string
	BlockNumber       int64
	TransactionHash   string
	TransactionIndex  int
	From              string
	To                string
	ContractAddress   string
	CumulativeGasUsed int64
	GasUsed           int64
	Excepted          string
	Logs              []*abi.DecodedLog
}

// rawReceipt searchlogs 返回的单条回执
type rawReceipt struct {
	BlockHash         string    `json:"blockHash"`
	BlockNumber       int64     `json:"blockNumber"`
	TransactionHash   string    `json:"transactionHash"`
	TransactionIndex  int       `json:"transactionIndex"`
	From              string    `json:"from"`
	To                string    `json:"to"`
	CumulativeGasUsed int64     `json:"cumulativeGasUsed"`
	GasUsed           int64     `json:"gasUsed"`
	ContractAddress   string    `json:"contractAddress"`
	Excepted          string    `json:"excepted"`
	Log               []abi.Log `json:"log"`
}

// SearchLogs 查询并解码事件日志
//
// 回执之间并发解码；单条日志解码失败记录在 DecodedLog.Err 中，不影响整批结果。
func (s *eventService) SearchLogs(ctx context.Context, filters *LogFilters) ([]*Receipt, error) {
	if filters == nil {
		filters = &LogFilters{ToBlock: LatestBlock}
	}

	addrs, err := s.addresses(filters.Contracts)
	if err != nil {
		return nil, err
	}
	topics := make([]string, len(filters.Topics))
	for i, t := range filters.Topics {
		topics[i] = abi.TrimHexPrefix(t)
	}

	params := []interface{}{
		filters.FromBlock,
		filters.ToBlock,
		map[string]interface{}{"addresses": addrs},
	}
	if len(topics) > 0 || filters.MinConf > 0 {
		params = append(params, map[string]interface{}{"topics": topics})
	}
	if filters.MinConf > 0 {
		params = append(params, filters.MinConf)
	}

	var raws []rawReceipt
	if err := s.client.Call(ctx, "searchlogs", params, &raws); err != nil {
		return nil, fmt.Errorf("searchlogs failed: %w", err)
	}

	receipts, err := s.decodeReceipts(ctx, raws)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Logs searched", "from", filters.FromBlock, "to", filters.ToBlock, "receipts", len(receipts))
	return receipts, nil
}

// GetReceipt 查询并解码单笔交易的回执
func (s *eventService) GetReceipt(ctx context.Context, txID string) ([]*Receipt, error) {
	txID = abi.TrimHexPrefix(txID)
	if txID == "" {
		return nil, fmt.Errorf("transaction id is required")
	}

	var raws []rawReceipt
	if err := s.client.Call(ctx, "gettransactionreceipt", []interface{}{txID}, &raws); err != nil {
		return nil, fmt.Errorf("gettransactionreceipt failed: %w", err)
	}
	return s.decodeReceipts(ctx, raws)
}

// decodeReceipts 并发解码回执中的日志，结果保持输入顺序
func (s *eventService) decodeReceipts(ctx context.Context, raws []rawReceipt) ([]*Receipt, error) {
	opts := &abi.DecodeOptions{
		RemoveHexPrefix: s.config.RemoveHexPrefix,
		Logger:          s.logger,
	}
	return utils.ParallelExecute(ctx, raws, func(ctx context.Context, r rawReceipt) (*Receipt, error) {
		return &Receipt{
			BlockHash:         r.BlockHash,
			BlockNumber:       r.BlockNumber,
			TransactionHash:   r.TransactionHash,
			TransactionIndex:  r.TransactionIndex,
			From:              r.From,
			To:                r.To,
			ContractAddress:   r.ContractAddress,
			CumulativeGasUsed: r.CumulativeGasUsed,
			GasUsed:           r.GasUsed,
			Excepted:          r.Excepted,
			Logs:              s.index.Decode(r.Log, opts),
		}, nil
	}, s.config.Concurrency)
}

// addresses 把合约键解析为 raw20 地址列表
func (s *eventService) addresses(keys []string) ([]string, error) {
	addrs := make([]string, 0, len(keys))
	if len(keys) == 0 {
		for _, meta := range s.table {
			if meta.Address == "" {
				continue
			}
			raw20, err := address.ToRaw20(meta.Address)
			if err != nil {
				return nil, err
			}
			addrs = append(addrs, raw20)
		}
		sort.Strings(addrs)
		return addrs, nil
	}

	for _, key := range keys {
		meta, ok := s.table[key]
		if !ok {
			return nil, fmt.Errorf("unknown contract %q", key)
		}
		raw20, err := address.ToRaw20(meta.Address)
		if err != nil {
			return nil, fmt.Errorf("contract %q: %w", key, err)
		}
		addrs = append(addrs, raw20)
	}
	return addrs, nil
}

// BlockCount 当前最新块高
func (s *eventService) BlockCount(ctx context.Context) (int64, error) {
	var height int64
	if err := s.client.Call(ctx, "getblockcount", nil, &height); err != nil {
		return 0, fmt.Errorf("getblockcount failed: %w", err)
	}
	return height, nil
}
