package contract

import (
	"context"
	"errors"
	"fmt"

	"github.com/weisyn/qtum-sdk-go/abi"
	"github.com/weisyn/qtum-sdk-go/address"
	"github.com/weisyn/qtum-sdk-go/client"
	"github.com/weisyn/qtum-sdk-go/services"
	"github.com/weisyn/qtum-sdk-go/utils"
)

// ErrUnknownContract 合约键不在 ContractTable 中
var ErrUnknownContract = errors.New("unknown contract")

// Service Contract 业务服务接口
type Service interface {
	// Call 只读调用（callcontract），解码返回值和回执日志
	Call(ctx context.Context, req *CallRequest) (*CallResult, error)

	// BatchCall 并发执行多个只读调用，单个失败不影响其他调用
	BatchCall(ctx context.Context, reqs []*CallRequest) (*utils.BatchQueryResult[*CallResult], error)

	// Send 发送合约交易（sendtocontract）
	Send(ctx context.Context, req *SendRequest) (*SendResult, error)

	// Deploy 部署合约（createcontract）
	Deploy(ctx context.Context, req *DeployRequest) (*DeployResult, error)
}

// contractService Contract 服务实现
type contractService struct {
	client client.Client
	config *services.Config
	table  abi.ContractTable
	index  *abi.TopicIndex
	logger client.Logger
}

// NewService 使用默认配置创建 Contract 服务
func NewService(cli client.Client, table abi.ContractTable) (Service, error) {
	return NewServiceWithConfig(cli, table, nil)
}

// NewServiceWithConfig 创建 Contract 服务
//
// table 在服务生命周期内只读，回执日志按 table 中全部合约的事件解码。
func NewServiceWithConfig(cli client.Client, table abi.ContractTable, cfg *services.Config) (Service, error) {
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

	return &contractService{
		client: cli,
		config: cfg.WithDefaults(),
		table:  table,
		index:  index,
		logger: logger,
	}, nil
}

// resolve 返回合约元数据与 raw20 地址
func (s *contractService) resolve(key string) (abi.ContractMetadata, string, error) {
	meta, ok := s.table[key]
	if !ok {
		return abi.ContractMetadata{}, "", fmt.Errorf("%w: %q", ErrUnknownContract, key)
	}
	raw20, err := address.ToRaw20(meta.Address)
	if err != nil {
		return abi.ContractMetadata{}, "", fmt.Errorf("contract %q: %w", key, err)
	}
	return meta, raw20, nil
}

// sender 选择发送方地址，十六进制地址按节点网络转换为 Base58
func (s *contractService) sender(addr string) (string, error) {
	if addr == "" {
		addr = s.config.SenderAddress
	}
	if addr == "" || !address.IsHex(addr) {
		return addr, nil
	}
	return address.ToChecksummed(addr, s.client.Config().Network)
}

func (s *contractService) decodeOptions() *abi.DecodeOptions {
	return &abi.DecodeOptions{
		RemoveHexPrefix: s.config.RemoveHexPrefix,
		Logger:          s.logger,
	}
}
