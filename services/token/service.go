package token

import (
	"context"
	"fmt"
	"math/big"

	"github.com/weisyn/qtum-sdk-go/abi"
	"github.com/weisyn/qtum-sdk-go/client"
	"github.com/weisyn/qtum-sdk-go/services"
	"github.com/weisyn/qtum-sdk-go/services/contract"
)

// contractKey QRC20 合约在内部 ContractTable 中的键
const contractKey = "QRC20"

// qrc20ABIJSON 标准 QRC20 接口
const qrc20ABIJSON = `[
	{"constant":true,"inputs":[],"name":"name","outputs":[{"name":"","type":"string"}],"type":"function"},
	{"constant":true,"inputs":[],"name":"symbol","outputs":[{"name":"","type":"string"}],"type":"function"},
	{"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"type":"function"},
	{"constant":true,"inputs":[],"name":"totalSupply","outputs":[{"name":"","type":"uint256"}],"type":"function"},
	{"constant":true,"inputs":[{"name":"_owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"balance","type":"uint256"}],"type":"function"},
	{"constant":true,"inputs":[{"name":"_owner","type":"address"},{"name":"_spender","type":"address"}],"name":"allowance","outputs":[{"name":"remaining","type":"uint256"}],"type":"function"},
	{"constant":false,"inputs":[{"name":"_to","type":"address"},{"name":"_value","type":"uint256"}],"name":"transfer","outputs":[{"name":"success","type":"bool"}],"type":"function"},
	{"constant":false,"inputs":[{"name":"_spender","type":"address"},{"name":"_value","type":"uint256"}],"name":"approve","outputs":[{"name":"success","type":"bool"}],"type":"function"},
	{"anonymous":false,"inputs":[{"indexed":true,"name":"_from","type":"address"},{"indexed":true,"name":"_to","type":"address"},{"indexed":false,"name":"_value","type":"uint256"}],"name":"Transfer","type":"event"},
	{"anonymous":false,"inputs":[{"indexed":true,"name":"_owner","type":"address"},{"indexed":true,"name":"_spender","type":"address"},{"indexed":false,"name":"_value","type":"uint256"}],"name":"Approval","type":"event"}
]`

// ABI 返回标准 QRC20 ABI
func ABI() abi.ABI {
	parsed, err := abi.ParseJSON([]byte(qrc20ABIJSON))
	if err != nil {
		panic(fmt.Sprintf("invalid built-in QRC20 ABI: %v", err))
	}
	return parsed
}

// Service QRC20 代币服务接口
type Service interface {
	// Transfer 单笔转账（sendtocontract）
	Transfer(ctx context.Context, req *TransferRequest) (*TransferResult, error)

	// BatchTransfer 批量转账，按顺序逐笔提交
	BatchTransfer(ctx context.Context, req *BatchTransferRequest) (*BatchTransferResult, error)

	// Approve 授权 spender 使用额度
	Approve(ctx context.Context, spender string, amount *big.Int, sender string) (*TransferResult, error)

	// GetBalance 查询余额（原始单位）
	GetBalance(ctx context.Context, owner string) (*big.Int, error)

	// GetAllowance 查询 owner 授权给 spender 的剩余额度
	GetAllowance(ctx context.Context, owner, spender string) (*big.Int, error)

	// GetInfo 查询代币元数据
	GetInfo(ctx context.Context) (*Info, error)
}

// tokenService Token 服务实现
type tokenService struct {
	contract contract.Service
}

// NewService 创建 QRC20 服务
//
// tokenAddress 可以是 Base58 或十六进制合约地址。
func NewService(cli client.Client, tokenAddress string, cfg *services.Config) (Service, error) {
	table := abi.ContractTable{
		contractKey: {Address: tokenAddress, ABI: ABI()},
	}
	svc, err := contract.NewServiceWithConfig(cli, table, cfg)
	if err != nil {
		return nil, err
	}
	return &tokenService{contract: svc}, nil
}

// TransferRequest 转账请求
type TransferRequest struct {
	To     string   // 接收方地址（Base58 或十六进制）
	Amount *big.Int // 转账数量（原始单位）
	From   string   // 可选：发送方地址，默认 Config.SenderAddress
}

// TransferResult 转账结果
type TransferResult struct {
	TxHash string
	Sender string
}

// BatchTransferRequest 批量转账请求
type BatchTransferRequest struct {
	Transfers []TransferItem
	From      string // 所有转账的发送方
}

// TransferItem 转账项
type TransferItem struct {
	To     string
	Amount *big.Int
}

// BatchTransferResult 批量转账结果
type BatchTransferResult struct {
	Results []*TransferResult // 与 Transfers 一一对应，失败项为 nil
	Failed  int
	Errors  map[int]error
}

// Info 代币元数据
type Info struct {
	Name        string
	Symbol      string
	Decimals    uint8
	TotalSupply *big.Int
}
