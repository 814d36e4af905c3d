package contract

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/weisyn/qtum-sdk-go/abi"
)

// DefaultDeployGasLimit createcontract 的默认 gas 上限
const DefaultDeployGasLimit uint64 = 2500000

// DeployRequest 部署合约请求
type DeployRequest struct {
	ABI      abi.ABI       // 合约 ABI，用于编码构造参数
	Bytecode string        // 编译后的字节码（十六进制，可带 0x）
	Args     []interface{} // 构造参数
	GasLimit uint64        // 可选：默认 DefaultDeployGasLimit
	GasPrice string        // 可选：默认 Config.GasPrice
	Sender   string        // 可选：默认 Config.SenderAddress
}

// DeployResult createcontract 返回结果
type DeployResult struct {
	TxID           string `json:"txid"`
	Sender         string `json:"sender"`
	Hash160        string `json:"hash160"`
	Address        string `json:"address"` // 新合约的 raw20 地址
	RawTransaction string `json:"raw transaction"`
}

// Deploy 编码构造参数并通过 createcontract 部署
//
// 部署得到的地址需要调用方自行加入 ContractTable。
func (s *contractService) Deploy(ctx context.Context, req *DeployRequest) (*DeployResult, error) {
	if req == nil || req.Bytecode == "" {
		return nil, fmt.Errorf("bytecode is required")
	}

	data, err := abi.EncodeConstructor(req.ABI, req.Bytecode, req.Args...)
	if err != nil {
		return nil, fmt.Errorf("encode constructor failed: %w", err)
	}

	gasLimit := req.GasLimit
	if gasLimit == 0 {
		gasLimit = DefaultDeployGasLimit
	}
	gasPrice := req.GasPrice
	if gasPrice == "" {
		gasPrice = s.config.GasPrice
	}

	params := []interface{}{data, gasLimit, json.Number(gasPrice)}

	sender, err := s.sender(req.Sender)
	if err != nil {
		return nil, fmt.Errorf("invalid sender: %w", err)
	}
	if sender != "" {
		params = append(params, sender, s.config.Broadcast, s.config.ChangeToSender)
	}

	s.logger.Info("Deploying contract", "bytes", len(data)/2, "gasLimit", gasLimit)

	var result DeployResult
	if err := s.client.Call(ctx, "createcontract", params, &result); err != nil {
		return nil, fmt.Errorf("createcontract failed: %w", err)
	}
	return &result, nil
}
