package contract

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/weisyn/qtum-sdk-go/abi"
)

// SendRequest 合约交易请求
type SendRequest struct {
	Contract string        // ContractTable 中的合约键
	Method   string        // 方法名
	Args     []interface{} // 方法参数
	Amount   string        // 可选：附带的 QTUM 数量（十进制），默认 0
	GasLimit uint64        // 可选：默认 Config.GasLimit
	GasPrice string        // 可选：默认 Config.GasPrice
	Sender   string        // 可选：默认 Config.SenderAddress
}

// SendResult sendtocontract 返回结果
//
// Broadcast=false 时节点只返回 RawTransaction。
type SendResult struct {
	TxID           string `json:"txid"`
	Sender         string `json:"sender"`
	Hash160        string `json:"hash160"`
	RawTransaction string `json:"raw transaction"`
}

// Send 编码调用数据并通过 sendtocontract 提交
//
// 节点钱包负责签名，发送方地址必须在节点钱包中。
func (s *contractService) Send(ctx context.Context, req *SendRequest) (*SendResult, error) {
	if req == nil || req.Method == "" {
		return nil, fmt.Errorf("method name is required")
	}

	meta, contractHex, err := s.resolve(req.Contract)
	if err != nil {
		return nil, err
	}
	data, err := abi.EncodeCall(meta.ABI, req.Method, req.Args...)
	if err != nil {
		return nil, fmt.Errorf("encode %s.%s failed: %w", req.Contract, req.Method, err)
	}

	amount := req.Amount
	if amount == "" {
		amount = "0"
	}
	gasLimit := req.GasLimit
	if gasLimit == 0 {
		gasLimit = s.config.GasLimit
	}
	gasPrice := req.GasPrice
	if gasPrice == "" {
		gasPrice = s.config.GasPrice
	}

	params := []interface{}{contractHex, data, json.Number(amount), gasLimit, json.Number(gasPrice)}

	sender, err := s.sender(req.Sender)
	if err != nil {
		return nil, fmt.Errorf("invalid sender: %w", err)
	}
	// senderaddress 之后的参数是位置参数，没有发送方时只能使用节点默认值
	if sender != "" {
		params = append(params, sender, s.config.Broadcast, s.config.ChangeToSender)
	}

	s.logger.Info("Sending contract transaction", "contract", req.Contract, "method", req.Method, "gasLimit", gasLimit)

	var result SendResult
	if err := s.client.Call(ctx, "sendtocontract", params, &result); err != nil {
		return nil, fmt.Errorf("sendtocontract failed: %w", err)
	}
	return &result, nil
}
