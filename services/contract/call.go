package contract

import (
	"context"
	"fmt"

	"github.com/weisyn/qtum-sdk-go/abi"
	"github.com/weisyn/qtum-sdk-go/utils"
)

// CallRequest 只读调用请求
type CallRequest struct {
	Contract string        // ContractTable 中的合约键
	Method   string        // 方法名
	Args     []interface{} // 方法参数
	Sender   string        // 可选：msg.sender，为空时使用 Config.SenderAddress
}

// ExecutionResult callcontract 返回的执行结果
type ExecutionResult struct {
	GasUsed         int64  `json:"gasUsed"`
	Excepted        string `json:"excepted"`
	ExceptedMessage string `json:"exceptedMessage"`
	NewAddress      string `json:"newAddress"`
	Output          string `json:"output"`
	GasRefunded     int64  `json:"gasRefunded"`
}

// CallResult 只读调用结果
type CallResult struct {
	Address   string            // 合约地址（raw20）
	Execution ExecutionResult   // 节点原始执行结果
	Outputs   abi.Record        // 按 outputs 解码的返回值
	Logs      []*abi.DecodedLog // 回执中的事件日志
}

// ExecutionError 合约执行异常（revert、out of gas 等）
type ExecutionError struct {
	Contract string
	Method   string
	Excepted string
	Message  string
	GasUsed  int64
}

func (e *ExecutionError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s.%s excepted: %s (%s)", e.Contract, e.Method, e.Excepted, e.Message)
	}
	return fmt.Sprintf("%s.%s excepted: %s", e.Contract, e.Method, e.Excepted)
}

type callContractResponse struct {
	Address            string          `json:"address"`
	ExecutionResult    ExecutionResult `json:"executionResult"`
	TransactionReceipt struct {
		StateRoot string    `json:"stateRoot"`
		GasUsed   int64     `json:"gasUsed"`
		Log       []abi.Log `json:"log"`
	} `json:"transactionReceipt"`
}

// Call 只读调用合约方法
func (s *contractService) Call(ctx context.Context, req *CallRequest) (*CallResult, error) {
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

	params := []interface{}{contractHex, data}
	sender, err := s.sender(req.Sender)
	if err != nil {
		return nil, fmt.Errorf("invalid sender: %w", err)
	}
	if sender != "" {
		params = append(params, sender)
	}

	var resp callContractResponse
	if err := s.client.Call(ctx, "callcontract", params, &resp); err != nil {
		return nil, fmt.Errorf("callcontract failed: %w", err)
	}

	exec := resp.ExecutionResult
	if exec.Excepted != "" && exec.Excepted != "None" {
		return nil, &ExecutionError{
			Contract: req.Contract,
			Method:   req.Method,
			Excepted: exec.Excepted,
			Message:  exec.ExceptedMessage,
			GasUsed:  exec.GasUsed,
		}
	}

	opts := s.decodeOptions()
	outputs, err := abi.DecodeCall(meta.ABI, req.Method, exec.Output, opts)
	if err != nil {
		return nil, fmt.Errorf("decode %s.%s output failed: %w", req.Contract, req.Method, err)
	}

	s.logger.Debug("Contract call decoded", "contract", req.Contract, "method", req.Method, "gasUsed", exec.GasUsed)

	return &CallResult{
		Address:   resp.Address,
		Execution: exec,
		Outputs:   outputs,
		Logs:      s.index.Decode(resp.TransactionReceipt.Log, opts),
	}, nil
}

// BatchCall 并发执行多个只读调用
func (s *contractService) BatchCall(ctx context.Context, reqs []*CallRequest) (*utils.BatchQueryResult[*CallResult], error) {
	return utils.BatchQuery(ctx, reqs, func(ctx context.Context, req *CallRequest, index int) (*CallResult, error) {
		return s.Call(ctx, req)
	}, &utils.BatchConfig{
		BatchSize:   50,
		Concurrency: s.config.Concurrency,
	})
}
