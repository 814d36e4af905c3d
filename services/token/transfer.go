package token

import (
	"context"
	"fmt"
	"math/big"

	"github.com/weisyn/qtum-sdk-go/address"
	"github.com/weisyn/qtum-sdk-go/services/contract"
)

// Transfer 单笔转账
//
// 交易由节点钱包签名，From（或默认发送方）必须是节点钱包中的地址。
func (s *tokenService) Transfer(ctx context.Context, req *TransferRequest) (*TransferResult, error) {
	if req == nil {
		return nil, fmt.Errorf("transfer request is required")
	}
	if err := validateAmount(req.Amount); err != nil {
		return nil, err
	}
	if _, err := address.ToRaw20(req.To); err != nil {
		return nil, fmt.Errorf("invalid recipient: %w", err)
	}

	return s.send(ctx, "transfer", req.To, req.Amount, req.From)
}

// BatchTransfer 批量转账
//
// 逐笔提交，避免节点钱包并发选择同一批 UTXO。单笔失败不中断后续转账。
func (s *tokenService) BatchTransfer(ctx context.Context, req *BatchTransferRequest) (*BatchTransferResult, error) {
	if req == nil || len(req.Transfers) == 0 {
		return nil, fmt.Errorf("transfers list is required")
	}

	out := &BatchTransferResult{
		Results: make([]*TransferResult, len(req.Transfers)),
		Errors:  make(map[int]error),
	}
	for i, item := range req.Transfers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result, err := s.Transfer(ctx, &TransferRequest{To: item.To, Amount: item.Amount, From: req.From})
		if err != nil {
			out.Errors[i] = err
			out.Failed++
			continue
		}
		out.Results[i] = result
	}
	return out, nil
}

// Approve 授权额度
func (s *tokenService) Approve(ctx context.Context, spender string, amount *big.Int, sender string) (*TransferResult, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	return s.send(ctx, "approve", spender, amount, sender)
}

func (s *tokenService) send(ctx context.Context, method, target string, amount *big.Int, sender string) (*TransferResult, error) {
	result, err := s.contract.Send(ctx, &contract.SendRequest{
		Contract: contractKey,
		Method:   method,
		Args:     []interface{}{target, amount},
		Sender:   sender,
	})
	if err != nil {
		return nil, fmt.Errorf("%s failed: %w", method, err)
	}
	return &TransferResult{TxHash: result.TxID, Sender: result.Sender}, nil
}

func validateAmount(amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return fmt.Errorf("amount must be greater than 0")
	}
	return nil
}
