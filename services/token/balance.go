package token

import (
	"context"
	"fmt"
	"math/big"

	"github.com/weisyn/qtum-sdk-go/services/contract"
)

// GetBalance 查询余额
func (s *tokenService) GetBalance(ctx context.Context, owner string) (*big.Int, error) {
	result, err := s.contract.Call(ctx, &contract.CallRequest{
		Contract: contractKey,
		Method:   "balanceOf",
		Args:     []interface{}{owner},
	})
	if err != nil {
		return nil, fmt.Errorf("query balance failed: %w", err)
	}
	return bigOutput(result, "balance")
}

// GetAllowance 查询授权额度
func (s *tokenService) GetAllowance(ctx context.Context, owner, spender string) (*big.Int, error) {
	result, err := s.contract.Call(ctx, &contract.CallRequest{
		Contract: contractKey,
		Method:   "allowance",
		Args:     []interface{}{owner, spender},
	})
	if err != nil {
		return nil, fmt.Errorf("query allowance failed: %w", err)
	}
	return bigOutput(result, "remaining")
}

// GetInfo 并发查询 name、symbol、decimals、totalSupply
func (s *tokenService) GetInfo(ctx context.Context) (*Info, error) {
	methods := []string{"name", "symbol", "decimals", "totalSupply"}
	reqs := make([]*contract.CallRequest, len(methods))
	for i, m := range methods {
		reqs[i] = &contract.CallRequest{Contract: contractKey, Method: m}
	}

	batch, err := s.contract.BatchCall(ctx, reqs)
	if err != nil {
		return nil, err
	}
	if len(batch.Errors) > 0 {
		first := batch.Errors[0]
		return nil, fmt.Errorf("query %s failed: %w", methods[first.Index], first.Error)
	}

	info := &Info{}
	for i, result := range batch.Results {
		v := result.Outputs["0"]
		switch methods[batch.Indexes[i]] {
		case "name":
			info.Name, _ = v.(string)
		case "symbol":
			info.Symbol, _ = v.(string)
		case "decimals":
			n, ok := v.(*big.Int)
			if !ok {
				return nil, fmt.Errorf("unexpected decimals output %T", v)
			}
			info.Decimals = uint8(n.Uint64())
		case "totalSupply":
			n, ok := v.(*big.Int)
			if !ok {
				return nil, fmt.Errorf("unexpected totalSupply output %T", v)
			}
			info.TotalSupply = n
		}
	}
	return info, nil
}

func bigOutput(result *contract.CallResult, key string) (*big.Int, error) {
	n, ok := result.Outputs[key].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected %s output %T", key, result.Outputs[key])
	}
	return n, nil
}
