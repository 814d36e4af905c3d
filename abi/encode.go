package abi

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/weisyn/qtum-sdk-go/types"
)

// EncodeCall 编码合约调用数据：选择器 + 参数块，返回不带 0x 前缀的小写十六进制
//
// 示例：
//
//	data, err := abi.EncodeCall(contractABI, "transfer", "qKjn4fStBaAtwGiwueJf9qFxgpbAvf1xAy", big.NewInt(100))
func EncodeCall(contract ABI, method string, args ...interface{}) (string, error) {
	entry, err := contract.Method(method)
	if err != nil {
		return "", err
	}
	data, err := entry.Pack(args...)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(data), nil
}

// EncodeConstructor 合约字节码 + 构造参数块，用于部署
func EncodeConstructor(contract ABI, bytecode string, args ...interface{}) (string, error) {
	code := strings.TrimPrefix(strings.TrimPrefix(bytecode, "0x"), "0X")
	if _, err := hex.DecodeString(code); err != nil {
		return "", fmt.Errorf("invalid bytecode: %w", err)
	}

	ctor := contract.Constructor()
	if ctor == nil {
		if len(args) != 0 {
			return "", types.NewError(types.ErrCodeArityMismatch, "constructor: expected 0 arguments, got %d", len(args))
		}
		return strings.ToLower(code), nil
	}

	params, err := ctor.Inputs.Pack(args...)
	if err != nil {
		return "", err
	}
	return strings.ToLower(code) + hex.EncodeToString(params), nil
}

// Pack 选择器 + 参数块
func (e Entry) Pack(args ...interface{}) ([]byte, error) {
	selector, err := FunctionSelector(e)
	if err != nil {
		return nil, err
	}
	if len(args) != len(e.Inputs) {
		return nil, types.NewError(types.ErrCodeArityMismatch, "%s: expected %d arguments, got %d", e.Name, len(e.Inputs), len(args))
	}
	params, err := e.Inputs.Pack(args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.Name, err)
	}
	return append(selector, params...), nil
}

// Pack 按头/尾布局编码参数块（不含选择器）
//
// 头部：静态值直接写入；定长数组占 k 个槽位；动态值写入指向尾部的字节偏移。
// 尾部：按动态参数出现的顺序追加，每块为长度 Word + 元素。
// 偏移以参数块起点为基准，初始 tailOffset 为头部槽位总数。
func (arguments Arguments) Pack(args ...interface{}) ([]byte, error) {
	if len(args) != len(arguments) {
		return nil, types.NewError(types.ErrCodeArityMismatch, "expected %d arguments, got %d", len(arguments), len(args))
	}
	ts, err := arguments.parseTypes()
	if err != nil {
		return nil, err
	}

	tailOffset := 0
	for _, t := range ts {
		tailOffset += t.headSlots()
	}

	var head, tail []byte
	for i, t := range ts {
		v := args[i]
		if isNil(v) {
			return nil, types.NewError(types.ErrCodeMissingArgument, "argument %d (%s %s) is missing", i, t, arguments[i].Name)
		}

		if !t.usesTail() {
			words, err := packInline(t, v)
			if err != nil {
				return nil, fmt.Errorf("argument %d (%s): %w", i, arguments[i].Name, err)
			}
			head = append(head, words...)
			continue
		}

		block, err := packTail(t, v)
		if err != nil {
			return nil, fmt.Errorf("argument %d (%s): %w", i, arguments[i].Name, err)
		}
		head = append(head, packLength(tailOffset*WordSize)...)
		tail = append(tail, block...)
		tailOffset += len(block) / WordSize
	}

	return append(head, tail...), nil
}
