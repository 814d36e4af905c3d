package abi

import (
	"encoding/hex"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/weisyn/qtum-sdk-go/types"
)

// SelectorLength 函数选择器字节数
const SelectorLength = 4

// Signature 返回规范签名 name(type1,type2,...)
//
// 直接使用 ABI 中的原始类型字符串拼接，不做重新序列化。
func (e Entry) Signature() (string, error) {
	if e.Type != Function && e.Type != Event {
		return "", types.NewError(types.ErrCodeInvalidAbiEntry, "%s entry has no signature", e.Type)
	}
	if e.Name == "" {
		return "", types.NewError(types.ErrCodeInvalidAbiEntry, "%s entry without name", e.Type)
	}
	if e.Inputs == nil {
		return "", types.NewError(types.ErrCodeInvalidAbiEntry, "%s %q without inputs", e.Type, e.Name)
	}

	ts := make([]string, len(e.Inputs))
	for i, in := range e.Inputs {
		ts[i] = in.Type
	}
	return e.Name + "(" + strings.Join(ts, ",") + ")", nil
}

// FunctionSelector Keccak-256(signature) 的前 4 字节
func FunctionSelector(e Entry) ([]byte, error) {
	sig, err := e.Signature()
	if err != nil {
		return nil, err
	}
	return crypto.Keccak256([]byte(sig))[:SelectorLength], nil
}

// EventTopic Keccak-256(signature) 全部 32 字节
func EventTopic(e Entry) ([]byte, error) {
	sig, err := e.Signature()
	if err != nil {
		return nil, err
	}
	return crypto.Keccak256([]byte(sig)), nil
}

// MethodID 十六进制函数选择器（8 个字符，无 0x 前缀）
func MethodID(e Entry) (string, error) {
	sel, err := FunctionSelector(e)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(sel), nil
}

// TopicHex 十六进制事件 topic（64 个字符，无 0x 前缀）
func TopicHex(e Entry) (string, error) {
	topic, err := EventTopic(e)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(topic), nil
}
