package client

import (
	"errors"
	"fmt"
)

// Error 客户端错误
type Error struct {
	Code    int
	Message string
	Err     error

	// RPCCode 节点返回的 JSON-RPC 错误码，仅 ErrCodeRPCError 时有效
	RPCCode int
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("client error [%d]: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("client error [%d]: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// 错误码定义
const (
	ErrCodeNetwork         = 1000 // 网络错误
	ErrCodeTimeout         = 1001 // 超时错误
	ErrCodeInvalidResponse = 1002 // 无效响应
	ErrCodeRPCError        = 1003 // JSON-RPC错误
	ErrCodeNotSupported    = 1004 // 不支持的操作
	ErrCodeUnauthorized    = 1005 // rpcuser/rpcpassword 错误
)

// NewNetworkError 创建网络错误
func NewNetworkError(err error) *Error {
	return &Error{
		Code:    ErrCodeNetwork,
		Message: "network error",
		Err:     err,
	}
}

// NewTimeoutError 创建超时错误
func NewTimeoutError(err error) *Error {
	return &Error{
		Code:    ErrCodeTimeout,
		Message: "request timeout",
		Err:     err,
	}
}

// NewInvalidResponseError 创建无效响应错误
func NewInvalidResponseError(message string, err error) *Error {
	return &Error{
		Code:    ErrCodeInvalidResponse,
		Message: message,
		Err:     err,
	}
}

// NewRPCError 创建JSON-RPC错误
func NewRPCError(code int, message string) *Error {
	return &Error{
		Code:    ErrCodeRPCError,
		Message: fmt.Sprintf("RPC error [%d]: %s", code, message),
		RPCCode: code,
	}
}

// NewUnauthorizedError 创建认证失败错误
func NewUnauthorizedError() *Error {
	return &Error{
		Code:    ErrCodeUnauthorized,
		Message: "unauthorized, check rpcuser/rpcpassword",
	}
}

// NewNotSupportedError 创建不支持的操作错误
func NewNotSupportedError(operation string) *Error {
	return &Error{
		Code:    ErrCodeNotSupported,
		Message: fmt.Sprintf("operation not supported: %s", operation),
	}
}

// IsRPCError 检查错误是否为节点返回的 JSON-RPC 错误
func IsRPCError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) && e.Code == ErrCodeRPCError {
		return e, true
	}
	return nil, false
}
