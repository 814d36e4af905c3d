// Package types 定义 SDK 各层共享的基础类型
//
// 编解码层（abi、address）的所有错误统一使用 *Error，调用方通过
// errors.Is(err, types.ErrTypeMismatch) 这类方式按错误码判断。
package types

import (
	"errors"
	"fmt"
)

// ErrorCode 编解码错误码
type ErrorCode string

const (
	ErrCodeUnsupportedType   ErrorCode = "UNSUPPORTED_TYPE"
	ErrCodeInvalidAbiEntry   ErrorCode = "INVALID_ABI_ENTRY"
	ErrCodeMethodNotFound    ErrorCode = "METHOD_NOT_FOUND"
	ErrCodeAmbiguousMethod   ErrorCode = "AMBIGUOUS_METHOD"
	ErrCodeArityMismatch     ErrorCode = "ARITY_MISMATCH"
	ErrCodeMissingArgument   ErrorCode = "MISSING_ARGUMENT"
	ErrCodeTypeMismatch      ErrorCode = "TYPE_MISMATCH"
	ErrCodeInvalidHexAddress ErrorCode = "INVALID_HEX_ADDRESS"
	ErrCodeEmptyAddress      ErrorCode = "EMPTY_ADDRESS"
	ErrCodeDecode            ErrorCode = "DECODE_ERROR"
)

// 哨兵错误，仅用于 errors.Is 比较
var (
	ErrUnsupportedType   = &Error{Code: ErrCodeUnsupportedType}
	ErrInvalidAbiEntry   = &Error{Code: ErrCodeInvalidAbiEntry}
	ErrMethodNotFound    = &Error{Code: ErrCodeMethodNotFound}
	ErrAmbiguousMethod   = &Error{Code: ErrCodeAmbiguousMethod}
	ErrArityMismatch     = &Error{Code: ErrCodeArityMismatch}
	ErrMissingArgument   = &Error{Code: ErrCodeMissingArgument}
	ErrTypeMismatch      = &Error{Code: ErrCodeTypeMismatch}
	ErrInvalidHexAddress = &Error{Code: ErrCodeInvalidHexAddress}
	ErrEmptyAddress      = &Error{Code: ErrCodeEmptyAddress}
	ErrDecode            = &Error{Code: ErrCodeDecode}
)

// Error 编解码统一错误类型
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause=%v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is 按错误码比较，使 errors.Is(err, ErrTypeMismatch) 对任意消息都成立
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewError 创建错误
func NewError(code ErrorCode, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapError 创建带底层原因的错误
func WrapError(code ErrorCode, cause error, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// CodeOf 返回错误链中第一个 *Error 的错误码，没有则返回空串
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
