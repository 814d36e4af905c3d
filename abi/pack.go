package abi

import (
	"encoding/hex"
	"encoding/json"
	"math/big"
	"reflect"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/weisyn/qtum-sdk-go/address"
	"github.com/weisyn/qtum-sdk-go/types"
)

// WordSize ABI 编码的基本单位
const WordSize = 32

// packInline 编码头部内联的值：标量占 1 个 Word，定长数组占 k 个 Word
func packInline(t Type, v interface{}) ([]byte, error) {
	switch t.Kind {
	case AddressTy:
		return packAddress(v)
	case BoolTy:
		b, ok := v.(bool)
		if !ok {
			return nil, mismatch(t, v)
		}
		if b {
			return math.PaddedBigBytes(common.Big1, WordSize), nil
		}
		return make([]byte, WordSize), nil
	case IntTy, UintTy:
		return packInteger(t, v)
	case FixedBytesTy:
		b, err := toBytes(t, v)
		if err != nil {
			return nil, err
		}
		if len(b) > t.Size {
			return nil, types.NewError(types.ErrCodeTypeMismatch, "%s: value has %d bytes", t, len(b))
		}
		return common.RightPadBytes(b, WordSize), nil
	case StringTy, BytesTy:
		// 定长数组中的动态元素：右侧补零到一个 Word
		b, err := toBytes(t, v)
		if err != nil {
			return nil, err
		}
		if len(b) > WordSize {
			return nil, types.NewError(types.ErrCodeTypeMismatch, "%s element exceeds %d bytes", t, WordSize)
		}
		return common.RightPadBytes(b, WordSize), nil
	case ArrayTy:
		return packFixedArray(t, v)
	default:
		return nil, unsupported(t.raw, "cannot be encoded inline")
	}
}

// packTail 编码动态类型的尾部数据：长度 Word + 元素
func packTail(t Type, v interface{}) ([]byte, error) {
	switch t.Kind {
	case BytesTy, StringTy:
		b, err := toBytes(t, v)
		if err != nil {
			return nil, err
		}
		out := packLength(len(b))
		if len(b) > 0 {
			padded := (len(b) + WordSize - 1) / WordSize * WordSize
			out = append(out, common.RightPadBytes(b, padded)...)
		}
		return out, nil
	case SliceTy:
		if t.Elem.IsDynamic() {
			return nil, unsupported(t.raw, "dynamic arrays of dynamic elements are not supported")
		}
		rv, err := sliceValue(t, v)
		if err != nil {
			return nil, err
		}
		out := packLength(rv.Len())
		for i := 0; i < rv.Len(); i++ {
			elem := rv.Index(i).Interface()
			if isNil(elem) {
				return nil, types.NewError(types.ErrCodeMissingArgument, "%s: element %d is missing", t, i)
			}
			word, err := packInline(*t.Elem, elem)
			if err != nil {
				return nil, err
			}
			out = append(out, word...)
		}
		return out, nil
	default:
		return nil, unsupported(t.raw, "is not a dynamic type")
	}
}

// packFixedArray 定长数组：k 个连续 Word，不带长度前缀；元素不足时补零 Word
func packFixedArray(t Type, v interface{}) ([]byte, error) {
	rv, err := sliceValue(t, v)
	if err != nil {
		return nil, err
	}
	if rv.Len() > t.Size {
		return nil, types.NewError(types.ErrCodeTypeMismatch, "%s: got %d elements", t, rv.Len())
	}

	out := make([]byte, 0, t.Size*WordSize)
	for i := 0; i < rv.Len(); i++ {
		elem := rv.Index(i).Interface()
		if isNil(elem) {
			return nil, types.NewError(types.ErrCodeMissingArgument, "%s: element %d is missing", t, i)
		}
		word, err := packInline(*t.Elem, elem)
		if err != nil {
			return nil, err
		}
		out = append(out, word...)
	}
	return common.RightPadBytes(out, t.Size*WordSize), nil
}

func packLength(n int) []byte {
	return math.PaddedBigBytes(big.NewInt(int64(n)), WordSize)
}

// packAddress raw20 左侧补零到 32 字节
func packAddress(v interface{}) ([]byte, error) {
	var raw []byte
	switch a := v.(type) {
	case string:
		b, err := address.ToBytes(a)
		if err != nil {
			return nil, err
		}
		raw = b
	case common.Address:
		raw = a.Bytes()
	case *common.Address:
		raw = a.Bytes()
	case [20]byte:
		raw = a[:]
	case []byte:
		if len(a) != address.Raw20Length {
			return nil, types.NewError(types.ErrCodeTypeMismatch, "address: expected %d bytes, got %d", address.Raw20Length, len(a))
		}
		raw = a
	default:
		return nil, types.NewError(types.ErrCodeTypeMismatch, "address: unsupported value %T", v)
	}
	return common.LeftPadBytes(raw, WordSize), nil
}

// packInteger intN 使用 256 位补码，负数左侧填充 0xff；uintN 左侧补零
func packInteger(t Type, v interface{}) ([]byte, error) {
	n, err := toBigInt(t, v)
	if err != nil {
		return nil, err
	}

	if t.Kind == UintTy {
		if n.Sign() < 0 || n.BitLen() > t.Size {
			return nil, types.NewError(types.ErrCodeTypeMismatch, "%s: value %s out of range", t, n)
		}
	} else {
		limit := new(big.Int).Lsh(common.Big1, uint(t.Size-1))
		minimum := new(big.Int).Neg(limit)
		maximum := new(big.Int).Sub(limit, common.Big1)
		if n.Cmp(minimum) < 0 || n.Cmp(maximum) > 0 {
			return nil, types.NewError(types.ErrCodeTypeMismatch, "%s: value %s out of range", t, n)
		}
	}
	// U256Bytes 会原地修改参数
	return math.U256Bytes(new(big.Int).Set(n)), nil
}

func toBigInt(t Type, v interface{}) (*big.Int, error) {
	switch n := v.(type) {
	case *big.Int:
		return n, nil
	case big.Int:
		return &n, nil
	case int:
		return big.NewInt(int64(n)), nil
	case int8:
		return big.NewInt(int64(n)), nil
	case int16:
		return big.NewInt(int64(n)), nil
	case int32:
		return big.NewInt(int64(n)), nil
	case int64:
		return big.NewInt(n), nil
	case uint:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint64:
		return new(big.Int).SetUint64(n), nil
	case json.Number:
		return parseBigInt(t, string(n))
	case string:
		return parseBigInt(t, n)
	default:
		return nil, mismatch(t, v)
	}
}

// parseBigInt 接受十进制或 0x 十六进制，十六进制允许带负号
func parseBigInt(t Type, s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	neg := strings.HasPrefix(s, "-")
	body := strings.TrimPrefix(s, "-")

	base := 10
	if has0xPrefix(body) {
		base = 16
		body = body[2:]
	}
	n, ok := new(big.Int).SetString(body, base)
	if !ok || body == "" {
		return nil, types.NewError(types.ErrCodeTypeMismatch, "%s: cannot parse %q as integer", t, s)
	}
	if neg {
		n.Neg(n)
	}
	return n, nil
}

// toBytes 字节类参数：[]byte、[N]byte、0x 十六进制字符串，或按 UTF-8 取字节的普通字符串
func toBytes(t Type, v interface{}) ([]byte, error) {
	switch b := v.(type) {
	case []byte:
		return b, nil
	case common.Hash:
		return b.Bytes(), nil
	case string:
		if t.Kind != StringTy && has0xPrefix(b) {
			decoded, err := hex.DecodeString(b[2:])
			if err != nil {
				return nil, types.WrapError(types.ErrCodeTypeMismatch, err, "%s: invalid hex %q", t, b)
			}
			return decoded, nil
		}
		return []byte(b), nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Array && rv.Type().Elem().Kind() == reflect.Uint8 {
		out := make([]byte, rv.Len())
		reflect.Copy(reflect.ValueOf(out), rv)
		return out, nil
	}
	return nil, mismatch(t, v)
}

// sliceValue 数组类型参数必须是 Go 切片或数组
func sliceValue(t Type, v interface{}) (reflect.Value, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return rv, nil
	default:
		return reflect.Value{}, types.NewError(types.ErrCodeTypeMismatch, "%s: expected a list, got %T", t, v)
	}
}

func isNil(v interface{}) bool {
	if v == nil {
		return true
	}
	// nil 切片按空列表/空字节处理，不算缺失
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map:
		return rv.IsNil()
	}
	return false
}

func has0xPrefix(s string) bool {
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

func mismatch(t Type, v interface{}) error {
	return types.NewError(types.ErrCodeTypeMismatch, "%s: unsupported value %T", t, v)
}
