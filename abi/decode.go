package abi

import (
	"bytes"
	"encoding/hex"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/weisyn/qtum-sdk-go/types"
)

// Record 解码结果，键为参数名，参数名为空时为位置下标
type Record map[string]interface{}

// Logger 解码过程中可恢复错误的输出目标，client.Logger 满足此接口
type Logger interface {
	Warn(msg string, args ...interface{})
}

// DecodeOptions 解码选项
type DecodeOptions struct {
	// RemoveHexPrefix 去掉所有十六进制字段（address、bytes、bytesN、topic 哈希）的 0x 前缀
	RemoveHexPrefix bool

	// Logger 日志解码失败时的警告输出（可选）
	Logger Logger
}

// DecodeCall 解码 callcontract 返回的 output
func DecodeCall(contract ABI, method string, output string, opts *DecodeOptions) (Record, error) {
	entry, err := contract.Method(method)
	if err != nil {
		return nil, err
	}
	data, err := decodeHex(output)
	if err != nil {
		return nil, err
	}

	rec, err := entry.Outputs.UnpackRecord(data)
	if err != nil {
		return nil, err
	}
	if opts != nil && opts.RemoveHexPrefix {
		if err := entry.Outputs.stripHexPrefix(rec); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

// UnpackRecord 解码参数块为 Record
func (arguments Arguments) UnpackRecord(data []byte) (Record, error) {
	values, err := arguments.Unpack(data)
	if err != nil {
		return nil, err
	}
	rec := make(Record, len(values))
	for i, v := range values {
		rec[arguments.key(i)] = v
	}
	return rec, nil
}

// Unpack 按头/尾布局解码参数块，返回与参数顺序一致的值
func (arguments Arguments) Unpack(data []byte) ([]interface{}, error) {
	ts, err := arguments.parseTypes()
	if err != nil {
		return nil, err
	}

	minHead := 0
	for _, t := range ts {
		minHead += t.headSlots() * WordSize
	}
	if len(data) < minHead {
		return nil, types.NewError(types.ErrCodeDecode, "output has %d bytes, head requires %d", len(data), minHead)
	}

	values := make([]interface{}, len(ts))
	offset := 0
	for i, t := range ts {
		if t.usesTail() {
			start, err := readSize(data[offset:offset+WordSize], len(data), "offset")
			if err != nil {
				return nil, err
			}
			v, err := unpackTail(t, data, start)
			if err != nil {
				return nil, err
			}
			values[i] = v
			offset += WordSize
			continue
		}

		v, err := unpackInline(t, data[offset:])
		if err != nil {
			return nil, err
		}
		values[i] = v
		offset += t.headSlots() * WordSize
	}
	return values, nil
}

// tt256 2^256，补码转换用
var tt256 = new(big.Int).Lsh(common.Big1, 256)

// readSigned 按 256 位补码读取有符号整数，最高位为 1 时为负数
func readSigned(word []byte) *big.Int {
	n := new(big.Int).SetBytes(word)
	if word[0]&0x80 != 0 {
		n.Sub(n, tt256)
	}
	return n
}

// unpackInline 解码头部内联值，调用方保证 data 至少有 headSlots 个 Word
func unpackInline(t Type, data []byte) (interface{}, error) {
	word := data[:WordSize]
	switch t.Kind {
	case AddressTy:
		return "0x" + hex.EncodeToString(word[WordSize-20:]), nil
	case BoolTy:
		n := new(big.Int).SetBytes(word)
		if n.BitLen() > 1 {
			return nil, types.NewError(types.ErrCodeDecode, "bool: invalid word %x", word)
		}
		return n.Sign() == 1, nil
	case UintTy:
		return new(big.Int).SetBytes(word), nil
	case IntTy:
		return readSigned(word), nil
	case FixedBytesTy:
		return "0x" + hex.EncodeToString(word[:t.Size]), nil
	case StringTy:
		return string(bytes.TrimRight(word, "\x00")), nil
	case BytesTy:
		return "0x" + hex.EncodeToString(bytes.TrimRight(word, "\x00")), nil
	case ArrayTy:
		out := make([]interface{}, t.Size)
		for i := 0; i < t.Size; i++ {
			v, err := unpackInline(*t.Elem, data[i*WordSize:])
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	default:
		return nil, unsupported(t.raw, "cannot be decoded inline")
	}
}

// unpackTail 从 start 处读取长度前缀的尾部数据
func unpackTail(t Type, data []byte, start int) (interface{}, error) {
	if start+WordSize > len(data) {
		return nil, types.NewError(types.ErrCodeDecode, "%s: offset %d beyond output length %d", t, start, len(data))
	}
	n, err := readSize(data[start:start+WordSize], len(data), "length")
	if err != nil {
		return nil, err
	}
	body := start + WordSize

	switch t.Kind {
	case BytesTy, StringTy:
		if body+n > len(data) {
			return nil, types.NewError(types.ErrCodeDecode, "%s: length %d beyond output", t, n)
		}
		b := data[body : body+n]
		if t.Kind == StringTy {
			return string(b), nil
		}
		return "0x" + hex.EncodeToString(b), nil
	case SliceTy:
		if t.Elem.IsDynamic() {
			return nil, unsupported(t.raw, "dynamic arrays of dynamic elements are not supported")
		}
		if n > (len(data)-body)/WordSize {
			return nil, types.NewError(types.ErrCodeDecode, "%s: %d elements beyond output", t, n)
		}
		out := make([]interface{}, n)
		for i := 0; i < n; i++ {
			v, err := unpackInline(*t.Elem, data[body+i*WordSize:])
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	default:
		return nil, unsupported(t.raw, "is not a dynamic type")
	}
}

// readSize 读取偏移或长度 Word，超出 limit 视为数据损坏
func readSize(word []byte, limit int, what string) (int, error) {
	n := new(big.Int).SetBytes(word)
	if !n.IsInt64() || n.Int64() > int64(limit) {
		return 0, types.NewError(types.ErrCodeDecode, "%s %s exceeds output length %d", what, n, limit)
	}
	return int(n.Int64()), nil
}

func decodeHex(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if has0xPrefix(s) {
		s = s[2:]
	}
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, types.WrapError(types.ErrCodeDecode, err, "invalid hex output")
	}
	return data, nil
}
