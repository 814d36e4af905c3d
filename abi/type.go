package abi

import (
	"strconv"
	"strings"

	"github.com/weisyn/qtum-sdk-go/types"
)

// Kind 类型类别
type Kind byte

const (
	AddressTy Kind = iota
	BoolTy
	IntTy
	UintTy
	FixedBytesTy
	BytesTy
	StringTy
	ArrayTy // 定长数组 T[k]
	SliceTy // 变长数组 T[]
)

func (k Kind) String() string {
	switch k {
	case AddressTy:
		return "address"
	case BoolTy:
		return "bool"
	case IntTy:
		return "int"
	case UintTy:
		return "uint"
	case FixedBytesTy:
		return "fixed-bytes"
	case BytesTy:
		return "bytes"
	case StringTy:
		return "string"
	case ArrayTy:
		return "array"
	case SliceTy:
		return "slice"
	default:
		return "unknown"
	}
}

// Type 解析后的 ABI 参数类型
//
// Size 的含义随 Kind 变化：
//   - IntTy / UintTy：位宽（8..256）
//   - FixedBytesTy：字节数（1..32）
//   - ArrayTy：数组容量 k
//
// ArrayTy / SliceTy 的元素类型保存在 Elem 中。
type Type struct {
	Kind Kind
	Size int
	Elem *Type

	raw string
}

// String 返回原始类型字符串
func (t Type) String() string {
	return t.raw
}

// IsDynamic bytes、string、变长数组，以及元素为动态类型的定长数组都是动态类型
func (t Type) IsDynamic() bool {
	switch t.Kind {
	case BytesTy, StringTy, SliceTy:
		return true
	case ArrayTy:
		return t.Elem.IsDynamic()
	default:
		return false
	}
}

// usesTail 需要通过 offset 指向尾部数据的类型
//
// 元素为动态类型的定长数组按本链方言内联编码，不走尾部。
func (t Type) usesTail() bool {
	return t.Kind == BytesTy || t.Kind == StringTy || t.Kind == SliceTy
}

// headSlots 该类型在头部占用的 Word 数
func (t Type) headSlots() int {
	if t.Kind == ArrayTy {
		return t.Size
	}
	return 1
}

// isHexValued 解码结果是否为十六进制字符串
func (t Type) isHexValued() bool {
	switch t.Kind {
	case AddressTy, FixedBytesTy, BytesTy:
		return true
	case ArrayTy, SliceTy:
		return t.Elem.isHexValued()
	default:
		return false
	}
}

// ParseType 解析 ABI 类型字符串
//
// 支持 address、bool、intN、uintN、bytesN、bytes、string，
// 以及以上类型加一层 [k] 或 [] 后缀。int/uint 等价于 int256/uint256。
func ParseType(s string) (Type, error) {
	raw := s
	s = strings.TrimSpace(s)

	i := strings.IndexByte(s, '[')
	if i < 0 {
		if strings.ContainsRune(s, ']') {
			return Type{}, unsupported(raw, "unbalanced brackets")
		}
		return parseElementary(s, raw)
	}

	if !strings.HasSuffix(s, "]") {
		return Type{}, unsupported(raw, "unbalanced brackets")
	}
	inner := s[i+1 : len(s)-1]
	if strings.ContainsAny(inner, "[]") {
		return Type{}, unsupported(raw, "nested arrays are not supported")
	}

	elem, err := parseElementary(s[:i], s[:i])
	if err != nil {
		return Type{}, err
	}

	if inner == "" {
		return Type{Kind: SliceTy, Elem: &elem, raw: raw}, nil
	}
	n, ok := parseDigits(inner)
	if !ok || n < 1 {
		return Type{}, unsupported(raw, "invalid array length")
	}
	return Type{Kind: ArrayTy, Size: n, Elem: &elem, raw: raw}, nil
}

func parseElementary(s, raw string) (Type, error) {
	switch s {
	case "address":
		return Type{Kind: AddressTy, raw: raw}, nil
	case "bool":
		return Type{Kind: BoolTy, raw: raw}, nil
	case "string":
		return Type{Kind: StringTy, raw: raw}, nil
	case "bytes":
		return Type{Kind: BytesTy, raw: raw}, nil
	case "int":
		return Type{Kind: IntTy, Size: 256, raw: raw}, nil
	case "uint":
		return Type{Kind: UintTy, Size: 256, raw: raw}, nil
	}

	switch {
	case strings.HasPrefix(s, "uint"):
		n, ok := parseDigits(s[len("uint"):])
		if !ok || n < 8 || n > 256 || n%8 != 0 {
			return Type{}, unsupported(raw, "invalid uint width")
		}
		return Type{Kind: UintTy, Size: n, raw: raw}, nil
	case strings.HasPrefix(s, "int"):
		n, ok := parseDigits(s[len("int"):])
		if !ok || n < 8 || n > 256 || n%8 != 0 {
			return Type{}, unsupported(raw, "invalid int width")
		}
		return Type{Kind: IntTy, Size: n, raw: raw}, nil
	case strings.HasPrefix(s, "bytes"):
		n, ok := parseDigits(s[len("bytes"):])
		if !ok || n < 1 || n > 32 {
			return Type{}, unsupported(raw, "invalid bytes width")
		}
		return Type{Kind: FixedBytesTy, Size: n, raw: raw}, nil
	}
	return Type{}, unsupported(raw, "unknown type")
}

// parseDigits 只接受无符号、无前导零的十进制数字
func parseDigits(s string) (int, bool) {
	if s == "" || (len(s) > 1 && s[0] == '0') {
		return 0, false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

func unsupported(raw, reason string) error {
	return types.NewError(types.ErrCodeUnsupportedType, "type %q: %s", raw, reason)
}
