package abi

import "strings"

// stripHexPrefix 按类型去掉 Record 中十六进制字段的 0x 前缀
//
// string 类型即使以 0x 开头也保持原样。
func (arguments Arguments) stripHexPrefix(rec Record) error {
	ts, err := arguments.parseTypes()
	if err != nil {
		return err
	}
	for i, t := range ts {
		k := arguments.key(i)
		if v, ok := rec[k]; ok && t.isHexValued() {
			rec[k] = stripValue(v)
		}
	}
	return nil
}

// stripValue 对字符串和字符串列表去前缀
func stripValue(v interface{}) interface{} {
	switch x := v.(type) {
	case string:
		return TrimHexPrefix(x)
	case []interface{}:
		out := make([]interface{}, len(x))
		for i, e := range x {
			out[i] = stripValue(e)
		}
		return out
	default:
		return v
	}
}

// TrimHexPrefix 去掉 0x / 0X 前缀
func TrimHexPrefix(s string) string {
	if has0xPrefix(s) {
		return s[2:]
	}
	return s
}

// AddHexPrefix 缺少前缀时补上 0x
func AddHexPrefix(s string) string {
	if has0xPrefix(s) {
		return s
	}
	return "0x" + s
}

// normalizeHex 小写、无前缀，用于 topic 与地址比较
func normalizeHex(s string) string {
	return strings.ToLower(TrimHexPrefix(strings.TrimSpace(s)))
}
