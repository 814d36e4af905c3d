package abi

import (
	"encoding/hex"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weisyn/qtum-sdk-go/types"
)

const (
	testRaw20   = "17e7888aa7412a735f336d2f6d784caefabb6fa3"
	testChecked = "qKjn4fStBaAtwGiwueJf9qFxgpbAvf1xAy"
	otherRaw20  = "0102030405060708090a0b0c0d0e0f1011121314"
)

// leftWord 左侧补零到 64 个十六进制字符
func leftWord(s string) string {
	return strings.Repeat("0", 64-len(s)) + s
}

// rightWord 右侧补零到 64 个十六进制字符
func rightWord(s string) string {
	return s + strings.Repeat("0", 64-len(s))
}

func fn(name string, inputTypes ...string) Entry {
	e := Entry{Type: Function, Name: name, Inputs: Arguments{}}
	for _, typ := range inputTypes {
		e.Inputs = append(e.Inputs, Argument{Type: typ})
	}
	return e
}

func TestEncodeCall_StaticAddress(t *testing.T) {
	contract := mustParseABI(t, oracleABIJSON)

	data, err := EncodeCall(contract, "balanceOf", testChecked)
	require.NoError(t, err)
	assert.Equal(t, "70a08231"+"00000000000000000000000017e7888aa7412a735f336d2f6d784caefabb6fa3", data)

	// 十六进制和 common.Address 输入得到相同结果
	for _, in := range []interface{}{testRaw20, "0x" + testRaw20, common.HexToAddress(testRaw20)} {
		got, err := EncodeCall(contract, "balanceOf", in)
		require.NoError(t, err)
		assert.Equal(t, data, got)
	}
}

func TestEncodeCall_VoteFromOracle(t *testing.T) {
	contract := mustParseABI(t, oracleABIJSON)

	data, err := EncodeCall(contract, "voteFromOracle", uint8(1), testChecked, big.NewInt(1000))
	require.NoError(t, err)
	want := "006a8a32" + leftWord("1") + leftWord(testRaw20) + leftWord("3e8")
	assert.Equal(t, want, data)
}

func TestArguments_Pack_DynamicAddressArray(t *testing.T) {
	args := fn("setOracles", "address[]").Inputs

	data, err := args.Pack([]string{testChecked, otherRaw20})
	require.NoError(t, err)
	want := leftWord("20") + leftWord("2") + leftWord(testRaw20) + leftWord(otherRaw20)
	assert.Equal(t, want, hex.EncodeToString(data))
}

func TestArguments_Pack_Layout(t *testing.T) {
	tests := []struct {
		name   string
		types  []string
		values []interface{}
		want   string
	}{
		{
			name:   "静态头之后追加尾部",
			types:  []string{"uint256", "address[]", "bool"},
			values: []interface{}{5, []interface{}{testRaw20}, true},
			want: leftWord("5") + leftWord("60") + leftWord("1") +
				leftWord("1") + leftWord(testRaw20),
		},
		{
			name:   "定长数组占 k 个头部槽位，不足补零",
			types:  []string{"bytes32[3]", "string"},
			values: []interface{}{[]string{"a", "b"}, "hello"},
			want: rightWord("61") + rightWord("62") + leftWord("") + leftWord("80") +
				leftWord("5") + rightWord("68656c6c6f"),
		},
		{
			name:   "两个动态参数按出现顺序排列尾部",
			types:  []string{"bytes", "uint8[]"},
			values: []interface{}{"0xdeadbeef", []uint8{7, 9}},
			want: leftWord("40") + leftWord("80") +
				leftWord("4") + rightWord("deadbeef") +
				leftWord("2") + leftWord("7") + leftWord("9"),
		},
		{
			name:   "空 bytes 只有长度 Word",
			types:  []string{"bytes", "uint256"},
			values: []interface{}{[]byte{}, 1},
			want:   leftWord("40") + leftWord("1") + leftWord("0"),
		},
		{
			name:   "超过一个 Word 的字符串",
			types:  []string{"string"},
			values: []interface{}{strings.Repeat("a", 33)},
			want:   leftWord("20") + leftWord("21") + strings.Repeat("61", 32) + rightWord("61"),
		},
		{
			name:   "动态元素定长数组按内联块编码",
			types:  []string{"string[2]", "uint256"},
			values: []interface{}{[]string{"yes", "no"}, 3},
			want:   rightWord("796573") + rightWord("6e6f") + leftWord("3"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := fn("f", tt.types...).Inputs.Pack(tt.values...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, hex.EncodeToString(data))
		})
	}
}

func TestPack_Integers(t *testing.T) {
	minInt256 := new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 255))
	maxInt256 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 255), big.NewInt(1))
	maxUint256 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

	tests := []struct {
		name  string
		typ   string
		value interface{}
		want  string
	}{
		{name: "int256 最小值", typ: "int256", value: minInt256, want: "80" + strings.Repeat("00", 31)},
		{name: "int256 最大值", typ: "int256", value: maxInt256, want: "7f" + strings.Repeat("ff", 31)},
		{name: "int8 -1 用 ff 填充", typ: "int8", value: int8(-1), want: strings.Repeat("ff", 32)},
		{name: "int8 -128", typ: "int8", value: -128, want: strings.Repeat("ff", 31) + "80"},
		{name: "uint256 最大值", typ: "uint256", value: maxUint256, want: strings.Repeat("ff", 32)},
		{name: "uint8 零填充", typ: "uint8", value: uint8(255), want: leftWord("ff")},
		{name: "十进制字符串", typ: "uint256", value: "1000", want: leftWord("3e8")},
		{name: "十六进制字符串", typ: "uint256", value: "0x3e8", want: leftWord("3e8")},
		{name: "负十六进制字符串", typ: "int16", value: "-0x1", want: strings.Repeat("ff", 32)},
		{name: "big.Int 值", typ: "uint64", value: *big.NewInt(16), want: leftWord("10")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typ, err := ParseType(tt.typ)
			require.NoError(t, err)
			word, err := packInline(typ, tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, hex.EncodeToString(word))
		})
	}
}

func TestPack_ScalarWords(t *testing.T) {
	tests := []struct {
		name  string
		typ   string
		value interface{}
		want  string
	}{
		{name: "true", typ: "bool", value: true, want: leftWord("1")},
		{name: "false", typ: "bool", value: false, want: leftWord("")},
		{name: "bytes4 右侧补零", typ: "bytes4", value: []byte{0xde, 0xad, 0xbe, 0xef}, want: rightWord("deadbeef")},
		{name: "bytes32 字符串按 UTF-8", typ: "bytes32", value: "Yes", want: rightWord("596573")},
		{name: "bytes2 定长数组", typ: "bytes2", value: [2]byte{0x12, 0x34}, want: rightWord("1234")},
		{name: "address 字节数组", typ: "address", value: common.HexToAddress(otherRaw20).Bytes(), want: leftWord(otherRaw20)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typ, err := ParseType(tt.typ)
			require.NoError(t, err)
			word, err := packInline(typ, tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, hex.EncodeToString(word))
		})
	}
}

func TestEncode_Errors(t *testing.T) {
	contract := mustParseABI(t, oracleABIJSON)

	tests := []struct {
		name    string
		encode  func() error
		wantErr error
	}{
		{
			name: "方法不存在",
			encode: func() error {
				_, err := EncodeCall(contract, "nope")
				return err
			},
			wantErr: types.ErrMethodNotFound,
		},
		{
			name: "参数个数不符",
			encode: func() error {
				_, err := EncodeCall(contract, "balanceOf")
				return err
			},
			wantErr: types.ErrArityMismatch,
		},
		{
			name: "参数缺失",
			encode: func() error {
				_, err := EncodeCall(contract, "balanceOf", nil)
				return err
			},
			wantErr: types.ErrMissingArgument,
		},
		{
			name: "nil big.Int 视为缺失",
			encode: func() error {
				_, err := EncodeCall(contract, "voteFromOracle", 1, testRaw20, (*big.Int)(nil))
				return err
			},
			wantErr: types.ErrMissingArgument,
		},
		{
			name: "数组类型传入标量",
			encode: func() error {
				_, err := fn("f", "address[]").Inputs.Pack(testRaw20)
				return err
			},
			wantErr: types.ErrTypeMismatch,
		},
		{
			name: "bool 传入数字",
			encode: func() error {
				_, err := fn("f", "bool").Inputs.Pack(1)
				return err
			},
			wantErr: types.ErrTypeMismatch,
		},
		{
			name: "uint8 溢出",
			encode: func() error {
				_, err := fn("f", "uint8").Inputs.Pack(256)
				return err
			},
			wantErr: types.ErrTypeMismatch,
		},
		{
			name: "uint 负数",
			encode: func() error {
				_, err := fn("f", "uint256").Inputs.Pack(-1)
				return err
			},
			wantErr: types.ErrTypeMismatch,
		},
		{
			name: "int8 溢出",
			encode: func() error {
				_, err := fn("f", "int8").Inputs.Pack(128)
				return err
			},
			wantErr: types.ErrTypeMismatch,
		},
		{
			name: "bytes4 超长",
			encode: func() error {
				_, err := fn("f", "bytes4").Inputs.Pack([]byte{1, 2, 3, 4, 5})
				return err
			},
			wantErr: types.ErrTypeMismatch,
		},
		{
			name: "定长数组元素过多",
			encode: func() error {
				_, err := fn("f", "uint8[2]").Inputs.Pack([]int{1, 2, 3})
				return err
			},
			wantErr: types.ErrTypeMismatch,
		},
		{
			name: "定长数组动态元素超过 32 字节",
			encode: func() error {
				_, err := fn("f", "string[1]").Inputs.Pack([]string{strings.Repeat("x", 33)})
				return err
			},
			wantErr: types.ErrTypeMismatch,
		},
		{
			name: "非法十六进制地址",
			encode: func() error {
				_, err := fn("f", "address").Inputs.Pack("0x1234")
				return err
			},
			wantErr: types.ErrInvalidHexAddress,
		},
		{
			name: "空地址",
			encode: func() error {
				_, err := fn("f", "address").Inputs.Pack("")
				return err
			},
			wantErr: types.ErrEmptyAddress,
		},
		{
			name: "不支持的类型",
			encode: func() error {
				_, err := fn("f", "fixed128x18").Inputs.Pack(1)
				return err
			},
			wantErr: types.ErrUnsupportedType,
		},
		{
			name: "动态元素的变长数组",
			encode: func() error {
				_, err := fn("f", "string[]").Inputs.Pack([]string{"a"})
				return err
			},
			wantErr: types.ErrUnsupportedType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.encode()
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestEncodeConstructor(t *testing.T) {
	contract := mustParseABI(t, oracleABIJSON)

	data, err := EncodeConstructor(contract, "0x6060AB", uint16(2))
	require.NoError(t, err)
	assert.Equal(t, "6060ab"+leftWord("2"), data)

	_, err = EncodeConstructor(ABI{}, "6060", 1)
	assert.True(t, errors.Is(err, types.ErrArityMismatch))

	_, err = EncodeConstructor(contract, "zz", uint16(2))
	assert.Error(t, err)
}
