package abi

import (
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weisyn/qtum-sdk-go/types"
)

func TestDecodeCall(t *testing.T) {
	contract := mustParseABI(t, oracleABIJSON)

	rec, err := DecodeCall(contract, "balanceOf", "0x"+leftWord("3e8"), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, big.NewInt(1000).Cmp(rec["balance"].(*big.Int)))

	// 输出名为空时按位置下标作键
	rec, err = DecodeCall(contract, "voteFromOracle", leftWord("1"), nil)
	require.NoError(t, err)
	assert.Equal(t, true, rec["0"])

	out := rightWord("596573") + rightWord("4e6f") + leftWord("") + leftWord("2")
	rec, err = DecodeCall(contract, "names", out, nil)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{
		"0x" + rightWord("596573"),
		"0x" + rightWord("4e6f"),
		"0x" + leftWord(""),
	}, rec["0"])
	assert.Equal(t, 0, big.NewInt(2).Cmp(rec["count"].(*big.Int)))

	rec, err = DecodeCall(contract, "names", out, &DecodeOptions{RemoveHexPrefix: true})
	require.NoError(t, err)
	assert.Equal(t, rightWord("596573"), rec["0"].([]interface{})[0])
}

func TestDecodeCall_Errors(t *testing.T) {
	contract := mustParseABI(t, oracleABIJSON)

	tests := []struct {
		name    string
		method  string
		output  string
		wantErr error
	}{
		{name: "输出过短", method: "balanceOf", output: leftWord("1")[:62], wantErr: types.ErrDecode},
		{name: "头部不足", method: "names", output: leftWord("1"), wantErr: types.ErrDecode},
		{name: "非法十六进制", method: "balanceOf", output: "zz", wantErr: types.ErrDecode},
		{name: "bool 非 0/1", method: "voteFromOracle", output: leftWord("2"), wantErr: types.ErrDecode},
		{name: "方法不存在", method: "nope", output: "", wantErr: types.ErrMethodNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeCall(contract, tt.method, tt.output, nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestArguments_Unpack_Dynamic(t *testing.T) {
	args := Arguments{
		{Name: "id", Type: "uint256"},
		{Name: "oracles", Type: "address[]"},
		{Name: "name", Type: "string"},
		{Name: "blob", Type: "bytes"},
	}
	values := []interface{}{
		7,
		[]string{testChecked, otherRaw20},
		"hello",
		[]byte{0xca, 0xfe},
	}

	data, err := args.Pack(values...)
	require.NoError(t, err)

	rec, err := args.UnpackRecord(data)
	require.NoError(t, err)
	assert.Equal(t, 0, big.NewInt(7).Cmp(rec["id"].(*big.Int)))
	assert.Equal(t, []interface{}{"0x" + testRaw20, "0x" + otherRaw20}, rec["oracles"])
	assert.Equal(t, "hello", rec["name"])
	assert.Equal(t, "0xcafe", rec["blob"])

	require.NoError(t, args.stripHexPrefix(rec))
	assert.Equal(t, []interface{}{testRaw20, otherRaw20}, rec["oracles"])
	assert.Equal(t, "cafe", rec["blob"])
	assert.Equal(t, "hello", rec["name"])
}

func TestArguments_Unpack_InlineDynamicArray(t *testing.T) {
	args := Arguments{{Name: "results", Type: "string[3]"}}
	data, err := args.Pack([]string{"Yes", "No"})
	require.NoError(t, err)

	values, err := args.Unpack(data)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"Yes", "No", ""}, values[0])
}

func TestArguments_Unpack_CorruptTail(t *testing.T) {
	args := Arguments{{Type: "uint256[]"}}

	tests := []struct {
		name string
		data string
	}{
		{name: "偏移越界", data: leftWord("40") + leftWord("1")},
		{name: "偏移超大", data: strings.Repeat("ff", 32)},
		{name: "长度越界", data: leftWord("20") + leftWord("5") + leftWord("1")},
		{name: "缺少长度 Word", data: leftWord("20")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := decodeHex(tt.data)
			require.NoError(t, err)
			_, err = args.Unpack(data)
			require.Error(t, err)
			assert.True(t, errors.Is(err, types.ErrDecode), "got %v", err)
		})
	}
}

// 编码后再解码应还原每种标量类型（十六进制按小写比较）
func TestRoundTrip_Scalars(t *testing.T) {
	minInt256 := new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 255))

	tests := []struct {
		typ   string
		in    interface{}
		check func(t *testing.T, got interface{})
	}{
		{
			typ: "bool",
			in:  true,
			check: func(t *testing.T, got interface{}) {
				assert.Equal(t, true, got)
			},
		},
		{
			typ: "uint256",
			in:  "123456789012345678901234567890",
			check: func(t *testing.T, got interface{}) {
				assert.Equal(t, "123456789012345678901234567890", got.(*big.Int).String())
			},
		},
		{
			typ: "int256",
			in:  minInt256,
			check: func(t *testing.T, got interface{}) {
				assert.Equal(t, 0, minInt256.Cmp(got.(*big.Int)))
			},
		},
		{
			typ: "int32",
			in:  int32(-42),
			check: func(t *testing.T, got interface{}) {
				assert.Equal(t, int64(-42), got.(*big.Int).Int64())
			},
		},
		{
			typ: "address",
			in:  "0x" + strings.ToUpper(testRaw20),
			check: func(t *testing.T, got interface{}) {
				assert.Equal(t, "0x"+testRaw20, got)
			},
		},
		{
			typ: "bytes8",
			in:  "0x0102030405060708",
			check: func(t *testing.T, got interface{}) {
				assert.Equal(t, "0x0102030405060708", got)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			args := Arguments{{Name: "v", Type: tt.typ}}
			data, err := args.Pack(tt.in)
			require.NoError(t, err)
			rec, err := args.UnpackRecord(data)
			require.NoError(t, err)
			tt.check(t, rec["v"])
		})
	}
}

func TestReadSigned(t *testing.T) {
	tests := []struct {
		name string
		word string
		want string
	}{
		{name: "零", word: strings.Repeat("00", 32), want: "0"},
		{name: "正数", word: strings.Repeat("00", 31) + "7f", want: "127"},
		{name: "负一", word: strings.Repeat("ff", 32), want: "-1"},
		{name: "负五", word: strings.Repeat("ff", 31) + "fb", want: "-5"},
		{name: "int256 最小值", word: "80" + strings.Repeat("00", 31), want: new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 255)).String()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, err := decodeHex(tt.word)
			require.NoError(t, err)
			assert.Equal(t, tt.want, readSigned(word).String())
		})
	}
}

func TestRoundTrip_MixedArguments(t *testing.T) {
	args := Arguments{
		{Name: "a", Type: "int8"},
		{Name: "b", Type: "bytes3"},
		{Name: "c", Type: "string[2]"},
		{Name: "d", Type: "bytes"},
		{Name: "e", Type: "address[]"},
		{Name: "f", Type: "uint16[2]"},
	}
	long := strings.Repeat("ab", 40)

	data, err := args.Pack(
		int8(-5),
		"0x010203",
		[]string{"foo", "bar"},
		"0x"+long,
		[]string{"0x" + testRaw20, testChecked},
		[]uint16{7, 65535},
	)
	require.NoError(t, err)

	rec, err := args.UnpackRecord(data)
	require.NoError(t, err)
	assert.Equal(t, int64(-5), rec["a"].(*big.Int).Int64())
	assert.Equal(t, "0x010203", rec["b"])
	assert.Equal(t, []interface{}{"foo", "bar"}, rec["c"])
	assert.Equal(t, "0x"+long, rec["d"])
	assert.Equal(t, []interface{}{"0x" + testRaw20, "0x" + testRaw20}, rec["e"])

	f := rec["f"].([]interface{})
	require.Len(t, f, 2)
	assert.Equal(t, int64(7), f[0].(*big.Int).Int64())
	assert.Equal(t, int64(65535), f[1].(*big.Int).Int64())
}
