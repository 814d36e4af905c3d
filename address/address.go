// Package address 实现 Qtum 地址的三种表示之间的转换
//
// **三种表示**：
// - checked：Base58Check 编码（网络字节 + 20 字节地址 + 4 字节校验和），面向用户
// - raw20：20 字节地址的十六进制（40 个字符，无 0x 前缀），出现在合约存储和事件中
// - word32：raw20 左侧补零到 32 字节，即 ABI 编码中的一个 Word
//
// 校验和为 SHA256(SHA256(networkByte ‖ raw20)) 的前 4 字节，与 Bitcoin 一致。
package address

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcutil/base58"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/ripemd160"

	"github.com/weisyn/qtum-sdk-go/types"
)

const (
	// Raw20Length 原始地址字节数
	Raw20Length = 20
	// WordLength ABI Word 字节数
	WordLength = 32
	// ChecksumLength 校验和字节数
	ChecksumLength = 4
	// checkedLength Base58 解码后的长度：网络字节(1) + 地址(20) + 校验和(4)
	checkedLength = 1 + Raw20Length + ChecksumLength
)

// Network 网络标识（P2PKH 版本字节）
type Network byte

const (
	// Mainnet Qtum 主网 P2PKH 版本字节（地址以 Q 开头）
	Mainnet Network = 0x3a
	// Testnet Qtum 测试网/regtest P2PKH 版本字节（地址以 q 开头）
	Testnet Network = 0x78
)

// String 返回网络名称
func (n Network) String() string {
	switch n {
	case Mainnet:
		return "mainnet"
	case Testnet:
		return "testnet"
	default:
		return fmt.Sprintf("network(0x%02x)", byte(n))
	}
}

// ParseNetwork 解析网络名称（mainnet/testnet/regtest）
func ParseNetwork(name string) (Network, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "mainnet", "main":
		return Mainnet, nil
	case "testnet", "test", "regtest":
		return Testnet, nil
	default:
		return 0, fmt.Errorf("unknown network: %q", name)
	}
}

// NetworkFromBool isMainnet=true 返回主网，否则返回测试网
func NetworkFromBool(isMainnet bool) Network {
	if isMainnet {
		return Mainnet
	}
	return Testnet
}

// ToChecksummed 将 raw20 十六进制地址转换为 Base58Check 地址
//
// raw20Hex 可以带或不带 0x 前缀。
func ToChecksummed(raw20Hex string, network Network) (string, error) {
	raw, err := decodeRaw20(raw20Hex)
	if err != nil {
		return "", err
	}
	return BytesToChecksummed(raw, network)
}

// ToChecksummedBool 与 ToChecksummed 相同，按 isMainnet 选择网络字节
func ToChecksummedBool(raw20Hex string, isMainnet bool) (string, error) {
	return ToChecksummed(raw20Hex, NetworkFromBool(isMainnet))
}

// BytesToChecksummed 将 20 字节地址编码为 Base58Check 地址
func BytesToChecksummed(raw []byte, network Network) (string, error) {
	if len(raw) != Raw20Length {
		return "", types.NewError(types.ErrCodeInvalidHexAddress,
			"invalid address length: expected %d bytes, got %d", Raw20Length, len(raw))
	}

	versioned := make([]byte, 0, checkedLength)
	versioned = append(versioned, byte(network))
	versioned = append(versioned, raw...)
	versioned = append(versioned, checksum(versioned)...)

	return base58.Encode(versioned), nil
}

// ToRaw20 将任意形式的地址转换为 raw20 十六进制（小写，无 0x 前缀）
//
// 十六进制输入只去掉前缀并校验字符，不做校验和验证；
// Base58 输入解码后去掉网络字节和校验和。
func ToRaw20(addr string) (string, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return "", types.ErrEmptyAddress
	}

	if IsHex(addr) || hasHexPrefix(addr) {
		raw, err := decodeRaw20(addr)
		if err != nil {
			return "", err
		}
		return hex.EncodeToString(raw), nil
	}

	raw, err := decodeChecked(addr, false)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}

// ToBytes 与 ToRaw20 相同，返回 20 字节
func ToBytes(addr string) ([]byte, error) {
	raw20, err := ToRaw20(addr)
	if err != nil {
		return nil, err
	}
	return hex.DecodeString(raw20)
}

// ToWord 将任意形式的地址转换为 32 字节 Word 的十六进制（左侧补零）
func ToWord(addr string) (string, error) {
	raw20, err := ToRaw20(addr)
	if err != nil {
		return "", err
	}
	return strings.Repeat("00", WordLength-Raw20Length) + raw20, nil
}

// FromWord 从 32 字节 Word 中取出低 20 字节地址
func FromWord(word []byte) (string, error) {
	if len(word) != WordLength {
		return "", types.NewError(types.ErrCodeInvalidHexAddress,
			"invalid word length: expected %d bytes, got %d", WordLength, len(word))
	}
	return hex.EncodeToString(word[WordLength-Raw20Length:]), nil
}

// Validate 校验 Base58Check 地址的长度、校验和及网络字节
//
// 与 ToRaw20 不同，这里会验证校验和。
func Validate(checked string, network Network) error {
	if strings.TrimSpace(checked) == "" {
		return types.ErrEmptyAddress
	}
	if _, err := decodeChecked(checked, true); err != nil {
		return err
	}
	if got := Network(base58.Decode(checked)[0]); got != network {
		return types.NewError(types.ErrCodeInvalidHexAddress, "address %s belongs to %s, not %s", checked, got, network)
	}
	return nil
}

// IsHex 判断输入是否为 40 个十六进制字符（可带 0x 前缀）
func IsHex(addr string) bool {
	s := trimHexPrefix(addr)
	if len(s) != Raw20Length*2 {
		return false
	}
	for _, c := range s {
		if !isHexChar(c) {
			return false
		}
	}
	return true
}

// FromPublicKey 由 secp256k1 公钥（压缩 33 字节或未压缩 65 字节）派生 raw20 地址
//
// raw20 = RIPEMD160(SHA256(compressed_pubkey))，与节点钱包一致。
func FromPublicKey(pubKey []byte) (string, error) {
	var compressed []byte
	switch len(pubKey) {
	case 33:
		pk, err := ethcrypto.DecompressPubkey(pubKey)
		if err != nil {
			return "", fmt.Errorf("invalid compressed public key: %w", err)
		}
		compressed = ethcrypto.CompressPubkey(pk)
	case 65:
		pk, err := ethcrypto.UnmarshalPubkey(pubKey)
		if err != nil {
			return "", fmt.Errorf("invalid uncompressed public key: %w", err)
		}
		compressed = ethcrypto.CompressPubkey(pk)
	default:
		return "", fmt.Errorf("invalid public key length: expected 33 or 65 bytes, got %d", len(pubKey))
	}

	sha := sha256.Sum256(compressed)
	r := ripemd160.New()
	_, _ = r.Write(sha[:])
	return hex.EncodeToString(r.Sum(nil)), nil
}

// decodeRaw20 解析 raw20 十六进制字符串
func decodeRaw20(raw20Hex string) ([]byte, error) {
	s := trimHexPrefix(strings.TrimSpace(raw20Hex))
	if s == "" {
		return nil, types.ErrEmptyAddress
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, types.WrapError(types.ErrCodeInvalidHexAddress, err, "invalid hex address %q", raw20Hex)
	}
	if len(raw) != Raw20Length {
		return nil, types.NewError(types.ErrCodeInvalidHexAddress,
			"invalid hex address length: expected %d hex characters, got %d", Raw20Length*2, len(s))
	}
	return raw, nil
}

// decodeChecked 解码 Base58Check 地址，返回 20 字节地址
func decodeChecked(checked string, verify bool) ([]byte, error) {
	decoded := base58.Decode(checked)
	if len(decoded) != checkedLength {
		return nil, types.NewError(types.ErrCodeInvalidHexAddress,
			"invalid address %q: expected %d bytes after Base58 decode, got %d", checked, checkedLength, len(decoded))
	}
	if verify {
		if !bytes.Equal(decoded[1+Raw20Length:], checksum(decoded[:1+Raw20Length])) {
			return nil, types.NewError(types.ErrCodeInvalidHexAddress, "invalid checksum for address %s", checked)
		}
	}
	return decoded[1 : 1+Raw20Length], nil
}

// checksum 双重 SHA256，取前 4 字节
func checksum(versioned []byte) []byte {
	first := sha256.Sum256(versioned)
	second := sha256.Sum256(first[:])
	return second[:ChecksumLength]
}

func hasHexPrefix(s string) bool {
	return len(s) >= 2 && (s[:2] == "0x" || s[:2] == "0X")
}

func trimHexPrefix(s string) string {
	if hasHexPrefix(s) {
		return s[2:]
	}
	return s
}

func isHexChar(c rune) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
