package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"

	"github.com/weisyn/qtum-sdk-go/abi"
)

// newSelectorCmd 计算选择器
func newSelectorCmd() *cobra.Command {
	var abiPath string

	cmd := &cobra.Command{
		Use:   "selector <name | signature>",
		Short: "计算函数选择器或事件 topic",
		Long: `计算函数选择器（4 字节）或事件 topic（32 字节）

带 --abi 时按名称查找函数或事件；不带时参数视为规范签名，例如:
  qtumabi selector 'transfer(address,uint256)'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if abiPath == "" {
				sig := strings.ReplaceAll(args[0], " ", "")
				hash := crypto.Keccak256([]byte(sig))
				return printJSON(cmd, map[string]string{
					"signature": sig,
					"selector":  hex.EncodeToString(hash[:abi.SelectorLength]),
					"topic":     hex.EncodeToString(hash),
				})
			}

			contract, err := loadABI(abiPath)
			if err != nil {
				return err
			}
			if entry, err := contract.Method(args[0]); err == nil {
				return printEntry(cmd, entry, abi.MethodID)
			}
			entry, err := contract.Event(args[0])
			if err != nil {
				return fmt.Errorf("%q 不是 ABI 中的函数或事件: %w", args[0], err)
			}
			return printEntry(cmd, entry, abi.TopicHex)
		},
	}

	cmd.Flags().StringVar(&abiPath, "abi", "", "ABI JSON 文件")
	return cmd
}

func printEntry(cmd *cobra.Command, entry *abi.Entry, hash func(abi.Entry) (string, error)) error {
	sig, err := entry.Signature()
	if err != nil {
		return err
	}
	h, err := hash(*entry)
	if err != nil {
		return err
	}
	key := "selector"
	if entry.Type == abi.Event {
		key = "topic"
	}
	return printJSON(cmd, map[string]string{"signature": sig, key: h})
}

// newEncodeCmd 编码调用数据
func newEncodeCmd() *cobra.Command {
	var (
		abiPath      string
		bytecodePath string
	)

	cmd := &cobra.Command{
		Use:   "encode <method> [args-json]",
		Short: "编码合约调用数据",
		Long: `编码合约调用数据（选择器 + 参数），参数为 JSON 数组，例如:
  qtumabi encode --abi token.json transfer '["qKjn4fStBaAtwGiwueJf9qFxgpbAvf1xAy", 100]'

指定 --bytecode 时编码部署数据（字节码 + 构造参数），此时省略 method:
  qtumabi encode --abi token.json --bytecode token.bin '[1000000]'`,
		Args: cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			contract, err := loadABI(abiPath)
			if err != nil {
				return err
			}

			if bytecodePath != "" {
				if len(args) > 1 {
					return fmt.Errorf("部署模式只接受一个参数数组")
				}
				code, err := os.ReadFile(bytecodePath)
				if err != nil {
					return fmt.Errorf("读取字节码: %w", err)
				}
				var raw string
				if len(args) == 1 {
					raw = args[0]
				}
				ctorArgs, err := parseArgs(raw)
				if err != nil {
					return err
				}
				data, err := abi.EncodeConstructor(contract, strings.TrimSpace(string(code)), ctorArgs...)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), data)
				return nil
			}

			if len(args) == 0 {
				return fmt.Errorf("method is required")
			}
			var raw string
			if len(args) == 2 {
				raw = args[1]
			}
			callArgs, err := parseArgs(raw)
			if err != nil {
				return err
			}
			data, err := abi.EncodeCall(contract, args[0], callArgs...)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), data)
			return nil
		},
	}

	cmd.Flags().StringVar(&abiPath, "abi", "", "ABI JSON 文件")
	cmd.Flags().StringVar(&bytecodePath, "bytecode", "", "合约字节码文件（十六进制）")
	return cmd
}

// newDecodeCmd 解码返回值
func newDecodeCmd(flags *GlobalFlags) *cobra.Command {
	var abiPath string

	cmd := &cobra.Command{
		Use:   "decode <method> <output-hex>",
		Short: "解码 callcontract 返回的 output",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			contract, err := loadABI(abiPath)
			if err != nil {
				return err
			}
			rec, err := abi.DecodeCall(contract, args[0], args[1], flags.decodeOptions())
			if err != nil {
				return err
			}
			return printJSON(cmd, rec)
		},
	}

	cmd.Flags().StringVar(&abiPath, "abi", "", "ABI JSON 文件")
	return cmd
}
