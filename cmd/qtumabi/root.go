package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/weisyn/qtum-sdk-go/abi"
	"github.com/weisyn/qtum-sdk-go/address"
	"github.com/weisyn/qtum-sdk-go/client"
)

// GlobalFlags 全局标志
type GlobalFlags struct {
	Network         string // mainnet | testnet
	RemoveHexPrefix bool   // 解码结果去掉 0x
	Verbose         bool   // 输出调试日志
}

// newRootCmd 构造根命令，每次调用返回一棵独立的命令树
func newRootCmd() *cobra.Command {
	flags := &GlobalFlags{}

	rootCmd := &cobra.Command{
		Use:   "qtumabi",
		Short: "Qtum 合约 ABI 编解码工具",
		Long: `qtumabi - Qtum 智能合约 ABI 命令行工具

离线功能:
  selector   计算函数选择器 / 事件 topic
  encode     编码调用数据或部署数据
  decode     解码 callcontract 返回值
  logs       按 ABI 解码事件日志
  address    Base58Check 与 20 字节十六进制地址互转

在线功能（需要 qtumd JSON-RPC）:
  call       callcontract 只读调用并解码返回值`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&flags.Network, "network", "n", "testnet", "地址网络: mainnet|testnet")
	rootCmd.PersistentFlags().BoolVar(&flags.RemoveHexPrefix, "no-0x", false, "解码结果中的十六进制字段去掉 0x 前缀")
	rootCmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "详细输出")

	rootCmd.AddCommand(
		newSelectorCmd(),
		newEncodeCmd(),
		newDecodeCmd(flags),
		newLogsCmd(flags),
		newAddressCmd(flags),
		newCallCmd(flags),
	)
	return rootCmd
}

// Execute 执行根命令
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func (f *GlobalFlags) network() (address.Network, error) {
	return address.ParseNetwork(f.Network)
}

func (f *GlobalFlags) logger() client.Logger {
	if f.Verbose {
		return client.NewDevelopmentLogger()
	}
	return client.NopLogger()
}

func (f *GlobalFlags) decodeOptions() *abi.DecodeOptions {
	return &abi.DecodeOptions{
		RemoveHexPrefix: f.RemoveHexPrefix,
		Logger:          f.logger(),
	}
}

// loadABI 读取 ABI JSON 文件
func loadABI(path string) (abi.ABI, error) {
	if path == "" {
		return nil, fmt.Errorf("--abi is required")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开 ABI 文件: %w", err)
	}
	defer f.Close()

	contract, err := abi.JSON(f)
	if err != nil {
		return nil, fmt.Errorf("解析 ABI 文件 %s: %w", path, err)
	}
	return contract, nil
}

// parseArgs 解析 JSON 数组形式的参数，数字保留为 json.Number
func parseArgs(raw string) ([]interface{}, error) {
	if raw == "" {
		return nil, nil
	}
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	var args []interface{}
	if err := dec.Decode(&args); err != nil {
		return nil, fmt.Errorf("参数必须是 JSON 数组: %w", err)
	}
	return args, nil
}

// printJSON 以缩进 JSON 输出
func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
