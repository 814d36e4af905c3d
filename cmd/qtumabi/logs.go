package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/weisyn/qtum-sdk-go/abi"
)

// newLogsCmd 解码事件日志
func newLogsCmd(flags *GlobalFlags) *cobra.Command {
	var contracts []string

	cmd := &cobra.Command{
		Use:   "logs <logs.json>",
		Short: "按 ABI 解码事件日志",
		Long: `解码事件日志，输入文件可以是日志数组，也可以是 searchlogs 返回的回执数组:

  qtumabi logs --contract Token=token.json@a0ce0e8f1bfc8b5b6e4ec1e3f1c3b0e2d4c5b6a7 receipts.json

--contract 可重复，格式 <key>=<abi 文件>[@<合约地址>]，地址省略时只按 topic 匹配。`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := parseContracts(contracts)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("读取日志文件: %w", err)
			}
			logs, err := parseLogs(data)
			if err != nil {
				return err
			}

			decoded, err := abi.DecodeLogs(logs, table, flags.decodeOptions())
			if err != nil {
				return err
			}
			return printJSON(cmd, decoded)
		},
	}

	cmd.Flags().StringArrayVar(&contracts, "contract", nil, "合约定义 <key>=<abi 文件>[@<地址>]，可重复")
	return cmd
}

// parseContracts 解析 --contract 参数
func parseContracts(defs []string) (abi.ContractTable, error) {
	if len(defs) == 0 {
		return nil, fmt.Errorf("at least one --contract is required")
	}

	table := make(abi.ContractTable, len(defs))
	for _, def := range defs {
		key, rest, ok := strings.Cut(def, "=")
		if !ok || key == "" || rest == "" {
			return nil, fmt.Errorf("无效的合约定义 %q，格式 <key>=<abi 文件>[@<地址>]", def)
		}
		path, addr, _ := strings.Cut(rest, "@")
		contract, err := loadABI(path)
		if err != nil {
			return nil, err
		}
		table[key] = abi.ContractMetadata{Address: addr, ABI: contract}
	}
	return table, nil
}

// parseLogs 接受 [log...] 或 [{"log": [...]}...]
func parseLogs(data []byte) ([]abi.Log, error) {
	var items []map[string]json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("日志文件必须是 JSON 数组: %w", err)
	}

	var logs []abi.Log
	for i, item := range items {
		raw, isReceipt := item["log"]
		if !isReceipt {
			var l abi.Log
			if err := remarshal(item, &l); err != nil {
				return nil, fmt.Errorf("第 %d 项: %w", i, err)
			}
			logs = append(logs, l)
			continue
		}
		var receiptLogs []abi.Log
		if err := json.Unmarshal(raw, &receiptLogs); err != nil {
			return nil, fmt.Errorf("第 %d 项回执: %w", i, err)
		}
		logs = append(logs, receiptLogs...)
	}
	return logs, nil
}

func remarshal(in interface{}, out interface{}) error {
	b, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}
