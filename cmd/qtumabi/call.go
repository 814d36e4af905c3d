package main

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/weisyn/qtum-sdk-go/abi"
	"github.com/weisyn/qtum-sdk-go/client"
	"github.com/weisyn/qtum-sdk-go/services"
	"github.com/weisyn/qtum-sdk-go/services/contract"
)

// RPCFlags 节点连接参数，未指定时读取 QTUM_RPC_URL / QTUM_RPC_USER / QTUM_RPC_PASSWORD
type RPCFlags struct {
	Endpoint string
	User     string
	Password string
	Timeout  time.Duration
}

func (f *RPCFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.Endpoint, "rpc", os.Getenv("QTUM_RPC_URL"), "qtumd JSON-RPC 地址")
	cmd.Flags().StringVar(&f.User, "rpc-user", os.Getenv("QTUM_RPC_USER"), "RPC 用户名")
	cmd.Flags().StringVar(&f.Password, "rpc-password", os.Getenv("QTUM_RPC_PASSWORD"), "RPC 密码")
	cmd.Flags().DurationVar(&f.Timeout, "timeout", 30*time.Second, "请求超时")
}

func (f *RPCFlags) client(flags *GlobalFlags) (client.Client, error) {
	network, err := flags.network()
	if err != nil {
		return nil, err
	}
	cfg := client.DefaultConfig()
	if f.Endpoint != "" {
		cfg.Endpoint = f.Endpoint
	}
	cfg.User = f.User
	cfg.Password = f.Password
	cfg.Timeout = int(f.Timeout.Seconds())
	cfg.Network = network
	cfg.Debug = flags.Verbose
	cfg.Logger = flags.logger()
	return client.NewClient(cfg)
}

// newCallCmd callcontract 只读调用
func newCallCmd(flags *GlobalFlags) *cobra.Command {
	var (
		rpc      RPCFlags
		abiPath  string
		contAddr string
		sender   string
	)

	cmd := &cobra.Command{
		Use:   "call <method> [args-json]",
		Short: "只读调用合约方法并解码返回值",
		Long: `通过 callcontract 只读调用合约，输出解码后的返回值和回执日志:

  qtumabi call --abi token.json --address a0ce0e8f... balanceOf '["qKjn4fStBaAtwGiwueJf9qFxgpbAvf1xAy"]'`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			contractABI, err := loadABI(abiPath)
			if err != nil {
				return err
			}
			var raw string
			if len(args) == 2 {
				raw = args[1]
			}
			callArgs, err := parseArgs(raw)
			if err != nil {
				return err
			}

			cli, err := rpc.client(flags)
			if err != nil {
				return err
			}
			defer cli.Close()

			const key = "contract"
			svc, err := contract.NewServiceWithConfig(cli, abi.ContractTable{
				key: {Address: contAddr, ABI: contractABI},
			}, &services.Config{
				SenderAddress:   sender,
				RemoveHexPrefix: flags.RemoveHexPrefix,
			})
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), rpc.Timeout)
			defer cancel()
			result, err := svc.Call(ctx, &contract.CallRequest{
				Contract: key,
				Method:   args[0],
				Args:     callArgs,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]interface{}{
				"gasUsed": result.Execution.GasUsed,
				"outputs": result.Outputs,
				"logs":    result.Logs,
			})
		},
	}

	rpc.bind(cmd)
	cmd.Flags().StringVar(&abiPath, "abi", "", "ABI JSON 文件")
	cmd.Flags().StringVar(&contAddr, "address", "", "合约地址（20 字节十六进制）")
	cmd.Flags().StringVar(&sender, "sender", "", "可选：msg.sender")
	return cmd
}
