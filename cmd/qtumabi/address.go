package main

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/weisyn/qtum-sdk-go/address"
)

// newAddressCmd 地址转换命令
func newAddressCmd(flags *GlobalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "address",
		Short: "地址格式转换",
	}

	toHexCmd := &cobra.Command{
		Use:   "to-hex <base58-address>",
		Short: "Base58Check 地址转 20 字节十六进制",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			network, err := flags.network()
			if err != nil {
				return err
			}
			if err := address.Validate(args[0], network); err != nil {
				return err
			}
			raw, err := address.ToRaw20(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), raw)
			return nil
		},
	}

	toBase58Cmd := &cobra.Command{
		Use:   "to-base58 <hex-address>",
		Short: "20 字节十六进制地址转 Base58Check",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			network, err := flags.network()
			if err != nil {
				return err
			}
			checked, err := address.ToChecksummed(args[0], network)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), checked)
			return nil
		},
	}

	fromPubKeyCmd := &cobra.Command{
		Use:   "from-pubkey <pubkey-hex>",
		Short: "由 secp256k1 公钥派生地址",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			network, err := flags.network()
			if err != nil {
				return err
			}
			pub, err := hex.DecodeString(trimHex(args[0]))
			if err != nil {
				return fmt.Errorf("公钥不是十六进制: %w", err)
			}
			raw, err := address.FromPublicKey(pub)
			if err != nil {
				return err
			}
			checked, err := address.ToChecksummed(raw, network)
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]string{"hex": raw, "address": checked})
		},
	}

	cmd.AddCommand(toHexCmd, toBase58Cmd, fromPubKeyCmd)
	return cmd
}

func trimHex(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}
