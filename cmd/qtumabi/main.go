// qtumabi Qtum 合约 ABI 命令行工具
package main

func main() {
	Execute()
}
