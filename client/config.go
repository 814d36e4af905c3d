package client

import (
	"github.com/weisyn/qtum-sdk-go/address"
)

// Config 客户端配置
type Config struct {
	// Endpoint qtumd RPC 端点地址
	Endpoint string

	// User / Password rpcuser、rpcpassword，为空时不发送 Basic Auth
	User     string
	Password string

	// Timeout 超时时间（秒）
	Timeout int

	// Network 节点所在网络，决定 Base58 地址的版本字节
	Network address.Network

	// 调试模式
	Debug bool

	// 日志器（可选）
	Logger Logger

	// Retry 重试配置，nil 时使用 DefaultRetryConfig
	Retry *RetryConfig
}

// Logger 日志接口
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// DefaultConfig 返回默认配置（本地 testnet 节点）
func DefaultConfig() *Config {
	return &Config{
		Endpoint: "http://localhost:13889",
		Timeout:  30,
		Network:  address.Testnet,
		Debug:    false,
	}
}
