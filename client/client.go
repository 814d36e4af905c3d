package client

import (
	"context"
	"fmt"
	"net/url"
)

// Client qtumd JSON-RPC 客户端接口
type Client interface {
	// Call 调用 JSON-RPC 方法，result 非 nil 时把 result 字段反序列化进去
	Call(ctx context.Context, method string, params []interface{}, result interface{}) error

	// Config 返回客户端配置（只读）
	Config() *Config

	// Close 关闭连接
	Close() error
}

// NewClient 创建新的客户端
func NewClient(config *Config) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	u, err := url.Parse(config.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", config.Endpoint, err)
	}
	switch u.Scheme {
	case "http", "https":
		return NewHTTPClient(config)
	default:
		return nil, fmt.Errorf("unsupported endpoint scheme: %q", u.Scheme)
	}
}
