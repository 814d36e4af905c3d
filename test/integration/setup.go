package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/weisyn/qtum-sdk-go/address"
	"github.com/weisyn/qtum-sdk-go/client"
)

const (
	// DefaultNodeEndpoint 默认 regtest 节点端点
	DefaultNodeEndpoint = "http://localhost:13889"
	// DefaultTimeout 默认超时时间
	DefaultTimeout = 30 * time.Second
	// TransactionConfirmTimeout 交易确认超时时间
	TransactionConfirmTimeout = 60 * time.Second
	// TransactionConfirmInterval 交易确认轮询间隔
	TransactionConfirmInterval = 500 * time.Millisecond
)

// 环境变量
const (
	EnvRPCURL       = "QTUM_RPC_URL"
	EnvRPCUser      = "QTUM_RPC_USER"
	EnvRPCPassword  = "QTUM_RPC_PASSWORD"
	EnvQRC20Address = "QTUM_QRC20_ADDRESS"
	EnvSender       = "QTUM_SENDER"
)

// TestConfig 测试配置
type TestConfig struct {
	NodeEndpoint string
	User         string
	Password     string
	Timeout      time.Duration
}

// DefaultTestConfig 从环境变量读取测试配置
func DefaultTestConfig() *TestConfig {
	cfg := &TestConfig{
		NodeEndpoint: os.Getenv(EnvRPCURL),
		User:         os.Getenv(EnvRPCUser),
		Password:     os.Getenv(EnvRPCPassword),
		Timeout:      DefaultTimeout,
	}
	if cfg.NodeEndpoint == "" {
		cfg.NodeEndpoint = DefaultNodeEndpoint
	}
	return cfg
}

// SetupTestClient 连接 regtest 节点
//
// 未设置 QTUM_RPC_URL 时跳过测试；设置了但节点不可用时测试失败。
func SetupTestClient(t *testing.T) client.Client {
	t.Helper()
	if os.Getenv(EnvRPCURL) == "" {
		t.Skipf("%s not set, skipping integration test", EnvRPCURL)
	}
	cfg := DefaultTestConfig()

	c, err := client.NewClient(&client.Config{
		Endpoint: cfg.NodeEndpoint,
		User:     cfg.User,
		Password: cfg.Password,
		Timeout:  int(cfg.Timeout.Seconds()),
		Network:  address.Testnet,
		Logger:   client.NewDevelopmentLogger(),
		Retry:    &client.RetryConfig{MaxRetries: 1, InitialDelay: 200, MaxDelay: 200, BackoffMultiplier: 1},
	})
	require.NoError(t, err, "创建客户端失败")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, c.Call(ctx, "getblockcount", nil, nil), "节点未运行: %s", cfg.NodeEndpoint)

	t.Cleanup(func() { TeardownTestClient(t, c) })
	return c
}

// TeardownTestClient 关闭客户端
func TeardownTestClient(t *testing.T, c client.Client) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		t.Logf("关闭客户端失败: %v", err)
	}
}

// RequireEnv 读取环境变量，未设置时跳过测试
func RequireEnv(t *testing.T, name string) string {
	t.Helper()
	v := os.Getenv(name)
	if v == "" {
		t.Skipf("%s not set", name)
	}
	return v
}

// NewAddress 向节点钱包申请新地址
func NewAddress(t *testing.T, c client.Client) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var addr string
	require.NoError(t, c.Call(ctx, "getnewaddress", nil, &addr), "getnewaddress 失败")
	require.NoError(t, address.Validate(addr, c.Config().Network), "节点返回的地址无效: %s", addr)
	return addr
}
