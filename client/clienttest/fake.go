// Package clienttest 提供内存中的 client.Client 实现，用于服务层测试
package clienttest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/weisyn/qtum-sdk-go/client"
)

// Handler 处理一次 RPC 调用，返回值会经过 JSON 序列化后写入调用方的 result
type Handler func(params []interface{}) (interface{}, error)

// RecordedCall 记录下来的一次调用
type RecordedCall struct {
	Method string
	Params []interface{}
}

// FakeClient 按方法名分派到 Handler 的假客户端
type FakeClient struct {
	config   *client.Config
	mu       sync.Mutex
	handlers map[string]Handler
	calls    []RecordedCall
}

// New 创建假客户端，config 为 nil 时使用 client.DefaultConfig
func New(config *client.Config) *FakeClient {
	if config == nil {
		config = client.DefaultConfig()
	}
	return &FakeClient{
		config:   config,
		handlers: make(map[string]Handler),
	}
}

// Handle 注册方法处理函数
func (f *FakeClient) Handle(method string, h Handler) *FakeClient {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[method] = h
	return f
}

// Calls 返回已记录的调用
func (f *FakeClient) Calls() []RecordedCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]RecordedCall, len(f.calls))
	copy(out, f.calls)
	return out
}

// Call 实现 client.Client
func (f *FakeClient) Call(ctx context.Context, method string, params []interface{}, result interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	f.calls = append(f.calls, RecordedCall{Method: method, Params: params})
	h, ok := f.handlers[method]
	f.mu.Unlock()

	if !ok {
		return client.NewRPCError(-32601, fmt.Sprintf("Method not found: %s", method))
	}
	value, err := h(params)
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal fake result: %w", err)
	}
	return json.Unmarshal(raw, result)
}

// Config 实现 client.Client
func (f *FakeClient) Config() *client.Config {
	return f.config
}

// Close 实现 client.Client
func (f *FakeClient) Close() error {
	return nil
}
