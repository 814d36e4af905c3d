package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync/atomic"
	"time"
)

// httpClient HTTP客户端实现
type httpClient struct {
	config   *Config
	endpoint string
	client   *http.Client
	logger   Logger
	debug    bool
	nextID   atomic.Uint64
	retry    *RetryConfig
}

// NewHTTPClient 创建HTTP客户端
func NewHTTPClient(config *Config) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}

	httpCli := &http.Client{
		Timeout: time.Duration(config.Timeout) * time.Second,
	}

	retryConfig := config.Retry
	if retryConfig == nil {
		retryConfig = DefaultRetryConfig()
		// 如果配置了重试，添加日志回调
		if config.Debug && config.Logger != nil {
			retryConfig.OnRetry = func(attempt int, err error) {
				config.Logger.Warn("Retrying request", "attempt", attempt, "error", err)
			}
		}
	}

	return &httpClient{
		config:   config,
		endpoint: config.Endpoint,
		client:   httpCli,
		logger:   config.Logger,
		debug:    config.Debug,
		retry:    retryConfig,
	}, nil
}

// Call 调用JSON-RPC方法
func (c *httpClient) Call(ctx context.Context, method string, params []interface{}, result interface{}) error {
	if params == nil {
		params = []interface{}{}
	}
	req := &jsonRPCRequest{
		JSONRPC: "1.0",
		Method:  method,
		Params:  params,
		ID:      c.nextID.Add(1),
	}

	reqBody, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal request failed: %w", err)
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("JSON-RPC request", "method", method, "body", string(reqBody))
	}

	var respBody []byte
	err = withRetry(ctx, func() error {
		// 每次重试都创建新的请求（因为 Body 只能读取一次）
		body, postErr := c.post(ctx, reqBody)
		if postErr != nil {
			return postErr
		}
		respBody = body
		return nil
	}, c.retry)
	if err != nil {
		return err
	}

	var jsonResp jsonRPCResponse
	if err := json.Unmarshal(respBody, &jsonResp); err != nil {
		return NewInvalidResponseError("unmarshal response failed", err)
	}
	if jsonResp.Error != nil {
		return NewRPCError(jsonResp.Error.Code, jsonResp.Error.Message)
	}

	if result == nil || len(jsonResp.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(jsonResp.Result, result); err != nil {
		return NewInvalidResponseError(fmt.Sprintf("unmarshal %s result failed", method), err)
	}
	return nil
}

// post 发送一次请求并返回响应体
//
// qtumd 对 RPC 层错误返回 HTTP 500/404 且响应体是合法的 JSON-RPC 错误，
// 这类响应直接交给上层解析，不参与重试。
func (c *httpClient) post(ctx context.Context, reqBody []byte) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if c.config.User != "" || c.config.Password != "" {
		httpReq.SetBasicAuth(c.config.User, c.config.Password)
	}

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, NewTimeoutError(err)
		}
		return nil, NewNetworkError(err)
	}
	defer func() {
		if err := httpResp.Body.Close(); err != nil && c.logger != nil {
			c.logger.Warn("Failed to close response body", "error", err)
		}
	}()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, NewNetworkError(fmt.Errorf("read response failed: %w", err))
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("JSON-RPC response", "status", httpResp.StatusCode, "body", string(respBody))
	}

	switch {
	case httpResp.StatusCode == http.StatusOK:
		return respBody, nil
	case httpResp.StatusCode == http.StatusUnauthorized:
		return nil, NewUnauthorizedError()
	case hasRPCError(respBody):
		return respBody, nil
	case isRetryableHTTPError(httpResp.StatusCode):
		return nil, fmt.Errorf("HTTP error: %d", httpResp.StatusCode)
	default:
		return nil, NewInvalidResponseError(
			fmt.Sprintf("unexpected HTTP status %d, body: %s", httpResp.StatusCode, string(respBody)), nil)
	}
}

// Config 返回客户端配置
func (c *httpClient) Config() *Config {
	return c.config
}

// Close 关闭连接（HTTP客户端无需特殊处理）
func (c *httpClient) Close() error {
	c.client.CloseIdleConnections()
	return nil
}

// hasRPCError 判断响应体是否携带 JSON-RPC 错误
func hasRPCError(body []byte) bool {
	var resp jsonRPCResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return false
	}
	return resp.Error != nil
}

// jsonRPCRequest JSON-RPC请求结构
type jsonRPCRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
	ID      uint64        `json:"id"`
}

// jsonRPCResponse JSON-RPC响应结构
type jsonRPCResponse struct {
	Result json.RawMessage `json:"result,omitempty"`
	Error  *jsonRPCError   `json:"error,omitempty"`
	ID     uint64          `json:"id"`
}

// jsonRPCError JSON-RPC错误结构
type jsonRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
