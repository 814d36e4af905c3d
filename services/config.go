package services

// Config 业务服务运行时参数
//
// **说明**：
// - 所有字段均为可选，零值时使用 DefaultConfig 中的取值
// - SenderAddress 可以是 Base58 或 20 字节十六进制地址
// - 金额类字段用十进制字符串表示（单位 QTUM），原样作为 JSON 数字发送给节点
type Config struct {
	// SenderAddress 默认发送方地址（callcontract / sendtocontract）
	SenderAddress string

	// GasLimit sendtocontract 默认 gas 上限
	GasLimit uint64

	// GasPrice sendtocontract 默认 gas 单价（QTUM）
	GasPrice string

	// Broadcast 是否广播交易，false 时节点只返回构造好的交易
	Broadcast bool

	// ChangeToSender 找零是否回到发送方地址
	ChangeToSender bool

	// RemoveHexPrefix 解码结果中的十六进制字段是否去掉 0x
	RemoveHexPrefix bool

	// Concurrency searchlogs 回执解码与批量调用的并发数
	Concurrency int
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		GasLimit:       250000,
		GasPrice:       "0.0000004",
		Broadcast:      true,
		ChangeToSender: true,
		Concurrency:    5,
	}
}

// WithDefaults 用默认值补齐零值字段，返回新的 Config
func (c *Config) WithDefaults() *Config {
	d := DefaultConfig()
	if c == nil {
		return d
	}
	out := *c
	if out.GasLimit == 0 {
		out.GasLimit = d.GasLimit
	}
	if out.GasPrice == "" {
		out.GasPrice = d.GasPrice
	}
	if out.Concurrency <= 0 {
		out.Concurrency = d.Concurrency
	}
	return &out
}
