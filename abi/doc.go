// Package abi 实现 Qtum 合约调用数据的编解码
//
// **组成**：
// - 类型系统：ParseType 把 ABI 类型字符串解析为 Type
// - 选择器：FunctionSelector / EventTopic，Keccak-256(name(type1,type2,...))
// - 编码：EncodeCall 生成 选择器 + 头部 + 尾部 的十六进制调用数据
// - 解码：DecodeCall 解码 callcontract 输出，DecodeLogs 按 topic 解码事件日志
//
// **方言差异**：
// 元素为动态类型的定长数组（如 string[3]、bytes[10]）按内联块编码，
// 每个元素右侧补零到 32 字节，不经过 offset/length 尾部机制。
//
// 包内所有函数都是无状态纯函数，不做任何网络 I/O，可以并发调用。
package abi
