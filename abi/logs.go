package abi

import (
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/weisyn/qtum-sdk-go/address"
	"github.com/weisyn/qtum-sdk-go/types"
)

// Log 节点返回的原始事件日志（searchlogs / callcontract receipt 中的 log 项）
type Log struct {
	Address string   `json:"address"`
	Topics  []string `json:"topics"`
	Data    string   `json:"data"`
}

// DecodedLog 单条日志的解码结果
//
// 未匹配到事件的日志 Decoded=false 且 Err=nil，原样透传；
// 匹配到事件但解码失败的日志 Decoded=false 且 Err 非空。
type DecodedLog struct {
	Log

	ContractKey string `json:"contractKey,omitempty"`
	Event       string `json:"event,omitempty"`
	Values      Record `json:"values,omitempty"`
	Decoded     bool   `json:"decoded"`
	Err         error  `json:"-"`
}

// ContractMetadata 合约地址与 ABI
type ContractMetadata struct {
	Address string
	ABI     ABI
}

// ContractTable 任意键到合约元数据的映射，解码期间只读
type ContractTable map[string]ContractMetadata

type eventTarget struct {
	key     string
	address string
	entry   Entry
}

// TopicIndex 事件 topic 到 (合约键, 事件) 的索引
type TopicIndex struct {
	targets map[string][]eventTarget
}

// NewTopicIndex 从 ContractTable 中所有 ABI 的全部事件构建索引
//
// 匿名事件没有签名 topic，不进入索引。多个合约声明同一事件时按键排序保存。
func NewTopicIndex(table ContractTable) (*TopicIndex, error) {
	return buildTopicIndex(table, false, nil)
}

// buildTopicIndex lenient=true 时地址非法的合约只按 topic 匹配，不参与地址优先
func buildTopicIndex(table ContractTable, lenient bool, logger Logger) (*TopicIndex, error) {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	idx := &TopicIndex{targets: make(map[string][]eventTarget)}
	for _, k := range keys {
		meta := table[k]

		var raw20 string
		if meta.Address != "" {
			a, err := address.ToRaw20(meta.Address)
			switch {
			case err == nil:
				raw20 = a
			case !lenient:
				return nil, fmt.Errorf("contract %q: %w", k, err)
			case logger != nil:
				logger.Warn("Ignoring invalid contract address", "contract", k, "address", meta.Address, "error", err)
			}
		}

		for _, e := range meta.ABI.Events() {
			if e.Anonymous {
				continue
			}
			topic, err := TopicHex(e)
			if err != nil {
				return nil, fmt.Errorf("contract %q: %w", k, err)
			}
			idx.targets[topic] = append(idx.targets[topic], eventTarget{key: k, address: raw20, entry: e})
		}
	}
	return idx, nil
}

// Lookup 按第一个 topic 查找事件；多个候选时优先选地址与日志地址一致的合约
func (idx *TopicIndex) Lookup(topic0, logAddress string) (string, *Entry, bool) {
	candidates := idx.targets[normalizeHex(topic0)]
	if len(candidates) == 0 {
		return "", nil, false
	}
	if len(candidates) > 1 && logAddress != "" {
		if raw20, err := address.ToRaw20(logAddress); err == nil {
			for i := range candidates {
				if candidates[i].address == raw20 {
					return candidates[i].key, &candidates[i].entry, true
				}
			}
		}
	}
	return candidates[0].key, &candidates[0].entry, true
}

// Decode 逐条解码日志，单条失败只影响该条
func (idx *TopicIndex) Decode(logs []Log, opts *DecodeOptions) []*DecodedLog {
	if opts == nil {
		opts = &DecodeOptions{}
	}

	out := make([]*DecodedLog, len(logs))
	for i, l := range logs {
		out[i] = idx.decodeOne(i, l, opts)
	}
	return out
}

func (idx *TopicIndex) decodeOne(i int, l Log, opts *DecodeOptions) *DecodedLog {
	result := &DecodedLog{Log: l}
	if len(l.Topics) == 0 {
		return result
	}

	key, entry, ok := idx.Lookup(l.Topics[0], l.Address)
	if !ok {
		return result
	}
	result.ContractKey = key
	result.Event = entry.Name

	values, err := decodeEvent(*entry, l, opts.RemoveHexPrefix)
	if err != nil {
		result.Err = fmt.Errorf("decode log %d (%s.%s): %w", i, key, entry.Name, err)
		if opts.Logger != nil {
			opts.Logger.Warn("Skipping undecodable log", "index", i, "contract", key, "event", entry.Name, "error", err)
		}
		return result
	}
	result.Values = values
	result.Decoded = true
	return result
}

// DecodeLogs 构建一次 topic 索引并解码整批日志
//
// 表中地址非法的合约仍按 topic 解码，只是不参与地址优先，并通过 opts.Logger 告警。
func DecodeLogs(logs []Log, table ContractTable, opts *DecodeOptions) ([]*DecodedLog, error) {
	var logger Logger
	if opts != nil {
		logger = opts.Logger
	}
	idx, err := buildTopicIndex(table, true, logger)
	if err != nil {
		return nil, err
	}
	return idx.Decode(logs, opts), nil
}

// decodeEvent indexed 参数从 topics[1:] 读取，其余参数从 data 按头/尾布局解码
//
// 动态类型与数组的 indexed 参数在链上只保存哈希，返回 topic 本身。
func decodeEvent(entry Entry, l Log, strip bool) (Record, error) {
	ts, err := entry.Inputs.parseTypes()
	if err != nil {
		return nil, err
	}

	topics := l.Topics[1:]
	rec := make(Record, len(entry.Inputs))

	var (
		dataArgs  Arguments
		dataTypes []Type
		dataKeys  []string
		next      int
	)
	for i, arg := range entry.Inputs {
		key := entry.Inputs.key(i)
		if !arg.Indexed {
			dataArgs = append(dataArgs, arg)
			dataTypes = append(dataTypes, ts[i])
			dataKeys = append(dataKeys, key)
			continue
		}

		if next >= len(topics) {
			return nil, types.NewError(types.ErrCodeDecode, "event %s: missing topic for indexed argument %q", entry.Name, arg.Name)
		}
		topic, err := decodeTopic(topics[next])
		if err != nil {
			return nil, err
		}
		next++

		t := ts[i]
		if t.IsDynamic() || t.Kind == ArrayTy {
			v := "0x" + hex.EncodeToString(topic)
			if strip {
				v = TrimHexPrefix(v)
			}
			rec[key] = v
			continue
		}
		v, err := unpackInline(t, topic)
		if err != nil {
			return nil, err
		}
		if strip && t.isHexValued() {
			v = stripValue(v)
		}
		rec[key] = v
	}

	data, err := decodeHex(l.Data)
	if err != nil {
		return nil, err
	}
	values, err := dataArgs.Unpack(data)
	if err != nil {
		return nil, err
	}
	for j, v := range values {
		if strip && dataTypes[j].isHexValued() {
			v = stripValue(v)
		}
		rec[dataKeys[j]] = v
	}
	return rec, nil
}

func decodeTopic(s string) ([]byte, error) {
	b, err := decodeHex(s)
	if err != nil {
		return nil, err
	}
	if len(b) != WordSize {
		return nil, types.NewError(types.ErrCodeDecode, "topic has %d bytes, want %d", len(b), WordSize)
	}
	return b, nil
}
