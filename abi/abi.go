package abi

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/weisyn/qtum-sdk-go/types"
)

// EntryType ABI 条目类型
type EntryType string

const (
	Function    EntryType = "function"
	Event       EntryType = "event"
	Constructor EntryType = "constructor"
	Fallback    EntryType = "fallback"
)

// Argument 方法或事件的一个参数
type Argument struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Indexed bool   `json:"indexed,omitempty"`
}

// Arguments 有序参数列表，顺序即编码顺序
type Arguments []Argument

// Entry 一个方法/事件/构造函数/fallback 描述
//
// Inputs 为 nil 表示 JSON 中缺少 inputs 字段，与空列表 [] 区分。
type Entry struct {
	Type            EntryType `json:"type"`
	Name            string    `json:"name,omitempty"`
	Inputs          Arguments `json:"inputs"`
	Outputs         Arguments `json:"outputs,omitempty"`
	StateMutability string    `json:"stateMutability,omitempty"`
	Constant        bool      `json:"constant,omitempty"`
	Payable         bool      `json:"payable,omitempty"`
	Anonymous       bool      `json:"anonymous,omitempty"`
}

// ABI 合约 ABI
type ABI []Entry

// JSON 从 reader 读取标准 ABI JSON
func JSON(reader io.Reader) (ABI, error) {
	var entries ABI
	if err := json.NewDecoder(reader).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode abi json: %w", err)
	}
	entries.normalize()
	return entries, nil
}

// ParseJSON 解析标准 ABI JSON
func ParseJSON(data []byte) (ABI, error) {
	var entries ABI
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode abi json: %w", err)
	}
	entries.normalize()
	return entries, nil
}

// normalize 缺省 type 按 Solidity 约定视为 function
func (a ABI) normalize() {
	for i := range a {
		if a[i].Type == "" {
			a[i].Type = Function
		}
	}
}

// Method 按名称查找唯一的方法
//
// 只按名称匹配，不按参数类型区分重载；同名方法多于一个时返回 AmbiguousMethod。
func (a ABI) Method(name string) (*Entry, error) {
	return a.unique(Function, name)
}

// Event 按名称查找唯一的事件
func (a ABI) Event(name string) (*Entry, error) {
	return a.unique(Event, name)
}

// Events 返回全部事件条目
func (a ABI) Events() []Entry {
	var events []Entry
	for _, e := range a {
		if e.Type == Event {
			events = append(events, e)
		}
	}
	return events
}

// Constructor 返回构造函数条目，没有则返回 nil
func (a ABI) Constructor() *Entry {
	for i := range a {
		if a[i].Type == Constructor {
			return &a[i]
		}
	}
	return nil
}

func (a ABI) unique(kind EntryType, name string) (*Entry, error) {
	var found *Entry
	count := 0
	for i := range a {
		if a[i].Type == kind && a[i].Name == name {
			if found == nil {
				found = &a[i]
			}
			count++
		}
	}
	switch count {
	case 0:
		return nil, types.NewError(types.ErrCodeMethodNotFound, "%s %q not found in abi", kind, name)
	case 1:
		return found, nil
	default:
		return nil, types.NewError(types.ErrCodeAmbiguousMethod, "%d overloads of %s %q, resolution by name is ambiguous", count, kind, name)
	}
}

// NonIndexed 返回非 indexed 参数
func (arguments Arguments) NonIndexed() Arguments {
	var ret Arguments
	for _, arg := range arguments {
		if !arg.Indexed {
			ret = append(ret, arg)
		}
	}
	return ret
}

// parseTypes 解析全部参数类型
func (arguments Arguments) parseTypes() ([]Type, error) {
	ts := make([]Type, len(arguments))
	for i, arg := range arguments {
		t, err := ParseType(arg.Type)
		if err != nil {
			return nil, fmt.Errorf("argument %d (%s): %w", i, arg.Name, err)
		}
		ts[i] = t
	}
	return ts, nil
}

// key 解码结果的键：参数名，为空时用位置下标
func (arguments Arguments) key(i int) string {
	if arguments[i].Name != "" {
		return arguments[i].Name
	}
	return strconv.Itoa(i)
}
