package protocol

import (
	"encoding/json"
	"fmt"

	e "github.com/fansqz/go-debug-adapter/error"
	"github.com/tidwall/gjson"
)

// Message 调试目标发来的消息
// 只解析消息头，body等其余内容保存在Raw中
type Message struct {
	Seq        int    `json:"seq"`
	Type       string `json:"type"`
	Command    string `json:"command,omitempty"`
	Event      string `json:"event,omitempty"`
	RequestSeq *int   `json:"request_seq,omitempty"`
	Success    *bool  `json:"success,omitempty"`

	Raw json.RawMessage `json:"-"`
}

// ParseMessage 解析调试目标发来的消息，消息必须是带有type字段的json对象
func ParseMessage(data []byte) (*Message, error) {
	if !gjson.ValidBytes(data) || !gjson.ParseBytes(data).IsObject() {
		return nil, fmt.Errorf("%w: not a json object", e.ErrInvalidMessage)
	}
	message := &Message{}
	if err := json.Unmarshal(data, message); err != nil {
		return nil, fmt.Errorf("%w: %v", e.ErrInvalidMessage, err)
	}
	if message.Type == "" {
		return nil, fmt.Errorf("%w: type is missing", e.ErrInvalidMessage)
	}
	message.Raw = data
	return message, nil
}

func (m *Message) GetSeq() int {
	return m.Seq
}

// ReplyTo 获取回复对应的请求序号，没有request_seq或者为0时返回false
func (m *Message) ReplyTo() (int, bool) {
	if m.RequestSeq == nil || *m.RequestSeq == 0 {
		return 0, false
	}
	return *m.RequestSeq, true
}

// IsSuccess 没有success字段的消息视为成功
func (m *Message) IsSuccess() bool {
	return m.Success == nil || *m.Success
}

// Get 按路径读取消息中的字段
func (m *Message) Get(path string) gjson.Result {
	return gjson.GetBytes(m.Raw, path)
}
