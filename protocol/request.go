package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/fansqz/go-debug-adapter/constants"
	e "github.com/fansqz/go-debug-adapter/error"
	"github.com/tidwall/gjson"
)

// Request 控制端发来的请求
// arguments保持原始json，转发给调试目标时原样发送
type Request struct {
	Seq       int             `json:"seq"`
	Type      string          `json:"type"`
	Command   string          `json:"command"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

func (r *Request) GetSeq() int {
	return r.Seq
}

// ThreadID 获取参数中的threadId
// 参数中没有threadId时返回false，用来区分threadId为0的情况
func (r *Request) ThreadID() (int, bool) {
	if len(r.Arguments) == 0 {
		return 0, false
	}
	result := gjson.GetBytes(r.Arguments, "threadId")
	if result.Type != gjson.Number {
		return 0, false
	}
	return int(result.Int()), true
}

// Args 转发用的参数，没有参数时返回nil，避免发送"arguments":null
func (r *Request) Args() interface{} {
	if len(r.Arguments) == 0 {
		return nil
	}
	return r.Arguments
}

// DecodeArguments 将参数解析到args中，没有参数时args保持零值
func (r *Request) DecodeArguments(args interface{}) error {
	if len(r.Arguments) == 0 || string(r.Arguments) == "null" {
		return nil
	}
	if err := json.Unmarshal(r.Arguments, args); err != nil {
		return fmt.Errorf("%w: %s: %v", e.ErrInvalidArguments, r.Command, err)
	}
	return nil
}

// ParseRequest 解析控制端的请求
func ParseRequest(data []byte) (*Request, error) {
	request := &Request{}
	if err := json.Unmarshal(data, request); err != nil {
		return nil, fmt.Errorf("%w: %v", e.ErrInvalidMessage, err)
	}
	if request.Type != string(constants.RequestMessage) {
		return nil, fmt.Errorf("%w: type = %q", e.ErrNotRequest, request.Type)
	}
	if request.Command == "" {
		return nil, fmt.Errorf("%w: command is empty", e.ErrInvalidMessage)
	}
	return request, nil
}

// DebuggeeRequest 转发给调试目标的请求
// seq和command沿用控制端请求的，这样调试目标的回复可以直接作为控制端请求的回复
type DebuggeeRequest struct {
	Seq       int         `json:"seq"`
	Type      string      `json:"type"`
	Command   string      `json:"command"`
	Arguments interface{} `json:"arguments,omitempty"`
}

func NewDebuggeeRequest(request *Request, args interface{}) *DebuggeeRequest {
	return &DebuggeeRequest{
		Seq:       request.Seq,
		Type:      string(constants.RequestMessage),
		Command:   request.Command,
		Arguments: args,
	}
}

// WelcomeRequest 调试目标连接上以后发送的第一条消息
type WelcomeRequest struct {
	Command   string            `json:"command"`
	Arguments *WelcomeArguments `json:"arguments"`
}

// WelcomeArguments 调试目标自行配置所需的信息
type WelcomeArguments struct {
	PathMap            []PathMapping     `json:"pathMap"`
	StopOnEntry        bool              `json:"stopOnEntry"`
	SourceBasePath     string            `json:"sourceBasePath"`
	DirectorySeparator string            `json:"directorySeparator"`
	BreakPoints        map[string]string `json:"breakPoints"`
}

func NewWelcomeRequest(args *WelcomeArguments) *WelcomeRequest {
	return &WelcomeRequest{
		Command:   string(constants.Welcome),
		Arguments: args,
	}
}
