package protocol

import (
	"github.com/fansqz/go-debug-adapter/constants"
	"github.com/google/go-dap"
)

func NewEvent(event constants.DebugEventType) *dap.Event {
	return &dap.Event{
		ProtocolMessage: dap.ProtocolMessage{
			Seq:  0,
			Type: string(constants.EventMessage),
		},
		Event: string(event),
	}
}

// NewInitializedEvent 通知控制端可以开始发送断点等配置
func NewInitializedEvent() *dap.InitializedEvent {
	return &dap.InitializedEvent{Event: *NewEvent(constants.InitializedEvent)}
}

// NewThreadEvent 线程开始或者退出
func NewThreadEvent(reason constants.ThreadReasonType, threadID int) *dap.ThreadEvent {
	event := &dap.ThreadEvent{Event: *NewEvent(constants.ThreadEvent)}
	event.Body.Reason = string(reason)
	event.Body.ThreadId = threadID
	return event
}

// NewOutputEvent 该事件表明目标已经产生了一些输出。
func NewOutputEvent(category constants.OutputCategory, output string) *dap.OutputEvent {
	event := &dap.OutputEvent{Event: *NewEvent(constants.OutputEvent)}
	event.Body.Category = string(category)
	event.Body.Output = output
	return event
}

// NewExitedEvent 该event表明被调试对象已经退出并返回exit code。
func NewExitedEvent(exitCode int) *dap.ExitedEvent {
	event := &dap.ExitedEvent{Event: *NewEvent(constants.ExitedEvent)}
	event.Body.ExitCode = exitCode
	return event
}

// NewTerminatedEvent 调试结束
func NewTerminatedEvent() *dap.TerminatedEvent {
	return &dap.TerminatedEvent{Event: *NewEvent(constants.TerminatedEvent)}
}
