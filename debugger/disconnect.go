package debugger

import (
	"github.com/fansqz/go-debug-adapter/protocol"
	"github.com/fansqz/go-debug-adapter/utils"
	"github.com/google/go-dap"
	"github.com/sirupsen/logrus"
)

// disconnectState 一次disconnect的状态，超时和调试目标的确认只有先到的生效
type disconnectState struct {
	request *protocol.Request
	timer   *utils.TimeoutManager
	replied bool
}

func (s *Session) onDisconnectRequest(request *protocol.Request) {
	s.logRequest(request)
	args := &dap.DisconnectArguments{}
	if err := request.DecodeArguments(args); err != nil {
		logrus.Warnf("[DebuggerSession] %v, use default disconnect arguments", err)
	}

	if s.disconnecting != nil || s.status.Is(utils.Terminated) {
		s.sendResponse(protocol.NewResponse(request.Seq, request.Command))
		return
	}

	if !args.Restart {
		s.disposeFactory()
	}

	if args.TerminateDebuggee {
		s.disposeProcess(false)
		s.stopDebuggees()
		s.finishDisconnect(request, nil)
		return
	}

	if attached := s.attachedSessions(); len(attached) != 0 {
		s.status.Set(utils.Disconnecting)
		state := &disconnectState{
			request: request,
			timer:   utils.NewTimeoutManager(),
		}
		s.disconnecting = state
		state.timer.Start(s.ctx, s.conf.Timeouts.Disconnect, func() {
			s.post(func() {
				s.onDisconnectTimeout(state)
			})
		})
		for _, session := range attached {
			if err := session.Disconnect(request, request.Args(), s.onDisconnectAck, state); err != nil {
				logrus.Warnf("[DebuggerSession] disconnect thread %d fail, err = %v", session.ThreadID, err)
			}
		}
		return
	}

	if s.debugProcess != nil {
		s.disposeProcess(false)
	}
	s.finishDisconnect(request, nil)
}

// onDisconnectAck 第一个确认断开的调试目标
func (s *Session) onDisconnectAck(_ *protocol.Message, arg interface{}) {
	state, ok := arg.(*disconnectState)
	if !ok || state.replied {
		return
	}
	state.timer.Cancel()
	s.disposeProcess(true)
	s.stopDebuggees()
	s.finishDisconnect(state.request, state)
}

func (s *Session) onDisconnectTimeout(state *disconnectState) {
	if state.replied {
		return
	}
	logrus.Warnf("[DebuggerSession] disconnect not acknowledged in %v, force terminate", s.conf.Timeouts.Disconnect)
	s.disposeProcess(false)
	s.stopDebuggees()
	s.finishDisconnect(state.request, state)
}

func (s *Session) finishDisconnect(request *protocol.Request, state *disconnectState) {
	if state != nil {
		state.replied = true
	}
	s.disconnecting = nil
	s.status.Set(utils.Terminated)
	s.sendResponse(protocol.NewResponse(request.Seq, request.Command))
}
