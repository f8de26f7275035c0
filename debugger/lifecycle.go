package debugger

import (
	"context"
	"time"

	"github.com/fansqz/go-debug-adapter/constants"
	"github.com/fansqz/go-debug-adapter/debuggee"
	"github.com/fansqz/go-debug-adapter/launcher"
	"github.com/fansqz/go-debug-adapter/protocol"
	"github.com/fansqz/go-debug-adapter/utils"
	"github.com/fansqz/go-debug-adapter/utils/gosync"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

func (s *Session) onInitializeRequest(request *protocol.Request) {
	s.logRequest(request)
	s.sendResponse(protocol.NewInitializeResponse(request.Seq))
}

func (s *Session) onConfigurationDoneRequest(request *protocol.Request) {
	s.logRequest(request)
	if !s.configurationReleased {
		s.configurationReleased = true
		close(s.configurationDone)
	}
	if !s.status.Is(utils.Disconnecting, utils.Terminated) {
		s.status.Set(utils.Running)
	}
	s.sendResponse(protocol.NewResponse(request.Seq, request.Command))
}

// waitConfigurationDone 在后台等待configurationDone，超时后也继续执行next
// 等待期间mailbox继续处理其他请求，configurationDone本身也需要mailbox处理
func (s *Session) waitConfigurationDone(next func()) {
	gate := s.configurationDone
	timeout := s.conf.Timeouts.ConfigurationDone
	gosync.Go(s.ctx, func(ctx context.Context) {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		select {
		case <-gate:
		case <-timer.C:
			logrus.Infof("[DebuggerSession] configurationDone not received in %v, continue", timeout)
		case <-ctx.Done():
			return
		}
		s.post(next)
	})
}

func (s *Session) onAttachRequest(request *protocol.Request) {
	s.logRequest(request)
	args := &AttachArguments{}
	if err := request.DecodeArguments(args); err != nil {
		s.sendErrorResponse(request, err)
		return
	}
	s.status.Set(utils.Configuring)
	s.waitConfigurationDone(func() {
		s.attach(request, args)
	})
}

func (s *Session) attach(request *protocol.Request, args *AttachArguments) {
	if err := s.config.configureAttach(args); err != nil {
		s.sendErrorResponse(request, err)
		return
	}
	if err := s.waitingDebuggeeSession(); err != nil {
		s.sendErrorResponse(request, err)
		return
	}

	if s.config.HasTarget() {
		process := s.launchScript(s.config.launchOptions(), s)
		err := process.RunTerminal(func() {
			s.post(func() {
				s.onProcessExit(process, nil, false)
			})
		})
		if err != nil {
			s.disposeFactory()
			s.sendErrorResponse(request, err)
			return
		}
		s.debugProcess = process
	}

	s.sendResponse(protocol.NewResponse(request.Seq, request.Command))
	s.sendEvent(protocol.NewInitializedEvent())
	s.markConfigured()
}

func (s *Session) onLaunchRequest(request *protocol.Request) {
	s.logRequest(request)
	args := &LaunchArguments{}
	if err := request.DecodeArguments(args); err != nil {
		s.sendErrorResponse(request, err)
		return
	}
	s.status.Set(utils.Configuring)
	s.waitConfigurationDone(func() {
		s.launch(request, args)
	})
}

func (s *Session) launch(request *protocol.Request, args *LaunchArguments) {
	if err := s.config.configureLaunch(args); err != nil {
		s.sendErrorResponse(request, err)
		return
	}
	if !s.config.NoDebug {
		if err := s.waitingDebuggeeSession(); err != nil {
			s.sendErrorResponse(request, err)
			return
		}
	}

	process := s.launchScript(s.config.launchOptions(), s)
	err := process.Run(func(code *int) {
		s.post(func() {
			s.onProcessExit(process, code, true)
		})
	})
	if err != nil {
		s.disposeFactory()
		s.sendErrorResponse(request, err)
		return
	}
	s.debugProcess = process

	s.sendResponse(protocol.NewResponse(request.Seq, request.Command))
	if s.config.NoDebug {
		s.sendEvent(protocol.NewTerminatedEvent())
		return
	}
	s.sendEvent(protocol.NewInitializedEvent())
	s.markConfigured()
}

func (s *Session) markConfigured() {
	if s.configurationReleased && s.status.Is(utils.Configuring) {
		s.status.Set(utils.Running)
	}
}

// onProcessExit 调试目标进程退出，结束所有连接
func (s *Session) onProcessExit(process launcher.Process, code *int, launched bool) {
	if s.debugProcess == process {
		s.debugProcess = nil
	}
	s.stopDebuggees()
	s.disposeFactory()
	if launched && code != nil {
		s.sendEvent(protocol.NewExitedEvent(*code))
	}
	s.sendEvent(protocol.NewTerminatedEvent())
}

// waitingDebuggeeSession 开始监听调试目标的连接，必须在启动进程之前调用
func (s *Session) waitingDebuggeeSession() error {
	if s.debuggeeServer == nil {
		s.debuggeeServer = s.newFactory()
	}
	return s.debuggeeServer.WaitSession(s.config.DebuggeeHost, s.config.DebuggeePort, func(conn debuggee.Connection) {
		s.post(func() {
			s.processDebuggeeSession(conn)
		})
	})
}

func (s *Session) processDebuggeeSession(conn debuggee.Connection) {
	if s.debuggeeServer == nil {
		logrus.Warnf("[DebuggerSession] debuggee connected after factory disposed, reject")
		conn.Stop()
		return
	}
	session := debuggee.NewSession(conn, s.post, s.onDebuggeeNotification)
	s.debuggee = append(s.debuggee, session)
	session.ThreadID = len(s.debuggee) - 1

	if err := session.ProcessSession(s.config.welcomeArguments()); err != nil {
		logrus.Warnf("[DebuggerSession] welcome thread %d fail, err = %v", session.ThreadID, err)
	}
	s.sendEvent(protocol.NewThreadEvent(constants.ThreadStarted, session.ThreadID))
}

func (s *Session) onDebuggeeNotification(session *debuggee.Session, n *debuggee.Notification) {
	switch n.Kind {
	case debuggee.EventNotification:
		s.forward(n.Message)
	case debuggee.WelcomeNotification:
		if name := n.Message.Get("body.threadName"); name.Type == gjson.String {
			session.ThreadName = name.String()
		}
	case debuggee.ResponseNotification:
		// 已经由注册的回调处理，例如disconnect
		if n.Resolved {
			return
		}
		s.pendingResponseCount--
		if s.pendingResponseCount <= 0 {
			s.forward(n.Message)
		} else {
			replyTo, _ := n.Message.ReplyTo()
			s.logResponse(n.Message.Command, replyTo, n.Message.IsSuccess())
		}
	case debuggee.EndNotification:
		s.log("debuggee end")
	case debuggee.CloseNotification:
		if session.ThreadID == constants.DetachedThread {
			return
		}
		s.sendEvent(protocol.NewThreadEvent(constants.ThreadExited, session.ThreadID))
		session.ThreadID = constants.DetachedThread
	}
}

// stopDebuggees 主动关闭的连接先标记为断开，关闭通知不再发送thread exited
func (s *Session) stopDebuggees() {
	for _, session := range s.debuggee {
		session.ThreadID = constants.DetachedThread
		session.Stop()
	}
	s.debuggee = nil
}

func (s *Session) disposeFactory() {
	if s.debuggeeServer != nil {
		s.debuggeeServer.Dispose()
		s.debuggeeServer = nil
	}
}

func (s *Session) disposeProcess(graceful bool) {
	if s.debugProcess != nil {
		s.debugProcess.Dispose(graceful)
		s.debugProcess = nil
	}
}

// -----------------------------------------------------------------------
// launcher.Output，在launcher的协程中调用

func (s *Session) PrintConsole(message string) {
	s.post(func() {
		s.sendEvent(protocol.NewOutputEvent(constants.ConsoleCategory, message+"\n"))
	})
}

func (s *Session) PrintStdout(message string) {
	s.post(func() {
		s.sendEvent(protocol.NewOutputEvent(constants.StdoutCategory, message))
	})
}

func (s *Session) PrintStderr(message string) {
	s.post(func() {
		s.sendEvent(protocol.NewOutputEvent(constants.StderrCategory, message))
	})
}
