package debugger

import (
	"context"
	"fmt"

	"github.com/emirpasic/gods/sets"
	"github.com/fansqz/go-debug-adapter/config"
	"github.com/fansqz/go-debug-adapter/constants"
	"github.com/fansqz/go-debug-adapter/debuggee"
	e "github.com/fansqz/go-debug-adapter/error"
	"github.com/fansqz/go-debug-adapter/launcher"
	"github.com/fansqz/go-debug-adapter/protocol"
	"github.com/fansqz/go-debug-adapter/transport"
	"github.com/fansqz/go-debug-adapter/utils"
	"github.com/google/go-dap"
	"github.com/sirupsen/logrus"
)

// Controller 控制端连接，可以在任意协程中调用
type Controller interface {
	Send(message dap.Message) error
	SendRaw(data []byte) error
}

// ConnectionFactory 监听调试目标的连接
type ConnectionFactory interface {
	WaitSession(host string, port int, onAccepted func(conn debuggee.Connection)) error
	Dispose()
}

// LaunchFunc 创建调试目标进程
type LaunchFunc func(options *launcher.Options, output launcher.Output) launcher.Process

// SessionOption 创建调试会话的参数，Controller以外的字段都可以为空
type SessionOption struct {
	Controller   Controller
	Config       *config.Config
	NewFactory   func() ConnectionFactory
	LaunchScript LaunchFunc
}

// Session 面向控制端的调试会话
// 除Dispatch、Close以及launcher.Output的方法以外，所有方法都在mailbox协程中执行
type Session struct {
	id           string
	controller   Controller
	conf         *config.Config
	newFactory   func() ConnectionFactory
	launchScript LaunchFunc

	ctx     context.Context
	cancel  context.CancelFunc
	mailbox *utils.Mailbox
	status  *utils.StatusManager

	broadcastCommands     sets.Set
	currentThreadCommands sets.Set

	debuggeeServer       ConnectionFactory
	debuggee             []*debuggee.Session
	currentThread        *int
	pendingResponseCount int

	configurationDone     chan struct{}
	configurationReleased bool

	debugProcess  launcher.Process
	disconnecting *disconnectState
	config        *SessionConfig
}

func NewSession(option *SessionOption) *Session {
	conf := option.Config
	if conf == nil {
		conf = config.Default()
	}
	newFactory := option.NewFactory
	if newFactory == nil {
		newFactory = func() ConnectionFactory { return transport.NewFactory() }
	}
	launchScript := option.LaunchScript
	if launchScript == nil {
		launchScript = launcher.LaunchScript
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		id:                    utils.GetUUID(),
		controller:            option.Controller,
		conf:                  conf,
		newFactory:            newFactory,
		launchScript:          launchScript,
		ctx:                   ctx,
		cancel:                cancel,
		mailbox:               utils.NewMailbox(),
		status:                utils.NewStatusManager(),
		broadcastCommands:     utils.List2set(constants.BroadcastCommands),
		currentThreadCommands: utils.List2set(constants.CurrentThreadCommands),
		configurationDone:     make(chan struct{}),
		config:                NewSessionConfig(conf.Debuggee.DefaultPort),
	}
}

// Run 处理请求和调试目标的消息，直到Close
func (s *Session) Run() {
	defer s.cancel()
	s.mailbox.Run(s.ctx)
}

// Dispatch 投递一个控制端请求
func (s *Session) Dispatch(request *protocol.Request) {
	s.post(func() {
		s.dispatchRequest(request)
	})
}

// Close 控制端断开时调用，结束调试目标进程并关闭所有连接
func (s *Session) Close() {
	s.post(func() {
		if s.disconnecting != nil {
			s.disconnecting.timer.Cancel()
			s.disconnecting = nil
		}
		s.disposeFactory()
		s.disposeProcess(false)
		s.stopDebuggees()
		s.status.Set(utils.Terminated)
		s.log("closed")
	})
	s.mailbox.Close()
}

// Status 当前状态
func (s *Session) Status() string {
	return s.status.Get()
}

func (s *Session) post(task func()) {
	s.mailbox.Post(task)
}

func (s *Session) dispatchRequest(request *protocol.Request) {
	switch constants.DebugCommand(request.Command) {
	case constants.Initialize:
		s.onInitializeRequest(request)
	case constants.Launch:
		s.onLaunchRequest(request)
	case constants.Attach:
		s.onAttachRequest(request)
	case constants.ConfigurationDone:
		s.onConfigurationDoneRequest(request)
	case constants.Disconnect:
		s.onDisconnectRequest(request)
	case constants.Threads:
		s.onThreadsRequest(request)
	case constants.SetBreakpoints:
		s.onSetBreakpointsRequest(request)
	case constants.SetExceptionBreakpoint:
		s.logRequest(request)
		s.sendResponse(protocol.NewResponse(request.Seq, request.Command))
	case constants.Next, constants.StepIn, constants.StepOut, constants.Continue, constants.Pause,
		constants.StackTrace, constants.Scopes, constants.Variables, constants.SetVariable, constants.Evaluate:
		s.onThreadRequest(request)
	default:
		s.logRequest(request)
		s.sendErrorResponse(request, fmt.Errorf("%w: %s", e.ErrCommandNotSupported, request.Command))
	}
}

// -----------------------------------------------------------------------
// 发送消息与日志

func (s *Session) sendResponse(response dap.ResponseMessage) {
	r := response.GetResponse()
	s.logResponse(r.Command, r.RequestSeq, r.Success)
	if err := s.controller.Send(response); err != nil {
		logrus.Warnf("[DebuggerSession] send response fail, err = %v", err)
	}
}

func (s *Session) sendErrorResponse(request *protocol.Request, err error) {
	s.sendResponse(protocol.NewErrorResponse(request.Seq, request.Command, err.Error()))
}

func (s *Session) sendEvent(event dap.EventMessage) {
	ev := event.GetEvent()
	s.logEvent(ev.Event)
	if err := s.controller.Send(event); err != nil {
		logrus.Warnf("[DebuggerSession] send event fail, err = %v", err)
	}
}

// forward 将调试目标的消息原样发送给控制端
func (s *Session) forward(message *protocol.Message) {
	if message.Type == string(constants.ResponseMessage) {
		replyTo, _ := message.ReplyTo()
		s.logResponse(message.Command, replyTo, message.IsSuccess())
	} else {
		s.logEvent(message.Event)
	}
	if err := s.controller.SendRaw(message.Raw); err != nil {
		logrus.Warnf("[DebuggerSession] forward message fail, err = %v", err)
	}
}

func (s *Session) log(message string) {
	status := "-"
	if len(s.debuggee) != 0 {
		status = "+"
	}
	logrus.WithField("session", utils.ShortID(s.id)).Infof("[DebuggerSession][%s] %s", status, message)
}

func (s *Session) logRequest(request *protocol.Request) {
	s.log(fmt.Sprintf("Request: %s[%d]", request.Command, request.Seq))
}

func (s *Session) logRequestThread(threadID int, request *protocol.Request) {
	s.log(fmt.Sprintf("Request to %d: %s[%d]", threadID, request.Command, request.Seq))
}

func (s *Session) logResponse(command string, requestSeq int, success bool) {
	status := "success"
	if !success {
		status = "fail"
	}
	s.log(fmt.Sprintf("Response: %s[%d] - %s", command, requestSeq, status))
}

// logEvent seq由控制端连接在发送时分配，这里还拿不到
func (s *Session) logEvent(event string) {
	s.log(fmt.Sprintf("Event: %s", event))
}
