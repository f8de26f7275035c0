package debuggee

import (
	"encoding/json"
	"fmt"

	"github.com/fansqz/go-debug-adapter/constants"
	"github.com/fansqz/go-debug-adapter/protocol"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Connection 与一个调试目标之间的连接
type Connection interface {
	// Send 发送一条完整的消息
	Send(text string) error
	// Process 开始读取消息并交给handler处理
	Process(handler Handler)
	// Stop 关闭连接，可以重复调用
	Stop()
}

// Handler 接收连接上的消息以及连接的生命周期
type Handler interface {
	HandleMessage(data []byte)
	HandleEnd()
	HandleClose()
}

// NotificationKind 会话通知的类型
type NotificationKind string

const (
	EventNotification    NotificationKind = "event"
	ResponseNotification NotificationKind = "response"
	WelcomeNotification  NotificationKind = "welcome"
	EndNotification      NotificationKind = "end"
	CloseNotification    NotificationKind = "close"
)

// Notification 调试目标会话发给所属调试会话的通知
type Notification struct {
	Kind    NotificationKind
	Message *protocol.Message
	// Resolved 该回复已经由请求注册的回调处理过
	Resolved bool
}

// Dispatcher 将任务交给所属调试会话的协程执行
type Dispatcher func(task func())

// Listener 处理会话通知，总是在Dispatcher的协程中调用
type Listener func(s *Session, n *Notification)

// Session 一个调试目标连接，对应控制端的一个线程
// 除Handler的三个方法以外，所有方法都必须在Dispatcher的协程中调用
type Session struct {
	ThreadID   int
	ThreadName string

	conn       Connection
	correlator *Correlator
	dispatch   Dispatcher
	listener   Listener
	stopped    bool
}

func NewSession(conn Connection, dispatch Dispatcher, listener Listener) *Session {
	return &Session{
		ThreadID:   constants.DetachedThread,
		ThreadName: constants.DefaultThreadName,
		conn:       conn,
		correlator: NewCorrelator(),
		dispatch:   dispatch,
		listener:   listener,
	}
}

// ProcessSession 开始处理连接上的消息，并发送welcome
func (s *Session) ProcessSession(welcome *protocol.WelcomeArguments) error {
	s.conn.Process(s)
	return s.send(protocol.NewWelcomeRequest(welcome), 0, nil, nil)
}

// Proxy 将控制端请求转发给调试目标，不等待回复
func (s *Session) Proxy(request *protocol.Request, args interface{}) error {
	return s.send(protocol.NewDebuggeeRequest(request, args), 0, nil, nil)
}

// Disconnect 转发disconnect请求，调试目标确认以后执行callback
func (s *Session) Disconnect(request *protocol.Request, args interface{}, callback ResponseCallback, arg interface{}) error {
	return s.send(protocol.NewDebuggeeRequest(request, args), request.Seq, callback, arg)
}

// Stop 关闭连接，未完成的回调全部丢弃
func (s *Session) Stop() {
	s.stopped = true
	s.correlator.Clear()
	s.conn.Stop()
}

// Pending 等待回复的请求数量
func (s *Session) Pending() int {
	return s.correlator.Pending()
}

func (s *Session) send(request interface{}, seq int, callback ResponseCallback, arg interface{}) error {
	if callback != nil {
		s.correlator.Register(seq, callback, arg)
	}
	data, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("marshal debuggee request: %w", err)
	}
	if err = s.conn.Send(string(data)); err != nil {
		logrus.Warnf("[DebuggeeSession][%d] send fail, err = %v", s.ThreadID, err)
		return err
	}
	return nil
}

func (s *Session) HandleMessage(data []byte) {
	s.dispatch(func() {
		s.processMessage(data)
	})
}

func (s *Session) HandleEnd() {
	s.dispatch(func() {
		s.listener(s, &Notification{Kind: EndNotification})
	})
}

func (s *Session) HandleClose() {
	s.dispatch(func() {
		s.listener(s, &Notification{Kind: CloseNotification})
	})
}

func (s *Session) processMessage(data []byte) {
	// 已经关闭的连接上残留的消息直接丢弃
	if s.stopped {
		return
	}
	message, err := protocol.ParseMessage(data)
	if err != nil {
		logrus.Warnf("[DebuggeeSession][%d] drop message, err = %v", s.ThreadID, err)
		return
	}
	if message.Raw, err = s.normalize(message.Raw); err != nil {
		logrus.Warnf("[DebuggeeSession][%d] normalize message fail, err = %v", s.ThreadID, err)
		return
	}
	resolved := s.correlator.Resolve(message)

	var kind NotificationKind
	switch constants.DebugMessageType(message.Type) {
	case constants.EventMessage:
		kind = EventNotification
	case constants.ResponseMessage:
		kind = ResponseNotification
	case constants.WelcomeMessage:
		kind = WelcomeNotification
	default:
		logrus.Debugf("[DebuggeeSession][%d] ignore message type %q", s.ThreadID, message.Type)
		return
	}
	s.listener(s, &Notification{Kind: kind, Message: message, Resolved: resolved})
}

// normalize 调试目标不知道自己在控制端的线程id，需要替换
// 单个调试目标也不能代表所有线程，allThreadsStopped/allThreadsContinued一律改为false
func (s *Session) normalize(data []byte) ([]byte, error) {
	body := gjson.GetBytes(data, "body")
	if !body.IsObject() {
		return data, nil
	}
	var err error
	if body.Get("threadId").Exists() {
		if data, err = sjson.SetBytes(data, "body.threadId", s.ThreadID); err != nil {
			return nil, err
		}
	}
	for _, flag := range []string{"allThreadsStopped", "allThreadsContinued"} {
		if !body.Get(flag).Exists() {
			continue
		}
		if data, err = sjson.SetBytes(data, "body."+flag, false); err != nil {
			return nil, err
		}
	}
	return data, nil
}
