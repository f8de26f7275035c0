package debuggee

import (
	"encoding/json"
	"testing"

	"github.com/fansqz/go-debug-adapter/protocol"
	"github.com/maxatome/go-testdeep/td"
	"github.com/stretchr/testify/assert"
)

type fakeConnection struct {
	sent    []string
	handler Handler
	stopped int
}

func (f *fakeConnection) Send(text string) error {
	f.sent = append(f.sent, text)
	return nil
}

func (f *fakeConnection) Process(handler Handler) {
	f.handler = handler
}

func (f *fakeConnection) Stop() {
	f.stopped++
}

type testHelper struct {
	conn          *fakeConnection
	session       *Session
	notifications []*Notification
}

// newTestHelper 同步执行所有投递的任务
func newTestHelper(threadID int) *testHelper {
	h := &testHelper{conn: &fakeConnection{}}
	h.session = NewSession(h.conn, func(task func()) { task() }, func(s *Session, n *Notification) {
		h.notifications = append(h.notifications, n)
	})
	h.session.ThreadID = threadID
	return h
}

func TestSession_Defaults(t *testing.T) {
	s := NewSession(&fakeConnection{}, nil, nil)
	assert.Equal(t, -1, s.ThreadID)
	assert.Equal(t, "default", s.ThreadName)
}

func TestSession_ProcessSessionSendsWelcome(t *testing.T) {
	h := newTestHelper(0)
	err := h.session.ProcessSession(&protocol.WelcomeArguments{
		PathMap:            []protocol.PathMapping{{LocalPrefix: "/proj/src", RemotePrefix: "/remote/src"}},
		StopOnEntry:        true,
		SourceBasePath:     "/proj",
		DirectorySeparator: "/",
		BreakPoints:        map[string]string{"/proj/a.lua": `{"breakpoints":[{"line":3}]}`},
	})
	assert.Nil(t, err)
	assert.Equal(t, h.session, h.conn.handler)
	assert.Len(t, h.conn.sent, 1)
	td.Cmp(t, json.RawMessage(h.conn.sent[0]), td.JSON(`{
		"command": "welcome",
		"arguments": {
			"pathMap": [["/remote/src", "/proj/src"]],
			"stopOnEntry": true,
			"sourceBasePath": "/proj",
			"directorySeparator": "/",
			"breakPoints": {"/proj/a.lua": "{\"breakpoints\":[{\"line\":3}]}"}
		}
	}`))
}

func TestSession_Proxy(t *testing.T) {
	h := newTestHelper(0)
	request := &protocol.Request{Seq: 12, Type: "request", Command: "next", Arguments: json.RawMessage(`{"threadId":0}`)}
	assert.Nil(t, h.session.Proxy(request, request.Arguments))
	td.Cmp(t, json.RawMessage(h.conn.sent[0]), td.JSON(`{"seq":12,"type":"request","command":"next","arguments":{"threadId":0}}`))
	// 转发请求不注册回调
	assert.Equal(t, 0, h.session.Pending())
}

func TestSession_RewriteThreadFields(t *testing.T) {
	h := newTestHelper(3)
	h.session.HandleMessage([]byte(`{"seq":1,"type":"event","event":"stopped","body":{"reason":"step","threadId":0,"allThreadsStopped":true}}`))
	assert.Len(t, h.notifications, 1)
	n := h.notifications[0]
	assert.Equal(t, EventNotification, n.Kind)
	td.Cmp(t, n.Message.Raw, td.JSON(`{"seq":1,"type":"event","event":"stopped","body":{"reason":"step","threadId":3,"allThreadsStopped":false}}`))

	h.session.HandleMessage([]byte(`{"seq":2,"type":"response","request_seq":8,"command":"continue","success":true,"body":{"allThreadsContinued":true}}`))
	td.Cmp(t, h.notifications[1].Message.Raw, td.JSON(`{"seq":2,"type":"response","request_seq":8,"command":"continue","success":true,"body":{"allThreadsContinued":false}}`))
	assert.Equal(t, ResponseNotification, h.notifications[1].Kind)
	assert.False(t, h.notifications[1].Resolved)
}

func TestSession_NoBodyUntouched(t *testing.T) {
	h := newTestHelper(1)
	h.session.HandleMessage([]byte(`{"seq":1,"type":"event","event":"continued"}`))
	assert.Equal(t, `{"seq":1,"type":"event","event":"continued"}`, string(h.notifications[0].Message.Raw))
}

func TestSession_DisconnectCallback(t *testing.T) {
	h := newTestHelper(0)
	request := &protocol.Request{Seq: 20, Type: "request", Command: "disconnect"}
	var acked *protocol.Message
	var ackArg interface{}
	err := h.session.Disconnect(request, map[string]bool{"restart": false}, func(reply *protocol.Message, arg interface{}) {
		acked, ackArg = reply, arg
	}, "state")
	assert.Nil(t, err)
	assert.Equal(t, 1, h.session.Pending())
	td.Cmp(t, json.RawMessage(h.conn.sent[0]), td.JSON(`{"seq":20,"type":"request","command":"disconnect","arguments":{"restart":false}}`))

	h.session.HandleMessage([]byte(`{"seq":5,"type":"response","request_seq":20,"command":"disconnect","success":true}`))
	assert.NotNil(t, acked)
	assert.Equal(t, "state", ackArg)
	assert.True(t, h.notifications[0].Resolved)
	assert.Equal(t, 0, h.session.Pending())
}

func TestSession_WelcomeAndLifecycle(t *testing.T) {
	h := newTestHelper(0)
	h.session.HandleMessage([]byte(`{"type":"welcome","body":{"threadName":"worker"}}`))
	h.session.HandleEnd()
	h.session.HandleClose()
	kinds := []NotificationKind{}
	for _, n := range h.notifications {
		kinds = append(kinds, n.Kind)
	}
	assert.Equal(t, []NotificationKind{WelcomeNotification, EndNotification, CloseNotification}, kinds)
	assert.Equal(t, "worker", h.notifications[0].Message.Get("body.threadName").String())
}

func TestSession_DropInvalid(t *testing.T) {
	h := newTestHelper(0)
	h.session.HandleMessage([]byte(`not json`))
	h.session.HandleMessage([]byte(`{"type":"unknown"}`))
	assert.Len(t, h.notifications, 0)
}

func TestSession_Stop(t *testing.T) {
	h := newTestHelper(0)
	request := &protocol.Request{Seq: 7, Type: "request", Command: "disconnect"}
	_ = h.session.Disconnect(request, nil, func(*protocol.Message, interface{}) {
		t.Fatal("callback after stop")
	}, nil)
	h.session.Stop()
	assert.Equal(t, 1, h.conn.stopped)
	h.session.HandleMessage([]byte(`{"type":"response","request_seq":7,"command":"disconnect"}`))
	assert.Len(t, h.notifications, 0)

	h.session.HandleClose()
	assert.Len(t, h.notifications, 1)
	assert.Equal(t, CloseNotification, h.notifications[0].Kind)
}
