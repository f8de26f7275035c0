package transport

import (
	"bufio"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recordHandler struct {
	lock     sync.Mutex
	messages []string
	ended    bool
	closed   chan struct{}
}

func newRecordHandler() *recordHandler {
	return &recordHandler{closed: make(chan struct{})}
}

func (r *recordHandler) HandleMessage(data []byte) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.messages = append(r.messages, string(data))
}

func (r *recordHandler) HandleEnd() {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.ended = true
}

func (r *recordHandler) HandleClose() {
	close(r.closed)
}

func (r *recordHandler) wait(t *testing.T) {
	select {
	case <-r.closed:
	case <-time.After(time.Second):
		t.Fatal("connection not closed")
	}
}

func TestConnection_Process(t *testing.T) {
	local, remote := net.Pipe()
	conn := NewConnection(local)
	handler := newRecordHandler()
	conn.Process(handler)

	go func() {
		_, _ = remote.Write([]byte("{\"type\":\"event\",\"seq\":1}\n\r\n{\"type\":\"response\",\"seq\":2}\n{\"type\":\"event\""))
		_, _ = remote.Write([]byte(",\"seq\":3}\n"))
		_ = remote.Close()
	}()
	handler.wait(t)

	assert.Equal(t, []string{
		`{"type":"event","seq":1}`,
		`{"type":"response","seq":2}`,
		`{"type":"event","seq":3}`,
	}, handler.messages)
	assert.True(t, handler.ended)
}

func TestConnection_Send(t *testing.T) {
	local, remote := net.Pipe()
	conn := NewConnection(local)
	defer conn.Stop()

	received := make(chan string, 1)
	go func() {
		line, _ := bufio.NewReader(remote).ReadString('\n')
		received <- line
	}()
	assert.Nil(t, conn.Send(`{"command":"welcome"}`))
	assert.Equal(t, "{\"command\":\"welcome\"}\n", <-received)
}

func TestConnection_Stop(t *testing.T) {
	local, _ := net.Pipe()
	conn := NewConnection(local)
	handler := newRecordHandler()
	conn.Process(handler)

	conn.Stop()
	conn.Stop()
	handler.wait(t)
	assert.False(t, handler.ended)
	err := conn.Send("x")
	assert.NotNil(t, err)
	assert.True(t, strings.Contains(err.Error(), "closed"))
}
