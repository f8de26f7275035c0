package transport

import (
	"errors"
	"net"
	"testing"
	"time"

	"github.com/fansqz/go-debug-adapter/debuggee"
	e "github.com/fansqz/go-debug-adapter/error"
	"github.com/stretchr/testify/assert"
)

func TestFactory_WaitSession(t *testing.T) {
	f := NewFactory()
	accepted := make(chan debuggee.Connection, 2)
	err := f.WaitSession("127.0.0.1", 0, func(conn debuggee.Connection) {
		accepted <- conn
	})
	assert.Nil(t, err)
	defer f.Dispose()

	for i := 0; i < 2; i++ {
		client, err := net.Dial("tcp", f.Addr().String())
		assert.Nil(t, err)
		defer client.Close()
		select {
		case conn := <-accepted:
			assert.NotNil(t, conn)
			conn.Stop()
		case <-time.After(time.Second):
			t.Fatal("connection not accepted")
		}
	}
}

func TestFactory_Dispose(t *testing.T) {
	f := NewFactory()
	assert.Nil(t, f.WaitSession("127.0.0.1", 0, func(debuggee.Connection) {}))
	address := f.Addr().String()
	f.Dispose()
	f.Dispose()
	assert.Nil(t, f.Addr())

	_, err := net.DialTimeout("tcp", address, 200*time.Millisecond)
	assert.NotNil(t, err)

	err = f.WaitSession("127.0.0.1", 0, func(debuggee.Connection) {})
	assert.True(t, errors.Is(err, e.ErrFactoryDisposed))
}

func TestFactory_ListenFail(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	assert.Nil(t, err)
	defer busy.Close()

	f := NewFactory()
	err = f.WaitSession("127.0.0.1", busy.Addr().(*net.TCPAddr).Port, func(debuggee.Connection) {})
	assert.True(t, errors.Is(err, e.ErrListenFailed))
}
