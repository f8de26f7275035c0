package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"

	"github.com/fansqz/go-debug-adapter/debuggee"
	e "github.com/fansqz/go-debug-adapter/error"
	"github.com/fansqz/go-debug-adapter/utils/gosync"
	"github.com/sirupsen/logrus"
)

// Factory 监听调试目标的连接
type Factory struct {
	lock     sync.Mutex
	listener net.Listener
	disposed bool
}

func NewFactory() *Factory {
	return &Factory{}
}

// WaitSession 在host:port上监听，每个新连接都交给onAccepted
// 返回时监听已经建立，调试目标可以立即连接
func (f *Factory) WaitSession(host string, port int, onAccepted func(conn debuggee.Connection)) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	if f.disposed {
		return e.ErrFactoryDisposed
	}
	if f.listener != nil {
		_ = f.listener.Close()
	}
	address := net.JoinHostPort(host, strconv.Itoa(port))
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", e.ErrListenFailed, address, err)
	}
	f.listener = listener
	logrus.Infof("[Factory] waiting for debuggee at %s", listener.Addr())

	gosync.Go(context.Background(), func(ctx context.Context) {
		for {
			conn, err := listener.Accept()
			if err != nil {
				if !errors.Is(err, net.ErrClosed) {
					logrus.Warnf("[Factory] accept fail, err = %v", err)
				}
				return
			}
			logrus.Infof("[Factory] debuggee connected from %s", conn.RemoteAddr())
			onAccepted(NewConnection(conn))
		}
	})
	return nil
}

// Addr 监听的地址，没有监听时返回nil
func (f *Factory) Addr() net.Addr {
	f.lock.Lock()
	defer f.lock.Unlock()
	if f.listener == nil {
		return nil
	}
	return f.listener.Addr()
}

// Dispose 停止监听，已经建立的连接不受影响
func (f *Factory) Dispose() {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.disposed = true
	if f.listener != nil {
		_ = f.listener.Close()
		f.listener = nil
		logrus.Infof("[Factory] disposed")
	}
}
