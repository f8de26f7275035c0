package transport

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"sync"

	"github.com/fansqz/go-debug-adapter/debuggee"
	e "github.com/fansqz/go-debug-adapter/error"
	"github.com/fansqz/go-debug-adapter/utils/gosync"
	"github.com/sirupsen/logrus"
)

// MaxMessageSize 单条消息的最大长度
const MaxMessageSize = 16 * 1024 * 1024

// Connection 与调试目标之间的连接，每条消息是一行json
type Connection struct {
	conn      net.Conn
	writeLock sync.Mutex
	stopOnce  sync.Once
	closed    chan struct{}
}

func NewConnection(conn net.Conn) *Connection {
	return &Connection{
		conn:   conn,
		closed: make(chan struct{}),
	}
}

func (c *Connection) Send(text string) error {
	select {
	case <-c.closed:
		return e.ErrConnectionClosed
	default:
	}
	c.writeLock.Lock()
	defer c.writeLock.Unlock()
	_, err := io.WriteString(c.conn, text+"\n")
	return err
}

// Process 启动读协程，连接上的每一条消息都交给handler
// 对端关闭写入时先通知HandleEnd，连接关闭后通知HandleClose
func (c *Connection) Process(handler debuggee.Handler) {
	gosync.Go(context.Background(), func(ctx context.Context) {
		defer handler.HandleClose()
		defer c.Stop()
		reader := bufio.NewReaderSize(c.conn, 64*1024)
		for {
			line, err := readLine(reader)
			if len(line) > 0 {
				handler.HandleMessage(line)
			}
			if err == nil {
				continue
			}
			if errors.Is(err, io.EOF) {
				logrus.Infof("[Connection] %s end", c.conn.RemoteAddr())
				handler.HandleEnd()
			} else if !c.isStopped() {
				logrus.Warnf("[Connection] %s read fail, err = %v", c.conn.RemoteAddr(), err)
			}
			return
		}
	})
}

// Stop 关闭连接，可以重复调用
func (c *Connection) Stop() {
	c.stopOnce.Do(func() {
		close(c.closed)
		_ = c.conn.Close()
	})
}

func (c *Connection) isStopped() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}

// readLine 读取一行，去掉行尾的换行符，空行会被跳过
func readLine(reader *bufio.Reader) ([]byte, error) {
	var buffer bytes.Buffer
	for {
		chunk, isPrefix, err := reader.ReadLine()
		buffer.Write(chunk)
		if buffer.Len() > MaxMessageSize {
			return nil, errors.New("message too large")
		}
		if err != nil {
			return bytes.TrimSpace(buffer.Bytes()), err
		}
		if isPrefix {
			continue
		}
		line := bytes.TrimSpace(buffer.Bytes())
		if len(line) == 0 {
			buffer.Reset()
			continue
		}
		return line, nil
	}
}
