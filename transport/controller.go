package transport

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/fansqz/go-debug-adapter/protocol"
	"github.com/google/go-dap"
	"github.com/tidwall/sjson"
)

// Controller 与控制端之间的DAP连接
// 读取只在一个协程中进行，写入可以在多个协程中并发调用
type Controller struct {
	reader *bufio.Reader
	writer *bufio.Writer
	lock   sync.Mutex
	seq    int
}

func NewController(rw io.ReadWriter) *Controller {
	return &Controller{
		reader: bufio.NewReader(rw),
		writer: bufio.NewWriter(rw),
	}
}

// ReadRequest 读取一个请求
func (c *Controller) ReadRequest() (*protocol.Request, error) {
	data, err := dap.ReadBaseMessage(c.reader)
	if err != nil {
		return nil, err
	}
	return protocol.ParseRequest(data)
}

// Send 发送dap消息，seq由Controller分配
func (c *Controller) Send(message dap.Message) error {
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	return c.SendRaw(data)
}

// SendRaw 发送一条json消息，seq由Controller分配
func (c *Controller) SendRaw(data []byte) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.seq++
	data, err := sjson.SetBytes(data, "seq", c.seq)
	if err != nil {
		return fmt.Errorf("assign seq: %w", err)
	}
	if err = dap.WriteBaseMessage(c.writer, data); err != nil {
		return err
	}
	return c.writer.Flush()
}
