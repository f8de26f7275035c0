package debuggee

import (
	"github.com/emirpasic/gods/maps/treemap"
	"github.com/fansqz/go-debug-adapter/protocol"
	"github.com/sirupsen/logrus"
)

// ResponseCallback 收到回复以后的回调，arg为注册时传入的参数，没有时为nil
type ResponseCallback func(reply *protocol.Message, arg interface{})

type pendingCallback struct {
	callback ResponseCallback
	arg      interface{}
}

// Correlator 根据请求序号关联请求与回复
// 每个注册的回调最多执行一次
type Correlator struct {
	pending *treemap.Map
}

func NewCorrelator() *Correlator {
	return &Correlator{
		pending: treemap.NewWithIntComparator(),
	}
}

// Register 注册请求的回调
// seq为0表示不需要关联，直接忽略
func (c *Correlator) Register(seq int, callback ResponseCallback, arg interface{}) {
	if seq == 0 || callback == nil {
		logrus.Warnf("[Correlator] register ignored, seq = %d", seq)
		return
	}
	c.pending.Put(seq, &pendingCallback{callback: callback, arg: arg})
}

// Resolve 根据回复的request_seq执行并移除回调
// 没有对应的回调时不做任何事情，返回false
func (c *Correlator) Resolve(reply *protocol.Message) bool {
	seq, ok := reply.ReplyTo()
	if !ok {
		return false
	}
	value, found := c.pending.Get(seq)
	if !found {
		return false
	}
	// 先移除再回调，回调中再次注册同一个序号也不会被误删
	c.pending.Remove(seq)
	cb := value.(*pendingCallback)
	cb.callback(reply, cb.arg)
	return true
}

// Pending 等待回复的请求数量
func (c *Correlator) Pending() int {
	return c.pending.Size()
}

// Clear 丢弃所有等待中的回调
func (c *Correlator) Clear() {
	c.pending.Clear()
}
