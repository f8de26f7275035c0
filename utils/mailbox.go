package utils

import (
	"context"
	"sync"

	"github.com/emirpasic/gods/queues/linkedlistqueue"
	"github.com/sirupsen/logrus"
)

// Mailbox 单消费者的任务队列
// 所有投递的任务都在Run所在的协程中按投递顺序依次执行，任务之间不会并发
// 队列无上限，任务内部可以继续投递任务而不会阻塞
type Mailbox struct {
	lock   sync.Mutex
	queue  *linkedlistqueue.Queue
	notify chan struct{}
	closed bool
}

func NewMailbox() *Mailbox {
	return &Mailbox{
		queue:  linkedlistqueue.New(),
		notify: make(chan struct{}, 1),
	}
}

// Post 投递一个任务，Mailbox关闭以后投递的任务会被丢弃
func (m *Mailbox) Post(task func()) bool {
	m.lock.Lock()
	if m.closed {
		m.lock.Unlock()
		logrus.Debugf("[Mailbox] post after close, task dropped")
		return false
	}
	m.queue.Enqueue(task)
	m.lock.Unlock()
	select {
	case m.notify <- struct{}{}:
	default:
	}
	return true
}

// Run 循环执行任务，直到ctx结束或者Close被调用
// Close之前已经投递的任务会先执行完
func (m *Mailbox) Run(ctx context.Context) {
	for {
		for {
			task, ok := m.next()
			if !ok {
				break
			}
			m.execute(task)
		}
		if m.isClosed() {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-m.notify:
		}
	}
}

// Close 关闭Mailbox，可重复调用
func (m *Mailbox) Close() {
	m.lock.Lock()
	m.closed = true
	m.lock.Unlock()
	select {
	case m.notify <- struct{}{}:
	default:
	}
}

func (m *Mailbox) next() (func(), bool) {
	defer m.lock.Unlock()
	m.lock.Lock()
	value, ok := m.queue.Dequeue()
	if !ok {
		return nil, false
	}
	return value.(func()), true
}

func (m *Mailbox) isClosed() bool {
	defer m.lock.Unlock()
	m.lock.Lock()
	return m.closed && m.queue.Empty()
}

func (m *Mailbox) execute(task func()) {
	defer func() {
		if err := recover(); err != nil {
			logrus.Errorf("[Mailbox] task panic: %v", err)
		}
	}()
	task()
}
