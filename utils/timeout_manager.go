package utils

import (
	"context"
	"sync"
	"time"

	"github.com/fansqz/go-debug-adapter/utils/gosync"
	"github.com/sirupsen/logrus"
)

// TimeoutManager 一个可取消的计时器
// 如果在timeout时间内没有执行Cancel，就会执行fun函数，且最多执行一次
type TimeoutManager struct {
	timer         *time.Timer
	timeout       time.Duration
	cancelChannel chan struct{}
	cancelOnce    sync.Once
	fun           func()
}

// NewTimeoutManager 创建一个新的计时器实例
func NewTimeoutManager() *TimeoutManager {
	return &TimeoutManager{}
}

// Start 开始计时
func (t *TimeoutManager) Start(ctx context.Context, timeout time.Duration, option func()) {
	t.timer = time.NewTimer(timeout)
	t.timeout = timeout
	t.fun = option
	t.cancelChannel = make(chan struct{})
	gosync.Go(ctx, func(ctx context.Context) {
		select {
		case <-t.timer.C:
			logrus.Infof("[TimeoutManager] timer expired after %v, performing action", t.timeout)
			t.fun()
		case <-t.cancelChannel:
			logrus.Debugf("[TimeoutManager] cancel")
			t.timer.Stop()
		case <-ctx.Done():
			t.timer.Stop()
		}
	})
}

// Cancel 取消计时，可以重复调用，计时器已经触发后调用也不会阻塞
func (t *TimeoutManager) Cancel() {
	t.cancelOnce.Do(func() {
		close(t.cancelChannel)
	})
}
