package utils

import "sync"

const (
	// Uninitialized 会话刚创建，还未收到attach/launch
	Uninitialized = "uninitialized"
	// Configuring attach/launch处理中，等待配置完成
	Configuring = "configuring"
	// Running 配置完成，调试进行中
	Running = "running"
	// Disconnecting 正在等待调试目标确认断开
	Disconnecting = "disconnecting"
	// Terminated 调试结束状态
	Terminated = "terminated"
)

// StatusManager 记录调试会话的状态
type StatusManager struct {
	lock   sync.RWMutex
	status string
}

func NewStatusManager() *StatusManager {
	return &StatusManager{
		status: Uninitialized,
	}
}

func (s *StatusManager) Set(status string) {
	defer s.lock.Unlock()
	s.lock.Lock()
	s.status = status
}

func (s *StatusManager) Get() string {
	defer s.lock.RUnlock()
	s.lock.RLock()
	return s.status
}

func (s *StatusManager) Is(statusList ...string) bool {
	defer s.lock.RUnlock()
	s.lock.RLock()
	for _, status := range statusList {
		if s.status == status {
			return true
		}
	}
	return false
}
