package debugger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fansqz/go-debug-adapter/constants"
	"github.com/fansqz/go-debug-adapter/debuggee"
	e "github.com/fansqz/go-debug-adapter/error"
	"github.com/fansqz/go-debug-adapter/protocol"
	"github.com/google/go-dap"
)

// onThreadRequest 将请求路由到调试目标
//  1. 指定了threadId：发给该线程，并记为当前线程
//  2. 广播命令：发给所有连接中的调试目标
//  3. 当前线程命令：发给当前线程
//  4. 其他命令必须指定threadId
func (s *Session) onThreadRequest(request *protocol.Request) {
	if threadID, ok := request.ThreadID(); ok {
		s.currentThread = &threadID
		s.proxyThread(threadID, request)
		return
	}

	switch {
	case s.broadcastCommands.Contains(request.Command):
		s.logRequest(request)
		if s.proxyAll(request) == 0 {
			s.sendResponse(protocol.NewResponse(request.Seq, request.Command))
		}
	case s.currentThreadCommands.Contains(request.Command):
		if s.currentThread == nil {
			s.logRequest(request)
			s.sendErrorResponse(request, e.ErrNoSuchThread)
			return
		}
		s.proxyThread(*s.currentThread, request)
	default:
		s.logRequest(request)
		s.sendErrorResponse(request, fmt.Errorf("%w: %s", e.ErrThreadIDRequired, request.Command))
	}
}

func (s *Session) proxyThread(threadID int, request *protocol.Request) {
	s.logRequestThread(threadID, request)
	session := s.thread(threadID)
	if session == nil {
		s.sendErrorResponse(request, fmt.Errorf("%w: %d", e.ErrNoSuchThread, threadID))
		return
	}
	s.pendingResponseCount = 1
	if err := session.Proxy(request, request.Args()); err != nil {
		s.pendingResponseCount = 0
		s.sendErrorResponse(request, err)
	}
}

// proxyAll 发给所有连接中的调试目标，返回发送的数量
// 只有最后一个回复会转发给控制端
func (s *Session) proxyAll(request *protocol.Request) int {
	attached := s.attachedSessions()
	s.pendingResponseCount = len(attached)
	for _, session := range attached {
		if err := session.Proxy(request, request.Args()); err != nil {
			s.pendingResponseCount--
		}
	}
	return s.pendingResponseCount
}

func (s *Session) thread(threadID int) *debuggee.Session {
	if threadID < 0 || threadID >= len(s.debuggee) {
		return nil
	}
	session := s.debuggee[threadID]
	if session.ThreadID == constants.DetachedThread {
		return nil
	}
	return session
}

func (s *Session) attachedSessions() []*debuggee.Session {
	var attached []*debuggee.Session
	for _, session := range s.debuggee {
		if session.ThreadID != constants.DetachedThread {
			attached = append(attached, session)
		}
	}
	return attached
}

func (s *Session) onThreadsRequest(request *protocol.Request) {
	s.logRequest(request)
	attached := s.attachedSessions()
	threads := make([]dap.Thread, 0, len(attached))
	for _, session := range attached {
		threads = append(threads, dap.Thread{Id: session.ThreadID, Name: session.ThreadName})
	}
	s.sendResponse(protocol.NewThreadsResponse(request.Seq, threads))
}

// onSetBreakpointsRequest 记录每个源文件最后一次的断点设置，新连接的调试目标通过welcome获取
func (s *Session) onSetBreakpointsRequest(request *protocol.Request) {
	s.logRequest(request)
	args := &dap.SetBreakpointsArguments{}
	if err := request.DecodeArguments(args); err != nil {
		s.sendErrorResponse(request, err)
		return
	}
	if args.Source.Path == "" {
		s.sendErrorResponse(request, fmt.Errorf("%w: source.path is empty", e.ErrInvalidArguments))
		return
	}

	key := strings.ToLower(args.Source.Path)
	if len(args.Breakpoints) == 0 {
		delete(s.config.BreakPoints, key)
	} else {
		buffer := &bytes.Buffer{}
		if err := json.Compact(buffer, request.Arguments); err != nil {
			s.sendErrorResponse(request, fmt.Errorf("%w: %v", e.ErrInvalidArguments, err))
			return
		}
		s.config.BreakPoints[key] = buffer.String()
	}

	if s.proxyAll(request) == 0 {
		s.sendResponse(protocol.NewSetBreakpointsResponse(request.Seq, args))
	}
}
