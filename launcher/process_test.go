//go:build !windows

package launcher

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	e "github.com/fansqz/go-debug-adapter/error"
	"github.com/stretchr/testify/assert"
)

type testOutput struct {
	lock    sync.Mutex
	console []string
	stdout  strings.Builder
	stderr  strings.Builder
}

func (o *testOutput) PrintConsole(message string) {
	o.lock.Lock()
	defer o.lock.Unlock()
	o.console = append(o.console, message)
}

func (o *testOutput) PrintStdout(message string) {
	o.lock.Lock()
	defer o.lock.Unlock()
	o.stdout.WriteString(message)
}

func (o *testOutput) PrintStderr(message string) {
	o.lock.Lock()
	defer o.lock.Unlock()
	o.stderr.WriteString(message)
}

func TestProcess_Run(t *testing.T) {
	out := &testOutput{}
	p := LaunchScript(&Options{
		Executable: "/bin/sh",
		Arguments:  []string{"-c", "echo out; echo err 1>&2; exit 3"},
	}, out)
	exit := make(chan *int, 1)
	assert.Nil(t, p.Run(func(code *int) { exit <- code }))

	select {
	case code := <-exit:
		assert.NotNil(t, code)
		assert.Equal(t, 3, *code)
	case <-time.After(5 * time.Second):
		t.Fatal("process not exited")
	}
	assert.Equal(t, "out\n", out.stdout.String())
	assert.Equal(t, "err\n", out.stderr.String())
}

func TestProcess_Environment(t *testing.T) {
	out := &testOutput{}
	value := "from-launch"
	p := LaunchScript(&Options{
		Interpreter: "/bin/sh",
		Arguments:   []string{"-c", "echo $DEBUGGEE_TEST"},
		Environment: map[string]*string{"DEBUGGEE_TEST": &value},
	}, out)
	exit := make(chan *int, 1)
	assert.Nil(t, p.Run(func(code *int) { exit <- code }))
	<-exit
	assert.Equal(t, "from-launch\n", out.stdout.String())
}

func TestProcess_DisposeForced(t *testing.T) {
	out := &testOutput{}
	p := LaunchScript(&Options{
		Executable: "/bin/sh",
		Arguments:  []string{"-c", "sleep 30"},
	}, out)
	exit := make(chan *int, 1)
	assert.Nil(t, p.Run(func(code *int) { exit <- code }))
	p.Dispose(false)
	p.Dispose(false)

	select {
	case code := <-exit:
		// 被信号结束没有退出码
		assert.Nil(t, code)
	case <-time.After(5 * time.Second):
		t.Fatal("process not killed")
	}
}

func TestProcess_RunTerminalTask(t *testing.T) {
	out := &testOutput{}
	p := LaunchScript(&Options{
		Executable:   "/bin/sh",
		Arguments:    []string{"-c", "echo task"},
		TerminalMode: TaskTerminal,
	}, out)
	exit := make(chan struct{})
	assert.Nil(t, p.RunTerminal(func() { close(exit) }))
	<-exit
	assert.Equal(t, "task\n", out.stdout.String())
}

func TestProcess_LaunchFail(t *testing.T) {
	out := &testOutput{}
	p := LaunchScript(&Options{Executable: "/no/such/program"}, out)
	err := p.Run(func(*int) {})
	assert.True(t, errors.Is(err, e.ErrLaunchFailed))
	assert.Len(t, out.console, 1)

	err = LaunchScript(&Options{}, out).Run(func(*int) {})
	assert.True(t, errors.Is(err, e.ErrLaunchFailed))
	// 没有启动的进程Dispose不做任何事情
	p.Dispose(true)
}
