package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	e "github.com/fansqz/go-debug-adapter/error"
	"github.com/fansqz/go-debug-adapter/utils/gosync"
	"github.com/sirupsen/logrus"
)

// TerminalMode 调试目标进程终端的连接方式
type TerminalMode string

const (
	// NativeTerminal 使用伪终端运行，调试目标认为自己运行在真实终端中
	NativeTerminal TerminalMode = "native"
	// TaskTerminal 使用管道收集输出
	TaskTerminal TerminalMode = "task"
)

// Options 启动调试目标进程的参数
type Options struct {
	// Executable 与 Interpreter 只会设置一个
	Executable  string
	Interpreter string
	Arguments   []string
	// Environment 覆盖继承的环境变量，值为nil表示删除该变量
	Environment      map[string]*string
	WorkingDirectory string
	ConsoleEncoding  string
	TerminalMode     TerminalMode
}

// Output 进程输出的接收方
type Output interface {
	PrintConsole(message string)
	PrintStdout(message string)
	PrintStderr(message string)
}

// Process 调试目标进程
type Process interface {
	// Run 以task模式运行，退出时回调退出码，被信号杀死时为nil
	Run(onExit func(code *int)) error
	// RunTerminal 按照TerminalMode运行
	RunTerminal(onExit func()) error
	// Dispose 结束进程，graceful为true时允许进程自行清理
	Dispose(graceful bool)
}

type process struct {
	options *Options
	output  Output

	lock     sync.Mutex
	cmd      *exec.Cmd
	disposed bool
}

// LaunchScript 创建进程对象，此时并不启动
func LaunchScript(options *Options, output Output) Process {
	return &process{
		options: options,
		output:  output,
	}
}

func (p *process) program() string {
	if p.options.Executable != "" {
		return p.options.Executable
	}
	return p.options.Interpreter
}

func (p *process) command() (*exec.Cmd, error) {
	program := p.program()
	if program == "" {
		return nil, fmt.Errorf("%w: no executable or interpreter", e.ErrLaunchFailed)
	}
	cmd := exec.Command(program, p.options.Arguments...)
	cmd.Dir = p.options.WorkingDirectory
	cmd.Env = MergeEnvironment(os.Environ(), p.options.Environment)
	setProcAttr(cmd)
	return cmd, nil
}

func (p *process) Run(onExit func(code *int)) error {
	cmd, err := p.command()
	if err != nil {
		return err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("%w: %v", e.ErrLaunchFailed, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("%w: %v", e.ErrLaunchFailed, err)
	}
	if err = p.start(cmd); err != nil {
		return err
	}

	var wg sync.WaitGroup
	wg.Add(2)
	p.pump(stdout, p.output.PrintStdout, wg.Done)
	p.pump(stderr, p.output.PrintStderr, wg.Done)
	gosync.Go(context.Background(), func(ctx context.Context) {
		// 必须在读取完管道以后再Wait
		wg.Wait()
		code := exitCode(cmd.Wait(), cmd)
		logrus.Infof("[Launcher] %s exited, code = %v", p.program(), describeCode(code))
		onExit(code)
	})
	return nil
}

func (p *process) RunTerminal(onExit func()) error {
	if p.options.TerminalMode == NativeTerminal {
		return p.runNative(onExit)
	}
	return p.Run(func(*int) { onExit() })
}

func (p *process) Dispose(graceful bool) {
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.disposed || p.cmd == nil || p.cmd.Process == nil {
		return
	}
	p.disposed = true
	logrus.Infof("[Launcher] dispose %s, pid = %d, graceful = %v", p.program(), p.cmd.Process.Pid, graceful)
	if err := signalProcess(p.cmd, graceful); err != nil {
		logrus.Warnf("[Launcher] dispose fail, err = %v", err)
	}
}

func (p *process) start(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		p.output.PrintConsole(fmt.Sprintf("Failed to launch %s: %v", p.program(), err))
		return fmt.Errorf("%w: %v", e.ErrLaunchFailed, err)
	}
	p.lock.Lock()
	p.cmd = cmd
	p.lock.Unlock()
	logrus.Infof("[Launcher] started %s, pid = %d", p.program(), cmd.Process.Pid)
	return nil
}

// pump 循环读取进程输出，按照控制台编码解码后交给print
func (p *process) pump(reader io.Reader, print func(string), done func()) {
	decoder := NewDecoder(p.options.ConsoleEncoding)
	reader = decoder.Reader(reader)
	gosync.Go(context.Background(), func(ctx context.Context) {
		defer done()
		buf := make([]byte, 4096)
		for {
			n, err := reader.Read(buf)
			if n > 0 {
				print(decoder.Format(buf[:n]))
			}
			if err != nil {
				if !errors.Is(err, io.EOF) && !errors.Is(err, os.ErrClosed) {
					logrus.Debugf("[Launcher] output closed, err = %v", err)
				}
				return
			}
		}
	})
}

func exitCode(err error, cmd *exec.Cmd) *int {
	if cmd.ProcessState == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return nil
	}
	code := cmd.ProcessState.ExitCode()
	if code < 0 {
		return nil
	}
	return &code
}

func describeCode(code *int) interface{} {
	if code == nil {
		return "signal"
	}
	return *code
}
