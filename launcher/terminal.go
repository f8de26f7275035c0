package launcher

import (
	"context"
	"fmt"

	"github.com/creack/pty"
	e "github.com/fansqz/go-debug-adapter/error"
	"github.com/fansqz/go-debug-adapter/utils/gosync"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

// runNative 在伪终端中运行进程
func (p *process) runNative(onExit func()) error {
	cmd, err := p.command()
	if err != nil {
		return err
	}
	// 启动一个虚拟终端
	ptm, pts, err := pty.Open()
	if err != nil {
		logrus.Errorf("[Launcher] pty open fail, err = %v", err)
		return fmt.Errorf("%w: %v", e.ErrLaunchFailed, err)
	}
	if _, err = term.MakeRaw(int(pts.Fd())); err != nil {
		logrus.Warnf("[Launcher] make raw fail, err = %v", err)
	}
	cmd.Stdin = pts
	cmd.Stdout = pts
	cmd.Stderr = pts
	setTerminalAttr(cmd)
	if err = p.start(cmd); err != nil {
		_ = ptm.Close()
		_ = pts.Close()
		return err
	}
	// 子进程已经持有终端，父进程关闭从设备，子进程退出后读取主设备会返回错误
	_ = pts.Close()

	done := make(chan struct{})
	p.pump(ptm, p.output.PrintStdout, func() { close(done) })
	gosync.Go(context.Background(), func(ctx context.Context) {
		err := cmd.Wait()
		<-done
		_ = ptm.Close()
		logrus.Infof("[Launcher] %s exited in terminal, err = %v", p.program(), err)
		onExit()
	})
	return nil
}
