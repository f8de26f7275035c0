//go:build windows

package launcher

import (
	"os/exec"
)

func setProcAttr(cmd *exec.Cmd) {}

func setTerminalAttr(cmd *exec.Cmd) {}

// signalProcess windows没有SIGTERM，两种方式都直接结束进程
func signalProcess(cmd *exec.Cmd, graceful bool) error {
	return cmd.Process.Kill()
}
