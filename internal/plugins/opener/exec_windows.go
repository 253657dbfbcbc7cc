//go:build windows

package opener

import (
	"os/exec"
	"syscall"
)

// hideWindow keeps launcher processes from flashing a console window.
func hideWindow(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		HideWindow: true,
	}
}
