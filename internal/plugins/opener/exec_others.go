//go:build !windows

package opener

import "os/exec"

func hideWindow(cmd *exec.Cmd) {}
