package opener

import (
	"os/exec"
	"path/filepath"
)

// command is an OS launcher invocation.
type command struct {
	name string
	args []string
}

// openCommand returns the launcher that opens target with the default
// handler, or with the named application when with is set.
func openCommand(goos, target, with string) command {
	switch goos {
	case "darwin":
		if with != "" {
			return command{"open", []string{"-a", with, target}}
		}
		return command{"open", []string{target}}
	case "windows":
		if with != "" {
			// launched directly: cmd.exe would interpret & | ^ < > in target
			return command{with, []string{target}}
		}
		return command{"rundll32", []string{"url.dll,FileProtocolHandler", target}}
	default:
		if with != "" {
			return command{with, []string{target}}
		}
		return command{"xdg-open", []string{target}}
	}
}

// revealCommand returns the launcher that shows path in the file manager.
func revealCommand(goos, path string) command {
	switch goos {
	case "darwin":
		return command{"open", []string{"-R", path}}
	case "windows":
		return command{"explorer", []string{"/select," + path}}
	default:
		// xdg has no portable "select item", open the containing directory
		return command{"xdg-open", []string{filepath.Dir(path)}}
	}
}

// startDetached launches c without waiting for it. The child is reaped in
// the background.
func startDetached(c command) error {
	cmd := exec.Command(c.name, c.args...)
	hideWindow(cmd)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
