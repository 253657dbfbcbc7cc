// Package shell is the seam between the application and the desktop
// framework. A Builder collects plugins and setup hooks and hands them to a
// Framework, which owns the window registry and the run loop.
package shell

import (
	"context"
	"errors"
	"fmt"

	"github.com/mlechner911/emperor/internal/config"
)

var (
	ErrDuplicatePlugin = errors.New("plugin already registered")
	ErrNoRuntime       = errors.New("framework runtime not available")
	ErrTooManyWindows  = errors.New("framework supports a single window")
)

// Window is a framework-managed webview window.
type Window interface {
	Label() string
	Show() error
	SetTitle(title string) error
}

// Handle is the running application as seen by plugins and setup hooks.
type Handle interface {
	// Context is the framework runtime context. It is only valid while the
	// run loop is active.
	Context() context.Context

	// WebviewWindow looks up a window by its configured label.
	WebviewWindow(label string) (Window, bool)
}

// Plugin is a capability registered with the builder before setup.
type Plugin interface {
	Name() string
	Setup(h Handle) error
}

// Binder is implemented by plugins that expose objects to the frontend.
type Binder interface {
	Bind() []interface{}
}

// Shutdowner is implemented by plugins that hold resources until exit.
type Shutdowner interface {
	Shutdown(ctx context.Context)
}

// SetupFunc runs once at startup, after every plugin has been set up.
type SetupFunc func(h Handle) error

// RunConfig is everything a Framework needs to start the application.
type RunConfig struct {
	Context *config.Context
	Bind    []interface{}

	// OnStartup is called exactly once, before any window is shown. A
	// non-nil error must stop the run loop and be returned from Run.
	OnStartup func(h Handle) error

	OnShutdown func(ctx context.Context)
}

// Framework owns the window registry and the run loop. Run blocks until the
// loop ends.
type Framework interface {
	Run(rc RunConfig) error
}

// SetupError reports a failed startup step. Plugin is empty when a setup
// hook, rather than a plugin, failed.
type SetupError struct {
	Plugin string
	Err    error
}

func (e *SetupError) Error() string {
	if e.Plugin != "" {
		return fmt.Sprintf("setup plugin %s: %v", e.Plugin, e.Err)
	}
	return fmt.Sprintf("setup: %v", e.Err)
}

func (e *SetupError) Unwrap() error {
	return e.Err
}
