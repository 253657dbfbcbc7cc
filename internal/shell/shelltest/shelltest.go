// Package shelltest provides an in-memory shell.Framework for tests.
package shelltest

import (
	"context"
	"sync"

	"github.com/mlechner911/emperor/internal/shell"
)

// Window records the calls made on it.
type Window struct {
	mu      sync.Mutex
	label   string
	visible bool
	shows   int
	title   string

	// ShowErr, when set, is returned by Show and the window stays hidden.
	ShowErr error
}

func NewWindow(label string, visible bool) *Window {
	return &Window{label: label, visible: visible}
}

func (w *Window) Label() string { return w.label }

func (w *Window) Show() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.ShowErr != nil {
		return w.ShowErr
	}
	w.shows++
	w.visible = true
	return nil
}

func (w *Window) SetTitle(title string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.title = title
	return nil
}

func (w *Window) Visible() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.visible
}

func (w *Window) ShowCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.shows
}

func (w *Window) Title() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.title
}

type handle struct {
	ctx     context.Context
	windows map[string]shell.Window
}

func (h *handle) Context() context.Context { return h.ctx }

func (h *handle) WebviewWindow(label string) (shell.Window, bool) {
	w, ok := h.windows[label]
	return w, ok
}

// Framework runs startup synchronously, then Loop, then shutdown.
type Framework struct {
	Windows []*Window

	// Loop stands in for the event loop. It runs only after a successful
	// startup.
	Loop func(h shell.Handle)

	// RunErr is returned when the loop ends normally.
	RunErr error

	mu         sync.Mutex
	bound      []interface{}
	loopRan    bool
	shutdown   bool
	startupErr error
}

func (f *Framework) Run(rc shell.RunConfig) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := &handle{ctx: ctx, windows: make(map[string]shell.Window, len(f.Windows))}
	for _, w := range f.Windows {
		h.windows[w.Label()] = w
	}

	f.mu.Lock()
	f.bound = rc.Bind
	f.mu.Unlock()

	if rc.OnStartup != nil {
		if err := rc.OnStartup(h); err != nil {
			f.mu.Lock()
			f.startupErr = err
			f.mu.Unlock()
			return err
		}
	}

	f.mu.Lock()
	f.loopRan = true
	f.mu.Unlock()
	if f.Loop != nil {
		f.Loop(h)
	}

	cancel()
	if rc.OnShutdown != nil {
		rc.OnShutdown(ctx)
	}
	f.mu.Lock()
	f.shutdown = true
	f.mu.Unlock()
	return f.RunErr
}

// LoopRan reports whether the event loop was entered.
func (f *Framework) LoopRan() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loopRan
}

func (f *Framework) ShutDown() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.shutdown
}

func (f *Framework) Bound() []interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bound
}

func (f *Framework) StartupErr() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.startupErr
}
