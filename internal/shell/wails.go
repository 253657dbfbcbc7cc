package shell

import (
	"context"
	"fmt"
	"io/fs"
	"sync"

	"github.com/rs/zerolog"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/mlechner911/emperor/internal/config"
	"github.com/mlechner911/emperor/internal/logging"
)

// runtime entry points, swapped out in tests
var (
	windowShow     = runtime.WindowShow
	windowSetTitle = runtime.WindowSetTitle
	quit           = runtime.Quit
	run            = wails.Run
)

// Wails is the Framework backed by a Wails v2 application.
type Wails struct {
	assets fs.FS
	log    zerolog.Logger
}

// NewWails returns a Framework serving assets in the webview.
func NewWails(assets fs.FS, log zerolog.Logger) *Wails {
	return &Wails{assets: assets, log: log}
}

// Run blocks in the Wails event loop. If startup fails the loop is quit
// before the window is shown, and the startup error is returned.
func (w *Wails) Run(rc RunConfig) error {
	app, err := w.options(rc.Context)
	if err != nil {
		return err
	}

	var (
		mu       sync.Mutex
		setupErr error
	)
	app.Bind = rc.Bind
	app.OnStartup = func(ctx context.Context) {
		if rc.OnStartup == nil {
			return
		}
		if err := rc.OnStartup(newWailsHandle(ctx, rc.Context)); err != nil {
			mu.Lock()
			setupErr = err
			mu.Unlock()
			quit(ctx)
		}
	}
	app.OnShutdown = func(ctx context.Context) {
		if rc.OnShutdown != nil {
			rc.OnShutdown(ctx)
		}
	}

	err = run(app)

	mu.Lock()
	defer mu.Unlock()
	if setupErr != nil {
		return setupErr
	}
	return err
}

// options maps the runtime context onto the Wails application options.
func (w *Wails) options(c *config.Context) (*options.App, error) {
	if len(c.Windows) > 1 {
		return nil, fmt.Errorf("%w: %d configured", ErrTooManyWindows, len(c.Windows))
	}
	win := c.Windows[0]
	return &options.App{
		Title:         win.Title,
		Width:         win.Width,
		Height:        win.Height,
		MinWidth:      win.MinWidth,
		MinHeight:     win.MinHeight,
		DisableResize: !win.Resizable,
		StartHidden:   !win.Visible,
		AssetServer: &assetserver.Options{
			Assets: w.assets,
		},
		Logger:   logging.NewWails(w.log),
		LogLevel: logging.WailsLevel(w.log.GetLevel()),
	}, nil
}

type wailsHandle struct {
	ctx     context.Context
	windows map[string]Window
}

func newWailsHandle(ctx context.Context, c *config.Context) *wailsHandle {
	h := &wailsHandle{ctx: ctx, windows: make(map[string]Window, len(c.Windows))}
	for _, w := range c.Windows {
		h.windows[w.Label] = &wailsWindow{ctx: ctx, label: w.Label}
	}
	return h
}

func (h *wailsHandle) Context() context.Context {
	return h.ctx
}

func (h *wailsHandle) WebviewWindow(label string) (Window, bool) {
	w, ok := h.windows[label]
	return w, ok
}

type wailsWindow struct {
	ctx   context.Context
	label string
}

func (w *wailsWindow) Label() string {
	return w.label
}

func (w *wailsWindow) Show() error {
	if w.ctx == nil {
		return ErrNoRuntime
	}
	windowShow(w.ctx)
	return nil
}

func (w *wailsWindow) SetTitle(title string) error {
	if w.ctx == nil {
		return ErrNoRuntime
	}
	windowSetTitle(w.ctx, title)
	return nil
}
