package app

import (
	"fmt"
	"io/fs"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mlechner911/emperor/internal/config"
	"github.com/mlechner911/emperor/internal/plugins/opener"
	"github.com/mlechner911/emperor/internal/shell"
)

// MainWindow is the label of the window revealed once setup completes.
const MainWindow = "main"

// App bootstraps the desktop shell.
type App struct {
	cfg        *config.Context
	configPath string
	log        zerolog.Logger

	// Services
	Opener *opener.Plugin

	mu      sync.Mutex
	watcher *config.Watcher
	reloads chan *config.Context
	done    chan struct{}
}

// New creates the application. configPath is the override file in use, or
// empty when only the embedded defaults were loaded.
func New(cfg *config.Context, configPath string, log zerolog.Logger) *App {
	return &App{
		cfg:        cfg,
		configPath: configPath,
		log:        log.With().Str("component", "app").Logger(),
		Opener:     opener.New(cfg.Plugins.Opener, log),
	}
}

// Builder registers the opener plugin and the startup hooks.
func (a *App) Builder() *shell.Builder {
	b := shell.NewBuilder(a.log).
		Plugin(a.Opener).
		Setup(ShowMainWindow)
	if a.configPath != "" {
		b.Setup(a.watchConfig)
	}
	return b
}

// Run blocks until fw's run loop ends.
func (a *App) Run(fw shell.Framework) error {
	defer a.stopWatching()
	return a.Builder().Run(fw, a.cfg)
}

// Run starts the application on Wails with the given frontend assets.
func Run(cfg *config.Context, configPath string, log zerolog.Logger, assets fs.FS) error {
	return New(cfg, configPath, log).Run(shell.NewWails(assets, log))
}

// ShowMainWindow makes the main window visible. A missing window is not an
// error; a failed show is.
func ShowMainWindow(h shell.Handle) error {
	w, ok := h.WebviewWindow(MainWindow)
	if !ok {
		return nil
	}
	if err := w.Show(); err != nil {
		return fmt.Errorf("show %s window: %w", MainWindow, err)
	}
	return nil
}

// watchConfig applies edits of the override file to the running window.
// Live reload is best effort and never fails startup.
func (a *App) watchConfig(h shell.Handle) error {
	w, err := config.NewWatcher(a.configPath, a.log)
	if err != nil {
		a.log.Warn().Err(err).Str("path", a.configPath).Msg("config live reload disabled")
		return nil
	}
	ch := w.Subscribe()
	done := make(chan struct{})

	a.mu.Lock()
	a.watcher, a.reloads, a.done = w, ch, done
	a.mu.Unlock()

	w.Start()
	go func() {
		defer close(done)
		for c := range ch {
			a.applyReload(h, c)
		}
	}()
	return nil
}

func (a *App) applyReload(h shell.Handle, c *config.Context) {
	wc, ok := c.Window(MainWindow)
	if !ok {
		return
	}
	w, ok := h.WebviewWindow(MainWindow)
	if !ok {
		return
	}
	if err := w.SetTitle(wc.Title); err != nil {
		a.log.Warn().Err(err).Msg("apply window title")
		return
	}
	a.log.Debug().Str("title", wc.Title).Msg("window title updated")
}

func (a *App) stopWatching() {
	a.mu.Lock()
	w, ch, done := a.watcher, a.reloads, a.done
	a.watcher, a.reloads, a.done = nil, nil, nil
	a.mu.Unlock()

	if w == nil {
		return
	}
	w.Stop()
	w.Unsubscribe(ch)
	<-done
}
