// Package opener opens URLs and files with the operating system's default
// handlers and exposes that to the frontend.
package opener

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	goruntime "runtime"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/mlechner911/emperor/internal/config"
	"github.com/mlechner911/emperor/internal/shell"
)

const Name = "opener"

var (
	ErrEmptyTarget      = errors.New("empty target")
	ErrSchemeNotAllowed = errors.New("url scheme not allowed")
)

// Plugin is the opener capability. Frontend calls go through API.
type Plugin struct {
	log     zerolog.Logger
	schemes map[string]bool
	goos    string
	start   func(c command) error
	browse  func(ctx context.Context, url string)

	mu  sync.RWMutex
	ctx context.Context
}

var (
	_ shell.Plugin     = (*Plugin)(nil)
	_ shell.Binder     = (*Plugin)(nil)
	_ shell.Shutdowner = (*Plugin)(nil)
)

func New(cfg config.Opener, log zerolog.Logger) *Plugin {
	schemes := make(map[string]bool, len(cfg.AllowedSchemes))
	for _, s := range cfg.AllowedSchemes {
		schemes[strings.ToLower(s)] = true
	}
	return &Plugin{
		log:     log.With().Str("component", Name).Logger(),
		schemes: schemes,
		goos:    goruntime.GOOS,
		start:   startDetached,
		browse:  runtime.BrowserOpenURL,
	}
}

// Name returns "opener".
func (p *Plugin) Name() string {
	return Name
}

// Setup captures the runtime context used for the framework's browser hook.
func (p *Plugin) Setup(h shell.Handle) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ctx = h.Context()
	return nil
}

// Bind exposes the API to the frontend.
func (p *Plugin) Bind() []interface{} {
	return []interface{}{&API{p: p}}
}

// Shutdown drops the runtime context; later calls use the OS launcher.
func (p *Plugin) Shutdown(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ctx = nil
}

func (p *Plugin) runtimeContext() context.Context {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ctx
}

// OpenURL opens rawURL in the default handler for its scheme, or in the
// application named by with.
func (p *Plugin) OpenURL(rawURL, with string) error {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return ErrEmptyTarget
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}
	if !p.schemes[strings.ToLower(u.Scheme)] {
		return fmt.Errorf("%w: %q", ErrSchemeNotAllowed, u.Scheme)
	}

	p.log.Info().Str("url", rawURL).Str("with", with).Msg("open url")
	if ctx := p.runtimeContext(); with == "" && ctx != nil {
		p.browse(ctx, rawURL)
		return nil
	}
	if err := p.start(openCommand(p.goos, rawURL, with)); err != nil {
		return fmt.Errorf("open url: %w", err)
	}
	return nil
}

// OpenPath opens an existing file or directory with its default
// application, or with the application named by with.
func (p *Plugin) OpenPath(path, with string) error {
	if err := checkPath(path); err != nil {
		return err
	}
	p.log.Info().Str("path", path).Str("with", with).Msg("open path")
	if err := p.start(openCommand(p.goos, path, with)); err != nil {
		return fmt.Errorf("open path: %w", err)
	}
	return nil
}

// RevealItemInDir shows an existing path in the file manager.
func (p *Plugin) RevealItemInDir(path string) error {
	if err := checkPath(path); err != nil {
		return err
	}
	p.log.Info().Str("path", path).Msg("reveal path")
	if err := p.start(revealCommand(p.goos, path)); err != nil {
		return fmt.Errorf("reveal path: %w", err)
	}
	return nil
}

func checkPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return ErrEmptyTarget
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	return nil
}

// API is the object bound to the frontend.
type API struct {
	p *Plugin
}

func (a *API) OpenURL(url string, with string) error {
	return a.p.OpenURL(url, with)
}

func (a *API) OpenPath(path string, with string) error {
	return a.p.OpenPath(path, with)
}

func (a *API) RevealItemInDir(path string) error {
	return a.p.RevealItemInDir(path)
}
