package shell

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mlechner911/emperor/internal/config"
)

// Builder assembles the application. Plugins are set up in registration
// order, then setup hooks run in install order.
type Builder struct {
	log     zerolog.Logger
	plugins []Plugin
	setup   []SetupFunc
}

// NewBuilder returns a builder with no plugins and no setup hooks.
func NewBuilder(log zerolog.Logger) *Builder {
	return &Builder{log: log.With().Str("component", "shell").Logger()}
}

// Plugin registers p. Plugins are set up in registration order, before any
// setup hook.
func (b *Builder) Plugin(p Plugin) *Builder {
	b.plugins = append(b.plugins, p)
	return b
}

// Setup adds a hook that runs once after all plugins are set up. The first
// hook error aborts startup.
func (b *Builder) Setup(fn SetupFunc) *Builder {
	b.setup = append(b.setup, fn)
	return b
}

// Run hands control to fw and blocks until its run loop ends. A failed
// startup step is returned as *SetupError.
func (b *Builder) Run(fw Framework, ctx *config.Context) error {
	seen := make(map[string]bool, len(b.plugins))
	var bind []interface{}
	for _, p := range b.plugins {
		if seen[p.Name()] {
			return fmt.Errorf("%w: %s", ErrDuplicatePlugin, p.Name())
		}
		seen[p.Name()] = true
		if binder, ok := p.(Binder); ok {
			bind = append(bind, binder.Bind()...)
		}
	}

	var once sync.Once
	var startErr error
	return fw.Run(RunConfig{
		Context: ctx,
		Bind:    bind,
		OnStartup: func(h Handle) error {
			once.Do(func() { startErr = b.startup(h) })
			return startErr
		},
		OnShutdown: b.shutdown,
	})
}

func (b *Builder) startup(h Handle) error {
	for _, p := range b.plugins {
		if err := p.Setup(h); err != nil {
			return &SetupError{Plugin: p.Name(), Err: err}
		}
		b.log.Debug().Str("plugin", p.Name()).Msg("plugin ready")
	}
	for _, fn := range b.setup {
		if err := fn(h); err != nil {
			return &SetupError{Err: err}
		}
	}
	b.log.Info().Int("plugins", len(b.plugins)).Msg("setup complete")
	return nil
}

// shutdown releases plugins in reverse registration order.
func (b *Builder) shutdown(ctx context.Context) {
	for i := len(b.plugins) - 1; i >= 0; i-- {
		if s, ok := b.plugins[i].(Shutdowner); ok {
			s.Shutdown(ctx)
		}
	}
	b.log.Info().Msg("shutdown complete")
}
