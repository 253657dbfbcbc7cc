package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

//go:embed emperor.toml
var defaultContext []byte

const (
	appDirName     = "Emperor"
	configFileName = "emperor.toml"

	defaultWindowWidth  = 1024
	defaultWindowHeight = 768
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Context is the runtime context handed to the application framework:
// product metadata, the window set and per-plugin settings.
type Context struct {
	ProductName string   `toml:"product_name"`
	Identifier  string   `toml:"identifier"`
	Version     string   `toml:"version"`
	Log         Log      `toml:"log"`
	Windows     []Window `toml:"windows"`
	Plugins     Plugins  `toml:"plugins"`
}

type Log struct {
	Level string `toml:"level"`
}

// Window describes a webview window. Label is the lookup key used by
// setup hooks; Visible=false means the window starts hidden.
type Window struct {
	Label     string `toml:"label"`
	Title     string `toml:"title"`
	Width     int    `toml:"width"`
	Height    int    `toml:"height"`
	MinWidth  int    `toml:"min_width"`
	MinHeight int    `toml:"min_height"`
	Resizable bool   `toml:"resizable"`
	Visible   bool   `toml:"visible"`
}

type Plugins struct {
	Opener Opener `toml:"opener"`
}

// Opener configures the opener plugin.
type Opener struct {
	AllowedSchemes []string `toml:"allowed_schemes"`
}

// Default returns the embedded runtime context.
func Default() (*Context, error) {
	c := &Context{}
	if err := decode(defaultContext, c); err != nil {
		return nil, fmt.Errorf("embedded config: %w", err)
	}
	c.normalize()
	return c, c.Validate()
}

// Load returns the embedded context overlaid with the file at path.
// An empty path yields the defaults; a path that does not exist is an error.
func Load(path string) (*Context, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var overlay Context
	if err := decode(data, &overlay); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	c.merge(overlay)
	c.normalize()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// LoadUser loads the override file at DefaultPath if there is one.
// The returned path is empty when only the defaults were used.
func LoadUser() (*Context, string, error) {
	path, err := DefaultPath()
	if err != nil {
		c, derr := Default()
		return c, "", derr
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		c, derr := Default()
		return c, "", derr
	}
	c, err := Load(path)
	return c, path, err
}

// DefaultPath is <UserConfigDir>/Emperor/emperor.toml.
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, appDirName, configFileName), nil
}

// Window returns the window configured under label.
func (c *Context) Window(label string) (Window, bool) {
	for _, w := range c.Windows {
		if w.Label == label {
			return w, true
		}
	}
	return Window{}, false
}

// Validate checks the invariants the framework relies on.
func (c *Context) Validate() error {
	if c.ProductName == "" {
		return fmt.Errorf("%w: product_name is empty", ErrInvalid)
	}
	if len(c.Windows) == 0 {
		return fmt.Errorf("%w: no windows configured", ErrInvalid)
	}
	seen := make(map[string]bool, len(c.Windows))
	for i, w := range c.Windows {
		if w.Label == "" {
			return fmt.Errorf("%w: window %d has no label", ErrInvalid, i)
		}
		if seen[w.Label] {
			return fmt.Errorf("%w: duplicate window label %q", ErrInvalid, w.Label)
		}
		seen[w.Label] = true
		if w.Width <= 0 || w.Height <= 0 {
			return fmt.Errorf("%w: window %q has non-positive size %dx%d", ErrInvalid, w.Label, w.Width, w.Height)
		}
	}
	return nil
}

func decode(data []byte, c *Context) error {
	return toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(c)
}

// merge applies the fields set in o. Lists replace rather than append.
func (c *Context) merge(o Context) {
	if o.ProductName != "" {
		c.ProductName = o.ProductName
	}
	if o.Identifier != "" {
		c.Identifier = o.Identifier
	}
	if o.Version != "" {
		c.Version = o.Version
	}
	if o.Log.Level != "" {
		c.Log.Level = o.Log.Level
	}
	if o.Windows != nil {
		c.Windows = o.Windows
	}
	if o.Plugins.Opener.AllowedSchemes != nil {
		c.Plugins.Opener.AllowedSchemes = o.Plugins.Opener.AllowedSchemes
	}
}

func (c *Context) normalize() {
	for i := range c.Windows {
		w := &c.Windows[i]
		if w.Title == "" {
			w.Title = c.ProductName
		}
		if w.Width == 0 {
			w.Width = defaultWindowWidth
		}
		if w.Height == 0 {
			w.Height = defaultWindowHeight
		}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}
