package app

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlechner911/emperor/internal/config"
	"github.com/mlechner911/emperor/internal/plugins/opener"
	"github.com/mlechner911/emperor/internal/shell"
	"github.com/mlechner911/emperor/internal/shell/shelltest"
)

func defaults(t *testing.T) *config.Context {
	t.Helper()
	c, err := config.Default()
	require.NoError(t, err)
	return c
}

func TestMainWindowShownOnStartup(t *testing.T) {
	win := shelltest.NewWindow(MainWindow, false)
	fw := &shelltest.Framework{
		Windows: []*shelltest.Window{win},
		Loop: func(h shell.Handle) {
			assert.True(t, win.Visible(), "visible while the loop runs")
		},
	}

	require.NoError(t, New(defaults(t), "", zerolog.Nop()).Run(fw))
	assert.Equal(t, 1, win.ShowCount())
	assert.True(t, fw.LoopRan())
}

func TestMissingMainWindowIsNotAnError(t *testing.T) {
	other := shelltest.NewWindow("settings", false)
	fw := &shelltest.Framework{Windows: []*shelltest.Window{other}}

	require.NoError(t, New(defaults(t), "", zerolog.Nop()).Run(fw))
	assert.Zero(t, other.ShowCount())
	assert.False(t, other.Visible())
	assert.True(t, fw.LoopRan())
}

func TestShowFailureStopsBeforeLoop(t *testing.T) {
	boom := errors.New("webview gone")
	win := shelltest.NewWindow(MainWindow, false)
	win.ShowErr = boom
	fw := &shelltest.Framework{Windows: []*shelltest.Window{win}}

	err := New(defaults(t), "", zerolog.Nop()).Run(fw)

	var setupErr *shell.SetupError
	require.ErrorAs(t, err, &setupErr)
	assert.ErrorIs(t, err, boom)
	assert.False(t, fw.LoopRan())
	assert.False(t, win.Visible())
}

func TestOpenerRegisteredBeforeSetup(t *testing.T) {
	a := New(defaults(t), "", zerolog.Nop())
	fw := &shelltest.Framework{
		Windows: []*shelltest.Window{shelltest.NewWindow(MainWindow, false)},
	}
	require.NoError(t, a.Run(fw))

	bound := fw.Bound()
	require.Len(t, bound, 1)
	assert.IsType(t, &opener.API{}, bound[0])
	assert.Equal(t, opener.Name, a.Opener.Name())
}

func TestShowMainWindowDirect(t *testing.T) {
	win := shelltest.NewWindow(MainWindow, false)
	fw := &shelltest.Framework{
		Windows: []*shelltest.Window{win},
		Loop: func(h shell.Handle) {
			require.NoError(t, ShowMainWindow(h))
		},
	}
	require.NoError(t, shell.NewBuilder(zerolog.Nop()).Run(fw, defaults(t)))
	assert.Equal(t, 1, win.ShowCount())
}

func TestConfigEditRetitlesMainWindow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "emperor.toml")
	require.NoError(t, os.WriteFile(path, []byte("version = \"1.0.0\"\n"), 0644))
	cfg, err := config.Load(path)
	require.NoError(t, err)

	win := shelltest.NewWindow(MainWindow, false)
	fw := &shelltest.Framework{
		Windows: []*shelltest.Window{win},
		Loop: func(h shell.Handle) {
			body := "[[windows]]\nlabel = \"main\"\ntitle = \"Renamed\"\n"
			require.NoError(t, os.WriteFile(path, []byte(body), 0644))
			assert.Eventually(t, func() bool {
				return win.Title() == "Renamed"
			}, 3*time.Second, 20*time.Millisecond)
		},
	}

	require.NoError(t, New(cfg, path, zerolog.Nop()).Run(fw))
	assert.True(t, win.Visible())
}
