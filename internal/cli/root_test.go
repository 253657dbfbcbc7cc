package cli

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlechner911/emperor/internal/config"
)

type capturedRun struct {
	cfg   *config.Context
	path  string
	level zerolog.Level
	calls int
}

func execute(t *testing.T, run RunFunc, args ...string) (string, string, error) {
	t.Helper()
	// keep the real user config out of the way
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand(nil, run)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := Run(cmd)
	return stdout.String(), stderr.String(), err
}

func (c *capturedRun) run(cfg *config.Context, path string, log zerolog.Logger, assets fs.FS) error {
	c.calls++
	c.cfg, c.path, c.level = cfg, path, log.GetLevel()
	return nil
}

func TestRootRunsWithDefaults(t *testing.T) {
	c := &capturedRun{}
	_, stderr, err := execute(t, c.run)
	require.NoError(t, err)

	assert.Equal(t, 1, c.calls)
	assert.Empty(t, c.path)
	assert.Equal(t, "Emperor", c.cfg.ProductName)
	assert.Equal(t, zerolog.InfoLevel, c.level)
	assert.Contains(t, stderr, "starting")
	assert.Contains(t, stderr, "session=")
}

func TestRootConfigAndLogLevelFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte("version = \"9.9.9\"\n[log]\nlevel = \"warn\"\n"), 0644))

	c := &capturedRun{}
	_, _, err := execute(t, c.run, "--config", path)
	require.NoError(t, err)
	assert.Equal(t, path, c.path)
	assert.Equal(t, "9.9.9", c.cfg.Version)
	assert.Equal(t, zerolog.WarnLevel, c.level)

	_, _, err = execute(t, c.run, "--config", path, "--log-level", "debug")
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, c.level)
}

func TestRootRunFailureLogsFixedMessage(t *testing.T) {
	boom := errors.New("no display")
	_, stderr, err := execute(t, func(*config.Context, string, zerolog.Logger, fs.FS) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, stderr, "error while running application")
	assert.NotContains(t, stderr, "Error: no display", "logged failures are not printed twice")
}

func TestRootRejectsBadInput(t *testing.T) {
	c := &capturedRun{}

	_, stderr, err := execute(t, c.run, "--config", filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, stderr, "Error: "+err.Error())

	_, stderr, err = execute(t, c.run, "--log-level", "loud")
	require.Error(t, err)
	assert.Contains(t, stderr, "Error: "+err.Error())

	bad := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("no_such_key = 1\n"), 0644))
	_, stderr, err = execute(t, c.run, "--config", bad)
	require.Error(t, err)
	assert.Contains(t, stderr, "Error: "+err.Error())

	_, stderr, err = execute(t, c.run, "extra-arg")
	require.Error(t, err)
	assert.Contains(t, stderr, "Error: "+err.Error())

	assert.Zero(t, c.calls)
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := execute(t, (&capturedRun{}).run, "version")
	require.NoError(t, err)
	assert.Equal(t, "Emperor 0.1.0\n", stdout)
}
