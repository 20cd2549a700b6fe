package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/paramcore/pkg/framework/param"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func isolate(t *testing.T) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(home, ".cache"))
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	src, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, src.File())

	cfg := src.Config()
	assert.Equal(t, BackendBinary, cfg.State.Backend)
	assert.Equal(t, "default", cfg.State.Preset)
	assert.NotEmpty(t, cfg.State.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, cfg.Log.Console)
	assert.Equal(t, 20.0, cfg.Smoothing.TimeMs)
	assert.Equal(t, 48000.0, cfg.Smoothing.SampleRate)

	st, c, err := cfg.Smoothing.Options()
	require.NoError(t, err)
	assert.Equal(t, param.ExponentialSmoothing, st)
	assert.Equal(t, param.ComposeBoundedAdditive, c)
}

func TestLoadFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "paramcore.yaml")
	writeFile(t, path, `
log:
  level: debug
  console: false
state:
  backend: sqlite
  path: /tmp/presets.db
  preset: Lead
smoothing:
  type: linear
  time_ms: 5
  composition: replace
`)

	src, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, src.File())

	cfg := src.Config()
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.False(t, cfg.Log.Console)
	assert.Equal(t, BackendSQLite, cfg.State.Backend)
	assert.Equal(t, "/tmp/presets.db", cfg.State.Path)
	assert.Equal(t, "Lead", cfg.State.Preset)
	assert.Equal(t, 5.0, cfg.Smoothing.TimeMs)
	// Keys missing from the file keep their defaults.
	assert.Equal(t, 48000.0, cfg.Smoothing.SampleRate)
	assert.Equal(t, "warn", cfg.State.LogLevel)

	st, c, err := cfg.Smoothing.Options()
	require.NoError(t, err)
	assert.Equal(t, param.LinearSmoothing, st)
	assert.Equal(t, param.ComposeReplace, c)
}

func TestEnvOverride(t *testing.T) {
	isolate(t)
	t.Setenv("PARAMCORE_STATE_BACKEND", "yaml")
	t.Setenv("PARAMCORE_SMOOTHING_TIME_MS", "12.5")

	src, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, BackendYAML, src.Config().State.Backend)
	assert.Equal(t, 12.5, src.Config().Smoothing.TimeMs)
}

func TestLoadErrors(t *testing.T) {
	isolate(t)

	t.Run("MissingFile", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("InvalidValues", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		writeFile(t, path, `
state:
  backend: mongo
smoothing:
  type: cubic
  sample_rate: 0
`)
		_, err := Load(path)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidConfig)
		assert.ErrorIs(t, err, param.ErrParse)
		assert.Contains(t, err.Error(), "mongo")
		assert.Contains(t, err.Error(), "sample_rate")
	})
}

func TestReload(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "paramcore.yaml")
	writeFile(t, path, "state:\n  preset: First\n")

	src, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "First", src.Config().State.Preset)

	writeFile(t, path, "state:\n  preset: Second\n")
	require.NoError(t, src.Reload())
	assert.Equal(t, "Second", src.Config().State.Preset)

	writeFile(t, path, "state:\n  backend: floppy\n  preset: Third\n")
	assert.ErrorIs(t, src.Reload(), ErrInvalidConfig)
	assert.Equal(t, "Second", src.Config().State.Preset, "rejected reload must keep the previous settings")
}

func TestSet(t *testing.T) {
	isolate(t)
	src, err := Load("")
	require.NoError(t, err)

	require.NoError(t, src.Set("state.backend", BackendSQLite))
	assert.Equal(t, BackendSQLite, src.Config().State.Backend)

	assert.ErrorIs(t, src.Set("smoothing.time_ms", -1), ErrInvalidConfig)
}

func TestWriteFile(t *testing.T) {
	isolate(t)
	src, err := Load("")
	require.NoError(t, err)
	require.NoError(t, src.Set("state.preset", "Saved"))

	path := filepath.Join(t.TempDir(), "out", "paramcore.yaml")
	require.NoError(t, src.WriteFile(path))
	assert.Error(t, src.WriteFile(path), "existing files are not overwritten")

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, src.Config(), reloaded.Config())
}
