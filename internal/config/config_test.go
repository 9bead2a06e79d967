package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/autotutor/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(config.New(), "")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 60, cfg.Plot.Width)
	assert.Equal(t, 20, cfg.Plot.Height)
	assert.Equal(t, 4096, cfg.MaxInputSize)
	assert.Empty(t, cfg.Script)
	assert.False(t, cfg.Debug)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("AUTOTUTOR_ADDR", ":9090")
	t.Setenv("AUTOTUTOR_PLOT_WIDTH", "80")
	t.Setenv("AUTOTUTOR_DEBUG", "true")

	cfg, err := config.Load(config.New(), "")
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, 80, cfg.Plot.Width)
	assert.True(t, cfg.Debug)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autotutor.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
script: lessons/custom.yaml
assets_dir: images
plot:
  height: 12
`), 0o644))

	cfg, err := config.Load(config.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "lessons/custom.yaml", cfg.Script)
	assert.Equal(t, "images", cfg.AssetsDir)
	assert.Equal(t, 12, cfg.Plot.Height)
	assert.Equal(t, 60, cfg.Plot.Width)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("AUTOTUTOR_PLOT_HEIGHT", "2")

	_, err := config.Load(config.New(), "")
	assert.ErrorIs(t, err, config.ErrInvalid)

	_, err = config.Load(config.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
