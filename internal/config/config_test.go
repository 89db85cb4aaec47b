package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iso-asset-editor/internal/asset"
	"iso-asset-editor/internal/bias"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	assert.Equal(t, "round_down", cfg.Bias.RoundingPolicy)
	assert.Equal(t, 400.0, cfg.View.GridDiamondWidth)
	assert.Equal(t, 1.0, cfg.View.SpriteScale)
	assert.True(t, cfg.View.RatioLocked)
	assert.Equal(t, []time.Duration{0, 100 * time.Millisecond, 400 * time.Millisecond}, cfg.Retry.Delays)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.Equal(t, asset.South, cfg.CanonicalDirection())
	require.NoError(t, cfg.Validate())
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "isoedit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
sprites:
  dir: /data/sprites
  canonical_direction: east
view:
  grid_diamond_width: 256
retry:
  delays: [0s, 50ms]
logger:
  format: json
`), 0644))
	t.Setenv("ISOEDIT_BIAS_ROUNDING_POLICY", "snap_to_nearest")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/sprites", cfg.Sprites.Dir)
	assert.Equal(t, asset.East, cfg.CanonicalDirection())
	assert.Equal(t, 256.0, cfg.View.GridDiamondWidth)
	assert.Equal(t, 1.0, cfg.View.SpriteScale)
	assert.Equal(t, []time.Duration{0, 50 * time.Millisecond}, cfg.Retry.Delays)
	assert.Equal(t, "json", cfg.Logger.Format)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, bias.SnapToNearest, cfg.Policy())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Store.Dir = "state"
	cfg.Resolve(Flags{SpritesDir: "/data/sprites", Policy: "round_up", Workers: 3, Zoom: 8})

	assert.Equal(t, "/data/sprites", cfg.Sprites.Dir)
	assert.Equal(t, filepath.Join("/data/sprites", "state"), cfg.Store.Dir)
	assert.Equal(t, filepath.Join("/data/sprites", "previews"), cfg.Preview.OutputDir)
	assert.Equal(t, "round_up", cfg.Bias.RoundingPolicy)
	assert.Equal(t, 3, cfg.Batch.Workers)
	assert.Equal(t, 8, cfg.Preview.Zoom)

	cfg = NewDefaultConfig()
	cfg.Resolve(Flags{SpritesDir: "/data/sprites"})
	assert.Equal(t, filepath.Join("/data/sprites", "positioning"), cfg.Store.Dir)
	assert.Positive(t, cfg.Batch.Workers)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"policy", func(c *Config) { c.Bias.RoundingPolicy = "sideways" }},
		{"direction", func(c *Config) { c.Sprites.CanonicalDirection = "up" }},
		{"width", func(c *Config) { c.View.GridDiamondWidth = 0 }},
		{"scale", func(c *Config) { c.View.SpriteScale = -1 }},
		{"delay", func(c *Config) { c.Retry.Delays = []time.Duration{-time.Second} }},
		{"workers", func(c *Config) { c.Batch.Workers = -2 }},
		{"format", func(c *Config) { c.Logger.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
