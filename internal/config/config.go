package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"

	"iso-asset-editor/internal/asset"
	"iso-asset-editor/internal/bias"
)

// EnvPrefix prefixes every environment override, e.g. ISOEDIT_BIAS_ROUNDING_POLICY.
const EnvPrefix = "ISOEDIT"

// Config holds all configurable paths and engine settings.
type Config struct {
	Sprites SpritesConfig `mapstructure:"sprites" yaml:"sprites"`
	Store   StoreConfig   `mapstructure:"store" yaml:"store"`
	Bias    BiasConfig    `mapstructure:"bias" yaml:"bias"`
	View    ViewConfig    `mapstructure:"view" yaml:"view"`
	Retry   RetryConfig   `mapstructure:"retry" yaml:"retry"`
	Batch   BatchConfig   `mapstructure:"batch" yaml:"batch"`
	Preview PreviewConfig `mapstructure:"preview" yaml:"preview"`
	Logger  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
}

type SpritesConfig struct {
	Dir                string `mapstructure:"dir" yaml:"dir"`
	CanonicalDirection string `mapstructure:"canonical_direction" yaml:"canonical_direction"`
}

type StoreConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir"`
}

type BiasConfig struct {
	RoundingPolicy string `mapstructure:"rounding_policy" yaml:"rounding_policy"`
}

// ViewConfig seeds the scaling state when none has been saved yet.
type ViewConfig struct {
	GridDiamondWidth float64 `mapstructure:"grid_diamond_width" yaml:"grid_diamond_width"`
	SpriteScale      float64 `mapstructure:"sprite_scale" yaml:"sprite_scale"`
	RatioLocked      bool    `mapstructure:"ratio_locked" yaml:"ratio_locked"`
}

// RetryConfig is the delay before each bounding-box extraction attempt.
type RetryConfig struct {
	Delays []time.Duration `mapstructure:"delays" yaml:"delays"`
}

type BatchConfig struct {
	Workers int `mapstructure:"workers" yaml:"workers"`
}

type PreviewConfig struct {
	Zoom      int    `mapstructure:"zoom" yaml:"zoom"`
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`
}

// LoggerConfig holds the zap and lumberjack settings.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// SetDefaults registers every default value on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("sprites.dir", "")
	v.SetDefault("sprites.canonical_direction", "south")

	v.SetDefault("store.dir", "")

	v.SetDefault("bias.rounding_policy", "round_down")

	v.SetDefault("view.grid_diamond_width", 400.0)
	v.SetDefault("view.sprite_scale", 1.0)
	v.SetDefault("view.ratio_locked", true)

	v.SetDefault("retry.delays", []string{"0s", "100ms", "400ms"})

	v.SetDefault("batch.workers", 0)

	v.SetDefault("preview.zoom", 4)
	v.SetDefault("preview.output_dir", "")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "isoedit")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)
	v.SetDefault("logger.compress", false)
}

// NewDefaultConfig returns the configuration with only defaults applied.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("config: unmarshal defaults: %v", err))
	}
	return &cfg
}

// Load reads a YAML/JSON/TOML config file plus ISOEDIT_* environment overrides.
// With an empty path, isoedit.{yaml,json,toml} in the working directory is used when present.
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else {
		v.SetConfigName("isoedit")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("config: read: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	return &cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	SpritesDir string
	StoreDir   string
	Policy     string
	Workers    int
	Zoom       int
}

// Resolve applies CLI overrides and fills in any empty paths with auto-detected defaults.
func (c *Config) Resolve(flags Flags) {
	if flags.SpritesDir != "" {
		c.Sprites.Dir = flags.SpritesDir
	}
	if flags.StoreDir != "" {
		c.Store.Dir = flags.StoreDir
	}
	if flags.Policy != "" {
		c.Bias.RoundingPolicy = flags.Policy
	}
	if flags.Workers > 0 {
		c.Batch.Workers = flags.Workers
	}
	if flags.Zoom > 0 {
		c.Preview.Zoom = flags.Zoom
	}

	if c.Sprites.Dir == "" {
		c.Sprites.Dir = detectSpriteDir()
	}

	if c.Sprites.Dir != "" {
		if c.Store.Dir == "" {
			c.Store.Dir = filepath.Join(c.Sprites.Dir, "positioning")
		} else if !filepath.IsAbs(c.Store.Dir) {
			c.Store.Dir = filepath.Join(c.Sprites.Dir, c.Store.Dir)
		}
		if c.Preview.OutputDir == "" {
			c.Preview.OutputDir = filepath.Join(c.Sprites.Dir, "previews")
		}
	}

	if c.Batch.Workers <= 0 {
		c.Batch.Workers = runtime.NumCPU()
	}
	if c.Preview.Zoom <= 0 {
		c.Preview.Zoom = 1
	}
}

// Validate rejects values the engine cannot work with.
func (c *Config) Validate() error {
	if _, err := bias.ParsePolicy(c.Bias.RoundingPolicy); err != nil {
		return fmt.Errorf("config: bias.rounding_policy: %w", err)
	}
	if _, err := asset.ParseDirection(c.Sprites.CanonicalDirection); err != nil {
		return fmt.Errorf("config: sprites.canonical_direction: %w", err)
	}
	if c.View.GridDiamondWidth <= 0 {
		return fmt.Errorf("config: view.grid_diamond_width must be positive")
	}
	if c.View.SpriteScale <= 0 {
		return fmt.Errorf("config: view.sprite_scale must be positive")
	}
	for _, d := range c.Retry.Delays {
		if d < 0 {
			return fmt.Errorf("config: retry.delays must not be negative")
		}
	}
	if c.Batch.Workers < 0 {
		return fmt.Errorf("config: batch.workers must not be negative")
	}
	switch c.Logger.Format {
	case "console", "json":
	default:
		return fmt.Errorf("config: logger.format must be console or json, got %q", c.Logger.Format)
	}
	return nil
}

// Policy returns the parsed rounding policy. Call Validate first.
func (c *Config) Policy() bias.Policy {
	p, _ := bias.ParsePolicy(c.Bias.RoundingPolicy)
	return p
}

// CanonicalDirection returns the parsed canonical frame direction.
func (c *Config) CanonicalDirection() asset.Direction {
	d, err := asset.ParseDirection(c.Sprites.CanonicalDirection)
	if err != nil {
		return asset.CanonicalDirection
	}
	return d
}

func detectSpriteDir() string {
	var bases []string
	if exe, _ := os.Executable(); exe != "" {
		dir := filepath.Dir(exe)
		bases = append(bases, dir, filepath.Dir(dir))
	}
	if cwd, _ := os.Getwd(); cwd != "" {
		bases = append(bases, cwd)
	}

	for _, base := range bases {
		for _, rel := range []string{"sprites", filepath.Join("assets", "sprites")} {
			p := filepath.Join(base, rel)
			if st, err := os.Stat(p); err == nil && st.IsDir() {
				return p
			}
		}
	}
	return ""
}
