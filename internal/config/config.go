// Package config resolves AutoTutor settings from flags, AUTOTUTOR_*
// environment variables and an optional YAML file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. AUTOTUTOR_ADDR.
const EnvPrefix = "AUTOTUTOR"

// Keys.
const (
	KeyScript       = "script"
	KeyAssetsDir    = "assets_dir"
	KeyDebug        = "debug"
	KeyAddr         = "addr"
	KeyPlotWidth    = "plot.width"
	KeyPlotHeight   = "plot.height"
	KeyMaxInputSize = "max_input_size"
)

// ErrInvalid is returned for settings outside their range.
var ErrInvalid = errors.New("invalid configuration")

// Config is the resolved configuration.
type Config struct {
	// Script is a YAML lesson script; empty means the bundled lesson.
	Script string `mapstructure:"script"`
	// AssetsDir holds lesson images; empty means the bundled images.
	AssetsDir    string `mapstructure:"assets_dir"`
	Debug        bool   `mapstructure:"debug"`
	Addr         string `mapstructure:"addr"`
	Plot         Plot   `mapstructure:"plot"`
	MaxInputSize int    `mapstructure:"max_input_size"`
}

// Plot sizes the text plot in characters.
type Plot struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

// SetDefaults registers every key with its default. Keys unknown to viper
// are not picked up from the environment, so every key must appear here.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyScript, "")
	v.SetDefault(KeyAssetsDir, "")
	v.SetDefault(KeyDebug, false)
	v.SetDefault(KeyAddr, ":8080")
	v.SetDefault(KeyPlotWidth, 60)
	v.SetDefault(KeyPlotHeight, 20)
	v.SetDefault(KeyMaxInputSize, 4096)
}

// New returns a viper instance with defaults and environment binding in place.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the optional file and decodes the settings.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks ranges.
func (c *Config) Validate() error {
	if c.Plot.Width < 10 || c.Plot.Height < 5 {
		return fmt.Errorf("%w: plot must be at least 10x5, got %dx%d", ErrInvalid, c.Plot.Width, c.Plot.Height)
	}
	if c.MaxInputSize <= 0 {
		return fmt.Errorf("%w: max_input_size must be positive", ErrInvalid)
	}
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalid)
	}
	return nil
}
