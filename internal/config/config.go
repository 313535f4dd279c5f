// Package config handles configuration loading for stockgraph.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/seenimoa/stockgraph/internal/chart"
	"github.com/seenimoa/stockgraph/pkg/models"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "STOCKGRAPH"

// Config represents the complete application configuration.
type Config struct {
	Chart   ChartConfig   `mapstructure:"chart"   yaml:"chart"`
	Render  RenderConfig  `mapstructure:"render"  yaml:"render"`
	API     APIConfig     `mapstructure:"api"     yaml:"api"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// ChartConfig holds the canvas size and default style applied to every
// chart that does not set its own.
type ChartConfig struct {
	Width  float64     `mapstructure:"width"  yaml:"width"`
	Height float64     `mapstructure:"height" yaml:"height"`
	Style  chart.Style `mapstructure:"style"  yaml:"style"`
}

// RenderConfig holds batch rendering settings for the CLI.
type RenderConfig struct {
	OutputDir   string `mapstructure:"output_dir"  yaml:"output_dir"`
	Format      string `mapstructure:"format"      yaml:"format"` // "svg" or "json"
	Concurrency int    `mapstructure:"concurrency" yaml:"concurrency"`
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// Addr returns the host:port the API server listens on.
func (c APIConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.stockgraph/config.yaml (home directory)
//  3. /etc/stockgraph/config.yaml (system)
//
// Environment variables override config file values.
// Format: STOCKGRAPH_<SECTION>_<KEY>, e.g., STOCKGRAPH_API_PORT
func Load() (*Config, error) {
	v := newViper()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".stockgraph"))
	v.AddConfigPath("/etc/stockgraph")

	// Read config file (not required to exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return decode(v)
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings that cannot be clamped into range.
func (c *Config) Validate() error {
	if _, err := models.ParseLineMode(string(c.Chart.Style.LineMode)); err != nil {
		return fmt.Errorf("chart.style.line_mode: %w", err)
	}
	if !positiveSize(c.Chart.Width) || !positiveSize(c.Chart.Height) {
		return fmt.Errorf("chart size %gx%g must be positive", c.Chart.Width, c.Chart.Height)
	}
	switch c.Render.Format {
	case "svg", "json":
	default:
		return fmt.Errorf("render.format %q must be svg or json", c.Render.Format)
	}
	if c.Render.Concurrency < 1 {
		c.Render.Concurrency = 1
	}
	return nil
}

func positiveSize(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// ChartStyle returns the configured default style, normalized.
func (c *Config) ChartStyle() chart.Style {
	return c.Chart.Style.Normalize()
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// Chart defaults
	style := chart.DefaultStyle()
	v.SetDefault("chart.width", 640)
	v.SetDefault("chart.height", 320)
	v.SetDefault("chart.style.stroke_color", style.StrokeColor)
	v.SetDefault("chart.style.stroke_width", style.StrokeWidth)
	v.SetDefault("chart.style.line_mode", string(style.LineMode))
	v.SetDefault("chart.style.curve_smoothness", style.CurveSmoothness)
	v.SetDefault("chart.style.gradient_enabled", style.GradientEnabled)
	v.SetDefault("chart.style.gradient_color", style.GradientColor)
	v.SetDefault("chart.style.gradient_alpha", style.GradientAlpha)
	v.SetDefault("chart.style.positive_color", style.PositiveColor)
	v.SetDefault("chart.style.negative_color", style.NegativeColor)
	v.SetDefault("chart.style.background_color", style.BackgroundColor)
	v.SetDefault("chart.style.bar_width_ratio", style.BarWidthRatio)
	v.SetDefault("chart.style.bar_corner_radius", style.BarCornerRadius)
	v.SetDefault("chart.style.padding", style.Padding)
	v.SetDefault("chart.style.vertical_padding_ratio", style.VerticalPaddingRatio)

	// Render defaults
	v.SetDefault("render.output_dir", ".")
	v.SetDefault("render.format", "svg")
	v.SetDefault("render.concurrency", 4)

	// API defaults
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{"http://localhost:3000"})

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
