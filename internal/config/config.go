// Package config loads FingerPaint settings.
//
// Configuration is layered:
//  1. Built-in defaults
//  2. YAML file (explicit path, FINGERPAINT_CONFIG, or ./fingerpaint.yaml)
//  3. FINGERPAINT_* environment variables
//  4. Validation
package config

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"strings"

	"github.com/gogpu/gg"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"FingerPaint/internal/export"
)

const envPrefix = "FINGERPAINT"

type Config struct {
	Brush   BrushConfig   `yaml:"brush"`
	Canvas  CanvasConfig  `yaml:"canvas"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// BrushConfig is the initial pen.
type BrushConfig struct {
	Color     string  `yaml:"color"`     // default: "#000000"
	Width     float64 `yaml:"width"`     // default: 5
	Tolerance float64 `yaml:"tolerance"` // default: 10
}

type CanvasConfig struct {
	Background string `yaml:"background"` // default: "#FFFFFF"
}

// StorageConfig controls where saved images go.
type StorageConfig struct {
	Dir     string `yaml:"dir"`     // default: app storage root + "/imageDir"
	Prefix  string `yaml:"prefix"`  // default: "FingerPaint_"
	Format  string `yaml:"format"`  // "png" or "bmp", default: "png"
	Profile string `yaml:"profile"` // default: "profile.png"
}

type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error; default: info
}

func Defaults() Config {
	return Config{
		Brush: BrushConfig{
			Color:     "#000000",
			Width:     5,
			Tolerance: 10,
		},
		Canvas: CanvasConfig{
			Background: "#FFFFFF",
		},
		Storage: StorageConfig{
			Prefix:  "FingerPaint_",
			Format:  "png",
			Profile: export.DefaultProfile,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and the
// environment.
func Load(configPath string) (*Config, error) {
	cfg := Defaults()

	if path := discoverConfigFile(configPath); path != "" {
		if err := loadYAMLFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return &cfg, nil
}

func discoverConfigFile(configPath string) string {
	if configPath != "" {
		return configPath
	}
	if p := os.Getenv(envPrefix + "_CONFIG"); p != "" {
		return p
	}
	if _, err := os.Stat("fingerpaint.yaml"); err == nil {
		return "fingerpaint.yaml"
	}
	return ""
}

func loadYAMLFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks that every value is usable.
func (c *Config) Validate() error {
	var errs []error
	if c.Brush.Width <= 0 {
		errs = append(errs, fmt.Errorf("brush.width must be positive, got %v", c.Brush.Width))
	}
	if c.Brush.Tolerance <= 0 {
		errs = append(errs, fmt.Errorf("brush.tolerance must be positive, got %v", c.Brush.Tolerance))
	}
	if _, err := parseHex(c.Brush.Color); err != nil {
		errs = append(errs, fmt.Errorf("brush.color: %w", err))
	}
	if _, err := parseHex(c.Canvas.Background); err != nil {
		errs = append(errs, fmt.Errorf("canvas.background: %w", err))
	}
	if _, err := export.ParseFormat(c.Storage.Format); err != nil {
		errs = append(errs, fmt.Errorf("storage.format: %w", err))
	}
	if c.Storage.Profile == "" {
		errs = append(errs, errors.New("storage.profile must not be empty"))
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	return errors.Join(errs...)
}

// BrushColor returns the configured pen color.
func (c *Config) BrushColor() color.Color {
	col, _ := parseHex(c.Brush.Color)
	return col
}

// Background returns the configured canvas color.
func (c *Config) Background() color.Color {
	col, _ := parseHex(c.Canvas.Background)
	return col
}

// ImageFormat returns the configured save format.
func (c *Config) ImageFormat() export.Format {
	f, _ := export.ParseFormat(c.Storage.Format)
	return f
}

// LogLevel returns the configured slog level.
func (c *Config) LogLevel() slog.Level {
	l, _ := parseLevel(c.Log.Level)
	return l
}

// parseHex accepts #RGB, #RGBA, #RRGGBB and #RRGGBBAA, with or without '#'.
func parseHex(s string) (color.Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(h) {
	case 3, 4, 6, 8:
	default:
		return nil, fmt.Errorf("invalid hex color %q", s)
	}
	for _, r := range h {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return nil, fmt.Errorf("invalid hex color %q", s)
		}
	}
	return gg.Hex(h).Color(), nil
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, err
	}
	return l, nil
}
