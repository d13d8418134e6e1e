// Package config loads the chart configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/litescript/ls-skymap/internal/gesture"
	"github.com/litescript/ls-skymap/internal/nav"
	"github.com/litescript/ls-skymap/internal/sky"
)

const (
	minBrowseInterval = 10 * time.Millisecond
	maxBrowseInterval = 5 * time.Second
)

// Config is the root of the configuration file.
type Config struct {
	Chart     ChartConfig `yaml:"chart"`
	Data      DataConfig  `yaml:"data"`
	Log       LogConfig   `yaml:"log"`
	StateFile string      `yaml:"state_file,omitempty"`
}

// ChartConfig holds the interaction constants of the chart.
type ChartConfig struct {
	DragSensitivity float64       `yaml:"drag_sensitivity"` // degrees per cell
	ZoomStep        float64       `yaml:"zoom_step"`        // factor per wheel tick
	MinScale        float64       `yaml:"min_scale"`
	MaxScale        float64       `yaml:"max_scale"` // 0 means unbounded
	DetailScale     float64       `yaml:"detail_scale"`
	DeclutterScale  float64       `yaml:"declutter_scale"`
	BrowseStep      float64       `yaml:"browse_step"` // degrees per tick
	BrowseInterval  time.Duration `yaml:"browse_interval"`
	BrowseScale     float64       `yaml:"browse_scale"`
	DefaultLon      float64       `yaml:"default_lon"`
	DefaultLat      float64       `yaml:"default_lat"`
}

// DataConfig locates the catalog and its documents.
type DataConfig struct {
	CatalogPath  string        `yaml:"catalog,omitempty"`   // GeoJSON or YAML file, empty for built-in
	DocumentsDir string        `yaml:"documents,omitempty"` // directory of <ref>.yaml documents
	APIURL       string        `yaml:"api,omitempty"`       // remote lookup service
	CacheTTL     time.Duration `yaml:"cache_ttl"`
	Timeout      time.Duration `yaml:"timeout"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	File   string `yaml:"file,omitempty"`
	Format string `yaml:"format,omitempty"` // "text" (default) or "json"
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		Chart: ChartConfig{
			DragSensitivity: 1.0,
			ZoomStep:        1.1,
			MinScale:        0.16,
			MaxScale:        5,
			DetailScale:     2.77,
			DeclutterScale:  1.0,
			BrowseStep:      0.75,
			BrowseInterval:  100 * time.Millisecond,
			BrowseScale:     0.65,
			DefaultLon:      0,
			DefaultLat:      -90,
		},
		Data: DataConfig{
			CacheTTL: 5 * time.Minute,
			Timeout:  10 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "ls-skymap", "config.yaml")
}

// Load reads the YAML file at path over the defaults. An empty path returns
// the defaults.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.Validate()
	return cfg, nil
}

// LoadOptional is Load but a missing file yields the defaults.
func LoadOptional(path string) (Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

// Validate clamps out-of-range values in place.
func (c *Config) Validate() {
	def := DefaultConfig().Chart
	ch := &c.Chart

	if ch.DragSensitivity <= 0 {
		ch.DragSensitivity = def.DragSensitivity
	}
	if ch.ZoomStep <= 1 {
		ch.ZoomStep = def.ZoomStep
	}
	if ch.MinScale <= 0 {
		ch.MinScale = def.MinScale
	}
	if ch.MaxScale < 0 {
		ch.MaxScale = 0
	}
	if ch.MaxScale > 0 && ch.MaxScale < ch.MinScale {
		ch.MaxScale = ch.MinScale
	}
	ch.DetailScale = ch.clamp(ch.DetailScale, def.DetailScale)
	ch.BrowseScale = ch.clamp(ch.BrowseScale, def.BrowseScale)
	if ch.DeclutterScale < 0 {
		ch.DeclutterScale = 0
	}

	if ch.BrowseInterval < minBrowseInterval {
		ch.BrowseInterval = minBrowseInterval
	} else if ch.BrowseInterval > maxBrowseInterval {
		ch.BrowseInterval = maxBrowseInterval
	}

	if c.Data.CacheTTL <= 0 {
		c.Data.CacheTTL = DefaultConfig().Data.CacheTTL
	}
	if c.Data.Timeout <= 0 {
		c.Data.Timeout = DefaultConfig().Data.Timeout
	}
}

// clamp forces s into the scale range, substituting fallback for unset values.
func (ch ChartConfig) clamp(s, fallback float64) float64 {
	if s <= 0 {
		s = fallback
	}
	if s < ch.MinScale {
		return ch.MinScale
	}
	if ch.MaxScale > 0 && s > ch.MaxScale {
		return ch.MaxScale
	}
	return s
}

// Gesture returns the gesture controller settings.
func (ch ChartConfig) Gesture() gesture.Config {
	return gesture.Config{
		DragSensitivity: ch.DragSensitivity,
		ZoomStep:        ch.ZoomStep,
		MinScale:        ch.MinScale,
		MaxScale:        ch.MaxScale,
		DeclutterScale:  ch.DeclutterScale,
		BrowseStep:      ch.BrowseStep,
		BrowseInterval:  ch.BrowseInterval,
	}
}

// Nav returns the navigation state machine settings.
func (ch ChartConfig) Nav() nav.Config {
	return nav.Config{
		Gesture:         ch.Gesture(),
		DefaultRotation: sky.Rotation{Lon: ch.DefaultLon, Lat: ch.DefaultLat},
		DetailScale:     ch.DetailScale,
		BrowseScale:     ch.BrowseScale,
	}
}
