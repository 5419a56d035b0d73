package gridfx

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/gridfx/quality"
)

// QualityAuto asks for a level recommended from the host hardware.
const QualityAuto = "auto"

// Config is the file form of the renderer options. Hosts load it on
// behalf of the user; the renderer itself never reads or writes files.
type Config struct {
	Charset       string        `yaml:"charset"`
	FontSize      float64       `yaml:"font_size"`
	Color         string        `yaml:"color"`
	Background    string        `yaml:"background"`
	Effect        string        `yaml:"effect"`
	Speed         float64       `yaml:"speed"`
	Intensity     float64       `yaml:"intensity"`
	Quality       string        `yaml:"quality,omitempty"`
	ReducedMotion bool          `yaml:"reduced_motion"`
	Transition    time.Duration `yaml:"transition,omitempty"`
}

// DefaultConfig returns the defaults used by New.
func DefaultConfig() *Config {
	return &Config{
		Charset:    "standard",
		FontSize:   DefaultFontSize,
		Color:      DefaultColor,
		Background: DefaultBackground,
		Effect:     DefaultEffect,
		Speed:      DefaultSpeed,
		Intensity:  DefaultIntensity,
	}
}

// Load reads a YAML config. Missing fields keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("gridfx: read config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("gridfx: parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg as YAML.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("gridfx: encode config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate rejects quality names that are neither a level nor "auto".
// Out-of-range numbers are not errors; the renderer clamps them.
func (c *Config) Validate() error {
	if c.Quality == "" || strings.EqualFold(c.Quality, QualityAuto) {
		return nil
	}
	if _, err := quality.Parse(c.Quality); err != nil {
		return fmt.Errorf("gridfx: config: %w", err)
	}
	return nil
}

// QualityLevel resolves the Quality field. "auto" probes the host.
// It returns false when no level was configured.
func (c *Config) QualityLevel() (quality.Level, bool) {
	switch {
	case c.Quality == "":
		return 0, false
	case strings.EqualFold(c.Quality, QualityAuto):
		return quality.Recommend(), true
	}
	l, err := quality.Parse(c.Quality)
	if err != nil {
		return 0, false
	}
	return l, true
}

var presets = map[string]func(*Config){
	"calm": func(c *Config) {
		c.Effect = "wave"
		c.Speed = 0.5
		c.Intensity = 0.4
	},
	"rain": func(c *Config) {
		c.Effect = "matrix"
		c.Charset = "matrix"
		c.Color = "#00ff41"
	},
	"sonar": func(c *Config) {
		c.Effect = "pulse"
		c.Color = "#38bdf8"
		c.Intensity = 0.8
	},
	"static": func(c *Config) {
		c.Effect = "glitch"
		c.Charset = "blocks"
		c.Speed = 1.5
	},
}

// Preset returns the default config modified by the named preset, or nil
// when no such preset exists.
func Preset(name string) *Config {
	apply, ok := presets[strings.ToLower(name)]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

// Presets lists the preset names in order.
func Presets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
