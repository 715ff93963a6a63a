// Package config loads the YAML overlay configuration. Raw values are
// exposed through opaque section/key lookups; Resolve derives the typed
// settings the binaries use.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"image/color"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

// ErrAbsent is returned by Lookup for a missing section or key.
var ErrAbsent = errors.New("config: absent")

//go:embed default.yaml
var defaultYAML []byte

// Section names.
const (
	Graphics      = "graphics"
	Usage         = "usage"
	TextToggles   = "text_toggles"
	VisualToggles = "visual_toggles"
	Colors        = "colors"
	Camera        = "camera"
	Output        = "output"
)

// Config holds raw values plus the settings derived by Resolve.
type Config struct {
	values map[string]map[string]any

	// Graphics
	Width                int
	Height               int
	FPS                  int
	Supersample          int
	LineWidth            float64
	BoldLineWidth        float64
	AltTrajectoryWidth   float64
	AltTrajectoryOutline float64
	FontPath             string
	FadeDelay            time.Duration
	FadeDuration         time.Duration

	// Usage
	AllowForcedRehits bool
	Starred           bool

	// Output
	OutputDir   string
	Format      string
	Workers     int
	ArchivePath string
}

// Load reads a YAML config file. Keys not set in the file are absent.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML. Section and key names are case-insensitive.
func Parse(data []byte) (Config, error) {
	var raw map[string]map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, err
	}
	values := make(map[string]map[string]any, len(raw))
	for s, kv := range raw {
		sec := make(map[string]any, len(kv))
		for k, v := range kv {
			sec[strings.ToLower(k)] = v
		}
		values[strings.ToLower(s)] = sec
	}
	return Config{values: values}, nil
}

// Default returns the built-in configuration.
func Default() Config {
	cfg, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("config: embedded default: %v", err))
	}
	return cfg
}

// Lookup returns the raw value, or an error matching ErrAbsent.
func (c *Config) Lookup(section, key string) (any, error) {
	sec, ok := c.values[strings.ToLower(section)]
	if !ok {
		return nil, fmt.Errorf("%w: section %q", ErrAbsent, section)
	}
	v, ok := sec[strings.ToLower(key)]
	if !ok || v == nil {
		return nil, fmt.Errorf("%w: %s.%s", ErrAbsent, section, key)
	}
	return v, nil
}

// Set overrides one raw value.
func (c *Config) Set(section, key string, v any) {
	if c.values == nil {
		c.values = make(map[string]map[string]any)
	}
	s := strings.ToLower(section)
	if c.values[s] == nil {
		c.values[s] = make(map[string]any)
	}
	c.values[s][strings.ToLower(key)] = v
}

// Keys lists the keys present in a section.
func (c *Config) Keys(section string) []string {
	sec := c.values[strings.ToLower(section)]
	keys := make([]string, 0, len(sec))
	for k := range sec {
		keys = append(keys, k)
	}
	return keys
}

func (c *Config) Bool(section, key string) (bool, bool) {
	v, err := c.Lookup(section, key)
	if err != nil {
		return false, false
	}
	switch x := v.(type) {
	case bool:
		return x, true
	case string:
		b, err := strconv.ParseBool(strings.ToLower(x))
		return b, err == nil
	case int:
		return x != 0, true
	}
	return false, false
}

func (c *Config) Float(section, key string) (float64, bool) {
	v, err := c.Lookup(section, key)
	if err != nil {
		return 0, false
	}
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(x, 64)
		return f, err == nil
	}
	return 0, false
}

func (c *Config) Int(section, key string) (int, bool) {
	f, ok := c.Float(section, key)
	return int(f), ok
}

func (c *Config) String(section, key string) (string, bool) {
	v, err := c.Lookup(section, key)
	if err != nil {
		return "", false
	}
	switch x := v.(type) {
	case string:
		return x, true
	case int, float64, bool:
		return fmt.Sprint(x), true
	}
	return "", false
}

// Color resolves a key of the colors section.
func (c *Config) Color(key string) (color.RGBA, bool) {
	s, ok := c.String(Colors, key)
	if !ok {
		return color.RGBA{}, false
	}
	col, err := ParseColor(s)
	return col, err == nil
}

// ParseColor accepts an SVG color name or #rgb / #rrggbb.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if col, ok := colornames.Map[s]; ok {
		return col, nil
	}
	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return color.RGBA{}, fmt.Errorf("config: unknown color %q", s)
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("config: bad color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("config: bad color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// Toggles returns every boolean key of a section. Non-boolean keys are left out.
func (c *Config) Toggles(section string) map[string]bool {
	out := make(map[string]bool)
	for _, k := range c.Keys(section) {
		if b, ok := c.Bool(section, k); ok {
			out[k] = b
		}
	}
	return out
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	OutputDir string
	Format    string
	Workers   int
	FPS       int
	Archive   string
}

// Resolve derives typed settings. CLI flags take priority when
// non-zero/non-empty; anything still unset gets a default.
func (c *Config) Resolve(flags Flags) {
	intOr := func(section, key string, def int) int {
		if v, ok := c.Int(section, key); ok && v > 0 {
			return v
		}
		return def
	}
	floatOr := func(section, key string, def float64) float64 {
		if v, ok := c.Float(section, key); ok && v >= 0 {
			return v
		}
		return def
	}
	stringOr := func(section, key, def string) string {
		if v, ok := c.String(section, key); ok && v != "" {
			return v
		}
		return def
	}

	c.Width = intOr(Graphics, "x_dimension", 800)
	c.Height = intOr(Graphics, "y_dimension", 900)
	c.FPS = intOr(Graphics, "fps", 30)
	c.Supersample = intOr(Graphics, "supersample", 1)
	c.LineWidth = floatOr(Graphics, "line_width", 3)
	c.BoldLineWidth = floatOr(Graphics, "bold_line_width", 6)
	c.AltTrajectoryWidth = floatOr(Graphics, "additional_trajectory_line_width", 1)
	c.AltTrajectoryOutline = floatOr(Graphics, "additional_trajectory_line_outline", 3)
	c.FontPath, _ = c.String(Graphics, "font")
	c.FadeDelay = time.Duration(floatOr(Graphics, "fade_delay", 0) * float64(time.Second))
	c.FadeDuration = time.Duration(floatOr(Graphics, "fade_duration", 0.5) * float64(time.Second))

	c.AllowForcedRehits, _ = c.Bool(Usage, "allow_forced_rehits")
	c.Starred, _ = c.Bool(Usage, "is_starred")

	c.OutputDir = stringOr(Output, "dir", "frames")
	c.Format = strings.ToLower(stringOr(Output, "format", "png"))
	c.Workers = intOr(Output, "workers", runtime.NumCPU())
	c.ArchivePath, _ = c.String(Output, "archive")

	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Format != "" {
		c.Format = strings.ToLower(flags.Format)
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.FPS > 0 {
		c.FPS = flags.FPS
	}
	if flags.Archive != "" {
		c.ArchivePath = flags.Archive
	}
}
