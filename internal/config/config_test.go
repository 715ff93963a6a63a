package config

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
GRAPHICS:
  X_Dimension: 640
  y_dimension: 480
  line_width: 2
  fade_duration: 1.5
usage:
  allow_forced_rehits: "yes"
  is_starred: false
text_toggles:
  display_home_name: Mario Sunshines
  display_count_text: true
  display_runners_text: false
colors:
  background: "#102030"
  ball: Red
  broken: notacolor
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadLookup(t *testing.T) {
	cfg, err := Load(writeConfig(t, sample))
	require.NoError(t, err)

	v, err := cfg.Lookup("graphics", "x_dimension")
	require.NoError(t, err)
	assert.Equal(t, 640, v)

	_, err = cfg.Lookup("graphics", "fps")
	assert.True(t, errors.Is(err, ErrAbsent))
	_, err = cfg.Lookup("nope", "fps")
	assert.True(t, errors.Is(err, ErrAbsent))
}

func TestTypedGetters(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	require.NoError(t, err)

	w, ok := cfg.Int(Graphics, "x_dimension")
	assert.True(t, ok)
	assert.Equal(t, 640, w)

	f, ok := cfg.Float(Graphics, "fade_duration")
	assert.True(t, ok)
	assert.InDelta(t, 1.5, f, 1e-9)

	b, ok := cfg.Bool(Usage, "allow_forced_rehits")
	assert.False(t, ok, "yes is not a strconv bool")
	assert.False(t, b)

	s, ok := cfg.String(TextToggles, "display_home_name")
	assert.True(t, ok)
	assert.Equal(t, "Mario Sunshines", s)

	_, ok = cfg.Bool(Usage, "missing")
	assert.False(t, ok)
	_, ok = cfg.Int(TextToggles, "display_home_name")
	assert.False(t, ok)
}

func TestColors(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	require.NoError(t, err)

	c, ok := cfg.Color("background")
	assert.True(t, ok)
	assert.Equal(t, color.RGBA{0x10, 0x20, 0x30, 0xff}, c)

	c, ok = cfg.Color("ball")
	assert.True(t, ok)
	assert.Equal(t, color.RGBA{0xff, 0, 0, 0xff}, c)

	_, ok = cfg.Color("broken")
	assert.False(t, ok)
	_, ok = cfg.Color("absent")
	assert.False(t, ok)
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
		err  bool
	}{
		{"white", color.RGBA{255, 255, 255, 255}, false},
		{"#fff", color.RGBA{255, 255, 255, 255}, false},
		{"#0080FF", color.RGBA{0, 0x80, 0xff, 255}, false},
		{"#12345", color.RGBA{}, true},
		{"#gggggg", color.RGBA{}, true},
		{"chartreuse-ish", color.RGBA{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToggles(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{
		"display_count_text":   true,
		"display_runners_text": false,
	}, cfg.Toggles(TextToggles))
}

func TestResolveDefaultsAndFlags(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	require.NoError(t, err)
	cfg.Resolve(Flags{Format: "WEBP", Workers: 3})

	assert.Equal(t, 640, cfg.Width)
	assert.Equal(t, 480, cfg.Height)
	assert.Equal(t, 30, cfg.FPS)
	assert.Equal(t, 2.0, cfg.LineWidth)
	assert.Equal(t, 1500*time.Millisecond, cfg.FadeDuration)
	assert.Equal(t, time.Duration(0), cfg.FadeDelay)
	assert.Equal(t, "webp", cfg.Format)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, "frames", cfg.OutputDir)
	assert.False(t, cfg.AllowForcedRehits)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	cfg.Resolve(Flags{})
	assert.Equal(t, 800, cfg.Width)
	assert.Equal(t, 900, cfg.Height)
	assert.True(t, cfg.AllowForcedRehits)
	assert.Positive(t, cfg.Workers)

	region, ok := cfg.String(VisualToggles, "text_screen")
	assert.True(t, ok)
	assert.Equal(t, "top", region)
	_, ok = cfg.Color("ball_trajectory_outline")
	assert.True(t, ok)
}

func TestSetOverrides(t *testing.T) {
	var cfg Config
	cfg.Set("USAGE", "Is_Starred", true)
	b, ok := cfg.Bool(Usage, "is_starred")
	assert.True(t, ok)
	assert.True(t, b)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	assert.Error(t, err)
}
