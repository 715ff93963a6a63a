package raster

import (
	"fmt"
	"image"
	"image/color"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// FaceResolver returns a font face for a pixel size.
type FaceResolver interface {
	Face(size float64) (font.Face, error)
}

// FaceCache is a concurrency-safe cache of faces keyed by rounded size.
type FaceCache struct {
	mu    sync.RWMutex
	faces map[int]font.Face
	font  *opentype.Font
}

// NewFaceCache parses an OpenType/TrueType font. A nil ttf selects Go Regular.
func NewFaceCache(ttf []byte) (*FaceCache, error) {
	if ttf == nil {
		ttf = goregular.TTF
	}
	f, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("raster: parse font: %w", err)
	}
	return &FaceCache{faces: make(map[int]font.Face), font: f}, nil
}

// Face returns the cached face for size, creating it on first use.
func (c *FaceCache) Face(size float64) (font.Face, error) {
	key := max(int(size+0.5), 1)

	// Fast path: read lock
	c.mu.RLock()
	if f, ok := c.faces[key]; ok {
		c.mu.RUnlock()
		return f, nil
	}
	c.mu.RUnlock()

	f, err := opentype.NewFace(c.font, &opentype.FaceOptions{
		Size:    float64(key),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("raster: face size %d: %w", key, err)
	}

	// Write lock with double-check
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.faces[key]; ok {
		_ = f.Close()
		return existing, nil
	}
	c.faces[key] = f
	return f, nil
}

// MeasureText returns the pixel width and line height of s.
func MeasureText(face font.Face, s string) (w, h int) {
	return font.MeasureString(face, s).Ceil(), face.Metrics().Height.Ceil()
}

// Text draws one line of s with its top-left at `at`. A non-nil bg paints
// the measured box behind the glyphs first.
func (c *Canvas) Text(face font.Face, s string, at image.Point, fg, bg color.Color) (w, h int) {
	w, h = MeasureText(face, s)
	if c.empty() {
		return w, h
	}
	origin := c.bounds.Min.Add(at)
	if bg != nil {
		box := image.Rectangle{Min: origin, Max: origin.Add(image.Pt(w, h))}
		fillRect(c.dst(), box, bg)
	}
	d := font.Drawer{
		Dst:  c.dst(),
		Src:  image.NewUniform(fg),
		Face: face,
		Dot:  fixed.P(origin.X, origin.Y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)
	return w, h
}

// WrapText lays words out from `at`, wrapping before a word that would
// cross the right edge and starting a new row for every line of s.
func (c *Canvas) WrapText(face font.Face, s string, at image.Point, fg, bg color.Color) {
	cw, _ := c.Size()
	space, _ := MeasureText(face, " ")
	x, y := at.X, at.Y
	for _, line := range strings.Split(s, "\n") {
		rowH := face.Metrics().Height.Ceil()
		for _, word := range strings.Split(line, " ") {
			ww, wh := MeasureText(face, word)
			if x+ww >= cw && x != at.X {
				x = at.X
				y += wh
			}
			c.Text(face, word, image.Pt(x, y), fg, bg)
			x += ww + space
			rowH = wh
		}
		x = at.X
		y += rowH
	}
}
