package raster

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
)

// Formats lists the encodings accepted by Encode.
var Formats = []string{"png", "webp", "tga"}

// Ext returns the file extension for format, including the dot.
func Ext(format string) string { return "." + strings.ToLower(format) }

// Encode writes img in the named format.
func Encode(w io.Writer, img image.Image, format string) error {
	var err error
	switch strings.ToLower(format) {
	case "png":
		err = png.Encode(w, img)
	case "webp":
		err = nativewebp.Encode(w, img, nil)
	case "tga":
		err = tga.Encode(w, img)
	default:
		return fmt.Errorf("raster: unknown image format %q", format)
	}
	if err != nil {
		return fmt.Errorf("raster: encode %s: %w", format, err)
	}
	return nil
}
