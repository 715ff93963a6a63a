package raster

import (
	"image"

	"golang.org/x/image/draw"
)

// Downsample scales a supersampled frame down to w×h. image.RGBA is already
// premultiplied, so filtering does not darken translucent edges.
func Downsample(img *image.RGBA, w, h int) *image.RGBA {
	b := img.Bounds()
	if b.Dx() <= w && b.Dy() <= h {
		return img
	}

	// CatmullRom approximates Lanczos
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// ToNRGBA converts to straight alpha for encoders that expect it.
func ToNRGBA(img *image.RGBA) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			si := img.PixOffset(x, y)
			di := out.PixOffset(x-b.Min.X, y-b.Min.Y)
			a := float64(img.Pix[si+3])
			if a > 1 {
				inv := 255.0 / a
				out.Pix[di] = clamp8(float64(img.Pix[si]) * inv)
				out.Pix[di+1] = clamp8(float64(img.Pix[si+1]) * inv)
				out.Pix[di+2] = clamp8(float64(img.Pix[si+2]) * inv)
			}
			out.Pix[di+3] = img.Pix[si+3]
		}
	}
	return out
}

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
