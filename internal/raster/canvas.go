// Package raster draws 2D strokes, text and projected 3D wireframes onto an
// RGBA image.
package raster

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f32"
	"golang.org/x/image/vector"
)

// circleSegments is the polygon resolution used for circles.
const circleSegments = 48

// Canvas is a rectangular drawing target. Coordinates are local to the
// canvas: (0,0) is its top-left corner.
type Canvas struct {
	img    *image.RGBA
	bounds image.Rectangle
	z      *vector.Rasterizer
}

// NewCanvas allocates a transparent w×h canvas.
func NewCanvas(w, h int) *Canvas {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	return &Canvas{img: img, bounds: img.Bounds()}
}

// Sub returns a canvas sharing pixels with c, clipped to r in c's local
// coordinates. An r outside c yields an empty canvas that draws nothing.
func (c *Canvas) Sub(r image.Rectangle) *Canvas {
	abs := r.Add(c.bounds.Min).Intersect(c.bounds)
	return &Canvas{img: c.img, bounds: abs}
}

// Image returns the backing image of the whole surface.
func (c *Canvas) Image() *image.RGBA { return c.img }

// Size returns the canvas width and height.
func (c *Canvas) Size() (w, h int) { return c.bounds.Dx(), c.bounds.Dy() }

func (c *Canvas) empty() bool { return c.bounds.Empty() }

// dst is the clipped view used by draw calls.
func (c *Canvas) dst() *image.RGBA {
	return c.img.SubImage(c.bounds).(*image.RGBA)
}

// Fill paints the whole canvas with col, replacing what was there.
func (c *Canvas) Fill(col color.Color) {
	draw.Draw(c.img, c.bounds, image.NewUniform(col), image.Point{}, draw.Src)
}

func (c *Canvas) rasterizer() *vector.Rasterizer {
	w, h := c.Size()
	if c.z == nil {
		c.z = vector.NewRasterizer(w, h)
	} else {
		c.z.Reset(w, h)
	}
	c.z.DrawOp = draw.Over
	return c.z
}

func (c *Canvas) paint(z *vector.Rasterizer, col color.Color) {
	z.Draw(c.img, c.bounds, image.NewUniform(col), image.Point{})
}

func finite(p f32.Vec2) bool {
	return !math.IsInf(float64(p[0]), 0) && !math.IsInf(float64(p[1]), 0) &&
		!math.IsNaN(float64(p[0])) && !math.IsNaN(float64(p[1]))
}

// segment adds a width-wide quad from a to b. All quads share a winding so
// overlapping segments never cancel.
func segment(z *vector.Rasterizer, a, b f32.Vec2, width float32) {
	dx, dy := b[0]-a[0], b[1]-a[1]
	l := float32(math.Hypot(float64(dx), float64(dy)))
	if l == 0 {
		dx, dy, l = 1, 0, 1
	}
	nx, ny := -dy/l*width/2, dx/l*width/2
	z.MoveTo(a[0]+nx, a[1]+ny)
	z.LineTo(b[0]+nx, b[1]+ny)
	z.LineTo(b[0]-nx, b[1]-ny)
	z.LineTo(a[0]-nx, a[1]-ny)
	z.ClosePath()
}

// clipSegment trims a-b to the box lo..hi (Liang-Barsky).
func clipSegment(a, b, lo, hi f32.Vec2) (f32.Vec2, f32.Vec2, bool) {
	t0, t1 := float32(0), float32(1)
	d := f32.Vec2{b[0] - a[0], b[1] - a[1]}
	for axis := 0; axis < 2; axis++ {
		for _, edge := range [2]struct{ p, q float32 }{
			{-d[axis], a[axis] - lo[axis]},
			{d[axis], hi[axis] - a[axis]},
		} {
			if edge.p == 0 {
				if edge.q < 0 {
					return a, b, false
				}
				continue
			}
			r := edge.q / edge.p
			if edge.p < 0 {
				t0 = max(t0, r)
			} else {
				t1 = min(t1, r)
			}
		}
	}
	if t0 > t1 {
		return a, b, false
	}
	return f32.Vec2{a[0] + t0*d[0], a[1] + t0*d[1]}, f32.Vec2{a[0] + t1*d[0], a[1] + t1*d[1]}, true
}

// ring adds a circle outline, or a disc when inner <= 0.
func ring(z *vector.Rasterizer, centre f32.Vec2, outer, inner float32) {
	contour := func(r float32, reverse bool) {
		for i := 0; i <= circleSegments; i++ {
			k := i
			if reverse {
				k = circleSegments - i
			}
			a := 2 * math.Pi * float64(k) / circleSegments
			x := centre[0] + r*float32(math.Cos(a))
			y := centre[1] + r*float32(math.Sin(a))
			if i == 0 {
				z.MoveTo(x, y)
			} else {
				z.LineTo(x, y)
			}
		}
		z.ClosePath()
	}
	contour(outer, false)
	if inner > 0 {
		contour(inner, true)
	}
}

// onCanvas reports whether every point is finite and the bounding box
// overlaps a w×h area.
func onCanvas(pts []f32.Vec2, w, h float32) bool {
	lo := f32.Vec2{float32(math.Inf(1)), float32(math.Inf(1))}
	hi := f32.Vec2{float32(math.Inf(-1)), float32(math.Inf(-1))}
	for _, p := range pts {
		if !finite(p) {
			return false
		}
		lo = f32.Vec2{min(lo[0], p[0]), min(lo[1], p[1])}
		hi = f32.Vec2{max(hi[0], p[0]), max(hi[1], p[1])}
	}
	return hi[0] >= 0 && hi[1] >= 0 && lo[0] <= w && lo[1] <= h
}

func lineWidth(w float64) float32 {
	return float32(math.Max(w, 1))
}

// Line strokes a straight segment.
func (c *Canvas) Line(a, b f32.Vec2, width float64, col color.Color) {
	c.Polyline([]f32.Vec2{a, b}, false, width, col)
}

// Polyline strokes connected segments. Segments touching a non-finite point
// are skipped.
func (c *Canvas) Polyline(pts []f32.Vec2, closed bool, width float64, col color.Color) {
	if c.empty() || len(pts) < 2 {
		return
	}
	z := c.rasterizer()
	w := lineWidth(width)
	n := len(pts) - 1
	if closed {
		n = len(pts)
	}
	cw, ch := c.Size()
	lo := f32.Vec2{-w, -w}
	hi := f32.Vec2{float32(cw) + w, float32(ch) + w}
	drawn := false
	for i := 0; i < n; i++ {
		a, b := pts[i], pts[(i+1)%len(pts)]
		if !finite(a) || !finite(b) {
			continue
		}
		a, b, ok := clipSegment(a, b, lo, hi)
		if !ok {
			continue
		}
		segment(z, a, b, w)
		drawn = true
	}
	if drawn {
		c.paint(z, col)
	}
}

// Polygon fills pts when width is 0 and strokes the closed outline otherwise.
func (c *Canvas) Polygon(pts []f32.Vec2, width float64, col color.Color) {
	if width > 0 {
		c.Polyline(pts, true, width, col)
		return
	}
	if c.empty() || len(pts) < 3 {
		return
	}
	cw, ch := c.Size()
	if !onCanvas(pts, float32(cw), float32(ch)) {
		return
	}
	z := c.rasterizer()
	z.MoveTo(pts[0][0], pts[0][1])
	for _, p := range pts[1:] {
		z.LineTo(p[0], p[1])
	}
	z.ClosePath()
	c.paint(z, col)
}

// Circle fills a disc when width is 0 and strokes a ring otherwise.
func (c *Canvas) Circle(centre f32.Vec2, radius, width float64, col color.Color) {
	if c.empty() || radius <= 0 || !finite(centre) {
		return
	}
	cw, ch := c.Size()
	r := float32(radius)
	if centre[0]+r < 0 || centre[1]+r < 0 || centre[0]-r > float32(cw) || centre[1]-r > float32(ch) {
		return
	}
	z := c.rasterizer()
	inner := float32(0)
	if width > 0 && width < radius {
		inner = float32(radius - width)
	}
	ring(z, centre, float32(radius), inner)
	c.paint(z, col)
}

// BlitAlpha composites src, scaled by a uniform opacity, with its top-left
// at `at`. An opacity of 255 is a plain blit.
func (c *Canvas) BlitAlpha(src image.Image, at image.Point, alpha uint8) {
	if c.empty() || alpha == 0 {
		return
	}
	sb := src.Bounds()
	r := image.Rectangle{Min: c.bounds.Min.Add(at), Max: c.bounds.Min.Add(at).Add(sb.Size())}
	if alpha == 255 {
		draw.Draw(c.dst(), r, src, sb.Min, draw.Over)
		return
	}
	draw.DrawMask(c.dst(), r, src, sb.Min, image.NewUniform(color.Alpha{A: alpha}), image.Point{}, draw.Over)
}

func fillRect(dst draw.Image, r image.Rectangle, col color.Color) {
	draw.Draw(dst, r, image.NewUniform(col), image.Point{}, draw.Over)
}
