// Package camera projects world points onto a pixel viewport.
package camera

import (
	"fmt"
	"math"

	"rio-visualizer/internal/mathutil"
)

// Camera is a view and projection pair. Replace it wholesale rather than
// mutating the matrices.
type Camera struct {
	View       *mathutil.Matrix
	Projection *mathutil.Matrix
}

// New pairs a 4×4 view and projection matrix.
func New(view, projection *mathutil.Matrix) Camera {
	return Camera{View: view, Projection: projection}
}

// NewLookAt builds a perspective camera at eye looking at target with +Y up.
// ProjectPoint flips Y on input and the viewport flips it again on output,
// so the view matrix absorbs one flip to keep world up pointing screen up.
func NewLookAt(eye, target mathutil.Vec3, fovYDeg, aspect, near float64) Camera {
	flip := mathutil.FlipY.Matrix()
	flip.Resize(4, 4)
	view := mathutil.LookAt(eye, target, mathutil.Vec3{0, 1, 0}).Mul(flip)
	return New(view, mathutil.Perspective(mathutil.Deg2Rad(fovYDeg), aspect, near))
}

// Eye recovers the camera position from the inverse view matrix, in the
// same world coordinates ProjectPoint takes. A singular view returns an
// error matching mathutil.ErrSingular.
func (c Camera) Eye() (mathutil.Vec3, error) {
	inv, err := c.View.Inverse()
	if err != nil {
		return mathutil.Vec3{}, fmt.Errorf("camera: eye: %w", err)
	}
	return mathutil.Vec3{inv.At(0, 3), -inv.At(1, 3), inv.At(2, 3)}, nil
}

// Projector maps points for one render call.
type Projector struct {
	Width  float64
	Height float64
	pv     *mathutil.Matrix
}

// Projector binds the camera to a width×height viewport.
func (c Camera) Projector(width, height int) *Projector {
	return &Projector{
		Width:  float64(width),
		Height: float64(height),
		pv:     c.Projection.Mul(c.View),
	}
}

// ProjectPoint returns the pixel position of p in x, y and the normalized
// depth in z. A point on the camera plane comes back as mathutil.Inf.
func (p *Projector) ProjectPoint(v mathutil.Vec3) mathutil.Vec3 {
	h := p.pv.MulVec4(mathutil.Vec4{v[0], -v[1], v[2], 1})
	n := h.Normalize()
	if math.IsInf(n[3], 0) {
		return mathutil.Inf
	}
	return mathutil.Vec3{
		(n[0]*0.5 + 0.5) * p.Width,
		(1 - (n[1]*0.5 + 0.5)) * p.Height,
		n[2],
	}
}

// Project maps a slice of points.
func (p *Projector) Project(pts []mathutil.Vec3) []mathutil.Vec3 {
	out := make([]mathutil.Vec3, len(pts))
	for i, v := range pts {
		out[i] = p.ProjectPoint(v)
	}
	return out
}

// IsOutside reports whether a projected point is behind the camera or off
// the viewport. Infinite sentinels are always outside.
func (p *Projector) IsOutside(s mathutil.Vec3) bool {
	if s.IsInf() || math.IsNaN(s[0]) || math.IsNaN(s[1]) || math.IsNaN(s[2]) {
		return true
	}
	return s[2] >= 0 || s[0] < 0 || s[0] > p.Width || s[1] < 0 || s[1] > p.Height
}
