package raster

import (
	"image/color"
	"math"

	"golang.org/x/image/math/f32"

	"rio-visualizer/internal/camera"
	"rio-visualizer/internal/mathutil"
)

// Wire draws projected 3D wireframes. Each primitive is clip-tested on one
// representative point and is either drawn whole or skipped.
type Wire struct {
	Canvas *Canvas
	Proj   *camera.Projector
}

// NewWire binds a canvas to a camera sized to it.
func NewWire(c *Canvas, cam camera.Camera) *Wire {
	w, h := c.Size()
	return &Wire{Canvas: c, Proj: cam.Projector(w, h)}
}

func (w *Wire) project(pts []mathutil.Vec3) []f32.Vec2 {
	out := make([]f32.Vec2, len(pts))
	for i, p := range pts {
		s := w.Proj.ProjectPoint(p)
		out[i] = f32.Vec2{float32(s[0]), float32(s[1])}
	}
	return out
}

func (w *Wire) outside(p mathutil.Vec3) bool {
	return w.Proj.IsOutside(w.Proj.ProjectPoint(p))
}

// Point draws a circle at p.
func (w *Wire) Point(p mathutil.Vec3, radius, width float64, col color.Color) {
	s := w.Proj.ProjectPoint(p)
	if w.Proj.IsOutside(s) {
		return
	}
	w.Canvas.Circle(f32.Vec2{float32(s[0]), float32(s[1])}, radius, width, col)
}

// Lines draws a polyline, skipped when its centroid is outside.
func (w *Wire) Lines(pts []mathutil.Vec3, closed bool, width float64, col color.Color) {
	if len(pts) == 0 || w.outside(mathutil.Centroid(pts)) {
		return
	}
	w.Canvas.Polyline(w.project(pts), closed, width, col)
}

var unitCube = [8]mathutil.Vec3{
	{-0.5, -0.5, -0.5},
	{-0.5, -0.5, 0.5},
	{0.5, -0.5, 0.5},
	{0.5, -0.5, -0.5},

	{0.5, 0.5, -0.5},
	{-0.5, 0.5, -0.5},
	{-0.5, 0.5, 0.5},
	{0.5, 0.5, 0.5},
}

// Cube draws a box scaled, rotated (X·Y·Z, radians) and moved to
// position+offset. Its four side loops are clipped independently.
func (w *Wire) Cube(position, scale, rotation, offset mathutil.Vec3, width float64, col color.Color) {
	model := mathutil.Translation(position.Add(offset)).Mul(mathutil.Rotation(rotation))
	var p [8]mathutil.Vec3
	for i, c := range unitCube {
		p[i] = model.MulVec4(c.Mul(scale).Vec4()).XYZ()
	}
	for _, face := range [][]mathutil.Vec3{
		{p[0], p[1], p[2], p[3]},
		{p[4], p[5], p[6], p[7]},
		{p[0], p[1], p[6], p[5]},
		{p[2], p[3], p[4], p[7]},
	} {
		w.Lines(face, true, width, col)
	}
}

func arc(centre mathutil.Vec3, n int, radius float64, at func(a float64) mathutil.Vec3, angle func(i int) float64) []mathutil.Vec3 {
	out := make([]mathutil.Vec3, n)
	for i := range out {
		out[i] = centre.Add(at(angle(i)).Scale(radius))
	}
	return out
}

func ringXZ(a float64) mathutil.Vec3 { return mathutil.Vec3{math.Cos(a), 0, math.Sin(a)} }
func ringYZ(a float64) mathutil.Vec3 { return mathutil.Vec3{0, math.Cos(a), math.Sin(a)} }
func ringXY(a float64) mathutil.Vec3 { return mathutil.Vec3{math.Cos(a), -math.Sin(a), 0} }

// Sphere draws three full rings, one per coordinate plane.
func (w *Wire) Sphere(centre mathutil.Vec3, resolution int, radius, width float64, col color.Color) {
	if resolution < 3 || w.outside(centre) {
		return
	}
	full := func(i int) float64 { return float64(i) / float64(resolution) * 2 * math.Pi }
	for _, plane := range []func(float64) mathutil.Vec3{ringXZ, ringYZ, ringXY} {
		w.Canvas.Polyline(w.project(arc(centre, resolution, radius, plane, full)), true, width, col)
	}
}

// Hemisphere draws a full ground ring and two half-turn arcs over it.
// Rings are drawn at twice the radius.
func (w *Wire) Hemisphere(centre mathutil.Vec3, resolution int, radius, width float64, col color.Color) {
	if resolution < 3 || w.outside(centre) {
		return
	}
	d := radius * 2
	full := func(i int) float64 { return float64(i) / float64(resolution) * 2 * math.Pi }
	half := func(offset float64) func(int) float64 {
		return func(i int) float64 { return float64(i)/float64(resolution-1)*math.Pi + offset }
	}
	w.Canvas.Polyline(w.project(arc(centre, resolution, d, ringXZ, full)), true, width, col)
	w.Canvas.Polyline(w.project(arc(centre, resolution, d, ringYZ, half(-math.Pi/2))), false, width, col)
	w.Canvas.Polyline(w.project(arc(centre, resolution, d, ringXY, half(math.Pi))), false, width, col)
}

// Cylinder draws bottom and top rings joined by four struts. base is the
// centre of the bottom ring.
func (w *Wire) Cylinder(base mathutil.Vec3, resolution int, radius, height, width float64, col color.Color) {
	if resolution < 4 || w.outside(base) {
		return
	}
	full := func(i int) float64 { return float64(i) / float64(resolution) * 2 * math.Pi }
	bottom := arc(base, resolution, radius, ringXZ, full)
	top := arc(base.Add(mathutil.Vec3{0, height, 0}), resolution, radius, ringXZ, full)
	pb, pt := w.project(bottom), w.project(top)
	w.Canvas.Polyline(pb, true, width, col)
	w.Canvas.Polyline(pt, true, width, col)
	for q := 0; q < 4; q++ {
		i := resolution * q / 4
		w.Canvas.Line(pb[i], pt[i], width, col)
	}
}
