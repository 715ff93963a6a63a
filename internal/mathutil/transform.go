package mathutil

import "math"

// Translation returns the 4×4 homogeneous translation by v.
func Translation(v Vec3) *Matrix {
	m := Identity(4)
	for i, c := range v {
		m.Set(i, 3, c)
	}
	return m
}

// LookAt returns a right-handed view matrix: the camera sits at eye and looks
// down its own -Z axis towards target.
func LookAt(eye, target, up Vec3) *Matrix {
	f := target.Sub(eye).Normalize()
	s := f.Cross(up).Normalize()
	u := s.Cross(f)
	return FromRows([][]float64{
		{s[0], s[1], s[2], -s.Dot(eye)},
		{u[0], u[1], u[2], -u.Dot(eye)},
		{-f[0], -f[1], -f[2], f.Dot(eye)},
		{0, 0, 0, 1},
	})
}

// Perspective returns a projection with vertical field of view fovY (radians).
// Depth maps to near/z, so everything in front of the camera (z < 0 in view
// space) keeps a negative depth after the divide and everything behind it
// turns non-negative.
func Perspective(fovY, aspect, near float64) *Matrix {
	f := 1 / math.Tan(fovY/2)
	return FromRows([][]float64{
		{f / aspect, 0, 0, 0},
		{0, f, 0, 0},
		{0, 0, 0, -near},
		{0, 0, -1, 0},
	})
}
