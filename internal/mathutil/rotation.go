package mathutil

import "math"

// RotX returns a 3×3 rotation matrix around the X axis. Angle in radians.
func RotX(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{
		1, 0, 0,
		0, c, -s,
		0, s, c,
	}
}

// RotY returns a 3×3 rotation matrix around the Y axis. Positive angles
// turn +X toward +Z, the field's outward direction.
func RotY(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{
		c, 0, -s,
		0, 1, 0,
		s, 0, c,
	}
}

// RotZ returns a 3×3 rotation matrix around the Z axis.
func RotZ(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{
		c, -s, 0,
		s, c, 0,
		0, 0, 1,
	}
}

// EulerXYZ composes Rx · Ry · Rz from Euler angles in radians.
func EulerXYZ(angles Vec3) Mat3 {
	return Mat3Mul(Mat3Mul(RotX(angles[0]), RotY(angles[1])), RotZ(angles[2]))
}

// Rotation returns EulerXYZ widened to a 4×4 homogeneous transform.
func Rotation(angles Vec3) *Matrix {
	m := EulerXYZ(angles).Matrix()
	m.Resize(4, 4)
	return m
}

// Deg2Rad converts degrees to radians.
func Deg2Rad(d float64) float64 {
	return d * math.Pi / 180
}
