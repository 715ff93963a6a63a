package mathutil

import "math"

// Vec4 is a homogeneous 4-component vector (x, y, z, w).
type Vec4 [4]float64

// Normalize performs the homogeneous divide. A zero w yields +Inf in every
// component, marking a point that cannot be placed on screen.
func (v Vec4) Normalize() Vec4 {
	if v[3] == 0 {
		inf := math.Inf(1)
		return Vec4{inf, inf, inf, inf}
	}
	return Vec4{v[0] / v[3], v[1] / v[3], v[2] / v[3], 1}
}

// XYZ drops the w component.
func (v Vec4) XYZ() Vec3 {
	return Vec3{v[0], v[1], v[2]}
}
