package mathutil

import "math"

// singularTolerance is the |det| below which a matrix is treated as singular.
const singularTolerance = 1e-12

var (
	// FlipY mirrors the Y axis: the game's world is +Y up, screens are +Y down.
	FlipY = Mat3Diag(1, -1, 1)

	// Inf is the sentinel point produced by a homogeneous divide with w == 0.
	Inf = Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
)

// IsInf reports whether any component of v is infinite.
func (v Vec3) IsInf() bool {
	return math.IsInf(v[0], 0) || math.IsInf(v[1], 0) || math.IsInf(v[2], 0)
}
