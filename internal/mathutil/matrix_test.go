package mathutil

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMulShapeAndIdentity(t *testing.T) {
	a := FromRows([][]float64{
		{1, 2, 3},
		{4, 5, 6},
	})
	b := FromRows([][]float64{
		{7, 8},
		{9, 10},
		{11, 12},
	})

	ab := a.Mul(b)
	assert.Equal(t, 2, ab.Rows())
	assert.Equal(t, 2, ab.Cols())
	assert.Equal(t, []float64{58, 64, 139, 154}, ab.Values())

	assert.True(t, a.Mul(Identity(3)).Equal(a, 0))
	assert.True(t, Identity(2).Mul(a).Equal(a, 0))
}

func TestMulDimensionMismatchPanics(t *testing.T) {
	a := NewMatrix(2, 3)
	assert.Panics(t, func() { a.Mul(NewMatrix(2, 3)) })
	assert.Panics(t, func() { a.MulVec([]float64{1, 2}) })
}

func TestInverse(t *testing.T) {
	m := Translation(Vec3{1, -2, 3}).Mul(Rotation(Vec3{0.3, -0.2, 1.1}))

	inv, err := m.Inverse()
	require.NoError(t, err)
	assert.True(t, m.Mul(inv).Equal(Identity(4), 1e-9))
}

func TestTranslationMovesPoints(t *testing.T) {
	m := Translation(Vec3{1, -2, 3})
	got := m.MulVec4(Vec3{4, 5, 6}.Vec4())
	assert.Equal(t, Vec4{5, 3, 9, 1}, got)

	r := Translation(Vec3{10, 0, 0}).Mul(Rotation(Vec3{0, 0, math.Pi / 2}))
	moved := r.MulVec4(Vec3{1, 0, 0}.Vec4()).XYZ()
	assert.InDelta(t, 10, moved[0], 1e-12)
	assert.InDelta(t, 1, moved[1], 1e-12)
	assert.InDelta(t, 0, moved[2], 1e-12)
}

func TestInverseSingular(t *testing.T) {
	m := FromRows([][]float64{
		{1, 2, 3},
		{2, 4, 6},
		{0, 1, 1},
	})

	_, err := m.Inverse()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSingular))

	var se *SingularMatrixError
	require.True(t, errors.As(err, &se))
	assert.InDelta(t, 0, se.Det, 1e-9)
}

func TestInverseRejectsLargeOrRectangular(t *testing.T) {
	_, err := Identity(5).Inverse()
	assert.Error(t, err)
	_, err = NewMatrix(2, 3).Inverse()
	assert.Error(t, err)
}

func TestResize(t *testing.T) {
	m := RotZ(math.Pi / 2).Matrix()
	m.Resize(4, 4)

	want := FromRows([][]float64{
		{0, -1, 0, 0},
		{1, 0, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	})
	assert.True(t, m.Equal(want, 1e-12), "got\n%s", m)

	m.Resize(2, 3)
	assert.Equal(t, 2, m.Rows())
	assert.Equal(t, 3, m.Cols())
	assert.InDeltaSlice(t, []float64{0, -1, 0, 1, 0, 0}, m.Values(), 1e-12)
}

func TestResizeRectangularGrowth(t *testing.T) {
	m := FromRows([][]float64{{5}})
	m.Resize(3, 2)
	assert.Equal(t, []float64{5, 0, 0, 1, 0, 0}, m.Values())
}

func TestVec4Normalize(t *testing.T) {
	assert.Equal(t, Vec4{1, 2, 3, 1}, Vec4{2, 4, 6, 2}.Normalize())

	inf := Vec4{1, 2, 3, 0}.Normalize()
	for i, c := range inf {
		assert.True(t, math.IsInf(c, 1), "component %d = %v", i, c)
	}
	assert.True(t, inf.XYZ().IsInf())
}

func TestRotationOrder(t *testing.T) {
	angles := Vec3{0.4, -1.2, 2.0}
	want := RotX(angles[0]).Matrix().Mul(RotY(angles[1]).Matrix()).Mul(RotZ(angles[2]).Matrix())
	got := EulerXYZ(angles).Matrix()
	assert.True(t, got.Equal(want, 1e-12))
}

func TestRotationDirections(t *testing.T) {
	tests := []struct {
		name   string
		angles Vec3
		in     Vec3
		want   Vec3
	}{
		{"x turns y to z", Vec3{math.Pi / 2, 0, 0}, Vec3{0, 1, 0}, Vec3{0, 0, 1}},
		{"y turns x to z", Vec3{0, math.Pi / 2, 0}, Vec3{1, 0, 0}, Vec3{0, 0, 1}},
		{"y turns z to -x", Vec3{0, math.Pi / 2, 0}, Vec3{0, 0, 1}, Vec3{-1, 0, 0}},
		{"z turns x to y", Vec3{0, 0, math.Pi / 2}, Vec3{1, 0, 0}, Vec3{0, 1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EulerXYZ(tt.angles).MulVec3(tt.in)
			for i := range got {
				assert.InDelta(t, tt.want[i], got[i], 1e-12, "component %d", i)
			}
			got4 := Rotation(tt.angles).MulVec4(tt.in.Vec4()).XYZ()
			for i := range got4 {
				assert.InDelta(t, tt.want[i], got4[i], 1e-12, "4x4 component %d", i)
			}
		})
	}
}

func TestLookAtPerspectiveDepthSign(t *testing.T) {
	view := LookAt(Vec3{0, 0, 10}, Vec3{}, Vec3{0, 1, 0})
	proj := Perspective(Deg2Rad(60), 1, 0.5)
	pv := proj.Mul(view)

	front := pv.MulVec4(Vec3{0, 0, 0}.Vec4()).Normalize()
	assert.Less(t, front[2], 0.0)

	behind := pv.MulVec4(Vec3{0, 0, 20}.Vec4()).Normalize()
	assert.GreaterOrEqual(t, behind[2], 0.0)
}

func TestCentroid(t *testing.T) {
	assert.Equal(t, Vec3{}, Centroid(nil))
	assert.Equal(t, Vec3{1, 2, 3}, Centroid([]Vec3{{0, 0, 0}, {2, 4, 6}}))
}

func TestEulerIsOrthonormal(t *testing.T) {
	r := EulerXYZ(Vec3{0.3, -1.1, 2.0})
	got := Mat3Mul(r, r.Transpose())
	want := Mat3Identity()
	for i := range got {
		assert.InDelta(t, want[i], got[i], 1e-12)
	}
}
