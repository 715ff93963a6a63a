package mathutil

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// ErrSingular is matched by every SingularMatrixError.
var ErrSingular = errors.New("mathutil: singular matrix")

// SingularMatrixError reports a matrix whose inverse does not exist.
type SingularMatrixError struct {
	Det float64
}

func (e *SingularMatrixError) Error() string {
	return fmt.Sprintf("mathutil: singular matrix (det=%g)", e.Det)
}

func (e *SingularMatrixError) Unwrap() error { return ErrSingular }

// Matrix is a dense row-major matrix with a dynamic shape.
type Matrix struct {
	rows, cols int
	data       []float64
}

// NewMatrix returns a zero-filled rows×cols matrix.
func NewMatrix(rows, cols int) *Matrix {
	if rows <= 0 || cols <= 0 {
		panic(fmt.Sprintf("mathutil: invalid matrix shape %dx%d", rows, cols))
	}
	return &Matrix{rows: rows, cols: cols, data: make([]float64, rows*cols)}
}

// Identity returns the n×n identity matrix.
func Identity(n int) *Matrix {
	m := NewMatrix(n, n)
	for i := 0; i < n; i++ {
		m.data[i*n+i] = 1
	}
	return m
}

// FromRows builds a matrix from row slices. All rows must share a length.
func FromRows(rows [][]float64) *Matrix {
	if len(rows) == 0 {
		panic("mathutil: FromRows with no rows")
	}
	m := NewMatrix(len(rows), len(rows[0]))
	for r, row := range rows {
		if len(row) != m.cols {
			panic(fmt.Sprintf("mathutil: ragged row %d: %d values, want %d", r, len(row), m.cols))
		}
		copy(m.data[r*m.cols:], row)
	}
	return m
}

// FromValues builds a rows×cols matrix from row-major values.
func FromValues(rows, cols int, values []float64) *Matrix {
	if len(values) != rows*cols {
		panic(fmt.Sprintf("mathutil: %d values for %dx%d matrix", len(values), rows, cols))
	}
	m := NewMatrix(rows, cols)
	copy(m.data, values)
	return m
}

func (m *Matrix) Rows() int { return m.rows }
func (m *Matrix) Cols() int { return m.cols }

func (m *Matrix) At(r, c int) float64 {
	return m.data[r*m.cols+c]
}

func (m *Matrix) Set(r, c int, v float64) {
	m.data[r*m.cols+c] = v
}

// Values returns a row-major copy of every element.
func (m *Matrix) Values() []float64 {
	return append([]float64(nil), m.data...)
}

func (m *Matrix) Clone() *Matrix {
	return &Matrix{rows: m.rows, cols: m.cols, data: m.Values()}
}

// Equal reports whether a and b share a shape and differ by at most tol per element.
func (m *Matrix) Equal(b *Matrix, tol float64) bool {
	if m.rows != b.rows || m.cols != b.cols {
		return false
	}
	for i := range m.data {
		if math.Abs(m.data[i]-b.data[i]) > tol {
			return false
		}
	}
	return true
}

// Mul returns m × b. The inner dimensions must match.
func (m *Matrix) Mul(b *Matrix) *Matrix {
	if m.cols != b.rows {
		panic(fmt.Sprintf("mathutil: dimension mismatch %dx%d × %dx%d", m.rows, m.cols, b.rows, b.cols))
	}
	out := NewMatrix(m.rows, b.cols)
	for r := 0; r < m.rows; r++ {
		for c := 0; c < b.cols; c++ {
			var sum float64
			for k := 0; k < m.cols; k++ {
				sum += m.data[r*m.cols+k] * b.data[k*b.cols+c]
			}
			out.data[r*out.cols+c] = sum
		}
	}
	return out
}

// MulVec returns m × v for a column vector of length Cols.
func (m *Matrix) MulVec(v []float64) []float64 {
	if len(v) != m.cols {
		panic(fmt.Sprintf("mathutil: dimension mismatch %dx%d × %d", m.rows, m.cols, len(v)))
	}
	out := make([]float64, m.rows)
	for r := 0; r < m.rows; r++ {
		for c := 0; c < m.cols; c++ {
			out[r] += m.data[r*m.cols+c] * v[c]
		}
	}
	return out
}

// MulVec4 transforms a homogeneous vector. m must be 4×4.
func (m *Matrix) MulVec4(v Vec4) Vec4 {
	if m.rows != 4 {
		panic(fmt.Sprintf("mathutil: MulVec4 on %dx%d matrix", m.rows, m.cols))
	}
	out := m.MulVec(v[:])
	return Vec4{out[0], out[1], out[2], out[3]}
}

// MulVec3 transforms a 3-vector. m must be 3×3.
func (m *Matrix) MulVec3(v Vec3) Vec3 {
	if m.rows != 3 {
		panic(fmt.Sprintf("mathutil: MulVec3 on %dx%d matrix", m.rows, m.cols))
	}
	out := m.MulVec(v[:])
	return Vec3{out[0], out[1], out[2]}
}

// Inverse returns the inverse of a square matrix of size at most 4.
// A (near) singular matrix yields a *SingularMatrixError.
func (m *Matrix) Inverse() (*Matrix, error) {
	if m.rows != m.cols || m.rows > 4 {
		return nil, fmt.Errorf("mathutil: inverse of %dx%d matrix unsupported", m.rows, m.cols)
	}
	d := mat.NewDense(m.rows, m.cols, m.Values())
	det := mat.Det(d)
	if math.Abs(det) < singularTolerance {
		return nil, &SingularMatrixError{Det: det}
	}
	var inv mat.Dense
	if err := inv.Inverse(d); err != nil {
		return nil, &SingularMatrixError{Det: det}
	}
	return &Matrix{rows: m.rows, cols: m.cols, data: append([]float64(nil), inv.RawMatrix().Data...)}, nil
}

// Resize changes the shape in place. Extra rows and columns are dropped from
// the end; new ones follow the identity pattern (1 on the diagonal, else 0).
func (m *Matrix) Resize(rows, cols int) {
	if rows <= 0 || cols <= 0 {
		panic(fmt.Sprintf("mathutil: invalid matrix shape %dx%d", rows, cols))
	}
	data := make([]float64, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			switch {
			case r < m.rows && c < m.cols:
				data[r*cols+c] = m.data[r*m.cols+c]
			case r == c:
				data[r*cols+c] = 1
			}
		}
	}
	m.rows, m.cols, m.data = rows, cols, data
}

func (m *Matrix) String() string {
	var sb strings.Builder
	for r := 0; r < m.rows; r++ {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for c := 0; c < m.cols; c++ {
			if c > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%.2f", m.data[r*m.cols+c])
		}
	}
	return sb.String()
}
