package gcull

import (
	"fmt"

	"github.com/soypat/geometry/md3"
)

// Mat4 is a 4x4 transform in row-vector convention: a point is transformed
// as the product [x y z 1] * M. Translation lives in the last row and the
// perspective term in element [2][3].
//
// Mat4 stores the transpose in an [md3.Mat4] so the column-vector
// operations of md3 apply directly.
type Mat4 struct {
	t md3.Mat4
}

// NewMat4 builds a Mat4 from a dynamically sized matrix in row-vector convention,
// such as one decoded from a file.
// Returns [ErrMatrixDimension] if rows is not 4x4 and [ErrNonFiniteMatrix] for NaN or Inf entries.
func NewMat4(rows [][]float64) (Mat4, error) {
	if len(rows) != 4 {
		return Mat4{}, fmt.Errorf("%w: got %d rows", ErrMatrixDimension, len(rows))
	}
	var rowmajor [16]float64
	for i, row := range rows {
		if len(row) != 4 {
			return Mat4{}, fmt.Errorf("%w: row %d has %d columns", ErrMatrixDimension, i, len(row))
		}
		copy(rowmajor[4*i:], row)
	}
	m := Mat4{t: md3.NewMat4(rowmajor[:]).Transpose()}
	if !m.IsFinite() {
		return m, ErrNonFiniteMatrix
	}
	return m, nil
}

// IdentityMat4 returns the identity transform.
func IdentityMat4() Mat4 {
	return Mat4{t: md3.IdentityMat4()}
}

// TranslationMat4 returns a transform that moves points by v.
func TranslationMat4(v md3.Vec) Mat4 {
	return Mat4{t: md3.TranslatingMat4(v)}
}

// ScalingMat4 returns a transform that scales each axis by the corresponding component of v.
func ScalingMat4(v md3.Vec) Mat4 {
	return Mat4{t: md3.ScalingMat4(v)}
}

// RotationXMat4 returns a counter-clockwise rotation about the X axis.
func RotationXMat4(radians float64) Mat4 {
	return Mat4{t: md3.RotationMat4(radians, md3.Vec{X: 1})}
}

// RotationYMat4 returns a counter-clockwise rotation about the Y axis.
func RotationYMat4(radians float64) Mat4 {
	return Mat4{t: md3.RotationMat4(radians, md3.Vec{Y: 1})}
}

// RotationZMat4 returns a counter-clockwise rotation about the Z axis.
func RotationZMat4(radians float64) Mat4 {
	return Mat4{t: md3.RotationMat4(radians, md3.Vec{Z: 1})}
}

// PerspectiveMat4 returns a central projection with the center of projection at
// distance c on the Z axis. Its [2][3] element is -1/c, which makes [Mat4.IsParallel] false.
// Panics if c is not positive.
func PerspectiveMat4(c float64) Mat4 {
	if c <= 0 {
		panic("perspective distance must be positive")
	}
	return Mat4{t: md3.NewMat4([]float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, -1 / c, 1,
	})}
}

// Mul returns the product m*b. Since points are row vectors the
// result applies m first and then b.
func (m Mat4) Mul(b Mat4) Mat4 {
	return Mat4{t: md3.MulMat4(b.t, m.t)}
}

// At returns the element at row i and column j in row-vector convention.
func (m Mat4) At(i, j int) float64 {
	return m.t.Array()[4*j+i]
}

// Rows returns the elements of m in row-vector convention.
func (m Mat4) Rows() (rows [4][4]float64) {
	arr := m.t.Array()
	for i := range rows {
		for j := range rows[i] {
			rows[i][j] = arr[4*j+i]
		}
	}
	return rows
}

// MulRow returns the product of the 1x4 row vector v with m.
func (m Mat4) MulRow(v [4]float64) (r [4]float64) {
	arr := m.t.Array()
	for j := 0; j < 4; j++ {
		col := arr[4*j : 4*j+4]
		r[j] = v[0]*col[0] + v[1]*col[1] + v[2]*col[2] + v[3]*col[3]
	}
	return r
}

// MulPosition transforms p as the homogeneous point [p.X p.Y p.Z 1].
// The homogeneous coordinate is dropped without a perspective divide.
func (m Mat4) MulPosition(p md3.Vec) md3.Vec {
	return m.t.MulPosition(p)
}

// IsParallel reports whether m encodes a parallel (orthographic) projection,
// that is element [2][3] is exactly zero.
func (m Mat4) IsParallel() bool {
	return m.At(2, 3) == 0
}

// IsFinite reports whether all elements of m are finite.
func (m Mat4) IsFinite() bool {
	for _, v := range m.t.Array() {
		if !isFinite(v) {
			return false
		}
	}
	return true
}

// Transform returns the transformed vertices of a vertex list. See [AppendTransform].
func Transform(m Mat4, vertices []md3.Vec) []md3.Vec {
	return AppendTransform(make([]md3.Vec, 0, len(vertices)), m, vertices)
}

// AppendTransform appends the vertices transformed by m to dst and returns the extended slice.
// The result is parallel to vertices.
func AppendTransform(dst []md3.Vec, m Mat4, vertices []md3.Vec) []md3.Vec {
	for _, v := range vertices {
		dst = append(dst, m.MulPosition(v))
	}
	return dst
}
