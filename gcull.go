// Package gcull implements backface culling of convex polyhedra viewed through a
// 4x4 row-vector transform. Visible faces are returned ready to be rasterized by
// [github.com/soypat/gcull/cullrender].
package gcull

import (
	"errors"
	"fmt"
	"math"
)

const (
	// epstol is the smallest sine of the angle between a face's leading edges
	// for which the face normal is considered well defined.
	epstol = 1e-12
	sqrt3  = 1.7320508075688772935274463415058723669428052538103806280558069794
)

var (
	// ErrInvalidGeometry is returned when a polyhedron has no faces or a face index
	// falls outside of the polyhedron's vertex list.
	ErrInvalidGeometry = errors.New("invalid geometry")
	// ErrMatrixDimension is returned when a transform is not 4x4.
	ErrMatrixDimension = errors.New("transform must be a 4x4 matrix")
	// ErrNonFiniteMatrix is returned when a transform contains NaN or Inf entries.
	ErrNonFiniteMatrix = errors.New("transform contains non-finite value")
)

// Builder wraps all polyhedron construction logic.
// Provides error handling strategies with panics or error accumulation during shape generation.
type Builder struct {
	NoDimensionPanic bool
	accumErrs        []error
}

func (bld *Builder) Err() error {
	if len(bld.accumErrs) == 0 {
		return nil
	}
	return errors.Join(bld.accumErrs...)
}

func (bld *Builder) shapeErrorf(msg string, args ...any) {
	if !bld.NoDimensionPanic {
		panic(fmt.Sprintf(msg, args...))
	}
	bld.accumErrs = append(bld.accumErrs, fmt.Errorf(msg, args...))
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
