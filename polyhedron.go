package gcull

import (
	"fmt"

	"github.com/soypat/geometry/md3"
)

// Face is an ordered list of indices into a polyhedron's vertex list that
// defines a planar polygon. Winding order is not required to be consistent
// since normals are oriented using the polyhedron center.
type Face []int

// Polyhedron is a convex solid described by its vertices and the faces joining them.
type Polyhedron struct {
	Name     string
	Vertices []md3.Vec
	Faces    []Face
}

// Center returns the centroid of the polyhedron's vertices. It is used as an
// interior reference point, which holds for convex polyhedra only.
func (p *Polyhedron) Center() md3.Vec {
	var c md3.Vec
	if len(p.Vertices) == 0 {
		return c
	}
	for _, v := range p.Vertices {
		c = md3.Add(c, v)
	}
	return md3.Scale(1/float64(len(p.Vertices)), c)
}

// Validate checks the polyhedron has at least one face and that every face index
// refers to an existing vertex. Faces with fewer than 3 indices are not an error
// since they are skipped during culling.
func (p *Polyhedron) Validate() error {
	if len(p.Faces) == 0 {
		return fmt.Errorf("%w: polyhedron %q has no faces", ErrInvalidGeometry, p.Name)
	}
	for i, f := range p.Faces {
		for _, idx := range f {
			if idx < 0 || idx >= len(p.Vertices) {
				return fmt.Errorf("%w: polyhedron %q face %d index %d out of range [0,%d)", ErrInvalidGeometry, p.Name, i, idx, len(p.Vertices))
			}
		}
	}
	return nil
}

// Translate returns a copy of p with all vertices displaced by v.
func (p Polyhedron) Translate(v md3.Vec) Polyhedron {
	verts := make([]md3.Vec, len(p.Vertices))
	for i := range p.Vertices {
		verts[i] = md3.Add(p.Vertices[i], v)
	}
	p.Vertices = verts
	return p
}
