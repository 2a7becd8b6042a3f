package gcull

import (
	"math"
	"slices"

	"github.com/soypat/geometry/md3"
)

const phi = 1.6180339887498948482045868343656381177203091798057628621354486227

// NewTetrahedron creates a regular tetrahedron centered at the origin with circumradius r.
func (bld *Builder) NewTetrahedron(r float64) Polyhedron {
	if r <= 0 {
		bld.shapeErrorf("zero or negative tetrahedron radius")
	}
	k := r / sqrt3
	return Polyhedron{
		Name: "tetrahedron",
		Vertices: []md3.Vec{
			{X: k, Y: k, Z: k},
			{X: k, Y: -k, Z: -k},
			{X: -k, Y: k, Z: -k},
			{X: -k, Y: -k, Z: k},
		},
		Faces: []Face{{0, 1, 2}, {0, 3, 1}, {0, 2, 3}, {1, 3, 2}},
	}
}

// NewCube creates an axis aligned cube centered at the origin with the given side length.
// Faces are ordered -X, +X, -Y, +Y, -Z, +Z.
func (bld *Builder) NewCube(side float64) Polyhedron {
	if side <= 0 {
		bld.shapeErrorf("zero or negative cube side")
	}
	h := side / 2
	verts := make([]md3.Vec, 8)
	for i := range verts {
		// Bit 0 selects X, bit 1 selects Y and bit 2 selects Z.
		verts[i] = md3.Vec{X: -h, Y: -h, Z: -h}
		if i&1 != 0 {
			verts[i].X = h
		}
		if i&2 != 0 {
			verts[i].Y = h
		}
		if i&4 != 0 {
			verts[i].Z = h
		}
	}
	return Polyhedron{
		Name:     "cube",
		Vertices: verts,
		Faces: []Face{
			{0, 2, 6, 4}, {1, 5, 7, 3},
			{0, 4, 5, 1}, {2, 3, 7, 6},
			{0, 1, 3, 2}, {4, 6, 7, 5},
		},
	}
}

// NewOctahedron creates a regular octahedron centered at the origin with vertices on the axes at distance r.
func (bld *Builder) NewOctahedron(r float64) Polyhedron {
	if r <= 0 {
		bld.shapeErrorf("zero or negative octahedron radius")
	}
	p := Polyhedron{
		Name: "octahedron",
		Vertices: []md3.Vec{
			{X: r}, {X: -r},
			{Y: r}, {Y: -r},
			{Z: r}, {Z: -r},
		},
	}
	for x := 0; x < 2; x++ {
		for y := 2; y < 4; y++ {
			for z := 4; z < 6; z++ {
				p.Faces = append(p.Faces, Face{x, y, z})
			}
		}
	}
	return p
}

// NewIcosahedron creates a regular icosahedron centered at the origin with circumradius r.
func (bld *Builder) NewIcosahedron(r float64) Polyhedron {
	if r <= 0 {
		bld.shapeErrorf("zero or negative icosahedron radius")
	}
	return icosahedron(r)
}

// NewDodecahedron creates a regular dodecahedron centered at the origin with circumradius r.
// It is built as the dual of the icosahedron: one pentagon per icosahedron vertex.
func (bld *Builder) NewDodecahedron(r float64) Polyhedron {
	if r <= 0 {
		bld.shapeErrorf("zero or negative dodecahedron radius")
	}
	ico := icosahedron(1)
	dual := Polyhedron{Name: "dodecahedron"}
	for _, f := range ico.Faces {
		c := md3.Add(md3.Add(ico.Vertices[f[0]], ico.Vertices[f[1]]), ico.Vertices[f[2]])
		dual.Vertices = append(dual.Vertices, md3.Scale(r/md3.Norm(c), c))
	}
	for iv, v := range ico.Vertices {
		var face Face
		for iface, f := range ico.Faces {
			if slices.Contains(f, iv) {
				face = append(face, iface)
			}
		}
		orderCyclic(dual.Vertices, face, v)
		dual.Faces = append(dual.Faces, face)
	}
	return dual
}

// NewPrism creates a right prism with a regular n-gon base of circumradius r
// and height h along the Z axis, centered at the origin.
func (bld *Builder) NewPrism(n int, r, h float64) Polyhedron {
	if n < 3 {
		bld.shapeErrorf("prism requires at least 3 sides, got %d", n)
		n = 3
	}
	if r <= 0 || h <= 0 {
		bld.shapeErrorf("zero or negative prism dimension")
	}
	p := Polyhedron{Name: "prism"}
	p.Vertices = appendRing(p.Vertices, n, r, -h/2)
	p.Vertices = appendRing(p.Vertices, n, r, h/2)
	bottom := make(Face, n)
	top := make(Face, n)
	for i := 0; i < n; i++ {
		next := (i + 1) % n
		bottom[i] = n - 1 - i
		top[i] = n + i
		p.Faces = append(p.Faces, Face{i, next, n + next, n + i})
	}
	p.Faces = append(p.Faces, bottom, top)
	return p
}

// NewPyramid creates a right pyramid with a regular n-gon base of circumradius r
// at z=-h/2 and apex at z=+h/2.
func (bld *Builder) NewPyramid(n int, r, h float64) Polyhedron {
	if n < 3 {
		bld.shapeErrorf("pyramid requires at least 3 sides, got %d", n)
		n = 3
	}
	if r <= 0 || h <= 0 {
		bld.shapeErrorf("zero or negative pyramid dimension")
	}
	p := Polyhedron{Name: "pyramid"}
	p.Vertices = appendRing(p.Vertices, n, r, -h/2)
	p.Vertices = append(p.Vertices, md3.Vec{Z: h / 2})
	base := make(Face, n)
	for i := 0; i < n; i++ {
		base[i] = n - 1 - i
		p.Faces = append(p.Faces, Face{i, (i + 1) % n, n})
	}
	p.Faces = append(p.Faces, base)
	return p
}

func icosahedron(r float64) Polyhedron {
	k := r / math.Sqrt(1+phi*phi)
	a, b := k, k*phi
	p := Polyhedron{
		Name: "icosahedron",
		Vertices: []md3.Vec{
			{X: 0, Y: a, Z: b}, {X: 0, Y: -a, Z: b}, {X: 0, Y: a, Z: -b}, {X: 0, Y: -a, Z: -b},
			{X: a, Y: b, Z: 0}, {X: -a, Y: b, Z: 0}, {X: a, Y: -b, Z: 0}, {X: -a, Y: -b, Z: 0},
			{X: b, Y: 0, Z: a}, {X: -b, Y: 0, Z: a}, {X: b, Y: 0, Z: -a}, {X: -b, Y: 0, Z: -a},
		},
	}
	// Every triple of mutually adjacent vertices is a face. Edges have length 2a.
	edge := 2 * a
	adjacent := func(i, j int) bool {
		return math.Abs(md3.Norm(md3.Sub(p.Vertices[i], p.Vertices[j]))-edge) < edge*1e-6
	}
	nv := len(p.Vertices)
	for i := 0; i < nv; i++ {
		for j := i + 1; j < nv; j++ {
			if !adjacent(i, j) {
				continue
			}
			for k := j + 1; k < nv; k++ {
				if adjacent(i, k) && adjacent(j, k) {
					p.Faces = append(p.Faces, Face{i, j, k})
				}
			}
		}
	}
	return p
}

func appendRing(dst []md3.Vec, n int, r, z float64) []md3.Vec {
	for i := 0; i < n; i++ {
		s, c := math.Sincos(2 * math.Pi * float64(i) / float64(n))
		dst = append(dst, md3.Vec{X: r * c, Y: r * s, Z: z})
	}
	return dst
}

// orderCyclic sorts face indices by angle around axis so the face
// describes a simple polygon when its vertices are coplanar.
func orderCyclic(vertices []md3.Vec, face Face, axis md3.Vec) {
	// Build an orthonormal basis u,w of the plane perpendicular to axis.
	ref := md3.Vec{X: 1}
	if math.Abs(axis.X) > math.Abs(axis.Y) && math.Abs(axis.X) > math.Abs(axis.Z) {
		ref = md3.Vec{Y: 1}
	}
	u := md3.Cross(axis, ref)
	u = md3.Scale(1/md3.Norm(u), u)
	w := md3.Cross(axis, u)
	angle := func(idx int) float64 {
		v := vertices[idx]
		return math.Atan2(md3.Dot(v, w), md3.Dot(v, u))
	}
	slices.SortFunc(face, func(a, b int) int {
		aa, ab := angle(a), angle(b)
		switch {
		case aa < ab:
			return -1
		case aa > ab:
			return 1
		}
		return 0
	})
}
