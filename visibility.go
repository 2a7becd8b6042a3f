package gcull

import (
	"github.com/soypat/geometry/md3"
)

var (
	viewPerspective = md3.Vec{X: 0, Y: 0, Z: 1}
	viewParallel    = md3.Vec{X: -1 / sqrt3, Y: 1 / sqrt3, Z: 1 / sqrt3}
)

// ViewDirection returns the unit vector pointing from the scene toward the viewer
// for transform m. Perspective transforms are viewed along +Z. Parallel transforms
// ([Mat4.IsParallel]) use the oblique direction (-1,1,1) normalized so that
// three faces of an axis aligned box are seen.
func ViewDirection(m Mat4) md3.Vec {
	if m.IsParallel() {
		return viewParallel
	}
	return viewPerspective
}

// FaceNormal returns the outward unit normal of face f. The normal is computed from the
// first three vertices of the face and flipped if it points toward center, so center
// must lie inside a convex solid for the result to be outward.
// ok is false for faces with fewer than 3 indices or collinear leading vertices.
func FaceNormal(center md3.Vec, vertices []md3.Vec, f Face) (normal md3.Vec, ok bool) {
	if len(f) < 3 {
		return md3.Vec{}, false
	}
	v0 := vertices[f[0]]
	e1 := md3.Sub(vertices[f[1]], v0)
	e2 := md3.Sub(vertices[f[2]], v0)
	n := md3.Cross(e1, e2)
	if md3.Dot(n, md3.Sub(center, v0)) > 0 {
		n = md3.Scale(-1, n) // Points inward.
	}
	length := md3.Norm(n)
	// Relative to edge lengths so scaled down faces are not rejected.
	if length <= epstol*md3.Norm(e1)*md3.Norm(e2) || !isFinite(length) {
		return md3.Vec{}, false
	}
	return md3.Scale(1/length, n), true
}

// IsFrontFacing reports whether a face with outward normal faces a viewer
// located along view, where view points from the scene toward the viewer.
// Faces seen exactly edge-on are not front facing.
func IsFrontFacing(normal, view md3.Vec) bool {
	return md3.Dot(normal, view) > 0
}

// VisibleFaces returns the indices of the faces of p that face a viewer along view
// and their outward unit normals, in the order they appear in p.Faces.
// Degenerate faces are omitted. Returns an error wrapping [ErrInvalidGeometry] if p fails validation.
func VisibleFaces(p *Polyhedron, view md3.Vec) (faces []int, normals []md3.Vec, err error) {
	err = p.Validate()
	if err != nil {
		return nil, nil, err
	}
	center := p.Center()
	for i, f := range p.Faces {
		n, ok := FaceNormal(center, p.Vertices, f)
		if ok && IsFrontFacing(n, view) {
			faces = append(faces, i)
			normals = append(normals, n)
		}
	}
	return faces, normals, nil
}
