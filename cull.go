package gcull

import (
	"fmt"

	"github.com/soypat/geometry/md3"
)

// VisibleFace is a face that survived culling, ready for rasterization.
type VisibleFace struct {
	// Polyhedron is the index of the face's polyhedron in the slice passed to [Cull].
	Polyhedron int
	// Face is the index of the face in the polyhedron's face list.
	Face int
	// Normal is the outward unit normal in the space the face was classified in.
	Normal md3.Vec
	// Points are the face's vertices after transformation, in face order.
	Points []md3.Vec
}

type cullConfig struct {
	viewSpace bool
}

// CullOption configures [Cull].
type CullOption func(*cullConfig)

// WithViewSpace classifies faces using the transformed vertices and transformed
// center against a viewer on +Z instead of the model space vertices against [ViewDirection].
// Use it when the transform rotates the model and culling must follow the rotation.
func WithViewSpace() CullOption {
	return func(c *cullConfig) { c.viewSpace = true }
}

// Cull transforms every polyhedron by m and returns the faces visible to the viewer,
// ordered by polyhedron and then by face as they appear in the input.
// By default faces are classified in model space against [ViewDirection](m).
// If any polyhedron fails validation Cull returns an error wrapping [ErrInvalidGeometry]
// and no faces.
func Cull(m Mat4, polys []Polyhedron, opts ...CullOption) ([]VisibleFace, error) {
	var cfg cullConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if !m.IsFinite() {
		return nil, ErrNonFiniteMatrix
	}
	view := ViewDirection(m)
	var visible []VisibleFace
	var transformed []md3.Vec
	for ip := range polys {
		p := &polys[ip]
		err := p.Validate()
		if err != nil {
			return nil, fmt.Errorf("polyhedron %d: %w", ip, err)
		}
		transformed = AppendTransform(transformed[:0], m, p.Vertices)
		center := p.Center()
		classifyVerts := p.Vertices
		if cfg.viewSpace {
			view = viewPerspective
			center = m.MulPosition(center)
			classifyVerts = transformed
		}
		for iface, f := range p.Faces {
			n, ok := FaceNormal(center, classifyVerts, f)
			if !ok || !IsFrontFacing(n, view) {
				continue
			}
			pts := make([]md3.Vec, len(f))
			for i, idx := range f {
				pts[i] = transformed[idx]
			}
			visible = append(visible, VisibleFace{
				Polyhedron: ip,
				Face:       iface,
				Normal:     n,
				Points:     pts,
			})
		}
	}
	return visible, nil
}
