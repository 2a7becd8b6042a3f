// Package scene loads gcull scenes from TOML files. A scene describes the output
// image size, the color seed, the transform and the list of shapes to render.
//
//	width = 640
//	height = 480
//	[transform]
//	scale = [100, 100, 100]
//	rotate = [30, 45, 0]
//	translate = [320, 240, 0]
//	[[shape]]
//	kind = "cube"
package scene

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/soypat/gcull"
	"github.com/soypat/gcull/stl"
	"github.com/soypat/geometry/md3"
)

const (
	DefaultWidth  = 640
	DefaultHeight = 480
)

// Shape kinds understood by [Scene.Polyhedra].
const (
	KindTetrahedron  = "tetrahedron"
	KindCube         = "cube"
	KindOctahedron   = "octahedron"
	KindIcosahedron  = "icosahedron"
	KindDodecahedron = "dodecahedron"
	KindPrism        = "prism"
	KindPyramid      = "pyramid"
	KindMesh         = "mesh"
	KindSTL          = "stl"
)

// Kinds lists all shape kinds in the order they are documented.
var Kinds = []string{
	KindTetrahedron, KindCube, KindOctahedron, KindIcosahedron, KindDodecahedron,
	KindPrism, KindPyramid, KindMesh, KindSTL,
}

// Scene is the decoded contents of a scene file.
type Scene struct {
	Width     int       `toml:"width"`
	Height    int       `toml:"height"`
	Seed      int64     `toml:"seed,omitempty"`
	Palette   string    `toml:"palette,omitempty"`
	ViewSpace bool      `toml:"view_space,omitempty"`
	Legend    bool      `toml:"legend,omitempty"`
	Transform Transform `toml:"transform"`
	Shapes    []Shape   `toml:"shape"`

	// dir is the directory STL paths are resolved against.
	dir string
}

// Transform describes the scene matrix. When Matrix is set the other fields are ignored.
// Otherwise scaling, rotation about X, Y and Z (degrees), translation and
// perspective are applied in that order.
type Transform struct {
	Matrix      [][]float64 `toml:"matrix,omitempty"`
	Scale       []float64   `toml:"scale,omitempty"`
	Rotate      []float64   `toml:"rotate,omitempty"`
	Translate   []float64   `toml:"translate,omitempty"`
	Perspective float64     `toml:"perspective,omitempty"`
}

// Shape is one entry of the scene's shape list.
type Shape struct {
	Name   string    `toml:"name,omitempty"`
	Kind   string    `toml:"kind"`
	Size   float64   `toml:"size,omitempty"`
	Sides  int       `toml:"sides,omitempty"`
	Height float64   `toml:"height,omitempty"`
	Offset []float64 `toml:"offset,omitempty"`
	// Mesh kind.
	Vertices [][]float64 `toml:"vertices,omitempty"`
	Faces    [][]int     `toml:"faces,omitempty"`
	// STL kind, relative to the scene file.
	Path string `toml:"path,omitempty"`
}

// Load reads and decodes the scene file at filename.
func Load(filename string) (*Scene, error) {
	fp, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	s, err := Decode(fp)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	s.dir = filepath.Dir(filename)
	return s, nil
}

// Decode decodes a TOML scene from r. Unknown keys are an error.
func Decode(r io.Reader) (*Scene, error) {
	var s Scene
	md, err := toml.NewDecoder(r).Decode(&s)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown scene keys: %s", strings.Join(keys, ", "))
	}
	if s.Width == 0 {
		s.Width = DefaultWidth
	}
	if s.Height == 0 {
		s.Height = DefaultHeight
	}
	if s.Width < 0 || s.Height < 0 {
		return nil, fmt.Errorf("negative image size %dx%d", s.Width, s.Height)
	}
	return &s, nil
}

// Encode writes s as TOML to w.
func (s *Scene) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(s)
}

// Example returns a small scene showing the available fields.
func Example() *Scene {
	return &Scene{
		Width:  DefaultWidth,
		Height: DefaultHeight,
		Seed:   42,
		Transform: Transform{
			Scale:     []float64{80, 80, 80},
			Rotate:    []float64{20, 30, 0},
			Translate: []float64{DefaultWidth / 2, DefaultHeight / 2, 0},
		},
		Shapes: []Shape{
			{Name: "box", Kind: KindCube, Size: 1.5, Offset: []float64{-1.5, 0, 0}},
			{Kind: KindIcosahedron, Size: 1, Offset: []float64{1.5, 0, 0}},
			{Kind: KindPrism, Size: 0.6, Sides: 5, Height: 1, Offset: []float64{0, 1.5, 0}},
		},
	}
}

// Matrix returns the scene transform.
func (s *Scene) Matrix() (gcull.Mat4, error) {
	t := s.Transform
	if t.Matrix != nil {
		return gcull.NewMat4(t.Matrix)
	}
	m := gcull.IdentityMat4()
	if t.Scale != nil {
		v, err := vec3("transform.scale", t.Scale)
		if err != nil {
			return m, err
		}
		m = m.Mul(gcull.ScalingMat4(v))
	}
	if t.Rotate != nil {
		v, err := vec3("transform.rotate", t.Rotate)
		if err != nil {
			return m, err
		}
		const deg = math.Pi / 180
		m = m.Mul(gcull.RotationXMat4(v.X * deg)).Mul(gcull.RotationYMat4(v.Y * deg)).Mul(gcull.RotationZMat4(v.Z * deg))
	}
	if t.Translate != nil {
		v, err := vec3("transform.translate", t.Translate)
		if err != nil {
			return m, err
		}
		m = m.Mul(gcull.TranslationMat4(v))
	}
	if t.Perspective < 0 {
		return m, errors.New("transform.perspective must not be negative")
	} else if t.Perspective > 0 {
		m = m.Mul(gcull.PerspectiveMat4(t.Perspective))
	}
	if !m.IsFinite() {
		return m, gcull.ErrNonFiniteMatrix
	}
	return m, nil
}

// Polyhedra builds the scene's shapes in order.
func (s *Scene) Polyhedra() ([]gcull.Polyhedron, error) {
	bld := gcull.Builder{NoDimensionPanic: true}
	polys := make([]gcull.Polyhedron, 0, len(s.Shapes))
	for i, sh := range s.Shapes {
		p, err := s.shape(&bld, sh)
		if err == nil {
			err = bld.Err()
		}
		if err != nil {
			return nil, fmt.Errorf("shape %d (%s): %w", i, sh.Kind, err)
		}
		if sh.Name != "" {
			p.Name = sh.Name
		}
		polys = append(polys, p)
	}
	return polys, nil
}

func (s *Scene) shape(bld *gcull.Builder, sh Shape) (p gcull.Polyhedron, err error) {
	size := sh.Size
	if size == 0 {
		size = 1
	}
	sides := sh.Sides
	if sides == 0 {
		sides = 6
	}
	height := sh.Height
	if height == 0 {
		height = size
	}
	switch sh.Kind {
	case KindTetrahedron:
		p = bld.NewTetrahedron(size)
	case KindCube:
		p = bld.NewCube(size)
	case KindOctahedron:
		p = bld.NewOctahedron(size)
	case KindIcosahedron:
		p = bld.NewIcosahedron(size)
	case KindDodecahedron:
		p = bld.NewDodecahedron(size)
	case KindPrism:
		p = bld.NewPrism(sides, size, height)
	case KindPyramid:
		p = bld.NewPyramid(sides, size, height)
	case KindMesh:
		p, err = meshShape(sh)
	case KindSTL:
		p, err = s.stlShape(sh)
	case "":
		return p, errors.New("missing shape kind")
	default:
		return p, fmt.Errorf("unknown shape kind %q", sh.Kind)
	}
	if err != nil {
		return p, err
	}
	if sh.Offset != nil {
		off, err := vec3("offset", sh.Offset)
		if err != nil {
			return p, err
		}
		p = p.Translate(off)
	}
	return p, p.Validate()
}

func meshShape(sh Shape) (gcull.Polyhedron, error) {
	p := gcull.Polyhedron{Name: KindMesh}
	for i, v := range sh.Vertices {
		vert, err := vec3(fmt.Sprintf("vertices[%d]", i), v)
		if err != nil {
			return p, err
		}
		p.Vertices = append(p.Vertices, vert)
	}
	for _, f := range sh.Faces {
		p.Faces = append(p.Faces, gcull.Face(f))
	}
	return p, nil
}

func (s *Scene) stlShape(sh Shape) (gcull.Polyhedron, error) {
	if sh.Path == "" {
		return gcull.Polyhedron{}, errors.New("stl shape requires path")
	}
	path := sh.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.dir, path)
	}
	fp, err := os.Open(path)
	if err != nil {
		return gcull.Polyhedron{}, err
	}
	defer fp.Close()
	p, err := stl.ReadBinary(fp)
	if err != nil {
		return p, err
	}
	if p.Name == "" {
		p.Name = filepath.Base(path)
	}
	if sh.Size != 0 {
		for i := range p.Vertices {
			p.Vertices[i] = md3.Scale(sh.Size, p.Vertices[i])
		}
	}
	return p, nil
}

func vec3(field string, v []float64) (md3.Vec, error) {
	if len(v) != 3 {
		return md3.Vec{}, fmt.Errorf("%s must have 3 components, got %d", field, len(v))
	}
	return md3.Vec{X: v[0], Y: v[1], Z: v[2]}, nil
}
