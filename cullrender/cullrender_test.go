package cullrender

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/soypat/gcull"
	"github.com/soypat/geometry/md3"
)

// cubeScene returns a cube spanning pixels 30..70 on both axes of a 100x100 image.
func cubeScene() (gcull.Mat4, []gcull.Polyhedron) {
	var bld gcull.Builder
	cube := bld.NewCube(2)
	m := gcull.ScalingMat4(md3.Vec{X: 20, Y: 20, Z: 20}).Mul(gcull.TranslationMat4(md3.Vec{X: 50, Y: 50}))
	return m, []gcull.Polyhedron{cube}
}

func TestRenderEmptyIsBackground(t *testing.T) {
	img, err := RenderImage(gcull.IdentityMat4(), nil, 32, 16, Config{})
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds() != image.Rect(0, 0, 32, 16) {
		t.Fatal("unexpected bounds", img.Bounds())
	}
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	for y := 0; y < 16; y++ {
		for x := 0; x < 32; x++ {
			if got := img.RGBAAt(x, y); got != white {
				t.Fatalf("pixel (%d,%d) = %v, want background", x, y, got)
			}
		}
	}
}

func TestRenderReproducible(t *testing.T) {
	m, polys := cubeScene()
	var bld gcull.Builder
	polys = append(polys, bld.NewIcosahedron(1).Translate(md3.Vec{X: 1.5, Y: -1}))
	img1, err := RenderImage(m, polys, 100, 100, Config{})
	if err != nil {
		t.Fatal(err)
	}
	img2, err := RenderImage(m, polys, 100, 100, Config{})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(img1.Pix, img2.Pix) {
		t.Error("identical input rendered different images")
	}
	r := NewRasterizer(Config{})
	faces, err := r.Cull(m, polys)
	if err != nil {
		t.Fatal(err)
	}
	img3 := image.NewRGBA(img1.Bounds())
	for i := 0; i < 2; i++ {
		// Reused rasterizer must not carry generator state between calls.
		err = r.Render(img3, faces)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(img1.Pix, img3.Pix) {
			t.Error("reused rasterizer rendered a different image on call", i)
		}
	}
}

func TestRenderCubeColors(t *testing.T) {
	m, polys := cubeScene()
	img, err := RenderImage(m, polys, 100, 100, Config{})
	if err != nil {
		t.Fatal(err)
	}
	// Parallel view sees faces -X, +Y and +Z, painted in that order.
	// Only +Z projects to a non degenerate square and is painted last.
	rng := rand.New(rand.NewSource(DefaultSeed))
	var want color.Color
	for i := 0; i < 3; i++ {
		want = RandomPalette(rng, gcull.VisibleFace{})
	}
	if got := img.RGBAAt(50, 50); got != want.(color.RGBA) {
		t.Errorf("face interior = %v, want %v", got, want)
	}
	black := color.RGBA{A: 255}
	for _, p := range []image.Point{{30, 50}, {70, 50}, {50, 30}, {50, 70}} {
		if got := img.RGBAAt(p.X, p.Y); got != black {
			t.Errorf("outline pixel %v = %v, want black", p, got)
		}
	}
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	for _, p := range []image.Point{{5, 5}, {95, 95}, {20, 50}} {
		if got := img.RGBAAt(p.X, p.Y); got != white {
			t.Errorf("pixel %v outside shape = %v, want background", p, got)
		}
	}
}

func TestRenderCustomConfig(t *testing.T) {
	m, polys := cubeScene()
	red := color.RGBA{R: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}
	calls := 0
	img, err := RenderImage(m, polys, 100, 100, Config{
		Background: color.Black,
		Outline:    blue,
		Palette: func(rng *rand.Rand, f gcull.VisibleFace) color.Color {
			calls++
			return red
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if calls != 3 {
		t.Errorf("palette called %d times, want 3", calls)
	}
	if got := img.RGBAAt(50, 50); got != red {
		t.Error("want red face, got", got)
	}
	if got := img.RGBAAt(30, 50); got != blue {
		t.Error("want blue outline, got", got)
	}
	if got := img.RGBAAt(0, 0); got != (color.RGBA{A: 255}) {
		t.Error("want black background, got", got)
	}
}

func TestRenderErrors(t *testing.T) {
	_, err := RenderImage(gcull.IdentityMat4(), nil, 0, 10, Config{})
	if err == nil {
		t.Error("expected error for zero width")
	}
	bad := []gcull.Polyhedron{{
		Vertices: []md3.Vec{{}, {X: 1}, {Y: 1}},
		Faces:    []gcull.Face{{0, 1, 3}},
	}}
	img, err := RenderImage(gcull.IdentityMat4(), bad, 10, 10, Config{})
	if !errors.Is(err, gcull.ErrInvalidGeometry) {
		t.Error("expected invalid geometry error, got", err)
	}
	if img != nil {
		t.Error("partial image returned on error")
	}
}

func TestProject(t *testing.T) {
	tests := []struct {
		v    md3.Vec
		want image.Point
	}{
		{md3.Vec{X: 1.9, Y: 2.1, Z: 100}, image.Point{X: 1, Y: 2}},
		{md3.Vec{X: -1.9, Y: -0.5, Z: -3}, image.Point{X: -1, Y: 0}},
		{md3.Vec{}, image.Point{}},
	}
	for _, tc := range tests {
		if got := Project(tc.v); got != tc.want {
			t.Errorf("Project(%v) = %v, want %v", tc.v, got, tc.want)
		}
	}
}

func TestRenderHugeFace(t *testing.T) {
	var bld gcull.Builder
	cube := bld.NewCube(2)
	red := color.RGBA{R: 255, A: 255}
	solid := func(*rand.Rand, gcull.VisibleFace) color.Color { return red }
	for _, scale := range []float64{1e4, 1e7, 1e9} {
		m := gcull.ScalingMat4(md3.Vec{X: scale, Y: scale, Z: scale}).Mul(gcull.TranslationMat4(md3.Vec{X: 50, Y: 50}))
		img, err := RenderImage(m, []gcull.Polyhedron{cube}, 100, 100, Config{Palette: solid})
		if err != nil {
			t.Fatal(err)
		}
		for _, p := range []image.Point{{0, 0}, {50, 50}, {99, 99}, {0, 99}} {
			if got := img.RGBAAt(p.X, p.Y); got != red {
				t.Errorf("scale %g: pixel %v = %v, want face color", scale, p, got)
			}
		}
	}
}

func TestClipEdge(t *testing.T) {
	square := []point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	got := clipEdge(nil, square, func(p point) float64 { return 5 - p.x })
	want := []point{{0, 0}, {5, 0}, {5, 10}, {0, 10}}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("vertex %d = %v, want %v", i, got[i], want[i])
		}
	}
	// Fully inside polygons are unchanged.
	got = clipEdge(nil, square, func(p point) float64 { return 100 - p.x })
	for i := range square {
		if got[i] != square[i] {
			t.Errorf("inside vertex %d = %v, want %v", i, got[i], square[i])
		}
	}
}

func TestZeroSeedIsDefault(t *testing.T) {
	m, polys := cubeScene()
	img0, err := RenderImage(m, polys, 100, 100, Config{})
	if err != nil {
		t.Fatal(err)
	}
	img42, err := RenderImage(m, polys, 100, 100, Config{Seed: DefaultSeed})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(img0.Pix, img42.Pix) {
		t.Error("zero seed should render with DefaultSeed")
	}
	img7, err := RenderImage(m, polys, 100, 100, Config{Seed: 7})
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(img0.Pix, img7.Pix) {
		t.Error("different seeds rendered identical colors")
	}
}
