// Package cullrender rasterizes faces produced by [gcull.Cull] as flat
// colored, outlined polygons.
package cullrender

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"math/rand"

	"github.com/chewxy/math32"
	"github.com/soypat/gcull"
	"github.com/soypat/geometry/md3"
	"golang.org/x/image/vector"
)

// DefaultSeed is the color generator seed used when [Config.Seed] is zero.
const DefaultSeed = 42

// Palette picks the fill color of a face. rng is owned by a single render
// call and is seeded identically on every call so colors are reproducible.
type Palette func(rng *rand.Rand, face gcull.VisibleFace) color.Color

// RandomPalette draws each of R, G and B uniformly from [100, 255].
func RandomPalette(rng *rand.Rand, face gcull.VisibleFace) color.Color {
	return color.RGBA{
		R: uint8(100 + rng.Intn(156)),
		G: uint8(100 + rng.Intn(156)),
		B: uint8(100 + rng.Intn(156)),
		A: 255,
	}
}

// Config configures a [Rasterizer]. The zero value is ready to use and results in
// a white background, black outlines, [RandomPalette] and [DefaultSeed].
type Config struct {
	Background color.Color
	Outline    color.Color
	Palette    Palette
	// Seed seeds the palette's generator. Zero selects DefaultSeed, so 0 and 42
	// render identical colors.
	Seed int64
	// ViewSpace classifies faces after transformation. See [gcull.WithViewSpace].
	ViewSpace bool
}

// Rasterizer paints visible faces into images. It may be reused sequentially
// but is not safe for concurrent use.
type Rasterizer struct {
	bg      *image.Uniform
	outline *image.Uniform
	palette Palette
	seed    int64
	cullOpt []gcull.CullOption
	z       vector.Rasterizer
	pts     []image.Point
	clip    [2][]point
}

// NewRasterizer instances a new [Rasterizer] with cfg. Unset fields take their defaults.
func NewRasterizer(cfg Config) *Rasterizer {
	if cfg.Background == nil {
		cfg.Background = color.White
	}
	if cfg.Outline == nil {
		cfg.Outline = color.Black
	}
	if cfg.Palette == nil {
		cfg.Palette = RandomPalette
	}
	if cfg.Seed == 0 {
		cfg.Seed = DefaultSeed
	}
	r := &Rasterizer{
		bg:      image.NewUniform(cfg.Background),
		outline: image.NewUniform(cfg.Outline),
		palette: cfg.Palette,
		seed:    cfg.Seed,
	}
	if cfg.ViewSpace {
		r.cullOpt = append(r.cullOpt, gcull.WithViewSpace())
	}
	return r
}

// RenderImage culls polys with transform m and renders the visible faces into a new
// width x height image. No image is returned on error.
func RenderImage(m gcull.Mat4, polys []gcull.Polyhedron, width, height int, cfg Config) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.New("image dimensions must be positive")
	}
	r := NewRasterizer(cfg)
	faces, err := r.Cull(m, polys)
	if err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	err = r.Render(img, faces)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// Cull calls [gcull.Cull] with the culling options of the rasterizer's configuration.
func (r *Rasterizer) Cull(m gcull.Mat4, polys []gcull.Polyhedron) ([]gcull.VisibleFace, error) {
	return gcull.Cull(m, polys, r.cullOpt...)
}

// Render fills dst with the background color and paints faces in order.
// Later faces overpaint earlier ones where they overlap.
func (r *Rasterizer) Render(dst draw.Image, faces []gcull.VisibleFace) error {
	bb := dst.Bounds()
	if bb.Empty() {
		return errors.New("empty destination image")
	}
	draw.Draw(dst, bb, r.bg, image.Point{}, draw.Src)
	rng := rand.New(rand.NewSource(r.seed))
	for i := range faces {
		r.pts = r.pts[:0]
		for _, v := range faces[i].Points {
			r.pts = append(r.pts, Project(v))
		}
		c := r.palette(rng, faces[i])
		r.fillPolygon(dst, r.pts, image.NewUniform(c))
		r.strokePolygon(dst, r.pts, r.outline)
	}
	return nil
}

// Project maps a transformed vertex to the pixel grid by dropping Z
// and truncating X and Y toward zero.
func Project(v md3.Vec) image.Point {
	return image.Point{X: int(v.X), Y: int(v.Y)}
}

// fillPolygon fills the polygon through the centers of pts.
func (r *Rasterizer) fillPolygon(dst draw.Image, pts []image.Point, src image.Image) {
	if len(pts) < 3 {
		return
	}
	bb := dst.Bounds()
	poly := r.clipped(pts, bb)
	if len(poly) < 3 {
		return
	}
	r.z.Reset(bb.Dx(), bb.Dy())
	r.z.MoveTo(poly[0].f32())
	for _, p := range poly[1:] {
		r.z.LineTo(p.f32())
	}
	r.z.ClosePath()
	r.z.Draw(dst, bb, src, image.Point{})
}

// strokePolygon draws each edge of the closed polygon pts as a one pixel wide
// quad, extended half a pixel past its ends so corners are covered.
func (r *Rasterizer) strokePolygon(dst draw.Image, pts []image.Point, src image.Image) {
	const halfWidth = 0.5
	if len(pts) < 2 {
		return
	}
	bb := dst.Bounds()
	poly := r.clipped(pts, bb)
	if len(poly) < 2 {
		return
	}
	r.z.Reset(bb.Dx(), bb.Dy())
	for i := range poly {
		ax, ay := poly[i].f32()
		bx, by := poly[(i+1)%len(poly)].f32()
		dx, dy := bx-ax, by-ay
		length := math32.Hypot(dx, dy)
		if length == 0 {
			continue
		}
		// Unit direction scaled to half the stroke width and its normal.
		dx, dy = halfWidth*dx/length, halfWidth*dy/length
		nx, ny := -dy, dx
		r.z.MoveTo(ax-dx+nx, ay-dy+ny)
		r.z.LineTo(bx+dx+nx, by+dy+ny)
		r.z.LineTo(bx+dx-nx, by+dy-ny)
		r.z.LineTo(ax-dx-nx, ay-dy-ny)
		r.z.ClosePath()
	}
	r.z.Draw(dst, bb, src, image.Point{})
}

// clipMargin is how far outside the image polygons are clipped, in pixels.
// Edges created by clipping and their outlines stay off the canvas.
const clipMargin = 2

// point is a position in rasterizer coordinates.
type point struct{ x, y float64 }

func (p point) f32() (x, y float32) { return float32(p.x), float32(p.y) }

// clipped returns the pixel centers of pts in rasterizer coordinates, clipped to the
// image bounds grown by clipMargin. Keeping coordinates small avoids overflowing the
// fixed point accumulation x/image/vector uses for small images.
func (r *Rasterizer) clipped(pts []image.Point, bb image.Rectangle) []point {
	poly := r.clip[0][:0]
	for _, p := range pts {
		poly = append(poly, point{
			x: float64(p.X-bb.Min.X) + 0.5,
			y: float64(p.Y-bb.Min.Y) + 0.5,
		})
	}
	out := r.clip[1][:0]
	lo, hi := -float64(clipMargin), point{x: float64(bb.Dx() + clipMargin), y: float64(bb.Dy() + clipMargin)}
	edges := [4]func(point) float64{
		func(p point) float64 { return p.x - lo },
		func(p point) float64 { return hi.x - p.x },
		func(p point) float64 { return p.y - lo },
		func(p point) float64 { return hi.y - p.y },
	}
	for _, inside := range edges {
		out = clipEdge(out[:0], poly, inside)
		poly, out = out, poly
		if len(poly) == 0 {
			break
		}
	}
	r.clip[0], r.clip[1] = poly, out
	return poly
}

// clipEdge appends to dst the polygon src clipped to the half plane where dist >= 0.
func clipEdge(dst, src []point, dist func(point) float64) []point {
	if len(src) == 0 {
		return dst
	}
	prev := src[len(src)-1]
	dprev := dist(prev)
	for _, p := range src {
		d := dist(p)
		if (d >= 0) != (dprev >= 0) {
			t := dprev / (dprev - d)
			dst = append(dst, point{x: prev.x + t*(p.x-prev.x), y: prev.y + t*(p.y-prev.y)})
		}
		if d >= 0 {
			dst = append(dst, p)
		}
		prev, dprev = p, d
	}
	return dst
}
