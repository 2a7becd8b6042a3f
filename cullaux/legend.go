package cullaux

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

// Legend draws lines of text in the top left corner of an image,
// used to list the shapes of a scene.
type Legend struct {
	face   font.Face
	color  *image.Uniform
	margin int
}

// NewLegend parses a TrueType font and returns a Legend of the given point size.
// A nil ttf uses the Go Regular font.
func NewLegend(ttf []byte, size float64, c color.Color) (*Legend, error) {
	if ttf == nil {
		ttf = goregular.TTF
	}
	f, err := truetype.Parse(ttf)
	if err != nil {
		return nil, err
	}
	if c == nil {
		c = color.Black
	}
	return &Legend{
		face:   truetype.NewFace(f, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull}),
		color:  image.NewUniform(c),
		margin: int(size/2) + 1,
	}, nil
}

// Draw writes lines to dst one below the other.
func (l *Legend) Draw(dst draw.Image, lines []string) {
	metrics := l.face.Metrics()
	lineHeight := metrics.Height.Ceil()
	bb := dst.Bounds()
	d := font.Drawer{Dst: dst, Src: l.color, Face: l.face}
	y := bb.Min.Y + l.margin + metrics.Ascent.Ceil()
	for _, line := range lines {
		d.Dot = fixed.P(bb.Min.X+l.margin, y)
		d.DrawString(line)
		y += lineHeight
	}
}

// Width returns the width in pixels of the widest line.
func (l *Legend) Width(lines []string) int {
	var w fixed.Int26_6
	for _, line := range lines {
		w = max(w, font.MeasureString(l.face, line))
	}
	return w.Ceil() + 2*l.margin
}
