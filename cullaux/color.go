package cullaux

import (
	"fmt"
	"image/color"
	"math/rand"

	math "github.com/chewxy/math32"
	"github.com/soypat/gcull"
	"github.com/soypat/gcull/cullrender"
	"github.com/soypat/glgl/math/ms1"
	"github.com/soypat/glgl/math/ms3"
)

// HSV color manipulation logic taken from Esme Lamb's (@dedelala)
// excellent color work presented at Gophercon AU 2024.
// https://github.com/dedelala/disco/tree/main/color

// Palette names accepted by [PaletteByName].
const (
	PaletteRandom = "random"
	PaletteHSV    = "hsv"
	PaletteIQ     = "iq"
)

// PaletteByName returns the face palette registered under name. An empty name selects [PaletteRandom].
func PaletteByName(name string) (cullrender.Palette, error) {
	switch name {
	case "", PaletteRandom:
		return cullrender.RandomPalette, nil
	case PaletteHSV:
		return HSVPalette(0.55, 0.95), nil
	case PaletteIQ:
		return IQPalette(), nil
	}
	return nil, fmt.Errorf("unknown palette %q", name)
}

// HSVPalette returns a palette with random hue and fixed saturation and value in 0..1.
// Colors are more saturated than [cullrender.RandomPalette] while staying light enough for black outlines.
func HSVPalette(saturation, value float32) cullrender.Palette {
	s := ms1.Clamp(saturation, 0, 1)
	v := ms1.Clamp(value, 0, 1)
	return func(rng *rand.Rand, _ gcull.VisibleFace) color.Color {
		c := rgbToC(hsvToRGB(rng.Float32(), s, v))
		return color.RGBA{R: uint8(c >> 16), G: uint8(c >> 8), B: uint8(c), A: 255}
	}
}

// IQPalette interpolates randomly between the warm and cool tones of [Inigo Quilez]'s
// distance field visualizations.
//
// [Inigo Quilez]: https://iquilezles.org/articles/distfunctions2d/
func IQPalette() cullrender.Palette {
	warm := ms3.Vec{X: 0.9, Y: 0.6, Z: 0.3}
	cool := ms3.Vec{X: 0.65, Y: 0.85, Z: 1.0}
	return func(rng *rand.Rand, _ gcull.VisibleFace) color.Color {
		t := rng.Float32()
		c := ms3.InterpElem(warm, cool, ms3.Vec{X: t, Y: t, Z: t})
		return color.RGBA{
			R: uint8(ms1.Clamp(c.X, 0, 1) * math.MaxUint8),
			G: uint8(ms1.Clamp(c.Y, 0, 1) * math.MaxUint8),
			B: uint8(ms1.Clamp(c.Z, 0, 1) * math.MaxUint8),
			A: 255,
		}
	}
}

// GradientPalette returns a palette that picks colors between c0 and c1 interpolated in HSV space.
func GradientPalette(c0, c1 color.Color) cullrender.Palette {
	h0, s0, v0 := colorToHSV(c0)
	h1, s1, v1 := colorToHSV(c1)
	return func(rng *rand.Rand, _ gcull.VisibleFace) color.Color {
		h, s, v := interpHSV(h0, s0, v0, h1, s1, v1, rng.Float32())
		c := rgbToC(hsvToRGB(h, s, v))
		return color.RGBA{R: uint8(c >> 16), G: uint8(c >> 8), B: uint8(c), A: 255}
	}
}

func interpHSV(h0, s0, v0, h1, s1, v1, t float32) (h, s, v float32) {
	switch {
	case h1-h0 > 0.5:
		h0 += 1.0
	case h1-h0 < -0.5:
		h1 += 1.0
	}
	h = ms1.Interp(h0, h1, t)
	if h > 1 {
		h -= 1
	}
	s = ms1.Interp(s0, s1, t)
	v = ms1.Interp(v0, v1, t)
	return h, s, v
}

func colorToHSV(c color.Color) (h, s, v float32) {
	r0, g0, b0, _ := c.RGBA()
	return rgbToHSV(float32(r0>>8)/math.MaxUint8, float32(g0>>8)/math.MaxUint8, float32(b0>>8)/math.MaxUint8)
}

// rgbToC converts r, g, and b values on the range of 0.0 to 1.0 to a
// 24 bit RGB value stored in the least significant bits of a uint32. The inputs
// are clamped to the range of 0.0 to 1.0
func rgbToC(r, g, b float32) (c uint32) {
	return uint32(ms1.Clamp(r, 0, 1)*math.MaxUint8)<<16 |
		uint32(ms1.Clamp(g, 0, 1)*math.MaxUint8)<<8 |
		uint32(ms1.Clamp(b, 0, 1)*math.MaxUint8)
}

// hsvToRGB converts hue, saturation and brightness values on the range of 0.0
// to 1.0 to RGB floating point values on the range of 0.0 to 1.0
func hsvToRGB(h, s, v float32) (r, g, b float32) {
	var (
		c = s * v
		x = c * (1 - math.Abs(math.Mod(h*6, 2)-1))
		m = v - c
	)

	switch {
	case h >= 0 && h <= 1.0/6:
		r, g, b = c, x, 0
	case h > 1.0/6 && h <= 2.0/6:
		r, g, b = x, c, 0
	case h > 2.0/6 && h <= 3.0/6:
		r, g, b = 0, c, x
	case h > 3.0/6 && h <= 4.0/6:
		r, g, b = 0, x, c
	case h > 4.0/6 && h <= 5.0/6:
		r, g, b = x, 0, c
	case h > 5.0/6 && h <= 1.0:
		r, g, b = c, 0, x
	}

	r, g, b = r+m, g+m, b+m
	return r, g, b
}

// rgbToHSV converts red, green, and blue floating point values on the range
// 0.0 to 1.0 to hue, saturation and brightness values on the range 0.0 to 1.0
func rgbToHSV(r, g, b float32) (h, s, v float32) {
	var (
		xmax = max(r, g, b)
		xmin = min(r, g, b)
		c    = xmax - xmin
	)
	v = xmax
	switch {
	case c == 0:
		h = 0
	case v == r:
		h = (g - b) / (c * 6)
	case v == g:
		h = 1.0/3 + (b-r)/(c*6)
	case v == b:
		h = 2.0/3 + (r-g)/(c*6)
	}
	if h < 0 {
		h += 1
	}
	if xmax > 0 {
		s = c / xmax
	}
	return
}
