// Package cullaux provides convenience functions for rendering culled
// polyhedra to PNG files and viewing them interactively.
package cullaux

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/soypat/gcull"
	"github.com/soypat/gcull/cullrender"
	"github.com/soypat/gcull/scene"
)

type RenderConfig struct {
	Width  int
	Height int
	Raster cullrender.Config
	// Legend lists polyhedron names in the top left corner of the image.
	Legend bool
	// Logger receives stage timings. Nil logs nothing.
	Logger *log.Logger
}

// Render is an auxiliary function to aid users in getting setup in using gcull quickly.
// It culls polys, rasterizes the visible faces and optionally draws the legend.
func Render(m gcull.Mat4, polys []gcull.Polyhedron, cfg RenderConfig) (*image.RGBA, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", cfg.Width, cfg.Height)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	r := cullrender.NewRasterizer(cfg.Raster)
	watch := stopwatch()
	faces, err := r.Cull(m, polys)
	if err != nil {
		return nil, err
	}
	logger.Debug("culled", "polyhedra", len(polys), "visible", len(faces), "parallel", m.IsParallel(), "took", watch())

	watch = stopwatch()
	img := image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height))
	err = r.Render(img, faces)
	if err != nil {
		return nil, err
	}
	logger.Debug("rasterized", "faces", len(faces), "width", cfg.Width, "height", cfg.Height, "took", watch())

	if cfg.Legend && len(polys) > 0 {
		legend, err := NewLegend(nil, 14, nil)
		if err != nil {
			return nil, fmt.Errorf("loading legend font: %w", err)
		}
		legend.Draw(img, legendLines(polys))
	}
	return img, nil
}

// RenderPNG renders as [Render] does and encodes the result as PNG to w.
func RenderPNG(w io.Writer, m gcull.Mat4, polys []gcull.Polyhedron, cfg RenderConfig) error {
	if w == nil {
		return errors.New("RenderPNG requires an output writer")
	}
	img, err := Render(m, polys, cfg)
	if err != nil {
		return err
	}
	return writePNG(w, img, cfg.Logger)
}

// RenderPNGFile renders polys and saves result to a PNG file with said filename.
// The file is only created once rendering succeeds.
func RenderPNGFile(filename string, m gcull.Mat4, polys []gcull.Polyhedron, cfg RenderConfig) error {
	img, err := Render(m, polys, cfg)
	if err != nil {
		return err
	}
	fp, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer fp.Close()
	err = writePNG(fp, img, cfg.Logger)
	if err != nil {
		return err
	}
	return fp.Sync()
}

func writePNG(w io.Writer, img image.Image, logger *log.Logger) error {
	watch := stopwatch()
	err := png.Encode(w, img)
	if err != nil {
		return err
	}
	if logger != nil {
		filename := "PNG"
		if fp, ok := w.(*os.File); ok {
			filename = fp.Name()
		}
		logger.Info("wrote "+filename, "took", watch())
	}
	return nil
}

// SceneConfig returns the transform, polyhedra and render configuration described by s.
func SceneConfig(s *scene.Scene) (gcull.Mat4, []gcull.Polyhedron, RenderConfig, error) {
	var cfg RenderConfig
	m, err := s.Matrix()
	if err != nil {
		return m, nil, cfg, err
	}
	polys, err := s.Polyhedra()
	if err != nil {
		return m, nil, cfg, err
	}
	palette, err := PaletteByName(s.Palette)
	if err != nil {
		return m, nil, cfg, err
	}
	cfg = RenderConfig{
		Width:  s.Width,
		Height: s.Height,
		Legend: s.Legend,
		Raster: cullrender.Config{
			Seed:      s.Seed,
			Palette:   palette,
			ViewSpace: s.ViewSpace,
		},
	}
	return m, polys, cfg, nil
}

func legendLines(polys []gcull.Polyhedron) []string {
	lines := make([]string, len(polys))
	for i := range polys {
		name := polys[i].Name
		if name == "" {
			name = "unnamed"
		}
		lines[i] = fmt.Sprintf("%d. %s (%d faces)", i+1, name, len(polys[i].Faces))
	}
	return lines
}

func stopwatch() func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		return time.Since(start)
	}
}
