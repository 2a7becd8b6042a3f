package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/soypat/gcull/cullaux"
	"github.com/soypat/gcull/scene"
)

// sceneOpts holds flags that override scene file settings.
type sceneOpts struct {
	seed      int64  // color seed, applied when seedSet
	seedSet   bool   // --seed given on the command line
	palette   string // palette name; empty keeps the scene value
	legend    bool   // draw shape legend
	viewSpace bool   // classify faces after transformation
	width     int    // image width; zero keeps the scene value
	height    int    // image height; zero keeps the scene value
}

func (o *sceneOpts) register(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&o.seed, "seed", 0, "face color seed, 0 selects 42 (default from scene)")
	cmd.Flags().StringVar(&o.palette, "palette", "", "face palette: "+strings.Join([]string{cullaux.PaletteRandom, cullaux.PaletteHSV, cullaux.PaletteIQ}, "|"))
	cmd.Flags().BoolVar(&o.legend, "legend", false, "list shape names in the image corner")
	cmd.Flags().BoolVar(&o.viewSpace, "view-space", false, "cull using transformed vertices")
	cmd.Flags().IntVar(&o.width, "width", 0, "image width in pixels")
	cmd.Flags().IntVar(&o.height, "height", 0, "image height in pixels")
}

func (o *sceneOpts) apply(s *scene.Scene) {
	if o.seedSet {
		s.Seed = o.seed
	}
	if o.palette != "" {
		s.Palette = o.palette
	}
	if o.width > 0 {
		s.Width = o.width
	}
	if o.height > 0 {
		s.Height = o.height
	}
	s.Legend = s.Legend || o.legend
	s.ViewSpace = s.ViewSpace || o.viewSpace
}

func (c *CLI) loadScene(cmd *cobra.Command, path string, opts *sceneOpts) (*scene.Scene, error) {
	opts.seedSet = cmd.Flags().Changed("seed")
	prog := newProgress(c.Logger)
	s, err := scene.Load(path)
	if err != nil {
		return nil, err
	}
	opts.apply(s)
	prog.done("Loaded scene", "file", path, "shapes", len(s.Shapes))
	return s, nil
}

// renderCommand creates the render command writing a scene to PNG.
func (c *CLI) renderCommand() *cobra.Command {
	var opts sceneOpts
	var output string
	cmd := &cobra.Command{
		Use:   "render [scene.toml]",
		Short: "Render a scene to a PNG image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.loadScene(cmd, args[0], &opts)
			if err != nil {
				return err
			}
			m, polys, cfg, err := cullaux.SceneConfig(s)
			if err != nil {
				return fmt.Errorf("scene %s: %w", args[0], err)
			}
			cfg.Logger = c.Logger
			if output == "" {
				output = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".png"
			}
			prog := newProgress(c.Logger)
			err = cullaux.RenderPNGFile(output, m, polys, cfg)
			if err != nil {
				return err
			}
			prog.done("Rendered", "output", output, "width", cfg.Width, "height", cfg.Height)
			return nil
		},
	}
	opts.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output PNG file (default scene name with .png)")
	return cmd
}

// viewCommand creates the view command opening the interactive viewer.
func (c *CLI) viewCommand() *cobra.Command {
	var opts sceneOpts
	cmd := &cobra.Command{
		Use:   "view [scene.toml]",
		Short: "Open a window to rotate and inspect a scene",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.loadScene(cmd, args[0], &opts)
			if err != nil {
				return err
			}
			m, polys, cfg, err := cullaux.SceneConfig(s)
			if err != nil {
				return fmt.Errorf("scene %s: %w", args[0], err)
			}
			cfg.Logger = c.Logger
			c.Logger.Info("Opening viewer", "keys", "arrows rotate, V view space, R reset, Esc quit")
			return cullaux.UI(m, polys, cullaux.UIConfig{
				Render:  cfg,
				Context: cmd.Context(),
			})
		},
	}
	opts.register(cmd)
	return cmd
}
