package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soypat/gcull/scene"
)

var kindHelp = map[string]string{
	scene.KindTetrahedron:  "regular tetrahedron, size is the circumradius",
	scene.KindCube:         "axis aligned cube, size is the side length",
	scene.KindOctahedron:   "regular octahedron, size is the circumradius",
	scene.KindIcosahedron:  "regular icosahedron, size is the circumradius",
	scene.KindDodecahedron: "regular dodecahedron, size is the circumradius",
	scene.KindPrism:        "right prism with regular base of sides, size radius and height",
	scene.KindPyramid:      "right pyramid with regular base of sides, size radius and height",
	scene.KindMesh:         "explicit vertices and faces",
	scene.KindSTL:          "binary STL file at path, size scales vertices",
}

// shapesCommand lists shape kinds or prints an example scene.
func (c *CLI) shapesCommand() *cobra.Command {
	var example bool
	cmd := &cobra.Command{
		Use:   "shapes",
		Short: "List shape kinds usable in scene files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if example {
				return scene.Example().Encode(w)
			}
			for _, kind := range scene.Kinds {
				fmt.Fprintf(w, "%-14s %s\n", kind, kindHelp[kind])
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&example, "example", false, "print an example scene file")
	return cmd
}
