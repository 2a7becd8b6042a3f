// Package cli implements the gcull command-line interface.
//
// # Commands
//
//   - render: cull and rasterize a TOML scene into a PNG file
//   - view: open an interactive window for a scene (requires cgo)
//   - shapes: list shape kinds and print an example scene
//
// All commands support --verbose (-v) for debug-level logging through charmbracelet/log.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

const appName = "gcull"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

var version = "dev"

// SetVersion sets the version reported by --version.
func SetVersion(v string) {
	version = v
}

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "gcull renders convex polyhedra with backface culling",
		Long:         `gcull culls the faces of convex polyhedra that point away from the viewer and rasterizes the rest as flat colored, outlined polygons.`,
		Version:      version,
		SilenceUsage: true,
	}
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.shapesCommand())
	return root
}
