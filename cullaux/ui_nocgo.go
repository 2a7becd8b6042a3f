//go:build tinygo || !cgo

package cullaux

import (
	"errors"

	"github.com/soypat/gcull"
)

func ui(m gcull.Mat4, polys []gcull.Polyhedron, cfg UIConfig) error {
	return errors.New("require cgo for UI rendering")
}
