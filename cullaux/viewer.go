package cullaux

import (
	"context"
	"math"
	"time"

	"github.com/soypat/gcull"
	"github.com/soypat/geometry/md3"
)

type UIConfig struct {
	Render RenderConfig
	// RotateStep is the rotation in radians applied per arrow key press. Zero selects 5 degrees.
	RotateStep float64
	// Context cancels the viewer when done. May be nil.
	Context context.Context
}

// UI opens a window showing the culled and rasterized polyhedra. Arrow keys rotate the
// shapes about their common center before m is applied, V toggles view space culling,
// R resets the rotation and Escape closes the window. Requires cgo.
func UI(m gcull.Mat4, polys []gcull.Polyhedron, cfg UIConfig) error {
	if cfg.RotateStep == 0 {
		cfg.RotateStep = 5 * math.Pi / 180
	}
	return ui(m, polys, cfg)
}

// orbit holds the viewer's interactive model rotation.
type orbit struct {
	yaw, pitch float64
	center     md3.Vec
}

// matrix returns the transform that rotates the model about o.center by pitch
// and yaw and then applies m.
func (o *orbit) matrix(m gcull.Mat4) gcull.Mat4 {
	toOrigin := gcull.TranslationMat4(md3.Scale(-1, o.center))
	back := gcull.TranslationMat4(o.center)
	rot := gcull.RotationXMat4(o.pitch).Mul(gcull.RotationYMat4(o.yaw))
	return toOrigin.Mul(rot).Mul(back).Mul(m)
}

// sceneCenter returns the centroid of all polyhedra centers.
func sceneCenter(polys []gcull.Polyhedron) md3.Vec {
	var c md3.Vec
	if len(polys) == 0 {
		return c
	}
	for i := range polys {
		c = md3.Add(c, polys[i].Center())
	}
	return md3.Scale(1/float64(len(polys)), c)
}

// waitEvents calls poll every period until it returns true or ctx is done,
// in which case the context error is returned.
func waitEvents(ctx context.Context, period time.Duration, poll func() bool) error {
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if poll() {
				return nil
			}
		}
	}
}
