//go:build !tinygo && cgo

package cullaux

import (
	"context"
	"errors"
	"fmt"
	"image"
	"runtime"
	"time"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/soypat/gcull"
	"github.com/soypat/glgl/v4.6-core/glgl"
)

const vertexSource = `#version 460
in vec2 aPos;
out vec2 vTexCoord;
void main() {
	// Image rows grow downward.
	vTexCoord = vec2(aPos.x * 0.5 + 0.5, 0.5 - aPos.y * 0.5);
	gl_Position = vec4(aPos, 0.0, 1.0);
}
` + "\x00"

const fragmentSource = `#version 460
in vec2 vTexCoord;
out vec4 fragColor;
uniform sampler2D uTex;
void main() {
	fragColor = texture(uTex, vTexCoord);
}
` + "\x00"

func ui(m gcull.Mat4, polys []gcull.Polyhedron, cfg UIConfig) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	width, height := cfg.Render.Width, cfg.Render.Height
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid window size %dx%d", width, height)
	}
	window, term, err := startGLFW(width, height)
	if err != nil {
		return err
	}
	defer term()

	prog, err := glgl.CompileProgram(glgl.ShaderSource{
		Vertex:   vertexSource,
		Fragment: fragmentSource,
	})
	if err != nil {
		return err
	}
	prog.Bind()
	// Define a quad covering the screen
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)

	var vbo uint32
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	vertices := []float32{
		-1.0, -1.0,
		1.0, -1.0,
		-1.0, 1.0,
		-1.0, 1.0,
		1.0, -1.0,
		1.0, 1.0,
	}
	gl.BufferData(gl.ARRAY_BUFFER, 4*len(vertices), gl.Ptr(vertices), gl.STATIC_DRAW)
	posAttrib, err := prog.AttribLocation("aPos\x00")
	if err != nil {
		return err
	}
	gl.EnableVertexAttribArray(posAttrib)
	gl.VertexAttribPointer(posAttrib, 2, gl.FLOAT, false, 0, gl.PtrOffset(0))
	texUniform, err := prog.UniformLocation("uTex\x00")
	if err != nil {
		return err
	}

	var tex uint32
	gl.GenTextures(1, &tex)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.Uniform1i(texUniform, 0)

	var (
		o       = orbit{center: sceneCenter(polys)}
		refresh = true
		rcfg    = cfg.Render
	)
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action == glfw.Release {
			return
		}
		refresh = true
		switch key {
		case glfw.KeyLeft:
			o.yaw -= cfg.RotateStep
		case glfw.KeyRight:
			o.yaw += cfg.RotateStep
		case glfw.KeyUp:
			o.pitch -= cfg.RotateStep
		case glfw.KeyDown:
			o.pitch += cfg.RotateStep
		case glfw.KeyR:
			o.yaw, o.pitch = 0, 0
		case glfw.KeyV:
			rcfg.Raster.ViewSpace = !rcfg.Raster.ViewSpace
		case glfw.KeyEscape:
			w.SetShouldClose(true)
		default:
			refresh = false
		}
	})

	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}
	for !window.ShouldClose() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if refresh {
			refresh = false
			img, err := Render(o.matrix(m), polys, rcfg)
			if err != nil {
				return err
			}
			uploadTexture(img)
		}
		gl.ClearColor(1.0, 1.0, 1.0, 1.0)
		gl.Clear(gl.COLOR_BUFFER_BIT)
		prog.Bind()
		gl.BindVertexArray(vao)
		gl.DrawArrays(gl.TRIANGLES, 0, 6)
		window.SwapBuffers()
		err := waitEvents(ctx, time.Second/60, func() bool {
			glfw.PollEvents()
			return refresh || window.ShouldClose()
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func uploadTexture(img *image.RGBA) {
	sz := img.Bounds().Size()
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(sz.X), int32(sz.Y), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
}

func startGLFW(width, height int) (window *glfw.Window, term func(), err error) {
	if err := glfw.Init(); err != nil {
		return nil, nil, fmt.Errorf("initializing GLFW: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 6)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.Resizable, glfw.False)

	window, err = glfw.CreateWindow(width, height, "gcull backface culling viewer", nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, nil, fmt.Errorf("creating GLFW window: %w", err)
	}
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		glfw.Terminate()
		return nil, nil, errors.Join(errors.New("initializing OpenGL"), err)
	}
	return window, glfw.Terminate, nil
}
