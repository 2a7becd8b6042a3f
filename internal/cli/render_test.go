package cli

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/soypat/gcull/scene"
)

const cubeScene = `
width = 64
height = 48

[transform]
scale = [10, 10, 10]
rotate = [20, 30, 0]
translate = [32, 24, 0]

[[shape]]
name = "box"
kind = "cube"
size = 2
`

func execute(t *testing.T, args ...string) (stdout, logs string, err error) {
	t.Helper()
	var logBuf, outBuf bytes.Buffer
	c := New(&logBuf, LogInfo)
	root := c.RootCommand()
	root.SetOut(&outBuf)
	root.SetErr(&logBuf)
	root.SetArgs(args)
	err = root.Execute()
	return outBuf.String(), logBuf.String(), err
}

func writeScene(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRenderCommand(t *testing.T) {
	path := writeScene(t, cubeScene)
	output := filepath.Join(filepath.Dir(path), "out.png")
	_, logs, err := execute(t, "render", path, "-o", output, "--width", "80", "--seed", "7")
	if err != nil {
		t.Fatalf("render: %v\nlogs:\n%s", err, logs)
	}
	fp, err := os.Open(output)
	if err != nil {
		t.Fatal(err)
	}
	defer fp.Close()
	img, err := png.Decode(fp)
	if err != nil {
		t.Fatal(err)
	}
	if got := img.Bounds().Size(); got.X != 80 || got.Y != 48 {
		t.Errorf("image size %v, want 80x48", got)
	}
	if !strings.Contains(logs, "Rendered") {
		t.Errorf("missing render log in %q", logs)
	}
}

func TestRenderDefaultOutput(t *testing.T) {
	path := writeScene(t, cubeScene)
	_, _, err := execute(t, "render", path)
	if err != nil {
		t.Fatal(err)
	}
	want := strings.TrimSuffix(path, ".toml") + ".png"
	if _, err := os.Stat(want); err != nil {
		t.Errorf("default output not written: %v", err)
	}
}

func TestRenderErrors(t *testing.T) {
	tests := []struct {
		name  string
		scene string
		args  []string
	}{
		{name: "missing file", args: []string{"render", filepath.Join(t.TempDir(), "nope.toml")}},
		{name: "unknown kind", scene: "[[shape]]\nkind = \"blob\"\n"},
		{name: "bad palette", scene: cubeScene, args: []string{"--palette", "plaid"}},
		{name: "no args", args: []string{"render"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := tt.args
			if tt.scene != "" {
				path := writeScene(t, tt.scene)
				args = append([]string{"render", path, "-o", filepath.Join(t.TempDir(), "x.png")}, args...)
			}
			if _, _, err := execute(t, args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestShapesCommand(t *testing.T) {
	out, _, err := execute(t, "shapes")
	if err != nil {
		t.Fatal(err)
	}
	for _, kind := range scene.Kinds {
		if !strings.Contains(out, kind) {
			t.Errorf("shapes output missing %q", kind)
		}
	}

	out, _, err = execute(t, "shapes", "--example")
	if err != nil {
		t.Fatal(err)
	}
	s, err := scene.Decode(strings.NewReader(out))
	if err != nil {
		t.Fatalf("example does not decode: %v\n%s", err, out)
	}
	if len(s.Shapes) == 0 {
		t.Error("example scene has no shapes")
	}
}

func TestSceneOptsApply(t *testing.T) {
	s := &scene.Scene{Width: 10, Height: 10, Seed: 1, Palette: "random"}
	opts := sceneOpts{seed: 9, seedSet: true, palette: "hsv", legend: true, height: 20}
	opts.apply(s)
	if s.Seed != 9 || s.Palette != "hsv" || !s.Legend || s.Width != 10 || s.Height != 20 || s.ViewSpace {
		t.Errorf("unexpected scene after apply: %+v", s)
	}
}

func TestSeedFlagOverridesScene(t *testing.T) {
	s := &scene.Scene{Seed: 7}
	(&sceneOpts{}).apply(s)
	if s.Seed != 7 {
		t.Errorf("unset flag changed seed to %d", s.Seed)
	}
	(&sceneOpts{seedSet: true}).apply(s)
	if s.Seed != 0 {
		t.Errorf("explicit --seed 0 kept scene seed %d", s.Seed)
	}
}
