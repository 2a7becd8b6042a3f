package stl

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"runtime"
	"testing"

	"github.com/soypat/gcull"
)

func TestCubeRoundTrip(t *testing.T) {
	var bld gcull.Builder
	cube := bld.NewCube(2)
	var buf bytes.Buffer
	n, err := WriteBinary(&buf, cube)
	if err != nil {
		t.Fatal(err)
	}
	if n != 12 {
		t.Fatalf("expected 12 triangles, wrote %d", n)
	}
	if buf.Len() != headerSize+4+12*recordSize {
		t.Fatalf("unexpected STL size %d", buf.Len())
	}
	got, err := ReadBinary(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "cube" {
		t.Errorf("name %q, want cube", got.Name)
	}
	if len(got.Vertices) != 8 || len(got.Faces) != 12 {
		t.Fatalf("got %d vertices %d faces, want 8 and 12", len(got.Vertices), len(got.Faces))
	}
	faces, err := gcull.Cull(gcull.IdentityMat4(), []gcull.Polyhedron{got})
	if err != nil {
		t.Fatal(err)
	}
	// Three visible cube faces, two triangles each.
	if len(faces) != 6 {
		t.Errorf("expected 6 visible triangles, got %d", len(faces))
	}
}

func TestReadErrors(t *testing.T) {
	var hdr [headerSize]byte
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"short header", hdr[:40]},
		{"no count", hdr[:]},
		{"zero triangles", binary.LittleEndian.AppendUint32(hdr[:], 0)},
		{"truncated", append(binary.LittleEndian.AppendUint32(hdr[:], 2), make([]byte, recordSize+10)...)},
		{"huge count", binary.LittleEndian.AppendUint32(hdr[:], 1<<31)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadBinary(bytes.NewReader(tc.data))
			if err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestWriteInvalid(t *testing.T) {
	var buf bytes.Buffer
	_, err := WriteBinary(&buf, gcull.Polyhedron{})
	if err == nil {
		t.Error("expected error writing polyhedron without faces")
	}
}

func TestReadTruncatedAllocation(t *testing.T) {
	var hdr [headerSize]byte
	data := binary.LittleEndian.AppendUint32(hdr[:], maxTriangles)
	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)
	_, err := ReadBinary(bytes.NewReader(data))
	runtime.ReadMemStats(&after)
	if err == nil {
		t.Fatal("expected error for header without triangles")
	}
	const limit = 1 << 20
	if allocated := after.TotalAlloc - before.TotalAlloc; allocated > limit {
		t.Errorf("header-only STL allocated %d bytes, want under %d", allocated, limit)
	}
}

// failWriter fails once more than n bytes have been written.
type failWriter struct{ n int }

func (w *failWriter) Write(b []byte) (int, error) {
	if len(b) > w.n {
		return 0, errors.New("disk full")
	}
	w.n -= len(b)
	return len(b), nil
}

func TestWriteErrors(t *testing.T) {
	var bld gcull.Builder
	cube := bld.NewCube(1)
	for _, n := range []int{0, headerSize + 2, headerSize + 4 + recordSize} {
		_, err := WriteBinary(&failWriter{n: n}, cube)
		if err == nil {
			t.Errorf("writer failing after %d bytes: expected error", n)
		}
	}
	n, err := WriteBinary(io.Discard, cube)
	if err != nil || n != 12 {
		t.Errorf("discard: wrote %d triangles, err %v", n, err)
	}
}
