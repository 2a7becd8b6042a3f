// Package stl reads and writes binary STL files as [gcull.Polyhedron] values.
package stl

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/soypat/gcull"
	"github.com/soypat/geometry/md3"
)

const (
	headerSize = 80
	recordSize = 50
	// maxTriangles guards against corrupt triangle counts.
	maxTriangles = 1 << 24
	// preallocTriangles bounds the face capacity reserved before records are read.
	preallocTriangles = 1 << 12
)

// record is the on-disk layout of one triangle.
type record struct {
	Normal [3]float32
	V      [3][3]float32
	Attr   uint16
}

// ReadBinary reads a binary STL stream and welds the triangle soup into a polyhedron.
// Vertices with bit-identical coordinates are merged. The STL normals are ignored
// since culling orients face normals with the polyhedron center.
func ReadBinary(r io.Reader) (gcull.Polyhedron, error) {
	var p gcull.Polyhedron
	br := bufio.NewReader(r)
	var header [headerSize]byte
	_, err := io.ReadFull(br, header[:])
	if err != nil {
		return p, fmt.Errorf("reading STL header: %w", err)
	}
	var count uint32
	err = binary.Read(br, binary.LittleEndian, &count)
	if err != nil {
		return p, fmt.Errorf("reading STL triangle count: %w", err)
	}
	if count == 0 {
		return p, errors.New("STL contains no triangles")
	} else if count > maxTriangles {
		return p, fmt.Errorf("STL triangle count %d exceeds limit %d", count, maxTriangles)
	}
	p.Name = headerName(header[:])
	index := make(map[[3]float32]int)
	p.Faces = make([]gcull.Face, 0, min(count, preallocTriangles))
	var rec record
	for i := uint32(0); i < count; i++ {
		err = binary.Read(br, binary.LittleEndian, &rec)
		if err != nil {
			return gcull.Polyhedron{}, fmt.Errorf("reading STL triangle %d of %d: %w", i, count, err)
		}
		face := make(gcull.Face, 3)
		for j, v := range rec.V {
			idx, ok := index[v]
			if !ok {
				idx = len(p.Vertices)
				index[v] = idx
				p.Vertices = append(p.Vertices, md3.Vec{X: float64(v[0]), Y: float64(v[1]), Z: float64(v[2])})
			}
			face[j] = idx
		}
		p.Faces = append(p.Faces, face)
	}
	return p, nil
}

// WriteBinary writes p as a binary STL, fan triangulating faces with more than 3 vertices.
// Faces with fewer than 3 vertices are omitted. Returns the number of triangles written.
func WriteBinary(w io.Writer, p gcull.Polyhedron) (int, error) {
	err := p.Validate()
	if err != nil {
		return 0, err
	}
	var ntri uint32
	for _, f := range p.Faces {
		if len(f) >= 3 {
			ntri += uint32(len(f) - 2)
		}
	}
	bw := bufio.NewWriter(w)
	var header [headerSize]byte
	copy(header[:], p.Name)
	_, err = bw.Write(header[:])
	if err != nil {
		return 0, err
	}
	err = binary.Write(bw, binary.LittleEndian, ntri)
	if err != nil {
		return 0, err
	}
	center := p.Center()
	var rec record
	for _, f := range p.Faces {
		if len(f) < 3 {
			continue
		}
		n, _ := gcull.FaceNormal(center, p.Vertices, f) // Zero normal on degenerate faces.
		rec.Normal = vec32(n)
		for k := 1; k < len(f)-1; k++ {
			rec.V = [3][3]float32{vec32(p.Vertices[f[0]]), vec32(p.Vertices[f[k]]), vec32(p.Vertices[f[k+1]])}
			err = binary.Write(bw, binary.LittleEndian, &rec)
			if err != nil {
				return 0, err
			}
		}
	}
	err = bw.Flush()
	if err != nil {
		return 0, err
	}
	return int(ntri), nil
}

func vec32(v md3.Vec) [3]float32 {
	return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
}

// headerName extracts a printable name from an STL header, stopping at the first NUL.
func headerName(header []byte) string {
	n := 0
	for n < len(header) && header[n] != 0 && header[n] >= ' ' && header[n] < 0x7f {
		n++
	}
	return string(header[:n])
}
