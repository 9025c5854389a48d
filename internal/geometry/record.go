package geometry

import (
	"errors"
	"strings"
)

// ErrAttributeRange is returned when a corner, position or attribute lookup
// indexes past the end of its source buffer.
var ErrAttributeRange = errors.New("geometry: index out of range")

// Record is one reconstructed geometry as flat, fully expanded triangle
// buffers. Each emitted vertex has its own entry; Indices is 0..N-1.
// Normals, UVs and Colors are nil when the file has no such layer.
type Record struct {
	ID   int64
	Name string

	Positions []float32 // xyz
	Indices   []uint32
	Normals   []float32 // xyz
	UVs       []float32 // uv
	Colors    []float32 // rgba
}

// VertexCount returns the number of emitted vertices.
func (r *Record) VertexCount() int { return len(r.Positions) / 3 }

// TriangleCount returns the number of emitted triangles.
func (r *Record) TriangleCount() int { return len(r.Indices) / 3 }

// objectName strips the "\x00\x01Class" suffix binary files append to names.
func objectName(attr string) string {
	if i := strings.Index(attr, "\x00\x01"); i >= 0 {
		return attr[:i]
	}
	return attr
}
