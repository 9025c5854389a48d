package geometry

import (
	"fmt"

	"fbx-mesh-renderer/internal/fbx"
)

// Extract reconstructs every geometry under Objects/Geometry. A document
// without that subtree yields no records and no error.
func Extract(doc *fbx.Document) ([]Record, error) {
	objects := doc.Node("Objects")
	if objects == nil {
		return nil, nil
	}
	geometry := objects.Child("Geometry")
	if geometry == nil {
		return nil, nil
	}

	var conns []fbx.Connection
	if c := doc.Node("Connections"); c != nil {
		conns = c.Connections
	}

	nodes := Discover(geometry, conns)
	records := make([]Record, 0, len(nodes))
	for _, n := range nodes {
		rec, err := Reconstruct(n)
		if err != nil {
			return nil, fmt.Errorf("geometry %d (%s): %w", n.ID, objectName(n.AttrName), err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// face accumulates the corners of the polygon being scanned.
type face struct {
	vertices []int
	normals  [][]float64
	uvs      [][]float64
	colors   [][]float64
}

func (f *face) reset() {
	f.vertices = f.vertices[:0]
	f.normals = f.normals[:0]
	f.uvs = f.uvs[:0]
	f.colors = f.colors[:0]
}

// Reconstruct turns one Geometry record into a triangle list. Polygons are
// fan-triangulated from corner 0 and emitted as (0, i, i-1), which reverses
// the file's winding.
func Reconstruct(geo *fbx.Node) (Record, error) {
	rec := Record{ID: geo.ID, Name: objectName(geo.AttrName), Indices: []uint32{}}

	var positions []float64
	if p, ok := geo.Array("Vertices"); ok {
		positions = p.Float64s()
	}
	var polygons []int64
	if p, ok := geo.Array("PolygonVertexIndex"); ok {
		polygons = p.Int64s()
	}

	if len(polygons) == 0 {
		rec.Positions = toFloat32(positions)
		return rec, nil
	}

	normals := readAttribute(geo, normalLayer)
	uvs := readAttribute(geo, uvLayer)
	colors := readAttribute(geo, colorLayer)
	if normals != nil {
		rec.Normals = []float32{}
	}
	if uvs != nil {
		rec.UVs = []float32{}
	}
	if colors != nil {
		rec.Colors = []float32{}
	}

	var f face
	polygon := 0
	for corner, raw := range polygons {
		last := raw < 0
		vertex := int(raw)
		if last {
			vertex = int(raw ^ -1)
		}
		f.vertices = append(f.vertices, vertex)

		if normals != nil {
			c, err := normals.lookup(corner, polygon, vertex)
			if err != nil {
				return Record{}, fmt.Errorf("normal at corner %d: %w", corner, err)
			}
			f.normals = append(f.normals, c)
		}
		if uvs != nil {
			c, err := uvs.lookup(corner, polygon, vertex)
			if err != nil {
				return Record{}, fmt.Errorf("uv at corner %d: %w", corner, err)
			}
			f.uvs = append(f.uvs, c)
		}
		if colors != nil {
			c, err := colors.lookup(corner, polygon, vertex)
			if err != nil {
				return Record{}, fmt.Errorf("color at corner %d: %w", corner, err)
			}
			f.colors = append(f.colors, c)
		}

		if !last {
			continue
		}
		if err := rec.emit(&f, positions); err != nil {
			return Record{}, fmt.Errorf("polygon %d: %w", polygon, err)
		}
		f.reset()
		polygon++
	}

	return rec, nil
}

// emit appends the fan triangles of a finished face.
func (r *Record) emit(f *face, positions []float64) error {
	for i := 2; i < len(f.vertices); i++ {
		for _, k := range [3]int{0, i, i - 1} {
			v := f.vertices[k]
			if v < 0 || v*3+3 > len(positions) {
				return fmt.Errorf("%w: control point %d of %d", ErrAttributeRange, v, len(positions)/3)
			}
			r.Positions = append(r.Positions, float32(positions[v*3]), float32(positions[v*3+1]), float32(positions[v*3+2]))
			if r.Normals != nil {
				r.Normals = appendFloat32(r.Normals, f.normals[k])
			}
			if r.UVs != nil {
				r.UVs = appendFloat32(r.UVs, f.uvs[k])
			}
			if r.Colors != nil {
				r.Colors = appendFloat32(r.Colors, f.colors[k])
			}
			r.Indices = append(r.Indices, uint32(len(r.Indices)))
		}
	}
	return nil
}

func appendFloat32(dst []float32, src []float64) []float32 {
	for _, v := range src {
		dst = append(dst, float32(v))
	}
	return dst
}

func toFloat32(src []float64) []float32 {
	return appendFloat32(make([]float32, 0, len(src)), src)
}
