package geometry

import (
	"fmt"

	"fbx-mesh-renderer/internal/fbx"
)

// Mapping says which counter selects an attribute value.
type Mapping int

const (
	ByPolygonVertex Mapping = iota
	ByPolygon
	ByVertice
	AllSame
)

// Reference says whether the selected index goes through an index array.
type Reference int

const (
	Direct Reference = iota
	IndexToDirect
)

// parseMapping falls back to ByPolygonVertex for unknown strings.
func parseMapping(s string) Mapping {
	switch s {
	case "ByPolygon":
		return ByPolygon
	case "ByVertice":
		return ByVertice
	case "AllSame":
		return AllSame
	}
	return ByPolygonVertex
}

// parseReference falls back to Direct for unknown strings.
func parseReference(s string) Reference {
	if s == "IndexToDirect" {
		return IndexToDirect
	}
	return Direct
}

// attribute is one LayerElement block: a flat component buffer plus the
// rules that pick a slice of it for a corner.
type attribute struct {
	mapping   Mapping
	reference Reference
	buffer    []float64
	indices   []int64
	size      int
}

// layerKind names the records backing one attribute kind.
type layerKind struct {
	layer   string
	buffer  string
	indices []string // checked in order
	size    int
}

var (
	normalLayer = layerKind{"LayerElementNormal", "Normals", []string{"NormalIndex", "NormalsIndex"}, 3}
	uvLayer     = layerKind{"LayerElementUV", "UV", []string{"UVIndex"}, 2}
	colorLayer  = layerKind{"LayerElementColor", "Colors", []string{"ColorIndex"}, 4}
)

// layerNode returns layer 0 of a LayerElement set, or the first one present.
func layerNode(geo *fbx.Node, name string) *fbx.Node {
	v := geo.Child(name)
	if v != nil && v.Kind == fbx.KindIndexed {
		if n := v.Indexed.Get(0); n != nil {
			return n
		}
	}
	return geo.Node(name)
}

// readAttribute returns nil when the geometry has no such layer or the
// layer carries no component buffer.
func readAttribute(geo *fbx.Node, kind layerKind) *attribute {
	layer := layerNode(geo, kind.layer)
	if layer == nil {
		return nil
	}
	buf, ok := layer.Array(kind.buffer)
	if !ok {
		return nil
	}

	a := &attribute{
		mapping:   parseMapping(layer.Text("MappingInformationType")),
		reference: parseReference(layer.Text("ReferenceInformationType")),
		buffer:    buf.Float64s(),
		size:      kind.size,
	}
	if a.reference == IndexToDirect {
		for _, name := range kind.indices {
			if p, ok := layer.Array(name); ok {
				a.indices = p.Int64s()
				break
			}
		}
	}
	return a
}

// lookup returns the components for one corner. corner is the running
// polygon-vertex counter, polygon the face counter and vertex the control
// point the corner references.
func (a *attribute) lookup(corner, polygon, vertex int) ([]float64, error) {
	index := corner
	switch a.mapping {
	case ByPolygon:
		index = polygon
	case ByVertice:
		index = vertex
	case AllSame:
		index = 0
		if len(a.indices) > 0 {
			index = int(a.indices[0])
		}
	}

	if a.reference == IndexToDirect {
		if index < 0 || index >= len(a.indices) {
			return nil, fmt.Errorf("%w: index array entry %d of %d", ErrAttributeRange, index, len(a.indices))
		}
		index = int(a.indices[index])
	}

	start := index * a.size
	if index < 0 || start+a.size > len(a.buffer) {
		return nil, fmt.Errorf("%w: element %d of %d", ErrAttributeRange, index, len(a.buffer)/a.size)
	}
	return a.buffer[start : start+a.size], nil
}
