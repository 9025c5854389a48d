package geometry

import "fbx-mesh-renderer/internal/fbx"

// Discover lists the geometry records to reconstruct, in output order.
//
// A single Geometry record stands alone. For an id-indexed set the order
// follows the Connections list: each connection whose child id names a
// Geometry in the set adds it, then recurses into connections parented to
// that geometry. Geometries no connection mentions follow in file order.
func Discover(geometry *fbx.Value, conns []fbx.Connection) []*fbx.Node {
	if geometry == nil {
		return nil
	}

	switch geometry.Kind {
	case fbx.KindNode:
		if geometry.Node.Name == "Geometry" {
			return []*fbx.Node{geometry.Node}
		}
		return nil
	case fbx.KindList:
		var out []*fbx.Node
		for _, n := range geometry.List {
			if n.Name == "Geometry" {
				out = append(out, n)
			}
		}
		return out
	case fbx.KindIndexed:
	default:
		return nil
	}

	set := geometry.Indexed
	seen := make(map[int64]bool, set.Len())
	var out []*fbx.Node

	var visit func(id int64)
	visit = func(id int64) {
		if seen[id] {
			return
		}
		n := set.Get(id)
		if n == nil || n.Name != "Geometry" {
			return
		}
		seen[id] = true
		out = append(out, n)

		for _, c := range conns {
			if parent, ok := c.ParentID(); ok && parent == id {
				if child, ok := c.ChildID(); ok {
					visit(child)
				}
			}
		}
	}

	for _, c := range conns {
		if child, ok := c.ChildID(); ok {
			visit(child)
		}
	}
	for _, id := range set.IDs() {
		visit(id)
	}
	return out
}
