package geometry

import "fbx-mesh-renderer/internal/fbx"

// Material is the material bound to one geometry through the object graph.
type Material struct {
	Name    string
	Texture string // diffuse texture file name, if any
}

// Materials returns one entry per record, in record order: the first
// Material connected to a Model that the geometry is connected to, and the
// texture connected to that material's DiffuseColor (or any texture when
// none is bound to that slot). Unbound geometries get a zero Material.
func Materials(doc *fbx.Document, records []Record) []Material {
	out := make([]Material, len(records))

	objects := doc.Node("Objects")
	conns := doc.Node("Connections")
	if objects == nil || conns == nil {
		return out
	}
	models := indexed(objects, "Model")
	materials := indexed(objects, "Material")
	textures := indexed(objects, "Texture")
	if models == nil || materials == nil {
		return out
	}

	for i, rec := range records {
		model := findParent(conns.Connections, rec.ID, models)
		if model == nil {
			continue
		}
		mat := findChild(conns.Connections, model.ID, materials, "")
		if mat == nil {
			continue
		}
		out[i].Name = objectName(mat.AttrName)

		if textures == nil {
			continue
		}
		tex := findChild(conns.Connections, mat.ID, textures, "DiffuseColor")
		if tex == nil {
			tex = findChild(conns.Connections, mat.ID, textures, "")
		}
		if tex != nil {
			out[i].Texture = textureFile(tex)
		}
	}
	return out
}

func indexed(objects *fbx.Node, name string) *fbx.Indexed {
	v := objects.Child(name)
	if v == nil || v.Kind != fbx.KindIndexed {
		return nil
	}
	return v.Indexed
}

// findParent returns the first node in set that child is connected to.
func findParent(conns []fbx.Connection, child int64, set *fbx.Indexed) *fbx.Node {
	for _, c := range conns {
		if id, ok := c.ChildID(); !ok || id != child {
			continue
		}
		if parent, ok := c.ParentID(); ok {
			if n := set.Get(parent); n != nil {
				return n
			}
		}
	}
	return nil
}

// findChild returns the first node in set connected to parent. A non-empty
// slot restricts the match to property connections naming that slot.
func findChild(conns []fbx.Connection, parent int64, set *fbx.Indexed, slot string) *fbx.Node {
	for _, c := range conns {
		if id, ok := c.ParentID(); !ok || id != parent {
			continue
		}
		if slot != "" && (len(c) < 3 || c[2].String() != slot) {
			continue
		}
		if child, ok := c.ChildID(); ok {
			if n := set.Get(child); n != nil {
				return n
			}
		}
	}
	return nil
}

func textureFile(tex *fbx.Node) string {
	for _, name := range []string{"RelativeFilename", "FileName", "Filename"} {
		if s := tex.Text(name); s != "" {
			return s
		}
	}
	return ""
}
