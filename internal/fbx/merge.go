package fbx

import "strings"

// merge folds a decoded child record into its parent. Rules are checked in
// order; the first that applies wins.
func merge(parent, child *Node) {
	switch {
	case child.singleProperty:
		p := child.Properties[0]
		if p.IsArray() {
			// Keep the record so the array stays reachable with its metadata.
			parent.set(child.Name, &Value{Kind: KindNode, Node: child})
		} else {
			parent.set(child.Name, &Value{Kind: KindScalar, Property: p})
		}

	case parent.Name == "Connections" && child.Name == "C":
		conn := make(Connection, 0, len(child.Properties))
		if len(child.Properties) > 1 {
			conn = append(conn, child.Properties[1:]...)
		}
		parent.Connections = append(parent.Connections, conn)

	case child.Name == "Properties70":
		for _, k := range child.keys {
			parent.set(k, child.children[k])
		}

	case parent.Name == "Properties70" && child.Name == "P":
		mergeField(parent, child)

	default:
		mergeRepeated(parent, child)
	}
}

func mergeRepeated(parent, child *Node) {
	existing := parent.children[child.Name]
	switch {
	case existing == nil:
		if child.HasID {
			ix := newIndexed()
			ix.insert(child.ID, child)
			parent.set(child.Name, &Value{Kind: KindIndexed, Indexed: ix})
		} else {
			parent.set(child.Name, &Value{Kind: KindNode, Node: child})
		}

	case child.Name == "PoseNode":
		if existing.Kind != KindList {
			existing = &Value{Kind: KindList, List: flatten(existing)}
			parent.set(child.Name, existing)
		}
		existing.List = append(existing.List, child)

	case existing.Kind == KindIndexed && child.HasID:
		// First writer wins on a duplicate id.
		existing.Indexed.insert(child.ID, child)
	}
}

func flatten(v *Value) []*Node {
	switch v.Kind {
	case KindNode:
		return []*Node{v.Node}
	case KindIndexed:
		out := make([]*Node, 0, v.Indexed.Len())
		for _, id := range v.Indexed.IDs() {
			out = append(out, v.Indexed.Get(id))
		}
		return out
	case KindList:
		return v.List
	}
	return nil
}

// mergeField stores a P record [name, type, type2, flag, value...] on the
// Properties70 node under its normalised name.
func mergeField(parent, p *Node) {
	props := p.Properties
	if len(props) == 0 {
		return
	}

	f := &Field{}
	name := lclName(props[0].String())
	if len(props) > 1 {
		f.Type = lclName(props[1].String())
	}
	if len(props) > 2 {
		f.Type2 = props[2].String()
	}
	if len(props) > 3 {
		f.Flag = props[3].String()
	}

	end := 5
	if vectorType(f.Type) {
		end = 7
	}
	if end > len(props) {
		end = len(props)
	}
	if end > 4 {
		f.Value = append([]Property(nil), props[4:end]...)
	}

	parent.set(name, &Value{Kind: KindField, Field: f})
}

func lclName(s string) string {
	if strings.HasPrefix(s, "Lcl ") {
		return "Lcl_" + s[len("Lcl "):]
	}
	return s
}

func vectorType(t string) bool {
	switch t {
	case "Color", "ColorRGB", "Vector", "Vector3D":
		return true
	}
	return strings.HasPrefix(t, "Lcl_")
}
