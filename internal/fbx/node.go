package fbx

// ValueKind discriminates what a child key holds on its parent node.
type ValueKind int

const (
	// KindScalar is a collapsed single-property child holding a scalar.
	KindScalar ValueKind = iota
	// KindNode is one child record; array single-property children land here too.
	KindNode
	// KindIndexed is a set of same-named children keyed by numeric id.
	KindIndexed
	// KindList is a repeated child kept in order (PoseNode).
	KindList
	// KindField is a Properties70 P entry.
	KindField
)

// Value is the tagged variant stored under a child name.
type Value struct {
	Kind     ValueKind
	Property Property
	Node     *Node
	Indexed  *Indexed
	List     []*Node
	Field    *Field
}

// Field is a normalised Properties70 entry. Value holds one property, or
// three for vector-like types.
type Field struct {
	Type  string
	Type2 string
	Flag  string
	Value []Property
}

// Connection is a C record with its kind marker dropped: [child, parent, extra...].
type Connection []Property

func (c Connection) ChildID() (int64, bool) {
	if len(c) < 1 {
		return 0, false
	}
	return c[0].Int64()
}

func (c Connection) ParentID() (int64, bool) {
	if len(c) < 2 {
		return 0, false
	}
	return c[1].Int64()
}

// Indexed is an insertion-ordered id -> node map.
type Indexed struct {
	ids   []int64
	nodes map[int64]*Node
}

func newIndexed() *Indexed {
	return &Indexed{nodes: make(map[int64]*Node)}
}

// Get returns the node stored under id.
func (ix *Indexed) Get(id int64) *Node {
	return ix.nodes[id]
}

// IDs returns ids in insertion order.
func (ix *Indexed) IDs() []int64 {
	return ix.ids
}

func (ix *Indexed) Len() int {
	return len(ix.ids)
}

// First returns the earliest inserted node, or nil.
func (ix *Indexed) First() *Node {
	if len(ix.ids) == 0 {
		return nil
	}
	return ix.nodes[ix.ids[0]]
}

// insert keeps the first node stored under an id.
func (ix *Indexed) insert(id int64, n *Node) bool {
	if _, ok := ix.nodes[id]; ok {
		return false
	}
	ix.ids = append(ix.ids, id)
	ix.nodes[id] = n
	return true
}

// Node is one decoded record. Fixed metadata lives in fields; structural
// children live in an ordered name -> Value map, so metadata never collides
// with a child of the same name.
type Node struct {
	Name       string
	Properties []Property

	// ID is the first property when it is numeric.
	ID       int64
	HasID    bool
	AttrName string
	AttrType string

	// Connections is filled on the Connections record from its C children.
	Connections []Connection

	singleProperty bool
	keys           []string
	children       map[string]*Value
}

func newNode(name string) *Node {
	return &Node{Name: name, children: make(map[string]*Value)}
}

// SingleProperty reports whether the record had exactly one property and no children.
func (n *Node) SingleProperty() bool { return n.singleProperty }

// Keys returns child names in first-insertion order.
func (n *Node) Keys() []string {
	if n == nil {
		return nil
	}
	return n.keys
}

// Child returns the value stored under name, or nil.
func (n *Node) Child(name string) *Value {
	if n == nil {
		return nil
	}
	return n.children[name]
}

// Node returns the child record under name. For an indexed set it returns
// the first entry.
func (n *Node) Node(name string) *Node {
	v := n.Child(name)
	if v == nil {
		return nil
	}
	switch v.Kind {
	case KindNode:
		return v.Node
	case KindIndexed:
		return v.Indexed.First()
	case KindList:
		if len(v.List) > 0 {
			return v.List[0]
		}
	}
	return nil
}

// Scalar returns a collapsed scalar child.
func (n *Node) Scalar(name string) (Property, bool) {
	v := n.Child(name)
	if v == nil || v.Kind != KindScalar {
		return Property{}, false
	}
	return v.Property, true
}

// Text returns a collapsed scalar child rendered as text.
func (n *Node) Text(name string) string {
	p, _ := n.Scalar(name)
	return p.String()
}

// Array returns the array payload of a single-property child such as Vertices.
func (n *Node) Array(name string) (Property, bool) {
	v := n.Child(name)
	if v == nil || v.Kind != KindNode || len(v.Node.Properties) == 0 {
		return Property{}, false
	}
	p := v.Node.Properties[0]
	if !p.IsArray() {
		return Property{}, false
	}
	return p, true
}

// Field returns a Properties70 entry merged onto this node.
func (n *Node) Field(name string) *Field {
	v := n.Child(name)
	if v == nil || v.Kind != KindField {
		return nil
	}
	return v.Field
}

func (n *Node) set(name string, v *Value) {
	if _, ok := n.children[name]; !ok {
		n.keys = append(n.keys, name)
	}
	n.children[name] = v
}

// describe fills id/attrName/attrType from the positional property list.
func (n *Node) describe() {
	if len(n.Properties) > 0 && n.Properties[0].IsNumeric() {
		n.ID, _ = n.Properties[0].Int64()
		n.HasID = true
	}
	if len(n.Properties) > 1 {
		n.AttrName = n.Properties[1].String()
	}
	if len(n.Properties) > 2 {
		n.AttrType = n.Properties[2].String()
	}
}
