package fbx

import "fmt"

// Magic is the 21-byte prefix of every binary FBX file.
const Magic = "Kaydara FBX Binary  \x00"

const (
	versionOffset = 23

	// Files from this version on use 64-bit record header fields.
	wideHeaderVersion = 7500

	// footerSize covers the 160-byte footer body and the trailing 16-byte magic.
	footerSize = 176

	// MaxDepth bounds record nesting. Files from DCC exporters stay far below it.
	MaxDepth = 64
)

// Document is the decoded top level of a file.
type Document struct {
	Version uint32
	root    *Node
}

// Node returns the top-level record with the given tag, or nil. When a tag
// repeats, the last record wins.
func (d *Document) Node(name string) *Node {
	v := d.root.Child(name)
	if v == nil {
		return nil
	}
	return v.Node
}

// Keys returns the top-level tags in file order.
func (d *Document) Keys() []string {
	return d.root.Keys()
}

// IsBinary reports whether buf starts with the binary FBX magic.
func IsBinary(buf []byte) bool {
	return len(buf) >= len(Magic) && string(buf[:len(Magic)]) == Magic
}

// Parse decodes a binary FBX buffer into its record tree.
// Parses on separate buffers share no state and may run concurrently.
func Parse(buf []byte) (*Document, error) {
	if !IsBinary(buf) {
		return nil, ErrMalformedHeader
	}

	c := NewCursor(buf)
	if err := c.Skip(versionOffset); err != nil {
		return nil, err
	}
	version, err := c.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("fbx: version: %w", err)
	}

	p := &parser{c: c, wide: version >= wideHeaderVersion}
	doc := &Document{Version: version, root: newNode("")}

	for !endOfContent(c.Offset(), c.Size()) {
		n, err := p.readNode(1)
		if err != nil {
			return nil, err
		}
		if n != nil {
			doc.root.set(n.Name, &Value{Kind: KindNode, Node: n})
		}
	}

	return doc, nil
}

// endOfContent reports whether only the footer remains from offset on.
func endOfContent(offset, size int) bool {
	if size%16 == 0 {
		return (offset+footerSize)&^15 >= size
	}
	return offset+footerSize >= size
}

type parser struct {
	c    *Cursor
	wide bool
}

func (p *parser) readHeaderField() (uint64, error) {
	if p.wide {
		return p.c.ReadUint64()
	}
	v, err := p.c.ReadUint32()
	return uint64(v), err
}

// readNode decodes one record at the given nesting depth and its children.
// A nil node with a nil error is a null terminator record.
func (p *parser) readNode(depth int) (*Node, error) {
	start := p.c.Offset()
	if depth > MaxDepth {
		return nil, fmt.Errorf("fbx: record at %d: %w: nested deeper than %d", start, ErrOutOfRange, MaxDepth)
	}

	endOffset, err := p.readHeaderField()
	if err != nil {
		return nil, fmt.Errorf("fbx: record at %d: %w", start, err)
	}
	numProperties, err := p.readHeaderField()
	if err != nil {
		return nil, fmt.Errorf("fbx: record at %d: %w", start, err)
	}
	if _, err := p.readHeaderField(); err != nil { // property list byte length
		return nil, fmt.Errorf("fbx: record at %d: %w", start, err)
	}
	nameLen, err := p.c.ReadUint8()
	if err != nil {
		return nil, fmt.Errorf("fbx: record at %d: %w", start, err)
	}
	name, err := p.c.ReadString(int(nameLen))
	if err != nil {
		return nil, fmt.Errorf("fbx: record at %d: %w", start, err)
	}

	if endOffset == 0 {
		return nil, nil
	}

	n := newNode(name)
	// Every property takes at least two bytes, which bounds the allocation.
	capHint := numProperties
	if remain := uint64(p.c.Size()-p.c.Offset()) / 2; capHint > remain {
		capHint = remain
	}
	n.Properties = make([]Property, 0, capHint)
	for i := uint64(0); i < numProperties; i++ {
		prop, err := ReadProperty(p.c)
		if err != nil {
			return nil, fmt.Errorf("fbx: %q property %d: %w", name, i, err)
		}
		n.Properties = append(n.Properties, prop)
	}
	n.describe()
	n.singleProperty = numProperties == 1 && uint64(p.c.Offset()) == endOffset

	for uint64(p.c.Offset()) < endOffset {
		child, err := p.readNode(depth + 1)
		if err != nil {
			return nil, err
		}
		if child != nil {
			merge(n, child)
		}
	}

	return n, nil
}
