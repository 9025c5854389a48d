package fbx

import (
	"errors"
	"reflect"
	"testing"

	ft "fbx-mesh-renderer/internal/fbx/fbxtest"
)

func mustParse(t *testing.T, buf []byte) *Document {
	t.Helper()
	doc, err := Parse(buf)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return doc
}

func TestIsBinary(t *testing.T) {
	tests := []struct {
		buf  []byte
		want bool
	}{
		{ft.File(7400), true},
		{[]byte(Magic), true},
		{[]byte("Kaydara FBX Binary  "), false},
		{[]byte("; FBX 7.4.0 project file\n"), false},
		{nil, false},
	}
	for _, tt := range tests {
		if got := IsBinary(tt.buf); got != tt.want {
			t.Errorf("IsBinary(%q) = %v, want %v", tt.buf, got, tt.want)
		}
	}
}

func TestParseMalformedHeader(t *testing.T) {
	for _, buf := range [][]byte{nil, []byte("Kaydara"), []byte("; FBX 7.4.0 project file; ------------------")} {
		if _, err := Parse(buf); !errors.Is(err, ErrMalformedHeader) {
			t.Errorf("Parse(%q) err = %v, want ErrMalformedHeader", buf, err)
		}
	}

	// Magic present but the version field is cut short.
	if _, err := Parse([]byte(Magic + "\x1a")); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("truncated version: err = %v, want ErrOutOfRange", err)
	}
}

func TestParseVersionAndTopLevel(t *testing.T) {
	for _, version := range []uint32{7400, 7500, 7700} {
		buf := ft.File(version,
			ft.R("FBXHeaderExtension").With(ft.R("FBXVersion", ft.Uint32(version))),
			ft.R("Creator", ft.String("fbx-mesh-renderer")),
			ft.R("Objects"),
			ft.R("Connections"),
		)
		doc := mustParse(t, buf)
		if doc.Version != version {
			t.Errorf("Version = %d, want %d", doc.Version, version)
		}
		want := []string{"FBXHeaderExtension", "Creator", "Objects", "Connections"}
		if !reflect.DeepEqual(doc.Keys(), want) {
			t.Errorf("v%d: Keys = %v, want %v", version, doc.Keys(), want)
		}
		hdr := doc.Node("FBXHeaderExtension")
		if p, ok := hdr.Scalar("FBXVersion"); !ok || p.Value != version {
			t.Errorf("v%d: FBXVersion = %v, %v", version, p.Value, ok)
		}
		if got := doc.Node("Creator").Properties[0].String(); got != "fbx-mesh-renderer" {
			t.Errorf("Creator = %q", got)
		}
		if doc.Node("Missing") != nil {
			t.Error("Node(Missing) != nil")
		}
	}
}

func TestParseSinglePropertyCollapse(t *testing.T) {
	buf := ft.File(7400,
		ft.R("Objects").With(
			ft.R("Model", ft.Int64(42), ft.String("Cube\x00\x01Model"), ft.String("Mesh")).With(
				ft.R("Version", ft.Uint32(232)),
				ft.R("Culling", ft.String("CullingOff")),
				ft.R("Vertices", ft.Float64s([]float64{1, 2, 3})),
				ft.R("Empty"),
			),
		),
	)
	doc := mustParse(t, buf)
	model := doc.Node("Objects").Node("Model")
	if model == nil {
		t.Fatal("Model missing")
	}
	if !model.HasID || model.ID != 42 || model.AttrName != "Cube\x00\x01Model" || model.AttrType != "Mesh" {
		t.Errorf("metadata = %d %v %q %q", model.ID, model.HasID, model.AttrName, model.AttrType)
	}

	v := model.Child("Version")
	if v == nil || v.Kind != KindScalar || v.Property.Value != uint32(232) {
		t.Errorf("Version = %+v, want scalar 232", v)
	}
	if got := model.Text("Culling"); got != "CullingOff" {
		t.Errorf("Culling = %q", got)
	}

	arr := model.Child("Vertices")
	if arr == nil || arr.Kind != KindNode || !arr.Node.SingleProperty() {
		t.Fatalf("Vertices = %+v, want single-property node", arr)
	}
	if p, ok := model.Array("Vertices"); !ok || !reflect.DeepEqual(p.Value, []float64{1, 2, 3}) {
		t.Errorf("Array(Vertices) = %v, %v", p.Value, ok)
	}

	empty := model.Child("Empty")
	if empty == nil || empty.Kind != KindNode || empty.Node.SingleProperty() {
		t.Errorf("Empty = %+v, want plain node", empty)
	}
}

func TestParseIndexedChildren(t *testing.T) {
	buf := ft.File(7400,
		ft.R("Objects").With(
			ft.R("Geometry", ft.Int64(100), ft.String("A\x00\x01Geometry"), ft.String("Mesh")),
			ft.R("Geometry", ft.Int64(200), ft.String("B\x00\x01Geometry"), ft.String("Mesh")),
			ft.R("Geometry", ft.Int64(100), ft.String("C\x00\x01Geometry"), ft.String("Mesh")),
			ft.R("Material", ft.String("NoID"), ft.String("first")),
			ft.R("Material", ft.String("NoID"), ft.String("second")),
		),
	)
	doc := mustParse(t, buf)
	objects := doc.Node("Objects")

	g := objects.Child("Geometry")
	if g == nil || g.Kind != KindIndexed {
		t.Fatalf("Geometry = %+v, want indexed", g)
	}
	if !reflect.DeepEqual(g.Indexed.IDs(), []int64{100, 200}) {
		t.Errorf("IDs = %v", g.Indexed.IDs())
	}
	if got := g.Indexed.Get(100).AttrName; got != "A\x00\x01Geometry" {
		t.Errorf("id 100 = %q, want first writer", got)
	}
	if got := g.Indexed.Get(200).AttrName; got != "B\x00\x01Geometry" {
		t.Errorf("id 200 = %q", got)
	}

	m := objects.Child("Material")
	if m == nil || m.Kind != KindNode || m.Node.AttrName != "first" {
		t.Errorf("Material = %+v, want first non-indexed node", m)
	}
}

func TestParseConnections(t *testing.T) {
	buf := ft.File(7400,
		ft.R("Connections").With(
			ft.R("C", ft.String("OO"), ft.Int64(100), ft.Int64(0)),
			ft.R("C", ft.String("OP"), ft.Int64(300), ft.Int64(200), ft.String("DiffuseColor")),
		),
	)
	conns := mustParse(t, buf).Node("Connections").Connections
	if len(conns) != 2 {
		t.Fatalf("len = %d, want 2", len(conns))
	}
	if c, _ := conns[0].ChildID(); c != 100 {
		t.Errorf("child = %d", c)
	}
	if p, _ := conns[1].ParentID(); p != 200 {
		t.Errorf("parent = %d", p)
	}
	if len(conns[1]) != 3 || conns[1][2].String() != "DiffuseColor" {
		t.Errorf("tuple = %v, want kind dropped", conns[1])
	}
}

func TestParseProperties70(t *testing.T) {
	buf := ft.File(7400,
		ft.R("Objects").With(
			ft.R("Model", ft.Int64(7), ft.String("Cube"), ft.String("Mesh")).With(
				ft.R("Properties70").With(
					ft.R("P", ft.String("Lcl Translation"), ft.String("Lcl Translation"), ft.String(""), ft.String("A"), ft.Float64(1), ft.Float64(2), ft.Float64(3)),
					ft.R("P", ft.String("DiffuseColor"), ft.String("Color"), ft.String(""), ft.String("A"), ft.Float64(0.5), ft.Float64(0.25), ft.Float64(1)),
					ft.R("P", ft.String("Visibility"), ft.String("Visibility"), ft.String(""), ft.String("A+"), ft.Float64(1)),
					ft.R("P", ft.String("Short"), ft.String("int")),
				),
			),
		),
	)
	model := mustParse(t, buf).Node("Objects").Node("Model")

	if model.Child("Properties70") != nil {
		t.Error("Properties70 kept as a child, want flattened")
	}

	tr := model.Field("Lcl_Translation")
	if tr == nil {
		t.Fatalf("Lcl_Translation missing; keys = %v", model.Keys())
	}
	if tr.Type != "Lcl_Translation" || tr.Flag != "A" || len(tr.Value) != 3 || tr.Value[2].Value != float64(3) {
		t.Errorf("Lcl_Translation = %+v", tr)
	}

	dc := model.Field("DiffuseColor")
	if dc == nil || len(dc.Value) != 3 || dc.Value[1].Value != 0.25 {
		t.Errorf("DiffuseColor = %+v", dc)
	}

	vis := model.Field("Visibility")
	if vis == nil || len(vis.Value) != 1 || vis.Value[0].Value != float64(1) || vis.Flag != "A+" {
		t.Errorf("Visibility = %+v", vis)
	}

	short := model.Field("Short")
	if short == nil || short.Type != "int" || short.Value != nil {
		t.Errorf("Short = %+v", short)
	}
}

func TestParsePoseNodeList(t *testing.T) {
	buf := ft.File(7400,
		ft.R("Objects").With(
			ft.R("Pose", ft.Int64(9), ft.String("BindPose"), ft.String("BindPose")).With(
				ft.R("PoseNode").With(ft.R("Node", ft.Int64(1))),
				ft.R("PoseNode").With(ft.R("Node", ft.Int64(2))),
				ft.R("PoseNode").With(ft.R("Node", ft.Int64(3))),
			),
		),
	)
	pose := mustParse(t, buf).Node("Objects").Node("Pose")
	v := pose.Child("PoseNode")
	if v == nil || v.Kind != KindList || len(v.List) != 3 {
		t.Fatalf("PoseNode = %+v, want list of 3", v)
	}
	for i, n := range v.List {
		if p, _ := n.Scalar("Node"); p.Value != int64(i+1) {
			t.Errorf("PoseNode[%d].Node = %v", i, p.Value)
		}
	}
}

func TestParseCompressedGeometryArray(t *testing.T) {
	idx := []int32{0, 1, 3, -3}
	buf := ft.File(7500,
		ft.R("Objects").With(
			ft.R("Geometry", ft.Int64(1), ft.String("G"), ft.String("Mesh")).With(
				ft.R("PolygonVertexIndex", ft.Compressed(ft.Int32s(idx))),
				ft.R("GeometryVersion", ft.Uint32(124)),
			),
		),
	)
	g := mustParse(t, buf).Node("Objects").Node("Geometry")
	if p, ok := g.Array("PolygonVertexIndex"); !ok || !reflect.DeepEqual(p.Value, idx) {
		t.Errorf("PolygonVertexIndex = %v, %v", p.Value, ok)
	}
	if p, ok := g.Scalar("GeometryVersion"); !ok || p.Value != uint32(124) {
		t.Errorf("sibling after compressed array = %v, %v", p.Value, ok)
	}
}

func TestParseUnsupportedTagAborts(t *testing.T) {
	buf := ft.File(7400,
		ft.R("Objects").With(ft.R("Bad", ft.Tag('Z', []byte{1, 2, 3, 4}))),
		ft.R("Connections"),
	)
	doc, err := Parse(buf)
	if !errors.Is(err, ErrUnsupportedPropertyType) {
		t.Errorf("err = %v, want ErrUnsupportedPropertyType", err)
	}
	if doc != nil {
		t.Error("partial document returned")
	}
}

func TestEndOfContent(t *testing.T) {
	tests := []struct {
		offset, size int
		want         bool
	}{
		{847, 1024, false},
		{848, 1024, true},
		{855, 1024, true},
		{848, 1025, false},
		{849, 1025, true},
		{0, 176, true},
		{0, 177, false},
	}
	for _, tt := range tests {
		if got := endOfContent(tt.offset, tt.size); got != tt.want {
			t.Errorf("endOfContent(%d, %d) = %v, want %v", tt.offset, tt.size, got, tt.want)
		}
	}
}

// garbageFooter fills the tail with bytes that fail to decode as a record,
// so any read into the footer surfaces as an error.
func garbageFooter(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = 0xFF
	}
	return b
}

func TestParseStopsAtFooter(t *testing.T) {
	records := []ft.Record{
		ft.R("Objects").With(ft.R("Geometry", ft.Int64(1), ft.String("G"), ft.String("Mesh"))),
		ft.R("Creator", ft.String("x")),
	}
	body := ft.Body(7400, records...)

	// Unaligned total size: exactly 176 footer bytes remain after the last record.
	unaligned := append(append([]byte(nil), body...), garbageFooter(footerSize)...)
	if len(unaligned)%16 == 0 {
		unaligned = append(append([]byte(nil), body...), 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0)
		unaligned = append(unaligned, garbageFooter(footerSize)...)
	}

	// Aligned total size: the footer fills up to the 16-byte boundary at or
	// below offset+176.
	alignedEnd := (len(body) + footerSize) &^ 15
	aligned := append(append([]byte(nil), body...), garbageFooter(alignedEnd-len(body))...)

	for name, buf := range map[string][]byte{"unaligned": unaligned, "aligned": aligned} {
		doc, err := Parse(buf)
		if err != nil {
			t.Fatalf("%s (size %d): %v", name, len(buf), err)
		}
		if !reflect.DeepEqual(doc.Keys(), []string{"Objects", "Creator"}) {
			t.Errorf("%s: Keys = %v", name, doc.Keys())
		}
	}

	if len(aligned)%16 != 0 {
		t.Fatalf("aligned buffer size %d", len(aligned))
	}

	// One byte more than the threshold and the parser tries the footer as a record.
	over := append(append([]byte(nil), unaligned...), 0xFF)
	if _, err := Parse(over); err == nil {
		t.Error("footer decoded as a record without error")
	}
}

func nested(depth int) ft.Record {
	r := ft.R("Leaf", ft.Int64(1), ft.Int64(2))
	for i := 1; i < depth; i++ {
		r = ft.R("Level").With(r)
	}
	return r
}

func TestParseNestingLimit(t *testing.T) {
	for _, version := range []uint32{7400, 7500} {
		if _, err := Parse(ft.File(version, nested(MaxDepth))); err != nil {
			t.Errorf("v%d depth %d: %v", version, MaxDepth, err)
		}

		_, err := Parse(ft.File(version, nested(MaxDepth+1)))
		if !errors.Is(err, ErrOutOfRange) {
			t.Errorf("v%d depth %d: err = %v, want ErrOutOfRange", version, MaxDepth+1, err)
		}
	}
}
