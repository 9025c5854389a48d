package export

import (
	"bytes"
	"testing"

	"fbx-mesh-renderer/internal/geometry"
	"fbx-mesh-renderer/internal/mesh"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

func triangle(name string, mat geometry.Material) mesh.Mesh {
	return mesh.Mesh{
		Name:      name,
		Material:  mat,
		Positions: [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Normals:   [][3]float32{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
		UVs:       [][2]float32{{0, 0}, {1, 0}, {0, 1}},
		Indices:   []uint32{0, 1, 2},
	}
}

func TestBuildSharesMaterials(t *testing.T) {
	wood := geometry.Material{Name: "Wood", Texture: `maps\wood.tga`}
	meshes := []mesh.Mesh{
		triangle("A", wood),
		triangle("B", wood),
		triangle("C", geometry.Material{}),
		{Name: "Empty"},
	}
	doc := Build(meshes)

	if len(doc.Meshes) != 3 || len(doc.Nodes) != 3 || len(doc.Scenes[0].Nodes) != 3 {
		t.Fatalf("meshes %d nodes %d scene %d", len(doc.Meshes), len(doc.Nodes), len(doc.Scenes[0].Nodes))
	}
	if len(doc.Materials) != 2 {
		t.Fatalf("materials = %d, want 2", len(doc.Materials))
	}
	if doc.Materials[0].Name != "Wood" || doc.Materials[1].Name != "default" {
		t.Errorf("material names %q %q", doc.Materials[0].Name, doc.Materials[1].Name)
	}
	if len(doc.Images) != 1 || doc.Images[0].URI != "wood.tga" {
		t.Errorf("images = %+v", doc.Images)
	}
	if *doc.Meshes[1].Primitives[0].Material != 0 || *doc.Meshes[2].Primitives[0].Material != 1 {
		t.Error("material indices not shared")
	}
	if _, ok := doc.Meshes[0].Primitives[0].Attributes["COLOR_0"]; ok {
		t.Error("COLOR_0 written without colours")
	}
}

func TestWriteGLB(t *testing.T) {
	m := triangle("Tri", geometry.Material{Name: "Red"})
	m.Colors = [][4]float32{{1, 0, 0, 1}, {1, 0, 0, 1}, {1, 0, 0, 1}}

	var buf bytes.Buffer
	if err := WriteGLB(&buf, []mesh.Mesh{m}); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("glTF")) {
		t.Fatalf("missing GLB magic: % x", buf.Bytes()[:4])
	}

	doc := new(gltf.Document)
	if err := gltf.NewDecoder(bytes.NewReader(buf.Bytes())).Decode(doc); err != nil {
		t.Fatal(err)
	}
	prim := doc.Meshes[0].Primitives[0]
	positions, err := modeler.ReadPosition(doc, doc.Accessors[prim.Attributes["POSITION"]], nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(positions) != 3 || positions[1] != [3]float32{1, 0, 0} {
		t.Errorf("positions = %v", positions)
	}
	indices, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(indices) != 3 {
		t.Errorf("indices = %v", indices)
	}
	if _, ok := prim.Attributes["COLOR_0"]; !ok {
		t.Error("COLOR_0 missing")
	}
}
