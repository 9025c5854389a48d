// Package export writes placed meshes as binary glTF.
package export

import (
	"fmt"
	"io"
	"path"
	"strings"

	"fbx-mesh-renderer/internal/geometry"
	"fbx-mesh-renderer/internal/mesh"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// Build assembles a glTF document with one mesh and node per input mesh and
// one material per distinct material. Meshes without a material share a
// default one.
func Build(meshes []mesh.Mesh) *gltf.Document {
	doc := gltf.NewDocument()
	materials := make(map[geometry.Material]uint32)
	images := make(map[string]uint32)

	for i := range meshes {
		m := &meshes[i]
		if len(m.Positions) == 0 || len(m.Indices) == 0 {
			continue
		}

		attributes := map[string]uint32{
			"POSITION": modeler.WritePosition(doc, m.Positions),
		}
		if m.Normals != nil {
			attributes["NORMAL"] = modeler.WriteNormal(doc, m.Normals)
		}
		if m.UVs != nil {
			attributes["TEXCOORD_0"] = modeler.WriteTextureCoord(doc, m.UVs)
		}
		if m.Colors != nil {
			attributes["COLOR_0"] = modeler.WriteColor(doc, colorBytes(m.Colors))
		}
		indices := modeler.WriteIndices(doc, m.Indices)

		mat, ok := materials[m.Material]
		if !ok {
			mat = addMaterial(doc, m.Material, images)
			materials[m.Material] = mat
		}

		name := m.Name
		if name == "" {
			name = fmt.Sprintf("geometry_%d", i)
		}
		doc.Meshes = append(doc.Meshes, &gltf.Mesh{
			Name: name,
			Primitives: []*gltf.Primitive{
				{
					Indices:    &indices,
					Attributes: attributes,
					Material:   gltf.Index(mat),
				},
			},
		})

		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(len(doc.Nodes)))
		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name: name,
			Mesh: gltf.Index(uint32(len(doc.Meshes) - 1)),
		})
	}

	return doc
}

func addMaterial(doc *gltf.Document, m geometry.Material, images map[string]uint32) uint32 {
	name := m.Name
	if name == "" {
		name = "default"
	}
	color := &[4]float32{0.8, 0.8, 0.8, 1}
	gm := &gltf.Material{
		Name:        name,
		DoubleSided: true,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: color,
		},
	}

	if m.Texture != "" {
		uri := path.Base(strings.ReplaceAll(m.Texture, "\\", "/"))
		img, ok := images[uri]
		if !ok {
			img = uint32(len(doc.Images))
			doc.Images = append(doc.Images, &gltf.Image{Name: uri, URI: uri})
			images[uri] = img
		}
		doc.Textures = append(doc.Textures, &gltf.Texture{Source: gltf.Index(img)})
		gm.PBRMetallicRoughness.BaseColorFactor = &[4]float32{1, 1, 1, 1}
		gm.PBRMetallicRoughness.BaseColorTexture = &gltf.TextureInfo{
			Index: uint32(len(doc.Textures) - 1),
		}
	}

	doc.Materials = append(doc.Materials, gm)
	return uint32(len(doc.Materials) - 1)
}

func colorBytes(colors [][4]float32) [][4]uint8 {
	out := make([][4]uint8, len(colors))
	for i, c := range colors {
		for k, v := range c {
			out[i][k] = uint8(min(max(v, 0), 1)*255 + 0.5)
		}
	}
	return out
}

// WriteGLB encodes meshes as a single binary glTF stream.
func WriteGLB(w io.Writer, meshes []mesh.Mesh) error {
	encoder := gltf.NewEncoder(w)
	encoder.AsBinary = true
	if err := encoder.Encode(Build(meshes)); err != nil {
		return fmt.Errorf("export: encode glb: %w", err)
	}
	return nil
}
