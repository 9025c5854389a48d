// Package mesh places reconstructed geometry in preview space.
package mesh

import (
	"fbx-mesh-renderer/internal/geometry"
	"fbx-mesh-renderer/internal/mathutil"
)

// Mesh is one geometry record after axis correction and scaling. Attribute
// slices are parallel to Positions, or nil when the file had no such layer.
type Mesh struct {
	Name     string
	Material geometry.Material

	Positions [][3]float32
	Normals   [][3]float32
	UVs       [][2]float32 // top-left origin
	Colors    [][4]float32
	Indices   []uint32
}

// Build converts records into meshes. materials is parallel to records and
// may be shorter; scale is applied uniformly after the Z-up to Y-up rotation.
func Build(records []geometry.Record, materials []geometry.Material, scale float64) []Mesh {
	if scale == 0 {
		scale = 1
	}
	place := mathutil.FromMat3Translation(
		mathutil.Mat3Mul(mathutil.Mat3Diag(scale, scale, scale), mathutil.AxisCorrection),
		mathutil.Vec3{},
	)
	normalMat := place.Linear().NormalMatrix()

	meshes := make([]Mesh, 0, len(records))
	for i := range records {
		rec := &records[i]
		m := Mesh{
			Name:    rec.Name,
			Indices: rec.Indices,
		}
		if i < len(materials) {
			m.Material = materials[i]
		}

		n := rec.VertexCount()
		m.Positions = make([][3]float32, n)
		for v := 0; v < n; v++ {
			m.Positions[v] = place.MulPoint(vec3(rec.Positions[v*3:])).F32()
		}

		if rec.Normals != nil {
			m.Normals = make([][3]float32, len(rec.Normals)/3)
			for v := range m.Normals {
				m.Normals[v] = normalMat.MulVec3(vec3(rec.Normals[v*3:])).Normalize().F32()
			}
		}
		if rec.UVs != nil {
			m.UVs = make([][2]float32, len(rec.UVs)/2)
			for v := range m.UVs {
				m.UVs[v] = [2]float32{rec.UVs[v*2], 1 - rec.UVs[v*2+1]}
			}
		}
		if rec.Colors != nil {
			m.Colors = make([][4]float32, len(rec.Colors)/4)
			for v := range m.Colors {
				copy(m.Colors[v][:], rec.Colors[v*4:v*4+4])
			}
		}

		meshes = append(meshes, m)
	}
	return meshes
}

func vec3(f []float32) mathutil.Vec3 {
	return mathutil.V32([3]float32(f[:3]))
}

// Bounds returns the axis-aligned box of the mesh positions. ok is false for
// an empty mesh.
func (m *Mesh) Bounds() (lo, hi mathutil.Vec3, ok bool) {
	var box mathutil.Box
	for _, p := range m.Positions {
		box.Extend(mathutil.V32(p))
	}
	return box.Min, box.Max, !box.Empty()
}

// TriangleCount returns the number of triangles in the index buffer.
func (m *Mesh) TriangleCount() int { return len(m.Indices) / 3 }
