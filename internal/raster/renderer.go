package raster

import (
	"image"
	"math"

	"fbx-mesh-renderer/internal/mathutil"
	"fbx-mesh-renderer/internal/mesh"
	"fbx-mesh-renderer/internal/texture"
)

// Render draws meshes through the view rotation R onto a square NRGBA image
// of size*supersample pixels. The model is centred and fitted to the frame.
func Render(
	meshes []mesh.Mesh,
	R mathutil.Mat3,
	texResolver texture.Resolver,
	size int,
	supersample int,
) *image.NRGBA {
	if supersample < 1 {
		supersample = 1
	}
	renderSize := size * supersample

	var box mathutil.Box
	for _, m := range meshes {
		for _, v := range m.Positions {
			box.Extend(R.MulVec3(mathutil.V32(v)))
		}
	}
	if box.Empty() {
		return image.NewNRGBA(image.Rect(0, 0, renderSize, renderSize))
	}

	center := box.Center()
	extent := box.Size()
	span := math.Max(extent[0], extent[1])
	if span < 0.001 {
		span = 0.001
	}

	margin := 16 * supersample
	scale := float64(renderSize-2*margin) / span

	fb := NewFrameBuffer(renderSize, renderSize)
	lc := DefaultLightConfig()

	for i := range meshes {
		m := &meshes[i]
		if len(m.Positions) == 0 {
			continue
		}

		px, py, pz := ProjectVertices(m.Positions, R, center, scale, renderSize)

		s := Surface{UVs: m.UVs, Colors: m.Colors}
		if texResolver != nil && m.Material.Texture != "" {
			s.Tex = texResolver.Resolve(m.Material.Texture)
		}
		s.Base = [4]uint8{160, 160, 170, 255}
		if s.Tex != nil {
			s.Base = averageColor(s.Tex)
		}

		for t := 0; t+2 < len(m.Indices); t += 3 {
			vi := [3]int{int(m.Indices[t]), int(m.Indices[t+1]), int(m.Indices[t+2])}
			RasterizeTriangle(fb, px, py, pz, vi, &s, &lc)
		}
	}

	return fb.Image()
}

// ProjectVertices maps positions to orthographic screen coordinates.
// Returns px, py, pz slices (screen X, screen Y, depth).
func ProjectVertices(verts [][3]float32, R mathutil.Mat3, center mathutil.Vec3, scale float64, renderSize int) ([]float64, []float64, []float64) {
	n := len(verts)
	px := make([]float64, n)
	py := make([]float64, n)
	pz := make([]float64, n)

	half := float64(renderSize) / 2
	for i, v := range verts {
		t := R.MulVec3(mathutil.V32(v)).Sub(center)
		px[i] = half + t[0]*scale
		py[i] = half - t[1]*scale
		pz[i] = t[2] * scale
	}
	return px, py, pz
}

func averageColor(tex *image.NRGBA) [4]uint8 {
	b := tex.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return [4]uint8{160, 160, 170, 255}
	}

	var sumR, sumG, sumB float64
	total := w * h
	stride := tex.Stride
	for y := 0; y < h; y++ {
		off := y * stride
		for x := 0; x < w; x++ {
			i := off + x*4
			sumR += float64(tex.Pix[i])
			sumG += float64(tex.Pix[i+1])
			sumB += float64(tex.Pix[i+2])
		}
	}
	n := float64(total)
	return [4]uint8{uint8(sumR/n + 0.5), uint8(sumG/n + 0.5), uint8(sumB/n + 0.5), 255}
}
