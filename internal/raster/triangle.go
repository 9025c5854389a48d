package raster

import (
	"image"
	"math"

	"fbx-mesh-renderer/internal/mathutil"
)

// Surface holds the per-mesh inputs a triangle samples its colour from.
// UVs and Colors are indexed like the projected vertices.
type Surface struct {
	UVs    [][2]float32
	Colors [][4]float32
	Tex    *image.NRGBA
	Base   [4]uint8 // used when neither texture nor vertex colours apply
}

// RasterizeTriangle fills one flat-shaded triangle into fb. Colour comes
// from the texture, the interpolated vertex colours or the surface base, in
// that order. The pixel loop does not allocate.
func RasterizeTriangle(
	fb *FrameBuffer,
	px, py, pz []float64,
	vi [3]int,
	s *Surface,
	lc *LightConfig,
) {
	nv := len(px)
	for _, i := range vi {
		if i < 0 || i >= nv {
			return
		}
	}

	x0, y0, z0 := px[vi[0]], py[vi[0]], pz[vi[0]]
	x1, y1, z1 := px[vi[1]], py[vi[1]], pz[vi[1]]
	x2, y2, z2 := px[vi[2]], py[vi[2]], pz[vi[2]]

	hasUV := s.Tex != nil
	hasColor := !hasUV && len(s.Colors) > 0
	for _, i := range vi {
		if i >= len(s.UVs) {
			hasUV = false
		}
		if i >= len(s.Colors) {
			hasColor = false
		}
	}

	var u0, v0uv, u1, v1uv, u2, v2uv float64
	if hasUV {
		u0, v0uv = float64(s.UVs[vi[0]][0]), float64(s.UVs[vi[0]][1])
		u1, v1uv = float64(s.UVs[vi[1]][0]), float64(s.UVs[vi[1]][1])
		u2, v2uv = float64(s.UVs[vi[2]][0]), float64(s.UVs[vi[2]][1])
	}
	var c0, c1, c2 [4]float32
	if hasColor {
		c0, c1, c2 = s.Colors[vi[0]], s.Colors[vi[1]], s.Colors[vi[2]]
	}

	// Face normal for flat shading
	e1 := mathutil.Vec3{x1 - x0, y1 - y0, z1 - z0}
	e2 := mathutil.Vec3{x2 - x0, y2 - y0, z2 - z0}
	n := e1.Cross(e2)
	if n.Len() < 1e-8 {
		return
	}
	light := lc.Shade(n.Normalize()) * lc.Exposure

	// Bounding box
	size := fb.Width
	minX := int(math.Min(math.Min(x0, x1), x2))
	maxX := int(math.Max(math.Max(x0, x1), x2)) + 1
	minY := int(math.Min(math.Min(y0, y1), y2))
	maxY := int(math.Max(math.Max(y0, y1), y2)) + 1

	if minX < 0 {
		minX = 0
	}
	if maxX >= size {
		maxX = size - 1
	}
	if minY < 0 {
		minY = 0
	}
	if maxY >= fb.Height {
		maxY = fb.Height - 1
	}
	if minX >= maxX || minY >= maxY {
		return
	}

	// Barycentric setup
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1.0 / det

	// Precompute edge deltas
	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) - y2
		rowOff := sy * size
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1

			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}

			z := w0*z0 + w1*z1 + w2*z2
			zIdx := rowOff + sx
			if z <= fb.ZBuf[zIdx] {
				continue
			}

			var cr, cg, cb, ca uint8
			switch {
			case hasUV:
				u := w0*u0 + w1*u1 + w2*u2
				v := w0*v0uv + w1*v1uv + w2*v2uv
				tc := SampleTexture(s.Tex, u, v)
				cr, cg, cb, ca = tc[0], tc[1], tc[2], tc[3]
			case hasColor:
				cr = lerpChannel(c0[0], c1[0], c2[0], w0, w1, w2)
				cg = lerpChannel(c0[1], c1[1], c2[1], w0, w1, w2)
				cb = lerpChannel(c0[2], c1[2], c2[2], w0, w1, w2)
				ca = lerpChannel(c0[3], c1[3], c2[3], w0, w1, w2)
			default:
				cr, cg, cb, ca = s.Base[0], s.Base[1], s.Base[2], s.Base[3]
			}

			// Skip transparent texels
			if ca < 8 {
				continue
			}
			fb.ZBuf[zIdx] = z

			pxIdx := zIdx * 4
			fb.Color[pxIdx] = expose(cr, light)
			fb.Color[pxIdx+1] = expose(cg, light)
			fb.Color[pxIdx+2] = expose(cb, light)
			fb.Color[pxIdx+3] = ca
		}
	}
}

// lerpChannel interpolates one 0..1 vertex colour channel to a byte.
func lerpChannel(a, b, c float32, w0, w1, w2 float64) uint8 {
	return clamp255((w0*float64(a) + w1*float64(b) + w2*float64(c)) * 255)
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
