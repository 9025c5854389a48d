package raster

import (
	"image"
	"math"
)

// SampleTexture filters tex bilinearly at (u, v) with a top-left origin.
// Coordinates outside [0, 1) repeat.
func SampleTexture(tex *image.NRGBA, u, v float64) [4]uint8 {
	w, h := tex.Rect.Dx(), tex.Rect.Dy()
	if w == 0 || h == 0 {
		return [4]uint8{}
	}

	fx := repeat(u) * float64(w-1)
	fy := repeat(v) * float64(h-1)
	x0, y0 := int(fx), int(fy)
	x1, y1 := (x0+1)%w, (y0+1)%h
	tx, ty := fx-float64(x0), fy-float64(y0)

	top := mix(texel(tex, x0, y0), texel(tex, x1, y0), tx)
	bottom := mix(texel(tex, x0, y1), texel(tex, x1, y1), tx)
	c := mix(top, bottom, ty)
	return [4]uint8{uint8(c[0] + 0.5), uint8(c[1] + 0.5), uint8(c[2] + 0.5), uint8(c[3] + 0.5)}
}

func repeat(t float64) float64 { return t - math.Floor(t) }

func texel(tex *image.NRGBA, x, y int) [4]float64 {
	p := tex.Pix[y*tex.Stride+x*4:]
	return [4]float64{float64(p[0]), float64(p[1]), float64(p[2]), float64(p[3])}
}

func mix(a, b [4]float64, t float64) [4]float64 {
	for i := range a {
		a[i] += (b[i] - a[i]) * t
	}
	return a
}
