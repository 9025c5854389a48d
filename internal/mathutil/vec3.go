package mathutil

import "math"

// Vec3 is a point or direction in model space.
type Vec3 [3]float64

// V32 widens a mesh buffer entry.
func V32(p [3]float32) Vec3 {
	return Vec3{float64(p[0]), float64(p[1]), float64(p[2])}
}

// F32 narrows v for storage in a mesh buffer.
func (v Vec3) F32() [3]float32 {
	return [3]float32{float32(v[0]), float32(v[1]), float32(v[2])}
}

func (v Vec3) Add(w Vec3) Vec3 {
	for i := range v {
		v[i] += w[i]
	}
	return v
}

func (v Vec3) Sub(w Vec3) Vec3 {
	return v.Add(w.Scale(-1))
}

func (v Vec3) Scale(s float64) Vec3 {
	for i := range v {
		v[i] *= s
	}
	return v
}

func (v Vec3) Dot(w Vec3) float64 {
	return v[0]*w[0] + v[1]*w[1] + v[2]*w[2]
}

func (v Vec3) Cross(w Vec3) Vec3 {
	return Vec3{
		v[1]*w[2] - v[2]*w[1],
		v[2]*w[0] - v[0]*w[2],
		v[0]*w[1] - v[1]*w[0],
	}
}

func (v Vec3) Len() float64 {
	return math.Sqrt(v.Dot(v))
}

// Normalize returns the unit vector along v, or zero when v is degenerate.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l < 1e-12 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Box is an axis-aligned bounding box. The zero value is empty.
type Box struct {
	Min, Max Vec3
	filled   bool
}

// Extend grows the box to contain p.
func (b *Box) Extend(p Vec3) {
	if !b.filled {
		b.Min, b.Max, b.filled = p, p, true
		return
	}
	for i := range p {
		b.Min[i] = math.Min(b.Min[i], p[i])
		b.Max[i] = math.Max(b.Max[i], p[i])
	}
}

func (b Box) Empty() bool { return !b.filled }

func (b Box) Center() Vec3 { return b.Min.Add(b.Max).Scale(0.5) }

func (b Box) Size() Vec3 { return b.Max.Sub(b.Min) }
