package mathutil

import "math"

// Mat3 is a 3×3 matrix stored row-major.
type Mat3 [9]float64

func Mat3Identity() Mat3 {
	return Mat3Diag(1, 1, 1)
}

func Mat3Diag(x, y, z float64) Mat3 {
	return Mat3{x, 0, 0, 0, y, 0, 0, 0, z}
}

func Mat3FromRows(r0, r1, r2 Vec3) Mat3 {
	return Mat3{
		r0[0], r0[1], r0[2],
		r1[0], r1[1], r1[2],
		r2[0], r2[1], r2[2],
	}
}

func (m Mat3) Row(i int) Vec3 { return Vec3{m[i*3], m[i*3+1], m[i*3+2]} }

func (m Mat3) Col(j int) Vec3 { return Vec3{m[j], m[3+j], m[6+j]} }

// Mat3Mul returns a × b.
func Mat3Mul(a, b Mat3) Mat3 {
	var m Mat3
	for r := 0; r < 3; r++ {
		row := a.Row(r)
		for c := 0; c < 3; c++ {
			m[r*3+c] = row.Dot(b.Col(c))
		}
	}
	return m
}

// MulVec3 returns m × v.
func (m Mat3) MulVec3(v Vec3) Vec3 {
	return Vec3{m.Row(0).Dot(v), m.Row(1).Dot(v), m.Row(2).Dot(v)}
}

func (m Mat3) Transpose() Mat3 {
	return Mat3FromRows(m.Col(0), m.Col(1), m.Col(2))
}

// Inverse returns m⁻¹, or the identity when m is singular. The columns of
// the inverse are the pairwise cross products of the rows over the
// determinant.
func (m Mat3) Inverse() Mat3 {
	r0, r1, r2 := m.Row(0), m.Row(1), m.Row(2)
	c0, c1, c2 := r1.Cross(r2), r2.Cross(r0), r0.Cross(r1)
	det := r0.Dot(c0)
	if det == 0 {
		return Mat3Identity()
	}
	inv := 1 / det
	return Mat3FromRows(c0.Scale(inv), c1.Scale(inv), c2.Scale(inv)).Transpose()
}

// NormalMatrix carries surface normals through the linear map m.
func (m Mat3) NormalMatrix() Mat3 {
	return m.Inverse().Transpose()
}

// RotX rotates a radians about +X, counter-clockwise looking down the axis.
func RotX(a float64) Mat3 {
	s, c := math.Sincos(a)
	return Mat3FromRows(Vec3{1, 0, 0}, Vec3{0, c, -s}, Vec3{0, s, c})
}

// RotY rotates a radians about +Y.
func RotY(a float64) Mat3 {
	s, c := math.Sincos(a)
	return Mat3FromRows(Vec3{c, 0, s}, Vec3{0, 1, 0}, Vec3{-s, 0, c})
}

func Radians(deg float64) float64 { return deg * math.Pi / 180 }
