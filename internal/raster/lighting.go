package raster

import (
	"math"

	"fbx-mesh-renderer/internal/mathutil"
)

const gamma = 2.2

// LightConfig is the flat-shading rig applied to every face: a key light
// with a Blinn-Phong highlight, a rim light and a sky fill.
type LightConfig struct {
	Key  mathutil.Vec3
	Rim  mathutil.Vec3
	Half mathutil.Vec3 // key/view half-vector

	Ambient   float64
	Fill      float64
	KeyGain   float64
	RimGain   float64
	Specular  float64
	Shininess float64
	Exposure  float64
}

// DefaultLightConfig returns the preview rig.
func DefaultLightConfig() LightConfig {
	key := mathutil.Vec3{180, 260, 140}.Normalize()
	view := mathutil.Vec3{0, -110, -400}.Normalize()
	return LightConfig{
		Key:       key,
		Rim:       mathutil.Vec3{-160, 130, -210}.Normalize(),
		Half:      key.Sub(view).Normalize(),
		Ambient:   0.55,
		Fill:      0.50,
		KeyGain:   1.50,
		RimGain:   0.60,
		Specular:  0.45,
		Shininess: 12,
		Exposure:  1.05,
	}
}

// Shade returns the light reaching a face with unit normal n. Both sides of
// a face receive the key and rim light.
func (lc *LightConfig) Shade(n mathutil.Vec3) float64 {
	sky := 0.5 + 0.5*(1-math.Abs(n[1]))
	highlight := math.Pow(math.Max(n.Dot(lc.Half), 0), lc.Shininess)

	return lc.Ambient +
		sky*lc.Fill +
		math.Abs(n.Dot(lc.Key))*lc.KeyGain +
		math.Abs(n.Dot(lc.Rim))*lc.RimGain +
		highlight*lc.Specular
}

var linearOf [256]float64

func init() {
	for i := range linearOf {
		linearOf[i] = math.Pow(float64(i)/255, gamma)
	}
}

// expose lights an sRGB channel in linear space, tone maps it with the ACES
// filmic curve and encodes it back to sRGB.
func expose(c uint8, light float64) uint8 {
	x := linearOf[c] * light
	x = (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
	return clamp255(math.Pow(x, 1/gamma) * 255)
}
