package preview

import (
	"math"

	"inkpaint/internal/mathutil"
)

// LightConfig holds the world-space lighting rig of the preview.
type LightConfig struct {
	LightDir mathutil.Vec3
	RimDir   mathutil.Vec3
	HalfMain mathutil.Vec3 // Blinn-Phong half vector for a viewer on +Z
	Ambient  float64
	Hemi     float64
	Direct   float64
	Rim      float64
	SpecInt  float64
	SpecPow  float64
	Exposure float64
	InvGamma float64
}

// DefaultLightConfig returns a key light from the upper right, a cool rim
// from behind and a soft hemisphere fill.
func DefaultLightConfig() LightConfig {
	lightDir := mathutil.Vec3{0.45, 0.65, 0.6}.Normalize()
	rimDir := mathutil.Vec3{-0.5, 0.4, -0.65}.Normalize()
	viewDir := mathutil.Vec3{0, 0, 1}

	return LightConfig{
		LightDir: lightDir,
		RimDir:   rimDir,
		HalfMain: lightDir.Add(viewDir).Normalize(),
		Ambient:  0.35,
		Hemi:     0.30,
		Direct:   0.90,
		Rim:      0.25,
		SpecInt:  0.20,
		SpecPow:  16,
		Exposure: 1.0,
		InvGamma: 1.0 / 2.2,
	}
}

// Shade returns the combined lighting scalar for a face normal. Faces are
// lit from both sides.
func (lc *LightConfig) Shade(normal mathutil.Vec3) float64 {
	ndlMain := math.Abs(normal.Dot(lc.LightDir))
	ndlRim := math.Abs(normal.Dot(lc.RimDir))

	hemi := (1.0-math.Abs(normal[1]))*0.5 + 0.5

	ndh := math.Abs(normal.Dot(lc.HalfMain))
	spec := math.Pow(ndh, lc.SpecPow) * lc.SpecInt

	return lc.Ambient + hemi*lc.Hemi + ndlMain*lc.Direct + ndlRim*lc.Rim + spec
}

// apply lights an sRGB channel value in [0,1] and returns it re-encoded.
func (lc *LightConfig) apply(c, shade float64) float64 {
	lin := math.Pow(c, 2.2)
	return math.Pow(ACESTonemap(lin*shade*lc.Exposure), lc.InvGamma)
}

// ACESTonemap applies ACES Filmic tone mapping to a linear value.
func ACESTonemap(x float64) float64 {
	return (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
}
