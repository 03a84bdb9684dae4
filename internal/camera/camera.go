// Package camera builds the view and projection matrices used to compute a
// perspective-correct UV from a world-space point.
package camera

import (
	"inkpaint/internal/mathutil"
)

// Camera is a perspective camera. FOV is the vertical field of view in degrees.
type Camera struct {
	Eye    mathutil.Vec3 `json:"eye"`
	Target mathutil.Vec3 `json:"target"`
	Up     mathutil.Vec3 `json:"up"`
	FOV    float64       `json:"fov"`
	Aspect float64       `json:"aspect"`
	Near   float64       `json:"near"`
	Far    float64       `json:"far"`
}

// Default returns the fallback camera: on +Z, looking at the origin.
func Default() *Camera {
	return &Camera{
		Eye:    mathutil.DefaultEye,
		Up:     mathutil.DefaultUp,
		FOV:    mathutil.DefaultFOV,
		Aspect: 1,
		Near:   mathutil.DefaultNear,
		Far:    mathutil.DefaultFar,
	}
}

// Orbit places a camera dist units from target, rotated by yaw around Y and
// pitch around X (degrees).
func Orbit(target mathutil.Vec3, yaw, pitch, dist float64) *Camera {
	c := Default()
	r := mathutil.Mat3Mul(mathutil.RotY(mathutil.Deg2Rad(yaw)), mathutil.RotX(mathutil.Deg2Rad(-pitch)))
	c.Eye = target.Add(r.MulVec3(mathutil.Vec3{0, 0, dist}))
	c.Target = target
	return c
}

// withDefaults fills zero fields so a partially specified camera (e.g. from
// JSON) is still usable.
func (c Camera) withDefaults() Camera {
	if c.Up == (mathutil.Vec3{}) {
		c.Up = mathutil.DefaultUp
	}
	if c.FOV <= 0 {
		c.FOV = mathutil.DefaultFOV
	}
	if c.Aspect <= 0 {
		c.Aspect = 1
	}
	if c.Near <= 0 {
		c.Near = mathutil.DefaultNear
	}
	if c.Far <= c.Near {
		c.Far = mathutil.DefaultFar
	}
	if c.Eye == c.Target {
		c.Eye = c.Target.Add(mathutil.DefaultEye)
	}
	// An Up parallel to the view direction collapses the view basis.
	f := c.Target.Sub(c.Eye).Normalize()
	if parallel(f, c.Up) {
		c.Up = mathutil.DefaultUp
		if parallel(f, c.Up) {
			c.Up = mathutil.Vec3{0, 0, -1}
		}
	}
	return c
}

func parallel(a, b mathutil.Vec3) bool {
	return a.Cross(b.Normalize()).Len() < 1e-6
}

// View returns the world-to-camera matrix.
func (c *Camera) View() mathutil.Mat4 {
	d := c.withDefaults()
	return mathutil.LookAt(d.Eye, d.Target, d.Up)
}

// Projection returns the camera-to-clip matrix.
func (c *Camera) Projection() mathutil.Mat4 {
	d := c.withDefaults()
	return mathutil.Perspective(d.FOV, d.Aspect, d.Near, d.Far)
}

// MVP returns projection × view × model.
func (c *Camera) MVP(model mathutil.Mat4) mathutil.Mat4 {
	return mathutil.Mat4Mul(c.Projection(), mathutil.Mat4Mul(c.View(), model))
}
