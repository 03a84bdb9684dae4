package preview

import (
	"image"
	"math"

	"inkpaint/internal/composite"
	"inkpaint/internal/mathutil"
)

// vertex is a projected triangle corner. UV is stored divided by w so it
// can be interpolated linearly in screen space.
type vertex struct {
	x, y   float64 // pixel coordinates
	invW   float64
	uw, vw float64
}

// project maps p through mvp to pixel coordinates of a w×h target. ok is
// false for points behind the near plane.
func project(p mathutil.Vec3, uv mathutil.Vec2, mvp mathutil.Mat4, w, h int) (vertex, bool) {
	c := mvp.MulVec4(mathutil.Vec4{p[0], p[1], p[2], 1})
	if c[3] <= 1e-6 {
		return vertex{}, false
	}
	inv := 1 / c[3]
	return vertex{
		x:    (c[0]*inv + 1) * 0.5 * float64(w),
		y:    (1 - c[1]*inv) * 0.5 * float64(h),
		invW: inv,
		uw:   uv[0] * inv,
		vw:   uv[1] * inv,
	}, true
}

// rasterizeTriangle fills one triangle with perspective-correct texture
// lookups and a depth test. tex may be nil, in which case base is used.
// No allocation happens in the pixel loop.
func rasterizeTriangle(fb *FrameBuffer, v [3]vertex, tex *image.NRGBA, base composite.Texel, shade float64, lc *LightConfig) {
	x0, y0 := v[0].x, v[0].y
	x1, y1 := v[1].x, v[1].y
	x2, y2 := v[2].x, v[2].y

	minX := int(math.Floor(math.Min(math.Min(x0, x1), x2)))
	maxX := int(math.Ceil(math.Max(math.Max(x0, x1), x2)))
	minY := int(math.Floor(math.Min(math.Min(y0, y1), y2)))
	maxY := int(math.Ceil(math.Max(math.Max(y0, y1), y2)))
	minX = max(minX, 0)
	minY = max(minY, 0)
	maxX = min(maxX, fb.Width-1)
	maxY = min(maxY, fb.Height-1)
	if minX > maxX || minY > maxY {
		return
	}

	// Barycentric setup
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1.0 / det
	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) + 0.5 - y2
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) + 0.5 - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1
			if w0 < -1e-4 || w1 < -1e-4 || w2 < -1e-4 {
				continue
			}

			invW := w0*v[0].invW + w1*v[1].invW + w2*v[2].invW
			zIdx := rowOff + sx
			if invW <= fb.Depth[zIdx] {
				continue
			}

			c := base
			if tex != nil {
				u := (w0*v[0].uw + w1*v[1].uw + w2*v[2].uw) / invW
				t := (w0*v[0].vw + w1*v[1].vw + w2*v[2].vw) / invW
				c = composite.Sample(tex, u, t, composite.Repeat)
			}
			// Skip transparent texels
			if c[3] < 8.0/255 {
				continue
			}
			fb.Depth[zIdx] = invW

			i := zIdx * 4
			fb.Color[i] = clamp255(lc.apply(c[0], shade) * 255)
			fb.Color[i+1] = clamp255(lc.apply(c[1], shade) * 255)
			fb.Color[i+2] = clamp255(lc.apply(c[2], shade) * 255)
			fb.Color[i+3] = clamp255(c[3] * 255)
		}
	}
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
