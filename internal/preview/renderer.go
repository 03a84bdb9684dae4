// Package preview renders a painted mesh through a perspective camera with
// flat shading. It is a software rasterizer meant for thumbnails and visual
// checks, not for interactive use.
package preview

import (
	"image"
	"math"

	"inkpaint/internal/camera"
	"inkpaint/internal/composite"
	"inkpaint/internal/mathutil"
	"inkpaint/internal/mesh"
	"inkpaint/internal/postprocess"
)

// Options controls a render. Zero fields take defaults.
type Options struct {
	Size        int // output side in pixels, default 512
	Supersample int // render scale before downsampling, default 2
	Light       *LightConfig
}

// untextured is the surface color used when no texture is given.
var untextured = composite.Texel{160.0 / 255, 160.0 / 255, 170.0 / 255, 1}

// Render draws m, placed in the world by model, as seen from cam. tex is the
// texture the mesh UVs index; nil draws a flat gray surface. A nil cam uses
// FitCamera.
func Render(m *mesh.Mesh, tex *image.NRGBA, cam *camera.Camera, model mathutil.Mat4, opts Options) *image.NRGBA {
	size := opts.Size
	if size <= 0 {
		size = 512
	}
	ss := opts.Supersample
	if ss <= 0 {
		ss = 2
	}
	lc := DefaultLightConfig()
	if opts.Light != nil {
		lc = *opts.Light
	}
	if cam == nil {
		cam = FitCamera(m, model)
	}

	renderSize := size * ss
	fb := NewFrameBuffer(renderSize, renderSize)
	view := *cam
	view.Aspect = 1
	mvp := view.MVP(model)

	for i := 0; i < m.TriangleCount(); i++ {
		pos, uvs := m.Triangle(i)

		var v [3]vertex
		visible := true
		for k := 0; k < 3; k++ {
			var ok bool
			if v[k], ok = project(pos[k], uvs[k], mvp, renderSize, renderSize); !ok {
				visible = false
				break
			}
		}
		if !visible {
			continue
		}

		// Flat shading from the world-space face normal
		w0, w1, w2 := model.MulPoint(pos[0]), model.MulPoint(pos[1]), model.MulPoint(pos[2])
		n := w1.Sub(w0).Cross(w2.Sub(w0))
		if n.Len() < 1e-12 {
			continue
		}
		rasterizeTriangle(fb, v, tex, untextured, lc.Shade(n.Normalize()), &lc)
	}

	img := fb.Image()
	if ss > 1 {
		img = postprocess.Downsample(img, size, size)
	}
	return img
}

// FitCamera returns a three-quarter view camera framing the world-space
// bounding box of m.
func FitCamera(m *mesh.Mesh, model mathutil.Mat4) *camera.Camera {
	if len(m.Vertices) == 0 {
		return camera.Default()
	}
	lo := mathutil.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := mathutil.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, p := range m.Vertices {
		w := model.MulPoint(p)
		for k := 0; k < 3; k++ {
			lo[k] = math.Min(lo[k], w[k])
			hi[k] = math.Max(hi[k], w[k])
		}
	}

	center := lo.Add(hi).Scale(0.5)
	radius := hi.Sub(lo).Len() / 2
	if radius < 1e-3 {
		radius = 1e-3
	}
	cam := camera.Default()
	// Distance at which a sphere of this radius fills the vertical FOV.
	dist := radius / math.Sin(mathutil.Deg2Rad(cam.FOV/2)) * 1.1
	cam = camera.Orbit(center, 25, 20, dist)
	cam.Near = dist * 0.01
	cam.Far = dist * 10
	return cam
}
