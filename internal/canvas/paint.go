package canvas

import (
	"image"
	"image/color"

	"inkpaint/internal/brush"
	"inkpaint/internal/camera"
	"inkpaint/internal/composite"
	"inkpaint/internal/logging"
	"inkpaint/internal/mathutil"
)

// Hit is a raycast result against the painted mesh. UV is only meaningful
// when HasUV is set.
type Hit struct {
	Point mathutil.Vec3
	UV    mathutil.Vec2
	HasUV bool
}

var neutral = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

// PaintAtUV stamps b at uv on every paint set, or only on those whose
// material name is listed. It reports false if the canvas is not ready.
func (c *Canvas) PaintAtUV(b brush.Brush, uv mathutil.Vec2, materials ...string) bool {
	return c.paintUV(b, uv, false, materials)
}

// EraseAtUV is PaintAtUV with stamps resampled from the erase source.
func (c *Canvas) EraseAtUV(b brush.Brush, uv mathutil.Vec2, materials ...string) bool {
	return c.paintUV(b, uv, true, materials)
}

// PaintAtWorldPoint resolves a world-space surface point to a UV through cam
// (nil uses the canvas camera) and paints there. If no triangle contains the
// point it falls back to PaintNearestSurface.
func (c *Canvas) PaintAtWorldPoint(b brush.Brush, p mathutil.Vec3, cam *camera.Camera) bool {
	return c.paintWorld(b, p, cam, false)
}

func (c *Canvas) EraseAtWorldPoint(b brush.Brush, p mathutil.Vec3, cam *camera.Camera) bool {
	return c.paintWorld(b, p, cam, true)
}

// PaintNearestSurface projects an approximate world-space point onto the
// mesh and paints at the projection.
func (c *Canvas) PaintNearestSurface(b brush.Brush, p mathutil.Vec3, cam *camera.Camera) bool {
	return c.paintNearest(b, p, cam, false)
}

func (c *Canvas) EraseNearestSurface(b brush.Brush, p mathutil.Vec3, cam *camera.Camera) bool {
	return c.paintNearest(b, p, cam, true)
}

// PaintFromHit paints at the hit's UV when it carries one and at its world
// point otherwise.
func (c *Canvas) PaintFromHit(b brush.Brush, h Hit, cam *camera.Camera) bool {
	if h.HasUV {
		return c.paintUV(b, h.UV, false, nil)
	}
	return c.paintWorld(b, h.Point, cam, false)
}

func (c *Canvas) EraseFromHit(b brush.Brush, h Hit, cam *camera.Camera) bool {
	if h.HasUV {
		return c.paintUV(b, h.UV, true, nil)
	}
	return c.paintWorld(b, h.Point, cam, true)
}

func (c *Canvas) mvp(cam *camera.Camera) mathutil.Mat4 {
	if cam == nil {
		cam = c.camera
	}
	if cam == nil {
		cam = camera.Default()
	}
	return cam.MVP(c.transform)
}

func (c *Canvas) paintWorld(b brush.Brush, p mathutil.Vec3, cam *camera.Camera, erase bool) bool {
	if c.state != StateReady {
		logging.Logger().Warn("canvas: paint on canvas that is not ready", "state", c.state)
		return false
	}
	local := c.inverse.MulPoint(p)
	if uv, ok := c.op.LocalPointToUV(local, c.mvp(cam)); ok {
		return c.paintUV(b, uv, erase, nil)
	}
	logging.Logger().Warn("canvas: point not on surface, using nearest surface point",
		"mesh", c.mesh.Name, "point", p)
	return c.paintNearest(b, p, cam, erase)
}

func (c *Canvas) paintNearest(b brush.Brush, p mathutil.Vec3, cam *camera.Camera, erase bool) bool {
	if c.state != StateReady {
		logging.Logger().Warn("canvas: paint on canvas that is not ready", "state", c.state)
		return false
	}
	local, ok := c.op.NearestLocalSurfacePoint(c.inverse.MulPoint(p))
	if !ok {
		return false
	}
	mvp := c.mvp(cam)
	uv, ok := c.op.LocalPointToUV(local, mvp)
	if !ok {
		// The projection can land just outside every triangle.
		if uv, ok = c.op.ClosestTriangleUV(local, mvp); !ok {
			return false
		}
	}
	return c.paintUV(b, uv, erase, nil)
}

func (c *Canvas) paintUV(b brush.Brush, uv mathutil.Vec2, erase bool, materials []string) bool {
	if c.state != StateReady {
		logging.Logger().Warn("canvas: paint on canvas that is not ready", "state", c.state)
		return false
	}
	c.erasing = erase
	defer func() { c.erasing = false }()

	clone := b.Clone()
	for _, fn := range c.hooks.PaintStart {
		fn(c, &clone)
	}
	for _, ps := range c.sets {
		if !matchMaterial(ps, materials) {
			continue
		}
		for _, ch := range Channels {
			if err := c.compositeChannel(ps, ch, clone, uv, erase); err != nil {
				logging.Logger().Warn("canvas: composite failed",
					"material", ps.Name(), "channel", ch, "err", err)
			}
		}
	}
	fire(c, c.hooks.PaintEnd)
	return true
}

func matchMaterial(ps *PaintSet, names []string) bool {
	if len(names) == 0 {
		return true
	}
	for _, n := range names {
		if MaterialName(n) == ps.Name() {
			return true
		}
	}
	return false
}

func channelStamp(b brush.Brush, ch Channel) *image.NRGBA {
	switch ch {
	case ChannelColor:
		return b.ColorStamp()
	case ChannelNormal:
		return b.NormalStamp()
	case ChannelHeight:
		return b.HeightStamp()
	}
	return nil
}

func channelOp(b brush.Brush, ch Channel, stamp *image.NRGBA) composite.Op {
	switch ch {
	case ChannelNormal:
		return composite.NormalOp{Mode: b.NormalMode(), Stamp: stamp, Amount: b.NormalBlend()}
	case ChannelHeight:
		return composite.HeightOp{Mode: b.HeightMode(), Stamp: stamp, Amount: b.HeightBlend(), Tint: b.Tint()}
	}
	return composite.ColorOp{Mode: b.ColorMode(), Stamp: stamp, Tint: b.Tint()}
}

// eraseOp is the full-strength replace that writes a resampled stamp back.
func eraseOp(ch Channel, stamp *image.NRGBA) composite.Op {
	switch ch {
	case ChannelNormal:
		return composite.NormalOp{Mode: brush.NormalUseStamp, Stamp: stamp, Amount: 1}
	case ChannelHeight:
		return composite.HeightOp{Mode: brush.HeightUseStamp, Stamp: stamp, Amount: 1, Tint: neutral}
	}
	return composite.ColorOp{Mode: brush.ColorUseStamp, Stamp: stamp, Tint: neutral}
}

// compositeChannel applies one channel of b to ps. Channels that are disabled,
// unallocated or without a stamp are skipped before any scratch buffer is
// taken.
func (c *Canvas) compositeChannel(ps *PaintSet, ch Channel, b brush.Brush, uv mathutil.Vec2, erase bool) error {
	buf := ps.buffer[ch]
	stamp := channelStamp(b, ch)
	if !ps.Enabled(ch) || buf == nil || stamp == nil {
		return nil
	}

	mask := b.ColorStamp()
	if mask == nil {
		mask = stamp
	}
	p := composite.Params{
		Footprint: composite.Footprint{UV: uv, Scale: b.Scale(), Rotation: b.Rotation()},
		Mask:      mask,
		Op:        channelOp(b, ch, stamp),
	}

	if erase {
		source := buf
		if c.eraseSource == EraseFromOriginal && ps.original[ch] != nil {
			source = ps.original[ch]
		}
		derived := c.backend.Allocate(stamp.Rect.Dx(), stamp.Rect.Dy())
		defer c.backend.Release(derived)
		err := c.backend.Grab(derived, composite.GrabParams{
			Footprint: p.Footprint,
			Source:    source,
			Mask:      mask,
			Wrap:      composite.Clamp,
		})
		if err != nil {
			return err
		}
		p.Op = eraseOp(ch, derived)
	}

	scratch := c.backend.Allocate(buf.Rect.Dx(), buf.Rect.Dy())
	defer c.backend.Release(scratch)
	if err := c.backend.Blend(scratch, buf, p); err != nil {
		return err
	}
	c.backend.Copy(buf, scratch)

	logging.Logger().Debug("canvas composite",
		"material", ps.Name(), "channel", ch, "uv", uv, "erase", erase)
	return nil
}
