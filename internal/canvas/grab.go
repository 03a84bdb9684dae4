package canvas

import (
	"fmt"
	"image"

	"inkpaint/internal/brush"
	"inkpaint/internal/composite"
	"inkpaint/internal/mathutil"
)

// GrabOptions selects what GrabArea copies.
type GrabOptions struct {
	// Material names the paint set; empty picks the first one.
	Material string
	// FromOriginal reads the base texture instead of the paint buffer.
	FromOriginal bool
	Wrap         composite.Wrap
	// ReplaceAlpha shapes the result with the stamp's alpha.
	ReplaceAlpha bool
}

// GrabArea copies the color texels under b's footprint at uv into a new
// image the size of b's color stamp. Painting the result back with
// ColorUseStamp clones the area elsewhere.
func (c *Canvas) GrabArea(b brush.Brush, uv mathutil.Vec2, opts GrabOptions) (*image.NRGBA, error) {
	if c.state != StateReady {
		return nil, c.stateErr()
	}
	stamp := b.ColorStamp()
	if stamp == nil {
		return nil, ErrNoStamp
	}

	var ps *PaintSet
	if opts.Material == "" {
		if len(c.sets) > 0 {
			ps = c.sets[0]
		}
	} else {
		ps = c.find(opts.Material)
	}
	if ps == nil {
		return nil, fmt.Errorf("%w %q", ErrNotFound, opts.Material)
	}
	source := ps.buffer[ChannelColor]
	if opts.FromOriginal || source == nil {
		source = ps.original[ChannelColor]
	}

	dst := image.NewNRGBA(image.Rect(0, 0, stamp.Rect.Dx(), stamp.Rect.Dy()))
	err := c.backend.Grab(dst, composite.GrabParams{
		Footprint:    composite.Footprint{UV: uv, Scale: b.Scale(), Rotation: b.Rotation()},
		Source:       source,
		Mask:         stamp,
		Wrap:         opts.Wrap,
		ReplaceAlpha: opts.ReplaceAlpha,
	})
	if err != nil {
		return nil, fmt.Errorf("canvas: grab %s: %w", ps.Name(), err)
	}
	return dst, nil
}
