package canvas

import (
	"image"

	"inkpaint/internal/logging"
)

func (c *Canvas) find(material string) *PaintSet {
	name := MaterialName(material)
	for _, ps := range c.sets {
		if ps.Name() == name {
			return ps
		}
	}
	return nil
}

// Original returns the base texture of ch for the named material, or nil.
// A trailing " (Instance)" in material is ignored.
func (c *Canvas) Original(ch Channel, material string) *image.NRGBA {
	if ps := c.find(material); ps != nil {
		return ps.Original(ch)
	}
	return nil
}

// PaintBuffer returns the paint buffer of ch for the named material, or nil.
func (c *Canvas) PaintBuffer(ch Channel, material string) *image.NRGBA {
	if ps := c.find(material); ps != nil {
		return ps.Buffer(ch)
	}
	return nil
}

// SetPaintBuffer replaces the paint buffer of ch for the named material and
// enables the channel. It reports false when no paint set matches or buf
// differs in size from the original.
func (c *Canvas) SetPaintBuffer(ch Channel, material string, buf *image.NRGBA) bool {
	ps := c.find(material)
	if ps == nil || buf == nil || !validChannel(ch) {
		return false
	}
	if orig := ps.original[ch]; orig != nil && orig.Rect.Size() != buf.Rect.Size() {
		logging.Logger().Warn("canvas: paint buffer size differs from original",
			"material", ps.Name(), "channel", ch, "want", orig.Rect.Size(), "got", buf.Rect.Size())
		return false
	}
	ps.SetEnabled(ch, true)
	ps.buffer[ch] = buf
	return true
}

// Recover moves every paint buffer towards its original by t in [0,1].
// Recover(1) restores the originals exactly.
func (c *Canvas) Recover(t float64) error {
	if c.state != StateReady {
		return c.stateErr()
	}
	for _, ps := range c.sets {
		for _, ch := range Channels {
			if buf, orig := ps.buffer[ch], ps.original[ch]; buf != nil && orig != nil {
				c.backend.Lerp(buf, orig, t)
			}
		}
	}
	return nil
}

// Flip mirrors every paint buffer in place.
func (c *Canvas) Flip(horizontal, vertical bool) error {
	if c.state != StateReady {
		return c.stateErr()
	}
	if !horizontal && !vertical {
		return nil
	}
	for _, ps := range c.sets {
		for _, ch := range Channels {
			if buf := ps.buffer[ch]; buf != nil {
				c.backend.Flip(buf, buf, horizontal, vertical)
			}
		}
	}
	return nil
}
