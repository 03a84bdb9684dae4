package composite

import (
	"image"
	"image/color"

	"inkpaint/internal/brush"
	"inkpaint/internal/mathutil"
)

// Footprint is the square region of a buffer a stamp covers. UV is its
// center, Scale its side length as a fraction of the buffer and Rotation
// the stamp rotation in degrees.
type Footprint struct {
	UV       mathutil.Vec2
	Scale    float64
	Rotation float64
}

// StampUV maps a buffer UV to the stamp's own [0,1]² space. ok is false
// when uv lies outside the footprint.
func (f Footprint) StampUV(uv mathutil.Vec2) (mathutil.Vec2, bool) {
	if f.Scale <= 0 {
		return mathutil.Vec2{}, false
	}
	d := uv.Sub(f.UV).Scale(1 / f.Scale).Rotate(mathutil.Vec2{}, -f.Rotation)
	s := mathutil.Vec2{d[0] + 0.5, d[1] + 0.5}
	if s[0] < 0 || s[0] > 1 || s[1] < 0 || s[1] > 1 {
		return s, false
	}
	return s, true
}

// BufferUV is the inverse of StampUV.
func (f Footprint) BufferUV(s mathutil.Vec2) mathutil.Vec2 {
	d := mathutil.Vec2{s[0] - 0.5, s[1] - 0.5}.Rotate(mathutil.Vec2{}, f.Rotation)
	return f.UV.Add(d.Scale(f.Scale))
}

// Bounds returns the pixel rectangle of a w×h buffer that can contain the
// footprint under any rotation.
func (f Footprint) Bounds(w, h int) image.Rectangle {
	r := f.Scale * 0.7072 // half diagonal, rounded up
	x0 := int((f.UV[0]-r)*float64(w)) - 1
	x1 := int((f.UV[0]+r)*float64(w)) + 2
	y0 := int((f.UV[1]-r)*float64(h)) - 1
	y1 := int((f.UV[1]+r)*float64(h)) + 2
	return image.Rect(x0, y0, x1, y1).Intersect(image.Rect(0, 0, w, h))
}

// Kind names the paint channel an Op targets.
type Kind int

const (
	KindColor Kind = iota
	KindNormal
	KindHeight
)

func (k Kind) String() string {
	switch k {
	case KindColor:
		return "color"
	case KindNormal:
		return "normal"
	case KindHeight:
		return "height"
	}
	return "unknown"
}

// Op is the channel-specific half of a blend. Exactly one of ColorOp,
// NormalOp and HeightOp.
type Op interface {
	Kind() Kind
}

// ColorOp blends into a color buffer.
type ColorOp struct {
	Mode  brush.ColorBlend
	Stamp *image.NRGBA
	Tint  color.NRGBA
}

// NormalOp blends into a tangent-space normal map (RGB encodes XYZ).
type NormalOp struct {
	Mode   brush.NormalBlend
	Stamp  *image.NRGBA
	Amount float64
}

// HeightOp blends into a height map. Height is read from and written to the
// red channel; HeightColorRGBHeightA writes it to alpha instead.
type HeightOp struct {
	Mode   brush.HeightBlend
	Stamp  *image.NRGBA
	Amount float64
	Tint   color.NRGBA
}

func (ColorOp) Kind() Kind  { return KindColor }
func (NormalOp) Kind() Kind { return KindNormal }
func (HeightOp) Kind() Kind { return KindHeight }

// Params is one blend pass. Mask is the brush's main stamp; its alpha shapes
// the footprint for every channel. A nil mask covers the whole footprint.
type Params struct {
	Footprint
	Mask *image.NRGBA
	Op   Op
}

// GrabParams describes a Grab: the region of Source under Footprint is
// resampled into the destination, which takes the mask's shape.
type GrabParams struct {
	Footprint
	Source *image.NRGBA
	Mask   *image.NRGBA
	Wrap   Wrap
	// ReplaceAlpha takes alpha from the mask instead of the source.
	ReplaceAlpha bool
}
