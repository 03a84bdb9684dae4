// Package brush describes the paint tool: stamp images, footprint size and
// rotation, tint and the per-channel blend policies.
package brush

import (
	"image"
	"image/color"

	"inkpaint/internal/mathutil"
)

// Default values for a freshly constructed brush.
const (
	DefaultScale       = 0.1
	DefaultNormalBlend = 0.1
	DefaultHeightBlend = 0.1
)

// Brush is a value type. Copying it copies every setting; the stamp images
// are shared and treated as read-only by the compositor.
//
// Scale and the blend amounts are kept in [0, 1] by the setters and by New.
type Brush struct {
	colorStamp  *image.NRGBA
	normalStamp *image.NRGBA
	heightStamp *image.NRGBA

	scale       float64
	rotation    float64
	normalBlend float64
	heightBlend float64
	tint        color.NRGBA

	colorMode  ColorBlend
	normalMode NormalBlend
	heightMode HeightBlend
}

// Option configures a Brush in New.
type Option func(*Brush)

// New returns a brush with the given color stamp, scale and tint.
func New(stamp *image.NRGBA, scale float64, tint color.NRGBA, opts ...Option) Brush {
	b := Brush{
		normalBlend: DefaultNormalBlend,
		heightBlend: DefaultHeightBlend,
	}
	b.SetColorStamp(stamp)
	b.SetScale(scale)
	b.SetTint(tint)
	for _, o := range opts {
		o(&b)
	}
	return b
}

func WithColorBlend(m ColorBlend) Option { return func(b *Brush) { b.colorMode = m } }

func WithNormal(stamp *image.NRGBA, amount float64, m NormalBlend) Option {
	return func(b *Brush) {
		b.normalStamp = stamp
		b.SetNormalBlend(amount)
		b.normalMode = m
	}
}

func WithHeight(stamp *image.NRGBA, amount float64, m HeightBlend) Option {
	return func(b *Brush) {
		b.heightStamp = stamp
		b.SetHeightBlend(amount)
		b.heightMode = m
	}
}

func WithRotation(deg float64) Option { return func(b *Brush) { b.rotation = deg } }

// Clone returns a copy. Stamps are shared, not duplicated.
func (b Brush) Clone() Brush { return b }

func (b Brush) ColorStamp() *image.NRGBA  { return b.colorStamp }
func (b Brush) NormalStamp() *image.NRGBA { return b.normalStamp }
func (b Brush) HeightStamp() *image.NRGBA { return b.heightStamp }

func (b *Brush) SetColorStamp(img *image.NRGBA)  { b.colorStamp = img }
func (b *Brush) SetNormalStamp(img *image.NRGBA) { b.normalStamp = img }
func (b *Brush) SetHeightStamp(img *image.NRGBA) { b.heightStamp = img }

// Scale is the footprint size as a fraction of the target buffer, in [0, 1].
func (b Brush) Scale() float64 { return b.scale }

func (b *Brush) SetScale(v float64) { b.scale = mathutil.Clamp01(v) }

// Rotation is the stamp rotation in degrees.
func (b Brush) Rotation() float64 { return b.rotation }

func (b *Brush) SetRotation(deg float64) { b.rotation = deg }

func (b Brush) NormalBlend() float64 { return b.normalBlend }

func (b *Brush) SetNormalBlend(v float64) { b.normalBlend = mathutil.Clamp01(v) }

func (b Brush) HeightBlend() float64 { return b.heightBlend }

func (b *Brush) SetHeightBlend(v float64) { b.heightBlend = mathutil.Clamp01(v) }

func (b Brush) Tint() color.NRGBA { return b.tint }

func (b *Brush) SetTint(c color.NRGBA) { b.tint = c }

func (b Brush) ColorMode() ColorBlend   { return b.colorMode }
func (b Brush) NormalMode() NormalBlend { return b.normalMode }
func (b Brush) HeightMode() HeightBlend { return b.heightMode }

func (b *Brush) SetColorMode(m ColorBlend)   { b.colorMode = m }
func (b *Brush) SetNormalMode(m NormalBlend) { b.normalMode = m }
func (b *Brush) SetHeightMode(m HeightBlend) { b.heightMode = m }
