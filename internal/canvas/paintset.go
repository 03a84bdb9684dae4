package canvas

import (
	"fmt"
	"image"
	"strings"
)

// Channel selects one of the three paint buffers of a PaintSet.
type Channel int

const (
	ChannelColor Channel = iota
	ChannelNormal
	ChannelHeight
)

// Channels lists every channel in compositing order.
var Channels = [...]Channel{ChannelColor, ChannelNormal, ChannelHeight}

func (c Channel) String() string {
	switch c {
	case ChannelColor:
		return "color"
	case ChannelNormal:
		return "normal"
	case ChannelHeight:
		return "height"
	}
	return fmt.Sprintf("Channel(%d)", int(c))
}

// ParseChannel is the inverse of String.
func ParseChannel(s string) (Channel, error) {
	for _, c := range Channels {
		if c.String() == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("canvas: unknown channel %q", s)
}

// Texture property names a Material is looked up by when a PaintSet does not
// override them.
const (
	DefaultColorProperty  = "_MainTex"
	DefaultNormalProperty = "_BumpMap"
	DefaultHeightProperty = "_ParallaxMap"
)

// instanceSuffix is appended to material names by hosts that clone shared
// materials per renderer.
const instanceSuffix = " (Instance)"

// MaterialName strips the per-instance suffix from a material name.
func MaterialName(name string) string {
	return strings.TrimSuffix(name, instanceSuffix)
}

// Material is one material slot of the painted mesh: a name and its base
// textures keyed by property name. The canvas never writes to Textures.
type Material struct {
	Name     string
	Textures map[string]*image.NRGBA
}

// PaintSet is the per-material bundle of channel toggles, property names,
// original textures and paint buffers.
//
// A paint buffer is non-nil only while its channel is enabled and an
// original texture was found, and it always has the original's size.
type PaintSet struct {
	Material *Material

	UseColor  bool
	UseNormal bool
	UseHeight bool

	ColorProperty  string
	NormalProperty string
	HeightProperty string

	original [3]*image.NRGBA
	buffer   [3]*image.NRGBA
}

// NewPaintSet returns a set for m with only the color channel enabled and
// the default property names.
func NewPaintSet(m *Material) *PaintSet {
	return &PaintSet{
		Material:       m,
		UseColor:       true,
		ColorProperty:  DefaultColorProperty,
		NormalProperty: DefaultNormalProperty,
		HeightProperty: DefaultHeightProperty,
	}
}

// Enabled reports whether ch is switched on.
func (ps *PaintSet) Enabled(ch Channel) bool {
	switch ch {
	case ChannelColor:
		return ps.UseColor
	case ChannelNormal:
		return ps.UseNormal
	case ChannelHeight:
		return ps.UseHeight
	}
	return false
}

// SetEnabled switches ch on or off. It takes effect at the next Init or
// ResetToOriginal.
func (ps *PaintSet) SetEnabled(ch Channel, on bool) {
	switch ch {
	case ChannelColor:
		ps.UseColor = on
	case ChannelNormal:
		ps.UseNormal = on
	case ChannelHeight:
		ps.UseHeight = on
	}
}

// Property returns the texture property name ch is bound to.
func (ps *PaintSet) Property(ch Channel) string {
	switch ch {
	case ChannelColor:
		return ps.ColorProperty
	case ChannelNormal:
		return ps.NormalProperty
	case ChannelHeight:
		return ps.HeightProperty
	}
	return ""
}

// Name is the material name without the instance suffix.
func (ps *PaintSet) Name() string {
	if ps.Material == nil {
		return ""
	}
	return MaterialName(ps.Material.Name)
}

// Original returns the base texture of ch, or nil.
func (ps *PaintSet) Original(ch Channel) *image.NRGBA {
	if !validChannel(ch) {
		return nil
	}
	return ps.original[ch]
}

// Buffer returns the paint buffer of ch, or nil.
func (ps *PaintSet) Buffer(ch Channel) *image.NRGBA {
	if !validChannel(ch) {
		return nil
	}
	return ps.buffer[ch]
}

func (ps *PaintSet) texture(ch Channel) *image.NRGBA {
	if ps.Material == nil || ps.Material.Textures == nil {
		return nil
	}
	return ps.Material.Textures[ps.Property(ch)]
}

func validChannel(ch Channel) bool {
	return ch >= ChannelColor && ch <= ChannelHeight
}
