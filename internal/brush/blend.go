package brush

import "fmt"

// ColorBlend selects how the color stamp is composited.
type ColorBlend int

const (
	// ColorUseConstant paints the brush tint, shaped by the stamp alpha.
	ColorUseConstant ColorBlend = iota
	// ColorUseStamp paints the stamp's own colors.
	ColorUseStamp
	// ColorNeutral paints the average of buffer, stamp and tint.
	ColorNeutral
	// ColorAlphaOnly changes only the buffer alpha, towards the tint alpha.
	ColorAlphaOnly
)

var colorBlendNames = []string{"constant", "stamp", "neutral", "alpha-only"}

func (b ColorBlend) String() string { return enumString(colorBlendNames, int(b)) }

func (b ColorBlend) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

func (b *ColorBlend) UnmarshalText(text []byte) error {
	i, err := enumParse(colorBlendNames, "color blend", string(text))
	*b = ColorBlend(i)
	return err
}

// NormalBlend selects how the normal stamp is composited.
type NormalBlend int

const (
	NormalUseStamp NormalBlend = iota
	NormalAdd
	NormalSubtract
	NormalMin
	NormalMax
)

var normalBlendNames = []string{"stamp", "add", "subtract", "min", "max"}

func (b NormalBlend) String() string { return enumString(normalBlendNames, int(b)) }

func (b NormalBlend) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

func (b *NormalBlend) UnmarshalText(text []byte) error {
	i, err := enumParse(normalBlendNames, "normal blend", string(text))
	*b = NormalBlend(i)
	return err
}

// HeightBlend selects how the height stamp is composited.
type HeightBlend int

const (
	HeightUseStamp HeightBlend = iota
	HeightAdd
	HeightSubtract
	HeightMin
	HeightMax
	// HeightColorRGBHeightA writes the tint to RGB and the stamp height to alpha.
	HeightColorRGBHeightA
)

var heightBlendNames = []string{"stamp", "add", "subtract", "min", "max", "color-rgb-height-a"}

func (b HeightBlend) String() string { return enumString(heightBlendNames, int(b)) }

func (b HeightBlend) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

func (b *HeightBlend) UnmarshalText(text []byte) error {
	i, err := enumParse(heightBlendNames, "height blend", string(text))
	*b = HeightBlend(i)
	return err
}

func enumString(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return fmt.Sprintf("unknown(%d)", i)
	}
	return names[i]
}

func enumParse(names []string, kind, s string) (int, error) {
	for i, n := range names {
		if n == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("brush: unknown %s %q", kind, s)
}
