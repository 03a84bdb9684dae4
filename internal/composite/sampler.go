package composite

import (
	"fmt"
	"image"
	"math"
	"strings"
)

// Wrap controls how samples outside [0,1] are resolved.
type Wrap int

const (
	// Clamp repeats the edge texels.
	Clamp Wrap = iota
	// Repeat tiles the image.
	Repeat
	// Clip returns transparent black outside [0,1].
	Clip
)

var wrapNames = []string{"clamp", "repeat", "clip"}

func (w Wrap) String() string {
	if w < 0 || int(w) >= len(wrapNames) {
		return fmt.Sprintf("Wrap(%d)", int(w))
	}
	return wrapNames[w]
}

func (w Wrap) MarshalText() ([]byte, error) { return []byte(w.String()), nil }

func (w *Wrap) UnmarshalText(text []byte) error {
	for i, n := range wrapNames {
		if strings.EqualFold(n, string(text)) {
			*w = Wrap(i)
			return nil
		}
	}
	return fmt.Errorf("composite: unknown wrap mode %q", text)
}

// Texel is an RGBA sample in [0,1], not premultiplied.
type Texel [4]float64

// Sample performs bilinear filtering at (u, v). UV (0,0) is the top-left
// corner of the image and texel centers sit at half-integer positions.
// Accesses tex.Pix directly.
func Sample(tex *image.NRGBA, u, v float64, wrap Wrap) Texel {
	w := tex.Rect.Dx()
	h := tex.Rect.Dy()
	if w == 0 || h == 0 {
		return Texel{}
	}

	switch wrap {
	case Clip:
		if u < 0 || u > 1 || v < 0 || v > 1 {
			return Texel{}
		}
	case Repeat:
		u -= math.Floor(u)
		v -= math.Floor(v)
	}

	fx := u*float64(w) - 0.5
	fy := v*float64(h) - 0.5
	fx0 := math.Floor(fx)
	fy0 := math.Floor(fy)
	dx := fx - fx0
	dy := fy - fy0

	x0, x1 := int(fx0), int(fx0)+1
	y0, y1 := int(fy0), int(fy0)+1
	if wrap == Repeat {
		x0, x1 = mod(x0, w), mod(x1, w)
		y0, y1 = mod(y0, h), mod(y1, h)
	} else {
		x0, x1 = clampInt(x0, w), clampInt(x1, w)
		y0, y1 = clampInt(y0, h), clampInt(y1, h)
	}

	stride := tex.Stride
	pix := tex.Pix

	// Four texels
	i00 := y0*stride + x0*4
	i10 := y0*stride + x1*4
	i01 := y1*stride + x0*4
	i11 := y1*stride + x1*4

	w00 := (1 - dx) * (1 - dy)
	w10 := dx * (1 - dy)
	w01 := (1 - dx) * dy
	w11 := dx * dy

	var t Texel
	for c := 0; c < 4; c++ {
		t[c] = (float64(pix[i00+c])*w00 + float64(pix[i10+c])*w10 +
			float64(pix[i01+c])*w01 + float64(pix[i11+c])*w11) / 255
	}
	return t
}

// at reads texel (x, y) without filtering.
func at(img *image.NRGBA, x, y int) Texel {
	i := img.PixOffset(img.Rect.Min.X+x, img.Rect.Min.Y+y)
	return Texel{
		float64(img.Pix[i]) / 255,
		float64(img.Pix[i+1]) / 255,
		float64(img.Pix[i+2]) / 255,
		float64(img.Pix[i+3]) / 255,
	}
}

// set writes texel (x, y), clamping each channel to [0,1].
func set(img *image.NRGBA, x, y int, t Texel) {
	i := img.PixOffset(img.Rect.Min.X+x, img.Rect.Min.Y+y)
	img.Pix[i] = clamp255(t[0] * 255)
	img.Pix[i+1] = clamp255(t[1] * 255)
	img.Pix[i+2] = clamp255(t[2] * 255)
	img.Pix[i+3] = clamp255(t[3] * 255)
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

func clampInt(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func mod(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
