package composite

import (
	"fmt"
	"image"
	"math"
	"sync"

	"inkpaint/internal/brush"
	"inkpaint/internal/logging"
	"inkpaint/internal/mathutil"

	"golang.org/x/image/draw"
)

// Software is a CPU Backend over *image.NRGBA. Scratch buffers are pooled
// per size. All methods are safe for concurrent use on distinct buffers.
type Software struct {
	mu          sync.Mutex
	free        map[image.Point][]*image.NRGBA
	outstanding int
}

// NewSoftware returns an empty software backend.
func NewSoftware() *Software {
	return &Software{free: make(map[image.Point][]*image.NRGBA)}
}

// Outstanding reports how many allocated buffers have not been released.
func (s *Software) Outstanding() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outstanding
}

func (s *Software) Allocate(w, h int) *image.NRGBA {
	key := image.Pt(w, h)
	s.mu.Lock()
	s.outstanding++
	if list := s.free[key]; len(list) > 0 {
		buf := list[len(list)-1]
		s.free[key] = list[:len(list)-1]
		s.mu.Unlock()
		return buf
	}
	s.mu.Unlock()
	return image.NewNRGBA(image.Rect(0, 0, w, h))
}

func (s *Software) Release(buf *image.NRGBA) {
	if buf == nil {
		return
	}
	key := buf.Rect.Size()
	s.mu.Lock()
	s.outstanding--
	s.free[key] = append(s.free[key], buf)
	s.mu.Unlock()
}

func (s *Software) Copy(dst *image.NRGBA, src image.Image) {
	if src.Bounds().Size() == dst.Rect.Size() {
		draw.Copy(dst, dst.Rect.Min, src, src.Bounds(), draw.Src, nil)
		return
	}
	draw.CatmullRom.Scale(dst, dst.Rect, src, src.Bounds(), draw.Src, nil)
}

func (s *Software) Blend(dst, src *image.NRGBA, p Params) error {
	if p.Op == nil {
		return ErrNoOp
	}
	if dst.Rect.Size() != src.Rect.Size() {
		return fmt.Errorf("%w: dst %v, src %v", ErrSizeMismatch, dst.Rect.Size(), src.Rect.Size())
	}
	draw.Copy(dst, dst.Rect.Min, src, src.Rect, draw.Src, nil)

	w, h := src.Rect.Dx(), src.Rect.Dy()
	r := p.Bounds(w, h)
	logging.Logger().Debug("composite blend",
		"kind", p.Op.Kind(), "uv", p.UV, "scale", p.Scale, "texels", r.Dx()*r.Dy())

	touched := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			uv := mathutil.Vec2{(float64(x) + 0.5) / float64(w), (float64(y) + 0.5) / float64(h)}
			st, ok := p.StampUV(uv)
			if !ok {
				continue
			}
			a := 1.0
			if p.Mask != nil {
				a = Sample(p.Mask, st[0], st[1], Clamp)[3]
			}
			if a <= 0 {
				continue
			}
			base := at(src, x, y)
			set(dst, x, y, blendTexel(base, st, a, p.Op))
			touched++
		}
	}
	if touched == 0 {
		logging.Logger().Debug("composite blend touched nothing", "kind", p.Op.Kind(), "uv", p.UV)
	}
	return nil
}

// blendTexel applies op to one buffer texel. st is the stamp UV and a the
// mask coverage at that texel.
func blendTexel(base Texel, st mathutil.Vec2, a float64, op Op) Texel {
	switch op := op.(type) {
	case ColorOp:
		return blendColor(base, st, a, op)
	case NormalOp:
		return blendNormal(base, st, a, op)
	case HeightOp:
		return blendHeight(base, st, a, op)
	}
	return base
}

func stampTexel(img *image.NRGBA, st mathutil.Vec2) (Texel, bool) {
	if img == nil {
		return Texel{}, false
	}
	return Sample(img, st[0], st[1], Clamp), true
}

func lerpTexel(a, b Texel, t float64) Texel {
	return Texel{
		mathutil.Lerp(a[0], b[0], t),
		mathutil.Lerp(a[1], b[1], t),
		mathutil.Lerp(a[2], b[2], t),
		mathutil.Lerp(a[3], b[3], t),
	}
}

func blendColor(base Texel, st mathutil.Vec2, a float64, op ColorOp) Texel {
	tint := Texel{float64(op.Tint.R) / 255, float64(op.Tint.G) / 255, float64(op.Tint.B) / 255, float64(op.Tint.A) / 255}
	stamp, hasStamp := stampTexel(op.Stamp, st)
	if !hasStamp {
		stamp = tint
	}

	switch op.Mode {
	case brush.ColorUseStamp:
		return lerpTexel(base, stamp, a)
	case brush.ColorNeutral:
		var avg Texel
		for c := range avg {
			avg[c] = (base[c] + stamp[c] + tint[c]) / 3
		}
		return lerpTexel(base, avg, a)
	case brush.ColorAlphaOnly:
		out := base
		out[3] = mathutil.Lerp(base[3], tint[3], a)
		return out
	default: // ColorUseConstant
		return lerpTexel(base, tint, a)
	}
}

func blendNormal(base Texel, st mathutil.Vec2, a float64, op NormalOp) Texel {
	s, ok := stampTexel(op.Stamp, st)
	if !ok {
		return base
	}
	k := a * op.Amount
	n := mathutil.Vec3{base[0]*2 - 1, base[1]*2 - 1, base[2]*2 - 1}
	m := mathutil.Vec3{s[0]*2 - 1, s[1]*2 - 1, s[2]*2 - 1}

	var r mathutil.Vec3
	switch op.Mode {
	case brush.NormalAdd:
		r = n.Add(m.Scale(k))
	case brush.NormalSubtract:
		r = n.Sub(m.Scale(k))
	case brush.NormalMin:
		r = lerpVec3(n, mathutil.Vec3{math.Min(n[0], m[0]), math.Min(n[1], m[1]), math.Min(n[2], m[2])}, k)
	case brush.NormalMax:
		r = lerpVec3(n, mathutil.Vec3{math.Max(n[0], m[0]), math.Max(n[1], m[1]), math.Max(n[2], m[2])}, k)
	default: // NormalUseStamp
		r = lerpVec3(n, m, k)
	}
	if r.Len() > 1e-6 {
		r = r.Normalize()
	}
	return Texel{r[0]*0.5 + 0.5, r[1]*0.5 + 0.5, r[2]*0.5 + 0.5, base[3]}
}

func lerpVec3(a, b mathutil.Vec3, t float64) mathutil.Vec3 {
	return a.Add(b.Sub(a).Scale(t))
}

func blendHeight(base Texel, st mathutil.Vec2, a float64, op HeightOp) Texel {
	s, ok := stampTexel(op.Stamp, st)
	if !ok {
		return base
	}
	k := a * op.Amount
	h, sh := base[0], s[0]

	switch op.Mode {
	case brush.HeightColorRGBHeightA:
		tint := Texel{float64(op.Tint.R) / 255, float64(op.Tint.G) / 255, float64(op.Tint.B) / 255}
		out := lerpTexel(base, tint, k)
		out[3] = mathutil.Lerp(base[3], sh, k)
		return out
	case brush.HeightAdd:
		h += sh * k
	case brush.HeightSubtract:
		h -= sh * k
	case brush.HeightMin:
		h = mathutil.Lerp(h, math.Min(h, sh), k)
	case brush.HeightMax:
		h = mathutil.Lerp(h, math.Max(h, sh), k)
	default: // HeightUseStamp
		h = mathutil.Lerp(h, sh, k)
	}
	h = mathutil.Clamp01(h)
	return Texel{h, h, h, base[3]}
}

func (s *Software) Grab(dst *image.NRGBA, p GrabParams) error {
	if p.Source == nil {
		return ErrNoSource
	}
	w, h := dst.Rect.Dx(), dst.Rect.Dy()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			st := mathutil.Vec2{(float64(x) + 0.5) / float64(w), (float64(y) + 0.5) / float64(h)}
			uv := p.BufferUV(st)
			t := Sample(p.Source, uv[0], uv[1], p.Wrap)
			if p.ReplaceAlpha {
				if p.Mask != nil {
					t[3] = Sample(p.Mask, st[0], st[1], Clamp)[3]
				} else {
					t[3] = 1
				}
				if p.Wrap == Clip && (uv[0] < 0 || uv[0] > 1 || uv[1] < 0 || uv[1] > 1) {
					t[3] = 0
				}
			}
			set(dst, x, y, t)
		}
	}
	return nil
}

func (s *Software) Lerp(dst *image.NRGBA, src image.Image, t float64) {
	t = mathutil.Clamp01(t)
	from, ok := src.(*image.NRGBA)
	if !ok || from.Rect.Size() != dst.Rect.Size() {
		scratch := s.Allocate(dst.Rect.Dx(), dst.Rect.Dy())
		defer s.Release(scratch)
		s.Copy(scratch, src)
		from = scratch
	}
	w, h := dst.Rect.Dx(), dst.Rect.Dy()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			set(dst, x, y, lerpTexel(at(dst, x, y), at(from, x, y), t))
		}
	}
}

func (s *Software) Flip(dst *image.NRGBA, src image.Image, horizontal, vertical bool) {
	scratch := s.Allocate(dst.Rect.Dx(), dst.Rect.Dy())
	defer s.Release(scratch)
	s.Copy(scratch, src)

	w, h := dst.Rect.Dx(), dst.Rect.Dy()
	for y := 0; y < h; y++ {
		sy := y
		if vertical {
			sy = h - 1 - y
		}
		for x := 0; x < w; x++ {
			sx := x
			if horizontal {
				sx = w - 1 - x
			}
			si := scratch.PixOffset(sx, sy)
			di := dst.PixOffset(dst.Rect.Min.X+x, dst.Rect.Min.Y+y)
			copy(dst.Pix[di:di+4], scratch.Pix[si:si+4])
		}
	}
}
