package composite

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"inkpaint/internal/brush"
	"inkpaint/internal/mathutil"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func TestFootprintRoundTrip(t *testing.T) {
	f := Footprint{UV: mathutil.Vec2{0.3, 0.6}, Scale: 0.25, Rotation: 37}
	for _, st := range []mathutil.Vec2{{0.5, 0.5}, {0.1, 0.9}, {0.99, 0.01}} {
		uv := f.BufferUV(st)
		back, ok := f.StampUV(uv)
		if !ok || !back.ApproxEqual(st, 1e-12) {
			t.Errorf("StampUV(BufferUV(%v)) = %v, %v", st, back, ok)
		}
	}
	if _, ok := f.StampUV(mathutil.Vec2{0.9, 0.9}); ok {
		t.Error("StampUV reported a far point inside the footprint")
	}
	if _, ok := (Footprint{UV: mathutil.Vec2{0.5, 0.5}}).StampUV(mathutil.Vec2{0.5, 0.5}); ok {
		t.Error("zero-scale footprint covers its center")
	}
}

func TestBlendColorStaysInFootprint(t *testing.T) {
	const n = 100
	src := solid(n, n, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	dst := image.NewNRGBA(src.Rect)
	sw := NewSoftware()

	p := Params{
		Footprint: Footprint{UV: mathutil.Vec2{0.5, 0.5}, Scale: 0.1},
		Op:        ColorOp{Mode: brush.ColorUseConstant, Tint: color.NRGBA{R: 255, A: 255}},
	}
	if err := sw.Blend(dst, src, p); err != nil {
		t.Fatal(err)
	}

	changed := 0
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			u := (float64(x) + 0.5) / n
			v := (float64(y) + 0.5) / n
			got := dst.NRGBAAt(x, y)
			inside := math.Abs(u-0.5) <= 0.05+1e-9 && math.Abs(v-0.5) <= 0.05+1e-9
			if got != src.NRGBAAt(x, y) {
				changed++
				if !inside {
					t.Fatalf("Texel (%d,%d) outside the footprint changed to %v", x, y, got)
				}
			}
		}
	}
	if changed == 0 {
		t.Fatal("no Texel changed")
	}
	if got := dst.NRGBAAt(50, 50); got != (color.NRGBA{R: 255, A: 255}) {
		t.Errorf("center = %v, want tint", got)
	}
}

func TestBlendColorModes(t *testing.T) {
	base := color.NRGBA{R: 30, G: 60, B: 90, A: 255}
	stamp := solid(8, 8, color.NRGBA{R: 120, G: 150, B: 180, A: 255})
	tint := color.NRGBA{R: 255, G: 0, B: 0, A: 51}

	tests := []struct {
		mode brush.ColorBlend
		want color.NRGBA
	}{
		{brush.ColorUseConstant, tint},
		{brush.ColorUseStamp, color.NRGBA{R: 120, G: 150, B: 180, A: 255}},
		{brush.ColorNeutral, color.NRGBA{R: 135, G: 70, B: 90, A: 187}},
		{brush.ColorAlphaOnly, color.NRGBA{R: 30, G: 60, B: 90, A: 51}},
	}
	sw := NewSoftware()
	for _, tt := range tests {
		src := solid(20, 20, base)
		dst := image.NewNRGBA(src.Rect)
		err := sw.Blend(dst, src, Params{
			Footprint: Footprint{UV: mathutil.Vec2{0.5, 0.5}, Scale: 0.5},
			Mask:      stamp,
			Op:        ColorOp{Mode: tt.mode, Stamp: stamp, Tint: tint},
		})
		if err != nil {
			t.Fatal(err)
		}
		if got := dst.NRGBAAt(10, 10); got != tt.want {
			t.Errorf("%v: center = %v, want %v", tt.mode, got, tt.want)
		}
	}
}

func TestBlendNormalUseStamp(t *testing.T) {
	src := solid(16, 16, color.NRGBA{R: 255, G: 128, B: 128, A: 255}) // +X
	dst := image.NewNRGBA(src.Rect)
	up := solid(4, 4, color.NRGBA{R: 128, G: 128, B: 255, A: 255}) // +Z

	err := NewSoftware().Blend(dst, src, Params{
		Footprint: Footprint{UV: mathutil.Vec2{0.5, 0.5}, Scale: 1},
		Op:        NormalOp{Mode: brush.NormalUseStamp, Stamp: up, Amount: 1},
	})
	if err != nil {
		t.Fatal(err)
	}
	got := dst.NRGBAAt(8, 8)
	if got.B < 250 || got.R > 132 || got.R < 124 {
		t.Errorf("normal = %v, want ≈ (128,128,255)", got)
	}
}

func TestBlendHeight(t *testing.T) {
	stamp := solid(4, 4, color.NRGBA{R: 102, G: 102, B: 102, A: 255}) // 0.4
	tests := []struct {
		mode brush.HeightBlend
		want uint8
	}{
		{brush.HeightUseStamp, 102},
		{brush.HeightAdd, 204},
		{brush.HeightSubtract, 0},
		{brush.HeightMin, 102},
		{brush.HeightMax, 102},
	}
	for _, tt := range tests {
		src := solid(10, 10, color.NRGBA{R: 102, G: 102, B: 102, A: 255})
		dst := image.NewNRGBA(src.Rect)
		err := NewSoftware().Blend(dst, src, Params{
			Footprint: Footprint{UV: mathutil.Vec2{0.5, 0.5}, Scale: 1},
			Op:        HeightOp{Mode: tt.mode, Stamp: stamp, Amount: 1},
		})
		if err != nil {
			t.Fatal(err)
		}
		got := dst.NRGBAAt(5, 5)
		if tt.mode == brush.HeightSubtract {
			if got.R != 0 {
				t.Errorf("%v: height = %d, want 0", tt.mode, got.R)
			}
			continue
		}
		if got.R != tt.want || got.G != tt.want || got.B != tt.want {
			t.Errorf("%v: height = %v, want %d", tt.mode, got, tt.want)
		}
	}
}

func TestBlendHeightInAlpha(t *testing.T) {
	src := solid(10, 10, color.NRGBA{R: 0, G: 0, B: 0, A: 255})
	dst := image.NewNRGBA(src.Rect)
	stamp := solid(4, 4, color.NRGBA{R: 51, A: 255})
	err := NewSoftware().Blend(dst, src, Params{
		Footprint: Footprint{UV: mathutil.Vec2{0.5, 0.5}, Scale: 1},
		Op: HeightOp{
			Mode: brush.HeightColorRGBHeightA, Stamp: stamp, Amount: 1,
			Tint: color.NRGBA{G: 255, A: 255},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := dst.NRGBAAt(5, 5); got != (color.NRGBA{G: 255, A: 51}) {
		t.Errorf("Texel = %v, want green with alpha 51", got)
	}
}

func TestBlendErrors(t *testing.T) {
	sw := NewSoftware()
	a := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	b := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	if err := sw.Blend(a, a, Params{}); !errors.Is(err, ErrNoOp) {
		t.Errorf("nil op err = %v, want ErrNoOp", err)
	}
	if err := sw.Blend(a, b, Params{Op: ColorOp{}}); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("size mismatch err = %v, want ErrSizeMismatch", err)
	}
	if err := sw.Grab(a, GrabParams{}); !errors.Is(err, ErrNoSource) {
		t.Errorf("grab err = %v, want ErrNoSource", err)
	}
}

func TestGrabClipAndReplaceAlpha(t *testing.T) {
	src := solid(20, 20, color.NRGBA{R: 200, A: 255})
	mask := solid(10, 10, color.NRGBA{A: 128})
	dst := image.NewNRGBA(image.Rect(0, 0, 10, 10))

	err := NewSoftware().Grab(dst, GrabParams{
		Footprint:    Footprint{UV: mathutil.Vec2{1, 0.5}, Scale: 0.4},
		Source:       src,
		Mask:         mask,
		Wrap:         Clip,
		ReplaceAlpha: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := dst.NRGBAAt(1, 5); got != (color.NRGBA{R: 200, A: 128}) {
		t.Errorf("inside Texel = %v, want source color with mask alpha", got)
	}
	if got := dst.NRGBAAt(8, 5); got.A != 0 {
		t.Errorf("clipped Texel = %v, want transparent", got)
	}
}

func TestGrabRepeatWraps(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	src.SetNRGBA(1, 0, color.NRGBA{B: 255, A: 255})
	dst := image.NewNRGBA(image.Rect(0, 0, 1, 1))

	// The footprint center sits in the second tile, over the left texel.
	err := NewSoftware().Grab(dst, GrabParams{
		Footprint: Footprint{UV: mathutil.Vec2{1.25, 0.5}, Scale: 0.01},
		Source:    src,
		Wrap:      Repeat,
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := dst.NRGBAAt(0, 0); got != (color.NRGBA{R: 255, A: 255}) {
		t.Errorf("wrapped sample = %v, want red", got)
	}
}

func TestLerpAndFlip(t *testing.T) {
	sw := NewSoftware()
	dst := solid(4, 4, color.NRGBA{A: 255})
	src := solid(4, 4, color.NRGBA{R: 200, G: 100, A: 255})

	sw.Lerp(dst, src, 0.5)
	if got := dst.NRGBAAt(0, 0); got != (color.NRGBA{R: 100, G: 50, A: 255}) {
		t.Errorf("Lerp(0.5) = %v", got)
	}
	sw.Lerp(dst, src, 1)
	if got := dst.NRGBAAt(3, 3); got != src.NRGBAAt(3, 3) {
		t.Errorf("Lerp(1) = %v, want src", got)
	}

	grad := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	grad.SetNRGBA(0, 0, color.NRGBA{R: 1, A: 255})
	grad.SetNRGBA(2, 1, color.NRGBA{R: 9, A: 255})
	out := image.NewNRGBA(grad.Rect)
	sw.Flip(out, grad, true, true)
	if out.NRGBAAt(2, 1).R != 1 || out.NRGBAAt(0, 0).R != 9 {
		t.Errorf("Flip(h, v) corners = %v, %v", out.NRGBAAt(0, 0), out.NRGBAAt(2, 1))
	}
	if sw.Outstanding() != 0 {
		t.Errorf("Outstanding() = %d after Lerp/Flip, want 0", sw.Outstanding())
	}
}

func TestAllocateReusesReleased(t *testing.T) {
	sw := NewSoftware()
	a := sw.Allocate(8, 4)
	if sw.Outstanding() != 1 {
		t.Fatalf("Outstanding() = %d, want 1", sw.Outstanding())
	}
	sw.Release(a)
	b := sw.Allocate(8, 4)
	if a != b {
		t.Error("Allocate did not reuse the released buffer")
	}
	sw.Release(b)
	if sw.Outstanding() != 0 {
		t.Errorf("Outstanding() = %d, want 0", sw.Outstanding())
	}
}

func TestCopyResamples(t *testing.T) {
	sw := NewSoftware()
	dst := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	sw.Copy(dst, solid(2, 2, color.NRGBA{G: 255, A: 255}))
	if got := dst.NRGBAAt(4, 4); got.G < 250 || got.R > 5 || got.A < 250 {
		t.Errorf("scaled copy = %v, want ≈ opaque green", got)
	}
}

func TestDefaultIsShared(t *testing.T) {
	if Default() != Default() {
		t.Error("Default() returned different backends")
	}
}
