package brush

import (
	"encoding/json"
	"image"
	"image/color"
	"testing"
)

func TestClamping(t *testing.T) {
	b := New(nil, 3, color.NRGBA{})
	if b.Scale() != 1 {
		t.Errorf("Scale() = %v, want 1", b.Scale())
	}
	b.SetScale(-0.5)
	if b.Scale() != 0 {
		t.Errorf("Scale() = %v, want 0", b.Scale())
	}
	b.SetNormalBlend(1.5)
	b.SetHeightBlend(-1)
	if b.NormalBlend() != 1 || b.HeightBlend() != 0 {
		t.Errorf("blend amounts = (%v, %v), want (1, 0)", b.NormalBlend(), b.HeightBlend())
	}
}

func TestDefaults(t *testing.T) {
	b := New(nil, DefaultScale, color.NRGBA{R: 255, A: 255})
	if b.NormalBlend() != DefaultNormalBlend || b.HeightBlend() != DefaultHeightBlend {
		t.Errorf("blend defaults = (%v, %v)", b.NormalBlend(), b.HeightBlend())
	}
	if b.ColorMode() != ColorUseConstant {
		t.Errorf("ColorMode() = %v, want constant", b.ColorMode())
	}
}

func TestCloneIsIndependent(t *testing.T) {
	stamp := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	orig := New(stamp, 0.2, color.NRGBA{G: 255, A: 255}, WithRotation(30))

	c := orig.Clone()
	c.SetScale(0.9)
	c.SetColorStamp(nil)
	c.SetColorMode(ColorNeutral)

	if orig.Scale() != 0.2 || orig.ColorStamp() != stamp || orig.ColorMode() != ColorUseConstant {
		t.Errorf("mutating the clone changed the original: %+v", orig)
	}
	if orig.Clone().ColorStamp() != stamp {
		t.Error("Clone() duplicated the stamp, want it shared")
	}
}

func TestOptions(t *testing.T) {
	n := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	h := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	b := New(nil, 0.1, color.NRGBA{},
		WithColorBlend(ColorAlphaOnly),
		WithNormal(n, 2, NormalMax),
		WithHeight(h, 0.4, HeightColorRGBHeightA),
	)
	if b.NormalStamp() != n || b.NormalBlend() != 1 || b.NormalMode() != NormalMax {
		t.Errorf("normal settings = (%p, %v, %v)", b.NormalStamp(), b.NormalBlend(), b.NormalMode())
	}
	if b.HeightStamp() != h || b.HeightBlend() != 0.4 || b.HeightMode() != HeightColorRGBHeightA {
		t.Errorf("height settings = (%p, %v, %v)", b.HeightStamp(), b.HeightBlend(), b.HeightMode())
	}
	if b.ColorMode() != ColorAlphaOnly {
		t.Errorf("ColorMode() = %v", b.ColorMode())
	}
}

func TestBlendModeText(t *testing.T) {
	var v struct {
		C ColorBlend  `json:"c"`
		N NormalBlend `json:"n"`
		H HeightBlend `json:"h"`
	}
	if err := json.Unmarshal([]byte(`{"c":"neutral","n":"subtract","h":"color-rgb-height-a"}`), &v); err != nil {
		t.Fatal(err)
	}
	if v.C != ColorNeutral || v.N != NormalSubtract || v.H != HeightColorRGBHeightA {
		t.Errorf("decoded = %+v", v)
	}
	if err := json.Unmarshal([]byte(`{"c":"bogus"}`), &v); err == nil {
		t.Error("unknown color blend decoded without error")
	}
	if s := HeightBlend(42).String(); s != "unknown(42)" {
		t.Errorf("String() = %q", s)
	}
}
