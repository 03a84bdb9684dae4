// Package stroke decodes paint scripts: a mesh, its materials, named
// brushes and an ordered list of paint, erase and maintenance operations
// that Run replays against a canvas.
package stroke

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"strconv"
	"strings"

	"inkpaint/internal/brush"
	"inkpaint/internal/camera"
	"inkpaint/internal/composite"
	"inkpaint/internal/mathutil"
)

// Script is one paint job.
type Script struct {
	// Mesh is an OBJ path relative to the script, or empty for the unit quad.
	Mesh      string               `json:"mesh"`
	Materials []MaterialSpec       `json:"materials"`
	Channels  *ChannelSpec         `json:"channels,omitempty"`
	Transform TransformSpec        `json:"transform"`
	Camera    *camera.Camera       `json:"camera,omitempty"`
	Brushes   map[string]BrushSpec `json:"brushes"`
	Ops       []Op                 `json:"ops"`
}

// MaterialSpec names the base texture of each channel. Names are resolved
// through the texture index; a material without textures gets blank ones.
type MaterialSpec struct {
	Name   string `json:"name"`
	Color  string `json:"color,omitempty"`
	Normal string `json:"normal,omitempty"`
	Height string `json:"height,omitempty"`
}

// ChannelSpec overrides which channels every paint set enables.
type ChannelSpec struct {
	Color  bool `json:"color"`
	Normal bool `json:"normal"`
	Height bool `json:"height"`
}

// TransformSpec places the mesh in the world. Rotate is XYZ Euler degrees;
// a zero Scale means unit scale.
type TransformSpec struct {
	Translate mathutil.Vec3 `json:"translate"`
	Rotate    mathutil.Vec3 `json:"rotate"`
	Scale     mathutil.Vec3 `json:"scale"`
}

// Matrix returns the local-to-world matrix.
func (t TransformSpec) Matrix() mathutil.Mat4 {
	s := t.Scale
	if s == (mathutil.Vec3{}) {
		s = mathutil.Vec3{1, 1, 1}
	}
	return mathutil.TRS(t.Translate, t.Rotate, s)
}

// BrushSpec is the JSON form of a brush. Stamps are texture names; an empty
// color stamp means a solid square.
type BrushSpec struct {
	Stamp     string           `json:"stamp"`
	Scale     float64          `json:"scale"`
	Rotation  float64          `json:"rotation"`
	Tint      Color            `json:"tint"`
	ColorMode brush.ColorBlend `json:"color_mode"`

	Normal       string            `json:"normal,omitempty"`
	NormalAmount float64           `json:"normal_amount"`
	NormalMode   brush.NormalBlend `json:"normal_mode"`

	Height       string            `json:"height,omitempty"`
	HeightAmount float64           `json:"height_amount"`
	HeightMode   brush.HeightBlend `json:"height_mode"`
}

// Action is what an Op does.
type Action string

const (
	ActionPaint   Action = "paint"
	ActionErase   Action = "erase"
	ActionReset   Action = "reset"
	ActionRecover Action = "recover"
	ActionFlip    Action = "flip"
	// ActionGrab copies the color texels under the brush at UV into the
	// brush's stamp and switches it to stamp colors.
	ActionGrab Action = "grab"
)

// Op is one script step. Paint and erase take a brush and exactly one
// target: UV, Local, World, Nearest or Hit.
type Op struct {
	Action    Action         `json:"action"`
	Brush     string         `json:"brush,omitempty"`
	Materials []string       `json:"materials,omitempty"`
	UV        *mathutil.Vec2 `json:"uv,omitempty"`
	Local     *mathutil.Vec3 `json:"local,omitempty"`
	World     *mathutil.Vec3 `json:"world,omitempty"`
	Nearest   *mathutil.Vec3 `json:"nearest,omitempty"`
	Hit       *HitSpec       `json:"hit,omitempty"`

	T          float64 `json:"t,omitempty"` // recover amount
	Horizontal bool    `json:"horizontal,omitempty"`
	Vertical   bool    `json:"vertical,omitempty"`

	// Grab settings. Source is "paint" (default) or "original";
	// ReplaceAlpha defaults to true.
	Source       string         `json:"source,omitempty"`
	Wrap         composite.Wrap `json:"wrap,omitempty"`
	ReplaceAlpha *bool          `json:"replace_alpha,omitempty"`
}

// HitSpec is a raycast result; UV is optional.
type HitSpec struct {
	Point mathutil.Vec3  `json:"point"`
	UV    *mathutil.Vec2 `json:"uv,omitempty"`
}

var ErrNoTarget = errors.New("stroke: paint op needs exactly one target")

// Decode parses and validates a script.
func Decode(r io.Reader) (*Script, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var s Script
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("stroke: parse: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads and validates a script file.
func Load(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("stroke: open %s: %w", path, err)
	}
	defer f.Close()
	s, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Validate checks brush references and op targets.
func (s *Script) Validate() error {
	if len(s.Materials) == 0 {
		return errors.New("stroke: no materials")
	}
	for i, op := range s.Ops {
		switch op.Action {
		case ActionPaint, ActionErase:
			if _, ok := s.Brushes[op.Brush]; !ok {
				return fmt.Errorf("stroke: op %d: unknown brush %q", i, op.Brush)
			}
			if op.targets() != 1 {
				return fmt.Errorf("stroke: op %d: %w", i, ErrNoTarget)
			}
		case ActionGrab:
			if _, ok := s.Brushes[op.Brush]; !ok {
				return fmt.Errorf("stroke: op %d: unknown brush %q", i, op.Brush)
			}
			if op.UV == nil || op.targets() != 1 {
				return fmt.Errorf("stroke: op %d: grab needs a uv target", i)
			}
			if op.Source != "" && op.Source != "paint" && op.Source != "original" {
				return fmt.Errorf("stroke: op %d: unknown grab source %q", i, op.Source)
			}
		case ActionReset, ActionFlip:
		case ActionRecover:
			if op.T < 0 || op.T > 1 {
				return fmt.Errorf("stroke: op %d: recover t %v outside [0,1]", i, op.T)
			}
		default:
			return fmt.Errorf("stroke: op %d: unknown action %q", i, op.Action)
		}
	}
	return nil
}

func (op Op) targets() int {
	n := 0
	if op.UV != nil {
		n++
	}
	if op.Local != nil {
		n++
	}
	if op.World != nil {
		n++
	}
	if op.Nearest != nil {
		n++
	}
	if op.Hit != nil {
		n++
	}
	return n
}

// Color is an RGBA color written as "#rrggbb" or "#rrggbbaa".
type Color color.NRGBA

func (c Color) MarshalText() ([]byte, error) {
	return []byte(fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	s := strings.TrimPrefix(string(text), "#")
	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("stroke: color %q: want #rrggbb or #rrggbbaa", text)
	}
	if len(s) == 6 {
		s += "ff"
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return fmt.Errorf("stroke: color %q: %w", text, err)
	}
	*c = Color{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}
	return nil
}
