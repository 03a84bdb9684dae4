package stroke

import (
	"fmt"
	"image"
	"image/color"

	"inkpaint/internal/brush"
	"inkpaint/internal/canvas"
	"inkpaint/internal/logging"
	"inkpaint/internal/texture"
)

// Resolver looks up stamp textures by name.
type Resolver interface {
	Resolve(name string) *image.NRGBA
}

// defaultStampSize is the side of the solid stamp used when a brush names none.
const defaultStampSize = 32

// SolidStamp returns an opaque white square of side n.
func SolidStamp(n int) *image.NRGBA {
	return texture.Solid(n, n, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
}

// Build turns the JSON description into a brush. Zero scale and amounts take the brush
// defaults.
func (bs BrushSpec) Build(r Resolver) (brush.Brush, error) {
	stamp, err := lookup(r, bs.Stamp)
	if err != nil {
		return brush.Brush{}, err
	}
	if stamp == nil {
		stamp = SolidStamp(defaultStampSize)
	}
	normal, err := lookup(r, bs.Normal)
	if err != nil {
		return brush.Brush{}, err
	}
	height, err := lookup(r, bs.Height)
	if err != nil {
		return brush.Brush{}, err
	}

	scale := bs.Scale
	if scale == 0 {
		scale = brush.DefaultScale
	}
	opts := []brush.Option{
		brush.WithColorBlend(bs.ColorMode),
		brush.WithRotation(bs.Rotation),
	}
	if normal != nil {
		opts = append(opts, brush.WithNormal(normal, orDefault(bs.NormalAmount, brush.DefaultNormalBlend), bs.NormalMode))
	}
	if height != nil {
		opts = append(opts, brush.WithHeight(height, orDefault(bs.HeightAmount, brush.DefaultHeightBlend), bs.HeightMode))
	}
	return brush.New(stamp, scale, color.NRGBA(bs.Tint), opts...), nil
}

func lookup(r Resolver, name string) (*image.NRGBA, error) {
	if name == "" {
		return nil, nil
	}
	if r == nil {
		return nil, fmt.Errorf("stroke: stamp %q: no texture resolver", name)
	}
	img := r.Resolve(name)
	if img == nil {
		return nil, fmt.Errorf("stroke: stamp %q not found", name)
	}
	return img, nil
}

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

// BuildBrushes builds every brush of the script.
func (s *Script) BuildBrushes(r Resolver) (map[string]brush.Brush, error) {
	out := make(map[string]brush.Brush, len(s.Brushes))
	for name, spec := range s.Brushes {
		b, err := spec.Build(r)
		if err != nil {
			return nil, fmt.Errorf("brush %s: %w", name, err)
		}
		out[name] = b
	}
	return out, nil
}

// Result counts the paint and erase ops that succeeded and failed.
type Result struct {
	Applied int `json:"applied"`
	Failed  int `json:"failed"`
}

// Run replays the script's ops against c, which must be initialized. Paint
// and erase failures are counted, not returned; lifecycle errors abort.
func Run(c *canvas.Canvas, s *Script, brushes map[string]brush.Brush) (Result, error) {
	var res Result
	transform := s.Transform.Matrix()

	// Grab rewrites brushes, so work on a copy.
	local := make(map[string]brush.Brush, len(brushes))
	for name, b := range brushes {
		local[name] = b
	}
	brushes = local

	for i, op := range s.Ops {
		switch op.Action {
		case ActionGrab:
			if grab(c, op, brushes) {
				res.Applied++
			} else {
				res.Failed++
			}
			continue
		case ActionReset:
			if err := c.ResetToOriginal(); err != nil {
				return res, fmt.Errorf("stroke: op %d: %w", i, err)
			}
			continue
		case ActionRecover:
			if err := c.Recover(op.T); err != nil {
				return res, fmt.Errorf("stroke: op %d: %w", i, err)
			}
			continue
		case ActionFlip:
			if err := c.Flip(op.Horizontal, op.Vertical); err != nil {
				return res, fmt.Errorf("stroke: op %d: %w", i, err)
			}
			continue
		}

		b, ok := brushes[op.Brush]
		if !ok {
			return res, fmt.Errorf("stroke: op %d: unknown brush %q", i, op.Brush)
		}
		erase := op.Action == ActionErase

		var done bool
		switch {
		case op.UV != nil:
			if erase {
				done = c.EraseAtUV(b, *op.UV, op.Materials...)
			} else {
				done = c.PaintAtUV(b, *op.UV, op.Materials...)
			}
		case op.Local != nil:
			world := transform.MulPoint(*op.Local)
			if erase {
				done = c.EraseAtWorldPoint(b, world, nil)
			} else {
				done = c.PaintAtWorldPoint(b, world, nil)
			}
		case op.World != nil:
			if erase {
				done = c.EraseAtWorldPoint(b, *op.World, nil)
			} else {
				done = c.PaintAtWorldPoint(b, *op.World, nil)
			}
		case op.Nearest != nil:
			if erase {
				done = c.EraseNearestSurface(b, *op.Nearest, nil)
			} else {
				done = c.PaintNearestSurface(b, *op.Nearest, nil)
			}
		case op.Hit != nil:
			hit := canvas.Hit{Point: op.Hit.Point}
			if op.Hit.UV != nil {
				hit.UV, hit.HasUV = *op.Hit.UV, true
			}
			if erase {
				done = c.EraseFromHit(b, hit, nil)
			} else {
				done = c.PaintFromHit(b, hit, nil)
			}
		}

		if done {
			res.Applied++
		} else {
			res.Failed++
			logging.Logger().Warn("stroke: op failed", "op", i, "action", op.Action, "brush", op.Brush)
		}
	}
	return res, nil
}

// grab replaces the op's brush stamp with the area under it, the way a
// clone tool picks up its source.
func grab(c *canvas.Canvas, op Op, brushes map[string]brush.Brush) bool {
	b, ok := brushes[op.Brush]
	if !ok || op.UV == nil {
		return false
	}
	opts := canvas.GrabOptions{
		FromOriginal: op.Source == "original",
		Wrap:         op.Wrap,
		ReplaceAlpha: op.ReplaceAlpha == nil || *op.ReplaceAlpha,
	}
	if len(op.Materials) > 0 {
		opts.Material = op.Materials[0]
	}
	img, err := c.GrabArea(b, *op.UV, opts)
	if err != nil {
		logging.Logger().Warn("stroke: grab failed", "brush", op.Brush, "err", err)
		return false
	}
	b.SetColorStamp(img)
	b.SetColorMode(brush.ColorUseStamp)
	brushes[op.Brush] = b
	return true
}
