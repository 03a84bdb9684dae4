// Package canvas owns the paint buffers of one mesh instance and applies
// brush strokes to them by UV, local or world point, or raycast hit.
//
// A Canvas is not safe for concurrent use. Independent canvases may run on
// different goroutines and share a composite.Backend.
package canvas

import (
	"errors"
	"fmt"
	"image"

	"inkpaint/internal/camera"
	"inkpaint/internal/composite"
	"inkpaint/internal/logging"
	"inkpaint/internal/mathutil"
	"inkpaint/internal/mesh"
)

var (
	ErrNoMesh      = errors.New("canvas: no mesh")
	ErrInvalidMesh = errors.New("canvas: invalid mesh")
	ErrDestroyed   = errors.New("canvas: destroyed")
	ErrNotReady    = errors.New("canvas: not initialized")
	ErrNotFound    = errors.New("canvas: no paint set for material")
	ErrNoStamp     = errors.New("canvas: brush has no color stamp")
)

// State is the lifecycle position of a canvas.
type State int

const (
	StateUninitialized State = iota
	StateAttached
	StateReady
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateAttached:
		return "attached"
	case StateReady:
		return "ready"
	case StateDestroyed:
		return "destroyed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// EraseSource selects the texture erase strokes sample from.
type EraseSource int

const (
	// EraseFromPaint samples the live paint buffer.
	EraseFromPaint EraseSource = iota
	// EraseFromOriginal samples the untouched base texture, so an erase
	// paints the original back under the stamp.
	EraseFromOriginal
)

func (e EraseSource) String() string {
	if e == EraseFromOriginal {
		return "original"
	}
	return "paint"
}

// ParseEraseSource accepts "paint" or "original".
func ParseEraseSource(s string) (EraseSource, error) {
	switch s {
	case "paint", "":
		return EraseFromPaint, nil
	case "original":
		return EraseFromOriginal, nil
	}
	return 0, fmt.Errorf("canvas: unknown erase source %q", s)
}

// Canvas is the paint state of one mesh instance.
type Canvas struct {
	mesh    *mesh.Mesh
	op      *mesh.Operator
	sets    []*PaintSet
	backend composite.Backend

	transform   mathutil.Mat4 // local to world
	inverse     mathutil.Mat4
	camera      *camera.Camera
	eraseSource EraseSource
	channels    [3]bool
	channelsSet bool

	state   State
	erasing bool
	hooks   Hooks
}

// Option configures a Canvas in New.
type Option func(*Canvas)

// WithBackend sets the compositing backend. The default is composite.Default().
func WithBackend(b composite.Backend) Option {
	return func(c *Canvas) { c.backend = b }
}

// WithTransform sets the local-to-world transform of the mesh.
func WithTransform(m mathutil.Mat4) Option {
	return func(c *Canvas) { c.transform = m }
}

// WithCamera sets the camera world-point paints use when the caller passes none.
func WithCamera(cam *camera.Camera) Option {
	return func(c *Canvas) { c.camera = cam }
}

// WithEraseSource selects what erase strokes sample.
func WithEraseSource(s EraseSource) Option {
	return func(c *Canvas) { c.eraseSource = s }
}

// WithChannels sets the channel toggles of every paint set.
func WithChannels(color, normal, height bool) Option {
	return func(c *Canvas) {
		c.channels = [3]bool{color, normal, height}
		c.channelsSet = true
	}
}

// WithHooks appends observers. Attach observers only take effect through
// this option since attachment happens inside New.
func WithHooks(h Hooks) Option {
	return func(c *Canvas) { c.hooks.merge(h) }
}

// New attaches a canvas to m with one paint set per material. A nil or
// malformed mesh fails construction; nothing else does.
func New(m *mesh.Mesh, materials []*Material, opts ...Option) (*Canvas, error) {
	if m == nil {
		logging.Logger().Warn("canvas: no mesh, canvas disabled")
		return nil, ErrNoMesh
	}
	op, err := mesh.NewOperator(m)
	if err != nil {
		logging.Logger().Warn("canvas: invalid mesh, canvas disabled", "mesh", m.Name, "err", err)
		return nil, fmt.Errorf("%w %s: %w", ErrInvalidMesh, m.Name, err)
	}

	c := &Canvas{
		mesh:      m,
		op:        op,
		transform: mathutil.Mat4Identity(),
	}
	for _, o := range opts {
		o(c)
	}
	if c.backend == nil {
		c.backend = composite.Default()
	}
	c.inverse = c.transform.Inverse()

	c.sets = make([]*PaintSet, 0, len(materials))
	for _, mat := range materials {
		ps := NewPaintSet(mat)
		if c.channelsSet {
			ps.UseColor, ps.UseNormal, ps.UseHeight = c.channels[0], c.channels[1], c.channels[2]
		}
		c.sets = append(c.sets, ps)
	}

	c.state = StateAttached
	logging.Logger().Info("canvas attached", "mesh", m.Name, "materials", len(c.sets))
	fire(c, c.hooks.Attach)
	return c, nil
}

// State returns the lifecycle state.
func (c *Canvas) State() State { return c.state }

// Mesh returns the painted mesh.
func (c *Canvas) Mesh() *mesh.Mesh { return c.mesh }

// PaintSets returns the paint sets in material-slot order. Toggles and
// property names may be edited before Init.
func (c *Canvas) PaintSets() []*PaintSet { return c.sets }

// Erasing reports whether the paint call in progress is an erase. It is only
// meaningful inside hooks.
func (c *Canvas) Erasing() bool { return c.erasing }

// Init allocates the paint buffers from the material textures.
func (c *Canvas) Init() error {
	switch c.state {
	case StateDestroyed:
		return ErrDestroyed
	case StateReady:
		return nil
	}
	fire(c, c.hooks.PreInit)
	c.allocate()
	c.state = StateReady
	logging.Logger().Info("canvas ready", "mesh", c.mesh.Name)
	fire(c, c.hooks.PostInit)
	return nil
}

// ResetToOriginal discards all paint and copies the originals again.
func (c *Canvas) ResetToOriginal() error {
	if c.state != StateReady {
		return c.stateErr()
	}
	c.release()
	c.allocate()
	logging.Logger().Info("canvas reset", "mesh", c.mesh.Name)
	fire(c, c.hooks.PostInit)
	return nil
}

// Destroy releases the paint buffers. The canvas cannot be used afterwards.
func (c *Canvas) Destroy() {
	if c.state == StateDestroyed {
		return
	}
	c.release()
	c.state = StateDestroyed
	logging.Logger().Info("canvas destroyed", "mesh", c.mesh.Name)
}

func (c *Canvas) stateErr() error {
	if c.state == StateDestroyed {
		return ErrDestroyed
	}
	return ErrNotReady
}

func (c *Canvas) allocate() {
	for _, ps := range c.sets {
		for _, ch := range Channels {
			if !ps.Enabled(ch) {
				continue
			}
			tex := ps.texture(ch)
			if tex == nil {
				logging.Logger().Warn("canvas: no texture for enabled channel",
					"material", ps.Name(), "channel", ch, "property", ps.Property(ch))
				continue
			}
			buf := image.NewNRGBA(image.Rect(0, 0, tex.Rect.Dx(), tex.Rect.Dy()))
			c.backend.Copy(buf, tex)
			ps.original[ch] = tex
			ps.buffer[ch] = buf
		}
	}
}

func (c *Canvas) release() {
	for _, ps := range c.sets {
		ps.original = [3]*image.NRGBA{}
		ps.buffer = [3]*image.NRGBA{}
	}
}
