package canvas

import "inkpaint/internal/brush"

// Hook observes a canvas lifecycle event.
type Hook func(c *Canvas)

// PaintHook observes the start of a paint call. b is the canvas's private
// copy of the caller's brush; changes to it apply to the rest of the call.
type PaintHook func(c *Canvas, b *brush.Brush)

// Hooks holds the observer lists. Observers run synchronously in
// registration order.
type Hooks struct {
	Attach     []Hook
	PreInit    []Hook
	PostInit   []Hook
	PaintStart []PaintHook
	PaintEnd   []Hook
}

func (h *Hooks) merge(o Hooks) {
	h.Attach = append(h.Attach, o.Attach...)
	h.PreInit = append(h.PreInit, o.PreInit...)
	h.PostInit = append(h.PostInit, o.PostInit...)
	h.PaintStart = append(h.PaintStart, o.PaintStart...)
	h.PaintEnd = append(h.PaintEnd, o.PaintEnd...)
}

func fire(c *Canvas, list []Hook) {
	for _, fn := range list {
		fn(c)
	}
}

// OnPreInit registers fn to run before paint buffers are allocated.
func (c *Canvas) OnPreInit(fn Hook) { c.hooks.PreInit = append(c.hooks.PreInit, fn) }

// OnPostInit registers fn to run after paint buffers are allocated, both in
// Init and in ResetToOriginal.
func (c *Canvas) OnPostInit(fn Hook) { c.hooks.PostInit = append(c.hooks.PostInit, fn) }

// OnPaintStart registers fn to run before a paint or erase call touches
// any buffer.
func (c *Canvas) OnPaintStart(fn PaintHook) {
	c.hooks.PaintStart = append(c.hooks.PaintStart, fn)
}

// OnPaintEnd registers fn to run after every material and channel of a
// paint or erase call has been processed.
func (c *Canvas) OnPaintEnd(fn Hook) { c.hooks.PaintEnd = append(c.hooks.PaintEnd, fn) }
