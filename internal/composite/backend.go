// Package composite applies brush stamps to paint buffers. The Backend
// interface is what the canvas drives; Software implements it on the CPU.
package composite

import (
	"errors"
	"image"
	"sync"
)

var (
	ErrNoOp         = errors.New("composite: params carry no op")
	ErrSizeMismatch = errors.New("composite: buffer sizes differ")
	ErrNoSource     = errors.New("composite: grab has no source")
)

// Backend is a 2-D compositing device. Buffers it hands out with Allocate
// must be returned with Release.
type Backend interface {
	// Allocate returns a w×h scratch buffer. Contents are unspecified.
	Allocate(w, h int) *image.NRGBA
	// Release returns a buffer obtained from Allocate.
	Release(buf *image.NRGBA)
	// Copy overwrites dst with src, resampling if the sizes differ.
	Copy(dst *image.NRGBA, src image.Image)
	// Blend writes src into dst with the stamp of p composited on top.
	// dst and src must have the same size and must not alias.
	Blend(dst, src *image.NRGBA, p Params) error
	// Grab resamples the region of p.Source under the footprint into dst.
	Grab(dst *image.NRGBA, p GrabParams) error
	// Lerp moves every texel of dst towards src by t in [0,1].
	Lerp(dst *image.NRGBA, src image.Image, t float64)
	// Flip writes src mirrored horizontally and/or vertically into dst.
	Flip(dst *image.NRGBA, src image.Image, horizontal, vertical bool)
}

var defaultBackend = sync.OnceValue(func() Backend { return NewSoftware() })

// Default returns the process-wide software backend. It holds no per-call
// state, so canvases on different goroutines may share it.
func Default() Backend {
	return defaultBackend()
}
