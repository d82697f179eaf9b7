// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package framebuffer

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sync/atomic"
)

// DefaultSize is used for any dimension passed to New that is zero, NaN or
// otherwise not positive.
const DefaultSize = 100

// lastID hands out process-unique framebuffer identities.
var lastID atomic.Uint64

// Framebuffer aggregates color attachments and an optional depth attachment,
// and records what changed since a backend last synchronized with it.
//
// Backends poll Versions once per frame and compare against the values they
// last observed; only disposal is pushed (see OnDispose).
//
// Framebuffer is NOT safe for concurrent use. It is meant to be owned by a
// single render goroutine, or externally synchronized.
type Framebuffer struct {
	id     uint64
	label  string
	width  int
	height int

	wantsDepth   bool
	wantsStencil bool

	versions Versions

	color map[int]Surface
	depth Surface

	bindings *Bindings
	disposed Signal
	factory  TextureFactory
}

// New creates a framebuffer of the given logical size.
//
// Fractional sizes are rounded up. Zero, NaN or non-positive sizes fall back
// to DefaultSize. Construction never fails.
func New(width, height float64, opts ...Option) *Framebuffer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &Framebuffer{
		id:       lastID.Add(1),
		label:    o.label,
		width:    initialSize(width),
		height:   initialSize(height),
		color:    make(map[int]Surface),
		bindings: newBindings(),
		factory:  o.factory,
	}
}

// ID returns a process-unique identity for the framebuffer.
func (fb *Framebuffer) ID() uint64 { return fb.id }

// Label returns the debug name set with WithLabel.
func (fb *Framebuffer) Label() string { return fb.label }

// Width returns the logical width.
func (fb *Framebuffer) Width() int { return fb.width }

// Height returns the logical height.
func (fb *Framebuffer) Height() int { return fb.height }

// Size returns width and height as a convenience.
func (fb *Framebuffer) Size() (width, height int) { return fb.width, fb.height }

// WantsDepth reports whether a depth attachment was requested.
func (fb *Framebuffer) WantsDepth() bool { return fb.wantsDepth }

// WantsStencil reports whether a stencil attachment was requested.
func (fb *Framebuffer) WantsStencil() bool { return fb.wantsStencil }

// Versions returns the current dirty counters.
func (fb *Framebuffer) Versions() Versions { return fb.versions }

// Bindings returns the backend cache. The framebuffer never touches it.
func (fb *Framebuffer) Bindings() *Bindings { return fb.bindings }

// ColorTexture returns the color attachment at index, if any.
func (fb *Framebuffer) ColorTexture(index int) (Surface, bool) {
	s, ok := fb.color[index]
	return s, ok
}

// PrimaryColorTexture returns the color attachment at index 0, or nil.
func (fb *Framebuffer) PrimaryColorTexture() Surface {
	return fb.color[0]
}

// ColorIndices returns the occupied color slots in ascending order.
func (fb *Framebuffer) ColorIndices() []int {
	indices := make([]int, 0, len(fb.color))
	for i := range fb.color {
		indices = append(indices, i)
	}
	slices.Sort(indices)
	return indices
}

// ColorTextureCount returns the number of occupied color slots.
func (fb *Framebuffer) ColorTextureCount() int { return len(fb.color) }

// DepthTexture returns the depth attachment, or nil.
func (fb *Framebuffer) DepthTexture() Surface { return fb.depth }

// AddColorTexture attaches s at index. If s is nil, a nearest-sampled,
// non-mipmapped RGBA texture of the framebuffer's size is created.
//
// Any surface previously at index is replaced without being destroyed: it
// may be shared with other framebuffers, so releasing it is up to the
// caller. The surface's size is not checked; see Validate.
//
// AddColorTexture panics if index is negative.
func (fb *Framebuffer) AddColorTexture(index int, s Surface) *Framebuffer {
	if index < 0 {
		panic(fmt.Sprintf("framebuffer: negative color attachment index %d", index))
	}
	if s == nil {
		s = fb.factory(fb.textureOptions(ColorTextureOptions, fmt.Sprintf("color%d", index)))
	}
	fb.color[index] = s
	fb.bumpFormat()

	Logger().Debug("framebuffer: color attachment added",
		"fb", fb.id, "index", index, "versions", fb.versions)
	return fb
}

// AddDepthTexture attaches s as the depth attachment. If s is nil, an owned
// Depth16Unorm texture of the framebuffer's size is created.
//
// A previous depth surface is replaced without being destroyed.
func (fb *Framebuffer) AddDepthTexture(s Surface) *Framebuffer {
	if s == nil {
		s = fb.factory(fb.textureOptions(DepthTextureOptions, "depth"))
	}
	fb.depth = s
	fb.bumpFormat()

	Logger().Debug("framebuffer: depth attachment added",
		"fb", fb.id, "versions", fb.versions)
	return fb
}

// EnableDepth requests a depth buffer. Every call advances the Structure
// and Format counters, even if depth was already requested.
func (fb *Framebuffer) EnableDepth() *Framebuffer {
	fb.wantsDepth = true
	fb.bumpFormat()
	return fb
}

// EnableStencil requests a stencil buffer. Every call advances the Structure
// and Format counters, even if stencil was already requested.
func (fb *Framebuffer) EnableStencil() *Framebuffer {
	fb.wantsStencil = true
	fb.bumpFormat()
	return fb
}

// Resize changes the logical size and propagates it to every attachment.
//
// Fractional sizes are rounded up and values below one are clamped to one.
// Resizing to the current size does nothing at all. Otherwise the Structure
// and Size counters advance and each attachment is resized to the new size
// divided by its own resolution; empty color slots are skipped.
//
// Errors from attachments are returned unmodified (joined when several
// attachments fail). The framebuffer's own size and counters are updated
// regardless.
func (fb *Framebuffer) Resize(width, height float64) error {
	w, h := resizeSize(width), resizeSize(height)
	if w == fb.width && h == fb.height {
		return nil
	}

	fb.width = w
	fb.height = h
	fb.versions.Structure++
	fb.versions.Size++

	var errs []error
	for _, i := range fb.ColorIndices() {
		if err := resizeSurface(fb.color[i], w, h); err != nil {
			errs = append(errs, err)
		}
	}
	if fb.depth != nil {
		if err := resizeSurface(fb.depth, w, h); err != nil {
			errs = append(errs, err)
		}
	}

	Logger().Debug("framebuffer: resized",
		"fb", fb.id, "width", w, "height", h, "versions", fb.versions)

	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return errors.Join(errs...)
	}
}

// DestroyDepthTexture destroys and detaches the depth attachment.
// It does nothing if there is no depth attachment.
func (fb *Framebuffer) DestroyDepthTexture() *Framebuffer {
	if fb.depth == nil {
		return fb
	}
	fb.depth.Destroy()
	fb.depth = nil
	fb.bumpFormat()

	Logger().Debug("framebuffer: depth attachment destroyed",
		"fb", fb.id, "versions", fb.versions)
	return fb
}

// OnDispose registers fn to run on every Dispose. It returns a function
// that removes the subscription.
func (fb *Framebuffer) OnDispose(fn DisposeFunc) (unsubscribe func()) {
	return fb.disposed.Subscribe(fn)
}

// Dispose notifies every dispose subscriber with contextLost set to false.
//
// Attachments and counters are left untouched; subscribers release whatever
// native state they keyed off this framebuffer. Each call notifies again.
func (fb *Framebuffer) Dispose() {
	Logger().Debug("framebuffer: dispose", "fb", fb.id, "subscribers", fb.disposed.Len())
	fb.disposed.Emit(fb, false)
}

// Validate checks that every attachment covers the framebuffer, i.e. that
// its logical size times its resolution matches the framebuffer size times
// that resolution to within half a pixel.
//
// Attaching never validates; backends call this before creating native
// objects when they need matching sizes.
func (fb *Framebuffer) Validate() error {
	var errs []error
	for _, i := range fb.ColorIndices() {
		if err := fb.checkSurface(fb.color[i]); err != nil {
			errs = append(errs, fmt.Errorf("color attachment %d: %w", i, err))
		}
	}
	if fb.depth != nil {
		if err := fb.checkSurface(fb.depth); err != nil {
			errs = append(errs, fmt.Errorf("depth attachment: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (fb *Framebuffer) checkSurface(s Surface) error {
	res := s.Resolution()
	wantW, wantH := float64(fb.width), float64(fb.height)
	gotW, gotH := s.Width()*res, s.Height()*res
	if math.Abs(gotW-wantW) > 0.5 || math.Abs(gotH-wantH) > 0.5 {
		return fmt.Errorf("%w: got %gx%g, want %dx%d",
			ErrSurfaceSizeMismatch, gotW, gotH, fb.width, fb.height)
	}
	return nil
}

func (fb *Framebuffer) bumpFormat() {
	fb.versions.Structure++
	fb.versions.Format++
}

func (fb *Framebuffer) textureOptions(base func(w, h float64) TextureOptions, name string) TextureOptions {
	opts := base(float64(fb.width), float64(fb.height))
	if fb.label != "" {
		opts.Label = fb.label + "/" + name
	} else {
		opts.Label = fmt.Sprintf("fb%d/%s", fb.id, name)
	}
	return opts
}

// resizeSurface applies the framebuffer size to s, scaled down by the
// surface's resolution.
func resizeSurface(s Surface, width, height int) error {
	res := s.Resolution()
	return s.Resize(float64(width)/res, float64(height)/res)
}

func initialSize(v float64) int {
	if v == 0 || math.IsNaN(v) {
		return DefaultSize
	}
	n := math.Ceil(v)
	if n < 1 {
		return DefaultSize
	}
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(n)
}

func resizeSize(v float64) int {
	if math.IsNaN(v) {
		return 1
	}
	n := math.Ceil(v)
	if n < 1 {
		return 1
	}
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(n)
}
