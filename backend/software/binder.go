package software

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/gogpu/framebuffer"
	"github.com/gogpu/framebuffer/backend"
	"github.com/gogpu/framebuffer/render"
	"github.com/gogpu/gputypes"
)

// Software backend errors.
var (
	// ErrNotBound is returned when a framebuffer has not been bound.
	ErrNotBound = errors.New("software: framebuffer not bound")

	// ErrNoAttachment is returned when the requested attachment does not exist.
	ErrNoAttachment = errors.New("software: no such attachment")

	// ErrOutOfBounds is returned for pixel coordinates outside a plane.
	ErrOutOfBounds = errors.New("software: coordinates out of bounds")
)

// ClearDepth is the value depth planes are cleared to (the far plane).
const ClearDepth = 0xFFFF

func init() {
	backend.Register(backend.BackendSoftware, func() backend.Binder {
		return New()
	})
}

// key is the Bindings key of a Binder, so several binders can share a
// framebuffer without clobbering each other's state.
type key struct{ b *Binder }

// planes is the CPU storage of one bound framebuffer.
type planes struct {
	colors map[int]*image.RGBA

	depth   []uint16
	stencil []uint8
	dw, dh  int

	unsubscribe func()
}

// Binder keeps CPU planes in sync with framebuffers.
// It is not safe for concurrent use.
type Binder struct {
	tracker *backend.Tracker
	bound   map[uint64]*framebuffer.Framebuffer
	closed  bool
}

// New creates a software binder.
func New() *Binder {
	return &Binder{
		tracker: backend.NewTracker(),
		bound:   make(map[uint64]*framebuffer.Framebuffer),
	}
}

// Name returns "software".
func (b *Binder) Name() string { return backend.BackendSoftware }

// Bind allocates or updates the planes of fb.
//
// The first bind and any format change rebuild every plane from scratch.
// A size-only change rescales color content into the new size and clears
// depth and stencil. Binding an unchanged framebuffer does nothing.
func (b *Binder) Bind(fb *framebuffer.Framebuffer) error {
	if b.closed {
		return backend.ErrBinderClosed
	}
	if fb == nil {
		return backend.ErrNilFramebuffer
	}

	change, first := b.tracker.Observe(fb)
	p := b.planes(fb)

	switch {
	case first || p == nil:
		p = &planes{}
		p.unsubscribe = fb.OnDispose(func(fb *framebuffer.Framebuffer, _ bool) {
			b.Release(fb)
		})
		fb.Bindings().Store(key{b}, p)
		b.bound[fb.ID()] = fb
		p.rebuild(fb)
		framebuffer.Logger().Debug("software: bound", "fb", fb.ID(), "colors", len(p.colors))
	case change.Has(framebuffer.ChangeFormat):
		p.rebuild(fb)
		framebuffer.Logger().Debug("software: rebuilt", "fb", fb.ID(), "change", change)
	case change.Has(framebuffer.ChangeSize):
		p.rescale(fb)
		framebuffer.Logger().Debug("software: rescaled", "fb", fb.ID(), "width", fb.Width(), "height", fb.Height())
	}
	return nil
}

// Release drops the planes of fb. It is a no-op for unbound framebuffers.
func (b *Binder) Release(fb *framebuffer.Framebuffer) {
	if fb == nil {
		return
	}
	b.tracker.Forget(fb)
	delete(b.bound, fb.ID())

	p := b.planes(fb)
	if p == nil {
		return
	}
	fb.Bindings().Delete(key{b})
	if p.unsubscribe != nil {
		p.unsubscribe()
	}
	framebuffer.Logger().Debug("software: released", "fb", fb.ID())
}

// Close releases every bound framebuffer. Subsequent binds fail with
// backend.ErrBinderClosed.
func (b *Binder) Close() {
	if b.closed {
		return
	}
	n := len(b.bound)
	for _, fb := range b.bound {
		b.Release(fb)
	}
	b.closed = true
	framebuffer.Logger().Info("software: closed", "released", n)
}

// Bound reports whether fb currently has planes.
func (b *Binder) Bound(fb *framebuffer.Framebuffer) bool {
	return b.planes(fb) != nil
}

// Clear fills every color image with c, resets depth to ClearDepth and
// stencil to zero.
func (b *Binder) Clear(fb *framebuffer.Framebuffer, c color.Color) error {
	p, err := b.lookup(fb)
	if err != nil {
		return err
	}
	for _, img := range p.colors {
		render.NewPixmapTargetFromImage(img).Clear(c)
	}
	clearPlanes(p.depth, p.stencil)
	return nil
}

// ColorTarget returns a render target sharing memory with color attachment
// index. The target is invalidated by the next Bind that changes fb.
func (b *Binder) ColorTarget(fb *framebuffer.Framebuffer, index int) (*render.PixmapTarget, error) {
	img, err := b.color(fb, index)
	if err != nil {
		return nil, err
	}
	return render.NewPixmapTargetFromImage(img), nil
}

// Target returns color attachment index as a render.RenderTarget.
func (b *Binder) Target(fb *framebuffer.Framebuffer, index int) (render.RenderTarget, error) {
	t, err := b.ColorTarget(fb, index)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Snapshot returns a copy of color attachment index.
func (b *Binder) Snapshot(fb *framebuffer.Framebuffer, index int) (*image.RGBA, error) {
	img, err := b.color(fb, index)
	if err != nil {
		return nil, err
	}
	out := image.NewRGBA(img.Bounds())
	copy(out.Pix, img.Pix)
	return out, nil
}

// DepthAt returns the depth value at (x, y).
func (b *Binder) DepthAt(fb *framebuffer.Framebuffer, x, y int) (uint16, error) {
	p, err := b.lookup(fb)
	if err != nil {
		return 0, err
	}
	if p.depth == nil {
		return 0, fmt.Errorf("%w: depth", ErrNoAttachment)
	}
	if x < 0 || y < 0 || x >= p.dw || y >= p.dh {
		return 0, fmt.Errorf("%w: (%d, %d) in %dx%d", ErrOutOfBounds, x, y, p.dw, p.dh)
	}
	return p.depth[y*p.dw+x], nil
}

// SetDepth stores v at (x, y) in the depth plane.
func (b *Binder) SetDepth(fb *framebuffer.Framebuffer, x, y int, v uint16) error {
	p, err := b.lookup(fb)
	if err != nil {
		return err
	}
	if p.depth == nil {
		return fmt.Errorf("%w: depth", ErrNoAttachment)
	}
	if x < 0 || y < 0 || x >= p.dw || y >= p.dh {
		return fmt.Errorf("%w: (%d, %d) in %dx%d", ErrOutOfBounds, x, y, p.dw, p.dh)
	}
	p.depth[y*p.dw+x] = v
	return nil
}

// Stencil returns the stencil plane, row-major, or nil if stencil was not
// requested.
func (b *Binder) Stencil(fb *framebuffer.Framebuffer) ([]uint8, error) {
	p, err := b.lookup(fb)
	if err != nil {
		return nil, err
	}
	return p.stencil, nil
}

func (b *Binder) planes(fb *framebuffer.Framebuffer) *planes {
	if fb == nil {
		return nil
	}
	v, ok := fb.Bindings().Load(key{b})
	if !ok {
		return nil
	}
	return v.(*planes)
}

func (b *Binder) lookup(fb *framebuffer.Framebuffer) (*planes, error) {
	if fb == nil {
		return nil, backend.ErrNilFramebuffer
	}
	p := b.planes(fb)
	if p == nil {
		return nil, ErrNotBound
	}
	return p, nil
}

func (b *Binder) color(fb *framebuffer.Framebuffer, index int) (*image.RGBA, error) {
	p, err := b.lookup(fb)
	if err != nil {
		return nil, err
	}
	img, ok := p.colors[index]
	if !ok {
		return nil, fmt.Errorf("%w: color %d", ErrNoAttachment, index)
	}
	return img, nil
}

// rebuild replaces every plane with a cleared one.
func (p *planes) rebuild(fb *framebuffer.Framebuffer) {
	p.colors = make(map[int]*image.RGBA, fb.ColorTextureCount())
	for _, i := range fb.ColorIndices() {
		s, _ := fb.ColorTexture(i)
		d := render.DescribeColor(fb, i, s)
		p.colors[i] = render.NewPixmapTarget(int(d.Width), int(d.Height)).Image()
	}
	p.allocDepth(fb)
}

// rescale resizes every color image to its attachment's new pixel size,
// keeping content, and reallocates depth and stencil.
func (p *planes) rescale(fb *framebuffer.Framebuffer) {
	for _, i := range fb.ColorIndices() {
		s, _ := fb.ColorTexture(i)
		d := render.DescribeColor(fb, i, s)
		src, ok := p.colors[i]
		if !ok {
			p.colors[i] = render.NewPixmapTarget(int(d.Width), int(d.Height)).Image()
			continue
		}
		if src.Bounds().Dx() == int(d.Width) && src.Bounds().Dy() == int(d.Height) {
			continue
		}
		dst := render.NewPixmapTarget(int(d.Width), int(d.Height)).Image()
		scaler(d.Filter).Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
		p.colors[i] = dst
	}
	p.allocDepth(fb)
}

func (p *planes) allocDepth(fb *framebuffer.Framebuffer) {
	d := render.DepthAttachment(fb)
	if d == nil {
		p.depth, p.stencil = nil, nil
		p.dw, p.dh = 0, 0
		return
	}
	p.dw, p.dh = int(d.Width), int(d.Height)
	p.depth = make([]uint16, p.dw*p.dh)
	p.stencil = nil
	if fb.WantsStencil() {
		p.stencil = make([]uint8, p.dw*p.dh)
	}
	clearPlanes(p.depth, p.stencil)
}

func clearPlanes(depth []uint16, stencil []uint8) {
	for i := range depth {
		depth[i] = ClearDepth
	}
	clear(stencil)
}

// scaler picks the interpolator matching a texture's sampling filter.
func scaler(f gputypes.FilterMode) draw.Scaler {
	if f == gputypes.FilterModeLinear {
		return draw.BiLinear
	}
	return draw.NearestNeighbor
}

var (
	_ backend.Binder         = (*Binder)(nil)
	_ backend.TargetProvider = (*Binder)(nil)
)
