// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	"fmt"
	"sync/atomic"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/framebuffer"
	"github.com/gogpu/framebuffer/backend"
	"github.com/gogpu/framebuffer/render"
)

// key is the Bindings key of a Binder.
type key struct{ b *Binder }

// attachment is one allocated texture with its default view.
type attachment struct {
	desc render.AttachmentDescriptor
	tex  hal.Texture
	view hal.TextureView
}

// targets holds the GPU side of one framebuffer.
type targets struct {
	colors map[int]*attachment
	depth  *attachment

	unsubscribe func()
}

// Stats counts texture work done by a Binder.
type Stats struct {
	// Creates is the number of textures created.
	Creates uint64
	// Destroys is the number of textures destroyed.
	Destroys uint64
	// Rebuilds is the number of binds that recreated textures after a
	// format change (including first binds).
	Rebuilds uint64
	// Resizes is the number of binds that recreated textures after a
	// size-only change.
	Resizes uint64
}

// Binder creates HAL textures for framebuffer attachments.
//
// A Binder must be used from one goroutine; Stats may be read from any.
type Binder struct {
	device  hal.Device
	opts    options
	tracker *backend.Tracker
	bound   map[uint64]*framebuffer.Framebuffer
	closed  bool

	blit hal.ShaderModule

	creates  atomic.Uint64
	destroys atomic.Uint64
	rebuilds atomic.Uint64
	resizes  atomic.Uint64
}

// New creates a binder on device. The device stays owned by the caller.
func New(device hal.Device, opts ...Option) (*Binder, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Binder{
		device:  device,
		opts:    o,
		tracker: backend.NewTracker(),
		bound:   make(map[uint64]*framebuffer.Framebuffer),
	}, nil
}

// NewFromProvider creates a binder on a device shared by a host
// application. The provider must implement HalDevice() any returning a
// hal.Device.
func NewFromProvider(provider gpucontext.DeviceProvider, opts ...Option) (*Binder, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}
	type halProvider interface {
		HalDevice() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHALDevice
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, ErrNoHALDevice
	}
	return New(device, opts...)
}

// Register makes a native binder on device available as
// backend.BackendNative.
func Register(device hal.Device, opts ...Option) {
	backend.Register(backend.BackendNative, func() backend.Binder {
		b, err := New(device, opts...)
		if err != nil {
			return nil
		}
		return b
	})
}

// Name returns "native".
func (b *Binder) Name() string { return backend.BackendNative }

// Device returns the HAL device textures are created on.
func (b *Binder) Device() hal.Device { return b.device }

// Bind creates or recreates the textures of fb.
//
// Attachments must cover the framebuffer (see framebuffer.Validate). Any
// change since the previous Bind destroys every texture of fb and creates
// new ones. If validation or creation fails, fb is left unbound.
func (b *Binder) Bind(fb *framebuffer.Framebuffer) error {
	if b.closed {
		return errClosed()
	}
	if fb == nil {
		return backend.ErrNilFramebuffer
	}
	if err := fb.Validate(); err != nil {
		framebuffer.Logger().Warn("native: attachment size mismatch", "fb", fb.ID(), "err", err)
		b.Release(fb)
		return fmt.Errorf("native: fb%d: %w", fb.ID(), err)
	}

	change, first := b.tracker.Observe(fb)
	t := b.targets(fb)
	switch {
	case first || t == nil:
		t = &targets{}
		t.unsubscribe = fb.OnDispose(func(fb *framebuffer.Framebuffer, _ bool) {
			b.Release(fb)
		})
		fb.Bindings().Store(key{b}, t)
		b.bound[fb.ID()] = fb
		b.rebuilds.Add(1)
	case change == framebuffer.ChangeNone:
		return nil
	case change.Has(framebuffer.ChangeFormat):
		b.rebuilds.Add(1)
	default:
		b.resizes.Add(1)
	}

	b.destroyTargets(t)
	if err := b.createTargets(fb, t); err != nil {
		framebuffer.Logger().Warn("native: texture creation failed", "fb", fb.ID(), "err", err)
		b.Release(fb)
		return fmt.Errorf("native: fb%d: %w", fb.ID(), err)
	}

	framebuffer.Logger().Debug("native: bound",
		"fb", fb.ID(), "change", change, "first", first,
		"colors", len(t.colors), "depth", t.depth != nil)
	return nil
}

// Release destroys the textures of fb. It is a no-op for unbound
// framebuffers.
func (b *Binder) Release(fb *framebuffer.Framebuffer) {
	if fb == nil {
		return
	}
	b.tracker.Forget(fb)
	delete(b.bound, fb.ID())

	t := b.targets(fb)
	if t == nil {
		return
	}
	b.destroyTargets(t)
	fb.Bindings().Delete(key{b})
	if t.unsubscribe != nil {
		t.unsubscribe()
	}
	framebuffer.Logger().Debug("native: released", "fb", fb.ID())
}

// Close destroys every texture the binder created and the blit shader.
// The device is not destroyed.
func (b *Binder) Close() {
	if b.closed {
		return
	}
	n := len(b.bound)
	for _, fb := range b.bound {
		b.Release(fb)
	}
	if b.blit != nil {
		b.device.DestroyShaderModule(b.blit)
		b.blit = nil
	}
	b.closed = true

	s := b.Stats()
	framebuffer.Logger().Info("native: closed",
		"released", n, "creates", s.Creates, "destroys", s.Destroys)
}

// Stats returns a snapshot of the binder's counters.
func (b *Binder) Stats() Stats {
	return Stats{
		Creates:  b.creates.Load(),
		Destroys: b.destroys.Load(),
		Rebuilds: b.rebuilds.Load(),
		Resizes:  b.resizes.Load(),
	}
}

// ColorTexture returns the texture backing color attachment index.
func (b *Binder) ColorTexture(fb *framebuffer.Framebuffer, index int) (hal.Texture, error) {
	a, err := b.color(fb, index)
	if err != nil {
		return nil, err
	}
	return a.tex, nil
}

// DepthTexture returns the texture backing the depth attachment, explicit
// or implicit.
func (b *Binder) DepthTexture(fb *framebuffer.Framebuffer) (hal.Texture, error) {
	t, err := b.lookup(fb)
	if err != nil {
		return nil, err
	}
	if t.depth == nil {
		return nil, fmt.Errorf("%w: depth", ErrNoAttachment)
	}
	return t.depth.tex, nil
}

// Attachment returns the descriptor color attachment index was created
// from.
func (b *Binder) Attachment(fb *framebuffer.Framebuffer, index int) (render.AttachmentDescriptor, error) {
	a, err := b.color(fb, index)
	if err != nil {
		return render.AttachmentDescriptor{}, err
	}
	return a.desc, nil
}

// ColorTarget returns a render target for color attachment index. The view
// stays owned by the binder.
func (b *Binder) ColorTarget(fb *framebuffer.Framebuffer, index int) (*render.TextureTarget, error) {
	a, err := b.color(fb, index)
	if err != nil {
		return nil, err
	}
	return render.NewTextureTarget(int(a.desc.Width), int(a.desc.Height), a.desc.Format, View{a.view}), nil
}

// Target returns color attachment index as a render.RenderTarget.
func (b *Binder) Target(fb *framebuffer.Framebuffer, index int) (render.RenderTarget, error) {
	t, err := b.ColorTarget(fb, index)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// RenderPassDescriptor describes a render pass that draws into every
// attachment of fb. Color attachments are listed in ascending index order
// and cleared to clearColor. Depth is cleared to the configured value, as
// is stencil when the depth format has a stencil aspect.
func (b *Binder) RenderPassDescriptor(fb *framebuffer.Framebuffer, clearColor gputypes.Color) (*hal.RenderPassDescriptor, error) {
	t, err := b.lookup(fb)
	if err != nil {
		return nil, err
	}

	desc := &hal.RenderPassDescriptor{
		Label: fmt.Sprintf("fb%d_pass", fb.ID()),
	}
	for _, i := range fb.ColorIndices() {
		a, ok := t.colors[i]
		if !ok {
			continue
		}
		desc.ColorAttachments = append(desc.ColorAttachments, hal.RenderPassColorAttachment{
			View:       a.view,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: clearColor,
		})
	}
	if t.depth != nil {
		ds := &hal.RenderPassDepthStencilAttachment{
			View:            t.depth.view,
			DepthLoadOp:     gputypes.LoadOpClear,
			DepthStoreOp:    gputypes.StoreOpStore,
			DepthClearValue: b.opts.depthClear,
		}
		if hasStencil(t.depth.desc.Format) {
			ds.StencilLoadOp = gputypes.LoadOpClear
			ds.StencilStoreOp = gputypes.StoreOpStore
			ds.StencilClearValue = b.opts.stencilClear
		}
		desc.DepthStencilAttachment = ds
	}
	return desc, nil
}

func (b *Binder) targets(fb *framebuffer.Framebuffer) *targets {
	v, ok := fb.Bindings().Load(key{b})
	if !ok {
		return nil
	}
	return v.(*targets)
}

func (b *Binder) lookup(fb *framebuffer.Framebuffer) (*targets, error) {
	if fb == nil {
		return nil, backend.ErrNilFramebuffer
	}
	t := b.targets(fb)
	if t == nil {
		return nil, ErrNotBound
	}
	return t, nil
}

func (b *Binder) color(fb *framebuffer.Framebuffer, index int) (*attachment, error) {
	t, err := b.lookup(fb)
	if err != nil {
		return nil, err
	}
	a, ok := t.colors[index]
	if !ok {
		return nil, fmt.Errorf("%w: color %d", ErrNoAttachment, index)
	}
	return a, nil
}

// createTargets creates a texture and view for every attachment of fb.
// On failure, everything created so far is destroyed.
func (b *Binder) createTargets(fb *framebuffer.Framebuffer, t *targets) error {
	t.colors = make(map[int]*attachment, fb.ColorTextureCount())
	for _, d := range render.Attachments(fb) {
		a, err := b.createAttachment(d)
		if err != nil {
			b.destroyTargets(t)
			return err
		}
		if d.Depth {
			t.depth = a
		} else {
			t.colors[d.Index] = a
		}
	}
	return nil
}

func (b *Binder) createAttachment(d render.AttachmentDescriptor) (*attachment, error) {
	tex, err := b.device.CreateTexture(&hal.TextureDescriptor{
		Label: d.Label,
		Size: hal.Extent3D{
			Width:              d.Width,
			Height:             d.Height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: d.MipLevelCount,
		SampleCount:   d.SampleCount,
		Dimension:     gputypes.TextureDimension2D,
		Format:        d.Format,
		Usage:         d.Usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s texture: %w", d.Key(), err)
	}
	b.creates.Add(1)

	view, err := b.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label: d.Label + "_view",
	})
	if err != nil {
		b.device.DestroyTexture(tex)
		b.destroys.Add(1)
		return nil, fmt.Errorf("create %s texture view: %w", d.Key(), err)
	}
	return &attachment{desc: d, tex: tex, view: view}, nil
}

// destroyTargets releases all views and textures of t.
func (b *Binder) destroyTargets(t *targets) {
	for i, a := range t.colors {
		b.destroyAttachment(a)
		delete(t.colors, i)
	}
	if t.depth != nil {
		b.destroyAttachment(t.depth)
		t.depth = nil
	}
}

func (b *Binder) destroyAttachment(a *attachment) {
	if a.view != nil {
		b.device.DestroyTextureView(a.view)
		a.view = nil
	}
	if a.tex != nil {
		b.device.DestroyTexture(a.tex)
		a.tex = nil
		b.destroys.Add(1)
	}
}

func hasStencil(f gputypes.TextureFormat) bool {
	switch f {
	case gputypes.TextureFormatDepth24PlusStencil8,
		gputypes.TextureFormatDepth32FloatStencil8,
		gputypes.TextureFormatStencil8:
		return true
	}
	return false
}

func errClosed() error {
	return fmt.Errorf("native: %w", backend.ErrBinderClosed)
}

// View adapts a hal.TextureView owned by a Binder to render.TextureView.
// Destroy is a no-op; the binder destroys its views on Release.
type View struct {
	hal.TextureView
}

// HAL returns the underlying view.
func (v View) HAL() hal.TextureView { return v.TextureView }

// Destroy does nothing.
func (v View) Destroy() {}

var (
	_ backend.Binder         = (*Binder)(nil)
	_ backend.TargetProvider = (*Binder)(nil)
)
