package software

import (
	"errors"
	"image/color"
	"testing"

	"github.com/gogpu/framebuffer"
	"github.com/gogpu/framebuffer/backend"
	"github.com/gogpu/gputypes"
)

var (
	red  = color.RGBA{R: 255, A: 255}
	blue = color.RGBA{B: 255, A: 255}
)

func TestBinderName(t *testing.T) {
	b := New()
	if b.Name() != "software" {
		t.Errorf("Name() = %q, want %q", b.Name(), "software")
	}
}

func TestBinderRegistered(t *testing.T) {
	if !backend.IsRegistered(backend.BackendSoftware) {
		t.Fatal("software backend should be auto-registered")
	}
	b := backend.Get(backend.BackendSoftware)
	if b == nil {
		t.Fatal("Get(software) returned nil")
	}
	if _, ok := b.(*Binder); !ok {
		t.Errorf("Get(software) = %T, want *Binder", b)
	}
}

func TestBinderBindErrors(t *testing.T) {
	b := New()
	if err := b.Bind(nil); !errors.Is(err, backend.ErrNilFramebuffer) {
		t.Errorf("Bind(nil) error = %v, want %v", err, backend.ErrNilFramebuffer)
	}

	b.Close()
	if err := b.Bind(framebuffer.New(4, 4)); !errors.Is(err, backend.ErrBinderClosed) {
		t.Errorf("Bind() after Close error = %v, want %v", err, backend.ErrBinderClosed)
	}
}

func TestBinderAllocatesColorPlanes(t *testing.T) {
	b := New()
	hiDPI := framebuffer.NewTexture(framebuffer.TextureOptions{
		Width:      4,
		Height:     3,
		Resolution: 2,
		Format:     gputypes.TextureFormatRGBA8Unorm,
	})
	fb := framebuffer.New(8, 6).
		AddColorTexture(0, nil).
		AddColorTexture(2, hiDPI)

	if err := b.Bind(fb); err != nil {
		t.Fatalf("Bind() error = %v", err)
	}

	tests := []struct {
		index         int
		width, height int
	}{
		{0, 8, 6},
		{2, 8, 6},
	}
	for _, tt := range tests {
		target, err := b.ColorTarget(fb, tt.index)
		if err != nil {
			t.Fatalf("ColorTarget(%d) error = %v", tt.index, err)
		}
		if target.Width() != tt.width || target.Height() != tt.height {
			t.Errorf("ColorTarget(%d) size = %dx%d, want %dx%d",
				tt.index, target.Width(), target.Height(), tt.width, tt.height)
		}
	}

	if _, err := b.ColorTarget(fb, 1); !errors.Is(err, ErrNoAttachment) {
		t.Errorf("ColorTarget(1) error = %v, want %v", err, ErrNoAttachment)
	}
	if _, err := b.DepthAt(fb, 0, 0); !errors.Is(err, ErrNoAttachment) {
		t.Errorf("DepthAt() without depth error = %v, want %v", err, ErrNoAttachment)
	}
}

func TestBinderNotBound(t *testing.T) {
	b := New()
	fb := framebuffer.New(4, 4).AddColorTexture(0, nil)

	if _, err := b.ColorTarget(fb, 0); !errors.Is(err, ErrNotBound) {
		t.Errorf("ColorTarget() error = %v, want %v", err, ErrNotBound)
	}
	if err := b.Clear(fb, red); !errors.Is(err, ErrNotBound) {
		t.Errorf("Clear() error = %v, want %v", err, ErrNotBound)
	}
	if b.Bound(fb) {
		t.Error("Bound() = true before Bind")
	}
}

func TestBinderUnchangedBindKeepsPlanes(t *testing.T) {
	b := New()
	fb := framebuffer.New(4, 4).AddColorTexture(0, nil)
	if err := b.Bind(fb); err != nil {
		t.Fatal(err)
	}
	before, _ := b.ColorTarget(fb, 0)
	before.SetPixel(1, 1, red)

	if err := b.Bind(fb); err != nil {
		t.Fatal(err)
	}
	after, _ := b.ColorTarget(fb, 0)
	if after.Image() != before.Image() {
		t.Error("Bind() on unchanged framebuffer replaced the color image")
	}
	if got := after.GetPixel(1, 1); got != red {
		t.Errorf("GetPixel(1, 1) = %v, want %v", got, red)
	}
}

func TestBinderResizeRescalesContent(t *testing.T) {
	b := New()
	fb := framebuffer.New(2, 2).AddColorTexture(0, nil)
	if err := b.Bind(fb); err != nil {
		t.Fatal(err)
	}
	target, _ := b.ColorTarget(fb, 0)
	target.Clear(blue)
	target.SetPixel(1, 1, red)

	if err := fb.Resize(4, 4); err != nil {
		t.Fatal(err)
	}
	if err := b.Bind(fb); err != nil {
		t.Fatal(err)
	}

	target, _ = b.ColorTarget(fb, 0)
	if target.Width() != 4 || target.Height() != 4 {
		t.Fatalf("size after resize = %dx%d, want 4x4", target.Width(), target.Height())
	}
	tests := []struct {
		x, y int
		want color.RGBA
	}{
		{0, 0, blue},
		{1, 1, blue},
		{2, 2, red},
		{3, 3, red},
		{3, 0, blue},
	}
	for _, tt := range tests {
		if got := target.GetPixel(tt.x, tt.y); got != tt.want {
			t.Errorf("GetPixel(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestBinderFormatChangeClears(t *testing.T) {
	b := New()
	fb := framebuffer.New(4, 4).AddColorTexture(0, nil)
	if err := b.Bind(fb); err != nil {
		t.Fatal(err)
	}
	if err := b.Clear(fb, red); err != nil {
		t.Fatal(err)
	}

	fb.EnableDepth()
	if err := b.Bind(fb); err != nil {
		t.Fatal(err)
	}

	target, _ := b.ColorTarget(fb, 0)
	if got := target.GetPixel(0, 0); got != (color.RGBA{}) {
		t.Errorf("GetPixel(0, 0) after format change = %v, want transparent", got)
	}
	d, err := b.DepthAt(fb, 3, 3)
	if err != nil {
		t.Fatalf("DepthAt() error = %v", err)
	}
	if d != ClearDepth {
		t.Errorf("DepthAt() = %#x, want %#x", d, ClearDepth)
	}
}

func TestBinderDepthPlane(t *testing.T) {
	b := New()
	fb := framebuffer.New(5, 3).AddDepthTexture(nil)
	if err := b.Bind(fb); err != nil {
		t.Fatal(err)
	}

	if err := b.SetDepth(fb, 4, 2, 42); err != nil {
		t.Fatalf("SetDepth() error = %v", err)
	}
	if d, _ := b.DepthAt(fb, 4, 2); d != 42 {
		t.Errorf("DepthAt(4, 2) = %d, want 42", d)
	}
	if _, err := b.DepthAt(fb, 5, 0); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("DepthAt(5, 0) error = %v, want %v", err, ErrOutOfBounds)
	}
	if err := b.SetDepth(fb, -1, 0, 1); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("SetDepth(-1, 0) error = %v, want %v", err, ErrOutOfBounds)
	}

	if err := b.Clear(fb, red); err != nil {
		t.Fatal(err)
	}
	if d, _ := b.DepthAt(fb, 4, 2); d != ClearDepth {
		t.Errorf("DepthAt(4, 2) after Clear = %#x, want %#x", d, ClearDepth)
	}

	stencil, err := b.Stencil(fb)
	if err != nil {
		t.Fatal(err)
	}
	if stencil != nil {
		t.Errorf("Stencil() = %d bytes, want nil without EnableStencil", len(stencil))
	}
}

func TestBinderStencilPlane(t *testing.T) {
	b := New()
	fb := framebuffer.New(5, 3).EnableStencil()
	if err := b.Bind(fb); err != nil {
		t.Fatal(err)
	}
	stencil, err := b.Stencil(fb)
	if err != nil {
		t.Fatal(err)
	}
	if len(stencil) != 15 {
		t.Errorf("len(Stencil()) = %d, want 15", len(stencil))
	}

	if err := fb.Resize(2, 2); err != nil {
		t.Fatal(err)
	}
	if err := b.Bind(fb); err != nil {
		t.Fatal(err)
	}
	stencil, _ = b.Stencil(fb)
	if len(stencil) != 4 {
		t.Errorf("len(Stencil()) after resize = %d, want 4", len(stencil))
	}
}

func TestBinderSnapshotIsCopy(t *testing.T) {
	b := New()
	fb := framebuffer.New(2, 2).AddColorTexture(0, nil)
	if err := b.Bind(fb); err != nil {
		t.Fatal(err)
	}
	_ = b.Clear(fb, red)

	snap, err := b.Snapshot(fb, 0)
	if err != nil {
		t.Fatal(err)
	}
	_ = b.Clear(fb, blue)

	if got := snap.RGBAAt(0, 0); got != red {
		t.Errorf("Snapshot pixel = %v, want %v", got, red)
	}
}

func TestBinderDisposeReleases(t *testing.T) {
	b := New()
	fb := framebuffer.New(4, 4).AddColorTexture(0, nil)
	if err := b.Bind(fb); err != nil {
		t.Fatal(err)
	}
	if fb.Bindings().Len() != 1 {
		t.Fatalf("Bindings().Len() = %d, want 1", fb.Bindings().Len())
	}

	fb.Dispose()

	if b.Bound(fb) {
		t.Error("Bound() = true after Dispose")
	}
	if fb.Bindings().Len() != 0 {
		t.Errorf("Bindings().Len() after Dispose = %d, want 0", fb.Bindings().Len())
	}

	// Binding again starts over.
	if err := b.Bind(fb); err != nil {
		t.Fatal(err)
	}
	if !b.Bound(fb) {
		t.Error("Bound() = false after rebinding")
	}
}

func TestBinderSharedFramebuffer(t *testing.T) {
	a, b := New(), New()
	fb := framebuffer.New(4, 4).AddColorTexture(0, nil)
	if err := a.Bind(fb); err != nil {
		t.Fatal(err)
	}
	if err := b.Bind(fb); err != nil {
		t.Fatal(err)
	}
	if fb.Bindings().Len() != 2 {
		t.Errorf("Bindings().Len() = %d, want 2", fb.Bindings().Len())
	}

	_ = a.Clear(fb, red)
	tb, _ := b.ColorTarget(fb, 0)
	if got := tb.GetPixel(0, 0); got == red {
		t.Error("binders share color storage")
	}

	a.Release(fb)
	if !b.Bound(fb) {
		t.Error("Release() on one binder dropped the other's state")
	}
}

func TestBinderCloseReleasesAll(t *testing.T) {
	b := New()
	fbs := []*framebuffer.Framebuffer{
		framebuffer.New(2, 2).AddColorTexture(0, nil),
		framebuffer.New(3, 3).EnableDepth(),
	}
	for _, fb := range fbs {
		if err := b.Bind(fb); err != nil {
			t.Fatal(err)
		}
	}

	b.Close()
	b.Close()

	for i, fb := range fbs {
		if b.Bound(fb) {
			t.Errorf("framebuffer %d still bound after Close", i)
		}
		if fb.Bindings().Len() != 0 {
			t.Errorf("framebuffer %d Bindings().Len() = %d, want 0", i, fb.Bindings().Len())
		}
	}
}

func TestBinderTarget(t *testing.T) {
	var tp backend.TargetProvider = New()
	b := tp.(*Binder)
	fb := framebuffer.New(6, 4).AddColorTexture(0, nil)

	if _, err := tp.Target(fb, 0); !errors.Is(err, ErrNotBound) {
		t.Errorf("Target() before Bind error = %v, want %v", err, ErrNotBound)
	}
	if err := b.Bind(fb); err != nil {
		t.Fatal(err)
	}

	rt, err := tp.Target(fb, 0)
	if err != nil {
		t.Fatalf("Target() error = %v", err)
	}
	if rt.Width() != 6 || rt.Height() != 4 {
		t.Errorf("Target() size = %dx%d, want 6x4", rt.Width(), rt.Height())
	}
	if rt.Format() != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("Target() format = %v, want RGBA8Unorm", rt.Format())
	}
	if rt.TextureView() != nil {
		t.Error("TextureView() should be nil for CPU targets")
	}
	if len(rt.Pixels()) != rt.Stride()*rt.Height() {
		t.Errorf("len(Pixels()) = %d, want %d", len(rt.Pixels()), rt.Stride()*rt.Height())
	}

	if rt, err := tp.Target(fb, 5); err == nil || rt != nil {
		t.Errorf("Target(5) = (%v, %v), want nil target and error", rt, err)
	}
}
