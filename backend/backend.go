package backend

import (
	"errors"

	"github.com/gogpu/framebuffer"
	"github.com/gogpu/framebuffer/render"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not available.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrBinderClosed is returned when a closed binder is used.
	ErrBinderClosed = errors.New("backend: binder is closed")

	// ErrNilFramebuffer is returned when a nil framebuffer is passed.
	ErrNilFramebuffer = errors.New("backend: nil framebuffer")
)

// Backend name constants.
const (
	// BackendSoftware is the name of the CPU backend (backend/software).
	BackendSoftware = "software"
	// BackendNative is the name of the gogpu/wgpu HAL backend (backend/native).
	BackendNative = "native"
)

// Binder keeps native objects in sync with framebuffers.
//
// A binder polls framebuffer.Versions on every Bind and only does work when
// something changed since it last looked. It stores its per-framebuffer
// state in framebuffer.Bindings under its own key and subscribes to
// OnDispose so that state is dropped when the framebuffer is disposed.
//
// Binders are NOT safe for concurrent use; bind from the goroutine that
// owns the framebuffers.
type Binder interface {
	// Name returns the backend identifier (e.g., "software", "native").
	Name() string

	// Bind creates or updates the native objects for fb.
	Bind(fb *framebuffer.Framebuffer) error

	// Release drops the native objects for fb. Releasing a framebuffer
	// that was never bound is a no-op.
	Release(fb *framebuffer.Framebuffer)

	// Close releases every bound framebuffer, as on context loss.
	// The binder must not be used after Close.
	Close()
}

// TargetProvider is implemented by binders that expose bound color
// attachments as render targets. Both built-in backends implement it.
type TargetProvider interface {
	// Target returns the render target of color attachment index.
	Target(fb *framebuffer.Framebuffer, index int) (render.RenderTarget, error)
}
