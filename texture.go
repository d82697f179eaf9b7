// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package framebuffer

import (
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
)

// Surface is a GPU-backed 2D image that can be attached to a Framebuffer.
//
// The framebuffer only ever reads the logical size and resolution, asks the
// surface to resize when the framebuffer is resized, and destroys a depth
// surface on DestroyDepthTexture. Pixel storage is owned by whoever backs the
// surface (usually a backend binder).
type Surface interface {
	// Width returns the logical width.
	Width() float64

	// Height returns the logical height.
	Height() float64

	// Resolution returns the density factor applied to the logical size.
	Resolution() float64

	// Resize updates the logical size of the surface.
	Resize(width, height float64) error

	// Destroy releases the surface's storage.
	Destroy()
}

// ComponentType is the per-channel storage type of a texture.
type ComponentType uint8

const (
	// ComponentUnsignedByte stores each channel in 8 bits.
	ComponentUnsignedByte ComponentType = iota

	// ComponentUnsignedShort stores each channel in 16 bits.
	ComponentUnsignedShort

	// ComponentFloat stores each channel as a 32-bit float.
	ComponentFloat
)

// String returns a human-readable name for the component type.
func (c ComponentType) String() string {
	switch c {
	case ComponentUnsignedByte:
		return "uint8"
	case ComponentUnsignedShort:
		return "uint16"
	case ComponentFloat:
		return "float32"
	default:
		return fmt.Sprintf("ComponentType(%d)", c)
	}
}

// TextureOptions describes a Texture to create.
type TextureOptions struct {
	// Label is an optional debug name.
	Label string

	// Width and Height are the logical dimensions.
	Width  float64
	Height float64

	// Resolution is the density factor. Zero means 1.
	Resolution float64

	// Format is the pixel format.
	Format gputypes.TextureFormat

	// Type is the per-channel storage type.
	Type ComponentType

	// ScaleMode is the sampling filter.
	ScaleMode gputypes.FilterMode

	// Mipmap requests a full mip chain.
	Mipmap bool
}

// ColorTextureOptions returns the options used for color attachments the
// framebuffer creates on its own.
func ColorTextureOptions(width, height float64) TextureOptions {
	return TextureOptions{
		Width:      width,
		Height:     height,
		Resolution: 1,
		Format:     gputypes.TextureFormatRGBA8Unorm,
		Type:       ComponentUnsignedByte,
		ScaleMode:  gputypes.FilterModeNearest,
		Mipmap:     false,
	}
}

// DepthTextureOptions returns the options used for depth attachments the
// framebuffer creates on its own.
func DepthTextureOptions(width, height float64) TextureOptions {
	return TextureOptions{
		Width:      width,
		Height:     height,
		Resolution: 1,
		Format:     gputypes.TextureFormatDepth16Unorm,
		Type:       ComponentUnsignedShort,
		ScaleMode:  gputypes.FilterModeNearest,
		Mipmap:     false,
	}
}

// TextureFactory creates the surfaces a framebuffer attaches when the caller
// does not supply one.
type TextureFactory func(opts TextureOptions) Surface

// Texture is the default Surface implementation.
//
// A Texture only tracks its logical description; backends allocate the
// matching storage and use Version to notice resizes. Texture is not safe
// for concurrent use.
type Texture struct {
	opts      TextureOptions
	version   uint64
	destroyed bool
}

// NewTexture creates a texture from opts.
func NewTexture(opts TextureOptions) *Texture {
	if opts.Resolution <= 0 || math.IsNaN(opts.Resolution) {
		opts.Resolution = 1
	}
	return &Texture{opts: opts}
}

// newSurface adapts NewTexture to TextureFactory.
func newSurface(opts TextureOptions) Surface {
	return NewTexture(opts)
}

// Width returns the logical width.
func (t *Texture) Width() float64 { return t.opts.Width }

// Height returns the logical height.
func (t *Texture) Height() float64 { return t.opts.Height }

// Resolution returns the density factor.
func (t *Texture) Resolution() float64 { return t.opts.Resolution }

// RealWidth returns the width in pixels, at least 1.
func (t *Texture) RealWidth() int { return realSize(t.opts.Width, t.opts.Resolution) }

// RealHeight returns the height in pixels, at least 1.
func (t *Texture) RealHeight() int { return realSize(t.opts.Height, t.opts.Resolution) }

// Options returns a copy of the texture description.
func (t *Texture) Options() TextureOptions { return t.opts }

// Label returns the debug name.
func (t *Texture) Label() string { return t.opts.Label }

// Format returns the pixel format.
func (t *Texture) Format() gputypes.TextureFormat { return t.opts.Format }

// Type returns the component type.
func (t *Texture) Type() ComponentType { return t.opts.Type }

// ScaleMode returns the sampling filter.
func (t *Texture) ScaleMode() gputypes.FilterMode { return t.opts.ScaleMode }

// Mipmap reports whether a mip chain was requested.
func (t *Texture) Mipmap() bool { return t.opts.Mipmap }

// Version increments every time the texture's size changes.
func (t *Texture) Version() uint64 { return t.version }

// Destroyed reports whether Destroy has been called.
func (t *Texture) Destroyed() bool { return t.destroyed }

// Resize updates the logical size. Resizing to the current size is a no-op.
func (t *Texture) Resize(width, height float64) error {
	if t.destroyed {
		return ErrTextureDestroyed
	}
	if t.opts.Width == width && t.opts.Height == height {
		return nil
	}
	t.opts.Width = width
	t.opts.Height = height
	t.version++
	return nil
}

// Destroy marks the texture as destroyed. It is idempotent.
func (t *Texture) Destroy() {
	t.destroyed = true
}

// realSize converts a logical extent to pixels.
func realSize(logical, resolution float64) int {
	n := int(math.Ceil(logical * resolution))
	if n < 1 {
		return 1
	}
	return n
}

// Ensure Texture implements Surface.
var _ Surface = (*Texture)(nil)
