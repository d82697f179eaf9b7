// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image"
	"image/color"

	"github.com/gogpu/gputypes"
)

// RenderTarget is a view of one allocated framebuffer attachment.
//
// Targets may support CPU access (Pixels), GPU access (TextureView), or both.
type RenderTarget interface {
	// Width returns the target width in pixels.
	Width() int

	// Height returns the target height in pixels.
	Height() int

	// Format returns the pixel format of the target.
	Format() gputypes.TextureFormat

	// TextureView returns the GPU texture view for this target.
	// Returns nil for CPU-only targets.
	TextureView() TextureView

	// Pixels returns direct access to pixel data.
	// Returns nil for GPU-only targets.
	Pixels() []byte

	// Stride returns the number of bytes per row.
	Stride() int
}

// TextureView represents a view into a texture.
// hal.TextureView satisfies it.
type TextureView interface {
	// Destroy releases resources associated with this view.
	Destroy()
}

// PixmapTarget is a CPU-backed render target using *image.RGBA.
//
// The software backend hands these out for its color attachments; they
// share memory with the backend's storage.
type PixmapTarget struct {
	img *image.RGBA
}

// NewPixmapTarget creates a new CPU-backed render target.
func NewPixmapTarget(width, height int) *PixmapTarget {
	return &PixmapTarget{
		img: image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

// NewPixmapTargetFromImage wraps an existing *image.RGBA as a render target.
// The image is used directly without copying.
func NewPixmapTargetFromImage(img *image.RGBA) *PixmapTarget {
	return &PixmapTarget{img: img}
}

// Width returns the target width in pixels.
func (t *PixmapTarget) Width() int {
	return t.img.Bounds().Dx()
}

// Height returns the target height in pixels.
func (t *PixmapTarget) Height() int {
	return t.img.Bounds().Dy()
}

// Format returns the pixel format (RGBA8).
func (t *PixmapTarget) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// TextureView returns nil as this is a CPU-only target.
func (t *PixmapTarget) TextureView() TextureView {
	return nil
}

// Pixels returns direct access to the pixel data.
func (t *PixmapTarget) Pixels() []byte {
	return t.img.Pix
}

// Stride returns the number of bytes per row.
func (t *PixmapTarget) Stride() int {
	return t.img.Stride
}

// Image returns the underlying *image.RGBA.
func (t *PixmapTarget) Image() *image.RGBA {
	return t.img
}

// Clear fills the entire target with the given color.
func (t *PixmapTarget) Clear(c color.Color) {
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	b := t.img.Bounds()
	if b.Empty() {
		return
	}
	rowLen := b.Dx() * 4
	first := t.img.Pix[:rowLen]
	for i := 0; i < rowLen; i += 4 {
		first[i], first[i+1], first[i+2], first[i+3] = rgba.R, rgba.G, rgba.B, rgba.A
	}
	for y := 1; y < b.Dy(); y++ {
		off := y * t.img.Stride
		copy(t.img.Pix[off:off+rowLen], first)
	}
}

// SetPixel sets a single pixel at the given coordinates.
func (t *PixmapTarget) SetPixel(x, y int, c color.Color) {
	t.img.Set(x, y, c)
}

// GetPixel returns the color at the given coordinates.
func (t *PixmapTarget) GetPixel(x, y int) color.Color {
	return t.img.At(x, y)
}

// Ensure PixmapTarget implements RenderTarget.
var _ RenderTarget = (*PixmapTarget)(nil)

// TextureTarget is a GPU texture-backed render target.
//
// The native backend hands these out for its attachments. The view stays
// owned by the backend: TextureTarget never destroys it.
type TextureTarget struct {
	width  int
	height int
	format gputypes.TextureFormat
	view   TextureView
}

// NewTextureTarget wraps an allocated texture view.
func NewTextureTarget(width, height int, format gputypes.TextureFormat, view TextureView) *TextureTarget {
	return &TextureTarget{
		width:  width,
		height: height,
		format: format,
		view:   view,
	}
}

// Width returns the target width in pixels.
func (t *TextureTarget) Width() int {
	return t.width
}

// Height returns the target height in pixels.
func (t *TextureTarget) Height() int {
	return t.height
}

// Format returns the pixel format.
func (t *TextureTarget) Format() gputypes.TextureFormat {
	return t.format
}

// TextureView returns the GPU texture view.
func (t *TextureTarget) TextureView() TextureView {
	return t.view
}

// Pixels returns nil as this is a GPU-only target.
func (t *TextureTarget) Pixels() []byte {
	return nil
}

// Stride returns 0 as this is a GPU-only target.
func (t *TextureTarget) Stride() int {
	return 0
}

// Ensure TextureTarget implements RenderTarget.
var _ RenderTarget = (*TextureTarget)(nil)
