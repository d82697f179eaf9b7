// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/gogpu/framebuffer"
	"github.com/gogpu/gputypes"
)

// ImplicitDepthFormat is used for the depth/stencil buffer a backend
// allocates when a framebuffer requests depth or stencil without attaching
// a depth texture.
const ImplicitDepthFormat = gputypes.TextureFormatDepth24PlusStencil8

// ImplicitDepthIndex is the Index of an implicit depth/stencil descriptor.
const ImplicitDepthIndex = -1

// AttachmentDescriptor describes the storage a backend needs for one
// framebuffer attachment. It mirrors the WebGPU GPUTextureDescriptor.
type AttachmentDescriptor struct {
	// Label is an optional debug label.
	Label string

	// Index is the color slot, or ImplicitDepthIndex for the implicit
	// depth/stencil buffer. It is zero and meaningless for an explicit
	// depth texture; check Depth.
	Index int

	// Width and Height are the pixel dimensions (logical size × resolution).
	Width  uint32
	Height uint32

	// MipLevelCount is the number of mipmap levels. 1 means no mipmaps.
	MipLevelCount uint32

	// SampleCount is the number of samples. Always 1: multisampling is
	// not modelled by framebuffers.
	SampleCount uint32

	// Format is the texture pixel format.
	Format gputypes.TextureFormat

	// Usage specifies how the texture will be used.
	Usage gputypes.TextureUsage

	// Filter is the sampling filter of the attachment.
	Filter gputypes.FilterMode

	// Depth is true for the depth/stencil attachment.
	Depth bool

	// Implicit is true when no depth texture is attached and the
	// descriptor comes from EnableDepth/EnableStencil.
	Implicit bool
}

// Key identifies the attachment slot a descriptor belongs to.
func (d AttachmentDescriptor) Key() string {
	switch {
	case d.Implicit:
		return "depth-implicit"
	case d.Depth:
		return "depth"
	default:
		return fmt.Sprintf("color%d", d.Index)
	}
}

// The Surface methods below are optional; *framebuffer.Texture has all of them.
type (
	formatted interface {
		Format() gputypes.TextureFormat
	}
	scaled interface {
		ScaleMode() gputypes.FilterMode
	}
	mipmapped interface {
		Mipmap() bool
	}
	labeled interface {
		Label() string
	}
)

// DescribeColor describes the color surface s attached at index.
func DescribeColor(fb *framebuffer.Framebuffer, index int, s framebuffer.Surface) AttachmentDescriptor {
	d := describe(s, gputypes.TextureFormatRGBA8Unorm)
	d.Index = index
	d.Usage = gputypes.TextureUsageRenderAttachment |
		gputypes.TextureUsageTextureBinding |
		gputypes.TextureUsageCopySrc
	if d.Label == "" {
		d.Label = fmt.Sprintf("fb%d/color%d", fb.ID(), index)
	}
	return d
}

// DescribeDepth describes the explicit depth surface s.
func DescribeDepth(fb *framebuffer.Framebuffer, s framebuffer.Surface) AttachmentDescriptor {
	d := describe(s, gputypes.TextureFormatDepth16Unorm)
	d.Depth = true
	d.Usage = gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageTextureBinding
	if d.Label == "" {
		d.Label = fmt.Sprintf("fb%d/depth", fb.ID())
	}
	return d
}

// DescribeImplicitDepth describes the depth/stencil buffer backing
// EnableDepth/EnableStencil when no depth texture is attached.
func DescribeImplicitDepth(fb *framebuffer.Framebuffer) AttachmentDescriptor {
	w, h := fb.Size()
	return AttachmentDescriptor{
		Label:         fmt.Sprintf("fb%d/depth-stencil", fb.ID()),
		Index:         ImplicitDepthIndex,
		Width:         clampExtent(w),
		Height:        clampExtent(h),
		MipLevelCount: 1,
		SampleCount:   1,
		Format:        ImplicitDepthFormat,
		Usage:         gputypes.TextureUsageRenderAttachment,
		Filter:        gputypes.FilterModeNearest,
		Depth:         true,
		Implicit:      true,
	}
}

// Attachments describes every attachment of fb: color slots in ascending
// index order, then the depth attachment if any. A framebuffer that wants
// depth or stencil but has no depth texture gets an implicit descriptor.
func Attachments(fb *framebuffer.Framebuffer) []AttachmentDescriptor {
	indices := fb.ColorIndices()
	out := make([]AttachmentDescriptor, 0, len(indices)+1)
	for _, i := range indices {
		s, _ := fb.ColorTexture(i)
		out = append(out, DescribeColor(fb, i, s))
	}
	if d := DepthAttachment(fb); d != nil {
		out = append(out, *d)
	}
	return out
}

// DepthAttachment describes the depth attachment of fb, or returns nil if
// the framebuffer neither has a depth texture nor requests depth/stencil.
func DepthAttachment(fb *framebuffer.Framebuffer) *AttachmentDescriptor {
	if s := fb.DepthTexture(); s != nil {
		d := DescribeDepth(fb, s)
		return &d
	}
	if fb.WantsDepth() || fb.WantsStencil() {
		d := DescribeImplicitDepth(fb)
		return &d
	}
	return nil
}

// PixelSize converts a surface's logical size to pixels, at least 1x1.
func PixelSize(s framebuffer.Surface) (width, height uint32) {
	res := s.Resolution()
	if res <= 0 {
		res = 1
	}
	return pixels(s.Width() * res), pixels(s.Height() * res)
}

// MipLevels returns the length of a full mip chain for the given size.
func MipLevels(width, height uint32) uint32 {
	m := max(width, height, 1)
	return uint32(bits.Len32(m))
}

func describe(s framebuffer.Surface, format gputypes.TextureFormat) AttachmentDescriptor {
	w, h := PixelSize(s)
	d := AttachmentDescriptor{
		Width:         w,
		Height:        h,
		MipLevelCount: 1,
		SampleCount:   1,
		Format:        format,
		Filter:        gputypes.FilterModeNearest,
	}
	if f, ok := s.(formatted); ok && f.Format() != gputypes.TextureFormatUndefined {
		d.Format = f.Format()
	}
	if sc, ok := s.(scaled); ok {
		d.Filter = sc.ScaleMode()
	}
	if m, ok := s.(mipmapped); ok && m.Mipmap() {
		d.MipLevelCount = MipLevels(w, h)
	}
	if l, ok := s.(labeled); ok {
		d.Label = l.Label()
	}
	return d
}

func pixels(v float64) uint32 {
	if math.IsNaN(v) {
		return 1
	}
	n := math.Ceil(v)
	if n < 1 {
		return 1
	}
	if n > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(n)
}

func clampExtent(v int) uint32 {
	if v < 1 {
		return 1
	}
	return uint32(v)
}
