// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render is the vocabulary shared by framebuffer backends.
//
// A framebuffer only records logical sizes, resolutions and formats. Before
// a backend allocates anything it turns each attachment into an
// AttachmentDescriptor carrying pixel dimensions, mip count, format and
// usage. Backends then expose the storage they allocated as RenderTargets.
//
// # Attachment descriptors
//
//	for _, a := range render.Attachments(fb) {
//	    // a.Width, a.Height are in pixels (logical size × resolution)
//	    // a.Depth distinguishes the depth attachment from color slots
//	}
//
// When a framebuffer requests depth or stencil without attaching a depth
// texture, Attachments appends an implicit Depth24PlusStencil8 descriptor.
//
// # RenderTarget Implementations
//
//   - PixmapTarget: CPU-backed *image.RGBA target (backend/software)
//   - TextureTarget: GPU texture view target (backend/native)
//
// # Thread Safety
//
// Targets are NOT thread-safe. Each target should be used from a single
// goroutine, or external synchronization must be used.
package render
