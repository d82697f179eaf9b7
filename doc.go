// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package framebuffer describes GPU render targets independently of any
// graphics driver.
//
// A Framebuffer owns a sparse set of color attachments, an optional depth
// attachment, and depth/stencil requests. Every mutation advances one or
// more version counters so that backends can rebuild their native objects
// lazily:
//
//	fb := framebuffer.New(800, 600)
//	fb.AddColorTexture(0, nil).EnableDepth()
//
//	// Once per frame, in a backend:
//	switch fb.Versions().Changes(last) {
//	case framebuffer.ChangeNone:
//	    // reuse native objects
//	case framebuffer.ChangeSize:
//	    // reallocate storage, keep format-derived state
//	default:
//	    // full rebuild
//	}
//
// # Dirty channels
//
//   - Structure advances on every mutation.
//   - Format advances when attachments are added or removed, and on
//     EnableDepth/EnableStencil.
//   - Size advances when Resize changes the dimensions.
//
// Only disposal is pushed to backends (OnDispose). Everything else is
// polled, which keeps the per-frame cost to three integer comparisons.
//
// # Ownership
//
// Replacing an attachment never destroys the old surface, since surfaces
// may be shared between framebuffers. The one exception is
// DestroyDepthTexture, which destroys the depth attachment it removes.
//
// # Errors
//
// Operations never fail on their own: sizes are coerced and attachments are
// trusted. Errors only come from surfaces (Resize) or from Validate. The one
// exception is AddColorTexture with a negative index, which panics like an
// out-of-range slice index.
//
// # Backends
//
// The backend package defines the Binder contract and a registry;
// backend/software keeps CPU planes and backend/native creates
// gogpu/wgpu HAL textures.
//
// # Concurrency
//
// A Framebuffer is owned by one goroutine. Logger/SetLogger and the dispose
// Signal are safe for concurrent use.
package framebuffer
