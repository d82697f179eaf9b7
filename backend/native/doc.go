// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package native binds framebuffers to GPU textures through gogpu/wgpu/hal.
//
// For every bound framebuffer the Binder owns one texture and default view
// per color attachment, plus one for the depth attachment. A framebuffer
// that requests depth or stencil without attaching a depth texture gets an
// implicit Depth24PlusStencil8 buffer. Any size or format change recreates
// the textures on the next Bind.
//
// The binder can use its own device or share one from a host application:
//
//	b, err := native.NewFromProvider(app.DeviceProvider())
//	if err != nil {
//		return err
//	}
//	defer b.Close()
//
//	if err := b.Bind(fb); err != nil {
//		return err
//	}
//	desc, err := b.RenderPassDescriptor(fb, gputypes.Color{A: 1})
//
// Register makes the binder available through backend.Default, where it
// takes priority over the software backend.
package native
