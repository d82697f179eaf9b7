// Package backend defines how framebuffers are turned into native objects.
//
// A Binder owns the native side of framebuffers: textures, depth/stencil
// buffers, render pass descriptions. The framebuffer package never creates
// any of these; it only bumps version counters, and binders compare them
// against what they last saw (see Tracker).
//
// # Backend Registration
//
// Backends are registered via init() functions and selected at runtime.
// The software backend registers itself on import:
//
//	import _ "github.com/gogpu/framebuffer/backend/software"
//
// The native backend needs a GPU device and is registered explicitly:
//
//	native.Register(device)
//
// # Backend Selection
//
// Use Default() to get the best available binder, or Get() to request
// a specific one by name:
//
//	b := backend.Default()
//	defer b.Close()
//
//	fb := framebuffer.New(800, 600)
//	fb.AddColorTexture(0, nil).EnableDepth()
//	if err := b.Bind(fb); err != nil {
//		log.Fatal(err)
//	}
//
// # Available Backends
//
//   - software: CPU planes (*image.RGBA color, uint16 depth, uint8 stencil)
//   - native: gogpu/wgpu HAL textures and render pass descriptors
package backend
