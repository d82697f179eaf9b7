// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

// Option configures a Binder.
type Option func(*options)

type options struct {
	depthClear   float32
	stencilClear uint32
}

func defaultOptions() options {
	return options{
		depthClear: 1.0,
	}
}

// WithDepthClearValue sets the depth value render passes clear to.
// The default is 1.0 (far plane).
func WithDepthClearValue(v float32) Option {
	return func(o *options) {
		o.depthClear = v
	}
}

// WithStencilClearValue sets the stencil value render passes clear to.
// The default is 0.
func WithStencilClearValue(v uint32) Option {
	return func(o *options) {
		o.stencilClear = v
	}
}
