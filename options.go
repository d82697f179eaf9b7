// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package framebuffer

// Option configures a Framebuffer during creation.
//
// Example:
//
//	fb := framebuffer.New(800, 600, framebuffer.WithTextureFactory(myFactory))
type Option func(*options)

// options holds optional configuration for Framebuffer creation.
type options struct {
	factory TextureFactory
	label   string
}

// defaultOptions returns the default framebuffer options.
func defaultOptions() options {
	return options{
		factory: newSurface,
	}
}

// WithTextureFactory sets the factory used by AddColorTexture and
// AddDepthTexture when no surface is supplied. A nil factory keeps the
// default, which creates a *Texture.
func WithTextureFactory(f TextureFactory) Option {
	return func(o *options) {
		if f != nil {
			o.factory = f
		}
	}
}

// WithLabel sets a debug name used in logs and backend object labels.
func WithLabel(label string) Option {
	return func(o *options) {
		o.label = label
	}
}
