// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package framebuffer

import "errors"

// Common errors.
var (
	// ErrTextureDestroyed is returned when resizing a destroyed texture.
	ErrTextureDestroyed = errors.New("framebuffer: texture has been destroyed")

	// ErrSurfaceSizeMismatch is reported by Validate when an attachment does
	// not cover the framebuffer.
	ErrSurfaceSizeMismatch = errors.New("framebuffer: surface size does not match framebuffer")
)
