// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import "errors"

// Package errors for the native backend.
var (
	// ErrNilDevice is returned when a binder is created without a HAL device.
	ErrNilDevice = errors.New("native: HAL device is nil")

	// ErrNilProvider is returned when NewFromProvider gets a nil provider.
	ErrNilProvider = errors.New("native: device provider is nil")

	// ErrNoHALDevice is returned when a provider does not expose a hal.Device.
	ErrNoHALDevice = errors.New("native: provider does not expose a HAL device")

	// ErrNotBound is returned when a framebuffer has not been bound.
	ErrNotBound = errors.New("native: framebuffer not bound")

	// ErrNoAttachment is returned when the requested attachment does not exist.
	ErrNoAttachment = errors.New("native: no such attachment")
)
