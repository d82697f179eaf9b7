// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package framebuffer

import "strings"

// Versions holds the three dirty counters of a Framebuffer.
//
// All counters are monotonic for the lifetime of the framebuffer. Structure
// advances on every mutation, Format when the attachment set or the
// depth/stencil flags change, and Size when the dimensions change.
type Versions struct {
	Structure uint64
	Format    uint64
	Size      uint64
}

// Change is a set of dirty channels observed between two Versions.
type Change uint8

const (
	// ChangeNone means nothing changed.
	ChangeNone Change = 0

	// ChangeSize means the dimensions changed.
	ChangeSize Change = 1 << iota

	// ChangeFormat means the attachment set or depth/stencil flags changed.
	ChangeFormat
)

// Has reports whether c contains flag.
func (c Change) Has(flag Change) bool {
	return c&flag != 0
}

// String returns a human-readable list of the changed channels.
func (c Change) String() string {
	if c == ChangeNone {
		return "none"
	}
	var parts []string
	if c.Has(ChangeFormat) {
		parts = append(parts, "format")
	}
	if c.Has(ChangeSize) {
		parts = append(parts, "size")
	}
	return strings.Join(parts, "|")
}

// Changes classifies what happened between since and v.
//
// A structure advance that is explained by neither a format nor a size
// advance is reported as ChangeFormat, so callers rebuild conservatively.
func (v Versions) Changes(since Versions) Change {
	if v.Structure == since.Structure && v.Format == since.Format && v.Size == since.Size {
		return ChangeNone
	}
	var c Change
	if v.Format != since.Format {
		c |= ChangeFormat
	}
	if v.Size != since.Size {
		c |= ChangeSize
	}
	if c == ChangeNone {
		c = ChangeFormat
	}
	return c
}
