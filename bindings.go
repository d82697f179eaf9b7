// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package framebuffer

// Bindings caches backend-owned native objects for a framebuffer, keyed by
// backend identity. The framebuffer itself never reads or writes it; each
// backend stores whatever shape it needs and invalidates it by comparing
// Versions.
//
// Bindings is not safe for concurrent use, matching its framebuffer.
type Bindings struct {
	m map[any]any
}

func newBindings() *Bindings {
	return &Bindings{m: make(map[any]any)}
}

// Load returns the value stored for key.
func (b *Bindings) Load(key any) (any, bool) {
	v, ok := b.m[key]
	return v, ok
}

// Store sets the value for key. The key must be comparable.
func (b *Bindings) Store(key, value any) {
	b.m[key] = value
}

// Delete removes the value for key.
func (b *Bindings) Delete(key any) {
	delete(b.m, key)
}

// Len returns the number of cached entries.
func (b *Bindings) Len() int {
	return len(b.m)
}
