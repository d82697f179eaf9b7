package backend

import "github.com/gogpu/framebuffer"

// Tracker remembers the framebuffer.Versions a backend last acted on,
// per framebuffer.
//
// Observe is meant to be called at the start of every Bind:
//
//	change, first := b.tracker.Observe(fb)
//	if first || change.Has(framebuffer.ChangeFormat) {
//	    // rebuild everything
//	} else if change.Has(framebuffer.ChangeSize) {
//	    // reallocate storage only
//	}
type Tracker struct {
	seen map[uint64]framebuffer.Versions
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{seen: make(map[uint64]framebuffer.Versions)}
}

// Observe records fb's current versions and reports what changed since the
// previous Observe. first is true when fb had not been observed before.
func (t *Tracker) Observe(fb *framebuffer.Framebuffer) (change framebuffer.Change, first bool) {
	now := fb.Versions()
	prev, ok := t.seen[fb.ID()]
	t.seen[fb.ID()] = now
	if !ok {
		return framebuffer.ChangeNone, true
	}
	return now.Changes(prev), false
}

// Peek reports what changed since the last Observe without recording.
func (t *Tracker) Peek(fb *framebuffer.Framebuffer) (change framebuffer.Change, first bool) {
	prev, ok := t.seen[fb.ID()]
	if !ok {
		return framebuffer.ChangeNone, true
	}
	return fb.Versions().Changes(prev), false
}

// Forget drops the record for fb.
func (t *Tracker) Forget(fb *framebuffer.Framebuffer) {
	delete(t.seen, fb.ID())
}

// Len returns the number of tracked framebuffers.
func (t *Tracker) Len() int {
	return len(t.seen)
}
