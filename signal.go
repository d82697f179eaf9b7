// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package framebuffer

import "sync"

// DisposeFunc is called when a framebuffer is disposed. contextLost is true
// when a backend tears the framebuffer down because its device went away,
// and false for a voluntary Dispose.
type DisposeFunc func(fb *Framebuffer, contextLost bool)

// Signal is a synchronous one-to-many notifier for disposal.
//
// Subscribers run on the emitting goroutine in subscription order, and all
// of them have returned when Emit returns. A subscriber may unsubscribe
// itself (or others) while being notified.
type Signal struct {
	mu     sync.RWMutex
	nextID uint64
	subs   []subscription
}

type subscription struct {
	id uint64
	fn DisposeFunc
}

// Subscribe registers fn and returns a function that removes it.
// Calling the returned function more than once is safe.
func (s *Signal) Subscribe(fn DisposeFunc) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription{id: id, fn: fn})

	return func() { s.remove(id) }
}

func (s *Signal) remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, sub := range s.subs {
		if sub.id == id {
			s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
			return
		}
	}
}

// Emit notifies every subscriber registered at the time of the call.
func (s *Signal) Emit(fb *Framebuffer, contextLost bool) {
	s.mu.RLock()
	subs := make([]subscription, len(s.subs))
	copy(subs, s.subs)
	s.mu.RUnlock()

	for _, sub := range subs {
		sub.fn(fb, contextLost)
	}
}

// Len returns the number of subscribers.
func (s *Signal) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}
