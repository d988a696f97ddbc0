// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"sync"
	"time"
)

// PendingStore is a TTL key-value store for short-lived authentication
// state: SRP handshakes awaiting a proof and logins awaiting a TOTP code.
//
// The interface deliberately hides the backing implementation so a
// multi-instance deployment can swap the in-memory store for a shared one
// without touching the services.
type PendingStore[T any] interface {
	// Put stores the value under key, replacing any previous entry. A
	// replaced entry is gone even if it had not expired yet: one pending
	// state per key.
	Put(key string, value T)

	// Get returns the value for key if present and not expired. An expired
	// entry is evicted on access.
	Get(key string) (T, bool)

	// Delete removes the entry for key if present.
	Delete(key string)

	// Sweep evicts every expired entry and returns how many were removed.
	Sweep() int
}

type pendingEntry[T any] struct {
	value     T
	expiresAt time.Time
}

type memoryPendingStore[T any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]pendingEntry[T]
	now     func() time.Time
}

// NewMemoryPendingStore constructs an in-memory [PendingStore] whose
// entries expire ttl after each Put.
func NewMemoryPendingStore[T any](ttl time.Duration) PendingStore[T] {
	return &memoryPendingStore[T]{
		ttl:     ttl,
		entries: make(map[string]pendingEntry[T]),
		now:     time.Now,
	}
}

func (s *memoryPendingStore[T]) Put(key string, value T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = pendingEntry[T]{
		value:     value,
		expiresAt: s.now().Add(s.ttl),
	}
}

func (s *memoryPendingStore[T]) Get(key string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		var zero T
		return zero, false
	}

	if !entry.expiresAt.After(s.now()) {
		delete(s.entries, key)
		var zero T
		return zero, false
	}

	return entry.value, true
}

func (s *memoryPendingStore[T]) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
}

func (s *memoryPendingStore[T]) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for key, entry := range s.entries {
		if !entry.expiresAt.After(now) {
			delete(s.entries, key)
			removed++
		}
	}

	return removed
}
