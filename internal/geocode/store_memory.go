// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geocode

import (
	"context"
	"sync"
	"time"
)

type cacheEntry struct {
	Address Address
	Expiry  time.Time
}

// MemoryStore is a process-local Store. Expired entries are skipped on read and removed
// by Purge.
type MemoryStore struct {
	mu    sync.RWMutex
	cache map[string]cacheEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{cache: make(map[string]cacheEntry)}
}

func (m *MemoryStore) Get(_ context.Context, key string) (Address, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.cache[key]
	if !ok || !time.Now().Before(entry.Expiry) {
		return Address{}, false, nil
	}
	return entry.Address, true, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, addr Address, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cache[key] = cacheEntry{
		Address: addr,
		Expiry:  time.Now().Add(ttl),
	}
	return nil
}

// Purge removes all expired entries and returns how many were removed.
func (m *MemoryStore) Purge() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	removed := 0
	for key, entry := range m.cache {
		if !now.Before(entry.Expiry) {
			delete(m.cache, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of entries, including expired ones not yet purged.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.cache)
}
