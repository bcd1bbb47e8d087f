package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value   []byte
	expires time.Time
	seq     uint64
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expires.IsZero() && !now.Before(e.expires)
}

// Memory is an in-process Cache with per-entry expiry and an optional entry
// limit. Expired entries are swept on Set at most once per ttl.
type Memory struct {
	mu         sync.RWMutex
	entries    map[string]memoryEntry
	ttl        time.Duration
	maxEntries int
	seq        uint64
	nextSweep  time.Time
	now        func() time.Time
}

// NewMemory creates a Memory cache. A ttl of zero keeps entries until they
// are evicted; a maxEntries of zero leaves the size unbounded.
func NewMemory(ttl time.Duration, maxEntries int) *Memory {
	return &Memory{
		entries:    make(map[string]memoryEntry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get returns the value for key if present and not expired.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}

	now := m.now()
	if !entry.expired(now) {
		return entry.value, true
	}

	m.mu.Lock()
	// A concurrent Set may have replaced the entry since it was read.
	if current, ok := m.entries[key]; ok && current.expired(now) {
		delete(m.entries, key)
	}
	m.mu.Unlock()
	return nil, false
}

// Set stores value under key, evicting the oldest entry when the cache is full.
func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	now := m.now()
	entry := memoryEntry{value: append([]byte(nil), value...)}
	if m.ttl > 0 {
		entry.expires = now.Add(m.ttl)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ttl > 0 && !now.Before(m.nextSweep) {
		m.sweepLocked(now)
		m.nextSweep = now.Add(m.ttl)
	}

	if _, exists := m.entries[key]; !exists && m.maxEntries > 0 && len(m.entries) >= m.maxEntries {
		m.sweepLocked(now)
		for len(m.entries) >= m.maxEntries {
			m.evictOldestLocked()
		}
	}

	m.seq++
	entry.seq = m.seq
	m.entries[key] = entry
	return nil
}

// Len returns the number of stored entries, expired or not.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *Memory) sweepLocked(now time.Time) {
	for key, entry := range m.entries {
		if entry.expired(now) {
			delete(m.entries, key)
		}
	}
}

func (m *Memory) evictOldestLocked() {
	var (
		oldestKey string
		oldestSeq uint64
		found     bool
	)
	for key, entry := range m.entries {
		if !found || entry.seq < oldestSeq {
			oldestKey, oldestSeq, found = key, entry.seq, true
		}
	}
	if found {
		delete(m.entries, oldestKey)
	}
}
