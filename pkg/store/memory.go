// Package store holds short-lived keyed values in process memory.
//
// Nothing here survives a restart and nothing is shared between instances.
// Running more than one replica requires an external keyed cache with
// per-entry TTL behind the same methods.
package store

import (
	"sync"
	"time"
)

type entry struct {
	value     string
	createdAt time.Time
	expiresAt time.Time
	gen       uint64
	timer     *time.Timer
}

// Memory is a mutex-guarded map with one entry per key. Each entry is removed
// by its own timer once its TTL elapses.
type Memory struct {
	mu      sync.Mutex
	entries map[string]*entry
	gen     uint64
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// Set stores value under key, replacing any previous entry and its timer.
func (m *Memory) Set(key, value string, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if old, ok := m.entries[key]; ok {
		old.timer.Stop()
	}

	m.gen++
	gen := m.gen
	now := m.now()
	e := &entry{
		value:     value,
		createdAt: now,
		expiresAt: now.Add(ttl),
		gen:       gen,
	}
	e.timer = time.AfterFunc(ttl, func() { m.expire(key, gen) })
	m.entries[key] = e
}

// expire runs from the entry timer. A timer that lost the race with a newer
// Set for the same key must leave the newer entry alone.
func (m *Memory) expire(key string, gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.entries[key]; ok && e.gen == gen {
		delete(m.entries, key)
	}
}

// Get returns the live value for key.
func (m *Memory) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.live(key)
	if !ok {
		return "", false
	}
	return e.value, true
}

// CreatedAt reports when the live entry for key was stored.
func (m *Memory) CreatedAt(key string) (time.Time, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.live(key)
	if !ok {
		return time.Time{}, false
	}
	return e.createdAt, true
}

// CompareAndDelete removes the entry for key only when it is live and its
// value equals value byte for byte. It reports whether it removed anything.
func (m *Memory) CompareAndDelete(key, value string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.live(key)
	if !ok || e.value != value {
		return false
	}
	e.timer.Stop()
	delete(m.entries, key)
	return true
}

// Delete removes key and reports whether a live entry was there.
func (m *Memory) Delete(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.live(key)
	if !ok {
		return false
	}
	e.timer.Stop()
	delete(m.entries, key)
	return true
}

func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// live must be called with mu held. Entries past their expiry are dropped
// even if their timer has not fired yet.
func (m *Memory) live(key string) (*entry, bool) {
	e, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if !m.now().Before(e.expiresAt) {
		e.timer.Stop()
		delete(m.entries, key)
		return nil, false
	}
	return e, true
}
