// Package cache holds the per-owner overview snapshot cache.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/bytedance/sonic"
)

// Cache stores JSON-encoded values by key
type Cache interface {
	// Get decodes the value at key into dst and reports whether it was found
	Get(ctx context.Context, key string, dst interface{}) (bool, error)
	Set(ctx context.Context, key string, v interface{}) error
	Delete(ctx context.Context, keys ...string) error
}

// OverviewKey is the cache key of an owner's overview snapshot
func OverviewKey(ownerID string) string {
	return "studyhub:overview:" + ownerID
}

// Noop never stores anything
type Noop struct{}

func (Noop) Get(context.Context, string, interface{}) (bool, error) { return false, nil }
func (Noop) Set(context.Context, string, interface{}) error         { return nil }
func (Noop) Delete(context.Context, ...string) error                { return nil }

// Memory is an in-process cache with a fixed ttl, for single-instance deployments and tests
type Memory struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	raw     []byte
	expires time.Time
}

// NewMemory creates a Memory cache. A ttl of zero keeps entries until deleted.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{ttl: ttl, now: time.Now, entries: make(map[string]memoryEntry)}
}

func (m *Memory) Get(_ context.Context, key string, dst interface{}) (bool, error) {
	m.mu.Lock()
	e, ok := m.entries[key]
	if ok && !e.expires.IsZero() && m.now().After(e.expires) {
		delete(m.entries, key)
		ok = false
	}
	m.mu.Unlock()

	if !ok {
		return false, nil
	}
	return true, sonic.Unmarshal(e.raw, dst)
}

func (m *Memory) Set(_ context.Context, key string, v interface{}) error {
	raw, err := sonic.Marshal(v)
	if err != nil {
		return err
	}
	var expires time.Time
	if m.ttl > 0 {
		expires = m.now().Add(m.ttl)
	}

	m.mu.Lock()
	m.entries[key] = memoryEntry{raw: raw, expires: expires}
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	for _, k := range keys {
		delete(m.entries, k)
	}
	m.mu.Unlock()
	return nil
}
