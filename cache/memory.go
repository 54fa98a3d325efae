package cache

import (
	"sync"
	"time"
)

type memoryEntry struct {
	value    []byte
	deadline time.Time
}

// MemoryProvider keeps entries in process memory. Each entry carries its own
// deadline and is unreadable once the deadline has passed, whether or not
// Sweep has removed it yet.
type MemoryProvider struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryProvider returns an empty MemoryProvider using the wall clock
func NewMemoryProvider() *MemoryProvider {
	return NewMemoryProviderWithClock(time.Now)
}

// NewMemoryProviderWithClock returns an empty MemoryProvider that reads the
// time from now
func NewMemoryProviderWithClock(now func() time.Time) *MemoryProvider {
	return &MemoryProvider{
		entries: map[string]memoryEntry{},
		now:     now,
	}
}

// Get returns a copy of the stored value
func (p *MemoryProvider) Get(namespace string, key string) ([]byte, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	k := Key(namespace, key)
	entry, ok := p.entries[k]
	if !ok {
		return nil, false, nil
	}

	if p.expired(entry) {
		delete(p.entries, k)
		return nil, false, nil
	}

	return append([]byte(nil), entry.value...), true, nil
}

// Put stores a copy of value. A ttl of zero or less never expires.
func (p *MemoryProvider) Put(
	namespace string,
	key string,
	value []byte,
	ttl time.Duration,
) error {
	entry := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		entry.deadline = p.now().Add(ttl)
	}

	p.mu.Lock()
	p.entries[Key(namespace, key)] = entry
	p.mu.Unlock()

	return nil
}

// Evict removes the entry if present
func (p *MemoryProvider) Evict(namespace string, key string) error {
	p.mu.Lock()
	delete(p.entries, Key(namespace, key))
	p.mu.Unlock()

	return nil
}

// Ping always succeeds
func (p *MemoryProvider) Ping() error {
	return nil
}

// Sweep drops every expired entry and returns how many were dropped
func (p *MemoryProvider) Sweep() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	var dropped int
	for k, entry := range p.entries {
		if p.expired(entry) {
			delete(p.entries, k)
			dropped++
		}
	}

	return dropped
}

// Len is the number of stored entries, including expired ones not yet swept
func (p *MemoryProvider) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.entries)
}

func (p *MemoryProvider) expired(entry memoryEntry) bool {
	return !entry.deadline.IsZero() && !p.now().Before(entry.deadline)
}
