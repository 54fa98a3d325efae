package models

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	c "github.com/microcosm-collective/itemcache/cache"
	e "github.com/microcosm-collective/itemcache/errors"
)

// countingStore is an in-memory ItemStore that counts calls
type countingStore struct {
	mu     sync.Mutex
	items  map[int64]ItemType
	order  []int64
	gets   int
	lists  int
	writes int
	err    error
}

func newCountingStore(items ...ItemType) *countingStore {
	s := &countingStore{items: map[int64]ItemType{}}
	for i, m := range items {
		m.ID = int64(i + 1)
		s.items[m.ID] = m
		s.order = append(s.order, m.ID)
	}
	return s
}

func (s *countingStore) GetAll() ([]ItemType, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lists++
	if s.err != nil {
		return nil, http.StatusInternalServerError, s.err
	}

	ems := []ItemType{}
	for _, id := range s.order {
		ems = append(ems, s.items[id])
	}
	return ems, http.StatusOK, nil
}

func (s *countingStore) GetByID(id int64) (ItemType, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gets++
	if s.err != nil {
		return ItemType{}, http.StatusInternalServerError, s.err
	}

	m, ok := s.items[id]
	if !ok {
		return ItemType{}, http.StatusNotFound, notFoundError(id, "test.GetByID")
	}
	return m, http.StatusOK, nil
}

func (s *countingStore) UpsertPrice(id int64, price int64) (ItemType, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.writes++
	if s.err != nil {
		return ItemType{}, http.StatusInternalServerError, s.err
	}

	m, ok := s.items[id]
	if !ok {
		return ItemType{}, http.StatusNotFound, notFoundError(id, "test.UpsertPrice")
	}
	m.Price = price
	s.items[id] = m
	return m, http.StatusOK, nil
}

// recordingProvider wraps a MemoryProvider, records evictions and can be
// made to fail
type recordingProvider struct {
	*c.MemoryProvider
	mu       sync.Mutex
	evicted  []string
	failGet  bool
	failPut  bool
	failEvct bool
}

func (p *recordingProvider) Get(namespace string, key string) ([]byte, bool, error) {
	if p.failGet {
		return nil, false, e.New(0, "test.Get", e.CacheUnavailable, "down")
	}
	return p.MemoryProvider.Get(namespace, key)
}

func (p *recordingProvider) Put(namespace string, key string, value []byte, ttl time.Duration) error {
	if p.failPut {
		return e.New(0, "test.Put", e.CacheUnavailable, "down")
	}
	return p.MemoryProvider.Put(namespace, key, value, ttl)
}

func (p *recordingProvider) Evict(namespace string, key string) error {
	if p.failEvct {
		return e.New(0, "test.Evict", e.CacheUnavailable, "down")
	}
	p.mu.Lock()
	p.evicted = append(p.evicted, c.Key(namespace, key))
	p.mu.Unlock()
	return p.MemoryProvider.Evict(namespace, key)
}

type fakeClock struct {
	t time.Time
}

func (f *fakeClock) Now() time.Time { return f.t }

func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

func newFixture(items ...ItemType) (*ItemCache, *countingStore, *recordingProvider, *fakeClock) {
	if len(items) == 0 {
		items = DefaultItems
	}

	clock := &fakeClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	store := newCountingStore(items...)
	provider := &recordingProvider{
		MemoryProvider: c.NewMemoryProviderWithClock(clock.Now),
	}

	return NewItemCache(store, provider, c.DefaultConfig()), store, provider, clock
}

func TestGetByIDPopulatesCache(t *testing.T) {
	ic, store, provider, _ := newFixture()

	m, status, err := ic.GetByID(1)
	if err != nil || status != http.StatusOK {
		t.Fatalf("GetByID(1) = %d, %+v", status, err)
	}
	if m.Name != "MacBook Air 13" || m.Price != 1590000 {
		t.Errorf("GetByID(1) = %+v", m)
	}

	raw, ok, _ := provider.MemoryProvider.Get(c.ItemCacheName, "1")
	if !ok {
		t.Fatalf("itemCache::1 should be populated after a miss")
	}
	if string(raw) != `{"id":1,"itemName":"MacBook Air 13","price":1590000}` {
		t.Errorf("cached value = %s", raw)
	}

	m2, _, err := ic.GetByID(1)
	if err != nil {
		t.Fatalf("GetByID(1) %+v", err)
	}
	if m2 != m {
		t.Errorf("cached read = %+v should be %+v", m2, m)
	}
	if store.gets != 1 {
		t.Errorf("store.GetByID called %d times, should be 1", store.gets)
	}
}

func TestModifyEvictsItem(t *testing.T) {
	ic, store, provider, _ := newFixture()

	ic.GetByID(1)

	m, status, err := ic.Modify(1, 1690000)
	if err != nil || status != http.StatusOK {
		t.Fatalf("Modify(1) = %d, %+v", status, err)
	}
	if m.Price != 1690000 {
		t.Errorf("Modify(1) price = %d should be 1690000", m.Price)
	}
	if len(provider.evicted) != 1 || provider.evicted[0] != "itemCache::1" {
		t.Errorf("evicted = %v should be [itemCache::1]", provider.evicted)
	}

	m, _, err = ic.GetByID(1)
	if err != nil {
		t.Fatalf("GetByID(1) %+v", err)
	}
	if m.Price != 1690000 {
		t.Errorf("GetByID(1) after Modify price = %d should be 1690000", m.Price)
	}
	if store.gets != 2 {
		t.Errorf("store.GetByID called %d times, should be 2", store.gets)
	}
}

func TestNotFoundIsNotCached(t *testing.T) {
	ic, store, provider, _ := newFixture()

	for i := 0; i < 2; i++ {
		_, status, err := ic.GetByID(404)
		if status != http.StatusNotFound {
			t.Errorf("GetByID(404) status = %d should be 404", status)
		}
		if !stderrors.Is(err, e.ErrNotFound) {
			t.Errorf("GetByID(404) = %v; expected NotFound", err)
		}
	}

	if store.gets != 2 {
		t.Errorf("store.GetByID called %d times, should be 2", store.gets)
	}
	if provider.Len() != 0 {
		t.Errorf("cache holds %d entries, should be empty", provider.Len())
	}
}

func TestModifyNotFoundLeavesCache(t *testing.T) {
	ic, _, provider, _ := newFixture()

	ic.ListAll()
	ic.GetByID(1)

	_, status, err := ic.Modify(404, 1)
	if status != http.StatusNotFound || !stderrors.Is(err, e.ErrNotFound) {
		t.Errorf("Modify(404) = %d, %v; expected NotFound", status, err)
	}
	if len(provider.evicted) != 0 {
		t.Errorf("evicted = %v should be empty", provider.evicted)
	}
	if provider.Len() != 2 {
		t.Errorf("cache holds %d entries, should be 2", provider.Len())
	}
}

func TestEvictionIsolation(t *testing.T) {
	ic, store, _, _ := newFixture()

	ic.ListAll()
	ic.GetByID(1)
	ic.GetByID(2)

	_, _, err := ic.Modify(1, 1)
	if err != nil {
		t.Fatalf("Modify(1) %+v", err)
	}

	m, _, _ := ic.GetByID(2)
	if m.Price != 1890000 {
		t.Errorf("GetByID(2) price = %d should be 1890000", m.Price)
	}
	if store.gets != 2 {
		t.Errorf("store.GetByID called %d times, should be 2 (item 2 still cached)", store.gets)
	}

	ems, _, _ := ic.ListAll()
	if store.lists != 1 {
		t.Errorf("store.GetAll called %d times, should be 1 (list still cached)", store.lists)
	}

	// The list entry is not evicted by a price change and still shows the old
	// price until it expires
	if ems[0].Price != 1590000 {
		t.Errorf("cached list price = %d should still be 1590000", ems[0].Price)
	}
}

func TestListAllExpiry(t *testing.T) {
	ic, store, _, clock := newFixture()

	ems, status, err := ic.ListAll()
	if err != nil || status != http.StatusOK {
		t.Fatalf("ListAll() = %d, %+v", status, err)
	}
	if len(ems) != 4 {
		t.Fatalf("ListAll() returned %d items, should be 4", len(ems))
	}

	ic.Modify(1, 1690000)

	clock.Advance(29 * time.Minute)
	ems, _, _ = ic.ListAll()
	if store.lists != 1 || ems[0].Price != 1590000 {
		t.Errorf("list should be served from cache before expiry")
	}

	clock.Advance(time.Minute)
	ems, _, _ = ic.ListAll()
	if store.lists != 2 {
		t.Errorf("store.GetAll called %d times, should be 2 after expiry", store.lists)
	}
	if ems[0].Price != 1690000 {
		t.Errorf("list price after expiry = %d should be 1690000", ems[0].Price)
	}
}

func TestGetByIDExpiry(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	store := newCountingStore(DefaultItems...)
	cfg := c.Config{
		DefaultTTL: time.Hour,
		TTLs:       map[string]time.Duration{c.ItemCacheName: time.Second},
	}
	ic := NewItemCache(store, c.NewMemoryProviderWithClock(clock.Now), cfg)

	ic.GetByID(3)
	ic.GetByID(3)
	if store.gets != 1 {
		t.Fatalf("store.GetByID called %d times, should be 1", store.gets)
	}

	clock.Advance(time.Second)
	m, _, err := ic.GetByID(3)
	if err != nil {
		t.Fatalf("GetByID(3) %+v", err)
	}
	if store.gets != 2 {
		t.Errorf("store.GetByID called %d times, should be 2 after expiry", store.gets)
	}
	if m.Name != "MacBook Pro 14" {
		t.Errorf("GetByID(3) = %+v", m)
	}
}

func TestListAllEmptyStore(t *testing.T) {
	store := &countingStore{items: map[int64]ItemType{}}
	ic := NewItemCache(store, c.NewMemoryProvider(), c.DefaultConfig())

	for i := 0; i < 2; i++ {
		ems, _, err := ic.ListAll()
		if err != nil {
			t.Fatalf("ListAll() %+v", err)
		}
		if ems == nil || len(ems) != 0 {
			t.Errorf("ListAll() = %#v should be an empty slice", ems)
		}
	}
	if store.lists != 1 {
		t.Errorf("store.GetAll called %d times, should be 1", store.lists)
	}
}

func TestCacheUnavailable(t *testing.T) {
	tests := []struct {
		name  string
		setup func(p *recordingProvider)
		call  func(ic *ItemCache) (int, error)
	}{
		{
			name:  "get fails on read",
			setup: func(p *recordingProvider) { p.failGet = true },
			call: func(ic *ItemCache) (int, error) {
				_, status, err := ic.GetByID(1)
				return status, err
			},
		},
		{
			name:  "put fails on fill",
			setup: func(p *recordingProvider) { p.failPut = true },
			call: func(ic *ItemCache) (int, error) {
				_, status, err := ic.GetByID(1)
				return status, err
			},
		},
		{
			name:  "get fails on list",
			setup: func(p *recordingProvider) { p.failGet = true },
			call: func(ic *ItemCache) (int, error) {
				_, status, err := ic.ListAll()
				return status, err
			},
		},
		{
			name:  "evict fails after write",
			setup: func(p *recordingProvider) { p.failEvct = true },
			call: func(ic *ItemCache) (int, error) {
				_, status, err := ic.Modify(1, 5)
				return status, err
			},
		},
	}

	for _, tt := range tests {
		ic, _, provider, _ := newFixture()
		tt.setup(provider)

		status, err := tt.call(ic)
		if status != http.StatusInternalServerError {
			t.Errorf("%s: status = %d should be 500", tt.name, status)
		}
		if !stderrors.Is(err, e.ErrCacheUnavailable) {
			t.Errorf("%s: err = %v; expected CacheUnavailable", tt.name, err)
		}
	}
}

func TestModifyWritesBeforeEvictFailure(t *testing.T) {
	ic, store, provider, _ := newFixture()
	provider.failEvct = true

	ic.Modify(1, 5)

	m, _, _ := store.GetByID(1)
	if m.Price != 5 {
		t.Errorf("store price = %d should be 5; the write must not depend on eviction", m.Price)
	}
}

func TestStoreUnavailable(t *testing.T) {
	ic, store, provider, _ := newFixture()
	store.err = e.Wrap(fmt.Errorf("connection refused"), 0, "test", e.StoreUnavailable, "down")

	_, status, err := ic.GetByID(1)
	if status != http.StatusInternalServerError || !stderrors.Is(err, e.ErrStoreUnavailable) {
		t.Errorf("GetByID() = %d, %v; expected StoreUnavailable", status, err)
	}

	_, _, err = ic.ListAll()
	if !stderrors.Is(err, e.ErrStoreUnavailable) {
		t.Errorf("ListAll() = %v; expected StoreUnavailable", err)
	}

	_, _, err = ic.Modify(1, 1)
	if !stderrors.Is(err, e.ErrStoreUnavailable) {
		t.Errorf("Modify() = %v; expected StoreUnavailable", err)
	}
	if len(provider.evicted) != 0 {
		t.Errorf("a failed write must not evict, evicted = %v", provider.evicted)
	}
}

func TestMacBookScenario(t *testing.T) {
	ic, store, _, _ := newFixture(ItemType{Name: "MacBook Air 13", Price: 1590000})

	m, _, _ := ic.GetByID(1)
	if m.Price != 1590000 || store.gets != 1 {
		t.Errorf("first read: price %d, store reads %d", m.Price, store.gets)
	}

	m, _, _ = ic.GetByID(1)
	if m.Price != 1590000 || store.gets != 1 {
		t.Errorf("second read: price %d, store reads %d", m.Price, store.gets)
	}

	m, _, _ = ic.Modify(1, 1690000)
	if m.Price != 1690000 || store.writes != 1 {
		t.Errorf("modify: price %d, store writes %d", m.Price, store.writes)
	}

	m, _, _ = ic.GetByID(1)
	if m.Price != 1690000 || store.gets != 2 {
		t.Errorf("read after modify: price %d, store reads %d", m.Price, store.gets)
	}
}

func TestConcurrentReadsAndWrites(t *testing.T) {
	ic, _, _, _ := newFixture()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := int64(i%4 + 1)
			for j := 0; j < 50; j++ {
				if j%10 == 0 {
					ic.Modify(id, int64(j))
					continue
				}
				if _, _, err := ic.GetByID(id); err != nil {
					t.Errorf("GetByID(%d) %+v", id, err)
				}
				if _, _, err := ic.ListAll(); err != nil {
					t.Errorf("ListAll() %+v", err)
				}
			}
		}(i)
	}
	wg.Wait()
}
