package models

import (
	"net/http"

	"github.com/golang/glog"

	c "github.com/microcosm-collective/itemcache/cache"
)

// ItemCache reads items through the cache and writes them to the store,
// evicting the cached copy of anything it writes.
//
// It takes no locks. A fill racing with an eviction can leave a stale entry
// in place until its time-to-live elapses.
type ItemCache struct {
	store  ItemStore
	cache  c.Provider
	config c.Config
}

// NewItemCache wires the cache layer to its store and cache backend
func NewItemCache(store ItemStore, provider c.Provider, cfg c.Config) *ItemCache {
	return &ItemCache{
		store:  store,
		cache:  provider,
		config: cfg,
	}
}

// ListAll returns every item, from the cache if present
func (ic *ItemCache) ListAll() ([]ItemType, int, error) {
	var ems []ItemType
	ok, err := c.GetJSON(ic.cache, c.ItemCacheName, mcItemListKey, &ems)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	if ok {
		return ems, http.StatusOK, nil
	}

	ems, status, err := ic.store.GetAll()
	if err != nil {
		return nil, status, err
	}

	err = c.SetJSON(ic.cache, ic.config, c.ItemCacheName, mcItemListKey, ems)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}

	return ems, http.StatusOK, nil
}

// GetByID returns a single item, from the cache if present. A missing item is
// never cached.
func (ic *ItemCache) GetByID(id int64) (ItemType, int, error) {
	var m ItemType
	ok, err := c.GetJSON(ic.cache, c.ItemCacheName, mcItemKey(id), &m)
	if err != nil {
		return ItemType{}, http.StatusInternalServerError, err
	}
	if ok {
		return m, http.StatusOK, nil
	}

	m, status, err := ic.store.GetByID(id)
	if err != nil {
		return ItemType{}, status, err
	}

	err = c.SetJSON(ic.cache, ic.config, c.ItemCacheName, mcItemKey(id), m)
	if err != nil {
		return ItemType{}, http.StatusInternalServerError, err
	}

	return m, http.StatusOK, nil
}

// Modify sets the price of an item in the store and then evicts the item from
// the cache. The cached item list is not evicted.
func (ic *ItemCache) Modify(id int64, price int64) (ItemType, int, error) {
	m, status, err := ic.store.UpsertPrice(id, price)
	if err != nil {
		return ItemType{}, status, err
	}

	err = ic.cache.Evict(c.ItemCacheName, mcItemKey(id))
	if err != nil {
		// The write is durable; the old entry lives until it expires
		glog.Errorf(
			"item %d updated but not evicted, stale for up to %s: %+v",
			id,
			ic.config.TTL(c.ItemCacheName),
			err,
		)
		return ItemType{}, http.StatusInternalServerError, err
	}

	return m, http.StatusOK, nil
}
