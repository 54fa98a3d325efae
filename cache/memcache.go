package cache

import (
	"fmt"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/golang/glog"

	e "github.com/microcosm-collective/itemcache/errors"
)

// ItemCacheName is the cache name holding single items and the item list
const ItemCacheName string = "itemCache"

// Default time-to-live values, overridable from the config file
const (
	DefaultTTL   time.Duration = 60 * time.Minute
	ItemCacheTTL time.Duration = 30 * time.Minute
)

// memcached treats expirations beyond 30 days as absolute unix timestamps
const maxRelativeExpiration = 60 * 60 * 24 * 30

// Provider is a key/value backend with named caches and per-entry
// time-to-live. A miss is reported as found == false with a nil error.
type Provider interface {
	Get(namespace string, key string) (value []byte, found bool, err error)
	Put(namespace string, key string, value []byte, ttl time.Duration) error
	Evict(namespace string, key string) error
}

// Pinger is implemented by providers that can report their own health
type Pinger interface {
	Ping() error
}

// Config holds the default time-to-live and any per cache name overrides
type Config struct {
	DefaultTTL time.Duration
	TTLs       map[string]time.Duration
}

// DefaultConfig is one hour for everything, with the item cache overridden
// to thirty minutes
func DefaultConfig() Config {
	return Config{
		DefaultTTL: DefaultTTL,
		TTLs: map[string]time.Duration{
			ItemCacheName: ItemCacheTTL,
		},
	}
}

// TTL returns the time-to-live for entries in the given cache name
func (c Config) TTL(namespace string) time.Duration {
	if ttl, ok := c.TTLs[namespace]; ok {
		return ttl
	}
	return c.DefaultTTL
}

// Key returns the physical key of an entry
func Key(namespace string, key string) string {
	return namespace + "::" + key
}

// MemcacheProvider stores entries in memcached
type MemcacheProvider struct {
	mc  *memcache.Client
	now func() time.Time
}

// NewMemcacheProvider creates the memcache client. Connections are made
// lazily, so an unreachable server is reported by the first call (or Ping).
func NewMemcacheProvider(
	host string,
	port int64,
	timeout time.Duration,
) *MemcacheProvider {
	mc := memcache.New(fmt.Sprintf("%s:%d", host, port))
	mc.Timeout = timeout

	return &MemcacheProvider{mc: mc, now: time.Now}
}

// Get fetches the raw value for the given key
func (p *MemcacheProvider) Get(namespace string, key string) ([]byte, bool, error) {
	item, err := p.mc.Get(Key(namespace, key))
	if err == memcache.ErrCacheMiss {
		return nil, false, nil
	}
	if err != nil {
		glog.Warningf("mc.Get(%s) %+v", Key(namespace, key), err)
		return nil, false, e.Wrap(
			err, 0, "cache.Get", e.CacheUnavailable, "cache get failed",
		)
	}

	return item.Value, true, nil
}

// Put stores the value, which memcached discards once ttl elapses. A ttl of
// zero or less stores the value without expiry.
func (p *MemcacheProvider) Put(
	namespace string,
	key string,
	value []byte,
	ttl time.Duration,
) error {
	err := p.mc.Set(
		&memcache.Item{
			Key:        Key(namespace, key),
			Value:      value,
			Expiration: expiration(ttl, p.now()),
		},
	)
	if err != nil {
		glog.Errorf("mc.Set(%s) %+v", Key(namespace, key), err)
		return e.Wrap(
			err, 0, "cache.Put", e.CacheUnavailable, "cache put failed",
		)
	}

	return nil
}

// Evict removes the entry, if it is in the cache
func (p *MemcacheProvider) Evict(namespace string, key string) error {
	err := p.mc.Delete(Key(namespace, key))
	if err != nil && err != memcache.ErrCacheMiss {
		glog.Warningf("mc.Delete(%s) %+v", Key(namespace, key), err)
		return e.Wrap(
			err, 0, "cache.Evict", e.CacheUnavailable, "cache evict failed",
		)
	}

	return nil
}

// Ping checks that every memcached server is reachable
func (p *MemcacheProvider) Ping() error {
	err := p.mc.Ping()
	if err != nil {
		return e.Wrap(
			err, 0, "cache.Ping", e.CacheUnavailable, "cache ping failed",
		)
	}
	return nil
}

// expiration converts a time-to-live into the memcached expiration field.
// Sub-second values round up to one second so that a positive ttl never
// means "no expiry".
func expiration(ttl time.Duration, now time.Time) int32 {
	if ttl <= 0 {
		return 0
	}

	seconds := int64(ttl / time.Second)
	if ttl%time.Second != 0 {
		seconds++
	}

	if seconds > maxRelativeExpiration {
		return int32(now.Unix() + seconds)
	}

	return int32(seconds)
}
