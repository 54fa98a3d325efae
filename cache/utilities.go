package cache

import (
	"encoding/json"

	"github.com/golang/glog"

	e "github.com/microcosm-collective/itemcache/errors"
)

// Encode serialises a value for storage in the cache
func Encode(data interface{}) ([]byte, error) {
	b, err := json.Marshal(data)
	if err != nil {
		glog.Errorf("json.Marshal(data) %+v", err)
		return nil, e.Wrap(
			err, 0, "cache.Encode", e.CacheUnavailable, "cache encode failed",
		)
	}
	return b, nil
}

// Decode deserialises a cached value into dst
func Decode(value []byte, dst interface{}) error {
	err := json.Unmarshal(value, dst)
	if err != nil {
		glog.Errorf("json.Unmarshal(value, dst) %+v", err)
		return e.Wrap(
			err, 0, "cache.Decode", e.CacheUnavailable, "cache decode failed",
		)
	}
	return nil
}

// SetJSON encodes data and puts it into the cache with the time-to-live that
// cfg gives the namespace
func SetJSON(
	p Provider,
	cfg Config,
	namespace string,
	key string,
	data interface{},
) error {
	b, err := Encode(data)
	if err != nil {
		return err
	}

	return p.Put(namespace, key, b, cfg.TTL(namespace))
}

// GetJSON decodes the cached value into dst, if the value is in the cache
func GetJSON(
	p Provider,
	namespace string,
	key string,
	dst interface{},
) (bool, error) {
	b, ok, err := p.Get(namespace, key)
	if err != nil || !ok {
		return false, err
	}

	err = Decode(b, dst)
	if err != nil {
		return false, err
	}

	return true, nil
}
