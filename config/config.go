package config

import (
	"fmt"
	"strconv"
	"time"

	goconfig "github.com/robfig/config"
)

// ConfigFilePath is the default path to the config file
const ConfigFilePath string = "/etc/itemcache/api.conf"

// APISection is the [api] section of the config file
const APISection string = "api"

// Config file keys
const (
	ListenPort = "listen_port"

	DatabaseHost     = "database_host"
	DatabasePort     = "database_port"
	DatabaseName     = "database_database"
	DatabaseUsername = "database_username"
	DatabasePassword = "database_password"

	MemcachedHost      = "memcached_host"
	MemcachedPort      = "memcached_port"
	MemcachedTimeoutMs = "memcached_timeout_ms"

	CacheBackend           = "cache_backend"
	CacheDefaultTTLMinutes = "cache_default_ttl_minutes"
	ItemCacheTTLMinutes    = "item_cache_ttl_minutes"

	SeedData = "seed_data"
)

// Values accepted for CacheBackend
const (
	CacheBackendMemcache = "memcache"
	CacheBackendMemory   = "memory"
)

var configRequiredStrings = []string{
	DatabaseHost,
	DatabaseName,
	DatabasePassword,
	DatabaseUsername,
	MemcachedHost,
}

var configRequiredInt64s = []string{
	DatabasePort,
	ListenPort,
	MemcachedPort,
}

// Optional keys and the values used when they are absent
var configOptionalStrings = map[string]string{
	CacheBackend: CacheBackendMemcache,
}

var configOptionalInt64s = map[string]int64{
	MemcachedTimeoutMs:     500,
	CacheDefaultTTLMinutes: 60,
	ItemCacheTTLMinutes:    30,
}

var configOptionalBools = map[string]bool{
	SeedData: true,
}

// ConfigStrings contains the string values for the given config keys
var ConfigStrings = map[string]string{}

// ConfigInt64s contains the int64 values for the given config keys
var ConfigInt64s = map[string]int64{}

// ConfigBool contains the bool values for the given config keys
var ConfigBool = map[string]bool{}

// ReadConfigFile loads the [api] section of the given file into ConfigStrings,
// ConfigInt64s and ConfigBool. Missing required keys are an error; missing
// optional keys take their defaults.
func ReadConfigFile(path string) error {
	c, err := goconfig.ReadDefault(path)
	if err != nil {
		return fmt.Errorf("could not read config file %s: %v", path, err)
	}

	for _, key := range configRequiredStrings {
		s, err := c.String(APISection, key)
		if err != nil {
			return fmt.Errorf("config %s: %v", key, err)
		}
		ConfigStrings[key] = s
	}

	for _, key := range configRequiredInt64s {
		ii, err := readInt64(c, key)
		if err != nil {
			return err
		}
		ConfigInt64s[key] = ii
	}

	for key, def := range configOptionalStrings {
		ConfigStrings[key] = def
		if c.HasOption(APISection, key) {
			s, err := c.String(APISection, key)
			if err != nil {
				return fmt.Errorf("config %s: %v", key, err)
			}
			ConfigStrings[key] = s
		}
	}

	for key, def := range configOptionalInt64s {
		ConfigInt64s[key] = def
		if c.HasOption(APISection, key) {
			ii, err := readInt64(c, key)
			if err != nil {
				return err
			}
			ConfigInt64s[key] = ii
		}
	}

	for key, def := range configOptionalBools {
		ConfigBool[key] = def
		if c.HasOption(APISection, key) {
			b, err := c.Bool(APISection, key)
			if err != nil {
				return fmt.Errorf("config %s: %v", key, err)
			}
			ConfigBool[key] = b
		}
	}

	switch ConfigStrings[CacheBackend] {
	case CacheBackendMemcache, CacheBackendMemory:
	default:
		return fmt.Errorf(
			"config %s: unsupported value %q",
			CacheBackend,
			ConfigStrings[CacheBackend],
		)
	}

	if ConfigInt64s[CacheDefaultTTLMinutes] <= 0 ||
		ConfigInt64s[ItemCacheTTLMinutes] <= 0 {
		return fmt.Errorf("config cache time-to-live values must be positive")
	}

	return nil
}

func readInt64(c *goconfig.Config, key string) (int64, error) {
	s, err := c.String(APISection, key)
	if err != nil {
		return 0, fmt.Errorf("config %s: %v", key, err)
	}

	ii, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("config %s (%s) is not a number", key, s)
	}

	return ii, nil
}

// CacheDefaultTTL is the time-to-live of any cache name without an override
func CacheDefaultTTL() time.Duration {
	return time.Duration(ConfigInt64s[CacheDefaultTTLMinutes]) * time.Minute
}

// ItemCacheTTL is the time-to-live override for the item cache name
func ItemCacheTTL() time.Duration {
	return time.Duration(ConfigInt64s[ItemCacheTTLMinutes]) * time.Minute
}

// MemcachedTimeout is the socket read/write timeout for the cache backend
func MemcachedTimeout() time.Duration {
	return time.Duration(ConfigInt64s[MemcachedTimeoutMs]) * time.Millisecond
}
