/*
Package cache provides the cache backends used in front of the item store. It
should not be of any concern to the callee where this cache is, simply that the
cache exists and will speed things up.

Entries live in named caches ("namespaces"), each with a time-to-live taken
from Config. Values are stored as JSON and keys as plain strings; the physical
key of an entry is "<namespace>::<key>".

Unlike a best-effort cache, every backend error is returned to the caller
wrapped as CacheUnavailable. A cache miss is not an error.
*/
package cache
