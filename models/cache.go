package models

import (
	"strconv"
)

// This file contains the cache keys for model objects. Both kinds of entry
// live in the item cache name:
//   itemCache::<id>          a single item
//   itemCache::searchItems   the full list of items
// A price change evicts only the single item entry. The list entry is left to
// expire on its own.

// mcItemListKey is the name of the list operation, as it takes no arguments
// that could distinguish one call from another
const mcItemListKey string = "searchItems"

// mcItemKey is the decimal form of the item ID
func mcItemKey(id int64) string {
	return strconv.FormatInt(id, 10)
}
