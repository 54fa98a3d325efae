package helpers

import (
	"fmt"
	"net/http"
	"strconv"
)

// LinkArrayType is a collection of links
type LinkArrayType struct {
	Links []LinkType `json:"links"`
}

// LinkType is a link
type LinkType struct {
	Rel   string `json:"rel,omitempty"` // REST
	Href  string `json:"href"`
	Title string `json:"title,omitempty"`
}

// GetLink returns a link to an item, or to the collection when itemID is zero
func GetLink(rel string, title string, itemType string, itemID int64) LinkType {

	var href string
	if itemID > 0 {
		href = fmt.Sprintf("%s/%d", ItemTypesToAPIItem[itemType], itemID)
	} else {
		href = ItemTypesToAPIItem[itemType]
	}

	return LinkType{Rel: rel, Href: href, Title: title}
}

// ParseItemID parses a route variable holding an item ID
func ParseItemID(key string, value string) (int64, int, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, http.StatusBadRequest,
			fmt.Errorf("the supplied %s ('%s') is not a number", key, value)
	}

	if id < 1 {
		return 0, http.StatusBadRequest,
			fmt.Errorf("the supplied %s (%d) must be positive", key, id)
	}

	return id, http.StatusOK, nil
}
