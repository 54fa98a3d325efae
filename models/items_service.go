package models

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/golang/glog"

	e "github.com/microcosm-collective/itemcache/errors"
)

// ItemService exposes the catalog operations to the controllers
type ItemService struct {
	items *ItemCache
}

// NewItemService returns a service backed by the given cache layer
func NewItemService(items *ItemCache) *ItemService {
	return &ItemService{items: items}
}

// SearchItems returns every item
func (s *ItemService) SearchItems() ([]ItemType, int, error) {
	if glog.V(2) {
		glog.Info("ItemService.SearchItems")
	}

	return s.items.ListAll()
}

// SearchItem returns a single item
func (s *ItemService) SearchItem(id int64) (ItemType, int, error) {
	if glog.V(2) {
		glog.Infof("ItemService.SearchItem [itemID = %d]", id)
	}

	m, status, err := s.items.GetByID(id)
	if err != nil {
		status, err = invalidArgument(err, status, id, "models.SearchItem")
		return ItemType{}, status, err
	}

	return m, status, nil
}

// ModifyItem sets the price of an item
func (s *ItemService) ModifyItem(id int64, price int64) (ItemType, int, error) {
	if glog.V(2) {
		glog.Infof("ItemService.ModifyItem [itemID = %d, price = %d]", id, price)
	}

	m, status, err := s.items.Modify(id, price)
	if err != nil {
		status, err = invalidArgument(err, status, id, "models.ModifyItem")
		return ItemType{}, status, err
	}

	return m, status, nil
}

// invalidArgument reports a missing item as a bad request by the caller. Any
// other error passes through unchanged.
func invalidArgument(
	err error,
	status int,
	id int64,
	function string,
) (
	int,
	error,
) {
	if !errors.Is(err, e.ErrNotFound) {
		return status, err
	}

	return http.StatusBadRequest, e.Wrap(
		err,
		id,
		function,
		e.InvalidArgument,
		fmt.Sprintf("the supplied item ID (%d) does not exist", id),
	)
}
