package server

import (
	"net/http"

	"github.com/microcosm-collective/itemcache/controller"
)

// Handlers holds the controllers that need their collaborators wired in
type Handlers struct {
	Items  *controller.ItemsController
	Item   *controller.ItemController
	Status *controller.StatusController
}

func (hs Handlers) routes() map[string]func(http.ResponseWriter, *http.Request) {
	return map[string]func(http.ResponseWriter, *http.Request){
		"/":       controller.RootHandler,
		"/api/v1": controller.V1Handler,

		"/api/v1/items":                  hs.Items.ItemsHandler,
		"/api/v1/items/{item_id:[0-9]+}": hs.Item.ItemHandler,

		"/api/v1/status":  hs.Status.StatusHandler,
		"/api/v1/version": controller.VersionHandler,
	}
}
