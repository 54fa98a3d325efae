package controller

import (
	"net/http"

	"github.com/microcosm-collective/itemcache/models"
)

// ItemsController serves the item collection
type ItemsController struct {
	Service *models.ItemService
}

// ItemsHandler is a web handler
func (ctl *ItemsController) ItemsHandler(w http.ResponseWriter, r *http.Request) {
	c := models.MakeContext(r, w)

	switch c.GetHTTPMethod() {
	case "OPTIONS":
		c.RespondWithOptions([]string{"OPTIONS", "GET"})
		return
	case "GET":
		ctl.ReadMany(c)
	default:
		c.RespondWithStatus(http.StatusMethodNotAllowed)
		return
	}
}

// ReadMany lists every item
func (ctl *ItemsController) ReadMany(c *models.Context) {
	ems, status, err := ctl.Service.SearchItems()
	if err != nil {
		c.RespondWithErrorDetail(err, status)
		return
	}

	c.RespondWithData(ems)
}
