package controller

import (
	"fmt"
	"net/http"

	h "github.com/microcosm-collective/itemcache/helpers"
	"github.com/microcosm-collective/itemcache/models"
)

// ItemController serves a single item
type ItemController struct {
	Service *models.ItemService
}

// ItemModifyRequest is the body of a PATCH to an item
type ItemModifyRequest struct {
	Price *int64 `json:"price"`
}

// ItemHandler is a web handler
func (ctl *ItemController) ItemHandler(w http.ResponseWriter, r *http.Request) {
	c := models.MakeContext(r, w)

	switch c.GetHTTPMethod() {
	case "OPTIONS":
		c.RespondWithOptions([]string{"OPTIONS", "GET", "PATCH"})
		return
	case "GET":
		ctl.Read(c)
	case "PATCH":
		ctl.Patch(c)
	default:
		c.RespondWithStatus(http.StatusMethodNotAllowed)
		return
	}
}

// Read fetches one item
func (ctl *ItemController) Read(c *models.Context) {
	itemID, status, err := h.ParseItemID("item_id", c.RouteVars["item_id"])
	if err != nil {
		c.RespondWithErrorMessage(err.Error(), status)
		return
	}

	m, status, err := ctl.Service.SearchItem(itemID)
	if err != nil {
		c.RespondWithErrorDetail(err, status)
		return
	}

	c.RespondWithData(m)
}

// Patch sets the price of one item
func (ctl *ItemController) Patch(c *models.Context) {
	itemID, status, err := h.ParseItemID("item_id", c.RouteVars["item_id"])
	if err != nil {
		c.RespondWithErrorMessage(err.Error(), status)
		return
	}

	req := ItemModifyRequest{}
	err = c.Fill(&req)
	if err != nil {
		c.RespondWithErrorMessage(
			fmt.Sprintf("The post data is invalid: %v", err.Error()),
			http.StatusBadRequest,
		)
		return
	}

	if req.Price == nil {
		c.RespondWithErrorMessage("price is required", http.StatusBadRequest)
		return
	}

	m, status, err := ctl.Service.ModifyItem(itemID, *req.Price)
	if err != nil {
		c.RespondWithErrorDetail(err, status)
		return
	}

	c.RespondWithData(m)
}
