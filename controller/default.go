package controller

import (
	"net/http"

	h "github.com/microcosm-collective/itemcache/helpers"
	"github.com/microcosm-collective/itemcache/models"
)

// RootHandler is a web handler
func RootHandler(w http.ResponseWriter, r *http.Request) {
	linksHandler(w, r, []h.LinkType{
		{Rel: "api", Href: "/api/v1"},
	})
}

// V1Handler is a web handler
func V1Handler(w http.ResponseWriter, r *http.Request) {
	linksHandler(w, r, []h.LinkType{
		h.GetLink("item", "", h.ItemTypeItem, 0),
		h.GetLink("version", "", h.ItemTypeVersion, 0),
		{Rel: "status", Href: "/api/v1/status"},
	})
}

func linksHandler(w http.ResponseWriter, r *http.Request, links []h.LinkType) {
	c := models.MakeContext(r, w)

	switch c.GetHTTPMethod() {
	case "OPTIONS":
		c.RespondWithOptions([]string{"OPTIONS", "GET"})
		return
	case "GET":
		c.RespondWithData(h.LinkArrayType{Links: links})
		return
	default:
		c.RespondWithStatus(http.StatusMethodNotAllowed)
		return
	}
}
