package controller

import (
	"net/http"

	c "github.com/microcosm-collective/itemcache/cache"
	"github.com/microcosm-collective/itemcache/models"
)

// StatusController reports whether the cache and the store are reachable
type StatusController struct {
	Dependencies map[string]c.Pinger
}

// StatusHandler is a web handler
func (ctl *StatusController) StatusHandler(w http.ResponseWriter, r *http.Request) {
	cx := models.MakeContext(r, w)

	switch cx.GetHTTPMethod() {
	case "OPTIONS":
		cx.RespondWithOptions([]string{"OPTIONS", "HEAD", "GET"})
		return
	case "GET", "HEAD":
		m, status := models.CheckHealth(ctl.Dependencies)
		cx.Respond(m, status, nil)
		return
	default:
		cx.RespondWithStatus(http.StatusMethodNotAllowed)
		return
	}
}
