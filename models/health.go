package models

import (
	"net/http"
	"sort"

	"github.com/golang/glog"

	c "github.com/microcosm-collective/itemcache/cache"
)

// HealthType reports the reachability of each backing service
type HealthType struct {
	Healthy  bool              `json:"healthy"`
	Services map[string]string `json:"services"`
}

// CheckHealth pings each named dependency. The status is 503 if any of them
// failed.
func CheckHealth(deps map[string]c.Pinger) (HealthType, int) {
	m := HealthType{
		Healthy:  true,
		Services: map[string]string{},
	}

	names := make([]string, 0, len(deps))
	for name := range deps {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		err := deps[name].Ping()
		if err != nil {
			glog.Warningf("health check %s: %+v", name, err)
			m.Healthy = false
			m.Services[name] = err.Error()
			continue
		}
		m.Services[name] = "ok"
	}

	if !m.Healthy {
		return m, http.StatusServiceUnavailable
	}

	return m, http.StatusOK
}
