package server

import (
	"github.com/golang/glog"

	c "github.com/microcosm-collective/itemcache/cache"
	"github.com/microcosm-collective/itemcache/models"
)

// Field name   | Mandatory? | Allowed values  | Allowed special characters
// ----------   | ---------- | --------------  | --------------------------
// Seconds      | Yes        | 0-59            | * / , -
// Minutes      | Yes        | 0-59            | * / , -
// Hours        | Yes        | 0-23            | * / , -
// Day of month | Yes        | 1-31            | * / , - ?
// Month        | Yes        | 1-12 or JAN-DEC | * / , -
// Day of week  | Yes        | 0-6 or SUN-SAT  | * / , - ?

// Sweeper is implemented by cache backends that must drop expired entries
// themselves
type Sweeper interface {
	Sweep() int
}

// Jobs returns the cron jobs for the wired dependencies. sweeper may be nil.
func Jobs(deps map[string]c.Pinger, sweeper Sweeper) map[string]func() {
	jobs := map[string]func(){
		//SS MI HH  DOM MON DOW
		"  0  *     *    *   *   *": func() { checkHealth(deps) }, // Every minute
	}

	if sweeper != nil {
		jobs[" 30  *     *    *   *   *"] = func() { sweepCache(sweeper) } // Every minute at 30s
	}

	return jobs
}

func checkHealth(deps map[string]c.Pinger) {
	m, _ := models.CheckHealth(deps)
	if !m.Healthy {
		glog.Errorf("dependencies unhealthy: %v", m.Services)
		return
	}

	if glog.V(2) {
		glog.Infof("dependencies healthy: %v", m.Services)
	}
}

func sweepCache(sweeper Sweeper) {
	dropped := sweeper.Sweep()
	if glog.V(2) {
		glog.Infof("dropped %d expired cache entries", dropped)
	}
}
