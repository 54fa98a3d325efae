package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang/glog"
	"github.com/gorilla/mux"
	"github.com/robfig/cron"
)

// StartServer owns the http process and cron jobs
func StartServer(port int64, handlers Handlers, jobs map[string]func()) {

	// Set up the cron jobs
	c := cron.New()
	for schedule, job := range jobs {
		err := c.AddFunc(schedule, job)
		if err != nil {
			glog.Fatalf("c.AddFunc(%q) %+v", schedule, err)
		}
	}
	c.Start()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      NewRouter(handlers),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	// Start the HTTP server
	glog.Fatal(srv.ListenAndServe())
}

// NewRouter registers every handler on a new router
func NewRouter(handlers Handlers) *mux.Router {
	r := mux.NewRouter()
	for url, handler := range handlers.routes() {
		r.HandleFunc(url, handler)
	}
	return r
}
