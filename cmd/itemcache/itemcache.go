package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang/glog"

	c "github.com/microcosm-collective/itemcache/cache"
	conf "github.com/microcosm-collective/itemcache/config"
	"github.com/microcosm-collective/itemcache/controller"
	h "github.com/microcosm-collective/itemcache/helpers"
	"github.com/microcosm-collective/itemcache/models"
	"github.com/microcosm-collective/itemcache/server"
)

var configPath = flag.String("config", conf.ConfigFilePath, "path to the config file")

func main() {
	// Parse flags, also used to init glog
	flag.Parse()

	// 100 megabytes max before rolling the log files
	glog.MaxSize = 1024 * 1024 * 100

	// Catch closing signal and flush logs
	sigc := make(chan os.Signal, 1)
	signal.Notify(
		sigc,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	go func() {
		<-sigc
		glog.Flush()
		os.Exit(1)
	}()

	err := conf.ReadConfigFile(*configPath)
	if err != nil {
		glog.Fatal(err)
	}

	if glog.V(2) {
		glog.Infof(
			"Initialising DB connection on %s:%d for database %s",
			conf.ConfigStrings[conf.DatabaseHost],
			conf.ConfigInt64s[conf.DatabasePort],
			conf.ConfigStrings[conf.DatabaseName],
		)
	}
	db, err := h.InitDBConnection(h.DBConfig{
		Host:     conf.ConfigStrings[conf.DatabaseHost],
		Port:     conf.ConfigInt64s[conf.DatabasePort],
		Database: conf.ConfigStrings[conf.DatabaseName],
		Username: conf.ConfigStrings[conf.DatabaseUsername],
		Password: conf.ConfigStrings[conf.DatabasePassword],
	})
	if err != nil {
		glog.Fatal(err)
	}

	store := models.NewPostgresItemStore(db)
	err = store.EnsureItemSchema()
	if err != nil {
		glog.Fatal(err)
	}
	if conf.ConfigBool[conf.SeedData] {
		_, err = store.SeedItems()
		if err != nil {
			glog.Fatal(err)
		}
	}

	var (
		provider c.Provider
		pinger   c.Pinger
		sweeper  server.Sweeper
	)
	switch conf.ConfigStrings[conf.CacheBackend] {
	case conf.CacheBackendMemory:
		if glog.V(2) {
			glog.Info("Initialising in-process cache")
		}
		mp := c.NewMemoryProvider()
		provider, pinger, sweeper = mp, mp, mp

	default:
		if glog.V(2) {
			glog.Infof(
				"Initialising cache connection to %s:%d",
				conf.ConfigStrings[conf.MemcachedHost],
				conf.ConfigInt64s[conf.MemcachedPort],
			)
		}
		mc := c.NewMemcacheProvider(
			conf.ConfigStrings[conf.MemcachedHost],
			conf.ConfigInt64s[conf.MemcachedPort],
			conf.MemcachedTimeout(),
		)

		// The cache is a hard dependency
		err = mc.Ping()
		if err != nil {
			glog.Fatal(err)
		}
		provider, pinger = mc, mc
	}

	cacheConfig := c.Config{
		DefaultTTL: conf.CacheDefaultTTL(),
		TTLs: map[string]time.Duration{
			c.ItemCacheName: conf.ItemCacheTTL(),
		},
	}

	svc := models.NewItemService(
		models.NewItemCache(store, provider, cacheConfig),
	)

	deps := map[string]c.Pinger{
		"cache": pinger,
		"store": store,
	}

	handlers := server.Handlers{
		Items:  &controller.ItemsController{Service: svc},
		Item:   &controller.ItemController{Service: svc},
		Status: &controller.StatusController{Dependencies: deps},
	}

	if glog.V(2) {
		glog.Infof(
			"Starting server on port %d",
			conf.ConfigInt64s[conf.ListenPort],
		)
	}

	server.StartServer(
		conf.ConfigInt64s[conf.ListenPort],
		handlers,
		server.Jobs(deps, sweeper),
	)
}
