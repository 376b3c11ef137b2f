package main

import (
	"flag"
	_ "net/http/pprof"
	"os"

	log "github.com/sirupsen/logrus"

	backendConfig "github.com/skierstats/skier-stats/backends/config"
	"github.com/skierstats/skier-stats/config"
	"github.com/skierstats/skier-stats/endpoints/routing"
	"github.com/skierstats/skier-stats/lookup"
	"github.com/skierstats/skier-stats/metrics"
	"github.com/skierstats/skier-stats/server"
	storeConfig "github.com/skierstats/skier-stats/store/config"
)

func main() {
	configName := flag.String("config", "config", "name of the config file, without extension")
	flag.Parse()

	log.SetOutput(os.Stdout)
	cfg := config.NewConfig(*configName)
	setLogLevel(cfg.Log.Level)
	cfg.ValidateAndLog()

	routes, err := lookup.NewRouteTable(lookup.DefaultRoutes())
	if err != nil {
		log.Fatalf("Invalid route table: %v", err)
	}

	appMetrics := metrics.CreateMetrics(cfg)
	cache := backendConfig.NewBackend(cfg, appMetrics)
	liftRides := storeConfig.NewStore(cfg, appMetrics)
	service := lookup.NewService(cache, liftRides, routes, appMetrics, cfg.Lookup)

	publicHandler := routing.NewPublicHandler(cfg, service, routes, appMetrics)
	appMetrics.Export(cfg)
	server.Listen(cfg, publicHandler, appMetrics)
}

func setLogLevel(logLevel config.LogLevel) {
	level, err := log.ParseLevel(string(logLevel))
	if err != nil {
		log.Fatalf("Invalid logrus level: %v", err)
	}
	log.SetLevel(level)
}
