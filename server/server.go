package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/skierstats/skier-stats/config"
	"github.com/skierstats/skier-stats/metrics"
)

// Listen serves requests and blocks until OS signals shut down the process.
// The admin server exposes http.DefaultServeMux, where pprof registers itself.
func Listen(cfg config.Configuration, publicHandler http.Handler, m *metrics.Metrics) {
	stopSignals := make(chan os.Signal, 1)
	signal.Notify(stopSignals, syscall.SIGTERM, syscall.SIGINT)

	servers := []namedServer{
		{"Main", newMainServer(cfg, publicHandler), m},
		{"Admin", newAdminServer(cfg), nil},
	}
	if cfg.Metrics.Prometheus.Enabled {
		if registry := m.GetPrometheusRegistry(); registry != nil {
			servers = append(servers, namedServer{"Prometheus", newPrometheusServer(cfg, registry), nil})
		} else {
			log.Errorf("Prometheus metrics configured, but a Prometheus metrics engine was not found. Cannot set up a Prometheus listener.")
		}
	}

	// Each server listens on its own channel, because a shared channel would
	// only alert whichever one happens to read it first.
	done := make(chan struct{})
	stoppers := make([]chan<- os.Signal, 0, len(servers))
	for _, s := range servers {
		listener, err := newListener(s.server.Addr, s.metrics)
		if err != nil {
			log.Errorf("Error listening for TCP connections on %s: %v", s.server.Addr, err)
			return
		}

		stop := make(chan os.Signal, 1)
		stoppers = append(stoppers, stop)
		go shutdownAfterSignals(s.server, stop, done)
		go runServer(s.server, s.name, listener)
	}

	wait(stopSignals, done, stoppers...)
}

type namedServer struct {
	name    string
	server  *http.Server
	metrics *metrics.Metrics
}

func newAdminServer(cfg config.Configuration) *http.Server {
	return &http.Server{
		Addr: ":" + strconv.Itoa(cfg.AdminPort),
	}
}

func newMainServer(cfg config.Configuration, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
}

func runServer(server *http.Server, name string, listener net.Listener) {
	log.Infof("%s server starting on: %s", name, server.Addr)
	err := server.Serve(listener)
	if err != http.ErrServerClosed {
		log.Errorf("%s server quit with error: %v", name, err)
		return
	}
	log.Infof("%s server stopped", name)
}

func newListener(address string, m *metrics.Metrics) (net.Listener, error) {
	ln, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("Error listening for TCP connections on %s: %v", address, err)
	}

	if casted, ok := ln.(*net.TCPListener); ok {
		ln = &tcpKeepAliveListener{casted}
	} else {
		log.Warnf("net.Listen(\"tcp\", %q) didn't return a TCPListener", address)
	}

	if m != nil {
		ln = &monitorableListener{ln, m}
	}
	return ln, nil
}

// wait blocks until a signal arrives on inbound, forwards it to every
// outbound channel and returns once each server reported on done.
func wait(inbound <-chan os.Signal, done <-chan struct{}, outbound ...chan<- os.Signal) {
	sig := <-inbound

	for i := 0; i < len(outbound); i++ {
		outbound[i] <- sig
	}

	for i := 0; i < len(outbound); i++ {
		<-done
	}
}

func shutdownAfterSignals(server *http.Server, stopper <-chan os.Signal, done chan<- struct{}) {
	sig := <-stopper

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Infof("Stopping %s because of signal: %s", server.Addr, sig.String())
	if err := server.Shutdown(ctx); err != nil {
		log.Errorf("Failed to shutdown %s: %v", server.Addr, err)
	}
	done <- struct{}{}
}
