package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	"github.com/skierstats/skier-stats/config"
	influxMetrics "github.com/skierstats/skier-stats/metrics/influx"
	prometheusMetrics "github.com/skierstats/skier-stats/metrics/prometheus"
)

// Lookup outcomes, one per answered or failed lookup.
const (
	LookupCacheHit         = prometheusMetrics.CacheHitVal
	LookupCacheMiss        = prometheusMetrics.CacheMissVal
	LookupNotFound         = prometheusMetrics.NotFoundVal
	LookupInvalidInput     = prometheusMetrics.InvalidInputVal
	LookupCacheUnavailable = prometheusMetrics.CacheUnavailableVal
	LookupStoreUnavailable = prometheusMetrics.StoreUnavailableVal
	LookupCanceled         = prometheusMetrics.CanceledVal
)

// CacheMetrics is implemented by every metrics engine the service can report to.
type CacheMetrics interface {
	Export(cfg config.Metrics)
	GetEngineRegistry() interface{}
	GetMetricsEngineName() string

	RecordRequestTotal()
	RecordRequestDuration(duration time.Duration)
	RecordRequestBadRequest()
	RecordRequestError()

	RecordLookup(queryType string, outcome string)
	RecordLookupDuration(queryType string, duration time.Duration)
	RecordCacheWriteFailed()
	RecordStoreQueryDuration(duration time.Duration)
	RecordStoreQueryError()
	RecordStoreRecords(count int)

	RecordGetBackendTotal()
	RecordGetBackendDuration(duration time.Duration)
	RecordGetBackendError()
	RecordKeyNotFoundError()
	RecordPutBackendTotal()
	RecordPutBackendDuration(duration time.Duration)
	RecordPutBackendError()
	RecordPutBackendSize(sizeInBytes float64)
	RecordPutBackendTTLSeconds(duration time.Duration)

	RecordConnectionOpen()
	RecordConnectionClosed()
	RecordCloseConnectionErrors()
	RecordAcceptConnectionErrors()
}

// Metrics fans every recorded event out to the enabled engines.
type Metrics struct {
	MetricEngines []CacheMetrics
}

// CreateMetrics builds the engines enabled in cfg. With none enabled the
// returned Metrics records nothing.
func CreateMetrics(cfg config.Configuration) *Metrics {
	engineList := make([]CacheMetrics, 0, 2)

	if cfg.Metrics.Influx.Enabled {
		engineList = append(engineList, influxMetrics.CreateInfluxMetrics())
	}
	if cfg.Metrics.Prometheus.Enabled {
		engineList = append(engineList, prometheusMetrics.CreatePrometheusMetrics(cfg.Metrics.Prometheus))
	}

	return &Metrics{MetricEngines: engineList}
}

// Export starts every engine's exporter in its own goroutine.
func (m *Metrics) Export(cfg config.Configuration) {
	for _, engine := range m.MetricEngines {
		log.Infof("Exporting metrics with engine %s", engine.GetMetricsEngineName())
		go engine.Export(cfg.Metrics)
	}
}

// GetPrometheusRegistry returns the registry of the prometheus engine, or nil
// when prometheus metrics are disabled.
func (m *Metrics) GetPrometheusRegistry() *prometheus.Registry {
	for _, engine := range m.MetricEngines {
		if engine.GetMetricsEngineName() != prometheusMetrics.MetricsPrometheus {
			continue
		}
		if registry, ok := engine.GetEngineRegistry().(*prometheus.Registry); ok {
			return registry
		}
	}
	return nil
}

func (m *Metrics) RecordRequestTotal() {
	for _, me := range m.MetricEngines {
		me.RecordRequestTotal()
	}
}

func (m *Metrics) RecordRequestDuration(duration time.Duration) {
	for _, me := range m.MetricEngines {
		me.RecordRequestDuration(duration)
	}
}

func (m *Metrics) RecordRequestBadRequest() {
	for _, me := range m.MetricEngines {
		me.RecordRequestBadRequest()
	}
}

func (m *Metrics) RecordRequestError() {
	for _, me := range m.MetricEngines {
		me.RecordRequestError()
	}
}

func (m *Metrics) RecordLookup(queryType string, outcome string) {
	for _, me := range m.MetricEngines {
		me.RecordLookup(queryType, outcome)
	}
}

func (m *Metrics) RecordLookupDuration(queryType string, duration time.Duration) {
	for _, me := range m.MetricEngines {
		me.RecordLookupDuration(queryType, duration)
	}
}

func (m *Metrics) RecordCacheWriteFailed() {
	for _, me := range m.MetricEngines {
		me.RecordCacheWriteFailed()
	}
}

func (m *Metrics) RecordStoreQueryDuration(duration time.Duration) {
	for _, me := range m.MetricEngines {
		me.RecordStoreQueryDuration(duration)
	}
}

func (m *Metrics) RecordStoreQueryError() {
	for _, me := range m.MetricEngines {
		me.RecordStoreQueryError()
	}
}

func (m *Metrics) RecordStoreRecords(count int) {
	for _, me := range m.MetricEngines {
		me.RecordStoreRecords(count)
	}
}

func (m *Metrics) RecordGetBackendTotal() {
	for _, me := range m.MetricEngines {
		me.RecordGetBackendTotal()
	}
}

func (m *Metrics) RecordGetBackendDuration(duration time.Duration) {
	for _, me := range m.MetricEngines {
		me.RecordGetBackendDuration(duration)
	}
}

func (m *Metrics) RecordGetBackendError() {
	for _, me := range m.MetricEngines {
		me.RecordGetBackendError()
	}
}

func (m *Metrics) RecordKeyNotFoundError() {
	for _, me := range m.MetricEngines {
		me.RecordKeyNotFoundError()
	}
}

func (m *Metrics) RecordPutBackendTotal() {
	for _, me := range m.MetricEngines {
		me.RecordPutBackendTotal()
	}
}

func (m *Metrics) RecordPutBackendDuration(duration time.Duration) {
	for _, me := range m.MetricEngines {
		me.RecordPutBackendDuration(duration)
	}
}

func (m *Metrics) RecordPutBackendError() {
	for _, me := range m.MetricEngines {
		me.RecordPutBackendError()
	}
}

func (m *Metrics) RecordPutBackendSize(sizeInBytes float64) {
	for _, me := range m.MetricEngines {
		me.RecordPutBackendSize(sizeInBytes)
	}
}

func (m *Metrics) RecordPutBackendTTLSeconds(duration time.Duration) {
	for _, me := range m.MetricEngines {
		me.RecordPutBackendTTLSeconds(duration)
	}
}

func (m *Metrics) RecordConnectionOpen() {
	for _, me := range m.MetricEngines {
		me.RecordConnectionOpen()
	}
}

func (m *Metrics) RecordConnectionClosed() {
	for _, me := range m.MetricEngines {
		me.RecordConnectionClosed()
	}
}

func (m *Metrics) RecordCloseConnectionErrors() {
	for _, me := range m.MetricEngines {
		me.RecordCloseConnectionErrors()
	}
}

func (m *Metrics) RecordAcceptConnectionErrors() {
	for _, me := range m.MetricEngines {
		me.RecordAcceptConnectionErrors()
	}
}
