package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/skierstats/skier-stats/config"
)

const (
	StatusKey    string = "status"
	TypeKey      string = "type"
	QueryTypeKey string = "query_type"
	OutcomeKey   string = "outcome"
	ConnErrorKey string = "connection_error"

	ConnOpenedKey string = "connection_opened"
	ConnClosedKey string = "connection_closed"

	TotalsVal      string = "total"
	ErrorVal       string = "error"
	BadRequestVal  string = "bad_request"
	KeyNotFoundVal string = "key_not_found"
	CloseVal       string = "close"
	AcceptVal      string = "accept"

	CacheHitVal         string = "cache_hit"
	CacheMissVal        string = "cache_miss"
	NotFoundVal         string = "not_found"
	InvalidInputVal     string = "invalid_input"
	CacheUnavailableVal string = "cache_unavailable"
	StoreUnavailableVal string = "store_unavailable"
	CanceledVal         string = "canceled"

	MetricsPrometheus = "Prometheus"
)

// QueryTypeValues lists the query types whose lookup series are preloaded.
var QueryTypeValues = []string{"unique_skiers", "skier_day_vertical", "total_vertical"}

type PrometheusMetrics struct {
	Registry    *prometheus.Registry
	Requests    *PrometheusRequestStatusMetric
	Lookups     *PrometheusLookupMetrics
	Store       *PrometheusStoreMetrics
	PutsBackend *PrometheusRequestStatusMetricByFormat
	GetsBackend *PrometheusRequestStatusMetric
	GetsErr     *PrometheusBackendGetErrors
	Connections *PrometheusConnectionMetrics
	MetricsName string
}

type PrometheusRequestStatusMetric struct {
	Duration      prometheus.Histogram
	RequestStatus *prometheus.CounterVec
}

type PrometheusLookupMetrics struct {
	Duration           *prometheus.HistogramVec
	Outcomes           *prometheus.CounterVec
	CacheWriteFailures prometheus.Counter
}

type PrometheusStoreMetrics struct {
	Duration prometheus.Histogram
	Errors   prometheus.Counter
	Records  prometheus.Histogram
}

type PrometheusRequestStatusMetricByFormat struct {
	Duration           prometheus.Histogram
	PutBackendRequests *prometheus.CounterVec
	RequestLength      prometheus.Histogram
	RequestTTL         prometheus.Histogram
}

type PrometheusBackendGetErrors struct {
	ErrorsByType *prometheus.CounterVec
}

type PrometheusConnectionMetrics struct {
	ConnectionsErrors *prometheus.CounterVec
	ConnectionsClosed prometheus.Counter
	ConnectionsOpened prometheus.Counter
}

func CreatePrometheusMetrics(cfg config.PrometheusMetrics) *PrometheusMetrics {
	timeBuckets := []float64{0.001, 0.002, 0.005, 0.01, 0.025, 0.05, 0.1, 0.2, 0.3, 0.4, 0.5, 1}
	requestSizeBuckets := []float64{16, 32, 64, 128, 256, 512, 1024, 2048}
	recordBuckets := []float64{0, 1, 5, 10, 50, 100, 500, 1000, 5000}
	ttlBuckets := []float64{60, 300, 900, 1800, 3600, 7200, 21600, 86400}
	registry := prometheus.NewRegistry()
	promMetrics := &PrometheusMetrics{
		Registry: registry,
		Requests: &PrometheusRequestStatusMetric{
			Duration: newHistogram(cfg, registry,
				"requests_duration",
				"Duration in seconds the service takes to answer a statistics request.",
				timeBuckets,
			),
			RequestStatus: newCounterVecWithLabels(cfg, registry,
				"requests",
				"Count of total statistics requests labeled by status.",
				[]string{StatusKey},
			),
		},
		Lookups: &PrometheusLookupMetrics{
			Duration: newHistogramVec(cfg, registry,
				"lookups_duration",
				"Duration in seconds of successful lookups labeled by query type.",
				[]string{QueryTypeKey},
				timeBuckets,
			),
			Outcomes: newCounterVecWithLabels(cfg, registry,
				"lookups",
				"Count of lookups labeled by query type and outcome.",
				[]string{QueryTypeKey, OutcomeKey},
			),
			CacheWriteFailures: newSingleCounter(cfg, registry,
				"lookups_cache_write_failures",
				"Count of cache fills that could not be written.",
			),
		},
		Store: &PrometheusStoreMetrics{
			Duration: newHistogram(cfg, registry,
				"store_query_duration",
				"Duration in seconds of lift ride store queries.",
				timeBuckets,
			),
			Errors: newSingleCounter(cfg, registry,
				"store_query_errors",
				"Count of lift ride store queries that failed.",
			),
			Records: newHistogram(cfg, registry,
				"store_query_records",
				"Number of lift ride records returned by a store query.",
				recordBuckets,
			),
		},
		PutsBackend: &PrometheusRequestStatusMetricByFormat{
			Duration: newHistogram(cfg, registry,
				"puts_backend_duration",
				"Duration in seconds the service takes to write a cache entry.",
				timeBuckets,
			),
			PutBackendRequests: newCounterVecWithLabels(cfg, registry,
				"puts_backend",
				"Count of cache writes labeled by status.",
				[]string{StatusKey},
			),
			RequestLength: newHistogram(cfg, registry,
				"puts_backend_request_size_bytes",
				"Size in bytes of a cache entry.",
				requestSizeBuckets,
			),
			RequestTTL: newHistogram(cfg, registry,
				"puts_backend_request_ttl_seconds",
				"TTL in seconds of a cache entry.",
				ttlBuckets,
			),
		},
		GetsBackend: &PrometheusRequestStatusMetric{
			Duration: newHistogram(cfg, registry,
				"gets_backend_duration",
				"Duration in seconds the service takes to read a cache entry.",
				timeBuckets,
			),
			RequestStatus: newCounterVecWithLabels(cfg, registry,
				"gets_backend",
				"Count of cache reads labeled by status.",
				[]string{StatusKey},
			),
		},
		GetsErr: &PrometheusBackendGetErrors{
			ErrorsByType: newCounterVecWithLabels(cfg, registry,
				"gets_backend_error",
				"Count of cache read errors labeled by type.",
				[]string{TypeKey},
			),
		},
		Connections: &PrometheusConnectionMetrics{
			ConnectionsOpened: newSingleCounter(cfg, registry, ConnOpenedKey, "Count the number of open connections"),
			ConnectionsClosed: newSingleCounter(cfg, registry, ConnClosedKey, "Count the number of closed connections"),
			ConnectionsErrors: newCounterVecWithLabels(cfg, registry,
				ConnErrorKey,
				"Count the number of connection accept errors or connection close errors",
				[]string{ConnErrorKey},
			),
		},
		MetricsName: MetricsPrometheus,
	}

	collectorNamespace := fmt.Sprintf("%s_%s", cfg.Namespace, cfg.Subsystem)
	promMetrics.Registry.MustRegister(
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{Namespace: collectorNamespace}),
	)

	preloadLabelValues(promMetrics)
	return promMetrics
}

func newCounterVecWithLabels(cfg config.PrometheusMetrics, registry *prometheus.Registry, name string, help string, labels []string) *prometheus.CounterVec {
	opts := prometheus.CounterOpts{
		Namespace: cfg.Namespace,
		Subsystem: cfg.Subsystem,
		Name:      name,
		Help:      help,
	}
	counterVec := prometheus.NewCounterVec(opts, labels)
	registry.MustRegister(counterVec)
	return counterVec
}

func newSingleCounter(cfg config.PrometheusMetrics, registry *prometheus.Registry, name string, help string) prometheus.Counter {
	opts := prometheus.CounterOpts{
		Namespace: cfg.Namespace,
		Subsystem: cfg.Subsystem,
		Name:      name,
		Help:      help,
	}
	counter := prometheus.NewCounter(opts)
	registry.MustRegister(counter)
	return counter
}

func newHistogram(cfg config.PrometheusMetrics, registry *prometheus.Registry, name, help string, buckets []float64) prometheus.Histogram {
	opts := prometheus.HistogramOpts{
		Namespace: cfg.Namespace,
		Subsystem: cfg.Subsystem,
		Name:      name,
		Help:      help,
		Buckets:   buckets,
	}
	histogram := prometheus.NewHistogram(opts)
	registry.MustRegister(histogram)
	return histogram
}

func newHistogramVec(cfg config.PrometheusMetrics, registry *prometheus.Registry, name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	opts := prometheus.HistogramOpts{
		Namespace: cfg.Namespace,
		Subsystem: cfg.Subsystem,
		Name:      name,
		Help:      help,
		Buckets:   buckets,
	}
	histogram := prometheus.NewHistogramVec(opts, labels)
	registry.MustRegister(histogram)
	return histogram
}

// Export is a no-op: prometheus metrics are scraped from the prometheus listener.
func (m PrometheusMetrics) Export(cfg config.Metrics) {
}

func (m *PrometheusMetrics) GetMetricsEngineName() string {
	return m.MetricsName
}

func (m *PrometheusMetrics) GetEngineRegistry() interface{} {
	return m.Registry
}

func (m *PrometheusMetrics) RecordRequestTotal() {
	m.Requests.RequestStatus.With(prometheus.Labels{StatusKey: TotalsVal}).Inc()
}

func (m *PrometheusMetrics) RecordRequestDuration(duration time.Duration) {
	m.Requests.Duration.Observe(duration.Seconds())
}

func (m *PrometheusMetrics) RecordRequestBadRequest() {
	m.Requests.RequestStatus.With(prometheus.Labels{StatusKey: BadRequestVal}).Inc()
}

func (m *PrometheusMetrics) RecordRequestError() {
	m.Requests.RequestStatus.With(prometheus.Labels{StatusKey: ErrorVal}).Inc()
}

func (m *PrometheusMetrics) RecordLookup(queryType string, outcome string) {
	m.Lookups.Outcomes.With(prometheus.Labels{QueryTypeKey: queryType, OutcomeKey: outcome}).Inc()
}

func (m *PrometheusMetrics) RecordLookupDuration(queryType string, duration time.Duration) {
	m.Lookups.Duration.With(prometheus.Labels{QueryTypeKey: queryType}).Observe(duration.Seconds())
}

func (m *PrometheusMetrics) RecordCacheWriteFailed() {
	m.Lookups.CacheWriteFailures.Inc()
}

func (m *PrometheusMetrics) RecordStoreQueryDuration(duration time.Duration) {
	m.Store.Duration.Observe(duration.Seconds())
}

func (m *PrometheusMetrics) RecordStoreQueryError() {
	m.Store.Errors.Inc()
}

func (m *PrometheusMetrics) RecordStoreRecords(count int) {
	m.Store.Records.Observe(float64(count))
}

func (m *PrometheusMetrics) RecordGetBackendTotal() {
	m.GetsBackend.RequestStatus.With(prometheus.Labels{StatusKey: TotalsVal}).Inc()
}

func (m *PrometheusMetrics) RecordGetBackendDuration(duration time.Duration) {
	m.GetsBackend.Duration.Observe(duration.Seconds())
}

func (m *PrometheusMetrics) RecordGetBackendError() {
	m.GetsBackend.RequestStatus.With(prometheus.Labels{StatusKey: ErrorVal}).Inc()
}

func (m *PrometheusMetrics) RecordKeyNotFoundError() {
	m.GetsErr.ErrorsByType.With(prometheus.Labels{TypeKey: KeyNotFoundVal}).Inc()
}

func (m *PrometheusMetrics) RecordPutBackendTotal() {
	m.PutsBackend.PutBackendRequests.With(prometheus.Labels{StatusKey: TotalsVal}).Inc()
}

func (m *PrometheusMetrics) RecordPutBackendDuration(duration time.Duration) {
	m.PutsBackend.Duration.Observe(duration.Seconds())
}

func (m *PrometheusMetrics) RecordPutBackendError() {
	m.PutsBackend.PutBackendRequests.With(prometheus.Labels{StatusKey: ErrorVal}).Inc()
}

func (m *PrometheusMetrics) RecordPutBackendSize(sizeInBytes float64) {
	m.PutsBackend.RequestLength.Observe(sizeInBytes)
}

func (m *PrometheusMetrics) RecordPutBackendTTLSeconds(duration time.Duration) {
	m.PutsBackend.RequestTTL.Observe(duration.Seconds())
}

func (m *PrometheusMetrics) RecordConnectionOpen() {
	m.Connections.ConnectionsOpened.Inc()
}

func (m *PrometheusMetrics) RecordConnectionClosed() {
	m.Connections.ConnectionsClosed.Inc()
}

func (m *PrometheusMetrics) RecordCloseConnectionErrors() {
	m.Connections.ConnectionsErrors.With(prometheus.Labels{ConnErrorKey: CloseVal}).Inc()
}

func (m *PrometheusMetrics) RecordAcceptConnectionErrors() {
	m.Connections.ConnectionsErrors.With(prometheus.Labels{ConnErrorKey: AcceptVal}).Inc()
}
