package metrics

import (
	"fmt"
	"time"

	"github.com/rcrowley/go-metrics"
	log "github.com/sirupsen/logrus"
	influxdb "github.com/vrischmann/go-metrics-influxdb"

	"github.com/skierstats/skier-stats/config"
)

var TenSeconds time.Duration = time.Second * 10

const MetricsInfluxDB = "InfluxDB"

type InfluxMetrics struct {
	Registry    metrics.Registry
	Requests    *InfluxMetricsEntry
	Lookups     *InfluxLookupMetrics
	Store       *InfluxStoreMetrics
	PutsBackend *InfluxPutBackendMetrics
	GetsBackend *InfluxMetricsEntry
	GetsErr     *InfluxBackendGetErrors
	Connections *InfluxConnectionMetrics
	MetricsName string
}

type InfluxMetricsEntry struct {
	Duration   metrics.Timer
	Errors     metrics.Meter
	BadRequest metrics.Meter
	Request    metrics.Meter
}

// InfluxLookupMetrics registers its meters lazily, one per query type and
// outcome, under lookups.<type>.<outcome>.
type InfluxLookupMetrics struct {
	registry           metrics.Registry
	CacheWriteFailures metrics.Meter
}

type InfluxStoreMetrics struct {
	Duration metrics.Timer
	Errors   metrics.Meter
	Records  metrics.Histogram
}

type InfluxPutBackendMetrics struct {
	Duration      metrics.Timer
	Request       metrics.Meter
	Errors        metrics.Meter
	RequestLength metrics.Histogram
	RequestTTL    metrics.Timer
}

type InfluxBackendGetErrors struct {
	KeyNotFoundErrors metrics.Meter
}

type InfluxConnectionMetrics struct {
	ActiveConnections      metrics.Counter
	ConnectionCloseErrors  metrics.Meter
	ConnectionAcceptErrors metrics.Meter
}

func NewInfluxMetricsEntry(name string, r metrics.Registry) *InfluxMetricsEntry {
	return &InfluxMetricsEntry{
		Duration:   metrics.GetOrRegisterTimer(fmt.Sprintf("%s.request_duration", name), r),
		Errors:     metrics.GetOrRegisterMeter(fmt.Sprintf("%s.error_count", name), r),
		BadRequest: metrics.GetOrRegisterMeter(fmt.Sprintf("%s.bad_request_count", name), r),
		Request:    metrics.GetOrRegisterMeter(fmt.Sprintf("%s.request_count", name), r),
	}
}

func NewInfluxPutBackendMetrics(name string, r metrics.Registry) *InfluxPutBackendMetrics {
	return &InfluxPutBackendMetrics{
		Duration:      metrics.GetOrRegisterTimer(fmt.Sprintf("%s.request_duration", name), r),
		Request:       metrics.GetOrRegisterMeter(fmt.Sprintf("%s.request_count", name), r),
		Errors:        metrics.GetOrRegisterMeter(fmt.Sprintf("%s.error_count", name), r),
		RequestLength: metrics.GetOrRegisterHistogram(name+".request_size_bytes", r, metrics.NewExpDecaySample(1028, 0.015)),
		RequestTTL:    metrics.GetOrRegisterTimer(fmt.Sprintf("%s.request_ttl_seconds", name), r),
	}
}

func NewInfluxStoreMetrics(name string, r metrics.Registry) *InfluxStoreMetrics {
	return &InfluxStoreMetrics{
		Duration: metrics.GetOrRegisterTimer(fmt.Sprintf("%s.query_duration", name), r),
		Errors:   metrics.GetOrRegisterMeter(fmt.Sprintf("%s.error_count", name), r),
		Records:  metrics.GetOrRegisterHistogram(name+".records_per_query", r, metrics.NewExpDecaySample(1028, 0.015)),
	}
}

func NewInfluxConnectionMetrics(r metrics.Registry) *InfluxConnectionMetrics {
	return &InfluxConnectionMetrics{
		ActiveConnections:      metrics.GetOrRegisterCounter("connections.active_incoming", r),
		ConnectionAcceptErrors: metrics.GetOrRegisterMeter("connections.accept_errors", r),
		ConnectionCloseErrors:  metrics.GetOrRegisterMeter("connections.close_errors", r),
	}
}

func CreateInfluxMetrics() *InfluxMetrics {
	flushTime := TenSeconds
	r := metrics.NewPrefixedRegistry("skierstats.")
	m := &InfluxMetrics{
		Registry: r,
		Requests: NewInfluxMetricsEntry("requests.current_url", r),
		Lookups: &InfluxLookupMetrics{
			registry:           r,
			CacheWriteFailures: metrics.GetOrRegisterMeter("lookups.cache_write_failures", r),
		},
		Store:       NewInfluxStoreMetrics("store", r),
		PutsBackend: NewInfluxPutBackendMetrics("puts.backend", r),
		GetsBackend: NewInfluxMetricsEntry("gets.backend", r),
		GetsErr: &InfluxBackendGetErrors{
			KeyNotFoundErrors: metrics.GetOrRegisterMeter("gets.backend_error.key_not_found", r),
		},
		Connections: NewInfluxConnectionMetrics(r),
		MetricsName: MetricsInfluxDB,
	}

	metrics.RegisterDebugGCStats(m.Registry)
	metrics.RegisterRuntimeMemStats(m.Registry)

	go metrics.CaptureRuntimeMemStats(m.Registry, flushTime)
	go metrics.CaptureDebugGCStats(m.Registry, flushTime)

	return m
}

// Export begins sending metrics to the configured database.
// This method blocks indefinitely, so it should probably be run in a goroutine.
func (m InfluxMetrics) Export(cfg config.Metrics) {
	log.Infof("Metrics will be exported to Influx with host=%s, db=%s, username=%s", cfg.Influx.Host, cfg.Influx.Database, cfg.Influx.Username)
	influxdb.InfluxDB(
		m.Registry,
		TenSeconds,
		cfg.Influx.Host,
		cfg.Influx.Database,
		cfg.Influx.Username,
		cfg.Influx.Password,
	)
}

func (m *InfluxMetrics) GetEngineRegistry() interface{} {
	return &m.Registry
}

func (m *InfluxMetrics) GetMetricsEngineName() string {
	return m.MetricsName
}

// Meter returns the meter counting lookups of queryType that ended with outcome.
func (l *InfluxLookupMetrics) Meter(queryType, outcome string) metrics.Meter {
	return metrics.GetOrRegisterMeter(fmt.Sprintf("lookups.%s.%s", queryType, outcome), l.registry)
}

// Timer returns the timer of successful lookups of queryType.
func (l *InfluxLookupMetrics) Timer(queryType string) metrics.Timer {
	return metrics.GetOrRegisterTimer(fmt.Sprintf("lookups.%s.duration", queryType), l.registry)
}

func (m *InfluxMetrics) RecordRequestTotal() {
	m.Requests.Request.Mark(1)
}

func (m *InfluxMetrics) RecordRequestDuration(duration time.Duration) {
	m.Requests.Duration.Update(duration)
}

func (m *InfluxMetrics) RecordRequestBadRequest() {
	m.Requests.BadRequest.Mark(1)
}

func (m *InfluxMetrics) RecordRequestError() {
	m.Requests.Errors.Mark(1)
}

func (m *InfluxMetrics) RecordLookup(queryType string, outcome string) {
	m.Lookups.Meter(queryType, outcome).Mark(1)
}

func (m *InfluxMetrics) RecordLookupDuration(queryType string, duration time.Duration) {
	m.Lookups.Timer(queryType).Update(duration)
}

func (m *InfluxMetrics) RecordCacheWriteFailed() {
	m.Lookups.CacheWriteFailures.Mark(1)
}

func (m *InfluxMetrics) RecordStoreQueryDuration(duration time.Duration) {
	m.Store.Duration.Update(duration)
}

func (m *InfluxMetrics) RecordStoreQueryError() {
	m.Store.Errors.Mark(1)
}

func (m *InfluxMetrics) RecordStoreRecords(count int) {
	m.Store.Records.Update(int64(count))
}

func (m *InfluxMetrics) RecordGetBackendTotal() {
	m.GetsBackend.Request.Mark(1)
}

func (m *InfluxMetrics) RecordGetBackendDuration(duration time.Duration) {
	m.GetsBackend.Duration.Update(duration)
}

func (m *InfluxMetrics) RecordGetBackendError() {
	m.GetsBackend.Errors.Mark(1)
}

func (m *InfluxMetrics) RecordKeyNotFoundError() {
	m.GetsErr.KeyNotFoundErrors.Mark(1)
}

func (m *InfluxMetrics) RecordPutBackendTotal() {
	m.PutsBackend.Request.Mark(1)
}

func (m *InfluxMetrics) RecordPutBackendDuration(duration time.Duration) {
	m.PutsBackend.Duration.Update(duration)
}

func (m *InfluxMetrics) RecordPutBackendError() {
	m.PutsBackend.Errors.Mark(1)
}

func (m *InfluxMetrics) RecordPutBackendSize(sizeInBytes float64) {
	m.PutsBackend.RequestLength.Update(int64(sizeInBytes))
}

func (m *InfluxMetrics) RecordPutBackendTTLSeconds(duration time.Duration) {
	m.PutsBackend.RequestTTL.Update(duration)
}

func (m *InfluxMetrics) RecordConnectionOpen() {
	m.Connections.ActiveConnections.Inc(1)
}

func (m *InfluxMetrics) RecordConnectionClosed() {
	m.Connections.ActiveConnections.Dec(1)
}

func (m *InfluxMetrics) RecordCloseConnectionErrors() {
	m.Connections.ConnectionCloseErrors.Mark(1)
}

func (m *InfluxMetrics) RecordAcceptConnectionErrors() {
	m.Connections.ConnectionAcceptErrors.Mark(1)
}
