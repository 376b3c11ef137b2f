package metricstest

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/skierstats/skier-stats/config"
)

// MetricsRecorded holds how many times each recorder was called. Duration,
// size and TTL recorders count calls too, so a recorded duration shows up
// as 1.00 no matter how long the call took.
type MetricsRecorded struct {
	RecordRequestTotal      int64
	RecordRequestDuration   float64
	RecordRequestBadRequest int64
	RecordRequestError      int64

	// Lookups is keyed by "<query type>:<outcome>".
	Lookups                  map[string]int64
	RecordLookupDuration     float64
	RecordCacheWriteFailed   int64
	RecordStoreQueryDuration float64
	RecordStoreQueryError    int64
	RecordStoreRecords       int64

	RecordGetBackendTotal      int64
	RecordGetBackendDuration   float64
	RecordGetBackendError      int64
	RecordKeyNotFoundError     int64
	RecordPutBackendTotal      int64
	RecordPutBackendDuration   float64
	RecordPutBackendError      int64
	RecordPutBackendSize       float64
	RecordPutBackendTTLSeconds float64

	RecordConnectionOpen         int64
	RecordConnectionClosed       int64
	RecordCloseConnectionErrors  int64
	RecordAcceptConnectionErrors int64
}

// MockMetrics implements metrics.CacheMetrics by counting calls.
type MockMetrics struct {
	mu       sync.Mutex
	recorded MetricsRecorded
}

func CreateMockMetrics() *MockMetrics {
	return &MockMetrics{}
}

// Recorded returns a copy of everything recorded so far.
func (m *MockMetrics) Recorded() MetricsRecorded {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.recorded
	if m.recorded.Lookups != nil {
		snapshot.Lookups = make(map[string]int64, len(m.recorded.Lookups))
		for k, v := range m.recorded.Lookups {
			snapshot.Lookups[k] = v
		}
	}
	return snapshot
}

// AssertMetrics fails t unless actual recorded exactly the expected calls.
func AssertMetrics(t *testing.T, expected MetricsRecorded, actual *MockMetrics, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Equal(t, expected, actual.Recorded(), msgAndArgs...)
}

func (m *MockMetrics) record(f func(r *MetricsRecorded)) {
	m.mu.Lock()
	f(&m.recorded)
	m.mu.Unlock()
}

func (m *MockMetrics) Export(cfg config.Metrics) {
}

func (m *MockMetrics) GetEngineRegistry() interface{} {
	return nil
}

func (m *MockMetrics) GetMetricsEngineName() string {
	return "Mock"
}

func (m *MockMetrics) RecordRequestTotal() {
	m.record(func(r *MetricsRecorded) { r.RecordRequestTotal++ })
}

func (m *MockMetrics) RecordRequestDuration(duration time.Duration) {
	m.record(func(r *MetricsRecorded) { r.RecordRequestDuration++ })
}

func (m *MockMetrics) RecordRequestBadRequest() {
	m.record(func(r *MetricsRecorded) { r.RecordRequestBadRequest++ })
}

func (m *MockMetrics) RecordRequestError() {
	m.record(func(r *MetricsRecorded) { r.RecordRequestError++ })
}

func (m *MockMetrics) RecordLookup(queryType string, outcome string) {
	m.record(func(r *MetricsRecorded) {
		if r.Lookups == nil {
			r.Lookups = make(map[string]int64)
		}
		r.Lookups[queryType+":"+outcome]++
	})
}

func (m *MockMetrics) RecordLookupDuration(queryType string, duration time.Duration) {
	m.record(func(r *MetricsRecorded) { r.RecordLookupDuration++ })
}

func (m *MockMetrics) RecordCacheWriteFailed() {
	m.record(func(r *MetricsRecorded) { r.RecordCacheWriteFailed++ })
}

func (m *MockMetrics) RecordStoreQueryDuration(duration time.Duration) {
	m.record(func(r *MetricsRecorded) { r.RecordStoreQueryDuration++ })
}

func (m *MockMetrics) RecordStoreQueryError() {
	m.record(func(r *MetricsRecorded) { r.RecordStoreQueryError++ })
}

func (m *MockMetrics) RecordStoreRecords(count int) {
	m.record(func(r *MetricsRecorded) { r.RecordStoreRecords++ })
}

func (m *MockMetrics) RecordGetBackendTotal() {
	m.record(func(r *MetricsRecorded) { r.RecordGetBackendTotal++ })
}

func (m *MockMetrics) RecordGetBackendDuration(duration time.Duration) {
	m.record(func(r *MetricsRecorded) { r.RecordGetBackendDuration++ })
}

func (m *MockMetrics) RecordGetBackendError() {
	m.record(func(r *MetricsRecorded) { r.RecordGetBackendError++ })
}

func (m *MockMetrics) RecordKeyNotFoundError() {
	m.record(func(r *MetricsRecorded) { r.RecordKeyNotFoundError++ })
}

func (m *MockMetrics) RecordPutBackendTotal() {
	m.record(func(r *MetricsRecorded) { r.RecordPutBackendTotal++ })
}

func (m *MockMetrics) RecordPutBackendDuration(duration time.Duration) {
	m.record(func(r *MetricsRecorded) { r.RecordPutBackendDuration++ })
}

func (m *MockMetrics) RecordPutBackendError() {
	m.record(func(r *MetricsRecorded) { r.RecordPutBackendError++ })
}

func (m *MockMetrics) RecordPutBackendSize(sizeInBytes float64) {
	m.record(func(r *MetricsRecorded) { r.RecordPutBackendSize++ })
}

func (m *MockMetrics) RecordPutBackendTTLSeconds(duration time.Duration) {
	m.record(func(r *MetricsRecorded) { r.RecordPutBackendTTLSeconds++ })
}

func (m *MockMetrics) RecordConnectionOpen() {
	m.record(func(r *MetricsRecorded) { r.RecordConnectionOpen++ })
}

func (m *MockMetrics) RecordConnectionClosed() {
	m.record(func(r *MetricsRecorded) { r.RecordConnectionClosed++ })
}

func (m *MockMetrics) RecordCloseConnectionErrors() {
	m.record(func(r *MetricsRecorded) { r.RecordCloseConnectionErrors++ })
}

func (m *MockMetrics) RecordAcceptConnectionErrors() {
	m.record(func(r *MetricsRecorded) { r.RecordAcceptConnectionErrors++ })
}
