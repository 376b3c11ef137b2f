package decorators

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/skierstats/skier-stats/backends"
	"github.com/skierstats/skier-stats/metrics"
	"github.com/skierstats/skier-stats/metrics/metricstest"
	"github.com/skierstats/skier-stats/utils"
)

func newMockedMetrics() (*metricstest.MockMetrics, *metrics.Metrics) {
	mockMetrics := metricstest.CreateMockMetrics()
	return mockMetrics, &metrics.Metrics{
		MetricEngines: []metrics.CacheMetrics{mockMetrics},
	}
}

func TestGetBackendMetrics(t *testing.T) {
	expectedMetrics := metricstest.MetricsRecorded{
		RecordGetBackendTotal:    1,
		RecordGetBackendDuration: 1.00,
	}

	mockMetrics, m := newMockedMetrics()

	rawBackend := backends.NewMemoryBackend()
	rawBackend.Put(context.Background(), "unique_skiers:1:2019:5", `{"time":"Mission Ridge","numSkiers":3}`, 0)
	backendWithMetrics := LogMetrics(rawBackend, m)

	value, err := backendWithMetrics.Get(context.Background(), "unique_skiers:1:2019:5")

	assert.NoError(t, err)
	assert.Equal(t, `{"time":"Mission Ridge","numSkiers":3}`, value)
	metricstest.AssertMetrics(t, expectedMetrics, mockMetrics)
}

func TestGetBackendErrorMetrics(t *testing.T) {
	testCases := []struct {
		desc            string
		expectedMetrics metricstest.MetricsRecorded
		expectedError   error
	}{
		{
			desc: "Failed get backend request should be accounted as a key not found error",
			expectedMetrics: metricstest.MetricsRecorded{
				RecordGetBackendError:  1,
				RecordKeyNotFoundError: 1,
				RecordGetBackendTotal:  1,
			},
			expectedError: utils.NewLookupError(utils.KEY_NOT_FOUND),
		},
		{
			desc: "Failed get backend request should be accounted under the error label",
			expectedMetrics: metricstest.MetricsRecorded{
				RecordGetBackendError: 1,
				RecordGetBackendTotal: 1,
			},
			expectedError: errors.New("some backend storage service error"),
		},
	}

	for _, test := range testCases {
		mockMetrics, m := newMockedMetrics()
		backend := LogMetrics(&backends.ErrorProneBackend{GetError: test.expectedError}, m)

		retrievedValue, err := backend.Get(context.Background(), "foo")

		assert.Empty(t, retrievedValue, test.desc)
		assert.Equal(t, test.expectedError, err, test.desc)
		metricstest.AssertMetrics(t, test.expectedMetrics, mockMetrics, test.desc)
	}
}

func TestPutSuccessMetrics(t *testing.T) {
	expectedMetrics := metricstest.MetricsRecorded{
		RecordPutBackendTotal:      1,
		RecordPutBackendDuration:   1.00,
		RecordPutBackendTTLSeconds: 1.00,
		RecordPutBackendSize:       1.00,
	}

	mockMetrics, m := newMockedMetrics()
	backend := LogMetrics(backends.NewMemoryBackend(), m)

	err := backend.Put(context.Background(), "skier_day_vertical:1:2019:5:42", "1200", 60)

	assert.NoError(t, err)
	metricstest.AssertMetrics(t, expectedMetrics, mockMetrics)
}

func TestPutErrorMetrics(t *testing.T) {
	expectedMetrics := metricstest.MetricsRecorded{
		RecordPutBackendTotal:      1,
		RecordPutBackendError:      1,
		RecordPutBackendSize:       1.00,
		RecordPutBackendTTLSeconds: 1.00,
	}

	mockMetrics, m := newMockedMetrics()
	backend := LogMetrics(&backends.ErrorProneBackend{PutError: errors.New("Failure")}, m)

	err := backend.Put(context.Background(), "foo", "1200", 0)

	assert.EqualError(t, err, "Failure")
	metricstest.AssertMetrics(t, expectedMetrics, mockMetrics)
}
