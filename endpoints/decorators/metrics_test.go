package decorators

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"

	"github.com/skierstats/skier-stats/metrics"
	"github.com/skierstats/skier-stats/metrics/metricstest"
)

func TestMonitorHttp(t *testing.T) {
	testCases := []struct {
		desc            string
		handler         httprouter.Handle
		expectedMetrics metricstest.MetricsRecorded
	}{
		{
			desc: "Successful request records its duration",
			handler: func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
				w.WriteHeader(http.StatusOK)
			},
			expectedMetrics: metricstest.MetricsRecorded{
				RecordRequestTotal:    1,
				RecordRequestDuration: 1.00,
			},
		},
		{
			desc: "Handler that never writes a header is a success",
			handler: func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
				w.Write([]byte("1200"))
			},
			expectedMetrics: metricstest.MetricsRecorded{
				RecordRequestTotal:    1,
				RecordRequestDuration: 1.00,
			},
		},
		{
			desc: "Invalid input is a bad request",
			handler: func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
				http.Error(w, "Invalid Inputs Provided", http.StatusBadRequest)
			},
			expectedMetrics: metricstest.MetricsRecorded{
				RecordRequestTotal:      1,
				RecordRequestBadRequest: 1,
			},
		},
		{
			desc: "Missing data is a bad request",
			handler: func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
				http.Error(w, "Data not found", http.StatusNotFound)
			},
			expectedMetrics: metricstest.MetricsRecorded{
				RecordRequestTotal:      1,
				RecordRequestBadRequest: 1,
			},
		},
		{
			desc: "Store failure is an error",
			handler: func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
				w.WriteHeader(http.StatusInternalServerError)
				w.WriteHeader(http.StatusOK)
			},
			expectedMetrics: metricstest.MetricsRecorded{
				RecordRequestTotal: 1,
				RecordRequestError: 1,
			},
		},
	}

	for _, tc := range testCases {
		mockMetrics := metricstest.CreateMockMetrics()
		m := &metrics.Metrics{MetricEngines: []metrics.CacheMetrics{mockMetrics}}

		monitored := MonitorHttp(tc.handler, m)
		monitored(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/skiers/42/vertical", nil), nil)

		metricstest.AssertMetrics(t, tc.expectedMetrics, mockMetrics, tc.desc)
	}
}
