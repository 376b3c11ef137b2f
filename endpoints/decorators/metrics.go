package decorators

import (
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/skierstats/skier-stats/metrics"
)

// writerWithStatus implements the http.ResponseWriter interface in order to store
// extra information needed for metrics purposes.
type writerWithStatus struct {
	delegate   http.ResponseWriter
	statusCode int
}

// WriteHeader records the first status code written, because that's the one
// the client got.
func (w *writerWithStatus) WriteHeader(statusCode int) {
	if w.statusCode == 0 {
		w.statusCode = statusCode
	}
	w.delegate.WriteHeader(statusCode)
}

func (w *writerWithStatus) Write(bytes []byte) (int, error) {
	return w.delegate.Write(bytes)
}

func (w *writerWithStatus) Header() http.Header {
	return w.delegate.Header()
}

// MonitorHttp counts every request handled by handler and records the duration
// of the successful ones. 4xx answers count as bad requests, anything above
// as errors.
func MonitorHttp(handler httprouter.Handle, m *metrics.Metrics) httprouter.Handle {
	return httprouter.Handle(func(resp http.ResponseWriter, req *http.Request, params httprouter.Params) {
		m.RecordRequestTotal()
		wrapper := writerWithStatus{
			delegate: resp,
		}

		start := time.Now()
		handler(&wrapper, req, params)
		respCode := wrapper.statusCode
		// If the calling function never calls WriterHeader explicitly, Go auto-fills it with a 200
		if respCode == 0 || respCode >= 200 && respCode < 300 {
			m.RecordRequestDuration(time.Since(start))
		} else if respCode >= 400 && respCode < 500 {
			m.RecordRequestBadRequest()
		} else {
			m.RecordRequestError()
		}
	})
}
