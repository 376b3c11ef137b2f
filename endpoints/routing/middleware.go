package routing

import (
	"net/http"

	log "github.com/sirupsen/logrus"
)

type loggingMiddleware struct {
	handler http.Handler
}

func (m *loggingMiddleware) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log.Debugf("Request: %s %s", r.Method, r.URL.RequestURI())
	m.handler.ServeHTTP(w, r)
}
