package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	log "github.com/sirupsen/logrus"

	"github.com/skierstats/skier-stats/lookup"
	"github.com/skierstats/skier-stats/utils"
)

const requestIDHeader = "X-Request-Id"

// LookupHandler serves every statistics route. The whole request path is
// resolved by the lookup service's route table.
type LookupHandler struct {
	service *lookup.Service
}

func NewLookupHandler(service *lookup.Service) func(http.ResponseWriter, *http.Request, httprouter.Params) {
	h := &LookupHandler{service: service}
	return h.handle
}

func (h *LookupHandler) handle(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID, err := utils.GenerateRandomID()
	if err != nil {
		log.Warnf("Could not generate a request ID: %v", err)
	}
	w.Header().Set(requestIDHeader, requestID)
	logger := log.WithFields(log.Fields{"request_id": requestID, "path": r.URL.Path})

	result, err := h.service.LookupPath(r.Context(), r.URL.Path, r.URL.Query())
	if err != nil {
		handleException(w, logger, err)
		return
	}

	body, err := json.Marshal(result)
	if err != nil {
		logger.Errorf("Could not encode the response: %v", err)
		http.Error(w, "Could not encode the response", http.StatusInternalServerError)
		return
	}
	logger.Debug("Lookup answered")
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

// handleException answers with the status code and client facing message of
// err, which is expected to be a utils.LookupError.
func handleException(w http.ResponseWriter, logger *log.Entry, err error) {
	var le utils.LookupError
	if !errors.As(err, &le) {
		logger.Errorf("Unexpected lookup failure: %v", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if le.StatusCode < http.StatusInternalServerError {
		logger.Debug(le.Error())
	} else if cause := errors.Unwrap(le); cause != nil {
		logger.Errorf("%s: %v", le.Error(), cause)
	} else {
		logger.Error(le.Error())
	}
	http.Error(w, le.Error(), le.StatusCode)
}

// MethodNotAllowed answers non GET requests on the statistics routes.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	le := utils.NewLookupError(utils.METHOD_NOT_ALLOWED)
	log.Debugf("%s %s: %s", r.Method, r.URL.Path, le.Error())
	http.Error(w, le.Error(), le.StatusCode)
}
