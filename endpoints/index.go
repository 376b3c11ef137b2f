package endpoints

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// NewIndexHandler answers the root path with a fixed message instead of a 404.
func NewIndexHandler(message string) func(http.ResponseWriter, *http.Request, httprouter.Params) {
	return func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		w.Write([]byte(message))
	}
}
