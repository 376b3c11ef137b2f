package endpoints

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// Status tells load balancers the server is ready for more traffic.
func Status(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	w.WriteHeader(http.StatusNoContent)
}
