package utils

import (
	"errors"
	"net/http"
)

// Error types. Each maps to an HTTP status code and, for most of them, a
// default message that is returned to the client.
const (
	UNKNOWN_VALUE = iota
	INVALID_INPUT
	NOT_FOUND
	KEY_NOT_FOUND
	CACHE_UNAVAILABLE
	STORE_UNAVAILABLE
	CACHE_WRITE_FAILED
	METHOD_NOT_ALLOWED
)

var errToStatusCodes = map[int]int{
	INVALID_INPUT:      http.StatusBadRequest,
	NOT_FOUND:          http.StatusNotFound,
	KEY_NOT_FOUND:      http.StatusNotFound,
	CACHE_UNAVAILABLE:  http.StatusInternalServerError,
	STORE_UNAVAILABLE:  http.StatusInternalServerError,
	CACHE_WRITE_FAILED: http.StatusInternalServerError,
	METHOD_NOT_ALLOWED: http.StatusMethodNotAllowed,
}

var errToMessage = map[int]string{
	INVALID_INPUT:      "Invalid Inputs Provided",
	NOT_FOUND:          "Data not found",
	KEY_NOT_FOUND:      "Key not found",
	CACHE_UNAVAILABLE:  "Could not extract data from Cache.",
	STORE_UNAVAILABLE:  "Could not extract data from Database",
	CACHE_WRITE_FAILED: "Could not insert data into Cache.",
	METHOD_NOT_ALLOWED: "POST Method not allowed. Use GET method instead.",
}

// LookupError is the error type returned by every layer of the lookup path.
// Its Type determines the status code the HTTP surface answers with.
type LookupError struct {
	Type       int
	StatusCode int
	msg        string
	cause      error
}

// NewLookupError builds a LookupError of the given type. If msgs is empty the
// default message of the type is used; otherwise the first element replaces it.
func NewLookupError(errType int, msgs ...string) LookupError {
	le := LookupError{Type: errType}

	if code, ok := errToStatusCodes[errType]; ok {
		le.StatusCode = code
	} else {
		le.StatusCode = http.StatusInternalServerError
	}

	if len(msgs) > 0 {
		le.msg = msgs[0]
	} else if msg, ok := errToMessage[errType]; ok {
		le.msg = msg
	}
	return le
}

// WrapLookupError is NewLookupError keeping cause reachable through errors.Unwrap.
// The client facing message stays the default one.
func WrapLookupError(errType int, cause error) LookupError {
	le := NewLookupError(errType)
	le.cause = cause
	return le
}

func (e LookupError) Error() string {
	return e.msg
}

func (e LookupError) Unwrap() error {
	return e.cause
}

// IsLookupErrorType reports whether err, or any error it wraps, is a
// LookupError of type errType.
func IsLookupErrorType(err error, errType int) bool {
	var le LookupError
	if errors.As(err, &le) {
		return le.Type == errType
	}
	return false
}
