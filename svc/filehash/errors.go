package filehash

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError is a pipeline outcome with the status code and text sent to the
// client. Key is a stable machine-readable name.
type HTTPError struct {
	Code    int
	Key     string
	Message string
}

func (e HTTPError) Error() string {
	return e.Key
}

// Body renders the plain-text response body, e.g. "404 - File not found".
func (e HTTPError) Body() string {
	return fmt.Sprintf("%d - %s", e.Code, e.Message)
}

var (
	ErrEmptyQuery       = HTTPError{Code: http.StatusBadRequest, Key: "empty_query", Message: "Empty query"}
	ErrInvalidQuery     = HTTPError{Code: http.StatusBadRequest, Key: "invalid_query", Message: "Invalid query"}
	ErrNotFound         = HTTPError{Code: http.StatusNotFound, Key: "file_not_found", Message: "File not found"}
	ErrAdmissionTimeout = HTTPError{Code: http.StatusServiceUnavailable, Key: "server_busy", Message: "Server busy"}
	ErrInternal         = HTTPError{Code: http.StatusInternalServerError, Key: "internal_error", Message: "Internal error"}
)

// AsHTTPError extracts the HTTPError carried by err. Errors without one are
// reported as ErrInternal.
func AsHTTPError(err error) HTTPError {
	var he HTTPError
	if errors.As(err, &he) {
		return he
	}
	return ErrInternal
}
