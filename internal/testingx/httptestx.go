package testingx

import (
	"net/http"
	"net/http/httptest"
)

// MustNewHTTPServer creates a new [*httptest.Server] using the given handler. The
// server is started and the caller MUST call Close when done.
func MustNewHTTPServer(handler http.Handler) *httptest.Server {
	return httptest.NewServer(handler)
}
