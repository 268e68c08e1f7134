// Package must contains functions that panic on error.
package must

import (
	"encoding/json"
	"io"
	"net/http"
	"os"

	"github.com/topoprobe/campaign/internal/runtimex"
)

// MarshalJSON is like [json.Marshal] but calls
// [runtimex.PanicOnError] on failure.
func MarshalJSON(v any) []byte {
	data, err := json.Marshal(v)
	runtimex.PanicOnError(err, "json.Marshal failed")
	return data
}

// MarshalAndIndentJSON is like [json.MarshalIndent] but calls
// [runtimex.PanicOnError] on failure.
func MarshalAndIndentJSON(v any, prefix string, indent string) []byte {
	data, err := json.MarshalIndent(v, prefix, indent)
	runtimex.PanicOnError(err, "json.MarshalIndent failed")
	return data
}

// UnmarshalJSON is like [json.Unmarshal] but calls
// [runtimex.PanicOnError] on failure.
func UnmarshalJSON(data []byte, v any) {
	err := json.Unmarshal(data, v)
	runtimex.PanicOnError(err, "json.Unmarshal failed")
}

// NewHTTPRequest is like [http.NewRequest] but calls
// [runtimex.PanicOnError] on failure.
func NewHTTPRequest(method string, url string, body io.Reader) *http.Request {
	req, err := http.NewRequest(method, url, body)
	runtimex.PanicOnError(err, "http.NewRequest failed")
	return req
}

// ReadFile is like [os.ReadFile] but calls
// [runtimex.PanicOnError] on failure.
func ReadFile(filename string) []byte {
	data, err := os.ReadFile(filename)
	runtimex.PanicOnError(err, "os.ReadFile failed")
	return data
}
