package model

import "net/http"

// HTTPClient is the HTTP client used to talk to the measurement
// platform. The *http.Client type implements this interface.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPHeaderUserAgent is the default User-Agent header value.
const HTTPHeaderUserAgent = "campaign/0.x"
