// Package httpclientx invokes the JSON APIs of the measurement platform.
package httpclientx

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrRequestFailed indicates that the server returned >= 400.
type ErrRequestFailed struct {
	// StatusCode is the MANDATORY status code.
	StatusCode int

	// Body contains the OPTIONAL response body (truncated).
	Body string
}

// Error implements error.
func (err *ErrRequestFailed) Error() string {
	return fmt.Sprintf("httpclientx: request failed: %d", err.StatusCode)
}

// IsUnauthorized returns whether err is a 401 [*ErrRequestFailed].
func IsUnauthorized(err error) bool {
	var failure *ErrRequestFailed
	return errors.As(err, &failure) && failure.StatusCode == http.StatusUnauthorized
}

// maxErrorBodySize is the maximum number of error body bytes we keep.
const maxErrorBodySize = 512

func zeroValue[T any]() T {
	return *new(T)
}

// requestFunc creates a fresh request for each attempt, since
// sending a request consumes its body.
type requestFunc func() (*http.Request, error)

// do sends the request, authorizing it if needed, and returns the raw
// response body. We retry at most once after a 401 response.
func do(ctx context.Context, config *Config, newRequest requestFunc) ([]byte, error) {
	for attempt := 0; ; attempt++ {
		req, err := newRequest()
		if err != nil {
			return nil, err
		}
		if config.Authorizer != nil {
			value, err := config.Authorizer.Authorization(ctx)
			if err != nil {
				return nil, err
			}
			req.Header.Set("Authorization", value)
		}
		rawrespbody, err := roundTrip(config, req)
		if attempt == 0 && config.Authorizer != nil && IsUnauthorized(err) {
			config.Logger.Debugf("%s %s: credentials rejected; retrying", req.Method, req.URL.String())
			config.Authorizer.Invalidate()
			continue
		}
		return rawrespbody, err
	}
}

// roundTrip performs a single attempt.
func roundTrip(config *Config, req *http.Request) ([]byte, error) {
	req.Header.Set("User-Agent", config.UserAgent)
	req.Header.Set("Accept-Encoding", "gzip")
	config.Logger.Debugf("%s %s", req.Method, req.URL.String())

	resp, err := config.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var body io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzrdr, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gzrdr.Close()
		body = gzrdr
	}
	rawrespbody, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	config.Logger.Debugf("%s %s: %d: %s", req.Method, req.URL.String(), resp.StatusCode, string(rawrespbody))

	if resp.StatusCode >= 400 {
		if len(rawrespbody) > maxErrorBodySize {
			rawrespbody = rawrespbody[:maxErrorBodySize]
		}
		return nil, &ErrRequestFailed{StatusCode: resp.StatusCode, Body: string(rawrespbody)}
	}
	return rawrespbody, nil
}
