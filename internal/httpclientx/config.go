package httpclientx

import (
	"context"

	"github.com/topoprobe/campaign/internal/model"
)

// Authorizer provides the Authorization header of authenticated requests.
type Authorizer interface {
	// Authorization returns the header value, logging in when needed.
	Authorization(ctx context.Context) (string, error)

	// Invalidate forgets the credentials the server has just rejected.
	Invalidate()
}

// Config tells the functions in this package how to send requests.
type Config struct {
	// Authorizer OPTIONALLY authenticates requests. When the server
	// replies with 401, we invalidate the credentials and retry once.
	Authorizer Authorizer

	// Client is the MANDATORY [model.HTTPClient].
	Client model.HTTPClient

	// Logger is the MANDATORY [model.Logger].
	Logger model.Logger

	// UserAgent is the MANDATORY User-Agent header value.
	UserAgent string
}
