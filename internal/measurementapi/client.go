// Package measurementapi contains the client for the measurement
// platform API. Each API call lives in its own file.
package measurementapi

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/topoprobe/campaign/internal/httpclientx"
	"github.com/topoprobe/campaign/internal/model"
)

// ErrMissingCredentials indicates that we need to login but we
// do not have any username and password.
var ErrMissingCredentials = errors.New("measurementapi: missing credentials")

// ErrMissingToken indicates that the login response lacks the access token.
var ErrMissingToken = errors.New("measurementapi: missing access token")

// Client is a client for the measurement platform API.
//
// Construct using [NewClient]. A Client is safe for concurrent use.
type Client struct {
	// BaseURL is the MANDATORY base URL of the platform API.
	BaseURL string

	// HTTPClient is the MANDATORY HTTP client to use.
	HTTPClient model.HTTPClient

	// Logger is the MANDATORY logger to use.
	Logger model.Logger

	// LoginCalls counts the number of login calls.
	LoginCalls *atomic.Int64

	// Password is the OPTIONAL password.
	Password string

	// UserAgent is the MANDATORY User-Agent header value.
	UserAgent string

	// Username is the OPTIONAL username.
	Username string

	// mu protects token.
	mu sync.Mutex

	// token is the bearer token returned by the login API.
	token string
}

// NewClient creates a new [*Client] instance.
func NewClient(baseURL, username, password string, logger model.Logger) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: http.DefaultClient,
		Logger:     model.ValidLoggerOrDefault(logger),
		LoginCalls: &atomic.Int64{},
		Password:   password,
		UserAgent:  model.HTTPHeaderUserAgent,
		Username:   username,
	}
}

var _ httpclientx.Authorizer = &Client{}

// newConfig returns the [*httpclientx.Config] for authenticated API calls.
func (c *Client) newConfig() *httpclientx.Config {
	return &httpclientx.Config{
		Authorizer: c,
		Client:     c.HTTPClient,
		Logger:     c.Logger,
		UserAgent:  c.UserAgent,
	}
}

// Authorization implements httpclientx.Authorizer.
func (c *Client) Authorization(ctx context.Context) (string, error) {
	if err := c.MaybeLogin(ctx); err != nil {
		return "", err
	}
	defer c.mu.Unlock()
	c.mu.Lock()
	return "Bearer " + c.token, nil
}

// Invalidate implements httpclientx.Authorizer. The next call logs in again.
func (c *Client) Invalidate() {
	c.Logger.Debug("measurementapi: token rejected; logging in again")
	defer c.mu.Unlock()
	c.mu.Lock()
	c.token = ""
}
