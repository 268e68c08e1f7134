package mocks

import (
	"context"
	"net/http"
)

// HTTPClient allows mocking a model.HTTPClient.
type HTTPClient struct {
	MockDo func(req *http.Request) (*http.Response, error)
}

// Do calls MockDo.
func (c *HTTPClient) Do(req *http.Request) (*http.Response, error) {
	return c.MockDo(req)
}

// Authorizer allows mocking an httpclientx.Authorizer.
type Authorizer struct {
	MockAuthorization func(ctx context.Context) (string, error)
	MockInvalidate    func()
}

// Authorization calls MockAuthorization.
func (a *Authorizer) Authorization(ctx context.Context) (string, error) {
	return a.MockAuthorization(ctx)
}

// Invalidate calls MockInvalidate.
func (a *Authorizer) Invalidate() {
	a.MockInvalidate()
}
