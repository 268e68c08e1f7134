package measurementapi

//
// login.go - POST /auth/jwt/login
//

import (
	"context"
	"net/url"

	"github.com/topoprobe/campaign/internal/httpclientx"
	"github.com/topoprobe/campaign/internal/model"
	"github.com/topoprobe/campaign/internal/urlx"
)

// LoginResponse is the response of the login API.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// MaybeLogin performs login if necessary.
func (c *Client) MaybeLogin(ctx context.Context) error {
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()
	if token != "" {
		return nil // we're already good
	}
	if c.Username == "" || c.Password == "" {
		return ErrMissingCredentials
	}
	c.LoginCalls.Add(1)

	// construct the URL to use
	URL, err := urlx.ResolveReference(c.BaseURL, "/auth/jwt/login", "")
	if err != nil {
		return err
	}

	// the form contains the password, so make sure we don't log it
	config := &httpclientx.Config{
		Client:    c.HTTPClient,
		Logger:    model.DiscardLogger,
		UserAgent: c.UserAgent,
	}

	form := url.Values{}
	form.Set("username", c.Username)
	form.Set("password", c.Password)
	auth, err := httpclientx.PostForm[*LoginResponse](ctx, config, URL, form)
	if err != nil {
		return err
	}
	if auth.AccessToken == "" {
		return ErrMissingToken
	}

	c.mu.Lock()
	c.token = auth.AccessToken
	c.mu.Unlock()
	return nil
}
