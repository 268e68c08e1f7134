package httpclientx

//
// postform.go - POST an urlencoded form and read a JSON response.
//

import (
	"context"
	"net/url"
)

// PostForm posts an urlencoded form and parses the JSON response body. The
// login API expects the credentials this way.
func PostForm[Output any](ctx context.Context, config *Config, URL string, form url.Values) (Output, error) {
	return postAndDecode[Output](ctx, config, URL, "application/x-www-form-urlencoded", []byte(form.Encode()))
}
