package httpclientx

//
// getjson.go - GET a raw or JSON response.
//

import (
	"context"
	"net/http"
)

// GetRaw sends a GET request to URL and returns the response body.
func GetRaw(ctx context.Context, config *Config, URL string) ([]byte, error) {
	return do(ctx, config, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, URL, nil)
	})
}

// GetJSON is like [GetRaw] but parses the response body as JSON. A
// literal JSON null is an error for pointer, map, and slice outputs.
func GetJSON[Output any](ctx context.Context, config *Config, URL string) (Output, error) {
	rawrespbody, err := GetRaw(ctx, config, URL)
	if err != nil {
		return zeroValue[Output](), err
	}
	return decodeJSON[Output](rawrespbody)
}
