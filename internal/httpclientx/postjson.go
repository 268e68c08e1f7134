package httpclientx

//
// postjson.go - POST a JSON request and read a JSON response.
//

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
)

// PostJSON serializes input as the JSON request body and parses the
// JSON response body. We refuse to send a nil input.
func PostJSON[Input, Output any](ctx context.Context, config *Config, URL string, input Input) (Output, error) {
	if err := rejectNil(input); err != nil {
		return zeroValue[Output](), err
	}
	rawreqbody, err := json.Marshal(input)
	if err != nil {
		return zeroValue[Output](), err
	}
	config.Logger.Debugf("POST %s: %s", URL, string(rawreqbody))
	return postAndDecode[Output](ctx, config, URL, "application/json", rawreqbody)
}

// postAndDecode posts the given body and parses the JSON response body.
func postAndDecode[Output any](
	ctx context.Context, config *Config, URL, contentType string, rawreqbody []byte) (Output, error) {
	rawrespbody, err := do(ctx, config, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, URL, bytes.NewReader(rawreqbody))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", contentType)
		return req, nil
	})
	if err != nil {
		return zeroValue[Output](), err
	}
	return decodeJSON[Output](rawrespbody)
}

func decodeJSON[Output any](rawrespbody []byte) (Output, error) {
	var output Output
	if err := json.Unmarshal(rawrespbody, &output); err != nil {
		return zeroValue[Output](), err
	}
	if err := rejectNil(output); err != nil {
		return zeroValue[Output](), err
	}
	return output, nil
}
