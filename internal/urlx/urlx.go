// Package urlx contains URL extensions.
package urlx

import "net/url"

// ResolveReference constructs a new URL consisting of the given base URL with
// the path appended to the given path and the optional query.
//
// For example, given:
//
//	URL := "https://platform.example.com/api"
//	path := "/measurements/"
//	rawQuery := ""
//
// This function will return:
//
//	result := "https://platform.example.com/api/measurements/"
//
// This function fails when we cannot parse URL as a [*net.URL].
func ResolveReference(baseURL, path, rawQuery string) (string, error) {
	parsedBase, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	joined := parsedBase.JoinPath(path)
	joined.RawQuery = rawQuery
	return joined.String(), nil
}
