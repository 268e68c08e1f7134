package httpclientx

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/topoprobe/campaign/internal/model"
	"github.com/topoprobe/campaign/internal/model/mocks"
	"github.com/topoprobe/campaign/internal/testingx"
)

type apiRequest struct {
	Agent string `json:"agent"`
}

type apiResponse struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newConfig() *Config {
	return &Config{
		Client:    http.DefaultClient,
		Logger:    model.DiscardLogger,
		UserAgent: model.HTTPHeaderUserAgent,
	}
}

func TestGzipDecompression(t *testing.T) {
	t.Run("we correctly handle gzip encoding", func(t *testing.T) {
		expected := []byte(`{"name": "edgenet-1", "count": 3}`)

		// create a server returning compressed content
		server := testingx.MustNewHTTPServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var buffer bytes.Buffer
			writer := gzip.NewWriter(&buffer)
			writer.Write(expected)
			writer.Close()
			w.Header().Add("Content-Encoding", "gzip")
			w.Write(buffer.Bytes())
		}))
		defer server.Close()

		respbody, err := GetRaw(context.Background(), newConfig(), server.URL)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(expected, respbody); diff != "" {
			t.Fatal(diff)
		}
	})

	t.Run("we correctly handle the case where we cannot decode gzip", func(t *testing.T) {
		// create a server pretending to return compressed content
		server := testingx.MustNewHTTPServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("Content-Encoding", "gzip")
			w.Write([]byte("antani"))
		}))
		defer server.Close()

		respbody, err := GetRaw(context.Background(), newConfig(), server.URL)
		if err == nil || err.Error() != "gzip: invalid header" {
			t.Fatal("unexpected error", err)
		}
		if respbody != nil {
			t.Fatal("expected nil response body")
		}
	})
}

func TestHTTPStatusCodeHandling(t *testing.T) {
	server := testingx.MustNewHTTPServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "LOGIN_BAD_CREDENTIALS"}`))
	}))
	defer server.Close()

	respbody, err := GetRaw(context.Background(), newConfig(), server.URL)
	if respbody != nil {
		t.Fatal("expected nil response body")
	}

	var orig *ErrRequestFailed
	if !errors.As(err, &orig) {
		t.Fatal("not an *ErrRequestFailed instance", err)
	}
	if orig.StatusCode != 401 {
		t.Fatal("unexpected status code", orig.StatusCode)
	}
	if orig.Body != `{"detail": "LOGIN_BAD_CREDENTIALS"}` {
		t.Fatal("unexpected body", orig.Body)
	}
	if err.Error() != "httpclientx: request failed: 401" {
		t.Fatal("unexpected error string", err.Error())
	}
}

func TestHTTPClientErrorHandling(t *testing.T) {
	expected := errors.New("mocked error")
	config := newConfig()
	config.Client = &mocks.HTTPClient{
		MockDo: func(req *http.Request) (*http.Response, error) {
			return nil, expected
		},
	}
	respbody, err := GetRaw(context.Background(), config, "http://127.0.0.1/")
	if !errors.Is(err, expected) {
		t.Fatal("unexpected error", err)
	}
	if respbody != nil {
		t.Fatal("expected nil response body")
	}
}

// This test ensures that we set the expected HTTP headers
func TestHeadersOkay(t *testing.T) {
	var (
		gotheaders http.Header
		gotmu      sync.Mutex
	)

	server := testingx.MustNewHTTPServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotmu.Lock()
		gotheaders = r.Header
		gotmu.Unlock()
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	config := newConfig()
	config.Authorizer = &mocks.Authorizer{
		MockAuthorization: func(ctx context.Context) (string, error) {
			return "Bearer abcdef", nil
		},
	}
	if _, err := GetJSON[*apiResponse](context.Background(), config, server.URL); err != nil {
		t.Fatal(err)
	}

	gotmu.Lock()
	defer gotmu.Unlock()
	if value := gotheaders.Get("Authorization"); value != "Bearer abcdef" {
		t.Fatal("unexpected Authorization value", value)
	}
	if value := gotheaders.Get("User-Agent"); value != model.HTTPHeaderUserAgent {
		t.Fatal("unexpected User-Agent value", value)
	}
}

func TestAuthorizer(t *testing.T) {
	// newServer returns a server accepting only the given token
	newServer := func(token string, calls *atomic.Int64) *httptest.Server {
		return testingx.MustNewHTTPServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			if r.Header.Get("Authorization") != "Bearer "+token {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Write([]byte(`{"name": "edgenet-1", "count": 1}`))
		}))
	}

	t.Run("we retry once with fresh credentials after a 401", func(t *testing.T) {
		calls := &atomic.Int64{}
		server := newServer("fresh", calls)
		defer server.Close()
		token, invalidations := "stale", 0
		config := newConfig()
		config.Authorizer = &mocks.Authorizer{
			MockAuthorization: func(ctx context.Context) (string, error) {
				return "Bearer " + token, nil
			},
			MockInvalidate: func() {
				invalidations++
				token = "fresh"
			},
		}
		form := url.Values{}
		form.Set("agent", "edgenet-1")
		resp, err := PostForm[*apiResponse](context.Background(), config, server.URL, form)
		if err != nil {
			t.Fatal(err)
		}
		if resp.Name != "edgenet-1" || invalidations != 1 || calls.Load() != 2 {
			t.Fatal("unexpected result", resp, invalidations, calls.Load())
		}
	})

	t.Run("we do not retry more than once", func(t *testing.T) {
		calls := &atomic.Int64{}
		server := newServer("never", calls)
		defer server.Close()
		var invalidations int
		config := newConfig()
		config.Authorizer = &mocks.Authorizer{
			MockAuthorization: func(ctx context.Context) (string, error) {
				return "Bearer stale", nil
			},
			MockInvalidate: func() {
				invalidations++
			},
		}
		_, err := GetJSON[*apiResponse](context.Background(), config, server.URL)
		if !IsUnauthorized(err) {
			t.Fatal("unexpected error", err)
		}
		if invalidations != 1 || calls.Load() != 2 {
			t.Fatal("unexpected number of attempts", invalidations, calls.Load())
		}
	})

	t.Run("we do not send the request when authorization fails", func(t *testing.T) {
		calls := &atomic.Int64{}
		server := newServer("never", calls)
		defer server.Close()
		expected := errors.New("mocked error")
		config := newConfig()
		config.Authorizer = &mocks.Authorizer{
			MockAuthorization: func(ctx context.Context) (string, error) {
				return "", expected
			},
		}
		if _, err := GetRaw(context.Background(), config, server.URL); !errors.Is(err, expected) {
			t.Fatal("unexpected error", err)
		}
		if calls.Load() != 0 {
			t.Fatal("unexpected number of calls", calls.Load())
		}
	})

	t.Run("without an authorizer a 401 is final", func(t *testing.T) {
		calls := &atomic.Int64{}
		server := newServer("never", calls)
		defer server.Close()
		if _, err := GetRaw(context.Background(), newConfig(), server.URL); !IsUnauthorized(err) {
			t.Fatal("unexpected error", err)
		}
		if calls.Load() != 1 {
			t.Fatal("unexpected number of calls", calls.Load())
		}
	})
}
