package httpx_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nefeygt/wowscraper/pkg/httpx"
)

type stubAuthenticator struct {
	token     string
	authCalls int
	failAuth  bool
}

func (a *stubAuthenticator) Authenticate(context.Context) error {
	a.authCalls++
	if a.failAuth {
		return context.DeadlineExceeded
	}
	a.token = "fresh-token"
	return nil
}

func (a *stubAuthenticator) BearerToken() string {
	return a.token
}

func TestAuthBearerRoundTripper(t *testing.T) {
	rq := require.New(t)

	t.Run("authenticates lazily on first request", func(t *testing.T) {
		var gotAuth string

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		auth := &stubAuthenticator{}
		client := &http.Client{Transport: httpx.NewAuthBearerRoundTripper(http.DefaultTransport, auth)}

		resp, err := client.Get(srv.URL)
		rq.NoError(err)
		defer resp.Body.Close()

		rq.Equal(http.StatusOK, resp.StatusCode)
		rq.Equal("Bearer fresh-token", gotAuth)
		rq.Equal(1, auth.authCalls)
	})

	t.Run("reauthenticates once on 401", func(t *testing.T) {
		var requests int

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			requests++
			if requests == 1 {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		auth := &stubAuthenticator{token: "stale-token"}
		client := &http.Client{Transport: httpx.NewAuthBearerRoundTripper(http.DefaultTransport, auth)}

		resp, err := client.Get(srv.URL)
		rq.NoError(err)
		defer resp.Body.Close()

		rq.Equal(http.StatusOK, resp.StatusCode)
		rq.Equal(2, requests)
		rq.Equal(1, auth.authCalls)
	})

	t.Run("propagates authentication failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		auth := &stubAuthenticator{failAuth: true}
		client := &http.Client{Transport: httpx.NewAuthBearerRoundTripper(http.DefaultTransport, auth)}

		_, err := client.Get(srv.URL) //nolint:bodyclose
		rq.Error(err)
		rq.Equal(1, auth.authCalls)
	})
}
