package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenServer(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if r.Form.Get("grant_type") != "client_credentials" {
			http.Error(w, "bad grant", http.StatusBadRequest)
			return
		}
		n := calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{"access_token":"tok-%d","token_type":"bearer","expires_in":3600}`, n)
	}))
}

func TestClientCredCachesToken(t *testing.T) {
	var calls atomic.Int32
	srv := tokenServer(t, &calls)
	defer srv.Close()

	c := NewClientCred(Conf{ClientID: "id", ClientSecret: "secret", AuthURL: srv.URL})
	tok, err := c.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok)

	tok, err = c.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok)
	assert.Equal(t, int32(1), calls.Load())

	tok, err = c.ForceRefresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-2", tok)
}

func TestClientCredSetAuthHeader(t *testing.T) {
	var calls atomic.Int32
	srv := tokenServer(t, &calls)
	defer srv.Close()

	c := NewClientCred(Conf{ClientID: "id", ClientSecret: "secret", AuthURL: srv.URL})
	req := httptest.NewRequest(http.MethodGet, "http://example.invalid/profiles.csv", nil)
	require.NoError(t, c.SetAuthHeader(req))
	assert.Equal(t, "Bearer tok-1", req.Header.Get("Authorization"))
}

func TestClientCredTokenError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClientCred(Conf{ClientID: "id", AuthURL: srv.URL})
	_, err := c.GetToken(context.Background())
	assert.Error(t, err)
	assert.False(t, Conf{}.Enabled())
}
