package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPFetcher_Fetch(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "AI-Perspectives-Bot/1.0", r.Header.Get("User-Agent"))
			assert.Contains(t, r.Header.Get("Accept"), "application/rss+xml")
			w.Header().Set("Content-Type", "application/rss+xml")
			_, _ = w.Write([]byte("<rss></rss>"))
		}))
		defer server.Close()

		f := NewHTTPFetcher(5*time.Second, "AI-Perspectives-Bot/1.0")
		body, err := f.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, "<rss></rss>", string(body))
	})

	t.Run("bad status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		f := NewHTTPFetcher(5*time.Second, "test")
		_, err := f.Fetch(context.Background(), server.URL)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected status code: 502")
	})

	t.Run("timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer server.Close()

		f := NewHTTPFetcher(50*time.Millisecond, "test")
		_, err := f.Fetch(context.Background(), server.URL)
		require.Error(t, err)
	})

	t.Run("invalid url", func(t *testing.T) {
		f := NewHTTPFetcher(time.Second, "test")
		_, err := f.Fetch(context.Background(), "://bad")
		require.Error(t, err)
	})
}
