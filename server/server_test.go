package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/perspectives/pkg/domain"
	"github.com/umputun/perspectives/pkg/store"
	"github.com/umputun/perspectives/server/mocks"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func testRecord(cat domain.Category, id, title, pubDate string, expires time.Time) domain.Record {
	return domain.Record{
		ID: id, Title: title, Description: "about " + title, Link: "https://example.com/" + id, PubDate: pubDate,
		Source: "Example", Category: cat, Credibility: 0.8, FetchedDate: testNow.Add(-time.Hour), ExpiresDate: expires,
	}
}

// testServer makes a server over a files store with a few records
func testServer(t *testing.T) (*Server, *mocks.PullsMock) {
	t.Helper()
	st := store.NewFiles(t.TempDir())
	ctx := context.Background()
	future := testNow.Add(time.Hour)
	for _, r := range []domain.Record{
		testRecord(domain.CategoryOptimist, "o1", "Older optimist", "Fri, 30 May 2025 10:00:00 GMT", future),
		testRecord(domain.CategoryOptimist, "o2", "Newer optimist", "Sat, 31 May 2025 10:00:00 GMT", future),
		testRecord(domain.CategoryOptimist, "gone", "Expired one", "Sun, 01 Jun 2025 10:00:00 GMT", testNow.Add(-time.Minute)),
		testRecord(domain.CategoryCoding, "c1", "Coding news", "2025-05-31T12:00:00Z", future),
		testRecord(domain.CategorySkeptic, "s1", "Skeptic without date", "", future),
	} {
		require.NoError(t, st.Save(ctx, r))
	}

	pulls := &mocks.PullsMock{LoadFunc: func(context.Context) (domain.PullLog, error) {
		return domain.PullLog{Sources: map[string]domain.PullEntry{
			"Example|https://example.com/rss": {Name: "Example", URL: "https://example.com/rss", PullCount: 3},
		}, TotalPulls: 3}, nil
	}}

	srv := New(st, pulls, Params{Version: "test", BaseURL: "https://perspectives.example.com/"})
	srv.now = func() time.Time { return testNow }
	return srv, pulls
}

func get(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
	rr := httptest.NewRecorder()
	srv.router.ServeHTTP(rr, req)
	return rr
}

func TestServer_New(t *testing.T) {
	srv := New(&mocks.StoreMock{}, &mocks.PullsMock{}, Params{Listen: ":8080", Version: "1.0.0"})
	assert.NotNil(t, srv)
	assert.Equal(t, "1.0.0", srv.version)
	assert.Equal(t, 30*time.Second, srv.timeout)
	assert.False(t, srv.debug)
}

func TestServer_Run(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())

	st := &mocks.StoreMock{ListFunc: func(context.Context, domain.Category) ([]domain.Record, error) { return nil, nil }}
	srv := New(st, &mocks.PullsMock{}, Params{Listen: fmt.Sprintf("127.0.0.1:%d", port), Timeout: 5 * time.Second, Version: "1.0.0"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	url := fmt.Sprintf("http://127.0.0.1:%d/ping", port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(url) //nolint:gosec,noctx // test url
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return resp.StatusCode == http.StatusOK && string(body) == "pong"
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServer_Status(t *testing.T) {
	srv, _ := testServer(t)
	rr := get(t, srv, "/api/v1/status")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp struct {
		Status   string         `json:"status"`
		Version  string         `json:"version"`
		Articles int            `json:"articles"`
		Counts   map[string]int `json:"counts"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "test", resp.Version)
	assert.Equal(t, 4, resp.Articles)
	assert.Equal(t, map[string]int{"techno-optimist": 2, "techno-skeptic": 1, "ai-coding": 1}, resp.Counts)
}

func TestServer_StoreFailure(t *testing.T) {
	st := &mocks.StoreMock{ListFunc: func(context.Context, domain.Category) ([]domain.Record, error) {
		return nil, errors.New("disk gone")
	}}
	srv := New(st, &mocks.PullsMock{}, Params{})
	for _, path := range []string{"/api/v1/status", "/api/v1/categories", "/api/v1/articles", "/rss/ai-coding"} {
		rr := get(t, srv, path)
		assert.Equal(t, http.StatusInternalServerError, rr.Code, path)
	}
}

func TestServer_Ping(t *testing.T) {
	srv, _ := testServer(t)
	rr := get(t, srv, "/ping")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "pong", rr.Body.String())
	assert.Equal(t, "perspectives", rr.Header().Get("App-Name"))
}
