package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/umputun/perspectives/pkg/domain"
)

//go:generate moq -out mocks/store.go -pkg mocks -skip-ensure -fmt goimports . Store
//go:generate moq -out mocks/pulls.go -pkg mocks -skip-ensure -fmt goimports . Pulls

// Server is a read-only HTTP API over the record store
type Server struct {
	store   Store
	pulls   Pulls
	listen  string
	timeout time.Duration
	baseURL string
	version string
	debug   bool
	now     func() time.Time

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// Store provides records by category
type Store interface {
	Get(ctx context.Context, cat domain.Category, id string) (domain.Record, error)
	List(ctx context.Context, cat domain.Category) ([]domain.Record, error)
}

// Pulls provides the source pull log
type Pulls interface {
	Load(ctx context.Context) (domain.PullLog, error)
}

// Params defines server settings
type Params struct {
	Listen  string
	Timeout time.Duration
	BaseURL string // used for links in generated RSS
	Version string
	Debug   bool
}

// New initializes a new server instance
func New(store Store, pulls Pulls, p Params) *Server {
	s := &Server{
		store:   store,
		pulls:   pulls,
		listen:  p.Listen,
		timeout: p.Timeout,
		baseURL: p.BaseURL,
		version: p.Version,
		debug:   p.Debug,
		now:     time.Now,
		router:  routegroup.New(http.NewServeMux()),
	}
	if s.timeout == 0 {
		s.timeout = 30 * time.Second
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	lgr.Printf("[INFO] starting server on %s", s.listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:              s.listen,
		Handler:           s.router,
		ReadHeaderTimeout: s.timeout,
		ReadTimeout:       s.timeout,
		WriteTimeout:      s.timeout,
	}
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		lgr.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		s.lock.Lock()
		defer s.lock.Unlock()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			lgr.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}
	return nil
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("perspectives", "umputun", s.version))
	s.router.Use(rest.Ping)

	if s.debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(1024 * 1024)) // 1MB
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /status", s.statusHandler)
		r.HandleFunc("GET /categories", s.categoriesHandler)
		r.HandleFunc("GET /articles", s.articlesHandler)
		r.HandleFunc("GET /articles/{category}", s.articlesHandler)
		r.HandleFunc("GET /article/{id}", s.articleHandler)
		r.HandleFunc("GET /sources", s.sourcesHandler)
	})

	s.router.HandleFunc("GET /rss/{category}", s.rssHandler)
}

// renderJSON sends JSON response
func renderJSON(w http.ResponseWriter, _ *http.Request, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			lgr.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// renderError sends error response as JSON
func renderError(w http.ResponseWriter, r *http.Request, err error, code int) {
	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}
	renderJSON(w, r, code, map[string]string{"error": errMsg})
}
