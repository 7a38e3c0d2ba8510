package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/araddon/dateparse"
	"github.com/go-pkgz/lgr"
	"github.com/samber/lo"

	"github.com/umputun/perspectives/pkg/domain"
	"github.com/umputun/perspectives/pkg/store"
)

const maxArticles = 500

// categoryInfo is a category with the number of visible articles
type categoryInfo struct {
	ID          domain.Category `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Count       int             `json:"count"`
}

// statusHandler returns server status with per-category counts
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	counts := map[domain.Category]int{}
	total := 0
	for _, cat := range domain.Categories() {
		recs, err := s.visible(r.Context(), cat)
		if err != nil {
			renderError(w, r, err, http.StatusInternalServerError)
			return
		}
		counts[cat] = len(recs)
		total += len(recs)
	}
	renderJSON(w, r, http.StatusOK, map[string]any{
		"status":   "ok",
		"version":  s.version,
		"time":     s.now().UTC(),
		"articles": total,
		"counts":   counts,
	})
}

// categoriesHandler lists categories in display order
func (s *Server) categoriesHandler(w http.ResponseWriter, r *http.Request) {
	res := make([]categoryInfo, 0, len(domain.Categories()))
	for _, cat := range domain.Categories() {
		recs, err := s.visible(r.Context(), cat)
		if err != nil {
			renderError(w, r, err, http.StatusInternalServerError)
			return
		}
		res = append(res, categoryInfo{ID: cat, Title: cat.Title(), Description: cat.Description(), Count: len(recs)})
	}
	renderJSON(w, r, http.StatusOK, res)
}

// articlesHandler returns non-expired articles newest first, of one category or of all.
// Optional "limit" query param caps the result.
func (s *Server) articlesHandler(w http.ResponseWriter, r *http.Request) {
	cats := domain.Categories()
	if name := r.PathValue("category"); name != "" {
		cat, err := domain.ParseCategory(name)
		if err != nil {
			renderError(w, r, err, http.StatusNotFound)
			return
		}
		cats = []domain.Category{cat}
	}

	limit := maxArticles
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			renderError(w, r, fmt.Errorf("invalid limit %q", v), http.StatusBadRequest)
			return
		}
		limit = min(n, maxArticles)
	}

	res, err := s.newest(r.Context(), cats, limit)
	if err != nil {
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, res)
}

// articleHandler looks the record up in all partitions
func (s *Server) articleHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	for _, cat := range domain.Categories() {
		rec, err := s.store.Get(r.Context(), cat, id)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			lgr.Printf("[WARN] failed to get article %s/%s: %v", cat, id, err)
			renderError(w, r, fmt.Errorf("invalid article id"), http.StatusBadRequest)
			return
		}
		renderJSON(w, r, http.StatusOK, rec)
		return
	}
	renderError(w, r, fmt.Errorf("article %s not found", id), http.StatusNotFound)
}

// sourcesHandler returns the pull log
func (s *Server) sourcesHandler(w http.ResponseWriter, r *http.Request) {
	pl, err := s.pulls.Load(r.Context())
	if err != nil {
		lgr.Printf("[ERROR] failed to load pull log: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, pl)
}

// visible returns non-expired records of the category
func (s *Server) visible(ctx context.Context, cat domain.Category) ([]domain.Record, error) {
	recs, err := s.store.List(ctx, cat)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", cat, err)
	}
	now := s.now()
	return lo.Filter(recs, func(r domain.Record, _ int) bool { return !r.Expired(now) }), nil
}

// newest collects visible records of the categories sorted by publication time, newest first
func (s *Server) newest(ctx context.Context, cats []domain.Category, limit int) ([]domain.Record, error) {
	res := []domain.Record{}
	for _, cat := range cats {
		recs, err := s.visible(ctx, cat)
		if err != nil {
			return nil, err
		}
		res = append(res, recs...)
	}
	sort.SliceStable(res, func(i, j int) bool { return published(res[i]).After(published(res[j])) })
	if len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}

// published is pubDate if parseable, fetchedDate otherwise
func published(r domain.Record) time.Time {
	if r.PubDate != "" {
		if t, err := dateparse.ParseAny(r.PubDate); err == nil {
			return t
		}
	}
	return r.FetchedDate
}
