package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"shopsight/analytics"
)

// Report cache keys.
const (
	dashboardCacheKey = "report:dashboard"
	productCacheFmt   = "report:product:%d"
)

// handleDashboard serves the admin dashboard report: the full pipeline
// over a fresh snapshot, briefly cached.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if body, ok := s.cachedReport(ctx, dashboardCacheKey); ok {
		writeRawJSON(w, body)
		return
	}

	snap, err := s.records.Snapshot(ctx)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to load records", err)
		return
	}

	report := analytics.BuildDashboard(snap)
	s.cacheReport(ctx, dashboardCacheKey, report)
	writeJSON(w, report)
}

// handleProductReport serves the per-product detail report: the reduced
// pipeline scoped to one product.
func (s *Server) handleProductReport(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "invalid product id", nil)
		return
	}
	ctx := r.Context()

	product, err := s.catalog.GetProduct(ctx, id)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to load product", err)
		return
	}
	if product == nil {
		respondWithError(w, http.StatusNotFound, "product not found", nil)
		return
	}

	key := fmt.Sprintf(productCacheFmt, id)
	if body, ok := s.cachedReport(ctx, key); ok {
		writeRawJSON(w, body)
		return
	}

	snap, err := s.records.ProductSnapshot(ctx, id)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to load records", err)
		return
	}

	report := analytics.BuildProductReport(snap)
	s.cacheReport(ctx, key, report)
	writeJSON(w, report)
}

func (s *Server) cachedReport(ctx context.Context, key string) ([]byte, bool) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return nil, false
	}
	var raw json.RawMessage
	if err := s.cache.Get(ctx, key, &raw); err != nil {
		return nil, false
	}
	return raw, true
}

func (s *Server) cacheReport(ctx context.Context, key string, report interface{}) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	// Best effort: a cache failure never fails the request
	_ = s.cache.Set(ctx, key, report, s.cacheTTL)
}
