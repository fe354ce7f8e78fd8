package api

import (
	"net/http"
	"time"

	"shopsight/cache"
	"shopsight/database"
	"shopsight/database/catalog"
	"shopsight/database/records"
	"shopsight/realtime"
	ws "shopsight/websocket"
)

// Server handles HTTP API requests
type Server struct {
	records  *records.Repository
	catalog  *catalog.Repository
	cache    *cache.RedisClient // nil when caching is disabled
	cacheTTL time.Duration
	broker   *realtime.Broker
	hub      *ws.Hub
	pool     *database.Pool
}

// NewServer creates a new API server instance
func NewServer(recordsRepo *records.Repository, catalogRepo *catalog.Repository, cacheClient *cache.RedisClient, cacheTTL time.Duration, broker *realtime.Broker, hub *ws.Hub, pool *database.Pool) *Server {
	return &Server{
		records:  recordsRepo,
		catalog:  catalogRepo,
		cache:    cacheClient,
		cacheTTL: cacheTTL,
		broker:   broker,
		hub:      hub,
		pool:     pool,
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Analytics reports
	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /api/products/{id}/report", s.handleProductReport)

	// Storefront
	mux.HandleFunc("GET /api/products", s.handleListProducts)
	mux.HandleFunc("GET /api/products/{id}", s.handleGetProduct)
	mux.HandleFunc("GET /api/categories", s.handleCategories)

	// Event ingestion
	mux.HandleFunc("POST /api/products/{id}/click", s.handleClick)
	mux.HandleFunc("POST /api/purchases", s.handlePurchase)

	// Live feeds
	mux.Handle("GET /api/events", s.broker) // SSE endpoint
	mux.Handle("GET /ws/live", s.hub)

	mux.HandleFunc("GET /healthz", s.handleHealth)

	return mux
}

// publish fans an event out to both live feeds.
func (s *Server) publish(event string, payload interface{}) {
	s.broker.Broadcast(event, payload)
	s.hub.Broadcast(event, payload)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.pool.Ping(); err != nil {
		respondWithError(w, http.StatusServiceUnavailable, "database unreachable", err)
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}
