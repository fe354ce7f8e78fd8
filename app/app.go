package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"shopsight/api"
	"shopsight/cache"
	"shopsight/config"
	"shopsight/database"
	"shopsight/database/catalog"
	"shopsight/database/records"
	"shopsight/realtime"
	ws "shopsight/websocket"
)

// App represents the main application
type App struct {
	config  *config.Config
	db      *database.Database
	pool    *database.Pool
	redis   *cache.RedisClient
	records *records.Repository
	catalog *catalog.Repository
	broker  *realtime.Broker
	hub     *ws.Hub
}

// New creates a new application instance
func New(cfg *config.Config) *App {
	return &App{config: cfg}
}

// Start brings the service up and blocks until shutdown.
func (a *App) Start() error {
	// 1. Database connection
	fmt.Println("🗄️  Connecting to database...")

	dbPort, err := strconv.Atoi(a.config.DatabasePort)
	if err != nil {
		return fmt.Errorf("invalid database port: %w", err)
	}

	db, err := database.Connect(
		a.config.DatabaseHost,
		dbPort,
		a.config.DatabaseName,
		a.config.DatabaseUser,
		a.config.DatabasePassword,
	)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	a.db = db
	defer a.db.Close()

	if err := a.db.InitSchema(); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}

	pool, err := database.NewPool(database.PoolConfig{
		Host:     a.config.DatabaseHost,
		Port:     a.config.DatabasePort,
		User:     a.config.DatabaseUser,
		Password: a.config.DatabasePassword,
		DBName:   a.config.DatabaseName,
	})
	if err != nil {
		return fmt.Errorf("raw pool failed: %w", err)
	}
	a.pool = pool
	defer a.pool.Close()

	// 2. Redis connection (optional)
	fmt.Println("🧠 Connecting to Redis...")
	redisClient := cache.NewRedisClient(
		a.config.RedisHost,
		a.config.RedisPort,
		a.config.RedisPassword,
	)
	if redisClient == nil {
		fmt.Println("⚠️  Redis connection failed. Report caching disabled.")
	} else {
		a.redis = redisClient
		defer a.redis.Close()
	}

	// 3. Repositories
	a.records = records.NewRepository(a.db)
	a.catalog = catalog.NewRepository(a.db)

	// 4. Live feeds
	a.broker = realtime.NewBroker()
	go a.broker.Run()
	a.hub = ws.NewHub()
	go a.hub.Run()

	// 5. HTTP server
	cacheTTL := time.Duration(a.config.ReportCacheTTLSeconds) * time.Second
	server := api.NewServer(a.records, a.catalog, a.redis, cacheTTL, a.broker, a.hub, a.pool)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", a.config.HTTPPort),
		Handler: server.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("🌐 HTTP API listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// 6. Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case sig := <-sigCh:
		log.Printf("🛑 Received %v, shutting down...", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}

	log.Println("✅ Shutdown complete")
	return nil
}
