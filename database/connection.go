package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// Pool wraps a raw database/sql connection. The seeder uses it for batched
// inserts and the health endpoint uses it for liveness pings; everything
// else goes through GORM.
type Pool struct {
	conn *sql.DB
}

// PoolConfig holds raw connection configuration
type PoolConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// NewPool creates a new raw database connection pool
func NewPool(cfg PoolConfig) (*Pool, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName,
	)

	conn, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Modest pool: the dashboard recomputes per request but all heavy reads
	// run through GORM, the raw pool only seeds and pings.
	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(5 * time.Minute)
	conn.SetConnMaxIdleTime(2 * time.Minute)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("✅ Raw database pool established")

	return &Pool{conn: conn}, nil
}

// Close closes the raw connection pool
func (p *Pool) Close() error {
	if p.conn != nil {
		log.Println("📡 Closing raw database pool...")
		return p.conn.Close()
	}
	return nil
}

// Ping checks if the database connection is alive
func (p *Pool) Ping() error {
	return p.conn.Ping()
}

// Conn returns the underlying sql.DB connection
func (p *Pool) Conn() *sql.DB {
	return p.conn
}
