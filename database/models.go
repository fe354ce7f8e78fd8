// Package database provides database connection management for the
// shopsight analytics service.
//
// This package includes:
//   - GORM connection management against PostgreSQL
//   - Schema initialization via AutoMigrate
//   - A raw database/sql pool (connection.go) used by the seeder and the
//     health probe
//
// All data models (User, Product, ClickLog, PurchaseLog) are defined in the
// models_pkg package to avoid circular import dependencies.
package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	models "shopsight/database/models_pkg"
)

// Database holds the GORM database connection and provides access to the
// underlying DB instance. It serves as the central connection point for all
// repository subpackages.
type Database struct {
	db *gorm.DB
}

// DB returns the underlying GORM database instance for direct access when needed.
func (d *Database) DB() *gorm.DB {
	return d.db
}

// Connect establishes database connection using GORM
func Connect(host string, port int, dbname, user, password string) (*Database, error) {
	dsn := fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=disable",
		host, port, dbname, user, password)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // Silent logging for production
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Database{db: db}, nil
}

// InitSchema creates or updates the tables for all models.
func (d *Database) InitSchema() error {
	if err := d.db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.ClickLog{},
		&models.PurchaseLog{},
	); err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}
	return nil
}

// Close closes the database connection
func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Backward-style aliases so callers outside database/ do not need to import
// models_pkg directly.
type User = models.User
type Product = models.Product
type ClickLog = models.ClickLog
type PurchaseLog = models.PurchaseLog
