// Package catalog handles the storefront side of the database: product
// listing and lookup plus click/purchase event writes.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shopsight/database"
	models "shopsight/database/models_pkg"

	"gorm.io/gorm"
)

// Sort modes accepted by ListProducts.
const (
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
)

// Repository handles catalog reads and event writes
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new catalog repository
func NewRepository(db *database.Database) *Repository {
	return &Repository{db: db.DB()}
}

// ProductListing is a catalog row annotated with its click count.
type ProductListing struct {
	models.Product
	Clicks int64 `json:"clicks"`
}

// ListProducts returns the catalog filtered by search term and category.
// Default ordering is click count descending, matching the storefront's
// "most popular first" view.
func (r *Repository) ListProducts(ctx context.Context, q, category, sort string) ([]ProductListing, error) {
	query := r.db.WithContext(ctx).
		Table("products").
		Select("products.*, count(click_logs.id) AS clicks").
		Joins("LEFT JOIN click_logs ON click_logs.product_id = products.id").
		Group("products.id")

	if q != "" {
		like := "%" + q + "%"
		query = query.Where("products.name ILIKE ? OR products.category ILIKE ?", like, like)
	}
	if category != "" {
		query = query.Where("products.category = ?", category)
	}

	switch sort {
	case SortPriceAsc:
		query = query.Order("products.price ASC")
	case SortPriceDesc:
		query = query.Order("products.price DESC")
	default:
		query = query.Order("clicks DESC")
	}

	var listings []ProductListing
	if err := query.Scan(&listings).Error; err != nil {
		return nil, fmt.Errorf("ListProducts: %w", err)
	}
	return listings, nil
}

// GetProduct retrieves a single product, nil when not found.
func (r *Repository) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetProduct: %w", err)
	}
	return &product, nil
}

// Categories returns the distinct product categories for the sidebar.
func (r *Repository) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Distinct("category").
		Order("category").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, fmt.Errorf("Categories: %w", err)
	}
	return categories, nil
}

// RecordClick appends a click event
func (r *Repository) RecordClick(ctx context.Context, userID, productID int64) error {
	click := models.ClickLog{
		UserID:    userID,
		ProductID: productID,
		Timestamp: time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&click).Error; err != nil {
		return fmt.Errorf("RecordClick: %w", err)
	}
	return nil
}

// RecordPurchase appends a purchase event and returns the stored row.
func (r *Repository) RecordPurchase(ctx context.Context, userID, productID int64, color string) (*models.PurchaseLog, error) {
	purchase := models.PurchaseLog{
		UserID:        userID,
		ProductID:     productID,
		SelectedColor: color,
		Timestamp:     time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&purchase).Error; err != nil {
		return nil, fmt.Errorf("RecordPurchase: %w", err)
	}
	return &purchase, nil
}
