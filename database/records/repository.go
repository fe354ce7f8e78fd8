// Package records is the read-only record store adapter for the analytics
// pipeline. It fetches one immutable snapshot of purchase and click history
// per report request; the analytics package never touches the database
// itself.
package records

import (
	"context"
	"fmt"
	"time"

	"shopsight/analytics"
	"shopsight/database"
	models "shopsight/database/models_pkg"

	"gorm.io/gorm"
)

// Repository loads analytics snapshots
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new records repository
func NewRepository(db *database.Database) *Repository {
	return &Repository{db: db.DB()}
}

// purchaseRow is the flat join shape scanned from purchase_logs.
type purchaseRow struct {
	UserID        int64      `gorm:"column:user_id"`
	Username      string     `gorm:"column:username"`
	Gender        string     `gorm:"column:gender"`
	BirthDate     *time.Time `gorm:"column:birth_date"`
	City          string     `gorm:"column:city"`
	Job           string     `gorm:"column:job"`
	ProductID     int64      `gorm:"column:product_id"`
	ProductName   string     `gorm:"column:product_name"`
	Category      string     `gorm:"column:category"`
	SelectedColor string     `gorm:"column:selected_color"`
	Timestamp     time.Time  `gorm:"column:timestamp"`
}

type clickRow struct {
	UserID      int64     `gorm:"column:user_id"`
	ProductID   int64     `gorm:"column:product_id"`
	ProductName string    `gorm:"column:product_name"`
	Timestamp   time.Time `gorm:"column:timestamp"`
}

const purchaseSelect = "purchase_logs.user_id, purchase_logs.product_id, " +
	"purchase_logs.selected_color, purchase_logs.timestamp, " +
	"users.username, users.gender, users.birth_date, users.city, users.job, " +
	"products.name AS product_name, products.category"

// Snapshot fetches the full purchase and click history with the user and
// product attributes the reports join against. Rows are ordered by insert
// id so downstream tie-breaking stays deterministic. LEFT JOINs keep
// records whose user or product reference is missing; the reporting engine
// decides per chart whether such rows count.
func (r *Repository) Snapshot(ctx context.Context) (analytics.Snapshot, error) {
	snap := analytics.Snapshot{Now: time.Now().UTC()}

	var pRows []purchaseRow
	err := r.db.WithContext(ctx).
		Table("purchase_logs").
		Select(purchaseSelect).
		Joins("LEFT JOIN users ON users.id = purchase_logs.user_id").
		Joins("LEFT JOIN products ON products.id = purchase_logs.product_id").
		Order("purchase_logs.id").
		Scan(&pRows).Error
	if err != nil {
		return analytics.Snapshot{}, fmt.Errorf("Snapshot purchases: %w", err)
	}

	var cRows []clickRow
	err = r.db.WithContext(ctx).
		Table("click_logs").
		Select("click_logs.user_id, click_logs.product_id, click_logs.timestamp, products.name AS product_name").
		Joins("LEFT JOIN products ON products.id = click_logs.product_id").
		Order("click_logs.id").
		Scan(&cRows).Error
	if err != nil {
		return analytics.Snapshot{}, fmt.Errorf("Snapshot clicks: %w", err)
	}

	var products []models.Product
	if err := r.db.WithContext(ctx).Order("id").Find(&products).Error; err != nil {
		return analytics.Snapshot{}, fmt.Errorf("Snapshot products: %w", err)
	}

	snap.Purchases = make([]analytics.PurchaseRecord, 0, len(pRows))
	for _, row := range pRows {
		snap.Purchases = append(snap.Purchases, purchaseRecord(row))
	}

	snap.Clicks = make([]analytics.ClickRecord, 0, len(cRows))
	for _, row := range cRows {
		snap.Clicks = append(snap.Clicks, analytics.ClickRecord{
			UserID:      row.UserID,
			ProductID:   row.ProductID,
			ProductName: row.ProductName,
			Timestamp:   row.Timestamp,
		})
	}

	snap.Products = make([]analytics.ProductInfo, 0, len(products))
	for _, p := range products {
		snap.Products = append(snap.Products, analytics.ProductInfo{
			ID:       p.ID,
			Name:     p.Name,
			Category: p.Category,
		})
	}

	return snap, nil
}

// ProductSnapshot fetches the reduced snapshot for one product: its
// purchase history plus its total click count.
func (r *Repository) ProductSnapshot(ctx context.Context, productID int64) (analytics.ProductSnapshot, error) {
	snap := analytics.ProductSnapshot{ProductID: productID, Now: time.Now().UTC()}

	var pRows []purchaseRow
	err := r.db.WithContext(ctx).
		Table("purchase_logs").
		Select(purchaseSelect).
		Joins("LEFT JOIN users ON users.id = purchase_logs.user_id").
		Joins("LEFT JOIN products ON products.id = purchase_logs.product_id").
		Where("purchase_logs.product_id = ?", productID).
		Order("purchase_logs.id").
		Scan(&pRows).Error
	if err != nil {
		return analytics.ProductSnapshot{}, fmt.Errorf("ProductSnapshot purchases: %w", err)
	}

	var clicks int64
	err = r.db.WithContext(ctx).
		Model(&models.ClickLog{}).
		Where("product_id = ?", productID).
		Count(&clicks).Error
	if err != nil {
		return analytics.ProductSnapshot{}, fmt.Errorf("ProductSnapshot clicks: %w", err)
	}

	snap.Purchases = make([]analytics.PurchaseRecord, 0, len(pRows))
	for _, row := range pRows {
		snap.Purchases = append(snap.Purchases, purchaseRecord(row))
	}
	snap.Clicks = int(clicks)

	return snap, nil
}

func purchaseRecord(row purchaseRow) analytics.PurchaseRecord {
	return analytics.PurchaseRecord{
		UserID:      row.UserID,
		Username:    row.Username,
		Gender:      row.Gender,
		BirthDate:   row.BirthDate,
		City:        row.City,
		Job:         row.Job,
		ProductID:   row.ProductID,
		ProductName: row.ProductName,
		Category:    row.Category,
		Color:       row.SelectedColor,
		Timestamp:   row.Timestamp,
	}
}
