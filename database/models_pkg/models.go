// Package models defines the ORM data models for the shopsight demo shop.
//
// Models live in their own package (rather than in database) so the
// repository subpackages under database/ can share them without circular
// imports.
//
// Ownership note: ClickLog and PurchaseLog rows are immutable once written.
// A purchase has no quantity column; repeated purchases are repeated rows,
// which is what makes the per-day per-user counting in the analytics
// package meaningful.
package models

import "time"

// Gender values stored on User. The presentation layer maps these to the
// Turkish display labels (Erkek/Kadın) expected by the dashboard charts.
const (
	GenderMale   = "M"
	GenderFemale = "F"
)

// AdminUsername is the seed admin account, excluded from the gender
// distribution chart.
const AdminUsername = "admin"

// User represents a registered shopper.
//
// BirthDate is nullable: the age used by demographic reports is derived at
// read time by analytics.Age, which falls back to a default when the birth
// date is absent.
type User struct {
	ID           int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string     `gorm:"size:100;uniqueIndex;not null" json:"username"`
	PasswordHash string     `gorm:"size:200;not null" json:"-"`
	IsAdmin      bool       `gorm:"default:false" json:"is_admin"`
	Gender       string     `gorm:"size:10" json:"gender"` // M, F
	BirthDate    *time.Time `json:"birth_date,omitempty"`
	Education    string     `gorm:"size:50" json:"education"`
	City         string     `gorm:"size:50" json:"city"`
	Job          string     `gorm:"size:50" json:"job"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// Product represents a catalog item.
type Product struct {
	ID       int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string  `gorm:"size:200;not null" json:"name"`
	Category string  `gorm:"size:100;index;not null" json:"category"`
	Price    float64 `gorm:"type:decimal(15,2);not null" json:"price"`
}

// TableName specifies the table name for Product
func (Product) TableName() string {
	return "products"
}

// ClickLog records a single product page view.
type ClickLog struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"index" json:"user_id"`
	ProductID int64     `gorm:"index" json:"product_id"`
	Timestamp time.Time `gorm:"index;not null" json:"timestamp"`
}

// TableName specifies the table name for ClickLog
func (ClickLog) TableName() string {
	return "click_logs"
}

// PurchaseLog records a single unit purchase in a chosen color.
type PurchaseLog struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        int64     `gorm:"index" json:"user_id"`
	ProductID     int64     `gorm:"index" json:"product_id"`
	SelectedColor string    `gorm:"size:50" json:"selected_color"`
	Timestamp     time.Time `gorm:"index;not null" json:"timestamp"`
}

// TableName specifies the table name for PurchaseLog
func (PurchaseLog) TableName() string {
	return "purchase_logs"
}
