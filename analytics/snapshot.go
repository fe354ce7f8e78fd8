// Package analytics implements the whale detection and segment cleaning
// pipeline behind the admin dashboard and the per-product detail page.
//
// The pipeline is a pure transformation: a caller fetches an immutable
// Snapshot once per request (see database/records), feeds it in, and gets
// chart-ready report structures back. There is no I/O, no shared state and
// no persisted derived data in this package.
//
// Pipeline stages: AggregateDaily groups purchases into per-day buckets,
// Detect flags statistically anomalous days and identifies the dominant
// buyer ("whale") on each, CleanTotals / ExcludeBlacklisted remove the
// whale contribution, and the report builders recompute every chart from
// the cleaned set.
package analytics

import "time"

// DefaultAge is used when a user's birth date is absent. This fallback is
// deliberate, not an error: demo accounts without a birth date still count
// in demographic averages.
const DefaultAge = 25

// AllColors lists the selectable product colors, in catalog order. Color
// distribution charts always carry every color, zero-filled.
var AllColors = []string{"Siyah", "Beyaz", "Mavi", "Kırmızı", "Yeşil"}

// PurchaseRecord is one unit purchase flattened with the user and product
// attributes the reports join against. Username/ProductName are empty when
// the referenced row no longer exists.
type PurchaseRecord struct {
	UserID      int64
	Username    string
	Gender      string // M, F
	BirthDate   *time.Time
	City        string
	Job         string
	ProductID   int64
	ProductName string
	Category    string
	Color       string
	Timestamp   time.Time
}

// ClickRecord is one product page view.
type ClickRecord struct {
	UserID      int64
	ProductID   int64
	ProductName string
	Timestamp   time.Time
}

// ProductInfo carries the catalog attributes needed for report labels.
type ProductInfo struct {
	ID       int64
	Name     string
	Category string
}

// Snapshot is the full record set for one dashboard computation. Each
// request operates on its own snapshot; nothing here is shared or mutated.
type Snapshot struct {
	Purchases []PurchaseRecord
	Clicks    []ClickRecord
	Products  []ProductInfo
	Now       time.Time // "today" for age derivation
}

// ProductSnapshot is the reduced record set for one product's detail page.
type ProductSnapshot struct {
	ProductID int64
	Purchases []PurchaseRecord
	Clicks    int
	Now       time.Time
}

// Age derives a user's age from their birth date relative to today,
// subtracting one when the birthday has not yet passed this year. Returns
// DefaultAge when the birth date is absent.
func Age(birth *time.Time, today time.Time) int {
	if birth == nil {
		return DefaultAge
	}
	age := today.Year() - birth.Year()
	if today.Month() < birth.Month() ||
		(today.Month() == birth.Month() && today.Day() < birth.Day()) {
		age--
	}
	return age
}
