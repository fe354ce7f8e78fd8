// Package seed generates and loads the synthetic demo dataset: a product
// catalog, a population of shoppers, and a click+purchase history spread
// over the past weeks. An optional whale day concentrates a burst of
// purchases on a single buyer so the dashboard has something to flag.
package seed

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"shopsight/analytics"
	"shopsight/database"
	models "shopsight/database/models_pkg"
)

// Options controls dataset generation. The same Options always generate
// the same Dataset.
type Options struct {
	Users    int   // number of shoppers, admin not included
	Days     int   // history window ending today
	RandSeed int64 // rng seed
	Whale    bool  // inject a whale day
}

// DefaultOptions mirrors the original demo seed: 80 users over 30 days.
func DefaultOptions() Options {
	return Options{Users: 80, Days: 30, RandSeed: 1}
}

// Dataset is a fully generated demo database in memory.
type Dataset struct {
	Products  []models.Product
	Users     []models.User
	Clicks    []models.ClickLog
	Purchases []models.PurchaseLog
}

var catalogSeed = []struct {
	name     string
	category string
	price    float64
}{
	{"iPhone 15", "Elektronik", 50000}, {"MacBook Air", "Elektronik", 45000},
	{"iPad Pro", "Elektronik", 35000}, {"Sony Kulaklık", "Elektronik", 9000},
	{"Oyun PC", "Elektronik", 60000}, {"Samsung S24", "Elektronik", 55000},
	{"Yazlık Elbise", "Giyim", 900}, {"Kot Ceket", "Giyim", 1200},
	{"Keten Pantolon", "Giyim", 800}, {"İpek Şal", "Giyim", 600},
	{"Deri Mont", "Giyim", 4000}, {"Spor Tayt", "Giyim", 500},
	{"Nike Air", "Ayakkabı", 4500}, {"Adidas Superstar", "Ayakkabı", 3800},
	{"Topuklu Ayakkabı", "Ayakkabı", 1500}, {"Bot", "Ayakkabı", 2000},
	{"Koşu Ayakkabısı", "Ayakkabı", 3000},
	{"Kahve Makinesi", "Ev", 5000}, {"Robot Süpürge", "Ev", 15000},
	{"Kitaplık", "Ev", 2500}, {"Çalışma Masası", "Ev", 3500},
}

var jobsByEducation = map[string][]string{
	"Lise":   {"Öğrenci", "Garson", "Kasiyer"},
	"Lisans": {"Mühendis", "Öğretmen", "Yazılımcı"},
	"Yuksek": {"Doktor", "Avukat", "Akademisyen"},
}

var educationTiers = []string{"Lise", "Lisans", "Yuksek"}

var cities = []string{"İstanbul", "Ankara", "İzmir", "Bursa", "Antalya"}

// Whale day shape: one buyer hammering one product hard enough to clear
// the dashboard threshold.
const whalePurchaseCount = 50

// Generate builds the demo dataset. Pure function of its options.
func Generate(opts Options) Dataset {
	rng := rand.New(rand.NewSource(opts.RandSeed))
	now := time.Now().UTC().Truncate(24 * time.Hour)

	var ds Dataset

	for i, p := range catalogSeed {
		ds.Products = append(ds.Products, models.Product{
			ID:       int64(i + 1),
			Name:     p.name,
			Category: p.category,
			Price:    p.price,
		})
	}

	adminBirth := time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)
	ds.Users = append(ds.Users, models.User{
		ID:           1,
		Username:     models.AdminUsername,
		PasswordHash: hashPassword("123"),
		IsAdmin:      true,
		Gender:       models.GenderMale,
		BirthDate:    &adminBirth,
		Education:    "Yuksek",
		City:         "İstanbul",
		Job:          "Yönetici",
	})

	for i := 0; i < opts.Users; i++ {
		edu := educationTiers[rng.Intn(len(educationTiers))]
		gender := models.GenderMale
		if rng.Intn(2) == 1 {
			gender = models.GenderFemale
		}
		birth := time.Date(1980+rng.Intn(26), 1, 1, 0, 0, 0, 0, time.UTC)
		ds.Users = append(ds.Users, models.User{
			ID:           int64(i + 2),
			Username:     fmt.Sprintf("user%d", i),
			PasswordHash: hashPassword("123"),
			Gender:       gender,
			BirthDate:    &birth,
			Education:    edu,
			City:         cities[rng.Intn(len(cities))],
			Job:          jobsByEducation[edu][rng.Intn(len(jobsByEducation[edu]))],
		})
	}

	clickID := int64(1)
	purchaseID := int64(1)

	// Every shopper buys 5-10 products, each preceded by a page view.
	for _, u := range ds.Users[1:] {
		count := 5 + rng.Intn(6)
		for j := 0; j < count; j++ {
			product := ds.Products[rng.Intn(len(ds.Products))]
			ts := randomTimestamp(rng, now, opts.Days)

			ds.Clicks = append(ds.Clicks, models.ClickLog{
				ID:        clickID,
				UserID:    u.ID,
				ProductID: product.ID,
				Timestamp: ts.Add(-5 * time.Minute),
			})
			clickID++

			ds.Purchases = append(ds.Purchases, models.PurchaseLog{
				ID:            purchaseID,
				UserID:        u.ID,
				ProductID:     product.ID,
				SelectedColor: analytics.AllColors[rng.Intn(len(analytics.AllColors))],
				Timestamp:     ts,
			})
			purchaseID++
		}
	}

	if opts.Whale && len(ds.Users) > 1 {
		whale := ds.Users[1]
		product := ds.Products[0]
		day := now.AddDate(0, 0, -2).Add(12 * time.Hour)
		for j := 0; j < whalePurchaseCount; j++ {
			ds.Purchases = append(ds.Purchases, models.PurchaseLog{
				ID:            purchaseID,
				UserID:        whale.ID,
				ProductID:     product.ID,
				SelectedColor: analytics.AllColors[rng.Intn(len(analytics.AllColors))],
				Timestamp:     day.Add(time.Duration(j) * time.Minute),
			})
			purchaseID++
		}
	}

	return ds
}

// Insert loads a dataset through the raw pool in batched multi-row
// inserts, then realigns the id sequences.
func Insert(ctx context.Context, pool *database.Pool, ds Dataset) error {
	conn := pool.Conn()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"purchase_logs", "click_logs", "users", "products"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("seed clear %s: %w", table, err)
		}
	}

	for _, p := range ds.Products {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO products (id, name, category, price) VALUES ($1, $2, $3, $4)",
			p.ID, p.Name, p.Category, p.Price)
		if err != nil {
			return fmt.Errorf("seed product %q: %w", p.Name, err)
		}
	}

	for _, u := range ds.Users {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO users (id, username, password_hash, is_admin, gender, birth_date, education, city, job) "+
				"VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)",
			u.ID, u.Username, u.PasswordHash, u.IsAdmin, u.Gender, u.BirthDate, u.Education, u.City, u.Job)
		if err != nil {
			return fmt.Errorf("seed user %q: %w", u.Username, err)
		}
	}

	if err := insertClicks(ctx, tx, ds.Clicks); err != nil {
		return err
	}
	if err := insertPurchases(ctx, tx, ds.Purchases); err != nil {
		return err
	}

	// Explicit ids bypass the sequences; realign them.
	for _, table := range []string{"products", "users", "click_logs", "purchase_logs"} {
		query := fmt.Sprintf(
			"SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE(max(id), 1)) FROM %s", table, table)
		if _, err := tx.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("seed sequence %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}
	return nil
}

const insertBatchSize = 500

func insertClicks(ctx context.Context, tx *sql.Tx, clicks []models.ClickLog) error {
	for start := 0; start < len(clicks); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(clicks) {
			end = len(clicks)
		}
		batch := clicks[start:end]

		var sb strings.Builder
		sb.WriteString("INSERT INTO click_logs (id, user_id, product_id, timestamp) VALUES ")
		args := make([]interface{}, 0, len(batch)*4)
		for i, c := range batch {
			if i > 0 {
				sb.WriteString(", ")
			}
			n := i * 4
			fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d)", n+1, n+2, n+3, n+4)
			args = append(args, c.ID, c.UserID, c.ProductID, c.Timestamp)
		}

		if _, err := tx.ExecContext(ctx, sb.String(), args...); err != nil {
			return fmt.Errorf("seed clicks batch: %w", err)
		}
	}
	return nil
}

func insertPurchases(ctx context.Context, tx *sql.Tx, purchases []models.PurchaseLog) error {
	for start := 0; start < len(purchases); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(purchases) {
			end = len(purchases)
		}
		batch := purchases[start:end]

		var sb strings.Builder
		sb.WriteString("INSERT INTO purchase_logs (id, user_id, product_id, selected_color, timestamp) VALUES ")
		args := make([]interface{}, 0, len(batch)*5)
		for i, p := range batch {
			if i > 0 {
				sb.WriteString(", ")
			}
			n := i * 5
			fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d)", n+1, n+2, n+3, n+4, n+5)
			args = append(args, p.ID, p.UserID, p.ProductID, p.SelectedColor, p.Timestamp)
		}

		if _, err := tx.ExecContext(ctx, sb.String(), args...); err != nil {
			return fmt.Errorf("seed purchases batch: %w", err)
		}
	}
	return nil
}

// randomTimestamp picks a moment within the trailing window, leaving the
// early morning free so the click logged 5 minutes earlier stays on the
// same calendar day.
func randomTimestamp(rng *rand.Rand, now time.Time, days int) time.Time {
	if days < 1 {
		days = 1
	}
	day := now.AddDate(0, 0, -rng.Intn(days))
	return day.Add(time.Duration(8+rng.Intn(14)) * time.Hour).
		Add(time.Duration(rng.Intn(60)) * time.Minute)
}

// hashPassword produces the stored credential for demo accounts. Session
// auth lives outside this service; the hash only has to be stable.
func hashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return "sha256$" + hex.EncodeToString(sum[:])
}
