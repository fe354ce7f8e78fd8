package analytics

import (
	"fmt"
	"time"
)

// Test fixtures operate on a fixed January 2024 window so date strings are
// stable.
var testBase = time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

// testDay returns the bucket date string for day n (1-based).
func testDay(n int) string {
	return testBase.AddDate(0, 0, n-1).Format(DateLayout)
}

func testTime(n int) time.Time {
	return testBase.AddDate(0, 0, n-1)
}

// spreadPurchases builds one purchase per count on each day, every
// purchase from a distinct user so no single buyer dominates.
func spreadPurchases(counts []int) []PurchaseRecord {
	var purchases []PurchaseRecord
	user := int64(1000)
	for day, count := range counts {
		for i := 0; i < count; i++ {
			purchases = append(purchases, PurchaseRecord{
				UserID:    user,
				Username:  fmt.Sprintf("user%d", user),
				Gender:    "M",
				City:      "İstanbul",
				Job:       "Mühendis",
				ProductID: 1,
				Timestamp: testTime(day + 1),
			})
			user++
		}
	}
	return purchases
}

// whalePurchases builds count purchases by a single user on day n.
func whalePurchases(day int, userID int64, count int, productName string) []PurchaseRecord {
	purchases := make([]PurchaseRecord, 0, count)
	for i := 0; i < count; i++ {
		purchases = append(purchases, PurchaseRecord{
			UserID:      userID,
			Username:    fmt.Sprintf("user%d", userID),
			Gender:      "M",
			City:        "Ankara",
			Job:         "Doktor",
			ProductID:   1,
			ProductName: productName,
			Timestamp:   testTime(day),
		})
	}
	return purchases
}

func birthday(year, month, day int) *time.Time {
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return &t
}
