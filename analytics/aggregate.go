package analytics

import "sort"

// DateLayout is the calendar-day key format used throughout the pipeline.
const DateLayout = "2006-01-02"

// DailyBucket aggregates one calendar day of purchases. Users counts
// purchases per user id (the whale lookup), Products counts purchases per
// product name (the dominant-product lookup on flagged days).
type DailyBucket struct {
	Date     string
	Total    int
	Users    *Counter[int64]
	Products *Counter[string]
}

// AggregateDaily groups purchases by calendar day, UTC-naive, and returns
// the buckets sorted ascending by date. Days with no purchases produce no
// bucket. Pure function of its input.
func AggregateDaily(purchases []PurchaseRecord) []DailyBucket {
	byDate := make(map[string]*DailyBucket)
	for _, p := range purchases {
		date := p.Timestamp.Format(DateLayout)
		bucket, ok := byDate[date]
		if !ok {
			bucket = &DailyBucket{
				Date:     date,
				Users:    NewCounter[int64](),
				Products: NewCounter[string](),
			}
			byDate[date] = bucket
		}
		bucket.Total++
		bucket.Users.Add(p.UserID)
		if p.ProductName != "" {
			bucket.Products.Add(p.ProductName)
		}
	}

	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	buckets := make([]DailyBucket, 0, len(dates))
	for _, date := range dates {
		buckets = append(buckets, *byDate[date])
	}
	return buckets
}
