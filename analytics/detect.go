package analytics

import "math"

// Detection constants, not exposed as configuration: the threshold is
// mean + sigmaMultiplier*stdev, with a flat margin replacing the sigma
// term when the day counts have no spread.
const (
	sigmaMultiplier = 2.0

	dashboardFallbackMargin = 10.0
	productFallbackMargin   = 5.0
)

// Policy selects the outlier rules for a call site. The dashboard and the
// product page evolved different margins and an extra concentration check;
// both behaviors are kept, isolated here so a future unification is a
// one-line change.
type Policy struct {
	// FallbackMargin is added to the mean when stdev is zero.
	FallbackMargin float64
	// RequireConcentration reclassifies a flagged day as normal unless the
	// whale's own count also exceeds twice the mean. Guards against days
	// whose total is anomalous but whose buying is spread across users.
	RequireConcentration bool
}

// DashboardPolicy is the full-dataset detection policy.
var DashboardPolicy = Policy{FallbackMargin: dashboardFallbackMargin}

// ProductPolicy is the single-product detection policy.
var ProductPolicy = Policy{FallbackMargin: productFallbackMargin, RequireConcentration: true}

// Whale is a flagged day's dominant buyer and the quantity to subtract.
type Whale struct {
	Date            string
	UserID          int64
	Excess          int // the whale's full purchase count that day
	DominantProduct string
}

// BlacklistKey identifies one whale contribution: all of this user's
// purchases on this date are excluded from segment, category and
// popularity reports.
type BlacklistKey struct {
	UserID int64
	Date   string
}

// Blacklist is the set of whale (user, day) pairs for one computation.
type Blacklist map[BlacklistKey]struct{}

// Detection is the outcome of outlier analysis over a bucket sequence.
// Dates, Counts and Outliers are index-aligned; Outliers carries the raw
// total on flagged days and nil elsewhere, the shape the charts expect.
type Detection struct {
	Threshold float64
	Mean      float64
	Stdev     float64
	Dates     []string
	Counts    []int
	Outliers  []*int
	Whales    []Whale
	Blacklist Blacklist
}

// Detect computes the anomaly threshold over per-day totals and, for each
// day exceeding it, identifies the whale. Never fails: an empty bucket
// sequence yields an empty detection.
func Detect(buckets []DailyBucket, pol Policy) Detection {
	det := Detection{
		Dates:     make([]string, 0, len(buckets)),
		Counts:    make([]int, 0, len(buckets)),
		Outliers:  make([]*int, 0, len(buckets)),
		Whales:    []Whale{},
		Blacklist: make(Blacklist),
	}
	if len(buckets) == 0 {
		return det
	}

	for _, b := range buckets {
		det.Dates = append(det.Dates, b.Date)
		det.Counts = append(det.Counts, b.Total)
	}

	det.Mean, det.Stdev = meanStdev(det.Counts)
	if det.Stdev > 0 {
		det.Threshold = det.Mean + sigmaMultiplier*det.Stdev
	} else {
		det.Threshold = det.Mean + pol.FallbackMargin
	}

	for _, b := range buckets {
		total := b.Total
		if float64(total) <= det.Threshold {
			det.Outliers = append(det.Outliers, nil)
			continue
		}

		whaleID, whaleQty, ok := b.Users.MostCommon()
		if !ok {
			// total > 0 implies a non-empty user counter; handled anyway
			det.Outliers = append(det.Outliers, nil)
			continue
		}

		if pol.RequireConcentration && float64(whaleQty) <= sigmaMultiplier*det.Mean {
			// Anomalous total but no single dominant buyer: not a whale day.
			det.Outliers = append(det.Outliers, nil)
			continue
		}

		flagged := total
		det.Outliers = append(det.Outliers, &flagged)

		dominant, _, _ := b.Products.MostCommon()
		det.Whales = append(det.Whales, Whale{
			Date:            b.Date,
			UserID:          whaleID,
			Excess:          whaleQty,
			DominantProduct: dominant,
		})
		det.Blacklist[BlacklistKey{UserID: whaleID, Date: b.Date}] = struct{}{}
	}

	return det
}

// meanStdev returns the arithmetic mean and the Bessel-corrected sample
// standard deviation. A single observation has zero spread by definition.
func meanStdev(counts []int) (float64, float64) {
	n := len(counts)
	if n == 0 {
		return 0, 0
	}

	sum := 0
	for _, c := range counts {
		sum += c
	}
	mean := float64(sum) / float64(n)
	if n == 1 {
		return mean, 0
	}

	var ss float64
	for _, c := range counts {
		d := float64(c) - mean
		ss += d * d
	}
	return mean, math.Sqrt(ss / float64(n-1))
}
