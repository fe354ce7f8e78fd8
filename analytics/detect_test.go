package analytics

import (
	"math"
	"testing"
)

func TestDetectThresholds(t *testing.T) {
	tests := []struct {
		name          string
		counts        []int
		policy        Policy
		wantThreshold float64
		wantFlags     []bool
	}{
		{
			// One loud day is masked by the stdev it inflates
			name:          "high day below two sigma",
			counts:        []int{5, 5, 5, 5, 100},
			policy:        DashboardPolicy,
			wantThreshold: 24 + 2*42.485,
			wantFlags:     []bool{false, false, false, false, false},
		},
		{
			name:          "clear outlier day",
			counts:        []int{5, 5, 5, 5, 5, 5, 5, 5, 5, 105},
			policy:        DashboardPolicy,
			wantThreshold: 15 + 2*31.6227,
			wantFlags:     []bool{false, false, false, false, false, false, false, false, false, true},
		},
		{
			name:          "single day uses dashboard margin",
			counts:        []int{7},
			policy:        DashboardPolicy,
			wantThreshold: 17,
			wantFlags:     []bool{false},
		},
		{
			name:          "single day uses product margin",
			counts:        []int{7},
			policy:        ProductPolicy,
			wantThreshold: 12,
			wantFlags:     []bool{false},
		},
		{
			name:          "zero variance uses margin",
			counts:        []int{7, 7, 7},
			policy:        DashboardPolicy,
			wantThreshold: 17,
			wantFlags:     []bool{false, false, false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buckets := AggregateDaily(spreadPurchases(tt.counts))
			det := Detect(buckets, tt.policy)

			if math.Abs(det.Threshold-tt.wantThreshold) > 0.01 {
				t.Errorf("threshold = %.4f, want %.4f", det.Threshold, tt.wantThreshold)
			}
			if len(det.Outliers) != len(tt.wantFlags) {
				t.Fatalf("got %d outlier markers, want %d", len(det.Outliers), len(tt.wantFlags))
			}
			for i, flagged := range tt.wantFlags {
				if (det.Outliers[i] != nil) != flagged {
					t.Errorf("day %d flagged = %v, want %v", i, det.Outliers[i] != nil, flagged)
				}
			}
		})
	}
}

func TestDetectWhaleIdentification(t *testing.T) {
	// Nine quiet days of 5, then a day of 105: 95 units from one buyer
	// plus 10 from others. Mean 15, stdev ~31.62, threshold ~78.25.
	purchases := spreadPurchases([]int{5, 5, 5, 5, 5, 5, 5, 5, 5, 10})
	purchases = append(purchases, whalePurchases(10, 42, 95, "iPhone 15")...)

	buckets := AggregateDaily(purchases)
	det := Detect(buckets, DashboardPolicy)

	if len(det.Whales) != 1 {
		t.Fatalf("got %d whales, want 1", len(det.Whales))
	}
	w := det.Whales[0]
	if w.UserID != 42 {
		t.Errorf("whale user = %d, want 42", w.UserID)
	}
	if w.Excess != 95 {
		t.Errorf("whale excess = %d, want 95", w.Excess)
	}
	if w.Date != testDay(10) {
		t.Errorf("whale date = %s, want %s", w.Date, testDay(10))
	}
	if w.DominantProduct != "iPhone 15" {
		t.Errorf("dominant product = %q, want iPhone 15", w.DominantProduct)
	}

	if _, ok := det.Blacklist[BlacklistKey{UserID: 42, Date: testDay(10)}]; !ok {
		t.Error("whale (user, day) pair missing from blacklist")
	}
	if len(det.Blacklist) != 1 {
		t.Errorf("blacklist size = %d, want 1", len(det.Blacklist))
	}

	// The product policy keeps the flag too: 95 > 2*mean = 30.
	det = Detect(buckets, ProductPolicy)
	if len(det.Whales) != 1 {
		t.Errorf("product policy: got %d whales, want 1", len(det.Whales))
	}
}

func TestDetectConcentrationCheck(t *testing.T) {
	// Same anomalous total, but spread over 21 buyers: the dominant buyer
	// holds 5 units against 2*mean = 30.
	purchases := spreadPurchases([]int{5, 5, 5, 5, 5, 5, 5, 5, 5})
	for user := int64(1); user <= 21; user++ {
		purchases = append(purchases, whalePurchases(10, user, 5, "Bot")...)
	}

	buckets := AggregateDaily(purchases)

	prodDet := Detect(buckets, ProductPolicy)
	if len(prodDet.Whales) != 0 {
		t.Errorf("product policy: got %d whales, want 0 (not concentrated)", len(prodDet.Whales))
	}
	for i, o := range prodDet.Outliers {
		if o != nil {
			t.Errorf("product policy: day %d still flagged after reclassification", i)
		}
	}

	// The dashboard never applies the secondary check.
	dashDet := Detect(buckets, DashboardPolicy)
	if len(dashDet.Whales) != 1 {
		t.Errorf("dashboard policy: got %d whales, want 1", len(dashDet.Whales))
	}
}

func TestDetectTieBreakFirstSeen(t *testing.T) {
	// Two buyers share the maximum on the flagged day; the first one
	// encountered in input order must win.
	purchases := spreadPurchases([]int{3, 3, 3, 3, 3, 3, 3, 3, 3})
	purchases = append(purchases, whalePurchases(10, 7, 40, "Bot")...)
	purchases = append(purchases, whalePurchases(10, 8, 40, "Bot")...)

	det := Detect(AggregateDaily(purchases), DashboardPolicy)
	if len(det.Whales) != 1 {
		t.Fatalf("got %d whales, want 1", len(det.Whales))
	}
	if det.Whales[0].UserID != 7 {
		t.Errorf("whale user = %d, want first-seen 7", det.Whales[0].UserID)
	}
}

func TestDetectEmptyInput(t *testing.T) {
	det := Detect(nil, DashboardPolicy)
	if len(det.Dates) != 0 || len(det.Counts) != 0 || len(det.Outliers) != 0 || len(det.Whales) != 0 {
		t.Errorf("empty input produced non-empty detection: %+v", det)
	}
	if det.Blacklist == nil {
		t.Error("blacklist should be an empty set, not nil")
	}
}

func TestMeanStdev(t *testing.T) {
	tests := []struct {
		name      string
		counts    []int
		wantMean  float64
		wantStdev float64
	}{
		{"empty", nil, 0, 0},
		{"single", []int{7}, 7, 0},
		{"uniform", []int{4, 4, 4}, 4, 0},
		{"spread", []int{5, 5, 5, 5, 100}, 24, 42.4853},
		{"bessel corrected", []int{2, 4}, 3, 1.4142},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mean, stdev := meanStdev(tt.counts)
			if math.Abs(mean-tt.wantMean) > 0.0001 {
				t.Errorf("mean = %.4f, want %.4f", mean, tt.wantMean)
			}
			if math.Abs(stdev-tt.wantStdev) > 0.0001 {
				t.Errorf("stdev = %.4f, want %.4f", stdev, tt.wantStdev)
			}
		})
	}
}
