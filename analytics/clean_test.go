package analytics

import (
	"reflect"
	"testing"
)

func TestCleanTotalsSubtractsWhaleExcess(t *testing.T) {
	purchases := spreadPurchases([]int{5, 5, 5, 5, 5, 5, 5, 5, 5, 10})
	purchases = append(purchases, whalePurchases(10, 42, 95, "iPhone 15")...)

	det := Detect(AggregateDaily(purchases), DashboardPolicy)
	clean := CleanTotals(det)

	want := []int{5, 5, 5, 5, 5, 5, 5, 5, 5, 10}
	if !reflect.DeepEqual(clean, want) {
		t.Errorf("clean totals = %v, want %v", clean, want)
	}

	// Cleaned total = raw total - whale excess, never negative.
	for i, c := range clean {
		if c < 0 {
			t.Errorf("day %d cleaned to negative %d", i, c)
		}
		if c > det.Counts[i] {
			t.Errorf("day %d cleaned total %d exceeds raw %d", i, c, det.Counts[i])
		}
	}
}

func TestCleanTotalsNoFlags(t *testing.T) {
	det := Detect(AggregateDaily(spreadPurchases([]int{5, 5, 5, 5, 100})), DashboardPolicy)

	clean := CleanTotals(det)
	if !reflect.DeepEqual(clean, det.Counts) {
		t.Errorf("with no flagged days clean = %v, want raw %v", clean, det.Counts)
	}
}

func TestExcludeBlacklistedSameDayOnly(t *testing.T) {
	// User 5 buys three times on day 1 and once on day 2; only day 1 is
	// blacklisted for them.
	purchases := []PurchaseRecord{
		{UserID: 5, Username: "user5", Timestamp: testTime(1)},
		{UserID: 6, Username: "user6", Timestamp: testTime(1)},
		{UserID: 5, Username: "user5", Timestamp: testTime(1)},
		{UserID: 5, Username: "user5", Timestamp: testTime(1)},
		{UserID: 5, Username: "user5", Timestamp: testTime(2)},
	}
	blacklist := Blacklist{
		{UserID: 5, Date: testDay(1)}: {},
	}

	clean := ExcludeBlacklisted(purchases, blacklist)

	if len(clean) != 2 {
		t.Fatalf("got %d surviving purchases, want 2", len(clean))
	}
	// Relative order preserved: user 6 on day 1 first, then user 5 day 2.
	if clean[0].UserID != 6 {
		t.Errorf("first survivor user = %d, want 6", clean[0].UserID)
	}
	if clean[1].UserID != 5 || clean[1].Timestamp.Format(DateLayout) != testDay(2) {
		t.Errorf("user 5's other-day purchase was not retained: %+v", clean[1])
	}
}

func TestExcludeBlacklistedIdempotent(t *testing.T) {
	purchases := spreadPurchases([]int{3, 3})
	purchases = append(purchases, whalePurchases(1, 9, 4, "Bot")...)
	blacklist := Blacklist{
		{UserID: 9, Date: testDay(1)}: {},
	}

	once := ExcludeBlacklisted(purchases, blacklist)
	twice := ExcludeBlacklisted(once, blacklist)

	if !reflect.DeepEqual(once, twice) {
		t.Error("re-cleaning with the same blacklist changed the result")
	}
}

func TestExcludeBlacklistedEmptyBlacklist(t *testing.T) {
	purchases := spreadPurchases([]int{2, 2})

	clean := ExcludeBlacklisted(purchases, Blacklist{})
	if !reflect.DeepEqual(clean, purchases) {
		t.Error("empty blacklist should leave the purchase set unchanged")
	}
}
