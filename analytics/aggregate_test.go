package analytics

import (
	"testing"
	"time"
)

func TestAggregateDaily(t *testing.T) {
	// Out-of-order input across three days, one day in the middle empty.
	purchases := []PurchaseRecord{
		{UserID: 1, ProductName: "Bot", Timestamp: testTime(3)},
		{UserID: 2, ProductName: "Bot", Timestamp: testTime(1)},
		{UserID: 1, ProductName: "Kot Ceket", Timestamp: testTime(3)},
		{UserID: 1, ProductName: "Bot", Timestamp: testTime(3)},
		{UserID: 3, ProductName: "Bot", Timestamp: testTime(1)},
	}

	buckets := AggregateDaily(purchases)

	if len(buckets) != 2 {
		t.Fatalf("got %d buckets, want 2 (no bucket for empty days)", len(buckets))
	}
	if buckets[0].Date != testDay(1) || buckets[1].Date != testDay(3) {
		t.Errorf("dates = [%s, %s], want ascending [%s, %s]",
			buckets[0].Date, buckets[1].Date, testDay(1), testDay(3))
	}
	if buckets[0].Total != 2 || buckets[1].Total != 3 {
		t.Errorf("totals = [%d, %d], want [2, 3]", buckets[0].Total, buckets[1].Total)
	}

	day3 := buckets[1]
	if day3.Users.Count(1) != 3 {
		t.Errorf("user 1 count on day 3 = %d, want 3", day3.Users.Count(1))
	}
	if day3.Products.Count("Bot") != 2 || day3.Products.Count("Kot Ceket") != 1 {
		t.Errorf("product counts = Bot:%d Kot Ceket:%d, want 2 and 1",
			day3.Products.Count("Bot"), day3.Products.Count("Kot Ceket"))
	}
}

func TestAggregateDailyTruncatesToCalendarDay(t *testing.T) {
	late := testBase.Add(13 * time.Hour) // 23:00 same day
	purchases := []PurchaseRecord{
		{UserID: 1, Timestamp: testBase},
		{UserID: 2, Timestamp: late},
	}

	buckets := AggregateDaily(purchases)
	if len(buckets) != 1 {
		t.Fatalf("got %d buckets, want 1", len(buckets))
	}
	if buckets[0].Total != 2 {
		t.Errorf("total = %d, want 2", buckets[0].Total)
	}
}

func TestAggregateDailyEmpty(t *testing.T) {
	if buckets := AggregateDaily(nil); len(buckets) != 0 {
		t.Errorf("got %d buckets from empty input, want 0", len(buckets))
	}
}

func TestAggregateDailySkipsUnnamedProducts(t *testing.T) {
	purchases := []PurchaseRecord{
		{UserID: 1, ProductName: "", Timestamp: testTime(1)},
		{UserID: 1, ProductName: "Bot", Timestamp: testTime(1)},
	}

	buckets := AggregateDaily(purchases)
	if buckets[0].Total != 2 {
		t.Errorf("total = %d, want 2 (unnamed purchase still counts)", buckets[0].Total)
	}
	if buckets[0].Products.Len() != 1 {
		t.Errorf("product counter has %d keys, want 1", buckets[0].Products.Len())
	}
}
