package analytics

import (
	"fmt"
	"reflect"
	"testing"
	"time"
)

// dashboardFixture builds nine quiet days of five purchases followed by a
// whale day: 95 units from user 42 plus five each from two regular buyers.
func dashboardFixture() Snapshot {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	snap := Snapshot{
		Now: now,
		Products: []ProductInfo{
			{ID: 1, Name: "iPhone 15", Category: "Elektronik"},
			{ID: 2, Name: "Bot", Category: "Ayakkabı"},
			{ID: 3, Name: "Kitaplık", Category: "Ev"},
		},
	}

	// Quiet days: the same five İstanbul engineers, one Bot each.
	for day := 1; day <= 9; day++ {
		for u := int64(100); u < 105; u++ {
			snap.Purchases = append(snap.Purchases, PurchaseRecord{
				UserID: u, Username: fmt.Sprintf("user%d", u),
				Gender: "M", City: "İstanbul", Job: "Mühendis",
				ProductID: 2, ProductName: "Bot", Category: "Ayakkabı",
				Timestamp: testTime(day),
			})
		}
	}

	// Whale day.
	snap.Purchases = append(snap.Purchases, whalePurchases(10, 42, 95, "iPhone 15")...)
	for i := 0; i < 5; i++ {
		snap.Purchases = append(snap.Purchases, PurchaseRecord{
			UserID: 2, Username: "user2",
			Gender: "F", City: "İstanbul", Job: "Mühendis",
			BirthDate: birthday(2004, 1, 1),
			ProductID: 2, ProductName: "Bot", Category: "Ayakkabı",
			Timestamp: testTime(10),
		})
		snap.Purchases = append(snap.Purchases, PurchaseRecord{
			UserID: 3, Username: "user3",
			Gender: "M", City: "Ankara", Job: "Doktor",
			BirthDate: birthday(1994, 1, 1),
			ProductID: 3, ProductName: "Kitaplık", Category: "Ev",
			Timestamp: testTime(10),
		})
	}

	// Clicks: iPhone 7, Bot 5, Kitaplık 2.
	for i := 0; i < 7; i++ {
		snap.Clicks = append(snap.Clicks, ClickRecord{UserID: 1, ProductID: 1, ProductName: "iPhone 15"})
	}
	for i := 0; i < 5; i++ {
		snap.Clicks = append(snap.Clicks, ClickRecord{UserID: 1, ProductID: 2, ProductName: "Bot"})
	}
	for i := 0; i < 2; i++ {
		snap.Clicks = append(snap.Clicks, ClickRecord{UserID: 1, ProductID: 3, ProductName: "Kitaplık"})
	}

	return snap
}

func TestBuildDashboardOutlierSection(t *testing.T) {
	report := BuildDashboard(dashboardFixture())
	out := report.Outlier

	if len(out.Labels) != 10 {
		t.Fatalf("got %d days, want 10", len(out.Labels))
	}
	if out.Data[9] != 105 {
		t.Errorf("whale day total = %d, want 105", out.Data[9])
	}
	if out.Outliers[9] == nil || *out.Outliers[9] != 105 {
		t.Error("whale day not flagged with its raw total")
	}
	for i := 0; i < 9; i++ {
		if out.Outliers[i] != nil {
			t.Errorf("quiet day %d flagged", i)
		}
		if out.CleanData[i] != out.Data[i] {
			t.Errorf("quiet day %d clean %d != raw %d", i, out.CleanData[i], out.Data[i])
		}
	}
	if out.CleanData[9] != 10 {
		t.Errorf("whale day clean total = %d, want 10", out.CleanData[9])
	}

	if len(out.Details) != 1 {
		t.Fatalf("got %d detail rows, want 1", len(out.Details))
	}
	d := out.Details[0]
	if d.TotalSales != 105 || d.OutlierQty != 95 {
		t.Errorf("detail totals = (%d, %d), want (105, 95)", d.TotalSales, d.OutlierQty)
	}
	if d.ProdName != "iPhone 15" || d.ProdID != 1 || d.Category != "Elektronik" {
		t.Errorf("detail product = (%q, %d, %q), want resolved iPhone 15", d.ProdName, d.ProdID, d.Category)
	}
}

func TestBuildDashboardPopularity(t *testing.T) {
	report := BuildDashboard(dashboardFixture())
	pop := report.Pop

	wantLabels := []string{"iPhone 15", "Bot", "Kitaplık"}
	if !reflect.DeepEqual(pop.Labels, wantLabels) {
		t.Errorf("labels = %v, want %v (click order)", pop.Labels, wantLabels)
	}
	if !reflect.DeepEqual(pop.Clicks, []int{7, 5, 2}) {
		t.Errorf("clicks = %v, want [7 5 2]", pop.Clicks)
	}
	// The whale bought 95 iPhones, all excluded by the blacklist cut.
	if !reflect.DeepEqual(pop.Purchases, []int{0, 50, 5}) {
		t.Errorf("cleaned purchases = %v, want [0 50 5]", pop.Purchases)
	}
}

func TestBuildDashboardGender(t *testing.T) {
	report := BuildDashboard(dashboardFixture())

	if !reflect.DeepEqual(report.Gender.Labels, []string{"Erkek", "Kadın"}) {
		t.Errorf("labels = %v", report.Gender.Labels)
	}
	// Distinct purchasers in the cleaned set: five engineers + user3 male,
	// user2 female. The whale's only purchases are blacklisted.
	if !reflect.DeepEqual(report.Gender.Data, []int{6, 1}) {
		t.Errorf("gender data = %v, want [6 1]", report.Gender.Data)
	}
}

func TestBuildDashboardGenderExcludesAdmin(t *testing.T) {
	snap := dashboardFixture()
	snap.Purchases = append(snap.Purchases, PurchaseRecord{
		UserID: 1, Username: "admin", Gender: "M",
		City: "İstanbul", Job: "Yönetici",
		ProductID: 2, ProductName: "Bot", Category: "Ayakkabı",
		Timestamp: testTime(3),
	})

	report := BuildDashboard(snap)
	if !reflect.DeepEqual(report.Gender.Data, []int{6, 1}) {
		t.Errorf("gender data with admin purchase = %v, want unchanged [6 1]", report.Gender.Data)
	}
}

func TestBuildDashboardSegments(t *testing.T) {
	report := BuildDashboard(dashboardFixture())
	seg := report.SegmentGender

	wantLabels := []string{"İstanbul - Mühendis", "Ankara - Doktor"}
	if !reflect.DeepEqual(seg.Labels, wantLabels) {
		t.Fatalf("segment labels = %v, want %v", seg.Labels, wantLabels)
	}
	if !reflect.DeepEqual(seg.Male, []int{45, 5}) || !reflect.DeepEqual(seg.Female, []int{5, 0}) {
		t.Errorf("gender counts = %v / %v, want [45 5] / [5 0]", seg.Male, seg.Female)
	}
	// Engineers without a birth date default to 25; user2 is 20.
	if !reflect.DeepEqual(seg.AvgAge, []float64{24.5, 30}) {
		t.Errorf("avg ages = %v, want [24.5 30]", seg.AvgAge)
	}
}

func TestBuildDashboardCategoryMatrix(t *testing.T) {
	report := BuildDashboard(dashboardFixture())
	cat := report.SegmentCat

	if !reflect.DeepEqual(cat.Labels, report.SegmentGender.Labels) {
		t.Error("category matrix labels differ from segment labels")
	}
	// Elektronik vanished with the whale; remaining categories sorted.
	if len(cat.Datasets) != 2 || cat.Datasets[0].Label != "Ayakkabı" || cat.Datasets[1].Label != "Ev" {
		t.Fatalf("datasets = %+v, want sorted [Ayakkabı Ev]", cat.Datasets)
	}
	if !reflect.DeepEqual(cat.Datasets[0].Data, []int{50, 0}) {
		t.Errorf("Ayakkabı data = %v, want [50 0] (explicit zero)", cat.Datasets[0].Data)
	}
	if !reflect.DeepEqual(cat.Datasets[1].Data, []int{0, 5}) {
		t.Errorf("Ev data = %v, want [0 5] (explicit zero)", cat.Datasets[1].Data)
	}
}

func TestBuildDashboardTopSegmentCut(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	snap := Snapshot{Now: now}

	// 17 one-purchase segments plus one two-purchase segment.
	for i := 0; i < 17; i++ {
		snap.Purchases = append(snap.Purchases, PurchaseRecord{
			UserID: int64(i + 1), Username: fmt.Sprintf("user%d", i+1),
			Gender: "M", City: fmt.Sprintf("Şehir%02d", i), Job: "Garson",
			ProductID: 1, ProductName: "Bot", Category: "Ayakkabı",
			Timestamp: testTime(1),
		})
	}
	for i := 0; i < 2; i++ {
		snap.Purchases = append(snap.Purchases, PurchaseRecord{
			UserID: 99, Username: "user99",
			Gender: "F", City: "Bursa", Job: "Avukat",
			ProductID: 1, ProductName: "Bot", Category: "Ayakkabı",
			Timestamp: testTime(2),
		})
	}

	report := BuildDashboard(snap)
	seg := report.SegmentGender

	if len(seg.Labels) != 15 {
		t.Fatalf("got %d segments, want top 15", len(seg.Labels))
	}
	if seg.Labels[0] != "Bursa - Avukat" {
		t.Errorf("top segment = %q, want the two-purchase Bursa - Avukat", seg.Labels[0])
	}
	for i := 1; i < len(seg.Labels); i++ {
		prev := seg.Male[i-1] + seg.Female[i-1]
		cur := seg.Male[i] + seg.Female[i]
		if cur > prev {
			t.Errorf("segment volume not descending at %d: %d > %d", i, cur, prev)
		}
	}
}

func TestBuildDashboardEmptySnapshot(t *testing.T) {
	report := BuildDashboard(Snapshot{Now: time.Now()})

	if !reflect.DeepEqual(report, DefaultDashboardReport()) {
		t.Errorf("empty snapshot report = %+v, want the exact all-empty default", report)
	}
}

func TestBuildDashboardSkipsOrphanRecords(t *testing.T) {
	snap := dashboardFixture()
	// A purchase whose user row vanished: counted in totals, skipped by
	// segmentation.
	snap.Purchases = append(snap.Purchases, PurchaseRecord{
		UserID: 777, ProductID: 2, ProductName: "Bot", Category: "Ayakkabı",
		Timestamp: testTime(4),
	})

	report := BuildDashboard(snap)
	for _, label := range report.SegmentGender.Labels {
		if label == " - " {
			t.Error("orphan purchase produced an empty segment key")
		}
	}
}
