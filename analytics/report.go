package analytics

import (
	"fmt"
	"log"
	"math"
	"sort"
	"time"
)

// Report sizing constants.
const (
	topProductCount = 10
	topSegmentCount = 15
)

// fallbackCategory labels a whale day whose dominant product can no longer
// be resolved in the catalog.
const fallbackCategory = "Genel"

// adminUsername is the seed admin account, left out of the gender chart.
const adminUsername = "admin"

// Gender display labels used by the dashboard charts.
var genderLabels = []string{"Erkek", "Kadın"}

// PopData is the product popularity chart: top products by click count,
// each annotated with its cleaned purchase count.
type PopData struct {
	Labels    []string `json:"labels"`
	Clicks    []int    `json:"clicks"`
	Purchases []int    `json:"purchases"`
}

// GenderData is the purchaser gender distribution chart.
type GenderData struct {
	Labels []string `json:"labels"`
	Data   []int    `json:"data"`
}

// SegmentGenderData is the city×job segmentation chart: per-segment gender
// counts and average age, top segments by volume.
type SegmentGenderData struct {
	Labels []string  `json:"labels"`
	Male   []int     `json:"male"`
	Female []int     `json:"female"`
	AvgAge []float64 `json:"avg_age"`
}

// CatDataset is one category's per-segment purchase counts.
type CatDataset struct {
	Label string `json:"label"`
	Data  []int  `json:"data"`
}

// SegmentCatData is the category preference matrix over the same segments
// as SegmentGenderData.
type SegmentCatData struct {
	Labels   []string     `json:"labels"`
	Datasets []CatDataset `json:"datasets"`
}

// OutlierDetail is one flagged day for the dashboard's detail table.
type OutlierDetail struct {
	Date       string `json:"date"`
	TotalSales int    `json:"total_sales"`
	OutlierQty int    `json:"outlier_qty"`
	ProdName   string `json:"prod_name"`
	ProdID     int64  `json:"prod_id"`
	Category   string `json:"category"`
}

// OutlierData is the daily sales time series with flagged days and the
// whale-subtracted clean series.
type OutlierData struct {
	Labels    []string        `json:"labels"`
	Data      []int           `json:"data"`
	Outliers  []*int          `json:"outliers"`
	CleanData []int           `json:"clean_data"`
	Details   []OutlierDetail `json:"details"`
}

// DashboardReport bundles the five dashboard structures. All sections are
// computed against the same cleaned record set; a report is either fully
// populated or fully defaulted, never mixed.
type DashboardReport struct {
	Pop           PopData           `json:"pop_data"`
	Gender        GenderData        `json:"gender_data"`
	SegmentGender SegmentGenderData `json:"segment_gender_data"`
	SegmentCat    SegmentCatData    `json:"segment_cat_data"`
	Outlier       OutlierData       `json:"outlier_data"`
}

// DefaultDashboardReport returns the documented all-empty report. Slices
// are non-nil so the JSON renders empty arrays, not nulls.
func DefaultDashboardReport() DashboardReport {
	return DashboardReport{
		Pop:           PopData{Labels: []string{}, Clicks: []int{}, Purchases: []int{}},
		Gender:        GenderData{Labels: []string{}, Data: []int{}},
		SegmentGender: SegmentGenderData{Labels: []string{}, Male: []int{}, Female: []int{}, AvgAge: []float64{}},
		SegmentCat:    SegmentCatData{Labels: []string{}, Datasets: []CatDataset{}},
		Outlier: OutlierData{
			Labels:    []string{},
			Data:      []int{},
			Outliers:  []*int{},
			CleanData: []int{},
			Details:   []OutlierDetail{},
		},
	}
}

// BuildDashboard runs the full pipeline over a snapshot. It never fails:
// an empty snapshot or any internal error yields the all-empty default
// report, keeping the dashboard available over surfacing analysis errors.
func BuildDashboard(snap Snapshot) DashboardReport {
	if len(snap.Purchases) == 0 {
		return DefaultDashboardReport()
	}

	report, err := buildDashboard(snap)
	if err != nil {
		log.Printf("dashboard report failed, serving empty defaults: %v", err)
		return DefaultDashboardReport()
	}
	return report
}

func buildDashboard(snap Snapshot) (report DashboardReport, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("dashboard build panic: %v", r)
		}
	}()

	buckets := AggregateDaily(snap.Purchases)
	det := Detect(buckets, DashboardPolicy)

	report.Outlier = buildOutlierData(snap, det)

	clean := ExcludeBlacklisted(snap.Purchases, det.Blacklist)

	report.Pop = buildPopData(snap, clean)
	report.Gender = buildGenderData(clean)
	report.SegmentGender, report.SegmentCat = buildSegments(clean, snap.Now)

	return report, nil
}

func buildOutlierData(snap Snapshot, det Detection) OutlierData {
	byName := make(map[string]ProductInfo, len(snap.Products))
	for _, p := range snap.Products {
		byName[p.Name] = p
	}
	totals := make(map[string]int, len(det.Dates))
	for i, d := range det.Dates {
		totals[d] = det.Counts[i]
	}

	details := make([]OutlierDetail, 0, len(det.Whales))
	for _, w := range det.Whales {
		detail := OutlierDetail{
			Date:       w.Date,
			TotalSales: totals[w.Date],
			OutlierQty: w.Excess,
			ProdName:   w.DominantProduct,
			Category:   fallbackCategory,
		}
		if info, ok := byName[w.DominantProduct]; ok {
			detail.ProdID = info.ID
			detail.Category = info.Category
		}
		details = append(details, detail)
	}

	return OutlierData{
		Labels:    det.Dates,
		Data:      det.Counts,
		Outliers:  det.Outliers,
		CleanData: CleanTotals(det),
		Details:   details,
	}
}

// buildPopData ranks products by raw click count and annotates each with
// its whale-free purchase count.
func buildPopData(snap Snapshot, clean []PurchaseRecord) PopData {
	clicksByProduct := make(map[int64]int, len(snap.Products))
	for _, c := range snap.Clicks {
		clicksByProduct[c.ProductID]++
	}
	purchasesByProduct := make(map[int64]int, len(snap.Products))
	for _, p := range clean {
		purchasesByProduct[p.ProductID]++
	}

	ranked := make([]ProductInfo, len(snap.Products))
	copy(ranked, snap.Products)
	sort.SliceStable(ranked, func(i, j int) bool {
		return clicksByProduct[ranked[i].ID] > clicksByProduct[ranked[j].ID]
	})
	if len(ranked) > topProductCount {
		ranked = ranked[:topProductCount]
	}

	pop := PopData{Labels: []string{}, Clicks: []int{}, Purchases: []int{}}
	for _, p := range ranked {
		pop.Labels = append(pop.Labels, p.Name)
		pop.Clicks = append(pop.Clicks, clicksByProduct[p.ID])
		pop.Purchases = append(pop.Purchases, purchasesByProduct[p.ID])
	}
	return pop
}

// buildGenderData counts distinct purchasing users by gender over the
// cleaned set, excluding the seed admin account.
func buildGenderData(clean []PurchaseRecord) GenderData {
	seen := make(map[int64]struct{})
	counts := map[string]int{"M": 0, "F": 0}
	for _, p := range clean {
		if p.Username == "" || p.Username == adminUsername {
			continue
		}
		if _, dup := seen[p.UserID]; dup {
			continue
		}
		seen[p.UserID] = struct{}{}
		if _, known := counts[p.Gender]; known {
			counts[p.Gender]++
		}
	}
	return GenderData{
		Labels: append([]string{}, genderLabels...),
		Data:   []int{counts["M"], counts["F"]},
	}
}

type segmentStat struct {
	male   int
	female int
	ages   []int
}

// buildSegments derives both the city×job gender breakdown and the
// category preference matrix from one walk over the cleaned purchases, so
// the two charts always describe the same top segments.
func buildSegments(clean []PurchaseRecord, now time.Time) (SegmentGenderData, SegmentCatData) {
	segments := make(map[string]*segmentStat)
	var segmentOrder []string

	catBySegment := make(map[string]map[string]int)
	categorySet := make(map[string]struct{})

	for _, p := range clean {
		if p.Username == "" {
			continue // user reference lost, cannot segment
		}
		key := p.City + " - " + p.Job

		stat, ok := segments[key]
		if !ok {
			stat = &segmentStat{}
			segments[key] = stat
			segmentOrder = append(segmentOrder, key)
		}
		switch p.Gender {
		case "M":
			stat.male++
		case "F":
			stat.female++
		}
		stat.ages = append(stat.ages, Age(p.BirthDate, now))

		if p.ProductName != "" && p.Category != "" {
			if catBySegment[key] == nil {
				catBySegment[key] = make(map[string]int)
			}
			catBySegment[key][p.Category]++
			categorySet[p.Category] = struct{}{}
		}
	}

	// Top segments by total volume, descending. The stable sort keeps
	// first-encountered order among equal-volume segments.
	ranked := append([]string{}, segmentOrder...)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := segments[ranked[i]], segments[ranked[j]]
		return a.male+a.female > b.male+b.female
	})
	if len(ranked) > topSegmentCount {
		ranked = ranked[:topSegmentCount]
	}

	gender := SegmentGenderData{
		Labels: []string{},
		Male:   []int{},
		Female: []int{},
		AvgAge: []float64{},
	}
	for _, key := range ranked {
		stat := segments[key]
		gender.Labels = append(gender.Labels, key)
		gender.Male = append(gender.Male, stat.male)
		gender.Female = append(gender.Female, stat.female)

		avg := 0.0
		if len(stat.ages) > 0 {
			sum := 0
			for _, a := range stat.ages {
				sum += a
			}
			avg = round1(float64(sum) / float64(len(stat.ages)))
		}
		gender.AvgAge = append(gender.AvgAge, avg)
	}

	categories := make([]string, 0, len(categorySet))
	for cat := range categorySet {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	cat := SegmentCatData{Labels: gender.Labels, Datasets: []CatDataset{}}
	for _, c := range categories {
		data := make([]int, 0, len(ranked))
		for _, key := range ranked {
			data = append(data, catBySegment[key][c]) // 0 where absent
		}
		cat.Datasets = append(cat.Datasets, CatDataset{Label: c, Data: data})
	}

	return gender, cat
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
