package analytics

import (
	"fmt"
	"log"
)

// Age group labels for the age×color purchase matrix.
var ageGroups = []string{"18-25", "26-40", "40+"}

// ProductSeries is the per-product daily sales chart with flagged days and
// the whale-subtracted clean series.
type ProductSeries struct {
	Labels    []string `json:"labels"`
	Data      []int    `json:"data"`
	Outliers  []*int   `json:"outliers"`
	CleanData []int    `json:"clean_data"`
}

// ProductStats summarizes a product's funnel. Purchases is the cleaned
// count, so the conversion rate cannot exceed 100 through whale inflation.
type ProductStats struct {
	Clicks    int     `json:"clicks"`
	Purchases int     `json:"purchases"`
	Rate      float64 `json:"rate"`
}

// ProductReport is the per-product detail page payload.
type ProductReport struct {
	Outlier        ProductSeries             `json:"outlier_data"`
	ColorDist      map[string]int            `json:"color_dist"`
	AgeColorMatrix map[string]map[string]int `json:"age_color_matrix"`
	Stats          ProductStats              `json:"stats"`
}

// DefaultProductReport returns the all-empty report served when the
// product pipeline fails unexpectedly.
func DefaultProductReport() ProductReport {
	return ProductReport{
		Outlier: ProductSeries{
			Labels:    []string{},
			Data:      []int{},
			Outliers:  []*int{},
			CleanData: []int{},
		},
		ColorDist:      zeroColorDist(),
		AgeColorMatrix: zeroAgeColorMatrix(),
		Stats:          ProductStats{},
	}
}

// BuildProductReport runs the reduced pipeline for one product: daily
// outlier series under the stricter product policy, color distribution,
// age×color matrix, and cleaned conversion stats. Never fails; internal
// errors log and default.
func BuildProductReport(snap ProductSnapshot) ProductReport {
	report, err := buildProductReport(snap)
	if err != nil {
		log.Printf("product %d report failed, serving empty defaults: %v", snap.ProductID, err)
		return DefaultProductReport()
	}
	return report
}

func buildProductReport(snap ProductSnapshot) (report ProductReport, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("product report panic: %v", r)
		}
	}()

	buckets := AggregateDaily(snap.Purchases)
	det := Detect(buckets, ProductPolicy)

	report.Outlier = ProductSeries{
		Labels:    det.Dates,
		Data:      det.Counts,
		Outliers:  det.Outliers,
		CleanData: CleanTotals(det),
	}

	// Stats use the cleaned purchase count: raw total minus everything the
	// whales bought on flagged days.
	removed := 0
	for _, w := range det.Whales {
		removed += w.Excess
	}
	cleanCount := len(snap.Purchases) - removed

	rate := 0.0
	if snap.Clicks > 0 {
		rate = round2(float64(cleanCount) / float64(snap.Clicks) * 100)
	}
	report.Stats = ProductStats{
		Clicks:    snap.Clicks,
		Purchases: cleanCount,
		Rate:      rate,
	}

	// Color preference is reported over the raw set; cleaning only adjusts
	// the aggregate counts, a whale still genuinely picked those colors.
	report.ColorDist = zeroColorDist()
	report.AgeColorMatrix = zeroAgeColorMatrix()
	for _, p := range snap.Purchases {
		if _, known := report.ColorDist[p.Color]; !known {
			continue
		}
		report.ColorDist[p.Color]++
		report.AgeColorMatrix[ageGroup(Age(p.BirthDate, snap.Now))][p.Color]++
	}

	return report, nil
}

func ageGroup(age int) string {
	switch {
	case age <= 25:
		return ageGroups[0]
	case age <= 40:
		return ageGroups[1]
	default:
		return ageGroups[2]
	}
}

func zeroColorDist() map[string]int {
	dist := make(map[string]int, len(AllColors))
	for _, c := range AllColors {
		dist[c] = 0
	}
	return dist
}

func zeroAgeColorMatrix() map[string]map[string]int {
	matrix := make(map[string]map[string]int, len(ageGroups))
	for _, grp := range ageGroups {
		matrix[grp] = zeroColorDist()
	}
	return matrix
}
