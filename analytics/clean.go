package analytics

// CleanTotals returns the per-day totals with each flagged day's whale
// excess subtracted (count-subtraction cleaning, used for the time-series
// chart). Non-flagged days pass through unchanged. The result is never
// negative: a whale's count that day cannot exceed the day's total.
func CleanTotals(det Detection) []int {
	excess := make(map[string]int, len(det.Whales))
	for _, w := range det.Whales {
		excess[w.Date] = w.Excess
	}

	clean := make([]int, len(det.Counts))
	for i, total := range det.Counts {
		clean[i] = total - excess[det.Dates[i]]
	}
	return clean
}

// ExcludeBlacklisted returns the purchases with every record attributable
// to a blacklisted (user, day) pair dropped (record-exclusion cleaning,
// used for segment, category and popularity reports). This cut is stricter
// than count subtraction on purpose: ALL of the whale's same-day purchases
// go, not just the excess, while their purchases on other days survive.
//
// Order-preserving and idempotent: surviving records keep their relative
// order, and re-applying the same blacklist changes nothing.
func ExcludeBlacklisted(purchases []PurchaseRecord, blacklist Blacklist) []PurchaseRecord {
	clean := make([]PurchaseRecord, 0, len(purchases))
	for _, p := range purchases {
		key := BlacklistKey{UserID: p.UserID, Date: p.Timestamp.Format(DateLayout)}
		if _, banned := blacklist[key]; banned {
			continue
		}
		clean = append(clean, p)
	}
	return clean
}
