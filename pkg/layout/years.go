package layout

import (
	"github.com/ancestree/ancestree/pkg/kin"
)

// ComputeYearRange scans every recorded birth, death, and arrival year and
// returns the inclusive span. A data set with no dated person yields the
// zero range, which consumers read as "no scale available".
func ComputeYearRange(people []kin.Person) YearRange {
	var r YearRange
	seen := false

	observe := func(year int) {
		if year == 0 {
			return
		}
		if !seen {
			r = YearRange{Min: year, Max: year}
			seen = true
			return
		}
		r.Min = min(r.Min, year)
		r.Max = max(r.Max, year)
	}

	for _, p := range people {
		observe(p.Birth.Year)
		observe(p.Death.Year)
		observe(p.Arrival.Year)
	}
	return r
}
