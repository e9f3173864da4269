package simulation

import (
	"sort"
	"time"

	"github.com/autoinvesthq/autoinvest-backend/internal/domain"
)

// Aggregate merges per-asset daily series into one portfolio-level
// series. The output date axis is the union of all input dates, sorted
// ascending; for each date both values are summed across the series
// that cover it, and a series with no entry for a date contributes
// zero (assets may have been simulated over different ranges).
//
// Pure function of its inputs; since the per-date sum is commutative
// the result does not depend on the order of the input series.
func Aggregate(series ...[]domain.DailyValue) []domain.DailyValue {
	totals := make(map[time.Time]domain.DailyValue)
	for _, s := range series {
		for _, day := range s {
			total := totals[day.Date]
			total.Date = day.Date
			total.Autoinvested += day.Autoinvested
			total.NoAutoinvested += day.NoAutoinvested
			totals[day.Date] = total
		}
	}

	merged := make([]domain.DailyValue, 0, len(totals))
	for _, total := range totals {
		merged = append(merged, total)
	}
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].Date.Before(merged[j].Date)
	})

	return merged
}
