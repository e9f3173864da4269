package domain

import "time"

// DailyValue is one day of the simulated comparison: the value of the
// automated strategy versus the never-traded baseline, both marked to
// market at that day's end-of-day price.
type DailyValue struct {
	Date           time.Time // calendar day, normalized to UTC midnight
	Autoinvested   Money
	NoAutoinvested Money
}
