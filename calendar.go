package muse

import (
	"math"
	"time"
)

// SameDay reports whether a and b fall on the same calendar day.
// Calendar equality, not a rolling 24h window.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// DaysBetween returns the number of whole 24h days elapsed from "from" to "to",
// rounded down. Negative when "to" precedes "from".
func DaysBetween(from, to time.Time) int {
	return int(math.Floor(to.Sub(from).Hours() / 24))
}
