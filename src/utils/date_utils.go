package utils

import (
	"time"
)

// Records store dates as plain YYYY-MM-DD strings and months as
// YYYY-MM. Month membership is a string prefix test on the date,
// never a parse-and-compare, so a record can never drift across a
// month boundary under timezone conversion.
const (
	DateFormat  = "2006-01-02"
	MonthFormat = "2006-01"
)

// Today returns the current local date as YYYY-MM-DD.
func Today() string {
	return time.Now().Format(DateFormat)
}

// CurrentMonth returns the current local month as YYYY-MM.
func CurrentMonth() string {
	return time.Now().Format(MonthFormat)
}

// MonthOf extracts the YYYY-MM prefix of a YYYY-MM-DD date string.
func MonthOf(date string) string {
	if len(date) < 7 {
		return date
	}
	return date[:7]
}

// IsLastDayOfMonth reports whether t falls on the last calendar day of
// its month.
func IsLastDayOfMonth(t time.Time) bool {
	return t.AddDate(0, 0, 1).Day() == 1
}
