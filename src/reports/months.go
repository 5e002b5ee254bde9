package reports

import (
	"fmt"
	"strconv"
	"strings"
)

// NextMonth advances a YYYY-MM month by one calendar month, rolling
// December into January of the next year.
func NextMonth(month string) (string, error) {
	parts := strings.SplitN(month, "-", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid month %q", month)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return "", fmt.Errorf("invalid month %q", month)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 1 || m > 12 {
		return "", fmt.Errorf("invalid month %q", month)
	}

	m++
	if m > 12 {
		m = 1
		year++
	}
	return fmt.Sprintf("%04d-%02d", year, m), nil
}

// EnumerateMonths lists every calendar month from fromMonth to toMonth
// inclusive, ascending, with no gaps or duplicates. An unset bound or
// fromMonth > toMonth yields an empty list rather than an error: the
// range report simply renders nothing until both bounds are chosen.
func EnumerateMonths(fromMonth, toMonth string) []string {
	if fromMonth == "" || toMonth == "" || fromMonth > toMonth {
		return nil
	}

	var months []string
	cur := fromMonth
	for cur <= toMonth {
		months = append(months, cur)
		next, err := NextMonth(cur)
		if err != nil {
			return nil
		}
		cur = next
	}
	return months
}
