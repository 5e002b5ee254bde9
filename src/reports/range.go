package reports

import (
	"context"

	"github.com/username/hosteltracker/backend/src/models"
	"golang.org/x/sync/errgroup"
)

// rangeLookupConcurrency caps how many per-month lookups run at once
// when assembling a range summary.
const rangeLookupConcurrency = 4

// MonthlyLookup fetches or computes one month's summary. The range
// aggregation treats any error as "no data for that month".
type MonthlyLookup func(ctx context.Context, month string) (models.MonthlySummary, error)

// ComputeRangeSummary rolls up every calendar month between fromMonth
// and toMonth inclusive. Lookups are dispatched concurrently, one per
// month, and a failed or missing month contributes a zero-valued entry
// instead of being dropped: the output always has exactly one entry
// per month in the span, in ascending order. Months that did resolve
// are kept even when others fail.
func ComputeRangeSummary(ctx context.Context, fromMonth, toMonth string, lookup MonthlyLookup) models.RangeSummary {
	months := EnumerateMonths(fromMonth, toMonth)
	if len(months) == 0 {
		return models.RangeSummary{Months: []models.MonthEntry{}}
	}

	entries := make([]models.MonthEntry, len(months))

	var g errgroup.Group
	g.SetLimit(rangeLookupConcurrency)
	for i, month := range months {
		g.Go(func() error {
			entry := models.MonthEntry{Month: month}
			summary, err := lookup(ctx, month)
			if err == nil {
				entry.Revenue = summary.TotalRevenue
				entry.Expenses = summary.TotalExpenses
				entry.Profit = roundTwo(summary.TotalRevenue - summary.TotalExpenses)
			}
			entries[i] = entry
			return nil
		})
	}
	// Goroutines never return errors; Wait is just the barrier.
	_ = g.Wait()

	var result models.RangeSummary
	result.Months = entries
	for _, e := range entries {
		result.TotalRevenue += e.Revenue
		result.TotalExpenses += e.Expenses
	}
	result.TotalRevenue = roundTwo(result.TotalRevenue)
	result.TotalExpenses = roundTwo(result.TotalExpenses)
	result.TotalProfit = roundTwo(result.TotalRevenue - result.TotalExpenses)
	return result
}
