// Package reports derives the application's monthly, daily, and
// multi-month views from raw revenue and expense records. Every
// function here is a pure computation over its inputs: nothing is
// cached, nothing is mutated in place, and calling a function twice on
// the same records yields identical output.
package reports

import (
	"math"
	"sort"
	"strings"

	"github.com/username/hosteltracker/backend/src/models"
)

// InMonth reports whether a YYYY-MM-DD date belongs to a YYYY-MM
// month. It is a string prefix test on purpose: parsing the date into
// a time.Time and comparing calendar months can shift a record across
// a month boundary under timezone conversion, the prefix test cannot.
func InMonth(date, month string) bool {
	return strings.HasPrefix(date, month)
}

// FilterRevenuesByMonth returns the revenue records whose date falls
// in the given month. An empty month matches every record.
func FilterRevenuesByMonth(revenues []models.Revenue, month string) []models.Revenue {
	filtered := make([]models.Revenue, 0, len(revenues))
	for _, r := range revenues {
		if InMonth(r.Date, month) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// FilterExpensesByMonth returns the expense records whose date falls
// in the given month. An empty month matches every record.
func FilterExpensesByMonth(expenses []models.Expense, month string) []models.Expense {
	filtered := make([]models.Expense, 0, len(expenses))
	for _, e := range expenses {
		if InMonth(e.Date, month) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// ComputeMonthlySummary aggregates one month's records into totals,
// per-day chart points (ascending by date), per-category spend (empty
// categories omitted), and per-account contributions (full roster,
// zero-filled).
func ComputeMonthlySummary(revenues []models.Revenue, expenses []models.Expense, month string) models.MonthlySummary {
	monthRevenues := FilterRevenuesByMonth(revenues, month)
	monthExpenses := FilterExpensesByMonth(expenses, month)

	var totalRevenue, totalExpenses float64
	revenueByDay := make(map[string]float64)
	expensesByDay := make(map[string]float64)

	for _, r := range monthRevenues {
		totalRevenue += r.TotalRevenue
		revenueByDay[r.Date] += r.TotalRevenue
	}
	for _, e := range monthExpenses {
		totalExpenses += e.Amount
		expensesByDay[e.Date] += e.Amount
	}

	dates := unionDates(revenueByDay, expensesByDay)
	sort.Strings(dates)

	points := make([]models.DailyPoint, 0, len(dates))
	for _, d := range dates {
		points = append(points, models.DailyPoint{
			Date:     d,
			Revenue:  roundTwo(revenueByDay[d]),
			Expenses: roundTwo(expensesByDay[d]),
		})
	}

	return models.MonthlySummary{
		TotalRevenue:  roundTwo(totalRevenue),
		TotalExpenses: roundTwo(totalExpenses),
		NetProfit:     roundTwo(totalRevenue - totalExpenses),
		RevenueData:   points,
		CategoryData:  GroupExpensesByCategory(monthExpenses),
		AccountData:   GroupContributionsByAccount(monthRevenues, models.AccountNames),
	}
}

// ComputeDailyReports returns one report per day with at least one
// revenue or expense record, most recent day first. Days with no
// activity are omitted; the caller renders "no data" rather than a
// zero-filled month. An empty month covers all records.
func ComputeDailyReports(revenues []models.Revenue, expenses []models.Expense, month string) []models.DailyReport {
	revenueByDay := make(map[string]float64)
	expensesByDay := make(map[string]float64)

	for _, r := range revenues {
		if InMonth(r.Date, month) {
			revenueByDay[r.Date] += r.TotalRevenue
		}
	}
	for _, e := range expenses {
		if InMonth(e.Date, month) {
			expensesByDay[e.Date] += e.Amount
		}
	}

	dates := unionDates(revenueByDay, expensesByDay)
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	result := make([]models.DailyReport, 0, len(dates))
	for _, d := range dates {
		rev := roundTwo(revenueByDay[d])
		exp := roundTwo(expensesByDay[d])
		net := roundTwo(rev - exp)
		result = append(result, models.DailyReport{
			Date:          d,
			TotalRevenue:  rev,
			TotalExpenses: exp,
			NetProfit:     net,
			Profit:        net >= 0,
		})
	}
	return result
}

func unionDates(a, b map[string]float64) []string {
	seen := make(map[string]bool, len(a)+len(b))
	var dates []string
	for d := range a {
		if !seen[d] {
			seen[d] = true
			dates = append(dates, d)
		}
	}
	for d := range b {
		if !seen[d] {
			seen[d] = true
			dates = append(dates, d)
		}
	}
	return dates
}

// roundTwo rounds a float64 to 2 decimal places.
func roundTwo(value float64) float64 {
	return math.Round(value*100) / 100
}
