package reports

import (
	"github.com/username/hosteltracker/backend/src/models"
)

// GroupExpensesByCategory sums expense amounts per category. Output
// order is the insertion order of each category's first occurrence,
// and categories with no matching expenses are omitted entirely.
//
// This deliberately differs from GroupContributionsByAccount, which
// zero-fills: category charts only show what was actually spent, while
// the account chart always shows the full roster.
func GroupExpensesByCategory(expenses []models.Expense) []models.CategoryAmount {
	totals := make(map[string]float64)
	var order []string

	for _, e := range expenses {
		if _, seen := totals[e.Category]; !seen {
			order = append(order, e.Category)
		}
		totals[e.Category] += e.Amount
	}

	result := make([]models.CategoryAmount, 0, len(order))
	for _, name := range order {
		result = append(result, models.CategoryAmount{Name: name, Value: roundTwo(totals[name])})
	}
	return result
}

// GroupContributionsByAccount sums contribution amounts per account
// over the given revenue records. Every account in the roster appears
// in the output, in roster order, with amount 0 when the filtered
// records contain no contribution for it.
func GroupContributionsByAccount(revenues []models.Revenue, accounts []string) []models.AccountAmount {
	totals := make(map[string]float64, len(accounts))
	for _, r := range revenues {
		for _, c := range r.Contributions {
			totals[c.Name] += c.Amount
		}
	}

	result := make([]models.AccountAmount, 0, len(accounts))
	for _, name := range accounts {
		result = append(result, models.AccountAmount{Name: name, Amount: roundTwo(totals[name])})
	}
	return result
}
