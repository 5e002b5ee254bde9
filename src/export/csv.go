// backend/src/export/csv.go
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/username/hosteltracker/backend/src/models"
	"github.com/username/hosteltracker/backend/src/security/validation"
)

// RevenueCSV renders revenue entries as CSV. Output goes through
// encoding/csv so commas or quotes inside values stay inside their cell.
func RevenueCSV(revenues []models.Revenue) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"Date", "Cash Amount", "Contribution Total", "Total Revenue"}); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, rev := range revenues {
		var contribTotal float64
		for _, c := range rev.Contributions {
			contribTotal += c.Amount
		}
		record := []string{
			rev.Date,
			formatAmount(rev.CashAmount),
			formatAmount(contribTotal),
			formatAmount(rev.TotalRevenue),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExpenseCSV renders expense entries as CSV with sanitized free text.
func ExpenseCSV(expenses []models.Expense) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"Date", "Category", "Description", "Amount", "Remarks"}); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, exp := range expenses {
		record := []string{
			exp.Date,
			exp.Category,
			validation.SanitizeForFormulaInjection(exp.Description),
			formatAmount(exp.Amount),
			validation.SanitizeForFormulaInjection(exp.Remarks),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MonthlyReportCSV renders a month's summary as a sectioned CSV
// document: the headline totals, then the category breakdown, then the
// daily totals.
func MonthlyReportCSV(month string, summary models.MonthlySummary) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	rows := [][]string{
		{"MONTH", month},
		{},
		{"SUMMARY"},
		{"Total Revenue", formatAmount(summary.TotalRevenue)},
		{"Total Expenses", formatAmount(summary.TotalExpenses)},
		{"Net Profit", formatAmount(summary.NetProfit)},
		{},
		{"EXPENSES BY CATEGORY"},
		{"Category", "Amount"},
	}
	for _, cat := range summary.CategoryData {
		rows = append(rows, []string{cat.Name, formatAmount(cat.Value)})
	}
	rows = append(rows, []string{}, []string{"CONTRIBUTIONS BY ACCOUNT"}, []string{"Account", "Amount"})
	for _, acc := range summary.AccountData {
		rows = append(rows, []string{acc.Name, formatAmount(acc.Amount)})
	}
	rows = append(rows, []string{}, []string{"DAILY TOTALS"}, []string{"Date", "Revenue", "Expenses"})
	for _, day := range summary.RevenueData {
		rows = append(rows, []string{day.Date, formatAmount(day.Revenue), formatAmount(day.Expenses)})
	}

	for _, row := range rows {
		if len(row) == 0 {
			row = []string{""}
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
