package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/username/hosteltracker/backend/src/models"
)

func parseCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	return rows
}

func TestExpenseCSVQuotesEmbeddedDelimiters(t *testing.T) {
	expenses := []models.Expense{
		{
			Date:        "2025-03-01",
			Category:    "Other",
			Description: `paint, brushes and "misc" supplies`,
			Amount:      45.5,
			Remarks:     "line1\nline2",
		},
	}

	data, err := ExpenseCSV(expenses)
	if err != nil {
		t.Fatalf("ExpenseCSV: %v", err)
	}

	rows := parseCSV(t, data)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want header + 1 record", len(rows))
	}
	record := rows[1]
	if len(record) != 5 {
		t.Fatalf("embedded comma split the record: %v", record)
	}
	if record[2] != `paint, brushes and "misc" supplies` {
		t.Errorf("description round-trip = %q", record[2])
	}
	if record[4] != "line1\nline2" {
		t.Errorf("remarks round-trip = %q", record[4])
	}
}

func TestExpenseCSVSanitizesFormulas(t *testing.T) {
	expenses := []models.Expense{
		{Date: "2025-03-01", Category: "Other", Description: "=HYPERLINK(...)", Amount: 1},
	}
	data, err := ExpenseCSV(expenses)
	if err != nil {
		t.Fatalf("ExpenseCSV: %v", err)
	}
	rows := parseCSV(t, data)
	if got := rows[1][2]; !strings.HasPrefix(got, "'=") {
		t.Errorf("formula not neutralized: %q", got)
	}
}

func TestRevenueCSV(t *testing.T) {
	revenues := []models.Revenue{
		{
			Date:       "2025-03-01",
			CashAmount: 100,
			Contributions: []models.Contribution{
				{Name: "MUBEENA", Amount: 25.5},
				{Name: "SUBHAN KHAN", Amount: 24.5},
			},
			TotalRevenue: 150,
		},
	}

	data, err := RevenueCSV(revenues)
	if err != nil {
		t.Fatalf("RevenueCSV: %v", err)
	}
	rows := parseCSV(t, data)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	want := []string{"2025-03-01", "100.00", "50.00", "150.00"}
	for i, cell := range want {
		if rows[1][i] != cell {
			t.Errorf("cell %d = %q, want %q", i, rows[1][i], cell)
		}
	}
}

func TestMonthlyReportCSVSections(t *testing.T) {
	summary := models.MonthlySummary{
		TotalRevenue:  500,
		TotalExpenses: 200,
		NetProfit:     300,
		RevenueData: []models.DailyPoint{
			{Date: "2025-03-01", Revenue: 500, Expenses: 200},
		},
		CategoryData: []models.CategoryAmount{
			{Name: "Mess", Value: 200},
		},
		AccountData: []models.AccountAmount{
			{Name: "MUBEENA", Amount: 100},
		},
	}

	data, err := MonthlyReportCSV("2025-03", summary)
	if err != nil {
		t.Fatalf("MonthlyReportCSV: %v", err)
	}
	text := string(data)
	for _, section := range []string{"MONTH", "SUMMARY", "EXPENSES BY CATEGORY", "CONTRIBUTIONS BY ACCOUNT", "DAILY TOTALS"} {
		if !strings.Contains(text, section) {
			t.Errorf("missing section %q in output", section)
		}
	}
	rows := parseCSV(t, data)
	if rows[0][0] != "MONTH" || rows[0][1] != "2025-03" {
		t.Errorf("first row = %v, want MONTH,2025-03", rows[0])
	}
}
