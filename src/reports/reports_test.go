package reports

import (
	"reflect"
	"sort"
	"testing"

	"github.com/username/hosteltracker/backend/src/models"
)

func revenueRecord(date string, cash float64, contributions ...models.Contribution) models.Revenue {
	total := cash
	for _, c := range contributions {
		total += c.Amount
	}
	return models.Revenue{
		Date:          date,
		CashAmount:    cash,
		Contributions: contributions,
		TotalRevenue:  total,
	}
}

func expenseRecord(date, category string, amount float64) models.Expense {
	return models.Expense{Date: date, Category: category, Amount: amount}
}

func TestInMonth(t *testing.T) {
	tests := []struct {
		date  string
		month string
		want  bool
	}{
		{"2025-03-15", "2025-03", true},
		{"2025-03-01", "2025-03", true},
		{"2025-03-31", "2025-03", true},
		{"2025-04-01", "2025-03", false},
		{"2024-03-15", "2025-03", false},
		{"2025-03-15", "", true}, // empty month matches everything
	}
	for _, tt := range tests {
		if got := InMonth(tt.date, tt.month); got != tt.want {
			t.Errorf("InMonth(%q, %q) = %v, want %v", tt.date, tt.month, got, tt.want)
		}
	}
}

func TestComputeMonthlySummary(t *testing.T) {
	revenues := []models.Revenue{
		revenueRecord("2025-03-01", 100, models.Contribution{Name: "MUBEENA", Amount: 50}),
		revenueRecord("2025-03-02", 30),
		revenueRecord("2025-04-01", 999), // different month, must be excluded
	}
	expenses := []models.Expense{
		expenseRecord("2025-03-01", "Mess", 20),
		expenseRecord("2025-03-05", "Rice", 10),
		expenseRecord("2025-04-02", "Gas", 500), // excluded
	}

	summary := ComputeMonthlySummary(revenues, expenses, "2025-03")

	if summary.TotalRevenue != 180 {
		t.Errorf("TotalRevenue = %v, want 180", summary.TotalRevenue)
	}
	if summary.TotalExpenses != 30 {
		t.Errorf("TotalExpenses = %v, want 30", summary.TotalExpenses)
	}
	if summary.NetProfit != 150 {
		t.Errorf("NetProfit = %v, want 150", summary.NetProfit)
	}

	wantPoints := []models.DailyPoint{
		{Date: "2025-03-01", Revenue: 150, Expenses: 20},
		{Date: "2025-03-02", Revenue: 30, Expenses: 0},
		{Date: "2025-03-05", Revenue: 0, Expenses: 10},
	}
	if !reflect.DeepEqual(summary.RevenueData, wantPoints) {
		t.Errorf("RevenueData = %v, want %v", summary.RevenueData, wantPoints)
	}

	wantCategories := []models.CategoryAmount{
		{Name: "Mess", Value: 20},
		{Name: "Rice", Value: 10},
	}
	if !reflect.DeepEqual(summary.CategoryData, wantCategories) {
		t.Errorf("CategoryData = %v, want %v", summary.CategoryData, wantCategories)
	}

	// Account data always carries the full roster, zero-filled.
	if len(summary.AccountData) != len(models.AccountNames) {
		t.Fatalf("AccountData has %d entries, want %d", len(summary.AccountData), len(models.AccountNames))
	}
	for _, acc := range summary.AccountData {
		switch acc.Name {
		case "MUBEENA":
			if acc.Amount != 50 {
				t.Errorf("MUBEENA contribution = %v, want 50", acc.Amount)
			}
		default:
			if acc.Amount != 0 {
				t.Errorf("account %q contribution = %v, want 0", acc.Name, acc.Amount)
			}
		}
	}
}

func TestComputeMonthlySummaryEmptyMonth(t *testing.T) {
	summary := ComputeMonthlySummary(nil, nil, "2025-03")
	if summary.TotalRevenue != 0 || summary.TotalExpenses != 0 || summary.NetProfit != 0 {
		t.Errorf("empty month totals = %v/%v/%v, want all zero",
			summary.TotalRevenue, summary.TotalExpenses, summary.NetProfit)
	}
	if len(summary.RevenueData) != 0 {
		t.Errorf("RevenueData = %v, want empty", summary.RevenueData)
	}
	if len(summary.CategoryData) != 0 {
		t.Errorf("CategoryData = %v, want empty", summary.CategoryData)
	}
	if len(summary.AccountData) != len(models.AccountNames) {
		t.Errorf("AccountData should still carry the roster, got %d entries", len(summary.AccountData))
	}
}

func TestComputeMonthlySummaryIdempotent(t *testing.T) {
	revenues := []models.Revenue{
		revenueRecord("2025-03-01", 123.45, models.Contribution{Name: "SUBHAN KHAN", Amount: 10.10}),
	}
	expenses := []models.Expense{
		expenseRecord("2025-03-01", "WiFi", 9.99),
	}

	first := ComputeMonthlySummary(revenues, expenses, "2025-03")
	second := ComputeMonthlySummary(revenues, expenses, "2025-03")
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated computation differs: %v vs %v", first, second)
	}
}

func TestComputeDailyReports(t *testing.T) {
	revenues := []models.Revenue{
		revenueRecord("2025-03-01", 100),
		revenueRecord("2025-03-03", 40),
	}
	expenses := []models.Expense{
		expenseRecord("2025-03-01", "Mess", 100), // exactly break-even
		expenseRecord("2025-03-02", "Gas", 25),   // expense-only day, a loss
	}

	daily := ComputeDailyReports(revenues, expenses, "2025-03")

	wantDates := []string{"2025-03-03", "2025-03-02", "2025-03-01"}
	if len(daily) != len(wantDates) {
		t.Fatalf("got %d days, want %d", len(daily), len(wantDates))
	}
	for i, d := range daily {
		if d.Date != wantDates[i] {
			t.Errorf("day %d = %q, want %q (descending order)", i, d.Date, wantDates[i])
		}
	}

	byDate := map[string]models.DailyReport{}
	for _, d := range daily {
		byDate[d.Date] = d
	}

	// Break-even day classifies as profit.
	breakEven := byDate["2025-03-01"]
	if breakEven.NetProfit != 0 || !breakEven.Profit {
		t.Errorf("break-even day: net=%v profit=%v, want net=0 profit=true", breakEven.NetProfit, breakEven.Profit)
	}

	loss := byDate["2025-03-02"]
	if loss.NetProfit != -25 || loss.Profit {
		t.Errorf("loss day: net=%v profit=%v, want net=-25 profit=false", loss.NetProfit, loss.Profit)
	}

	gain := byDate["2025-03-03"]
	if gain.NetProfit != 40 || !gain.Profit {
		t.Errorf("gain day: net=%v profit=%v, want net=40 profit=true", gain.NetProfit, gain.Profit)
	}
}

func TestComputeDailyReportsSortedDescending(t *testing.T) {
	var revenues []models.Revenue
	for _, d := range []string{"2025-03-10", "2025-03-02", "2025-03-25", "2025-03-01"} {
		revenues = append(revenues, revenueRecord(d, 1))
	}
	daily := ComputeDailyReports(revenues, nil, "2025-03")
	if !sort.SliceIsSorted(daily, func(i, j int) bool { return daily[i].Date > daily[j].Date }) {
		t.Errorf("daily reports not sorted descending: %v", daily)
	}
}

func TestFilterByMonthUsesPrefixNotParse(t *testing.T) {
	// A record on the first day of a month must never leak into the
	// previous month, whatever the local timezone is.
	revenues := []models.Revenue{
		revenueRecord("2025-03-31", 10),
		revenueRecord("2025-04-01", 20),
	}
	march := FilterRevenuesByMonth(revenues, "2025-03")
	if len(march) != 1 || march[0].Date != "2025-03-31" {
		t.Errorf("march filter = %v, want only 2025-03-31", march)
	}
	april := FilterRevenuesByMonth(revenues, "2025-04")
	if len(april) != 1 || april[0].Date != "2025-04-01" {
		t.Errorf("april filter = %v, want only 2025-04-01", april)
	}
}

func TestRoundTwo(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{1.005, 1.0}, // 1.005 is actually slightly below 1.005 in binary
		{1.015, 1.01},
		{2.675, 2.67},
		{0, 0},
		{-1.004, -1.0},
	}
	for _, tt := range tests {
		if got := roundTwo(tt.in); got != tt.want {
			t.Errorf("roundTwo(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
