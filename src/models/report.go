package models

// DailyReport is one day's revenue/expense totals within a month.
// Profit classifies the day; a net of exactly zero counts as profit.
type DailyReport struct {
	Date          string  `json:"date"`
	TotalRevenue  float64 `json:"total_revenue"`
	TotalExpenses float64 `json:"total_expenses"`
	NetProfit     float64 `json:"net_profit"`
	Profit        bool    `json:"profit"`
}

// DailyPoint is a per-day chart point inside a monthly summary.
type DailyPoint struct {
	Date     string  `json:"date"`
	Revenue  float64 `json:"revenue"`
	Expenses float64 `json:"expenses"`
}

// CategoryAmount is one expense category's summed spend.
type CategoryAmount struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// AccountAmount is one contributor account's summed contribution.
type AccountAmount struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// MonthlySummary is the aggregated view of a single YYYY-MM month.
type MonthlySummary struct {
	TotalRevenue  float64          `json:"total_revenue"`
	TotalExpenses float64          `json:"total_expenses"`
	NetProfit     float64          `json:"net_profit"`
	RevenueData   []DailyPoint     `json:"revenue_data"`
	CategoryData  []CategoryAmount `json:"category_data"`
	AccountData   []AccountAmount  `json:"account_data"`
}

// MonthEntry is one month's rollup inside a range summary.
type MonthEntry struct {
	Month    string  `json:"month"` // YYYY-MM
	Revenue  float64 `json:"revenue"`
	Expenses float64 `json:"expenses"`
	Profit   float64 `json:"profit"`
}

// RangeSummary is the multi-month rollup between two inclusive YYYY-MM
// bounds. Months holds one entry per calendar month in the span, in
// ascending order, zero-valued where a month had no activity or its
// lookup failed.
type RangeSummary struct {
	Months        []MonthEntry `json:"months"`
	TotalRevenue  float64      `json:"total_revenue"`
	TotalExpenses float64      `json:"total_expenses"`
	TotalProfit   float64      `json:"total_profit"`
}
