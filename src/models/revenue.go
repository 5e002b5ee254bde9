package models

// AccountNames is the fixed roster of contributor accounts. Revenue
// contributions always reference one of these names, and account-level
// charts render every account even when its contribution is zero.
var AccountNames = []string{
	"NAYEEM PRIMARY",
	"NAYEEM CURRENT",
	"SUBHAN KHAN",
	"MAHABOOB BI",
	"MUBEENA",
}

// Contribution is a named account's portion of a day's revenue.
type Contribution struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// Revenue is one day's recorded revenue: loose cash plus the
// contributions credited to named accounts. TotalRevenue is derived
// from the other two fields on every write and never entered directly.
type Revenue struct {
	ID            string         `json:"id"`
	Date          string         `json:"date"` // YYYY-MM-DD
	CashAmount    float64        `json:"cash_amount"`
	Contributions []Contribution `json:"contributions"`
	TotalRevenue  float64        `json:"total_revenue"`
	CreatedAt     string         `json:"created_at"`
}

// RevenueInput is the create/update payload for a revenue record.
type RevenueInput struct {
	Date          string         `json:"date"`
	CashAmount    float64        `json:"cash_amount"`
	Contributions []Contribution `json:"contributions"`
}

// ContributionTotal sums the contribution amounts of the input.
func (in RevenueInput) ContributionTotal() float64 {
	var total float64
	for _, c := range in.Contributions {
		total += c.Amount
	}
	return total
}

// IsValidAccount reports whether name is part of the fixed account roster.
func IsValidAccount(name string) bool {
	for _, a := range AccountNames {
		if a == name {
			return true
		}
	}
	return false
}
