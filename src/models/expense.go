package models

// ExpenseCategories is the fixed set of expense categories. "Other" is
// the catch-all for anything the hostel does not track separately.
var ExpenseCategories = []string{
	"Salary", "Mess", "Vegetables", "Curd", "WiFi", "Electricity",
	"Gas", "Chicken", "Egg", "Phenol", "Rice", "PSK & PNK", "Other",
}

// Expense is a single categorized spend on a given day.
type Expense struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"` // YYYY-MM-DD
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Remarks     string  `json:"remarks"`
	CreatedAt   string  `json:"created_at"`
}

// ExpenseInput is the create/update payload for an expense record.
type ExpenseInput struct {
	Date        string  `json:"date"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Remarks     string  `json:"remarks"`
}

// IsValidCategory reports whether category is one of the fixed expense categories.
func IsValidCategory(category string) bool {
	for _, c := range ExpenseCategories {
		if c == category {
			return true
		}
	}
	return false
}
