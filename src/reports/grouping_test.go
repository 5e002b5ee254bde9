package reports

import (
	"reflect"
	"testing"

	"github.com/username/hosteltracker/backend/src/models"
)

func TestGroupExpensesByCategoryOmitsEmptyGroups(t *testing.T) {
	expenses := []models.Expense{
		expenseRecord("2025-03-01", "Gas", 10),
		expenseRecord("2025-03-02", "Mess", 5),
		expenseRecord("2025-03-03", "Gas", 2.5),
	}

	got := GroupExpensesByCategory(expenses)
	want := []models.CategoryAmount{
		{Name: "Gas", Value: 12.5},
		{Name: "Mess", Value: 5},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("GroupExpensesByCategory = %v, want %v", got, want)
	}
}

func TestGroupExpensesByCategoryInsertionOrder(t *testing.T) {
	// Order follows first occurrence, not the roster or alphabet.
	expenses := []models.Expense{
		expenseRecord("2025-03-01", "WiFi", 1),
		expenseRecord("2025-03-01", "Curd", 1),
		expenseRecord("2025-03-02", "WiFi", 1),
		expenseRecord("2025-03-02", "Salary", 1),
	}
	got := GroupExpensesByCategory(expenses)
	wantOrder := []string{"WiFi", "Curd", "Salary"}
	if len(got) != len(wantOrder) {
		t.Fatalf("got %d groups, want %d", len(got), len(wantOrder))
	}
	for i, name := range wantOrder {
		if got[i].Name != name {
			t.Errorf("group %d = %q, want %q", i, got[i].Name, name)
		}
	}
}

func TestGroupExpensesByCategoryEmpty(t *testing.T) {
	got := GroupExpensesByCategory(nil)
	if len(got) != 0 {
		t.Errorf("expected no groups for no expenses, got %v", got)
	}
}

func TestGroupContributionsByAccountZeroFills(t *testing.T) {
	revenues := []models.Revenue{
		revenueRecord("2025-03-01", 0,
			models.Contribution{Name: "MUBEENA", Amount: 40},
			models.Contribution{Name: "SUBHAN KHAN", Amount: 10},
		),
		revenueRecord("2025-03-02", 0,
			models.Contribution{Name: "MUBEENA", Amount: 20},
		),
	}

	got := GroupContributionsByAccount(revenues, models.AccountNames)

	// Every roster account appears, in roster order, zero when absent.
	if len(got) != len(models.AccountNames) {
		t.Fatalf("got %d accounts, want %d", len(got), len(models.AccountNames))
	}
	for i, name := range models.AccountNames {
		if got[i].Name != name {
			t.Errorf("account %d = %q, want %q (roster order)", i, got[i].Name, name)
		}
	}

	amounts := map[string]float64{}
	for _, a := range got {
		amounts[a.Name] = a.Amount
	}
	if amounts["MUBEENA"] != 60 {
		t.Errorf("MUBEENA = %v, want 60", amounts["MUBEENA"])
	}
	if amounts["SUBHAN KHAN"] != 10 {
		t.Errorf("SUBHAN KHAN = %v, want 10", amounts["SUBHAN KHAN"])
	}
	if amounts["NAYEEM PRIMARY"] != 0 || amounts["NAYEEM CURRENT"] != 0 || amounts["MAHABOOB BI"] != 0 {
		t.Errorf("accounts without contributions should be zero, got %v", amounts)
	}
}

func TestGroupContributionsByAccountNoRevenues(t *testing.T) {
	got := GroupContributionsByAccount(nil, models.AccountNames)
	if len(got) != len(models.AccountNames) {
		t.Fatalf("got %d accounts, want the full roster (%d)", len(got), len(models.AccountNames))
	}
	for _, a := range got {
		if a.Amount != 0 {
			t.Errorf("account %q = %v, want 0", a.Name, a.Amount)
		}
	}
}
