package validation

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/username/hosteltracker/backend/src/models"
)

var (
	ErrInvalidDate     = errors.New("date must be in YYYY-MM-DD format")
	ErrInvalidMonth    = errors.New("month must be in YYYY-MM format")
	ErrNegativeAmount  = errors.New("amount must be a non-negative number")
	ErrUnknownCategory = errors.New("unknown expense category")
	ErrUnknownAccount  = errors.New("unknown contributor account")
	ErrInvalidInput    = errors.New("invalid input")
)

const maxFreeTextLen = 500

// ValidateDate checks a record date. Dates are stored as plain
// YYYY-MM-DD strings so month filtering stays a prefix match; the
// format has to be strict for that to hold.
func ValidateDate(date string) error {
	if len(date) != 10 {
		return ErrInvalidDate
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return ErrInvalidDate
	}
	return nil
}

// ValidateMonth checks a YYYY-MM month parameter.
func ValidateMonth(month string) error {
	if len(month) != 7 {
		return ErrInvalidMonth
	}
	if _, err := time.Parse("2006-01", month); err != nil {
		return ErrInvalidMonth
	}
	return nil
}

// ValidateAmount rejects negative, NaN, and infinite amounts.
func ValidateAmount(amount float64) error {
	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return ErrNegativeAmount
	}
	return nil
}

// ValidateRevenueInput checks a revenue create/update payload:
// date format, non-negative amounts, roster membership, and account
// uniqueness within the record.
func ValidateRevenueInput(in models.RevenueInput) error {
	if err := ValidateDate(in.Date); err != nil {
		return err
	}
	if err := ValidateAmount(in.CashAmount); err != nil {
		return fmt.Errorf("cash_amount: %w", err)
	}
	seen := make(map[string]bool, len(in.Contributions))
	for _, c := range in.Contributions {
		if !models.IsValidAccount(c.Name) {
			return fmt.Errorf("%w: %q", ErrUnknownAccount, c.Name)
		}
		if seen[c.Name] {
			return fmt.Errorf("%w: duplicate contribution for account %q", ErrInvalidInput, c.Name)
		}
		seen[c.Name] = true
		if err := ValidateAmount(c.Amount); err != nil {
			return fmt.Errorf("contribution %q: %w", c.Name, err)
		}
	}
	return nil
}

// ValidateExpenseInput checks an expense create/update payload.
func ValidateExpenseInput(in models.ExpenseInput) error {
	if err := ValidateDate(in.Date); err != nil {
		return err
	}
	if !models.IsValidCategory(in.Category) {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, in.Category)
	}
	if err := ValidateAmount(in.Amount); err != nil {
		return err
	}
	if len(in.Description) > maxFreeTextLen {
		return fmt.Errorf("%w: description too long (max %d characters)", ErrInvalidInput, maxFreeTextLen)
	}
	if len(in.Remarks) > maxFreeTextLen {
		return fmt.Errorf("%w: remarks too long (max %d characters)", ErrInvalidInput, maxFreeTextLen)
	}
	return nil
}
