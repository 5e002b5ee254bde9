// backend/src/services/expense_service.go
package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/username/hosteltracker/backend/src/database"
	"github.com/username/hosteltracker/backend/src/logger"
	"github.com/username/hosteltracker/backend/src/models"
	"github.com/username/hosteltracker/backend/src/security/validation"
)

type ExpenseService struct {
	cache *cache.Cache
}

func NewExpenseService(c *cache.Cache) *ExpenseService {
	return &ExpenseService{cache: c}
}

func (s *ExpenseService) CreateExpense(input models.ExpenseInput) (*models.Expense, error) {
	if err := validation.ValidateExpenseInput(input); err != nil {
		return nil, err
	}

	exp := &models.Expense{
		ID:          uuid.NewString(),
		Date:        input.Date,
		Category:    input.Category,
		Description: validation.SanitizeFreeText(input.Description),
		Amount:      input.Amount,
		Remarks:     validation.SanitizeFreeText(input.Remarks),
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}

	_, err := database.DB.Exec(`INSERT INTO expenses (id, date, category, description, amount, remarks, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		exp.ID, exp.Date, exp.Category, exp.Description, exp.Amount, exp.Remarks, exp.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert expense: %w", err)
	}

	s.invalidateReportCache(exp.Date)
	logger.L.Info("Expense entry created", "id", exp.ID, "date", exp.Date, "category", exp.Category, "amount", exp.Amount)
	return exp, nil
}

func (s *ExpenseService) UpdateExpense(id string, input models.ExpenseInput) (*models.Expense, error) {
	if err := validation.ValidateExpenseInput(input); err != nil {
		return nil, err
	}

	existing, err := s.GetExpenseByID(id)
	if err != nil {
		return nil, err
	}

	exp := &models.Expense{
		ID:          id,
		Date:        input.Date,
		Category:    input.Category,
		Description: validation.SanitizeFreeText(input.Description),
		Amount:      input.Amount,
		Remarks:     validation.SanitizeFreeText(input.Remarks),
		CreatedAt:   existing.CreatedAt,
	}

	_, err = database.DB.Exec(`UPDATE expenses SET date = ?, category = ?, description = ?, amount = ?, remarks = ? WHERE id = ?`,
		exp.Date, exp.Category, exp.Description, exp.Amount, exp.Remarks, exp.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}

	s.invalidateReportCache(existing.Date)
	s.invalidateReportCache(exp.Date)
	logger.L.Info("Expense entry updated", "id", exp.ID, "date", exp.Date)
	return exp, nil
}

func (s *ExpenseService) DeleteExpense(id string) error {
	existing, err := s.GetExpenseByID(id)
	if err != nil {
		return err
	}
	if _, err := database.DB.Exec(`DELETE FROM expenses WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	s.invalidateReportCache(existing.Date)
	logger.L.Info("Expense entry deleted", "id", id, "date", existing.Date)
	return nil
}

func (s *ExpenseService) GetExpenseByID(id string) (*models.Expense, error) {
	row := database.DB.QueryRow(`SELECT id, date, category, description, amount, remarks, created_at FROM expenses WHERE id = ?`, id)
	var exp models.Expense
	err := row.Scan(&exp.ID, &exp.Date, &exp.Category, &exp.Description, &exp.Amount, &exp.Remarks, &exp.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch expense %s: %w", id, err)
	}
	return &exp, nil
}

// ListExpenses returns entries newest-first, optionally restricted to a
// YYYY-MM month prefix and/or a category.
func (s *ExpenseService) ListExpenses(month, category string) ([]models.Expense, error) {
	query := `SELECT id, date, category, description, amount, remarks, created_at FROM expenses`
	conditions := []string{}
	args := []any{}
	if month != "" {
		if err := validation.ValidateMonth(month); err != nil {
			return nil, err
		}
		conditions = append(conditions, `date LIKE ?`)
		args = append(args, month+"%")
	}
	if category != "" {
		if !models.IsValidCategory(category) {
			return nil, validation.ErrUnknownCategory
		}
		conditions = append(conditions, `category = ?`)
		args = append(args, category)
	}
	for i, cond := range conditions {
		if i == 0 {
			query += ` WHERE ` + cond
		} else {
			query += ` AND ` + cond
		}
	}
	query += ` ORDER BY date DESC, created_at DESC`

	rows, err := database.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	expenses := []models.Expense{}
	for rows.Next() {
		var exp models.Expense
		if err := rows.Scan(&exp.ID, &exp.Date, &exp.Category, &exp.Description, &exp.Amount, &exp.Remarks, &exp.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense row: %w", err)
		}
		expenses = append(expenses, exp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return expenses, nil
}

func (s *ExpenseService) invalidateReportCache(date string) {
	invalidateMonthCaches(s.cache, date)
}
