// backend/src/services/revenue_service.go
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

// ErrRecordNotFound is returned when a revenue or expense id does not exist.
var ErrRecordNotFound = errors.New("record not found")

type RevenueService struct {
	cache *cache.Cache
}

func NewRevenueService(c *cache.Cache) *RevenueService {
	return &RevenueService{cache: c}
}

// CreateRevenue validates the input, recomputes the total server-side and
// stores the entry with its per-account contributions in one transaction.
// Zero-amount contributions are dropped rather than stored.
func (s *RevenueService) CreateRevenue(input models.RevenueInput) (*models.Revenue, error) {
	if err := validation.ValidateRevenueInput(input); err != nil {
		return nil, err
	}

	rev := &models.Revenue{
		ID:            uuid.NewString(),
		Date:          input.Date,
		CashAmount:    input.CashAmount,
		Contributions: nonZeroContributions(input.Contributions),
		TotalRevenue:  input.CashAmount + input.ContributionTotal(),
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
	}

	tx, err := database.DB.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO revenue (id, date, cash_amount, total_revenue, created_at) VALUES (?, ?, ?, ?, ?)`,
		rev.ID, rev.Date, rev.CashAmount, rev.TotalRevenue, rev.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert revenue: %w", err)
	}
	if err := insertContributions(tx, rev.ID, rev.Contributions); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit revenue: %w", err)
	}

	s.invalidateReportCache(rev.Date)
	logger.L.Info("Revenue entry created", "id", rev.ID, "date", rev.Date, "total", rev.TotalRevenue)
	return rev, nil
}

// UpdateRevenue replaces an existing entry's fields and contribution rows.
func (s *RevenueService) UpdateRevenue(id string, input models.RevenueInput) (*models.Revenue, error) {
	if err := validation.ValidateRevenueInput(input); err != nil {
		return nil, err
	}

	existing, err := s.GetRevenueByID(id)
	if err != nil {
		return nil, err
	}

	rev := &models.Revenue{
		ID:            id,
		Date:          input.Date,
		CashAmount:    input.CashAmount,
		Contributions: nonZeroContributions(input.Contributions),
		TotalRevenue:  input.CashAmount + input.ContributionTotal(),
		CreatedAt:     existing.CreatedAt,
	}

	tx, err := database.DB.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`UPDATE revenue SET date = ?, cash_amount = ?, total_revenue = ? WHERE id = ?`,
		rev.Date, rev.CashAmount, rev.TotalRevenue, rev.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update revenue: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM revenue_contributions WHERE revenue_id = ?`, rev.ID); err != nil {
		return nil, fmt.Errorf("failed to clear contributions: %w", err)
	}
	if err := insertContributions(tx, rev.ID, rev.Contributions); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit revenue update: %w", err)
	}

	// The entry may have moved between months.
	s.invalidateReportCache(existing.Date)
	s.invalidateReportCache(rev.Date)
	logger.L.Info("Revenue entry updated", "id", rev.ID, "date", rev.Date)
	return rev, nil
}

func (s *RevenueService) DeleteRevenue(id string) error {
	existing, err := s.GetRevenueByID(id)
	if err != nil {
		return err
	}
	if _, err := database.DB.Exec(`DELETE FROM revenue WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete revenue: %w", err)
	}
	s.invalidateReportCache(existing.Date)
	logger.L.Info("Revenue entry deleted", "id", id, "date", existing.Date)
	return nil
}

func (s *RevenueService) GetRevenueByID(id string) (*models.Revenue, error) {
	row := database.DB.QueryRow(`SELECT id, date, cash_amount, total_revenue, created_at FROM revenue WHERE id = ?`, id)
	var rev models.Revenue
	err := row.Scan(&rev.ID, &rev.Date, &rev.CashAmount, &rev.TotalRevenue, &rev.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch revenue %s: %w", id, err)
	}
	if err := attachContributions(&rev); err != nil {
		return nil, err
	}
	return &rev, nil
}

// ListRevenues returns entries newest-first. A non-empty month restricts
// the result to dates beginning with that YYYY-MM prefix.
func (s *RevenueService) ListRevenues(month string) ([]models.Revenue, error) {
	query := `SELECT id, date, cash_amount, total_revenue, created_at FROM revenue`
	args := []any{}
	if month != "" {
		if err := validation.ValidateMonth(month); err != nil {
			return nil, err
		}
		query += ` WHERE date LIKE ?`
		args = append(args, month+"%")
	}
	query += ` ORDER BY date DESC, created_at DESC`

	rows, err := database.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list revenues: %w", err)
	}
	defer rows.Close()

	revenues := []models.Revenue{}
	for rows.Next() {
		var rev models.Revenue
		if err := rows.Scan(&rev.ID, &rev.Date, &rev.CashAmount, &rev.TotalRevenue, &rev.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan revenue row: %w", err)
		}
		revenues = append(revenues, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range revenues {
		if err := attachContributions(&revenues[i]); err != nil {
			return nil, err
		}
	}
	return revenues, nil
}

func (s *RevenueService) invalidateReportCache(date string) {
	invalidateMonthCaches(s.cache, date)
}

func nonZeroContributions(in []models.Contribution) []models.Contribution {
	out := []models.Contribution{}
	for _, c := range in {
		if c.Amount != 0 {
			out = append(out, c)
		}
	}
	return out
}

func insertContributions(tx *sql.Tx, revenueID string, contributions []models.Contribution) error {
	for _, c := range contributions {
		_, err := tx.Exec(`INSERT INTO revenue_contributions (revenue_id, name, amount) VALUES (?, ?, ?)`,
			revenueID, c.Name, c.Amount)
		if err != nil {
			return fmt.Errorf("failed to insert contribution for %s: %w", c.Name, err)
		}
	}
	return nil
}

func attachContributions(rev *models.Revenue) error {
	rows, err := database.DB.Query(`SELECT name, amount FROM revenue_contributions WHERE revenue_id = ? ORDER BY name`, rev.ID)
	if err != nil {
		return fmt.Errorf("failed to fetch contributions for %s: %w", rev.ID, err)
	}
	defer rows.Close()

	rev.Contributions = []models.Contribution{}
	for rows.Next() {
		var c models.Contribution
		if err := rows.Scan(&c.Name, &c.Amount); err != nil {
			return fmt.Errorf("failed to scan contribution row: %w", err)
		}
		rev.Contributions = append(rev.Contributions, c)
	}
	return rows.Err()
}
