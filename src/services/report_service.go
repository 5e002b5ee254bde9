// backend/src/services/report_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/hosteltracker/backend/src/logger"
	"github.com/username/hosteltracker/backend/src/models"
	"github.com/username/hosteltracker/backend/src/reports"
	"github.com/username/hosteltracker/backend/src/security/validation"
	"github.com/username/hosteltracker/backend/src/utils"
)

const (
	monthlySummaryCacheKeyPrefix = "monthly_summary_"
	dailyReportCacheKeyPrefix    = "daily_report_"

	DefaultCacheExpiration = 15 * time.Minute
	CacheCleanupInterval   = 30 * time.Minute
)

// invalidateMonthCaches drops cached reports for the month a record's
// date falls in. Called by the record services after every write.
func invalidateMonthCaches(c *cache.Cache, date string) {
	if c == nil || len(date) < 7 {
		return
	}
	month := utils.MonthOf(date)
	c.Delete(monthlySummaryCacheKeyPrefix + month)
	c.Delete(dailyReportCacheKeyPrefix + month)
	logger.L.Debug("Report cache invalidated", "month", month)
}

type ReportService struct {
	revenueService *RevenueService
	expenseService *ExpenseService
	cache          *cache.Cache
}

func NewReportService(revenueService *RevenueService, expenseService *ExpenseService, c *cache.Cache) *ReportService {
	return &ReportService{
		revenueService: revenueService,
		expenseService: expenseService,
		cache:          c,
	}
}

// GetMonthlySummary computes a month's dashboard figures, serving from
// cache when a fresh copy exists.
func (s *ReportService) GetMonthlySummary(ctx context.Context, month string) (models.MonthlySummary, error) {
	if err := validation.ValidateMonth(month); err != nil {
		return models.MonthlySummary{}, err
	}

	cacheKey := monthlySummaryCacheKeyPrefix + month
	if s.cache != nil {
		if cached, found := s.cache.Get(cacheKey); found {
			if summary, ok := cached.(models.MonthlySummary); ok {
				logger.L.Debug("Monthly summary served from cache", "month", month)
				return summary, nil
			}
			s.cache.Delete(cacheKey)
		}
	}

	revenues, expenses, err := s.monthRecords(month)
	if err != nil {
		return models.MonthlySummary{}, err
	}

	summary := reports.ComputeMonthlySummary(revenues, expenses, month)
	if s.cache != nil {
		s.cache.Set(cacheKey, summary, DefaultCacheExpiration)
	}
	return summary, nil
}

// GetDailyReports returns the month's per-day profit rows, newest first.
func (s *ReportService) GetDailyReports(ctx context.Context, month string) ([]models.DailyReport, error) {
	if err := validation.ValidateMonth(month); err != nil {
		return nil, err
	}

	cacheKey := dailyReportCacheKeyPrefix + month
	if s.cache != nil {
		if cached, found := s.cache.Get(cacheKey); found {
			if daily, ok := cached.([]models.DailyReport); ok {
				logger.L.Debug("Daily report served from cache", "month", month)
				return daily, nil
			}
			s.cache.Delete(cacheKey)
		}
	}

	revenues, expenses, err := s.monthRecords(month)
	if err != nil {
		return nil, err
	}

	daily := reports.ComputeDailyReports(revenues, expenses, month)
	if s.cache != nil {
		s.cache.Set(cacheKey, daily, DefaultCacheExpiration)
	}
	return daily, nil
}

// GetRangeSummary aggregates monthly summaries over an inclusive month
// range. Months whose lookup fails contribute zero-valued entries so
// one bad month cannot sink the whole range.
func (s *ReportService) GetRangeSummary(ctx context.Context, fromMonth, toMonth string) (models.RangeSummary, error) {
	if fromMonth != "" {
		if err := validation.ValidateMonth(fromMonth); err != nil {
			return models.RangeSummary{}, fmt.Errorf("invalid from_month: %w", err)
		}
	}
	if toMonth != "" {
		if err := validation.ValidateMonth(toMonth); err != nil {
			return models.RangeSummary{}, fmt.Errorf("invalid to_month: %w", err)
		}
	}
	return reports.ComputeRangeSummary(ctx, fromMonth, toMonth, s.GetMonthlySummary), nil
}

// MonthRecords exposes a month's raw entries for the export endpoints.
func (s *ReportService) MonthRecords(month string) ([]models.Revenue, []models.Expense, error) {
	if err := validation.ValidateMonth(month); err != nil {
		return nil, nil, err
	}
	return s.monthRecords(month)
}

func (s *ReportService) monthRecords(month string) ([]models.Revenue, []models.Expense, error) {
	revenues, err := s.revenueService.ListRevenues(month)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load revenues for %s: %w", month, err)
	}
	expenses, err := s.expenseService.ListExpenses(month, "")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load expenses for %s: %w", month, err)
	}
	return revenues, expenses, nil
}
