// backend/src/services/report_scheduler.go
package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/username/hosteltracker/backend/src/config"
	"github.com/username/hosteltracker/backend/src/database"
	"github.com/username/hosteltracker/backend/src/export"
	"github.com/username/hosteltracker/backend/src/logger"
	"github.com/username/hosteltracker/backend/src/model"
	"github.com/username/hosteltracker/backend/src/utils"
)

// ReportScheduler mails the month's dashboard workbook to every user
// with the send_report flag, once per month on its last day.
type ReportScheduler struct {
	reportService *ReportService
	emailService  EmailService
	sendHour      int
	lastSentMonth string
}

func NewReportScheduler(reportService *ReportService, emailService EmailService) *ReportScheduler {
	hour := 18
	if config.Cfg != nil {
		hour = config.Cfg.ReportMailHour
	}
	return &ReportScheduler{
		reportService: reportService,
		emailService:  emailService,
		sendHour:      hour,
	}
}

// Start runs the scheduler loop until ctx is cancelled. The tick is
// hourly; lastSentMonth guards against double sends when the process
// ticks twice inside the send hour.
func (s *ReportScheduler) Start(ctx context.Context) {
	logger.L.Info("Monthly report scheduler started", "sendHour", s.sendHour)
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.L.Info("Monthly report scheduler stopped")
			return
		case now := <-ticker.C:
			s.maybeSend(ctx, now)
		}
	}
}

func (s *ReportScheduler) maybeSend(ctx context.Context, now time.Time) {
	if !utils.IsLastDayOfMonth(now) || now.Hour() != s.sendHour {
		return
	}
	month := now.Format(utils.MonthFormat)
	if s.lastSentMonth == month {
		return
	}
	if err := s.SendMonthlyReports(ctx, month); err != nil {
		logger.L.Error("Monthly report run failed", "month", month, "error", err)
		return
	}
	s.lastSentMonth = month
}

// archiveWorkbook keeps a copy of every mailed report on disk so a lost
// mail can be recovered. Failure to write is logged, not fatal.
func (s *ReportScheduler) archiveWorkbook(filename string, workbook []byte) {
	if config.Cfg == nil || config.Cfg.ReportDir == "" {
		return
	}
	if err := os.MkdirAll(config.Cfg.ReportDir, 0o755); err != nil {
		logger.L.Warn("Failed to create report archive dir", "dir", config.Cfg.ReportDir, "error", err)
		return
	}
	path := filepath.Join(config.Cfg.ReportDir, filename)
	if err := os.WriteFile(path, workbook, 0o644); err != nil {
		logger.L.Warn("Failed to archive monthly report", "path", path, "error", err)
		return
	}
	logger.L.Info("Monthly report archived", "path", path)
}

// SendMonthlyReports builds the month's workbook and mails it to every
// report receiver. A failed recipient is logged and skipped so the rest
// of the roster still gets their copy.
func (s *ReportScheduler) SendMonthlyReports(ctx context.Context, month string) error {
	receivers, err := model.ListReportReceivers(database.DB)
	if err != nil {
		return fmt.Errorf("failed to list report receivers: %w", err)
	}
	if len(receivers) == 0 {
		logger.L.Info("No report receivers configured, skipping monthly report", "month", month)
		return nil
	}

	summary, err := s.reportService.GetMonthlySummary(ctx, month)
	if err != nil {
		return fmt.Errorf("failed to compute monthly summary for %s: %w", month, err)
	}
	workbook, err := export.MonthlyReportWorkbook(month, summary)
	if err != nil {
		return fmt.Errorf("failed to build report workbook for %s: %w", month, err)
	}
	filename := fmt.Sprintf("monthly_report_%s.xlsx", month)
	s.archiveWorkbook(filename, workbook)

	var failed int
	for _, user := range receivers {
		if err := s.emailService.SendMonthlyReport(user.Email, user.Name, month, workbook, filename); err != nil {
			logger.L.Error("Failed to send monthly report to receiver", "email", user.Email, "month", month, "error", err)
			failed++
		}
	}
	logger.L.Info("Monthly report run finished", "month", month, "receivers", len(receivers), "failed", failed)
	if failed == len(receivers) {
		return fmt.Errorf("all %d report sends failed for %s", failed, month)
	}
	return nil
}
