package handlers

import (
	"fmt"
	"net/http"

	"github.com/username/hosteltracker/backend/src/export"
	"github.com/username/hosteltracker/backend/src/logger"
	"github.com/username/hosteltracker/backend/src/models"
	"github.com/username/hosteltracker/backend/src/services"
	"github.com/username/hosteltracker/backend/src/utils"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// reportMonth resolves the month parameter, defaulting to the current
// month when the client sends none.
func reportMonth(r *http.Request) string {
	if month := r.URL.Query().Get("month"); month != "" {
		return month
	}
	return utils.CurrentMonth()
}

// GetMonthlySummaryHandler serves the month's dashboard figures with
// ETag support so unchanged summaries answer 304.
func (h *ReportHandler) GetMonthlySummaryHandler(w http.ResponseWriter, r *http.Request) {
	month := reportMonth(r)
	summary, err := h.reportService.GetMonthlySummary(r.Context(), month)
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Failed to compute monthly summary: %v", err), statusForRecordError(err))
		return
	}

	etag, err := utils.GenerateETag(summary)
	if err == nil {
		if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", etag)
	}
	utils.SendJSON(w, summary, http.StatusOK)
}

// GetDailyReportsHandler serves the month's per-day rows, newest first.
func (h *ReportHandler) GetDailyReportsHandler(w http.ResponseWriter, r *http.Request) {
	month := reportMonth(r)
	daily, err := h.reportService.GetDailyReports(r.Context(), month)
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Failed to compute daily report: %v", err), statusForRecordError(err))
		return
	}
	utils.SendJSON(w, daily, http.StatusOK)
}

// GetRangeSummaryHandler aggregates monthly summaries between
// ?from_month= and ?to_month= inclusive. Unset or inverted bounds
// yield an empty range rather than an error.
func (h *ReportHandler) GetRangeSummaryHandler(w http.ResponseWriter, r *http.Request) {
	fromMonth := r.URL.Query().Get("from_month")
	toMonth := r.URL.Query().Get("to_month")
	summary, err := h.reportService.GetRangeSummary(r.Context(), fromMonth, toMonth)
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Failed to compute range summary: %v", err), statusForRecordError(err))
		return
	}
	utils.SendJSON(w, summary, http.StatusOK)
}

// ListAccountsHandler returns the fixed contributor account roster.
func (h *ReportHandler) ListAccountsHandler(w http.ResponseWriter, r *http.Request) {
	utils.SendJSON(w, models.AccountNames, http.StatusOK)
}

// ExportMonthlyReportHandler streams the month's summary workbook, the
// same document the report mail attaches.
func (h *ReportHandler) ExportMonthlyReportHandler(w http.ResponseWriter, r *http.Request) {
	month := reportMonth(r)
	summary, err := h.reportService.GetMonthlySummary(r.Context(), month)
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Failed to compute monthly summary: %v", err), statusForRecordError(err))
		return
	}

	workbook, err := export.MonthlyReportWorkbook(month, summary)
	if err != nil {
		logger.L.Error("Failed to build report workbook", "month", month, "error", err)
		utils.SendJSONError(w, "Failed to build workbook", http.StatusInternalServerError)
		return
	}
	sendAttachment(w, workbook, fmt.Sprintf("monthly_report_%s.xlsx", month), xlsxContentType)
}

func (h *ReportHandler) ExportMonthlyReportCSVHandler(w http.ResponseWriter, r *http.Request) {
	month := reportMonth(r)
	summary, err := h.reportService.GetMonthlySummary(r.Context(), month)
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Failed to compute monthly summary: %v", err), statusForRecordError(err))
		return
	}

	doc, err := export.MonthlyReportCSV(month, summary)
	if err != nil {
		logger.L.Error("Failed to build report csv", "month", month, "error", err)
		utils.SendJSONError(w, "Failed to build csv", http.StatusInternalServerError)
		return
	}
	sendAttachment(w, doc, fmt.Sprintf("monthly_report_%s.csv", month), csvContentType)
}
