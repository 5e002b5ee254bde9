package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/username/hosteltracker/backend/src/export"
	"github.com/username/hosteltracker/backend/src/logger"
	"github.com/username/hosteltracker/backend/src/models"
	"github.com/username/hosteltracker/backend/src/security/validation"
	"github.com/username/hosteltracker/backend/src/services"
	"github.com/username/hosteltracker/backend/src/utils"
)

type RevenueHandler struct {
	revenueService *services.RevenueService
}

func NewRevenueHandler(revenueService *services.RevenueService) *RevenueHandler {
	return &RevenueHandler{revenueService: revenueService}
}

func (h *RevenueHandler) CreateRevenueHandler(w http.ResponseWriter, r *http.Request) {
	var input models.RevenueInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	rev, err := h.revenueService.CreateRevenue(input)
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Failed to create revenue: %v", err), statusForRecordError(err))
		return
	}
	utils.SendJSON(w, rev, http.StatusCreated)
}

// ListRevenuesHandler returns entries newest-first; ?month=YYYY-MM
// restricts the list to that month.
func (h *RevenueHandler) ListRevenuesHandler(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	revenues, err := h.revenueService.ListRevenues(month)
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Failed to list revenues: %v", err), statusForRecordError(err))
		return
	}
	utils.SendJSON(w, revenues, http.StatusOK)
}

func (h *RevenueHandler) GetRevenueHandler(w http.ResponseWriter, r *http.Request) {
	rev, err := h.revenueService.GetRevenueByID(r.PathValue("id"))
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Failed to fetch revenue: %v", err), statusForRecordError(err))
		return
	}
	utils.SendJSON(w, rev, http.StatusOK)
}

func (h *RevenueHandler) UpdateRevenueHandler(w http.ResponseWriter, r *http.Request) {
	var input models.RevenueInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	rev, err := h.revenueService.UpdateRevenue(r.PathValue("id"), input)
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Failed to update revenue: %v", err), statusForRecordError(err))
		return
	}
	utils.SendJSON(w, rev, http.StatusOK)
}

func (h *RevenueHandler) DeleteRevenueHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.revenueService.DeleteRevenue(r.PathValue("id")); err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Failed to delete revenue: %v", err), statusForRecordError(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExportRevenuesHandler streams a month's revenue entries as an xlsx
// download.
func (h *RevenueHandler) ExportRevenuesHandler(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	revenues, err := h.revenueService.ListRevenues(month)
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Failed to load revenues: %v", err), statusForRecordError(err))
		return
	}

	workbook, err := export.RevenueWorkbook(month, revenues)
	if err != nil {
		logger.L.Error("Failed to build revenue workbook", "month", month, "error", err)
		utils.SendJSONError(w, "Failed to build workbook", http.StatusInternalServerError)
		return
	}
	sendAttachment(w, workbook, fmt.Sprintf("revenue_%s.xlsx", exportLabel(month)), xlsxContentType)
}

// ExportRevenuesCSVHandler streams the same data as CSV.
func (h *RevenueHandler) ExportRevenuesCSVHandler(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	revenues, err := h.revenueService.ListRevenues(month)
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Failed to load revenues: %v", err), statusForRecordError(err))
		return
	}

	doc, err := export.RevenueCSV(revenues)
	if err != nil {
		logger.L.Error("Failed to build revenue csv", "month", month, "error", err)
		utils.SendJSONError(w, "Failed to build csv", http.StatusInternalServerError)
		return
	}
	sendAttachment(w, doc, fmt.Sprintf("revenue_%s.csv", exportLabel(month)), csvContentType)
}

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	csvContentType  = "text/csv; charset=utf-8"
)

func sendAttachment(w http.ResponseWriter, data []byte, filename, contentType string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func exportLabel(month string) string {
	if month == "" {
		return "all"
	}
	return month
}

// statusForRecordError maps service errors to HTTP statuses: missing
// records are 404, validation failures 400, the rest 500.
func statusForRecordError(err error) int {
	switch {
	case errors.Is(err, services.ErrRecordNotFound):
		return http.StatusNotFound
	case isValidationError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func isValidationError(err error) bool {
	for _, sentinel := range []error{
		validation.ErrInvalidDate,
		validation.ErrInvalidMonth,
		validation.ErrNegativeAmount,
		validation.ErrUnknownCategory,
		validation.ErrUnknownAccount,
		validation.ErrInvalidInput,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
