package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/username/hosteltracker/backend/src/export"
	"github.com/username/hosteltracker/backend/src/logger"
	"github.com/username/hosteltracker/backend/src/models"
	"github.com/username/hosteltracker/backend/src/services"
	"github.com/username/hosteltracker/backend/src/utils"
)

type ExpenseHandler struct {
	expenseService *services.ExpenseService
}

func NewExpenseHandler(expenseService *services.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

func (h *ExpenseHandler) CreateExpenseHandler(w http.ResponseWriter, r *http.Request) {
	var input models.ExpenseInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	exp, err := h.expenseService.CreateExpense(input)
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Failed to create expense: %v", err), statusForRecordError(err))
		return
	}
	utils.SendJSON(w, exp, http.StatusCreated)
}

// ListExpensesHandler returns entries newest-first; ?month=YYYY-MM and
// ?category= restrict the list.
func (h *ExpenseHandler) ListExpensesHandler(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	category := r.URL.Query().Get("category")
	expenses, err := h.expenseService.ListExpenses(month, category)
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Failed to list expenses: %v", err), statusForRecordError(err))
		return
	}
	utils.SendJSON(w, expenses, http.StatusOK)
}

func (h *ExpenseHandler) GetExpenseHandler(w http.ResponseWriter, r *http.Request) {
	exp, err := h.expenseService.GetExpenseByID(r.PathValue("id"))
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Failed to fetch expense: %v", err), statusForRecordError(err))
		return
	}
	utils.SendJSON(w, exp, http.StatusOK)
}

func (h *ExpenseHandler) UpdateExpenseHandler(w http.ResponseWriter, r *http.Request) {
	var input models.ExpenseInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	exp, err := h.expenseService.UpdateExpense(r.PathValue("id"), input)
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Failed to update expense: %v", err), statusForRecordError(err))
		return
	}
	utils.SendJSON(w, exp, http.StatusOK)
}

func (h *ExpenseHandler) DeleteExpenseHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.expenseService.DeleteExpense(r.PathValue("id")); err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Failed to delete expense: %v", err), statusForRecordError(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListCategoriesHandler returns the fixed expense category roster so
// clients can render pickers without hardcoding it.
func (h *ExpenseHandler) ListCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	utils.SendJSON(w, models.ExpenseCategories, http.StatusOK)
}

func (h *ExpenseHandler) ExportExpensesHandler(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	expenses, err := h.expenseService.ListExpenses(month, "")
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Failed to load expenses: %v", err), statusForRecordError(err))
		return
	}

	workbook, err := export.ExpenseWorkbook(month, expenses)
	if err != nil {
		logger.L.Error("Failed to build expense workbook", "month", month, "error", err)
		utils.SendJSONError(w, "Failed to build workbook", http.StatusInternalServerError)
		return
	}
	sendAttachment(w, workbook, fmt.Sprintf("expenses_%s.xlsx", exportLabel(month)), xlsxContentType)
}

func (h *ExpenseHandler) ExportExpensesCSVHandler(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	expenses, err := h.expenseService.ListExpenses(month, "")
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Failed to load expenses: %v", err), statusForRecordError(err))
		return
	}

	doc, err := export.ExpenseCSV(expenses)
	if err != nil {
		logger.L.Error("Failed to build expense csv", "month", month, "error", err)
		utils.SendJSONError(w, "Failed to build csv", http.StatusInternalServerError)
		return
	}
	sendAttachment(w, doc, fmt.Sprintf("expenses_%s.csv", exportLabel(month)), csvContentType)
}
