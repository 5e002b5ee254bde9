// backend/src/export/excel.go

// Package export renders revenue, expense and report data as xlsx
// workbooks and CSV documents for download and mailing.
package export

import (
	"bytes"
	"fmt"

	"github.com/username/hosteltracker/backend/src/models"
	"github.com/username/hosteltracker/backend/src/security/validation"
	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// RevenueWorkbook renders revenue entries as an xlsx workbook, one row
// per entry with the cash amount, the contribution total and the
// recomputed total side by side.
func RevenueWorkbook(month string, revenues []models.Revenue) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := defaultSheet
	f.SetCellValue(sheet, "A1", fmt.Sprintf("Revenue - %s", month))
	headers := []string{"Date", "Cash Amount", "Contribution Total", "Total Revenue"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		f.SetCellValue(sheet, cell, h)
	}

	row := 3
	for _, rev := range revenues {
		var contribTotal float64
		for _, c := range rev.Contributions {
			contribTotal += c.Amount
		}
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), rev.Date)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), rev.CashAmount)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), contribTotal)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), rev.TotalRevenue)
		row++
	}

	return workbookBytes(f)
}

// ExpenseWorkbook renders expense entries as an xlsx workbook. Free-text
// fields are sanitized so a description starting with "=" cannot become
// a formula when the file is opened in a spreadsheet.
func ExpenseWorkbook(month string, expenses []models.Expense) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := defaultSheet
	f.SetCellValue(sheet, "A1", fmt.Sprintf("Expenses - %s", month))
	headers := []string{"Date", "Category", "Description", "Amount", "Remarks"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		f.SetCellValue(sheet, cell, h)
	}

	row := 3
	for _, exp := range expenses {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), exp.Date)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), exp.Category)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), validation.SanitizeForFormulaInjection(exp.Description))
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), exp.Amount)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), validation.SanitizeForFormulaInjection(exp.Remarks))
		row++
	}

	return workbookBytes(f)
}

// MonthlyReportWorkbook renders a month's dashboard summary: the
// headline totals followed by the expense breakdown by category.
func MonthlyReportWorkbook(month string, summary models.MonthlySummary) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := defaultSheet
	f.SetCellValue(sheet, "A1", fmt.Sprintf("Monthly Report - %s", month))

	f.SetCellValue(sheet, "A3", "Total Revenue")
	f.SetCellValue(sheet, "B3", summary.TotalRevenue)
	f.SetCellValue(sheet, "A4", "Total Expenses")
	f.SetCellValue(sheet, "B4", summary.TotalExpenses)
	f.SetCellValue(sheet, "A5", "Net Profit")
	f.SetCellValue(sheet, "B5", summary.NetProfit)

	f.SetCellValue(sheet, "A7", "Expenses by Category")
	f.SetCellValue(sheet, "A8", "Category")
	f.SetCellValue(sheet, "B8", "Amount")
	row := 9
	for _, cat := range summary.CategoryData {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), cat.Name)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), cat.Value)
		row++
	}

	f.SetCellValue(sheet, fmt.Sprintf("A%d", row+1), "Contributions by Account")
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row+2), "Account")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", row+2), "Amount")
	row += 3
	for _, acc := range summary.AccountData {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), acc.Name)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), acc.Amount)
		row++
	}

	f.SetCellValue(sheet, fmt.Sprintf("A%d", row+1), "Daily Totals")
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row+2), "Date")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", row+2), "Revenue")
	f.SetCellValue(sheet, fmt.Sprintf("C%d", row+2), "Expenses")
	row += 3
	for _, day := range summary.RevenueData {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), day.Date)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), day.Revenue)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), day.Expenses)
		row++
	}

	return workbookBytes(f)
}

func workbookBytes(f *excelize.File) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
