package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/IstiakDeveloper/School-Management-Pro-sub003/internal/ledger"
	"github.com/IstiakDeveloper/School-Management-Pro-sub003/internal/models"
	"github.com/IstiakDeveloper/School-Management-Pro-sub003/internal/util"
)

// ExportHandler streams the transaction history as CSV or XLSX.
type ExportHandler struct {
	Ledger *ledger.TransactionLedger
}

func NewExportHandler(l *ledger.TransactionLedger) *ExportHandler {
	return &ExportHandler{Ledger: l}
}

var exportHeaders = []string{"Number", "Type", "Account", "Amount", "Date", "Description", "Created By"}

func (h *ExportHandler) rows(c *gin.Context) ([]models.Transaction, bool) {
	var p ledger.ListParams
	if s := c.Query("start"); s != "" {
		t, err := util.ParseDate(s)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "start date must be YYYY-MM-DD")
			return nil, false
		}
		p.From = &t
	}
	if s := c.Query("end"); s != "" {
		t, err := util.ParseDate(s)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "end date must be YYYY-MM-DD")
			return nil, false
		}
		end := t.AddDate(0, 0, 1)
		p.To = &end
	}

	txns, err := h.Ledger.List(p)
	if err != nil {
		util.LedgerError(c, err)
		return nil, false
	}
	return txns, true
}

// ExportCSV writes the filtered history as CSV.
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	txns, ok := h.rows(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s_%s.csv\"",
		time.Now().Format("20060102"), uuid.New().String()[:8]))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(exportHeaders)
	for i := range txns {
		t := &txns[i]
		writer.Write([]string{
			t.TransactionNumber,
			t.Type,
			fmt.Sprintf("%d", t.AccountID),
			t.Amount.StringFixed(2),
			t.Date.Format("2006-01-02"),
			t.Description,
			t.CreatedBy,
		})
	}
}

// ExportXLSX writes the filtered history as an Excel workbook.
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	txns, ok := h.rows(c)
	if !ok {
		return
	}

	f := excelize.NewFile()
	sheetName := "Transactions"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "create sheet failed")
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for i, head := range exportHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, head)
	}

	for idx := range txns {
		t := &txns[idx]
		row := idx + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), t.TransactionNumber)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), t.Type)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), t.AccountID)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), t.Amount.StringFixed(2))
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), t.Date.Format("2006-01-02"))
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), t.Description)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), t.CreatedBy)
	}

	f.SetColWidth(sheetName, "A", "A", 20)
	f.SetColWidth(sheetName, "B", "B", 14)
	f.SetColWidth(sheetName, "D", "D", 12)
	f.SetColWidth(sheetName, "F", "F", 30)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s_%s.xlsx\"",
		time.Now().Format("20060102"), uuid.New().String()[:8]))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "export failed")
	}
}
