package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/IstiakDeveloper/School-Management-Pro-sub003/internal/ledger"
	"github.com/IstiakDeveloper/School-Management-Pro-sub003/internal/middleware"
	"github.com/IstiakDeveloper/School-Management-Pro-sub003/internal/models"
	"github.com/IstiakDeveloper/School-Management-Pro-sub003/internal/util"
)

// TransactionHandler exposes the transaction ledger.
type TransactionHandler struct {
	Ledger *ledger.TransactionLedger
}

func NewTransactionHandler(l *ledger.TransactionLedger) *TransactionHandler {
	return &TransactionHandler{Ledger: l}
}

type recordTransactionReq struct {
	AccountID           uint   `json:"account_id" binding:"required"`
	Type                string `json:"type" binding:"required,oneof=income expense transfer asset_purchase"`
	Amount              string `json:"amount" binding:"required"`
	Date                string `json:"date"`
	CategoryID          *uint  `json:"category_id"`
	TransferToAccountID *uint  `json:"transfer_to_account_id"`
	Description         string `json:"description" binding:"max=255"`
}

func (h *TransactionHandler) RecordTransaction(c *gin.Context) {
	var req recordTransactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return
	}

	amount, err := util.ParseAmount(req.Amount)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}
	date, err := util.ParseDateOrToday(req.Date)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	txn, err := h.Ledger.Record(ledger.RecordParams{
		AccountID:           req.AccountID,
		Type:                req.Type,
		Amount:              amount,
		Date:                date,
		CategoryID:          req.CategoryID,
		TransferToAccountID: req.TransferToAccountID,
		Description:         req.Description,
		Actor:               middleware.Actor(c),
	})
	if err != nil {
		util.LedgerError(c, err)
		return
	}

	util.Success(c, util.Response{"transaction": txn})
}

func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	var p ledger.ListParams

	if s := c.Query("start"); s != "" {
		t, err := util.ParseDate(s)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "start date must be YYYY-MM-DD")
			return
		}
		p.From = &t
	}
	if s := c.Query("end"); s != "" {
		t, err := util.ParseDate(s)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "end date must be YYYY-MM-DD")
			return
		}
		// end date is inclusive: filter below the next day
		end := t.AddDate(0, 0, 1)
		p.To = &end
	}
	if t := c.Query("type"); t != "" {
		p.Type = t
	}
	if s := c.Query("account_id"); s != "" {
		id, err := strconv.Atoi(s)
		if err == nil && id > 0 {
			p.AccountID = uint(id)
		}
	}

	txns, err := h.Ledger.List(p)
	if err != nil {
		util.LedgerError(c, err)
		return
	}

	// totals over the same filter
	income := decimal.Zero
	expense := decimal.Zero
	for i := range txns {
		switch txns[i].Type {
		case models.TransactionTypeIncome:
			income = income.Add(txns[i].Amount)
		case models.TransactionTypeExpense, models.TransactionTypeAssetPurchase:
			expense = expense.Add(txns[i].Amount)
		}
	}

	util.Success(c, util.Response{
		"transactions": txns,
		"summary": gin.H{
			"total_income":  income,
			"total_expense": expense,
			"net":           income.Sub(expense),
		},
	})
}

func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}
	if err := h.Ledger.ReverseAndDelete(uint(id)); err != nil {
		util.LedgerError(c, err)
		return
	}
	util.Success(c, util.Response{"message": "transaction reversed and deleted"})
}
