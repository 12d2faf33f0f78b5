package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/IstiakDeveloper/School-Management-Pro-sub003/internal/ledger"
	"github.com/IstiakDeveloper/School-Management-Pro-sub003/internal/middleware"
	"github.com/IstiakDeveloper/School-Management-Pro-sub003/internal/util"
)

// FundHandler exposes the investor fund ledger.
type FundHandler struct {
	Funds *ledger.FundLedger
}

func NewFundHandler(funds *ledger.FundLedger) *FundHandler {
	return &FundHandler{Funds: funds}
}

type fundMoveReq struct {
	InvestorID  uint   `json:"investor_id" binding:"required"`
	AccountID   uint   `json:"account_id" binding:"required"`
	Amount      string `json:"amount" binding:"required"`
	Date        string `json:"date"`
	Description string `json:"description" binding:"max=255"`
}

func (h *FundHandler) bindMove(c *gin.Context) (*ledger.FundMoveParams, bool) {
	var req fundMoveReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return nil, false
	}
	amount, err := util.ParseAmount(req.Amount)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return nil, false
	}
	date, err := util.ParseDateOrToday(req.Date)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return nil, false
	}
	return &ledger.FundMoveParams{
		InvestorID:  req.InvestorID,
		AccountID:   req.AccountID,
		Amount:      amount,
		Date:        date,
		Description: req.Description,
		Actor:       middleware.Actor(c),
	}, true
}

func (h *FundHandler) FundIn(c *gin.Context) {
	p, ok := h.bindMove(c)
	if !ok {
		return
	}
	ft, err := h.Funds.FundIn(*p)
	if err != nil {
		util.LedgerError(c, err)
		return
	}
	util.Success(c, util.Response{"fund_transaction": ft})
}

func (h *FundHandler) FundOut(c *gin.Context) {
	p, ok := h.bindMove(c)
	if !ok {
		return
	}
	ft, err := h.Funds.FundOut(*p)
	if err != nil {
		util.LedgerError(c, err)
		return
	}
	util.Success(c, util.Response{"fund_transaction": ft})
}

func (h *FundHandler) ListFunds(c *gin.Context) {
	funds, err := h.Funds.ListFunds()
	if err != nil {
		util.LedgerError(c, err)
		return
	}
	util.Success(c, util.Response{"funds": funds})
}

type editFundTransactionReq struct {
	Amount      string `json:"amount" binding:"required"`
	Date        string `json:"date" binding:"required"`
	Description string `json:"description" binding:"max=255"`
}

func (h *FundHandler) EditFundTransaction(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}

	var req editFundTransactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return
	}
	amount, err := util.ParseAmount(req.Amount)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}
	date, err := util.ParseDate(req.Date)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	ft, err := h.Funds.EditTransaction(uint(id), amount, date, req.Description)
	if err != nil {
		util.LedgerError(c, err)
		return
	}
	util.Success(c, util.Response{"fund_transaction": ft})
}

func (h *FundHandler) DeleteFundTransaction(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}
	if err := h.Funds.DeleteTransaction(uint(id)); err != nil {
		util.LedgerError(c, err)
		return
	}
	util.Success(c, util.Response{"message": "fund transaction reversed and deleted"})
}
