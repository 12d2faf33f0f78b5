package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/IstiakDeveloper/School-Management-Pro-sub003/internal/ledger"
	"github.com/IstiakDeveloper/School-Management-Pro-sub003/internal/middleware"
	"github.com/IstiakDeveloper/School-Management-Pro-sub003/internal/util"
)

// DonationHandler exposes welfare donations and the welfare summary.
type DonationHandler struct {
	Donations *ledger.DonationLedger
}

func NewDonationHandler(donations *ledger.DonationLedger) *DonationHandler {
	return &DonationHandler{Donations: donations}
}

type recordDonationReq struct {
	AccountID uint   `json:"account_id" binding:"required"`
	Amount    string `json:"amount" binding:"required"`
	Date      string `json:"date"`
	DonorName string `json:"donor_name" binding:"required,max=64"`
	Method    string `json:"method" binding:"max=32"`
}

func (h *DonationHandler) RecordDonation(c *gin.Context) {
	var req recordDonationReq
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

	don, err := h.Donations.Record(ledger.RecordDonationParams{
		AccountID: req.AccountID,
		Amount:    amount,
		Date:      date,
		DonorName: req.DonorName,
		Method:    req.Method,
		Actor:     middleware.Actor(c),
	})
	if err != nil {
		util.LedgerError(c, err)
		return
	}
	util.Success(c, util.Response{"donation": don})
}

func (h *DonationHandler) ListDonations(c *gin.Context) {
	dons, err := h.Donations.List()
	if err != nil {
		util.LedgerError(c, err)
		return
	}
	util.Success(c, util.Response{"donations": dons})
}

func (h *DonationHandler) DeleteDonation(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}
	if err := h.Donations.Delete(uint(id)); err != nil {
		util.LedgerError(c, err)
		return
	}
	util.Success(c, util.Response{"message": "donation deleted, transaction preserved for audit"})
}

func (h *DonationHandler) WelfareSummary(c *gin.Context) {
	sum, err := h.Donations.Summary()
	if err != nil {
		util.LedgerError(c, err)
		return
	}
	util.Success(c, util.Response{"summary": sum})
}
