package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/IstiakDeveloper/School-Management-Pro-sub003/internal/ledger"
	"github.com/IstiakDeveloper/School-Management-Pro-sub003/internal/middleware"
	"github.com/IstiakDeveloper/School-Management-Pro-sub003/internal/util"
)

// LoanHandler exposes the welfare loan engine.
type LoanHandler struct {
	Loans *ledger.LoanEngine
}

func NewLoanHandler(loans *ledger.LoanEngine) *LoanHandler {
	return &LoanHandler{Loans: loans}
}

type createLoanReq struct {
	TeacherID            uint   `json:"teacher_id" binding:"required"`
	AccountID            uint   `json:"account_id" binding:"required"`
	LoanAmount           string `json:"loan_amount" binding:"required"`
	InstallmentAmount    string `json:"installment_amount" binding:"required"`
	LoanDate             string `json:"loan_date"`
	FirstInstallmentDate string `json:"first_installment_date" binding:"required"`
}

func (h *LoanHandler) CreateLoan(c *gin.Context) {
	var req createLoanReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return
	}

	amount, err := util.ParseAmount(req.LoanAmount)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}
	installment, err := util.ParseAmount(req.InstallmentAmount)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}
	loanDate, err := util.ParseDateOrToday(req.LoanDate)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}
	firstDue, err := util.ParseDate(req.FirstInstallmentDate)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	loan, err := h.Loans.CreateLoan(ledger.CreateLoanParams{
		TeacherID:            req.TeacherID,
		AccountID:            req.AccountID,
		LoanAmount:           amount,
		InstallmentAmount:    installment,
		LoanDate:             loanDate,
		FirstInstallmentDate: firstDue,
		Actor:                middleware.Actor(c),
	})
	if err != nil {
		util.LedgerError(c, err)
		return
	}
	util.Success(c, util.Response{"loan": loan})
}

func (h *LoanHandler) GetLoan(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}
	loan, err := h.Loans.Get(uint(id))
	if err != nil {
		util.LedgerError(c, err)
		return
	}
	util.Success(c, util.Response{"loan": loan})
}

func (h *LoanHandler) ListLoans(c *gin.Context) {
	loans, err := h.Loans.List(c.Query("status"))
	if err != nil {
		util.LedgerError(c, err)
		return
	}
	util.Success(c, util.Response{"loans": loans})
}

type payInstallmentReq struct {
	AccountID uint   `json:"account_id" binding:"required"`
	Method    string `json:"method" binding:"required,max=32"`
	Reference string `json:"reference" binding:"max=64"`
	PaidDate  string `json:"paid_date"`
}

func (h *LoanHandler) PayInstallment(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}

	var req payInstallmentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return
	}
	paidDate, err := util.ParseDateOrToday(req.PaidDate)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	loan, err := h.Loans.PayInstallment(ledger.PayInstallmentParams{
		InstallmentID: uint(id),
		AccountID:     req.AccountID,
		Method:        req.Method,
		Reference:     req.Reference,
		PaidDate:      paidDate,
		Actor:         middleware.Actor(c),
	})
	if err != nil {
		util.LedgerError(c, err)
		return
	}
	util.Success(c, util.Response{"loan": loan})
}

func (h *LoanHandler) CancelLoan(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}
	loan, err := h.Loans.CancelLoan(uint(id))
	if err != nil {
		util.LedgerError(c, err)
		return
	}
	util.Success(c, util.Response{"loan": loan})
}

type editLoanReq struct {
	LoanAmount           string `json:"loan_amount" binding:"required"`
	InstallmentCount     int    `json:"installment_count" binding:"required,min=1"`
	LoanDate             string `json:"loan_date" binding:"required"`
	FirstInstallmentDate string `json:"first_installment_date" binding:"required"`
	Description          string `json:"description" binding:"max=255"`
}

func (h *LoanHandler) EditLoan(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}

	var req editLoanReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return
	}
	amount, err := util.ParseAmount(req.LoanAmount)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}
	loanDate, err := util.ParseDate(req.LoanDate)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}
	firstDue, err := util.ParseDate(req.FirstInstallmentDate)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	loan, err := h.Loans.EditLoan(ledger.EditLoanParams{
		LoanID:               uint(id),
		LoanAmount:           amount,
		InstallmentCount:     req.InstallmentCount,
		LoanDate:             loanDate,
		FirstInstallmentDate: firstDue,
		Description:          req.Description,
	})
	if err != nil {
		util.LedgerError(c, err)
		return
	}
	util.Success(c, util.Response{"loan": loan})
}
