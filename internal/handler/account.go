package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/IstiakDeveloper/School-Management-Pro-sub003/internal/ledger"
	"github.com/IstiakDeveloper/School-Management-Pro-sub003/internal/util"
)

// AccountHandler exposes the account store.
type AccountHandler struct {
	Accounts *ledger.AccountStore
}

func NewAccountHandler(accounts *ledger.AccountStore) *AccountHandler {
	return &AccountHandler{Accounts: accounts}
}

type createAccountReq struct {
	Name           string `json:"name" binding:"required,max=64"`
	Number         string `json:"number" binding:"required,max=32"`
	Type           string `json:"type" binding:"required,oneof=bank cash mobile_wallet"`
	OpeningBalance string `json:"opening_balance"`
}

func (h *AccountHandler) CreateAccount(c *gin.Context) {
	var req createAccountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return
	}

	opening := decimal.Zero
	if req.OpeningBalance != "" {
		var err error
		opening, err = decimal.NewFromString(req.OpeningBalance)
		if err != nil || opening.IsNegative() {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid opening balance")
			return
		}
	}

	acc, err := h.Accounts.Create(ledger.CreateAccountParams{
		Name:           req.Name,
		Number:         req.Number,
		Type:           req.Type,
		OpeningBalance: opening,
	})
	if err != nil {
		util.LedgerError(c, err)
		return
	}

	util.Success(c, util.Response{"account": acc})
}

func (h *AccountHandler) GetAccount(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}
	acc, err := h.Accounts.Get(uint(id))
	if err != nil {
		util.LedgerError(c, err)
		return
	}
	util.Success(c, util.Response{"account": acc})
}

func (h *AccountHandler) ListAccounts(c *gin.Context) {
	accs, err := h.Accounts.List()
	if err != nil {
		util.LedgerError(c, err)
		return
	}
	util.Success(c, util.Response{"accounts": accs})
}

func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}
	if err := h.Accounts.Delete(uint(id)); err != nil {
		util.LedgerError(c, err)
		return
	}
	util.Success(c, util.Response{"message": "account deleted"})
}
