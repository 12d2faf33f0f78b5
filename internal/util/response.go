package util

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/IstiakDeveloper/School-Management-Pro-sub003/internal/ledger"
)

// Response is the data payload of a success envelope.
type Response map[string]interface{}

// Business codes carried next to the HTTP status.
const (
	CodeOK            = 0
	CodeInvalidParam  = 40001
	CodeAuth          = 40101
	CodeNotFound      = 40401
	CodeConflict      = 40901
	CodeInvalidState  = 42201
	CodeInsufficient  = 42202
	CodeAlreadyPaid   = 42203
	CodeNoActiveFund  = 42204
	CodeHasDependents = 42205
	CodeServerErr     = 50001
)

// Success writes the uniform success envelope.
func Success(c *gin.Context, data Response) {
	c.JSON(http.StatusOK, gin.H{
		"code": CodeOK,
		"data": data,
	})
}

// Error writes the uniform error envelope.
func Error(c *gin.Context, httpStatus int, code int, msg string) {
	c.JSON(httpStatus, gin.H{
		"code":    code,
		"message": msg,
	})
}

// LedgerError maps a ledger error kind onto the response envelope.
func LedgerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ledger.ErrValidation):
		Error(c, http.StatusBadRequest, CodeInvalidParam, err.Error())
	case errors.Is(err, ledger.ErrNotFound):
		Error(c, http.StatusNotFound, CodeNotFound, err.Error())
	case errors.Is(err, ledger.ErrHasDependents):
		Error(c, http.StatusConflict, CodeHasDependents, err.Error())
	case errors.Is(err, ledger.ErrAlreadyPaid):
		Error(c, http.StatusConflict, CodeAlreadyPaid, err.Error())
	case errors.Is(err, ledger.ErrNoActiveFund):
		Error(c, http.StatusUnprocessableEntity, CodeNoActiveFund, err.Error())
	case errors.Is(err, ledger.ErrInsufficientFunds):
		Error(c, http.StatusUnprocessableEntity, CodeInsufficient, err.Error())
	case errors.Is(err, ledger.ErrInvalidState):
		Error(c, http.StatusUnprocessableEntity, CodeInvalidState, err.Error())
	case errors.Is(err, ledger.ErrIdentifierCollision):
		Error(c, http.StatusConflict, CodeConflict, err.Error())
	default:
		Error(c, http.StatusInternalServerError, CodeServerErr, "internal error")
	}
}
