package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/IstiakDeveloper/School-Management-Pro-sub003/internal/config"
	"github.com/IstiakDeveloper/School-Management-Pro-sub003/internal/handler"
	"github.com/IstiakDeveloper/School-Management-Pro-sub003/internal/ledger"
	"github.com/IstiakDeveloper/School-Management-Pro-sub003/internal/middleware"
)

// Services bundles the ledger core the HTTP layer exposes.
type Services struct {
	Accounts  *ledger.AccountStore
	Ledger    *ledger.TransactionLedger
	Funds     *ledger.FundLedger
	Loans     *ledger.LoanEngine
	Donations *ledger.DonationLedger
}

// SetupRouter configures the Gin engine and the /api surface.
func SetupRouter(cfg *config.Config, db *gorm.DB, svc Services) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	api := r.Group("/api")
	api.Use(
		middleware.ActorMiddleware(cfg.JWT.Secret),
		middleware.AuditMiddleware(db),
	)

	accountHandler := handler.NewAccountHandler(svc.Accounts)
	api.POST("/accounts", accountHandler.CreateAccount)
	api.GET("/accounts", accountHandler.ListAccounts)
	api.GET("/accounts/:id", accountHandler.GetAccount)
	api.DELETE("/accounts/:id", accountHandler.DeleteAccount)

	categoryHandler := handler.NewCategoryHandler(db)
	api.POST("/categories", categoryHandler.CreateCategory)
	api.GET("/categories", categoryHandler.ListCategories)

	transactionHandler := handler.NewTransactionHandler(svc.Ledger)
	api.POST("/transactions", transactionHandler.RecordTransaction)
	api.GET("/transactions", transactionHandler.ListTransactions)
	api.DELETE("/transactions/:id", transactionHandler.DeleteTransaction)

	fundHandler := handler.NewFundHandler(svc.Funds)
	api.POST("/funds/in", fundHandler.FundIn)
	api.POST("/funds/out", fundHandler.FundOut)
	api.GET("/funds", fundHandler.ListFunds)
	api.PUT("/funds/transactions/:id", fundHandler.EditFundTransaction)
	api.DELETE("/funds/transactions/:id", fundHandler.DeleteFundTransaction)

	loanHandler := handler.NewLoanHandler(svc.Loans)
	api.POST("/loans", loanHandler.CreateLoan)
	api.GET("/loans", loanHandler.ListLoans)
	api.GET("/loans/:id", loanHandler.GetLoan)
	api.PUT("/loans/:id", loanHandler.EditLoan)
	api.POST("/loans/:id/cancel", loanHandler.CancelLoan)
	api.POST("/installments/:id/pay", loanHandler.PayInstallment)

	donationHandler := handler.NewDonationHandler(svc.Donations)
	api.POST("/donations", donationHandler.RecordDonation)
	api.GET("/donations", donationHandler.ListDonations)
	api.DELETE("/donations/:id", donationHandler.DeleteDonation)
	api.GET("/welfare/summary", donationHandler.WelfareSummary)

	exportHandler := handler.NewExportHandler(svc.Ledger)
	api.GET("/export/transactions/csv", exportHandler.ExportCSV)
	api.GET("/export/transactions/xlsx", exportHandler.ExportXLSX)

	return r
}
