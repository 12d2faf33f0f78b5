package main

import (
	"fmt"
	"log"

	"github.com/IstiakDeveloper/School-Management-Pro-sub003/internal/config"
	"github.com/IstiakDeveloper/School-Management-Pro-sub003/internal/database"
	"github.com/IstiakDeveloper/School-Management-Pro-sub003/internal/ledger"
	"github.com/IstiakDeveloper/School-Management-Pro-sub003/internal/models"
	"github.com/IstiakDeveloper/School-Management-Pro-sub003/internal/router"
)

func main() {
	// load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// init database
	db, err := database.Init(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}

	// run migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	// categories the welfare engines stamp on generated transactions
	expenseCat, err := database.EnsureCategory(db, cfg.Ledger.WelfareExpenseCategory, models.TransactionTypeExpense)
	if err != nil {
		log.Fatalf("seed categories: %v", err)
	}
	incomeCat, err := database.EnsureCategory(db, cfg.Ledger.WelfareIncomeCategory, models.TransactionTypeIncome)
	if err != nil {
		log.Fatalf("seed categories: %v", err)
	}

	// wire the ledger core
	seq := ledger.NewSequences()
	accounts := ledger.NewAccountStore(db)
	txns := ledger.NewTransactionLedger(db, accounts, seq)
	funds := ledger.NewFundLedger(db, accounts, seq)
	loans := ledger.NewLoanEngine(db, accounts, txns, seq, expenseCat, incomeCat)
	donations := ledger.NewDonationLedger(db, accounts, txns, seq, incomeCat)

	r := router.SetupRouter(cfg, db, router.Services{
		Accounts:  accounts,
		Ledger:    txns,
		Funds:     funds,
		Loans:     loans,
		Donations: donations,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	log.Printf("server listening on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("run server: %v", err)
	}
}
