// Package routes wires the accounting core behind the HTTP surface.
// Handlers stay thin; everything that matters happens in the
// services.
package routes

import (
	"lendcore/internal/clock"
	"lendcore/internal/handlers"
	"lendcore/internal/repositories"
	"lendcore/internal/services/dayclose"
	"lendcore/internal/services/ledger"
	"lendcore/internal/services/loan"
	"lendcore/internal/services/payment"
	"lendcore/internal/services/risk"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes builds the service graph and registers all routes.
func SetupRoutes(app *fiber.App) {
	store := repositories.NewStore(repositories.DB)
	clk := clock.System()

	ledgerService := ledger.NewService()
	loanService := loan.NewService(store, ledgerService, clk)
	paymentService := payment.NewService(store, ledgerService, clk)
	daycloseService := dayclose.NewService(store, ledgerService, clk)
	riskService := risk.NewService(store, repositories.Cache, clk)

	loanHandler := handlers.NewLoanHandler(loanService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	daycloseHandler := handlers.NewDayCloseHandler(daycloseService)
	riskHandler := handlers.NewRiskHandler(riskService)
	ledgerHandler := handlers.NewLedgerHandler(store, ledgerService, clk)

	app.Get("/health", handlers.Health)

	api := app.Group("/api")

	api.Post("/loans", loanHandler.Issue)
	api.Get("/loans/:id", loanHandler.Get)
	api.Post("/loans/:id/close", loanHandler.Close)

	api.Post("/payments", paymentHandler.Record)
	api.Post("/day-close", daycloseHandler.Close)

	api.Post("/capital", ledgerHandler.IssueCapital)
	api.Get("/ledger/:id", ledgerHandler.Current)

	api.Post("/risk/evaluate", riskHandler.Evaluate)
	api.Get("/risk/:id", riskHandler.Profile)
	api.Put("/risk/thresholds", riskHandler.SetThresholds)
}
