package handlers

import (
	"errors"

	"lendcore/internal/clock"
	"lendcore/internal/repositories"
	"lendcore/internal/services/ledger"
	"lendcore/internal/utils"
	"lendcore/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// LedgerHandler exposes capital issuance and the current ledger
// position.
type LedgerHandler struct {
	store  repositories.DataStore
	ledger *ledger.Service
	clk    clock.Clock
}

func NewLedgerHandler(store repositories.DataStore, ledgerSvc *ledger.Service, clk clock.Clock) *LedgerHandler {
	return &LedgerHandler{store: store, ledger: ledgerSvc, clk: clk}
}

func (h *LedgerHandler) IssueCapital(c *fiber.Ctx) error {
	var req struct {
		IssuerID uint   `json:"issuer_id" validate:"required"`
		Idle     string `json:"idle_capital" validate:"required,money"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if err := validation.Struct(&req); err != nil {
		return utils.BadRequest(c, err.Error())
	}
	idle, err := decimal.NewFromString(req.Idle)
	if err != nil {
		return utils.BadRequest(c, "invalid idle capital")
	}

	var snap interface{}
	err = h.store.ExecuteInTransaction(func(tx repositories.DataStore) error {
		if _, err := tx.GetIssuer(c.Context(), req.IssuerID); err != nil {
			return err
		}
		s, err := h.ledger.IssueCapital(c.Context(), tx, req.IssuerID, idle, h.clk.Now())
		if err != nil {
			return err
		}
		snap = s
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrCapitalRecordExists):
			return utils.Conflict(c, err.Error())
		case errors.Is(err, ledger.ErrNegativeIdleCapital):
			return utils.BadRequest(c, err.Error())
		case errors.Is(err, repositories.ErrIssuerNotFound):
			return utils.NotFound(c, err.Error())
		case ledger.IsInvariantViolation(err):
			return utils.InternalError(c, err.Error())
		}
		return utils.InternalError(c, "failed to issue capital")
	}
	return utils.Created(c, fiber.Map{"snapshot": snap})
}

func (h *LedgerHandler) Current(c *fiber.Ctx) error {
	issuerID, err := c.ParamsInt("id")
	if err != nil || issuerID <= 0 {
		return utils.BadRequest(c, "invalid issuer id")
	}
	snap, err := h.store.LatestSnapshot(c.Context(), uint(issuerID))
	if err != nil {
		if errors.Is(err, repositories.ErrNoCapitalRecord) {
			return utils.NotFound(c, err.Error())
		}
		return utils.InternalError(c, "failed to get ledger position")
	}
	return utils.Success(c, fiber.Map{"snapshot": snap})
}
