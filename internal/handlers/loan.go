package handlers

import (
	"errors"

	"lendcore/internal/models"
	"lendcore/internal/repositories"
	"lendcore/internal/services/ledger"
	"lendcore/internal/services/loan"
	"lendcore/internal/services/schedule"
	"lendcore/internal/utils"
	"lendcore/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// LoanHandler exposes loan issuance and closure.
type LoanHandler struct {
	loans *loan.Service
}

func NewLoanHandler(loans *loan.Service) *LoanHandler {
	return &LoanHandler{loans: loans}
}

type issueLoanRequest struct {
	BorrowerID      uint     `json:"borrower_id" validate:"required"`
	IssuerID        uint     `json:"issuer_id" validate:"required"`
	Principal       string   `json:"principal" validate:"required,money"`
	UpfrontDeducted string   `json:"upfront_deducted" validate:"omitempty,money"`
	DailyAmount     string   `json:"daily_amount" validate:"required,money"`
	CollectionDays  []string `json:"collection_days" validate:"required,min=1,dive,weekday"`
}

func (h *LoanHandler) Issue(c *fiber.Ctx) error {
	var req issueLoanRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if err := validation.Struct(&req); err != nil {
		return utils.BadRequest(c, err.Error())
	}

	principal, err := decimal.NewFromString(req.Principal)
	if err != nil {
		return utils.BadRequest(c, "invalid principal")
	}
	daily, err := decimal.NewFromString(req.DailyAmount)
	if err != nil {
		return utils.BadRequest(c, "invalid daily amount")
	}
	upfront := decimal.Zero
	if req.UpfrontDeducted != "" {
		if upfront, err = decimal.NewFromString(req.UpfrontDeducted); err != nil {
			return utils.BadRequest(c, "invalid upfront deduction")
		}
	}

	created, err := h.loans.Issue(c.Context(), loan.IssueParams{
		BorrowerID:      req.BorrowerID,
		IssuerID:        req.IssuerID,
		Principal:       principal,
		UpfrontDeducted: upfront,
		DailyAmount:     daily,
		CollectionDays:  models.Weekdays(req.CollectionDays),
	})
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrEmptyScheduleDays),
			errors.Is(err, schedule.ErrNonPositiveAmount),
			errors.Is(err, loan.ErrInvalidPrincipal),
			errors.Is(err, loan.ErrInvalidDailyAmount),
			errors.Is(err, loan.ErrInvalidUpfront):
			return utils.BadRequest(c, err.Error())
		case errors.Is(err, ledger.ErrInsufficientCapital),
			errors.Is(err, repositories.ErrNoCapitalRecord):
			return utils.UnprocessableEntity(c, err.Error())
		case errors.Is(err, repositories.ErrBorrowerNotFound),
			errors.Is(err, repositories.ErrIssuerNotFound):
			return utils.NotFound(c, err.Error())
		}
		return utils.InternalError(c, "failed to issue loan")
	}

	return utils.Created(c, fiber.Map{"loan": created})
}

func (h *LoanHandler) Close(c *fiber.Ctx) error {
	loanID, err := c.ParamsInt("id")
	if err != nil || loanID <= 0 {
		return utils.BadRequest(c, "invalid loan id")
	}
	var req struct {
		IssuerID uint `json:"issuer_id" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if err := validation.Struct(&req); err != nil {
		return utils.BadRequest(c, err.Error())
	}

	status, err := h.loans.Close(c.Context(), uint(loanID), req.IssuerID)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrLoanNotFound):
			return utils.NotFound(c, err.Error())
		case errors.Is(err, loan.ErrLoanNotOpen):
			return utils.Conflict(c, err.Error())
		case ledger.IsInvariantViolation(err), errors.Is(err, repositories.ErrNoCapitalRecord):
			return utils.InternalError(c, err.Error())
		}
		return utils.InternalError(c, "failed to close loan")
	}
	return utils.Success(c, fiber.Map{"new_status": status})
}

func (h *LoanHandler) Get(c *fiber.Ctx) error {
	loanID, err := c.ParamsInt("id")
	if err != nil || loanID <= 0 {
		return utils.BadRequest(c, "invalid loan id")
	}
	found, insts, err := h.loans.Get(c.Context(), uint(loanID))
	if err != nil {
		if errors.Is(err, repositories.ErrLoanNotFound) {
			return utils.NotFound(c, err.Error())
		}
		return utils.InternalError(c, "failed to get loan")
	}
	return utils.Success(c, fiber.Map{"loan": found, "installments": insts})
}
