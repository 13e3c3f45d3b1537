package handlers

import (
	"errors"

	"lendcore/internal/repositories"
	"lendcore/internal/services/ledger"
	"lendcore/internal/services/payment"
	"lendcore/internal/utils"
	"lendcore/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// PaymentHandler exposes repayment collection.
type PaymentHandler struct {
	payments *payment.Service
}

func NewPaymentHandler(payments *payment.Service) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

type recordPaymentRequest struct {
	BorrowerID uint   `json:"borrower_id" validate:"required"`
	LoanID     uint   `json:"loan_id" validate:"required"`
	Amount     string `json:"amount" validate:"required,money"`
	AgentID    uint   `json:"agent_id" validate:"required"`
}

func (h *PaymentHandler) Record(c *fiber.Ctx) error {
	var req recordPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if err := validation.Struct(&req); err != nil {
		return utils.BadRequest(c, err.Error())
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return utils.BadRequest(c, "invalid amount")
	}

	receipt, err := h.payments.Record(c.Context(), req.BorrowerID, req.LoanID, amount, req.AgentID)
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrInvalidAmount):
			return utils.BadRequest(c, err.Error())
		case errors.Is(err, repositories.ErrBorrowerNotFound),
			errors.Is(err, repositories.ErrLoanNotFound):
			return utils.NotFound(c, err.Error())
		case errors.Is(err, payment.ErrNoApplicableInstallments),
			errors.Is(err, payment.ErrLoanNotActive),
			errors.Is(err, payment.ErrLoanBorrowerMismatch):
			return utils.UnprocessableEntity(c, err.Error())
		case ledger.IsInvariantViolation(err),
			errors.Is(err, payment.ErrBalanceInconsistent):
			return utils.InternalError(c, err.Error())
		}
		return utils.InternalError(c, "failed to record payment")
	}
	return utils.Success(c, fiber.Map{"receipt": receipt})
}
