package handlers

import (
	"errors"

	"lendcore/internal/repositories"
	"lendcore/internal/services/risk"
	"lendcore/internal/utils"
	"lendcore/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// RiskHandler exposes risk evaluation and threshold management.
type RiskHandler struct {
	risk *risk.Service
}

func NewRiskHandler(riskSvc *risk.Service) *RiskHandler {
	return &RiskHandler{risk: riskSvc}
}

func (h *RiskHandler) Evaluate(c *fiber.Ctx) error {
	var req struct {
		BorrowerIDs []uint `json:"borrower_ids" validate:"required,min=1"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if err := validation.Struct(&req); err != nil {
		return utils.BadRequest(c, err.Error())
	}

	if err := h.risk.Evaluate(c.Context(), req.BorrowerIDs); err != nil {
		return utils.InternalError(c, "failed to evaluate risk")
	}
	return utils.Success(c, fiber.Map{"evaluated": len(req.BorrowerIDs)})
}

func (h *RiskHandler) Profile(c *fiber.Ctx) error {
	borrowerID, err := c.ParamsInt("id")
	if err != nil || borrowerID <= 0 {
		return utils.BadRequest(c, "invalid borrower id")
	}
	profile, err := h.risk.Profile(c.Context(), uint(borrowerID))
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return utils.NotFound(c, err.Error())
		}
		return utils.InternalError(c, "failed to get risk profile")
	}
	return utils.Success(c, fiber.Map{"profile": profile})
}

func (h *RiskHandler) SetThresholds(c *fiber.Ctx) error {
	var req struct {
		IssuerID uint `json:"issuer_id" validate:"required"`
		Low      *int `json:"low" validate:"omitempty,min=0,max=100"`
		Moderate *int `json:"moderate" validate:"omitempty,min=0,max=100"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if err := validation.Struct(&req); err != nil {
		return utils.BadRequest(c, err.Error())
	}

	if err := h.risk.SetThresholds(c.Context(), req.IssuerID, req.Low, req.Moderate); err != nil {
		switch {
		case errors.Is(err, risk.ErrInvertedThresholds),
			errors.Is(err, risk.ErrThresholdOutOfRange):
			return utils.BadRequest(c, err.Error())
		case errors.Is(err, repositories.ErrIssuerNotFound):
			return utils.NotFound(c, err.Error())
		}
		return utils.InternalError(c, "failed to set thresholds")
	}
	return utils.Success(c, fiber.Map{"message": "thresholds updated"})
}
