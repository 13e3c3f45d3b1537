package handlers

import (
	"errors"

	"lendcore/internal/repositories"
	"lendcore/internal/services/dayclose"
	"lendcore/internal/utils"
	"lendcore/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// DayCloseHandler exposes the end-of-day close.
type DayCloseHandler struct {
	closer *dayclose.Service
}

func NewDayCloseHandler(closer *dayclose.Service) *DayCloseHandler {
	return &DayCloseHandler{closer: closer}
}

func (h *DayCloseHandler) Close(c *fiber.Ctx) error {
	var req struct {
		AgentID uint `json:"agent_id" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if err := validation.Struct(&req); err != nil {
		return utils.BadRequest(c, err.Error())
	}

	summary, err := h.closer.Close(c.Context(), req.AgentID)
	if err != nil {
		switch {
		case errors.Is(err, dayclose.ErrAlreadyClosed):
			return utils.Conflict(c, err.Error())
		case errors.Is(err, repositories.ErrAgentNotFound):
			return utils.NotFound(c, err.Error())
		}
		return utils.InternalError(c, "failed to close day")
	}
	return utils.Success(c, fiber.Map{"summary": summary})
}
