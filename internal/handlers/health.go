package handlers

import (
	"lendcore/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// Health reports process liveness.
func Health(c *fiber.Ctx) error {
	return utils.Success(c, fiber.Map{"status": "ok"})
}
