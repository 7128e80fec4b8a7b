package server

import (
	"inkwell/internal/middleware"
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	user, err := s.userService.Profile(c.UserContext(), middleware.IdentityFrom(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{"user": user})
}

// UpdateMyStatus handles PUT /api/users/me/status
func (s *Server) UpdateMyStatus(c *fiber.Ctx) error {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body."))
	}

	user, err := s.userService.UpdateStatus(c.UserContext(), middleware.IdentityFrom(c), req.Status)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Status updated.",
		"status":  user.Status,
	})
}
