package server

import (
	"io"
	"log/slog"

	"inkwell/internal/authz"
	"inkwell/internal/middleware"
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

// UploadPostImage handles PUT /api/post-image. Clients send the file in a
// multipart "image" field; an optional "oldPath" field names the previous
// image to remove once the new one is stored.
func (s *Server) UploadPostImage(c *fiber.Ctx) error {
	if err := authz.RequireAuthenticated(middleware.IdentityFrom(c)); err != nil {
		return models.RespondWithError(c, err)
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		// Editing without picking a new file is fine.
		return c.JSON(fiber.Map{"message": "No file provided!"})
	}

	f, err := fileHeader.Open()
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}
	defer func() { _ = f.Close() }()

	content, err := io.ReadAll(f)
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}

	stored, err := s.imageService.Store(fileHeader.Filename, content)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	if oldPath := c.FormValue("oldPath"); oldPath != "" {
		if err := s.imageService.Clear(oldPath); err != nil {
			slog.WarnContext(c.UserContext(), "failed to remove replaced image",
				slog.String("path", oldPath),
				slog.String("error", err.Error()),
			)
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "File stored.",
		"filePath": stored.Path,
	})
}
