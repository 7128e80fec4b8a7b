package server

import (
	"strconv"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

type postRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	ImageURL string `json:"imageUrl"`
}

// parsePostID extracts and validates the :id route parameter.
func parsePostID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, models.NewNotFoundError("No post found.")
	}
	return uint(id), nil
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body."))
	}

	post, err := s.postService.Create(c.UserContext(), middleware.IdentityFrom(c), service.PostInput{
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Post created successfully!",
		"post":    post,
	})
}

// GetPosts handles GET /api/posts?page=N
func (s *Server) GetPosts(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)

	result, err := s.postService.List(c.UserContext(), middleware.IdentityFrom(c), page)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(result)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := parsePostID(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	post, err := s.postService.Get(c.UserContext(), middleware.IdentityFrom(c), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{"post": post})
}

// UpdatePost handles PUT /api/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := parsePostID(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body."))
	}

	post, err := s.postService.Update(c.UserContext(), middleware.IdentityFrom(c), id, service.PostInput{
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Post updated!",
		"post":    post,
	})
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := parsePostID(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	if err := s.postService.Delete(c.UserContext(), middleware.IdentityFrom(c), id); err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Deleted post."})
}
