package server

import (
	"context"

	"vybeecho/internal/middleware"
	"vybeecho/internal/models"
	"vybeecho/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateEcho handles POST /api/echoes
func (s *Server) CreateEcho(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	var req service.PublishInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	echo, err := s.echoService.Publish(ctx, userID, req)
	if err != nil {
		return respondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(echo)
}

// GetFeed handles GET /api/echoes
func (s *Server) GetFeed(c *fiber.Ctx) error {
	ctx := c.Context()
	page := parsePagination(c, 50)

	// The feed is public, but a signed-in browser still gets attributed logs.
	if userID, ok := s.optionalUserID(c); ok {
		c.SetUserContext(context.WithValue(c.UserContext(), middleware.UserIDKey, userID))
	}

	echoes, err := s.echoService.Feed(ctx, page.Limit, page.Offset)
	if err != nil {
		return respondWithAppError(c, err)
	}

	return c.JSON(echoes)
}

// GetEcho handles GET /api/echoes/:id
func (s *Server) GetEcho(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	echo, err := s.echoService.GetEcho(ctx, id)
	if err != nil {
		return respondWithAppError(c, err)
	}

	return c.JSON(echo)
}

// LikeEcho handles POST /api/echoes/:id/like
func (s *Server) LikeEcho(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	echo, err := s.echoService.Like(ctx, id)
	if err != nil {
		return respondWithAppError(c, err)
	}

	return c.JSON(echo)
}

// UnlikeEcho handles DELETE /api/echoes/:id/like
func (s *Server) UnlikeEcho(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	echo, err := s.echoService.Unlike(ctx, id)
	if err != nil {
		return respondWithAppError(c, err)
	}

	return c.JSON(echo)
}

// CreateComment handles POST /api/echoes/:id/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	echo, err := s.echoService.AddComment(ctx, id, userID, req.Text)
	if err != nil {
		return respondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(echo)
}
