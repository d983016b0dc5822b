package server

import (
	"context"
	"errors"
	"time"

	"vybeecho/internal/models"
	"vybeecho/internal/service"

	"github.com/gofiber/fiber/v2"
)

// attachGraph fills the computed connection graph fields on the user.
func (s *Server) attachGraph(ctx context.Context, user *models.User) error {
	graph, err := s.connectionService.Graph(ctx, user.ID)
	if err != nil {
		return err
	}
	user.Connections = graph.Connections
	user.Requests = graph.Requests
	user.SentRequests = graph.SentRequests
	return nil
}

// GetAllUsers handles GET /api/users
func (s *Server) GetAllUsers(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	userID := c.Locals("userID").(uint)
	page := parsePagination(c, 100)

	users, err := s.userService.ListUsers(ctx, userID, page.Limit, page.Offset)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return c.Status(fiber.StatusGatewayTimeout).JSON(fiber.Map{
				"error": "Request timeout",
			})
		}
		return respondWithAppError(c, err)
	}

	return c.JSON(users)
}

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	user, err := s.userService.GetUser(ctx, userID)
	if err != nil {
		return respondWithAppError(c, err)
	}
	if err := s.attachGraph(ctx, user); err != nil {
		return respondWithAppError(c, err)
	}

	return c.JSON(user)
}

// UpdateMyProfile handles PUT /api/users/me
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	var req service.UpdateProfileInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(ctx, userID, req)
	if err != nil {
		return respondWithAppError(c, err)
	}

	return c.JSON(user)
}

// GetUserProfile handles GET /api/users/:id
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.GetUser(ctx, id)
	if err != nil {
		return respondWithAppError(c, err)
	}
	if err := s.attachGraph(ctx, user); err != nil {
		return respondWithAppError(c, err)
	}

	echoes, err := s.echoService.ListByUser(ctx, id)
	if err != nil {
		return respondWithAppError(c, err)
	}
	user.Echoes = echoes

	return c.JSON(user)
}

// GetUserEchoes handles GET /api/users/:id/echoes
func (s *Server) GetUserEchoes(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if _, err := s.userService.GetUser(ctx, id); err != nil {
		return respondWithAppError(c, err)
	}

	echoes, err := s.echoService.ListByUser(ctx, id)
	if err != nil {
		return respondWithAppError(c, err)
	}

	return c.JSON(echoes)
}
