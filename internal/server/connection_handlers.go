package server

import (
	"github.com/gofiber/fiber/v2"
)

// SendConnectionRequest handles POST /api/connections/requests/:userId
func (s *Server) SendConnectionRequest(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	targetUserID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	conn, err := s.connectionService.SendRequest(ctx, userID, targetUserID)
	if err != nil {
		return respondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(conn)
}

// AcceptConnectionRequest handles POST /api/connections/requests/:userId/accept
func (s *Server) AcceptConnectionRequest(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	requesterID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	conn, err := s.connectionService.AcceptRequest(ctx, userID, requesterID)
	if err != nil {
		return respondWithAppError(c, err)
	}

	return c.JSON(conn)
}

// RejectConnectionRequest handles POST /api/connections/requests/:userId/reject
func (s *Server) RejectConnectionRequest(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	otherUserID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if err := s.connectionService.RejectRequest(ctx, userID, otherUserID); err != nil {
		return respondWithAppError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// RemoveConnection handles DELETE /api/connections/:userId
func (s *Server) RemoveConnection(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	otherUserID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if err := s.connectionService.RemoveConnection(ctx, userID, otherUserID); err != nil {
		return respondWithAppError(c, err)
	}

	return c.SendStatus(fiber.StatusOK)
}

// GetConnections handles GET /api/connections
func (s *Server) GetConnections(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	users, err := s.connectionService.ListConnections(ctx, userID)
	if err != nil {
		return respondWithAppError(c, err)
	}

	return c.JSON(users)
}

// GetPendingRequests handles GET /api/connections/requests
func (s *Server) GetPendingRequests(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	users, err := s.connectionService.ListInboundRequests(ctx, userID)
	if err != nil {
		return respondWithAppError(c, err)
	}

	return c.JSON(users)
}

// GetSentRequests handles GET /api/connections/requests/sent
func (s *Server) GetSentRequests(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	users, err := s.connectionService.ListOutboundRequests(ctx, userID)
	if err != nil {
		return respondWithAppError(c, err)
	}

	return c.JSON(users)
}

// GetConnectionStatus handles GET /api/connections/status/:userId
func (s *Server) GetConnectionStatus(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	targetUserID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	status, err := s.connectionService.Status(ctx, userID, targetUserID)
	if err != nil {
		return respondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"status": status,
	})
}
