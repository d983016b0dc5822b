package service

import (
	"context"

	"vybeecho/internal/models"
	"vybeecho/internal/observability"
	"vybeecho/internal/repository"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

// ConnectionService implements the connection-request lifecycle: the
// send / accept / reject state machine across pairs of user records.
//
// All pair state lives in a single connections row, and every transition
// runs its check-then-write sequence inside one database transaction, so
// a transition either fully happens or leaves the relation untouched.
type ConnectionService struct {
	connRepo repository.ConnectionRepository
	userRepo repository.UserRepository
	db       *gorm.DB
}

// NewConnectionService returns a new ConnectionService. The raw DB handle
// is used to open transactions spanning the check-then-write sequences.
func NewConnectionService(connRepo repository.ConnectionRepository, userRepo repository.UserRepository, db *gorm.DB) *ConnectionService {
	return &ConnectionService{
		connRepo: connRepo,
		userRepo: userRepo,
		db:       db,
	}
}

// PairStatus is the viewer-relative state of a user pair.
type PairStatus string

const (
	PairStatusNone            PairStatus = "none"
	PairStatusPendingSent     PairStatus = "pending_sent"
	PairStatusPendingReceived PairStatus = "pending_received"
	PairStatusConnected       PairStatus = "connected"
)

// SendRequest sends a connection request from userID to targetUserID.
//
// If the target already has an unanswered request towards the caller, the
// two requests are reconciled into a connection instead of leaving two
// independent pending edges.
func (s *ConnectionService) SendRequest(ctx context.Context, userID, targetUserID uint) (conn *models.Connection, err error) {
	span, ctx := observability.NewSpan(ctx, "connection.send_request")
	defer span.End()
	defer func() {
		observability.RecordTransition("send", err)
		span.SetError(err)
	}()
	span.AddAttributes(
		attribute.Int("connection.requester_id", int(userID)),
		attribute.Int("connection.addressee_id", int(targetUserID)),
	)

	if userID == targetUserID {
		return nil, models.NewValidationError("Cannot connect with yourself")
	}

	if _, err = s.userRepo.GetByID(ctx, targetUserID); err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := repository.NewConnectionRepository(tx)

		existing, txErr := txRepo.GetBetweenUsers(ctx, userID, targetUserID)
		if txErr != nil {
			return txErr
		}
		if existing != nil {
			switch existing.Status {
			case models.ConnectionStatusConnected:
				return models.NewConflictError("Already connected with this user")
			case models.ConnectionStatusPending:
				if existing.RequesterID == userID {
					return models.NewConflictError("Connection request already sent")
				}
				// Reverse-direction race: the target asked first. Flip
				// the existing row to connected instead of stacking a
				// second pending edge.
				if txErr := txRepo.UpdateStatus(ctx, existing.ID, models.ConnectionStatusConnected); txErr != nil {
					return txErr
				}
				existing.Status = models.ConnectionStatusConnected
				conn = existing
				return nil
			}
		}

		conn = &models.Connection{
			RequesterID: userID,
			AddresseeID: targetUserID,
			Status:      models.ConnectionStatusPending,
		}
		return txRepo.Create(ctx, conn)
	})
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// AcceptRequest accepts the pending request sent by requesterID to userID.
func (s *ConnectionService) AcceptRequest(ctx context.Context, userID, requesterID uint) (conn *models.Connection, err error) {
	span, ctx := observability.NewSpan(ctx, "connection.accept_request")
	defer span.End()
	defer func() {
		observability.RecordTransition("accept", err)
		span.SetError(err)
	}()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := repository.NewConnectionRepository(tx)

		existing, txErr := txRepo.GetBetweenUsers(ctx, userID, requesterID)
		if txErr != nil {
			return txErr
		}
		if existing == nil ||
			existing.Status != models.ConnectionStatusPending ||
			existing.RequesterID != requesterID ||
			existing.AddresseeID != userID {
			return models.NewValidationError("No pending request from this user")
		}

		if txErr := txRepo.UpdateStatus(ctx, existing.ID, models.ConnectionStatusConnected); txErr != nil {
			return txErr
		}
		existing.Status = models.ConnectionStatusConnected
		conn = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// RejectRequest removes the pending edge between userID and otherUserID,
// returning the pair to the unrelated state. The addressee rejects; the
// requester cancels their own request.
func (s *ConnectionService) RejectRequest(ctx context.Context, userID, otherUserID uint) (err error) {
	span, ctx := observability.NewSpan(ctx, "connection.reject_request")
	defer span.End()
	defer func() {
		observability.RecordTransition("reject", err)
		span.SetError(err)
	}()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := repository.NewConnectionRepository(tx)

		existing, txErr := txRepo.GetBetweenUsers(ctx, userID, otherUserID)
		if txErr != nil {
			return txErr
		}
		if existing == nil || existing.Status != models.ConnectionStatusPending {
			return models.NewValidationError("No pending request between these users")
		}

		return txRepo.Delete(ctx, existing.ID)
	})
}

// RemoveConnection dissolves an established connection between two users.
func (s *ConnectionService) RemoveConnection(ctx context.Context, userID, otherUserID uint) (err error) {
	span, ctx := observability.NewSpan(ctx, "connection.remove")
	defer span.End()
	defer func() {
		observability.RecordTransition("remove", err)
		span.SetError(err)
	}()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := repository.NewConnectionRepository(tx)

		existing, txErr := txRepo.GetBetweenUsers(ctx, userID, otherUserID)
		if txErr != nil {
			return txErr
		}
		if existing == nil || existing.Status != models.ConnectionStatusConnected {
			return models.NewNotFoundError("Connection", otherUserID)
		}

		return txRepo.Delete(ctx, existing.ID)
	})
}

// Status returns the viewer-relative state of the pair (userID, targetUserID).
func (s *ConnectionService) Status(ctx context.Context, userID, targetUserID uint) (PairStatus, error) {
	if _, err := s.userRepo.GetByID(ctx, targetUserID); err != nil {
		return "", err
	}

	conn, err := s.connRepo.GetBetweenUsers(ctx, userID, targetUserID)
	if err != nil {
		return "", err
	}
	if conn == nil {
		return PairStatusNone, nil
	}
	switch conn.Status {
	case models.ConnectionStatusConnected:
		return PairStatusConnected, nil
	case models.ConnectionStatusPending:
		if conn.RequesterID == userID {
			return PairStatusPendingSent, nil
		}
		return PairStatusPendingReceived, nil
	}
	return PairStatusNone, nil
}

// Graph returns the connection/request ID sets for embedding in user payloads.
func (s *ConnectionService) Graph(ctx context.Context, userID uint) (*models.Graph, error) {
	return s.connRepo.Graph(ctx, userID)
}

// ListConnections returns the users connected with userID.
func (s *ConnectionService) ListConnections(ctx context.Context, userID uint) ([]models.User, error) {
	return s.connRepo.ListConnectedUsers(ctx, userID)
}

// ListInboundRequests returns users with an unanswered request to userID.
func (s *ConnectionService) ListInboundRequests(ctx context.Context, userID uint) ([]models.User, error) {
	return s.connRepo.ListInboundPending(ctx, userID)
}

// ListOutboundRequests returns users userID has an unanswered request to.
func (s *ConnectionService) ListOutboundRequests(ctx context.Context, userID uint) ([]models.User, error) {
	return s.connRepo.ListOutboundPending(ctx, userID)
}
