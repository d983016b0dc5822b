package repository

import (
	"context"
	"errors"

	"vybeecho/internal/models"
	"vybeecho/internal/observability"

	"gorm.io/gorm"
)

// ConnectionRepository defines persistence operations for the per-pair
// connection aggregate. Every state transition is a single-row write, so
// the pending/connected relation can never be half-written.
type ConnectionRepository interface {
	Create(ctx context.Context, conn *models.Connection) error
	GetByID(ctx context.Context, id uint) (*models.Connection, error)
	GetBetweenUsers(ctx context.Context, userID1, userID2 uint) (*models.Connection, error)
	UpdateStatus(ctx context.Context, id uint, status models.ConnectionStatus) error
	Delete(ctx context.Context, id uint) error
	ListConnectedUsers(ctx context.Context, userID uint) ([]models.User, error)
	ListInboundPending(ctx context.Context, userID uint) ([]models.User, error)
	ListOutboundPending(ctx context.Context, userID uint) ([]models.User, error)
	Graph(ctx context.Context, userID uint) (*models.Graph, error)
}

type connectionRepository struct {
	db *gorm.DB
}

// NewConnectionRepository returns a new ConnectionRepository implementation.
func NewConnectionRepository(db *gorm.DB) ConnectionRepository {
	return &connectionRepository{db: db}
}

func (r *connectionRepository) Create(ctx context.Context, conn *models.Connection) error {
	defer observability.TrackQuery("create", "connections")()

	if err := r.db.WithContext(ctx).Create(conn).Error; err != nil {
		// The canonical pair index catches a concurrent duplicate or
		// reverse-direction send that slipped past the existence check.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.NewConflictError("A relation already exists with this user")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *connectionRepository) GetByID(ctx context.Context, id uint) (*models.Connection, error) {
	var conn models.Connection
	if err := r.db.WithContext(ctx).First(&conn, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Connection", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &conn, nil
}

func (r *connectionRepository) GetBetweenUsers(ctx context.Context, userID1, userID2 uint) (*models.Connection, error) {
	defer observability.TrackQuery("get_between_users", "connections")()

	var conn models.Connection

	low, high := userID1, userID2
	if low > high {
		low, high = high, low
	}

	// The canonical columns find the pair row in either orientation and
	// keep the lookup on the unique index.
	if err := r.db.WithContext(ctx).
		Where("pair_low_id = ? AND pair_high_id = ?", low, high).
		First(&conn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // No relation exists
		}
		return nil, models.NewInternalError(err)
	}
	return &conn, nil
}

func (r *connectionRepository) UpdateStatus(ctx context.Context, id uint, status models.ConnectionStatus) error {
	defer observability.TrackQuery("update_status", "connections")()

	if err := r.db.WithContext(ctx).
		Model(&models.Connection{}).
		Where("id = ?", id).
		Update("status", status).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *connectionRepository) Delete(ctx context.Context, id uint) error {
	defer observability.TrackQuery("delete", "connections")()

	if err := r.db.WithContext(ctx).Delete(&models.Connection{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *connectionRepository) ListConnectedUsers(ctx context.Context, userID uint) ([]models.User, error) {
	var users []models.User

	if err := r.db.WithContext(ctx).
		Table("users").
		Joins("JOIN connections c ON (users.id = c.requester_id OR users.id = c.addressee_id)").
		Where("c.status = ? AND (c.requester_id = ? OR c.addressee_id = ?) AND users.id != ?",
			models.ConnectionStatusConnected, userID, userID, userID).
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	return users, nil
}

func (r *connectionRepository) ListInboundPending(ctx context.Context, userID uint) ([]models.User, error) {
	var users []models.User

	// Pending rows where the user is the addressee; return the requesters.
	if err := r.db.WithContext(ctx).
		Table("users").
		Joins("JOIN connections c ON users.id = c.requester_id").
		Where("c.status = ? AND c.addressee_id = ?", models.ConnectionStatusPending, userID).
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	return users, nil
}

func (r *connectionRepository) ListOutboundPending(ctx context.Context, userID uint) ([]models.User, error) {
	var users []models.User

	if err := r.db.WithContext(ctx).
		Table("users").
		Joins("JOIN connections c ON users.id = c.addressee_id").
		Where("c.status = ? AND c.requester_id = ?", models.ConnectionStatusPending, userID).
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	return users, nil
}

func (r *connectionRepository) Graph(ctx context.Context, userID uint) (*models.Graph, error) {
	defer observability.TrackQuery("graph", "connections")()

	var rows []models.Connection
	if err := r.db.WithContext(ctx).
		Where("requester_id = ? OR addressee_id = ?", userID, userID).
		Order("updated_at ASC").
		Find(&rows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	graph := &models.Graph{
		Connections:  []uint{},
		Requests:     []uint{},
		SentRequests: []uint{},
	}
	for i := range rows {
		row := &rows[i]
		switch row.Status {
		case models.ConnectionStatusConnected:
			graph.Connections = append(graph.Connections, row.OtherUserID(userID))
		case models.ConnectionStatusPending:
			if row.AddresseeID == userID {
				graph.Requests = append(graph.Requests, row.RequesterID)
			} else {
				graph.SentRequests = append(graph.SentRequests, row.AddresseeID)
			}
		}
	}
	return graph, nil
}
