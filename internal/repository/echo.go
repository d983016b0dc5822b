package repository

import (
	"context"
	"errors"

	"vybeecho/internal/models"
	"vybeecho/internal/observability"

	"gorm.io/gorm"
)

// EchoRepository defines persistence operations for echoes and their comments.
type EchoRepository interface {
	Create(ctx context.Context, echo *models.Echo) error
	GetByID(ctx context.Context, id uint) (*models.Echo, error)
	List(ctx context.Context, limit, offset int) ([]models.Echo, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Echo, error)
	Like(ctx context.Context, id uint) error
	Unlike(ctx context.Context, id uint) error
	AddComment(ctx context.Context, comment *models.Comment) error
}

type echoRepository struct {
	db *gorm.DB
}

// NewEchoRepository returns a new EchoRepository implementation.
func NewEchoRepository(db *gorm.DB) EchoRepository {
	return &echoRepository{db: db}
}

// orderedComments keeps the append-only comment sequence in arrival order.
func orderedComments(db *gorm.DB) *gorm.DB {
	return db.Order("comments.created_at ASC, comments.id ASC")
}

func (r *echoRepository) Create(ctx context.Context, echo *models.Echo) error {
	ctx, span := observability.TraceRepositoryMethod(ctx, "create", "echoes")
	defer span.End()

	if err := r.db.WithContext(ctx).Create(echo).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *echoRepository) GetByID(ctx context.Context, id uint) (*models.Echo, error) {
	var echo models.Echo
	if err := r.db.WithContext(ctx).
		Preload("Comments", orderedComments).
		First(&echo, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Echo", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &echo, nil
}

func (r *echoRepository) List(ctx context.Context, limit, offset int) ([]models.Echo, error) {
	ctx, span := observability.TraceRepositoryMethod(ctx, "list", "echoes")
	defer span.End()

	var echoes []models.Echo

	// Feed order is a read-side concern: sort explicitly, never rely on
	// storage order.
	if err := r.db.WithContext(ctx).
		Preload("Comments", orderedComments).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&echoes).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return echoes, nil
}

func (r *echoRepository) ListByUser(ctx context.Context, userID uint) ([]models.Echo, error) {
	var echoes []models.Echo
	if err := r.db.WithContext(ctx).
		Preload("Comments", orderedComments).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&echoes).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return echoes, nil
}

func (r *echoRepository) Like(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).
		Model(&models.Echo{}).
		Where("id = ?", id).
		UpdateColumn("likes", gorm.Expr("likes + 1"))
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Echo", id)
	}
	return nil
}

func (r *echoRepository) Unlike(ctx context.Context, id uint) error {
	// The counter never goes below zero.
	res := r.db.WithContext(ctx).
		Model(&models.Echo{}).
		Where("id = ? AND likes > 0", id).
		UpdateColumn("likes", gorm.Expr("likes - 1"))
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.Echo{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return models.NewInternalError(err)
		}
		if count == 0 {
			return models.NewNotFoundError("Echo", id)
		}
	}
	return nil
}

func (r *echoRepository) AddComment(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
