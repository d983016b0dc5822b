package service

import (
	"context"
	"strings"

	"vybeecho/internal/models"
	"vybeecho/internal/observability"
	"vybeecho/internal/repository"
)

// EchoService handles publishing voice notes and the interactions on them.
type EchoService struct {
	echoRepo repository.EchoRepository
	userRepo repository.UserRepository
}

// NewEchoService returns a new EchoService.
func NewEchoService(echoRepo repository.EchoRepository, userRepo repository.UserRepository) *EchoService {
	return &EchoService{echoRepo: echoRepo, userRepo: userRepo}
}

// PublishInput carries the fields for a new echo.
type PublishInput struct {
	Title    string `json:"title"`
	Content  string `json:"text"`
	AudioURL string `json:"audio_url"`
	Duration string `json:"duration"`
	Category string `json:"category"`
	ImageURL string `json:"image"`
	VideoURL string `json:"video"`
}

// Publish creates a new echo authored by userID. The author's display name
// and email are snapshotted onto the echo at publish time.
func (s *EchoService) Publish(ctx context.Context, userID uint, input PublishInput) (*models.Echo, error) {
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if strings.TrimSpace(input.AudioURL) == "" {
		return nil, models.NewValidationError("Audio URL is required")
	}

	author, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	echo := &models.Echo{
		UserID:      userID,
		AuthorName:  author.Name,
		AuthorEmail: author.Email,
		Title:       input.Title,
		Content:     input.Content,
		AudioURL:    input.AudioURL,
		Duration:    input.Duration,
		Category:    input.Category,
		ImageURL:    input.ImageURL,
		VideoURL:    input.VideoURL,
	}
	if echo.Duration == "" {
		echo.Duration = "0:00"
	}
	if echo.Category == "" {
		echo.Category = "General"
	}
	if echo.Comments == nil {
		echo.Comments = []models.Comment{}
	}

	if err := s.echoRepo.Create(ctx, echo); err != nil {
		return nil, err
	}
	observability.EchoesPublished.WithLabelValues(echo.Category).Inc()
	return echo, nil
}

// Feed returns echoes across all users, newest first. The feed is computed
// from storage on every call rather than maintained as a materialized list.
func (s *EchoService) Feed(ctx context.Context, limit, offset int) ([]models.Echo, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.echoRepo.List(ctx, limit, offset)
}

// GetEcho fetches a single echo with its comments.
func (s *EchoService) GetEcho(ctx context.Context, id uint) (*models.Echo, error) {
	return s.echoRepo.GetByID(ctx, id)
}

// ListByUser returns the echoes published by a user, newest first.
func (s *EchoService) ListByUser(ctx context.Context, userID uint) ([]models.Echo, error) {
	return s.echoRepo.ListByUser(ctx, userID)
}

// Like increments the like counter and returns the updated echo.
func (s *EchoService) Like(ctx context.Context, id uint) (*models.Echo, error) {
	if err := s.echoRepo.Like(ctx, id); err != nil {
		return nil, err
	}
	return s.echoRepo.GetByID(ctx, id)
}

// Unlike decrements the like counter, flooring at zero, and returns the
// updated echo.
func (s *EchoService) Unlike(ctx context.Context, id uint) (*models.Echo, error) {
	if err := s.echoRepo.Unlike(ctx, id); err != nil {
		return nil, err
	}
	return s.echoRepo.GetByID(ctx, id)
}

// AddComment appends a comment by userID to the echo and returns the echo
// with the full comment sequence.
func (s *EchoService) AddComment(ctx context.Context, echoID, userID uint, body string) (*models.Echo, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, models.NewValidationError("Comment text is required")
	}

	author, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	// Ensure the echo exists before writing the comment.
	if _, err := s.echoRepo.GetByID(ctx, echoID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		EchoID: echoID,
		Author: author.Name,
		Body:   body,
	}
	if err := s.echoRepo.AddComment(ctx, comment); err != nil {
		return nil, err
	}
	return s.echoRepo.GetByID(ctx, echoID)
}
