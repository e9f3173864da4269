package feed

import (
	"context"

	"github.com/autoinvesthq/autoinvest-backend/internal/domain"
)

// defaultLimit bounds feed queries when the caller does not specify one
const defaultLimit = 50

// Service handles the read-side news and alert feeds
type Service struct {
	NewsRepo  domain.NewsRepository
	AlertRepo domain.AlertRepository
}

// NewService creates a new feed Service instance
func NewService(newsRepo domain.NewsRepository, alertRepo domain.AlertRepository) *Service {
	return &Service{
		NewsRepo:  newsRepo,
		AlertRepo: alertRepo,
	}
}

// News returns the most recent market news, newest first
func (s *Service) News(ctx context.Context, limit int) ([]*domain.NewsItem, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	return s.NewsRepo.List(ctx, limit)
}

// Alerts returns the most recent published trading alerts, newest first
func (s *Service) Alerts(ctx context.Context, limit int) ([]*domain.Alert, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	return s.AlertRepo.List(ctx, limit)
}
