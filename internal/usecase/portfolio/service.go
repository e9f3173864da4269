package portfolio

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/autoinvesthq/autoinvest-backend/internal/domain"
)

// Service handles portfolio holding operations
type Service struct {
	AssetRepo   domain.AssetRepository
	HoldingRepo domain.HoldingRepository
}

// NewService creates a new portfolio Service instance
func NewService(assetRepo domain.AssetRepository, holdingRepo domain.HoldingRepository) *Service {
	return &Service{
		AssetRepo:   assetRepo,
		HoldingRepo: holdingRepo,
	}
}

// ListHoldings returns every holding in the portfolio
func (s *Service) ListHoldings(ctx context.Context) ([]*domain.Holding, error) {
	return s.HoldingRepo.List(ctx)
}

// AddHolding validates and stores a new position. The referenced asset
// must exist and must not be held already.
func (s *Service) AddHolding(ctx context.Context, holding domain.Holding) (*domain.Holding, error) {
	if err := holding.Validate(); err != nil {
		return nil, err
	}

	// Verify the asset exists before storing a position against it
	if _, err := s.AssetRepo.GetByID(ctx, holding.AssetID); err != nil {
		return nil, fmt.Errorf("asset %s: %w", holding.AssetID, err)
	}

	if existing, err := s.HoldingRepo.GetByAssetID(ctx, holding.AssetID); err == nil && existing != nil {
		return nil, errors.New("holding already exists for asset")
	}

	if err := s.HoldingRepo.Create(ctx, &holding); err != nil {
		return nil, err
	}

	return &holding, nil
}

// UpdateHolding replaces the stored position for the holding's asset
func (s *Service) UpdateHolding(ctx context.Context, holding domain.Holding) (*domain.Holding, error) {
	if err := holding.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.HoldingRepo.GetByAssetID(ctx, holding.AssetID); err != nil {
		return nil, err
	}

	if err := s.HoldingRepo.Update(ctx, &holding); err != nil {
		return nil, err
	}

	return &holding, nil
}

// RemoveHolding deletes the position for an asset
func (s *Service) RemoveHolding(ctx context.Context, assetID uuid.UUID) error {
	if assetID == uuid.Nil {
		return errors.New("holding must reference an asset")
	}
	return s.HoldingRepo.Delete(ctx, assetID)
}
