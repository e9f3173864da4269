package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/autoinvesthq/autoinvest-backend/internal/domain"
)

// holdingRepository implements domain.HoldingRepository
type holdingRepository struct {
	db *DB
}

// NewHoldingRepository creates a new holding repository
func NewHoldingRepository(db *DB) domain.HoldingRepository {
	return &holdingRepository{db: db}
}

// List retrieves all holdings in the portfolio
func (r *holdingRepository) List(ctx context.Context) ([]*domain.Holding, error) {
	query := `
		SELECT asset_id, shares, cost_basis_minor
		FROM holdings
		ORDER BY asset_id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list holdings: %w", err)
	}
	defer rows.Close()

	var holdings []*domain.Holding
	for rows.Next() {
		var holding domain.Holding
		var costBasis int64
		if err := rows.Scan(&holding.AssetID, &holding.Shares, &costBasis); err != nil {
			return nil, fmt.Errorf("failed to scan holding row: %w", err)
		}
		holding.CostBasis = domain.Money(costBasis)
		holdings = append(holdings, &holding)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate holding rows: %w", err)
	}

	return holdings, nil
}

// GetByAssetID retrieves the holding for a given asset
func (r *holdingRepository) GetByAssetID(ctx context.Context, assetID uuid.UUID) (*domain.Holding, error) {
	query := `
		SELECT asset_id, shares, cost_basis_minor
		FROM holdings
		WHERE asset_id = $1
	`

	var holding domain.Holding
	var costBasis int64
	err := r.db.QueryRowContext(ctx, query, assetID).Scan(
		&holding.AssetID,
		&holding.Shares,
		&costBasis,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("holding not found for asset %s: %w", assetID, err)
		}
		return nil, fmt.Errorf("failed to get holding: %w", err)
	}
	holding.CostBasis = domain.Money(costBasis)

	return &holding, nil
}

// Create creates a new holding
func (r *holdingRepository) Create(ctx context.Context, holding *domain.Holding) error {
	query := `
		INSERT INTO holdings (asset_id, shares, cost_basis_minor)
		VALUES ($1, $2, $3)
	`

	_, err := r.db.ExecContext(ctx, query,
		holding.AssetID,
		holding.Shares,
		int64(holding.CostBasis),
	)
	if err != nil {
		return fmt.Errorf("failed to create holding: %w", err)
	}

	return nil
}

// Update replaces the holding for the asset it references
func (r *holdingRepository) Update(ctx context.Context, holding *domain.Holding) error {
	query := `
		UPDATE holdings
		SET shares = $2, cost_basis_minor = $3
		WHERE asset_id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		holding.AssetID,
		holding.Shares,
		int64(holding.CostBasis),
	)
	if err != nil {
		return fmt.Errorf("failed to update holding: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("holding not found for asset %s", holding.AssetID)
	}

	return nil
}

// Delete removes the holding for a given asset
func (r *holdingRepository) Delete(ctx context.Context, assetID uuid.UUID) error {
	query := `
		DELETE FROM holdings
		WHERE asset_id = $1
	`

	if _, err := r.db.ExecContext(ctx, query, assetID); err != nil {
		return fmt.Errorf("failed to delete holding: %w", err)
	}

	return nil
}
