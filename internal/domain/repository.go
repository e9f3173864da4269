package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AssetRepository defines the interface for asset catalog persistence
type AssetRepository interface {
	// GetByID retrieves an asset by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*Asset, error)

	// List retrieves all known assets
	List(ctx context.Context) ([]*Asset, error)

	// Create creates a new asset
	Create(ctx context.Context, asset *Asset) error
}

// HoldingRepository defines the interface for portfolio holding persistence
type HoldingRepository interface {
	// List retrieves all holdings in the portfolio
	List(ctx context.Context) ([]*Holding, error)

	// GetByAssetID retrieves the holding for a given asset
	GetByAssetID(ctx context.Context, assetID uuid.UUID) (*Holding, error)

	// Create creates a new holding
	Create(ctx context.Context, holding *Holding) error

	// Update replaces the holding for the asset it references
	Update(ctx context.Context, holding *Holding) error

	// Delete removes the holding for a given asset
	Delete(ctx context.Context, assetID uuid.UUID) error
}

// DecisionRepository defines the interface for the decision feed.
// Implementations must return every decision for the asset and risk
// level whose timestamp falls within [from, to] end of day.
type DecisionRepository interface {
	ListForAsset(ctx context.Context, assetID uuid.UUID, riskLevel int, from, to time.Time) ([]Decision, error)
}

// NewsRepository defines the interface for market news persistence
type NewsRepository interface {
	// List retrieves the most recent news items, newest first
	List(ctx context.Context, limit int) ([]*NewsItem, error)
}

// AlertRepository defines the interface for published alert persistence
type AlertRepository interface {
	// List retrieves the most recent alerts, newest first
	List(ctx context.Context, limit int) ([]*Alert, error)
}

// PriceSource supplies the price of an asset at an instant, in minor
// units per share. Implementations must be deterministic for a fixed
// (asset, instant) pair within one simulation run; the engine relies
// on that to keep re-runs bit-identical.
type PriceSource interface {
	PriceAt(ctx context.Context, assetID uuid.UUID, at time.Time) (Money, error)
}
