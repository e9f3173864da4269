package seeder

import (
	"context"

	"github.com/google/uuid"

	"github.com/autoinvesthq/autoinvest-backend/internal/domain"
)

// Fixed UUIDs for the reference assets the product ships with; the
// decision and alert feeds key against these ids
var (
	ASSET_APPL = uuid.MustParse("3abacf7a-4d9d-422c-babe-d53e521378e4")
	ASSET_AMZN = uuid.MustParse("96dd1bde-2ce8-49eb-8399-093af843b84a")
	ASSET_IDTX = uuid.MustParse("8f7549de-b142-4160-aa6b-cbbdc82a2546")
	ASSET_INTL = uuid.MustParse("c0444ffc-73cb-4226-bf89-add6ab8f17b0")
	ASSET_TEF  = uuid.MustParse("6dfa3dc4-9b46-4195-a3a0-2039ea6f31b7")
)

// AssetSeeder ensures the reference asset catalog exists
type AssetSeeder struct {
	repo domain.AssetRepository
}

// NewAssetSeeder creates a new AssetSeeder instance
func NewAssetSeeder(repo domain.AssetRepository) *AssetSeeder {
	return &AssetSeeder{
		repo: repo,
	}
}

// Seed ensures all reference assets exist in the database,
// creating any that are missing
func (s *AssetSeeder) Seed(ctx context.Context) error {
	referenceAssets := []domain.Asset{
		{ID: ASSET_APPL, MIC: "XNAS", Ticker: "APPL"},
		{ID: ASSET_AMZN, MIC: "XNAS", Ticker: "AMZN"},
		{ID: ASSET_IDTX, MIC: "XNAS", Ticker: "IDTX"},
		{ID: ASSET_INTL, MIC: "XNAS", Ticker: "INTL"},
		{ID: ASSET_TEF, MIC: "BME", Ticker: "TEF"},
	}

	for _, ref := range referenceAssets {
		// Already seeded assets are left untouched
		if _, err := s.repo.GetByID(ctx, ref.ID); err == nil {
			continue
		}

		asset := ref
		if err := asset.Validate(); err != nil {
			return err
		}
		if err := s.repo.Create(ctx, &asset); err != nil {
			return err
		}
	}

	return nil
}
