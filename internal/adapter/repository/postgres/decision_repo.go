package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/autoinvesthq/autoinvest-backend/internal/domain"
)

// decisionRepository implements domain.DecisionRepository
type decisionRepository struct {
	db *DB
}

// NewDecisionRepository creates a new decision repository
func NewDecisionRepository(db *DB) domain.DecisionRepository {
	return &decisionRepository{db: db}
}

// ListForAsset retrieves the decision feed for one asset and risk
// level within a date range. The upper bound is extended to the end of
// its calendar day so that intraday decisions on the last day are
// included.
func (r *decisionRepository) ListForAsset(ctx context.Context, assetID uuid.UUID, riskLevel int, from, to time.Time) ([]domain.Decision, error) {
	query := `
		SELECT asset_id, kind, decided_at, risk_level
		FROM decisions
		WHERE asset_id = $1
		  AND risk_level = $2
		  AND decided_at >= $3
		  AND decided_at < $4
		ORDER BY decided_at, id
	`

	rangeEnd := to.UTC().Truncate(24 * time.Hour).AddDate(0, 0, 1)

	rows, err := r.db.QueryContext(ctx, query, assetID, riskLevel, from.UTC(), rangeEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to list decisions: %w", err)
	}
	defer rows.Close()

	var decisions []domain.Decision
	for rows.Next() {
		var decision domain.Decision
		var kind string
		if err := rows.Scan(&decision.AssetID, &kind, &decision.Timestamp, &decision.RiskLevel); err != nil {
			return nil, fmt.Errorf("failed to scan decision row: %w", err)
		}
		decision.Kind = domain.DecisionKind(kind)
		decisions = append(decisions, decision)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate decision rows: %w", err)
	}

	return decisions, nil
}
