package postgres

import (
	"context"
	"fmt"

	"github.com/autoinvesthq/autoinvest-backend/internal/domain"
)

// alertRepository implements domain.AlertRepository
type alertRepository struct {
	db *DB
}

// NewAlertRepository creates a new alert repository
func NewAlertRepository(db *DB) domain.AlertRepository {
	return &alertRepository{db: db}
}

// List retrieves the most recent alerts, newest first
func (r *alertRepository) List(ctx context.Context, limit int) ([]*domain.Alert, error) {
	query := `
		SELECT asset_id, kind, published_at
		FROM alerts
		ORDER BY published_at DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	defer rows.Close()

	var alerts []*domain.Alert
	for rows.Next() {
		var alert domain.Alert
		var kind string
		if err := rows.Scan(&alert.AssetID, &kind, &alert.Date); err != nil {
			return nil, fmt.Errorf("failed to scan alert row: %w", err)
		}
		alert.Kind = domain.DecisionKind(kind)
		alerts = append(alerts, &alert)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate alert rows: %w", err)
	}

	return alerts, nil
}
