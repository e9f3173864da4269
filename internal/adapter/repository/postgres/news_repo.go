package postgres

import (
	"context"
	"fmt"

	"github.com/autoinvesthq/autoinvest-backend/internal/domain"
)

// newsRepository implements domain.NewsRepository
type newsRepository struct {
	db *DB
}

// NewNewsRepository creates a new news repository
func NewNewsRepository(db *DB) domain.NewsRepository {
	return &newsRepository{db: db}
}

// List retrieves the most recent news items, newest first
func (r *newsRepository) List(ctx context.Context, limit int) ([]*domain.NewsItem, error) {
	query := `
		SELECT title, source, published_at, link
		FROM news
		ORDER BY published_at DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list news: %w", err)
	}
	defer rows.Close()

	var items []*domain.NewsItem
	for rows.Next() {
		var item domain.NewsItem
		if err := rows.Scan(&item.Title, &item.Source, &item.Date, &item.Link); err != nil {
			return nil, fmt.Errorf("failed to scan news row: %w", err)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate news rows: %w", err)
	}

	return items, nil
}
