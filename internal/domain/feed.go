package domain

import (
	"time"

	"github.com/google/uuid"
)

// Alert is a published trading signal surfaced to the user, as opposed
// to a Decision which is replayed by the simulation.
type Alert struct {
	AssetID uuid.UUID
	Kind    DecisionKind
	Date    time.Time
}

// NewsItem is a market news headline from an external source
type NewsItem struct {
	Title  string
	Source string
	Date   time.Time
	Link   string
}
