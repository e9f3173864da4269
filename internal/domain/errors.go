package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidRange signals a simulation range whose end date precedes
// its start date. Rejected before any computation.
var ErrInvalidRange = errors.New("invalid date range: to date is before from date")

// PriceUnavailableError signals that the price source failed, or
// returned a non-positive price, for a lookup the simulation required.
// The run for that asset is aborted; prices are never substituted.
type PriceUnavailableError struct {
	AssetID uuid.UUID
	At      time.Time
	Err     error
}

func (e *PriceUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("price unavailable for asset %s at %s: %v",
			e.AssetID, e.At.Format(time.RFC3339), e.Err)
	}
	return fmt.Sprintf("price unavailable for asset %s at %s",
		e.AssetID, e.At.Format(time.RFC3339))
}

func (e *PriceUnavailableError) Unwrap() error {
	return e.Err
}

// NegativeStateError signals that simulated cash or shares went
// negative. That indicates a contract violation upstream (e.g. a
// non-positive price slipping through) and is fatal, never clamped.
type NegativeStateError struct {
	AssetID uuid.UUID
	Date    time.Time
	Cash    Money
	Shares  int64
}

func (e *NegativeStateError) Error() string {
	return fmt.Sprintf("negative simulation state for asset %s on %s: cash=%d shares=%d",
		e.AssetID, e.Date.Format("2006-01-02"), e.Cash, e.Shares)
}
