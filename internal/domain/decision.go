package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// DecisionKind represents the kind of automated trading signal
type DecisionKind string

const (
	DecisionBuy  DecisionKind = "BUY"
	DecisionSell DecisionKind = "SELL"
	DecisionHold DecisionKind = "HOLD"
)

// Valid reports whether the kind is one of BUY, SELL or HOLD
func (k DecisionKind) Valid() bool {
	return k == DecisionBuy || k == DecisionSell || k == DecisionHold
}

// Decision is a timestamped BUY/SELL/HOLD signal for one asset at a
// given risk level. HOLD decisions are informational only and never
// change simulated state. Multiple decisions may share a calendar day.
type Decision struct {
	AssetID   uuid.UUID
	Kind      DecisionKind
	Timestamp time.Time
	RiskLevel int
}

// Validate ensures the decision adheres to domain rules
func (d *Decision) Validate() error {
	if d.AssetID == uuid.Nil {
		return errors.New("decision must reference an asset")
	}
	if !d.Kind.Valid() {
		return errors.New("decision kind must be BUY, SELL or HOLD")
	}
	if d.Timestamp.IsZero() {
		return errors.New("decision timestamp cannot be zero")
	}
	return nil
}
