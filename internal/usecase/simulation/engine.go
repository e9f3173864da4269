package simulation

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/autoinvesthq/autoinvest-backend/internal/domain"
)

// PriceFunc resolves the price of the simulated asset at an instant,
// in minor units per share.
type PriceFunc func(ctx context.Context, at time.Time) (domain.Money, error)

// RunInput carries everything one asset's replay needs. Inputs are not
// mutated; the engine threads its own cash/share state through the day
// loop.
type RunInput struct {
	AssetID     uuid.UUID
	StartCash   domain.Money // cash pool available to the automated strategy
	StartShares int64        // shares held by both strategies at From
	From        time.Time    // first simulated calendar day, inclusive
	To          time.Time    // last simulated calendar day, inclusive
	Decisions   []domain.Decision
	Price       PriceFunc
}

// Run replays the decision feed for one asset day by day and returns
// one DailyValue per calendar day in [From, To], ascending.
//
// Per day: decisions whose timestamp falls in [day, day+1) apply in
// timestamp order against the running cash/share state. BUY converts
// as much cash as possible into whole shares at the decision-instant
// price (integer division, never borrowing), SELL liquidates the whole
// position, HOLD changes nothing. Both trajectories are then marked to
// market at the day's last instant. The no-autoinvested leg is
// recomputed each day from the original position, never accumulated.
func Run(ctx context.Context, in RunInput) ([]domain.DailyValue, error) {
	from := startOfDay(in.From)
	to := startOfDay(in.To)
	if to.Before(from) {
		return nil, domain.ErrInvalidRange
	}

	decisions := relevantDecisions(in.Decisions, in.AssetID)

	cash := in.StartCash
	shares := in.StartShares

	days := make([]domain.DailyValue, 0, int(to.Sub(from)/(24*time.Hour))+1)
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		// Bound worst-case latency on long ranges
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		next := day.AddDate(0, 0, 1)
		for _, decision := range decisions {
			// Half-open interval: a decision exactly at next midnight
			// belongs to the next day
			if decision.Timestamp.Before(day) || !decision.Timestamp.Before(next) {
				continue
			}

			switch decision.Kind {
			case domain.DecisionBuy:
				price, err := fetchPrice(ctx, in, decision.Timestamp)
				if err != nil {
					return nil, err
				}
				// Whole shares only; buying zero when cash < price is
				// not an error
				bought := int64(cash / price)
				cash -= domain.Money(bought) * price
				shares += bought

			case domain.DecisionSell:
				price, err := fetchPrice(ctx, in, decision.Timestamp)
				if err != nil {
					return nil, err
				}
				cash += domain.Money(shares) * price
				shares = 0

			case domain.DecisionHold:
				// Informational only
			}
		}

		eod, err := fetchPrice(ctx, in, endOfDay(day))
		if err != nil {
			return nil, err
		}

		if cash < 0 || shares < 0 {
			return nil, &domain.NegativeStateError{
				AssetID: in.AssetID,
				Date:    day,
				Cash:    cash,
				Shares:  shares,
			}
		}

		days = append(days, domain.DailyValue{
			Date:           day,
			Autoinvested:   cash + domain.Money(shares)*eod,
			NoAutoinvested: in.StartCash + domain.Money(in.StartShares)*eod,
		})
	}

	return days, nil
}

// relevantDecisions returns the decisions belonging to assetID, sorted
// ascending by timestamp. The sort is stable so that decisions with
// equal timestamps apply in input order.
func relevantDecisions(decisions []domain.Decision, assetID uuid.UUID) []domain.Decision {
	relevant := make([]domain.Decision, 0, len(decisions))
	for _, d := range decisions {
		if d.AssetID == assetID {
			relevant = append(relevant, d)
		}
	}

	sort.SliceStable(relevant, func(i, j int) bool {
		return relevant[i].Timestamp.Before(relevant[j].Timestamp)
	})

	return relevant
}

// fetchPrice wraps the price collaborator, turning failures and
// non-positive prices into PriceUnavailableError.
func fetchPrice(ctx context.Context, in RunInput, at time.Time) (domain.Money, error) {
	price, err := in.Price(ctx, at)
	if err != nil {
		return 0, &domain.PriceUnavailableError{AssetID: in.AssetID, At: at, Err: err}
	}
	if price <= 0 {
		return 0, &domain.PriceUnavailableError{AssetID: in.AssetID, At: at}
	}
	return price, nil
}

// startOfDay truncates t to UTC midnight of its calendar day
func startOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// endOfDay is the last represented instant (millisecond precision) of
// t's calendar day
func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Millisecond)
}
