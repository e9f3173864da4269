package simulation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/autoinvesthq/autoinvest-backend/internal/domain"
)

// Item selects one asset for a simulation run: the share amount held
// at the start and the cash located for the automated strategy to
// trade with.
type Item struct {
	AssetID     uuid.UUID
	Shares      int64
	LocatedCash domain.Money
}

// Config describes a full portfolio simulation request
type Config struct {
	From      time.Time
	To        time.Time
	RiskLevel int
	Items     []Item
}

// AssetSeries is one asset's simulated trajectory plus its listing
// data for display
type AssetSeries struct {
	AssetID uuid.UUID
	MIC     string
	Ticker  string
	Days    []domain.DailyValue
}

// SkippedAsset records an asset dropped from a partial result
type SkippedAsset struct {
	AssetID uuid.UUID
	Reason  string
}

// Result carries the aggregated portfolio series plus the per-asset
// series it was summed from
type Result struct {
	Overview []domain.DailyValue
	Assets   []AssetSeries
	Skipped  []SkippedAsset
}

// Service orchestrates simulation runs across assets
type Service struct {
	AssetRepo    domain.AssetRepository
	DecisionRepo domain.DecisionRepository
	Prices       domain.PriceSource

	// AllowPartial selects the failure policy: when false any asset
	// failure fails the whole simulation, when true failed assets are
	// dropped from the aggregate and reported in Result.Skipped.
	AllowPartial bool
}

// NewService creates a new simulation Service instance
func NewService(
	assetRepo domain.AssetRepository,
	decisionRepo domain.DecisionRepository,
	prices domain.PriceSource,
	allowPartial bool,
) *Service {
	return &Service{
		AssetRepo:    assetRepo,
		DecisionRepo: decisionRepo,
		Prices:       prices,
		AllowPartial: allowPartial,
	}
}

// Simulate runs every item's replay and aggregates the results.
// Assets are independent (each replay owns its cash/share state), so
// they run concurrently; within one asset the replay is strictly
// sequential because each decision must observe the effect of the
// previous one.
func (s *Service) Simulate(ctx context.Context, cfg Config) (*Result, error) {
	if startOfDay(cfg.To).Before(startOfDay(cfg.From)) {
		return nil, domain.ErrInvalidRange
	}
	if len(cfg.Items) == 0 {
		return nil, errors.New("simulation requires at least one asset")
	}

	seriesByItem := make([]*AssetSeries, len(cfg.Items))
	errByItem := make([]error, len(cfg.Items))

	g, gctx := errgroup.WithContext(ctx)
	for i, item := range cfg.Items {
		i, item := i, item
		g.Go(func() error {
			series, err := s.simulateAsset(gctx, cfg, item)
			if err != nil {
				if s.AllowPartial {
					errByItem[i] = err
					return nil
				}
				return err
			}
			seriesByItem[i] = series
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{}
	perAsset := make([][]domain.DailyValue, 0, len(cfg.Items))
	for i, item := range cfg.Items {
		if errByItem[i] != nil {
			result.Skipped = append(result.Skipped, SkippedAsset{
				AssetID: item.AssetID,
				Reason:  errByItem[i].Error(),
			})
			continue
		}
		result.Assets = append(result.Assets, *seriesByItem[i])
		perAsset = append(perAsset, seriesByItem[i].Days)
	}

	result.Overview = Aggregate(perAsset...)

	return result, nil
}

// simulateAsset loads the asset and its decision feed, then replays it
// through the engine with a per-run memoized price lookup
func (s *Service) simulateAsset(ctx context.Context, cfg Config, item Item) (*AssetSeries, error) {
	asset, err := s.AssetRepo.GetByID(ctx, item.AssetID)
	if err != nil {
		return nil, fmt.Errorf("failed to load asset %s: %w", item.AssetID, err)
	}

	decisions, err := s.DecisionRepo.ListForAsset(ctx, item.AssetID, cfg.RiskLevel, cfg.From, cfg.To)
	if err != nil {
		return nil, fmt.Errorf("failed to load decisions for asset %s: %w", item.AssetID, err)
	}

	memo := newPriceMemo(s.Prices, item.AssetID)
	days, err := Run(ctx, RunInput{
		AssetID:     item.AssetID,
		StartCash:   item.LocatedCash,
		StartShares: item.Shares,
		From:        cfg.From,
		To:          cfg.To,
		Decisions:   decisions,
		Price:       memo.at,
	})
	if err != nil {
		return nil, err
	}

	return &AssetSeries{
		AssetID: asset.ID,
		MIC:     asset.MIC,
		Ticker:  asset.Ticker,
		Days:    days,
	}, nil
}

// priceMemo pins every (asset, instant) lookup to its first answer so
// one run stays internally consistent even over an unstable source.
// It is local to a single asset's replay, which is sequential, so no
// locking is needed.
type priceMemo struct {
	src     domain.PriceSource
	assetID uuid.UUID
	seen    map[int64]domain.Money
}

func newPriceMemo(src domain.PriceSource, assetID uuid.UUID) *priceMemo {
	return &priceMemo{
		src:     src,
		assetID: assetID,
		seen:    make(map[int64]domain.Money),
	}
}

func (p *priceMemo) at(ctx context.Context, at time.Time) (domain.Money, error) {
	key := at.UnixMilli()
	if price, ok := p.seen[key]; ok {
		return price, nil
	}

	price, err := p.src.PriceAt(ctx, p.assetID, at)
	if err != nil {
		return 0, err
	}
	p.seen[key] = price

	return price, nil
}
