package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autoinvesthq/autoinvest-backend/internal/adapter/httpapi"
	"github.com/autoinvesthq/autoinvest-backend/internal/domain"
	"github.com/autoinvesthq/autoinvest-backend/internal/usecase/feed"
	"github.com/autoinvesthq/autoinvest-backend/internal/usecase/portfolio"
	"github.com/autoinvesthq/autoinvest-backend/internal/usecase/seeder"
	"github.com/autoinvesthq/autoinvest-backend/internal/usecase/simulation"
)

const apiToken = "integration-token"

// In-memory repositories backing the full HTTP stack. They satisfy the
// same interfaces the postgres adapters do, so the stack under test is
// everything except the database driver.

type memAssetRepo struct {
	mu     sync.RWMutex
	assets map[uuid.UUID]domain.Asset
}

func newMemAssetRepo() *memAssetRepo {
	return &memAssetRepo{assets: make(map[uuid.UUID]domain.Asset)}
}

func (r *memAssetRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Asset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	asset, ok := r.assets[id]
	if !ok {
		return nil, errors.New("asset not found")
	}
	return &asset, nil
}

func (r *memAssetRepo) List(_ context.Context) ([]*domain.Asset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Asset, 0, len(r.assets))
	for _, asset := range r.assets {
		a := asset
		out = append(out, &a)
	}
	return out, nil
}

func (r *memAssetRepo) Create(_ context.Context, asset *domain.Asset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assets[asset.ID] = *asset
	return nil
}

type memHoldingRepo struct {
	mu       sync.RWMutex
	holdings map[uuid.UUID]domain.Holding
}

func newMemHoldingRepo() *memHoldingRepo {
	return &memHoldingRepo{holdings: make(map[uuid.UUID]domain.Holding)}
}

func (r *memHoldingRepo) List(_ context.Context) ([]*domain.Holding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Holding, 0, len(r.holdings))
	for _, holding := range r.holdings {
		h := holding
		out = append(out, &h)
	}
	return out, nil
}

func (r *memHoldingRepo) GetByAssetID(_ context.Context, assetID uuid.UUID) (*domain.Holding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	holding, ok := r.holdings[assetID]
	if !ok {
		return nil, errors.New("holding not found")
	}
	return &holding, nil
}

func (r *memHoldingRepo) Create(_ context.Context, holding *domain.Holding) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.holdings[holding.AssetID] = *holding
	return nil
}

func (r *memHoldingRepo) Update(_ context.Context, holding *domain.Holding) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.holdings[holding.AssetID]; !ok {
		return errors.New("holding not found")
	}
	r.holdings[holding.AssetID] = *holding
	return nil
}

func (r *memHoldingRepo) Delete(_ context.Context, assetID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.holdings, assetID)
	return nil
}

type memDecisionRepo struct {
	decisions []domain.Decision
}

func (r *memDecisionRepo) ListForAsset(_ context.Context, assetID uuid.UUID, riskLevel int, from, to time.Time) ([]domain.Decision, error) {
	var out []domain.Decision
	for _, d := range r.decisions {
		if d.AssetID != assetID || d.RiskLevel != riskLevel {
			continue
		}
		if d.Timestamp.Before(from) || d.Timestamp.After(to.AddDate(0, 0, 1)) {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

type memNewsRepo struct {
	items []*domain.NewsItem
}

func (r *memNewsRepo) List(_ context.Context, limit int) ([]*domain.NewsItem, error) {
	if limit > len(r.items) {
		limit = len(r.items)
	}
	return r.items[:limit], nil
}

type memAlertRepo struct {
	alerts []*domain.Alert
}

func (r *memAlertRepo) List(_ context.Context, limit int) ([]*domain.Alert, error) {
	if limit > len(r.alerts) {
		limit = len(r.alerts)
	}
	return r.alerts[:limit], nil
}

// scenarioPrices serves intraday prices plus a distinct end-of-day
// price per calendar day, the shape the replay engine queries in.
type scenarioPrices struct {
	intraday domain.Money
	eodByDay map[string]domain.Money
}

func (p *scenarioPrices) PriceAt(_ context.Context, _ uuid.UUID, at time.Time) (domain.Money, error) {
	if at.Hour() == 23 && at.Minute() == 59 {
		price, ok := p.eodByDay[at.Format("2006-01-02")]
		if !ok {
			return 0, errors.New("no closing price recorded")
		}
		return price, nil
	}
	return p.intraday, nil
}

type stack struct {
	server    *httptest.Server
	assets    *memAssetRepo
	decisions *memDecisionRepo
	news      *memNewsRepo
	alerts    *memAlertRepo
	prices    *scenarioPrices
}

func newStack(t *testing.T) *stack {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &stack{
		assets:    newMemAssetRepo(),
		decisions: &memDecisionRepo{},
		news:      &memNewsRepo{},
		alerts:    &memAlertRepo{},
		prices:    &scenarioPrices{intraday: domain.Money(10000), eodByDay: map[string]domain.Money{}},
	}

	holdings := newMemHoldingRepo()
	require.NoError(t, seeder.NewAssetSeeder(s.assets).Seed(context.Background()))

	apiServer := httpapi.NewServer(
		portfolio.NewService(s.assets, holdings),
		simulation.NewService(s.assets, s.decisions, s.prices, false),
		feed.NewService(s.news, s.alerts),
		s.assets,
		s.decisions,
		s.prices,
	)

	router := gin.New()
	apiServer.RegisterRoutes(router, apiToken)

	s.server = httptest.NewServer(router)
	t.Cleanup(s.server.Close)
	return s
}

func (s *stack) request(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, s.server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+apiToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.server.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestHealthAndAuth(t *testing.T) {
	s := newStack(t)

	resp, err := s.server.Client().Get(s.server.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = s.server.Client().Get(s.server.URL + "/api/assets")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSeededAssetCatalog(t *testing.T) {
	s := newStack(t)

	resp := s.request(t, http.MethodGet, "/api/assets", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assets := decodeBody[[]map[string]any](t, resp)
	assert.Len(t, assets, 5)

	tickers := make(map[string]bool)
	for _, a := range assets {
		tickers[a["ticker"].(string)] = true
	}
	for _, want := range []string{"APPL", "AMZN", "IDTX", "INTL", "TEF"} {
		assert.True(t, tickers[want], "missing ticker %s", want)
	}
}

func TestHoldingLifecycle(t *testing.T) {
	s := newStack(t)
	assetID := seeder.ASSET_APPL.String()

	create := map[string]any{"assetId": assetID, "amount": 2, "boughtPrice": "150.00"}
	resp := s.request(t, http.MethodPost, "/api/portfolio/holdings", create)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Duplicate create is rejected
	resp = s.request(t, http.MethodPost, "/api/portfolio/holdings", create)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	update := map[string]any{"assetId": assetID, "amount": 5, "boughtPrice": "140.00"}
	resp = s.request(t, http.MethodPut, "/api/portfolio/holdings", update)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = s.request(t, http.MethodGet, "/api/portfolio/holdings", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	holdings := decodeBody[[]map[string]any](t, resp)
	require.Len(t, holdings, 1)
	assert.Equal(t, float64(5), holdings[0]["amount"])
	assert.Equal(t, "140.00", holdings[0]["boughtPrice"])
	assert.Equal(t, "700.00", holdings[0]["bookValue"])

	resp = s.request(t, http.MethodDelete, "/api/portfolio/holdings?assetId="+assetID, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = s.request(t, http.MethodGet, "/api/portfolio/holdings", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decodeBody[[]map[string]any](t, resp))
}

func TestSimulationScenario(t *testing.T) {
	s := newStack(t)

	// One BUY on the first day; the located cash covers exactly one
	// share at the intraday price, then the position rides the closes.
	s.prices.intraday = domain.Money(10000)
	s.prices.eodByDay = map[string]domain.Money{
		"2024-01-01": domain.Money(11000),
		"2024-01-02": domain.Money(12000),
		"2024-01-03": domain.Money(13000),
	}
	s.decisions.decisions = []domain.Decision{
		{
			AssetID:   seeder.ASSET_APPL,
			Kind:      domain.DecisionBuy,
			Timestamp: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
			RiskLevel: 1,
		},
	}

	body := map[string]any{
		"fromDate":  "2024-01-01",
		"toDate":    "2024-01-03",
		"riskLevel": 1,
		"items": []map[string]any{
			{"assetId": seeder.ASSET_APPL.String(), "amount": 0, "locatedMoney": "100.00"},
		},
	}

	resp := s.request(t, http.MethodPost, "/api/simulations", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	type dailyValue struct {
		Date           string `json:"date"`
		Autoinvested   string `json:"autoinvested"`
		NoAutoinvested string `json:"noAutoinvested"`
	}
	type result struct {
		Overview []dailyValue `json:"overview"`
		Assets   []struct {
			Ticker string       `json:"ticker"`
			Days   []dailyValue `json:"days"`
		} `json:"assets"`
	}

	res := decodeBody[result](t, resp)
	require.Len(t, res.Assets, 1)
	assert.Equal(t, "APPL", res.Assets[0].Ticker)

	require.Len(t, res.Overview, 3)
	wantAuto := []string{"110.00", "120.00", "130.00"}
	for i, day := range res.Overview {
		assert.Equal(t, wantAuto[i], day.Autoinvested)
		assert.Equal(t, "100.00", day.NoAutoinvested)
	}
	assert.Equal(t, "2024-01-01", res.Overview[0].Date)
	assert.Equal(t, "2024-01-03", res.Overview[2].Date)
}

func TestSimulationUnknownAsset(t *testing.T) {
	s := newStack(t)
	s.prices.eodByDay = map[string]domain.Money{"2024-01-01": domain.Money(10000)}

	body := map[string]any{
		"fromDate": "2024-01-01",
		"toDate":   "2024-01-01",
		"items": []map[string]any{
			{"assetId": uuid.NewString(), "amount": 0, "locatedMoney": "100.00"},
		},
	}

	resp := s.request(t, http.MethodPost, "/api/simulations", body)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFeeds(t *testing.T) {
	s := newStack(t)
	s.news.items = []*domain.NewsItem{
		{Title: "Chip demand surges", Source: "FT", Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), Link: "https://example.com/chips"},
	}
	s.alerts.alerts = []*domain.Alert{
		{AssetID: seeder.ASSET_AMZN, Kind: domain.DecisionBuy, Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
	}

	resp := s.request(t, http.MethodGet, "/api/news", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	news := decodeBody[[]map[string]any](t, resp)
	require.Len(t, news, 1)
	assert.Equal(t, "Chip demand surges", news[0]["title"])

	resp = s.request(t, http.MethodGet, "/api/alerts", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	alerts := decodeBody[[]map[string]any](t, resp)
	require.Len(t, alerts, 1)
	assert.Equal(t, "BUY", alerts[0]["type"])
	assert.Equal(t, seeder.ASSET_AMZN.String(), alerts[0]["assetId"])
}
