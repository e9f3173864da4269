package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/autoinvesthq/autoinvest-backend/internal/domain"
	"github.com/autoinvesthq/autoinvest-backend/internal/usecase/feed"
	"github.com/autoinvesthq/autoinvest-backend/internal/usecase/portfolio"
	"github.com/autoinvesthq/autoinvest-backend/internal/usecase/simulation"
)

const dateLayout = "2006-01-02"

// Server exposes the REST API consumed by the web client.
type Server struct {
	portfolioService  *portfolio.Service
	simulationService *simulation.Service
	feedService       *feed.Service
	assetRepo         domain.AssetRepository
	decisionRepo      domain.DecisionRepository
	prices            domain.PriceSource
}

// NewServer creates a new Server instance.
func NewServer(
	portfolioService *portfolio.Service,
	simulationService *simulation.Service,
	feedService *feed.Service,
	assetRepo domain.AssetRepository,
	decisionRepo domain.DecisionRepository,
	prices domain.PriceSource,
) *Server {
	return &Server{
		portfolioService:  portfolioService,
		simulationService: simulationService,
		feedService:       feedService,
		assetRepo:         assetRepo,
		decisionRepo:      decisionRepo,
		prices:            prices,
	}
}

// RegisterRoutes mounts the API under /api. Every /api route requires the
// bearer token; /health stays open for probes.
func (s *Server) RegisterRoutes(router *gin.Engine, apiToken string) {
	api := router.Group("/api", AuthMiddleware(apiToken))
	{
		api.GET("/assets", s.listAssets)
		api.GET("/assets/:assetId", s.getAsset)
		api.GET("/assets/:assetId/price", s.getPrice)

		api.GET("/portfolio/holdings", s.listHoldings)
		api.POST("/portfolio/holdings", s.createHolding)
		api.PUT("/portfolio/holdings", s.updateHolding)
		api.DELETE("/portfolio/holdings", s.deleteHolding)

		api.GET("/decisions", s.listDecisions)
		api.GET("/news", s.listNews)
		api.GET("/alerts", s.listAlerts)

		api.POST("/simulations", s.runSimulation)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
}

type assetResponse struct {
	AssetID string `json:"assetId"`
	MIC     string `json:"mic"`
	Ticker  string `json:"ticker"`
}

type priceResponse struct {
	AssetID string    `json:"assetId"`
	At      time.Time `json:"at"`
	Price   string    `json:"price"`
}

type holdingRequest struct {
	AssetID     string `json:"assetId" binding:"required"`
	Amount      int64  `json:"amount"`
	BoughtPrice string `json:"boughtPrice" binding:"required"`
}

type holdingResponse struct {
	AssetID     string `json:"assetId"`
	Amount      int64  `json:"amount"`
	BoughtPrice string `json:"boughtPrice"`
	BookValue   string `json:"bookValue"`
}

type decisionResponse struct {
	AssetID   string    `json:"assetId"`
	Type      string    `json:"type"`
	Date      time.Time `json:"date"`
	RiskLevel int       `json:"riskLevel"`
}

type newsResponse struct {
	Title  string    `json:"title"`
	Source string    `json:"source"`
	Date   time.Time `json:"date"`
	Link   string    `json:"link"`
}

type alertResponse struct {
	AssetID string    `json:"assetId"`
	Type    string    `json:"type"`
	Date    time.Time `json:"date"`
}

type simulationItemRequest struct {
	AssetID      string `json:"assetId" binding:"required"`
	Amount       int64  `json:"amount"`
	LocatedMoney string `json:"locatedMoney"`
}

type simulationRequest struct {
	FromDate  string                  `json:"fromDate" binding:"required"`
	ToDate    string                  `json:"toDate" binding:"required"`
	RiskLevel int                     `json:"riskLevel"`
	Items     []simulationItemRequest `json:"items" binding:"required"`
}

type dailyValueResponse struct {
	Date           string `json:"date"`
	Autoinvested   string `json:"autoinvested"`
	NoAutoinvested string `json:"noAutoinvested"`
}

type assetSeriesResponse struct {
	AssetID string               `json:"assetId"`
	MIC     string               `json:"mic"`
	Ticker  string               `json:"ticker"`
	Days    []dailyValueResponse `json:"days"`
}

type skippedAssetResponse struct {
	AssetID string `json:"assetId"`
	Reason  string `json:"reason"`
}

type simulationResponse struct {
	Overview []dailyValueResponse   `json:"overview"`
	Assets   []assetSeriesResponse  `json:"assets"`
	Skipped  []skippedAssetResponse `json:"skipped,omitempty"`
}

func (s *Server) listAssets(c *gin.Context) {
	assets, err := s.assetRepo.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	resp := make([]assetResponse, 0, len(assets))
	for _, a := range assets {
		resp = append(resp, toAssetResponse(a))
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) getAsset(c *gin.Context) {
	assetID, err := uuid.Parse(c.Param("assetId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid asset id"})
		return
	}

	asset, err := s.assetRepo.GetByID(c.Request.Context(), assetID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAssetResponse(asset))
}

func (s *Server) getPrice(c *gin.Context) {
	assetID, err := uuid.Parse(c.Param("assetId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid asset id"})
		return
	}

	at := time.Now().UTC()
	if raw := c.Query("at"); raw != "" {
		at, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid at timestamp, expected RFC 3339"})
			return
		}
	}

	price, err := s.prices.PriceAt(c.Request.Context(), assetID, at)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, priceResponse{
		AssetID: assetID.String(),
		At:      at,
		Price:   price.String(),
	})
}

func (s *Server) listHoldings(c *gin.Context) {
	holdings, err := s.portfolioService.ListHoldings(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	resp := make([]holdingResponse, 0, len(holdings))
	for _, h := range holdings {
		resp = append(resp, toHoldingResponse(h))
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) createHolding(c *gin.Context) {
	holding, ok := bindHolding(c)
	if !ok {
		return
	}

	created, err := s.portfolioService.AddHolding(c.Request.Context(), holding)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toHoldingResponse(created))
}

func (s *Server) updateHolding(c *gin.Context) {
	holding, ok := bindHolding(c)
	if !ok {
		return
	}

	updated, err := s.portfolioService.UpdateHolding(c.Request.Context(), holding)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toHoldingResponse(updated))
}

func (s *Server) deleteHolding(c *gin.Context) {
	assetID, err := uuid.Parse(c.Query("assetId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid asset id"})
		return
	}

	if err := s.portfolioService.RemoveHolding(c.Request.Context(), assetID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) listDecisions(c *gin.Context) {
	assetID, err := uuid.Parse(c.Query("assetId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid asset id"})
		return
	}

	riskLevel := 1
	if raw := c.Query("riskLevel"); raw != "" {
		riskLevel, err = strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid risk level"})
			return
		}
	}

	now := time.Now().UTC()
	from, ok := parseDateQuery(c, "from", now.AddDate(-1, 0, 0))
	if !ok {
		return
	}
	to, ok := parseDateQuery(c, "to", now)
	if !ok {
		return
	}

	decisions, err := s.decisionRepo.ListForAsset(c.Request.Context(), assetID, riskLevel, from, to)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := make([]decisionResponse, 0, len(decisions))
	for _, d := range decisions {
		resp = append(resp, decisionResponse{
			AssetID:   d.AssetID.String(),
			Type:      string(d.Kind),
			Date:      d.Timestamp,
			RiskLevel: d.RiskLevel,
		})
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) listNews(c *gin.Context) {
	limit, ok := parseLimitQuery(c)
	if !ok {
		return
	}

	items, err := s.feedService.News(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := make([]newsResponse, 0, len(items))
	for _, n := range items {
		resp = append(resp, newsResponse{
			Title:  n.Title,
			Source: n.Source,
			Date:   n.Date,
			Link:   n.Link,
		})
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) listAlerts(c *gin.Context) {
	limit, ok := parseLimitQuery(c)
	if !ok {
		return
	}

	alerts, err := s.feedService.Alerts(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := make([]alertResponse, 0, len(alerts))
	for _, a := range alerts {
		resp = append(resp, alertResponse{
			AssetID: a.AssetID.String(),
			Type:    string(a.Kind),
			Date:    a.Date,
		})
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) runSimulation(c *gin.Context) {
	var req simulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	from, err := time.Parse(dateLayout, req.FromDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid fromDate, expected YYYY-MM-DD"})
		return
	}
	to, err := time.Parse(dateLayout, req.ToDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid toDate, expected YYYY-MM-DD"})
		return
	}

	cfg := simulation.Config{
		From:      from,
		To:        to,
		RiskLevel: req.RiskLevel,
		Items:     make([]simulation.Item, 0, len(req.Items)),
	}
	for _, item := range req.Items {
		assetID, err := uuid.Parse(item.AssetID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid asset id: " + item.AssetID})
			return
		}

		located := domain.Money(0)
		if item.LocatedMoney != "" {
			located, err = parseMoney(item.LocatedMoney)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid locatedMoney for asset " + item.AssetID})
				return
			}
		}

		cfg.Items = append(cfg.Items, simulation.Item{
			AssetID:     assetID,
			Shares:      item.Amount,
			LocatedCash: located,
		})
	}

	result, err := s.simulationService.Simulate(c.Request.Context(), cfg)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSimulationResponse(result))
}

func bindHolding(c *gin.Context) (domain.Holding, bool) {
	var req holdingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return domain.Holding{}, false
	}

	assetID, err := uuid.Parse(req.AssetID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid asset id"})
		return domain.Holding{}, false
	}

	boughtPrice, err := parseMoney(req.BoughtPrice)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid boughtPrice"})
		return domain.Holding{}, false
	}

	return domain.Holding{
		AssetID:   assetID,
		Shares:    req.Amount,
		CostBasis: boughtPrice,
	}, true
}

func parseMoney(raw string) (domain.Money, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, err
	}
	return domain.MoneyFromDecimal(d)
}

func parseDateQuery(c *gin.Context, name string, fallback time.Time) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}

	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name + " date, expected YYYY-MM-DD"})
		return time.Time{}, false
	}
	return t, true
}

func parseLimitQuery(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return 0, true
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return 0, false
	}
	return limit, true
}

func toAssetResponse(a *domain.Asset) assetResponse {
	return assetResponse{
		AssetID: a.ID.String(),
		MIC:     a.MIC,
		Ticker:  a.Ticker,
	}
}

func toHoldingResponse(h *domain.Holding) holdingResponse {
	return holdingResponse{
		AssetID:     h.AssetID.String(),
		Amount:      h.Shares,
		BoughtPrice: h.CostBasis.String(),
		BookValue:   h.BookValue().String(),
	}
}

func toSimulationResponse(result *simulation.Result) simulationResponse {
	resp := simulationResponse{
		Overview: toDailyValueResponses(result.Overview),
		Assets:   make([]assetSeriesResponse, 0, len(result.Assets)),
	}
	for _, series := range result.Assets {
		resp.Assets = append(resp.Assets, assetSeriesResponse{
			AssetID: series.AssetID.String(),
			MIC:     series.MIC,
			Ticker:  series.Ticker,
			Days:    toDailyValueResponses(series.Days),
		})
	}
	for _, skipped := range result.Skipped {
		resp.Skipped = append(resp.Skipped, skippedAssetResponse{
			AssetID: skipped.AssetID.String(),
			Reason:  skipped.Reason,
		})
	}
	return resp
}

func toDailyValueResponses(days []domain.DailyValue) []dailyValueResponse {
	resp := make([]dailyValueResponse, 0, len(days))
	for _, day := range days {
		resp = append(resp, dailyValueResponse{
			Date:           day.Date.Format(dateLayout),
			Autoinvested:   day.Autoinvested.String(),
			NoAutoinvested: day.NoAutoinvested.String(),
		})
	}
	return resp
}

// writeError maps domain errors to HTTP status codes.
func writeError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	var priceErr *domain.PriceUnavailableError
	if errors.As(err, &priceErr) {
		return http.StatusBadGateway
	}
	if errors.Is(err, domain.ErrInvalidRange) {
		return http.StatusBadRequest
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "not found"):
		return http.StatusNotFound
	case strings.Contains(msg, "already exists"):
		return http.StatusConflict
	case strings.Contains(msg, "must"),
		strings.Contains(msg, "cannot"),
		strings.Contains(msg, "invalid"),
		strings.Contains(msg, "at least one"):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
