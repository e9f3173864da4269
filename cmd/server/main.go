package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/autoinvesthq/autoinvest-backend/internal/adapter/cache"
	"github.com/autoinvesthq/autoinvest-backend/internal/adapter/httpapi"
	"github.com/autoinvesthq/autoinvest-backend/internal/adapter/repository/postgres"
	"github.com/autoinvesthq/autoinvest-backend/internal/config"
	"github.com/autoinvesthq/autoinvest-backend/internal/domain"
	"github.com/autoinvesthq/autoinvest-backend/internal/usecase/feed"
	"github.com/autoinvesthq/autoinvest-backend/internal/usecase/portfolio"
	"github.com/autoinvesthq/autoinvest-backend/internal/usecase/seeder"
	"github.com/autoinvesthq/autoinvest-backend/internal/usecase/simulation"
)

const configPath = "config.yaml"

func main() {
	// .env is optional, used for local runs outside docker
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Add 2-second delay to ensure Postgres is up (Simple retry)
	time.Sleep(2 * time.Second)

	db, err := postgres.NewDB(cfg.DatabaseConnStr())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Repositories (Postgres)
	assetRepo := postgres.NewAssetRepository(db)
	holdingRepo := postgres.NewHoldingRepository(db)
	decisionRepo := postgres.NewDecisionRepository(db)
	newsRepo := postgres.NewNewsRepository(db)
	alertRepo := postgres.NewAlertRepository(db)

	var prices domain.PriceSource = postgres.NewPriceRepository(db)
	if cfg.Redis.Addr != "" {
		client, err := cache.NewClient(cfg.Redis.Addr)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer client.Close()
		prices = cache.NewPriceCache(client, prices)
		log.Printf("Price cache enabled via redis at %s", cfg.Redis.Addr)
	}

	// Services (Use Cases)
	portfolioService := portfolio.NewService(assetRepo, holdingRepo)
	simulationService := simulation.NewService(assetRepo, decisionRepo, prices, cfg.Simulation.AllowPartialResults)
	feedService := feed.NewService(newsRepo, alertRepo)

	// Seed the asset catalog the web client expects
	assetSeeder := seeder.NewAssetSeeder(assetRepo)
	ctx := context.Background()
	if err := assetSeeder.Seed(ctx); err != nil {
		log.Fatalf("Failed to seed assets: %v", err)
	}
	log.Println("Asset catalog seeded successfully")

	// HTTP server
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	apiServer := httpapi.NewServer(portfolioService, simulationService, feedService, assetRepo, decisionRepo, prices)
	apiServer.RegisterRoutes(router, cfg.Server.APIToken)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Printf("HTTP server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to serve HTTP server: %v", err)
		}
	}()

	waitForShutdown(srv)
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the server
func waitForShutdown(srv *http.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	log.Printf("Received signal: %v. Shutting down gracefully...", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}
	log.Println("HTTP server stopped")
}
