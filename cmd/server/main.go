package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"   // Loads .env files into the environment
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/commerce-admin-api/internal/auth"       // Credential guard
	"github.com/iliyamo/commerce-admin-api/internal/config"     // Internal config loader
	"github.com/iliyamo/commerce-admin-api/internal/database"   // MySQL pool
	"github.com/iliyamo/commerce-admin-api/internal/handler"    // HTTP handlers
	"github.com/iliyamo/commerce-admin-api/internal/middleware" // Cache and rate limiting
	"github.com/iliyamo/commerce-admin-api/internal/queue"      // RabbitMQ consumer
	"github.com/iliyamo/commerce-admin-api/internal/repository" // Data access
	"github.com/iliyamo/commerce-admin-api/internal/router"     // Route registration
	"github.com/iliyamo/commerce-admin-api/internal/service"    // Outbound collaborators
)

func main() {
	_ = godotenv.Load() // Best effort; real env vars win over .env

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err) // No point starting without storage
	}
	defer func() { _ = db.Close() }()

	rdb := config.NewRedisClient() // nil when Redis is absent; cache and limiter degrade

	// Repositories.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	customers := repository.NewCustomerRepo(db)
	reviews := repository.NewReviewRepo(db)
	discounts := repository.NewDiscountRepo(db)
	payments := repository.NewPaymentRepo(db)
	products := repository.NewProductRepo(db)
	reports := repository.NewReportRepo(db)
	monitoring := repository.NewMonitoringRepo(db)

	guard := auth.NewGuard(tokens, users) // Resolves bearer credentials to principals

	// Handlers.
	authH := handler.NewAuthHandler(users, tokens)
	custH := handler.NewCustomerHandler(cfg, customers, users, tokens)
	reviewH := handler.NewReviewHandler(reviews, products)
	discH := handler.NewDiscountHandler(discounts)
	payH := handler.NewPaymentHandler(payments, service.StubPaymentProvider{})
	visualH := handler.NewVisualSearchHandler(service.NewStubVisualSearcher(products))
	reportH := handler.NewReportHandler(reports, monitoring)
	monH := handler.NewMonitoringHandler(monitoring)
	healthH := handler.NewHealthHandler(db, rdb)

	e := echo.New() // Create Echo instance
	e.HideBanner = true

	// Rate limiting applies to everything; the report cache only to the
	// admin report GETs (wired inside RegisterAdmin).
	var reportCache echo.MiddlewareFunc
	if rdb != nil {
		e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
		reportCache = middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	}

	router.RegisterRoutes(e, healthH)
	router.RegisterAuth(e, authH, guard)
	router.RegisterPublic(e, reviewH, visualH)
	router.RegisterUser(e, guard, reviewH, payH)
	router.RegisterAdmin(e, guard, reportCache, reportH, custH, reviewH, discH)
	router.RegisterMonitoring(e, cfg.ServiceSecret, monH)

	// Consume persisted monitoring events into the audit log.  The consumer
	// reconnects on broker failures and never takes the API down.
	go func() {
		if err := queue.StartMonitoringConsumer(); err != nil {
			log.Printf("monitoring consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
