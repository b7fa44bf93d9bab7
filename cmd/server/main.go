package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/servicecore/internal/config"
	"github.com/iliyamo/servicecore/internal/database"
	"github.com/iliyamo/servicecore/internal/engine"
	"github.com/iliyamo/servicecore/internal/handler"
	"github.com/iliyamo/servicecore/internal/middleware"
	"github.com/iliyamo/servicecore/internal/outbox"
	"github.com/iliyamo/servicecore/internal/payment"
	"github.com/iliyamo/servicecore/internal/repository"
	"github.com/iliyamo/servicecore/internal/router"
	"github.com/iliyamo/servicecore/internal/sweeper"
	"github.com/iliyamo/servicecore/internal/webhook"
)

func main() {
	_ = godotenv.Load() // optional; real deployments set env vars directly

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.Migrate(migrateCtx, db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	rdb := config.NewRedisClient()
	amqpConn := config.NewAMQPConnection()
	if amqpConn != nil {
		defer amqpConn.Close()
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	bookings := repository.NewBookingRepo(db)
	providers := repository.NewProviderRepo(db)
	services := repository.NewServiceRepo(db)
	outboxRepo := repository.NewOutboxRepo(db)
	paymentsRepo := repository.NewPaymentRepo(db)
	webhooksRepo := repository.NewWebhookRepo(db)

	pspProviderName := "mock"
	if cfg.StripeSecretKey != "" {
		pspProviderName = "stripe"
	}
	psp := payment.NewClient(cfg.StripeSecretKey)
	ledger := payment.NewLedger(paymentsRepo, psp, pspProviderName)

	bookingEngine := engine.New(db, bookings, providers, services, outboxRepo, ledger)
	webhookProcessor := webhook.New(db, webhooksRepo, bookingEngine)
	sweep := sweeper.New(db, bookings, outboxRepo, ledger)

	relay, err := outbox.NewRelay(db, outboxRepo, amqpConn)
	if err != nil {
		log.Fatalf("outbox relay: %v", err)
	}
	defer relay.Close()

	bgCtx, stopBG := context.WithCancel(context.Background())
	defer stopBG()
	go sweep.RunForever(bgCtx, cfg.SweepInterval)
	go relay.RunForever(bgCtx, 5*time.Second)

	authHandler := handler.NewAuthHandler(cfg, users, tokens)
	bookingHandler := handler.NewBookingHandler(bookingEngine, providers)
	webhookHandler := handler.NewWebhookHandler(cfg, webhookProcessor)
	adminHandler := handler.NewAdminHandler(sweep)
	serviceHandler := handler.NewServiceHandler(services, providers)

	e := echo.New()
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		cached := cache(next)
		return func(c echo.Context) error {
			if c.Path() == "/v1/services" {
				return cached(c)
			}
			return next(c)
		}
	})

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterBookings(e, bookingHandler, cfg.JWTSecret)
	router.RegisterWebhooks(e, webhookHandler)
	router.RegisterAdmin(e, adminHandler, cfg.JWTSecret)
	router.RegisterServices(e, serviceHandler)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
