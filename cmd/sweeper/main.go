// Command sweeper runs the TTL sweeps as a standalone worker process,
// separate from the HTTP server, so the sweep cadence can be scaled or
// restarted independently of request traffic.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/iliyamo/servicecore/internal/config"
	"github.com/iliyamo/servicecore/internal/database"
	"github.com/iliyamo/servicecore/internal/payment"
	"github.com/iliyamo/servicecore/internal/repository"
	"github.com/iliyamo/servicecore/internal/sweeper"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	bookings := repository.NewBookingRepo(db)
	outboxRepo := repository.NewOutboxRepo(db)
	paymentsRepo := repository.NewPaymentRepo(db)

	pspProviderName := "mock"
	if cfg.StripeSecretKey != "" {
		pspProviderName = "stripe"
	}
	psp := payment.NewClient(cfg.StripeSecretKey)
	ledger := payment.NewLedger(paymentsRepo, psp, pspProviderName)

	sweep := sweeper.New(db, bookings, outboxRepo, ledger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("sweeper worker started, interval=%s", cfg.SweepInterval)
	sweep.RunForever(ctx, cfg.SweepInterval)
	log.Println("sweeper worker stopped")
}
