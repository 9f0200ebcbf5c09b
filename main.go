package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/robfig/cron/v3"

	"github.com/jonaso220/RutaWater-Native-sub000/internal/config"
	"github.com/jonaso220/RutaWater-Native-sub000/internal/database"
	"github.com/jonaso220/RutaWater-Native-sub000/internal/repository"
	"github.com/jonaso220/RutaWater-Native-sub000/internal/server"
	"github.com/jonaso220/RutaWater-Native-sub000/internal/services"
	"github.com/jonaso220/RutaWater-Native-sub000/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		slog.Error("opening database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("running migrations", "error", err)
		os.Exit(1)
	}

	clientRepo := store.NewRetryingClientRepository(repository.NewClientRepository(db))
	debtRepo := store.NewRetryingDebtRepository(repository.NewDebtRepository(db))
	transferRepo := store.NewRetryingTransferRepository(repository.NewTransferRepository(db))
	billingService := services.NewBillingService(clientRepo, debtRepo, transferRepo)

	scheduler, err := startReconciler(cfg.ReconcileSchedule, billingService)
	if err != nil {
		slog.Error("starting reconciler", "error", err)
		os.Exit(1)
	}
	defer scheduler.Stop()

	srv := server.New(db, cfg)
	if err := srv.Start(); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

// startReconciler schedules the nightly recompute of the cached
// hasDebt / hasPendingTransfer flags from the live collections.
func startReconciler(schedule string, billingService *services.BillingService) (*cron.Cron, error) {
	logger := cron.PrintfLogger(slog.NewLogLogger(slog.Default().Handler(), slog.LevelInfo))
	scheduler := cron.New(cron.WithChain(cron.Recover(logger)))

	_, err := scheduler.AddFunc(schedule, func() {
		if err := billingService.ReconcileFlags(context.Background()); err != nil {
			slog.Error("reconciling cached flags", "error", err)
		}
	})
	if err != nil {
		return nil, err
	}

	scheduler.Start()
	return scheduler, nil
}
