package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"github.com/invictuslabs/pcbstock-backend/internal/dataimport"
	"github.com/invictuslabs/pcbstock-backend/internal/events"
	"github.com/invictuslabs/pcbstock-backend/internal/inventory"
	"github.com/invictuslabs/pcbstock-backend/internal/procurement"
	"github.com/invictuslabs/pcbstock-backend/internal/production"
	"github.com/invictuslabs/pcbstock-backend/pkg/config"
	"github.com/invictuslabs/pcbstock-backend/pkg/db"
	"github.com/invictuslabs/pcbstock-backend/pkg/logger"
)

// Seeds the database with the embedded baseline dataset, replacing whatever
// is there. Intended for local development and demo environments.
func main() {
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if cfg.App.IsProd() {
		logg.Error(context.Background(), "refusing to seed a production environment", nil)
		os.Exit(1)
	}

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	gate := &db.Gate{}
	bus := events.NewBus(logg)

	inventoryRepo := inventory.NewRepository(dbClient.DB())
	productionRepo := production.NewRepository(dbClient.DB())
	procurementRepo := procurement.NewRepository(dbClient.DB())
	importRepo := dataimport.NewRepository(dbClient.DB())

	ledger, err := procurement.NewLedger(procurementRepo, nil)
	if err != nil {
		logg.Error(context.Background(), "failed to create procurement ledger", err)
		os.Exit(1)
	}

	importService, err := dataimport.NewService(dbClient, gate, importRepo, inventoryRepo, productionRepo, procurementRepo, ledger, bus, nil, cfg.Import.MaxFiles)
	if err != nil {
		logg.Error(context.Background(), "failed to create import service", err)
		os.Exit(1)
	}

	result, err := importService.BulkReplace(context.Background(), []string{"baseline.xlsx"})
	if err != nil {
		logg.Error(context.Background(), "seed failed", err)
		os.Exit(1)
	}

	ctx := logg.WithFields(context.Background(), map[string]any{
		"components": result.ComponentCount,
		"pcbs":       result.PcbCount,
		"triggers":   len(result.ProcurementEvents),
	})
	logg.Info(ctx, "seed completed")
}
