package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/invictuslabs/pcbstock-backend/api/routes"
	"github.com/invictuslabs/pcbstock-backend/internal/analytics"
	"github.com/invictuslabs/pcbstock-backend/internal/dataimport"
	"github.com/invictuslabs/pcbstock-backend/internal/events"
	"github.com/invictuslabs/pcbstock-backend/internal/exports"
	"github.com/invictuslabs/pcbstock-backend/internal/inventory"
	"github.com/invictuslabs/pcbstock-backend/internal/procurement"
	"github.com/invictuslabs/pcbstock-backend/internal/production"
	"github.com/invictuslabs/pcbstock-backend/pkg/config"
	"github.com/invictuslabs/pcbstock-backend/pkg/db"
	"github.com/invictuslabs/pcbstock-backend/pkg/logger"
	"github.com/invictuslabs/pcbstock-backend/pkg/metrics"
	"github.com/invictuslabs/pcbstock-backend/pkg/migrate"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	gate := &db.Gate{}
	bus := events.NewBus(logg)
	mutationMetrics := metrics.NewMutationMetrics(prometheus.DefaultRegisterer)

	inventoryRepo := inventory.NewRepository(dbClient.DB())
	productionRepo := production.NewRepository(dbClient.DB())
	procurementRepo := procurement.NewRepository(dbClient.DB())
	importRepo := dataimport.NewRepository(dbClient.DB())

	ledger, err := procurement.NewLedger(procurementRepo, mutationMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create procurement ledger", err)
		os.Exit(1)
	}

	inventoryService, err := inventory.NewService(dbClient, gate, inventoryRepo, ledger, bus, mutationMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}

	productionService, err := production.NewService(dbClient, gate, productionRepo, inventoryRepo, ledger, bus, mutationMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create production service", err)
		os.Exit(1)
	}

	procurementService, err := procurement.NewService(dbClient, gate, procurementRepo, bus)
	if err != nil {
		logg.Error(context.Background(), "failed to create procurement service", err)
		os.Exit(1)
	}

	importService, err := dataimport.NewService(dbClient, gate, importRepo, inventoryRepo, productionRepo, procurementRepo, ledger, bus, mutationMetrics, cfg.Import.MaxFiles)
	if err != nil {
		logg.Error(context.Background(), "failed to create import service", err)
		os.Exit(1)
	}

	if cfg.FeatureFlags.SeedOnBoot && cfg.App.IsDev() {
		if _, err := importService.BulkReplace(context.Background(), []string{"baseline.xlsx"}); err != nil {
			logg.Error(context.Background(), "failed to seed baseline dataset", err)
			os.Exit(1)
		}
		logg.Info(context.Background(), "seeded baseline dataset")
	}

	exportService, err := exports.NewService(inventoryRepo, productionRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create export service", err)
		os.Exit(1)
	}

	analyticsService, err := analytics.NewService(inventoryRepo, productionRepo, procurementRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create analytics service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			inventoryService,
			productionService,
			procurementService,
			importService,
			exportService,
			analyticsService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
