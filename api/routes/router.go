package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/invictuslabs/pcbstock-backend/api/controllers"
	"github.com/invictuslabs/pcbstock-backend/api/middleware"
	"github.com/invictuslabs/pcbstock-backend/internal/analytics"
	"github.com/invictuslabs/pcbstock-backend/internal/dataimport"
	"github.com/invictuslabs/pcbstock-backend/internal/exports"
	"github.com/invictuslabs/pcbstock-backend/internal/inventory"
	"github.com/invictuslabs/pcbstock-backend/internal/procurement"
	"github.com/invictuslabs/pcbstock-backend/internal/production"
	"github.com/invictuslabs/pcbstock-backend/pkg/config"
	"github.com/invictuslabs/pcbstock-backend/pkg/db"
	"github.com/invictuslabs/pcbstock-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	inventoryService inventory.Service,
	productionService production.Service,
	procurementService procurement.Service,
	importService dataimport.Service,
	exportService exports.Service,
	analyticsService analytics.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP))
	})
	r.Get("/healthz", controllers.HealthReady(cfg, logg, dbP))

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/components", func(r chi.Router) {
			r.Get("/", controllers.ListComponents(inventoryService, logg))
			r.Post("/", controllers.CreateComponent(inventoryService, logg))
			r.Get("/low-stock", controllers.LowStockComponents(inventoryService, logg))
			r.Get("/{componentId}", controllers.GetComponent(inventoryService, logg))
			r.Patch("/{componentId}", controllers.UpdateComponent(inventoryService, logg))
		})

		r.Route("/pcbs", func(r chi.Router) {
			r.Get("/", controllers.ListPcbs(inventoryService, logg))
			r.Post("/", controllers.CreatePcb(inventoryService, logg))
			r.Get("/{pcbId}", controllers.GetPcb(inventoryService, logg))
		})

		r.Route("/production", func(r chi.Router) {
			r.Get("/", controllers.ListProductionEntries(productionService, logg))
			r.Post("/", controllers.Produce(productionService, logg))
		})

		r.Route("/procurement", func(r chi.Router) {
			r.Get("/", controllers.ListProcurementTriggers(procurementService, logg))
			r.Post("/{triggerId}/fulfill", controllers.FulfillProcurementTrigger(procurementService, logg))
		})

		r.Route("/import", func(r chi.Router) {
			r.Post("/", controllers.BulkImport(importService, logg))
			r.Get("/history", controllers.ImportHistory(importService, logg))
		})

		r.Route("/export", func(r chi.Router) {
			r.Get("/inventory", controllers.ExportInventory(exportService, logg))
			r.Get("/consumption", controllers.ExportConsumption(exportService, logg))
		})

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/summary", controllers.AnalyticsSummary(analyticsService, logg))
			r.Get("/top-consumed", controllers.AnalyticsTopConsumed(analyticsService, logg))
			r.Get("/consumption-history", controllers.AnalyticsConsumptionHistory(analyticsService, logg))
			r.Get("/low-stock", controllers.AnalyticsLowStock(analyticsService, logg))
			r.Get("/consumption-trends", controllers.AnalyticsConsumptionTrends(analyticsService, logg))
			r.Get("/low-stock-timeline", controllers.AnalyticsLowStockTimeline(analyticsService, logg))
		})
	})

	return r
}
