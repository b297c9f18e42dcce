package controllers

import (
	"net/http"

	"github.com/invictuslabs/pcbstock-backend/api/responses"
	"github.com/invictuslabs/pcbstock-backend/api/validators"
	"github.com/invictuslabs/pcbstock-backend/internal/dataimport"
	"github.com/invictuslabs/pcbstock-backend/internal/exports"
	pkgerrors "github.com/invictuslabs/pcbstock-backend/pkg/errors"
	"github.com/invictuslabs/pcbstock-backend/pkg/logger"
)

// BulkImport replaces the inventory dataset after validating the uploaded
// workbook names.
func BulkImport(svc dataimport.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "import service unavailable"))
			return
		}

		var payload bulkImportRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.BulkReplace(r.Context(), payload.Files)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// ImportHistory returns the import audit trail, newest first.
func ImportHistory(svc dataimport.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "import service unavailable"))
			return
		}

		history, err := svc.History(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, history)
	}
}

// ExportInventory streams the component inventory as CSV.
func ExportInventory(svc exports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "export service unavailable"))
			return
		}

		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="inventory.csv"`)
		if err := svc.WriteInventoryCSV(r.Context(), w); err != nil {
			if logg != nil {
				logg.Error(r.Context(), "export.inventory.failed", err)
			}
		}
	}
}

// ExportConsumption streams the consumption history as CSV.
func ExportConsumption(svc exports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "export service unavailable"))
			return
		}

		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="consumption.csv"`)
		if err := svc.WriteConsumptionCSV(r.Context(), w); err != nil {
			if logg != nil {
				logg.Error(r.Context(), "export.consumption.failed", err)
			}
		}
	}
}

type bulkImportRequest struct {
	Files []string `json:"files" validate:"required,min=1,dive,required"`
}
