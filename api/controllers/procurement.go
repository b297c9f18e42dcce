package controllers

import (
	"net/http"
	"strings"

	"github.com/invictuslabs/pcbstock-backend/api/responses"
	"github.com/invictuslabs/pcbstock-backend/api/validators"
	"github.com/invictuslabs/pcbstock-backend/internal/procurement"
	pkgerrors "github.com/invictuslabs/pcbstock-backend/pkg/errors"
	"github.com/invictuslabs/pcbstock-backend/pkg/logger"
)

// ListProcurementTriggers returns triggers newest first, optionally filtered
// by the status query parameter.
func ListProcurementTriggers(svc procurement.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "procurement service unavailable"))
			return
		}

		status := strings.TrimSpace(r.URL.Query().Get("status"))
		triggers, err := svc.List(r.Context(), status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, triggers)
	}
}

// FulfillProcurementTrigger marks a pending trigger as fulfilled.
func FulfillProcurementTrigger(svc procurement.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "procurement service unavailable"))
			return
		}

		id, err := parsePathUUID(r, "triggerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload fulfillTriggerRequest
		if r.ContentLength > 0 {
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		trigger, err := svc.MarkFulfilled(r.Context(), id, payload.Notes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, trigger)
	}
}

type fulfillTriggerRequest struct {
	Notes string `json:"notes"`
}
