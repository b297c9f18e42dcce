package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/invictuslabs/pcbstock-backend/api/responses"
	"github.com/invictuslabs/pcbstock-backend/api/validators"
	"github.com/invictuslabs/pcbstock-backend/internal/inventory"
	pkgerrors "github.com/invictuslabs/pcbstock-backend/pkg/errors"
	"github.com/invictuslabs/pcbstock-backend/pkg/logger"
)

// ListComponents returns all components, optionally filtered by the search
// query parameter.
func ListComponents(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		search := strings.TrimSpace(r.URL.Query().Get("search"))
		components, err := svc.ListComponents(r.Context(), search)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, components)
	}
}

// GetComponent returns one component by id.
func GetComponent(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		id, err := parsePathUUID(r, "componentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		component, err := svc.GetComponent(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, component)
	}
}

// CreateComponent registers a new component.
func CreateComponent(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		var payload createComponentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.CreateComponent(r.Context(), inventory.CreateComponentInput{
			Name:               strings.TrimSpace(payload.Name),
			PartNumber:         strings.TrimSpace(payload.PartNumber),
			CurrentStockQty:    payload.CurrentStockQty,
			MonthlyRequiredQty: payload.MonthlyRequiredQty,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// UpdateComponent applies a partial update to a component.
func UpdateComponent(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		id, err := parsePathUUID(r, "componentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateComponentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.UpdateComponent(r.Context(), id, inventory.UpdateComponentInput{
			Name:               payload.Name,
			PartNumber:         payload.PartNumber,
			CurrentStockQty:    payload.CurrentStockQty,
			MonthlyRequiredQty: payload.MonthlyRequiredQty,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// LowStockComponents returns the components currently below threshold.
func LowStockComponents(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		components, err := svc.LowStockComponents(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, components)
	}
}

type createComponentRequest struct {
	Name               string  `json:"name" validate:"required"`
	PartNumber         string  `json:"partNumber"`
	CurrentStockQty    float64 `json:"currentStockQty" validate:"gte=0"`
	MonthlyRequiredQty float64 `json:"monthlyRequiredQty" validate:"gte=0"`
}

type updateComponentRequest struct {
	Name               *string  `json:"name,omitempty"`
	PartNumber         *string  `json:"partNumber,omitempty"`
	CurrentStockQty    *float64 `json:"currentStockQty,omitempty" validate:"omitempty,gte=0"`
	MonthlyRequiredQty *float64 `json:"monthlyRequiredQty,omitempty" validate:"omitempty,gte=0"`
}

func parsePathUUID(r *http.Request, param string) (uuid.UUID, error) {
	raw := chi.URLParam(r, param)
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid id").
			WithDetails(map[string]any{"param": param})
	}
	return id, nil
}
