package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/invictuslabs/pcbstock-backend/api/responses"
	"github.com/invictuslabs/pcbstock-backend/api/validators"
	"github.com/invictuslabs/pcbstock-backend/internal/inventory"
	pkgerrors "github.com/invictuslabs/pcbstock-backend/pkg/errors"
	"github.com/invictuslabs/pcbstock-backend/pkg/logger"
)

// ListPcbs returns all PCB mappings.
func ListPcbs(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		pcbs, err := svc.ListPcbs(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, pcbs)
	}
}

// GetPcb returns one PCB mapping by id.
func GetPcb(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		id, err := parsePathUUID(r, "pcbId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pcb, err := svc.GetPcb(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, pcb)
	}
}

// CreatePcb registers a new PCB mapping with its bill of materials.
func CreatePcb(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		var payload createPcbRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pcb, err := svc.CreatePcb(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, pcb)
	}
}

type createPcbRequest struct {
	Name       string          `json:"name" validate:"required"`
	Components []pcbRowRequest `json:"components" validate:"required,min=1,dive"`
}

type pcbRowRequest struct {
	ComponentID          string  `json:"componentId" validate:"required"`
	QuantityPerComponent float64 `json:"quantityPerComponent" validate:"required,gt=0"`
}

func (r createPcbRequest) toInput() (inventory.CreatePcbInput, error) {
	rows := make([]inventory.PcbRowInput, 0, len(r.Components))
	for _, row := range r.Components {
		id, err := uuid.Parse(strings.TrimSpace(row.ComponentID))
		if err != nil {
			return inventory.CreatePcbInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid component id").
				WithDetails(map[string]any{"componentId": row.ComponentID})
		}
		rows = append(rows, inventory.PcbRowInput{
			ComponentID:          id,
			QuantityPerComponent: row.QuantityPerComponent,
		})
	}
	return inventory.CreatePcbInput{
		Name:       strings.TrimSpace(r.Name),
		Components: rows,
	}, nil
}
