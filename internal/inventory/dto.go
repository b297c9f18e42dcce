package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/invictuslabs/pcbstock-backend/pkg/db/models"
	"github.com/invictuslabs/pcbstock-backend/pkg/stock"
)

// ComponentDTO is the API shape of a component. LowStockThreshold and
// IsLowStock are derived from the stored quantities at mapping time.
type ComponentDTO struct {
	ID                 uuid.UUID `json:"id"`
	Name               string    `json:"name"`
	PartNumber         string    `json:"partNumber"`
	CurrentStockQty    float64   `json:"currentStockQty"`
	MonthlyRequiredQty float64   `json:"monthlyRequiredQty"`
	LowStockThreshold  float64   `json:"lowStockThreshold"`
	IsLowStock         bool      `json:"isLowStock"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// ToComponentDTO enriches a stored component with its derived fields.
// Idempotent by construction: the derivation reads only the stored
// quantities, so mapping an already-mapped component cannot drift.
func ToComponentDTO(component *models.Component) ComponentDTO {
	return ComponentDTO{
		ID:                 component.ID,
		Name:               component.Name,
		PartNumber:         component.PartNumber,
		CurrentStockQty:    stock.ToNumber(component.CurrentStockQty),
		MonthlyRequiredQty: stock.ToNumber(component.MonthlyRequiredQty),
		LowStockThreshold:  stock.LowStockThreshold(component.MonthlyRequiredQty),
		IsLowStock:         stock.IsLow(component.CurrentStockQty, component.MonthlyRequiredQty),
		CreatedAt:          component.CreatedAt,
		UpdatedAt:          component.UpdatedAt,
	}
}

// CreateComponentInput holds the validated payload to create a component.
type CreateComponentInput struct {
	Name               string
	PartNumber         string
	CurrentStockQty    float64
	MonthlyRequiredQty float64
}

// UpdateComponentInput is an explicit patch: nil fields keep the stored value,
// set fields merge over it.
type UpdateComponentInput struct {
	Name               *string
	PartNumber         *string
	CurrentStockQty    *float64
	MonthlyRequiredQty *float64
}

// PcbRowInput is one (component, per-board quantity) pair for a new PCB.
type PcbRowInput struct {
	ComponentID          uuid.UUID
	QuantityPerComponent float64
}

// CreatePcbInput holds the validated payload to create a PCB mapping.
type CreatePcbInput struct {
	Name       string
	Components []PcbRowInput
}

// PcbRowDTO is the API shape of one bill-of-materials row.
type PcbRowDTO struct {
	ComponentID          uuid.UUID `json:"componentId"`
	QuantityPerComponent float64   `json:"quantityPerComponent"`
}

// PcbDTO is the API shape of a PCB mapping.
type PcbDTO struct {
	ID         uuid.UUID   `json:"id"`
	Name       string      `json:"name"`
	Components []PcbRowDTO `json:"components"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

// ToPcbDTO maps a stored PCB with its rows, preserving row order.
func ToPcbDTO(pcb *models.PcbMapping) PcbDTO {
	rows := make([]PcbRowDTO, 0, len(pcb.Components))
	for _, row := range pcb.Components {
		rows = append(rows, PcbRowDTO{
			ComponentID:          row.ComponentID,
			QuantityPerComponent: row.QuantityPerComponent,
		})
	}
	return PcbDTO{
		ID:         pcb.ID,
		Name:       pcb.Name,
		Components: rows,
		CreatedAt:  pcb.CreatedAt,
		UpdatedAt:  pcb.UpdatedAt,
	}
}
