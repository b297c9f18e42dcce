package production

import (
	"time"

	"github.com/google/uuid"

	"github.com/invictuslabs/pcbstock-backend/internal/inventory"
	"github.com/invictuslabs/pcbstock-backend/internal/procurement"
	"github.com/invictuslabs/pcbstock-backend/pkg/db/models"
)

// ProduceInput is the validated payload for a production run.
type ProduceInput struct {
	PcbID             uuid.UUID
	QuantityToProduce float64
}

// DeductionDTO is one stock deduction line of a production entry.
type DeductionDTO struct {
	ComponentID      uuid.UUID `json:"componentId"`
	ComponentName    string    `json:"componentName"`
	QuantityDeducted float64   `json:"quantityDeducted"`
}

// EntryDTO is the API shape of a recorded production run.
type EntryDTO struct {
	ID                uuid.UUID      `json:"id"`
	PcbID             uuid.UUID      `json:"pcbId"`
	PcbName           string         `json:"pcbName"`
	QuantityToProduce float64        `json:"quantityToProduce"`
	Deductions        []DeductionDTO `json:"deductions"`
	CreatedAt         time.Time      `json:"createdAt"`
}

// ProduceResult carries the new entry, the components it touched, and any
// procurement events raised by the deductions.
type ProduceResult struct {
	Entry             EntryDTO                 `json:"entry"`
	UpdatedComponents []inventory.ComponentDTO `json:"updatedComponents"`
	ProcurementEvents []procurement.Event      `json:"procurementEvents"`
}

// ConsumptionDTO is the API shape of one consumption record.
type ConsumptionDTO struct {
	ID            uuid.UUID `json:"id"`
	Date          time.Time `json:"date"`
	ComponentID   uuid.UUID `json:"componentId"`
	ComponentName string    `json:"componentName"`
	PcbID         uuid.UUID `json:"pcbId"`
	PcbName       string    `json:"pcbName"`
	ConsumedQty   float64   `json:"consumedQty"`
}

func toEntryDTO(entry *models.ProductionEntry) EntryDTO {
	deductions := make([]DeductionDTO, 0, len(entry.Deductions))
	for _, d := range entry.Deductions {
		deductions = append(deductions, DeductionDTO{
			ComponentID:      d.ComponentID,
			ComponentName:    d.ComponentName,
			QuantityDeducted: d.QuantityDeducted,
		})
	}
	return EntryDTO{
		ID:                entry.ID,
		PcbID:             entry.PcbID,
		PcbName:           entry.PcbName,
		QuantityToProduce: entry.QuantityToProduce,
		Deductions:        deductions,
		CreatedAt:         entry.CreatedAt,
	}
}

// ToConsumptionDTO maps a stored consumption record.
func ToConsumptionDTO(record *models.ConsumptionRecord) ConsumptionDTO {
	return ConsumptionDTO{
		ID:            record.ID,
		Date:          record.Date,
		ComponentID:   record.ComponentID,
		ComponentName: record.ComponentName,
		PcbID:         record.PcbID,
		PcbName:       record.PcbName,
		ConsumedQty:   record.ConsumedQty,
	}
}
