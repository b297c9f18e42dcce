package procurement

import (
	"time"

	"github.com/google/uuid"

	"github.com/invictuslabs/pcbstock-backend/pkg/db/models"
	"github.com/invictuslabs/pcbstock-backend/pkg/enums"
)

// EventType distinguishes ledger reconciliation outcomes.
type EventType string

const (
	EventTriggered EventType = "triggered"
	EventResolved  EventType = "resolved"
)

// Event is one procurement state change emitted by a reconciliation.
type Event struct {
	Type    EventType  `json:"type"`
	Trigger TriggerDTO `json:"record"`
}

// SnapshotDTO freezes the stock numbers observed when the trigger fired.
type SnapshotDTO struct {
	Stock           float64 `json:"stock"`
	MonthlyRequired float64 `json:"monthlyRequired"`
	Threshold       float64 `json:"threshold"`
}

// TriggerDTO is the API shape of a procurement trigger.
type TriggerDTO struct {
	ID                 uuid.UUID           `json:"id"`
	ComponentID        uuid.UUID           `json:"componentId"`
	ComponentName      string              `json:"componentName"`
	PartNumber         string              `json:"partNumber"`
	CurrentStockQty    float64             `json:"currentStockQty"`
	MonthlyRequiredQty float64             `json:"monthlyRequiredQty"`
	LowStockThreshold  float64             `json:"lowStockThreshold"`
	TriggeredAt        time.Time           `json:"triggeredAt"`
	Status             enums.TriggerStatus `json:"status"`
	ResolvedAt         *time.Time          `json:"resolvedAt"`
	FulfillmentNotes   *string             `json:"fulfillmentNotes,omitempty"`
	Snapshot           SnapshotDTO         `json:"snapshot"`
}

func toTriggerDTO(trigger *models.ProcurementTrigger) TriggerDTO {
	return TriggerDTO{
		ID:                 trigger.ID,
		ComponentID:        trigger.ComponentID,
		ComponentName:      trigger.ComponentName,
		PartNumber:         trigger.PartNumber,
		CurrentStockQty:    trigger.CurrentStockQty,
		MonthlyRequiredQty: trigger.MonthlyRequiredQty,
		LowStockThreshold:  trigger.LowStockThreshold,
		TriggeredAt:        trigger.TriggeredAt,
		Status:             trigger.Status,
		ResolvedAt:         trigger.ResolvedAt,
		FulfillmentNotes:   trigger.FulfillmentNotes,
		Snapshot: SnapshotDTO{
			Stock:           trigger.SnapshotStock,
			MonthlyRequired: trigger.SnapshotMonthlyRequired,
			Threshold:       trigger.SnapshotThreshold,
		},
	}
}
