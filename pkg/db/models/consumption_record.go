package models

import (
	"time"

	"github.com/google/uuid"
)

// ConsumptionRecord captures one (component, production run) consumption pair.
// Append-only.
type ConsumptionRecord struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Date          time.Time `gorm:"column:date;not null;index"`
	ComponentID   uuid.UUID `gorm:"column:component_id;type:uuid;not null;index"`
	ComponentName string    `gorm:"column:component_name;not null"`
	PcbID         uuid.UUID `gorm:"column:pcb_id;type:uuid;not null"`
	PcbName       string    `gorm:"column:pcb_name;not null"`
	ConsumedQty   float64   `gorm:"column:consumed_qty;not null"`
}
