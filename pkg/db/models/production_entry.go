package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductionEntry is the append-only audit record of one production run.
// PcbName is a denormalized snapshot taken at production time.
type ProductionEntry struct {
	ID                uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	PcbID             uuid.UUID             `gorm:"column:pcb_id;type:uuid;not null;index"`
	PcbName           string                `gorm:"column:pcb_name;not null"`
	QuantityToProduce float64               `gorm:"column:quantity_to_produce;not null"`
	Deductions        []ProductionDeduction `gorm:"foreignKey:EntryID;references:ID"`
	CreatedAt         time.Time             `gorm:"column:created_at;autoCreateTime"`
}

// ProductionDeduction is one stock deduction line within a production entry.
type ProductionDeduction struct {
	ID               uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	EntryID          uuid.UUID `gorm:"column:entry_id;type:uuid;not null;index"`
	ComponentID      uuid.UUID `gorm:"column:component_id;type:uuid;not null"`
	ComponentName    string    `gorm:"column:component_name;not null"`
	QuantityDeducted float64   `gorm:"column:quantity_deducted;not null"`
	Position         int       `gorm:"column:position;not null;default:0"`
}
