package models

import (
	"time"

	"github.com/google/uuid"
)

// PcbMapping is a bill-of-materials: the set of components (with per-board
// quantities) a single PCB consumes. Immutable after creation.
type PcbMapping struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Name       string          `gorm:"column:name;not null"`
	Components []PcbMappingRow `gorm:"foreignKey:PcbID;references:ID"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// PcbMappingRow references a component consumed by a PCB. ComponentID is a
// non-owning reference; a dangling id surfaces as a runtime error at
// production time, not as a schema constraint.
type PcbMappingRow struct {
	ID                   uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	PcbID                uuid.UUID `gorm:"column:pcb_id;type:uuid;not null;index"`
	ComponentID          uuid.UUID `gorm:"column:component_id;type:uuid;not null"`
	QuantityPerComponent float64   `gorm:"column:quantity_per_component;not null"`
	Position             int       `gorm:"column:position;not null;default:0"`
}
