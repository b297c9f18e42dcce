package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/invictuslabs/pcbstock-backend/pkg/enums"
)

// ProcurementTrigger records a component falling below its low-stock
// threshold. At most one pending trigger may exist per component; the ledger
// enforces this before every insert. Snapshot columns freeze the stock state
// observed at trigger time.
type ProcurementTrigger struct {
	ID                 uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	ComponentID        uuid.UUID           `gorm:"column:component_id;type:uuid;not null;index"`
	ComponentName      string              `gorm:"column:component_name;not null"`
	PartNumber         string              `gorm:"column:part_number;not null"`
	CurrentStockQty    float64             `gorm:"column:current_stock_qty;not null"`
	MonthlyRequiredQty float64             `gorm:"column:monthly_required_qty;not null"`
	LowStockThreshold  float64             `gorm:"column:low_stock_threshold;not null"`
	TriggeredAt        time.Time           `gorm:"column:triggered_at;not null;index"`
	Status             enums.TriggerStatus `gorm:"column:status;not null;index"`
	ResolvedAt         *time.Time          `gorm:"column:resolved_at"`
	FulfillmentNotes   *string             `gorm:"column:fulfillment_notes"`

	SnapshotStock           float64 `gorm:"column:snapshot_stock;not null"`
	SnapshotMonthlyRequired float64 `gorm:"column:snapshot_monthly_required;not null"`
	SnapshotThreshold       float64 `gorm:"column:snapshot_threshold;not null"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
