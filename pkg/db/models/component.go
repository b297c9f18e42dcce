package models

import (
	"time"

	"github.com/google/uuid"
)

// Component is an electronic part tracked in inventory. The low-stock
// threshold and flag are derived from the stored quantities on every read and
// are intentionally not persisted here.
type Component struct {
	ID                 uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name               string    `gorm:"column:name;not null"`
	PartNumber         string    `gorm:"column:part_number;not null;index"`
	CurrentStockQty    float64   `gorm:"column:current_stock_qty;not null;default:0"`
	MonthlyRequiredQty float64   `gorm:"column:monthly_required_qty;not null;default:0"`
	CreatedAt          time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
