package models

import (
	"time"

	"github.com/google/uuid"
)

// ImportRecord is the audit trail entry appended after a bulk replace.
type ImportRecord struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Files      []string  `gorm:"column:files;serializer:json"`
	Mode       string    `gorm:"column:mode;not null"`
	ImportedAt time.Time `gorm:"column:imported_at;not null;index"`
}
