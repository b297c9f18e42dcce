package dataimport

import (
	"context"

	"gorm.io/gorm"

	"github.com/invictuslabs/pcbstock-backend/pkg/db/models"
)

// Repository persists the bulk import audit trail.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create appends one import record. The audit trail is never cleared, not
// even by a bulk replace.
func (r *Repository) Create(ctx context.Context, record *models.ImportRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// List returns import records newest first.
func (r *Repository) List(ctx context.Context) ([]models.ImportRecord, error) {
	var records []models.ImportRecord
	err := r.db.WithContext(ctx).
		Order("imported_at DESC").
		Find(&records).Error
	return records, err
}
