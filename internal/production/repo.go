package production

import (
	"context"

	"gorm.io/gorm"

	"github.com/invictuslabs/pcbstock-backend/pkg/db/models"
)

// Repository persists production entries and their consumption records.
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

// CreateEntry inserts a production entry together with its deduction lines.
func (r *Repository) CreateEntry(ctx context.Context, entry *models.ProductionEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListEntries returns production entries newest first, deductions preloaded in
// stored order.
func (r *Repository) ListEntries(ctx context.Context) ([]models.ProductionEntry, error) {
	var entries []models.ProductionEntry
	err := r.db.WithContext(ctx).
		Preload("Deductions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}

// CountEntries returns the total number of production entries.
func (r *Repository) CountEntries(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ProductionEntry{}).Count(&count).Error
	return count, err
}

// CreateConsumption inserts consumption records in one batch.
func (r *Repository) CreateConsumption(ctx context.Context, records []models.ConsumptionRecord) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&records).Error
}

// ListConsumption returns consumption records newest first.
func (r *Repository) ListConsumption(ctx context.Context) ([]models.ConsumptionRecord, error) {
	var records []models.ConsumptionRecord
	err := r.db.WithContext(ctx).
		Order("date DESC").
		Find(&records).Error
	return records, err
}

// DeleteAllEntries clears production entries and their deductions (bulk
// replace only).
func (r *Repository) DeleteAllEntries(ctx context.Context) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("1 = 1").Delete(&models.ProductionDeduction{}).Error; err != nil {
		return err
	}
	return tx.Where("1 = 1").Delete(&models.ProductionEntry{}).Error
}

// DeleteAllConsumption clears consumption records (bulk replace only).
func (r *Repository) DeleteAllConsumption(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&models.ConsumptionRecord{}).Error
}
