package inventory

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/invictuslabs/pcbstock-backend/pkg/db/models"
)

// Repository wires together component and PCB mapping persistence.
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

// ListComponents returns components matching the search term by
// case-insensitive substring over name or part number. Empty term lists all.
func (r *Repository) ListComponents(ctx context.Context, search string) ([]models.Component, error) {
	query := r.db.WithContext(ctx).Order("created_at ASC")

	term := strings.ToLower(strings.TrimSpace(search))
	if term != "" {
		pattern := "%" + term + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(part_number) LIKE ?", pattern, pattern)
	}

	var rows []models.Component
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindComponentByID loads a single component.
func (r *Repository) FindComponentByID(ctx context.Context, id uuid.UUID) (*models.Component, error) {
	var component models.Component
	if err := r.db.WithContext(ctx).First(&component, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &component, nil
}

// FindComponentsByIDs loads the components for the given ids, keyed by id.
// Missing ids are simply absent from the result; callers decide whether a
// dangling reference is fatal.
func (r *Repository) FindComponentsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Component, error) {
	result := make(map[uuid.UUID]*models.Component, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var rows []models.Component
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		result[rows[i].ID] = &rows[i]
	}
	return result, nil
}

// CreateComponent inserts a new component row.
func (r *Repository) CreateComponent(ctx context.Context, component *models.Component) error {
	return r.db.WithContext(ctx).Create(component).Error
}

// SaveComponent updates an existing component row.
func (r *Repository) SaveComponent(ctx context.Context, component *models.Component) error {
	return r.db.WithContext(ctx).Save(component).Error
}

// ListPcbs lists all PCB mappings with rows in their stored order.
func (r *Repository) ListPcbs(ctx context.Context) ([]models.PcbMapping, error) {
	var rows []models.PcbMapping
	err := r.db.WithContext(ctx).
		Preload("Components", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

// FindPcbByID loads a PCB mapping with its rows in stored order.
func (r *Repository) FindPcbByID(ctx context.Context, id uuid.UUID) (*models.PcbMapping, error) {
	var pcb models.PcbMapping
	err := r.db.WithContext(ctx).
		Preload("Components", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&pcb, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &pcb, nil
}

// CreatePcb inserts a PCB mapping together with its rows.
func (r *Repository) CreatePcb(ctx context.Context, pcb *models.PcbMapping) error {
	return r.db.WithContext(ctx).Create(pcb).Error
}

// DeleteAllComponents clears the component table (bulk replace only).
func (r *Repository) DeleteAllComponents(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&models.Component{}).Error
}

// DeleteAllPcbs clears PCB mappings and their rows (bulk replace only).
func (r *Repository) DeleteAllPcbs(ctx context.Context) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("1 = 1").Delete(&models.PcbMappingRow{}).Error; err != nil {
		return err
	}
	return tx.Where("1 = 1").Delete(&models.PcbMapping{}).Error
}
