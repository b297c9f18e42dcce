package procurement

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/invictuslabs/pcbstock-backend/pkg/db/models"
	"github.com/invictuslabs/pcbstock-backend/pkg/enums"
)

// Repository manages persistence for procurement triggers.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, trigger *models.ProcurementTrigger) error
	Save(ctx context.Context, trigger *models.ProcurementTrigger) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.ProcurementTrigger, error)
	FindPendingByComponent(ctx context.Context, componentID uuid.UUID) (*models.ProcurementTrigger, error)
	List(ctx context.Context, status enums.TriggerStatus) ([]models.ProcurementTrigger, error)
	CountByStatus(ctx context.Context, status enums.TriggerStatus) (int64, error)
	DeleteAll(ctx context.Context) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a trigger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, trigger *models.ProcurementTrigger) error {
	return r.db.WithContext(ctx).Create(trigger).Error
}

func (r *repository) Save(ctx context.Context, trigger *models.ProcurementTrigger) error {
	return r.db.WithContext(ctx).Save(trigger).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ProcurementTrigger, error) {
	var trigger models.ProcurementTrigger
	if err := r.db.WithContext(ctx).First(&trigger, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &trigger, nil
}

// FindPendingByComponent returns the component's pending trigger, or nil when
// none exists.
func (r *repository) FindPendingByComponent(ctx context.Context, componentID uuid.UUID) (*models.ProcurementTrigger, error) {
	var triggers []models.ProcurementTrigger
	err := r.db.WithContext(ctx).
		Where("component_id = ? AND status = ?", componentID, enums.TriggerStatusPending).
		Limit(1).
		Find(&triggers).Error
	if err != nil {
		return nil, err
	}
	if len(triggers) == 0 {
		return nil, nil
	}
	return &triggers[0], nil
}

func (r *repository) List(ctx context.Context, status enums.TriggerStatus) ([]models.ProcurementTrigger, error) {
	query := r.db.WithContext(ctx).Order("triggered_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var triggers []models.ProcurementTrigger
	if err := query.Find(&triggers).Error; err != nil {
		return nil, err
	}
	return triggers, nil
}

func (r *repository) CountByStatus(ctx context.Context, status enums.TriggerStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ProcurementTrigger{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

func (r *repository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Where("1 = 1").
		Delete(&models.ProcurementTrigger{}).Error
}
