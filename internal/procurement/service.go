package procurement

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/invictuslabs/pcbstock-backend/internal/events"
	"github.com/invictuslabs/pcbstock-backend/pkg/db"
	"github.com/invictuslabs/pcbstock-backend/pkg/enums"
	pkgerrors "github.com/invictuslabs/pcbstock-backend/pkg/errors"
)

// Service exposes the procurement trigger list and fulfillment operations.
type Service interface {
	List(ctx context.Context, statusFilter string) ([]TriggerDTO, error)
	MarkFulfilled(ctx context.Context, triggerID uuid.UUID, notes string) (*TriggerDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	tx   txRunner
	gate *db.Gate
	repo Repository
	bus  *events.Bus
}

// NewService builds the procurement service.
func NewService(tx txRunner, gate *db.Gate, repo Repository, bus *events.Bus) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if gate == nil {
		return nil, fmt.Errorf("mutation gate required")
	}
	if repo == nil {
		return nil, fmt.Errorf("procurement repository required")
	}
	return &service{tx: tx, gate: gate, repo: repo, bus: bus}, nil
}

// List returns triggers sorted by triggeredAt descending, optionally filtered
// by status. An empty filter or "all" returns everything.
func (s *service) List(ctx context.Context, statusFilter string) ([]TriggerDTO, error) {
	normalized := strings.ToLower(strings.TrimSpace(statusFilter))

	var status enums.TriggerStatus
	if normalized != "" && normalized != "all" {
		parsed, err := enums.ParseTriggerStatus(normalized)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
		}
		status = parsed
	}

	triggers, err := s.repo.List(ctx, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list procurement triggers")
	}

	dtos := make([]TriggerDTO, 0, len(triggers))
	for i := range triggers {
		dtos = append(dtos, toTriggerDTO(&triggers[i]))
	}
	return dtos, nil
}

// MarkFulfilled moves a pending trigger to fulfilled, recording the operator's
// notes. Triggers in any other state are rejected.
func (s *service) MarkFulfilled(ctx context.Context, triggerID uuid.UUID, notes string) (*TriggerDTO, error) {
	if triggerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "trigger id required")
	}

	var dto TriggerDTO
	err := s.gate.Do(func() error {
		return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			repo := s.repo.WithTx(tx)

			trigger, err := repo.FindByID(ctx, triggerID)
			if err != nil {
				if db.IsNotFound(err) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "procurement trigger not found")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load procurement trigger")
			}

			if trigger.Status != enums.TriggerStatusPending {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "only pending triggers can be fulfilled").
					WithDetails(map[string]any{"status": trigger.Status})
			}

			now := time.Now().UTC()
			trimmed := strings.TrimSpace(notes)
			trigger.Status = enums.TriggerStatusFulfilled
			trigger.ResolvedAt = &now
			if trimmed != "" {
				trigger.FulfillmentNotes = &trimmed
			}

			if err := repo.Save(ctx, trigger); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save procurement trigger")
			}
			dto = toTriggerDTO(trigger)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	if s.bus != nil {
		s.bus.Publish(enums.ChangeProcurementFulfilled, map[string]any{"triggerId": dto.ID.String()})
	}
	return &dto, nil
}
