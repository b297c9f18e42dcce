package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/invictuslabs/pcbstock-backend/internal/events"
	"github.com/invictuslabs/pcbstock-backend/internal/procurement"
	"github.com/invictuslabs/pcbstock-backend/pkg/db"
	"github.com/invictuslabs/pcbstock-backend/pkg/db/models"
	"github.com/invictuslabs/pcbstock-backend/pkg/enums"
	pkgerrors "github.com/invictuslabs/pcbstock-backend/pkg/errors"
	"github.com/invictuslabs/pcbstock-backend/pkg/metrics"
	"github.com/invictuslabs/pcbstock-backend/pkg/stock"
)

// Service exposes component and PCB mapping operations.
type Service interface {
	ListComponents(ctx context.Context, search string) ([]ComponentDTO, error)
	GetComponent(ctx context.Context, id uuid.UUID) (*ComponentDTO, error)
	CreateComponent(ctx context.Context, input CreateComponentInput) (*ComponentWriteResult, error)
	UpdateComponent(ctx context.Context, id uuid.UUID, input UpdateComponentInput) (*ComponentWriteResult, error)
	LowStockComponents(ctx context.Context) ([]ComponentDTO, error)

	ListPcbs(ctx context.Context) ([]PcbDTO, error)
	GetPcb(ctx context.Context, id uuid.UUID) (*PcbDTO, error)
	CreatePcb(ctx context.Context, input CreatePcbInput) (*PcbDTO, error)
}

// ComponentWriteResult pairs the written component with any procurement
// events the mutation caused.
type ComponentWriteResult struct {
	Component         ComponentDTO        `json:"component"`
	ProcurementEvents []procurement.Event `json:"procurementEvents"`
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	tx      txRunner
	gate    *db.Gate
	repo    *Repository
	ledger  *procurement.Ledger
	bus     *events.Bus
	metrics *metrics.MutationMetrics
}

// NewService constructs the inventory service.
func NewService(tx txRunner, gate *db.Gate, repo *Repository, ledger *procurement.Ledger, bus *events.Bus, m *metrics.MutationMetrics) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if gate == nil {
		return nil, fmt.Errorf("mutation gate required")
	}
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("procurement ledger required")
	}
	return &service{
		tx:      tx,
		gate:    gate,
		repo:    repo,
		ledger:  ledger,
		bus:     bus,
		metrics: m,
	}, nil
}

func (s *service) ListComponents(ctx context.Context, search string) ([]ComponentDTO, error) {
	rows, err := s.repo.ListComponents(ctx, search)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list components")
	}
	dtos := make([]ComponentDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, ToComponentDTO(&rows[i]))
	}
	return dtos, nil
}

func (s *service) GetComponent(ctx context.Context, id uuid.UUID) (*ComponentDTO, error) {
	component, err := s.repo.FindComponentByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "component not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load component")
	}
	dto := ToComponentDTO(component)
	return &dto, nil
}

// CreateComponent normalizes quantities, persists the component, and runs the
// procurement ledger with no previous state so a component born low triggers
// immediately.
func (s *service) CreateComponent(ctx context.Context, input CreateComponentInput) (*ComponentWriteResult, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "component name required")
	}
	partNumber := strings.TrimSpace(input.PartNumber)
	if partNumber == "" {
		partNumber = name
	}

	component := &models.Component{
		ID:                 uuid.New(),
		Name:               name,
		PartNumber:         partNumber,
		CurrentStockQty:    stock.PositiveOrZero(input.CurrentStockQty),
		MonthlyRequiredQty: stock.PositiveOrZero(input.MonthlyRequiredQty),
	}

	var result ComponentWriteResult
	err := s.gate.Do(func() error {
		return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			txRepo := s.repo.WithTx(tx)

			if err := txRepo.CreateComponent(ctx, component); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert component")
			}

			procEvents, err := s.ledger.Reconcile(ctx, tx, nil, component)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reconcile procurement state")
			}

			result = ComponentWriteResult{
				Component:         ToComponentDTO(component),
				ProcurementEvents: procEvents,
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncComponentWrite("create")
	if s.bus != nil {
		s.bus.Publish(enums.ChangeComponentCreated, map[string]any{"componentId": component.ID.String()})
	}
	return &result, nil
}

// UpdateComponent merges the patch over the stored component, re-derives its
// status, and reconciles the procurement ledger against the before/after pair.
func (s *service) UpdateComponent(ctx context.Context, id uuid.UUID, input UpdateComponentInput) (*ComponentWriteResult, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "component id required")
	}

	var result ComponentWriteResult
	err := s.gate.Do(func() error {
		return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			txRepo := s.repo.WithTx(tx)

			current, err := txRepo.FindComponentByID(ctx, id)
			if err != nil {
				if db.IsNotFound(err) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "component not found")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load component")
			}

			previous := *current
			applyComponentPatch(current, input)

			if strings.TrimSpace(current.Name) == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, "component name required")
			}

			if err := txRepo.SaveComponent(ctx, current); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save component")
			}

			procEvents, err := s.ledger.Reconcile(ctx, tx, &previous, current)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reconcile procurement state")
			}

			result = ComponentWriteResult{
				Component:         ToComponentDTO(current),
				ProcurementEvents: procEvents,
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncComponentWrite("update")
	if s.bus != nil {
		s.bus.Publish(enums.ChangeComponentUpdated, map[string]any{"componentId": id.String()})
	}
	return &result, nil
}

func (s *service) LowStockComponents(ctx context.Context) ([]ComponentDTO, error) {
	rows, err := s.repo.ListComponents(ctx, "")
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list components")
	}
	low := make([]ComponentDTO, 0)
	for i := range rows {
		dto := ToComponentDTO(&rows[i])
		if dto.IsLowStock {
			low = append(low, dto)
		}
	}
	return low, nil
}

func (s *service) ListPcbs(ctx context.Context) ([]PcbDTO, error) {
	rows, err := s.repo.ListPcbs(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pcbs")
	}
	dtos := make([]PcbDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, ToPcbDTO(&rows[i]))
	}
	return dtos, nil
}

func (s *service) GetPcb(ctx context.Context, id uuid.UUID) (*PcbDTO, error) {
	pcb, err := s.repo.FindPcbByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "pcb not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pcb")
	}
	dto := ToPcbDTO(pcb)
	return &dto, nil
}

// CreatePcb validates the bill of materials and persists the mapping. Every
// referenced component must exist; the mapping is immutable afterwards.
func (s *service) CreatePcb(ctx context.Context, input CreatePcbInput) (*PcbDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pcb name required")
	}
	if len(input.Components) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pcb requires at least one component row")
	}

	ids := make([]uuid.UUID, 0, len(input.Components))
	for i, row := range input.Components {
		if row.ComponentID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "component id required").
				WithDetails(map[string]any{"row": i})
		}
		if stock.ToNumber(row.QuantityPerComponent) <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity per component must be greater than zero").
				WithDetails(map[string]any{"row": i})
		}
		ids = append(ids, row.ComponentID)
	}

	pcb := &models.PcbMapping{
		ID:   uuid.New(),
		Name: name,
	}
	for i, row := range input.Components {
		pcb.Components = append(pcb.Components, models.PcbMappingRow{
			ID:                   uuid.New(),
			PcbID:                pcb.ID,
			ComponentID:          row.ComponentID,
			QuantityPerComponent: stock.PositiveOrZero(row.QuantityPerComponent),
			Position:             i,
		})
	}

	var dto PcbDTO
	err := s.gate.Do(func() error {
		return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			txRepo := s.repo.WithTx(tx)

			known, err := txRepo.FindComponentsByIDs(ctx, ids)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve component rows")
			}
			for _, id := range ids {
				if _, ok := known[id]; !ok {
					return pkgerrors.New(pkgerrors.CodeValidation, "pcb references unknown component").
						WithDetails(map[string]any{"componentId": id.String()})
				}
			}

			if err := txRepo.CreatePcb(ctx, pcb); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert pcb")
			}
			dto = ToPcbDTO(pcb)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	if s.bus != nil {
		s.bus.Publish(enums.ChangePcbCreated, map[string]any{"pcbId": pcb.ID.String()})
	}
	return &dto, nil
}

func applyComponentPatch(component *models.Component, input UpdateComponentInput) {
	if input.Name != nil {
		component.Name = strings.TrimSpace(*input.Name)
	}
	if input.PartNumber != nil {
		component.PartNumber = strings.TrimSpace(*input.PartNumber)
	}
	if input.CurrentStockQty != nil {
		component.CurrentStockQty = stock.PositiveOrZero(*input.CurrentStockQty)
	}
	if input.MonthlyRequiredQty != nil {
		component.MonthlyRequiredQty = stock.PositiveOrZero(*input.MonthlyRequiredQty)
	}
}
