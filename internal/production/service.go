package production

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/invictuslabs/pcbstock-backend/internal/events"
	"github.com/invictuslabs/pcbstock-backend/internal/inventory"
	"github.com/invictuslabs/pcbstock-backend/internal/procurement"
	"github.com/invictuslabs/pcbstock-backend/pkg/db"
	"github.com/invictuslabs/pcbstock-backend/pkg/db/models"
	"github.com/invictuslabs/pcbstock-backend/pkg/enums"
	pkgerrors "github.com/invictuslabs/pcbstock-backend/pkg/errors"
	"github.com/invictuslabs/pcbstock-backend/pkg/metrics"
	"github.com/invictuslabs/pcbstock-backend/pkg/stock"
)

// Service runs production and exposes the production and consumption history.
type Service interface {
	Produce(ctx context.Context, input ProduceInput) (*ProduceResult, error)
	ListEntries(ctx context.Context) ([]EntryDTO, error)
	ListConsumption(ctx context.Context) ([]ConsumptionDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	tx        txRunner
	gate      *db.Gate
	repo      *Repository
	inventory *inventory.Repository
	ledger    *procurement.Ledger
	bus       *events.Bus
	metrics   *metrics.MutationMetrics
}

// NewService constructs the production service.
func NewService(tx txRunner, gate *db.Gate, repo *Repository, inventoryRepo *inventory.Repository, ledger *procurement.Ledger, bus *events.Bus, m *metrics.MutationMetrics) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if gate == nil {
		return nil, fmt.Errorf("mutation gate required")
	}
	if repo == nil {
		return nil, fmt.Errorf("production repository required")
	}
	if inventoryRepo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("procurement ledger required")
	}
	return &service{
		tx:        tx,
		gate:      gate,
		repo:      repo,
		inventory: inventoryRepo,
		ledger:    ledger,
		bus:       bus,
		metrics:   m,
	}, nil
}

// Produce deducts the bill of materials for quantity boards from stock,
// all-or-nothing. Feasibility is checked against a snapshot of every involved
// component before anything is written; a single shortfall rejects the whole
// run and leaves stock untouched.
func (s *service) Produce(ctx context.Context, input ProduceInput) (*ProduceResult, error) {
	if input.PcbID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pcb id required")
	}
	qty := input.QuantityToProduce
	if math.IsNaN(qty) || math.IsInf(qty, 0) || qty <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity to produce must be a positive number")
	}

	var result ProduceResult
	err := s.gate.Do(func() error {
		return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			invRepo := s.inventory.WithTx(tx)
			prodRepo := s.repo.WithTx(tx)

			pcb, err := invRepo.FindPcbByID(ctx, input.PcbID)
			if err != nil {
				if db.IsNotFound(err) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "pcb not found")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pcb")
			}
			if len(pcb.Components) == 0 {
				return pkgerrors.New(pkgerrors.CodeValidation, "pcb has no component rows")
			}

			ids := make([]uuid.UUID, 0, len(pcb.Components))
			for _, row := range pcb.Components {
				ids = append(ids, row.ComponentID)
			}
			snapshot, err := invRepo.FindComponentsByIDs(ctx, ids)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load component snapshot")
			}

			// Feasibility pass over the snapshot. Nothing is mutated yet.
			var shortfalls []map[string]any
			for _, row := range pcb.Components {
				required := stock.RequiredQty(row.QuantityPerComponent, qty)
				component, ok := snapshot[row.ComponentID]
				if !ok {
					shortfalls = append(shortfalls, map[string]any{
						"componentId":  row.ComponentID.String(),
						"requiredQty":  required,
						"availableQty": 0.0,
					})
					continue
				}
				if stock.ToNumber(component.CurrentStockQty) < required {
					shortfalls = append(shortfalls, map[string]any{
						"componentName": component.Name,
						"requiredQty":   required,
						"availableQty":  stock.ToNumber(component.CurrentStockQty),
					})
				}
			}
			if len(shortfalls) > 0 {
				return pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock for production run").
					WithDetails(map[string]any{"shortfalls": shortfalls})
			}

			now := time.Now().UTC()
			entry := &models.ProductionEntry{
				ID:                uuid.New(),
				PcbID:             pcb.ID,
				PcbName:           pcb.Name,
				QuantityToProduce: qty,
			}

			var (
				consumption []models.ConsumptionRecord
				updated     []inventory.ComponentDTO
				procEvents  []procurement.Event
			)
			for i, row := range pcb.Components {
				component := snapshot[row.ComponentID]
				previous := *component
				required := stock.RequiredQty(row.QuantityPerComponent, qty)

				component.CurrentStockQty = stock.Deduct(component.CurrentStockQty, required)
				if component.CurrentStockQty < 0 {
					return pkgerrors.New(pkgerrors.CodeInvariant, "stock deduction produced a negative balance").
						WithDetails(map[string]any{
							"componentId": component.ID.String(),
							"balance":     component.CurrentStockQty,
						})
				}
				if err := invRepo.SaveComponent(ctx, component); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save component stock")
				}

				entry.Deductions = append(entry.Deductions, models.ProductionDeduction{
					ID:               uuid.New(),
					EntryID:          entry.ID,
					ComponentID:      component.ID,
					ComponentName:    component.Name,
					QuantityDeducted: required,
					Position:         i,
				})
				consumption = append(consumption, models.ConsumptionRecord{
					ID:            uuid.New(),
					Date:          now,
					ComponentID:   component.ID,
					ComponentName: component.Name,
					PcbID:         pcb.ID,
					PcbName:       pcb.Name,
					ConsumedQty:   required,
				})

				rowEvents, err := s.ledger.Reconcile(ctx, tx, &previous, component)
				if err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reconcile procurement state")
				}
				procEvents = append(procEvents, rowEvents...)
				updated = append(updated, inventory.ToComponentDTO(component))
			}

			if err := prodRepo.CreateEntry(ctx, entry); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert production entry")
			}
			if err := prodRepo.CreateConsumption(ctx, consumption); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert consumption records")
			}

			result = ProduceResult{
				Entry:             toEntryDTO(entry),
				UpdatedComponents: updated,
				ProcurementEvents: procEvents,
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncProduction()
	if s.bus != nil {
		s.bus.Publish(enums.ChangeProductionCreated, map[string]any{
			"entryId": result.Entry.ID.String(),
			"pcbId":   result.Entry.PcbID.String(),
		})
	}
	return &result, nil
}

func (s *service) ListEntries(ctx context.Context) ([]EntryDTO, error) {
	entries, err := s.repo.ListEntries(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list production entries")
	}
	dtos := make([]EntryDTO, 0, len(entries))
	for i := range entries {
		dtos = append(dtos, toEntryDTO(&entries[i]))
	}
	return dtos, nil
}

func (s *service) ListConsumption(ctx context.Context) ([]ConsumptionDTO, error) {
	records, err := s.repo.ListConsumption(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list consumption records")
	}
	dtos := make([]ConsumptionDTO, 0, len(records))
	for i := range records {
		dtos = append(dtos, ToConsumptionDTO(&records[i]))
	}
	return dtos, nil
}
