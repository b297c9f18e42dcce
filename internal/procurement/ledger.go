package procurement

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/invictuslabs/pcbstock-backend/pkg/db/models"
	"github.com/invictuslabs/pcbstock-backend/pkg/enums"
	"github.com/invictuslabs/pcbstock-backend/pkg/metrics"
	"github.com/invictuslabs/pcbstock-backend/pkg/stock"
)

// Ledger reconciles procurement trigger state against stock transitions. It
// always runs inside the caller's transaction so trigger rows commit or roll
// back together with the stock mutation that caused them.
type Ledger struct {
	repo    Repository
	metrics *metrics.MutationMetrics
}

// NewLedger wires a ledger with the provided repository. metrics may be nil.
func NewLedger(repo Repository, m *metrics.MutationMetrics) (*Ledger, error) {
	if repo == nil {
		return nil, fmt.Errorf("procurement repository required")
	}
	return &Ledger{repo: repo, metrics: m}, nil
}

// Reconcile diffs the component's low-stock state before and after a mutation
// and emits trigger lifecycle events:
//
//   - healthy -> low with no pending trigger: create a pending trigger.
//   - low -> healthy with a pending trigger: resolve it.
//   - anything else: no-op. A component that is still low keeps its single
//     pending trigger; duplicates are never created.
//
// previous is nil for newly created components, so a component born below its
// threshold triggers immediately (the create and bulk-import path).
func (l *Ledger) Reconcile(ctx context.Context, tx *gorm.DB, previous, next *models.Component) ([]Event, error) {
	if next == nil {
		return nil, fmt.Errorf("next component required")
	}
	repo := l.repo.WithTx(tx)

	wasLow := false
	if previous != nil {
		wasLow = stock.IsLow(previous.CurrentStockQty, previous.MonthlyRequiredQty)
	}
	isLow := stock.IsLow(next.CurrentStockQty, next.MonthlyRequiredQty)

	existingPending, err := repo.FindPendingByComponent(ctx, next.ID)
	if err != nil {
		return nil, err
	}

	var events []Event

	if !wasLow && isLow && existingPending == nil {
		threshold := stock.LowStockThreshold(next.MonthlyRequiredQty)
		trigger := &models.ProcurementTrigger{
			ID:                 uuid.New(),
			ComponentID:        next.ID,
			ComponentName:      next.Name,
			PartNumber:         next.PartNumber,
			CurrentStockQty:    next.CurrentStockQty,
			MonthlyRequiredQty: next.MonthlyRequiredQty,
			LowStockThreshold:  threshold,
			TriggeredAt:        time.Now().UTC(),
			Status:             enums.TriggerStatusPending,

			SnapshotStock:           next.CurrentStockQty,
			SnapshotMonthlyRequired: next.MonthlyRequiredQty,
			SnapshotThreshold:       threshold,
		}
		if err := repo.Create(ctx, trigger); err != nil {
			return nil, err
		}
		l.metrics.IncTriggerEvent(string(EventTriggered))
		events = append(events, Event{Type: EventTriggered, Trigger: toTriggerDTO(trigger)})
	}

	if wasLow && !isLow && existingPending != nil {
		now := time.Now().UTC()
		existingPending.Status = enums.TriggerStatusResolved
		existingPending.ResolvedAt = &now
		if err := repo.Save(ctx, existingPending); err != nil {
			return nil, err
		}
		l.metrics.IncTriggerEvent(string(EventResolved))
		events = append(events, Event{Type: EventResolved, Trigger: toTriggerDTO(existingPending)})
	}

	return events, nil
}
