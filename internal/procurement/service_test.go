package procurement

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/invictuslabs/pcbstock-backend/pkg/db"
	"github.com/invictuslabs/pcbstock-backend/pkg/db/models"
	"github.com/invictuslabs/pcbstock-backend/pkg/enums"
	pkgerrors "github.com/invictuslabs/pcbstock-backend/pkg/errors"
)

type testTxRunner struct {
	db *gorm.DB
}

func (r *testTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func newTestService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(&testTxRunner{db: conn}, &db.Gate{}, NewRepository(conn), nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func seedTrigger(t *testing.T, conn *gorm.DB, status enums.TriggerStatus, triggeredAt time.Time) *models.ProcurementTrigger {
	t.Helper()
	trigger := &models.ProcurementTrigger{
		ID:                 uuid.New(),
		ComponentID:        uuid.New(),
		ComponentName:      "MCU",
		PartNumber:         "MCU-01",
		CurrentStockQty:    2,
		MonthlyRequiredQty: 30,
		LowStockThreshold:  6,
		TriggeredAt:        triggeredAt,
		Status:             status,

		SnapshotStock:           2,
		SnapshotMonthlyRequired: 30,
		SnapshotThreshold:       6,
	}
	if err := conn.Create(trigger).Error; err != nil {
		t.Fatalf("seed trigger: %v", err)
	}
	return trigger
}

func TestListSortsByTriggeredAtDescAndFilters(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()

	now := time.Now().UTC()
	older := seedTrigger(t, conn, enums.TriggerStatusPending, now.Add(-2*time.Hour))
	newer := seedTrigger(t, conn, enums.TriggerStatusResolved, now.Add(-1*time.Hour))

	all, err := svc.List(ctx, "")
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 triggers, got %d", len(all))
	}
	if all[0].ID != newer.ID || all[1].ID != older.ID {
		t.Fatalf("expected newest first, got %v then %v", all[0].ID, all[1].ID)
	}

	pending, err := svc.List(ctx, "pending")
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != older.ID {
		t.Fatalf("unexpected pending filter result: %+v", pending)
	}

	if _, err := svc.List(ctx, "bogus"); err == nil {
		t.Fatal("expected validation error for unknown status")
	}
}

func TestMarkFulfilledMovesPendingToFulfilled(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()

	trigger := seedTrigger(t, conn, enums.TriggerStatusPending, time.Now().UTC())

	dto, err := svc.MarkFulfilled(ctx, trigger.ID, "  PO-1234 raised  ")
	if err != nil {
		t.Fatalf("mark fulfilled: %v", err)
	}
	if dto.Status != enums.TriggerStatusFulfilled {
		t.Fatalf("expected fulfilled, got %s", dto.Status)
	}
	if dto.ResolvedAt == nil {
		t.Fatal("expected resolvedAt to be set")
	}
	if dto.FulfillmentNotes == nil || *dto.FulfillmentNotes != "PO-1234 raised" {
		t.Fatalf("unexpected notes: %v", dto.FulfillmentNotes)
	}
}

func TestMarkFulfilledRejectsNonPendingTrigger(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()

	trigger := seedTrigger(t, conn, enums.TriggerStatusResolved, time.Now().UTC())

	_, err := svc.MarkFulfilled(ctx, trigger.ID, "")
	if err == nil {
		t.Fatal("expected state conflict")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMarkFulfilledUnknownTrigger(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn)

	_, err := svc.MarkFulfilled(context.Background(), uuid.New(), "")
	if err == nil {
		t.Fatal("expected not found")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("unexpected error: %v", err)
	}
}
