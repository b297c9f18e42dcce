package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/invictuslabs/pcbstock-backend/pkg/db"
	"github.com/invictuslabs/pcbstock-backend/pkg/db/models"
	"github.com/invictuslabs/pcbstock-backend/pkg/enums"
	pkgerrors "github.com/invictuslabs/pcbstock-backend/pkg/errors"

	"github.com/invictuslabs/pcbstock-backend/internal/procurement"
)

type testTxRunner struct {
	db *gorm.DB
}

func (r *testTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:inventory_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(
		&models.Component{},
		&models.PcbMapping{},
		&models.PcbMappingRow{},
		&models.ProcurementTrigger{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func newTestService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()
	ledger, err := procurement.NewLedger(procurement.NewRepository(conn), nil)
	if err != nil {
		t.Fatalf("new ledger: %v", err)
	}
	svc, err := NewService(&testTxRunner{db: conn}, &db.Gate{}, NewRepository(conn), ledger, nil, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestCreateComponentBornLowTriggersProcurement(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()

	result, err := svc.CreateComponent(ctx, CreateComponentInput{
		Name:               "Voltage Regulator",
		CurrentStockQty:    4,
		MonthlyRequiredQty: 30,
	})
	if err != nil {
		t.Fatalf("create component: %v", err)
	}

	c := result.Component
	if c.PartNumber != "Voltage Regulator" {
		t.Fatalf("expected part number to default to name, got %q", c.PartNumber)
	}
	if c.LowStockThreshold != 6 {
		t.Fatalf("expected threshold 6, got %v", c.LowStockThreshold)
	}
	if !c.IsLowStock {
		t.Fatal("expected component to be low on stock")
	}

	if len(result.ProcurementEvents) != 1 || result.ProcurementEvents[0].Type != procurement.EventTriggered {
		t.Fatalf("expected a triggered event, got %+v", result.ProcurementEvents)
	}

	var count int64
	if err := conn.Model(&models.ProcurementTrigger{}).
		Where("component_id = ? AND status = ?", c.ID, enums.TriggerStatusPending).
		Count(&count).Error; err != nil {
		t.Fatalf("count triggers: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 pending trigger, got %d", count)
	}
}

func TestCreateComponentClampsNegativeQuantities(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn)

	result, err := svc.CreateComponent(context.Background(), CreateComponentInput{
		Name:               "Resistor",
		PartNumber:         "R-01",
		CurrentStockQty:    -10,
		MonthlyRequiredQty: -5,
	})
	if err != nil {
		t.Fatalf("create component: %v", err)
	}
	if result.Component.CurrentStockQty != 0 || result.Component.MonthlyRequiredQty != 0 {
		t.Fatalf("expected clamped quantities, got %+v", result.Component)
	}
	if result.Component.IsLowStock {
		t.Fatal("zero monthly requirement must not count as low")
	}
}

func TestUpdateComponentRestockResolvesTrigger(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()

	created, err := svc.CreateComponent(ctx, CreateComponentInput{
		Name:               "MCU",
		PartNumber:         "MCU-01",
		CurrentStockQty:    2,
		MonthlyRequiredQty: 30,
	})
	if err != nil {
		t.Fatalf("create component: %v", err)
	}

	restock := 50.0
	updated, err := svc.UpdateComponent(ctx, created.Component.ID, UpdateComponentInput{
		CurrentStockQty: &restock,
	})
	if err != nil {
		t.Fatalf("update component: %v", err)
	}

	if updated.Component.IsLowStock {
		t.Fatal("expected component to be healthy after restock")
	}
	if updated.Component.Name != "MCU" {
		t.Fatalf("patch must not change unset fields, got name %q", updated.Component.Name)
	}
	if len(updated.ProcurementEvents) != 1 || updated.ProcurementEvents[0].Type != procurement.EventResolved {
		t.Fatalf("expected a resolved event, got %+v", updated.ProcurementEvents)
	}
}

func TestUpdateComponentUnknownID(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn)

	name := "Renamed"
	_, err := svc.UpdateComponent(context.Background(), uuid.New(), UpdateComponentInput{Name: &name})
	if err == nil {
		t.Fatal("expected not found")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestListComponentsSearchMatchesNameAndPartNumber(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()

	for _, input := range []CreateComponentInput{
		{Name: "Ceramic Capacitor", PartNumber: "CAP-100", CurrentStockQty: 10, MonthlyRequiredQty: 10},
		{Name: "Tantalum Capacitor", PartNumber: "TCAP-22", CurrentStockQty: 10, MonthlyRequiredQty: 10},
		{Name: "Inductor", PartNumber: "IND-47", CurrentStockQty: 10, MonthlyRequiredQty: 10},
	} {
		if _, err := svc.CreateComponent(ctx, input); err != nil {
			t.Fatalf("seed component: %v", err)
		}
	}

	byName, err := svc.ListComponents(ctx, "capacitor")
	if err != nil {
		t.Fatalf("search by name: %v", err)
	}
	if len(byName) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(byName))
	}

	byPart, err := svc.ListComponents(ctx, "ind-47")
	if err != nil {
		t.Fatalf("search by part number: %v", err)
	}
	if len(byPart) != 1 || byPart[0].Name != "Inductor" {
		t.Fatalf("unexpected part number match: %+v", byPart)
	}
}

func TestLowStockComponents(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()

	if _, err := svc.CreateComponent(ctx, CreateComponentInput{Name: "Healthy", CurrentStockQty: 100, MonthlyRequiredQty: 30}); err != nil {
		t.Fatalf("seed healthy: %v", err)
	}
	if _, err := svc.CreateComponent(ctx, CreateComponentInput{Name: "Starving", CurrentStockQty: 1, MonthlyRequiredQty: 30}); err != nil {
		t.Fatalf("seed starving: %v", err)
	}

	low, err := svc.LowStockComponents(ctx)
	if err != nil {
		t.Fatalf("low stock: %v", err)
	}
	if len(low) != 1 || low[0].Name != "Starving" {
		t.Fatalf("unexpected low stock list: %+v", low)
	}
}

func TestCreatePcbValidatesRows(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()

	created, err := svc.CreateComponent(ctx, CreateComponentInput{Name: "LED", CurrentStockQty: 100, MonthlyRequiredQty: 10})
	if err != nil {
		t.Fatalf("seed component: %v", err)
	}

	if _, err := svc.CreatePcb(ctx, CreatePcbInput{Name: "Empty Board"}); err == nil {
		t.Fatal("expected validation error for empty rows")
	}

	_, err = svc.CreatePcb(ctx, CreatePcbInput{
		Name:       "Zero Qty Board",
		Components: []PcbRowInput{{ComponentID: created.Component.ID, QuantityPerComponent: 0}},
	})
	if err == nil {
		t.Fatal("expected validation error for zero quantity")
	}

	_, err = svc.CreatePcb(ctx, CreatePcbInput{
		Name:       "Dangling Board",
		Components: []PcbRowInput{{ComponentID: uuid.New(), QuantityPerComponent: 1}},
	})
	if err == nil {
		t.Fatal("expected validation error for unknown component")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreatePcbPreservesRowOrder(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()

	var ids []uuid.UUID
	for _, name := range []string{"First", "Second", "Third"} {
		created, err := svc.CreateComponent(ctx, CreateComponentInput{Name: name, CurrentStockQty: 100, MonthlyRequiredQty: 10})
		if err != nil {
			t.Fatalf("seed component: %v", err)
		}
		ids = append(ids, created.Component.ID)
	}

	pcb, err := svc.CreatePcb(ctx, CreatePcbInput{
		Name: "Ordered Board",
		Components: []PcbRowInput{
			{ComponentID: ids[2], QuantityPerComponent: 3},
			{ComponentID: ids[0], QuantityPerComponent: 1},
			{ComponentID: ids[1], QuantityPerComponent: 2},
		},
	})
	if err != nil {
		t.Fatalf("create pcb: %v", err)
	}

	loaded, err := svc.GetPcb(ctx, pcb.ID)
	if err != nil {
		t.Fatalf("get pcb: %v", err)
	}
	want := []uuid.UUID{ids[2], ids[0], ids[1]}
	for i, row := range loaded.Components {
		if row.ComponentID != want[i] {
			t.Fatalf("row %d out of order: got %v want %v", i, row.ComponentID, want[i])
		}
	}
}
