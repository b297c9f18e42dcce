package dataimport

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/invictuslabs/pcbstock-backend/internal/inventory"
	"github.com/invictuslabs/pcbstock-backend/internal/procurement"
	"github.com/invictuslabs/pcbstock-backend/internal/production"
	"github.com/invictuslabs/pcbstock-backend/pkg/db"
	"github.com/invictuslabs/pcbstock-backend/pkg/db/models"
	"github.com/invictuslabs/pcbstock-backend/pkg/enums"
	pkgerrors "github.com/invictuslabs/pcbstock-backend/pkg/errors"
	"github.com/invictuslabs/pcbstock-backend/pkg/stock"
)

type testTxRunner struct {
	db *gorm.DB
}

func (r *testTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func newFixture(t *testing.T) (*gorm.DB, Service) {
	t.Helper()
	dsn := "file:dataimport_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(
		&models.Component{},
		&models.PcbMapping{},
		&models.PcbMappingRow{},
		&models.ProductionEntry{},
		&models.ProductionDeduction{},
		&models.ConsumptionRecord{},
		&models.ProcurementTrigger{},
		&models.ImportRecord{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	procurementRepo := procurement.NewRepository(conn)
	ledger, err := procurement.NewLedger(procurementRepo, nil)
	if err != nil {
		t.Fatalf("new ledger: %v", err)
	}
	svc, err := NewService(
		&testTxRunner{db: conn},
		&db.Gate{},
		NewRepository(conn),
		inventory.NewRepository(conn),
		production.NewRepository(conn),
		procurementRepo,
		ledger,
		nil,
		nil,
		10,
	)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return conn, svc
}

func TestValidateFileNames(t *testing.T) {
	t.Parallel()

	if err := ValidateFileNames([]string{"inventory.xlsx", "BOM.XLSM"}); err != nil {
		t.Fatalf("expected excel names to pass: %v", err)
	}

	err := ValidateFileNames([]string{"inventory.xlsx", "notes.csv"})
	if err == nil {
		t.Fatal("expected unsupported file type")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnsupportedFile {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := ValidateFileNames(nil); err == nil {
		t.Fatal("expected validation error for empty file list")
	}
}

func TestBulkReplaceRejectsBadFileBeforeMutating(t *testing.T) {
	t.Parallel()

	conn, svc := newFixture(t)
	ctx := context.Background()

	existing := &models.Component{
		ID:                 uuid.New(),
		Name:               "Survivor",
		PartNumber:         "SV-01",
		CurrentStockQty:    5,
		MonthlyRequiredQty: 10,
	}
	if err := conn.Create(existing).Error; err != nil {
		t.Fatalf("seed component: %v", err)
	}

	_, err := svc.BulkReplace(ctx, []string{"good.xlsx", "bad.pdf"})
	if err == nil {
		t.Fatal("expected unsupported file type")
	}

	var count int64
	if err := conn.Model(&models.Component{}).Count(&count).Error; err != nil {
		t.Fatalf("count components: %v", err)
	}
	if count != 1 {
		t.Fatalf("existing data must survive a rejected import, got %d components", count)
	}

	var imports int64
	if err := conn.Model(&models.ImportRecord{}).Count(&imports).Error; err != nil {
		t.Fatalf("count imports: %v", err)
	}
	if imports != 0 {
		t.Fatalf("no import record may be written on rejection, got %d", imports)
	}
}

func TestBulkReplaceInstallsBaselineAndResyncsTriggers(t *testing.T) {
	t.Parallel()

	conn, svc := newFixture(t)
	ctx := context.Background()

	// Pre-existing state that the replace must wipe.
	stale := &models.Component{
		ID:                 uuid.New(),
		Name:               "Stale",
		PartNumber:         "ST-01",
		CurrentStockQty:    1,
		MonthlyRequiredQty: 100,
	}
	if err := conn.Create(stale).Error; err != nil {
		t.Fatalf("seed stale component: %v", err)
	}
	if err := conn.Create(&models.ConsumptionRecord{
		ID:            uuid.New(),
		ComponentID:   stale.ID,
		ComponentName: stale.Name,
		PcbID:         uuid.New(),
		PcbName:       "Old Board",
		ConsumedQty:   3,
	}).Error; err != nil {
		t.Fatalf("seed consumption: %v", err)
	}

	seed, err := LoadSeed()
	if err != nil {
		t.Fatalf("load seed: %v", err)
	}

	result, err := svc.BulkReplace(ctx, []string{"inventory.xlsx"})
	if err != nil {
		t.Fatalf("bulk replace: %v", err)
	}

	if result.RecordsAffected != len(seed.Components)+len(seed.Pcbs) {
		t.Fatalf("unexpected recordsAffected: %d", result.RecordsAffected)
	}

	var componentCount int64
	if err := conn.Model(&models.Component{}).Count(&componentCount).Error; err != nil {
		t.Fatalf("count components: %v", err)
	}
	if componentCount != int64(len(seed.Components)) {
		t.Fatalf("expected %d components, got %d", len(seed.Components), componentCount)
	}

	if err := conn.First(&models.Component{}, "id = ?", stale.ID).Error; err == nil {
		t.Fatal("stale component must be gone")
	}

	var consumptionCount int64
	if err := conn.Model(&models.ConsumptionRecord{}).Count(&consumptionCount).Error; err != nil {
		t.Fatalf("count consumption: %v", err)
	}
	if consumptionCount != 0 {
		t.Fatalf("consumption history must be cleared, got %d rows", consumptionCount)
	}

	// Every seed component already below threshold gets a fresh pending
	// trigger.
	wantLow := 0
	for _, c := range seed.Components {
		if stock.IsLow(c.CurrentStockQty, c.MonthlyRequiredQty) {
			wantLow++
		}
	}
	var pendingCount int64
	if err := conn.Model(&models.ProcurementTrigger{}).
		Where("status = ?", enums.TriggerStatusPending).
		Count(&pendingCount).Error; err != nil {
		t.Fatalf("count triggers: %v", err)
	}
	if pendingCount != int64(wantLow) {
		t.Fatalf("expected %d pending triggers, got %d", wantLow, pendingCount)
	}
	if len(result.ProcurementEvents) != wantLow {
		t.Fatalf("expected %d trigger events, got %d", wantLow, len(result.ProcurementEvents))
	}

	history, err := svc.History(ctx)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 || history[0].Mode != ImportModeSeedReplace {
		t.Fatalf("unexpected history: %+v", history)
	}
	if len(history[0].Files) != 1 || history[0].Files[0] != "inventory.xlsx" {
		t.Fatalf("unexpected files: %+v", history[0].Files)
	}
}

func TestBulkReplaceAppendsToImportHistory(t *testing.T) {
	t.Parallel()

	_, svc := newFixture(t)
	ctx := context.Background()

	if _, err := svc.BulkReplace(ctx, []string{"first.xlsx"}); err != nil {
		t.Fatalf("first replace: %v", err)
	}
	if _, err := svc.BulkReplace(ctx, []string{"second.xlsm"}); err != nil {
		t.Fatalf("second replace: %v", err)
	}

	history, err := svc.History(ctx)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("the audit trail must accumulate, got %d records", len(history))
	}
	if history[0].Files[0] != "second.xlsm" {
		t.Fatalf("expected newest first, got %+v", history[0].Files)
	}
}
