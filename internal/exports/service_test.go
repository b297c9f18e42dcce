package exports

import (
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/invictuslabs/pcbstock-backend/internal/inventory"
	"github.com/invictuslabs/pcbstock-backend/internal/production"
	"github.com/invictuslabs/pcbstock-backend/pkg/db/models"
)

func newFixture(t *testing.T) (*gorm.DB, Service) {
	t.Helper()
	dsn := "file:exports_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Component{}, &models.ConsumptionRecord{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	svc, err := NewService(inventory.NewRepository(conn), production.NewRepository(conn))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return conn, svc
}

func TestWriteInventoryCSV(t *testing.T) {
	t.Parallel()

	conn, svc := newFixture(t)
	ctx := context.Background()

	if err := conn.Create(&models.Component{
		ID:                 uuid.New(),
		Name:               "Resistor, 10k",
		PartNumber:         "RES-10K",
		CurrentStockQty:    12.5,
		MonthlyRequiredQty: 30,
	}).Error; err != nil {
		t.Fatalf("seed component: %v", err)
	}

	var buf strings.Builder
	if err := svc.WriteInventoryCSV(ctx, &buf); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header plus 1 row, got %d", len(rows))
	}
	wantHeader := []string{"Component Name", "Part Number", "Current Stock Quantity", "Monthly Required Quantity"}
	for i, col := range wantHeader {
		if rows[0][i] != col {
			t.Fatalf("header column %d: got %q want %q", i, rows[0][i], col)
		}
	}
	if rows[1][0] != "Resistor, 10k" || rows[1][2] != "12.5" || rows[1][3] != "30" {
		t.Fatalf("unexpected data row: %v", rows[1])
	}
}

func TestWriteConsumptionCSV(t *testing.T) {
	t.Parallel()

	conn, svc := newFixture(t)
	ctx := context.Background()

	date := time.Date(2025, 8, 14, 9, 30, 0, 0, time.UTC)
	if err := conn.Create(&models.ConsumptionRecord{
		ID:            uuid.New(),
		Date:          date,
		ComponentID:   uuid.New(),
		ComponentName: "MCU",
		PcbID:         uuid.New(),
		PcbName:       "Controller Board",
		ConsumedQty:   8,
	}).Error; err != nil {
		t.Fatalf("seed consumption: %v", err)
	}

	var buf strings.Builder
	if err := svc.WriteConsumptionCSV(ctx, &buf); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header plus 1 row, got %d", len(rows))
	}
	wantHeader := []string{"Date", "PCB", "Component", "Consumed Qty"}
	for i, col := range wantHeader {
		if rows[0][i] != col {
			t.Fatalf("header column %d: got %q want %q", i, rows[0][i], col)
		}
	}
	want := []string{"2025-08-14", "Controller Board", "MCU", "8"}
	for i, col := range want {
		if rows[1][i] != col {
			t.Fatalf("data column %d: got %q want %q", i, rows[1][i], col)
		}
	}
}
