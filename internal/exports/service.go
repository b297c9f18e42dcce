package exports

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/invictuslabs/pcbstock-backend/internal/inventory"
	"github.com/invictuslabs/pcbstock-backend/internal/production"
	pkgerrors "github.com/invictuslabs/pcbstock-backend/pkg/errors"
)

// Service streams CSV exports of the inventory and consumption datasets.
type Service interface {
	WriteInventoryCSV(ctx context.Context, w io.Writer) error
	WriteConsumptionCSV(ctx context.Context, w io.Writer) error
}

type service struct {
	inventory  *inventory.Repository
	production *production.Repository
}

// NewService constructs the export service.
func NewService(inventoryRepo *inventory.Repository, productionRepo *production.Repository) (Service, error) {
	if inventoryRepo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if productionRepo == nil {
		return nil, fmt.Errorf("production repository required")
	}
	return &service{inventory: inventoryRepo, production: productionRepo}, nil
}

// WriteInventoryCSV writes all components as CSV, one row per component in
// creation order.
func (s *service) WriteInventoryCSV(ctx context.Context, w io.Writer) error {
	components, err := s.inventory.ListComponents(ctx, "")
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list components")
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Component Name", "Part Number", "Current Stock Quantity", "Monthly Required Quantity"}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write csv header")
	}
	for i := range components {
		c := &components[i]
		row := []string{
			c.Name,
			c.PartNumber,
			formatQty(c.CurrentStockQty),
			formatQty(c.MonthlyRequiredQty),
		}
		if err := cw.Write(row); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write csv row")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "flush csv")
	}
	return nil
}

// WriteConsumptionCSV writes the consumption history as CSV, newest first.
func (s *service) WriteConsumptionCSV(ctx context.Context, w io.Writer) error {
	records, err := s.production.ListConsumption(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list consumption records")
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Date", "PCB", "Component", "Consumed Qty"}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write csv header")
	}
	for i := range records {
		r := &records[i]
		row := []string{
			r.Date.UTC().Format("2006-01-02"),
			r.PcbName,
			r.ComponentName,
			formatQty(r.ConsumedQty),
		}
		if err := cw.Write(row); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write csv row")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "flush csv")
	}
	return nil
}

func formatQty(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
