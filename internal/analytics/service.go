package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/invictuslabs/pcbstock-backend/internal/inventory"
	"github.com/invictuslabs/pcbstock-backend/internal/procurement"
	"github.com/invictuslabs/pcbstock-backend/internal/production"
	"github.com/invictuslabs/pcbstock-backend/pkg/enums"
	pkgerrors "github.com/invictuslabs/pcbstock-backend/pkg/errors"
	"github.com/invictuslabs/pcbstock-backend/pkg/stock"
)

const (
	topConsumedLimit  = 10
	defaultDayBuckets = 30
	maxDayBuckets     = 365
)

// Summary is the dashboard headline view.
type Summary struct {
	TotalComponents        int64 `json:"totalComponents"`
	LowStockCount          int   `json:"lowStockCount"`
	TotalProductionEntries int64 `json:"totalProductionEntries"`
	PendingProcurement     int64 `json:"pendingProcurementCount"`
}

// ConsumedTotal is one row of the top-consumed ranking.
type ConsumedTotal struct {
	ComponentName string  `json:"componentName"`
	TotalConsumed float64 `json:"totalConsumed"`
}

// DayBucket aggregates one UTC day of activity.
type DayBucket struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// Service computes read-only aggregates over the inventory datasets. All
// low-stock figures are re-derived from stored quantities at query time.
type Service interface {
	Summary(ctx context.Context) (*Summary, error)
	TopConsumed(ctx context.Context) ([]ConsumedTotal, error)
	ConsumptionHistory(ctx context.Context) ([]production.ConsumptionDTO, error)
	LowStockList(ctx context.Context) ([]inventory.ComponentDTO, error)
	ConsumptionTrends(ctx context.Context, limit int) ([]DayBucket, error)
	LowStockTimeline(ctx context.Context, limit int) ([]DayBucket, error)
}

type service struct {
	inventory   *inventory.Repository
	production  *production.Repository
	procurement procurement.Repository
}

// NewService constructs the analytics service.
func NewService(inventoryRepo *inventory.Repository, productionRepo *production.Repository, procurementRepo procurement.Repository) (Service, error) {
	if inventoryRepo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if productionRepo == nil {
		return nil, fmt.Errorf("production repository required")
	}
	if procurementRepo == nil {
		return nil, fmt.Errorf("procurement repository required")
	}
	return &service{
		inventory:   inventoryRepo,
		production:  productionRepo,
		procurement: procurementRepo,
	}, nil
}

func (s *service) Summary(ctx context.Context) (*Summary, error) {
	components, err := s.inventory.ListComponents(ctx, "")
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list components")
	}
	lowCount := 0
	for i := range components {
		if stock.IsLow(components[i].CurrentStockQty, components[i].MonthlyRequiredQty) {
			lowCount++
		}
	}

	entryCount, err := s.production.CountEntries(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count production entries")
	}
	pendingCount, err := s.procurement.CountByStatus(ctx, enums.TriggerStatusPending)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count pending triggers")
	}

	return &Summary{
		TotalComponents:        int64(len(components)),
		LowStockCount:          lowCount,
		TotalProductionEntries: entryCount,
		PendingProcurement:     pendingCount,
	}, nil
}

// TopConsumed ranks components by total consumed quantity, highest first,
// capped at ten rows. Grouping is by component name so renamed components
// aggregate under the name recorded at consumption time.
func (s *service) TopConsumed(ctx context.Context) ([]ConsumedTotal, error) {
	records, err := s.production.ListConsumption(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list consumption records")
	}

	totals := make(map[string]float64)
	for i := range records {
		totals[records[i].ComponentName] += records[i].ConsumedQty
	}

	ranking := make([]ConsumedTotal, 0, len(totals))
	for name, total := range totals {
		ranking = append(ranking, ConsumedTotal{ComponentName: name, TotalConsumed: total})
	}
	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].TotalConsumed != ranking[j].TotalConsumed {
			return ranking[i].TotalConsumed > ranking[j].TotalConsumed
		}
		return ranking[i].ComponentName < ranking[j].ComponentName
	})
	if len(ranking) > topConsumedLimit {
		ranking = ranking[:topConsumedLimit]
	}
	return ranking, nil
}

func (s *service) ConsumptionHistory(ctx context.Context) ([]production.ConsumptionDTO, error) {
	records, err := s.production.ListConsumption(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list consumption records")
	}
	dtos := make([]production.ConsumptionDTO, 0, len(records))
	for i := range records {
		dtos = append(dtos, production.ToConsumptionDTO(&records[i]))
	}
	return dtos, nil
}

func (s *service) LowStockList(ctx context.Context) ([]inventory.ComponentDTO, error) {
	components, err := s.inventory.ListComponents(ctx, "")
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list components")
	}
	low := make([]inventory.ComponentDTO, 0)
	for i := range components {
		dto := inventory.ToComponentDTO(&components[i])
		if dto.IsLowStock {
			low = append(low, dto)
		}
	}
	return low, nil
}

// ConsumptionTrends sums consumed quantity per UTC day over the trailing
// limit days, oldest first. Days with no consumption appear with value zero.
func (s *service) ConsumptionTrends(ctx context.Context, limit int) ([]DayBucket, error) {
	limit = clampBuckets(limit)
	records, err := s.production.ListConsumption(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list consumption records")
	}

	totals := make(map[string]float64)
	for i := range records {
		totals[dayKey(records[i].Date)] += records[i].ConsumedQty
	}
	return trailingBuckets(totals, limit), nil
}

// LowStockTimeline counts procurement triggers fired per UTC day over the
// trailing limit days, oldest first.
func (s *service) LowStockTimeline(ctx context.Context, limit int) ([]DayBucket, error) {
	limit = clampBuckets(limit)
	triggers, err := s.procurement.List(ctx, "")
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list procurement triggers")
	}

	counts := make(map[string]float64)
	for i := range triggers {
		counts[dayKey(triggers[i].TriggeredAt)]++
	}
	return trailingBuckets(counts, limit), nil
}

func clampBuckets(limit int) int {
	if limit <= 0 {
		return defaultDayBuckets
	}
	if limit > maxDayBuckets {
		return maxDayBuckets
	}
	return limit
}

func dayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

func trailingBuckets(values map[string]float64, days int) []DayBucket {
	buckets := make([]DayBucket, 0, days)
	today := time.Now().UTC().Truncate(24 * time.Hour)
	for i := days - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		key := day.Format("2006-01-02")
		buckets = append(buckets, DayBucket{Date: key, Value: values[key]})
	}
	return buckets
}
