package dataimport

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/invictuslabs/pcbstock-backend/internal/events"
	"github.com/invictuslabs/pcbstock-backend/internal/inventory"
	"github.com/invictuslabs/pcbstock-backend/internal/procurement"
	"github.com/invictuslabs/pcbstock-backend/internal/production"
	"github.com/invictuslabs/pcbstock-backend/pkg/db"
	"github.com/invictuslabs/pcbstock-backend/pkg/db/models"
	"github.com/invictuslabs/pcbstock-backend/pkg/enums"
	pkgerrors "github.com/invictuslabs/pcbstock-backend/pkg/errors"
	"github.com/invictuslabs/pcbstock-backend/pkg/metrics"
	"github.com/invictuslabs/pcbstock-backend/pkg/stock"
)

// ImportMode tags how an import record was produced.
const ImportModeSeedReplace = "seed_replace"

var allowedExtensions = map[string]struct{}{
	".xlsx": {},
	".xlsm": {},
}

// BulkReplaceResult summarizes one completed bulk import.
type BulkReplaceResult struct {
	RecordsAffected   int                 `json:"recordsAffected"`
	ComponentCount    int                 `json:"componentCount"`
	PcbCount          int                 `json:"pcbCount"`
	ProcurementEvents []procurement.Event `json:"procurementEvents"`
	ImportRecord      ImportRecordDTO     `json:"importRecord"`
}

// ImportRecordDTO is the API shape of one import audit entry.
type ImportRecordDTO struct {
	ID         uuid.UUID `json:"id"`
	Files      []string  `json:"files"`
	Mode       string    `json:"mode"`
	ImportedAt time.Time `json:"importedAt"`
}

// Service replaces the whole inventory dataset from the embedded baseline and
// exposes the import audit trail.
type Service interface {
	BulkReplace(ctx context.Context, fileNames []string) (*BulkReplaceResult, error)
	History(ctx context.Context) ([]ImportRecordDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	tx          txRunner
	gate        *db.Gate
	repo        *Repository
	inventory   *inventory.Repository
	production  *production.Repository
	procurement procurement.Repository
	ledger      *procurement.Ledger
	bus         *events.Bus
	metrics     *metrics.MutationMetrics
	maxFiles    int
}

// NewService constructs the import service.
func NewService(
	tx txRunner,
	gate *db.Gate,
	repo *Repository,
	inventoryRepo *inventory.Repository,
	productionRepo *production.Repository,
	procurementRepo procurement.Repository,
	ledger *procurement.Ledger,
	bus *events.Bus,
	m *metrics.MutationMetrics,
	maxFiles int,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if gate == nil {
		return nil, fmt.Errorf("mutation gate required")
	}
	if repo == nil {
		return nil, fmt.Errorf("import repository required")
	}
	if inventoryRepo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if productionRepo == nil {
		return nil, fmt.Errorf("production repository required")
	}
	if procurementRepo == nil {
		return nil, fmt.Errorf("procurement repository required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("procurement ledger required")
	}
	if maxFiles <= 0 {
		maxFiles = 10
	}
	return &service{
		tx:          tx,
		gate:        gate,
		repo:        repo,
		inventory:   inventoryRepo,
		production:  productionRepo,
		procurement: procurementRepo,
		ledger:      ledger,
		bus:         bus,
		metrics:     m,
		maxFiles:    maxFiles,
	}, nil
}

// ValidateFileNames rejects anything that is not an Excel workbook. Every
// name is checked before any data is touched, so a single bad file aborts
// the import with the inventory intact.
func ValidateFileNames(fileNames []string) error {
	if len(fileNames) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one file is required")
	}
	for _, name := range fileNames {
		ext := strings.ToLower(filepath.Ext(strings.TrimSpace(name)))
		if _, ok := allowedExtensions[ext]; !ok {
			return pkgerrors.New(pkgerrors.CodeUnsupportedFile, "unsupported file type, expected .xlsx or .xlsm").
				WithDetails(map[string]any{"file": name})
		}
	}
	return nil
}

// BulkReplace validates the uploaded file names, then replaces components,
// PCB mappings, production history, consumption history, and procurement
// triggers with the embedded baseline dataset in one transaction. The import
// audit trail is appended to, never replaced.
func (s *service) BulkReplace(ctx context.Context, fileNames []string) (*BulkReplaceResult, error) {
	if err := ValidateFileNames(fileNames); err != nil {
		return nil, err
	}
	if len(fileNames) > s.maxFiles {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "too many files").
			WithDetails(map[string]any{"max": s.maxFiles})
	}

	seed, err := LoadSeed()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load baseline dataset")
	}

	var result BulkReplaceResult
	err = s.gate.Do(func() error {
		return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			invRepo := s.inventory.WithTx(tx)
			prodRepo := s.production.WithTx(tx)
			procRepo := s.procurement.WithTx(tx)
			importRepo := s.repo.WithTx(tx)

			if err := prodRepo.DeleteAllConsumption(ctx); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear consumption records")
			}
			if err := prodRepo.DeleteAllEntries(ctx); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear production entries")
			}
			if err := procRepo.DeleteAll(ctx); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear procurement triggers")
			}
			if err := invRepo.DeleteAllPcbs(ctx); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear pcb mappings")
			}
			if err := invRepo.DeleteAllComponents(ctx); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear components")
			}

			byPartNumber := make(map[string]*models.Component, len(seed.Components))
			var procEvents []procurement.Event
			for _, sc := range seed.Components {
				component := &models.Component{
					ID:                 uuid.New(),
					Name:               sc.Name,
					PartNumber:         sc.PartNumber,
					CurrentStockQty:    stock.PositiveOrZero(sc.CurrentStockQty),
					MonthlyRequiredQty: stock.PositiveOrZero(sc.MonthlyRequiredQty),
				}
				if err := invRepo.CreateComponent(ctx, component); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert seed component")
				}
				byPartNumber[component.PartNumber] = component

				// Triggers were wiped above, so the whole dataset is
				// reconciled as newly created.
				componentEvents, err := s.ledger.Reconcile(ctx, tx, nil, component)
				if err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reconcile procurement state")
				}
				procEvents = append(procEvents, componentEvents...)
			}

			for _, sp := range seed.Pcbs {
				pcb := &models.PcbMapping{
					ID:   uuid.New(),
					Name: sp.Name,
				}
				for i, row := range sp.Components {
					component, ok := byPartNumber[row.PartNumber]
					if !ok {
						return pkgerrors.New(pkgerrors.CodeInternal, "seed pcb references unknown part number").
							WithDetails(map[string]any{"partNumber": row.PartNumber})
					}
					pcb.Components = append(pcb.Components, models.PcbMappingRow{
						ID:                   uuid.New(),
						PcbID:                pcb.ID,
						ComponentID:          component.ID,
						QuantityPerComponent: stock.PositiveOrZero(row.QuantityPerComponent),
						Position:             i,
					})
				}
				if err := invRepo.CreatePcb(ctx, pcb); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert seed pcb")
				}
			}

			record := &models.ImportRecord{
				ID:         uuid.New(),
				Files:      append([]string(nil), fileNames...),
				Mode:       ImportModeSeedReplace,
				ImportedAt: time.Now().UTC(),
			}
			if err := importRepo.Create(ctx, record); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append import record")
			}

			result = BulkReplaceResult{
				RecordsAffected:   len(seed.Components) + len(seed.Pcbs),
				ComponentCount:    len(seed.Components),
				PcbCount:          len(seed.Pcbs),
				ProcurementEvents: procEvents,
				ImportRecord:      toImportRecordDTO(record),
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncImport()
	if s.bus != nil {
		s.bus.Publish(enums.ChangeImportCompleted, map[string]any{
			"importId":        result.ImportRecord.ID.String(),
			"recordsAffected": result.RecordsAffected,
		})
	}
	return &result, nil
}

func (s *service) History(ctx context.Context) ([]ImportRecordDTO, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list import records")
	}
	dtos := make([]ImportRecordDTO, 0, len(records))
	for i := range records {
		dtos = append(dtos, toImportRecordDTO(&records[i]))
	}
	return dtos, nil
}

func toImportRecordDTO(record *models.ImportRecord) ImportRecordDTO {
	return ImportRecordDTO{
		ID:         record.ID,
		Files:      record.Files,
		Mode:       record.Mode,
		ImportedAt: record.ImportedAt,
	}
}
