package inventory

import (
	"context"

	"github.com/google/uuid"

	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/shared"
)

// InventoryQueryService serves read access to the ledger, its log and the
// storage bins. All writes to the ledger go through receipt consolidation;
// this service never mutates.
type InventoryQueryService struct {
	ledgerRepo inventory.LedgerRepository
	logRepo    inventory.LedgerLogRepository
	binRepo    inventory.BinRepository
}

// NewInventoryQueryService creates a new InventoryQueryService
func NewInventoryQueryService(
	ledgerRepo inventory.LedgerRepository,
	logRepo inventory.LedgerLogRepository,
	binRepo inventory.BinRepository,
) *InventoryQueryService {
	return &InventoryQueryService{
		ledgerRepo: ledgerRepo,
		logRepo:    logRepo,
		binRepo:    binRepo,
	}
}

// GetLedgerRow retrieves one ledger row by ID
func (s *InventoryQueryService) GetLedgerRow(ctx context.Context, rowID uuid.UUID) (*LedgerRowResponse, error) {
	row, err := s.ledgerRepo.FindByID(ctx, rowID)
	if err != nil {
		return nil, err
	}
	response := ToLedgerRowResponse(row)
	return &response, nil
}

// ListLedgerRows retrieves ledger rows with filtering and pagination
func (s *InventoryQueryService) ListLedgerRows(ctx context.Context, filter ListFilter) ([]LedgerRowResponse, int64, error) {
	domainFilter := s.toDomainFilter(filter)

	var rows []*inventory.LedgerRow
	var err error
	if filter.BinID != nil {
		rows, err = s.ledgerRepo.FindByBin(ctx, *filter.BinID, domainFilter)
	} else {
		rows, err = s.ledgerRepo.FindAll(ctx, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	total, err := s.ledgerRepo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return ToLedgerRowResponses(rows), total, nil
}

// GetRowHistory retrieves the mutation history of one ledger row
func (s *InventoryQueryService) GetRowHistory(ctx context.Context, rowID uuid.UUID, filter ListFilter) ([]LedgerLogEntryResponse, error) {
	entries, err := s.logRepo.FindByLedgerRow(ctx, rowID, s.toDomainFilter(filter))
	if err != nil {
		return nil, err
	}
	return ToLedgerLogEntryResponses(entries), nil
}

// GetReceiptLog retrieves all ledger mutations a receipt caused
func (s *InventoryQueryService) GetReceiptLog(ctx context.Context, receiptID uuid.UUID) ([]LedgerLogEntryResponse, error) {
	entries, err := s.logRepo.FindByReceipt(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	return ToLedgerLogEntryResponses(entries), nil
}

// ListBins retrieves storage bins
func (s *InventoryQueryService) ListBins(ctx context.Context, filter ListFilter) ([]BinResponse, error) {
	bins, err := s.binRepo.FindAll(ctx, s.toDomainFilter(filter))
	if err != nil {
		return nil, err
	}
	return ToBinResponses(bins), nil
}

func (s *InventoryQueryService) toDomainFilter(filter ListFilter) shared.Filter {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search
	return domainFilter
}
