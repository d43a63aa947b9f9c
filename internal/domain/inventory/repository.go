package inventory

import (
	"context"

	"github.com/google/uuid"

	"github.com/wms/backend/internal/domain/shared"
)

// LedgerRepository defines the interface for ledger row persistence
type LedgerRepository interface {
	// FindByID retrieves a ledger row by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*LedgerRow, error)

	// FindByItemID retrieves the live row for a catalog item identity,
	// returns shared.ErrNotFound when no row exists
	FindByItemID(ctx context.Context, itemID, binID uuid.UUID, status StockStatus, unit string) (*LedgerRow, error)

	// FindByCodeAndName retrieves candidate rows matching code and name in
	// a bin, status and unit; attribute compatibility is decided by the
	// caller
	FindByCodeAndName(ctx context.Context, itemCode, itemName string, binID uuid.UUID, status StockStatus, unit string) ([]*LedgerRow, error)

	// FindByBin retrieves rows in a bin with pagination
	FindByBin(ctx context.Context, binID uuid.UUID, filter shared.Filter) ([]*LedgerRow, error)

	// FindAll retrieves ledger rows with pagination
	FindAll(ctx context.Context, filter shared.Filter) ([]*LedgerRow, error)

	// Create persists a new ledger row
	Create(ctx context.Context, row *LedgerRow) error

	// SaveWithLock persists a modified row with an optimistic lock on its
	// version column, returns shared.ErrConcurrencyConflict when another
	// writer got there first
	SaveWithLock(ctx context.Context, row *LedgerRow) error

	// Count returns the total number of ledger rows
	Count(ctx context.Context) (int64, error)
}

// LedgerLogRepository defines the interface for the append-only ledger log
type LedgerLogRepository interface {
	// ExistsForLine reports whether any log entry exists for a receipt
	// line, the idempotency guard of consolidation
	ExistsForLine(ctx context.Context, lineID uuid.UUID) (bool, error)

	// FindByReceipt retrieves all log entries written for a receipt
	FindByReceipt(ctx context.Context, receiptID uuid.UUID) ([]*LedgerLogEntry, error)

	// FindByLedgerRow retrieves the mutation history of a ledger row
	FindByLedgerRow(ctx context.Context, ledgerRowID uuid.UUID, filter shared.Filter) ([]*LedgerLogEntry, error)

	// Create appends a log entry; entries are never updated or deleted
	Create(ctx context.Context, entry *LedgerLogEntry) error
}

// BinRepository defines the interface for storage bin persistence
type BinRepository interface {
	// FindByID retrieves a bin by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Bin, error)

	// FindByCode retrieves a bin by its unique code
	FindByCode(ctx context.Context, code string) (*Bin, error)

	// FindActiveByZone retrieves the oldest active bin of a zone
	FindActiveByZone(ctx context.Context, zone string) (*Bin, error)

	// FindAll retrieves bins with pagination
	FindAll(ctx context.Context, filter shared.Filter) ([]*Bin, error)

	// Save persists a bin
	Save(ctx context.Context, bin *Bin) error
}
