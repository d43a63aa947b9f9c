package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/shared"
)

// Number of read-merge-write attempts per line before giving up on a
// contended ledger row.
const defaultMergeRetries = 3

// ConsolidationLine is one approved receipt line presented to the
// consolidation engine, reduced to the fields that matter for ledger
// identity and quantity.
type ConsolidationLine struct {
	LineID    uuid.UUID
	ItemKind  string
	ItemID    *uuid.UUID
	ItemCode  string
	ItemName  string
	Attribute string
	Unit      string
	Quantity  decimal.Decimal
}

// ConsolidationResult describes what the engine did with one line
type ConsolidationResult struct {
	LineID      uuid.UUID
	LedgerRowID uuid.UUID
	ItemName    string
	Action      LogAction
	OldQuantity decimal.Decimal
	NewQuantity decimal.Decimal
	Skipped     bool
}

// ConsolidationRepositories bundles the persistence ports the engine
// writes through. Callers bind both to the same unit of work so the
// ledger update and its log entry commit or roll back together.
type ConsolidationRepositories struct {
	Ledger LedgerRepository
	Log    LedgerLogRepository
}

// ConsolidationService folds approved receipt lines into the inventory
// ledger. The engine is idempotent per line: a line that already has a
// log entry is skipped, so a crashed or retried run never double-counts
// stock.
type ConsolidationService struct {
	maxRetries int
}

// NewConsolidationService creates a new consolidation domain service
func NewConsolidationService() *ConsolidationService {
	return &ConsolidationService{maxRetries: defaultMergeRetries}
}

// Consolidate processes the given lines in order and stops at the first
// failure, returning the results accumulated so far alongside the error.
// Already-processed lines are reported as skipped, so a rerun after a
// partial failure picks up exactly where the previous run stopped.
func (s *ConsolidationService) Consolidate(ctx context.Context, repos ConsolidationRepositories, receiptID uuid.UUID, bin *Bin, lines []ConsolidationLine) ([]ConsolidationResult, error) {
	if bin == nil {
		return nil, shared.NewDomainError(shared.KindConsolidationFailure, "NO_TARGET_BIN",
			"Consolidation requires a target bin")
	}

	results := make([]ConsolidationResult, 0, len(lines))
	for _, line := range lines {
		result, err := s.ConsolidateLine(ctx, repos, receiptID, bin, line)
		if err != nil {
			return results, err
		}
		results = append(results, *result)
	}
	return results, nil
}

// ConsolidateLine folds a single approved line into the ledger: skip if a
// log entry already exists, otherwise resolve the target row, merge or
// create, and append the log entry recording old and new quantity.
func (s *ConsolidationService) ConsolidateLine(ctx context.Context, repos ConsolidationRepositories, receiptID uuid.UUID, bin *Bin, line ConsolidationLine) (*ConsolidationResult, error) {
	if line.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError(shared.KindConsolidationFailure, "INVALID_CONSOLIDATION_QUANTITY",
			"Approved quantity to consolidate must be positive").WithRef(line.LineID.String())
	}

	processed, err := repos.Log.ExistsForLine(ctx, line.LineID)
	if err != nil {
		return nil, consolidationFailed(line, "checking ledger log", err)
	}
	if processed {
		return &ConsolidationResult{LineID: line.LineID, Skipped: true}, nil
	}

	for attempt := 0; attempt < s.maxRetries; attempt++ {
		row, err := s.resolveRow(ctx, repos.Ledger, bin, line)
		if err != nil {
			return nil, err
		}

		if row == nil {
			return s.createRow(ctx, repos, receiptID, bin, line)
		}

		result, err := s.mergeIntoRow(ctx, repos, receiptID, row, line)
		if errors.Is(err, shared.ErrConcurrencyConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return result, nil
	}

	return nil, shared.NewDomainError(shared.KindConcurrencyConflict, "LEDGER_ROW_CONTENTION",
		"Ledger row kept changing under concurrent writers").WithRef(line.LineID.String())
}

// resolveRow finds the ledger row a line merges into, trying identity
// rules in priority order: catalog item reference first, then code and
// name with attribute compatibility. Returns nil when no row matches and
// a fresh one must be created.
func (s *ConsolidationService) resolveRow(ctx context.Context, ledger LedgerRepository, bin *Bin, line ConsolidationLine) (*LedgerRow, error) {
	if line.ItemID != nil {
		row, err := ledger.FindByItemID(ctx, *line.ItemID, bin.ID, StockStatusReceived, line.Unit)
		if err == nil {
			return row, nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, consolidationFailed(line, "resolving ledger row by item", err)
		}
	}

	candidates, err := ledger.FindByCodeAndName(ctx, line.ItemCode, line.ItemName, bin.ID, StockStatusReceived, line.Unit)
	if err != nil {
		return nil, consolidationFailed(line, "resolving ledger row by code and name", err)
	}
	for _, candidate := range candidates {
		if candidate.AttributeCompatible(line.Attribute) {
			return candidate, nil
		}
	}
	return nil, nil
}

func (s *ConsolidationService) mergeIntoRow(ctx context.Context, repos ConsolidationRepositories, receiptID uuid.UUID, row *LedgerRow, line ConsolidationLine) (*ConsolidationResult, error) {
	oldQty := row.Quantity
	if err := row.AddQuantity(line.Quantity); err != nil {
		return nil, err
	}

	if err := repos.Ledger.SaveWithLock(ctx, row); err != nil {
		if errors.Is(err, shared.ErrConcurrencyConflict) {
			return nil, err
		}
		return nil, consolidationFailed(line, "updating ledger row", err)
	}

	if err := s.appendLog(ctx, repos.Log, row, receiptID, line, LogActionConsolidated, oldQty); err != nil {
		return nil, err
	}

	return &ConsolidationResult{
		LineID:      line.LineID,
		LedgerRowID: row.ID,
		ItemName:    row.ItemName,
		Action:      LogActionConsolidated,
		OldQuantity: oldQty,
		NewQuantity: row.Quantity,
	}, nil
}

func (s *ConsolidationService) createRow(ctx context.Context, repos ConsolidationRepositories, receiptID uuid.UUID, bin *Bin, line ConsolidationLine) (*ConsolidationResult, error) {
	row, err := NewLedgerRow(NewLedgerRowParams{
		ItemKind:  line.ItemKind,
		ItemID:    line.ItemID,
		ItemCode:  line.ItemCode,
		ItemName:  line.ItemName,
		Attribute: line.Attribute,
		BinID:     bin.ID,
		Status:    StockStatusReceived,
		Unit:      line.Unit,
		Quantity:  line.Quantity,
	})
	if err != nil {
		return nil, err
	}

	if err := repos.Ledger.Create(ctx, row); err != nil {
		return nil, consolidationFailed(line, "creating ledger row", err)
	}

	if err := s.appendLog(ctx, repos.Log, row, receiptID, line, LogActionAdded, decimal.Zero); err != nil {
		return nil, err
	}

	return &ConsolidationResult{
		LineID:      line.LineID,
		LedgerRowID: row.ID,
		ItemName:    row.ItemName,
		Action:      LogActionAdded,
		OldQuantity: decimal.Zero,
		NewQuantity: row.Quantity,
	}, nil
}

func (s *ConsolidationService) appendLog(ctx context.Context, log LedgerLogRepository, row *LedgerRow, receiptID uuid.UUID, line ConsolidationLine, action LogAction, oldQty decimal.Decimal) error {
	note := fmt.Sprintf("%s %s %s", action, line.Quantity, line.Unit)
	entry, err := NewLedgerLogEntry(row.ID, receiptID, line.LineID, action, oldQty, row.Quantity, note)
	if err != nil {
		return err
	}
	if err := log.Create(ctx, entry); err != nil {
		return consolidationFailed(line, "appending ledger log", err)
	}
	return nil
}

func consolidationFailed(line ConsolidationLine, stage string, err error) error {
	return shared.NewDomainError(shared.KindConsolidationFailure, "CONSOLIDATION_FAILED",
		fmt.Sprintf("Consolidation failed while %s: %v", stage, err)).WithRef(line.LineID.String())
}
