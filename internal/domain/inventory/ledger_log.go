package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/shared"
)

// LogAction describes what a ledger mutation did
type LogAction string

const (
	// LogActionAdded means a new ledger row was created for the line
	LogActionAdded LogAction = "ADDED"
	// LogActionConsolidated means the line merged into an existing row
	LogActionConsolidated LogAction = "CONSOLIDATED"
)

// IsValid checks if the action is a valid LogAction
func (a LogAction) IsValid() bool {
	return a == LogActionAdded || a == LogActionConsolidated
}

// String returns the string representation of LogAction
func (a LogAction) String() string {
	return string(a)
}

// LedgerLogEntry is the append-only audit record of one ledger mutation.
// Exactly one entry exists per receipt line: the entry doubles as the
// durable idempotency guard for consolidation retries, so it must be
// written in the same unit of work as the ledger update.
type LedgerLogEntry struct {
	shared.BaseEntity
	LedgerRowID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ReceiptID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	LineID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	Action      LogAction       `gorm:"type:varchar(20);not null"`
	OldQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	NewQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Note        string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (LedgerLogEntry) TableName() string {
	return "inventory_ledger_log"
}

// NewLedgerLogEntry creates a new log entry for a ledger mutation
func NewLedgerLogEntry(ledgerRowID, receiptID, lineID uuid.UUID, action LogAction, oldQty, newQty decimal.Decimal, note string) (*LedgerLogEntry, error) {
	if ledgerRowID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_LEDGER_ROW", "Ledger row reference cannot be empty", "ledger_row_id")
	}
	if receiptID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_RECEIPT", "Receipt reference cannot be empty", "receipt_id")
	}
	if lineID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_LINE", "Line reference cannot be empty", "line_id")
	}
	if !action.IsValid() {
		return nil, shared.NewValidationError("INVALID_ACTION", "Invalid log action", "action")
	}
	if newQty.LessThan(oldQty) {
		return nil, shared.NewValidationError("INVALID_QUANTITY", "New quantity cannot be below old quantity", "new_quantity")
	}

	return &LedgerLogEntry{
		BaseEntity:  shared.NewBaseEntity(),
		LedgerRowID: ledgerRowID,
		ReceiptID:   receiptID,
		LineID:      lineID,
		Action:      action,
		OldQuantity: oldQty,
		NewQuantity: newQty,
		Note:        note,
	}, nil
}
