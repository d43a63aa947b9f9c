package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/shared"
)

// Event type constants
const (
	EventTypeLedgerUpdated = "inventory.ledger_updated"
)

// Aggregate type constant
const AggregateTypeLedgerRow = "InventoryLedgerRow"

// LedgerUpdatedEvent is published after a receipt line has been folded into
// the inventory ledger, for downstream listeners (reporting, reorder
// checks). Delivery is best-effort; the ledger and its log are the source
// of truth.
type LedgerUpdatedEvent struct {
	shared.BaseDomainEvent
	LedgerRowID uuid.UUID       `json:"ledger_row_id"`
	ReceiptID   uuid.UUID       `json:"receipt_id"`
	LineID      uuid.UUID       `json:"line_id"`
	ItemName    string          `json:"item_name"`
	Action      LogAction       `json:"action"`
	OldQuantity decimal.Decimal `json:"old_quantity"`
	NewQuantity decimal.Decimal `json:"new_quantity"`
}

// NewLedgerUpdatedEvent creates a ledger updated event from what the
// consolidation engine did with one line
func NewLedgerUpdatedEvent(receiptID uuid.UUID, res ConsolidationResult) *LedgerUpdatedEvent {
	return &LedgerUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLedgerUpdated, AggregateTypeLedgerRow, res.LedgerRowID),
		LedgerRowID:     res.LedgerRowID,
		ReceiptID:       receiptID,
		LineID:          res.LineID,
		ItemName:        res.ItemName,
		Action:          res.Action,
		OldQuantity:     res.OldQuantity,
		NewQuantity:     res.NewQuantity,
	}
}
