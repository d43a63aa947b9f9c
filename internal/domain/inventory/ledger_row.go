package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/shared"
)

// StockStatus is the stock disposition a ledger row tracks quantity under
type StockStatus string

const (
	StockStatusReceived    StockStatus = "RECEIVED"
	StockStatusQuarantined StockStatus = "QUARANTINED"
)

// IsValid checks if the status is a valid StockStatus
func (s StockStatus) IsValid() bool {
	switch s {
	case StockStatusReceived, StockStatusQuarantined:
		return true
	}
	return false
}

// String returns the string representation of StockStatus
func (s StockStatus) String() string {
	return string(s)
}

// LedgerRow is the single source of truth for the on-hand quantity of one
// item identity in one bin, stock status and unit. For a given identity
// tuple at most one live row exists; all quantity changes go through
// read-merge-write against this one row, serialized by the version column.
type LedgerRow struct {
	shared.BaseAggregateRoot
	ItemKind    string          `gorm:"type:varchar(30);not null"`
	ItemID      *uuid.UUID      `gorm:"type:uuid;index:idx_ledger_item"`
	ItemCode    string          `gorm:"type:varchar(50);index:idx_ledger_code_name,priority:1"`
	ItemName    string          `gorm:"type:varchar(200);not null;index:idx_ledger_code_name,priority:2"`
	Attribute   string          `gorm:"type:varchar(100)"` // descriptive attribute (e.g. color); empty = unset
	BinID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	StockStatus StockStatus     `gorm:"type:varchar(20);not null;default:'RECEIVED'"`
	Unit        string          `gorm:"type:varchar(20);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (LedgerRow) TableName() string {
	return "inventory_ledger_rows"
}

// NewLedgerRowParams carries the identity and seed quantity of a new row
type NewLedgerRowParams struct {
	ItemKind  string
	ItemID    *uuid.UUID
	ItemCode  string
	ItemName  string
	Attribute string
	BinID     uuid.UUID
	Status    StockStatus
	Unit      string
	Quantity  decimal.Decimal
}

// NewLedgerRow creates a ledger row seeded with an initial quantity, on
// first approved receipt of an item identity into a bin
func NewLedgerRow(p NewLedgerRowParams) (*LedgerRow, error) {
	if p.ItemName == "" {
		return nil, shared.NewValidationError("INVALID_ITEM_NAME", "Item name cannot be empty", "item_name")
	}
	if p.BinID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_BIN", "Bin reference cannot be empty", "bin_id")
	}
	if !p.Status.IsValid() {
		return nil, shared.NewValidationError("INVALID_STOCK_STATUS", "Invalid stock status", "stock_status")
	}
	if p.Unit == "" {
		return nil, shared.NewValidationError("INVALID_UNIT", "Unit cannot be empty", "unit")
	}
	if p.Quantity.IsNegative() {
		return nil, shared.NewValidationError("INVALID_QUANTITY", "Quantity cannot be negative", "quantity")
	}

	return &LedgerRow{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ItemKind:          p.ItemKind,
		ItemID:            p.ItemID,
		ItemCode:          p.ItemCode,
		ItemName:          p.ItemName,
		Attribute:         p.Attribute,
		BinID:             p.BinID,
		StockStatus:       p.Status,
		Unit:              p.Unit,
		Quantity:          p.Quantity,
	}, nil
}

// AddQuantity merges an approved quantity into the row. This core only ever
// increases ledger quantities; downstream stock movement decrements
// elsewhere.
func (r *LedgerRow) AddQuantity(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("INVALID_QUANTITY", "Merge quantity must be positive", r.ID.String())
	}
	r.Quantity = r.Quantity.Add(quantity)
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return nil
}

// AttributeCompatible reports whether a line attribute may merge into this
// row: the attributes must be equal or either may be absent. Two different
// non-empty attributes never merge.
func (r *LedgerRow) AttributeCompatible(attribute string) bool {
	return r.Attribute == "" || attribute == "" || r.Attribute == attribute
}
