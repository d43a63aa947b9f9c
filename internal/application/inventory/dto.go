package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/inventory"
)

// LedgerRowResponse is the API representation of one ledger row
type LedgerRowResponse struct {
	ID          uuid.UUID       `json:"id"`
	ItemKind    string          `json:"item_kind"`
	ItemID      *uuid.UUID      `json:"item_id,omitempty"`
	ItemCode    string          `json:"item_code,omitempty"`
	ItemName    string          `json:"item_name"`
	Attribute   string          `json:"attribute,omitempty"`
	BinID       uuid.UUID       `json:"bin_id"`
	StockStatus string          `json:"stock_status"`
	Unit        string          `json:"unit"`
	Quantity    decimal.Decimal `json:"quantity"`
	Version     int             `json:"version"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// LedgerLogEntryResponse is the API representation of one log entry
type LedgerLogEntryResponse struct {
	ID          uuid.UUID       `json:"id"`
	LedgerRowID uuid.UUID       `json:"ledger_row_id"`
	ReceiptID   uuid.UUID       `json:"receipt_id"`
	LineID      uuid.UUID       `json:"line_id"`
	Action      string          `json:"action"`
	OldQuantity decimal.Decimal `json:"old_quantity"`
	NewQuantity decimal.Decimal `json:"new_quantity"`
	Note        string          `json:"note,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// BinResponse is the API representation of a storage bin
type BinResponse struct {
	ID     uuid.UUID `json:"id"`
	Code   string    `json:"code"`
	Name   string    `json:"name"`
	Zone   string    `json:"zone"`
	Active bool      `json:"active"`
}

// ListFilter filters ledger listings
type ListFilter struct {
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
	OrderBy  string     `json:"order_by"`
	OrderDir string     `json:"order_dir"`
	Search   string     `json:"search"`
	BinID    *uuid.UUID `json:"bin_id,omitempty"`
}

// ToLedgerRowResponse converts a domain ledger row
func ToLedgerRowResponse(row *inventory.LedgerRow) LedgerRowResponse {
	return LedgerRowResponse{
		ID:          row.ID,
		ItemKind:    row.ItemKind,
		ItemID:      row.ItemID,
		ItemCode:    row.ItemCode,
		ItemName:    row.ItemName,
		Attribute:   row.Attribute,
		BinID:       row.BinID,
		StockStatus: row.StockStatus.String(),
		Unit:        row.Unit,
		Quantity:    row.Quantity,
		Version:     row.GetVersion(),
		UpdatedAt:   row.UpdatedAt,
	}
}

// ToLedgerRowResponses converts a slice of domain ledger rows
func ToLedgerRowResponses(rows []*inventory.LedgerRow) []LedgerRowResponse {
	out := make([]LedgerRowResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, ToLedgerRowResponse(row))
	}
	return out
}

// ToLedgerLogEntryResponse converts a domain log entry
func ToLedgerLogEntryResponse(e *inventory.LedgerLogEntry) LedgerLogEntryResponse {
	return LedgerLogEntryResponse{
		ID:          e.ID,
		LedgerRowID: e.LedgerRowID,
		ReceiptID:   e.ReceiptID,
		LineID:      e.LineID,
		Action:      e.Action.String(),
		OldQuantity: e.OldQuantity,
		NewQuantity: e.NewQuantity,
		Note:        e.Note,
		CreatedAt:   e.CreatedAt,
	}
}

// ToLedgerLogEntryResponses converts a slice of domain log entries
func ToLedgerLogEntryResponses(entries []*inventory.LedgerLogEntry) []LedgerLogEntryResponse {
	out := make([]LedgerLogEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, ToLedgerLogEntryResponse(e))
	}
	return out
}

// ToBinResponse converts a domain bin
func ToBinResponse(b *inventory.Bin) BinResponse {
	return BinResponse{
		ID:     b.ID,
		Code:   b.Code,
		Name:   b.Name,
		Zone:   b.Zone,
		Active: b.Active,
	}
}

// ToBinResponses converts a slice of domain bins
func ToBinResponses(bins []*inventory.Bin) []BinResponse {
	out := make([]BinResponse, 0, len(bins))
	for _, b := range bins {
		out = append(out, ToBinResponse(b))
	}
	return out
}
