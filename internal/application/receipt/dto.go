package receipt

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/receipt"
)

// CreateReceiptRequest creates a draft receipt seeded from a purchase order
type CreateReceiptRequest struct {
	PurchaseOrderID uuid.UUID  `json:"purchase_order_id"`
	SupplierID      uuid.UUID  `json:"supplier_id"`
	ReceiptDate     *time.Time `json:"receipt_date,omitempty"`
	Location        string     `json:"location,omitempty"`
}

// UpdateLineRequest records the actually received quantity and batch
// details for one line
type UpdateLineRequest struct {
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
	BatchNumber      string          `json:"batch_number,omitempty"`
	ExpiryDate       *time.Time      `json:"expiry_date,omitempty"`
	Notes            string          `json:"notes,omitempty"`
}

// ClassifyLineRequest sets the quality disposition of one line. The
// quantities are only honored for an explicit pending split.
type ClassifyLineRequest struct {
	QualityStatus    receipt.QualityStatus `json:"quality_status" binding:"required,quality_status"`
	ApprovedQuantity decimal.Decimal       `json:"approved_quantity"`
	RejectedQuantity decimal.Decimal       `json:"rejected_quantity"`
	Notes            string                `json:"notes,omitempty"`
}

// TransitionRequest moves a receipt to a target lifecycle status
type TransitionRequest struct {
	TargetStatus    receipt.Status `json:"target_status"`
	RejectionReason string         `json:"rejection_reason,omitempty"`
	InspectionNotes string         `json:"inspection_notes,omitempty"`
}

// ActorInfo identifies the authenticated user performing an operation
type ActorInfo struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// ListFilter filters receipt listings
type ListFilter struct {
	Page            int             `json:"page"`
	PageSize        int             `json:"page_size"`
	OrderBy         string          `json:"order_by"`
	OrderDir        string          `json:"order_dir"`
	Search          string          `json:"search"`
	Status          *receipt.Status `json:"status,omitempty"`
	PurchaseOrderID *uuid.UUID      `json:"purchase_order_id,omitempty"`
	SupplierID      *uuid.UUID      `json:"supplier_id,omitempty"`
	StartDate       *time.Time      `json:"start_date,omitempty"`
	EndDate         *time.Time      `json:"end_date,omitempty"`
}

// LineItemResponse is the API representation of one receipt line
type LineItemResponse struct {
	ID               uuid.UUID         `json:"id"`
	POItemID         uuid.UUID         `json:"po_item_id"`
	ItemKind         string            `json:"item_kind"`
	ItemID           *uuid.UUID        `json:"item_id,omitempty"`
	ItemCode         string            `json:"item_code,omitempty"`
	ItemName         string            `json:"item_name"`
	Unit             string            `json:"unit"`
	OrderedQuantity  decimal.Decimal   `json:"ordered_quantity"`
	ReceivedQuantity decimal.Decimal   `json:"received_quantity"`
	ApprovedQuantity decimal.Decimal   `json:"approved_quantity"`
	RejectedQuantity decimal.Decimal   `json:"rejected_quantity"`
	UnitPrice        decimal.Decimal   `json:"unit_price"`
	TaxRate          decimal.Decimal   `json:"tax_rate"`
	LineTotal        decimal.Decimal   `json:"line_total"`
	QualityStatus    string            `json:"quality_status"`
	BatchNumber      string            `json:"batch_number,omitempty"`
	ExpiryDate       *time.Time        `json:"expiry_date,omitempty"`
	Notes            string            `json:"notes,omitempty"`
	Attributes       map[string]string `json:"attributes,omitempty"`
	ImageURL         string            `json:"image_url,omitempty"`
}

// ReceiptResponse is the full API representation of a goods receipt
type ReceiptResponse struct {
	ID               uuid.UUID          `json:"id"`
	ReceiptNumber    string             `json:"receipt_number"`
	PurchaseOrderID  uuid.UUID          `json:"purchase_order_id"`
	SupplierID       uuid.UUID          `json:"supplier_id"`
	Status           string             `json:"status"`
	ReceiptDate      time.Time          `json:"receipt_date"`
	ReceivedDate     *time.Time         `json:"received_date,omitempty"`
	ReceivedLocation string             `json:"received_location,omitempty"`
	ReceivedBy       *uuid.UUID         `json:"received_by,omitempty"`
	InspectorID      *uuid.UUID         `json:"inspector_id,omitempty"`
	InspectionDate   *time.Time         `json:"inspection_date,omitempty"`
	ApproverID       *uuid.UUID         `json:"approver_id,omitempty"`
	ApprovedAt       *time.Time         `json:"approved_at,omitempty"`
	RejectionReason  string             `json:"rejection_reason,omitempty"`
	InspectionNotes  string             `json:"inspection_notes,omitempty"`
	Totals           receipt.Totals     `json:"totals"`
	Lines            []LineItemResponse `json:"lines"`
	Version          int                `json:"version"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

// ReceiptListItemResponse is the compact listing representation
type ReceiptListItemResponse struct {
	ID              uuid.UUID      `json:"id"`
	ReceiptNumber   string         `json:"receipt_number"`
	PurchaseOrderID uuid.UUID      `json:"purchase_order_id"`
	SupplierID      uuid.UUID      `json:"supplier_id"`
	Status          string         `json:"status"`
	ReceiptDate     time.Time      `json:"receipt_date"`
	Totals          receipt.Totals `json:"totals"`
	LineCount       int            `json:"line_count"`
	CreatedAt       time.Time      `json:"created_at"`
}

// ConsolidationResultResponse reports what consolidation did with one line
type ConsolidationResultResponse struct {
	LineID      uuid.UUID       `json:"line_id"`
	LedgerRowID uuid.UUID       `json:"ledger_row_id,omitempty"`
	ItemName    string          `json:"item_name,omitempty"`
	Action      string          `json:"action,omitempty"`
	OldQuantity decimal.Decimal `json:"old_quantity"`
	NewQuantity decimal.Decimal `json:"new_quantity"`
	Skipped     bool            `json:"skipped"`
}

// ToLineItemResponse converts a domain line item to its API representation
func ToLineItemResponse(l *receipt.LineItem) LineItemResponse {
	return LineItemResponse{
		ID:               l.ID,
		POItemID:         l.POItemID,
		ItemKind:         l.ItemKind.String(),
		ItemID:           l.ItemID,
		ItemCode:         l.ItemCode,
		ItemName:         l.ItemName,
		Unit:             l.Unit,
		OrderedQuantity:  l.OrderedQuantity,
		ReceivedQuantity: l.ReceivedQuantity,
		ApprovedQuantity: l.ApprovedQuantity,
		RejectedQuantity: l.RejectedQuantity,
		UnitPrice:        l.UnitPrice,
		TaxRate:          l.TaxRate,
		LineTotal:        l.LineTotal,
		QualityStatus:    l.QualityStatus.String(),
		BatchNumber:      l.BatchNumber,
		ExpiryDate:       l.ExpiryDate,
		Notes:            l.Notes,
		Attributes:       l.Attributes,
		ImageURL:         l.ImageURL,
	}
}

// ToReceiptResponse converts a domain receipt to its API representation
func ToReceiptResponse(r *receipt.Receipt) ReceiptResponse {
	lines := make([]LineItemResponse, 0, len(r.Lines))
	for i := range r.Lines {
		lines = append(lines, ToLineItemResponse(&r.Lines[i]))
	}
	return ReceiptResponse{
		ID:               r.ID,
		ReceiptNumber:    r.ReceiptNumber,
		PurchaseOrderID:  r.PurchaseOrderID,
		SupplierID:       r.SupplierID,
		Status:           r.Status.String(),
		ReceiptDate:      r.ReceiptDate,
		ReceivedDate:     r.ReceivedDate,
		ReceivedLocation: r.ReceivedLocation,
		ReceivedBy:       r.ReceivedBy,
		InspectorID:      r.InspectorID,
		InspectionDate:   r.InspectionDate,
		ApproverID:       r.ApproverID,
		ApprovedAt:       r.ApprovedAt,
		RejectionReason:  r.RejectionReason,
		InspectionNotes:  r.InspectionNotes,
		Totals:           r.Totals,
		Lines:            lines,
		Version:          r.GetVersion(),
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

// ToReceiptListItemResponse converts a domain receipt to its listing form
func ToReceiptListItemResponse(r *receipt.Receipt) ReceiptListItemResponse {
	return ReceiptListItemResponse{
		ID:              r.ID,
		ReceiptNumber:   r.ReceiptNumber,
		PurchaseOrderID: r.PurchaseOrderID,
		SupplierID:      r.SupplierID,
		Status:          r.Status.String(),
		ReceiptDate:     r.ReceiptDate,
		Totals:          r.Totals,
		LineCount:       r.LineCount(),
		CreatedAt:       r.CreatedAt,
	}
}

// ToReceiptListItemResponses converts a slice of domain receipts
func ToReceiptListItemResponses(receipts []receipt.Receipt) []ReceiptListItemResponse {
	out := make([]ReceiptListItemResponse, 0, len(receipts))
	for i := range receipts {
		out = append(out, ToReceiptListItemResponse(&receipts[i]))
	}
	return out
}

// ToConsolidationResultResponses converts engine results to their API form
func ToConsolidationResultResponses(results []inventory.ConsolidationResult) []ConsolidationResultResponse {
	out := make([]ConsolidationResultResponse, 0, len(results))
	for _, res := range results {
		out = append(out, ConsolidationResultResponse{
			LineID:      res.LineID,
			LedgerRowID: res.LedgerRowID,
			ItemName:    res.ItemName,
			Action:      res.Action.String(),
			OldQuantity: res.OldQuantity,
			NewQuantity: res.NewQuantity,
			Skipped:     res.Skipped,
		})
	}
	return out
}
