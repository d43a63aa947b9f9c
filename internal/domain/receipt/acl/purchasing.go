package acl

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrderLine is the read-only projection of one purchase order line
// as the Purchasing context exposes it. It carries exactly the fields a new
// receipt line is seeded from.
type PurchaseOrderLine struct {
	ID         uuid.UUID
	ItemKind   string
	ItemID     *uuid.UUID
	ItemCode   string
	ItemName   string
	Unit       string
	OrderedQty decimal.Decimal
	UnitPrice  decimal.Decimal
	TaxRate    decimal.Decimal
	Attributes map[string]string
}

// PurchaseOrderSummary identifies a purchase order still open for receiving
type PurchaseOrderSummary struct {
	ID           uuid.UUID
	OrderNumber  string
	SupplierID   uuid.UUID
	SupplierName string
}

// PurchasingService is the port to the Purchasing collaborator. A failure
// here on a required field aborts the receipt operation: a receipt cannot
// be created without its purchase order lines.
type PurchasingService interface {
	// GetOrderLines returns the line items of a purchase order
	GetOrderLines(ctx context.Context, purchaseOrderID uuid.UUID) ([]PurchaseOrderLine, error)

	// GetOpenOrders returns purchase orders not yet fully received,
	// for populating new-receipt selection
	GetOpenOrders(ctx context.Context) ([]PurchaseOrderSummary, error)
}
