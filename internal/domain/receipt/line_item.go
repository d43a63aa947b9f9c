package receipt

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/shared"
)

// ItemKind distinguishes the catalog families a line item can refer to
type ItemKind string

const (
	ItemKindFabric          ItemKind = "FABRIC"
	ItemKindItem            ItemKind = "ITEM"
	ItemKindFinishedProduct ItemKind = "FINISHED_PRODUCT"
)

// IsValid checks if the kind is a valid ItemKind
func (k ItemKind) IsValid() bool {
	switch k {
	case ItemKindFabric, ItemKindItem, ItemKindFinishedProduct:
		return true
	}
	return false
}

// String returns the string representation of ItemKind
func (k ItemKind) String() string {
	return string(k)
}

// QualityStatus is the per-line quality disposition
type QualityStatus string

const (
	QualityPending  QualityStatus = "PENDING"
	QualityApproved QualityStatus = "APPROVED"
	QualityRejected QualityStatus = "REJECTED"
	QualityDamaged  QualityStatus = "DAMAGED"
)

// IsValid checks if the status is a valid QualityStatus
func (q QualityStatus) IsValid() bool {
	switch q {
	case QualityPending, QualityApproved, QualityRejected, QualityDamaged:
		return true
	}
	return false
}

// String returns the string representation of QualityStatus
func (q QualityStatus) String() string {
	return string(q)
}

// CountsAsRejected returns true if the disposition rejects the received goods
func (q QualityStatus) CountsAsRejected() bool {
	return q == QualityRejected || q == QualityDamaged
}

// Recognized keys of the optional descriptive attribute map
const (
	AttributeColor         = "color"
	AttributeMaterialGrade = "material_grade"
)

// LineItem is one expected-item-vs-received-quantity pairing within a
// Receipt. ItemID may be nil: a line can represent an item not present in
// the catalog, in which case (ItemCode, ItemName) carries its identity.
type LineItem struct {
	ID               uuid.UUID         `gorm:"type:uuid;primary_key"`
	ReceiptID        uuid.UUID         `gorm:"type:uuid;not null;index"`
	POItemID         uuid.UUID         `gorm:"type:uuid;not null"`
	ItemKind         ItemKind          `gorm:"type:varchar(30);not null"`
	ItemID           *uuid.UUID        `gorm:"type:uuid;index"`
	ItemCode         string            `gorm:"type:varchar(50)"`
	ItemName         string            `gorm:"type:varchar(200);not null"`
	Unit             string            `gorm:"type:varchar(20);not null"`
	OrderedQuantity  decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	ReceivedQuantity decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	ApprovedQuantity decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	RejectedQuantity decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	UnitPrice        decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	TaxRate          decimal.Decimal   `gorm:"type:decimal(8,4);not null"`
	LineTotal        decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	QualityStatus    QualityStatus     `gorm:"type:varchar(20);not null;default:'PENDING'"`
	BatchNumber      string            `gorm:"type:varchar(100)"`
	ExpiryDate       *time.Time        `gorm:""`
	Notes            string            `gorm:"type:varchar(500)"`
	Attributes       map[string]string `gorm:"serializer:json"`
	ImageURL         string            `gorm:"type:varchar(500)"`
	CreatedAt        time.Time         `gorm:"not null"`
	UpdatedAt        time.Time         `gorm:"not null"`
}

// TableName returns the table name for GORM
func (LineItem) TableName() string {
	return "receipt_line_items"
}

// NewLineItemParams carries the purchase order line data a new line is
// seeded from
type NewLineItemParams struct {
	POItemID   uuid.UUID
	ItemKind   ItemKind
	ItemID     *uuid.UUID
	ItemCode   string
	ItemName   string
	Unit       string
	OrderedQty decimal.Decimal
	UnitPrice  decimal.Decimal
	TaxRate    decimal.Decimal
	Attributes map[string]string
}

// NewLineItem creates a new line item with received quantity defaulted to
// zero and quality disposition pending
func NewLineItem(receiptID uuid.UUID, p NewLineItemParams) (*LineItem, error) {
	if p.POItemID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_PO_ITEM", "Purchase order item reference cannot be empty", "po_item_id")
	}
	if !p.ItemKind.IsValid() {
		return nil, shared.NewValidationError("INVALID_ITEM_KIND", "Invalid item kind", "item_kind")
	}
	if p.ItemName == "" {
		return nil, shared.NewValidationError("INVALID_ITEM_NAME", "Item name cannot be empty", "item_name")
	}
	if p.Unit == "" {
		return nil, shared.NewValidationError("INVALID_UNIT", "Unit of measure cannot be empty", "unit")
	}
	if p.OrderedQty.IsNegative() {
		return nil, shared.NewValidationError("INVALID_QUANTITY", "Ordered quantity cannot be negative", "ordered_quantity")
	}
	if p.UnitPrice.IsNegative() {
		return nil, shared.NewValidationError("INVALID_PRICE", "Unit price cannot be negative", "unit_price")
	}
	if p.TaxRate.IsNegative() {
		return nil, shared.NewValidationError("INVALID_TAX_RATE", "Tax rate cannot be negative", "tax_rate")
	}

	attrs := p.Attributes
	if attrs == nil {
		attrs = make(map[string]string)
	}

	now := time.Now()
	return &LineItem{
		ID:               uuid.New(),
		ReceiptID:        receiptID,
		POItemID:         p.POItemID,
		ItemKind:         p.ItemKind,
		ItemID:           p.ItemID,
		ItemCode:         p.ItemCode,
		ItemName:         p.ItemName,
		Unit:             p.Unit,
		OrderedQuantity:  p.OrderedQty,
		ReceivedQuantity: decimal.Zero,
		ApprovedQuantity: decimal.Zero,
		RejectedQuantity: decimal.Zero,
		UnitPrice:        p.UnitPrice,
		TaxRate:          p.TaxRate,
		LineTotal:        decimal.Zero,
		QualityStatus:    QualityPending,
		Attributes:       attrs,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// SetReceivedQuantity records the actual received quantity and recomputes
// the line total and, for already-classified lines, the derived split
func (l *LineItem) SetReceivedQuantity(quantity decimal.Decimal) error {
	if quantity.IsNegative() {
		return shared.NewValidationError("INVALID_QUANTITY", "Received quantity cannot be negative", l.ID.String())
	}

	// A previously recorded pending split may exceed the new received
	// quantity; reject before touching the line
	if l.QualityStatus == QualityPending && l.ApprovedQuantity.Add(l.RejectedQuantity).GreaterThan(quantity) {
		return shared.NewValidationError("QUANTITY_SPLIT_EXCEEDED",
			"Approved plus rejected quantity cannot exceed received quantity", l.ID.String())
	}

	l.ReceivedQuantity = quantity
	l.applyQualitySplit(l.QualityStatus, l.ApprovedQuantity, l.RejectedQuantity)
	l.recalculateTotal()
	l.UpdatedAt = time.Now()
	return nil
}

// Classify sets the quality disposition and immediately recomputes the
// approved/rejected quantity split:
//   - approved: the full received quantity is approved
//   - rejected or damaged: the full received quantity is rejected
//   - pending: the explicitly provided split is kept as-is, since a line
//     may be re-classified multiple times before the receipt is finalized
func (l *LineItem) Classify(status QualityStatus, approvedQty, rejectedQty decimal.Decimal) error {
	if !status.IsValid() {
		return shared.NewValidationError("INVALID_QUALITY_STATUS", "Invalid quality status", l.ID.String())
	}
	if approvedQty.IsNegative() || rejectedQty.IsNegative() {
		return shared.NewValidationError("INVALID_QUANTITY", "Quality split quantities cannot be negative", l.ID.String())
	}
	if status == QualityPending && approvedQty.Add(rejectedQty).GreaterThan(l.ReceivedQuantity) {
		return shared.NewValidationError("QUANTITY_SPLIT_EXCEEDED",
			"Approved plus rejected quantity cannot exceed received quantity", l.ID.String())
	}

	l.applyQualitySplit(status, approvedQty, rejectedQty)
	l.UpdatedAt = time.Now()
	return nil
}

func (l *LineItem) applyQualitySplit(status QualityStatus, approvedQty, rejectedQty decimal.Decimal) {
	l.QualityStatus = status
	switch {
	case status == QualityApproved:
		l.ApprovedQuantity = l.ReceivedQuantity
		l.RejectedQuantity = decimal.Zero
	case status.CountsAsRejected():
		l.ApprovedQuantity = decimal.Zero
		l.RejectedQuantity = l.ReceivedQuantity
	default:
		l.ApprovedQuantity = approvedQty
		l.RejectedQuantity = rejectedQty
	}
}

// SetBatch records batch tracking details
func (l *LineItem) SetBatch(batchNumber string, expiryDate *time.Time) {
	l.BatchNumber = batchNumber
	l.ExpiryDate = expiryDate
	l.UpdatedAt = time.Now()
}

// SetNotes records free-text condition/inspection notes
func (l *LineItem) SetNotes(notes string) {
	l.Notes = notes
	l.UpdatedAt = time.Now()
}

// Enrich backfills display metadata from the catalog. Enrichment never
// affects quantities or state.
func (l *LineItem) Enrich(canonicalName, imageURL string) {
	if canonicalName != "" {
		l.ItemName = canonicalName
	}
	if imageURL != "" {
		l.ImageURL = imageURL
	}
	l.UpdatedAt = time.Now()
}

// Attribute returns the named descriptive attribute, empty when unset
func (l *LineItem) Attribute(key string) string {
	if l.Attributes == nil {
		return ""
	}
	return l.Attributes[key]
}

// Color returns the descriptive color attribute used for ledger identity
// matching, empty when unset
func (l *LineItem) Color() string {
	return l.Attribute(AttributeColor)
}

// recalculateTotal recomputes LineTotal from the received quantity
func (l *LineItem) recalculateTotal() {
	gross := l.ReceivedQuantity.Mul(l.UnitPrice)
	l.LineTotal = gross.Add(gross.Mul(l.TaxRate)).Round(4)
}

// IsSplitConsistent reports whether the quantity split invariant holds
func (l *LineItem) IsSplitConsistent() bool {
	return l.ApprovedQuantity.Add(l.RejectedQuantity).LessThanOrEqual(l.ReceivedQuantity)
}

// HasApprovedStock returns true if the line contributes stock to consolidate
func (l *LineItem) HasApprovedStock() bool {
	return l.QualityStatus == QualityApproved && l.ApprovedQuantity.GreaterThan(decimal.Zero)
}
