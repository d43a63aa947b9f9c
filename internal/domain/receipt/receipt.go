package receipt

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/shared"
)

// Status represents the lifecycle status of a goods receipt
type Status string

const (
	StatusDraft             Status = "DRAFT"
	StatusReceived          Status = "RECEIVED"
	StatusUnderInspection   Status = "UNDER_INSPECTION"
	StatusApproved          Status = "APPROVED"
	StatusRejected          Status = "REJECTED"
	StatusPartiallyApproved Status = "PARTIALLY_APPROVED"
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusReceived, StatusUnderInspection,
		StatusApproved, StatusRejected, StatusPartiallyApproved:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusDraft:
		return target == StatusReceived
	case StatusReceived:
		return target == StatusUnderInspection || target == StatusApproved || target == StatusRejected
	case StatusUnderInspection:
		return target == StatusApproved || target == StatusRejected || target == StatusPartiallyApproved
	case StatusPartiallyApproved:
		return target == StatusApproved || target == StatusRejected
	case StatusApproved, StatusRejected:
		return false // Terminal states
	}
	return false
}

// IsTerminal returns true for terminal statuses
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// TriggersConsolidation returns true if entering this status merges
// approved lines into the inventory ledger
func (s Status) TriggersConsolidation() bool {
	return s == StatusApproved || s == StatusPartiallyApproved
}

// Actor identifies the user performing an operation. Identity is always
// passed explicitly into operations that stamp identity fields.
type Actor struct {
	ID   uuid.UUID
	Name string
}

// Receipt is the goods receipt note (GRN) aggregate root: the header plus
// its line items, the unit of work for one inspection workflow against a
// single purchase order and supplier.
type Receipt struct {
	shared.BaseAggregateRoot
	ReceiptNumber    string     `gorm:"type:varchar(50);uniqueIndex"` // assigned by the store on insert
	PurchaseOrderID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	SupplierID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	Status           Status     `gorm:"type:varchar(30);not null;default:'DRAFT'"`
	ReceiptDate      time.Time  `gorm:"not null"`
	ReceivedDate     *time.Time `gorm:""`
	ReceivedLocation string     `gorm:"type:varchar(200)"`
	ReceivedBy       *uuid.UUID `gorm:"type:uuid"`
	InspectorID      *uuid.UUID `gorm:"type:uuid"`
	InspectionDate   *time.Time `gorm:""`
	ApproverID       *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt       *time.Time `gorm:""`
	RejectionReason  string     `gorm:"type:varchar(500)"`
	InspectionNotes  string     `gorm:"type:text"`
	Totals           Totals     `gorm:"embedded;embeddedPrefix:total_"`
	Lines            []LineItem `gorm:"foreignKey:ReceiptID;references:ID"`
}

// TableName returns the table name for GORM
func (Receipt) TableName() string {
	return "goods_receipts"
}

// NewReceipt creates a new goods receipt in draft status. The receipt
// number stays empty until the store assigns it on insert.
func NewReceipt(purchaseOrderID, supplierID uuid.UUID, receiptDate time.Time, location string) (*Receipt, error) {
	if purchaseOrderID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_PURCHASE_ORDER", "Purchase order reference cannot be empty", "purchase_order_id")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_SUPPLIER", "Supplier reference cannot be empty", "supplier_id")
	}
	if receiptDate.IsZero() {
		receiptDate = time.Now()
	}

	r := &Receipt{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PurchaseOrderID:   purchaseOrderID,
		SupplierID:        supplierID,
		Status:            StatusDraft,
		ReceiptDate:       receiptDate,
		ReceivedLocation:  location,
		Lines:             make([]LineItem, 0),
	}

	r.AddDomainEvent(NewReceiptCreatedEvent(r))
	return r, nil
}

// AddLine adds a line item seeded from a purchase order line.
// Only allowed while the receipt is in draft.
func (r *Receipt) AddLine(p NewLineItemParams) (*LineItem, error) {
	if r.Status != StatusDraft {
		return nil, shared.NewDomainError(shared.KindValidation, "INVALID_STATE", "Cannot add lines to a non-draft receipt")
	}
	for i := range r.Lines {
		if r.Lines[i].POItemID == p.POItemID {
			return nil, shared.NewValidationError("DUPLICATE_PO_ITEM", "Purchase order line already present on receipt", p.POItemID.String())
		}
	}

	line, err := NewLineItem(r.ID, p)
	if err != nil {
		return nil, err
	}

	r.Lines = append(r.Lines, *line)
	r.recalculateTotals()
	r.touch()
	return &r.Lines[len(r.Lines)-1], nil
}

// UpdateLineReceipt records the actual received quantity and batch details
// for a line. Rejected once the receipt has reached a terminal status.
func (r *Receipt) UpdateLineReceipt(lineID uuid.UUID, quantity decimal.Decimal, batchNumber string, expiryDate *time.Time, notes string) error {
	if r.Status.IsTerminal() {
		return shared.NewDomainError(shared.KindValidation, "RECEIPT_FINALIZED", "Line items are immutable once the receipt is finalized")
	}

	line := r.line(lineID)
	if line == nil {
		return shared.ErrNotFound.WithRef(lineID.String())
	}

	if err := line.SetReceivedQuantity(quantity); err != nil {
		return err
	}
	if batchNumber != "" || expiryDate != nil {
		line.SetBatch(batchNumber, expiryDate)
	}
	if notes != "" {
		line.SetNotes(notes)
	}

	r.recalculateTotals()
	r.touch()
	return nil
}

// ClassifyLine sets a line's quality disposition and recomputes the derived
// quantity split and the header totals. This never touches the inventory
// ledger; only consolidation does, on a successful approving transition.
func (r *Receipt) ClassifyLine(lineID uuid.UUID, status QualityStatus, approvedQty, rejectedQty decimal.Decimal) error {
	if r.Status.IsTerminal() {
		return shared.NewDomainError(shared.KindValidation, "RECEIPT_FINALIZED", "Line items are immutable once the receipt is finalized")
	}

	line := r.line(lineID)
	if line == nil {
		return shared.ErrNotFound.WithRef(lineID.String())
	}

	if err := line.Classify(status, approvedQty, rejectedQty); err != nil {
		return err
	}

	r.recalculateTotals()
	r.touch()
	return nil
}

// SetInspectionNotes records free-text inspection notes on the header
func (r *Receipt) SetInspectionNotes(notes string) {
	r.InspectionNotes = notes
	r.touch()
}

// TransitionParams carries the actor and transition-specific inputs
type TransitionParams struct {
	Actor           Actor
	RejectionReason string
}

// Transition validates and applies a lifecycle transition. A target not
// reachable per the transition table fails with an invalid-transition
// error; a table-valid target whose quality-disposition precondition fails
// returns a distinct precondition-not-met error. On success the relevant
// identity and timestamp stamps are applied and a status-changed event is
// recorded. Consolidation of approved lines is orchestrated by the caller
// in the same unit of work as the status write.
func (r *Receipt) Transition(target Status, p TransitionParams) error {
	if !target.IsValid() {
		return shared.NewValidationError("INVALID_STATUS", "Unknown receipt status", target.String())
	}
	if !r.Status.CanTransitionTo(target) {
		return shared.NewDomainError(shared.KindInvalidTransition, "INVALID_TRANSITION",
			fmt.Sprintf("Cannot transition receipt from %s to %s", r.Status, target))
	}
	if p.Actor.ID == uuid.Nil {
		return shared.NewValidationError("INVALID_ACTOR", "Actor identity is required", "actor")
	}

	if target.TriggersConsolidation() && !r.hasApprovedLine() {
		return shared.NewDomainError(shared.KindPreconditionNotMet, "NO_APPROVED_LINES",
			"At least one line must be quality-approved before approving the receipt")
	}
	if target == StatusRejected && !r.hasRejectedLine() {
		return shared.NewDomainError(shared.KindPreconditionNotMet, "NO_REJECTED_LINES",
			"At least one line must be rejected or damaged before rejecting the receipt")
	}

	from := r.Status
	now := time.Now()

	switch target {
	case StatusReceived:
		r.ReceivedDate = &now
		actorID := p.Actor.ID
		r.ReceivedBy = &actorID
	case StatusUnderInspection:
		actorID := p.Actor.ID
		r.InspectorID = &actorID
		r.InspectionDate = &now
	case StatusApproved, StatusRejected:
		actorID := p.Actor.ID
		r.ApproverID = &actorID
		r.ApprovedAt = &now
		if target == StatusRejected {
			r.RejectionReason = p.RejectionReason
		}
	}

	r.Status = target
	r.touch()

	r.AddDomainEvent(NewReceiptStatusChangedEvent(r, from, target, p.Actor))
	return nil
}

// ApprovedLines returns the lines whose approved quantity feeds the
// inventory ledger
func (r *Receipt) ApprovedLines() []LineItem {
	lines := make([]LineItem, 0)
	for i := range r.Lines {
		if r.Lines[i].HasApprovedStock() {
			lines = append(lines, r.Lines[i])
		}
	}
	return lines
}

// GetLine returns a line item by its ID
func (r *Receipt) GetLine(lineID uuid.UUID) *LineItem {
	return r.line(lineID)
}

// LineCount returns the number of line items
func (r *Receipt) LineCount() int {
	return len(r.Lines)
}

// IsTerminal returns true if the receipt is in a terminal status
func (r *Receipt) IsTerminal() bool {
	return r.Status.IsTerminal()
}

func (r *Receipt) line(lineID uuid.UUID) *LineItem {
	for i := range r.Lines {
		if r.Lines[i].ID == lineID {
			return &r.Lines[i]
		}
	}
	return nil
}

func (r *Receipt) hasApprovedLine() bool {
	for i := range r.Lines {
		if r.Lines[i].QualityStatus == QualityApproved {
			return true
		}
	}
	return false
}

func (r *Receipt) hasRejectedLine() bool {
	for i := range r.Lines {
		if r.Lines[i].QualityStatus.CountsAsRejected() {
			return true
		}
	}
	return false
}

func (r *Receipt) recalculateTotals() {
	r.Totals = CalculateTotals(r.Lines)
}

func (r *Receipt) touch() {
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}
