package receipt

import (
	"github.com/google/uuid"

	"github.com/wms/backend/internal/domain/shared"
)

// Event types for the receipt aggregate
const (
	EventTypeReceiptCreated       = "receipt.created"
	EventTypeReceiptStatusChanged = "receipt.status_changed"
)

// AggregateTypeReceipt is the aggregate type name used in events
const AggregateTypeReceipt = "GoodsReceipt"

// ReceiptCreatedEvent is emitted when a new goods receipt is created
type ReceiptCreatedEvent struct {
	shared.BaseDomainEvent
	ReceiptNumber   string    `json:"receipt_number"`
	PurchaseOrderID uuid.UUID `json:"purchase_order_id"`
	SupplierID      uuid.UUID `json:"supplier_id"`
	LineCount       int       `json:"line_count"`
}

// NewReceiptCreatedEvent creates a new ReceiptCreatedEvent
func NewReceiptCreatedEvent(r *Receipt) *ReceiptCreatedEvent {
	return &ReceiptCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReceiptCreated, AggregateTypeReceipt, r.ID),
		ReceiptNumber:   r.ReceiptNumber,
		PurchaseOrderID: r.PurchaseOrderID,
		SupplierID:      r.SupplierID,
		LineCount:       len(r.Lines),
	}
}

// ReceiptStatusChangedEvent is emitted on every successful lifecycle
// transition. Interested collaborators (notifications, reporting) subscribe
// to it; the core never depends on their outcome.
type ReceiptStatusChangedEvent struct {
	shared.BaseDomainEvent
	ReceiptNumber string    `json:"receipt_number"`
	FromStatus    Status    `json:"from_status"`
	ToStatus      Status    `json:"to_status"`
	ActorID       uuid.UUID `json:"actor_id"`
	ActorName     string    `json:"actor_name,omitempty"`
	Totals        Totals    `json:"totals"`
}

// NewReceiptStatusChangedEvent creates a new ReceiptStatusChangedEvent
func NewReceiptStatusChangedEvent(r *Receipt, from, to Status, actor Actor) *ReceiptStatusChangedEvent {
	return &ReceiptStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReceiptStatusChanged, AggregateTypeReceipt, r.ID),
		ReceiptNumber:   r.ReceiptNumber,
		FromStatus:      from,
		ToStatus:        to,
		ActorID:         actor.ID,
		ActorName:       actor.Name,
		Totals:          r.Totals,
	}
}
