package receipt

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/wms/backend/internal/domain/shared"
)

// Repository defines the interface for goods receipt persistence
type Repository interface {
	// FindByID finds a receipt with its lines by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Receipt, error)

	// FindByNumber finds a receipt by its receipt number
	FindByNumber(ctx context.Context, receiptNumber string) (*Receipt, error)

	// FindByPurchaseOrder finds all receipts recorded against a purchase order
	FindByPurchaseOrder(ctx context.Context, purchaseOrderID uuid.UUID) ([]Receipt, error)

	// FindAll finds receipts matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Receipt, error)

	// FindByStatus finds receipts with a specific status
	FindByStatus(ctx context.Context, status Status, filter shared.Filter) ([]Receipt, error)

	// FindByDateRange finds receipts within a receipt-date range
	FindByDateRange(ctx context.Context, start, end time.Time, filter shared.Filter) ([]Receipt, error)

	// Save creates or updates a receipt with its lines. On first insert the
	// store assigns the receipt number.
	Save(ctx context.Context, r *Receipt) error

	// SaveWithLock updates the receipt header with a compare-and-set on the
	// version column. Returns shared.ErrConcurrencyConflict when another
	// operation won the race; the caller re-reads and re-validates.
	SaveWithLock(ctx context.Context, r *Receipt) error

	// Count counts receipts matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// GenerateReceiptNumber generates the next receipt number (GRN-YYYY-NNNNN)
	GenerateReceiptNumber(ctx context.Context) (string, error)
}
