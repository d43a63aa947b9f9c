package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/receipt"
	"github.com/wms/backend/internal/domain/shared"
)

// GormReceiptRepository implements receipt.Repository using GORM
type GormReceiptRepository struct {
	db *gorm.DB
}

// NewGormReceiptRepository creates a new GormReceiptRepository
func NewGormReceiptRepository(db *gorm.DB) *GormReceiptRepository {
	return &GormReceiptRepository{db: db}
}

// FindByID finds a receipt with its lines by ID
func (r *GormReceiptRepository) FindByID(ctx context.Context, id uuid.UUID) (*receipt.Receipt, error) {
	var rec receipt.Receipt
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// FindByNumber finds a receipt by its receipt number
func (r *GormReceiptRepository) FindByNumber(ctx context.Context, receiptNumber string) (*receipt.Receipt, error) {
	var rec receipt.Receipt
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("receipt_number = ?", receiptNumber).
		First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// FindByPurchaseOrder finds all receipts recorded against a purchase order
func (r *GormReceiptRepository) FindByPurchaseOrder(ctx context.Context, purchaseOrderID uuid.UUID) ([]receipt.Receipt, error) {
	var receipts []receipt.Receipt
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("purchase_order_id = ?", purchaseOrderID).
		Order("created_at DESC").
		Find(&receipts).Error; err != nil {
		return nil, err
	}
	return receipts, nil
}

// FindAll finds receipts matching the filter
func (r *GormReceiptRepository) FindAll(ctx context.Context, filter shared.Filter) ([]receipt.Receipt, error) {
	var receipts []receipt.Receipt
	query := r.applyFilter(r.db.WithContext(ctx).Model(&receipt.Receipt{}), filter)
	if err := query.Preload("Lines").Find(&receipts).Error; err != nil {
		return nil, err
	}
	return receipts, nil
}

// FindByStatus finds receipts with a specific status
func (r *GormReceiptRepository) FindByStatus(ctx context.Context, status receipt.Status, filter shared.Filter) ([]receipt.Receipt, error) {
	var receipts []receipt.Receipt
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&receipt.Receipt{}).Where("status = ?", status),
		filter,
	)
	if err := query.Preload("Lines").Find(&receipts).Error; err != nil {
		return nil, err
	}
	return receipts, nil
}

// FindByDateRange finds receipts within a receipt-date range
func (r *GormReceiptRepository) FindByDateRange(ctx context.Context, start, end time.Time, filter shared.Filter) ([]receipt.Receipt, error) {
	var receipts []receipt.Receipt
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&receipt.Receipt{}).
			Where("receipt_date >= ? AND receipt_date <= ?", start, end),
		filter,
	)
	if err := query.Preload("Lines").Find(&receipts).Error; err != nil {
		return nil, err
	}
	return receipts, nil
}

// Save creates or updates a receipt with its lines. On first insert the
// store assigns the receipt number.
func (r *GormReceiptRepository) Save(ctx context.Context, rec *receipt.Receipt) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if rec.ReceiptNumber == "" {
			number, err := generateReceiptNumber(ctx, tx)
			if err != nil {
				return err
			}
			rec.ReceiptNumber = number
		}

		if err := tx.Omit("Lines").Save(rec).Error; err != nil {
			// Concurrent inserts can compute the same next number and
			// collide on the unique index. Surface it as a retryable
			// conflict and clear the number so a retry regenerates it.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				taken := rec.ReceiptNumber
				rec.ReceiptNumber = ""
				return shared.NewDomainError(shared.KindConflict, "RECEIPT_NUMBER_CONFLICT",
					"Receipt number was assigned concurrently, retry the request").WithRef(taken)
			}
			return err
		}
		return saveLines(tx, rec)
	})
}

// SaveWithLock updates the receipt header with a compare-and-set on the
// version column. The domain increments the version before saving, so the
// predicate checks against Version-1.
func (r *GormReceiptRepository) SaveWithLock(ctx context.Context, rec *receipt.Receipt) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&receipt.Receipt{}).
			Where("id = ? AND version = ?", rec.ID, rec.Version-1).
			Updates(map[string]interface{}{
				"status":                rec.Status,
				"received_date":         rec.ReceivedDate,
				"received_by":           rec.ReceivedBy,
				"inspector_id":          rec.InspectorID,
				"inspection_date":       rec.InspectionDate,
				"approver_id":           rec.ApproverID,
				"approved_at":           rec.ApprovedAt,
				"rejection_reason":      rec.RejectionReason,
				"inspection_notes":      rec.InspectionNotes,
				"total_items_received":  rec.Totals.ItemsReceived,
				"total_items_approved":  rec.Totals.ItemsApproved,
				"total_items_rejected":  rec.Totals.ItemsRejected,
				"total_amount_received": rec.Totals.AmountReceived,
				"total_amount_approved": rec.Totals.AmountApproved,
				"version":               rec.Version,
				"updated_at":            rec.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		return saveLines(tx, rec)
	})
}

// Count counts receipts matching the filter
func (r *GormReceiptRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&receipt.Receipt{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GenerateReceiptNumber generates the next receipt number (GRN-YYYY-NNNNN)
func (r *GormReceiptRepository) GenerateReceiptNumber(ctx context.Context) (string, error) {
	return generateReceiptNumber(ctx, r.db)
}

func generateReceiptNumber(ctx context.Context, db *gorm.DB) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("GRN-%d-", year)

	var lastNumbers []string
	err := db.WithContext(ctx).
		Model(&receipt.Receipt{}).
		Where("receipt_number LIKE ?", prefix+"%").
		Order("receipt_number DESC").
		Limit(1).
		Pluck("receipt_number", &lastNumbers).Error
	if err != nil {
		return "", err
	}

	var nextNum int64 = 1
	if len(lastNumbers) > 0 && lastNumbers[0] != "" {
		parts := strings.Split(lastNumbers[0], "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}
	return fmt.Sprintf("%s%05d", prefix, nextNum), nil
}

// saveLines reconciles the line items of a receipt: lines removed from the
// aggregate are deleted, the rest are upserted.
func saveLines(tx *gorm.DB, rec *receipt.Receipt) error {
	currentIDs := make([]uuid.UUID, len(rec.Lines))
	for i := range rec.Lines {
		currentIDs[i] = rec.Lines[i].ID
	}

	if len(currentIDs) > 0 {
		if err := tx.Where("receipt_id = ? AND id NOT IN ?", rec.ID, currentIDs).
			Delete(&receipt.LineItem{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("receipt_id = ?", rec.ID).
			Delete(&receipt.LineItem{}).Error; err != nil {
			return err
		}
	}

	for i := range rec.Lines {
		rec.Lines[i].ReceiptID = rec.ID
		if err := tx.Save(&rec.Lines[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *GormReceiptRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	sortField := ValidateSortField(filter.OrderBy, ReceiptSortFields, "created_at")
	query = query.Order(sortField + " " + ValidateSortOrder(filter.OrderDir))
	return query
}

func (r *GormReceiptRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("receipt_number ILIKE ?", "%"+filter.Search+"%")
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "purchase_order_id":
			query = query.Where("purchase_order_id = ?", value)
		case "supplier_id":
			query = query.Where("supplier_id = ?", value)
		case "start_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("receipt_date >= ?", t)
			}
		case "end_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("receipt_date <= ?", t)
			}
		}
	}
	return query
}

// Ensure GormReceiptRepository implements receipt.Repository
var _ receipt.Repository = (*GormReceiptRepository)(nil)
