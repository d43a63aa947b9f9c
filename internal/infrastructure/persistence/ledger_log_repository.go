package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/shared"
)

// GormLedgerLogRepository implements inventory.LedgerLogRepository using
// GORM. The log is append-only: entries are only ever created, never
// updated or deleted.
type GormLedgerLogRepository struct {
	db *gorm.DB
}

// NewGormLedgerLogRepository creates a new GormLedgerLogRepository
func NewGormLedgerLogRepository(db *gorm.DB) *GormLedgerLogRepository {
	return &GormLedgerLogRepository{db: db}
}

// ExistsForLine reports whether any log entry exists for a receipt line
func (r *GormLedgerLogRepository) ExistsForLine(ctx context.Context, lineID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&inventory.LedgerLogEntry{}).
		Where("line_id = ?", lineID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindByReceipt retrieves all log entries written for a receipt
func (r *GormLedgerLogRepository) FindByReceipt(ctx context.Context, receiptID uuid.UUID) ([]*inventory.LedgerLogEntry, error) {
	var entries []*inventory.LedgerLogEntry
	if err := r.db.WithContext(ctx).
		Where("receipt_id = ?", receiptID).
		Order("created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindByLedgerRow retrieves the mutation history of a ledger row
func (r *GormLedgerLogRepository) FindByLedgerRow(ctx context.Context, ledgerRowID uuid.UUID, filter shared.Filter) ([]*inventory.LedgerLogEntry, error) {
	var entries []*inventory.LedgerLogEntry
	query := r.db.WithContext(ctx).
		Model(&inventory.LedgerLogEntry{}).
		Where("ledger_row_id = ?", ledgerRowID)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if err := query.Order("created_at ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Create appends a log entry
func (r *GormLedgerLogRepository) Create(ctx context.Context, entry *inventory.LedgerLogEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// Ensure GormLedgerLogRepository implements inventory.LedgerLogRepository
var _ inventory.LedgerLogRepository = (*GormLedgerLogRepository)(nil)
