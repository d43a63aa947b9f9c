package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/shared"
)

// GormLedgerRepository implements inventory.LedgerRepository using GORM
type GormLedgerRepository struct {
	db *gorm.DB
}

// NewGormLedgerRepository creates a new GormLedgerRepository
func NewGormLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

// FindByID retrieves a ledger row by its ID
func (r *GormLedgerRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.LedgerRow, error) {
	var row inventory.LedgerRow
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

// FindByItemID retrieves the live row for a catalog item identity
func (r *GormLedgerRepository) FindByItemID(ctx context.Context, itemID, binID uuid.UUID, status inventory.StockStatus, unit string) (*inventory.LedgerRow, error) {
	var row inventory.LedgerRow
	if err := r.db.WithContext(ctx).
		Where("item_id = ? AND bin_id = ? AND stock_status = ? AND unit = ?", itemID, binID, status, unit).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

// FindByCodeAndName retrieves candidate rows matching code and name in a bin,
// status and unit. Attribute compatibility is decided by the caller.
func (r *GormLedgerRepository) FindByCodeAndName(ctx context.Context, itemCode, itemName string, binID uuid.UUID, status inventory.StockStatus, unit string) ([]*inventory.LedgerRow, error) {
	var rows []*inventory.LedgerRow
	if err := r.db.WithContext(ctx).
		Where("item_code = ? AND item_name = ? AND bin_id = ? AND stock_status = ? AND unit = ?",
			itemCode, itemName, binID, status, unit).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByBin retrieves rows in a bin with pagination
func (r *GormLedgerRepository) FindByBin(ctx context.Context, binID uuid.UUID, filter shared.Filter) ([]*inventory.LedgerRow, error) {
	var rows []*inventory.LedgerRow
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.LedgerRow{}).Where("bin_id = ?", binID),
		filter,
	)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindAll retrieves ledger rows with pagination
func (r *GormLedgerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*inventory.LedgerRow, error) {
	var rows []*inventory.LedgerRow
	query := r.applyFilter(r.db.WithContext(ctx).Model(&inventory.LedgerRow{}), filter)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Create persists a new ledger row
func (r *GormLedgerRepository) Create(ctx context.Context, row *inventory.LedgerRow) error {
	return r.db.WithContext(ctx).Create(row).Error
}

// SaveWithLock persists a modified row with an optimistic lock on its
// version column
func (r *GormLedgerRepository) SaveWithLock(ctx context.Context, row *inventory.LedgerRow) error {
	result := r.db.WithContext(ctx).
		Model(&inventory.LedgerRow{}).
		Where("id = ? AND version = ?", row.ID, row.Version-1).
		Updates(map[string]interface{}{
			"quantity":   row.Quantity,
			"version":    row.Version,
			"updated_at": row.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Count returns the total number of ledger rows
func (r *GormLedgerRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&inventory.LedgerRow{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GetLedgerRowCount implements telemetry.LedgerMetricsProvider
func (r *GormLedgerRepository) GetLedgerRowCount(ctx context.Context) (int64, error) {
	return r.Count(ctx)
}

func (r *GormLedgerRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "stock_status":
			query = query.Where("stock_status = ?", value)
		case "item_kind":
			query = query.Where("item_kind = ?", value)
		case "unit":
			query = query.Where("unit = ?", value)
		}
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("item_name ILIKE ? OR item_code ILIKE ?", pattern, pattern)
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	sortField := ValidateSortField(filter.OrderBy, LedgerRowSortFields, "created_at")
	return query.Order(sortField + " " + ValidateSortOrder(filter.OrderDir))
}

// Ensure GormLedgerRepository implements inventory.LedgerRepository
var _ inventory.LedgerRepository = (*GormLedgerRepository)(nil)
