package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/shared"
)

// GormBinRepository implements inventory.BinRepository using GORM
type GormBinRepository struct {
	db *gorm.DB
}

// NewGormBinRepository creates a new GormBinRepository
func NewGormBinRepository(db *gorm.DB) *GormBinRepository {
	return &GormBinRepository{db: db}
}

// FindByID retrieves a bin by its ID
func (r *GormBinRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Bin, error) {
	var bin inventory.Bin
	if err := r.db.WithContext(ctx).First(&bin, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &bin, nil
}

// FindByCode retrieves a bin by its unique code
func (r *GormBinRepository) FindByCode(ctx context.Context, code string) (*inventory.Bin, error) {
	var bin inventory.Bin
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&bin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &bin, nil
}

// FindActiveByZone retrieves the oldest active bin of a zone, so repeated
// resolution is stable when several bins are configured
func (r *GormBinRepository) FindActiveByZone(ctx context.Context, zone string) (*inventory.Bin, error) {
	var bin inventory.Bin
	if err := r.db.WithContext(ctx).
		Where("zone = ? AND active = ?", zone, true).
		Order("created_at ASC").
		First(&bin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &bin, nil
}

// FindAll retrieves bins with pagination
func (r *GormBinRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*inventory.Bin, error) {
	var bins []*inventory.Bin
	query := r.db.WithContext(ctx).Model(&inventory.Bin{})

	for key, value := range filter.Filters {
		switch key {
		case "zone":
			query = query.Where("zone = ?", value)
		case "active":
			query = query.Where("active = ?", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	sortField := ValidateSortField(filter.OrderBy, BinSortFields, "code")
	if err := query.Order(sortField + " " + ValidateSortOrder(filter.OrderDir)).Find(&bins).Error; err != nil {
		return nil, err
	}
	return bins, nil
}

// Save persists a bin
func (r *GormBinRepository) Save(ctx context.Context, bin *inventory.Bin) error {
	return r.db.WithContext(ctx).Save(bin).Error
}

// Ensure GormBinRepository implements inventory.BinRepository
var _ inventory.BinRepository = (*GormBinRepository)(nil)
