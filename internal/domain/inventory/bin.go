package inventory

import (
	"context"
	"time"

	"github.com/wms/backend/internal/domain/shared"
)

// Zone names within the warehouse
const (
	ZoneReceiving = "RECEIVING"
	ZoneStorage   = "STORAGE"
)

// Bin is a named physical storage location within a warehouse zone
type Bin struct {
	shared.BaseEntity
	Code   string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name   string `gorm:"type:varchar(200);not null"`
	Zone   string `gorm:"type:varchar(50);not null;index"`
	Active bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Bin) TableName() string {
	return "storage_bins"
}

// NewBin creates a new storage bin
func NewBin(code, name, zone string) (*Bin, error) {
	if code == "" {
		return nil, shared.NewValidationError("INVALID_BIN_CODE", "Bin code cannot be empty", "code")
	}
	if zone == "" {
		return nil, shared.NewValidationError("INVALID_ZONE", "Bin zone cannot be empty", "zone")
	}
	return &Bin{
		BaseEntity: shared.NewBaseEntity(),
		Code:       code,
		Name:       name,
		Zone:       zone,
		Active:     true,
	}, nil
}

// Deactivate takes the bin out of service
func (b *Bin) Deactivate() {
	b.Active = false
	b.UpdatedAt = time.Now()
}

// ReceivingBinResolver resolves the target bin for newly received stock.
// Resolution failure is a hard error: consolidation must not silently drop
// items.
type ReceivingBinResolver interface {
	// ResolveReceivingBin returns the bin newly received stock lands in
	ResolveReceivingBin(ctx context.Context) (*Bin, error)
}

// ActiveReceivingBinPolicy resolves the single active bin of the receiving
// zone. Zero candidates is an error; with several, the oldest active bin
// wins so the choice is stable.
type ActiveReceivingBinPolicy struct {
	bins BinRepository
}

// NewActiveReceivingBinPolicy creates the default receiving-bin policy
func NewActiveReceivingBinPolicy(bins BinRepository) *ActiveReceivingBinPolicy {
	return &ActiveReceivingBinPolicy{bins: bins}
}

// ResolveReceivingBin implements ReceivingBinResolver
func (p *ActiveReceivingBinPolicy) ResolveReceivingBin(ctx context.Context) (*Bin, error) {
	bin, err := p.bins.FindActiveByZone(ctx, ZoneReceiving)
	if err != nil {
		return nil, shared.NewDomainError(shared.KindValidation, "NO_RECEIVING_BIN",
			"No active receiving bin is configured")
	}
	return bin, nil
}

// Ensure the policy implements the resolver
var _ ReceivingBinResolver = (*ActiveReceivingBinPolicy)(nil)
