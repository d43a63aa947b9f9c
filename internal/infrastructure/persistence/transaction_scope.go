package persistence

import (
	"context"

	"gorm.io/gorm"

	appreceipt "github.com/wms/backend/internal/application/receipt"
	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/receipt"
)

// GormTransactionScope implements the application transaction scope on a
// GORM database transaction. Every repository handed to the callback is
// bound to the same transaction, so the receipt status write, the ledger
// updates and the ledger log entries of one approving transition commit or
// roll back together.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appreceipt.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories provides transaction-bound repositories
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) ReceiptRepo() receipt.Repository {
	return NewGormReceiptRepository(r.tx)
}

func (r *gormTransactionalRepositories) LedgerRepo() inventory.LedgerRepository {
	return NewGormLedgerRepository(r.tx)
}

func (r *gormTransactionalRepositories) LogRepo() inventory.LedgerLogRepository {
	return NewGormLedgerLogRepository(r.tx)
}

func (r *gormTransactionalRepositories) BinRepo() inventory.BinRepository {
	return NewGormBinRepository(r.tx)
}

// Ensure the interfaces are implemented
var (
	_ appreceipt.TransactionScope          = (*GormTransactionScope)(nil)
	_ appreceipt.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
)
