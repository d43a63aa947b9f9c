package receipt

import (
	"context"

	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/receipt"
)

// TransactionScope provides transactional access to the repositories a
// receipt operation touches. When a function is executed within a
// transaction scope, all repository operations are part of the same
// database transaction and commit or roll back atomically.
//
// Approving transitions depend on this: the status write, the ledger
// updates and the ledger log entries of one transition must land in a
// single transaction, or a crash could approve a receipt whose stock was
// never booked.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all repositories within a
// transaction. All repositories returned share the same underlying
// database transaction.
type TransactionalRepositories interface {
	// ReceiptRepo returns the goods receipt repository scoped to the current transaction
	ReceiptRepo() receipt.Repository
	// LedgerRepo returns the inventory ledger repository scoped to the current transaction
	LedgerRepo() inventory.LedgerRepository
	// LogRepo returns the ledger log repository scoped to the current transaction
	LogRepo() inventory.LedgerLogRepository
	// BinRepo returns the storage bin repository scoped to the current transaction
	BinRepo() inventory.BinRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. This is useful for testing or when transaction support is
// not required.
type NoOpTransactionScope struct {
	receiptRepo receipt.Repository
	ledgerRepo  inventory.LedgerRepository
	logRepo     inventory.LedgerLogRepository
	binRepo     inventory.BinRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	receiptRepo receipt.Repository,
	ledgerRepo inventory.LedgerRepository,
	logRepo inventory.LedgerLogRepository,
	binRepo inventory.BinRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		receiptRepo: receiptRepo,
		ledgerRepo:  ledgerRepo,
		logRepo:     logRepo,
		binRepo:     binRepo,
	}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ReceiptRepo returns the goods receipt repository.
func (s *NoOpTransactionScope) ReceiptRepo() receipt.Repository {
	return s.receiptRepo
}

// LedgerRepo returns the inventory ledger repository.
func (s *NoOpTransactionScope) LedgerRepo() inventory.LedgerRepository {
	return s.ledgerRepo
}

// LogRepo returns the ledger log repository.
func (s *NoOpTransactionScope) LogRepo() inventory.LedgerLogRepository {
	return s.logRepo
}

// BinRepo returns the storage bin repository.
func (s *NoOpTransactionScope) BinRepo() inventory.BinRepository {
	return s.binRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
