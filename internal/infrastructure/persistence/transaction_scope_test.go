package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	appreceipt "github.com/wms/backend/internal/application/receipt"
	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/receipt"
	"github.com/wms/backend/internal/domain/shared"
)

// newTestDB opens an in-memory SQLite database with the full schema
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&receipt.Receipt{},
		&receipt.LineItem{},
		&inventory.LedgerRow{},
		&inventory.LedgerLogEntry{},
		&inventory.Bin{},
	))
	return db
}

// approvedReceipt builds a receipt walked through the inspection workflow
// up to the point just before the approving transition
func approvedReceipt(t *testing.T, db *gorm.DB) (*receipt.Receipt, receipt.Actor) {
	t.Helper()
	ctx := context.Background()
	repo := NewGormReceiptRepository(db)
	actor := receipt.Actor{ID: uuid.New(), Name: "inspector"}

	rec, err := receipt.NewReceipt(uuid.New(), uuid.New(), time.Now(), "Dock 3")
	require.NoError(t, err)
	line, err := rec.AddLine(receipt.NewLineItemParams{
		POItemID:   uuid.New(),
		ItemKind:   receipt.ItemKindFabric,
		ItemCode:   "FAB-001",
		ItemName:   "Cotton Twill",
		Unit:       "m",
		OrderedQty: decimal.NewFromInt(100),
		UnitPrice:  decimal.NewFromFloat(12.50),
		TaxRate:    decimal.NewFromFloat(0.10),
		Attributes: map[string]string{receipt.AttributeColor: "navy"},
	})
	require.NoError(t, err)

	require.NoError(t, rec.Transition(receipt.StatusReceived, receipt.TransitionParams{Actor: actor}))
	require.NoError(t, rec.UpdateLineReceipt(line.ID, decimal.NewFromInt(80), "", nil, ""))
	require.NoError(t, rec.ClassifyLine(line.ID, receipt.QualityApproved, decimal.Zero, decimal.Zero))
	require.NoError(t, rec.Transition(receipt.StatusUnderInspection, receipt.TransitionParams{Actor: actor}))
	require.NoError(t, repo.Save(ctx, rec))

	return rec, actor
}

func seedReceivingBin(t *testing.T, db *gorm.DB) *inventory.Bin {
	t.Helper()
	bin, err := inventory.NewBin("RCV-01", "Receiving dock", inventory.ZoneReceiving)
	require.NoError(t, err)
	require.NoError(t, NewGormBinRepository(db).Save(context.Background(), bin))
	return bin
}

func toConsolidationLines(rec *receipt.Receipt) []inventory.ConsolidationLine {
	lines := make([]inventory.ConsolidationLine, 0)
	for _, l := range rec.ApprovedLines() {
		lines = append(lines, inventory.ConsolidationLine{
			LineID:    l.ID,
			ItemKind:  l.ItemKind.String(),
			ItemID:    l.ItemID,
			ItemCode:  l.ItemCode,
			ItemName:  l.ItemName,
			Attribute: l.Color(),
			Unit:      l.Unit,
			Quantity:  l.ApprovedQuantity,
		})
	}
	return lines
}

func TestGormTransactionScope_ApprovalCommitsStatusAndLedgerTogether(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	scope := NewGormTransactionScope(db)
	engine := inventory.NewConsolidationService()

	bin := seedReceivingBin(t, db)
	rec, actor := approvedReceipt(t, db)
	require.NoError(t, rec.Transition(receipt.StatusApproved, receipt.TransitionParams{Actor: actor}))

	err := scope.Execute(ctx, func(repos appreceipt.TransactionalRepositories) error {
		_, err := engine.Consolidate(ctx, inventory.ConsolidationRepositories{
			Ledger: repos.LedgerRepo(),
			Log:    repos.LogRepo(),
		}, rec.ID, bin, toConsolidationLines(rec))
		if err != nil {
			return err
		}
		return repos.ReceiptRepo().SaveWithLock(ctx, rec)
	})
	require.NoError(t, err)

	// Status and ledger landed together
	stored, err := NewGormReceiptRepository(db).FindByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, receipt.StatusApproved, stored.Status)

	rows, err := NewGormLedgerRepository(db).FindByBin(ctx, bin.ID, defaultTestFilter())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Quantity.Equal(decimal.NewFromInt(80)))

	exists, err := NewGormLedgerLogRepository(db).ExistsForLine(ctx, rec.Lines[0].ID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestGormTransactionScope_FailureRollsBackEverything(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	scope := NewGormTransactionScope(db)
	engine := inventory.NewConsolidationService()

	bin := seedReceivingBin(t, db)
	rec, actor := approvedReceipt(t, db)
	require.NoError(t, rec.Transition(receipt.StatusApproved, receipt.TransitionParams{Actor: actor}))

	boom := errors.New("collaborator exploded")
	err := scope.Execute(ctx, func(repos appreceipt.TransactionalRepositories) error {
		_, err := engine.Consolidate(ctx, inventory.ConsolidationRepositories{
			Ledger: repos.LedgerRepo(),
			Log:    repos.LogRepo(),
		}, rec.ID, bin, toConsolidationLines(rec))
		if err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	// Nothing escaped the transaction
	rows, err := NewGormLedgerRepository(db).FindByBin(ctx, bin.ID, defaultTestFilter())
	require.NoError(t, err)
	assert.Empty(t, rows)

	exists, err := NewGormLedgerLogRepository(db).ExistsForLine(ctx, rec.Lines[0].ID)
	require.NoError(t, err)
	assert.False(t, exists)

	stored, err := NewGormReceiptRepository(db).FindByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, receipt.StatusUnderInspection, stored.Status)
}

func TestGormTransactionScope_ReplayIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	scope := NewGormTransactionScope(db)
	engine := inventory.NewConsolidationService()

	bin := seedReceivingBin(t, db)
	rec, actor := approvedReceipt(t, db)
	require.NoError(t, rec.Transition(receipt.StatusApproved, receipt.TransitionParams{Actor: actor}))

	run := func() ([]inventory.ConsolidationResult, error) {
		var results []inventory.ConsolidationResult
		err := scope.Execute(ctx, func(repos appreceipt.TransactionalRepositories) error {
			var err error
			results, err = engine.Consolidate(ctx, inventory.ConsolidationRepositories{
				Ledger: repos.LedgerRepo(),
				Log:    repos.LogRepo(),
			}, rec.ID, bin, toConsolidationLines(rec))
			return err
		})
		return results, err
	}

	first, err := run()
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, inventory.LogActionAdded, first[0].Action)

	second, err := run()
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.True(t, second[0].Skipped)

	rows, err := NewGormLedgerRepository(db).FindByBin(ctx, bin.ID, defaultTestFilter())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Quantity.Equal(decimal.NewFromInt(80)), "replay must not double-count")
}

func defaultTestFilter() shared.Filter {
	return shared.DefaultFilter()
}
