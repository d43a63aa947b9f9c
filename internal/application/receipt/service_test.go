package receipt

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/receipt"
	"github.com/wms/backend/internal/domain/receipt/acl"
	"github.com/wms/backend/internal/domain/shared"
)

// MockReceiptRepository is a mock implementation of receipt.Repository
type MockReceiptRepository struct {
	mock.Mock
}

func (m *MockReceiptRepository) FindByID(ctx context.Context, id uuid.UUID) (*receipt.Receipt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*receipt.Receipt), args.Error(1)
}

func (m *MockReceiptRepository) FindByNumber(ctx context.Context, receiptNumber string) (*receipt.Receipt, error) {
	args := m.Called(ctx, receiptNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*receipt.Receipt), args.Error(1)
}

func (m *MockReceiptRepository) FindByPurchaseOrder(ctx context.Context, purchaseOrderID uuid.UUID) ([]receipt.Receipt, error) {
	args := m.Called(ctx, purchaseOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]receipt.Receipt), args.Error(1)
}

func (m *MockReceiptRepository) FindAll(ctx context.Context, filter shared.Filter) ([]receipt.Receipt, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]receipt.Receipt), args.Error(1)
}

func (m *MockReceiptRepository) FindByStatus(ctx context.Context, status receipt.Status, filter shared.Filter) ([]receipt.Receipt, error) {
	args := m.Called(ctx, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]receipt.Receipt), args.Error(1)
}

func (m *MockReceiptRepository) FindByDateRange(ctx context.Context, start, end time.Time, filter shared.Filter) ([]receipt.Receipt, error) {
	args := m.Called(ctx, start, end, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]receipt.Receipt), args.Error(1)
}

func (m *MockReceiptRepository) Save(ctx context.Context, r *receipt.Receipt) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReceiptRepository) SaveWithLock(ctx context.Context, r *receipt.Receipt) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReceiptRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReceiptRepository) GenerateReceiptNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// MockPurchasingService is a mock implementation of acl.PurchasingService
type MockPurchasingService struct {
	mock.Mock
}

func (m *MockPurchasingService) GetOrderLines(ctx context.Context, purchaseOrderID uuid.UUID) ([]acl.PurchaseOrderLine, error) {
	args := m.Called(ctx, purchaseOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]acl.PurchaseOrderLine), args.Error(1)
}

func (m *MockPurchasingService) GetOpenOrders(ctx context.Context) ([]acl.PurchaseOrderSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]acl.PurchaseOrderSummary), args.Error(1)
}

// MockCatalogService is a mock implementation of acl.CatalogService
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) GetItem(ctx context.Context, itemID uuid.UUID) (*acl.ItemEnrichment, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*acl.ItemEnrichment), args.Error(1)
}

func (m *MockCatalogService) FindItemByName(ctx context.Context, name string) (*acl.ItemEnrichment, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*acl.ItemEnrichment), args.Error(1)
}

// stubLedgerRepo is a minimal in-memory inventory.LedgerRepository
type stubLedgerRepo struct {
	rows map[uuid.UUID]*inventory.LedgerRow
}

func newStubLedgerRepo() *stubLedgerRepo {
	return &stubLedgerRepo{rows: make(map[uuid.UUID]*inventory.LedgerRow)}
}

func (s *stubLedgerRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.LedgerRow, error) {
	if row, ok := s.rows[id]; ok {
		return row, nil
	}
	return nil, shared.ErrNotFound
}

func (s *stubLedgerRepo) FindByItemID(_ context.Context, itemID, binID uuid.UUID, status inventory.StockStatus, unit string) (*inventory.LedgerRow, error) {
	for _, row := range s.rows {
		if row.ItemID != nil && *row.ItemID == itemID && row.BinID == binID &&
			row.StockStatus == status && row.Unit == unit {
			return row, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (s *stubLedgerRepo) FindByCodeAndName(_ context.Context, itemCode, itemName string, binID uuid.UUID, status inventory.StockStatus, unit string) ([]*inventory.LedgerRow, error) {
	var out []*inventory.LedgerRow
	for _, row := range s.rows {
		if row.ItemCode == itemCode && row.ItemName == itemName && row.BinID == binID &&
			row.StockStatus == status && row.Unit == unit {
			out = append(out, row)
		}
	}
	return out, nil
}

func (s *stubLedgerRepo) FindByBin(_ context.Context, binID uuid.UUID, _ shared.Filter) ([]*inventory.LedgerRow, error) {
	var out []*inventory.LedgerRow
	for _, row := range s.rows {
		if row.BinID == binID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (s *stubLedgerRepo) FindAll(_ context.Context, _ shared.Filter) ([]*inventory.LedgerRow, error) {
	out := make([]*inventory.LedgerRow, 0, len(s.rows))
	for _, row := range s.rows {
		out = append(out, row)
	}
	return out, nil
}

func (s *stubLedgerRepo) Create(_ context.Context, row *inventory.LedgerRow) error {
	s.rows[row.ID] = row
	return nil
}

func (s *stubLedgerRepo) SaveWithLock(_ context.Context, row *inventory.LedgerRow) error {
	s.rows[row.ID] = row
	return nil
}

func (s *stubLedgerRepo) Count(_ context.Context) (int64, error) {
	return int64(len(s.rows)), nil
}

// stubLogRepo is a minimal in-memory inventory.LedgerLogRepository
type stubLogRepo struct {
	entries []*inventory.LedgerLogEntry
	failing bool
}

func (s *stubLogRepo) ExistsForLine(_ context.Context, lineID uuid.UUID) (bool, error) {
	for _, e := range s.entries {
		if e.LineID == lineID {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubLogRepo) FindByReceipt(_ context.Context, receiptID uuid.UUID) ([]*inventory.LedgerLogEntry, error) {
	var out []*inventory.LedgerLogEntry
	for _, e := range s.entries {
		if e.ReceiptID == receiptID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *stubLogRepo) FindByLedgerRow(_ context.Context, ledgerRowID uuid.UUID, _ shared.Filter) ([]*inventory.LedgerLogEntry, error) {
	var out []*inventory.LedgerLogEntry
	for _, e := range s.entries {
		if e.LedgerRowID == ledgerRowID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *stubLogRepo) Create(_ context.Context, entry *inventory.LedgerLogEntry) error {
	if s.failing {
		return errors.New("log store down")
	}
	s.entries = append(s.entries, entry)
	return nil
}

// stubBinRepo is a minimal in-memory inventory.BinRepository
type stubBinRepo struct {
	bin *inventory.Bin
}

func (s *stubBinRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.Bin, error) {
	if s.bin != nil && s.bin.ID == id {
		return s.bin, nil
	}
	return nil, shared.ErrNotFound
}

func (s *stubBinRepo) FindByCode(_ context.Context, code string) (*inventory.Bin, error) {
	if s.bin != nil && s.bin.Code == code {
		return s.bin, nil
	}
	return nil, shared.ErrNotFound
}

func (s *stubBinRepo) FindActiveByZone(_ context.Context, zone string) (*inventory.Bin, error) {
	if s.bin != nil && s.bin.Zone == zone && s.bin.Active {
		return s.bin, nil
	}
	return nil, shared.ErrNotFound
}

func (s *stubBinRepo) FindAll(_ context.Context, _ shared.Filter) ([]*inventory.Bin, error) {
	if s.bin == nil {
		return nil, nil
	}
	return []*inventory.Bin{s.bin}, nil
}

func (s *stubBinRepo) Save(_ context.Context, bin *inventory.Bin) error {
	s.bin = bin
	return nil
}

// capturePublisher records every published event
type capturePublisher struct {
	events []shared.DomainEvent
}

func (p *capturePublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

type serviceFixture struct {
	service    *ReceiptService
	repo       *MockReceiptRepository
	purchasing *MockPurchasingService
	ledger     *stubLedgerRepo
	log        *stubLogRepo
	bins       *stubBinRepo
	publisher  *capturePublisher
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	repo := new(MockReceiptRepository)
	purchasing := new(MockPurchasingService)
	ledger := newStubLedgerRepo()
	log := &stubLogRepo{}
	bin, err := inventory.NewBin("RCV-01", "Receiving dock", inventory.ZoneReceiving)
	require.NoError(t, err)
	bins := &stubBinRepo{bin: bin}

	scope := NewNoOpTransactionScope(repo, ledger, log, bins)
	service := NewReceiptService(repo, purchasing, scope, inventory.NewActiveReceivingBinPolicy(bins))
	publisher := &capturePublisher{}
	service.SetEventPublisher(publisher)

	return &serviceFixture{
		service:    service,
		repo:       repo,
		purchasing: purchasing,
		ledger:     ledger,
		log:        log,
		bins:       bins,
		publisher:  publisher,
	}
}

func poLine(name, code, unit string, qty int64) acl.PurchaseOrderLine {
	return acl.PurchaseOrderLine{
		ID:         uuid.New(),
		ItemKind:   "FABRIC",
		ItemCode:   code,
		ItemName:   name,
		Unit:       unit,
		OrderedQty: decimal.NewFromInt(qty),
		UnitPrice:  decimal.NewFromInt(10),
		TaxRate:    decimal.NewFromFloat(0.05),
		Attributes: map[string]string{receipt.AttributeColor: "navy"},
	}
}

// inspectedReceipt builds a receipt under inspection with one approved line
func inspectedReceipt(t *testing.T, qty int64) *receipt.Receipt {
	t.Helper()
	r, err := receipt.NewReceipt(uuid.New(), uuid.New(), time.Now(), "Dock 3")
	require.NoError(t, err)

	pl := poLine("Cotton Twill", "FAB-001", "m", qty)
	line, err := r.AddLine(receipt.NewLineItemParams{
		POItemID:   pl.ID,
		ItemKind:   receipt.ItemKind(pl.ItemKind),
		ItemCode:   pl.ItemCode,
		ItemName:   pl.ItemName,
		Unit:       pl.Unit,
		OrderedQty: pl.OrderedQty,
		UnitPrice:  pl.UnitPrice,
		TaxRate:    pl.TaxRate,
		Attributes: pl.Attributes,
	})
	require.NoError(t, err)
	require.NoError(t, r.UpdateLineReceipt(line.ID, decimal.NewFromInt(qty), "", nil, ""))

	actor := receipt.Actor{ID: uuid.New(), Name: "Receiver"}
	require.NoError(t, r.Transition(receipt.StatusReceived, receipt.TransitionParams{Actor: actor}))
	require.NoError(t, r.Transition(receipt.StatusUnderInspection, receipt.TransitionParams{Actor: actor}))
	require.NoError(t, r.ClassifyLine(line.ID, receipt.QualityApproved, decimal.Zero, decimal.Zero))
	r.ClearDomainEvents()
	return r
}

func TestReceiptService_Create(t *testing.T) {
	f := newServiceFixture(t)
	poID := uuid.New()

	f.purchasing.On("GetOrderLines", mock.Anything, poID).Return([]acl.PurchaseOrderLine{
		poLine("Cotton Twill", "FAB-001", "m", 100),
		poLine("Shell Button", "BTN-01", "pcs", 500),
	}, nil)
	f.repo.On("Save", mock.Anything, mock.AnythingOfType("*receipt.Receipt")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*receipt.Receipt).ReceiptNumber = "GRN-2026-00042"
		}).Return(nil)

	resp, err := f.service.Create(context.Background(), CreateReceiptRequest{
		PurchaseOrderID: poID,
		SupplierID:      uuid.New(),
		Location:        "Dock 3",
	})
	require.NoError(t, err)

	assert.Equal(t, "GRN-2026-00042", resp.ReceiptNumber)
	assert.Equal(t, receipt.StatusDraft.String(), resp.Status)
	require.Len(t, resp.Lines, 2)
	assert.True(t, resp.Lines[0].ReceivedQuantity.IsZero())
	assert.Equal(t, receipt.QualityPending.String(), resp.Lines[0].QualityStatus)

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, receipt.EventTypeReceiptCreated, f.publisher.events[0].EventType())
	f.repo.AssertExpectations(t)
}

func TestReceiptService_Create_PurchasingUnavailable(t *testing.T) {
	f := newServiceFixture(t)
	poID := uuid.New()
	f.purchasing.On("GetOrderLines", mock.Anything, poID).Return(nil, errors.New("connection refused"))

	_, err := f.service.Create(context.Background(), CreateReceiptRequest{
		PurchaseOrderID: poID,
		SupplierID:      uuid.New(),
	})
	require.Error(t, err)
	assert.Equal(t, shared.KindCollaboratorFailure, shared.ErrorKindOf(err))
	f.repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestReceiptService_Create_EmptyPurchaseOrder(t *testing.T) {
	f := newServiceFixture(t)
	poID := uuid.New()
	f.purchasing.On("GetOrderLines", mock.Anything, poID).Return([]acl.PurchaseOrderLine{}, nil)

	_, err := f.service.Create(context.Background(), CreateReceiptRequest{
		PurchaseOrderID: poID,
		SupplierID:      uuid.New(),
	})
	require.Error(t, err)
	assert.Equal(t, shared.KindValidation, shared.ErrorKindOf(err))
}

func TestReceiptService_Create_CatalogEnrichment(t *testing.T) {
	f := newServiceFixture(t)
	catalog := new(MockCatalogService)
	f.service.SetCatalogService(catalog)
	poID := uuid.New()

	f.purchasing.On("GetOrderLines", mock.Anything, poID).Return([]acl.PurchaseOrderLine{
		poLine("Cotton Twill", "FAB-001", "m", 100),
	}, nil)
	catalog.On("FindItemByName", mock.Anything, "Cotton Twill").Return(&acl.ItemEnrichment{
		CanonicalName: "Cotton Twill 220gsm",
		ImageURL:      "https://cdn.example.com/fab-001.jpg",
	}, nil)
	f.repo.On("Save", mock.Anything, mock.Anything).Return(nil)

	resp, err := f.service.Create(context.Background(), CreateReceiptRequest{
		PurchaseOrderID: poID,
		SupplierID:      uuid.New(),
	})
	require.NoError(t, err)
	assert.Equal(t, "Cotton Twill 220gsm", resp.Lines[0].ItemName)
	assert.Equal(t, "https://cdn.example.com/fab-001.jpg", resp.Lines[0].ImageURL)
}

func TestReceiptService_Create_CatalogDownDegradesGracefully(t *testing.T) {
	f := newServiceFixture(t)
	catalog := new(MockCatalogService)
	f.service.SetCatalogService(catalog)
	poID := uuid.New()

	f.purchasing.On("GetOrderLines", mock.Anything, poID).Return([]acl.PurchaseOrderLine{
		poLine("Cotton Twill", "FAB-001", "m", 100),
	}, nil)
	catalog.On("FindItemByName", mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))
	f.repo.On("Save", mock.Anything, mock.Anything).Return(nil)

	resp, err := f.service.Create(context.Background(), CreateReceiptRequest{
		PurchaseOrderID: poID,
		SupplierID:      uuid.New(),
	})
	require.NoError(t, err)
	assert.Equal(t, "Cotton Twill", resp.Lines[0].ItemName)
}

func TestReceiptService_Transition_ApprovalConsolidates(t *testing.T) {
	f := newServiceFixture(t)
	r := inspectedReceipt(t, 80)

	f.repo.On("FindByID", mock.Anything, r.ID).Return(r, nil)
	f.repo.On("SaveWithLock", mock.Anything, r).Return(nil)

	resp, results, err := f.service.Transition(context.Background(), r.ID, TransitionRequest{
		TargetStatus: receipt.StatusApproved,
	}, ActorInfo{ID: uuid.New(), Name: "Approver"})
	require.NoError(t, err)

	assert.Equal(t, receipt.StatusApproved.String(), resp.Status)
	require.Len(t, results, 1)
	assert.Equal(t, inventory.LogActionAdded.String(), results[0].Action)
	assert.True(t, results[0].NewQuantity.Equal(decimal.NewFromInt(80)))

	rows, err := f.ledger.FindAll(context.Background(), shared.DefaultFilter())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Quantity.Equal(decimal.NewFromInt(80)))
	assert.Len(t, f.log.entries, 1)

	// Status change plus one ledger update
	require.Len(t, f.publisher.events, 2)
	assert.Equal(t, receipt.EventTypeReceiptStatusChanged, f.publisher.events[0].EventType())
	assert.Equal(t, inventory.EventTypeLedgerUpdated, f.publisher.events[1].EventType())
}

func TestReceiptService_Transition_ConsolidationFailureAbortsApproval(t *testing.T) {
	f := newServiceFixture(t)
	r := inspectedReceipt(t, 80)
	f.log.failing = true

	f.repo.On("FindByID", mock.Anything, r.ID).Return(r, nil)

	_, _, err := f.service.Transition(context.Background(), r.ID, TransitionRequest{
		TargetStatus: receipt.StatusApproved,
	}, ActorInfo{ID: uuid.New(), Name: "Approver"})
	require.Error(t, err)
	assert.Equal(t, shared.KindConsolidationFailure, shared.ErrorKindOf(err))

	// The status write never happened, so nothing was half-approved
	f.repo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	assert.Empty(t, f.publisher.events)
}

func TestReceiptService_Transition_NonApprovingSkipsLedger(t *testing.T) {
	f := newServiceFixture(t)
	r, err := receipt.NewReceipt(uuid.New(), uuid.New(), time.Now(), "")
	require.NoError(t, err)
	_, err = r.AddLine(receipt.NewLineItemParams{
		POItemID: uuid.New(), ItemKind: receipt.ItemKindItem, ItemName: "Zipper",
		Unit: "pcs", OrderedQty: decimal.NewFromInt(10),
		UnitPrice: decimal.NewFromInt(1), TaxRate: decimal.Zero,
	})
	require.NoError(t, err)
	r.ClearDomainEvents()

	f.repo.On("FindByID", mock.Anything, r.ID).Return(r, nil)
	f.repo.On("SaveWithLock", mock.Anything, r).Return(nil)

	resp, results, err := f.service.Transition(context.Background(), r.ID, TransitionRequest{
		TargetStatus: receipt.StatusReceived,
	}, ActorInfo{ID: uuid.New(), Name: "Receiver"})
	require.NoError(t, err)

	assert.Equal(t, receipt.StatusReceived.String(), resp.Status)
	assert.Empty(t, results)
	assert.Empty(t, f.log.entries)
}

func TestReceiptService_Transition_ConcurrencyConflictSurfaces(t *testing.T) {
	f := newServiceFixture(t)
	r := inspectedReceipt(t, 80)

	f.repo.On("FindByID", mock.Anything, r.ID).Return(r, nil)
	f.repo.On("SaveWithLock", mock.Anything, r).Return(shared.ErrConcurrencyConflict)

	_, _, err := f.service.Transition(context.Background(), r.ID, TransitionRequest{
		TargetStatus: receipt.StatusApproved,
	}, ActorInfo{ID: uuid.New(), Name: "Approver"})
	require.Error(t, err)
	assert.Equal(t, shared.KindConcurrencyConflict, shared.ErrorKindOf(err))
}

func TestReceiptService_Consolidate_Resume(t *testing.T) {
	f := newServiceFixture(t)
	r := inspectedReceipt(t, 80)

	f.repo.On("FindByID", mock.Anything, r.ID).Return(r, nil)
	f.repo.On("SaveWithLock", mock.Anything, r).Return(nil)

	_, first, err := f.service.Transition(context.Background(), r.ID, TransitionRequest{
		TargetStatus: receipt.StatusApproved,
	}, ActorInfo{ID: uuid.New(), Name: "Approver"})
	require.NoError(t, err)
	require.Len(t, first, 1)
	require.False(t, first[0].Skipped)

	// Rerunning consolidation on an approved receipt touches nothing
	second, err := f.service.Consolidate(context.Background(), r.ID)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.True(t, second[0].Skipped)
	assert.Len(t, f.log.entries, 1)
}

func TestReceiptService_Consolidate_RequiresApprovedStatus(t *testing.T) {
	f := newServiceFixture(t)
	r := inspectedReceipt(t, 80)

	f.repo.On("FindByID", mock.Anything, r.ID).Return(r, nil)

	_, err := f.service.Consolidate(context.Background(), r.ID)
	require.Error(t, err)
	assert.Equal(t, shared.KindPreconditionNotMet, shared.ErrorKindOf(err))
}

func TestReceiptService_Transition_NoReceivingBin(t *testing.T) {
	f := newServiceFixture(t)
	r := inspectedReceipt(t, 80)
	f.bins.bin.Deactivate()

	f.repo.On("FindByID", mock.Anything, r.ID).Return(r, nil)

	_, _, err := f.service.Transition(context.Background(), r.ID, TransitionRequest{
		TargetStatus: receipt.StatusApproved,
	}, ActorInfo{ID: uuid.New(), Name: "Approver"})
	require.Error(t, err)
	assert.ErrorContains(t, err, "receiving bin")
	f.repo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}

func TestReceiptService_UpdateLine(t *testing.T) {
	f := newServiceFixture(t)
	r, err := receipt.NewReceipt(uuid.New(), uuid.New(), time.Now(), "")
	require.NoError(t, err)
	line, err := r.AddLine(receipt.NewLineItemParams{
		POItemID: uuid.New(), ItemKind: receipt.ItemKindItem, ItemName: "Zipper",
		Unit: "pcs", OrderedQty: decimal.NewFromInt(10),
		UnitPrice: decimal.NewFromInt(2), TaxRate: decimal.Zero,
	})
	require.NoError(t, err)

	f.repo.On("FindByID", mock.Anything, r.ID).Return(r, nil)
	f.repo.On("SaveWithLock", mock.Anything, r).Return(nil)

	resp, err := f.service.UpdateLine(context.Background(), r.ID, line.ID, UpdateLineRequest{
		ReceivedQuantity: decimal.NewFromInt(9),
		BatchNumber:      "B-7731",
	})
	require.NoError(t, err)
	assert.True(t, resp.Lines[0].ReceivedQuantity.Equal(decimal.NewFromInt(9)))
	assert.Equal(t, "B-7731", resp.Lines[0].BatchNumber)
	assert.Equal(t, 1, resp.Totals.ItemsReceived)
}

func TestReceiptService_ClassifyLine(t *testing.T) {
	f := newServiceFixture(t)
	r := inspectedReceipt(t, 50)
	lineID := r.Lines[0].ID

	f.repo.On("FindByID", mock.Anything, r.ID).Return(r, nil)
	f.repo.On("SaveWithLock", mock.Anything, r).Return(nil)

	resp, err := f.service.ClassifyLine(context.Background(), r.ID, lineID, ClassifyLineRequest{
		QualityStatus:    receipt.QualityPending,
		ApprovedQuantity: decimal.NewFromInt(30),
		RejectedQuantity: decimal.NewFromInt(20),
		Notes:            "10 rolls need recount",
	})
	require.NoError(t, err)
	assert.True(t, resp.Lines[0].ApprovedQuantity.Equal(decimal.NewFromInt(30)))
	assert.True(t, resp.Lines[0].RejectedQuantity.Equal(decimal.NewFromInt(20)))
	assert.Equal(t, "10 rolls need recount", resp.Lines[0].Notes)
}
