package receipt

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/receipt"
	"github.com/wms/backend/internal/domain/receipt/acl"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/infrastructure/telemetry"
)

// ReceiptService handles goods receipt business operations
type ReceiptService struct {
	receiptRepo     receipt.Repository
	purchasing      acl.PurchasingService
	catalog         acl.CatalogService
	txScope         TransactionScope
	binResolver     inventory.ReceivingBinResolver
	consolidation   *inventory.ConsolidationService
	eventPublisher  shared.EventPublisher
	businessMetrics *telemetry.BusinessMetrics
}

// NewReceiptService creates a new ReceiptService
func NewReceiptService(
	receiptRepo receipt.Repository,
	purchasing acl.PurchasingService,
	txScope TransactionScope,
	binResolver inventory.ReceivingBinResolver,
) *ReceiptService {
	return &ReceiptService{
		receiptRepo:   receiptRepo,
		purchasing:    purchasing,
		txScope:       txScope,
		binResolver:   binResolver,
		consolidation: inventory.NewConsolidationService(),
	}
}

// SetCatalogService sets the optional catalog enrichment collaborator
func (s *ReceiptService) SetCatalogService(catalog acl.CatalogService) {
	s.catalog = catalog
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ReceiptService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetBusinessMetrics sets the business metrics collector
func (s *ReceiptService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// Create creates a draft goods receipt seeded from the purchase order's
// line items. The purchasing collaborator is required here: without its
// lines there is nothing to receive against.
func (s *ReceiptService) Create(ctx context.Context, req CreateReceiptRequest) (*ReceiptResponse, error) {
	poLines, err := s.purchasing.GetOrderLines(ctx, req.PurchaseOrderID)
	if err != nil {
		return nil, shared.NewDomainError(shared.KindCollaboratorFailure, "PURCHASING_UNAVAILABLE",
			fmt.Sprintf("Could not load purchase order lines: %v", err))
	}
	if len(poLines) == 0 {
		return nil, shared.NewValidationError("EMPTY_PURCHASE_ORDER",
			"Purchase order has no lines to receive", req.PurchaseOrderID.String())
	}

	receiptDate := time.Now()
	if req.ReceiptDate != nil {
		receiptDate = *req.ReceiptDate
	}

	r, err := receipt.NewReceipt(req.PurchaseOrderID, req.SupplierID, receiptDate, req.Location)
	if err != nil {
		return nil, err
	}

	for _, pl := range poLines {
		line, err := r.AddLine(receipt.NewLineItemParams{
			POItemID:   pl.ID,
			ItemKind:   receipt.ItemKind(pl.ItemKind),
			ItemID:     pl.ItemID,
			ItemCode:   pl.ItemCode,
			ItemName:   pl.ItemName,
			Unit:       pl.Unit,
			OrderedQty: pl.OrderedQty,
			UnitPrice:  pl.UnitPrice,
			TaxRate:    pl.TaxRate,
			Attributes: pl.Attributes,
		})
		if err != nil {
			return nil, err
		}
		s.enrichLine(ctx, line)
	}

	if err := s.receiptRepo.Save(ctx, r); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, r.GetDomainEvents())
	r.ClearDomainEvents()

	if s.businessMetrics != nil {
		s.businessMetrics.RecordReceiptCreated(ctx, r.LineCount())
	}

	response := ToReceiptResponse(r)
	return &response, nil
}

// ListOpenPurchaseOrders returns purchase orders still open for receiving
func (s *ReceiptService) ListOpenPurchaseOrders(ctx context.Context) ([]acl.PurchaseOrderSummary, error) {
	orders, err := s.purchasing.GetOpenOrders(ctx)
	if err != nil {
		return nil, shared.NewDomainError(shared.KindCollaboratorFailure, "PURCHASING_UNAVAILABLE",
			fmt.Sprintf("Could not load open purchase orders: %v", err))
	}
	return orders, nil
}

// GetByID retrieves a receipt by ID
func (s *ReceiptService) GetByID(ctx context.Context, receiptID uuid.UUID) (*ReceiptResponse, error) {
	r, err := s.receiptRepo.FindByID(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	response := ToReceiptResponse(r)
	return &response, nil
}

// GetByNumber retrieves a receipt by its receipt number
func (s *ReceiptService) GetByNumber(ctx context.Context, receiptNumber string) (*ReceiptResponse, error) {
	r, err := s.receiptRepo.FindByNumber(ctx, receiptNumber)
	if err != nil {
		return nil, err
	}
	response := ToReceiptResponse(r)
	return &response, nil
}

// List retrieves receipts with filtering and pagination
func (s *ReceiptService) List(ctx context.Context, filter ListFilter) ([]ReceiptListItemResponse, int64, error) {
	domainFilter := s.toDomainFilter(filter)

	receipts, err := s.receiptRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.receiptRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToReceiptListItemResponses(receipts), total, nil
}

// ListByPurchaseOrder retrieves all receipts recorded against a purchase order
func (s *ReceiptService) ListByPurchaseOrder(ctx context.Context, purchaseOrderID uuid.UUID) ([]ReceiptListItemResponse, error) {
	receipts, err := s.receiptRepo.FindByPurchaseOrder(ctx, purchaseOrderID)
	if err != nil {
		return nil, err
	}
	return ToReceiptListItemResponses(receipts), nil
}

// UpdateLine records received quantity and batch details on one line
func (s *ReceiptService) UpdateLine(ctx context.Context, receiptID, lineID uuid.UUID, req UpdateLineRequest) (*ReceiptResponse, error) {
	r, err := s.receiptRepo.FindByID(ctx, receiptID)
	if err != nil {
		return nil, err
	}

	if err := r.UpdateLineReceipt(lineID, req.ReceivedQuantity, req.BatchNumber, req.ExpiryDate, req.Notes); err != nil {
		return nil, err
	}

	if err := s.receiptRepo.SaveWithLock(ctx, r); err != nil {
		return nil, err
	}

	response := ToReceiptResponse(r)
	return &response, nil
}

// ClassifyLine sets the quality disposition of one line
func (s *ReceiptService) ClassifyLine(ctx context.Context, receiptID, lineID uuid.UUID, req ClassifyLineRequest) (*ReceiptResponse, error) {
	r, err := s.receiptRepo.FindByID(ctx, receiptID)
	if err != nil {
		return nil, err
	}

	if err := r.ClassifyLine(lineID, req.QualityStatus, req.ApprovedQuantity, req.RejectedQuantity); err != nil {
		return nil, err
	}
	if req.Notes != "" {
		r.GetLine(lineID).SetNotes(req.Notes)
	}

	if err := s.receiptRepo.SaveWithLock(ctx, r); err != nil {
		return nil, err
	}

	response := ToReceiptResponse(r)
	return &response, nil
}

// Transition moves a receipt to a target lifecycle status. On an approving
// transition the approved lines are folded into the inventory ledger in
// the same transaction as the status write, so the receipt can never end
// up approved with its stock unbooked. Domain events go out only after
// the transaction has committed.
func (s *ReceiptService) Transition(ctx context.Context, receiptID uuid.UUID, req TransitionRequest, actor ActorInfo) (*ReceiptResponse, []ConsolidationResultResponse, error) {
	r, err := s.receiptRepo.FindByID(ctx, receiptID)
	if err != nil {
		return nil, nil, err
	}

	if req.InspectionNotes != "" {
		r.SetInspectionNotes(req.InspectionNotes)
	}

	if err := r.Transition(req.TargetStatus, receipt.TransitionParams{
		Actor:           receipt.Actor{ID: actor.ID, Name: actor.Name},
		RejectionReason: req.RejectionReason,
	}); err != nil {
		return nil, nil, err
	}

	var results []inventory.ConsolidationResult
	if req.TargetStatus.TriggersConsolidation() {
		bin, err := s.binResolver.ResolveReceivingBin(ctx)
		if err != nil {
			return nil, nil, err
		}
		lines := toConsolidationLines(r.ApprovedLines())

		err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
			var txErr error
			results, txErr = s.consolidation.Consolidate(ctx, inventory.ConsolidationRepositories{
				Ledger: repos.LedgerRepo(),
				Log:    repos.LogRepo(),
			}, r.ID, bin, lines)
			if txErr != nil {
				return txErr
			}
			return repos.ReceiptRepo().SaveWithLock(ctx, r)
		})
		if err != nil {
			return nil, nil, err
		}
	} else {
		if err := s.receiptRepo.SaveWithLock(ctx, r); err != nil {
			return nil, nil, err
		}
	}

	events := r.GetDomainEvents()
	for _, res := range results {
		if !res.Skipped {
			events = append(events, inventory.NewLedgerUpdatedEvent(r.ID, res))
		}
	}
	s.publishEvents(ctx, events)
	r.ClearDomainEvents()

	if s.businessMetrics != nil {
		s.businessMetrics.RecordReceiptTransition(ctx, req.TargetStatus.String())
		for _, res := range results {
			if !res.Skipped {
				s.businessMetrics.RecordConsolidation(ctx, res.Action.String())
			}
		}
	}

	response := ToReceiptResponse(r)
	return &response, ToConsolidationResultResponses(results), nil
}

// Consolidate reruns consolidation for a receipt whose approving
// transition committed but whose ledger work failed part-way. Lines that
// already have a log entry are skipped, so the rerun is safe at any time.
func (s *ReceiptService) Consolidate(ctx context.Context, receiptID uuid.UUID) ([]ConsolidationResultResponse, error) {
	r, err := s.receiptRepo.FindByID(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	if !r.Status.TriggersConsolidation() {
		return nil, shared.NewDomainError(shared.KindPreconditionNotMet, "NOT_APPROVED",
			"Only approved or partially approved receipts can be consolidated")
	}

	bin, err := s.binResolver.ResolveReceivingBin(ctx)
	if err != nil {
		return nil, err
	}
	lines := toConsolidationLines(r.ApprovedLines())

	var results []inventory.ConsolidationResult
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var txErr error
		results, txErr = s.consolidation.Consolidate(ctx, inventory.ConsolidationRepositories{
			Ledger: repos.LedgerRepo(),
			Log:    repos.LogRepo(),
		}, r.ID, bin, lines)
		return txErr
	})
	if err != nil {
		return nil, err
	}

	events := make([]shared.DomainEvent, 0, len(results))
	for _, res := range results {
		if !res.Skipped {
			events = append(events, inventory.NewLedgerUpdatedEvent(r.ID, res))
		}
	}
	s.publishEvents(ctx, events)

	return ToConsolidationResultResponses(results), nil
}

// enrichLine backfills display metadata from the catalog. Failures are
// swallowed: enrichment never blocks receiving.
func (s *ReceiptService) enrichLine(ctx context.Context, line *receipt.LineItem) {
	if s.catalog == nil {
		return
	}

	var enrichment *acl.ItemEnrichment
	var err error
	if line.ItemID != nil {
		enrichment, err = s.catalog.GetItem(ctx, *line.ItemID)
	} else {
		enrichment, err = s.catalog.FindItemByName(ctx, line.ItemName)
	}
	if err != nil || enrichment == nil {
		return
	}
	line.Enrich(enrichment.CanonicalName, enrichment.ImageURL)
}

func (s *ReceiptService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	// Best-effort: a failed notification never unwinds committed state
	_ = s.eventPublisher.Publish(ctx, events...)
}

func (s *ReceiptService) toDomainFilter(filter ListFilter) shared.Filter {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search

	if filter.Status != nil {
		domainFilter.Filters["status"] = string(*filter.Status)
	}
	if filter.PurchaseOrderID != nil {
		domainFilter.Filters["purchase_order_id"] = *filter.PurchaseOrderID
	}
	if filter.SupplierID != nil {
		domainFilter.Filters["supplier_id"] = *filter.SupplierID
	}
	if filter.StartDate != nil {
		domainFilter.Filters["start_date"] = *filter.StartDate
	}
	if filter.EndDate != nil {
		domainFilter.Filters["end_date"] = *filter.EndDate
	}
	return domainFilter
}

func toConsolidationLines(lines []receipt.LineItem) []inventory.ConsolidationLine {
	out := make([]inventory.ConsolidationLine, 0, len(lines))
	for i := range lines {
		l := &lines[i]
		out = append(out, inventory.ConsolidationLine{
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
	return out
}
