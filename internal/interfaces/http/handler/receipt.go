package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appreceipt "github.com/wms/backend/internal/application/receipt"
	"github.com/wms/backend/internal/domain/receipt"
	"github.com/wms/backend/internal/interfaces/http/dto"
	"github.com/wms/backend/internal/interfaces/http/middleware"
)

// ReceiptHandler handles goods receipt API endpoints
type ReceiptHandler struct {
	BaseHandler
	service *appreceipt.ReceiptService
}

// NewReceiptHandler creates a new ReceiptHandler
func NewReceiptHandler(service *appreceipt.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{service: service}
}

// RegisterRoutes registers receipt routes on the API group
func (h *ReceiptHandler) RegisterRoutes(rg *gin.RouterGroup) {
	receipts := rg.Group("/receipts")
	{
		receipts.POST("", h.Create)
		receipts.GET("", h.List)
		receipts.GET("/:id", h.GetByID)
		receipts.GET("/number/:number", h.GetByNumber)
		receipts.PUT("/:id/lines/:lineId", h.UpdateLine)
		receipts.PUT("/:id/lines/:lineId/classification", h.ClassifyLine)
		receipts.POST("/:id/transition", h.Transition)
		receipts.POST("/:id/consolidation", h.Consolidate)
	}

	orders := rg.Group("/purchase-orders")
	{
		orders.GET("/open", h.ListOpenOrders)
		orders.GET("/:id/receipts", h.ListByPurchaseOrder)
	}
}

type createReceiptRequest struct {
	PurchaseOrderID string     `json:"purchase_order_id" binding:"required,uuid"`
	SupplierID      string     `json:"supplier_id" binding:"required,uuid"`
	ReceiptDate     *time.Time `json:"receipt_date"`
	Location        string     `json:"location" binding:"max=200"`
}

// Create creates a draft receipt seeded from a purchase order
func (h *ReceiptHandler) Create(c *gin.Context) {
	var req createReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	purchaseOrderID, _ := uuid.Parse(req.PurchaseOrderID)
	supplierID, _ := uuid.Parse(req.SupplierID)

	response, err := h.service.Create(c.Request.Context(), appreceipt.CreateReceiptRequest{
		PurchaseOrderID: purchaseOrderID,
		SupplierID:      supplierID,
		ReceiptDate:     req.ReceiptDate,
		Location:        req.Location,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, response)
}

type listReceiptsRequest struct {
	dto.ListRequest
	Status          string `form:"status"`
	PurchaseOrderID string `form:"purchase_order_id" binding:"omitempty,uuid"`
	SupplierID      string `form:"supplier_id" binding:"omitempty,uuid"`
	StartDate       string `form:"start_date"`
	EndDate         string `form:"end_date"`
}

// List retrieves receipts with filtering and pagination
func (h *ReceiptHandler) List(c *gin.Context) {
	var req listReceiptsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	filter := appreceipt.ListFilter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
		Search:   req.Search,
	}
	if req.Status != "" {
		status := receipt.Status(req.Status)
		if !status.IsValid() {
			h.BadRequest(c, "Unknown receipt status: "+req.Status)
			return
		}
		filter.Status = &status
	}
	if req.PurchaseOrderID != "" {
		id, _ := uuid.Parse(req.PurchaseOrderID)
		filter.PurchaseOrderID = &id
	}
	if req.SupplierID != "" {
		id, _ := uuid.Parse(req.SupplierID)
		filter.SupplierID = &id
	}
	if req.StartDate != "" {
		t, err := parseDateTime(req.StartDate)
		if err != nil {
			h.BadRequest(c, "Invalid start_date")
			return
		}
		filter.StartDate = &t
	}
	if req.EndDate != "" {
		t, err := parseDateTime(req.EndDate)
		if err != nil {
			h.BadRequest(c, "Invalid end_date")
			return
		}
		filter.EndDate = &t
	}

	items, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page, pageSize := req.Page, req.PageSize
	if page == 0 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, items, total, page, pageSize)
}

// GetByID retrieves a receipt by ID
func (h *ReceiptHandler) GetByID(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	response, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, response)
}

// GetByNumber retrieves a receipt by its receipt number
func (h *ReceiptHandler) GetByNumber(c *gin.Context) {
	number := c.Param("number")
	if number == "" {
		h.BadRequest(c, "Receipt number is required")
		return
	}

	response, err := h.service.GetByNumber(c.Request.Context(), number)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, response)
}

// ListOpenOrders returns purchase orders still open for receiving
func (h *ReceiptHandler) ListOpenOrders(c *gin.Context) {
	orders, err := h.service.ListOpenPurchaseOrders(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, orders)
}

// ListByPurchaseOrder retrieves all receipts recorded against a purchase order
func (h *ReceiptHandler) ListByPurchaseOrder(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	items, err := h.service.ListByPurchaseOrder(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// UpdateLine records received quantity and batch details on one line
func (h *ReceiptHandler) UpdateLine(c *gin.Context) {
	receiptID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	lineID, ok := h.parseUUIDParam(c, "lineId")
	if !ok {
		return
	}

	var req appreceipt.UpdateLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	response, err := h.service.UpdateLine(c.Request.Context(), receiptID, lineID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, response)
}

// ClassifyLine sets the quality disposition of one line
func (h *ReceiptHandler) ClassifyLine(c *gin.Context) {
	receiptID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	lineID, ok := h.parseUUIDParam(c, "lineId")
	if !ok {
		return
	}

	var req appreceipt.ClassifyLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	response, err := h.service.ClassifyLine(c.Request.Context(), receiptID, lineID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, response)
}

type transitionResponse struct {
	Receipt       *appreceipt.ReceiptResponse              `json:"receipt"`
	Consolidation []appreceipt.ConsolidationResultResponse `json:"consolidation,omitempty"`
}

// Transition moves a receipt to a target lifecycle status. The actor is
// taken from the authenticated token, never from the request body.
func (h *ReceiptHandler) Transition(c *gin.Context) {
	receiptID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	actorID := middleware.GetActorID(c)
	if actorID == uuid.Nil {
		h.Unauthorized(c, "Authenticated actor required for lifecycle transitions")
		return
	}

	var req appreceipt.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	receiptResp, results, err := h.service.Transition(c.Request.Context(), receiptID, req, appreceipt.ActorInfo{
		ID:   actorID,
		Name: middleware.GetActorName(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, transitionResponse{Receipt: receiptResp, Consolidation: results})
}

// Consolidate reruns consolidation for an approved receipt whose ledger
// work failed part-way. Safe to call at any time.
func (h *ReceiptHandler) Consolidate(c *gin.Context) {
	receiptID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	results, err := h.service.Consolidate(c.Request.Context(), receiptID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, results)
}

// parseDateTime parses a datetime in RFC3339 or plain date form
func parseDateTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
