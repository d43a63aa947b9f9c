package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appinventory "github.com/wms/backend/internal/application/inventory"
	"github.com/wms/backend/internal/interfaces/http/dto"
)

// InventoryHandler handles consolidated inventory query endpoints
type InventoryHandler struct {
	BaseHandler
	service *appinventory.InventoryQueryService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(service *appinventory.InventoryQueryService) *InventoryHandler {
	return &InventoryHandler{service: service}
}

// RegisterRoutes registers inventory routes on the API group
func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	inv := rg.Group("/inventory")
	{
		inv.GET("/ledger", h.ListLedgerRows)
		inv.GET("/ledger/:id", h.GetLedgerRow)
		inv.GET("/ledger/:id/history", h.GetRowHistory)
		inv.GET("/bins", h.ListBins)
	}

	rg.GET("/receipts/:id/ledger-log", h.GetReceiptLog)
}

type listLedgerRequest struct {
	dto.ListRequest
	BinID string `form:"bin_id" binding:"omitempty,uuid"`
}

func (r listLedgerRequest) toFilter() appinventory.ListFilter {
	filter := appinventory.ListFilter{
		Page:     r.Page,
		PageSize: r.PageSize,
		OrderBy:  r.OrderBy,
		OrderDir: r.OrderDir,
		Search:   r.Search,
	}
	if r.BinID != "" {
		id, _ := uuid.Parse(r.BinID)
		filter.BinID = &id
	}
	return filter
}

// ListLedgerRows lists consolidated ledger rows with filtering
func (h *InventoryHandler) ListLedgerRows(c *gin.Context) {
	var req listLedgerRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	rows, total, err := h.service.ListLedgerRows(c.Request.Context(), req.toFilter())
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
	h.SuccessWithMeta(c, rows, total, page, pageSize)
}

// GetLedgerRow retrieves a single ledger row
func (h *InventoryHandler) GetLedgerRow(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	row, err := h.service.GetLedgerRow(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, row)
}

// GetRowHistory returns the append-only log entries for one ledger row,
// newest first
func (h *InventoryHandler) GetRowHistory(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req listLedgerRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	entries, err := h.service.GetRowHistory(c.Request.Context(), id, req.toFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entries)
}

// GetReceiptLog returns every ledger log entry written for a receipt,
// useful for auditing what a consolidation run actually did
func (h *InventoryHandler) GetReceiptLog(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	entries, err := h.service.GetReceiptLog(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entries)
}

// ListBins lists storage bins
func (h *InventoryHandler) ListBins(c *gin.Context) {
	var req listLedgerRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	bins, err := h.service.ListBins(c.Request.Context(), req.toFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, bins)
}
