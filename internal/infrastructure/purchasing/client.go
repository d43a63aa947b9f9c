package purchasing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/receipt/acl"
	"github.com/wms/backend/internal/infrastructure/config"
)

// maxResponseSize caps a collaborator response at 10MB
const maxResponseSize = 10 * 1024 * 1024

// Client implements acl.PurchasingService against the Purchasing
// collaborator's HTTP API
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a purchasing client from collaborator configuration
func NewClient(cfg config.CollaboratorConfig, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger.Named("purchasing"),
	}
}

type orderLineResponse struct {
	ID         uuid.UUID         `json:"id"`
	ItemKind   string            `json:"item_kind"`
	ItemID     *uuid.UUID        `json:"item_id"`
	ItemCode   string            `json:"item_code"`
	ItemName   string            `json:"item_name"`
	Unit       string            `json:"unit"`
	OrderedQty decimal.Decimal   `json:"ordered_quantity"`
	UnitPrice  decimal.Decimal   `json:"unit_price"`
	TaxRate    decimal.Decimal   `json:"tax_rate"`
	Attributes map[string]string `json:"attributes"`
}

type orderSummaryResponse struct {
	ID           uuid.UUID `json:"id"`
	OrderNumber  string    `json:"order_number"`
	SupplierID   uuid.UUID `json:"supplier_id"`
	SupplierName string    `json:"supplier_name"`
}

// GetOrderLines returns the line items of a purchase order
func (c *Client) GetOrderLines(ctx context.Context, purchaseOrderID uuid.UUID) ([]acl.PurchaseOrderLine, error) {
	url := fmt.Sprintf("%s/api/v1/purchase-orders/%s/lines", c.baseURL, purchaseOrderID)

	var wire []orderLineResponse
	if err := c.getJSON(ctx, url, &wire); err != nil {
		return nil, fmt.Errorf("purchasing: fetching order lines: %w", err)
	}

	lines := make([]acl.PurchaseOrderLine, 0, len(wire))
	for _, w := range wire {
		lines = append(lines, acl.PurchaseOrderLine{
			ID:         w.ID,
			ItemKind:   w.ItemKind,
			ItemID:     w.ItemID,
			ItemCode:   w.ItemCode,
			ItemName:   w.ItemName,
			Unit:       w.Unit,
			OrderedQty: w.OrderedQty,
			UnitPrice:  w.UnitPrice,
			TaxRate:    w.TaxRate,
			Attributes: w.Attributes,
		})
	}
	return lines, nil
}

// GetOpenOrders returns purchase orders not yet fully received
func (c *Client) GetOpenOrders(ctx context.Context) ([]acl.PurchaseOrderSummary, error) {
	url := c.baseURL + "/api/v1/purchase-orders?status=open"

	var wire []orderSummaryResponse
	if err := c.getJSON(ctx, url, &wire); err != nil {
		return nil, fmt.Errorf("purchasing: fetching open orders: %w", err)
	}

	orders := make([]acl.PurchaseOrderSummary, 0, len(wire))
	for _, w := range wire {
		orders = append(orders, acl.PurchaseOrderSummary{
			ID:           w.ID,
			OrderNumber:  w.OrderNumber,
			SupplierID:   w.SupplierID,
			SupplierName: w.SupplierName,
		})
	}
	return orders, nil
}

func (c *Client) getJSON(ctx context.Context, url string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("Collaborator request failed",
			zap.String("url", url),
			zap.Int("status", resp.StatusCode),
		)
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.Unmarshal(body, dest)
}

// Ensure Client implements the purchasing port
var _ acl.PurchasingService = (*Client)(nil)
