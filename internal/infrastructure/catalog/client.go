package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/receipt/acl"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/infrastructure/config"
)

const maxResponseSize = 1 * 1024 * 1024

// Client implements acl.CatalogService against the Catalog collaborator's
// HTTP API. Lookups are best-effort; callers proceed without enrichment
// when the catalog is unreachable.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a catalog client from collaborator configuration
func NewClient(cfg config.CollaboratorConfig, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger.Named("catalog"),
	}
}

type itemResponse struct {
	Name         string `json:"name"`
	ImageURL     string `json:"image_url"`
	CurrentStock string `json:"current_stock"`
}

// GetItem looks up enrichment by catalog item reference
func (c *Client) GetItem(ctx context.Context, itemID uuid.UUID) (*acl.ItemEnrichment, error) {
	endpoint := fmt.Sprintf("%s/api/v1/items/%s", c.baseURL, itemID)

	var wire itemResponse
	if err := c.getJSON(ctx, endpoint, &wire); err != nil {
		return nil, err
	}
	return &acl.ItemEnrichment{
		CanonicalName: wire.Name,
		ImageURL:      wire.ImageURL,
		CurrentStock:  wire.CurrentStock,
	}, nil
}

// FindItemByName looks up enrichment by fuzzy name match. The collaborator
// returns its best match or 404.
func (c *Client) FindItemByName(ctx context.Context, name string) (*acl.ItemEnrichment, error) {
	endpoint := fmt.Sprintf("%s/api/v1/items/search?name=%s", c.baseURL, url.QueryEscape(name))

	var wire itemResponse
	if err := c.getJSON(ctx, endpoint, &wire); err != nil {
		return nil, err
	}
	return &acl.ItemEnrichment{
		CanonicalName: wire.Name,
		ImageURL:      wire.ImageURL,
		CurrentStock:  wire.CurrentStock,
	}, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
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

	switch resp.StatusCode {
	case http.StatusOK:
		return json.Unmarshal(body, dest)
	case http.StatusNotFound:
		return shared.ErrNotFound
	default:
		c.logger.Warn("Catalog request failed",
			zap.String("url", endpoint),
			zap.Int("status", resp.StatusCode),
		)
		return fmt.Errorf("catalog: unexpected status %d", resp.StatusCode)
	}
}

// Ensure Client implements the catalog port
var _ acl.CatalogService = (*Client)(nil)
