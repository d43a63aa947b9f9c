package persistence

import "strings"

// Sort field whitelists per table. Order-by clauses are built by string
// concatenation, so every sortable column must be listed here.
var (
	ReceiptSortFields = map[string]bool{
		"created_at":     true,
		"updated_at":     true,
		"receipt_number": true,
		"receipt_date":   true,
		"status":         true,
	}

	LedgerRowSortFields = map[string]bool{
		"created_at": true,
		"updated_at": true,
		"item_name":  true,
		"item_code":  true,
		"quantity":   true,
	}

	BinSortFields = map[string]bool{
		"created_at": true,
		"code":       true,
		"zone":       true,
	}
)

// ValidateSortField returns the field when whitelisted, otherwise the fallback
func ValidateSortField(field string, allowed map[string]bool, fallback string) string {
	if allowed[field] {
		return field
	}
	return fallback
}

// ValidateSortOrder normalizes a sort direction to ASC or DESC
func ValidateSortOrder(dir string) string {
	if strings.EqualFold(dir, "asc") {
		return "ASC"
	}
	return "DESC"
}
