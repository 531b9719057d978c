package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// Common allowed sort fields for entities with base fields
// These are the common fields present in most entities

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// DocumentSortFields contains allowed sort fields for billing documents
var DocumentSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"number":          true,
	"kind":            true,
	"status":          true,
	"issue_date":      true,
	"client_id":       true,
	"currency":        true,
	"subtotal":        true,
	"discount_amount": true,
	"taxable_base":    true,
	"tax_total":       true,
	"grand_total":     true,
}

// ReceiptSortFields contains allowed sort fields for receipts
var ReceiptSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"number":       true,
	"kind":         true,
	"receipt_date": true,
	"client_id":    true,
	"amount":       true,
	"currency":     true,
	"reference":    true,
}

// CreditNoteSortFields contains allowed sort fields for credit notes
var CreditNoteSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"number":         true,
	"status":         true,
	"invoice_id":     true,
	"client_id":      true,
	"amount":         true,
	"applied_amount": true,
}

// BankLineSortFields contains allowed sort fields for bank statement lines
var BankLineSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"line_date":   true,
	"amount":      true,
	"reference":   true,
	"description": true,
}

// AllocationSortFields contains allowed sort fields for allocations
var AllocationSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"document_id": true,
	"source_type": true,
	"source_id":   true,
	"amount":      true,
	"reversed":    true,
}
