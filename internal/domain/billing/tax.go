package billing

import (
	"context"

	"github.com/facturio/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TaxKind represents how a tax contributes to a document total
type TaxKind string

const (
	TaxKindPercentage TaxKind = "PERCENTAGE" // Rate applied to the taxable base
	TaxKindFixed      TaxKind = "FIXED"      // Flat amount, independent of base
)

// IsValid checks if the kind is a valid TaxKind
func (k TaxKind) IsValid() bool {
	switch k {
	case TaxKindPercentage, TaxKindFixed:
		return true
	}
	return false
}

// String returns the string representation of TaxKind
func (k TaxKind) String() string {
	return string(k)
}

// Tax is a read-only tax definition supplied by external tax configuration.
// The calculator consumes it as-is and never persists or mutates it.
type Tax struct {
	ID     uuid.UUID       `json:"id"`
	Name   string          `json:"name"`
	Kind   TaxKind         `json:"kind"`
	Value  decimal.Decimal `json:"value"` // Percentage: 0-100. Fixed: monetary amount.
	Active bool            `json:"active"`
}

// Validate checks that the tax definition is usable by the calculator
func (t Tax) Validate() error {
	if t.ID == uuid.Nil {
		return shared.NewDomainError("INVALID_TAX", "Tax ID cannot be empty")
	}
	if !t.Kind.IsValid() {
		return shared.NewDomainError("INVALID_TAX", "Tax kind must be PERCENTAGE or FIXED")
	}
	if t.Kind == TaxKindPercentage {
		if t.Value.IsNegative() || t.Value.GreaterThan(decimal.NewFromInt(100)) {
			return shared.NewDomainError("INVALID_TAX", "Percentage tax rate must be between 0 and 100")
		}
	}
	return nil
}

// TaxProvider resolves tax definitions from external tax configuration
type TaxProvider interface {
	// TaxesByIDs returns the tax definitions for the given IDs.
	// Unknown or inactive IDs are omitted from the result.
	TaxesByIDs(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) ([]Tax, error)
}

// ClientDirectory resolves client identifiers against the external directory
type ClientDirectory interface {
	// ClientExists reports whether the client is known to the directory
	ClientExists(ctx context.Context, companyID, clientID uuid.UUID) (bool, error)
}
