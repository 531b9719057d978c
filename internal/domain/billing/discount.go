package billing

import (
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DiscountKind represents how a discount reduces the subtotal
type DiscountKind string

const (
	DiscountKindPercentage DiscountKind = "PERCENTAGE" // Percentage of the subtotal
	DiscountKindAmount     DiscountKind = "AMOUNT"     // Flat monetary amount
)

// IsValid checks if the kind is a valid DiscountKind
func (k DiscountKind) IsValid() bool {
	switch k {
	case DiscountKindPercentage, DiscountKindAmount:
		return true
	}
	return false
}

// String returns the string representation of DiscountKind
func (k DiscountKind) String() string {
	return string(k)
}

// Discount reduces a document subtotal before taxes. At most one per document.
type Discount struct {
	Kind  DiscountKind    `json:"kind"`
	Value decimal.Decimal `json:"value"`
}

// Validate checks that the discount definition is usable by the calculator
func (d Discount) Validate() error {
	if !d.Kind.IsValid() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount kind must be PERCENTAGE or AMOUNT")
	}
	if d.Value.IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount value cannot be negative")
	}
	if d.Kind == DiscountKindPercentage && d.Value.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Percentage discount cannot exceed 100")
	}
	return nil
}
