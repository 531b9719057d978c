package ledger

import (
	"fmt"
	"time"

	"github.com/facturio/backend/internal/domain/shared"
	"github.com/facturio/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReceiptKind distinguishes ordinary payments from prepayment deposits
type ReceiptKind string

const (
	ReceiptKindStandard ReceiptKind = "STANDARD" // Payment received for a known invoice
	ReceiptKindDeposit  ReceiptKind = "DEPOSIT"  // Prepayment usable as credit
)

// IsValid checks if the kind is a valid ReceiptKind
func (k ReceiptKind) IsValid() bool {
	switch k {
	case ReceiptKindStandard, ReceiptKindDeposit:
		return true
	}
	return false
}

// String returns the string representation of ReceiptKind
func (k ReceiptKind) String() string {
	return string(k)
}

// ReceiptStatus is the allocation state of a receipt. It is always derived
// from the allocated amount, never stored independently.
type ReceiptStatus string

const (
	ReceiptStatusAvailable          ReceiptStatus = "AVAILABLE"           // Nothing allocated yet
	ReceiptStatusPartiallyAllocated ReceiptStatus = "PARTIALLY_ALLOCATED" // Some remaining credit
	ReceiptStatusFullyAllocated     ReceiptStatus = "FULLY_ALLOCATED"     // No remaining credit
	ReceiptStatusCancelled          ReceiptStatus = "CANCELLED"
)

// Receipt is a customer payment tracked by the ledger. AllocatedAmount is
// the sum of non-reversed allocations referencing this receipt, loaded by
// the repository alongside the row so the value cannot drift from the
// allocation table.
type Receipt struct {
	shared.CompanyAggregateRoot
	Number      string               `json:"number"`
	ClientID    uuid.UUID            `json:"client_id"`
	Amount      decimal.Decimal      `json:"amount"`
	Currency    valueobject.Currency `json:"currency"`
	Kind        ReceiptKind          `json:"kind"`
	ReceiptDate time.Time            `json:"receipt_date"`
	Reference   string               `json:"reference"` // Bank transaction or check number
	Notes       string               `json:"notes"`
	CancelledAt *time.Time           `json:"cancelled_at"`

	// AllocatedAmount is derived on read from non-reversed allocations.
	AllocatedAmount decimal.Decimal `json:"allocated_amount"`
}

// NewReceipt creates a new receipt
func NewReceipt(
	companyID uuid.UUID,
	number string,
	clientID uuid.UUID,
	amount valueobject.Money,
	kind ReceiptKind,
	receiptDate time.Time,
) (*Receipt, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Receipt number cannot be empty")
	}
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client ID cannot be empty")
	}
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Receipt amount must be positive")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", "Receipt kind must be STANDARD or DEPOSIT")
	}
	if receiptDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Receipt date is required")
	}

	r := &Receipt{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		Number:               number,
		ClientID:             clientID,
		Amount:               amount.Amount(),
		Currency:             amount.Currency(),
		Kind:                 kind,
		ReceiptDate:          receiptDate,
		AllocatedAmount:      decimal.Zero,
	}

	r.AddDomainEvent(NewReceiptCreatedEvent(r))

	return r, nil
}

// RemainingAmount returns the credit still assignable from this receipt
func (r *Receipt) RemainingAmount() decimal.Decimal {
	return r.Amount.Sub(r.AllocatedAmount)
}

// Status derives the allocation state from the allocated amount
func (r *Receipt) Status() ReceiptStatus {
	if r.IsCancelled() {
		return ReceiptStatusCancelled
	}
	switch {
	case r.AllocatedAmount.IsZero():
		return ReceiptStatusAvailable
	case r.RemainingAmount().IsZero():
		return ReceiptStatusFullyAllocated
	default:
		return ReceiptStatusPartiallyAllocated
	}
}

// IsCancelled returns true if the receipt was cancelled
func (r *Receipt) IsCancelled() bool {
	return r.CancelledAt != nil
}

// CheckInvariant verifies 0 <= allocated_amount <= amount. A violation is a
// programming error and must abort the enclosing transaction, never be
// clamped.
func (r *Receipt) CheckInvariant() error {
	if r.AllocatedAmount.IsNegative() || r.AllocatedAmount.GreaterThan(r.Amount) {
		return shared.ErrConservationViolation
	}
	return nil
}

// CanAllocate validates an allocation of the given amount against the
// receipt's current remaining credit
func (r *Receipt) CanAllocate(amount decimal.Decimal) error {
	if r.IsCancelled() {
		return shared.NewDomainError("INVALID_STATE", "Cannot allocate from a cancelled receipt")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Allocation amount must be positive")
	}
	if amount.GreaterThan(r.RemainingAmount()) {
		return shared.ErrInsufficientRemaining
	}
	return nil
}

// RecordAllocation applies an allocation to the in-memory derived state.
// The repository's optimistic save serializes concurrent allocations
// against the same receipt.
func (r *Receipt) RecordAllocation(amount decimal.Decimal) error {
	if err := r.CanAllocate(amount); err != nil {
		return err
	}
	r.AllocatedAmount = r.AllocatedAmount.Add(amount)
	if err := r.CheckInvariant(); err != nil {
		return err
	}
	r.UpdatedAt = time.Now()
	return nil
}

// RecordReversal releases a previously allocated amount back to the receipt
func (r *Receipt) RecordReversal(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Reversal amount must be positive")
	}
	r.AllocatedAmount = r.AllocatedAmount.Sub(amount)
	if err := r.CheckInvariant(); err != nil {
		return err
	}
	r.UpdatedAt = time.Now()
	return nil
}

// Cancel soft-cancels the receipt. Receipts with allocations cannot be
// cancelled; reverse the allocations first.
func (r *Receipt) Cancel() error {
	if r.IsCancelled() {
		return shared.NewDomainError("INVALID_STATE", "Receipt is already cancelled")
	}
	if r.AllocatedAmount.GreaterThan(decimal.Zero) {
		return shared.NewDomainError("HAS_ALLOCATIONS", fmt.Sprintf("Cannot cancel receipt %s with existing allocations", r.Number))
	}
	now := time.Now()
	r.CancelledAt = &now
	r.UpdatedAt = now

	r.AddDomainEvent(NewReceiptCancelledEvent(r))

	return nil
}

// SetReference sets the payment reference
func (r *Receipt) SetReference(reference string) error {
	if r.IsCancelled() {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify a cancelled receipt")
	}
	if len(reference) > 100 {
		return shared.NewDomainError("INVALID_REFERENCE", "Reference cannot exceed 100 characters")
	}
	r.Reference = reference
	r.UpdatedAt = time.Now()
	return nil
}

// GetAmountMoney returns the total amount as Money
func (r *Receipt) GetAmountMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(r.Amount, r.Currency)
	return m
}

// GetRemainingAmountMoney returns the remaining credit as Money
func (r *Receipt) GetRemainingAmountMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(r.RemainingAmount(), r.Currency)
	return m
}
