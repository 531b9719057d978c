package ledger

import (
	"time"

	"github.com/facturio/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AllocationSourceType identifies where allocated funds come from
type AllocationSourceType string

const (
	AllocationSourceReceipt    AllocationSourceType = "RECEIPT"
	AllocationSourceCreditNote AllocationSourceType = "CREDIT_NOTE"
)

// IsValid checks if the source type is valid
func (s AllocationSourceType) IsValid() bool {
	switch s {
	case AllocationSourceReceipt, AllocationSourceCreditNote:
		return true
	}
	return false
}

// String returns the string representation of AllocationSourceType
func (s AllocationSourceType) String() string {
	return string(s)
}

// Allocation links a specific amount from one funding source (receipt or
// credit note) to one target document. Rows are append-mostly: a reversal
// sets the flag rather than deleting, preserving the audit trail.
type Allocation struct {
	shared.BaseEntity
	CompanyID  uuid.UUID            `json:"company_id"`
	SourceType AllocationSourceType `json:"source_type"`
	SourceID   uuid.UUID            `json:"source_id"`
	DocumentID uuid.UUID            `json:"document_id"`
	Amount     decimal.Decimal      `json:"amount"`
	Reversed   bool                 `json:"reversed"`
	ReversedAt *time.Time           `json:"reversed_at"`
}

// NewAllocation creates a new allocation record
func NewAllocation(companyID uuid.UUID, sourceType AllocationSourceType, sourceID, documentID uuid.UUID, amount decimal.Decimal) (*Allocation, error) {
	if companyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COMPANY", "Company ID cannot be empty")
	}
	if !sourceType.IsValid() {
		return nil, shared.NewDomainError("INVALID_SOURCE", "Allocation source type must be RECEIPT or CREDIT_NOTE")
	}
	if sourceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SOURCE", "Allocation source ID cannot be empty")
	}
	if documentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DOCUMENT", "Allocation document ID cannot be empty")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Allocation amount must be positive")
	}

	return &Allocation{
		BaseEntity: shared.NewBaseEntity(),
		CompanyID:  companyID,
		SourceType: sourceType,
		SourceID:   sourceID,
		DocumentID: documentID,
		Amount:     amount,
	}, nil
}

// IsActive returns true if the allocation still counts toward sums
func (a *Allocation) IsActive() bool {
	return !a.Reversed
}

// Reverse marks the allocation reversed. Credit-note sourced allocations are
// one-way and can never be reversed.
func (a *Allocation) Reverse() error {
	if a.SourceType == AllocationSourceCreditNote {
		return shared.NewDomainError("INVALID_SOURCE", "Credit note allocations cannot be reversed")
	}
	if a.Reversed {
		return shared.NewDomainError("INVALID_STATE", "Allocation is already reversed")
	}
	now := time.Now()
	a.Reversed = true
	a.ReversedAt = &now
	a.UpdatedAt = now
	return nil
}
