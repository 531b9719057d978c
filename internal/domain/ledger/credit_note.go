package ledger

import (
	"fmt"
	"time"

	"github.com/facturio/backend/internal/domain/shared"
	"github.com/facturio/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreditNoteType distinguishes full from partial credit notes
type CreditNoteType string

const (
	CreditNoteTypeFull    CreditNoteType = "FULL"
	CreditNoteTypePartial CreditNoteType = "PARTIAL"
)

// IsValid checks if the type is a valid CreditNoteType
func (t CreditNoteType) IsValid() bool {
	switch t {
	case CreditNoteTypeFull, CreditNoteTypePartial:
		return true
	}
	return false
}

// String returns the string representation of CreditNoteType
func (t CreditNoteType) String() string {
	return string(t)
}

// CreditNoteStatus represents the lifecycle state of a credit note
type CreditNoteStatus string

const (
	CreditNoteStatusDraft   CreditNoteStatus = "DRAFT"
	CreditNoteStatusSent    CreditNoteStatus = "SENT"
	CreditNoteStatusApplied CreditNoteStatus = "APPLIED" // Terminal
)

// IsValid checks if the status is a valid CreditNoteStatus
func (s CreditNoteStatus) IsValid() bool {
	switch s {
	case CreditNoteStatusDraft, CreditNoteStatusSent, CreditNoteStatusApplied:
		return true
	}
	return false
}

// String returns the string representation of CreditNoteStatus
func (s CreditNoteStatus) String() string {
	return string(s)
}

// IsTerminal returns true if no further transitions are possible
func (s CreditNoteStatus) IsTerminal() bool {
	return s == CreditNoteStatusApplied
}

// CreditNote reduces an amount owed by a client. Applying it works like an
// allocation but is one-way: once applied the note is terminal and can never
// be applied again or reversed.
type CreditNote struct {
	shared.CompanyAggregateRoot
	Number        string               `json:"number"`
	InvoiceID     uuid.UUID            `json:"invoice_id"` // Originating invoice
	ClientID      uuid.UUID            `json:"client_id"`
	Type          CreditNoteType       `json:"type"`
	Amount        decimal.Decimal      `json:"amount"`
	Currency      valueobject.Currency `json:"currency"`
	Status        CreditNoteStatus     `json:"status"`
	AppliedAt     *time.Time           `json:"applied_at"`
	AppliedAmount decimal.Decimal      `json:"applied_amount"` // Amount actually consumed at apply time
	Notes         string               `json:"notes"`
}

// NewCreditNote creates a new draft credit note
func NewCreditNote(
	companyID uuid.UUID,
	number string,
	invoiceID, clientID uuid.UUID,
	noteType CreditNoteType,
	amount valueobject.Money,
) (*CreditNote, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Credit note number cannot be empty")
	}
	if invoiceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INVOICE", "Originating invoice ID cannot be empty")
	}
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client ID cannot be empty")
	}
	if !noteType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Credit note type must be FULL or PARTIAL")
	}
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Credit note amount must be positive")
	}

	cn := &CreditNote{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		Number:               number,
		InvoiceID:            invoiceID,
		ClientID:             clientID,
		Type:                 noteType,
		Amount:               amount.Amount(),
		Currency:             amount.Currency(),
		Status:               CreditNoteStatusDraft,
		AppliedAmount:        decimal.Zero,
	}

	cn.AddDomainEvent(NewCreditNoteCreatedEvent(cn))

	return cn, nil
}

// MarkSent transitions a draft to SENT, making it applicable
func (cn *CreditNote) MarkSent() error {
	if cn.Status != CreditNoteStatusDraft {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot send credit note in %s status", cn.Status))
	}
	cn.Status = CreditNoteStatusSent
	cn.UpdatedAt = time.Now()
	return nil
}

// CanApply validates that the note can be applied right now
func (cn *CreditNote) CanApply() error {
	if cn.Status == CreditNoteStatusApplied {
		return shared.ErrCreditNoteAlreadyApplied
	}
	if cn.Status != CreditNoteStatusSent {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot apply credit note in %s status", cn.Status))
	}
	return nil
}

// Apply consumes the note against an invoice. appliedAmount is the portion
// actually used (capped at the invoice's outstanding balance by the caller);
// the transition to APPLIED is terminal either way.
func (cn *CreditNote) Apply(appliedAmount decimal.Decimal) error {
	if err := cn.CanApply(); err != nil {
		return err
	}
	if appliedAmount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Applied amount must be positive")
	}
	if appliedAmount.GreaterThan(cn.Amount) {
		return shared.NewDomainError("INVALID_AMOUNT", "Applied amount cannot exceed the credit note amount")
	}

	now := time.Now()
	cn.Status = CreditNoteStatusApplied
	cn.AppliedAt = &now
	cn.AppliedAmount = appliedAmount
	cn.UpdatedAt = now

	cn.AddDomainEvent(NewCreditNoteAppliedEvent(cn))

	return nil
}

// GetAmountMoney returns the note amount as Money
func (cn *CreditNote) GetAmountMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(cn.Amount, cn.Currency)
	return m
}
