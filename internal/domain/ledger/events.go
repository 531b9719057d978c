package ledger

import (
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeReceipt    = "Receipt"
	AggregateTypeCreditNote = "CreditNote"
)

// Event type constants
const (
	EventTypeReceiptCreated     = "ReceiptCreated"
	EventTypeReceiptCancelled   = "ReceiptCancelled"
	EventTypeAllocationCreated  = "AllocationCreated"
	EventTypeAllocationReversed = "AllocationReversed"
	EventTypeCreditNoteCreated  = "CreditNoteCreated"
	EventTypeCreditNoteApplied  = "CreditNoteApplied"
)

// ReceiptCreatedEvent is raised when a new receipt is recorded
type ReceiptCreatedEvent struct {
	shared.BaseDomainEvent
	ReceiptID uuid.UUID       `json:"receipt_id"`
	Number    string          `json:"number"`
	ClientID  uuid.UUID       `json:"client_id"`
	Kind      ReceiptKind     `json:"kind"`
	Amount    decimal.Decimal `json:"amount"`
}

// NewReceiptCreatedEvent creates a new ReceiptCreatedEvent
func NewReceiptCreatedEvent(r *Receipt) *ReceiptCreatedEvent {
	return &ReceiptCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReceiptCreated, AggregateTypeReceipt, r.ID, r.CompanyID),
		ReceiptID:       r.ID,
		Number:          r.Number,
		ClientID:        r.ClientID,
		Kind:            r.Kind,
		Amount:          r.Amount,
	}
}

// ReceiptCancelledEvent is raised when a receipt is soft-cancelled
type ReceiptCancelledEvent struct {
	shared.BaseDomainEvent
	ReceiptID uuid.UUID `json:"receipt_id"`
	Number    string    `json:"number"`
}

// NewReceiptCancelledEvent creates a new ReceiptCancelledEvent
func NewReceiptCancelledEvent(r *Receipt) *ReceiptCancelledEvent {
	return &ReceiptCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReceiptCancelled, AggregateTypeReceipt, r.ID, r.CompanyID),
		ReceiptID:       r.ID,
		Number:          r.Number,
	}
}

// AllocationCreatedEvent is raised when funds are allocated to a document
type AllocationCreatedEvent struct {
	shared.BaseDomainEvent
	AllocationID uuid.UUID            `json:"allocation_id"`
	SourceType   AllocationSourceType `json:"source_type"`
	SourceID     uuid.UUID            `json:"source_id"`
	DocumentID   uuid.UUID            `json:"document_id"`
	Amount       decimal.Decimal      `json:"amount"`
}

// NewAllocationCreatedEvent creates a new AllocationCreatedEvent
func NewAllocationCreatedEvent(a *Allocation) *AllocationCreatedEvent {
	return &AllocationCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAllocationCreated, AggregateTypeReceipt, a.SourceID, a.CompanyID),
		AllocationID:    a.ID,
		SourceType:      a.SourceType,
		SourceID:        a.SourceID,
		DocumentID:      a.DocumentID,
		Amount:          a.Amount,
	}
}

// AllocationReversedEvent is raised when an allocation is reversed
type AllocationReversedEvent struct {
	shared.BaseDomainEvent
	AllocationID uuid.UUID       `json:"allocation_id"`
	SourceID     uuid.UUID       `json:"source_id"`
	DocumentID   uuid.UUID       `json:"document_id"`
	Amount       decimal.Decimal `json:"amount"`
}

// NewAllocationReversedEvent creates a new AllocationReversedEvent
func NewAllocationReversedEvent(a *Allocation) *AllocationReversedEvent {
	return &AllocationReversedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAllocationReversed, AggregateTypeReceipt, a.SourceID, a.CompanyID),
		AllocationID:    a.ID,
		SourceID:        a.SourceID,
		DocumentID:      a.DocumentID,
		Amount:          a.Amount,
	}
}

// CreditNoteCreatedEvent is raised when a new credit note is created
type CreditNoteCreatedEvent struct {
	shared.BaseDomainEvent
	CreditNoteID uuid.UUID       `json:"credit_note_id"`
	Number       string          `json:"number"`
	InvoiceID    uuid.UUID       `json:"invoice_id"`
	Type         CreditNoteType  `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
}

// NewCreditNoteCreatedEvent creates a new CreditNoteCreatedEvent
func NewCreditNoteCreatedEvent(cn *CreditNote) *CreditNoteCreatedEvent {
	return &CreditNoteCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCreditNoteCreated, AggregateTypeCreditNote, cn.ID, cn.CompanyID),
		CreditNoteID:    cn.ID,
		Number:          cn.Number,
		InvoiceID:       cn.InvoiceID,
		Type:            cn.Type,
		Amount:          cn.Amount,
	}
}

// CreditNoteAppliedEvent is raised when a credit note reaches its terminal state
type CreditNoteAppliedEvent struct {
	shared.BaseDomainEvent
	CreditNoteID  uuid.UUID       `json:"credit_note_id"`
	Number        string          `json:"number"`
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	AppliedAmount decimal.Decimal `json:"applied_amount"`
}

// NewCreditNoteAppliedEvent creates a new CreditNoteAppliedEvent
func NewCreditNoteAppliedEvent(cn *CreditNote) *CreditNoteAppliedEvent {
	return &CreditNoteAppliedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCreditNoteApplied, AggregateTypeCreditNote, cn.ID, cn.CompanyID),
		CreditNoteID:    cn.ID,
		Number:          cn.Number,
		InvoiceID:       cn.InvoiceID,
		AppliedAmount:   cn.AppliedAmount,
	}
}
