package billing

import (
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant for Document
const AggregateTypeDocument = "Document"

// Event type constants for Document
const (
	EventTypeDocumentCreated   = "DocumentCreated"
	EventTypeDocumentFinalized = "DocumentFinalized"
	EventTypeDocumentPaid      = "DocumentPaid"
	EventTypeDocumentCancelled = "DocumentCancelled"
)

// DocumentCreatedEvent is raised when a new draft document is created
type DocumentCreatedEvent struct {
	shared.BaseDomainEvent
	DocumentID uuid.UUID    `json:"document_id"`
	Kind       DocumentKind `json:"kind"`
	ClientID   uuid.UUID    `json:"client_id"`
}

// NewDocumentCreatedEvent creates a new DocumentCreatedEvent
func NewDocumentCreatedEvent(d *Document) *DocumentCreatedEvent {
	return &DocumentCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDocumentCreated, AggregateTypeDocument, d.ID, d.CompanyID),
		DocumentID:      d.ID,
		Kind:            d.Kind,
		ClientID:        d.ClientID,
	}
}

// DocumentFinalizedEvent is raised when a draft is finalized and numbered
type DocumentFinalizedEvent struct {
	shared.BaseDomainEvent
	DocumentID uuid.UUID       `json:"document_id"`
	Kind       DocumentKind    `json:"kind"`
	Number     string          `json:"number"`
	ClientID   uuid.UUID       `json:"client_id"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// NewDocumentFinalizedEvent creates a new DocumentFinalizedEvent
func NewDocumentFinalizedEvent(d *Document) *DocumentFinalizedEvent {
	return &DocumentFinalizedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDocumentFinalized, AggregateTypeDocument, d.ID, d.CompanyID),
		DocumentID:      d.ID,
		Kind:            d.Kind,
		Number:          d.Number,
		ClientID:        d.ClientID,
		GrandTotal:      d.Totals.GrandTotal,
	}
}

// DocumentPaidEvent is raised when an invoice's outstanding balance reaches zero
type DocumentPaidEvent struct {
	shared.BaseDomainEvent
	DocumentID uuid.UUID       `json:"document_id"`
	Number     string          `json:"number"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// NewDocumentPaidEvent creates a new DocumentPaidEvent
func NewDocumentPaidEvent(d *Document) *DocumentPaidEvent {
	return &DocumentPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDocumentPaid, AggregateTypeDocument, d.ID, d.CompanyID),
		DocumentID:      d.ID,
		Number:          d.Number,
		GrandTotal:      d.Totals.GrandTotal,
	}
}

// DocumentCancelledEvent is raised when a document is soft-cancelled
type DocumentCancelledEvent struct {
	shared.BaseDomainEvent
	DocumentID     uuid.UUID      `json:"document_id"`
	Number         string         `json:"number"`
	PreviousStatus DocumentStatus `json:"previous_status"`
	Reason         string         `json:"reason"`
}

// NewDocumentCancelledEvent creates a new DocumentCancelledEvent
func NewDocumentCancelledEvent(d *Document, previousStatus DocumentStatus) *DocumentCancelledEvent {
	return &DocumentCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDocumentCancelled, AggregateTypeDocument, d.ID, d.CompanyID),
		DocumentID:      d.ID,
		Number:          d.Number,
		PreviousStatus:  previousStatus,
		Reason:          d.CancelReason,
	}
}
