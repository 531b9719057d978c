package ledger

import (
	"context"
	"time"

	"github.com/facturio/backend/internal/domain/billing"
	"github.com/facturio/backend/internal/domain/ledger"
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/facturio/backend/internal/domain/shared/valueobject"
	"github.com/facturio/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreditNoteService provides application-level credit note operations
type CreditNoteService struct {
	creditNoteRepo ledger.CreditNoteRepository
	documentRepo   billing.DocumentRepository
	events         shared.EventPublisher
}

// CreditNoteServiceOption is a functional option for configuring CreditNoteService
type CreditNoteServiceOption func(*CreditNoteService)

// WithCreditNoteEventPublisher publishes credit note lifecycle events after
// each successful save.
func WithCreditNoteEventPublisher(publisher shared.EventPublisher) CreditNoteServiceOption {
	return func(s *CreditNoteService) {
		s.events = publisher
	}
}

// NewCreditNoteService creates a new CreditNoteService
func NewCreditNoteService(
	creditNoteRepo ledger.CreditNoteRepository,
	documentRepo billing.DocumentRepository,
	opts ...CreditNoteServiceOption,
) *CreditNoteService {
	s := &CreditNoteService{
		creditNoteRepo: creditNoteRepo,
		documentRepo:   documentRepo,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateCreditNoteRequest represents a request to issue a credit note
// against an invoice. A FULL note covers the invoice's grand total; a
// PARTIAL note carries an explicit amount.
type CreateCreditNoteRequest struct {
	InvoiceID uuid.UUID        `json:"invoice_id"`
	Type      string           `json:"type"`
	Amount    *decimal.Decimal `json:"amount,omitempty"` // Required for PARTIAL, ignored for FULL
	Notes     string           `json:"notes"`
}

// CreditNoteResponse represents a credit note in API responses
type CreditNoteResponse struct {
	ID            uuid.UUID       `json:"id"`
	CompanyID     uuid.UUID       `json:"company_id"`
	Number        string          `json:"number"`
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	ClientID      uuid.UUID       `json:"client_id"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Status        string          `json:"status"`
	AppliedAt     *time.Time      `json:"applied_at,omitempty"`
	AppliedAmount decimal.Decimal `json:"applied_amount"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Version       int             `json:"version"`
}

// CreditNoteListFilter defines filtering options for credit note list queries
type CreditNoteListFilter struct {
	Search    string     `form:"search"`
	ClientID  *uuid.UUID `form:"client_id"`
	InvoiceID *uuid.UUID `form:"invoice_id"`
	Status    string     `form:"status"`
	Page      int        `form:"page"`
	PageSize  int        `form:"page_size"`
}

// CreateCreditNote issues a draft credit note against a finalized invoice
func (s *CreditNoteService) CreateCreditNote(ctx context.Context, companyID uuid.UUID, req CreateCreditNoteRequest) (*CreditNoteResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "credit_note", "create")
	defer span.End()

	invoice, err := s.documentRepo.FindByIDForCompany(ctx, companyID, req.InvoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, shared.NewDomainError("DOCUMENT_NOT_FOUND", "Invoice not found")
	}
	if invoice.Kind != billing.DocumentKindInvoice {
		return nil, shared.NewDomainError("INVALID_DOCUMENT_KIND", "Credit notes can only be issued against invoices")
	}
	if invoice.IsDraft() || invoice.IsCancelled() {
		return nil, shared.NewDomainError("INVALID_STATE", "Credit notes require a finalized invoice")
	}

	noteType := ledger.CreditNoteType(req.Type)
	var amount decimal.Decimal
	switch noteType {
	case ledger.CreditNoteTypeFull:
		amount = invoice.Totals.GrandTotal
	case ledger.CreditNoteTypePartial:
		if req.Amount == nil {
			return nil, shared.NewDomainError("INVALID_AMOUNT", "Partial credit note requires an amount")
		}
		amount = *req.Amount
		if amount.GreaterThan(invoice.Totals.GrandTotal) {
			return nil, shared.NewDomainError("INVALID_AMOUNT", "Credit note amount cannot exceed the invoice grand total")
		}
	default:
		return nil, shared.NewDomainError("INVALID_TYPE", "Credit note type must be FULL or PARTIAL")
	}

	number, err := s.creditNoteRepo.GenerateCreditNoteNumber(ctx, companyID, time.Now())
	if err != nil {
		return nil, err
	}

	money, err := valueobject.NewMoney(amount, invoice.Currency)
	if err != nil {
		return nil, err
	}
	note, err := ledger.NewCreditNote(companyID, number, invoice.ID, invoice.ClientID, noteType, money)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	note.Notes = req.Notes

	if err := s.creditNoteRepo.Save(ctx, note); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.events, note.GetDomainEvents()...)
	note.ClearDomainEvents()

	telemetry.SetAttributes(span,
		"credit_note_id", note.ID.String(),
		"credit_note_number", note.Number,
		telemetry.SpanAttrAmount, note.Amount.String(),
	)
	return toCreditNoteResponse(note), nil
}

// MarkCreditNoteSent transitions a draft credit note to SENT
func (s *CreditNoteService) MarkCreditNoteSent(ctx context.Context, companyID, id uuid.UUID) (*CreditNoteResponse, error) {
	note, err := s.creditNoteRepo.FindByIDForCompany(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Credit note not found")
	}
	if err := note.MarkSent(); err != nil {
		return nil, err
	}
	if err := s.creditNoteRepo.SaveWithLock(ctx, note); err != nil {
		return nil, err
	}
	return toCreditNoteResponse(note), nil
}

// GetCreditNoteByID gets a credit note by ID
func (s *CreditNoteService) GetCreditNoteByID(ctx context.Context, companyID, id uuid.UUID) (*CreditNoteResponse, error) {
	note, err := s.creditNoteRepo.FindByIDForCompany(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Credit note not found")
	}
	return toCreditNoteResponse(note), nil
}

// ListCreditNotes lists credit notes with filtering
func (s *CreditNoteService) ListCreditNotes(ctx context.Context, companyID uuid.UUID, filter CreditNoteListFilter) ([]CreditNoteResponse, int64, error) {
	domainFilter := ledger.CreditNoteFilter{
		ClientID:  filter.ClientID,
		InvoiceID: filter.InvoiceID,
	}
	domainFilter.Page = filter.Page
	domainFilter.PageSize = filter.PageSize
	domainFilter.Search = filter.Search

	if filter.Status != "" {
		status := ledger.CreditNoteStatus(filter.Status)
		domainFilter.Status = &status
	}

	notes, err := s.creditNoteRepo.FindAllForCompany(ctx, companyID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.creditNoteRepo.CountForCompany(ctx, companyID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]CreditNoteResponse, len(notes))
	for i := range notes {
		responses[i] = *toCreditNoteResponse(&notes[i])
	}
	return responses, total, nil
}

func toCreditNoteResponse(cn *ledger.CreditNote) *CreditNoteResponse {
	return &CreditNoteResponse{
		ID:            cn.ID,
		CompanyID:     cn.CompanyID,
		Number:        cn.Number,
		InvoiceID:     cn.InvoiceID,
		ClientID:      cn.ClientID,
		Type:          string(cn.Type),
		Amount:        cn.Amount,
		Currency:      string(cn.Currency),
		Status:        string(cn.Status),
		AppliedAt:     cn.AppliedAt,
		AppliedAmount: cn.AppliedAmount,
		Notes:         cn.Notes,
		CreatedAt:     cn.CreatedAt,
		UpdatedAt:     cn.UpdatedAt,
		Version:       cn.Version,
	}
}
