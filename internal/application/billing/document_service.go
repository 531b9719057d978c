package billing

import (
	"context"
	"time"

	ledgerapp "github.com/facturio/backend/internal/application/ledger"
	"github.com/facturio/backend/internal/domain/billing"
	domainledger "github.com/facturio/backend/internal/domain/ledger"
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/facturio/backend/internal/domain/shared/valueobject"
	"github.com/facturio/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DepositAllocator settles a freshly finalized invoice against the client's
// available deposit credit.
type DepositAllocator interface {
	AutoAllocateDeposits(ctx context.Context, companyID, clientID, documentID uuid.UUID) (*ledgerapp.AutoAllocateResult, error)
}

// DocumentService provides application-level quote and invoice operations
type DocumentService struct {
	documentRepo   billing.DocumentRepository
	allocationRepo domainledger.AllocationRepository
	taxes          billing.TaxProvider
	clients        billing.ClientDirectory
	numbering      billing.NumberingStrategy
	deposits       DepositAllocator
	settleOnFinal  bool
	events         shared.EventPublisher
}

// DocumentServiceOption is a functional option for configuring DocumentService
type DocumentServiceOption func(*DocumentService)

// WithDepositSettlement enables automatic settlement of finalized invoices
// against the client's available deposit receipts.
func WithDepositSettlement(allocator DepositAllocator) DocumentServiceOption {
	return func(s *DocumentService) {
		s.deposits = allocator
		s.settleOnFinal = allocator != nil
	}
}

// WithDocumentEventPublisher publishes document lifecycle events after
// each successful save.
func WithDocumentEventPublisher(publisher shared.EventPublisher) DocumentServiceOption {
	return func(s *DocumentService) {
		s.events = publisher
	}
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(
	documentRepo billing.DocumentRepository,
	allocationRepo domainledger.AllocationRepository,
	taxes billing.TaxProvider,
	clients billing.ClientDirectory,
	numbering billing.NumberingStrategy,
	opts ...DocumentServiceOption,
) *DocumentService {
	s := &DocumentService{
		documentRepo:   documentRepo,
		allocationRepo: allocationRepo,
		taxes:          taxes,
		clients:        clients,
		numbering:      numbering,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DocumentLineRequest represents a line in a create/update request
type DocumentLineRequest struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxID       *uuid.UUID      `json:"tax_id,omitempty"`
}

// DiscountRequest represents a document-level discount in requests
type DiscountRequest struct {
	Kind  string          `json:"kind"`
	Value decimal.Decimal `json:"value"`
}

// CreateDocumentRequest represents a request to create a draft document
type CreateDocumentRequest struct {
	Kind      string                `json:"kind"`
	ClientID  uuid.UUID             `json:"client_id"`
	IssueDate time.Time             `json:"issue_date"`
	Currency  string                `json:"currency"`
	Lines     []DocumentLineRequest `json:"lines"`
	Discount  *DiscountRequest      `json:"discount,omitempty"`
	TaxIDs    []uuid.UUID           `json:"tax_ids"`
	Notes     string                `json:"notes"`
}

// UpdateDocumentRequest represents a request to update a draft document
type UpdateDocumentRequest struct {
	Lines    []DocumentLineRequest `json:"lines"`
	Discount *DiscountRequest      `json:"discount,omitempty"`
	TaxIDs   []uuid.UUID           `json:"tax_ids"`
	Notes    *string               `json:"notes,omitempty"`
}

// DocumentLineResponse represents a document line in API responses
type DocumentLineResponse struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxID       *uuid.UUID      `json:"tax_id,omitempty"`
	Position    int             `json:"position"`
}

// DocumentResponse represents a document in API responses
type DocumentResponse struct {
	ID           uuid.UUID              `json:"id"`
	CompanyID    uuid.UUID              `json:"company_id"`
	Kind         string                 `json:"kind"`
	Number       string                 `json:"number,omitempty"`
	ClientID     uuid.UUID              `json:"client_id"`
	IssueDate    time.Time              `json:"issue_date"`
	Currency     string                 `json:"currency"`
	Lines        []DocumentLineResponse `json:"lines"`
	Discount     *DiscountRequest       `json:"discount,omitempty"`
	TaxIDs       []uuid.UUID            `json:"tax_ids"`
	Totals       billing.Totals         `json:"totals"`
	Status       string                 `json:"status"`
	Notes        string                 `json:"notes,omitempty"`
	Outstanding  *decimal.Decimal       `json:"outstanding,omitempty"`
	FinalizedAt  *time.Time             `json:"finalized_at,omitempty"`
	CancelledAt  *time.Time             `json:"cancelled_at,omitempty"`
	CancelReason string                 `json:"cancel_reason,omitempty"`
	ArchivedAt   *time.Time             `json:"archived_at,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
	Version      int                    `json:"version"`
}

// FinalizeDocumentResponse carries the finalized document plus the result
// of the automatic deposit settlement pass, when one ran.
type FinalizeDocumentResponse struct {
	Document   DocumentResponse              `json:"document"`
	Settlement *ledgerapp.AutoAllocateResult `json:"settlement,omitempty"`
}

// DocumentListFilter defines filtering options for document list queries
type DocumentListFilter struct {
	Search   string     `form:"search"`
	Kind     string     `form:"kind"`
	Status   string     `form:"status"`
	ClientID *uuid.UUID `form:"client_id"`
	FromDate *time.Time `form:"from_date"`
	ToDate   *time.Time `form:"to_date"`
	Sort     string     `form:"sort"`
	SortDir  string     `form:"sort_dir"`
	Page     int        `form:"page"`
	PageSize int        `form:"page_size"`
}

// CreateDocument creates a new draft quote or invoice and computes its totals
func (s *DocumentService) CreateDocument(ctx context.Context, companyID uuid.UUID, req CreateDocumentRequest) (*DocumentResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "document", "create")
	defer span.End()

	exists, err := s.clients.ClientExists(ctx, companyID, req.ClientID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, shared.NewDomainError("CLIENT_NOT_FOUND", "Client not found")
	}

	issueDate := req.IssueDate
	if issueDate.IsZero() {
		issueDate = time.Now()
	}

	document, err := billing.NewDocument(companyID, req.ClientID, billing.DocumentKind(req.Kind), issueDate, valueobject.Currency(req.Currency))
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.applyDraftChanges(ctx, document, req.Lines, req.Discount, req.TaxIDs); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if req.Notes != "" {
		if err := document.SetNotes(req.Notes); err != nil {
			return nil, err
		}
	}

	if err := s.documentRepo.Save(ctx, document); err != nil {
		return nil, err
	}
	s.publishPending(ctx, document)

	telemetry.SetAttributes(span,
		"document_id", document.ID.String(),
		"document_kind", string(document.Kind),
	)
	return s.toDocumentResponse(ctx, document, false)
}

// UpdateDocument replaces a draft's lines, discount and taxes, then recomputes
// totals. Finalized documents are frozen and reject updates.
func (s *DocumentService) UpdateDocument(ctx context.Context, companyID, id uuid.UUID, req UpdateDocumentRequest) (*DocumentResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "document", "update")
	defer span.End()
	telemetry.SetAttribute(span, "document_id", id.String())

	document, err := s.documentRepo.FindByIDForCompany(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if document == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Document not found")
	}

	if err := s.applyDraftChanges(ctx, document, req.Lines, req.Discount, req.TaxIDs); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if req.Notes != nil {
		if err := document.SetNotes(*req.Notes); err != nil {
			return nil, err
		}
	}

	if err := s.documentRepo.SaveWithLock(ctx, document); err != nil {
		return nil, err
	}
	return s.toDocumentResponse(ctx, document, false)
}

// applyDraftChanges replaces the draft's content and recomputes the totals
// snapshot from the current tax definitions.
func (s *DocumentService) applyDraftChanges(ctx context.Context, document *billing.Document, lineReqs []DocumentLineRequest, discountReq *DiscountRequest, taxIDs []uuid.UUID) error {
	lines := make([]billing.DocumentLine, 0, len(lineReqs))
	for i, lr := range lineReqs {
		line, err := billing.NewDocumentLine(lr.Description, lr.Quantity, lr.UnitPrice, lr.TaxID, i)
		if err != nil {
			return err
		}
		lines = append(lines, line)
	}
	if err := document.ReplaceLines(lines); err != nil {
		return err
	}

	var discount *billing.Discount
	if discountReq != nil {
		discount = &billing.Discount{
			Kind:  billing.DiscountKind(discountReq.Kind),
			Value: discountReq.Value,
		}
		if err := discount.Validate(); err != nil {
			return err
		}
	}
	if err := document.SetDiscount(discount); err != nil {
		return err
	}

	if taxIDs == nil {
		taxIDs = make([]uuid.UUID, 0)
	}
	if err := document.SetTaxIDs(taxIDs); err != nil {
		return err
	}

	return s.recompute(ctx, document)
}

// recompute resolves the document's tax IDs and refreshes the totals snapshot
func (s *DocumentService) recompute(ctx context.Context, document *billing.Document) error {
	taxes, err := s.taxes.TaxesByIDs(ctx, document.CompanyID, document.TaxIDs)
	if err != nil {
		return err
	}
	totals, err := billing.ComputeTotals(document.Lines, document.Discount, taxes, document.Currency)
	if err != nil {
		return err
	}
	return document.ApplyTotals(totals)
}

// RecomputeDocument refreshes a draft's totals against the current tax
// definitions, for when a tax rate changed after the draft was created.
func (s *DocumentService) RecomputeDocument(ctx context.Context, companyID, id uuid.UUID) (*DocumentResponse, error) {
	document, err := s.documentRepo.FindByIDForCompany(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if document == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Document not found")
	}
	if err := s.recompute(ctx, document); err != nil {
		return nil, err
	}
	if err := s.documentRepo.SaveWithLock(ctx, document); err != nil {
		return nil, err
	}
	return s.toDocumentResponse(ctx, document, false)
}

// PreviewTotals computes totals for an arbitrary set of lines without
// touching any document.
func (s *DocumentService) PreviewTotals(ctx context.Context, companyID uuid.UUID, req CreateDocumentRequest) (*billing.Totals, error) {
	lines := make([]billing.DocumentLine, 0, len(req.Lines))
	for i, lr := range req.Lines {
		line, err := billing.NewDocumentLine(lr.Description, lr.Quantity, lr.UnitPrice, lr.TaxID, i)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	var discount *billing.Discount
	if req.Discount != nil {
		discount = &billing.Discount{
			Kind:  billing.DiscountKind(req.Discount.Kind),
			Value: req.Discount.Value,
		}
		if err := discount.Validate(); err != nil {
			return nil, err
		}
	}

	taxes, err := s.taxes.TaxesByIDs(ctx, companyID, req.TaxIDs)
	if err != nil {
		return nil, err
	}
	totals, err := billing.ComputeTotals(lines, discount, taxes, valueobject.Currency(req.Currency))
	if err != nil {
		return nil, err
	}
	return &totals, nil
}

// FinalizeDocument assigns a sequential number and freezes the document.
// Finalized invoices are settled against the client's available deposits
// when deposit settlement is enabled.
func (s *DocumentService) FinalizeDocument(ctx context.Context, companyID, id uuid.UUID) (*FinalizeDocumentResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "document", "finalize")
	defer span.End()
	telemetry.SetAttribute(span, "document_id", id.String())

	document, err := s.documentRepo.FindByIDForCompany(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if document == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Document not found")
	}

	number, err := s.numbering.NextNumber(ctx, companyID, document.Kind, document.IssueDate)
	if err != nil {
		return nil, err
	}
	if err := document.Finalize(number); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := s.documentRepo.SaveWithLock(ctx, document); err != nil {
		return nil, err
	}
	s.publishPending(ctx, document)
	telemetry.SetAttribute(span, "document_number", number)

	result := &FinalizeDocumentResponse{}

	if s.settleOnFinal && document.Kind == billing.DocumentKindInvoice {
		settlement, err := s.deposits.AutoAllocateDeposits(ctx, companyID, document.ClientID, document.ID)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		result.Settlement = settlement
		// Reload: the settlement pass may have marked the invoice paid.
		document, err = s.documentRepo.FindByIDForCompany(ctx, companyID, id)
		if err != nil {
			return nil, err
		}
	}

	response, err := s.toDocumentResponse(ctx, document, true)
	if err != nil {
		return nil, err
	}
	result.Document = *response
	return result, nil
}

// MarkDocumentSent marks a validated document as sent to the client
func (s *DocumentService) MarkDocumentSent(ctx context.Context, companyID, id uuid.UUID) (*DocumentResponse, error) {
	return s.transition(ctx, companyID, id, func(d *billing.Document) error { return d.MarkSent() })
}

// AcceptQuote marks a sent quote as accepted by the client
func (s *DocumentService) AcceptQuote(ctx context.Context, companyID, id uuid.UUID) (*DocumentResponse, error) {
	return s.transition(ctx, companyID, id, func(d *billing.Document) error { return d.Accept() })
}

// ExpireQuote marks a sent quote as expired
func (s *DocumentService) ExpireQuote(ctx context.Context, companyID, id uuid.UUID) (*DocumentResponse, error) {
	return s.transition(ctx, companyID, id, func(d *billing.Document) error { return d.Expire() })
}

// CancelDocument soft-cancels a document, keeping it for audit
func (s *DocumentService) CancelDocument(ctx context.Context, companyID, id uuid.UUID, reason string) (*DocumentResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "document", "cancel")
	defer span.End()
	telemetry.SetAttribute(span, "document_id", id.String())

	document, err := s.documentRepo.FindByIDForCompany(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if document == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Document not found")
	}

	// A document with active allocations cannot be cancelled; the credit
	// must be released first.
	active, err := s.allocationRepo.CountActiveByDocument(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if active > 0 {
		return nil, shared.NewDomainError("HAS_ALLOCATIONS", "Cannot cancel a document with active allocations")
	}

	if err := document.Cancel(reason); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := s.documentRepo.SaveWithLock(ctx, document); err != nil {
		return nil, err
	}
	s.publishPending(ctx, document)
	return s.toDocumentResponse(ctx, document, false)
}

// ArchiveDocument locks a paid invoice for audit; its allocations become final
func (s *DocumentService) ArchiveDocument(ctx context.Context, companyID, id uuid.UUID) (*DocumentResponse, error) {
	return s.transition(ctx, companyID, id, func(d *billing.Document) error { return d.Archive() })
}

func (s *DocumentService) transition(ctx context.Context, companyID, id uuid.UUID, fn func(*billing.Document) error) (*DocumentResponse, error) {
	document, err := s.documentRepo.FindByIDForCompany(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if document == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Document not found")
	}
	if err := fn(document); err != nil {
		return nil, err
	}
	if err := s.documentRepo.SaveWithLock(ctx, document); err != nil {
		return nil, err
	}
	s.publishPending(ctx, document)
	return s.toDocumentResponse(ctx, document, false)
}

// publishPending drains the document's pending events to the configured
// publisher. Without one the events are discarded after the save.
func (s *DocumentService) publishPending(ctx context.Context, document *billing.Document) {
	events := document.GetDomainEvents()
	document.ClearDomainEvents()
	if s.events == nil || len(events) == 0 {
		return
	}
	_ = s.events.Publish(ctx, events...)
}

// GetDocumentByID gets a document by ID, with its outstanding balance for
// allocatable invoices.
func (s *DocumentService) GetDocumentByID(ctx context.Context, companyID, id uuid.UUID) (*DocumentResponse, error) {
	document, err := s.documentRepo.FindByIDForCompany(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if document == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Document not found")
	}
	return s.toDocumentResponse(ctx, document, true)
}

// ListDocuments lists documents with filtering
func (s *DocumentService) ListDocuments(ctx context.Context, companyID uuid.UUID, filter DocumentListFilter) ([]DocumentResponse, int64, error) {
	domainFilter := billing.DocumentFilter{
		ClientID: filter.ClientID,
		FromDate: filter.FromDate,
		ToDate:   filter.ToDate,
	}
	domainFilter.Page = filter.Page
	domainFilter.PageSize = filter.PageSize
	domainFilter.Search = filter.Search
	domainFilter.OrderBy = filter.Sort
	domainFilter.OrderDir = filter.SortDir

	if filter.Kind != "" {
		kind := billing.DocumentKind(filter.Kind)
		domainFilter.Kind = &kind
	}
	if filter.Status != "" {
		status := billing.DocumentStatus(filter.Status)
		domainFilter.Status = &status
	}

	documents, err := s.documentRepo.FindAllForCompany(ctx, companyID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.documentRepo.CountForCompany(ctx, companyID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]DocumentResponse, len(documents))
	for i := range documents {
		resp, err := s.toDocumentResponse(ctx, &documents[i], false)
		if err != nil {
			return nil, 0, err
		}
		responses[i] = *resp
	}
	return responses, total, nil
}

func (s *DocumentService) toDocumentResponse(ctx context.Context, d *billing.Document, withOutstanding bool) (*DocumentResponse, error) {
	lines := make([]DocumentLineResponse, len(d.Lines))
	for i, line := range d.Lines {
		lines[i] = DocumentLineResponse{
			ID:          line.ID,
			Description: line.Description,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			TaxID:       line.TaxID,
			Position:    line.Position,
		}
	}

	var discount *DiscountRequest
	if d.Discount != nil {
		discount = &DiscountRequest{
			Kind:  string(d.Discount.Kind),
			Value: d.Discount.Value,
		}
	}

	response := &DocumentResponse{
		ID:           d.ID,
		CompanyID:    d.CompanyID,
		Kind:         string(d.Kind),
		Number:       d.Number,
		ClientID:     d.ClientID,
		IssueDate:    d.IssueDate,
		Currency:     string(d.Currency),
		Lines:        lines,
		Discount:     discount,
		TaxIDs:       d.TaxIDs,
		Totals:       d.Totals,
		Status:       string(d.Status),
		Notes:        d.Notes,
		FinalizedAt:  d.FinalizedAt,
		CancelledAt:  d.CancelledAt,
		CancelReason: d.CancelReason,
		ArchivedAt:   d.ArchivedAt,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
		Version:      d.Version,
	}

	if withOutstanding && d.Kind == billing.DocumentKindInvoice && !d.IsDraft() && !d.IsCancelled() {
		allocated, err := s.allocationRepo.SumActiveByDocument(ctx, d.CompanyID, d.ID)
		if err != nil {
			return nil, err
		}
		outstanding := d.Outstanding(allocated)
		response.Outstanding = &outstanding
	}

	return response, nil
}
