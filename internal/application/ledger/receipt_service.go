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

// ReceiptService provides application-level receipt operations
type ReceiptService struct {
	receiptRepo    ledger.ReceiptRepository
	allocationRepo ledger.AllocationRepository
	clients        billing.ClientDirectory
	events         shared.EventPublisher
}

// ReceiptServiceOption is a functional option for configuring ReceiptService
type ReceiptServiceOption func(*ReceiptService)

// WithReceiptEventPublisher publishes receipt lifecycle events after each
// successful save.
func WithReceiptEventPublisher(publisher shared.EventPublisher) ReceiptServiceOption {
	return func(s *ReceiptService) {
		s.events = publisher
	}
}

// NewReceiptService creates a new ReceiptService
func NewReceiptService(
	receiptRepo ledger.ReceiptRepository,
	allocationRepo ledger.AllocationRepository,
	clients billing.ClientDirectory,
	opts ...ReceiptServiceOption,
) *ReceiptService {
	s := &ReceiptService{
		receiptRepo:    receiptRepo,
		allocationRepo: allocationRepo,
		clients:        clients,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateReceiptRequest represents a request to record an incoming payment
type CreateReceiptRequest struct {
	ClientID    uuid.UUID       `json:"client_id"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Kind        string          `json:"kind"`
	ReceiptDate time.Time       `json:"receipt_date"`
	Reference   string          `json:"reference"`
	Notes       string          `json:"notes"`
}

// ReceiptResponse represents a receipt in API responses
type ReceiptResponse struct {
	ID              uuid.UUID       `json:"id"`
	CompanyID       uuid.UUID       `json:"company_id"`
	Number          string          `json:"number"`
	ClientID        uuid.UUID       `json:"client_id"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	Kind            string          `json:"kind"`
	Status          string          `json:"status"`
	ReceiptDate     time.Time       `json:"receipt_date"`
	Reference       string          `json:"reference,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	AllocatedAmount decimal.Decimal `json:"allocated_amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	CancelledAt     *time.Time      `json:"cancelled_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Version         int             `json:"version"`
}

// ReceiptListFilter defines filtering options for receipt list queries
type ReceiptListFilter struct {
	Search   string     `form:"search"`
	ClientID *uuid.UUID `form:"client_id"`
	Kind     string     `form:"kind"`
	Status   string     `form:"status"`
	FromDate *time.Time `form:"from_date"`
	ToDate   *time.Time `form:"to_date"`
	Sort     string     `form:"sort"`
	SortDir  string     `form:"sort_dir"`
	Page     int        `form:"page"`
	PageSize int        `form:"page_size"`
}

// CreateReceipt records an incoming payment as a new receipt
func (s *ReceiptService) CreateReceipt(ctx context.Context, companyID uuid.UUID, req CreateReceiptRequest) (*ReceiptResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "receipt", "create")
	defer span.End()

	exists, err := s.clients.ClientExists(ctx, companyID, req.ClientID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, shared.NewDomainError("CLIENT_NOT_FOUND", "Client not found")
	}

	number, err := s.receiptRepo.GenerateReceiptNumber(ctx, companyID, req.ReceiptDate)
	if err != nil {
		return nil, err
	}

	currency := valueobject.DefaultCurrency
	if req.Currency != "" {
		currency = valueobject.Currency(req.Currency)
	}
	amount, err := valueobject.NewMoney(req.Amount, currency)
	if err != nil {
		return nil, err
	}

	kind := ledger.ReceiptKindStandard
	if req.Kind != "" {
		kind = ledger.ReceiptKind(req.Kind)
	}

	receipt, err := ledger.NewReceipt(companyID, number, req.ClientID, amount, kind, req.ReceiptDate)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if req.Reference != "" {
		if err := receipt.SetReference(req.Reference); err != nil {
			return nil, err
		}
	}
	receipt.Notes = req.Notes

	if err := s.receiptRepo.Save(ctx, receipt); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.events, receipt.GetDomainEvents()...)
	receipt.ClearDomainEvents()

	telemetry.SetAttributes(span,
		"receipt_id", receipt.ID.String(),
		"receipt_number", receipt.Number,
		telemetry.SpanAttrAmount, receipt.Amount.String(),
	)
	return toReceiptResponse(receipt), nil
}

// GetReceiptByID gets a receipt by ID with its derived allocation state
func (s *ReceiptService) GetReceiptByID(ctx context.Context, companyID, id uuid.UUID) (*ReceiptResponse, error) {
	receipt, err := s.receiptRepo.FindByIDForCompany(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Receipt not found")
	}
	return toReceiptResponse(receipt), nil
}

// ListReceipts lists receipts with filtering
func (s *ReceiptService) ListReceipts(ctx context.Context, companyID uuid.UUID, filter ReceiptListFilter) ([]ReceiptResponse, int64, error) {
	domainFilter := ledger.ReceiptFilter{
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
		kind := ledger.ReceiptKind(filter.Kind)
		domainFilter.Kind = &kind
	}
	if filter.Status != "" {
		status := ledger.ReceiptStatus(filter.Status)
		domainFilter.Status = &status
	}

	receipts, err := s.receiptRepo.FindAllForCompany(ctx, companyID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.receiptRepo.CountForCompany(ctx, companyID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ReceiptResponse, len(receipts))
	for i := range receipts {
		responses[i] = *toReceiptResponse(&receipts[i])
	}
	return responses, total, nil
}

// CancelReceipt soft-cancels a receipt that has no allocations
func (s *ReceiptService) CancelReceipt(ctx context.Context, companyID, id uuid.UUID) (*ReceiptResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "receipt", "cancel")
	defer span.End()

	receipt, err := s.receiptRepo.FindByIDForCompany(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Receipt not found")
	}

	if err := receipt.Cancel(); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := s.receiptRepo.SaveWithLock(ctx, receipt); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.events, receipt.GetDomainEvents()...)
	receipt.ClearDomainEvents()
	return toReceiptResponse(receipt), nil
}

// AllocationResponse represents an allocation in API responses
type AllocationResponse struct {
	ID         uuid.UUID       `json:"id"`
	CompanyID  uuid.UUID       `json:"company_id"`
	SourceType string          `json:"source_type"`
	SourceID   uuid.UUID       `json:"source_id"`
	DocumentID uuid.UUID       `json:"document_id"`
	Amount     decimal.Decimal `json:"amount"`
	Reversed   bool            `json:"reversed"`
	ReversedAt *time.Time      `json:"reversed_at,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ListReceiptAllocations lists the allocations funded by a receipt
func (s *ReceiptService) ListReceiptAllocations(ctx context.Context, companyID, receiptID uuid.UUID) ([]AllocationResponse, error) {
	receipt, err := s.receiptRepo.FindByIDForCompany(ctx, companyID, receiptID)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Receipt not found")
	}

	allocations, err := s.allocationRepo.FindBySource(ctx, companyID, ledger.AllocationSourceReceipt, receiptID)
	if err != nil {
		return nil, err
	}
	responses := make([]AllocationResponse, len(allocations))
	for i := range allocations {
		responses[i] = *toAllocationResponse(&allocations[i])
	}
	return responses, nil
}

func toReceiptResponse(r *ledger.Receipt) *ReceiptResponse {
	return &ReceiptResponse{
		ID:              r.ID,
		CompanyID:       r.CompanyID,
		Number:          r.Number,
		ClientID:        r.ClientID,
		Amount:          r.Amount,
		Currency:        string(r.Currency),
		Kind:            string(r.Kind),
		Status:          string(r.Status()),
		ReceiptDate:     r.ReceiptDate,
		Reference:       r.Reference,
		Notes:           r.Notes,
		AllocatedAmount: r.AllocatedAmount,
		RemainingAmount: r.RemainingAmount(),
		CancelledAt:     r.CancelledAt,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
		Version:         r.Version,
	}
}

func toAllocationResponse(a *ledger.Allocation) *AllocationResponse {
	return &AllocationResponse{
		ID:         a.ID,
		CompanyID:  a.CompanyID,
		SourceType: string(a.SourceType),
		SourceID:   a.SourceID,
		DocumentID: a.DocumentID,
		Amount:     a.Amount,
		Reversed:   a.Reversed,
		ReversedAt: a.ReversedAt,
		CreatedAt:  a.CreatedAt,
	}
}
