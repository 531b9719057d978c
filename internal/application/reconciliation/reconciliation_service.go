package reconciliation

import (
	"context"
	"io"
	"time"

	"github.com/facturio/backend/internal/domain/ledger"
	"github.com/facturio/backend/internal/domain/reconciliation"
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/facturio/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReconciliationService matches ledger receipts against imported bank
// statement lines, one-to-one on both sides.
type ReconciliationService struct {
	bankLineRepo reconciliation.BankLineRepository
	linkRepo     reconciliation.LinkRepository
	receiptRepo  ledger.ReceiptRepository
}

// NewReconciliationService creates a new ReconciliationService
func NewReconciliationService(
	bankLineRepo reconciliation.BankLineRepository,
	linkRepo reconciliation.LinkRepository,
	receiptRepo ledger.ReceiptRepository,
) *ReconciliationService {
	return &ReconciliationService{
		bankLineRepo: bankLineRepo,
		linkRepo:     linkRepo,
		receiptRepo:  receiptRepo,
	}
}

// ImportBankLineRequest represents one bank statement line in an import
type ImportBankLineRequest struct {
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Reference   string          `json:"reference"`
}

// BankLineResponse represents a bank statement line in API responses
type BankLineResponse struct {
	ID          uuid.UUID       `json:"id"`
	CompanyID   uuid.UUID       `json:"company_id"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Reference   string          `json:"reference,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// LinkResponse represents a reconciliation link in API responses
type LinkResponse struct {
	ID                uuid.UUID        `json:"id"`
	CompanyID         uuid.UUID        `json:"company_id"`
	LedgerEntryID     uuid.UUID        `json:"ledger_entry_id"`
	BankLineID        uuid.UUID        `json:"bank_line_id"`
	Status            string           `json:"status"`
	DiscrepancyAmount *decimal.Decimal `json:"discrepancy_amount,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
}

// BankLineListFilter defines filtering options for bank line list queries
type BankLineListFilter struct {
	Search    string     `form:"search"`
	FromDate  *time.Time `form:"from_date"`
	ToDate    *time.Time `form:"to_date"`
	Unmatched *bool      `form:"unmatched"`
	Page      int        `form:"page"`
	PageSize  int        `form:"page_size"`
}

// ImportBankLines validates and persists a batch of bank statement lines
func (s *ReconciliationService) ImportBankLines(ctx context.Context, companyID uuid.UUID, reqs []ImportBankLineRequest) ([]BankLineResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "reconciliation", "import_bank_lines")
	defer span.End()
	telemetry.SetAttribute(span, "line_count", len(reqs))

	if len(reqs) == 0 {
		return nil, shared.NewDomainError("EMPTY_IMPORT", "Import contains no lines")
	}

	lines := make([]reconciliation.BankStatementLine, 0, len(reqs))
	for _, req := range reqs {
		line, err := reconciliation.NewBankStatementLine(companyID, req.Date, req.Description, req.Amount, req.Reference)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		lines = append(lines, *line)
	}

	if err := s.bankLineRepo.SaveBatch(ctx, lines); err != nil {
		return nil, err
	}

	responses := make([]BankLineResponse, len(lines))
	for i := range lines {
		responses[i] = *toBankLineResponse(&lines[i])
	}
	return responses, nil
}

// BankLineCSVImportResult is the outcome of a CSV statement import. When
// Errors is non-empty nothing was persisted.
type BankLineCSVImportResult struct {
	Imported  []BankLineResponse `json:"imported,omitempty"`
	Errors    []BankCSVRowError  `json:"errors,omitempty"`
	TotalRows int                `json:"total_rows"`
}

// ImportBankLinesCSV parses a CSV bank statement and imports its lines.
// The import is all-or-nothing: any row error rejects the whole file so a
// partially loaded statement never reaches the matcher.
func (s *ReconciliationService) ImportBankLinesCSV(ctx context.Context, companyID uuid.UUID, r io.Reader) (*BankLineCSVImportResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "reconciliation", "import_bank_lines_csv")
	defer span.End()

	reqs, rowErrors, err := ParseBankStatementCSV(r)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	result := &BankLineCSVImportResult{TotalRows: len(reqs) + len(rowErrors)}
	telemetry.SetAttribute(span, "total_rows", result.TotalRows)

	if len(rowErrors) > 0 {
		result.Errors = rowErrors
		return result, nil
	}

	imported, err := s.ImportBankLines(ctx, companyID, reqs)
	if err != nil {
		return nil, err
	}
	result.Imported = imported
	return result, nil
}

// ListBankLines lists imported bank lines with filtering
func (s *ReconciliationService) ListBankLines(ctx context.Context, companyID uuid.UUID, filter BankLineListFilter) ([]BankLineResponse, error) {
	domainFilter := reconciliation.BankLineFilter{
		FromDate:  filter.FromDate,
		ToDate:    filter.ToDate,
		Unmatched: filter.Unmatched,
	}
	domainFilter.Page = filter.Page
	domainFilter.PageSize = filter.PageSize
	domainFilter.Search = filter.Search

	lines, err := s.bankLineRepo.FindAllForCompany(ctx, companyID, domainFilter)
	if err != nil {
		return nil, err
	}
	responses := make([]BankLineResponse, len(lines))
	for i := range lines {
		responses[i] = *toBankLineResponse(&lines[i])
	}
	return responses, nil
}

// ProposeMatch links a receipt to a bank line. Both sides must be unmatched;
// an amount mismatch produces a DISCREPANCY link carrying the difference
// rather than a rejection.
func (s *ReconciliationService) ProposeMatch(ctx context.Context, companyID, receiptID, bankLineID uuid.UUID) (*LinkResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "reconciliation", "propose_match")
	defer span.End()
	telemetry.SetAttributes(span,
		"receipt_id", receiptID.String(),
		"bank_line_id", bankLineID.String(),
	)

	receipt, err := s.receiptRepo.FindByIDForCompany(ctx, companyID, receiptID)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, shared.NewDomainError("RECEIPT_NOT_FOUND", "Receipt not found")
	}
	if receipt.IsCancelled() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot reconcile a cancelled receipt")
	}

	bankLine, err := s.bankLineRepo.FindByIDForCompany(ctx, companyID, bankLineID)
	if err != nil {
		return nil, err
	}
	if bankLine == nil {
		return nil, shared.NewDomainError("BANK_LINE_NOT_FOUND", "Bank statement line not found")
	}

	existing, err := s.linkRepo.FindByLedgerEntry(ctx, companyID, receiptID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, shared.ErrAlreadyMatched
	}
	existing, err = s.linkRepo.FindByBankLine(ctx, companyID, bankLineID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, shared.ErrAlreadyMatched
	}

	result := reconciliation.Match(receipt.Amount, bankLine.Amount)
	link, err := reconciliation.NewReconciliationLink(companyID, receiptID, bankLineID, result)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := s.linkRepo.Save(ctx, link); err != nil {
		return nil, err
	}

	telemetry.AddEvent(span, "match_created", "status", string(link.Status))
	return toLinkResponse(link), nil
}

// Unmatch removes a reconciliation link, returning both sides to unmatched
func (s *ReconciliationService) Unmatch(ctx context.Context, companyID, linkID uuid.UUID) error {
	link, err := s.linkRepo.FindByIDForCompany(ctx, companyID, linkID)
	if err != nil {
		return err
	}
	if link == nil {
		return shared.NewDomainError("NOT_FOUND", "Reconciliation link not found")
	}
	return s.linkRepo.Delete(ctx, companyID, linkID)
}

// ListLinks lists reconciliation links for a company
func (s *ReconciliationService) ListLinks(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]LinkResponse, error) {
	links, err := s.linkRepo.FindAllForCompany(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]LinkResponse, len(links))
	for i := range links {
		responses[i] = *toLinkResponse(&links[i])
	}
	return responses, nil
}

func toBankLineResponse(l *reconciliation.BankStatementLine) *BankLineResponse {
	return &BankLineResponse{
		ID:          l.ID,
		CompanyID:   l.CompanyID,
		Date:        l.Date,
		Description: l.Description,
		Amount:      l.Amount,
		Reference:   l.Reference,
		CreatedAt:   l.CreatedAt,
	}
}

func toLinkResponse(l *reconciliation.ReconciliationLink) *LinkResponse {
	return &LinkResponse{
		ID:                l.ID,
		CompanyID:         l.CompanyID,
		LedgerEntryID:     l.LedgerEntryID,
		BankLineID:        l.BankLineID,
		Status:            string(l.Status),
		DiscrepancyAmount: l.DiscrepancyAmount,
		CreatedAt:         l.CreatedAt,
	}
}
