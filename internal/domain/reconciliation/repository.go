package reconciliation

import (
	"context"
	"time"

	"github.com/facturio/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BankLineFilter defines filtering options for bank line queries
type BankLineFilter struct {
	shared.Filter
	FromDate  *time.Time // Filter by line date range start
	ToDate    *time.Time // Filter by line date range end
	Unmatched *bool      // Only lines without a link
}

// BankLineRepository defines the interface for bank statement line persistence
type BankLineRepository interface {
	// FindByID finds a bank line by ID
	FindByID(ctx context.Context, id uuid.UUID) (*BankStatementLine, error)

	// FindByIDForCompany finds a bank line by ID scoped to a company
	FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*BankStatementLine, error)

	// FindAllForCompany finds bank lines for a company with filtering
	FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter BankLineFilter) ([]BankStatementLine, error)

	// SaveBatch persists a batch of imported lines
	SaveBatch(ctx context.Context, lines []BankStatementLine) error

	// Save creates or updates a bank line
	Save(ctx context.Context, line *BankStatementLine) error
}

// LinkRepository defines the interface for reconciliation link persistence
type LinkRepository interface {
	// FindByID finds a link by ID
	FindByID(ctx context.Context, id uuid.UUID) (*ReconciliationLink, error)

	// FindByIDForCompany finds a link by ID scoped to a company
	FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*ReconciliationLink, error)

	// FindByLedgerEntry finds the link referencing a ledger entry, if any
	FindByLedgerEntry(ctx context.Context, companyID, ledgerEntryID uuid.UUID) (*ReconciliationLink, error)

	// FindByBankLine finds the link referencing a bank line, if any
	FindByBankLine(ctx context.Context, companyID, bankLineID uuid.UUID) (*ReconciliationLink, error)

	// FindAllForCompany finds links for a company
	FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]ReconciliationLink, error)

	// Save creates a link
	Save(ctx context.Context, link *ReconciliationLink) error

	// Delete removes a link, restoring both sides to unmatched
	Delete(ctx context.Context, companyID, id uuid.UUID) error
}
