package ledger

import (
	"context"
	"time"

	"github.com/facturio/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReceiptFilter defines filtering options for receipt queries
type ReceiptFilter struct {
	shared.Filter
	ClientID  *uuid.UUID     // Filter by client
	Kind      *ReceiptKind   // Filter by kind
	Status    *ReceiptStatus // Filter by derived status
	FromDate  *time.Time     // Filter by receipt date range start
	ToDate    *time.Time     // Filter by receipt date range end
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
}

// ReceiptRepository defines the interface for receipt persistence.
// Implementations must populate AllocatedAmount from the sum of non-reversed
// allocations when loading a receipt.
type ReceiptRepository interface {
	// FindByID finds a receipt by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Receipt, error)

	// FindByIDForCompany finds a receipt by ID scoped to a company
	FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*Receipt, error)

	// FindAllForCompany finds receipts for a company with filtering
	FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter ReceiptFilter) ([]Receipt, error)

	// FindAvailableDeposits finds deposit receipts of a client that still
	// have remaining credit, oldest receipt date first
	FindAvailableDeposits(ctx context.Context, companyID, clientID uuid.UUID) ([]Receipt, error)

	// CountForCompany counts receipts for a company with optional filters
	CountForCompany(ctx context.Context, companyID uuid.UUID, filter ReceiptFilter) (int64, error)

	// Save creates or updates a receipt
	Save(ctx context.Context, receipt *Receipt) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, receipt *Receipt) error

	// GenerateReceiptNumber generates a unique receipt number for a company
	GenerateReceiptNumber(ctx context.Context, companyID uuid.UUID, receiptDate time.Time) (string, error)
}

// AllocationRepository defines the interface for allocation persistence
type AllocationRepository interface {
	// FindByID finds an allocation by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Allocation, error)

	// FindByIDForCompany finds an allocation by ID scoped to a company
	FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*Allocation, error)

	// FindBySource finds allocations originating from a receipt or credit note
	FindBySource(ctx context.Context, companyID uuid.UUID, sourceType AllocationSourceType, sourceID uuid.UUID) ([]Allocation, error)

	// FindByDocument finds allocations targeting a document
	FindByDocument(ctx context.Context, companyID, documentID uuid.UUID) ([]Allocation, error)

	// SumActiveBySource sums non-reversed allocation amounts from a source
	SumActiveBySource(ctx context.Context, companyID uuid.UUID, sourceType AllocationSourceType, sourceID uuid.UUID) (decimal.Decimal, error)

	// SumActiveByDocument sums non-reversed allocation amounts targeting a document
	SumActiveByDocument(ctx context.Context, companyID, documentID uuid.UUID) (decimal.Decimal, error)

	// CountActiveByDocument counts non-reversed allocations targeting a document
	CountActiveByDocument(ctx context.Context, companyID, documentID uuid.UUID) (int64, error)

	// Save creates or updates an allocation
	Save(ctx context.Context, allocation *Allocation) error
}

// CreditNoteFilter defines filtering options for credit note queries
type CreditNoteFilter struct {
	shared.Filter
	ClientID  *uuid.UUID        // Filter by client
	InvoiceID *uuid.UUID        // Filter by originating invoice
	Status    *CreditNoteStatus // Filter by status
}

// CreditNoteRepository defines the interface for credit note persistence
type CreditNoteRepository interface {
	// FindByID finds a credit note by ID
	FindByID(ctx context.Context, id uuid.UUID) (*CreditNote, error)

	// FindByIDForCompany finds a credit note by ID scoped to a company
	FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*CreditNote, error)

	// FindAllForCompany finds credit notes for a company with filtering
	FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter CreditNoteFilter) ([]CreditNote, error)

	// CountForCompany counts credit notes for a company with optional filters
	CountForCompany(ctx context.Context, companyID uuid.UUID, filter CreditNoteFilter) (int64, error)

	// Save creates or updates a credit note
	Save(ctx context.Context, note *CreditNote) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, note *CreditNote) error

	// GenerateCreditNoteNumber generates a unique credit note number for a company
	GenerateCreditNoteNumber(ctx context.Context, companyID uuid.UUID, issueDate time.Time) (string, error)
}
