package billing

import (
	"context"
	"time"

	"github.com/facturio/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DocumentFilter defines filtering options for document queries
type DocumentFilter struct {
	shared.Filter
	Kind     *DocumentKind   // Filter by kind
	Status   *DocumentStatus // Filter by status
	ClientID *uuid.UUID      // Filter by client
	FromDate *time.Time      // Filter by issue date range start
	ToDate   *time.Time      // Filter by issue date range end
}

// DocumentRepository defines the interface for document persistence
type DocumentRepository interface {
	// FindByID finds a document by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Document, error)

	// FindByIDForCompany finds a document by ID scoped to a company
	FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*Document, error)

	// FindByNumber finds a document by its assigned number for a company
	FindByNumber(ctx context.Context, companyID uuid.UUID, number string) (*Document, error)

	// FindAllForCompany finds documents for a company with filtering
	FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter DocumentFilter) ([]Document, error)

	// CountForCompany counts documents for a company with optional filters
	CountForCompany(ctx context.Context, companyID uuid.UUID, filter DocumentFilter) (int64, error)

	// Save creates or updates a document
	Save(ctx context.Context, document *Document) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, document *Document) error
}
