package billing

import (
	"context"
	"time"

	ledgerapp "github.com/facturio/backend/internal/application/ledger"
	"github.com/facturio/backend/internal/domain/billing"
	"github.com/facturio/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// =============================================================================
// Mock Repositories for Document Service
// =============================================================================

// MockDocumentRepository is a mock implementation of billing.DocumentRepository
type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*billing.Document, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindByNumber(ctx context.Context, companyID uuid.UUID, number string) (*billing.Document, error) {
	args := m.Called(ctx, companyID, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter billing.DocumentFilter) ([]billing.Document, error) {
	args := m.Called(ctx, companyID, filter)
	return args.Get(0).([]billing.Document), args.Error(1)
}

func (m *MockDocumentRepository) CountForCompany(ctx context.Context, companyID uuid.UUID, filter billing.DocumentFilter) (int64, error) {
	args := m.Called(ctx, companyID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDocumentRepository) Save(ctx context.Context, document *billing.Document) error {
	args := m.Called(ctx, document)
	return args.Error(0)
}

func (m *MockDocumentRepository) SaveWithLock(ctx context.Context, document *billing.Document) error {
	args := m.Called(ctx, document)
	return args.Error(0)
}

// MockAllocationRepository is a mock implementation of ledger.AllocationRepository
type MockAllocationRepository struct {
	mock.Mock
}

func (m *MockAllocationRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Allocation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Allocation), args.Error(1)
}

func (m *MockAllocationRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*ledger.Allocation, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Allocation), args.Error(1)
}

func (m *MockAllocationRepository) FindBySource(ctx context.Context, companyID uuid.UUID, sourceType ledger.AllocationSourceType, sourceID uuid.UUID) ([]ledger.Allocation, error) {
	args := m.Called(ctx, companyID, sourceType, sourceID)
	return args.Get(0).([]ledger.Allocation), args.Error(1)
}

func (m *MockAllocationRepository) FindByDocument(ctx context.Context, companyID, documentID uuid.UUID) ([]ledger.Allocation, error) {
	args := m.Called(ctx, companyID, documentID)
	return args.Get(0).([]ledger.Allocation), args.Error(1)
}

func (m *MockAllocationRepository) SumActiveBySource(ctx context.Context, companyID uuid.UUID, sourceType ledger.AllocationSourceType, sourceID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, companyID, sourceType, sourceID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockAllocationRepository) SumActiveByDocument(ctx context.Context, companyID, documentID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, companyID, documentID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockAllocationRepository) CountActiveByDocument(ctx context.Context, companyID, documentID uuid.UUID) (int64, error) {
	args := m.Called(ctx, companyID, documentID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAllocationRepository) Save(ctx context.Context, allocation *ledger.Allocation) error {
	args := m.Called(ctx, allocation)
	return args.Error(0)
}

// MockTaxProvider is a mock implementation of billing.TaxProvider
type MockTaxProvider struct {
	mock.Mock
}

func (m *MockTaxProvider) TaxesByIDs(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) ([]billing.Tax, error) {
	args := m.Called(ctx, companyID, ids)
	return args.Get(0).([]billing.Tax), args.Error(1)
}

// MockClientDirectory is a mock implementation of billing.ClientDirectory
type MockClientDirectory struct {
	mock.Mock
}

func (m *MockClientDirectory) ClientExists(ctx context.Context, companyID, clientID uuid.UUID) (bool, error) {
	args := m.Called(ctx, companyID, clientID)
	return args.Bool(0), args.Error(1)
}

// MockNumberingStrategy is a mock implementation of billing.NumberingStrategy
type MockNumberingStrategy struct {
	mock.Mock
}

func (m *MockNumberingStrategy) NextNumber(ctx context.Context, companyID uuid.UUID, kind billing.DocumentKind, issueDate time.Time) (string, error) {
	args := m.Called(ctx, companyID, kind, issueDate)
	return args.String(0), args.Error(1)
}

// MockDepositAllocator is a mock implementation of DepositAllocator
type MockDepositAllocator struct {
	mock.Mock
}

func (m *MockDepositAllocator) AutoAllocateDeposits(ctx context.Context, companyID, clientID, documentID uuid.UUID) (*ledgerapp.AutoAllocateResult, error) {
	args := m.Called(ctx, companyID, clientID, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledgerapp.AutoAllocateResult), args.Error(1)
}
