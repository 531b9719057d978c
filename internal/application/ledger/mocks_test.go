package ledger

import (
	"context"
	"time"

	"github.com/facturio/backend/internal/domain/billing"
	"github.com/facturio/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// =============================================================================
// Mock Repositories for Ledger Application Services
// =============================================================================

// MockReceiptRepository is a mock implementation of ledger.ReceiptRepository
type MockReceiptRepository struct {
	mock.Mock
}

func (m *MockReceiptRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Receipt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Receipt), args.Error(1)
}

func (m *MockReceiptRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*ledger.Receipt, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Receipt), args.Error(1)
}

func (m *MockReceiptRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter ledger.ReceiptFilter) ([]ledger.Receipt, error) {
	args := m.Called(ctx, companyID, filter)
	return args.Get(0).([]ledger.Receipt), args.Error(1)
}

func (m *MockReceiptRepository) FindAvailableDeposits(ctx context.Context, companyID, clientID uuid.UUID) ([]ledger.Receipt, error) {
	args := m.Called(ctx, companyID, clientID)
	return args.Get(0).([]ledger.Receipt), args.Error(1)
}

func (m *MockReceiptRepository) CountForCompany(ctx context.Context, companyID uuid.UUID, filter ledger.ReceiptFilter) (int64, error) {
	args := m.Called(ctx, companyID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReceiptRepository) Save(ctx context.Context, receipt *ledger.Receipt) error {
	args := m.Called(ctx, receipt)
	return args.Error(0)
}

func (m *MockReceiptRepository) SaveWithLock(ctx context.Context, receipt *ledger.Receipt) error {
	args := m.Called(ctx, receipt)
	return args.Error(0)
}

func (m *MockReceiptRepository) GenerateReceiptNumber(ctx context.Context, companyID uuid.UUID, receiptDate time.Time) (string, error) {
	args := m.Called(ctx, companyID, receiptDate)
	return args.String(0), args.Error(1)
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

// MockCreditNoteRepository is a mock implementation of ledger.CreditNoteRepository
type MockCreditNoteRepository struct {
	mock.Mock
}

func (m *MockCreditNoteRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.CreditNote, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.CreditNote), args.Error(1)
}

func (m *MockCreditNoteRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*ledger.CreditNote, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.CreditNote), args.Error(1)
}

func (m *MockCreditNoteRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter ledger.CreditNoteFilter) ([]ledger.CreditNote, error) {
	args := m.Called(ctx, companyID, filter)
	return args.Get(0).([]ledger.CreditNote), args.Error(1)
}

func (m *MockCreditNoteRepository) CountForCompany(ctx context.Context, companyID uuid.UUID, filter ledger.CreditNoteFilter) (int64, error) {
	args := m.Called(ctx, companyID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCreditNoteRepository) Save(ctx context.Context, note *ledger.CreditNote) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

func (m *MockCreditNoteRepository) SaveWithLock(ctx context.Context, note *ledger.CreditNote) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

func (m *MockCreditNoteRepository) GenerateCreditNoteNumber(ctx context.Context, companyID uuid.UUID, issueDate time.Time) (string, error) {
	args := m.Called(ctx, companyID, issueDate)
	return args.String(0), args.Error(1)
}

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

// MockClientDirectory is a mock implementation of billing.ClientDirectory
type MockClientDirectory struct {
	mock.Mock
}

func (m *MockClientDirectory) ClientExists(ctx context.Context, companyID, clientID uuid.UUID) (bool, error) {
	args := m.Called(ctx, companyID, clientID)
	return args.Bool(0), args.Error(1)
}

// stubTxRunner invokes the callback directly with the given repositories;
// transactional semantics are covered by the persistence tests.
type stubTxRunner struct {
	repos TxRepos
}

func (r *stubTxRunner) InTx(ctx context.Context, fn func(ctx context.Context, repos TxRepos) error) error {
	return fn(ctx, r.repos)
}
