package billing

import (
	"context"
	"testing"
	"time"

	ledgerapp "github.com/facturio/backend/internal/application/ledger"
	"github.com/facturio/backend/internal/domain/billing"
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/facturio/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type documentServiceMocks struct {
	documents   *MockDocumentRepository
	allocations *MockAllocationRepository
	taxes       *MockTaxProvider
	clients     *MockClientDirectory
	numbering   *MockNumberingStrategy
	deposits    *MockDepositAllocator
}

func newDocumentService(t *testing.T, opts ...DocumentServiceOption) (*DocumentService, *documentServiceMocks) {
	t.Helper()
	m := &documentServiceMocks{
		documents:   new(MockDocumentRepository),
		allocations: new(MockAllocationRepository),
		taxes:       new(MockTaxProvider),
		clients:     new(MockClientDirectory),
		numbering:   new(MockNumberingStrategy),
		deposits:    new(MockDepositAllocator),
	}
	svc := NewDocumentService(m.documents, m.allocations, m.taxes, m.clients, m.numbering, opts...)
	return svc, m
}

func vatTax(rate float64) billing.Tax {
	return billing.Tax{
		ID:     uuid.New(),
		Name:   "VAT",
		Kind:   billing.TaxKindPercentage,
		Value:  decimal.NewFromFloat(rate),
		Active: true,
	}
}

func stampDuty(amount float64) billing.Tax {
	return billing.Tax{
		ID:     uuid.New(),
		Name:   "Stamp duty",
		Kind:   billing.TaxKindFixed,
		Value:  decimal.NewFromFloat(amount),
		Active: true,
	}
}

func TestDocumentService_CreateDocument(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	clientID := uuid.New()

	t.Run("creates a draft invoice with computed totals", func(t *testing.T) {
		svc, m := newDocumentService(t)
		vat := vatTax(19)
		duty := stampDuty(5)

		m.clients.On("ClientExists", ctx, companyID, clientID).Return(true, nil)
		m.taxes.On("TaxesByIDs", ctx, companyID, []uuid.UUID{vat.ID, duty.ID}).Return([]billing.Tax{vat, duty}, nil)
		m.documents.On("Save", ctx, mock.AnythingOfType("*billing.Document")).Return(nil)

		resp, err := svc.CreateDocument(ctx, companyID, CreateDocumentRequest{
			Kind:     "INVOICE",
			ClientID: clientID,
			Lines: []DocumentLineRequest{
				{Description: "Consulting", Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(100)},
			},
			Discount: &DiscountRequest{Kind: "PERCENTAGE", Value: decimal.NewFromInt(10)},
			TaxIDs:   []uuid.UUID{vat.ID, duty.ID},
		})

		require.NoError(t, err)
		assert.Equal(t, "DRAFT", resp.Status)
		assert.Equal(t, "INVOICE", resp.Kind)
		assert.Empty(t, resp.Number)
		// 1000 - 10% = 900; VAT 19% = 171; duty 5; total 1076
		assert.True(t, resp.Totals.Subtotal.Equal(decimal.NewFromInt(1000)))
		assert.True(t, resp.Totals.TaxableBase.Equal(decimal.NewFromInt(900)))
		assert.True(t, resp.Totals.TaxTotal.Equal(decimal.NewFromInt(176)))
		assert.True(t, resp.Totals.GrandTotal.Equal(decimal.NewFromInt(1076)))
	})

	t.Run("rejects an unknown client", func(t *testing.T) {
		svc, m := newDocumentService(t)
		m.clients.On("ClientExists", ctx, companyID, clientID).Return(false, nil)

		_, err := svc.CreateDocument(ctx, companyID, CreateDocumentRequest{
			Kind:     "INVOICE",
			ClientID: clientID,
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CLIENT_NOT_FOUND", domainErr.Code)
	})

	t.Run("rejects a discount exceeding the subtotal", func(t *testing.T) {
		svc, m := newDocumentService(t)
		m.clients.On("ClientExists", ctx, companyID, clientID).Return(true, nil)
		m.taxes.On("TaxesByIDs", ctx, companyID, mock.Anything).Return([]billing.Tax{}, nil)

		_, err := svc.CreateDocument(ctx, companyID, CreateDocumentRequest{
			Kind:     "INVOICE",
			ClientID: clientID,
			Lines: []DocumentLineRequest{
				{Description: "Item", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(100)},
			},
			Discount: &DiscountRequest{Kind: "AMOUNT", Value: decimal.NewFromInt(150)},
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_DISCOUNT", domainErr.Code)
	})
}

func TestDocumentService_UpdateDocument(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()

	t.Run("finalized document rejects updates", func(t *testing.T) {
		svc, m := newDocumentService(t)
		invoice := finalizedInvoice(t, companyID, 100)

		m.documents.On("FindByIDForCompany", ctx, companyID, invoice.ID).Return(invoice, nil)

		_, err := svc.UpdateDocument(ctx, companyID, invoice.ID, UpdateDocumentRequest{
			Lines: []DocumentLineRequest{
				{Description: "Changed", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(999)},
			},
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "DOCUMENT_FROZEN", domainErr.Code)
		m.documents.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})
}

func TestDocumentService_FinalizeDocument(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()

	t.Run("assigns a number and freezes the invoice", func(t *testing.T) {
		svc, m := newDocumentService(t)
		draft := draftInvoice(t, companyID, 500)

		m.documents.On("FindByIDForCompany", ctx, companyID, draft.ID).Return(draft, nil)
		m.numbering.On("NextNumber", ctx, companyID, billing.DocumentKindInvoice, draft.IssueDate).Return("INV-2026-00042", nil)
		m.documents.On("SaveWithLock", ctx, draft).Return(nil)
		m.allocations.On("SumActiveByDocument", ctx, companyID, draft.ID).Return(decimal.Zero, nil)

		resp, err := svc.FinalizeDocument(ctx, companyID, draft.ID)

		require.NoError(t, err)
		assert.Equal(t, "INV-2026-00042", resp.Document.Number)
		assert.Equal(t, "VALIDATED", resp.Document.Status)
		assert.Nil(t, resp.Settlement)
		require.NotNil(t, resp.Document.Outstanding)
		assert.True(t, resp.Document.Outstanding.Equal(decimal.NewFromInt(500)))
	})

	t.Run("settles a finalized invoice against available deposits", func(t *testing.T) {
		deposits := new(MockDepositAllocator)
		svc, m := newDocumentService(t)
		svc = NewDocumentService(m.documents, m.allocations, m.taxes, m.clients, m.numbering, WithDepositSettlement(deposits))
		draft := draftInvoice(t, companyID, 1000)

		m.documents.On("FindByIDForCompany", ctx, companyID, draft.ID).Return(draft, nil)
		m.numbering.On("NextNumber", ctx, companyID, billing.DocumentKindInvoice, draft.IssueDate).Return("INV-2026-00043", nil)
		m.documents.On("SaveWithLock", ctx, draft).Return(nil)
		deposits.On("AutoAllocateDeposits", ctx, companyID, draft.ClientID, draft.ID).Return(&ledgerapp.AutoAllocateResult{
			TotalAllocated:      decimal.NewFromInt(1000),
			ResidualOutstanding: decimal.Zero,
			SurplusRetained:     decimal.NewFromInt(200),
		}, nil)
		m.allocations.On("SumActiveByDocument", ctx, companyID, draft.ID).Return(decimal.NewFromInt(1000), nil)

		resp, err := svc.FinalizeDocument(ctx, companyID, draft.ID)

		require.NoError(t, err)
		require.NotNil(t, resp.Settlement)
		assert.True(t, resp.Settlement.TotalAllocated.Equal(decimal.NewFromInt(1000)))
		assert.True(t, resp.Settlement.SurplusRetained.Equal(decimal.NewFromInt(200)))
		require.NotNil(t, resp.Document.Outstanding)
		assert.True(t, resp.Document.Outstanding.IsZero())
	})

	t.Run("rejects finalizing a document without lines", func(t *testing.T) {
		svc, m := newDocumentService(t)
		empty, err := billing.NewDocument(companyID, uuid.New(), billing.DocumentKindInvoice, time.Now(), valueobject.EUR)
		require.NoError(t, err)

		m.documents.On("FindByIDForCompany", ctx, companyID, empty.ID).Return(empty, nil)
		m.numbering.On("NextNumber", ctx, companyID, billing.DocumentKindInvoice, empty.IssueDate).Return("INV-2026-00044", nil)

		_, err = svc.FinalizeDocument(ctx, companyID, empty.ID)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "EMPTY_DOCUMENT", domainErr.Code)
	})
}

func TestDocumentService_CancelDocument(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()

	t.Run("cancels a document without active allocations", func(t *testing.T) {
		svc, m := newDocumentService(t)
		invoice := finalizedInvoice(t, companyID, 100)

		m.documents.On("FindByIDForCompany", ctx, companyID, invoice.ID).Return(invoice, nil)
		m.allocations.On("CountActiveByDocument", ctx, companyID, invoice.ID).Return(int64(0), nil)
		m.documents.On("SaveWithLock", ctx, invoice).Return(nil)

		resp, err := svc.CancelDocument(ctx, companyID, invoice.ID, "duplicate entry")

		require.NoError(t, err)
		assert.Equal(t, "CANCELLED", resp.Status)
		assert.Equal(t, "duplicate entry", resp.CancelReason)
	})

	t.Run("refuses to cancel with active allocations", func(t *testing.T) {
		svc, m := newDocumentService(t)
		invoice := finalizedInvoice(t, companyID, 100)

		m.documents.On("FindByIDForCompany", ctx, companyID, invoice.ID).Return(invoice, nil)
		m.allocations.On("CountActiveByDocument", ctx, companyID, invoice.ID).Return(int64(2), nil)

		_, err := svc.CancelDocument(ctx, companyID, invoice.ID, "typo")

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "HAS_ALLOCATIONS", domainErr.Code)
	})
}

func TestDocumentService_PreviewTotals(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()

	svc, m := newDocumentService(t)
	vat := vatTax(19)
	m.taxes.On("TaxesByIDs", ctx, companyID, []uuid.UUID{vat.ID}).Return([]billing.Tax{vat}, nil)

	totals, err := svc.PreviewTotals(ctx, companyID, CreateDocumentRequest{
		Currency: "EUR",
		Lines: []DocumentLineRequest{
			{Description: "Item", Quantity: decimal.NewFromInt(3), UnitPrice: decimal.NewFromFloat(33.33)},
		},
		TaxIDs: []uuid.UUID{vat.ID},
	})

	require.NoError(t, err)
	assert.True(t, totals.Subtotal.Equal(decimal.NewFromFloat(99.99)))
	assert.True(t, totals.TaxTotal.Equal(decimal.NewFromFloat(19.00)))
	assert.True(t, totals.GrandTotal.Equal(decimal.NewFromFloat(118.99)))
}

func draftInvoice(t *testing.T, companyID uuid.UUID, amount float64) *billing.Document {
	t.Helper()
	d, err := billing.NewDocument(companyID, uuid.New(), billing.DocumentKindInvoice, time.Now(), valueobject.EUR)
	require.NoError(t, err)
	line, err := billing.NewDocumentLine("Services", decimal.NewFromInt(1), decimal.NewFromFloat(amount), nil, 0)
	require.NoError(t, err)
	require.NoError(t, d.ReplaceLines([]billing.DocumentLine{line}))
	totals, err := billing.ComputeTotals(d.Lines, nil, nil, valueobject.EUR)
	require.NoError(t, err)
	require.NoError(t, d.ApplyTotals(totals))
	return d
}

func finalizedInvoice(t *testing.T, companyID uuid.UUID, amount float64) *billing.Document {
	t.Helper()
	d := draftInvoice(t, companyID, amount)
	require.NoError(t, d.Finalize("INV-2026-00001"))
	return d
}
