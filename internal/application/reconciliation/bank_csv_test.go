package reconciliation

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	csvimport "github.com/facturio/backend/internal/infrastructure/import"
)

func TestParseBankStatementCSV(t *testing.T) {
	t.Run("parses a well-formed statement", func(t *testing.T) {
		csv := "date,description,amount,reference\n" +
			"2026-01-15,SEPA CREDIT ACME,1500.00,INV-2026-00042\n" +
			"2026-01-16,CARD SETTLEMENT,-80.50,\n"

		reqs, rowErrors, err := ParseBankStatementCSV(strings.NewReader(csv))

		require.NoError(t, err)
		assert.Empty(t, rowErrors)
		require.Len(t, reqs, 2)
		assert.Equal(t, "SEPA CREDIT ACME", reqs[0].Description)
		assert.Equal(t, "INV-2026-00042", reqs[0].Reference)
		assert.Equal(t, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), reqs[0].Date)
		assert.True(t, reqs[0].Amount.Equal(decimal.NewFromFloat(1500.00)))
		assert.True(t, reqs[1].Amount.Equal(decimal.NewFromFloat(-80.50)))
		assert.Empty(t, reqs[1].Reference)
	})

	t.Run("accepts slash-separated dates", func(t *testing.T) {
		csv := "date,description,amount\n15/01/2026,TRANSFER,100\n"

		reqs, rowErrors, err := ParseBankStatementCSV(strings.NewReader(csv))

		require.NoError(t, err)
		assert.Empty(t, rowErrors)
		require.Len(t, reqs, 1)
		assert.Equal(t, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), reqs[0].Date)
	})

	t.Run("collects row errors with line numbers", func(t *testing.T) {
		csv := "date,description,amount,reference\n" +
			"2026-01-15,TRANSFER A,100,\n" +
			"not-a-date,TRANSFER B,100,\n" +
			"2026-01-17,,abc,\n"

		reqs, rowErrors, err := ParseBankStatementCSV(strings.NewReader(csv))

		require.NoError(t, err)
		require.Len(t, reqs, 1)
		require.Len(t, rowErrors, 3)
		assert.Equal(t, 3, rowErrors[0].Line)
		assert.Equal(t, "date", rowErrors[0].Field)
		assert.Equal(t, 4, rowErrors[1].Line)
		assert.Equal(t, "description", rowErrors[1].Field)
		assert.Equal(t, "amount", rowErrors[2].Field)
	})

	t.Run("rejects a statement missing required columns", func(t *testing.T) {
		csv := "date,label,value\n2026-01-15,TRANSFER,100\n"

		_, _, err := ParseBankStatementCSV(strings.NewReader(csv))

		require.Error(t, err)
		assert.ErrorIs(t, err, csvimport.ErrMissingHeader)
	})

	t.Run("rejects a header-only file", func(t *testing.T) {
		csv := "date,description,amount\n"

		_, _, err := ParseBankStatementCSV(strings.NewReader(csv))

		assert.ErrorIs(t, err, csvimport.ErrNoDataRows)
	})

	t.Run("rejects an empty file", func(t *testing.T) {
		_, _, err := ParseBankStatementCSV(strings.NewReader(""))

		assert.ErrorIs(t, err, csvimport.ErrEmptyFile)
	})
}

func TestReconciliationService_ImportBankLinesCSV(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()

	t.Run("imports a valid statement file", func(t *testing.T) {
		svc, bankLines, _, _ := newService(t)
		bankLines.On("SaveBatch", mock.Anything, mock.AnythingOfType("[]reconciliation.BankStatementLine")).Return(nil)

		csv := "date,description,amount,reference\n" +
			"2026-01-15,SEPA CREDIT ACME,1500.00,INV-2026-00042\n" +
			"2026-01-16,CARD SETTLEMENT,-80.50,\n"

		result, err := svc.ImportBankLinesCSV(ctx, companyID, strings.NewReader(csv))

		require.NoError(t, err)
		assert.Equal(t, 2, result.TotalRows)
		assert.Empty(t, result.Errors)
		require.Len(t, result.Imported, 2)
		assert.Equal(t, companyID, result.Imported[0].CompanyID)
	})

	t.Run("rejects the whole file when any row is invalid", func(t *testing.T) {
		svc, bankLines, _, _ := newService(t)

		csv := "date,description,amount\n" +
			"2026-01-15,TRANSFER A,100\n" +
			"bad-date,TRANSFER B,100\n"

		result, err := svc.ImportBankLinesCSV(ctx, companyID, strings.NewReader(csv))

		require.NoError(t, err)
		assert.Equal(t, 2, result.TotalRows)
		assert.Empty(t, result.Imported)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, 3, result.Errors[0].Line)
		bankLines.AssertNotCalled(t, "SaveBatch", mock.Anything, mock.Anything)
	})

	t.Run("propagates file-level parse errors", func(t *testing.T) {
		svc, _, _, _ := newService(t)

		_, err := svc.ImportBankLinesCSV(ctx, companyID, strings.NewReader("label,value\nA,1\n"))

		assert.ErrorIs(t, err, csvimport.ErrMissingHeader)
	})
}
