package reconciliation

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		name         string
		ledgerAmount string
		bankAmount   string
		wantStatus   LinkStatus
		wantDelta    string
	}{
		{
			name:         "exact match",
			ledgerAmount: "1500",
			bankAmount:   "1500",
			wantStatus:   LinkStatusMatched,
			wantDelta:    "0",
		},
		{
			name:         "bank line short",
			ledgerAmount: "1500",
			bankAmount:   "1480",
			wantStatus:   LinkStatusDiscrepancy,
			wantDelta:    "20",
		},
		{
			name:         "bank line over",
			ledgerAmount: "1480",
			bankAmount:   "1500",
			wantStatus:   LinkStatusDiscrepancy,
			wantDelta:    "20",
		},
		{
			name:         "cent level difference",
			ledgerAmount: "99.99",
			bankAmount:   "100.00",
			wantStatus:   LinkStatusDiscrepancy,
			wantDelta:    "0.01",
		},
		{
			name:         "exact match with decimals",
			ledgerAmount: "1234.56",
			bankAmount:   "1234.56",
			wantStatus:   LinkStatusMatched,
			wantDelta:    "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Match(decimal.RequireFromString(tt.ledgerAmount), decimal.RequireFromString(tt.bankAmount))
			assert.Equal(t, tt.wantStatus, result.Status)
			assert.True(t, result.DiscrepancyAmount.Equal(decimal.RequireFromString(tt.wantDelta)),
				"delta = %s", result.DiscrepancyAmount)
		})
	}
}

func TestNewReconciliationLink(t *testing.T) {
	companyID := uuid.New()

	t.Run("matched link carries no discrepancy", func(t *testing.T) {
		result := Match(decimal.NewFromInt(100), decimal.NewFromInt(100))
		link, err := NewReconciliationLink(companyID, uuid.New(), uuid.New(), result)
		require.NoError(t, err)
		assert.Equal(t, LinkStatusMatched, link.Status)
		assert.Nil(t, link.DiscrepancyAmount)
	})

	t.Run("discrepancy link records the delta", func(t *testing.T) {
		result := Match(decimal.NewFromInt(1500), decimal.NewFromInt(1480))
		link, err := NewReconciliationLink(companyID, uuid.New(), uuid.New(), result)
		require.NoError(t, err)
		assert.Equal(t, LinkStatusDiscrepancy, link.Status)
		require.NotNil(t, link.DiscrepancyAmount)
		assert.True(t, link.DiscrepancyAmount.Equal(decimal.NewFromInt(20)))
	})

	t.Run("requires both sides", func(t *testing.T) {
		result := Match(decimal.NewFromInt(100), decimal.NewFromInt(100))
		_, err := NewReconciliationLink(companyID, uuid.Nil, uuid.New(), result)
		assert.Error(t, err)
		_, err = NewReconciliationLink(companyID, uuid.New(), uuid.Nil, result)
		assert.Error(t, err)
	})
}

func TestNewBankStatementLine(t *testing.T) {
	t.Run("valid line", func(t *testing.T) {
		line, err := NewBankStatementLine(uuid.New(), time.Now(), "wire transfer", decimal.NewFromInt(1500), "TRX-991")
		require.NoError(t, err)
		assert.Equal(t, "TRX-991", line.Reference)
	})

	t.Run("requires a date", func(t *testing.T) {
		_, err := NewBankStatementLine(uuid.New(), time.Time{}, "wire transfer", decimal.NewFromInt(1500), "")
		assert.Error(t, err)
	})
}
