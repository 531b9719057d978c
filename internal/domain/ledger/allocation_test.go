package ledger

import (
	"testing"

	"github.com/facturio/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAllocation(t *testing.T) {
	tests := []struct {
		name       string
		sourceType AllocationSourceType
		sourceID   uuid.UUID
		documentID uuid.UUID
		amount     decimal.Decimal
		wantErr    string
	}{
		{
			name:       "valid receipt allocation",
			sourceType: AllocationSourceReceipt,
			sourceID:   uuid.New(),
			documentID: uuid.New(),
			amount:     decimal.NewFromInt(100),
		},
		{
			name:       "valid credit note allocation",
			sourceType: AllocationSourceCreditNote,
			sourceID:   uuid.New(),
			documentID: uuid.New(),
			amount:     decimal.NewFromInt(200),
		},
		{
			name:       "invalid source type",
			sourceType: AllocationSourceType("WALLET"),
			sourceID:   uuid.New(),
			documentID: uuid.New(),
			amount:     decimal.NewFromInt(100),
			wantErr:    "INVALID_SOURCE",
		},
		{
			name:       "missing document",
			sourceType: AllocationSourceReceipt,
			sourceID:   uuid.New(),
			amount:     decimal.NewFromInt(100),
			wantErr:    "INVALID_DOCUMENT",
		},
		{
			name:       "zero amount",
			sourceType: AllocationSourceReceipt,
			sourceID:   uuid.New(),
			documentID: uuid.New(),
			amount:     decimal.Zero,
			wantErr:    "INVALID_AMOUNT",
		},
		{
			name:       "negative amount",
			sourceType: AllocationSourceReceipt,
			sourceID:   uuid.New(),
			documentID: uuid.New(),
			amount:     decimal.NewFromInt(-10),
			wantErr:    "INVALID_AMOUNT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := NewAllocation(uuid.New(), tt.sourceType, tt.sourceID, tt.documentID, tt.amount)
			if tt.wantErr != "" {
				require.Error(t, err)
				var domainErr *shared.DomainError
				require.ErrorAs(t, err, &domainErr)
				assert.Equal(t, tt.wantErr, domainErr.Code)
				return
			}
			require.NoError(t, err)
			assert.True(t, a.IsActive())
			assert.Nil(t, a.ReversedAt)
		})
	}
}

func TestAllocationReverse(t *testing.T) {
	t.Run("reverses receipt allocation", func(t *testing.T) {
		a, err := NewAllocation(uuid.New(), AllocationSourceReceipt, uuid.New(), uuid.New(), decimal.NewFromInt(50))
		require.NoError(t, err)
		require.NoError(t, a.Reverse())
		assert.True(t, a.Reversed)
		assert.NotNil(t, a.ReversedAt)
		assert.False(t, a.IsActive())
	})

	t.Run("cannot reverse twice", func(t *testing.T) {
		a, err := NewAllocation(uuid.New(), AllocationSourceReceipt, uuid.New(), uuid.New(), decimal.NewFromInt(50))
		require.NoError(t, err)
		require.NoError(t, a.Reverse())
		assert.Error(t, a.Reverse())
	})

	t.Run("credit note allocation is one-way", func(t *testing.T) {
		a, err := NewAllocation(uuid.New(), AllocationSourceCreditNote, uuid.New(), uuid.New(), decimal.NewFromInt(50))
		require.NoError(t, err)
		err = a.Reverse()
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_SOURCE", domainErr.Code)
		assert.True(t, a.IsActive())
	})
}
