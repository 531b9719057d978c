package ledger

import (
	"context"

	"github.com/facturio/backend/internal/domain/billing"
	"github.com/facturio/backend/internal/domain/ledger"
)

// TxRepos groups the repositories participating in one settlement transaction,
// all bound to the same underlying database transaction.
type TxRepos struct {
	Receipts    ledger.ReceiptRepository
	Allocations ledger.AllocationRepository
	CreditNotes ledger.CreditNoteRepository
	Documents   billing.DocumentRepository
}

// TxRunner executes fn inside a single database transaction. The remaining-
// amount check and the allocation write must share one transaction so that
// concurrent allocations against the same receipt cannot both commit on a
// stale read.
type TxRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context, repos TxRepos) error) error
}
