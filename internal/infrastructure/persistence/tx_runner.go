package persistence

import (
	"context"

	ledgerapp "github.com/facturio/backend/internal/application/ledger"
	"gorm.io/gorm"
)

// GormTxRunner runs ledger units of work inside a database transaction.
// Every repository handed to the callback is bound to the same transaction,
// so an allocation and its receipt update commit or roll back together.
type GormTxRunner struct {
	db *gorm.DB
}

// NewGormTxRunner creates a new GormTxRunner
func NewGormTxRunner(db *gorm.DB) *GormTxRunner {
	return &GormTxRunner{db: db}
}

// InTx executes fn within a transaction
func (r *GormTxRunner) InTx(ctx context.Context, fn func(ctx context.Context, repos ledgerapp.TxRepos) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := ledgerapp.TxRepos{
			Receipts:    NewGormReceiptRepository(tx),
			Allocations: NewGormAllocationRepository(tx),
			CreditNotes: NewGormCreditNoteRepository(tx),
			Documents:   NewGormDocumentRepository(tx),
		}
		return fn(ctx, repos)
	})
}
