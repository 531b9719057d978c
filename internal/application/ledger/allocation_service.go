package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/facturio/backend/internal/domain/billing"
	"github.com/facturio/backend/internal/domain/ledger"
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/facturio/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// maxCommitRetries bounds the optimistic-lock retry loop. The retry that
// loses a race re-derives the remaining amount and fails on validation, so
// a couple of attempts is enough.
const maxCommitRetries = 3

// AllocationService is the transactional core of the settlement ledger. It
// moves money between receipt credit and document outstanding balance under
// the conservation invariant, safely under concurrent requests.
type AllocationService struct {
	tx     TxRunner
	events shared.EventPublisher
}

// AllocationServiceOption is a functional option for configuring AllocationService
type AllocationServiceOption func(*AllocationService)

// WithAllocationEventPublisher publishes allocation and settlement events
// after each committed transaction.
func WithAllocationEventPublisher(publisher shared.EventPublisher) AllocationServiceOption {
	return func(s *AllocationService) {
		s.events = publisher
	}
}

// NewAllocationService creates a new AllocationService
func NewAllocationService(tx TxRunner, opts ...AllocationServiceOption) *AllocationService {
	s := &AllocationService{tx: tx}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AllocationProposal is a client-side proposed allocation for AutoAllocate
type AllocationProposal struct {
	ReceiptID uuid.UUID       `json:"receipt_id"`
	Amount    decimal.Decimal `json:"amount"`
}

// AutoAllocateResult reports what an auto-allocation pass actually committed
type AutoAllocateResult struct {
	Allocations         []ledger.Allocation `json:"allocations"`
	TotalAllocated      decimal.Decimal     `json:"total_allocated"`
	ResidualOutstanding decimal.Decimal     `json:"residual_outstanding"`
	// SurplusRetained is the credit left on the funding receipts after the
	// pass. It stays assignable on the receipts and is never refunded.
	SurplusRetained decimal.Decimal `json:"surplus_retained"`
}

// retryOnConflict reruns fn while it fails with an optimistic-lock conflict
func (s *AllocationService) retryOnConflict(ctx context.Context, fn func(ctx context.Context, repos TxRepos) error) error {
	var err error
	for attempt := 0; attempt < maxCommitRetries; attempt++ {
		err = s.tx.InTx(ctx, fn)
		if !isConcurrencyConflict(err) {
			return err
		}
	}
	return err
}

func isConcurrencyConflict(err error) bool {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == shared.ErrConcurrencyConflict.Code
	}
	return false
}

// Allocate moves amount from a receipt's remaining credit to a document's
// outstanding balance. The remaining-amount check runs inside the same
// transaction as the allocation insert; a concurrent allocation that bumped
// the receipt version first forces a retry, which re-derives the remaining
// amount and fails with INSUFFICIENT_REMAINING_AMOUNT if the credit is gone.
func (s *AllocationService) Allocate(ctx context.Context, companyID, receiptID, documentID uuid.UUID, amount decimal.Decimal) (*ledger.Allocation, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "allocation", "allocate")
	defer span.End()
	telemetry.SetAttributes(span,
		"receipt_id", receiptID.String(),
		"document_id", documentID.String(),
		telemetry.SpanAttrAmount, amount.String(),
	)

	var allocation *ledger.Allocation
	var pending []shared.DomainEvent
	err := s.retryOnConflict(ctx, func(ctx context.Context, repos TxRepos) error {
		// A retried attempt starts over; events from the rolled-back
		// attempt must not be published.
		pending = pending[:0]
		var err error
		allocation, err = s.allocateInTx(ctx, repos, companyID, receiptID, documentID, amount, &pending)
		return err
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	publishEvents(ctx, s.events, pending...)
	return allocation, nil
}

func (s *AllocationService) allocateInTx(ctx context.Context, repos TxRepos, companyID, receiptID, documentID uuid.UUID, amount decimal.Decimal, pending *[]shared.DomainEvent) (*ledger.Allocation, error) {
	receipt, err := repos.Receipts.FindByIDForCompany(ctx, companyID, receiptID)
	if err != nil {
		return nil, fmt.Errorf("failed to load receipt: %w", err)
	}
	if receipt == nil {
		return nil, shared.NewDomainError("RECEIPT_NOT_FOUND", "Receipt not found")
	}

	document, err := repos.Documents.FindByIDForCompany(ctx, companyID, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	if document == nil {
		return nil, shared.NewDomainError("DOCUMENT_NOT_FOUND", "Document not found")
	}
	if !document.CanReceiveAllocations() {
		return nil, shared.ErrDocumentNotAllocatable
	}

	allocated, err := repos.Allocations.SumActiveByDocument(ctx, companyID, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum document allocations: %w", err)
	}
	outstanding := document.Outstanding(allocated)
	if outstanding.IsZero() {
		return nil, shared.ErrDocumentNotAllocatable
	}
	if amount.GreaterThan(outstanding) {
		return nil, shared.NewDomainError("EXCEEDS_OUTSTANDING", fmt.Sprintf("Allocation amount %s exceeds outstanding balance %s", amount, outstanding))
	}

	// Validates amount > 0 and amount <= remaining.
	if err := receipt.RecordAllocation(amount); err != nil {
		return nil, err
	}

	allocation, err := ledger.NewAllocation(companyID, ledger.AllocationSourceReceipt, receiptID, documentID, amount)
	if err != nil {
		return nil, err
	}
	if err := repos.Allocations.Save(ctx, allocation); err != nil {
		return nil, fmt.Errorf("failed to save allocation: %w", err)
	}

	// The version check here closes the double-spend race: a stale read
	// cannot commit once a concurrent allocation advanced the version.
	if err := repos.Receipts.SaveWithLock(ctx, receipt); err != nil {
		return nil, err
	}
	*pending = append(*pending, ledger.NewAllocationCreatedEvent(allocation))

	if outstanding.Sub(amount).IsZero() {
		if err := document.MarkPaid(); err != nil {
			return nil, err
		}
		if err := repos.Documents.SaveWithLock(ctx, document); err != nil {
			return nil, err
		}
		drainAggregateEvents(pending, document)
	}

	return allocation, nil
}

// AutoAllocate re-validates each proposal against the current remaining
// amounts, silently caps to what is available (never raising a proposed
// amount), commits the valid subset and reports the residual uncovered
// balance plus the surplus retained on the funding receipts.
func (s *AllocationService) AutoAllocate(ctx context.Context, companyID, documentID uuid.UUID, proposals []AllocationProposal) (*AutoAllocateResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "allocation", "auto_allocate")
	defer span.End()
	telemetry.SetAttributes(span,
		"document_id", documentID.String(),
		"proposal_count", len(proposals),
	)

	var result *AutoAllocateResult
	var pending []shared.DomainEvent
	err := s.retryOnConflict(ctx, func(ctx context.Context, repos TxRepos) error {
		pending = pending[:0]
		var err error
		result, err = s.autoAllocateInTx(ctx, repos, companyID, documentID, proposals, &pending)
		return err
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	publishEvents(ctx, s.events, pending...)
	telemetry.AddEvent(span, "auto_allocation_completed",
		"total_allocated", result.TotalAllocated.String(),
		"residual_outstanding", result.ResidualOutstanding.String(),
	)
	return result, nil
}

func (s *AllocationService) autoAllocateInTx(ctx context.Context, repos TxRepos, companyID, documentID uuid.UUID, proposals []AllocationProposal, pending *[]shared.DomainEvent) (*AutoAllocateResult, error) {
	document, err := repos.Documents.FindByIDForCompany(ctx, companyID, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	if document == nil {
		return nil, shared.NewDomainError("DOCUMENT_NOT_FOUND", "Document not found")
	}
	if !document.CanReceiveAllocations() {
		return nil, shared.ErrDocumentNotAllocatable
	}

	allocated, err := repos.Allocations.SumActiveByDocument(ctx, companyID, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum document allocations: %w", err)
	}
	outstanding := document.Outstanding(allocated)

	result := &AutoAllocateResult{
		Allocations:     make([]ledger.Allocation, 0, len(proposals)),
		TotalAllocated:  decimal.Zero,
		SurplusRetained: decimal.Zero,
	}

	for _, proposal := range proposals {
		if outstanding.IsZero() {
			break
		}
		receipt, err := repos.Receipts.FindByIDForCompany(ctx, companyID, proposal.ReceiptID)
		if err != nil {
			return nil, fmt.Errorf("failed to load receipt: %w", err)
		}
		if receipt == nil || receipt.IsCancelled() {
			continue
		}

		// Cap to the receipt's remaining credit and to the document's
		// outstanding balance. Never raise the proposed amount.
		amount := proposal.Amount
		if amount.GreaterThan(receipt.RemainingAmount()) {
			amount = receipt.RemainingAmount()
		}
		if amount.GreaterThan(outstanding) {
			amount = outstanding
		}
		if amount.LessThanOrEqual(decimal.Zero) {
			continue
		}

		if err := receipt.RecordAllocation(amount); err != nil {
			return nil, err
		}
		allocation, err := ledger.NewAllocation(companyID, ledger.AllocationSourceReceipt, receipt.ID, documentID, amount)
		if err != nil {
			return nil, err
		}
		if err := repos.Allocations.Save(ctx, allocation); err != nil {
			return nil, fmt.Errorf("failed to save allocation: %w", err)
		}
		if err := repos.Receipts.SaveWithLock(ctx, receipt); err != nil {
			return nil, err
		}
		*pending = append(*pending, ledger.NewAllocationCreatedEvent(allocation))

		outstanding = outstanding.Sub(amount)
		result.Allocations = append(result.Allocations, *allocation)
		result.TotalAllocated = result.TotalAllocated.Add(amount)
		// Whatever the deposit still holds stays on the receipt as credit.
		result.SurplusRetained = result.SurplusRetained.Add(receipt.RemainingAmount())
	}

	result.ResidualOutstanding = outstanding

	if outstanding.IsZero() && result.TotalAllocated.GreaterThan(decimal.Zero) {
		if err := document.MarkPaid(); err != nil {
			return nil, err
		}
		if err := repos.Documents.SaveWithLock(ctx, document); err != nil {
			return nil, err
		}
		drainAggregateEvents(pending, document)
	}

	return result, nil
}

// AutoAllocateDeposits builds a FIFO proposal list from the client's
// available deposit receipts (oldest first) and runs AutoAllocate with it.
// Called on invoice finalization.
func (s *AllocationService) AutoAllocateDeposits(ctx context.Context, companyID, clientID, documentID uuid.UUID) (*AutoAllocateResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "allocation", "auto_allocate_deposits")
	defer span.End()

	var result *AutoAllocateResult
	var pending []shared.DomainEvent
	err := s.retryOnConflict(ctx, func(ctx context.Context, repos TxRepos) error {
		pending = pending[:0]
		deposits, err := repos.Receipts.FindAvailableDeposits(ctx, companyID, clientID)
		if err != nil {
			return fmt.Errorf("failed to load available deposits: %w", err)
		}
		proposals := make([]AllocationProposal, 0, len(deposits))
		for _, d := range deposits {
			proposals = append(proposals, AllocationProposal{ReceiptID: d.ID, Amount: d.RemainingAmount()})
		}
		result, err = s.autoAllocateInTx(ctx, repos, companyID, documentID, proposals, &pending)
		return err
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	publishEvents(ctx, s.events, pending...)
	return result, nil
}

// Reverse marks an allocation reversed and releases its amount back to the
// receipt, atomically with reopening a paid document. Allocations against
// archived documents are locked.
func (s *AllocationService) Reverse(ctx context.Context, companyID, allocationID uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "allocation", "reverse")
	defer span.End()
	telemetry.SetAttribute(span, "allocation_id", allocationID.String())

	var pending []shared.DomainEvent
	err := s.retryOnConflict(ctx, func(ctx context.Context, repos TxRepos) error {
		pending = pending[:0]
		return s.reverseInTx(ctx, repos, companyID, allocationID, &pending)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	publishEvents(ctx, s.events, pending...)
	return nil
}

func (s *AllocationService) reverseInTx(ctx context.Context, repos TxRepos, companyID, allocationID uuid.UUID, pending *[]shared.DomainEvent) error {
	allocation, err := repos.Allocations.FindByIDForCompany(ctx, companyID, allocationID)
	if err != nil {
		return fmt.Errorf("failed to load allocation: %w", err)
	}
	if allocation == nil {
		return shared.NewDomainError("ALLOCATION_NOT_FOUND", "Allocation not found")
	}

	document, err := repos.Documents.FindByIDForCompany(ctx, companyID, allocation.DocumentID)
	if err != nil {
		return fmt.Errorf("failed to load document: %w", err)
	}
	if document == nil {
		return shared.NewDomainError("DOCUMENT_NOT_FOUND", "Document not found")
	}
	if document.IsArchived() {
		return shared.ErrDocumentLocked
	}

	// Load the receipt before the reversal is persisted so the derived
	// allocated amount still includes this allocation.
	receipt, err := repos.Receipts.FindByIDForCompany(ctx, companyID, allocation.SourceID)
	if err != nil {
		return fmt.Errorf("failed to load receipt: %w", err)
	}
	if receipt == nil {
		return shared.NewDomainError("RECEIPT_NOT_FOUND", "Receipt not found")
	}

	// Rejects double reversal and credit-note sources.
	if err := allocation.Reverse(); err != nil {
		return err
	}
	// Releases the exact allocated amount back to the receipt's credit;
	// the locked save below serializes against concurrent allocations.
	if err := receipt.RecordReversal(allocation.Amount); err != nil {
		return err
	}

	if err := repos.Allocations.Save(ctx, allocation); err != nil {
		return fmt.Errorf("failed to save allocation: %w", err)
	}
	if err := repos.Receipts.SaveWithLock(ctx, receipt); err != nil {
		return err
	}
	*pending = append(*pending, ledger.NewAllocationReversedEvent(allocation))

	if document.Status == billing.DocumentStatusPaid {
		if err := document.Reopen(); err != nil {
			return err
		}
		if err := repos.Documents.SaveWithLock(ctx, document); err != nil {
			return err
		}
		drainAggregateEvents(pending, document)
	}

	return nil
}

// ApplyCreditNote consumes a credit note against an invoice with the same
// transactional discipline as Allocate, but one-way: the note becomes
// APPLIED (terminal) and the resulting allocation can never be reversed.
// The applied amount is capped at the invoice's outstanding balance.
func (s *AllocationService) ApplyCreditNote(ctx context.Context, companyID, creditNoteID, invoiceID uuid.UUID, amount decimal.Decimal) (*ledger.Allocation, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "allocation", "apply_credit_note")
	defer span.End()
	telemetry.SetAttributes(span,
		"credit_note_id", creditNoteID.String(),
		"document_id", invoiceID.String(),
		telemetry.SpanAttrAmount, amount.String(),
	)

	var allocation *ledger.Allocation
	var pending []shared.DomainEvent
	err := s.retryOnConflict(ctx, func(ctx context.Context, repos TxRepos) error {
		pending = pending[:0]
		var err error
		allocation, err = s.applyCreditNoteInTx(ctx, repos, companyID, creditNoteID, invoiceID, amount, &pending)
		return err
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	publishEvents(ctx, s.events, pending...)
	return allocation, nil
}

func (s *AllocationService) applyCreditNoteInTx(ctx context.Context, repos TxRepos, companyID, creditNoteID, invoiceID uuid.UUID, amount decimal.Decimal, pending *[]shared.DomainEvent) (*ledger.Allocation, error) {
	note, err := repos.CreditNotes.FindByIDForCompany(ctx, companyID, creditNoteID)
	if err != nil {
		return nil, fmt.Errorf("failed to load credit note: %w", err)
	}
	if note == nil {
		return nil, shared.NewDomainError("CREDIT_NOTE_NOT_FOUND", "Credit note not found")
	}
	if err := note.CanApply(); err != nil {
		return nil, err
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Applied amount must be positive")
	}

	document, err := repos.Documents.FindByIDForCompany(ctx, companyID, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	if document == nil {
		return nil, shared.NewDomainError("DOCUMENT_NOT_FOUND", "Document not found")
	}
	if !document.CanReceiveAllocations() {
		return nil, shared.ErrDocumentNotAllocatable
	}

	allocated, err := repos.Allocations.SumActiveByDocument(ctx, companyID, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum document allocations: %w", err)
	}
	outstanding := document.Outstanding(allocated)
	if outstanding.IsZero() {
		return nil, shared.ErrDocumentNotAllocatable
	}

	// Cap at the note amount and the outstanding balance.
	applied := amount
	if applied.GreaterThan(note.Amount) {
		applied = note.Amount
	}
	if applied.GreaterThan(outstanding) {
		applied = outstanding
	}

	if err := note.Apply(applied); err != nil {
		return nil, err
	}

	allocation, err := ledger.NewAllocation(companyID, ledger.AllocationSourceCreditNote, note.ID, invoiceID, applied)
	if err != nil {
		return nil, err
	}
	if err := repos.Allocations.Save(ctx, allocation); err != nil {
		return nil, fmt.Errorf("failed to save allocation: %w", err)
	}
	if err := repos.CreditNotes.SaveWithLock(ctx, note); err != nil {
		return nil, err
	}
	*pending = append(*pending, ledger.NewAllocationCreatedEvent(allocation))
	drainAggregateEvents(pending, note)

	if outstanding.Sub(applied).IsZero() {
		if err := document.MarkPaid(); err != nil {
			return nil, err
		}
		if err := repos.Documents.SaveWithLock(ctx, document); err != nil {
			return nil, err
		}
		drainAggregateEvents(pending, document)
	}

	return allocation, nil
}
