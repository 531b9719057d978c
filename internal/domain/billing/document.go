package billing

import (
	"fmt"
	"time"

	"github.com/facturio/backend/internal/domain/shared"
	"github.com/facturio/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DocumentKind distinguishes quotes from invoices
type DocumentKind string

const (
	DocumentKindQuote   DocumentKind = "QUOTE"
	DocumentKindInvoice DocumentKind = "INVOICE"
)

// IsValid checks if the kind is a valid DocumentKind
func (k DocumentKind) IsValid() bool {
	switch k {
	case DocumentKindQuote, DocumentKindInvoice:
		return true
	}
	return false
}

// String returns the string representation of DocumentKind
func (k DocumentKind) String() string {
	return string(k)
}

// DocumentStatus represents the lifecycle state of a document
type DocumentStatus string

const (
	DocumentStatusDraft     DocumentStatus = "DRAFT"     // Editable, totals recomputable
	DocumentStatusValidated DocumentStatus = "VALIDATED" // Finalized invoice, accepts allocations
	DocumentStatusSent      DocumentStatus = "SENT"      // Sent to the client
	DocumentStatusPaid      DocumentStatus = "PAID"      // Invoice fully settled
	DocumentStatusAccepted  DocumentStatus = "ACCEPTED"  // Quote accepted by the client
	DocumentStatusCancelled DocumentStatus = "CANCELLED" // Soft-cancelled
	DocumentStatusExpired   DocumentStatus = "EXPIRED"   // Quote past its validity
)

// IsValid checks if the status is a valid DocumentStatus
func (s DocumentStatus) IsValid() bool {
	switch s {
	case DocumentStatusDraft, DocumentStatusValidated, DocumentStatusSent,
		DocumentStatusPaid, DocumentStatusAccepted, DocumentStatusCancelled, DocumentStatusExpired:
		return true
	}
	return false
}

// String returns the string representation of DocumentStatus
func (s DocumentStatus) String() string {
	return string(s)
}

// IsTerminal returns true if no further transitions are possible
func (s DocumentStatus) IsTerminal() bool {
	return s == DocumentStatusCancelled || s == DocumentStatusExpired || s == DocumentStatusAccepted
}

// CanCancel returns true if the document can be cancelled in this status
func (s DocumentStatus) CanCancel() bool {
	return s == DocumentStatusDraft || s == DocumentStatusValidated || s == DocumentStatusSent
}

// DocumentLine is a single line of a document, owned exclusively by its parent
type DocumentLine struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"` // May be negative for corrective lines
	TaxID       *uuid.UUID      `json:"tax_id"`
	Position    int             `json:"position"`
}

// NewDocumentLine creates a new document line
func NewDocumentLine(description string, quantity, unitPrice decimal.Decimal, taxID *uuid.UUID, position int) (DocumentLine, error) {
	if quantity.IsNegative() {
		return DocumentLine{}, shared.NewDomainError("INVALID_QUANTITY", "Line quantity cannot be negative")
	}
	return DocumentLine{
		ID:          uuid.New(),
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		TaxID:       taxID,
		Position:    position,
	}, nil
}

// Document is the quote/invoice aggregate root. Lines, discount and taxes
// are editable while the document is a draft; once finalized the totals
// snapshot is frozen and only payment-derived state may change.
type Document struct {
	shared.CompanyAggregateRoot
	Kind         DocumentKind         `json:"kind"`
	Number       string               `json:"number"` // Assigned at finalize
	ClientID     uuid.UUID            `json:"client_id"`
	IssueDate    time.Time            `json:"issue_date"`
	Currency     valueobject.Currency `json:"currency"`
	Lines        []DocumentLine       `json:"lines"`
	Discount     *Discount            `json:"discount"`
	TaxIDs       []uuid.UUID          `json:"tax_ids"`
	Totals       Totals               `json:"totals"`
	Status       DocumentStatus       `json:"status"`
	Notes        string               `json:"notes"`
	FinalizedAt  *time.Time           `json:"finalized_at"`
	CancelledAt  *time.Time           `json:"cancelled_at"`
	CancelReason string               `json:"cancel_reason"`
	ArchivedAt   *time.Time           `json:"archived_at"` // Paid invoice locked for audit
}

// NewDocument creates a new draft document with zero totals
func NewDocument(companyID, clientID uuid.UUID, kind DocumentKind, issueDate time.Time, currency valueobject.Currency) (*Document, error) {
	if companyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COMPANY", "Company ID cannot be empty")
	}
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client ID cannot be empty")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", "Document kind must be QUOTE or INVOICE")
	}
	if issueDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Issue date is required")
	}
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}

	d := &Document{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		Kind:                 kind,
		ClientID:             clientID,
		IssueDate:            issueDate,
		Currency:             currency,
		Lines:                make([]DocumentLine, 0),
		TaxIDs:               make([]uuid.UUID, 0),
		Totals:               ZeroTotals(currency),
		Status:               DocumentStatusDraft,
	}

	d.AddDomainEvent(NewDocumentCreatedEvent(d))

	return d, nil
}

// IsDraft returns true if the document is still editable
func (d *Document) IsDraft() bool {
	return d.Status == DocumentStatusDraft
}

// IsCancelled returns true if the document was cancelled
func (d *Document) IsCancelled() bool {
	return d.Status == DocumentStatusCancelled
}

// IsArchived returns true if the document is locked for audit
func (d *Document) IsArchived() bool {
	return d.ArchivedAt != nil
}

// CanReceiveAllocations returns true if the document currently accepts payment
func (d *Document) CanReceiveAllocations() bool {
	if d.Kind != DocumentKindInvoice {
		return false
	}
	return d.Status == DocumentStatusValidated || d.Status == DocumentStatusSent
}

// ensureDraft guards mutations that are only legal before finalization
func (d *Document) ensureDraft() error {
	if !d.IsDraft() {
		return shared.ErrDocumentFrozen
	}
	return nil
}

// ReplaceLines replaces the document's lines, renumbering positions
func (d *Document) ReplaceLines(lines []DocumentLine) error {
	if err := d.ensureDraft(); err != nil {
		return err
	}
	for i := range lines {
		if lines[i].Quantity.IsNegative() {
			return shared.NewDomainError("INVALID_QUANTITY", "Line quantity cannot be negative")
		}
		if lines[i].ID == uuid.Nil {
			lines[i].ID = uuid.New()
		}
		lines[i].Position = i
	}
	d.Lines = lines
	d.UpdatedAt = time.Now()
	return nil
}

// SetDiscount sets or clears the document discount
func (d *Document) SetDiscount(discount *Discount) error {
	if err := d.ensureDraft(); err != nil {
		return err
	}
	if discount != nil {
		if err := discount.Validate(); err != nil {
			return err
		}
	}
	d.Discount = discount
	d.UpdatedAt = time.Now()
	return nil
}

// SetTaxIDs replaces the set of applied tax ids
func (d *Document) SetTaxIDs(taxIDs []uuid.UUID) error {
	if err := d.ensureDraft(); err != nil {
		return err
	}
	d.TaxIDs = taxIDs
	d.UpdatedAt = time.Now()
	return nil
}

// ApplyTotals overwrites the totals snapshot. Only drafts may be recomputed;
// after finalization the snapshot must never silently change.
func (d *Document) ApplyTotals(totals Totals) error {
	if err := d.ensureDraft(); err != nil {
		return err
	}
	d.Totals = totals
	d.UpdatedAt = time.Now()
	return nil
}

// Finalize freezes the snapshot, assigns the externally visible number and
// transitions the draft to VALIDATED (invoice) or SENT (quote)
func (d *Document) Finalize(number string) error {
	if err := d.ensureDraft(); err != nil {
		return err
	}
	if len(d.Lines) == 0 {
		return shared.NewDomainError("EMPTY_DOCUMENT", "At least one line is required to finalize")
	}
	if number == "" {
		return shared.NewDomainError("INVALID_NUMBER", "Document number cannot be empty")
	}

	now := time.Now()
	d.Number = number
	if d.Kind == DocumentKindInvoice {
		d.Status = DocumentStatusValidated
	} else {
		d.Status = DocumentStatusSent
	}
	d.FinalizedAt = &now
	d.UpdatedAt = now

	d.AddDomainEvent(NewDocumentFinalizedEvent(d))

	return nil
}

// MarkSent transitions a validated invoice to SENT
func (d *Document) MarkSent() error {
	if d.Kind != DocumentKindInvoice || d.Status != DocumentStatusValidated {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot mark %s document as sent in %s status", d.Kind, d.Status))
	}
	d.Status = DocumentStatusSent
	d.UpdatedAt = time.Now()
	return nil
}

// MarkPaid transitions an invoice to PAID once its outstanding balance is zero
func (d *Document) MarkPaid() error {
	if !d.CanReceiveAllocations() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot mark document as paid in %s status", d.Status))
	}
	d.Status = DocumentStatusPaid
	d.UpdatedAt = time.Now()

	d.AddDomainEvent(NewDocumentPaidEvent(d))

	return nil
}

// Reopen returns a paid invoice to VALIDATED after an allocation reversal.
// Archived invoices are locked and can never reopen.
func (d *Document) Reopen() error {
	if d.IsArchived() {
		return shared.ErrDocumentLocked
	}
	if d.Status != DocumentStatusPaid {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot reopen document in %s status", d.Status))
	}
	d.Status = DocumentStatusValidated
	d.UpdatedAt = time.Now()
	return nil
}

// Accept transitions a sent quote to ACCEPTED
func (d *Document) Accept() error {
	if d.Kind != DocumentKindQuote || d.Status != DocumentStatusSent {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot accept %s document in %s status", d.Kind, d.Status))
	}
	d.Status = DocumentStatusAccepted
	d.UpdatedAt = time.Now()
	return nil
}

// Expire transitions a sent quote to EXPIRED
func (d *Document) Expire() error {
	if d.Kind != DocumentKindQuote || d.Status != DocumentStatusSent {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot expire %s document in %s status", d.Kind, d.Status))
	}
	d.Status = DocumentStatusExpired
	d.UpdatedAt = time.Now()
	return nil
}

// Cancel soft-cancels the document. The caller must first verify that no
// allocations reference it.
func (d *Document) Cancel(reason string) error {
	if !d.Status.CanCancel() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel document in %s status", d.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	now := time.Now()
	previousStatus := d.Status
	d.Status = DocumentStatusCancelled
	d.CancelledAt = &now
	d.CancelReason = reason
	d.UpdatedAt = now

	d.AddDomainEvent(NewDocumentCancelledEvent(d, previousStatus))

	return nil
}

// Archive locks a paid invoice for audit. Allocations against an archived
// invoice can no longer be reversed.
func (d *Document) Archive() error {
	if d.Kind != DocumentKindInvoice || d.Status != DocumentStatusPaid {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot archive %s document in %s status", d.Kind, d.Status))
	}
	if d.IsArchived() {
		return shared.NewDomainError("INVALID_STATE", "Document is already archived")
	}
	now := time.Now()
	d.ArchivedAt = &now
	d.UpdatedAt = now
	return nil
}

// SetNotes sets free-form notes
func (d *Document) SetNotes(notes string) error {
	if d.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify document in terminal state")
	}
	d.Notes = notes
	d.UpdatedAt = time.Now()
	return nil
}

// Outstanding returns the document's outstanding balance given the sum of
// non-reversed allocations targeting it, clamped at zero when an
// overpayment-as-credit path attributed the excess to the receipt
func (d *Document) Outstanding(allocated decimal.Decimal) decimal.Decimal {
	outstanding := d.Totals.GrandTotal.Sub(allocated)
	if outstanding.IsNegative() {
		return decimal.Zero
	}
	return outstanding
}

// GetGrandTotalMoney returns the grand total as Money
func (d *Document) GetGrandTotalMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(d.Totals.GrandTotal, d.Currency)
	return m
}
