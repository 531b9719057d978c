package models

import (
	"time"

	"github.com/facturio/backend/internal/domain/ledger"
	"github.com/facturio/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReceiptModel is the persistence model for the Receipt aggregate root.
// The allocated amount is intentionally NOT a column: repositories derive it
// from the non-reversed allocation rows at load time.
type ReceiptModel struct {
	CompanyAggregateModel
	Number      string             `gorm:"type:varchar(50);not null;uniqueIndex:idx_receipt_company_number,priority:2"`
	ClientID    uuid.UUID          `gorm:"type:uuid;not null;index"`
	Amount      decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	Currency    string             `gorm:"type:varchar(3);not null"`
	Kind        ledger.ReceiptKind `gorm:"type:varchar(20);not null;index"`
	ReceiptDate time.Time          `gorm:"not null;index"`
	Reference   string             `gorm:"type:varchar(100)"`
	Notes       string             `gorm:"type:text"`
	CancelledAt *time.Time

	// AllocatedAmount is populated by repository queries, never written.
	AllocatedAmount decimal.Decimal `gorm:"->;-:migration"`
}

// TableName returns the table name for GORM
func (ReceiptModel) TableName() string {
	return "receipts"
}

// ToDomain converts the persistence model to a domain Receipt entity.
func (m *ReceiptModel) ToDomain() *ledger.Receipt {
	r := &ledger.Receipt{
		Number:          m.Number,
		ClientID:        m.ClientID,
		Amount:          m.Amount,
		Currency:        valueobject.Currency(m.Currency),
		Kind:            m.Kind,
		ReceiptDate:     m.ReceiptDate,
		Reference:       m.Reference,
		Notes:           m.Notes,
		CancelledAt:     m.CancelledAt,
		AllocatedAmount: m.AllocatedAmount,
	}
	m.PopulateCompanyAggregateRoot(&r.CompanyAggregateRoot)
	return r
}

// FromDomain populates the persistence model from a domain Receipt entity.
func (m *ReceiptModel) FromDomain(r *ledger.Receipt) {
	m.FromDomainCompanyAggregateRoot(r.CompanyAggregateRoot)
	m.Number = r.Number
	m.ClientID = r.ClientID
	m.Amount = r.Amount
	m.Currency = string(r.Currency)
	m.Kind = r.Kind
	m.ReceiptDate = r.ReceiptDate
	m.Reference = r.Reference
	m.Notes = r.Notes
	m.CancelledAt = r.CancelledAt
}

// ReceiptModelFromDomain creates a new persistence model from a domain Receipt.
func ReceiptModelFromDomain(r *ledger.Receipt) *ReceiptModel {
	m := &ReceiptModel{}
	m.FromDomain(r)
	return m
}

// AllocationModel is the persistence model for an Allocation entity.
type AllocationModel struct {
	BaseModel
	CompanyID  uuid.UUID                   `gorm:"type:uuid;not null;index"`
	SourceType ledger.AllocationSourceType `gorm:"type:varchar(20);not null;index:idx_allocation_source,priority:1"`
	SourceID   uuid.UUID                   `gorm:"type:uuid;not null;index:idx_allocation_source,priority:2"`
	DocumentID uuid.UUID                   `gorm:"type:uuid;not null;index"`
	Amount     decimal.Decimal             `gorm:"type:decimal(18,4);not null"`
	Reversed   bool                        `gorm:"not null;default:false;index"`
	ReversedAt *time.Time
}

// TableName returns the table name for GORM
func (AllocationModel) TableName() string {
	return "allocations"
}

// ToDomain converts the persistence model to a domain Allocation entity.
func (m *AllocationModel) ToDomain() *ledger.Allocation {
	return &ledger.Allocation{
		BaseEntity: m.BaseModel.ToDomain(),
		CompanyID:  m.CompanyID,
		SourceType: m.SourceType,
		SourceID:   m.SourceID,
		DocumentID: m.DocumentID,
		Amount:     m.Amount,
		Reversed:   m.Reversed,
		ReversedAt: m.ReversedAt,
	}
}

// FromDomain populates the persistence model from a domain Allocation entity.
func (m *AllocationModel) FromDomain(a *ledger.Allocation) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.CompanyID = a.CompanyID
	m.SourceType = a.SourceType
	m.SourceID = a.SourceID
	m.DocumentID = a.DocumentID
	m.Amount = a.Amount
	m.Reversed = a.Reversed
	m.ReversedAt = a.ReversedAt
}

// AllocationModelFromDomain creates a new persistence model from a domain Allocation.
func AllocationModelFromDomain(a *ledger.Allocation) *AllocationModel {
	m := &AllocationModel{}
	m.FromDomain(a)
	return m
}

// CreditNoteModel is the persistence model for the CreditNote aggregate root.
type CreditNoteModel struct {
	CompanyAggregateModel
	Number        string                  `gorm:"type:varchar(50);not null;uniqueIndex:idx_credit_note_company_number,priority:2"`
	InvoiceID     uuid.UUID               `gorm:"type:uuid;not null;index"`
	ClientID      uuid.UUID               `gorm:"type:uuid;not null;index"`
	Type          ledger.CreditNoteType   `gorm:"type:varchar(20);not null"`
	Amount        decimal.Decimal         `gorm:"type:decimal(18,4);not null"`
	Currency      string                  `gorm:"type:varchar(3);not null"`
	Status        ledger.CreditNoteStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	AppliedAt     *time.Time
	AppliedAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Notes         string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CreditNoteModel) TableName() string {
	return "credit_notes"
}

// ToDomain converts the persistence model to a domain CreditNote entity.
func (m *CreditNoteModel) ToDomain() *ledger.CreditNote {
	cn := &ledger.CreditNote{
		Number:        m.Number,
		InvoiceID:     m.InvoiceID,
		ClientID:      m.ClientID,
		Type:          m.Type,
		Amount:        m.Amount,
		Currency:      valueobject.Currency(m.Currency),
		Status:        m.Status,
		AppliedAt:     m.AppliedAt,
		AppliedAmount: m.AppliedAmount,
		Notes:         m.Notes,
	}
	m.PopulateCompanyAggregateRoot(&cn.CompanyAggregateRoot)
	return cn
}

// FromDomain populates the persistence model from a domain CreditNote entity.
func (m *CreditNoteModel) FromDomain(cn *ledger.CreditNote) {
	m.FromDomainCompanyAggregateRoot(cn.CompanyAggregateRoot)
	m.Number = cn.Number
	m.InvoiceID = cn.InvoiceID
	m.ClientID = cn.ClientID
	m.Type = cn.Type
	m.Amount = cn.Amount
	m.Currency = string(cn.Currency)
	m.Status = cn.Status
	m.AppliedAt = cn.AppliedAt
	m.AppliedAmount = cn.AppliedAmount
	m.Notes = cn.Notes
}

// CreditNoteModelFromDomain creates a new persistence model from a domain CreditNote.
func CreditNoteModelFromDomain(cn *ledger.CreditNote) *CreditNoteModel {
	m := &CreditNoteModel{}
	m.FromDomain(cn)
	return m
}

// ReceiptSequenceModel backs receipt and credit note number generation.
// One row per company, document type prefix and year.
type ReceiptSequenceModel struct {
	CompanyID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Prefix    string    `gorm:"type:varchar(10);primaryKey"`
	Year      int       `gorm:"primaryKey"`
	NextValue int64     `gorm:"not null;default:1"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ReceiptSequenceModel) TableName() string {
	return "ledger_sequences"
}
