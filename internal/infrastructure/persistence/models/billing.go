package models

import (
	"time"

	"github.com/facturio/backend/internal/domain/billing"
	"github.com/facturio/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DocumentModel is the persistence model for the Document aggregate root.
type DocumentModel struct {
	CompanyAggregateModel
	Kind          billing.DocumentKind   `gorm:"type:varchar(20);not null;index"`
	Number        string                 `gorm:"type:varchar(50);uniqueIndex:idx_document_company_number,priority:2,where:number <> ''"`
	ClientID      uuid.UUID              `gorm:"type:uuid;not null;index"`
	IssueDate     time.Time              `gorm:"not null;index"`
	Currency      string                 `gorm:"type:varchar(3);not null"`
	Lines         []DocumentLineModel    `gorm:"foreignKey:DocumentID;references:ID"`
	DiscountKind  *string                `gorm:"type:varchar(20)"`
	DiscountValue *decimal.Decimal       `gorm:"type:decimal(18,4)"`
	TaxIDs        []uuid.UUID            `gorm:"serializer:json;type:jsonb"`
	Subtotal      decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	DiscountAmt   decimal.Decimal        `gorm:"column:discount_amount;type:decimal(18,4);not null"`
	TaxableBase   decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	TaxAmounts    []billing.TaxAmount    `gorm:"serializer:json;type:jsonb"`
	TaxTotal      decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	GrandTotal    decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	Status        billing.DocumentStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	Notes         string                 `gorm:"type:text"`
	FinalizedAt   *time.Time
	CancelledAt   *time.Time
	CancelReason  string `gorm:"type:varchar(500)"`
	ArchivedAt    *time.Time
}

// TableName returns the table name for GORM
func (DocumentModel) TableName() string {
	return "documents"
}

// DocumentLineModel is the persistence model for a document line.
type DocumentLineModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	DocumentID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Description string          `gorm:"type:varchar(500);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TaxID       *uuid.UUID      `gorm:"type:uuid"`
	Position    int             `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DocumentLineModel) TableName() string {
	return "document_lines"
}

// ToDomain converts the persistence model to a domain Document entity.
func (m *DocumentModel) ToDomain() *billing.Document {
	lines := make([]billing.DocumentLine, len(m.Lines))
	for i, lm := range m.Lines {
		lines[i] = billing.DocumentLine{
			ID:          lm.ID,
			Description: lm.Description,
			Quantity:    lm.Quantity,
			UnitPrice:   lm.UnitPrice,
			TaxID:       lm.TaxID,
			Position:    lm.Position,
		}
	}

	var discount *billing.Discount
	if m.DiscountKind != nil && m.DiscountValue != nil {
		discount = &billing.Discount{
			Kind:  billing.DiscountKind(*m.DiscountKind),
			Value: *m.DiscountValue,
		}
	}

	taxIDs := m.TaxIDs
	if taxIDs == nil {
		taxIDs = make([]uuid.UUID, 0)
	}
	taxAmounts := m.TaxAmounts
	if taxAmounts == nil {
		taxAmounts = make([]billing.TaxAmount, 0)
	}

	d := &billing.Document{
		Kind:      m.Kind,
		Number:    m.Number,
		ClientID:  m.ClientID,
		IssueDate: m.IssueDate,
		Currency:  valueobject.Currency(m.Currency),
		Lines:     lines,
		Discount:  discount,
		TaxIDs:    taxIDs,
		Totals: billing.Totals{
			Currency:       valueobject.Currency(m.Currency),
			Subtotal:       m.Subtotal,
			DiscountAmount: m.DiscountAmt,
			TaxableBase:    m.TaxableBase,
			TaxAmounts:     taxAmounts,
			TaxTotal:       m.TaxTotal,
			GrandTotal:     m.GrandTotal,
		},
		Status:       m.Status,
		Notes:        m.Notes,
		FinalizedAt:  m.FinalizedAt,
		CancelledAt:  m.CancelledAt,
		CancelReason: m.CancelReason,
		ArchivedAt:   m.ArchivedAt,
	}
	m.PopulateCompanyAggregateRoot(&d.CompanyAggregateRoot)
	return d
}

// FromDomain populates the persistence model from a domain Document entity.
func (m *DocumentModel) FromDomain(d *billing.Document) {
	m.FromDomainCompanyAggregateRoot(d.CompanyAggregateRoot)
	m.Kind = d.Kind
	m.Number = d.Number
	m.ClientID = d.ClientID
	m.IssueDate = d.IssueDate
	m.Currency = string(d.Currency)

	m.Lines = make([]DocumentLineModel, len(d.Lines))
	for i, line := range d.Lines {
		lineID := line.ID
		if lineID == uuid.Nil {
			lineID = uuid.New()
		}
		m.Lines[i] = DocumentLineModel{
			ID:          lineID,
			DocumentID:  d.ID,
			Description: line.Description,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			TaxID:       line.TaxID,
			Position:    line.Position,
		}
	}

	if d.Discount != nil {
		kind := string(d.Discount.Kind)
		value := d.Discount.Value
		m.DiscountKind = &kind
		m.DiscountValue = &value
	} else {
		m.DiscountKind = nil
		m.DiscountValue = nil
	}

	m.TaxIDs = d.TaxIDs
	m.Subtotal = d.Totals.Subtotal
	m.DiscountAmt = d.Totals.DiscountAmount
	m.TaxableBase = d.Totals.TaxableBase
	m.TaxAmounts = d.Totals.TaxAmounts
	m.TaxTotal = d.Totals.TaxTotal
	m.GrandTotal = d.Totals.GrandTotal
	m.Status = d.Status
	m.Notes = d.Notes
	m.FinalizedAt = d.FinalizedAt
	m.CancelledAt = d.CancelledAt
	m.CancelReason = d.CancelReason
	m.ArchivedAt = d.ArchivedAt
}

// DocumentModelFromDomain creates a new persistence model from a domain Document.
func DocumentModelFromDomain(d *billing.Document) *DocumentModel {
	m := &DocumentModel{}
	m.FromDomain(d)
	return m
}

// TaxModel is the persistence model for tax definitions consumed by the
// totals calculator.
type TaxModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	CompanyID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name      string          `gorm:"type:varchar(100);not null"`
	Kind      billing.TaxKind `gorm:"type:varchar(20);not null"`
	Value     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Active    bool            `gorm:"not null;default:true"`
	CreatedAt time.Time       `gorm:"not null"`
	UpdatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (TaxModel) TableName() string {
	return "taxes"
}

// ToDomain converts the persistence model to a domain Tax value.
func (m *TaxModel) ToDomain() billing.Tax {
	return billing.Tax{
		ID:     m.ID,
		Name:   m.Name,
		Kind:   m.Kind,
		Value:  m.Value,
		Active: m.Active,
	}
}

// ClientModel is the persistence model for the external client directory.
// The settlement core only reads it for existence checks.
type ClientModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"type:varchar(200);not null"`
	Email     string    `gorm:"type:varchar(200)"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ClientModel) TableName() string {
	return "clients"
}

// DocumentSequenceModel backs the sequence-table numbering strategy.
// One row per company, document kind and year.
type DocumentSequenceModel struct {
	CompanyID uuid.UUID            `gorm:"type:uuid;primaryKey"`
	Kind      billing.DocumentKind `gorm:"type:varchar(20);primaryKey"`
	Year      int                  `gorm:"primaryKey"`
	NextValue int64                `gorm:"not null;default:1"`
	UpdatedAt time.Time            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DocumentSequenceModel) TableName() string {
	return "document_sequences"
}
