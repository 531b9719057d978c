package models

import (
	"time"

	"github.com/facturio/backend/internal/domain/reconciliation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BankLineModel is the persistence model for an imported bank statement line.
type BankLineModel struct {
	BaseModel
	CompanyID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Date        time.Time       `gorm:"column:line_date;not null;index"`
	Description string          `gorm:"type:varchar(500);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Reference   string          `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (BankLineModel) TableName() string {
	return "bank_statement_lines"
}

// ToDomain converts the persistence model to a domain BankStatementLine entity.
func (m *BankLineModel) ToDomain() *reconciliation.BankStatementLine {
	return &reconciliation.BankStatementLine{
		BaseEntity:  m.BaseModel.ToDomain(),
		CompanyID:   m.CompanyID,
		Date:        m.Date,
		Description: m.Description,
		Amount:      m.Amount,
		Reference:   m.Reference,
	}
}

// FromDomain populates the persistence model from a domain BankStatementLine entity.
func (m *BankLineModel) FromDomain(l *reconciliation.BankStatementLine) {
	m.FromDomainBaseEntity(l.BaseEntity)
	m.CompanyID = l.CompanyID
	m.Date = l.Date
	m.Description = l.Description
	m.Amount = l.Amount
	m.Reference = l.Reference
}

// BankLineModelFromDomain creates a new persistence model from a domain BankStatementLine.
func BankLineModelFromDomain(l *reconciliation.BankStatementLine) *BankLineModel {
	m := &BankLineModel{}
	m.FromDomain(l)
	return m
}

// ReconciliationLinkModel is the persistence model for a reconciliation link.
// The unique indexes enforce the one-to-one constraint on both sides.
type ReconciliationLinkModel struct {
	BaseModel
	CompanyID         uuid.UUID                 `gorm:"type:uuid;not null;index"`
	LedgerEntryID     uuid.UUID                 `gorm:"type:uuid;not null;uniqueIndex:idx_link_ledger_entry"`
	BankLineID        uuid.UUID                 `gorm:"type:uuid;not null;uniqueIndex:idx_link_bank_line"`
	Status            reconciliation.LinkStatus `gorm:"type:varchar(20);not null"`
	DiscrepancyAmount *decimal.Decimal          `gorm:"type:decimal(18,4)"`
}

// TableName returns the table name for GORM
func (ReconciliationLinkModel) TableName() string {
	return "reconciliation_links"
}

// ToDomain converts the persistence model to a domain ReconciliationLink entity.
func (m *ReconciliationLinkModel) ToDomain() *reconciliation.ReconciliationLink {
	return &reconciliation.ReconciliationLink{
		BaseEntity:        m.BaseModel.ToDomain(),
		CompanyID:         m.CompanyID,
		LedgerEntryID:     m.LedgerEntryID,
		BankLineID:        m.BankLineID,
		Status:            m.Status,
		DiscrepancyAmount: m.DiscrepancyAmount,
	}
}

// FromDomain populates the persistence model from a domain ReconciliationLink entity.
func (m *ReconciliationLinkModel) FromDomain(l *reconciliation.ReconciliationLink) {
	m.FromDomainBaseEntity(l.BaseEntity)
	m.CompanyID = l.CompanyID
	m.LedgerEntryID = l.LedgerEntryID
	m.BankLineID = l.BankLineID
	m.Status = l.Status
	m.DiscrepancyAmount = l.DiscrepancyAmount
}

// ReconciliationLinkModelFromDomain creates a new persistence model from a domain ReconciliationLink.
func ReconciliationLinkModelFromDomain(l *reconciliation.ReconciliationLink) *ReconciliationLinkModel {
	m := &ReconciliationLinkModel{}
	m.FromDomain(l)
	return m
}
