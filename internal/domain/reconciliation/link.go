package reconciliation

import (
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LinkStatus is the outcome of pairing a ledger entry with a bank line
type LinkStatus string

const (
	LinkStatusMatched     LinkStatus = "MATCHED"     // Amounts are exactly equal
	LinkStatusDiscrepancy LinkStatus = "DISCREPANCY" // Amounts differ; delta recorded
)

// IsValid checks if the status is a valid LinkStatus
func (s LinkStatus) IsValid() bool {
	switch s {
	case LinkStatusMatched, LinkStatusDiscrepancy:
		return true
	}
	return false
}

// String returns the string representation of LinkStatus
func (s LinkStatus) String() string {
	return string(s)
}

// ReconciliationLink pairs exactly one ledger entry (receipt) with exactly
// one bank statement line. It is a read-level audit layer: creating or
// deleting a link never alters receipts, allocations or bank lines.
type ReconciliationLink struct {
	shared.BaseEntity
	CompanyID         uuid.UUID        `json:"company_id"`
	LedgerEntryID     uuid.UUID        `json:"ledger_entry_id"`
	BankLineID        uuid.UUID        `json:"bank_line_id"`
	Status            LinkStatus       `json:"status"`
	DiscrepancyAmount *decimal.Decimal `json:"discrepancy_amount"`
}

// NewReconciliationLink records the outcome of a proposed match
func NewReconciliationLink(companyID, ledgerEntryID, bankLineID uuid.UUID, result MatchResult) (*ReconciliationLink, error) {
	if companyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COMPANY", "Company ID cannot be empty")
	}
	if ledgerEntryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LEDGER_ENTRY", "Ledger entry ID cannot be empty")
	}
	if bankLineID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BANK_LINE", "Bank line ID cannot be empty")
	}

	link := &ReconciliationLink{
		BaseEntity:    shared.NewBaseEntity(),
		CompanyID:     companyID,
		LedgerEntryID: ledgerEntryID,
		BankLineID:    bankLineID,
		Status:        result.Status,
	}
	if result.Status == LinkStatusDiscrepancy {
		delta := result.DiscrepancyAmount
		link.DiscrepancyAmount = &delta
	}
	return link, nil
}
