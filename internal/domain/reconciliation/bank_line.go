package reconciliation

import (
	"time"

	"github.com/facturio/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BankStatementLine is one line of an externally imported bank statement.
// The matcher reads it and never mutates it.
type BankStatementLine struct {
	shared.BaseEntity
	CompanyID   uuid.UUID       `json:"company_id"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Reference   string          `json:"reference"`
}

// NewBankStatementLine creates a new bank statement line
func NewBankStatementLine(companyID uuid.UUID, date time.Time, description string, amount decimal.Decimal, reference string) (*BankStatementLine, error) {
	if companyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COMPANY", "Company ID cannot be empty")
	}
	if date.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Bank line date is required")
	}
	return &BankStatementLine{
		BaseEntity:  shared.NewBaseEntity(),
		CompanyID:   companyID,
		Date:        date,
		Description: description,
		Amount:      amount,
		Reference:   reference,
	}, nil
}
