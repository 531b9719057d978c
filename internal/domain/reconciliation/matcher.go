package reconciliation

import (
	"github.com/shopspring/decimal"
)

// MatchResult is the outcome of comparing a ledger entry against a bank line
type MatchResult struct {
	Status            LinkStatus      `json:"status"`
	DiscrepancyAmount decimal.Decimal `json:"discrepancy_amount"`
}

// Match compares a ledger entry amount with a bank line amount. A zero
// difference yields MATCHED; anything else yields DISCREPANCY with the
// absolute delta recorded, never silently adjusted.
func Match(ledgerAmount, bankLineAmount decimal.Decimal) MatchResult {
	delta := ledgerAmount.Sub(bankLineAmount).Abs()
	if delta.IsZero() {
		return MatchResult{Status: LinkStatusMatched, DiscrepancyAmount: decimal.Zero}
	}
	return MatchResult{Status: LinkStatusDiscrepancy, DiscrepancyAmount: delta}
}
