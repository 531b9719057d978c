package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NumberingStrategy assigns the externally visible number a document
// acquires at finalize time. Numbers are monotonic per company and kind;
// gap-freeness is not guaranteed (a rolled-back finalize may skip a value).
type NumberingStrategy interface {
	NextNumber(ctx context.Context, companyID uuid.UUID, kind DocumentKind, issueDate time.Time) (string, error)
}

// numberPrefixes maps document kinds to their number prefix
var numberPrefixes = map[DocumentKind]string{
	DocumentKindInvoice: "INV",
	DocumentKindQuote:   "QTE",
}

// NumberPrefix returns the number prefix for a document kind
func NumberPrefix(kind DocumentKind) string {
	if p, ok := numberPrefixes[kind]; ok {
		return p
	}
	return "DOC"
}

// FormatDocumentNumber renders a document number like "INV-2026-00042"
func FormatDocumentNumber(kind DocumentKind, year int, sequence int64) string {
	return fmt.Sprintf("%s-%d-%05d", NumberPrefix(kind), year, sequence)
}
