package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)

// Settlement domain errors
var (
	ErrInvalidDiscount          = NewDomainError("INVALID_DISCOUNT", "Discount would reduce the taxable base below zero")
	ErrDocumentFrozen           = NewDomainError("DOCUMENT_FROZEN", "Document is finalized and can no longer be modified")
	ErrInsufficientRemaining    = NewDomainError("INSUFFICIENT_REMAINING_AMOUNT", "Allocation exceeds the remaining amount on the receipt")
	ErrDocumentNotAllocatable   = NewDomainError("DOCUMENT_NOT_ALLOCATABLE", "Document cannot receive allocations in its current state")
	ErrDocumentLocked           = NewDomainError("DOCUMENT_LOCKED", "Document is archived and its allocations are locked")
	ErrCreditNoteAlreadyApplied = NewDomainError("CREDIT_NOTE_ALREADY_APPLIED", "Credit note has already been applied")
	ErrAlreadyMatched           = NewDomainError("ALREADY_MATCHED", "Entry is already part of a reconciliation link")
	ErrConservationViolation    = NewDomainError("CONSERVATION_VIOLATION", "Allocation sums no longer balance; transaction aborted")
)
