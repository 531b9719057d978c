package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeValidationRequired is used when a required field is missing
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	// ErrCodeValidationFormat is used when a field has invalid format
	ErrCodeValidationFormat = "ERR_VALIDATION_FORMAT"
	// ErrCodeValidationRange is used when a value is out of range
	ErrCodeValidationRange = "ERR_VALIDATION_RANGE"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeConcurrencyConflict is used when optimistic locking fails
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeBusinessRule is used for generic business rule violations
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
	// ErrCodeInsufficientRemaining is used when a receipt or credit note cannot
	// cover the requested allocation amount
	ErrCodeInsufficientRemaining = "ERR_INSUFFICIENT_REMAINING"
	// ErrCodeExceedsOutstanding is used when an allocation would overpay a document
	ErrCodeExceedsOutstanding = "ERR_EXCEEDS_OUTSTANDING"
	// ErrCodeDocumentNotAllocatable is used when the target document cannot receive funds
	ErrCodeDocumentNotAllocatable = "ERR_DOCUMENT_NOT_ALLOCATABLE"
	// ErrCodeDocumentLocked is used when mutating a finalized document
	ErrCodeDocumentLocked = "ERR_DOCUMENT_LOCKED"
	// ErrCodeHasAllocations is used when cancelling an entity with active allocations
	ErrCodeHasAllocations = "ERR_HAS_ALLOCATIONS"
	// ErrCodeEmptyDocument is used when finalizing a document without lines
	ErrCodeEmptyDocument = "ERR_EMPTY_DOCUMENT"
	// ErrCodeAlreadyMatched is used when a ledger entry or bank line is already reconciled
	ErrCodeAlreadyMatched = "ERR_ALREADY_MATCHED"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
)

// Rate limiting error codes
const (
	// ErrCodeRateLimited is used when rate limit is exceeded
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,
	ErrCodeValidationRange:    http.StatusBadRequest,

	// Resource errors
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:           http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:           http.StatusUnprocessableEntity,
	ErrCodeInsufficientRemaining:  http.StatusUnprocessableEntity,
	ErrCodeExceedsOutstanding:     http.StatusUnprocessableEntity,
	ErrCodeDocumentNotAllocatable: http.StatusUnprocessableEntity,
	ErrCodeDocumentLocked:         http.StatusUnprocessableEntity,
	ErrCodeHasAllocations:         http.StatusUnprocessableEntity,
	ErrCodeEmptyDocument:          http.StatusUnprocessableEntity,

	// ALREADY_MATCHED is a conflict with reconciliation state, not a business rejection
	ErrCodeAlreadyMatched: http.StatusConflict,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,

	// Rate limiting -> 429 Too Many Requests
	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to the standardized codes
// returned to API clients.
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":             ErrCodeNotFound,
	"DOCUMENT_NOT_FOUND":    ErrCodeNotFound,
	"RECEIPT_NOT_FOUND":     ErrCodeNotFound,
	"CREDIT_NOTE_NOT_FOUND": ErrCodeNotFound,
	"ALLOCATION_NOT_FOUND":  ErrCodeNotFound,
	"CLIENT_NOT_FOUND":      ErrCodeNotFound,
	"BANK_LINE_NOT_FOUND":   ErrCodeNotFound,

	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,
	"ALREADY_MATCHED":      ErrCodeAlreadyMatched,

	"INVALID_STATE":                 ErrCodeInvalidState,
	"INSUFFICIENT_REMAINING_AMOUNT": ErrCodeInsufficientRemaining,
	"EXCEEDS_OUTSTANDING":           ErrCodeExceedsOutstanding,
	"DOCUMENT_NOT_ALLOCATABLE":      ErrCodeDocumentNotAllocatable,
	"DOCUMENT_LOCKED":               ErrCodeDocumentLocked,
	"DOCUMENT_FROZEN":               ErrCodeDocumentLocked,
	"HAS_ALLOCATIONS":               ErrCodeHasAllocations,
	"EMPTY_DOCUMENT":                ErrCodeEmptyDocument,
	"CREDIT_NOTE_ALREADY_APPLIED":   ErrCodeInvalidState,

	"INVALID_INPUT":     ErrCodeInvalidInput,
	"INVALID_AMOUNT":    ErrCodeInvalidInput,
	"INVALID_QUANTITY":  ErrCodeInvalidInput,
	"INVALID_KIND":      ErrCodeInvalidInput,
	"INVALID_TYPE":      ErrCodeInvalidInput,
	"INVALID_CLIENT":    ErrCodeInvalidInput,
	"INVALID_COMPANY":   ErrCodeInvalidInput,
	"INVALID_DISCOUNT":  ErrCodeInvalidInput,
	"INVALID_DATE":      ErrCodeInvalidInput,
	"INVALID_TAX":       ErrCodeInvalidInput,
	"INVALID_SOURCE":    ErrCodeInvalidInput,
	"INVALID_DOCUMENT":  ErrCodeInvalidInput,
	"INVALID_INVOICE":   ErrCodeInvalidInput,
	"INVALID_NUMBER":    ErrCodeInvalidInput,
	"INVALID_REFERENCE": ErrCodeInvalidInput,
	"INVALID_REASON":    ErrCodeInvalidInput,
	"EMPTY_IMPORT":      ErrCodeInvalidInput,
	"VALIDATION_ERROR":  ErrCodeValidation,
	"BAD_REQUEST":       ErrCodeBadRequest,
	"INTERNAL_ERROR":    ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the standardized format
// If the code is already in the new format or unknown, returns it as-is
func NormalizeErrorCode(code string) string {
	if newCode, ok := DomainErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
