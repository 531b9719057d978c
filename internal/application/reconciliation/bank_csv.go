package reconciliation

import (
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	csvimport "github.com/facturio/backend/internal/infrastructure/import"
)

// Recognized bank statement CSV headers. Date, description and amount are
// required; reference is optional.
const (
	bankCSVColumnDate        = "date"
	bankCSVColumnDescription = "description"
	bankCSVColumnAmount      = "amount"
	bankCSVColumnReference   = "reference"
)

// bankCSVDateLayouts are the accepted date formats, tried in order.
var bankCSVDateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	time.RFC3339,
}

// BankCSVRowError describes a row that could not be converted into a
// bank statement line.
type BankCSVRowError struct {
	Line    int    `json:"line"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ParseBankStatementCSV parses a CSV bank statement into import requests.
// File-level problems (encoding, missing header) are returned as an error;
// per-row problems are collected and returned alongside the valid rows.
func ParseBankStatementCSV(r io.Reader) ([]ImportBankLineRequest, []BankCSVRowError, error) {
	parser, err := csvimport.NewCSVParser(r)
	if err != nil {
		return nil, nil, err
	}
	if err := parser.ParseHeader(); err != nil {
		return nil, nil, err
	}

	required := []string{bankCSVColumnDate, bankCSVColumnDescription, bankCSVColumnAmount}
	if missing := parser.ValidateHeaders(required); len(missing) > 0 {
		return nil, nil, fmt.Errorf("%w: missing columns %v", csvimport.ErrMissingHeader, missing)
	}

	rows, err := parser.ReadAllRows()
	if err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return nil, nil, csvimport.ErrNoDataRows
	}

	var (
		reqs      []ImportBankLineRequest
		rowErrors []BankCSVRowError
	)
	for _, row := range rows {
		req, errs := convertBankCSVRow(row)
		if len(errs) > 0 {
			rowErrors = append(rowErrors, errs...)
			continue
		}
		reqs = append(reqs, *req)
	}
	return reqs, rowErrors, nil
}

func convertBankCSVRow(row *csvimport.Row) (*ImportBankLineRequest, []BankCSVRowError) {
	var errs []BankCSVRowError

	date, err := parseBankCSVDate(row.Get(bankCSVColumnDate))
	if err != nil {
		errs = append(errs, BankCSVRowError{
			Line:    row.LineNumber,
			Field:   bankCSVColumnDate,
			Message: err.Error(),
		})
	}

	description := row.Get(bankCSVColumnDescription)
	if description == "" {
		errs = append(errs, BankCSVRowError{
			Line:    row.LineNumber,
			Field:   bankCSVColumnDescription,
			Message: "description is required",
		})
	}

	amount, err := decimal.NewFromString(row.Get(bankCSVColumnAmount))
	if err != nil {
		errs = append(errs, BankCSVRowError{
			Line:    row.LineNumber,
			Field:   bankCSVColumnAmount,
			Message: fmt.Sprintf("invalid amount %q", row.Get(bankCSVColumnAmount)),
		})
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return &ImportBankLineRequest{
		Date:        date,
		Description: description,
		Amount:      amount,
		Reference:   row.GetOrDefault(bankCSVColumnReference, ""),
	}, nil
}

func parseBankCSVDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	for _, layout := range bankCSVDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", value)
}
