package billing

import (
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/facturio/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TaxAmount is one tax's contribution within a totals breakdown
type TaxAmount struct {
	TaxID  uuid.UUID       `json:"tax_id"`
	Name   string          `json:"name"`
	Kind   TaxKind         `json:"kind"`
	Value  decimal.Decimal `json:"value"`
	Amount decimal.Decimal `json:"amount"`
}

// Totals is the immutable breakdown of a document's monetary amounts.
// Subtotal and taxable base carry full precision; per-tax amounts and the
// grand total are rounded to the currency's minor unit.
type Totals struct {
	Currency       valueobject.Currency `json:"currency"`
	Subtotal       decimal.Decimal      `json:"subtotal"`
	DiscountAmount decimal.Decimal      `json:"discount_amount"`
	TaxableBase    decimal.Decimal      `json:"taxable_base"`
	TaxAmounts     []TaxAmount          `json:"tax_amounts"`
	TaxTotal       decimal.Decimal      `json:"tax_total"`
	GrandTotal     decimal.Decimal      `json:"grand_total"`
}

// ZeroTotals returns an all-zero breakdown in the given currency.
// A document with no lines has zero totals and is a valid state.
func ZeroTotals(currency valueobject.Currency) Totals {
	return Totals{
		Currency:       currency,
		Subtotal:       decimal.Zero,
		DiscountAmount: decimal.Zero,
		TaxableBase:    decimal.Zero,
		TaxAmounts:     make([]TaxAmount, 0),
		TaxTotal:       decimal.Zero,
		GrandTotal:     decimal.Zero,
	}
}

// GetGrandTotalMoney returns the grand total as Money
func (t Totals) GetGrandTotalMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(t.GrandTotal, t.Currency)
	return m
}

// ComputeTotals turns line items, an optional discount and a set of tax
// definitions into a totals breakdown.
//
// The subtotal is the unrounded sum of quantity x unit price over all lines.
// The discount is subtracted from the subtotal to give the taxable base;
// percentage taxes are each computed independently on that same base and
// rounded to the currency's minor unit, fixed taxes contribute their
// configured value unchanged. The grand total is taxable base plus tax
// total, rounded at the end. Intermediate values are never rounded so that
// drift cannot accumulate across many lines.
func ComputeTotals(lines []DocumentLine, discount *Discount, taxes []Tax, currency valueobject.Currency) (Totals, error) {
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}
	precision := currency.Exponent()

	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.Quantity.Mul(line.UnitPrice))
	}

	discountAmount := decimal.Zero
	if discount != nil {
		if err := discount.Validate(); err != nil {
			return Totals{}, err
		}
		switch discount.Kind {
		case DiscountKindPercentage:
			discountAmount = subtotal.Mul(discount.Value).Div(decimal.NewFromInt(100))
		case DiscountKindAmount:
			discountAmount = discount.Value
		}
		if discountAmount.IsNegative() || !subtotal.IsPositive() {
			// A discount has nothing to reduce on a non-positive
			// subtotal, which corrective documents can produce.
			discountAmount = decimal.Zero
		}
		if discountAmount.GreaterThan(subtotal) {
			return Totals{}, shared.ErrInvalidDiscount
		}
	}

	taxableBase := subtotal.Sub(discountAmount)

	taxAmounts := make([]TaxAmount, 0, len(taxes))
	taxTotal := decimal.Zero
	for _, tax := range taxes {
		if !tax.Active {
			continue
		}
		if err := tax.Validate(); err != nil {
			return Totals{}, err
		}

		var amount decimal.Decimal
		switch tax.Kind {
		case TaxKindPercentage:
			amount = taxableBase.Mul(tax.Value).Div(decimal.NewFromInt(100)).Round(precision)
		case TaxKindFixed:
			amount = tax.Value
		}

		taxAmounts = append(taxAmounts, TaxAmount{
			TaxID:  tax.ID,
			Name:   tax.Name,
			Kind:   tax.Kind,
			Value:  tax.Value,
			Amount: amount,
		})
		taxTotal = taxTotal.Add(amount)
	}

	grandTotal := taxableBase.Add(taxTotal).Round(precision)

	return Totals{
		Currency:       currency,
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		TaxableBase:    taxableBase,
		TaxAmounts:     taxAmounts,
		TaxTotal:       taxTotal,
		GrandTotal:     grandTotal,
	}, nil
}
