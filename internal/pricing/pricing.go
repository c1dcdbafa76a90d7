// Package pricing computes booking totals. All arithmetic is decimal so the
// persisted amounts are reproducible to the cent regardless of platform.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/waynex/travels-api/internal/domain"
)

var (
	// DefaultChildRate is the fraction of the adult price charged per child.
	DefaultChildRate = decimal.NewFromFloat(0.7)
	// DefaultTaxRate is the GST rate applied to the discounted amount.
	DefaultTaxRate = decimal.NewFromFloat(0.18)
)

type QuoteInput struct {
	PricePerPerson decimal.Decimal
	NumAdults      int
	NumChildren    int
	DiscountAmount decimal.Decimal

	// ChildRate and TaxRate fall back to the defaults when zero-valued
	// inputs are constructed via Defaults().
	ChildRate decimal.Decimal
	TaxRate   decimal.Decimal
}

// Defaults returns a QuoteInput with the standard child and tax rates set.
func Defaults(pricePerPerson decimal.Decimal, numAdults, numChildren int, discount decimal.Decimal) QuoteInput {
	return QuoteInput{
		PricePerPerson: pricePerPerson,
		NumAdults:      numAdults,
		NumChildren:    numChildren,
		DiscountAmount: discount,
		ChildRate:      DefaultChildRate,
		TaxRate:        DefaultTaxRate,
	}
}

type Quote struct {
	TotalAmount decimal.Decimal
	TaxAmount   decimal.Decimal
	FinalAmount decimal.Decimal
}

var one = decimal.NewFromInt(1)

// Compute derives the booking totals. The rounding order is load-bearing:
// totals are rounded to 2 decimals before the discount is applied, tax is
// rounded before it is added, and the final amount is the sum of the two
// already-rounded figures. Changing the order changes persisted amounts.
func Compute(in QuoteInput) (Quote, error) {
	if err := validate(in); err != nil {
		return Quote{}, err
	}

	adultTotal := in.PricePerPerson.Mul(decimal.NewFromInt(int64(in.NumAdults)))
	childTotal := in.PricePerPerson.Mul(in.ChildRate).Mul(decimal.NewFromInt(int64(in.NumChildren)))

	totalAmount := adultTotal.Add(childTotal).Round(2)

	if in.DiscountAmount.GreaterThan(totalAmount) {
		return Quote{}, domain.Invalid("discount_amount", "must not exceed the pre-discount total")
	}

	discounted := totalAmount.Sub(in.DiscountAmount)
	taxAmount := discounted.Mul(in.TaxRate).Round(2)
	finalAmount := discounted.Add(taxAmount).Round(2)

	return Quote{
		TotalAmount: totalAmount,
		TaxAmount:   taxAmount,
		FinalAmount: finalAmount,
	}, nil
}

func validate(in QuoteInput) error {
	var v domain.ValidationError
	if in.PricePerPerson.IsNegative() {
		v.Add("price_per_person", "must not be negative")
	}
	if in.NumAdults < 1 {
		v.Add("num_adults", "must be at least 1")
	}
	if in.NumChildren < 0 {
		v.Add("num_children", "must not be negative")
	}
	if in.DiscountAmount.IsNegative() {
		v.Add("discount_amount", "must not be negative")
	}
	if in.ChildRate.IsNegative() || in.ChildRate.GreaterThan(one) {
		v.Add("child_rate", "must be between 0 and 1")
	}
	if in.TaxRate.IsNegative() {
		v.Add("tax_rate", "must not be negative")
	}
	if v.HasErrors() {
		return &v
	}
	return nil
}
