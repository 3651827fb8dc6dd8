// Package policy holds the swappable heuristics applied while building records.
//
// The default set reproduces the behaviour of the legacy migration tool. The
// strict set drops the lossy substitutions so a zero total or a missing unit
// price is kept as read.
package policy

import (
	"github.com/ukaji3/xlinvoice/pkg/xlinvoice/models"
	"github.com/ukaji3/xlinvoice/pkg/xlinvoice/normalize"
)

// UnitCostFunc resolves a line's unit cost from its unit-price value and, when
// the table has an amount column, that column's value.
type UnitCostFunc func(unitPrice, amount float64, hasAmount bool) float64

// TotalFunc resolves an invoice total from the extracted total and the parsed
// items. It fails with normalize.ErrAmountOutOfRange when the total does not fit
// in an int64.
type TotalFunc func(extracted float64, items []models.LineItem) (int64, error)

// TaxRateFunc converts tax-rate cell text into a fraction.
type TaxRateFunc func(text string) float64

// Policies bundles the heuristics used by the table detector and sheet builder.
type Policies struct {
	Name     string
	UnitCost UnitCostFunc
	Total    TotalFunc
	TaxRate  TaxRateFunc
}

// Default returns the compatibility heuristics.
func Default() Policies {
	return Policies{
		Name:     "default",
		UnitCost: AmountFallback,
		Total:    ZeroTotalMeansAbsent,
		TaxRate:  normalize.ParsePercentage,
	}
}

// Strict returns heuristics without the lossy substitutions.
func Strict() Policies {
	return Policies{
		Name:     "strict",
		UnitCost: UnitPriceOnly,
		Total:    ExtractedTotal,
		TaxRate:  normalize.ParseRate,
	}
}

// AmountFallback uses the amount column when the unit price parsed as zero.
// Amount and unit price may differ (amount is often price * quantity).
func AmountFallback(unitPrice, amount float64, hasAmount bool) float64 {
	if unitPrice == 0 && hasAmount {
		return amount
	}
	return unitPrice
}

// UnitPriceOnly never substitutes the amount column.
func UnitPriceOnly(unitPrice, _ float64, _ bool) float64 {
	return unitPrice
}

// ZeroTotalMeansAbsent replaces a zero extracted total with the item sum.
// A legitimately zero-total invoice with items cannot be told apart from a missing total.
func ZeroTotalMeansAbsent(extracted float64, items []models.LineItem) (int64, error) {
	if extracted == 0 && len(items) > 0 {
		return sumAmounts(items)
	}
	return normalize.ToAmount(extracted)
}

// ExtractedTotal keeps the extracted total, truncated toward zero.
func ExtractedTotal(extracted float64, _ []models.LineItem) (int64, error) {
	return normalize.ToAmount(extracted)
}

func sumAmounts(items []models.LineItem) (int64, error) {
	amounts := make([]int64, len(items))
	for i, it := range items {
		amounts[i] = it.Amount
	}
	return normalize.SumAmounts(amounts...)
}
