// internal/pricing/pricing.go
package pricing

import (
	"homeforge/internal/catalog"
	"homeforge/internal/money"
	"homeforge/internal/selection"
)

// Breakdown is the itemized total for a selection, derived on demand and never
// stored apart from the model it was computed from.
type Breakdown struct {
	BasePrice  money.Amount                      `json:"base_price"`
	Subtotals  map[catalog.Category]money.Amount `json:"subtotals"`
	GrandTotal money.Amount                      `json:"grand_total"`
}

// Compute derives the categorized total for a selection. Pure and
// deterministic: identical inputs produce an identical breakdown, so it is
// safe to call on every selection change. Invariant:
// GrandTotal == BasePrice + sum of all subtotals, in exact integer arithmetic.
func Compute(basePrice money.Amount, model *selection.Model) Breakdown {
	b := Breakdown{
		BasePrice: basePrice,
		Subtotals: make(map[catalog.Category]money.Amount),
	}

	total := basePrice
	for _, c := range catalog.Categories() {
		var subtotal money.Amount
		if c.SingleSelect() {
			if opt, ok := model.Selected(c); ok {
				subtotal = opt.Price
			}
		} else {
			// Integer addition is order-independent; the stable ordering from
			// SelectedAll is for display, not correctness.
			for _, opt := range model.SelectedAll(c) {
				subtotal += opt.Price
			}
		}
		b.Subtotals[c] = subtotal
		total += subtotal
	}

	b.GrandTotal = total
	return b
}
