package cart

import (
	"feteer-storefront/internal/model"

	"github.com/shopspring/decimal"
)

// Reconcile groups entries by product id and sums their quantities.
// Lines come out in order of first appearance; the product snapshot of the
// first entry wins.
func Reconcile(entries []Entry) []model.CartLine {
	lines := make([]model.CartLine, 0, len(entries))
	pos := make(map[int64]int, len(entries))

	for _, e := range entries {
		qty := e.Quantity
		if qty == 0 {
			qty = 1
		}
		if qty < 0 {
			continue
		}

		if i, ok := pos[e.Product.ID]; ok {
			lines[i].Quantity += qty
			continue
		}

		pos[e.Product.ID] = len(lines)
		lines = append(lines, model.CartLine{Product: e.Product, Quantity: qty})
	}

	return lines
}

// ClampQuantity returns quantity, raised to one if it is lower.
func ClampQuantity(quantity int) int {
	if quantity < 1 {
		return 1
	}
	return quantity
}

// Total returns the sum of unit price times quantity.
func Total(lines []model.CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}
