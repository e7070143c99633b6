// Package cart holds the storefront cart: an ordered mapping from product id
// to quantity, plus the reconciliation of raw add events into that mapping.
package cart

import (
	"feteer-storefront/internal/model"

	"github.com/shopspring/decimal"
)

// Cart is an ordered list of lines, one per product id.
// Lines keep the order in which products were first added.
type Cart struct {
	lines []model.CartLine
}

// Entry is a single add event. A zero Quantity means "not given" and counts as one.
type Entry struct {
	Product  model.Product
	Quantity int
}

// FromLines rebuilds a cart from persisted lines.
// Duplicate ids are merged and non-positive quantities clamped.
func FromLines(lines []model.CartLine) *Cart {
	entries := make([]Entry, 0, len(lines))
	for _, l := range lines {
		entries = append(entries, Entry{Product: l.Product, Quantity: ClampQuantity(l.Quantity)})
	}
	return &Cart{lines: Reconcile(entries)}
}

// FromEntries builds a cart from raw add events.
func FromEntries(entries []Entry) *Cart {
	return &Cart{lines: Reconcile(entries)}
}

// Lines returns a copy of the cart lines.
func (c *Cart) Lines() []model.CartLine {
	out := make([]model.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Add puts one unit of product into the cart.
func (c *Cart) Add(product model.Product) {
	if i := c.index(product.ID); i >= 0 {
		c.lines[i].Quantity++
		return
	}
	c.lines = append(c.lines, model.CartLine{Product: product, Quantity: 1})
}

// Remove takes one unit of the product out of the cart and drops the line
// when its quantity reaches zero. It reports whether the product was present.
func (c *Cart) Remove(productID int64) bool {
	i := c.index(productID)
	if i < 0 {
		return false
	}
	if c.lines[i].Quantity > 1 {
		c.lines[i].Quantity--
		return true
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	return true
}

// Delete drops the whole line for productID.
func (c *Cart) Delete(productID int64) bool {
	i := c.index(productID)
	if i < 0 {
		return false
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	return true
}

// SetQuantity overwrites the quantity of a line. Values below one become one.
func (c *Cart) SetQuantity(productID int64, quantity int) bool {
	i := c.index(productID)
	if i < 0 {
		return false
	}
	c.lines[i].Quantity = ClampQuantity(quantity)
	return true
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
}

// Len returns the number of units in the cart.
func (c *Cart) Len() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Total is the sum of price times quantity over all lines.
func (c *Cart) Total() decimal.Decimal {
	return Total(c.lines)
}

// OrderItems returns the (id, quantity) pairs submitted with an order.
func (c *Cart) OrderItems() []model.OrderItem {
	items := make([]model.OrderItem, 0, len(c.lines))
	for _, l := range c.lines {
		items = append(items, model.OrderItem{ID: l.Product.ID, Quantity: l.Quantity})
	}
	return items
}

func (c *Cart) index(productID int64) int {
	for i, l := range c.lines {
		if l.Product.ID == productID {
			return i
		}
	}
	return -1
}
