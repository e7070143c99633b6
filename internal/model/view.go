package model

import "github.com/shopspring/decimal"

// CatalogPage is one filtered, sorted view of the catalogue.
type CatalogPage struct {
	Search      string
	Category    string
	Sort        string
	Products    []Product
	Categories  []string
	CatalogSize int
}

// CartView is a read-only snapshot of a visitor's cart.
type CartView struct {
	Lines []CartLine      `json:"lines"`
	Units int             `json:"units"`
	Total decimal.Decimal `json:"total"`
}

// IsEmpty reports whether the cart has no lines.
func (v *CartView) IsEmpty() bool {
	return len(v.Lines) == 0
}
