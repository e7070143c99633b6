package model

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// FallbackImageURL is shown for products that carry no image of their own.
const FallbackImageURL = "https://images.unsplash.com/photo-1555072956-7758afb20e8f?ixlib=rb-4.0.3&auto=format&fit=crop&q=80&w=400"

// Product represents a bakery item in the catalogue.
// Products are read-only mirrors of the backend records.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image,omitempty"`
	Category    Category        `json:"category"`
}

// ImageURL returns the product image or the shared fallback.
func (p Product) ImageURL() string {
	if p.Image == "" {
		return FallbackImageURL
	}
	return p.Image
}

// Category groups products. The backend sends either a bare label
// or a record with its own id and name.
type Category struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name"`
}

// UnmarshalJSON accepts both `"Feteer"` and `{"id":1,"name":"Feteer"}`.
// Any other value, such as a bare number, decodes to an unnamed category.
func (c *Category) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || (data[0] != '"' && data[0] != '{') {
		*c = Category{}
		return nil
	}

	if data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return fmt.Errorf("invalid category label: %w", err)
		}
		*c = Category{Name: name}
		return nil
	}

	type record Category
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return fmt.Errorf("invalid category record: %w", err)
	}
	*c = Category(r)
	return nil
}

// ProductsEnvelope is the body returned by GET /products.
// A missing products field decodes to a nil slice.
type ProductsEnvelope struct {
	Products []Product `json:"products"`
}
