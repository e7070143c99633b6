package service

import (
	"context"

	"feteer-storefront/internal/catalog"
	"feteer-storefront/internal/model"
)

// CatalogService defines read operations over the product catalogue.
type CatalogService interface {
	// Browse loads the catalogue and applies the filter/sort query to it.
	Browse(ctx context.Context, query catalog.Query) (*model.CatalogPage, error)

	// Product looks up a single product by ID.
	Product(ctx context.Context, id int64) (*model.Product, error)
}

// CartService defines operations on a visitor's cart.
type CartService interface {
	// Get returns the current cart of the session.
	Get(ctx context.Context, sessionID string) (*model.CartView, error)

	// Add puts one unit of the product into the cart.
	Add(ctx context.Context, sessionID string, productID int64) (*model.Product, error)

	// Remove takes one unit of the product out of the cart.
	Remove(ctx context.Context, sessionID string, productID int64) error

	// Delete drops the product's line entirely.
	Delete(ctx context.Context, sessionID string, productID int64) error

	// SetQuantity overwrites a line quantity, clamped to at least one.
	SetQuantity(ctx context.Context, sessionID string, productID int64, quantity int) error

	// Clear empties the cart.
	Clear(ctx context.Context, sessionID string) error

	// Notify queues a notice for the next rendered page.
	Notify(ctx context.Context, sessionID string, notice model.Notice) error

	// TakeNotices returns and forgets the queued notices.
	TakeNotices(ctx context.Context, sessionID string) ([]model.Notice, error)
}

// CheckoutService defines the checkout flow.
type CheckoutService interface {
	// Prepare resolves the cart shown on the checkout page. Non-empty
	// navigation items replace the session cart.
	Prepare(ctx context.Context, sessionID string, navItems []int64) (*model.CartView, error)

	// Submit validates the delivery form and posts the order.
	Submit(ctx context.Context, sessionID string, form *model.CheckoutForm) error
}

// InquiryService defines the contact form flow.
type InquiryService interface {
	// Submit validates the inquiry form and posts it to the backend.
	Submit(ctx context.Context, form *model.InquiryForm) error
}

// OrderSubmitter posts orders to the backend.
type OrderSubmitter interface {
	SubmitOrder(ctx context.Context, order *model.OrderRequest) error
}

// ContactSubmitter posts inquiries to the backend.
type ContactSubmitter interface {
	SubmitContact(ctx context.Context, contact *model.ContactRequest) error
}
