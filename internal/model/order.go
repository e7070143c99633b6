package model

// OrderRequest is the payload posted to the backend's /orders endpoint.
// It is composed at submission time and never stored.
type OrderRequest struct {
	Name        string      `json:"name"`
	PhoneNumber string      `json:"phoneNumber"`
	Address     string      `json:"address"`
	Notes       string      `json:"notes"`
	Products    []OrderItem `json:"products"`
}

// OrderItem is a single (product id, quantity) pair of an order.
type OrderItem struct {
	ID       int64 `json:"id"`
	Quantity int   `json:"quantity"`
}

// ContactRequest is the payload posted to the backend's /contacts endpoint.
type ContactRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Inquiry string `json:"inquiry"`
}

// CheckoutForm holds the delivery fields entered on the checkout page.
type CheckoutForm struct {
	Name        string `form:"name" validate:"required"`
	PhoneNumber string `form:"phoneNumber" validate:"required"`
	Address     string `form:"address" validate:"required"`
	Notes       string `form:"notes"`
}

// InquiryForm holds the fields of the landing page inquiry form.
type InquiryForm struct {
	Name    string `form:"name" validate:"required"`
	Phone   string `form:"phone" validate:"required"`
	Address string `form:"address" validate:"required"`
	Inquiry string `form:"inquiry" validate:"required"`
}
