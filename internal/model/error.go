package model

import (
	"fmt"
	"strings"
)

// Standard error codes used by the storefront.
const (
	ErrCodeEmptyCart       = "EMPTY_CART"
	ErrCodeProductNotFound = "PRODUCT_NOT_FOUND"
	ErrCodeInvalidQuantity = "INVALID_QUANTITY"
	ErrCodeLineNotFound    = "LINE_NOT_FOUND"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrEmptyCart       = NewDomainError(ErrCodeEmptyCart, "Please add products to the cart first")
	ErrProductNotFound = NewDomainError(ErrCodeProductNotFound, "Product not found")
	ErrInvalidQuantity = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be a whole number")
	ErrLineNotFound    = NewDomainError(ErrCodeLineNotFound, "Product is not in the cart")
)

// ValidationError reports required form fields that were left empty.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}

// Has reports whether field failed validation.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f == field {
			return true
		}
	}
	return false
}

// UpstreamError is returned when the backend API answers with a non-2xx status.
type UpstreamError struct {
	Endpoint   string
	StatusCode int
	Status     string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s failed: %s", e.Endpoint, e.Status)
}
