package services

import (
	"errors"
	"strings"
)

// Errors rejected before any side effect takes place.
var (
	ErrInvalidRequest = errors.New("payment method and delivery address are required")
	ErrEmptyCart      = errors.New("cart is empty, cannot proceed with checkout")
)

// CheckoutError aggregates per-line reservation failures. The cart is left
// intact when this is returned, so the client can fix the listed products
// and retry the whole checkout.
type CheckoutError struct {
	Errors []string
}

func (e *CheckoutError) Error() string {
	return "checkout failed: " + strings.Join(e.Errors, "; ")
}
