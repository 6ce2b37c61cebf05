package cart

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound indicates the requested cart line could not be located.
	ErrNotFound = errors.New("cart item not found")
	// ErrNoOwner is returned when neither a customer nor a guest session identifies the cart.
	ErrNoOwner = errors.New("cart owner required")
	// ErrInvalidQuantity is returned for quantities outside [1, max line quantity].
	ErrInvalidQuantity = errors.New("invalid quantity")
	// ErrVariantNotFound is returned for unknown variants.
	ErrVariantNotFound = errors.New("variant not found")
	// ErrVariantUnavailable is returned for inactive variants or products.
	ErrVariantUnavailable = errors.New("variant unavailable")
	// ErrInsufficientStock is returned when requested quantities exceed live stock.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrEmptyCart is returned when an operation needs at least one line.
	ErrEmptyCart = errors.New("cart is empty")
)

// Shortage describes one line that cannot be fulfilled.
type Shortage struct {
	VariantID string `json:"variant_id"`
	SKU       string `json:"sku"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

// StockError lists every short line; it matches ErrInsufficientStock.
type StockError struct {
	Lines []Shortage
}

func (e *StockError) Error() string {
	parts := make([]string, 0, len(e.Lines))
	for _, l := range e.Lines {
		parts = append(parts, fmt.Sprintf("%s requested %d available %d", l.SKU, l.Requested, l.Available))
	}
	return "insufficient stock: " + strings.Join(parts, "; ")
}

func (e *StockError) Is(target error) bool { return target == ErrInsufficientStock }
