package cart

import "errors"

var (
	ErrNoStock         = errors.New("no stock available")
	ErrStockLimit      = errors.New("stock limit reached")
	ErrKitEmpty        = errors.New("kit has no items")
	ErrKitNameRequired = errors.New("kit name is required")
	ErrKitItemInvalid  = errors.New("kit item is invalid")
)

// Reason returns the stable failure reason for a cart error, or "" for
// errors that did not come from a cart operation.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrNoStock):
		return "no-stock"
	case errors.Is(err, ErrStockLimit):
		return "stock-limit"
	case errors.Is(err, ErrKitEmpty):
		return "kit-empty"
	case errors.Is(err, ErrKitNameRequired):
		return "kit-name-required"
	case errors.Is(err, ErrKitItemInvalid):
		return "kit-item-invalid"
	}
	return ""
}
