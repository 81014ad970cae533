// Package session persists cart aggregates per cart session.
package session

import (
	"context"
	"errors"

	"github.com/cixi/storefront-backend/internal/cart"
	"github.com/google/uuid"
)

var ErrInvalidID = errors.New("invalid cart session id")

// Store loads and saves the cart owned by one session. Load returns an
// empty cart for unknown or expired sessions.
type Store interface {
	Load(ctx context.Context, id string) (*cart.Cart, error)
	Save(ctx context.Context, id string, c *cart.Cart) error
	Delete(ctx context.Context, id string) error
}

// NewID returns a fresh random session id
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id looks like one issued by NewID
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil && len(id) == 36
}
