package wishlist

import (
	"errors"

	"github.com/wichananm65/storefront/internal/product"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrAlreadyListed  = errors.New("product already in wishlist")
	ErrNotListed      = errors.New("product not in wishlist")
	ErrInvalidProduct = errors.New("invalid productId")
)

// View is the wishlist as returned to clients. Items are product snapshots
// in the order they were added.
type View struct {
	Items []product.Product `json:"items"`
	Count int               `json:"count"`
}
