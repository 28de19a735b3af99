package recommended

import "github.com/wichananm65/storefront/internal/product"

// Item is a catalog product with its review aggregate.
type Item struct {
	product.Product
	AverageRating *float64 `json:"averageRating"`
	ReviewCount   int      `json:"reviewCount"`
}
