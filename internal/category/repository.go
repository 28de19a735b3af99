package category

import (
	"sort"

	"github.com/wichananm65/storefront/internal/product"
)

// Repository provides access to category counts.
type Repository interface {
	List(limit int) ([]Category, error)
}

type ProductLister interface {
	List(f product.Filter) ([]product.Product, error)
}

// CatalogRepository derives categories from a product listing. It backs the
// in-memory setup where there is no SQL to group by.
type CatalogRepository struct {
	products ProductLister
}

func NewCatalogRepository(products ProductLister) *CatalogRepository {
	return &CatalogRepository{products: products}
}

func (r *CatalogRepository) List(limit int) ([]Category, error) {
	products, err := r.products.List(product.Filter{})
	if err != nil {
		return nil, err
	}

	counts := map[string]int{}
	for _, p := range products {
		if p.Category == "" {
			continue
		}
		counts[p.Category]++
	}

	out := make([]Category, 0, len(counts))
	for name, n := range counts {
		out = append(out, Category{Name: name, ProductCount: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
