package recommended

import (
	"sort"

	"github.com/wichananm65/storefront/internal/product"
	"github.com/wichananm65/storefront/internal/review"
	"go.uber.org/zap"
)

type Catalog interface {
	List(f product.Filter) ([]product.Product, error)
}

type Ratings interface {
	Averages() (map[int]review.Summary, error)
}

// Service ranks the catalog by average review rating.
type Service struct {
	catalog Catalog
	ratings Ratings
}

func NewService(catalog Catalog, ratings Ratings) *Service {
	return &Service{catalog: catalog, ratings: ratings}
}

// List returns up to limit items starting at offset. Rated products come
// first, best average then most reviews; unrated products follow by id.
// A catalog failure yields an empty list; a ratings failure leaves every
// product unrated.
func (s *Service) List(limit, offset int) []Item {
	products, err := s.catalog.List(product.Filter{})
	if err != nil {
		zap.L().Warn("recommended: list products", zap.Error(err))
		return []Item{}
	}
	averages, err := s.ratings.Averages()
	if err != nil {
		zap.L().Warn("recommended: load ratings", zap.Error(err))
		averages = map[int]review.Summary{}
	}

	items := make([]Item, 0, len(products))
	for _, p := range products {
		sum := averages[p.ID]
		items = append(items, Item{Product: p, AverageRating: sum.AverageRating, ReviewCount: sum.Count})
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if (a.AverageRating == nil) != (b.AverageRating == nil) {
			return a.AverageRating != nil
		}
		if a.AverageRating != nil && *a.AverageRating != *b.AverageRating {
			return *a.AverageRating > *b.AverageRating
		}
		if a.ReviewCount != b.ReviewCount {
			return a.ReviewCount > b.ReviewCount
		}
		return a.ID < b.ID
	})

	if offset >= len(items) {
		return []Item{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
