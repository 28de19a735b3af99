package category

import "go.uber.org/zap"

// Service provides business logic for categories.
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

// List returns up to `limit` categories. Lookup failures degrade to an empty
// list so the storefront menu still renders.
func (s *Service) List(limit int) []Category {
	items, err := s.repo.List(limit)
	if err != nil {
		zap.S().Warnf("category listing failed: %v", err)
		return []Category{}
	}
	return items
}
