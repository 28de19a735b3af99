package wishlist

import (
	"errors"

	"github.com/wichananm65/storefront/internal/product"
)

type Catalog interface {
	GetByID(id int) (product.Product, error)
}

type Service struct {
	repo    Repository
	catalog Catalog
}

func NewService(repo Repository, catalog Catalog) *Service {
	return &Service{repo: repo, catalog: catalog}
}

// Items returns the wishlist with current product data. Products deleted
// from the catalog are skipped.
func (s *Service) Items(userID int) (View, error) {
	if userID <= 0 {
		return View{}, ErrNotFound
	}
	ids, err := s.repo.List(userID)
	if err != nil {
		return View{}, err
	}
	items := make([]product.Product, 0, len(ids))
	for _, id := range ids {
		p, err := s.catalog.GetByID(id)
		if errors.Is(err, product.ErrNotFound) {
			continue
		}
		if err != nil {
			return View{}, err
		}
		items = append(items, p)
	}
	return View{Items: items, Count: len(items)}, nil
}

func (s *Service) Add(userID, productID int) (View, error) {
	if userID <= 0 {
		return View{}, ErrNotFound
	}
	if productID <= 0 {
		return View{}, ErrInvalidProduct
	}
	if _, err := s.catalog.GetByID(productID); err != nil {
		return View{}, err
	}
	if _, err := s.repo.Add(userID, productID); err != nil {
		return View{}, err
	}
	return s.Items(userID)
}

func (s *Service) Remove(userID, productID int) (View, error) {
	if userID <= 0 {
		return View{}, ErrNotFound
	}
	if _, err := s.repo.Remove(userID, productID); err != nil {
		return View{}, err
	}
	return s.Items(userID)
}

func (s *Service) IsMember(userID, productID int) (bool, error) {
	if userID <= 0 {
		return false, ErrNotFound
	}
	ids, err := s.repo.List(userID)
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if id == productID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Service) Count(userID int) (int, error) {
	v, err := s.Items(userID)
	if err != nil {
		return 0, err
	}
	return v.Count, nil
}
