package cart

import (
	"errors"

	"github.com/wichananm65/storefront/internal/product"
)

// Catalog resolves current product data when a cart is priced.
type Catalog interface {
	GetByID(id int) (product.Product, error)
}

// Service orchestrates cart operations.
type Service struct {
	repo    Repository
	catalog Catalog
}

func NewService(repo Repository, catalog Catalog) *Service {
	return &Service{repo: repo, catalog: catalog}
}

func (s *Service) GetCart(userID int) (View, error) {
	if userID <= 0 {
		return View{}, ErrNotFound
	}
	c, err := s.repo.GetCart(userID)
	if err != nil {
		return View{}, err
	}
	return s.price(c)
}

// AddToCart merges qty of productID into the cart. The product must exist.
func (s *Service) AddToCart(userID, productID, qty int) (View, error) {
	if userID <= 0 {
		return View{}, ErrNotFound
	}
	if _, err := s.catalog.GetByID(productID); err != nil {
		return View{}, err
	}
	return s.mutate(userID, func(c *Cart) error { return c.Add(productID, qty) })
}

func (s *Service) UpdateQuantity(userID, productID, qty int) (View, error) {
	if userID <= 0 {
		return View{}, ErrNotFound
	}
	return s.mutate(userID, func(c *Cart) error {
		c.UpdateQuantity(productID, qty)
		return nil
	})
}

func (s *Service) RemoveFromCart(userID, productID int) (View, error) {
	if userID <= 0 {
		return View{}, ErrNotFound
	}
	return s.mutate(userID, func(c *Cart) error {
		c.Remove(productID)
		return nil
	})
}

// ClearCart empties a user's cart and returns an error if something goes wrong.
func (s *Service) ClearCart(userID int) error {
	if userID <= 0 {
		return ErrNotFound
	}
	_, err := s.mutate(userID, func(c *Cart) error {
		c.Clear()
		return nil
	})
	return err
}

func (s *Service) mutate(userID int, fn func(*Cart) error) (View, error) {
	c, err := s.repo.GetCart(userID)
	if err != nil {
		return View{}, err
	}
	if err := fn(&c); err != nil {
		return View{}, err
	}
	if err := s.repo.SaveCart(userID, c); err != nil {
		return View{}, err
	}
	return s.price(c)
}

// price snapshots each line against the catalog. Lines whose product has
// been deleted are left out of the view.
func (s *Service) price(c Cart) (View, error) {
	items := make([]Item, 0, len(c.Lines))
	for _, l := range c.Lines {
		p, err := s.catalog.GetByID(l.ProductID)
		if errors.Is(err, product.ErrNotFound) {
			continue
		}
		if err != nil {
			return View{}, err
		}
		items = append(items, Item{Product: p, Quantity: l.Quantity})
	}
	return newView(items), nil
}
