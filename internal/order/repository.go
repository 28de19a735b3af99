package order

import (
	"context"
	"errors"
	"sort"
	"sync"
)

var (
	ErrNotFound          = errors.New("order not found")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrPaymentDeclined   = errors.New("payment was declined")
	ErrPaymentFailed     = errors.New("payment could not be processed")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidTransition = errors.New("order status can only move forward")
)

// ChargeFunc takes payment for an order being placed and returns the
// payment reference. A non-nil error aborts the placement.
type ChargeFunc func(ctx context.Context) (string, error)

type Repository interface {
	// Place stores o, runs charge and empties the user's cart as one unit.
	// If charge fails nothing is stored and the cart is untouched.
	Place(ctx context.Context, o Order, charge ChargeFunc) (Order, error)
	ListByUser(userID int) ([]Order, error)
	List() ([]Order, error)
	GetByID(id string) (Order, error)
	UpdateStatus(id string, from, to Status) (Order, error)
	Delete(id string) error
	HasPurchased(userID, productID int) (bool, error)
}

// CartClearer empties a cart once an in-memory order has been stored.
type CartClearer interface {
	ClearCart(userID int) error
}

type InMemoryRepository struct {
	mu     sync.RWMutex
	orders []Order
	carts  CartClearer
}

func NewInMemoryRepository(seed []Order, carts CartClearer) *InMemoryRepository {
	r := &InMemoryRepository{orders: make([]Order, 0, len(seed)), carts: carts}
	r.orders = append(r.orders, seed...)
	return r
}

func (r *InMemoryRepository) Place(ctx context.Context, o Order, charge ChargeFunc) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ref, err := charge(ctx)
	if err != nil {
		return Order{}, err
	}
	o.PaymentRef = ref
	if r.carts != nil {
		if err := r.carts.ClearCart(o.UserID); err != nil {
			return Order{}, err
		}
	}
	r.orders = append(r.orders, o)
	return o, nil
}

func (r *InMemoryRepository) ListByUser(userID int) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Order, 0)
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *InMemoryRepository) List() ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Order, len(r.orders))
	copy(out, r.orders)
	sortNewestFirst(out)
	return out, nil
}

func (r *InMemoryRepository) GetByID(id string) (Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, o := range r.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return Order{}, ErrNotFound
}

func (r *InMemoryRepository) UpdateStatus(id string, from, to Status) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, o := range r.orders {
		if o.ID == id {
			if o.Status != from {
				return Order{}, ErrInvalidTransition
			}
			r.orders[i].Status = to
			return r.orders[i], nil
		}
	}
	return Order{}, ErrNotFound
}

func (r *InMemoryRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, o := range r.orders {
		if o.ID == id {
			r.orders = append(r.orders[:i], r.orders[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *InMemoryRepository) HasPurchased(userID, productID int) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, o := range r.orders {
		if o.UserID == userID && o.Contains(productID) {
			return true, nil
		}
	}
	return false, nil
}

func sortNewestFirst(orders []Order) {
	sort.SliceStable(orders, func(i, j int) bool { return orders[i].Date.After(orders[j].Date) })
}
