package cart

import "sync"

// Repository loads and stores a user's cart as a whole.
type Repository interface {
	GetCart(userID int) (Cart, error)
	SaveCart(userID int, c Cart) error
}

// InMemoryRepository keeps carts per user id; an unknown user has an empty cart.
type InMemoryRepository struct {
	mu    sync.RWMutex
	carts map[int]Cart
}

func NewInMemoryRepository(seed map[int]Cart) *InMemoryRepository {
	r := &InMemoryRepository{carts: make(map[int]Cart, len(seed))}
	for userID, c := range seed {
		r.carts[userID] = copyCart(c)
	}
	return r
}

func (r *InMemoryRepository) GetCart(userID int) (Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return copyCart(r.carts[userID]), nil
}

func (r *InMemoryRepository) SaveCart(userID int, c Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts[userID] = copyCart(c)
	return nil
}

func copyCart(c Cart) Cart {
	lines := make([]Line, len(c.Lines))
	copy(lines, c.Lines)
	return Cart{Lines: lines}
}
