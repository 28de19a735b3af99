package wishlist

import "sync"

// Repository stores a set of product ids per user.
type Repository interface {
	List(userID int) ([]int, error)
	Add(userID, productID int) ([]int, error)
	Remove(userID, productID int) ([]int, error)
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu    sync.RWMutex
	items map[int][]int
}

func NewInMemoryRepository(seed map[int][]int) *InMemoryRepository {
	r := &InMemoryRepository{items: make(map[int][]int, len(seed))}
	for userID, ids := range seed {
		r.items[userID] = append([]int(nil), ids...)
	}
	return r
}

func (r *InMemoryRepository) List(userID int) ([]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]int{}, r.items[userID]...), nil
}

func (r *InMemoryRepository) Add(userID, productID int) ([]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, pid := range r.items[userID] {
		if pid == productID {
			return nil, ErrAlreadyListed
		}
	}
	r.items[userID] = append(r.items[userID], productID)
	return append([]int{}, r.items[userID]...), nil
}

func (r *InMemoryRepository) Remove(userID, productID int) ([]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := r.items[userID]
	for i, pid := range ids {
		if pid == productID {
			r.items[userID] = append(ids[:i:i], ids[i+1:]...)
			return append([]int{}, r.items[userID]...), nil
		}
	}
	return nil, ErrNotListed
}
