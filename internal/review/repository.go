package review

import (
	"sort"
	"sync"
)

type Repository interface {
	// Add stores r and returns ErrAlreadyReviewed when the user already
	// has a review for the product.
	Add(r Review) (Review, error)
	ForProduct(productID int) ([]Review, error)
	Exists(productID, userID int) (bool, error)
	// Ratings returns every stored rating keyed by product id.
	Ratings() (map[int][]float64, error)
}

type reviewKey struct {
	productID int
	userID    int
}

type InMemoryRepository struct {
	mu      sync.RWMutex
	reviews []Review
	seen    map[reviewKey]struct{}
}

func NewInMemoryRepository(seed []Review) *InMemoryRepository {
	r := &InMemoryRepository{seen: make(map[reviewKey]struct{}, len(seed))}
	for _, rv := range seed {
		r.reviews = append(r.reviews, rv)
		r.seen[reviewKey{rv.ProductID, rv.UserID}] = struct{}{}
	}
	return r
}

func (r *InMemoryRepository) Add(rv Review) (Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := reviewKey{rv.ProductID, rv.UserID}
	if _, ok := r.seen[k]; ok {
		return Review{}, ErrAlreadyReviewed
	}
	r.seen[k] = struct{}{}
	r.reviews = append(r.reviews, rv)
	return rv, nil
}

func (r *InMemoryRepository) ForProduct(productID int) ([]Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Review, 0)
	for _, rv := range r.reviews {
		if rv.ProductID == productID {
			out = append(out, rv)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r *InMemoryRepository) Exists(productID, userID int) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.seen[reviewKey{productID, userID}]
	return ok, nil
}

func (r *InMemoryRepository) Ratings() (map[int][]float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[int][]float64)
	for _, rv := range r.reviews {
		out[rv.ProductID] = append(out[rv.ProductID], float64(rv.Rating))
	}
	return out, nil
}
