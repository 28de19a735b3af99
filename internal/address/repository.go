package address

import (
	"errors"
	"sync"
)

var (
	ErrNotFound       = errors.New("address not found")
	ErrInvalidAddress = errors.New("street and fullName are required")
)

// Repository persists addresses. Implementations clear the previous default
// in the same write that stores a new default.
type Repository interface {
	GetAddresses(userID int) ([]Address, error)
	GetAddress(userID, addressID int) (Address, error)
	AddAddress(userID int, a Address) (Address, error)
	UpdateAddress(userID int, a Address) (Address, error)
	DeleteAddress(userID, addressID int) error
	SetDefault(userID, addressID int) error
	ReplaceAddresses(userID int, list []Address) ([]Address, error)
}

type InMemoryRepository struct {
	mu     sync.RWMutex
	data   map[int][]Address
	nextID int
}

func NewInMemoryRepository(seed map[int][]Address) *InMemoryRepository {
	r := &InMemoryRepository{data: make(map[int][]Address), nextID: 1}
	for userID, list := range seed {
		for _, a := range list {
			a.UserID = userID
			if a.ID >= r.nextID {
				r.nextID = a.ID + 1
			}
			r.data[userID] = append(r.data[userID], a)
		}
	}
	return r
}

func (r *InMemoryRepository) GetAddresses(userID int) ([]Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Address, len(r.data[userID]))
	copy(out, r.data[userID])
	return out, nil
}

func (r *InMemoryRepository) GetAddress(userID, addressID int) (Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.data[userID] {
		if a.ID == addressID {
			return a, nil
		}
	}
	return Address{}, ErrNotFound
}

func (r *InMemoryRepository) AddAddress(userID int, a Address) (Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.ID = r.nextID
	a.UserID = userID
	r.nextID++
	if a.IsDefault {
		r.clearDefaultLocked(userID, 0)
	}
	r.data[userID] = append(r.data[userID], a)
	return a, nil
}

func (r *InMemoryRepository) UpdateAddress(userID int, a Address) (Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.data[userID]
	for i := range list {
		if list[i].ID == a.ID {
			if a.IsDefault {
				r.clearDefaultLocked(userID, a.ID)
			}
			a.UserID = userID
			list[i] = a
			return a, nil
		}
	}
	return Address{}, ErrNotFound
}

func (r *InMemoryRepository) DeleteAddress(userID, addressID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.data[userID]
	for i, a := range list {
		if a.ID == addressID {
			r.data[userID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *InMemoryRepository) SetDefault(userID, addressID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.data[userID]
	found := false
	for _, a := range list {
		if a.ID == addressID {
			found = true
			break
		}
	}
	if !found {
		return ErrNotFound
	}
	for i := range list {
		list[i].IsDefault = list[i].ID == addressID
	}
	return nil
}

func (r *InMemoryRepository) ReplaceAddresses(userID int, list []Address) ([]Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Address, 0, len(list))
	for _, a := range list {
		a.ID = r.nextID
		a.UserID = userID
		r.nextID++
		out = append(out, a)
	}
	r.data[userID] = out

	res := make([]Address, len(out))
	copy(res, out)
	return res, nil
}

func (r *InMemoryRepository) clearDefaultLocked(userID, except int) {
	list := r.data[userID]
	for i := range list {
		if list[i].ID != except {
			list[i].IsDefault = false
		}
	}
}
