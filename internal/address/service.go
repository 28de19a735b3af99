package address

import "strings"

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetAddresses(userID int) ([]Address, error) {
	if userID <= 0 {
		return nil, ErrNotFound
	}
	return s.repo.GetAddresses(userID)
}

func (s *Service) GetAddress(userID, addressID int) (Address, error) {
	if userID <= 0 || addressID <= 0 {
		return Address{}, ErrNotFound
	}
	return s.repo.GetAddress(userID, addressID)
}

// AddAddress stores a new address. The first address a user saves becomes
// the default.
func (s *Service) AddAddress(userID int, a Address) (Address, error) {
	if userID <= 0 {
		return Address{}, ErrNotFound
	}
	if err := validate(a); err != nil {
		return Address{}, err
	}
	existing, err := s.repo.GetAddresses(userID)
	if err != nil {
		return Address{}, err
	}
	if len(existing) == 0 {
		a.IsDefault = true
	}
	return s.repo.AddAddress(userID, a)
}

func (s *Service) UpdateAddress(userID, addressID int, a Address) (Address, error) {
	if userID <= 0 || addressID <= 0 {
		return Address{}, ErrNotFound
	}
	if err := validate(a); err != nil {
		return Address{}, err
	}
	a.ID = addressID
	return s.repo.UpdateAddress(userID, a)
}

func (s *Service) DeleteAddress(userID, addressID int) error {
	if userID <= 0 || addressID <= 0 {
		return ErrNotFound
	}
	return s.repo.DeleteAddress(userID, addressID)
}

func (s *Service) SetDefault(userID, addressID int) error {
	if userID <= 0 || addressID <= 0 {
		return ErrNotFound
	}
	return s.repo.SetDefault(userID, addressID)
}

// ReplaceAddresses swaps the whole address book for list. Duplicate default
// flags are collapsed onto the first one.
func (s *Service) ReplaceAddresses(userID int, list []Address) ([]Address, error) {
	if userID <= 0 {
		return nil, ErrNotFound
	}
	if err := ValidateAll(list); err != nil {
		return nil, err
	}
	return s.repo.ReplaceAddresses(userID, NormalizeDefaults(list))
}

// ValidateAll checks every address of a replacement list without storing it.
func ValidateAll(list []Address) error {
	for _, a := range list {
		if err := validate(a); err != nil {
			return err
		}
	}
	return nil
}

func validate(a Address) error {
	if strings.TrimSpace(a.Street) == "" || strings.TrimSpace(a.FullName) == "" {
		return ErrInvalidAddress
	}
	return nil
}
