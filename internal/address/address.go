package address

// Address is a saved shipping address. A user has at most one default.
type Address struct {
	ID         int    `json:"id"`
	UserID     int    `json:"-"`
	Label      string `json:"label"`
	FullName   string `json:"fullName"`
	Phone      string `json:"phone"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	IsDefault  bool   `json:"isDefault"`
}

// NormalizeDefaults keeps the first address flagged as default and clears
// the flag on every other entry.
func NormalizeDefaults(list []Address) []Address {
	out := make([]Address, len(list))
	seen := false
	for i, a := range list {
		if a.IsDefault {
			if seen {
				a.IsDefault = false
			}
			seen = true
		}
		out[i] = a
	}
	return out
}
