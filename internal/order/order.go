package order

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/wichananm65/storefront/internal/cart"
)

type Status string

const (
	StatusProcessing Status = "Processing"
	StatusShipped    Status = "Shipped"
	StatusDelivered  Status = "Delivered"
)

var statusRank = map[Status]int{
	StatusProcessing: 0,
	StatusShipped:    1,
	StatusDelivered:  2,
}

func (s Status) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// CanAdvanceTo reports whether next lies strictly after s in the
// Processing, Shipped, Delivered sequence.
func (s Status) CanAdvanceTo(next Status) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	return statusRank[next] > statusRank[s]
}

// Order is an immutable snapshot of a checked-out cart. Only Status changes
// after creation.
type Order struct {
	ID          string          `json:"id"`
	UserID      int             `json:"userId"`
	Date        time.Time       `json:"date"`
	Items       []cart.Item     `json:"items"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Tax         decimal.Decimal `json:"tax"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Status      Status          `json:"status"`
	PaymentRef  string          `json:"paymentRef,omitempty"`
}

func (o Order) Contains(productID int) bool {
	for _, it := range o.Items {
		if it.ID == productID {
			return true
		}
	}
	return false
}
