package cart

import (
	"errors"

	"github.com/shopspring/decimal"
	"github.com/wichananm65/storefront/internal/product"
)

var (
	ErrNotFound        = errors.New("user not found")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

// Line is one stored cart row. A cart holds at most one line per product.
type Line struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

// Cart keeps lines in insertion order for display.
type Cart struct {
	Lines []Line `json:"lines"`
}

// Add merges qty into the existing line for productID or appends a new one.
func (c *Cart) Add(productID, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines[i].Quantity += qty
			return nil
		}
	}
	c.Lines = append(c.Lines, Line{ProductID: productID, Quantity: qty})
	return nil
}

// UpdateQuantity sets the quantity of an existing line. A quantity of zero or
// less removes the line. Unknown products are ignored.
func (c *Cart) UpdateQuantity(productID, qty int) {
	if qty <= 0 {
		c.Remove(productID)
		return
	}
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines[i].Quantity = qty
			return
		}
	}
}

func (c *Cart) Remove(productID int) {
	out := c.Lines[:0]
	for _, l := range c.Lines {
		if l.ProductID != productID {
			out = append(out, l)
		}
	}
	c.Lines = out
}

func (c *Cart) Clear() {
	c.Lines = nil
}

func (c Cart) Quantity(productID int) int {
	for _, l := range c.Lines {
		if l.ProductID == productID {
			return l.Quantity
		}
	}
	return 0
}

func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Item is a product snapshot plus the quantity in the cart. Orders store
// these snapshots verbatim.
type Item struct {
	product.Product
	Quantity int `json:"quantity"`
}

func (i Item) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// View is the priced cart returned to clients.
type View struct {
	Items []Item          `json:"items"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// Total sums price times quantity over items.
func Total(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal())
	}
	return total
}

func newView(items []Item) View {
	count := 0
	for _, it := range items {
		count += it.Quantity
	}
	return View{Items: items, Count: count, Total: Total(items)}
}
