package product

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Orders and reviews keep their own copies or
// bare ids, so deleting a product never rewrites history.
type Product struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	ImageURL    string          `json:"imageUrl"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Filter narrows a catalog listing. Empty fields match everything.
type Filter struct {
	Category string
	Query    string
}

// SeedProducts is the catalog used by the dev reset endpoint when no body is sent.
func SeedProducts() []Product {
	return []Product{
		{
			Name:        "Quantum Core Laptop",
			Price:       decimal.RequireFromString("1299"),
			Description: `Experience blazing-fast performance with the new Quantum Core processor. Perfect for gaming, content creation, and everyday tasks. Features a stunning 15.6" 4K display.`,
			Category:    "Electronics",
			ImageURL:    "/img/quantum-core-laptop.webp",
		},
		{
			Name:        "Acoustic Bliss Headphones",
			Price:       decimal.RequireFromString("199"),
			Description: "Immerse yourself in pure sound with these noise-cancelling over-ear headphones. Crystal-clear highs and deep, rich bass. 30-hour battery life.",
			Category:    "Electronics",
			ImageURL:    "/img/acoustic-bliss-headphones.jpg",
		},
		{
			Name:        "Smart Home Hub",
			Price:       decimal.RequireFromString("89.99"),
			Description: "The central command for your smart home. Control lights, thermostats, and more with your voice. Compatible with all major smart device brands.",
			Category:    "Electronics",
			ImageURL:    "/img/smart-home-hub.jpg",
		},
		{
			Name:        "The Alchemist's Secret",
			Price:       decimal.RequireFromString("14.99"),
			Description: "A thrilling mystery novel that will keep you on the edge of your seat. Follow the protagonist as they unravel a centuries-old conspiracy.",
			Category:    "Books",
			ImageURL:    "/img/the-alchemists-secret.jpg",
		},
		{
			Name:        "Modernist Coffee Table",
			Price:       decimal.RequireFromString("349.00"),
			Description: "A sleek and stylish addition to any living room. Made from sustainably sourced oak with a minimalist design.",
			Category:    "Home Goods",
			ImageURL:    "/img/modernist-coffee-table.jpg",
		},
		{
			Name:        "Ergo-Comfort Office Chair",
			Price:       decimal.RequireFromString("275.50"),
			Description: "Support your back and improve your posture with this ergonomic office chair. Fully adjustable to fit your body perfectly.",
			Category:    "Home Goods",
			ImageURL:    "/img/ergo-comfort-office-chair.webp",
		},
		{
			Name:        "Gourmet Coffee Beans",
			Price:       decimal.RequireFromString("22.95"),
			Description: "A 12oz bag of single-origin, medium-roast Arabica coffee beans from the highlands of Colombia. Notes of chocolate and citrus.",
			Category:    "Groceries",
			ImageURL:    "/img/gourmet-coffee-beans.jpg",
		},
		{
			Name:        "Organic Green Tea",
			Price:       decimal.RequireFromString("15.00"),
			Description: "A box of 50 premium organic Sencha green tea bags. A delicate and refreshing taste, packed with antioxidants.",
			Category:    "Groceries",
			ImageURL:    "/img/organic-green-tea.webp",
		},
	}
}
