package category

// Category is one distinct product category and how many products carry it.
type Category struct {
	Name         string `json:"name"`
	ProductCount int    `json:"productCount"`
}
