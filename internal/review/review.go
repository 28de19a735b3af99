package review

import (
	"errors"
	"time"
)

var (
	ErrUnauthenticated = errors.New("you must be logged in to leave a review")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
	ErrNotPurchased    = errors.New("you can only review products you have ordered")
	ErrAlreadyReviewed = errors.New("you have already reviewed this product")
)

const (
	MinRating = 1
	MaxRating = 5
)

// Review is append-only. ProductID is a bare id and survives product deletion.
type Review struct {
	ID        string    `json:"id"`
	ProductID int       `json:"productId"`
	UserID    int       `json:"userId"`
	UserName  string    `json:"userName"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	Date      time.Time `json:"date"`
}

// Summary is the aggregate shown next to a product. AverageRating is nil
// when the product has no reviews.
type Summary struct {
	AverageRating *float64 `json:"averageRating"`
	Count         int      `json:"count"`
}

// Eligibility tells the UI whether the review form should be offered.
type Eligibility struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}
