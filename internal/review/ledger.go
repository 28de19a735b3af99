package review

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"
	"github.com/wichananm65/storefront/internal/session"
)

// PurchaseChecker answers whether a user has an order containing a product.
type PurchaseChecker interface {
	HasPurchased(userID, productID int) (bool, error)
}

// Names resolves a user's current display name.
type Names interface {
	DisplayName(userID int) (string, error)
}

// Ledger owns every review write. Eligibility rules are checked here rather
// than left to callers.
type Ledger struct {
	repo      Repository
	purchases PurchaseChecker
	names     Names
	now       func() time.Time
}

// NewLedger builds a ledger. When names is nil the reviewer name comes from
// the session.
func NewLedger(repo Repository, purchases PurchaseChecker, names Names) *Ledger {
	return &Ledger{
		repo:      repo,
		purchases: purchases,
		names:     names,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (l *Ledger) Add(sess session.Session, productID, rating int, comment string) (Review, error) {
	if sess.UserID <= 0 {
		return Review{}, ErrUnauthenticated
	}
	if rating < MinRating || rating > MaxRating {
		return Review{}, ErrInvalidRating
	}
	if err := l.check(sess.UserID, productID); err != nil {
		return Review{}, err
	}

	name, err := l.reviewerName(sess)
	if err != nil {
		return Review{}, err
	}
	return l.repo.Add(Review{
		ID:        "REV-" + uuid.NewString(),
		ProductID: productID,
		UserID:    sess.UserID,
		UserName:  name,
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
		Date:      l.now(),
	})
}

// reviewerName reads the name stored on the user record so a rename made
// after the token was issued is honoured.
func (l *Ledger) reviewerName(sess session.Session) (string, error) {
	name := sess.Name
	if l.names != nil {
		current, err := l.names.DisplayName(sess.UserID)
		if err != nil {
			return "", err
		}
		name = current
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = sess.Email
	}
	return name, nil
}

func (l *Ledger) Eligibility(sess session.Session, productID int) (Eligibility, error) {
	if sess.UserID <= 0 {
		return Eligibility{Reason: ErrUnauthenticated.Error()}, nil
	}
	err := l.check(sess.UserID, productID)
	switch err {
	case nil:
		return Eligibility{Allowed: true}, nil
	case ErrNotPurchased, ErrAlreadyReviewed:
		return Eligibility{Reason: err.Error()}, nil
	default:
		return Eligibility{}, err
	}
}

func (l *Ledger) check(userID, productID int) error {
	bought, err := l.purchases.HasPurchased(userID, productID)
	if err != nil {
		return err
	}
	if !bought {
		return ErrNotPurchased
	}
	done, err := l.repo.Exists(productID, userID)
	if err != nil {
		return err
	}
	if done {
		return ErrAlreadyReviewed
	}
	return nil
}

// ForProduct returns the product's reviews, newest first.
func (l *Ledger) ForProduct(productID int) ([]Review, error) {
	return l.repo.ForProduct(productID)
}

func (l *Ledger) Summary(productID int) (Summary, error) {
	reviews, err := l.repo.ForProduct(productID)
	if err != nil {
		return Summary{}, err
	}
	ratings := make([]float64, 0, len(reviews))
	for _, rv := range reviews {
		ratings = append(ratings, float64(rv.Rating))
	}
	return summarize(ratings), nil
}

// Averages returns the average rating of every reviewed product.
func (l *Ledger) Averages() (map[int]Summary, error) {
	all, err := l.repo.Ratings()
	if err != nil {
		return nil, err
	}
	out := make(map[int]Summary, len(all))
	for productID, ratings := range all {
		out[productID] = summarize(ratings)
	}
	return out, nil
}

func summarize(ratings []float64) Summary {
	s := Summary{Count: len(ratings)}
	mean, err := stats.Mean(ratings)
	if err != nil {
		return s
	}
	s.AverageRating = &mean
	return s
}
