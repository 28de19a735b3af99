package review

import (
	"database/sql"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
)

const uniqueViolation = "23505"

type PostgresRepository struct {
	db *sql.DB
}

const (
	insertReviewQuery = `
		INSERT INTO reviews (id, product_id, user_id, user_name, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	listReviewsQuery = `
		SELECT id, product_id, user_id, user_name, rating, comment, created_at
		FROM reviews
		WHERE product_id = $1
		ORDER BY created_at DESC
	`
	reviewExistsQuery = `SELECT EXISTS (SELECT 1 FROM reviews WHERE product_id = $1 AND user_id = $2)`
	ratingsQuery      = `SELECT product_id, rating FROM reviews`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Add(rv Review) (Review, error) {
	_, err := r.db.Exec(insertReviewQuery, rv.ID, rv.ProductID, rv.UserID, rv.UserName, rv.Rating, rv.Comment, rv.Date)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Review{}, ErrAlreadyReviewed
		}
		return Review{}, errors.Wrap(err, "insert review")
	}
	return rv, nil
}

func (r *PostgresRepository) ForProduct(productID int) ([]Review, error) {
	rows, err := r.db.Query(listReviewsQuery, productID)
	if err != nil {
		return nil, errors.Wrap(err, "list reviews")
	}
	defer rows.Close()

	out := make([]Review, 0)
	for rows.Next() {
		var (
			rv      Review
			comment sql.NullString
		)
		if err := rows.Scan(&rv.ID, &rv.ProductID, &rv.UserID, &rv.UserName, &rv.Rating, &comment, &rv.Date); err != nil {
			return nil, errors.Wrap(err, "scan review")
		}
		rv.Comment = comment.String
		out = append(out, rv)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Exists(productID, userID int) (bool, error) {
	var ok bool
	if err := r.db.QueryRow(reviewExistsQuery, productID, userID).Scan(&ok); err != nil {
		return false, errors.Wrap(err, "check review")
	}
	return ok, nil
}

func (r *PostgresRepository) Ratings() (map[int][]float64, error) {
	rows, err := r.db.Query(ratingsQuery)
	if err != nil {
		return nil, errors.Wrap(err, "list ratings")
	}
	defer rows.Close()

	out := make(map[int][]float64)
	for rows.Next() {
		var productID, rating int
		if err := rows.Scan(&productID, &rating); err != nil {
			return nil, errors.Wrap(err, "scan rating")
		}
		out[productID] = append(out[productID], float64(rating))
	}
	return out, rows.Err()
}
