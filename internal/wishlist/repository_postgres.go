package wishlist

import (
	"database/sql"

	"github.com/lib/pq"
	"github.com/pkg/errors"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	listWishlistQuery = `SELECT wishlist FROM users WHERE id = $1`
	addWishlistQuery  = `
		UPDATE users
		SET wishlist = array_append(wishlist, $2), updated_at = now()
		WHERE id = $1 AND NOT ($2 = ANY(wishlist))
		RETURNING wishlist
	`
	removeWishlistQuery = `
		UPDATE users
		SET wishlist = array_remove(wishlist, $2), updated_at = now()
		WHERE id = $1 AND $2 = ANY(wishlist)
		RETURNING wishlist
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(userID int) ([]int, error) {
	var arr pq.Int64Array
	if err := r.db.QueryRow(listWishlistQuery, userID).Scan(&arr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "load wishlist")
	}
	return toInts(arr), nil
}

func (r *PostgresRepository) Add(userID, productID int) ([]int, error) {
	var arr pq.Int64Array
	err := r.db.QueryRow(addWishlistQuery, userID, productID).Scan(&arr)
	if errors.Is(err, sql.ErrNoRows) {
		// either the user is gone or the product is already listed
		if _, err := r.List(userID); err != nil {
			return nil, err
		}
		return nil, ErrAlreadyListed
	}
	if err != nil {
		return nil, errors.Wrap(err, "add to wishlist")
	}
	return toInts(arr), nil
}

func (r *PostgresRepository) Remove(userID, productID int) ([]int, error) {
	var arr pq.Int64Array
	err := r.db.QueryRow(removeWishlistQuery, userID, productID).Scan(&arr)
	if errors.Is(err, sql.ErrNoRows) {
		if _, err := r.List(userID); err != nil {
			return nil, err
		}
		return nil, ErrNotListed
	}
	if err != nil {
		return nil, errors.Wrap(err, "remove from wishlist")
	}
	return toInts(arr), nil
}

func toInts(arr pq.Int64Array) []int {
	out := make([]int, 0, len(arr))
	for _, v := range arr {
		out = append(out, int(v))
	}
	return out
}
