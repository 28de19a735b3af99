package category

import (
	"database/sql"

	"github.com/pkg/errors"
)

// PostgresRepository implements Repository using Postgres.
type PostgresRepository struct {
	db *sql.DB
}

const listCategoriesQuery = `
	SELECT category, count(*)
	FROM products
	WHERE category <> ''
	GROUP BY category
	ORDER BY category
	LIMIT $1
`

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(limit int) ([]Category, error) {
	rows, err := r.db.Query(listCategoriesQuery, limit)
	if err != nil {
		return nil, errors.Wrap(err, "list categories")
	}
	defer rows.Close()

	out := make([]Category, 0)
	for rows.Next() {
		var item Category
		if err := rows.Scan(&item.Name, &item.ProductCount); err != nil {
			return nil, errors.Wrap(err, "scan category")
		}
		out = append(out, item)
	}
	return out, rows.Err()
}
