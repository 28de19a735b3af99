package product

import (
	"database/sql"
	"time"

	"github.com/pkg/errors"
)

type PostgresRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

const (
	listProductsQuery = `
		SELECT id, name, price, description, category, image_url, created_at, updated_at
		FROM products
		WHERE ($1 = '' OR lower(category) = lower($1))
		  AND ($2 = '' OR name ILIKE '%' || $2 || '%' OR description ILIKE '%' || $2 || '%')
		ORDER BY id
	`
	getProductByIDQuery = `
		SELECT id, name, price, description, category, image_url, created_at, updated_at
		FROM products
		WHERE id = $1
	`
	insertProductQuery = `
		INSERT INTO products (name, price, description, category, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	updateProductQuery = `
		UPDATE products
		SET name = $1,
			price = $2,
			description = $3,
			category = $4,
			image_url = $5,
			updated_at = $6
		WHERE id = $7
	`
	deleteProductQuery  = `DELETE FROM products WHERE id = $1`
	truncateProductsSQL = `TRUNCATE products RESTART IDENTITY`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(f Filter) ([]Product, error) {
	rows, err := r.db.Query(listProductsQuery, f.Category, f.Query)
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	defer rows.Close()

	out := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan product")
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetByID(id int) (Product, error) {
	p, err := scanProduct(r.db.QueryRow(getProductByIDQuery, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, errors.Wrapf(err, "get product %d", id)
	}
	return p, nil
}

func (r *PostgresRepository) Create(p Product) (Product, error) {
	if err := insertProduct(r.db, &p); err != nil {
		return Product{}, err
	}
	return p, nil
}

func (r *PostgresRepository) Update(id int, p Product) (Product, error) {
	result, err := r.db.Exec(updateProductQuery, p.Name, p.Price, p.Description, p.Category, p.ImageURL, p.UpdatedAt, id)
	if err != nil {
		return Product{}, errors.Wrapf(err, "update product %d", id)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return Product{}, err
	}
	if affected == 0 {
		return Product{}, ErrNotFound
	}
	return r.GetByID(id)
}

func (r *PostgresRepository) Delete(id int) error {
	result, err := r.db.Exec(deleteProductQuery, id)
	if err != nil {
		return errors.Wrapf(err, "delete product %d", id)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Reset deletes all products and inserts the provided list in a single transaction.
func (r *PostgresRepository) Reset(products []Product) ([]Product, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, errors.Wrap(err, "begin reset")
	}
	defer tx.Rollback()

	if _, err := tx.Exec(truncateProductsSQL); err != nil {
		return nil, errors.Wrap(err, "truncate products")
	}

	out := make([]Product, 0, len(products))
	for _, p := range products {
		if err := insertProduct(tx, &p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "commit reset")
	}
	return out, nil
}

type queryRower interface {
	QueryRow(query string, args ...any) *sql.Row
}

func insertProduct(q queryRower, p *Product) error {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = now
	}
	err := q.QueryRow(insertProductQuery, p.Name, p.Price, p.Description, p.Category, p.ImageURL, p.CreatedAt, p.UpdatedAt).Scan(&p.ID)
	return errors.Wrap(err, "insert product")
}

func scanProduct(scanner rowScanner) (Product, error) {
	p := Product{}
	var description, category, image sql.NullString
	if err := scanner.Scan(&p.ID, &p.Name, &p.Price, &description, &category, &image, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return Product{}, err
	}
	p.Description = description.String
	p.Category = category.String
	p.ImageURL = image.String
	return p, nil
}
