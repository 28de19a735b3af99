package order

import (
	"context"
	"database/sql"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/wichananm65/storefront/internal/cart"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type PostgresRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

const (
	orderColumns = `id, user_id, created_at, items, subtotal, tax, total_amount, status, payment_ref`

	insertOrderQuery = `
		INSERT INTO orders (id, user_id, created_at, items, subtotal, tax, total_amount, status, payment_ref)
		VALUES ($1, $2, $3, $4::jsonb, $5, $6, $7, $8, '')
	`
	setPaymentRefQuery = `UPDATE orders SET payment_ref = $2 WHERE id = $1`
	clearCartQuery     = `UPDATE users SET cart = '[]'::jsonb, updated_at = now() WHERE id = $1`

	listOrdersByUserQuery = `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`
	listOrdersQuery       = `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`
	getOrderQuery         = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	updateStatusQuery = `UPDATE orders SET status = $3 WHERE id = $1 AND status = $2`
	orderExistsQuery  = `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`
	deleteOrderQuery  = `DELETE FROM orders WHERE id = $1`

	hasPurchasedQuery = `
		SELECT EXISTS (
			SELECT 1
			FROM orders o, jsonb_array_elements(o.items) it
			WHERE o.user_id = $1 AND (it->>'id')::int = $2
		)
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Place inserts the order, charges it and clears the owner's cart inside a
// single transaction. A failed charge rolls everything back.
func (r *PostgresRepository) Place(ctx context.Context, o Order, charge ChargeFunc) (Order, error) {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return Order{}, errors.Wrap(err, "encode order items")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Order{}, errors.Wrap(err, "begin checkout")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, insertOrderQuery, o.ID, o.UserID, o.Date, string(items), o.Subtotal, o.Tax, o.TotalAmount, o.Status); err != nil {
		return Order{}, errors.Wrap(err, "insert order")
	}

	ref, err := charge(ctx)
	if err != nil {
		return Order{}, err
	}
	o.PaymentRef = ref

	if _, err := tx.ExecContext(ctx, setPaymentRefQuery, o.ID, ref); err != nil {
		return Order{}, errors.Wrap(err, "record payment")
	}
	if _, err := tx.ExecContext(ctx, clearCartQuery, o.UserID); err != nil {
		return Order{}, errors.Wrap(err, "clear cart")
	}
	if err := tx.Commit(); err != nil {
		return Order{}, errors.Wrap(err, "commit checkout")
	}
	return o, nil
}

func (r *PostgresRepository) ListByUser(userID int) ([]Order, error) {
	return r.list(listOrdersByUserQuery, userID)
}

func (r *PostgresRepository) List() ([]Order, error) {
	return r.list(listOrdersQuery)
}

func (r *PostgresRepository) list(query string, args ...any) ([]Order, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	defer rows.Close()

	out := make([]Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan order")
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetByID(id string) (Order, error) {
	o, err := scanOrder(r.db.QueryRow(getOrderQuery, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Order{}, ErrNotFound
		}
		return Order{}, errors.Wrapf(err, "get order %s", id)
	}
	return o, nil
}

// UpdateStatus only succeeds while the stored status still equals from, so
// two concurrent advances cannot both apply.
func (r *PostgresRepository) UpdateStatus(id string, from, to Status) (Order, error) {
	result, err := r.db.Exec(updateStatusQuery, id, from, to)
	if err != nil {
		return Order{}, errors.Wrapf(err, "update order %s", id)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return Order{}, err
	}
	if affected == 0 {
		var exists bool
		if err := r.db.QueryRow(orderExistsQuery, id).Scan(&exists); err != nil {
			return Order{}, errors.Wrapf(err, "check order %s", id)
		}
		if !exists {
			return Order{}, ErrNotFound
		}
		return Order{}, ErrInvalidTransition
	}
	return r.GetByID(id)
}

func (r *PostgresRepository) Delete(id string) error {
	result, err := r.db.Exec(deleteOrderQuery, id)
	if err != nil {
		return errors.Wrapf(err, "delete order %s", id)
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

func (r *PostgresRepository) HasPurchased(userID, productID int) (bool, error) {
	var ok bool
	if err := r.db.QueryRow(hasPurchasedQuery, userID, productID).Scan(&ok); err != nil {
		return false, errors.Wrap(err, "check purchase")
	}
	return ok, nil
}

func scanOrder(scanner rowScanner) (Order, error) {
	var (
		o     Order
		items []byte
		ref   sql.NullString
	)
	if err := scanner.Scan(&o.ID, &o.UserID, &o.Date, &items, &o.Subtotal, &o.Tax, &o.TotalAmount, &o.Status, &ref); err != nil {
		return Order{}, err
	}
	o.PaymentRef = ref.String
	o.Items = make([]cart.Item, 0)
	if len(items) > 0 {
		if err := json.Unmarshal(items, &o.Items); err != nil {
			return Order{}, errors.Wrap(err, "decode order items")
		}
	}
	return o, nil
}
