package cart

import (
	"database/sql"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// PostgresRepository stores the cart as a JSON array on the users row.
type PostgresRepository struct {
	db *sql.DB
}

const (
	getCartQuery  = `SELECT cart FROM users WHERE id = $1`
	saveCartQuery = `UPDATE users SET cart = $2::jsonb, updated_at = now() WHERE id = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetCart(userID int) (Cart, error) {
	var raw sql.NullString
	if err := r.db.QueryRow(getCartQuery, userID).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Cart{}, ErrNotFound
		}
		return Cart{}, errors.Wrap(err, "load cart")
	}
	if !raw.Valid || raw.String == "" {
		return Cart{}, nil
	}
	return decodeCart([]byte(raw.String))
}

func (r *PostgresRepository) SaveCart(userID int, c Cart) error {
	lines := c.Lines
	if lines == nil {
		lines = []Line{}
	}
	payload, err := json.Marshal(lines)
	if err != nil {
		return errors.Wrap(err, "encode cart")
	}

	result, err := r.db.Exec(saveCartQuery, userID, string(payload))
	if err != nil {
		return errors.Wrap(err, "save cart")
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

// decodeCart reads the stored line array. Every line must name a product.
func decodeCart(raw []byte) (Cart, error) {
	var lines []Line
	if err := json.Unmarshal(raw, &lines); err != nil {
		return Cart{}, errors.Wrap(err, "decode cart")
	}
	for _, l := range lines {
		if l.ProductID <= 0 {
			return Cart{}, errors.Errorf("decode cart: invalid product id %d", l.ProductID)
		}
	}
	if len(lines) == 0 {
		return Cart{}, nil
	}
	return Cart{Lines: lines}, nil
}
