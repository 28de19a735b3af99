package address

import (
	"database/sql"

	"github.com/pkg/errors"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	addressColumns = `id, user_id, label, full_name, phone, street, city, state, postal_code, country, is_default`

	listAddressesQuery = `SELECT ` + addressColumns + ` FROM addresses WHERE user_id = $1 ORDER BY id`
	getAddressQuery    = `SELECT ` + addressColumns + ` FROM addresses WHERE user_id = $1 AND id = $2`
	insertAddressQuery = `
		INSERT INTO addresses (user_id, label, full_name, phone, street, city, state, postal_code, country, is_default)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	updateAddressQuery = `
		UPDATE addresses
		SET label = $3, full_name = $4, phone = $5, street = $6, city = $7,
			state = $8, postal_code = $9, country = $10, is_default = $11
		WHERE user_id = $1 AND id = $2
	`
	clearDefaultQuery  = `UPDATE addresses SET is_default = false WHERE user_id = $1 AND is_default AND id <> $2`
	setDefaultQuery    = `UPDATE addresses SET is_default = true WHERE user_id = $1 AND id = $2`
	deleteAddressQuery = `DELETE FROM addresses WHERE user_id = $1 AND id = $2`
	deleteAllUserQuery = `DELETE FROM addresses WHERE user_id = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetAddresses(userID int) ([]Address, error) {
	rows, err := r.db.Query(listAddressesQuery, userID)
	if err != nil {
		return nil, errors.Wrap(err, "list addresses")
	}
	defer rows.Close()

	out := make([]Address, 0)
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan address")
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetAddress(userID, addressID int) (Address, error) {
	a, err := scanAddress(r.db.QueryRow(getAddressQuery, userID, addressID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Address{}, ErrNotFound
		}
		return Address{}, errors.Wrap(err, "get address")
	}
	return a, nil
}

func (r *PostgresRepository) AddAddress(userID int, a Address) (Address, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return Address{}, errors.Wrap(err, "begin add address")
	}
	defer tx.Rollback()

	if a.IsDefault {
		if _, err := tx.Exec(clearDefaultQuery, userID, 0); err != nil {
			return Address{}, errors.Wrap(err, "clear default address")
		}
	}
	a.UserID = userID
	if err := insertAddress(tx, &a); err != nil {
		return Address{}, err
	}
	if err := tx.Commit(); err != nil {
		return Address{}, errors.Wrap(err, "commit add address")
	}
	return a, nil
}

func (r *PostgresRepository) UpdateAddress(userID int, a Address) (Address, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return Address{}, errors.Wrap(err, "begin update address")
	}
	defer tx.Rollback()

	if a.IsDefault {
		if _, err := tx.Exec(clearDefaultQuery, userID, a.ID); err != nil {
			return Address{}, errors.Wrap(err, "clear default address")
		}
	}
	result, err := tx.Exec(updateAddressQuery, userID, a.ID, a.Label, a.FullName, a.Phone, a.Street, a.City, a.State, a.PostalCode, a.Country, a.IsDefault)
	if err != nil {
		return Address{}, errors.Wrap(err, "update address")
	}
	if affected, err := result.RowsAffected(); err != nil {
		return Address{}, err
	} else if affected == 0 {
		return Address{}, ErrNotFound
	}
	if err := tx.Commit(); err != nil {
		return Address{}, errors.Wrap(err, "commit update address")
	}
	a.UserID = userID
	return a, nil
}

func (r *PostgresRepository) DeleteAddress(userID, addressID int) error {
	result, err := r.db.Exec(deleteAddressQuery, userID, addressID)
	if err != nil {
		return errors.Wrap(err, "delete address")
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

// SetDefault clears the old default before flagging the new one so the
// partial unique index on (user_id) WHERE is_default never sees two rows.
func (r *PostgresRepository) SetDefault(userID, addressID int) error {
	tx, err := r.db.Begin()
	if err != nil {
		return errors.Wrap(err, "begin set default")
	}
	defer tx.Rollback()

	if _, err := tx.Exec(clearDefaultQuery, userID, addressID); err != nil {
		return errors.Wrap(err, "clear default address")
	}
	result, err := tx.Exec(setDefaultQuery, userID, addressID)
	if err != nil {
		return errors.Wrap(err, "set default address")
	}
	if affected, err := result.RowsAffected(); err != nil {
		return err
	} else if affected == 0 {
		return ErrNotFound
	}
	return errors.Wrap(tx.Commit(), "commit set default")
}

func (r *PostgresRepository) ReplaceAddresses(userID int, list []Address) ([]Address, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, errors.Wrap(err, "begin replace addresses")
	}
	defer tx.Rollback()

	if _, err := tx.Exec(deleteAllUserQuery, userID); err != nil {
		return nil, errors.Wrap(err, "delete addresses")
	}
	out := make([]Address, 0, len(list))
	for _, a := range list {
		a.UserID = userID
		if err := insertAddress(tx, &a); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "commit replace addresses")
	}
	return out, nil
}

func insertAddress(tx *sql.Tx, a *Address) error {
	err := tx.QueryRow(insertAddressQuery, a.UserID, a.Label, a.FullName, a.Phone, a.Street, a.City, a.State, a.PostalCode, a.Country, a.IsDefault).Scan(&a.ID)
	return errors.Wrap(err, "insert address")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAddress(scanner rowScanner) (Address, error) {
	var a Address
	err := scanner.Scan(&a.ID, &a.UserID, &a.Label, &a.FullName, &a.Phone, &a.Street, &a.City, &a.State, &a.PostalCode, &a.Country, &a.IsDefault)
	return a, err
}
