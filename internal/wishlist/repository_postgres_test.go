package wishlist

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPostgresAdd_Duplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("array_append").WithArgs(3, 1).WillReturnRows(sqlmock.NewRows([]string{"wishlist"}))
	mock.ExpectQuery("SELECT wishlist FROM users").WithArgs(3).WillReturnRows(sqlmock.NewRows([]string{"wishlist"}).AddRow("{1}"))

	if _, err := repo.Add(3, 1); err != ErrAlreadyListed {
		t.Fatalf("expected ErrAlreadyListed, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresRemove_UnknownUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("array_remove").WithArgs(77, 1).WillReturnRows(sqlmock.NewRows([]string{"wishlist"}))
	mock.ExpectQuery("SELECT wishlist FROM users").WithArgs(77).WillReturnRows(sqlmock.NewRows([]string{"wishlist"}))

	if _, err := repo.Remove(77, 1); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresList(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("SELECT wishlist FROM users").WithArgs(3).WillReturnRows(sqlmock.NewRows([]string{"wishlist"}).AddRow("{4,2}"))
	ids, err := repo.List(3)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(ids) != 2 || ids[0] != 4 || ids[1] != 2 {
		t.Fatalf("unexpected ids %v", ids)
	}
}
