package product

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
)

var productColumns = []string{"id", "name", "price", "description", "category", "image_url", "created_at", "updated_at"}

func TestPostgresList_PassesFilter(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(productColumns).
		AddRow(1, "Quantum Core Laptop", "1299.00", "fast", "Electronics", "/img/q.webp", now, now).
		AddRow(3, "Smart Home Hub", "89.99", nil, "Electronics", nil, now, now)
	mock.ExpectQuery("FROM products").WithArgs("Electronics", "").WillReturnRows(rows)

	products, err := repo.List(Filter{Category: "Electronics"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
	if !products[1].Price.Equal(decimal.RequireFromString("89.99")) {
		t.Fatalf("unexpected price %s", products[1].Price)
	}
	if products[1].ImageURL != "" {
		t.Fatalf("null image should scan as empty string")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresGetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("FROM products").WithArgs(9).WillReturnRows(sqlmock.NewRows(productColumns))

	if _, err := repo.GetByID(9); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresReset_RollsBackOnInsertFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("TRUNCATE products").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("INSERT INTO products").WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	if _, err := repo.Reset(SeedProducts()[:1]); err == nil {
		t.Fatalf("expected reset error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresDelete_NoRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectExec("DELETE FROM products").WithArgs(5).WillReturnResult(sqlmock.NewResult(0, 0))
	if err := repo.Delete(5); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
