package review

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestPostgresAdd_UniqueViolation(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectExec("INSERT INTO reviews").WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err = repo.Add(Review{ID: "REV-1", ProductID: 2, UserID: 7, UserName: "Alice", Rating: 5, Date: time.Now()})
	if err != ErrAlreadyReviewed {
		t.Fatalf("expected ErrAlreadyReviewed, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresForProduct(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "product_id", "user_id", "user_name", "rating", "comment", "created_at"}).
		AddRow("REV-2", 2, 8, "Bob", 3, nil, now).
		AddRow("REV-1", 2, 7, "Alice", 5, "great", now.Add(-time.Hour))
	mock.ExpectQuery("FROM reviews").WithArgs(2).WillReturnRows(rows)

	reviews, err := repo.ForProduct(2)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(reviews) != 2 || reviews[0].ID != "REV-2" || reviews[0].Comment != "" || reviews[1].Comment != "great" {
		t.Fatalf("unexpected reviews %+v", reviews)
	}
}

func TestPostgresRatings(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("SELECT product_id, rating FROM reviews").WillReturnRows(
		sqlmock.NewRows([]string{"product_id", "rating"}).AddRow(1, 4).AddRow(1, 2).AddRow(3, 5))

	ratings, err := repo.Ratings()
	if err != nil {
		t.Fatalf("ratings failed: %v", err)
	}
	if len(ratings[1]) != 2 || ratings[3][0] != 5 {
		t.Fatalf("unexpected ratings %v", ratings)
	}
}
