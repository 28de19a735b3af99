package user

import (
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// ResetStore keeps password reset tokens by their sha256 hash. A token can
// be consumed once, and only before it expires.
type ResetStore interface {
	Save(tokenHash string, userID int, expires time.Time) error
	// Consume marks the token used and returns its user, or
	// ErrInvalidResetToken.
	Consume(tokenHash string, now time.Time) (int, error)
	// Purge drops expired and used tokens.
	Purge(now time.Time) (int, error)
}

func newResetToken() (raw, hash string, err error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", "", errors.Wrap(err, "generate reset token")
	}
	raw = hex.EncodeToString(buf)
	return raw, hashToken(raw), nil
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

type resetEntry struct {
	userID  int
	expires time.Time
	used    bool
}

type InMemoryResetStore struct {
	mu     sync.Mutex
	tokens map[string]resetEntry
}

func NewInMemoryResetStore() *InMemoryResetStore {
	return &InMemoryResetStore{tokens: make(map[string]resetEntry)}
}

func (s *InMemoryResetStore) Save(tokenHash string, userID int, expires time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[tokenHash] = resetEntry{userID: userID, expires: expires}
	return nil
}

func (s *InMemoryResetStore) Consume(tokenHash string, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.tokens[tokenHash]
	if !ok || e.used || !now.Before(e.expires) {
		return 0, ErrInvalidResetToken
	}
	e.used = true
	s.tokens[tokenHash] = e
	return e.userID, nil
}

func (s *InMemoryResetStore) Purge(now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for k, e := range s.tokens {
		if e.used || !now.Before(e.expires) {
			delete(s.tokens, k)
			n++
		}
	}
	return n, nil
}

type PostgresResetStore struct {
	db *sql.DB
}

const (
	insertResetQuery  = `INSERT INTO password_resets (token_hash, user_id, expires_at) VALUES ($1, $2, $3)`
	consumeResetQuery = `
		UPDATE password_resets
		SET used_at = $2
		WHERE token_hash = $1 AND used_at IS NULL AND expires_at > $2
		RETURNING user_id
	`
	purgeResetsQuery = `DELETE FROM password_resets WHERE used_at IS NOT NULL OR expires_at <= $1`
)

func NewPostgresResetStore(db *sql.DB) *PostgresResetStore {
	return &PostgresResetStore{db: db}
}

func (s *PostgresResetStore) Save(tokenHash string, userID int, expires time.Time) error {
	_, err := s.db.Exec(insertResetQuery, tokenHash, userID, expires)
	return errors.Wrap(err, "save reset token")
}

func (s *PostgresResetStore) Consume(tokenHash string, now time.Time) (int, error) {
	var userID int
	if err := s.db.QueryRow(consumeResetQuery, tokenHash, now).Scan(&userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrInvalidResetToken
		}
		return 0, errors.Wrap(err, "consume reset token")
	}
	return userID, nil
}

func (s *PostgresResetStore) Purge(now time.Time) (int, error) {
	result, err := s.db.Exec(purgeResetsQuery, now)
	if err != nil {
		return 0, errors.Wrap(err, "purge reset tokens")
	}
	n, err := result.RowsAffected()
	return int(n), err
}
