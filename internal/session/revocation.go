package session

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

// RevocationStore remembers logged-out token ids until the token would have
// expired anyway.
type RevocationStore interface {
	Revoke(tokenID string, until time.Time) error
	IsRevoked(tokenID string) (bool, error)
	Purge(now time.Time) (int, error)
}

type MemoryRevocations struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
}

func NewMemoryRevocations() *MemoryRevocations {
	return &MemoryRevocations{revoked: make(map[string]time.Time)}
}

func (m *MemoryRevocations) Revoke(tokenID string, until time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[tokenID] = until
	return nil
}

func (m *MemoryRevocations) IsRevoked(tokenID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.revoked[tokenID]
	return ok, nil
}

func (m *MemoryRevocations) Purge(now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, until := range m.revoked {
		if !until.After(now) {
			delete(m.revoked, id)
			n++
		}
	}
	return n, nil
}

var revokedBucket = []byte("revoked")

// BoltRevocations keeps the revocation list in a bbolt file so logouts
// survive a restart.
type BoltRevocations struct {
	db *bolt.DB
}

func OpenBoltRevocations(path string) (*BoltRevocations, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, "create session store dir")
		}
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrap(err, "open session store")
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(revokedBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "init session store")
	}
	return &BoltRevocations{db: db}, nil
}

func (b *BoltRevocations) Close() error {
	return b.db.Close()
}

func (b *BoltRevocations) Revoke(tokenID string, until time.Time) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, uint64(until.Unix()))
		return tx.Bucket(revokedBucket).Put([]byte(tokenID), buf)
	})
}

func (b *BoltRevocations) IsRevoked(tokenID string) (bool, error) {
	revoked := false
	err := b.db.View(func(tx *bolt.Tx) error {
		revoked = tx.Bucket(revokedBucket).Get([]byte(tokenID)) != nil
		return nil
	})
	return revoked, err
}

func (b *BoltRevocations) Purge(now time.Time) (int, error) {
	n := 0
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(revokedBucket)
		var expired [][]byte
		err := bucket.ForEach(func(k, v []byte) error {
			if len(v) == 8 && int64(binary.BigEndian.Uint64(v)) <= now.Unix() {
				expired = append(expired, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range expired {
			if err := bucket.Delete(k); err != nil {
				return err
			}
		}
		n = len(expired)
		return nil
	})
	return n, err
}
