package session

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// Issuer signs and verifies HS256 session tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (i *Issuer) Secret() []byte {
	return i.secret
}

// Issue binds a new session for the given identity and returns the signed token.
func (i *Issuer) Issue(userID int, email, name string, role Role) (string, Session, error) {
	s := Session{
		UserID:    userID,
		Email:     email,
		Name:      name,
		Role:      role,
		TokenID:   uuid.NewString(),
		ExpiresAt: i.now().Add(i.ttl),
	}
	claims := jwt.MapClaims{
		"user_id": s.UserID,
		"email":   s.Email,
		"name":    s.Name,
		"role":    string(s.Role),
		"jti":     s.TokenID,
		"exp":     s.ExpiresAt.Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", Session{}, err
	}
	return signed, s, nil
}

// Parse verifies a raw token and returns the token together with its session.
func (i *Issuer) Parse(raw string) (*jwt.Token, Session, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return i.secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, Session{}, ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, Session{}, ErrInvalidToken
	}
	s, err := fromClaims(claims)
	if err != nil {
		return nil, Session{}, ErrInvalidToken
	}
	return tok, s, nil
}
