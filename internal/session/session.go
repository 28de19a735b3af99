package session

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ContextKey is where the jwt middleware stores the parsed token.
const ContextKey = "user"

var (
	ErrNoSession    = errors.New("no active session")
	ErrInvalidToken = errors.New("invalid token")
	ErrRevoked      = errors.New("session has been logged out")
)

// Session is the authenticated identity bound to a request.
type Session struct {
	UserID    int       `json:"userId"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	TokenID   string    `json:"-"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// FromCtx reads the session out of the jwt token stored in c.Locals.
func FromCtx(c *fiber.Ctx) (Session, error) {
	tok, ok := c.Locals(ContextKey).(*jwt.Token)
	if !ok || tok == nil {
		return Session{}, ErrNoSession
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Session{}, ErrNoSession
	}
	return fromClaims(claims)
}

// UserIDFromCtx is a shorthand for handlers that only need the user id.
func UserIDFromCtx(c *fiber.Ctx) (int, error) {
	s, err := FromCtx(c)
	if err != nil {
		return 0, err
	}
	return s.UserID, nil
}

func fromClaims(claims jwt.MapClaims) (Session, error) {
	id, ok := intClaim(claims["user_id"])
	if !ok || id <= 0 {
		return Session{}, ErrNoSession
	}

	s := Session{UserID: id, Role: RoleUser}
	if v, ok := claims["email"].(string); ok {
		s.Email = v
	}
	if v, ok := claims["name"].(string); ok {
		s.Name = v
	}
	if v, ok := claims["role"].(string); ok && v != "" {
		s.Role = Role(v)
	}
	if v, ok := claims["jti"].(string); ok {
		s.TokenID = v
	}
	if exp, ok := intClaim(claims["exp"]); ok {
		s.ExpiresAt = time.Unix(int64(exp), 0)
	}
	return s, nil
}

func intClaim(raw any) (int, bool) {
	switch v := raw.(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case int64:
		return int(v), true
	case string:
		id, err := strconv.Atoi(v)
		if err != nil {
			return 0, false
		}
		return id, true
	default:
		return 0, false
	}
}
