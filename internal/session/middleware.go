package session

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v2"
	"go.uber.org/zap"
)

// Protect requires a valid bearer token on every request the filter does not
// skip.
func Protect(issuer *Issuer, filter func(*fiber.Ctx) bool) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: issuer.Secret(),
		ContextKey: ContextKey,
		Filter:     filter,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
		},
	})
}

// RequireActive rejects tokens that were explicitly logged out.
func RequireActive(store RevocationStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := FromCtx(c)
		if err != nil {
			return c.Next()
		}
		if s.TokenID == "" {
			return c.Next()
		}
		revoked, err := store.IsRevoked(s.TokenID)
		if err != nil {
			zap.S().Errorf("revocation lookup failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "session check failed"})
		}
		if revoked {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "session has been logged out"})
		}
		return c.Next()
	}
}

func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := FromCtx(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
		}
		if !s.IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "admin access required"})
		}
		return c.Next()
	}
}

// Optional binds the session when a valid, unrevoked bearer token is present
// and otherwise lets the request through anonymously.
func Optional(issuer *Issuer, store RevocationStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		auth := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(auth, "Bearer ") {
			return c.Next()
		}
		tok, s, err := issuer.Parse(strings.TrimSpace(strings.TrimPrefix(auth, "Bearer ")))
		if err != nil {
			return c.Next()
		}
		if s.TokenID != "" {
			if revoked, err := store.IsRevoked(s.TokenID); err != nil || revoked {
				return c.Next()
			}
		}
		c.Locals(ContextKey, tok)
		return c.Next()
	}
}
