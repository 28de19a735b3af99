package session

import (
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

func TestIssuer_RoundTrip(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)
	raw, issued, err := issuer.Issue(7, "a@example.com", "Alice", RoleAdmin)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if issued.TokenID == "" {
		t.Fatalf("expected a token id")
	}

	_, parsed, err := issuer.Parse(raw)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if parsed.UserID != 7 || parsed.Email != "a@example.com" || parsed.Name != "Alice" || !parsed.IsAdmin() {
		t.Fatalf("unexpected session %+v", parsed)
	}
	if parsed.TokenID != issued.TokenID {
		t.Fatalf("token id mismatch: %s vs %s", parsed.TokenID, issued.TokenID)
	}

	other := NewIssuer("different", time.Hour)
	if _, _, err := other.Parse(raw); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestIssuer_Expired(t *testing.T) {
	issuer := NewIssuer("secret", time.Minute)
	issuer.now = func() time.Time { return time.Now().Add(-time.Hour) }
	raw, _, err := issuer.Issue(1, "x@example.com", "X", RoleUser)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, _, err := issuer.Parse(raw); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestFromCtx_ClaimShapes(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		c.Locals(ContextKey, &jwt.Token{Claims: jwt.MapClaims{"user_id": "12"}})
		s, err := FromCtx(c)
		if err != nil {
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		if s.UserID != 12 || s.Role != RoleUser {
			return c.SendStatus(fiber.StatusTeapot)
		}
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/none", func(c *fiber.Ctx) error {
		if _, err := FromCtx(c); err != ErrNoSession {
			return c.SendStatus(fiber.StatusTeapot)
		}
		return c.SendStatus(fiber.StatusOK)
	})

	for _, path := range []string{"/", "/none"} {
		res, err := app.Test(httptest.NewRequest("GET", path, nil))
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if res.StatusCode != fiber.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, res.StatusCode)
		}
	}
}

func TestProtectAndRevocation(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)
	store := NewMemoryRevocations()

	app := fiber.New()
	app.Get("/public", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Use(Protect(issuer, nil))
	app.Use(RequireActive(store))
	app.Get("/private", func(c *fiber.Ctx) error { return c.SendString("ok") })
	admin := app.Group("/admin", RequireAdmin())
	admin.Get("/panel", func(c *fiber.Ctx) error { return c.SendString("ok") })

	raw, s, _ := issuer.Issue(3, "u@example.com", "U", RoleUser)

	call := func(path, token string) int {
		req := httptest.NewRequest("GET", path, nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		res, err := app.Test(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		return res.StatusCode
	}

	if code := call("/public", ""); code != fiber.StatusOK {
		t.Fatalf("public route should not require a token, got %d", code)
	}
	if code := call("/private", ""); code != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", code)
	}
	if code := call("/private", raw); code != fiber.StatusOK {
		t.Fatalf("expected 200 with token, got %d", code)
	}
	if code := call("/admin/panel", raw); code != fiber.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", code)
	}

	if err := store.Revoke(s.TokenID, s.ExpiresAt); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	if code := call("/private", raw); code != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", code)
	}
}

func TestOptional(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)
	store := NewMemoryRevocations()
	app := fiber.New()
	app.Get("/who", Optional(issuer, store), func(c *fiber.Ctx) error {
		s, err := FromCtx(c)
		if err != nil {
			return c.SendString("anonymous")
		}
		return c.SendString(s.Email)
	})

	raw, _, _ := issuer.Issue(4, "o@example.com", "O", RoleUser)
	for token, want := range map[string]string{"": "anonymous", "garbage": "anonymous", raw: "o@example.com"} {
		req := httptest.NewRequest("GET", "/who", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		res, err := app.Test(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		buf := make([]byte, 64)
		n, _ := res.Body.Read(buf)
		if got := string(buf[:n]); got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	}
}

func TestBoltRevocations_PersistAndPurge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.db")
	store, err := OpenBoltRevocations(path)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}

	now := time.Now()
	if err := store.Revoke("old", now.Add(-time.Minute)); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	if err := store.Revoke("fresh", now.Add(time.Hour)); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	store.Close()

	store, err = OpenBoltRevocations(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer store.Close()

	if ok, _ := store.IsRevoked("fresh"); !ok {
		t.Fatalf("revocation should survive reopen")
	}
	n, err := store.Purge(now)
	if err != nil {
		t.Fatalf("purge failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 purged entry, got %d", n)
	}
	if ok, _ := store.IsRevoked("old"); ok {
		t.Fatalf("expired revocation should be purged")
	}
	if ok, _ := store.IsRevoked("fresh"); !ok {
		t.Fatalf("unexpired revocation must remain")
	}
}
