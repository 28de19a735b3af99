package navigation

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/wichananm65/storefront/internal/session"
)

type catalog map[int]bool

func (c catalog) Exists(id int) bool { return c[id] }

func TestNavigate_Guards(t *testing.T) {
	r := NewRouter(catalog{1: true})
	user := &session.Session{UserID: 7, Role: session.RoleUser}
	admin := &session.Session{UserID: 1, Role: session.RoleAdmin}

	cases := []struct {
		name string
		sess *session.Session
		to   Screen
		want Screen
	}{
		{"cart anonymous", nil, ScreenCart, ScreenLogin},
		{"wishlist anonymous", nil, ScreenWishlist, ScreenLogin},
		{"checkout anonymous", nil, ScreenCheckout, ScreenLogin},
		{"order success anonymous", nil, ScreenOrderSuccess, ScreenLogin},
		{"history anonymous", nil, ScreenOrderHistory, ScreenLogin},
		{"profile anonymous", nil, ScreenProfile, ScreenLogin},
		{"admin anonymous", nil, ScreenAdmin, ScreenLogin},
		{"admin as user", user, ScreenAdmin, ScreenHome},
		{"admin as admin", admin, ScreenAdmin, ScreenAdmin},
		{"cart as user", user, ScreenCart, ScreenCart},
		{"home anonymous", nil, ScreenHome, ScreenHome},
		{"signup anonymous", nil, ScreenSignup, ScreenSignup},
	}
	for _, tc := range cases {
		got, err := r.Navigate(tc.sess, Home(), tc.to)
		if err != nil {
			t.Fatalf("%s: unexpected error %v", tc.name, err)
		}
		if got.Screen != tc.want {
			t.Errorf("%s: expected %s, got %s", tc.name, tc.want, got.Screen)
		}
	}

	if _, err := r.Navigate(user, Home(), Screen("settings")); err != ErrUnknownScreen {
		t.Fatalf("expected ErrUnknownScreen, got %v", err)
	}
}

func TestViewProduct_PendingThroughLogin(t *testing.T) {
	r := NewRouter(catalog{1: true})

	st := r.ViewProduct(nil, 1)
	if st.Screen != ScreenLogin || st.PendingProductID == nil || *st.PendingProductID != 1 {
		t.Fatalf("expected login with pending product, got %+v", st)
	}

	// switching to signup keeps the pending product
	st, _ = r.Navigate(nil, st, ScreenSignup)
	if st.PendingProductID == nil || *st.PendingProductID != 1 {
		t.Fatalf("pending product lost on signup, got %+v", st)
	}

	st = r.CompleteAuth(st)
	if st.Screen != ScreenProduct || st.SelectedProductID == nil || *st.SelectedProductID != 1 || st.PendingProductID != nil {
		t.Fatalf("expected product detail after auth, got %+v", st)
	}

	if got := r.CompleteAuth(State{Screen: ScreenLogin}); got.Screen != ScreenHome {
		t.Fatalf("expected home without pending product, got %+v", got)
	}
}

func TestViewProduct_UnknownProductGoesHome(t *testing.T) {
	r := NewRouter(catalog{1: true})
	user := &session.Session{UserID: 7}

	if got := r.ViewProduct(user, 42); got.Screen != ScreenHome {
		t.Fatalf("expected home for unknown product, got %+v", got)
	}
	gone := 42
	if got := r.CompleteAuth(State{Screen: ScreenLogin, PendingProductID: &gone}); got.Screen != ScreenHome {
		t.Fatalf("expected home when pending product was deleted, got %+v", got)
	}
	if got, _ := r.Navigate(user, State{Screen: ScreenCart}, ScreenProduct); got.Screen != ScreenHome {
		t.Fatalf("expected home when no product is selected, got %+v", got)
	}
}

func makeApp(h *Handler) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if v := c.Get("X-User-ID"); v != "" {
			if id, err := strconv.Atoi(v); err == nil {
				claims := jwt.MapClaims{"user_id": id, "role": c.Get("X-User-Role")}
				c.Locals("user", &jwt.Token{Claims: claims})
			}
		}
		return c.Next()
	})
	h.RegisterPublicRoutes(app)
	return app
}

func post(t *testing.T, app *fiber.App, body, userID, role string) (int, State) {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/v1/navigation", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
		req.Header.Set("X-User-Role", role)
	}
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("navigation request failed: %v", err)
	}
	var st State
	b, _ := io.ReadAll(res.Body)
	_ = json.Unmarshal(b, &st)
	return res.StatusCode, st
}

func TestNavigationRoute(t *testing.T) {
	app := makeApp(NewHandler(NewRouter(catalog{3: true}), nil))

	code, st := post(t, app, `{"action":"navigate","screen":"admin"}`, "2", "user")
	if code != fiber.StatusOK || st.Screen != ScreenHome {
		t.Fatalf("expected non-admin to land home, got %d %+v", code, st)
	}

	code, st = post(t, app, `{"action":"viewProduct","productId":3}`, "", "")
	if code != fiber.StatusOK || st.Screen != ScreenLogin || st.PendingProductID == nil {
		t.Fatalf("expected login with pending product, got %d %+v", code, st)
	}

	code, st = post(t, app, `{"action":"completeAuth","state":{"screen":"login","pendingProductId":3}}`, "2", "user")
	if code != fiber.StatusOK || st.Screen != ScreenProduct || *st.SelectedProductID != 3 {
		t.Fatalf("expected product detail after auth, got %d %+v", code, st)
	}

	if code, _ := post(t, app, `{"action":"completeAuth"}`, "", ""); code != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 completing auth anonymously, got %d", code)
	}
	if code, _ := post(t, app, `{"action":"teleport"}`, "", ""); code != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for unknown action, got %d", code)
	}

	code, st = post(t, app, `{"action":"logout","state":{"screen":"cart"}}`, "2", "user")
	if code != fiber.StatusOK || st.Screen != ScreenHome {
		t.Fatalf("expected home after logout, got %d %+v", code, st)
	}
}
