package order

import (
	stdjson "encoding/json"
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/shopspring/decimal"
	"github.com/wichananm65/storefront/internal/cart"
	"github.com/wichananm65/storefront/internal/payment"
	"github.com/wichananm65/storefront/internal/product"
	"github.com/wichananm65/storefront/internal/session"
)

type fixture struct {
	app    *fiber.App
	carts  *cart.Service
	orders *InMemoryRepository
}

func newFixture(t *testing.T, gateway payment.Gateway, timeout time.Duration) fixture {
	t.Helper()
	catalog := product.NewInMemoryRepository([]product.Product{
		{ID: 1, Name: "Quantum Core Laptop", Price: decimal.RequireFromString("1299.00")},
		{ID: 2, Name: "Organic Green Tea", Price: decimal.RequireFromString("15.00")},
	})
	carts := cart.NewService(cart.NewInMemoryRepository(map[int]cart.Cart{
		7: {Lines: []cart.Line{{ProductID: 1, Quantity: 1}, {ProductID: 2, Quantity: 2}}},
		8: {},
	}), catalog)
	orders := NewInMemoryRepository(nil, carts)
	svc := NewService(orders, carts, gateway, decimal.RequireFromString("0.08"), timeout)

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
	h := NewHandler(svc)
	h.RegisterProtectedRoutes(app)
	h.RegisterAdminRoutes(app.Group("/api/v1/admin", session.RequireAdmin()))
	return fixture{app: app, carts: carts, orders: orders}
}

func do(t *testing.T, app *fiber.App, method, path, body, userID, role string) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
		req.Header.Set("X-User-Role", role)
	}
	res, err := app.Test(req, 5000)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	b, _ := io.ReadAll(res.Body)
	return res.StatusCode, b
}

func TestCheckout_PlacesOrderAndClearsCart(t *testing.T) {
	f := newFixture(t, payment.NewSimulatedGateway(0, decimal.Zero), time.Second)

	status, body := do(t, f.app, "POST", "/api/v1/orders/checkout", "", "7", "user")
	if status != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", status, body)
	}
	var o Order
	if err := stdjson.Unmarshal(body, &o); err != nil {
		t.Fatalf("decode order: %v", err)
	}
	if !strings.HasPrefix(o.ID, "ORD-") || o.Status != StatusProcessing {
		t.Fatalf("unexpected order header %+v", o)
	}
	if !o.Subtotal.Equal(decimal.RequireFromString("1329.00")) {
		t.Fatalf("unexpected subtotal %s", o.Subtotal)
	}
	if !o.Tax.Equal(decimal.RequireFromString("106.32")) {
		t.Fatalf("unexpected tax %s", o.Tax)
	}
	if !o.TotalAmount.Equal(o.Subtotal.Add(o.Tax)) {
		t.Fatalf("total %s is not subtotal plus tax", o.TotalAmount)
	}
	if !strings.HasPrefix(o.PaymentRef, "PAY-") {
		t.Fatalf("expected payment reference, got %q", o.PaymentRef)
	}

	view, _ := f.carts.GetCart(7)
	if len(view.Items) != 0 {
		t.Fatalf("cart should be empty after checkout, got %+v", view.Items)
	}

	status, body = do(t, f.app, "GET", "/api/v1/orders", "", "7", "user")
	var list []Order
	_ = stdjson.Unmarshal(body, &list)
	if status != fiber.StatusOK || len(list) != 1 || list[0].ID != o.ID {
		t.Fatalf("expected placed order in history, got %d %s", status, body)
	}
}

func TestCheckout_EmptyCartRejected(t *testing.T) {
	f := newFixture(t, payment.NewSimulatedGateway(0, decimal.Zero), time.Second)

	status, _ := do(t, f.app, "POST", "/api/v1/orders/checkout", "", "8", "user")
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for empty cart, got %d", status)
	}
	all, _ := f.orders.List()
	if len(all) != 0 {
		t.Fatalf("no order should be created, got %d", len(all))
	}

	status, _ = do(t, f.app, "POST", "/api/v1/orders/checkout", "", "", "")
	if status != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 without session, got %d", status)
	}
}

func TestCheckout_DeclineLeavesCartIntact(t *testing.T) {
	f := newFixture(t, payment.NewSimulatedGateway(0, decimal.NewFromInt(100)), time.Second)

	status, _ := do(t, f.app, "POST", "/api/v1/orders/checkout", "", "7", "user")
	if status != fiber.StatusPaymentRequired {
		t.Fatalf("expected 402 for declined payment, got %d", status)
	}
	view, _ := f.carts.GetCart(7)
	if view.Count != 3 {
		t.Fatalf("cart should be untouched, got count %d", view.Count)
	}
	all, _ := f.orders.List()
	if len(all) != 0 {
		t.Fatalf("declined checkout must not store an order")
	}
}

func TestCheckout_PaymentTimeout(t *testing.T) {
	f := newFixture(t, payment.NewSimulatedGateway(time.Second, decimal.Zero), 20*time.Millisecond)

	status, _ := do(t, f.app, "POST", "/api/v1/orders/checkout", "", "7", "user")
	if status != fiber.StatusBadGateway {
		t.Fatalf("expected 502 when payment times out, got %d", status)
	}
	view, _ := f.carts.GetCart(7)
	if view.Count != 3 {
		t.Fatalf("cart should be untouched, got count %d", view.Count)
	}
}

func TestOrderVisibilityAndStatus(t *testing.T) {
	f := newFixture(t, payment.NewSimulatedGateway(0, decimal.Zero), time.Second)

	_, body := do(t, f.app, "POST", "/api/v1/orders/checkout", "", "7", "user")
	var o Order
	if err := stdjson.Unmarshal(body, &o); err != nil {
		t.Fatalf("decode order: %v", err)
	}

	if status, _ := do(t, f.app, "GET", "/api/v1/orders/"+o.ID, "", "8", "user"); status != fiber.StatusNotFound {
		t.Fatalf("other users must not see the order, got %d", status)
	}
	if status, _ := do(t, f.app, "GET", "/api/v1/orders/"+o.ID, "", "1", "admin"); status != fiber.StatusOK {
		t.Fatalf("admin should see any order, got %d", status)
	}

	path := "/api/v1/admin/orders/" + o.ID + "/status"
	if status, _ := do(t, f.app, "PUT", path, `{"status":"Shipped"}`, "7", "user"); status != fiber.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", status)
	}
	if status, body := do(t, f.app, "PUT", path, `{"status":"Shipped"}`, "1", "admin"); status != fiber.StatusOK {
		t.Fatalf("expected 200 advancing to Shipped, got %d (%s)", status, body)
	}
	if status, _ := do(t, f.app, "PUT", path, `{"status":"Processing"}`, "1", "admin"); status != fiber.StatusConflict {
		t.Fatalf("expected 409 moving backwards, got %d", status)
	}
	if status, _ := do(t, f.app, "PUT", path, `{"status":"Lost"}`, "1", "admin"); status != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status, got %d", status)
	}

	status, body := do(t, f.app, "GET", "/api/v1/admin/orders", "", "1", "admin")
	var all []Order
	_ = stdjson.Unmarshal(body, &all)
	if status != fiber.StatusOK || len(all) != 1 || all[0].Status != StatusShipped {
		t.Fatalf("unexpected admin listing %d %s", status, body)
	}
}

func TestStatus_CanAdvanceTo(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusProcessing, StatusShipped, true},
		{StatusProcessing, StatusDelivered, true},
		{StatusShipped, StatusDelivered, true},
		{StatusShipped, StatusProcessing, false},
		{StatusDelivered, StatusDelivered, false},
		{StatusProcessing, Status("Lost"), false},
	}
	for _, c := range cases {
		if got := c.from.CanAdvanceTo(c.to); got != c.want {
			t.Errorf("%s -> %s: expected %v, got %v", c.from, c.to, c.want, got)
		}
	}
}

func TestAdminDeleteOrder(t *testing.T) {
	f := newFixture(t, payment.NewSimulatedGateway(0, decimal.Zero), time.Second)

	_, body := do(t, f.app, "POST", "/api/v1/orders/checkout", "", "7", "user")
	var o Order
	if err := stdjson.Unmarshal(body, &o); err != nil {
		t.Fatalf("decode order: %v", err)
	}

	if status, _ := do(t, f.app, "DELETE", "/api/v1/orders/"+o.ID, "", "7", "user"); status != fiber.StatusNotFound && status != fiber.StatusMethodNotAllowed {
		t.Fatalf("owners must not have a delete route, got %d", status)
	}
	if status, _ := do(t, f.app, "DELETE", "/api/v1/admin/orders/"+o.ID, "", "7", "user"); status != fiber.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", status)
	}
	if _, err := f.orders.GetByID(o.ID); err != nil {
		t.Fatalf("order must survive rejected deletes: %v", err)
	}

	status, body := do(t, f.app, "DELETE", "/api/v1/admin/orders/"+o.ID, "", "1", "admin")
	if status != fiber.StatusOK || !strings.Contains(string(body), "Order removed") {
		t.Fatalf("expected admin delete to succeed, got %d %s", status, body)
	}
	if _, err := f.orders.GetByID(o.ID); err != ErrNotFound {
		t.Fatalf("expected order to be gone, got %v", err)
	}
	if status, _ := do(t, f.app, "DELETE", "/api/v1/admin/orders/"+o.ID, "", "1", "admin"); status != fiber.StatusNotFound {
		t.Fatalf("expected 404 for missing order, got %d", status)
	}
}
