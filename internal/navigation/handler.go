package navigation

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/wichananm65/storefront/internal/session"
)

const (
	ActionNavigate     = "navigate"
	ActionViewProduct  = "viewProduct"
	ActionCompleteAuth = "completeAuth"
	ActionLogout       = "logout"
)

type Handler struct {
	router   *Router
	optional fiber.Handler
}

// NewHandler takes the middleware that binds a session when a bearer token
// is present; the navigation route itself is public.
func NewHandler(router *Router, optional fiber.Handler) *Handler {
	return &Handler{router: router, optional: optional}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	if h.optional != nil {
		app.Post("/api/v1/navigation", h.optional, h.navigate)
		return
	}
	app.Post("/api/v1/navigation", h.navigate)
}

type navigationRequest struct {
	Action    string `json:"action"`
	State     State  `json:"state"`
	Screen    Screen `json:"screen"`
	ProductID int    `json:"productId"`
}

func (h *Handler) navigate(c *fiber.Ctx) error {
	payload := new(navigationRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.State.Screen == "" {
		payload.State = Home()
	}

	var sess *session.Session
	if s, err := session.FromCtx(c); err == nil {
		sess = &s
	}

	var (
		next State
		err  error
	)
	switch payload.Action {
	case ActionNavigate:
		next, err = h.router.Navigate(sess, payload.State, payload.Screen)
	case ActionViewProduct:
		next = h.router.ViewProduct(sess, payload.ProductID)
	case ActionCompleteAuth:
		if sess == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
		}
		next = h.router.CompleteAuth(payload.State)
	case ActionLogout:
		next = h.router.Logout()
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "unknown action"})
	}
	if errors.Is(err, ErrUnknownScreen) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(next)
}
