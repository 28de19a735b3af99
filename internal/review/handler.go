package review

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/wichananm65/storefront/internal/session"
)

type Handler struct {
	ledger *Ledger
}

func NewHandler(l *Ledger) *Handler {
	return &Handler{ledger: l}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/products/:id<int>/reviews", h.listReviews)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/products/:id<int>/reviews", h.addReview)
	app.Get("/api/v1/products/:id<int>/reviews/eligibility", h.eligibility)
}

type reviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (h *Handler) listReviews(c *fiber.Ctx) error {
	productID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid product id"})
	}

	reviews, err := h.ledger.ForProduct(productID)
	if err != nil {
		return writeError(c, err)
	}
	summary, err := h.ledger.Summary(productID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"reviews": reviews, "summary": summary})
}

func (h *Handler) addReview(c *fiber.Ctx) error {
	sess, err := session.FromCtx(c)
	if err != nil {
		return writeError(c, ErrUnauthenticated)
	}
	productID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid product id"})
	}
	payload := new(reviewRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	rv, err := h.ledger.Add(sess, productID, payload.Rating, payload.Comment)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(rv)
}

func (h *Handler) eligibility(c *fiber.Ctx) error {
	sess, err := session.FromCtx(c)
	if err != nil {
		return writeError(c, ErrUnauthenticated)
	}
	productID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid product id"})
	}

	e, err := h.ledger.Eligibility(sess, productID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(e)
}

func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, ErrInvalidRating):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, ErrNotPurchased):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, ErrAlreadyReviewed):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
}
