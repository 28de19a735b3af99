package copywriter

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	writer *Writer
}

func NewHandler(w *Writer) *Handler {
	return &Handler{writer: w}
}

// RegisterAdminRoutes expects a router already guarded by session.RequireAdmin.
func (h *Handler) RegisterAdminRoutes(router fiber.Router) {
	router.Post("/products/generate-description", h.generate)
}

type generateDescriptionRequest struct {
	ProductName string `json:"productName"`
	Keywords    string `json:"keywords"`
}

func (h *Handler) generate(c *fiber.Ctx) error {
	payload := new(generateDescriptionRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if strings.TrimSpace(payload.ProductName) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "productName is required"})
	}

	text := h.writer.Generate(c.UserContext(), payload.ProductName, payload.Keywords)
	return c.JSON(fiber.Map{"description": text})
}
