package user

import (
	"errors"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/wichananm65/storefront/internal/address"
	"github.com/wichananm65/storefront/internal/navigation"
	"github.com/wichananm65/storefront/internal/session"
)

const genericResetMessage = "If that email exists, a reset link was sent"

type Handler struct {
	service   *Service
	router    *navigation.Router
	uploadDir string
}

type loginRequest struct {
	Email            string `json:"email"`
	Password         string `json:"password"`
	PendingProductID *int   `json:"pendingProductId,omitempty"`
}

type signupRequest struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	PendingProductID *int   `json:"pendingProductId,omitempty"`
}

type forgotRequest struct {
	Email string `json:"email"`
}

type resetRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// NewHandler serves avatars from uploadDir, which main exposes under /uploads.
func NewHandler(service *Service, router *navigation.Router, uploadDir string) *Handler {
	return &Handler{service: service, router: router, uploadDir: uploadDir}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Post("/api/v1/sign-in", h.login)
	app.Post("/api/v1/sign-up", h.signup)
	app.Post("/api/v1/auth/forgot-password", h.forgotPassword)
	app.Post("/api/v1/auth/reset-password", h.resetPassword)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/sign-out", h.logout)
	app.Get("/api/v1/profile", h.getProfile)
	app.Put("/api/v1/profile", h.updateProfile)
	app.Patch("/api/v1/profile", h.updateProfile)
	app.Post("/api/v1/profile/avatar", h.uploadAvatar)
	app.Delete("/api/v1/profile/avatar", h.removeAvatar)
}

// RegisterAdminRoutes expects a router already guarded by session.RequireAdmin.
func (h *Handler) RegisterAdminRoutes(router fiber.Router) {
	router.Get("/users", h.listUsers)
	router.Delete("/users/:id<int>", h.deleteUser)
}

func (h *Handler) login(c *fiber.Ctx) error {
	payload := new(loginRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	auth, err := h.service.Login(payload.Email, payload.Password)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"message":    "Login successful",
		"user":       auth.User,
		"token":      auth.Token,
		"expiresAt":  auth.ExpiresAt,
		"navigation": h.afterAuth(payload.PendingProductID),
	})
}

func (h *Handler) signup(c *fiber.Ctx) error {
	payload := new(signupRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	auth, err := h.service.Signup(payload.Name, payload.Email, payload.Password)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Signup successful",
		"user":       auth.User,
		"token":      auth.Token,
		"expiresAt":  auth.ExpiresAt,
		"navigation": h.afterAuth(payload.PendingProductID),
	})
}

func (h *Handler) afterAuth(pending *int) navigation.State {
	return h.router.CompleteAuth(navigation.State{Screen: navigation.ScreenLogin, PendingProductID: pending})
}

func (h *Handler) logout(c *fiber.Ctx) error {
	sess, err := session.FromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	if err := h.service.Logout(sess); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Logged out", "navigation": h.router.Logout()})
}

func (h *Handler) forgotPassword(c *fiber.Ctx) error {
	payload := new(forgotRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	ticket, ok, err := h.service.ForgotPassword(payload.Email)
	if err != nil {
		return writeError(c, err)
	}
	if !ok {
		return c.JSON(fiber.Map{"message": genericResetMessage})
	}
	return c.JSON(fiber.Map{
		"message":    genericResetMessage,
		"resetToken": ticket.Token,
		"expires":    ticket.Expires,
	})
}

func (h *Handler) resetPassword(c *fiber.Ctx) error {
	payload := new(resetRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if err := h.service.ResetPassword(payload.Token, payload.Password); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Password has been reset"})
}

func (h *Handler) getProfile(c *fiber.Ctx) error {
	userID, err := session.UserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	u, err := h.service.Profile(userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(u)
}

func (h *Handler) updateProfile(c *fiber.Ctx) error {
	userID, err := session.UserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	payload := new(ProfileUpdate)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	u, err := h.service.UpdateProfile(userID, *payload)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(u)
}

func (h *Handler) uploadAvatar(c *fiber.Ctx) error {
	userID, err := session.UserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	// accept either "avatar" or the generic "file" form key
	var file *multipart.FileHeader
	if f, e := c.FormFile("avatar"); e == nil && f != nil {
		file = f
	} else if f, e := c.FormFile("file"); e == nil && f != nil {
		file = f
	}
	if file == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "file is required"})
	}

	dir := filepath.Join(h.uploadDir, "avatars")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	name := strconv.Itoa(userID) + "_" + filepath.Base(file.Filename)
	if err := c.SaveFile(file, filepath.Join(dir, name)); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}

	path := "/uploads/avatars/" + name
	u, err := h.service.SetAvatar(userID, &path)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"avatar": path, "user": u})
}

func (h *Handler) removeAvatar(c *fiber.Ctx) error {
	userID, err := session.UserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	u, err := h.service.SetAvatar(userID, nil)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"avatar": nil, "user": u})
}

func (h *Handler) listUsers(c *fiber.Ctx) error {
	users, err := h.service.List()
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(users)
}

func (h *Handler) deleteUser(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid user id"})
	}
	if err := h.service.DeleteUser(id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User removed"})
}

func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid email or password"})
	case errors.Is(err, ErrEmailExists):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "Email already exists"})
	case errors.Is(err, ErrMissingFields), errors.Is(err, ErrInvalidResetToken), errors.Is(err, address.ErrInvalidAddress):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, ErrAdminProtected):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Cannot delete admin user"})
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "user not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
}
