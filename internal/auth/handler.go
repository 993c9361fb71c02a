package auth

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type Handler struct {
	Store    *Store
	Tokens   *Tokens
	BotToken string
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) Register(c *fiber.Ctx) error {
	var body credentialsRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	body.Username = strings.TrimSpace(body.Username)
	if body.Username == "" || body.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "username and password are required")
	}

	ctx := userContext(c)
	if _, err := h.Store.GetByUsername(ctx, body.Username); err == nil {
		return fiber.NewError(fiber.StatusConflict, "username already taken")
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if _, err := h.Store.CreateLocal(ctx, body.Username, string(hashed)); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "registration successful"})
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var body credentialsRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	body.Username = strings.TrimSpace(body.Username)
	if body.Username == "" || body.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "username and password are required")
	}

	u, err := h.Store.GetByUsername(userContext(c), body.Username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid username or password")
		}
		return err
	}

	if u.PasswordHash == nil ||
		bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte(body.Password)) != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid username or password")
	}

	token, err := h.Tokens.Issue(u.ID, u.Username)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"token": token})
}

func (h *Handler) Telegram(c *fiber.Ctx) error {
	var body TelegramAuth
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if body.ID == 0 || body.Hash == "" {
		return fiber.NewError(fiber.StatusBadRequest, "id and hash are required")
	}

	if err := VerifyTelegram(&body, h.BotToken, time.Now()); err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "telegram authorization failed")
	}

	ctx := userContext(c)
	u, err := h.Store.GetByTelegramID(ctx, body.ID)
	if errors.Is(err, ErrNotFound) {
		u, err = h.createTelegramUser(ctx, &body)
	}
	if err != nil {
		return err
	}

	token, err := h.Tokens.Issue(u.ID, u.Username)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"token": token, "user": u})
}

// createTelegramUser registers a first-time telegram login. If the display
// name is already taken by a local account, the telegram id is appended to
// keep usernames unique.
func (h *Handler) createTelegramUser(ctx context.Context, body *TelegramAuth) (*User, error) {
	username := body.DisplayName()
	if _, err := h.Store.GetByUsername(ctx, username); err == nil {
		username = username + "_" + strconv.FormatInt(body.ID, 10)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return h.Store.CreateTelegram(ctx, username, body.ID, body.PhotoURL)
}

func (h *Handler) Check(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	if strings.TrimSpace(userID) == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "missing token")
	}

	u, err := h.Store.GetByID(userContext(c), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return err
	}
	return c.JSON(fiber.Map{"user": u})
}

func userContext(c *fiber.Ctx) context.Context {
	if ctx := c.UserContext(); ctx != nil {
		return ctx
	}
	return context.Background()
}
