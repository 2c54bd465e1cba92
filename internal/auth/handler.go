package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/estote-backend/internal/user"
)

// Registrar creates accounts; *user.Service satisfies it.
type Registrar interface {
	Register(ctx context.Context, username, password string) (user.User, error)
}

type Handler struct {
	authenticator *Authenticator
	issuer        *TokenIssuer
	registrar     Registrar
	validate      *validator.Validate
}

func NewHandler(authenticator *Authenticator, issuer *TokenIssuer, registrar Registrar) *Handler {
	return &Handler{
		authenticator: authenticator,
		issuer:        issuer,
		registrar:     registrar,
		validate:      validator.New(),
	}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Post("/api/v1/sign-in", h.signIn)
	app.Post("/api/v1/sign-up", h.signUp)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/profile", h.profile)
}

type credentialsRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,min=4,max=72"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (h *Handler) parseCredentials(c *fiber.Ctx) (*credentialsRequest, error) {
	payload := new(credentialsRequest)
	if err := c.BodyParser(payload); err != nil {
		return nil, err
	}
	if err := h.validate.Struct(payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (h *Handler) signIn(c *fiber.Ctx) error {
	payload, err := h.parseCredentials(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	detail, err := h.authenticator.Authenticate(c.UserContext(), payload.Username, payload.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrBadCredentials):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "invalid username or password"})
		case errors.Is(err, ErrDisabled), errors.Is(err, ErrLocked),
			errors.Is(err, ErrAccountExpired), errors.Is(err, ErrCredentialsExpired):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": err.Error()})
		}
		slog.ErrorContext(c.UserContext(), "sign in", "username", payload.Username, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "internal error"})
	}

	token, err := h.issuer.Issue(detail)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(tokenResponse{Token: token})
}

func (h *Handler) signUp(c *fiber.Ctx) error {
	payload, err := h.parseCredentials(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	created, err := h.registrar.Register(c.UserContext(), payload.Username, payload.Password)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrUsernameExists):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "username already taken"})
		case errors.Is(err, user.ErrInvalidCredentials):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}

	slog.InfoContext(c.UserContext(), "user registered", "user_id", created.ID)
	token, err := h.issuer.Issue(NewUserDetail(created))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": created.Sanitized(), "token": token})
}

func (h *Handler) profile(c *fiber.Ctx) error {
	p, ok := PrincipalFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	return c.JSON(p.User().Sanitized())
}
