package auth

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

const principalKey = "principal"

// UsernameFromCtx reads the subject of the token gofiber/jwt stored under
// "user".
func UsernameFromCtx(c *fiber.Ctx) (string, bool) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return "", false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", false
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", false
	}
	return sub, true
}

// PrincipalFromCtx returns the principal set by LoadPrincipal.
func PrincipalFromCtx(c *fiber.Ctx) (*UserDetail, bool) {
	p, ok := c.Locals(principalKey).(*UserDetail)
	return p, ok && p != nil
}

// LoadPrincipal resolves the token subject to a live principal so that an
// account disabled after the token was issued is rejected.
func LoadPrincipal(details *DetailService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		username, ok := UsernameFromCtx(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
		}

		detail, err := details.LoadByUsername(c.UserContext(), username)
		if err != nil {
			if errors.Is(err, ErrUsernameNotFound) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": err.Error()})
			}
			slog.ErrorContext(c.UserContext(), "load principal", "username", username, "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "internal error"})
		}
		if err := CheckStatus(detail); err != nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": err.Error()})
		}

		c.Locals(principalKey, detail)
		return c.Next()
	}
}

func RequireAuthority(authority string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := PrincipalFromCtx(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
		}
		if !HasAuthority(p, authority) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "forbidden"})
		}
		return c.Next()
	}
}
