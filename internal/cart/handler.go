package cart

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/estote-backend/internal/auth"
	"github.com/wichananm65/estote-backend/internal/good"
	"github.com/wichananm65/estote-backend/internal/user"
)

type Handler struct {
	service  *Service
	validate *validator.Validate
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s, validate: validator.New()}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/cart", h.getCart)
	app.Post("/api/v1/cart/goods", h.addGoods)
	app.Delete("/api/v1/cart/goods/:goodId<[0-9]+>", h.deleteGood)
	app.Delete("/api/v1/cart", h.clearCart)
}

type addGoodsRequest struct {
	GoodIDs []int64 `json:"goodIds" validate:"required,min=1,dive,gt=0"`
}

func (h *Handler) getCart(c *fiber.Ctx) error {
	username, ok := auth.UsernameFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	view, err := h.service.GetCartByUser(c.UserContext(), username)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(view)
}

func (h *Handler) addGoods(c *fiber.Ctx) error {
	username, ok := auth.UsernameFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	payload := new(addGoodsRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if err := h.validate.Struct(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	if _, err := h.service.AddGoodsForUser(c.UserContext(), username, payload.GoodIDs); err != nil {
		return writeError(c, err)
	}
	return h.getCart(c)
}

func (h *Handler) deleteGood(c *fiber.Ctx) error {
	username, ok := auth.UsernameFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	goodID, err := strconv.ParseInt(c.Params("goodId"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid goodId"})
	}

	cart, err := h.service.CartForUser(c.UserContext(), username)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.service.DeleteGood(c.UserContext(), &cart, good.Good{ID: goodID}); err != nil {
		return writeError(c, err)
	}
	return c.JSON(NewView(cart.Items))
}

func (h *Handler) clearCart(c *fiber.Ctx) error {
	username, ok := auth.UsernameFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	cart, err := h.service.CartForUser(c.UserContext(), username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return writeError(c, err)
	}
	if err := h.service.ClearCart(c.UserContext(), &cart); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrGoodNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "cart not found"})
	case errors.Is(err, user.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "user not found"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
}
