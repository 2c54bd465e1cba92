package good

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/goods", h.getGoods)
	app.Get("/api/v1/goods/:id<[0-9]+>", h.getGood)
}

// RegisterProtectedRoutes registers write endpoints. guards run before the
// handler, main uses them to require the admin authority.
func (h *Handler) RegisterProtectedRoutes(app *fiber.App, guards ...fiber.Handler) {
	app.Post("/api/v1/goods", append(guards, h.createGood)...)
}

type createGoodRequest struct {
	Name           string `json:"name"`
	CostBeforeSale int64  `json:"costBeforeSale"`
	// Sale is optional; a missing value means full price.
	Sale *int64 `json:"sale,omitempty"`
}

func (h *Handler) getGoods(c *fiber.Ctx) error {
	goods, err := h.service.List(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(goods)
}

func (h *Handler) getGood(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
	}

	g, err := h.service.GetByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "good not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(g)
}

func (h *Handler) createGood(c *fiber.Ctx) error {
	payload := new(createGoodRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	g := Good{Name: payload.Name, CostBeforeSale: payload.CostBeforeSale, Sale: 100}
	if payload.Sale != nil {
		g.Sale = *payload.Sale
	}

	created, err := h.service.Create(c.UserContext(), g)
	if err != nil {
		if errors.Is(err, ErrInvalidGood) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}
