package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wichananm65/estote-backend/internal/cart"
)

const StatusPlaced = "PLACED"

// Order is a snapshot of a cart at checkout time. Prices do not follow
// later changes to the goods.
type Order struct {
	ID          int64           `json:"id"`
	OrderNumber uuid.UUID       `json:"orderNumber"`
	UserID      int64           `json:"userId"`
	Items       []cart.LineItem `json:"items"`
	Count       int64           `json:"count"`
	Total       decimal.Decimal `json:"total"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
}
