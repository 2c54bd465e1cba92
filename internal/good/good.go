package good

import "github.com/shopspring/decimal"

// Good is a product that can be put into a cart. Sale is a percentage of
// CostBeforeSale: 100 means full price, 80 means a 20% discount.
type Good struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	CostBeforeSale int64  `json:"costBeforeSale"`
	Sale           int64  `json:"sale"`
}

// EffectivePrice is CostBeforeSale * Sale / 100 using truncating integer
// division, so fractional cents are dropped the same way on every read.
func (g Good) EffectivePrice() decimal.Decimal {
	return decimal.NewFromInt(g.CostBeforeSale * g.Sale / 100)
}
