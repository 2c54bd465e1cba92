package cart

import (
	"github.com/shopspring/decimal"

	"github.com/wichananm65/estote-backend/internal/good"
)

// Cart holds goods in the order they were added. A good added twice appears
// twice.
type Cart struct {
	ID     int64       `json:"id"`
	UserID int64       `json:"userId"`
	Items  []good.Good `json:"items"`
}

// LineItem groups every occurrence of one good in a cart.
type LineItem struct {
	Good   good.Good       `json:"good"`
	Amount int64           `json:"amount"`
	Sum    decimal.Decimal `json:"sum"`
}

// View is the aggregated cart returned to clients.
type View struct {
	Details []LineItem      `json:"details"`
	Total   decimal.Decimal `json:"total"`
	Count   int64           `json:"count"`
}

func EmptyView() View {
	return View{Details: []LineItem{}, Total: decimal.Zero}
}

// NewView groups items by good id. Line items keep the position of the
// first occurrence.
func NewView(items []good.Good) View {
	v := EmptyView()
	index := make(map[int64]int, len(items))
	for _, g := range items {
		if i, ok := index[g.ID]; ok {
			v.Details[i].Amount++
			v.Details[i].Sum = v.Details[i].Sum.Add(g.EffectivePrice())
			continue
		}
		index[g.ID] = len(v.Details)
		v.Details = append(v.Details, LineItem{Good: g, Amount: 1, Sum: g.EffectivePrice()})
	}
	v.Aggregate()
	return v
}

// Aggregate recomputes Total and Count from Details.
func (v *View) Aggregate() {
	total := decimal.Zero
	var count int64
	for _, li := range v.Details {
		total = total.Add(li.Sum)
		count += li.Amount
	}
	v.Total = total
	v.Count = count
}
