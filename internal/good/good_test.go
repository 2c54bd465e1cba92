package good

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestEffectivePrice(t *testing.T) {
	cases := []struct {
		name string
		good Good
		want int64
	}{
		{"half price", Good{CostBeforeSale: 100, Sale: 50}, 50},
		{"full price", Good{CostBeforeSale: 200, Sale: 100}, 200},
		{"truncates", Good{CostBeforeSale: 99, Sale: 50}, 49},
		{"free", Good{CostBeforeSale: 10, Sale: 0}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.good.EffectivePrice()
			if !got.Equal(decimal.NewFromInt(tc.want)) {
				t.Fatalf("expected %d, got %s", tc.want, got)
			}
		})
	}
}
