package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceQuoteKnownRoutes(t *testing.T) {
	cat := DefaultCatalog()
	tests := []struct {
		name     string
		city     string
		vehicle  string
		want     int
	}{
		{"vienna eco", "Vienna", "eco", 71},
		{"vienna comf", "Vienna", "comf", 92},
		{"vienna biz", "Vienna", "biz", 137},
		{"tulln eco", "Tulln", "eco", 152},
		{"baden biz", "Baden bei Wien", "biz", 227},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := cat.VehicleByID(tt.vehicle)
			require.True(t, ok)
			q := cat.PriceQuote(v, cat.DistanceKm(tt.city), 0)
			assert.Equal(t, tt.want, q.Gross)
			assert.Equal(t, q.Gross, q.Net, "no discount means net equals gross")
		})
	}
}

func TestPriceQuoteDiscount(t *testing.T) {
	cat := DefaultCatalog()
	v, ok := cat.VehicleByID("eco")
	require.True(t, ok)

	q := cat.PriceQuote(v, 20, 10)
	assert.Equal(t, 71, q.Gross)
	assert.Equal(t, 64, q.Net) // round(71 * 0.9)

	q = cat.PriceQuote(v, 20, 0)
	assert.Equal(t, q.Gross, q.Net)
}

func TestPriceQuoteNeverNegative(t *testing.T) {
	cat := DefaultCatalog()
	for _, v := range cat.Vehicles {
		for _, km := range []int{0, 1, 20, 65, 500} {
			for _, disc := range []int{0, 5, 50, 100} {
				q := cat.PriceQuote(v, km, disc)
				assert.GreaterOrEqual(t, q.Gross, 0)
				assert.GreaterOrEqual(t, q.Net, 0)
				assert.LessOrEqual(t, q.Net, q.Gross, "discount can only reduce the price")
			}
		}
	}
}

func TestPriceOrderedBySize(t *testing.T) {
	cat := DefaultCatalog()
	for _, city := range cat.Cities {
		quotes := cat.QuoteAll(cat.DistanceKm(city.Name), 0)
		for i := 1; i < len(quotes); i++ {
			assert.Greater(t, quotes[i].Gross, quotes[i-1].Gross,
				"larger classes cost more on the %s route", city.Name)
		}
	}
}
