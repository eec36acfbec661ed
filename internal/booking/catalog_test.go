package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogIsValid(t *testing.T) {
	cat := DefaultCatalog()
	require.NoError(t, cat.Validate())
	assert.Len(t, cat.Cities, 16)
	assert.Len(t, cat.Vehicles, 3)
}

func TestDistanceFallback(t *testing.T) {
	cat := DefaultCatalog()
	assert.Equal(t, 20, cat.DistanceKm("Vienna"))
	assert.Equal(t, 65, cat.DistanceKm("Tulln"))
	assert.Equal(t, DefaultDistanceKm, cat.DistanceKm("Atlantis"))
}

func TestValidateRejectsBrokenTables(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Catalog)
	}{
		{"zero rate", func(c *Catalog) { c.RatePerKm = 0 }},
		{"no vehicles", func(c *Catalog) { c.Vehicles = nil }},
		{"duplicate vehicle id", func(c *Catalog) { c.Vehicles[1].ID = c.Vehicles[0].ID }},
		{"zero capacity", func(c *Catalog) { c.Vehicles[0].MaxPassengers = 0 }},
		{"zero base price", func(c *Catalog) { c.Vehicles[0].BasePrice = 0 }},
		{"size order broken", func(c *Catalog) { c.Vehicles[0].MaxPassengers = 9 }},
		{"duplicate city", func(c *Catalog) { c.Cities[1].Name = c.Cities[0].Name }},
		{"negative distance", func(c *Catalog) { c.Cities[0].DistanceKm = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat := DefaultCatalog()
			tt.mutate(cat)
			assert.Error(t, cat.Validate())
		})
	}
}
