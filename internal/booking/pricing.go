package booking

import "math"

// Quote is a derived price for one vehicle class. Gross is the list price, Net
// applies the account's corporate discount; without a discount the two match.
type Quote struct {
	VehicleID string `json:"vehicle_id"`
	Gross     int    `json:"gross"`
	Net       int    `json:"net"`
}

// PriceQuote computes the fixed price for a vehicle class over the given
// round-trip distance. Prices are whole euros, rounded to nearest.
func (c *Catalog) PriceQuote(v VehicleClass, distanceKm, discountPercent int) Quote {
	gross := int(math.Round(float64(v.BasePrice) + float64(distanceKm)*c.RatePerKm*v.PriceMultiplier))
	net := gross
	if discountPercent > 0 {
		net = int(math.Round(float64(gross) * (1 - float64(discountPercent)/100)))
	}
	return Quote{VehicleID: v.ID, Gross: gross, Net: net}
}

// QuoteAll prices every class in the catalog for one trip.
func (c *Catalog) QuoteAll(distanceKm, discountPercent int) []Quote {
	quotes := make([]Quote, 0, len(c.Vehicles))
	for _, v := range c.Vehicles {
		quotes = append(quotes, c.PriceQuote(v, distanceKm, discountPercent))
	}
	return quotes
}
