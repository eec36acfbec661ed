package booking

import "fmt"

// Airport is the fixed endpoint of every trip. Depending on the direction it is
// either the pickup or the dropoff; the other endpoint is a catalog city.
const Airport = "Vienna International Airport (VIE)"

// DefaultDistanceKm is used when a city is not in the catalog. The city list is
// closed and validated by the selection UI, so an unknown name is a config drift
// problem, not a user error: we fall back instead of failing the quote.
const DefaultDistanceKm = 20

type VehicleClass struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Image           string  `json:"image"`
	MaxPassengers   int     `json:"max_passengers"`
	MaxLuggage      int     `json:"max_luggage"`
	BasePrice       int     `json:"base_price"`
	PriceMultiplier float64 `json:"price_multiplier"`
}

type City struct {
	Name       string `json:"name"`
	DistanceKm int    `json:"distance_km"`
	Country    string `json:"country"`
}

// Catalog holds the static pricing and capacity tables. Loaded once at startup
// and read-only afterwards.
type Catalog struct {
	// Vehicles must be ordered smallest to largest; the selector returns the
	// first class that fits.
	Vehicles  []VehicleClass
	Cities    []City
	RatePerKm float64
}

func DefaultCatalog() *Catalog {
	return &Catalog{
		RatePerKm: 1.8,
		Vehicles: []VehicleClass{
			{ID: "eco", Name: "Standard Sedan", Image: "vehicles/sedan.jpg", MaxPassengers: 3, MaxLuggage: 2, BasePrice: 35, PriceMultiplier: 1.0},
			{ID: "comf", Name: "Station Wagon", Image: "vehicles/wagon.jpg", MaxPassengers: 4, MaxLuggage: 4, BasePrice: 45, PriceMultiplier: 1.3},
			{ID: "biz", Name: "Minivan", Image: "vehicles/van.jpg", MaxPassengers: 8, MaxLuggage: 8, BasePrice: 65, PriceMultiplier: 2.0},
		},
		Cities: []City{
			{Name: "Vienna", DistanceKm: 20, Country: "Austria"},
			{Name: "Bratislava", DistanceKm: 65, Country: "Slovakia"},
			{Name: "St. Pölten", DistanceKm: 90, Country: "Austria"},
			{Name: "Wiener Neustadt", DistanceKm: 60, Country: "Austria"},
			{Name: "Eisenstadt", DistanceKm: 40, Country: "Austria"},
			{Name: "Parndorf", DistanceKm: 30, Country: "Austria"},
			{Name: "Sopron", DistanceKm: 75, Country: "Hungary"},
			{Name: "Brno", DistanceKm: 130, Country: "Czech Republic"},
			{Name: "Krems an der Donau", DistanceKm: 95, Country: "Austria"},
			{Name: "Baden bei Wien", DistanceKm: 45, Country: "Austria"},
			{Name: "Mödling", DistanceKm: 35, Country: "Austria"},
			{Name: "Mosonmagyaróvár", DistanceKm: 70, Country: "Hungary"},
			{Name: "Trnava", DistanceKm: 110, Country: "Slovakia"},
			{Name: "Győr", DistanceKm: 100, Country: "Hungary"},
			{Name: "Mistelbach", DistanceKm: 60, Country: "Austria"},
			{Name: "Tulln", DistanceKm: 65, Country: "Austria"},
		},
	}
}

// Validate checks the catalog for configuration inconsistencies. Called once at
// startup; a broken table is fatal there rather than guarded per quote.
func (c *Catalog) Validate() error {
	if c.RatePerKm <= 0 {
		return fmt.Errorf("rate per km must be positive, got %v", c.RatePerKm)
	}
	if len(c.Vehicles) == 0 {
		return fmt.Errorf("no vehicle classes configured")
	}
	seen := make(map[string]bool, len(c.Vehicles))
	prevPax := 0
	for _, v := range c.Vehicles {
		if v.ID == "" {
			return fmt.Errorf("vehicle class with empty id")
		}
		if seen[v.ID] {
			return fmt.Errorf("duplicate vehicle class id %q", v.ID)
		}
		seen[v.ID] = true
		if v.MaxPassengers <= 0 || v.MaxLuggage < 0 {
			return fmt.Errorf("vehicle class %q has invalid capacity (%d passengers, %d luggage)", v.ID, v.MaxPassengers, v.MaxLuggage)
		}
		if v.BasePrice <= 0 || v.PriceMultiplier <= 0 {
			return fmt.Errorf("vehicle class %q has invalid pricing (base %d, multiplier %v)", v.ID, v.BasePrice, v.PriceMultiplier)
		}
		if v.MaxPassengers < prevPax {
			return fmt.Errorf("vehicle classes must be ordered smallest to largest, %q breaks the order", v.ID)
		}
		prevPax = v.MaxPassengers
	}
	cities := make(map[string]bool, len(c.Cities))
	for _, city := range c.Cities {
		if city.Name == "" {
			return fmt.Errorf("city with empty name")
		}
		if cities[city.Name] {
			return fmt.Errorf("duplicate city %q", city.Name)
		}
		cities[city.Name] = true
		if city.DistanceKm <= 0 {
			return fmt.Errorf("city %q has invalid distance %d", city.Name, city.DistanceKm)
		}
	}
	return nil
}

// DistanceKm returns the configured round-trip distance for a city, or
// DefaultDistanceKm when the city is unknown.
func (c *Catalog) DistanceKm(city string) int {
	for _, entry := range c.Cities {
		if entry.Name == city {
			return entry.DistanceKm
		}
	}
	return DefaultDistanceKm
}

func (c *Catalog) VehicleByID(id string) (VehicleClass, bool) {
	for _, v := range c.Vehicles {
		if v.ID == id {
			return v, true
		}
	}
	return VehicleClass{}, false
}

func (c *Catalog) CityExists(name string) bool {
	for _, entry := range c.Cities {
		if entry.Name == name {
			return true
		}
	}
	return false
}
