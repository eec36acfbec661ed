package entities

type QuoteResponse struct {
	VehicleID     string `json:"vehicle_id"`
	VehicleName   string `json:"vehicle_name"`
	Image         string `json:"image"`
	MaxPassengers int    `json:"max_passengers"`
	MaxLuggage    int    `json:"max_luggage"`
	Price         int    `json:"price"`
	ListPrice     int    `json:"list_price"`
}
