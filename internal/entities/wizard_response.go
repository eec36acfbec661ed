package entities

// DraftView is the wizard draft as rendered for the client. Optional counts
// are pointers so an untouched selector is distinguishable from zero.
type DraftView struct {
	Direction       string     `json:"direction"`
	DestinationCity string     `json:"destination_city"`
	Address         string     `json:"address"`
	Date            string     `json:"date"`
	Time            string     `json:"time"`
	FlightNumber    string     `json:"flight_number"`
	Passengers      *int       `json:"passengers"`
	Suitcases       *int       `json:"suitcases"`
	HandLuggage     *int       `json:"hand_luggage"`
	ChildSeats      ChildSeats `json:"child_seats"`
	ContactName     string     `json:"contact_name"`
	ContactEmail    string     `json:"contact_email"`
	ContactPhone    string     `json:"contact_phone"`
	PaymentMethod   string     `json:"payment_method"`
}

type WizardStateResponse struct {
	SessionID       string            `json:"session_id"`
	Stage           string            `json:"stage"`
	Draft           DraftView         `json:"draft"`
	VehicleID       string            `json:"vehicle_id,omitempty"`
	VehicleOverride bool              `json:"vehicle_override"`
	NoVehicleFits   bool              `json:"no_vehicle_fits"`
	DistanceKm      int               `json:"distance_km"`
	Quotes          []QuoteResponse   `json:"quotes"`
	FieldErrors     map[string]string `json:"field_errors"`
	SubmitFailed    bool              `json:"submit_failed"`
	Suggestions     []string          `json:"suggestions"`
	Booking         *BookingResponse  `json:"booking,omitempty"`
}
