package entities

type ConfirmationEmailData struct {
	ContactName     string
	BookingCode     string
	Pickup          string
	Dropoff         string
	Address         string
	PickupFormatted string
	FlightNumber    string
	VehicleName     string
	Passengers      int
	Price           int
	PaymentMethod   string
	Status          string
	CheckoutURL     string
	CurrentYear     int
}
