package entities

import "time"

type ChildSeats struct {
	Baby    int `json:"baby"`
	Child   int `json:"child"`
	Booster int `json:"booster"`
}

type BookingResponse struct {
	Code          string     `json:"code"`
	Pickup        string     `json:"pickup"`
	Dropoff       string     `json:"dropoff"`
	Address       string     `json:"address"`
	PickupDate    string     `json:"pickup_date"`
	PickupTime    string     `json:"pickup_time"`
	FlightNumber  string     `json:"flight_number,omitempty"`
	Passengers    int        `json:"passengers"`
	Suitcases     int        `json:"suitcases"`
	HandLuggage   int        `json:"hand_luggage"`
	ChildSeats    ChildSeats `json:"child_seats"`
	VehicleID     string     `json:"vehicle_id"`
	VehicleName   string     `json:"vehicle_name,omitempty"`
	Price         int        `json:"price"`
	ContactName   string     `json:"contact_name"`
	ContactEmail  string     `json:"contact_email"`
	ContactPhone  string     `json:"contact_phone"`
	PaymentMethod string     `json:"payment_method"`
	Status        string     `json:"status"`
	PaymentStatus string     `json:"payment_status,omitempty"`
	CheckoutURL   string     `json:"checkout_url,omitempty"`
	DriverName    string     `json:"driver_name,omitempty"`
	DriverPhone   string     `json:"driver_phone,omitempty"`
	Rating        int        `json:"rating,omitempty"`
	ReminderSet   bool       `json:"reminder_set"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type BookingsList struct {
	Total    int64             `json:"total"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
	Bookings []BookingResponse `json:"bookings"`
}
