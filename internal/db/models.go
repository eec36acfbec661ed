package db

import (
	"database/sql"
	"time"
)

type Booking struct {
	ID           string
	Code         string
	AccountID    sql.NullString
	Pickup       string
	Dropoff      string
	Address      string
	PickupDate   string
	PickupTime   string
	FlightNumber sql.NullString

	Passengers   int
	Suitcases    int
	HandLuggage  int
	SeatsBaby    int
	SeatsChild   int
	SeatsBooster int

	VehicleID string
	Price     int

	ContactName   string
	ContactEmail  string
	ContactPhone  string
	PaymentMethod string

	Status          string
	PaymentStatus   sql.NullString
	StripeSessionID sql.NullString
	DriverID        sql.NullString
	Rating          sql.NullInt64
	RatingComment   sql.NullString
	ReminderSet     bool
	ReminderSentAt  sql.NullTime

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Account struct {
	ID              string
	Name            string
	Email           string
	Phone           string
	PasswordHash    string
	Role            string
	HomeAddress     sql.NullString
	BusinessAddress sql.NullString
	CompanyID       sql.NullString
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Company struct {
	ID              string
	Name            string
	JoinCode        string
	DiscountPercent int
	InvoiceEnabled  bool
	CreatedAt       time.Time
}

type Driver struct {
	ID        string
	Name      string
	Phone     string
	Plate     string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
