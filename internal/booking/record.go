package booking

import "context"

// Account is the wizard's view of the signed-in customer, as resolved by the
// account directory. Nil means guest.
type Account struct {
	ID              string
	Name            string
	Email           string
	Phone           string
	HomeAddress     string
	BusinessAddress string
	Corporate       bool
	DiscountPercent int
	InvoiceEnabled  bool
}

// Record is a finalized booking: the accepted draft plus its computed price.
// The wizard hands it to the store on submission; the store fills ID and Code.
type Record struct {
	ID        string
	Code      string
	AccountID string

	Pickup       string
	Dropoff      string
	Address      string
	Date         string
	Time         string
	FlightNumber string

	Passengers  int
	Suitcases   int
	HandLuggage int
	ChildSeats  ChildSeats

	VehicleID string
	Price     int

	ContactName   string
	ContactEmail  string
	ContactPhone  string
	PaymentMethod PaymentMethod

	Status      string
	ReminderSet bool

	// CheckoutURL is set by the store when the payment method requires an
	// online checkout step.
	CheckoutURL string
}

// Store persists finalized bookings. Save inserts when rec.ID is empty and
// updates otherwise; it returns the persisted record with ID and Code set.
type Store interface {
	Save(ctx context.Context, rec *Record) (*Record, error)
}

// Notifier delivers the booking confirmation. Failures must not undo the
// booking; the wizard logs them and moves on.
type Notifier interface {
	SendConfirmation(ctx context.Context, rec *Record) error
}

// Suggester provides best-effort address completion scoped to a city.
type Suggester interface {
	Suggest(ctx context.Context, city, partial string) ([]string, error)
}
