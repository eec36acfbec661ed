package booking

type Direction string

const (
	FromAirport Direction = "from_airport"
	ToAirport   Direction = "to_airport"
)

func (d Direction) Valid() bool {
	return d == FromAirport || d == ToAirport
}

type PaymentMethod string

const (
	PayCash    PaymentMethod = "cash"
	PayCard    PaymentMethod = "card"
	PayInvoice PaymentMethod = "invoice"
)

func (p PaymentMethod) Valid() bool {
	return p == PayCash || p == PayCard || p == PayInvoice
}

// Count is an explicit optional integer. The booking form historically used
// 0-as-unset for passengers and -1-as-unset for luggage; this replaces both
// magic numbers with one unambiguous type.
type Count struct {
	n   int
	set bool
}

func CountOf(n int) Count {
	return Count{n: n, set: true}
}

func (c Count) IsSet() bool {
	return c.set
}

// Value returns the count, or 0 when unset.
func (c Count) Value() int {
	if !c.set {
		return 0
	}
	return c.n
}

// ChildSeats are requested independently of capacity rules.
type ChildSeats struct {
	Baby    int `json:"baby"`
	Child   int `json:"child"`
	Booster int `json:"booster"`
}

// vehicleChoice tracks whether the selected vehicle is the automatic
// recommendation or a deliberate user override. An override survives load
// changes only while it still fits.
type vehicleChoice struct {
	id       string
	override bool
}

// TripDraft is the in-progress booking the wizard assembles. It is owned
// exclusively by one wizard and never persisted mid-flow.
type TripDraft struct {
	Direction       Direction
	DestinationCity string
	Address         string
	Date            string // 2006-01-02
	Time            string // 15:04
	FlightNumber    string // required iff Direction == FromAirport

	Passengers  Count
	Suitcases   Count
	HandLuggage Count
	ChildSeats  ChildSeats

	ContactName   string
	ContactEmail  string
	ContactPhone  string
	PaymentMethod PaymentMethod

	// EditingBookingID marks the draft as a modification of an existing
	// booking; submission then updates instead of inserting.
	EditingBookingID string
}

// Pickup returns the trip's pickup endpoint given the direction.
func (d *TripDraft) Pickup() string {
	if d.Direction == FromAirport {
		return Airport
	}
	return d.DestinationCity
}

// Dropoff returns the trip's dropoff endpoint given the direction.
func (d *TripDraft) Dropoff() string {
	if d.Direction == FromAirport {
		return d.DestinationCity
	}
	return Airport
}

// DetailsSelected reports whether all mandatory stage-two counts are chosen.
func (d *TripDraft) DetailsSelected() bool {
	return d.Passengers.IsSet() && d.Passengers.Value() > 0 &&
		d.Suitcases.IsSet() && d.HandLuggage.IsSet()
}
