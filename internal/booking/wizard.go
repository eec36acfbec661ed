package booking

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"
)

type Stage string

const (
	StageTripDetails      Stage = "trip_details"
	StageVehicleSelection Stage = "vehicle_selection"
	StageCheckout         Stage = "checkout"
	StageSubmitted        Stage = "submitted"
)

const (
	defaultDebounce    = 600 * time.Millisecond
	defaultCallTimeout = 12 * time.Second
)

// ErrSubmitFailed is the operation-level failure surfaced when the store
// rejects or times out. Field-level problems never use it.
var ErrSubmitFailed = fmt.Errorf("booking submission failed")

type Config struct {
	Catalog   *Catalog
	Store     Store
	Notifier  Notifier
	Suggester Suggester

	// Account is the signed-in customer, nil for guests.
	Account *Account

	// Existing pre-populates the draft for modifying a booking.
	Existing *Record

	// Debounce gates address suggestion lookups; CallTimeout bounds every
	// external call. Zero values take the nominal defaults (600ms, 12s).
	Debounce    time.Duration
	CallTimeout time.Duration

	Now func() time.Time

	// OnStageChange is the "bring the active step into view" affordance.
	// Optional, called outside the wizard's lock.
	OnStageChange func(Stage)
}

// Wizard sequences the three-stage booking flow around the pricing and
// eligibility rules. All mutation happens under one mutex; the draft is owned
// by the wizard for its whole lifetime.
type Wizard struct {
	mu sync.Mutex

	cat       *Catalog
	store     Store
	notifier  Notifier
	suggester Suggester
	account   *Account

	debounce    time.Duration
	callTimeout time.Duration
	now         func() time.Time
	onStage     func(Stage)

	stage  Stage
	draft  TripDraft
	choice vehicleChoice
	noFit  bool

	// fieldErrs maps a field to its guard violation code.
	fieldErrs    map[string]string
	submitFailed bool

	// submitting guards the window where Submit runs the store call outside
	// the lock, so a double-click cannot insert twice.
	submitting bool

	suggestions  []string
	suggestGen   uint64
	suggestTimer *time.Timer

	submitted *Record
}

func NewWizard(cfg Config) (*Wizard, error) {
	if cfg.Catalog == nil {
		return nil, fmt.Errorf("wizard requires a catalog")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("wizard requires a booking store")
	}
	w := &Wizard{
		cat:         cfg.Catalog,
		store:       cfg.Store,
		notifier:    cfg.Notifier,
		suggester:   cfg.Suggester,
		account:     cfg.Account,
		debounce:    cfg.Debounce,
		callTimeout: cfg.CallTimeout,
		now:         cfg.Now,
		onStage:     cfg.OnStageChange,
		stage:       StageTripDetails,
		fieldErrs:   make(map[string]string),
	}
	if w.debounce <= 0 {
		w.debounce = defaultDebounce
	}
	if w.callTimeout <= 0 {
		w.callTimeout = defaultCallTimeout
	}
	if w.now == nil {
		w.now = time.Now
	}
	if cfg.Existing != nil {
		w.prefillFromRecord(cfg.Existing)
	} else {
		w.prefillFromAccount()
	}
	return w, nil
}

func (w *Wizard) prefillFromAccount() {
	w.draft = TripDraft{
		Direction:     FromAirport,
		PaymentMethod: PayCash,
	}
	if len(w.cat.Cities) > 0 {
		w.draft.DestinationCity = w.cat.Cities[0].Name
	}
	if w.account == nil {
		return
	}
	w.draft.ContactName = w.account.Name
	w.draft.ContactEmail = w.account.Email
	w.draft.ContactPhone = w.account.Phone
	w.draft.Address = w.account.HomeAddress
	if w.account.Corporate {
		w.draft.PaymentMethod = PayInvoice
	}
}

func (w *Wizard) prefillFromRecord(rec *Record) {
	direction := ToAirport
	city := rec.Pickup
	if rec.Pickup == Airport {
		direction = FromAirport
		city = rec.Dropoff
	}
	if !w.cat.CityExists(city) && len(w.cat.Cities) > 0 {
		city = w.cat.Cities[0].Name
	}
	w.draft = TripDraft{
		Direction:        direction,
		DestinationCity:  city,
		Address:          rec.Address,
		Date:             rec.Date,
		Time:             rec.Time,
		FlightNumber:     rec.FlightNumber,
		Passengers:       CountOf(rec.Passengers),
		Suitcases:        CountOf(rec.Suitcases),
		HandLuggage:      CountOf(rec.HandLuggage),
		ChildSeats:       rec.ChildSeats,
		ContactName:      rec.ContactName,
		ContactEmail:     rec.ContactEmail,
		ContactPhone:     rec.ContactPhone,
		PaymentMethod:    rec.PaymentMethod,
		EditingBookingID: rec.ID,
	}
	if w.draft.PaymentMethod == "" {
		w.draft.PaymentMethod = PayCash
	}
	w.refreshVehicle()
	if rec.VehicleID != "" {
		if v, ok := w.cat.VehicleByID(rec.VehicleID); ok && v.Fits(w.draft.Passengers.Value(), w.draft.Suitcases.Value()) {
			w.choice = vehicleChoice{id: rec.VehicleID, override: true}
		}
	}
}

// Stage returns the active wizard stage.
func (w *Wizard) Stage() Stage {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stage
}

// Draft returns a snapshot of the in-progress draft.
func (w *Wizard) Draft() TripDraft {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft
}

// State is a consistent snapshot of everything a client needs to render the
// active step.
type State struct {
	Stage           Stage
	Draft           TripDraft
	VehicleID       string
	VehicleOverride bool
	NoVehicleFits   bool
	DistanceKm      int
	Quotes          []Quote
	FieldErrors     map[string]string
	SubmitFailed    bool
	Suggestions     []string
	Submitted       *Record
}

func (w *Wizard) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	errs := make(map[string]string, len(w.fieldErrs))
	for k, v := range w.fieldErrs {
		errs[k] = v
	}
	return State{
		Stage:           w.stage,
		Draft:           w.draft,
		VehicleID:       w.choice.id,
		VehicleOverride: w.choice.override,
		NoVehicleFits:   w.noFit,
		DistanceKm:      w.cat.DistanceKm(w.draft.DestinationCity),
		Quotes:          w.cat.QuoteAll(w.cat.DistanceKm(w.draft.DestinationCity), w.discountPercent()),
		FieldErrors:     errs,
		SubmitFailed:    w.submitFailed,
		Suggestions:     append([]string(nil), w.suggestions...),
		Submitted:       w.submitted,
	}
}

func (w *Wizard) discountPercent() int {
	if w.account != nil && w.account.Corporate {
		return w.account.DiscountPercent
	}
	return 0
}

// SetDirection flips the trip direction. The flight number only applies to
// airport pickups and is cleared on every toggle.
func (w *Wizard) SetDirection(d Direction) error {
	if !d.Valid() {
		return fmt.Errorf("unknown direction %q", d)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.Direction = d
	w.draft.FlightNumber = ""
	delete(w.fieldErrs, FieldFlight)
	return nil
}

// SetCity changes the non-airport endpoint and resets the address, which was
// scoped to the previous city.
func (w *Wizard) SetCity(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.DestinationCity = name
	w.draft.Address = ""
	w.cancelSuggestLocked()
}

// SetAddress updates the free-text address and schedules a debounced
// suggestion lookup.
func (w *Wizard) SetAddress(text string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.Address = text
	delete(w.fieldErrs, FieldAddress)
	w.scheduleSuggestLocked()
}

// SelectSuggestion commits one suggestion as the address. Any in-flight
// lookup becomes stale and its result is dropped.
func (w *Wizard) SelectSuggestion(s string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.Address = s
	delete(w.fieldErrs, FieldAddress)
	w.cancelSuggestLocked()
}

func (w *Wizard) SetDate(date string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.Date = date
	delete(w.fieldErrs, FieldTime)
}

func (w *Wizard) SetTime(clock string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.Time = clock
	delete(w.fieldErrs, FieldTime)
}

func (w *Wizard) SetFlightNumber(number string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.FlightNumber = number
	delete(w.fieldErrs, FieldFlight)
}

func (w *Wizard) SetPassengers(n int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.Passengers = CountOf(n)
	w.refreshVehicle()
}

func (w *Wizard) SetSuitcases(n int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.Suitcases = CountOf(n)
	w.refreshVehicle()
}

func (w *Wizard) SetHandLuggage(n int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.HandLuggage = CountOf(n)
	w.refreshVehicle()
}

func (w *Wizard) SetChildSeats(cs ChildSeats) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.ChildSeats = cs
}

// SelectVehicle records a user override. Overrides are only accepted while
// the class fits the declared load.
func (w *Wizard) SelectVehicle(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	v, ok := w.cat.VehicleByID(id)
	if !ok {
		return fmt.Errorf("unknown vehicle class %q", id)
	}
	if !v.Fits(w.draft.Passengers.Value(), w.draft.Suitcases.Value()) {
		err := fieldErr(FieldVehicle, CodeVehicleTooSmall)
		w.fieldErrs[err.Field] = err.Code
		return err
	}
	w.choice = vehicleChoice{id: id, override: true}
	delete(w.fieldErrs, FieldVehicle)
	return nil
}

func (w *Wizard) SetContact(name, email, phone string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.ContactName = name
	w.draft.ContactEmail = email
	w.draft.ContactPhone = phone
	delete(w.fieldErrs, FieldContact)
}

// SetPaymentMethod selects how the ride is paid. Invoice billing is reserved
// for corporate accounts.
func (w *Wizard) SetPaymentMethod(pm PaymentMethod) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !pm.Valid() {
		return fmt.Errorf("unknown payment method %q", pm)
	}
	if pm == PayInvoice && (w.account == nil || !w.account.Corporate) {
		err := fieldErr(FieldPayment, CodeInvoiceCorpOnly)
		w.fieldErrs[err.Field] = err.Code
		return err
	}
	w.draft.PaymentMethod = pm
	delete(w.fieldErrs, FieldPayment)
	return nil
}

// refreshVehicle recomputes the recommendation after a load change. A user
// override survives while it still fits; otherwise the choice falls back to
// the automatic best fit, or to none when nothing in the catalog is big
// enough.
func (w *Wizard) refreshVehicle() {
	delete(w.fieldErrs, FieldVehicle)
	if !w.draft.DetailsSelected() {
		w.choice = vehicleChoice{}
		w.noFit = false
		return
	}
	pax := w.draft.Passengers.Value()
	bags := w.draft.Suitcases.Value()
	if w.choice.override {
		if v, ok := w.cat.VehicleByID(w.choice.id); ok && v.Fits(pax, bags) {
			w.noFit = false
			return
		}
		w.choice = vehicleChoice{}
	}
	best, ok := w.cat.SelectBest(pax, bags)
	if !ok {
		w.choice = vehicleChoice{}
		w.noFit = true
		return
	}
	w.choice = vehicleChoice{id: best.ID}
	w.noFit = false
}

// Next advances TripDetails to VehicleSelection or VehicleSelection to
// Checkout, enforcing the stage's guards. A guard violation is returned and
// recorded as per-field error state; the stage does not change.
func (w *Wizard) Next() error {
	w.mu.Lock()
	var next Stage
	var err error
	switch w.stage {
	case StageTripDetails:
		err = w.guardTripDetailsLocked()
		next = StageVehicleSelection
	case StageVehicleSelection:
		err = w.guardVehicleSelectionLocked()
		next = StageCheckout
	case StageCheckout:
		err = fmt.Errorf("checkout completes via Submit")
	default:
		err = fmt.Errorf("cannot advance from %s", w.stage)
	}
	if err != nil {
		w.mu.Unlock()
		return err
	}
	w.stage = next
	hook := w.onStage
	w.mu.Unlock()
	if hook != nil {
		hook(next)
	}
	return nil
}

// Back steps to the previous stage. Only VehicleSelection and Checkout can go
// back; entered data is kept.
func (w *Wizard) Back() error {
	w.mu.Lock()
	var prev Stage
	switch w.stage {
	case StageVehicleSelection:
		prev = StageTripDetails
	case StageCheckout:
		prev = StageVehicleSelection
	default:
		w.mu.Unlock()
		return fmt.Errorf("cannot go back from %s", w.stage)
	}
	w.stage = prev
	w.submitFailed = false
	hook := w.onStage
	w.mu.Unlock()
	if hook != nil {
		hook(prev)
	}
	return nil
}

func (w *Wizard) guardTripDetailsLocked() error {
	delete(w.fieldErrs, FieldTime)
	delete(w.fieldErrs, FieldFlight)
	if strings.TrimSpace(w.draft.Address) == "" {
		err := fieldErr(FieldAddress, CodeAddressRequired)
		w.fieldErrs[err.Field] = err.Code
		return err
	}
	if w.draft.Direction == FromAirport && strings.TrimSpace(w.draft.FlightNumber) == "" {
		err := fieldErr(FieldFlight, CodeFlightRequired)
		w.fieldErrs[err.Field] = err.Code
		return err
	}
	if err := ValidateLeadTime(w.draft.Date, w.draft.Time, w.now()); err != nil {
		w.fieldErrs[err.Field] = err.Code
		return err
	}
	return nil
}

func (w *Wizard) guardVehicleSelectionLocked() error {
	if !w.draft.DetailsSelected() {
		err := fieldErr(FieldDetails, CodeDetailsRequired)
		w.fieldErrs[err.Field] = err.Code
		return err
	}
	if w.noFit {
		err := fieldErr(FieldVehicle, CodeNoVehicleFits)
		w.fieldErrs[err.Field] = err.Code
		return err
	}
	if w.choice.id == "" {
		err := fieldErr(FieldVehicle, CodeVehicleRequired)
		w.fieldErrs[err.Field] = err.Code
		return err
	}
	return nil
}

// Submit validates the checkout stage, persists the finalized booking and
// sends the confirmation. Store failure keeps the wizard in Checkout with the
// draft intact so the customer can resubmit; notification failure is logged
// and never rolls the booking back.
func (w *Wizard) Submit(ctx context.Context) (*Record, error) {
	w.mu.Lock()
	if w.stage != StageCheckout {
		w.mu.Unlock()
		return nil, fmt.Errorf("cannot submit from %s", w.stage)
	}
	if w.submitting {
		w.mu.Unlock()
		return nil, fmt.Errorf("submission already in progress")
	}
	w.submitFailed = false
	delete(w.fieldErrs, FieldContact)

	email := strings.TrimSpace(w.draft.ContactEmail)
	phone := strings.TrimSpace(w.draft.ContactPhone)
	if !ValidEmail(email) {
		err := fieldErr(FieldContact, CodeInvalidEmail)
		w.fieldErrs[err.Field] = err.Code
		w.mu.Unlock()
		return nil, err
	}
	if !ValidPhone(phone) {
		err := fieldErr(FieldContact, CodeInvalidPhone)
		w.fieldErrs[err.Field] = err.Code
		w.mu.Unlock()
		return nil, err
	}
	if w.draft.PaymentMethod == PayInvoice && (w.account == nil || !w.account.Corporate) {
		err := fieldErr(FieldPayment, CodeInvoiceCorpOnly)
		w.fieldErrs[err.Field] = err.Code
		w.mu.Unlock()
		return nil, err
	}
	vehicle, ok := w.cat.VehicleByID(w.choice.id)
	if !ok {
		err := fieldErr(FieldVehicle, CodeVehicleRequired)
		w.fieldErrs[err.Field] = err.Code
		w.mu.Unlock()
		return nil, err
	}

	distance := w.cat.DistanceKm(w.draft.DestinationCity)
	quote := w.cat.PriceQuote(vehicle, distance, w.discountPercent())
	rec := &Record{
		ID:            w.draft.EditingBookingID,
		Pickup:        w.draft.Pickup(),
		Dropoff:       w.draft.Dropoff(),
		Address:       w.draft.Address,
		Date:          w.draft.Date,
		Time:          w.draft.Time,
		Passengers:    w.draft.Passengers.Value(),
		Suitcases:     w.draft.Suitcases.Value(),
		HandLuggage:   w.draft.HandLuggage.Value(),
		ChildSeats:    w.draft.ChildSeats,
		VehicleID:     vehicle.ID,
		Price:         quote.Net,
		ContactName:   strings.TrimSpace(w.draft.ContactName),
		ContactEmail:  email,
		ContactPhone:  phone,
		PaymentMethod: w.draft.PaymentMethod,
		Status:        "confirmed",
	}
	if w.draft.Direction == FromAirport {
		rec.FlightNumber = w.draft.FlightNumber
	}
	if w.account != nil {
		rec.AccountID = w.account.ID
	}
	w.submitting = true
	store, notifier, timeout := w.store, w.notifier, w.callTimeout
	w.mu.Unlock()

	saveCtx, cancel := context.WithTimeout(ctx, timeout)
	saved, err := store.Save(saveCtx, rec)
	cancel()
	if err != nil {
		log.Printf("wizard: booking save failed: %v", err)
		w.mu.Lock()
		w.submitting = false
		w.submitFailed = true
		w.mu.Unlock()
		return nil, ErrSubmitFailed
	}

	if notifier != nil {
		notifyCtx, cancel := context.WithTimeout(ctx, timeout)
		if err := notifier.SendConfirmation(notifyCtx, saved); err != nil {
			log.Printf("wizard: confirmation for booking %s failed: %v", saved.Code, err)
		}
		cancel()
	}

	w.mu.Lock()
	w.submitting = false
	w.stage = StageSubmitted
	w.submitted = saved
	w.cancelSuggestLocked()
	hook := w.onStage
	w.mu.Unlock()
	if hook != nil {
		hook(StageSubmitted)
	}
	return saved, nil
}

// IsUpdate reports whether submission carries update semantics.
func (w *Wizard) IsUpdate() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft.EditingBookingID != ""
}
