package booking

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu       sync.Mutex
	inserts  int
	updates  int
	failNext int
	delay    time.Duration
	saved    []*Record
}

func (s *fakeStore) Save(ctx context.Context, rec *Record) (*Record, error) {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failNext > 0 {
		s.failNext--
		return nil, fmt.Errorf("store unavailable")
	}
	out := *rec
	if out.ID == "" {
		s.inserts++
		out.ID = fmt.Sprintf("bk-%d", s.inserts)
		out.Code = fmt.Sprintf("VIE%04d", s.inserts)
	} else {
		s.updates++
	}
	s.saved = append(s.saved, &out)
	return &out, nil
}

type fakeNotifier struct {
	mu   sync.Mutex
	err  error
	sent []*Record
}

func (n *fakeNotifier) SendConfirmation(ctx context.Context, rec *Record) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, rec)
	return nil
}

type fakeSuggester struct {
	fn func(ctx context.Context, city, partial string) ([]string, error)
}

func (s *fakeSuggester) Suggest(ctx context.Context, city, partial string) ([]string, error) {
	return s.fn(ctx, city, partial)
}

var testNow = func() time.Time {
	return time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
}

func newTestWizard(t *testing.T, cfg Config) *Wizard {
	t.Helper()
	if cfg.Catalog == nil {
		cfg.Catalog = DefaultCatalog()
	}
	if cfg.Store == nil {
		cfg.Store = &fakeStore{}
	}
	if cfg.Now == nil {
		cfg.Now = testNow
	}
	w, err := NewWizard(cfg)
	require.NoError(t, err)
	return w
}

// fillTrip enters a valid trip toward Vienna the next day.
func fillTrip(w *Wizard) {
	w.SetDirection(ToAirport)
	w.SetCity("Vienna")
	w.SetAddress("Stephansplatz 1")
	w.SetDate("2026-03-11")
	w.SetTime("10:00")
}

func TestWizardHappyPath(t *testing.T) {
	store := &fakeStore{}
	notifier := &fakeNotifier{}
	w := newTestWizard(t, Config{Store: store, Notifier: notifier})

	assert.Equal(t, StageTripDetails, w.Stage())
	fillTrip(w)
	require.NoError(t, w.Next())
	assert.Equal(t, StageVehicleSelection, w.Stage())

	w.SetPassengers(2)
	w.SetSuitcases(1)
	w.SetHandLuggage(1)
	state := w.State()
	assert.Equal(t, "eco", state.VehicleID)
	assert.False(t, state.VehicleOverride)

	require.NoError(t, w.Next())
	assert.Equal(t, StageCheckout, w.Stage())

	w.SetContact("Anna Maier", "anna@example.com", "+43 1 234 5678")
	rec, err := w.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StageSubmitted, w.Stage())

	assert.Equal(t, "Vienna", rec.Pickup)
	assert.Equal(t, Airport, rec.Dropoff)
	assert.Equal(t, "eco", rec.VehicleID)
	assert.Equal(t, 71, rec.Price)
	assert.Equal(t, "confirmed", rec.Status)
	assert.Empty(t, rec.FlightNumber, "flight numbers only apply to airport pickups")

	assert.Equal(t, 1, store.inserts)
	assert.Equal(t, 0, store.updates)
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, rec.ID, notifier.sent[0].ID)
}

func TestTripDetailsGuards(t *testing.T) {
	w := newTestWizard(t, Config{})

	// Address missing.
	w.SetDirection(ToAirport)
	w.SetCity("Vienna")
	w.SetDate("2026-03-11")
	w.SetTime("10:00")
	err := w.Next()
	require.Error(t, err)
	assert.Equal(t, StageTripDetails, w.Stage())
	assert.Equal(t, CodeAddressRequired, w.State().FieldErrors[FieldAddress])

	// Airport pickup needs a flight number.
	w.SetAddress("Stephansplatz 1")
	w.SetDirection(FromAirport)
	err = w.Next()
	require.Error(t, err)
	assert.Equal(t, CodeFlightRequired, w.State().FieldErrors[FieldFlight])

	w.SetFlightNumber("OS 123")
	require.NoError(t, w.Next())
}

func TestTripDetailsLeadTimeGuard(t *testing.T) {
	w := newTestWizard(t, Config{})
	fillTrip(w)
	w.SetDate("2026-03-10")
	w.SetTime("09:00") // one hour of notice, day rule needs two
	err := w.Next()
	require.Error(t, err)
	assert.Equal(t, StageTripDetails, w.Stage())
	assert.Equal(t, CodeLeadTimeDay, w.State().FieldErrors[FieldTime])

	// Fixing the time clears the guard on the next attempt.
	w.SetTime("11:00")
	require.NoError(t, w.Next())
	assert.Empty(t, w.State().FieldErrors)
}

func TestVehicleSelectionGuards(t *testing.T) {
	w := newTestWizard(t, Config{})
	fillTrip(w)
	require.NoError(t, w.Next())

	err := w.Next()
	require.Error(t, err)
	assert.Equal(t, CodeDetailsRequired, w.State().FieldErrors[FieldDetails])
	assert.Equal(t, StageVehicleSelection, w.Stage())

	w.SetPassengers(9)
	w.SetSuitcases(0)
	w.SetHandLuggage(0)
	state := w.State()
	assert.True(t, state.NoVehicleFits)
	assert.Empty(t, state.VehicleID)
	err = w.Next()
	require.Error(t, err)
	assert.Equal(t, CodeNoVehicleFits, w.State().FieldErrors[FieldVehicle])

	w.SetPassengers(2)
	require.NoError(t, w.Next())
}

func TestOverridePreservedWhileItFits(t *testing.T) {
	w := newTestWizard(t, Config{})
	fillTrip(w)
	require.NoError(t, w.Next())

	w.SetPassengers(2)
	w.SetSuitcases(1)
	w.SetHandLuggage(0)
	assert.Equal(t, "eco", w.State().VehicleID)

	require.NoError(t, w.SelectVehicle("biz"))
	state := w.State()
	assert.Equal(t, "biz", state.VehicleID)
	assert.True(t, state.VehicleOverride)

	// Growing the load within the override's capacity keeps it.
	w.SetPassengers(4)
	state = w.State()
	assert.Equal(t, "biz", state.VehicleID)
	assert.True(t, state.VehicleOverride)

	// Outgrowing every class clears the choice entirely.
	w.SetPassengers(9)
	state = w.State()
	assert.Empty(t, state.VehicleID)
	assert.True(t, state.NoVehicleFits)

	// Shrinking back re-selects automatically; the old override is gone.
	w.SetPassengers(2)
	state = w.State()
	assert.Equal(t, "eco", state.VehicleID)
	assert.False(t, state.VehicleOverride)
}

func TestOverrideTooSmallRejected(t *testing.T) {
	w := newTestWizard(t, Config{})
	fillTrip(w)
	require.NoError(t, w.Next())
	w.SetPassengers(5)
	w.SetSuitcases(0)
	w.SetHandLuggage(0)
	assert.Equal(t, "biz", w.State().VehicleID)

	err := w.SelectVehicle("eco")
	require.Error(t, err)
	state := w.State()
	assert.Equal(t, CodeVehicleTooSmall, state.FieldErrors[FieldVehicle])
	assert.Equal(t, "biz", state.VehicleID, "rejected override leaves the choice untouched")
}

func toCheckout(t *testing.T, w *Wizard) {
	t.Helper()
	fillTrip(w)
	require.NoError(t, w.Next())
	w.SetPassengers(2)
	w.SetSuitcases(1)
	w.SetHandLuggage(1)
	require.NoError(t, w.Next())
	w.SetContact("Anna Maier", "anna@example.com", "+43 1 234 5678")
}

func TestSubmitStoreFailureKeepsCheckout(t *testing.T) {
	store := &fakeStore{failNext: 1}
	w := newTestWizard(t, Config{Store: store})
	toCheckout(t, w)

	_, err := w.Submit(context.Background())
	require.ErrorIs(t, err, ErrSubmitFailed)
	state := w.State()
	assert.Equal(t, StageCheckout, state.Stage)
	assert.True(t, state.SubmitFailed)
	assert.Equal(t, "Stephansplatz 1", state.Draft.Address, "draft survives a failed submit")

	rec, err := w.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StageSubmitted, w.Stage())
	assert.Equal(t, 1, store.inserts, "the retry produces exactly one booking")
	assert.NotEmpty(t, rec.Code)
}

func TestConcurrentSubmitInsertsOnce(t *testing.T) {
	store := &fakeStore{delay: 100 * time.Millisecond}
	w := newTestWizard(t, Config{Store: store})
	toCheckout(t, w)

	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := w.Submit(context.Background())
			errs <- err
		}()
	}
	first, second := <-errs, <-errs

	require.Equal(t, 1, store.inserts, "a double-click must not create two bookings")
	if first == nil {
		require.Error(t, second)
	} else {
		require.NoError(t, second)
	}
	assert.Equal(t, StageSubmitted, w.Stage())
}

func TestSubmitNotifyFailureStillSubmits(t *testing.T) {
	store := &fakeStore{}
	notifier := &fakeNotifier{err: fmt.Errorf("smtp down")}
	w := newTestWizard(t, Config{Store: store, Notifier: notifier})
	toCheckout(t, w)

	rec, err := w.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StageSubmitted, w.Stage())
	assert.NotNil(t, rec)
	assert.Equal(t, 1, store.inserts)
}

func TestSubmitContactGuards(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		phone    string
		wantCode string
	}{
		{"bad email", "anna-at-example.com", "+43 1 234 5678", CodeInvalidEmail},
		{"space in email", "a @b.co", "+43 1 234 5678", CodeInvalidEmail},
		{"bad phone", "anna@example.com", "abc123", CodeInvalidPhone},
		{"short phone", "anna@example.com", "123456", CodeInvalidPhone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWizard(t, Config{})
			toCheckout(t, w)
			w.SetContact("Anna Maier", tt.email, tt.phone)
			_, err := w.Submit(context.Background())
			require.Error(t, err)
			assert.Equal(t, StageCheckout, w.Stage())
			assert.Equal(t, tt.wantCode, w.State().FieldErrors[FieldContact])
		})
	}
}

func TestEditingBookingUpdatesInPlace(t *testing.T) {
	store := &fakeStore{}
	existing := &Record{
		ID:            "bk-7",
		Code:          "VIE0007",
		Pickup:        Airport,
		Dropoff:       "Vienna",
		Address:       "Stephansplatz 1",
		Date:          "2026-03-11",
		Time:          "10:00",
		FlightNumber:  "OS 123",
		Passengers:    2,
		Suitcases:     1,
		HandLuggage:   1,
		VehicleID:     "eco",
		ContactName:   "Anna Maier",
		ContactEmail:  "anna@example.com",
		ContactPhone:  "+43 1 234 5678",
		PaymentMethod: PayCash,
	}
	w := newTestWizard(t, Config{Store: store, Existing: existing})

	state := w.State()
	assert.Equal(t, FromAirport, state.Draft.Direction)
	assert.Equal(t, "Vienna", state.Draft.DestinationCity)
	assert.Equal(t, "OS 123", state.Draft.FlightNumber)
	assert.True(t, w.IsUpdate())

	require.NoError(t, w.Next())
	require.NoError(t, w.Next())
	rec, err := w.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "bk-7", rec.ID)
	assert.Equal(t, 0, store.inserts)
	assert.Equal(t, 1, store.updates)
}

func TestEditingRetryAfterStoreFailureUpdatesOnce(t *testing.T) {
	store := &fakeStore{failNext: 1}
	existing := &Record{
		ID:            "bk-7",
		Code:          "VIE0007",
		Pickup:        Airport,
		Dropoff:       "Vienna",
		Address:       "Stephansplatz 1",
		Date:          "2026-03-11",
		Time:          "10:00",
		FlightNumber:  "OS 123",
		Passengers:    2,
		Suitcases:     1,
		HandLuggage:   1,
		VehicleID:     "eco",
		ContactName:   "Anna Maier",
		ContactEmail:  "anna@example.com",
		ContactPhone:  "+43 1 234 5678",
		PaymentMethod: PayCash,
	}
	w := newTestWizard(t, Config{Store: store, Existing: existing})

	require.NoError(t, w.Next())
	require.NoError(t, w.Next())
	_, err := w.Submit(context.Background())
	require.ErrorIs(t, err, ErrSubmitFailed)
	assert.Equal(t, StageCheckout, w.Stage())

	rec, err := w.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "bk-7", rec.ID)
	assert.Equal(t, 0, store.inserts, "resubmitting an edit never duplicates the booking")
	assert.Equal(t, 1, store.updates)
}

func TestInvoiceRequiresCorporateAccount(t *testing.T) {
	w := newTestWizard(t, Config{})
	err := w.SetPaymentMethod(PayInvoice)
	require.Error(t, err)
	assert.Equal(t, CodeInvoiceCorpOnly, w.State().FieldErrors[FieldPayment])
	assert.Equal(t, PayCash, w.State().Draft.PaymentMethod)

	corp := &Account{
		ID: "acc-1", Name: "Max Huber", Email: "max@corp.example",
		Phone: "+43 664 123 4567", Corporate: true, DiscountPercent: 10,
	}
	w = newTestWizard(t, Config{Account: corp})
	state := w.State()
	assert.Equal(t, PayInvoice, state.Draft.PaymentMethod, "corporate accounts default to invoice billing")
	require.NoError(t, w.SetPaymentMethod(PayInvoice))
}

func TestCorporateDiscountInQuotes(t *testing.T) {
	corp := &Account{ID: "acc-1", Corporate: true, DiscountPercent: 10}
	store := &fakeStore{}
	w := newTestWizard(t, Config{Store: store, Account: corp})

	quotes := w.State().Quotes
	require.NotEmpty(t, quotes)
	assert.Equal(t, 71, quotes[0].Gross)
	assert.Equal(t, 64, quotes[0].Net)

	toCheckout(t, w)
	require.NoError(t, w.SetPaymentMethod(PayInvoice))
	rec, err := w.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 64, rec.Price, "the booked price is the discounted one")
	assert.Equal(t, "acc-1", rec.AccountID)
}

func TestDirectionToggleClearsFlightNumber(t *testing.T) {
	w := newTestWizard(t, Config{})
	require.NoError(t, w.SetDirection(FromAirport))
	w.SetFlightNumber("OS 123")
	require.NoError(t, w.SetDirection(ToAirport))
	assert.Empty(t, w.State().Draft.FlightNumber)
}

func TestCityChangeResetsAddress(t *testing.T) {
	w := newTestWizard(t, Config{})
	w.SetAddress("Stephansplatz 1")
	w.SetCity("Baden bei Wien")
	state := w.State()
	assert.Empty(t, state.Draft.Address)
	assert.Equal(t, "Baden bei Wien", state.Draft.DestinationCity)
}

func TestBackKeepsEnteredData(t *testing.T) {
	w := newTestWizard(t, Config{})
	fillTrip(w)
	require.NoError(t, w.Next())
	w.SetPassengers(2)
	w.SetSuitcases(1)
	w.SetHandLuggage(0)

	require.NoError(t, w.Back())
	state := w.State()
	assert.Equal(t, StageTripDetails, state.Stage)
	assert.Equal(t, "Stephansplatz 1", state.Draft.Address)

	require.NoError(t, w.Next())
	state = w.State()
	assert.Equal(t, 2, state.Draft.Passengers.Value())
	assert.Equal(t, "eco", state.VehicleID)

	assert.Error(t, w.Back(), "the first stage has nothing to go back to")
}

func TestDebouncedSuggestions(t *testing.T) {
	sug := &fakeSuggester{fn: func(ctx context.Context, city, partial string) ([]string, error) {
		return []string{partial + "platz 1, " + city}, nil
	}}
	w := newTestWizard(t, Config{Suggester: sug, Debounce: 5 * time.Millisecond})
	w.SetCity("Vienna")
	w.SetAddress("Stephans")

	assert.Eventually(t, func() bool {
		s := w.State().Suggestions
		return len(s) == 1 && s[0] == "Stephansplatz 1, Vienna"
	}, time.Second, 5*time.Millisecond)
}

func TestShortInputSkipsSuggestions(t *testing.T) {
	var calls int
	var mu sync.Mutex
	sug := &fakeSuggester{fn: func(ctx context.Context, city, partial string) ([]string, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		return []string{"x"}, nil
	}}
	w := newTestWizard(t, Config{Suggester: sug, Debounce: time.Millisecond})
	w.SetAddress("St")
	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Zero(t, calls)
	assert.Empty(t, w.State().Suggestions)
}

func TestStaleSuggestionDropped(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	done := make(chan struct{})
	sug := &fakeSuggester{fn: func(ctx context.Context, city, partial string) ([]string, error) {
		close(started)
		<-release
		defer close(done)
		return []string{"Stale Street 1"}, nil
	}}
	w := newTestWizard(t, Config{Suggester: sug, Debounce: time.Millisecond})
	w.SetAddress("Stephans")
	<-started

	// The customer picks an entry while the lookup is still in flight.
	w.SelectSuggestion("Stephansplatz 1, Vienna")
	close(release)
	<-done

	assert.Eventually(t, func() bool {
		state := w.State()
		return state.Draft.Address == "Stephansplatz 1, Vienna" && len(state.Suggestions) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestSynchronousSuggestSupersedesPending(t *testing.T) {
	var mu sync.Mutex
	responses := map[string][]string{
		"Stephans":  {"Stephansplatz 1, Vienna"},
		"Stephansp": {"Stephansplatz 2, Vienna"},
	}
	sug := &fakeSuggester{fn: func(ctx context.Context, city, partial string) ([]string, error) {
		mu.Lock()
		defer mu.Unlock()
		return responses[partial], nil
	}}
	w := newTestWizard(t, Config{Suggester: sug, Debounce: time.Hour})

	w.SetAddress("Stephans") // debounced, never fires during the test
	w.SetAddress("Stephansp")
	got, err := w.Suggest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Stephansplatz 2, Vienna"}, got)
	assert.Equal(t, got, w.State().Suggestions)
}
