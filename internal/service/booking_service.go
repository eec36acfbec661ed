package service

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"vieride/internal/booking"
	"vieride/internal/db"
	"vieride/internal/entities"
	"vieride/internal/repository"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"

	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

// cancelCutoff is how close to pickup a booking can still be cancelled.
const cancelCutoff = 2 * time.Hour

type BookingService struct {
	Repo          *repository.BookingRepository
	Drivers       *repository.DriverRepository
	stripeService *StripeService
	catalog       *booking.Catalog
}

func NewBookingService(repo *repository.BookingRepository, drivers *repository.DriverRepository, stripeService *StripeService, catalog *booking.Catalog) *BookingService {
	return &BookingService{
		Repo:          repo,
		Drivers:       drivers,
		stripeService: stripeService,
		catalog:       catalog,
	}
}

func newBookingCode() string {
	return fmt.Sprintf("VIE-%08X", time.Now().UnixNano()%0xFFFFFFFF)
}

// Save persists a finalized booking from the wizard. An empty ID inserts, a
// present one updates in place. Card bookings additionally open a Stripe
// Checkout session; the booking stays pending until the webhook confirms the
// payment.
func (s *BookingService) Save(ctx context.Context, rec *booking.Record) (*booking.Record, error) {
	if rec.ID != "" {
		row := rowFromRecord(rec)
		if err := s.Repo.UpdateBooking(row); err != nil {
			return nil, err
		}
		updated, err := s.Repo.GetByID(rec.ID)
		if err != nil {
			return nil, err
		}
		return recordFromRow(updated), nil
	}

	row := rowFromRecord(rec)
	row.ID = uuid.NewString()
	row.Code = newBookingCode()
	row.CreatedAt = time.Now().UTC()
	row.UpdatedAt = row.CreatedAt

	checkoutURL := ""
	if rec.PaymentMethod == booking.PayCard {
		url, sessionID, err := s.stripeService.CreateCheckoutSession(
			int64(rec.Price)*100, "eur", row.Code, rec.ContactEmail)
		if err != nil {
			return nil, fmt.Errorf("could not open checkout session: %w", err)
		}
		checkoutURL = url
		row.StripeSessionID = sql.NullString{String: sessionID, Valid: true}
		row.PaymentStatus = sql.NullString{String: PaymentPending, Valid: true}
		row.Status = StatusPending
	}

	if err := s.Repo.CreateBooking(row); err != nil {
		log.Printf("Error creating booking in repository: %v", err)
		return nil, err
	}

	saved := recordFromRow(row)
	saved.CheckoutURL = checkoutURL
	return saved, nil
}

// RecordByCode loads a booking as a wizard record, checking ownership. Used
// to seed the wizard when a customer modifies an existing booking.
func (s *BookingService) RecordByCode(code, accountID string) (*booking.Record, error) {
	row, err := s.Repo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if !ownedBy(row, accountID) {
		return nil, fmt.Errorf("booking %s does not belong to this account", code)
	}
	return recordFromRow(row), nil
}

func ownedBy(row *db.Booking, accountID string) bool {
	return accountID != "" && row.AccountID.Valid && row.AccountID.String == accountID
}

func (s *BookingService) GetBooking(code, accountID string) (*entities.BookingResponse, error) {
	row, err := s.Repo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if !ownedBy(row, accountID) {
		return nil, fmt.Errorf("booking %s does not belong to this account", code)
	}
	resp := s.toResponse(row)
	return &resp, nil
}

func (s *BookingService) ListBookings(accountID string, limit, offset int) (*entities.BookingsList, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, total, err := s.Repo.ListByAccount(accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	list := &entities.BookingsList{Total: total, Limit: limit, Offset: offset}
	for i := range rows {
		list.Bookings = append(list.Bookings, s.toResponse(&rows[i]))
	}
	return list, nil
}

// CancelBooking cancels a customer's booking. Cancellation closes at two
// hours before pickup; paid card bookings are refunded through Stripe.
func (s *BookingService) CancelBooking(code, accountID string) error {
	row, err := s.Repo.GetByCode(code)
	if err != nil {
		return err
	}
	if !ownedBy(row, accountID) {
		return fmt.Errorf("booking %s does not belong to this account", code)
	}
	if row.Status == StatusCancelled || row.Status == StatusCompleted {
		return fmt.Errorf("booking %s is already %s", code, row.Status)
	}

	pickup, err := time.ParseInLocation("2006-01-02T15:04", row.PickupDate+"T"+row.PickupTime, viennaLocation())
	if err == nil && time.Until(pickup) < cancelCutoff {
		return fmt.Errorf("bookings can only be cancelled more than %d hours before pickup", int(cancelCutoff.Hours()))
	}

	if row.PaymentStatus.Valid && row.PaymentStatus.String == PaymentPaid && row.StripeSessionID.Valid {
		if err := s.stripeService.RefundPaymentBySessionID(row.StripeSessionID.String); err != nil {
			return fmt.Errorf("could not refund payment: %w", err)
		}
	}

	return s.Repo.SetStatus(row.ID, StatusCancelled)
}

// RateBooking records a 1-5 rating; only completed trips can be rated.
func (s *BookingService) RateBooking(code, accountID string, rating int, comment string) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5")
	}
	row, err := s.Repo.GetByCode(code)
	if err != nil {
		return err
	}
	if !ownedBy(row, accountID) {
		return fmt.Errorf("booking %s does not belong to this account", code)
	}
	if row.Status != StatusCompleted {
		return fmt.Errorf("only completed trips can be rated")
	}
	return s.Repo.SetRating(row.ID, rating, comment)
}

func (s *BookingService) SetReminder(code, accountID string, set bool) error {
	row, err := s.Repo.GetByCode(code)
	if err != nil {
		return err
	}
	if !ownedBy(row, accountID) {
		return fmt.Errorf("booking %s does not belong to this account", code)
	}
	if row.Status != StatusConfirmed && row.Status != StatusPending {
		return fmt.Errorf("reminders only apply to upcoming bookings")
	}
	return s.Repo.SetReminder(row.ID, set)
}

func (s *BookingService) ListAll(date, vehicleID, status string) ([]entities.BookingResponse, error) {
	rows, err := s.Repo.ListAll(date, vehicleID, status)
	if err != nil {
		return nil, err
	}
	out := make([]entities.BookingResponse, 0, len(rows))
	for i := range rows {
		out = append(out, s.toResponse(&rows[i]))
	}
	return out, nil
}

func (s *BookingService) SetStatus(code, status string) error {
	switch status {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
	default:
		return fmt.Errorf("unknown status %q", status)
	}
	row, err := s.Repo.GetByCode(code)
	if err != nil {
		return err
	}
	return s.Repo.SetStatus(row.ID, status)
}

func (s *BookingService) AssignDriver(code, driverID string) error {
	row, err := s.Repo.GetByCode(code)
	if err != nil {
		return err
	}
	assigned := sql.NullString{}
	if driverID != "" {
		driver, err := s.Drivers.GetByID(driverID)
		if err != nil {
			return err
		}
		if !driver.Active {
			return fmt.Errorf("driver %s is not active", driverID)
		}
		assigned = sql.NullString{String: driverID, Valid: true}
	}
	return s.Repo.AssignDriver(row.ID, assigned)
}

// ConfirmPaymentBySessionID marks a card booking paid once its checkout
// session completes and returns the booking for notification.
func (s *BookingService) ConfirmPaymentBySessionID(sessionID string) (*booking.Record, error) {
	if err := s.Repo.UpdateStatusAndPaymentBySessionID(sessionID, StatusConfirmed, PaymentPaid); err != nil {
		return nil, err
	}
	row, err := s.Repo.GetByStripeSessionID(sessionID)
	if err != nil {
		return nil, err
	}
	return recordFromRow(row), nil
}

func (s *BookingService) MarkRefundedBySessionID(sessionID string) error {
	return s.Repo.UpdateStatusAndPaymentBySessionID(sessionID, StatusCancelled, PaymentRefunded)
}

func (s *BookingService) GetBySessionID(sessionID string) (*entities.BookingResponse, error) {
	row, err := s.Repo.GetByStripeSessionID(sessionID)
	if err != nil {
		return nil, err
	}
	resp := s.toResponse(row)
	return &resp, nil
}

func (s *BookingService) toResponse(row *db.Booking) entities.BookingResponse {
	resp := entities.BookingResponse{
		Code:       row.Code,
		Pickup:     row.Pickup,
		Dropoff:    row.Dropoff,
		Address:    row.Address,
		PickupDate: row.PickupDate,
		PickupTime: row.PickupTime,
		Passengers: row.Passengers,
		Suitcases:  row.Suitcases,
		HandLuggage: row.HandLuggage,
		ChildSeats: entities.ChildSeats{
			Baby:    row.SeatsBaby,
			Child:   row.SeatsChild,
			Booster: row.SeatsBooster,
		},
		VehicleID:     row.VehicleID,
		Price:         row.Price,
		ContactName:   row.ContactName,
		ContactEmail:  row.ContactEmail,
		ContactPhone:  row.ContactPhone,
		PaymentMethod: row.PaymentMethod,
		Status:        row.Status,
		ReminderSet:   row.ReminderSet,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
	if v, ok := s.catalog.VehicleByID(row.VehicleID); ok {
		resp.VehicleName = v.Name
	}
	if row.FlightNumber.Valid {
		resp.FlightNumber = row.FlightNumber.String
	}
	if row.PaymentStatus.Valid {
		resp.PaymentStatus = row.PaymentStatus.String
	}
	if row.Rating.Valid {
		resp.Rating = int(row.Rating.Int64)
	}
	if row.DriverID.Valid && s.Drivers != nil {
		if driver, err := s.Drivers.GetByID(row.DriverID.String); err == nil {
			resp.DriverName = driver.Name
			resp.DriverPhone = driver.Phone
		}
	}
	return resp
}

func rowFromRecord(rec *booking.Record) *db.Booking {
	row := &db.Booking{
		ID:            rec.ID,
		Code:          rec.Code,
		Pickup:        rec.Pickup,
		Dropoff:       rec.Dropoff,
		Address:       rec.Address,
		PickupDate:    rec.Date,
		PickupTime:    rec.Time,
		Passengers:    rec.Passengers,
		Suitcases:     rec.Suitcases,
		HandLuggage:   rec.HandLuggage,
		SeatsBaby:     rec.ChildSeats.Baby,
		SeatsChild:    rec.ChildSeats.Child,
		SeatsBooster:  rec.ChildSeats.Booster,
		VehicleID:     rec.VehicleID,
		Price:         rec.Price,
		ContactName:   rec.ContactName,
		ContactEmail:  rec.ContactEmail,
		ContactPhone:  rec.ContactPhone,
		PaymentMethod: string(rec.PaymentMethod),
		Status:        rec.Status,
		ReminderSet:   rec.ReminderSet,
	}
	if rec.AccountID != "" {
		row.AccountID = sql.NullString{String: rec.AccountID, Valid: true}
	}
	if rec.FlightNumber != "" {
		row.FlightNumber = sql.NullString{String: rec.FlightNumber, Valid: true}
	}
	return row
}

func recordFromRow(row *db.Booking) *booking.Record {
	rec := &booking.Record{
		ID:          row.ID,
		Code:        row.Code,
		Pickup:      row.Pickup,
		Dropoff:     row.Dropoff,
		Address:     row.Address,
		Date:        row.PickupDate,
		Time:        row.PickupTime,
		Passengers:  row.Passengers,
		Suitcases:   row.Suitcases,
		HandLuggage: row.HandLuggage,
		ChildSeats: booking.ChildSeats{
			Baby:    row.SeatsBaby,
			Child:   row.SeatsChild,
			Booster: row.SeatsBooster,
		},
		VehicleID:     row.VehicleID,
		Price:         row.Price,
		ContactName:   row.ContactName,
		ContactEmail:  row.ContactEmail,
		ContactPhone:  row.ContactPhone,
		PaymentMethod: booking.PaymentMethod(row.PaymentMethod),
		Status:        row.Status,
		ReminderSet:   row.ReminderSet,
	}
	if row.AccountID.Valid {
		rec.AccountID = row.AccountID.String
	}
	if row.FlightNumber.Valid {
		rec.FlightNumber = row.FlightNumber.String
	}
	return rec
}
