package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"vieride/internal/db"
)

type BookingRepository struct {
	DB *sql.DB
}

func NewBookingRepository(database *sql.DB) *BookingRepository {
	return &BookingRepository{DB: database}
}

const bookingColumns = `
	id, code, account_id, pickup, dropoff, address, pickup_date, pickup_time, flight_number,
	passengers, suitcases, hand_luggage, seats_baby, seats_child, seats_booster,
	vehicle_id, price, contact_name, contact_email, contact_phone, payment_method,
	status, payment_status, stripe_session_id, driver_id, rating, rating_comment,
	reminder_set, reminder_sent_at, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*db.Booking, error) {
	var b db.Booking
	err := row.Scan(
		&b.ID, &b.Code, &b.AccountID, &b.Pickup, &b.Dropoff, &b.Address, &b.PickupDate, &b.PickupTime, &b.FlightNumber,
		&b.Passengers, &b.Suitcases, &b.HandLuggage, &b.SeatsBaby, &b.SeatsChild, &b.SeatsBooster,
		&b.VehicleID, &b.Price, &b.ContactName, &b.ContactEmail, &b.ContactPhone, &b.PaymentMethod,
		&b.Status, &b.PaymentStatus, &b.StripeSessionID, &b.DriverID, &b.Rating, &b.RatingComment,
		&b.ReminderSet, &b.ReminderSentAt, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepository) CreateBooking(b *db.Booking) error {
	query := `
		INSERT INTO bookings
		(id, code, account_id, pickup, dropoff, address, pickup_date, pickup_time, flight_number,
		 passengers, suitcases, hand_luggage, seats_baby, seats_child, seats_booster,
		 vehicle_id, price, contact_name, contact_email, contact_phone, payment_method,
		 status, payment_status, stripe_session_id, reminder_set, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27)
		RETURNING created_at, updated_at`
	return r.DB.QueryRow(query,
		b.ID,
		b.Code,
		b.AccountID,
		b.Pickup,
		b.Dropoff,
		b.Address,
		b.PickupDate,
		b.PickupTime,
		b.FlightNumber,
		b.Passengers,
		b.Suitcases,
		b.HandLuggage,
		b.SeatsBaby,
		b.SeatsChild,
		b.SeatsBooster,
		b.VehicleID,
		b.Price,
		b.ContactName,
		b.ContactEmail,
		b.ContactPhone,
		b.PaymentMethod,
		b.Status,
		b.PaymentStatus,
		b.StripeSessionID,
		b.ReminderSet,
		b.CreatedAt,
		b.UpdatedAt,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
}

// UpdateBooking rewrites the trip fields of an existing booking. Status and
// payment fields are managed by their own methods.
func (r *BookingRepository) UpdateBooking(b *db.Booking) error {
	query := `
		UPDATE bookings SET
			pickup = $2, dropoff = $3, address = $4, pickup_date = $5, pickup_time = $6, flight_number = $7,
			passengers = $8, suitcases = $9, hand_luggage = $10, seats_baby = $11, seats_child = $12, seats_booster = $13,
			vehicle_id = $14, price = $15, contact_name = $16, contact_email = $17, contact_phone = $18,
			payment_method = $19, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`
	err := r.DB.QueryRow(query,
		b.ID,
		b.Pickup, b.Dropoff, b.Address, b.PickupDate, b.PickupTime, b.FlightNumber,
		b.Passengers, b.Suitcases, b.HandLuggage, b.SeatsBaby, b.SeatsChild, b.SeatsBooster,
		b.VehicleID, b.Price, b.ContactName, b.ContactEmail, b.ContactPhone,
		b.PaymentMethod,
	).Scan(&b.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("booking %s not found: %w", b.ID, err)
		}
		return fmt.Errorf("error updating booking %s: %w", b.ID, err)
	}
	return nil
}

func (r *BookingRepository) GetByID(id string) (*db.Booking, error) {
	query := `SELECT` + bookingColumns + ` FROM bookings WHERE id = $1`
	b, err := scanBooking(r.DB.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("booking %s not found: %w", id, err)
		}
		return nil, fmt.Errorf("error querying booking: %w", err)
	}
	return b, nil
}

func (r *BookingRepository) GetByCode(code string) (*db.Booking, error) {
	query := `SELECT` + bookingColumns + ` FROM bookings WHERE code = $1`
	b, err := scanBooking(r.DB.QueryRow(query, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("booking with code '%s' not found: %w", code, err)
		}
		return nil, fmt.Errorf("error querying booking: %w", err)
	}
	return b, nil
}

func (r *BookingRepository) GetByStripeSessionID(sessionID string) (*db.Booking, error) {
	query := `SELECT` + bookingColumns + ` FROM bookings WHERE stripe_session_id = $1`
	b, err := scanBooking(r.DB.QueryRow(query, sessionID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("no booking for session '%s': %w", sessionID, err)
		}
		return nil, fmt.Errorf("error querying booking by session: %w", err)
	}
	return b, nil
}

func (r *BookingRepository) ListByAccount(accountID string, limit, offset int) ([]db.Booking, int64, error) {
	var total int64
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM bookings WHERE account_id = $1`, accountID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("error counting bookings: %w", err)
	}

	query := `SELECT` + bookingColumns + `
		FROM bookings
		WHERE account_id = $1
		ORDER BY pickup_date DESC, pickup_time DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.DB.Query(query, accountID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing bookings: %w", err)
	}
	defer rows.Close()

	var bookings []db.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning booking row: %w", err)
		}
		bookings = append(bookings, *b)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error after iterating booking rows: %w", err)
	}
	return bookings, total, nil
}

// ListAll returns bookings for the admin view, optionally filtered by pickup
// date, vehicle class and status.
func (r *BookingRepository) ListAll(date, vehicleID, status string) ([]db.Booking, error) {
	query := `SELECT` + bookingColumns + ` FROM bookings WHERE 1=1`
	args := []interface{}{}
	idx := 1

	if date != "" {
		query += " AND pickup_date = $" + strconv.Itoa(idx)
		args = append(args, date)
		idx++
	}
	if vehicleID != "" {
		query += " AND vehicle_id = $" + strconv.Itoa(idx)
		args = append(args, vehicleID)
		idx++
	}
	if status != "" {
		query += " AND status = $" + strconv.Itoa(idx)
		args = append(args, status)
		idx++
	}
	query += " ORDER BY pickup_date DESC, pickup_time DESC"

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing bookings: %w", err)
	}
	defer rows.Close()

	var bookings []db.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning booking row: %w", err)
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func (r *BookingRepository) SetStatus(id, status string) error {
	result, err := r.DB.Exec(`UPDATE bookings SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("error updating booking status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return fmt.Errorf("booking %s not found", id)
	}
	return nil
}

func (r *BookingRepository) UpdateStatusAndPaymentBySessionID(sessionID, status, paymentStatus string) error {
	result, err := r.DB.Exec(
		`UPDATE bookings SET status = $2, payment_status = $3, updated_at = NOW() WHERE stripe_session_id = $1`,
		sessionID, status, paymentStatus,
	)
	if err != nil {
		return fmt.Errorf("error updating payment status for session %s: %w", sessionID, err)
	}
	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return fmt.Errorf("no booking for session %s", sessionID)
	}
	return nil
}

func (r *BookingRepository) SetRating(id string, rating int, comment string) error {
	_, err := r.DB.Exec(
		`UPDATE bookings SET rating = $2, rating_comment = $3, updated_at = NOW() WHERE id = $1`,
		id, rating, comment,
	)
	if err != nil {
		return fmt.Errorf("error saving rating for booking %s: %w", id, err)
	}
	return nil
}

func (r *BookingRepository) SetReminder(id string, set bool) error {
	_, err := r.DB.Exec(`UPDATE bookings SET reminder_set = $2, updated_at = NOW() WHERE id = $1`, id, set)
	if err != nil {
		return fmt.Errorf("error updating reminder flag for booking %s: %w", id, err)
	}
	return nil
}

func (r *BookingRepository) AssignDriver(id string, driverID sql.NullString) error {
	result, err := r.DB.Exec(`UPDATE bookings SET driver_id = $2, updated_at = NOW() WHERE id = $1`, id, driverID)
	if err != nil {
		return fmt.Errorf("error assigning driver to booking %s: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return fmt.Errorf("booking %s not found", id)
	}
	return nil
}
