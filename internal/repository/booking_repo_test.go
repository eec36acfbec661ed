package repository

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vieride/internal/db"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	database, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database, mock
}

func bookingRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "code", "account_id", "pickup", "dropoff", "address", "pickup_date", "pickup_time", "flight_number",
		"passengers", "suitcases", "hand_luggage", "seats_baby", "seats_child", "seats_booster",
		"vehicle_id", "price", "contact_name", "contact_email", "contact_phone", "payment_method",
		"status", "payment_status", "stripe_session_id", "driver_id", "rating", "rating_comment",
		"reminder_set", "reminder_sent_at", "created_at", "updated_at",
	}).AddRow(
		"bk-1", "VIE-000001", nil, "Vienna", "Vienna International Airport (VIE)", "Stephansplatz 1", "2026-03-11", "10:00", nil,
		2, 1, 1, 0, 0, 0,
		"eco", 71, "Anna Maier", "anna@example.com", "+43 1 234 5678", "cash",
		"confirmed", nil, nil, nil, nil, nil,
		false, nil, now, now,
	)
}

func TestCreateBooking(t *testing.T) {
	database, mock := newMock(t)
	repo := NewBookingRepository(database)

	now := time.Now()
	mock.ExpectQuery("INSERT INTO bookings").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	b := &db.Booking{
		ID: "bk-1", Code: "VIE-000001",
		Pickup: "Vienna", Dropoff: "Vienna International Airport (VIE)",
		Address: "Stephansplatz 1", PickupDate: "2026-03-11", PickupTime: "10:00",
		Passengers: 2, Suitcases: 1, HandLuggage: 1,
		VehicleID: "eco", Price: 71,
		ContactName: "Anna Maier", ContactEmail: "anna@example.com", ContactPhone: "+43 1 234 5678",
		PaymentMethod: "cash", Status: "confirmed",
	}
	require.NoError(t, repo.CreateBooking(b))
	assert.Equal(t, now, b.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByCode(t *testing.T) {
	database, mock := newMock(t)
	repo := NewBookingRepository(database)

	mock.ExpectQuery("SELECT(.+)FROM bookings WHERE code").
		WithArgs("VIE-000001").
		WillReturnRows(bookingRows())

	b, err := repo.GetByCode("VIE-000001")
	require.NoError(t, err)
	assert.Equal(t, "bk-1", b.ID)
	assert.Equal(t, "eco", b.VehicleID)
	assert.False(t, b.FlightNumber.Valid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByCodeNotFound(t *testing.T) {
	database, mock := newMock(t)
	repo := NewBookingRepository(database)

	mock.ExpectQuery("SELECT(.+)FROM bookings WHERE code").
		WithArgs("GONE").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByCode("GONE")
	require.Error(t, err)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestListByAccount(t *testing.T) {
	database, mock := newMock(t)
	repo := NewBookingRepository(database)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs("acc-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT(.+)FROM bookings(.+)WHERE account_id").
		WithArgs("acc-1", 20, 0).
		WillReturnRows(bookingRows())

	bookings, total, err := repo.ListByAccount("acc-1", 20, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, bookings, 1)
	assert.Equal(t, "VIE-000001", bookings[0].Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetStatusMissingBooking(t *testing.T) {
	database, mock := newMock(t)
	repo := NewBookingRepository(database)

	mock.ExpectExec("UPDATE bookings SET status").
		WithArgs("bk-404", "cancelled").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetStatus("bk-404", "cancelled")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestUpdateStatusAndPaymentBySessionID(t *testing.T) {
	database, mock := newMock(t)
	repo := NewBookingRepository(database)

	mock.ExpectExec("UPDATE bookings SET status(.+)payment_status").
		WithArgs("cs_123", "confirmed", "paid").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateStatusAndPaymentBySessionID("cs_123", "confirmed", "paid"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
