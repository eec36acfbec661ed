package repository

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/lib/pq"

	"vieride/internal/db"
)

type JobRepository struct {
	DB *sql.DB
}

func NewJobRepository(database *sql.DB) *JobRepository {
	return &JobRepository{DB: database}
}

// GetConfirmedBookingIDsPastPickup returns IDs of confirmed bookings whose
// pickup moment is more than grace hours in the past.
func (r *JobRepository) GetConfirmedBookingIDsPastPickup(graceHours int) ([]string, error) {
	query := `
		SELECT id FROM bookings
		WHERE status = 'confirmed'
		AND (pickup_date || ' ' || pickup_time)::timestamp < NOW() - ($1 || ' hours')::interval`
	rows, err := r.DB.Query(query, graceHours)
	if err != nil {
		return nil, fmt.Errorf("error querying confirmed bookings past pickup: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning booking ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating rows: %w", err)
	}
	return ids, nil
}

func (r *JobRepository) UpdateBookingStatuses(ids []string, newStatus string) error {
	if len(ids) == 0 {
		return nil
	}
	query := `UPDATE bookings SET status = $1, updated_at = NOW() WHERE id = ANY($2)`
	result, err := r.DB.Exec(query, newStatus, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("error updating booking statuses: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Printf("Could not get rows affected: %v", err)
	} else {
		log.Printf("Updated status for %d bookings to '%s'", rowsAffected, newStatus)
	}
	return nil
}

// GetBookingsDueReminder finds confirmed bookings that asked for a pickup
// reminder, are within the window, and have not been reminded yet.
func (r *JobRepository) GetBookingsDueReminder(windowHours int) ([]db.Booking, error) {
	query := `SELECT` + bookingColumns + `
		FROM bookings
		WHERE status = 'confirmed'
		AND reminder_set
		AND reminder_sent_at IS NULL
		AND (pickup_date || ' ' || pickup_time)::timestamp BETWEEN NOW() AND NOW() + ($1 || ' hours')::interval`
	rows, err := r.DB.Query(query, windowHours)
	if err != nil {
		return nil, fmt.Errorf("error querying bookings due reminder: %w", err)
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

func (r *JobRepository) MarkReminderSent(id string, at time.Time) error {
	_, err := r.DB.Exec(`UPDATE bookings SET reminder_sent_at = $2, updated_at = NOW() WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("error marking reminder sent for booking %s: %w", id, err)
	}
	return nil
}

// DeleteAbandonedCardBookings removes card bookings whose checkout session
// was never completed.
func (r *JobRepository) DeleteAbandonedCardBookings(olderThanHours int) (int64, error) {
	result, err := r.DB.Exec(`
		DELETE FROM bookings
		WHERE payment_method = 'card'
		AND payment_status = 'pending'
		AND created_at < NOW() - ($1 || ' hours')::interval`,
		olderThanHours,
	)
	if err != nil {
		return 0, fmt.Errorf("error deleting abandoned card bookings: %w", err)
	}
	return result.RowsAffected()
}
