package service

import (
	"fmt"
	"log"
	"time"

	"vieride/internal/repository"
)

const (
	// completionGraceHours keeps a booking "confirmed" for a while after
	// pickup so late rides are not marked completed mid-trip.
	completionGraceHours = 4
	reminderWindowHours  = 24
	abandonedCardHours   = 24
)

type JobService struct {
	Repo     *repository.JobRepository
	notifier *NotifyService
}

func NewJobService(repo *repository.JobRepository, notifier *NotifyService) *JobService {
	return &JobService{Repo: repo, notifier: notifier}
}

// CompleteFinishedBookings marks confirmed bookings whose pickup is well in
// the past as completed.
func (s *JobService) CompleteFinishedBookings() error {
	log.Println("Cron Job: Checking for bookings to mark as 'completed'...")

	ids, err := s.Repo.GetConfirmedBookingIDsPastPickup(completionGraceHours)
	if err != nil {
		return fmt.Errorf("cron job: failed to get confirmed bookings past pickup: %w", err)
	}

	if len(ids) == 0 {
		log.Println("Cron Job: No confirmed bookings found past their pickup time.")
		return nil
	}

	log.Printf("Cron Job: Found %d bookings to mark as 'completed'. IDs: %v", len(ids), ids)

	if err := s.Repo.UpdateBookingStatuses(ids, StatusCompleted); err != nil {
		return fmt.Errorf("cron job: failed to update booking statuses: %w", err)
	}
	return nil
}

// SendPickupReminders texts customers who opted in and are within the
// reminder window.
func (s *JobService) SendPickupReminders() error {
	due, err := s.Repo.GetBookingsDueReminder(reminderWindowHours)
	if err != nil {
		return fmt.Errorf("cron job: failed to get bookings due reminder: %w", err)
	}

	for i := range due {
		rec := recordFromRow(&due[i])
		if err := s.notifier.SendPickupReminder(rec); err != nil {
			log.Printf("Cron Job: reminder SMS for booking %s failed: %v", rec.Code, err)
			continue
		}
		if err := s.Repo.MarkReminderSent(due[i].ID, time.Now().UTC()); err != nil {
			log.Printf("Cron Job: could not mark reminder sent for booking %s: %v", rec.Code, err)
		}
	}
	return nil
}

// CleanupAbandonedCardBookings deletes card bookings whose checkout was never
// completed.
func (s *JobService) CleanupAbandonedCardBookings() error {
	deleted, err := s.Repo.DeleteAbandonedCardBookings(abandonedCardHours)
	if err != nil {
		return fmt.Errorf("cron job: failed to delete abandoned card bookings: %w", err)
	}
	if deleted > 0 {
		log.Printf("Cron Job: Deleted %d abandoned card bookings.", deleted)
	}
	return nil
}
