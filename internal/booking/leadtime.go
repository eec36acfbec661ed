package booking

import (
	"strings"
	"time"
)

// Minimum notice before pickup. Night pickups need more because drivers are
// scheduled the evening before.
const (
	dayLeadTime   = 2 * time.Hour
	nightLeadTime = 8 * time.Hour

	dayWindowStart = 7  // inclusive
	dayWindowEnd   = 22 // exclusive
)

// ValidateLeadTime checks that a pickup at date ("2006-01-02") and wall-clock
// time ("15:04") leaves enough notice relative to now. Returns nil when the
// booking is acceptable, otherwise a FieldError on the time field.
//
// The day/night split keys off the PICKUP hour, not the hour the booking is
// made: a request made at 23:00 for a 07:30 pickup uses the 2h day rule. That
// is deliberate production behavior and is pinned by tests; do not "fix" it.
func ValidateLeadTime(dateStr, timeStr string, now time.Time) *FieldError {
	if dateStr == "" || timeStr == "" || incompleteClock(timeStr) {
		return fieldErr(FieldTime, CodeSelectDate)
	}
	pickup, err := time.ParseInLocation("2006-01-02T15:04", dateStr+"T"+timeStr, now.Location())
	if err != nil {
		return fieldErr(FieldTime, CodeInvalidDate)
	}
	if !pickup.After(now) {
		return fieldErr(FieldTime, CodePastDate)
	}

	isDay := pickup.Hour() >= dayWindowStart && pickup.Hour() < dayWindowEnd
	required := nightLeadTime
	if isDay {
		required = dayLeadTime
	}
	if pickup.Sub(now) < required {
		if isDay {
			return fieldErr(FieldTime, CodeLeadTimeDay)
		}
		return fieldErr(FieldTime, CodeLeadTimeNight)
	}
	return nil
}

// incompleteClock reports a time string with a missing hour or minute part,
// which happens while the two dropdowns are filled one at a time.
func incompleteClock(timeStr string) bool {
	parts := strings.Split(timeStr, ":")
	if len(parts) != 2 {
		return true
	}
	return parts[0] == "" || parts[1] == ""
}
