package booking

import "regexp"

// Purely syntactic checks, same patterns the booking form has always used.
// No MX lookup, no SMS verification.
var (
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRegex = regexp.MustCompile(`^\+?[0-9\s-]{7,20}$`)
)

func ValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

func ValidPhone(phone string) bool {
	return phoneRegex.MatchString(phone)
}
