package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"a@b.co", true},
		{"anna.maier@example.com", true},
		{"x+tag@sub.domain.at", true},
		{"a@b", false},
		{"a @b.co", false},
		{"@b.co", false},
		{"a@.", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidEmail(tt.email), "email %q", tt.email)
	}
}

func TestValidPhone(t *testing.T) {
	tests := []struct {
		phone string
		want  bool
	}{
		{"+43 1 234 5678", true},
		{"+436641234567", true},
		{"0664 123-4567", true},
		{"1234567", true},
		{"123456", false},
		{"abc123", false},
		{"+43 (1) 234", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidPhone(tt.phone), "phone %q", tt.phone)
	}
}
