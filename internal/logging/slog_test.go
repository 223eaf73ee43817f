package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedactChatID(t *testing.T) {
	tests := []struct {
		name     string
		id       int64
		expected string
	}{
		{
			name:     "private chat id keeps last three digits",
			id:       123456789,
			expected: "******789",
		},
		{
			name:     "group chat id keeps sign",
			id:       -1001234567,
			expected: "-*******567",
		},
		{
			name:     "short id fully masked",
			id:       42,
			expected: "**",
		},
		{
			name:     "zero",
			id:       0,
			expected: "*",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RedactChatID(tt.id))
		})
	}
}

func TestRedactCalendarID(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		expected string
	}{
		{
			name:     "primary passes through",
			id:       "primary",
			expected: "primary",
		},
		{
			name:     "email keeps first and last of local part",
			id:       "team-events@example.com",
			expected: "t*********s@example.com",
		},
		{
			name:     "short local part fully masked",
			id:       "ab@example.com",
			expected: "**@example.com",
		},
		{
			name:     "non-email keeps last three chars",
			id:       "calendar-xyz",
			expected: "*********xyz",
		},
		{
			name:     "empty",
			id:       "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RedactCalendarID(tt.id))
		})
	}
}

func TestErrNilIsOmittable(t *testing.T) {
	attr := Err(nil)
	// An empty group is dropped by slog handlers.
	assert.Equal(t, "", attr.Key)
}
