package telegram

import (
	"errors"
	"fmt"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
)

func TestNewClientRequiresToken(t *testing.T) {
	_, err := NewClient("", nil)
	assert.Error(t, err)
}

func TestIsPermanentDeliveryError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		permanent bool
	}{
		{
			name:      "blocked by user",
			err:       &tgbotapi.Error{Code: 403, Message: "Forbidden: bot was blocked by the user"},
			permanent: true,
		},
		{
			name:      "chat not found",
			err:       &tgbotapi.Error{Code: 400, Message: "Bad Request: chat not found"},
			permanent: true,
		},
		{
			name:      "rate limited",
			err:       &tgbotapi.Error{Code: 429, Message: "Too Many Requests"},
			permanent: false,
		},
		{
			name:      "wrapped api error",
			err:       fmt.Errorf("failed to send message: %w", &tgbotapi.Error{Code: 403}),
			permanent: true,
		},
		{
			name:      "plain error",
			err:       errors.New("connection reset"),
			permanent: false,
		},
		{
			name:      "nil",
			err:       nil,
			permanent: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.permanent, IsPermanentDeliveryError(tt.err))
		})
	}
}
