package telegram

import (
	"errors"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/schedulenudge/schedulenudge/internal/logging"
)

// Client wraps the Telegram bot API.
type Client struct {
	bot    *tgbotapi.BotAPI
	logger *slog.Logger
}

// NewClient creates a Telegram client for the given bot token.
func NewClient(token string, logger *slog.Logger) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram bot token is required")
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		bot:    bot,
		logger: logging.WithComponent(logger, "telegram"),
	}, nil
}

// SendMarkdown sends a Markdown-formatted message to a chat.
func (c *Client) SendMarkdown(chatID int64, body string) error {
	msg := tgbotapi.NewMessage(chatID, body)
	msg.ParseMode = tgbotapi.ModeMarkdown

	if _, err := c.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// Username returns the bot's own username.
func (c *Client) Username() string {
	return c.bot.Self.UserName
}

// Probe checks that the bot token is valid and the API is reachable.
func (c *Client) Probe() bool {
	me, err := c.bot.GetMe()
	if err != nil {
		c.logger.Error("telegram connection failed", logging.Err(err))
		return false
	}
	c.logger.Info("telegram connection successful", "username", me.UserName)
	return true
}

// Updates returns the long-polling update channel consumed by the
// interactive console.
func (c *Client) Updates() tgbotapi.UpdatesChannel {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	return c.bot.GetUpdatesChan(u)
}

// StopPolling stops the update stream started by Updates.
func (c *Client) StopPolling() {
	c.bot.StopReceivingUpdates()
}

// IsPermanentDeliveryError reports whether a send failure indicates the
// destination itself is bad (bot blocked by the user, chat deleted or
// never existed), as opposed to a transient transport problem. The
// operator report marks such destinations as removal candidates.
func IsPermanentDeliveryError(err error) bool {
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == 403 || apiErr.Code == 400
	}
	return false
}
