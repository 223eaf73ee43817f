package logging

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Common log attribute keys for consistent naming across the codebase.
const (
	KeyComponent = "component"
	KeyOperation = "operation"
	KeyChat      = "chat"
	KeyCalendar  = "calendar"
	KeyDuration  = "duration"
	KeyStatus    = "status"
	KeyError     = "error"
)

// Status values for consistent logging.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Setup installs a slog text handler writing to stderr as the default
// logger and returns it. The level string is one of debug, info, warn,
// error; unknown values fall back to info.
func Setup(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	return logger
}

// WithComponent returns a logger with the component attribute set.
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	return logger.With(slog.String(KeyComponent, component))
}

// Operation returns a slog attribute for the operation name.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Status returns a slog attribute for the status.
func Status(status string) slog.Attr {
	return slog.String(KeyStatus, status)
}

// Err returns a slog attribute for an error.
// If err is nil, returns an empty Group attribute that will be omitted
// from output, so Err(maybeNilErr) is always safe to pass.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}

// RedactChatID masks a Telegram chat id for logging, keeping only the
// last three digits. The sign is preserved so group chats remain
// recognizable as such.
func RedactChatID(id int64) string {
	s := strconv.FormatInt(id, 10)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}
	if len(s) <= 3 {
		return sign + strings.Repeat("*", len(s))
	}
	return sign + strings.Repeat("*", len(s)-3) + s[len(s)-3:]
}

// RedactCalendarID masks a calendar address for logging. The "primary"
// sentinel passes through unchanged. Email-shaped ids keep the domain and
// the first and last rune of the local part.
func RedactCalendarID(id string) string {
	if id == "" || id == "primary" {
		return id
	}

	at := strings.IndexByte(id, '@')
	if at == -1 {
		if len(id) <= 3 {
			return strings.Repeat("*", len(id))
		}
		return strings.Repeat("*", len(id)-3) + id[len(id)-3:]
	}

	local, domain := id[:at], id[at:]
	if len(local) <= 2 {
		return strings.Repeat("*", len(local)) + domain
	}
	return local[:1] + strings.Repeat("*", len(local)-2) + local[len(local)-1:] + domain
}

// Chat returns a slog attribute with the redacted chat id.
func Chat(id int64) slog.Attr {
	return slog.String(KeyChat, RedactChatID(id))
}

// Calendar returns a slog attribute with the redacted calendar id.
func Calendar(id string) slog.Attr {
	return slog.String(KeyCalendar, RedactCalendarID(id))
}
