package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/schedulenudge/schedulenudge/internal/calendar"
)

// Config is the top-level application configuration. Values come from an
// optional YAML file overridden by environment variables, so the bot
// runs unchanged under a CI scheduler (env only) and on a host with a
// config file.
type Config struct {
	// TelegramBotToken authenticates the bot against the Telegram API.
	TelegramBotToken string `yaml:"telegram_bot_token"`

	// AdminChatID is the operator chat receiving the diagnostic report.
	// Zero disables the report.
	AdminChatID int64 `yaml:"admin_chat_id"`

	// GoogleServiceAccountKey is the service-account key JSON blob.
	GoogleServiceAccountKey string `yaml:"google_service_account_key"`

	// CalendarOwnerEmail, when set, is impersonated through domain-wide
	// delegation.
	CalendarOwnerEmail string `yaml:"calendar_owner_email"`

	// DefaultCalendarID is the calendar used for the admin fallback
	// delivery when no groups are configured.
	DefaultCalendarID string `yaml:"calendar_id"`

	// GroupMappings is the base64-encoded chat/calendar mapping snapshot.
	GroupMappings string `yaml:"group_calendar_mappings"`

	// Timezone is the IANA reference timezone for week windows and
	// digest rendering.
	Timezone string `yaml:"timezone"`

	// WeekStart is the first day of the week: "monday" or "sunday".
	WeekStart string `yaml:"week_start"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// MetricsListen is the listen address for the metrics endpoint in
	// listen mode.
	MetricsListen string `yaml:"metrics_listen"`
}

// Default returns the built-in configuration defaults.
func Default() *Config {
	return &Config{
		DefaultCalendarID: "primary",
		Timezone:          "Asia/Singapore",
		WeekStart:         "monday",
		LogLevel:          "info",
		MetricsListen:     ":9090",
	}
}

// Load builds the effective configuration: defaults, then the YAML file
// at path if one exists, then environment variables. A missing file is
// not an error; a malformed one is.
func Load(path string) (*Config, error) {
	c := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// No file; env-only operation.
		case err != nil:
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(raw, c); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		}
	}

	c.applyEnv()
	return c, nil
}

func (c *Config) applyEnv() {
	setString(&c.TelegramBotToken, "TELEGRAM_BOT_TOKEN")
	setString(&c.GoogleServiceAccountKey, "GOOGLE_SERVICE_ACCOUNT_KEY")
	setString(&c.CalendarOwnerEmail, "CALENDAR_OWNER_EMAIL")
	setString(&c.DefaultCalendarID, "CALENDAR_ID")
	setString(&c.GroupMappings, "GROUP_CALENDAR_MAPPINGS")
	setString(&c.Timezone, "TIMEZONE")
	setString(&c.WeekStart, "WEEK_START")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.MetricsListen, "METRICS_LISTEN")

	if v := os.Getenv("ADMIN_CHAT_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.AdminChatID = id
		}
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate checks that the configuration can run the pipeline. An empty
// group mapping is deliberately not an error; a freshly bootstrapped
// deployment has none.
func (c *Config) Validate() error {
	if c.TelegramBotToken == "" {
		return fmt.Errorf("telegram bot token is required (TELEGRAM_BOT_TOKEN)")
	}
	if c.GoogleServiceAccountKey == "" {
		return fmt.Errorf("google service account key is required (GOOGLE_SERVICE_ACCOUNT_KEY)")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.WeekStartDay(); err != nil {
		return err
	}
	return nil
}

// Location resolves the configured reference timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// WeekStartDay resolves the configured first day of the week.
func (c *Config) WeekStartDay() (time.Weekday, error) {
	return calendar.ParseWeekStart(c.WeekStart)
}
