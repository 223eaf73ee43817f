package console

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/schedulenudge/schedulenudge/internal/calendar"
	"github.com/schedulenudge/schedulenudge/internal/digest"
	"github.com/schedulenudge/schedulenudge/internal/groups"
	"github.com/schedulenudge/schedulenudge/internal/logging"
)

// Messenger is the outbound side of the console. *telegram.Client
// implements it.
type Messenger interface {
	SendMarkdown(chatID int64, body string) error
}

// Console answers Telegram commands and administers the chat/calendar
// mapping.
type Console struct {
	messenger         Messenger
	store             *groups.Store
	fetcher           *calendar.Fetcher
	formatter         *digest.Formatter
	adminUserID       int64
	defaultCalendarID string
	loc               *time.Location
	weekStart         time.Weekday
	logger            *slog.Logger
	clock             func() time.Time
}

// New creates a Console. adminUserID of zero means no admin commands are
// available.
func New(messenger Messenger, store *groups.Store, fetcher *calendar.Fetcher, formatter *digest.Formatter, adminUserID int64, defaultCalendarID string, loc *time.Location, weekStart time.Weekday, logger *slog.Logger) *Console {
	if logger == nil {
		logger = slog.Default()
	}
	return &Console{
		messenger:         messenger,
		store:             store,
		fetcher:           fetcher,
		formatter:         formatter,
		adminUserID:       adminUserID,
		defaultCalendarID: defaultCalendarID,
		loc:               loc,
		weekStart:         weekStart,
		logger:            logging.WithComponent(logger, "console"),
		clock:             time.Now,
	}
}

// Run consumes the update stream until the context is cancelled or the
// stream closes.
func (c *Console) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	c.logger.Info("console listening for commands")
	for {
		select {
		case <-ctx.Done():
			return
		case u, ok := <-updates:
			if !ok {
				return
			}
			c.handleUpdate(ctx, u)
		}
	}
}

func (c *Console) handleUpdate(ctx context.Context, u tgbotapi.Update) {
	msg := u.Message
	if msg == nil || !msg.IsCommand() {
		return
	}

	chatID := msg.Chat.ID
	var userID int64
	if msg.From != nil {
		userID = msg.From.ID
	}

	c.logger.Info("command received",
		logging.Chat(chatID), "command", msg.Command())

	switch msg.Command() {
	case "start":
		c.reply(chatID, c.welcomeMessage(chatID))
	case "help":
		c.reply(chatID, helpMessage)
	case "chatid":
		c.reply(chatID, fmt.Sprintf("This chat's id: `%d`", chatID))
	case "status":
		c.handleStatus(chatID)
	case "groups":
		c.adminOnly(chatID, userID, c.handleGroups)
	case "addgroup":
		c.adminOnly(chatID, userID, func(replyTo int64) {
			c.handleAddGroup(replyTo, msg.CommandArguments())
		})
	case "removegroup":
		c.adminOnly(chatID, userID, func(replyTo int64) {
			c.handleRemoveGroup(replyTo, msg.CommandArguments())
		})
	case "exportconfig":
		c.adminOnly(chatID, userID, c.handleExportConfig)
	case "preview":
		c.adminOnly(chatID, userID, func(replyTo int64) {
			c.handlePreview(ctx, replyTo)
		})
	}
}

func (c *Console) isAdmin(userID int64) bool {
	return c.adminUserID != 0 && userID == c.adminUserID
}

func (c *Console) adminOnly(chatID, userID int64, handler func(chatID int64)) {
	if !c.isAdmin(userID) {
		c.reply(chatID, "❌ You are not authorized to use this command. Contact the administrator for access.")
		return
	}
	handler(chatID)
}

func (c *Console) reply(chatID int64, body string) {
	if err := c.messenger.SendMarkdown(chatID, body); err != nil {
		c.logger.Error("failed to send reply", logging.Chat(chatID), logging.Err(err))
	}
}

func (c *Console) welcomeMessage(chatID int64) string {
	return fmt.Sprintf(`🤖 *Schedule Nudge Bot*

Welcome! I send weekly calendar updates to configured chats.

This chat's id: `+"`%d`"+`

Use /help to see the available commands.`, chatID)
}

const helpMessage = `🤖 *Schedule Nudge Bot Commands*

*Everyone:*
/start - Welcome message
/chatid - Show this chat's id
/status - Show this chat's calendar subscription
/help - Show this help

*Admin:*
/groups - List configured chat/calendar mappings
/addgroup <chatid> <calendarid> [name...] - Add or update a mapping
/removegroup <chatid> - Remove a mapping
/exportconfig - Export the mapping snapshot for persistence
/preview - Send next week's digest for this chat's calendar`

func (c *Console) handleStatus(chatID int64) {
	g, ok := c.store.Get(chatID)
	if !ok {
		c.reply(chatID, "❌ This chat has no calendar subscription.")
		return
	}
	c.reply(chatID, fmt.Sprintf("✅ Subscribed: *%s* receives events from `%s`.", g.Name, g.CalendarID))
}

func (c *Console) handleGroups(chatID int64) {
	list := c.store.List()
	if len(list) == 0 {
		c.reply(chatID, "No chat/calendar mappings configured.")
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "👥 *Configured Mappings (%d):*\n", len(list))
	for _, g := range list {
		kind := "group"
		if groups.IsPrivateChat(g.ChatID) {
			kind = "direct"
		}
		fmt.Fprintf(&b, "• `%d` (%s) → `%s` — %s\n", g.ChatID, kind, g.CalendarID, g.Name)
	}
	c.reply(chatID, b.String())
}

func (c *Console) handleAddGroup(chatID int64, args string) {
	fields := strings.Fields(args)
	if len(fields) < 2 {
		c.reply(chatID, "❌ Usage: /addgroup <chatid> <calendarid> [name...]")
		return
	}

	target, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		c.reply(chatID, "❌ Invalid chat id. Must be a number.")
		return
	}

	calendarID := fields[1]
	if !groups.ValidateCalendarID(calendarID) {
		c.reply(chatID, "❌ Invalid calendar id. Use \"primary\" or an email-shaped address.")
		return
	}

	name := strings.Join(fields[2:], " ")
	g := c.store.Upsert(target, calendarID, name)

	c.logger.Info("mapping added",
		logging.Chat(g.ChatID), logging.Calendar(g.CalendarID))
	c.reply(chatID, fmt.Sprintf("✅ Mapping saved: *%s* (`%d`) → `%s`.\nRun /exportconfig and update the stored snapshot to persist it.", g.Name, g.ChatID, g.CalendarID))
}

func (c *Console) handleRemoveGroup(chatID int64, args string) {
	fields := strings.Fields(args)
	if len(fields) != 1 {
		c.reply(chatID, "❌ Usage: /removegroup <chatid>")
		return
	}

	target, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		c.reply(chatID, "❌ Invalid chat id. Must be a number.")
		return
	}

	if !c.store.Remove(target) {
		c.reply(chatID, "⚠️ No mapping exists for that chat.")
		return
	}

	c.logger.Info("mapping removed", logging.Chat(target))
	c.reply(chatID, fmt.Sprintf("✅ Mapping for `%d` removed.\nRun /exportconfig and update the stored snapshot to persist it.", target))
}

func (c *Console) handleExportConfig(chatID int64) {
	export, err := c.store.ExportSnapshot()
	if err != nil {
		c.logger.Error("failed to export snapshot", logging.Err(err))
		c.reply(chatID, "❌ Failed to export the mapping snapshot.")
		return
	}

	c.reply(chatID, fmt.Sprintf("📦 *Mapping Snapshot* (%d entries)\n\nStore this value in the GROUP\\_CALENDAR\\_MAPPINGS secret:\n\n`%s`", export.Count, export.Base64))
}

// handlePreview runs the pipeline for a single chat: the admin sees
// exactly what that chat would receive on the next scheduled run.
func (c *Console) handlePreview(ctx context.Context, chatID int64) {
	calendarID := c.defaultCalendarID
	label := ""
	if g, ok := c.store.Get(chatID); ok {
		calendarID = g.CalendarID
		label = g.Name
	}

	window := calendar.UpcomingWeek(c.clock(), c.loc, c.weekStart)
	res := c.fetcher.FetchWindow(ctx, calendarID, window)
	if !res.OK() {
		c.reply(chatID, fmt.Sprintf("❌ Failed to fetch calendar `%s`: %s", calendarID, res.Err))
		return
	}

	c.reply(chatID, c.formatter.Format(res.Events, res.Window, label))
}
