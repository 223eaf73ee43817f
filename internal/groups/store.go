package groups

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/schedulenudge/schedulenudge/internal/logging"
)

// Group maps a single Telegram chat to the calendar it subscribes to.
// The JSON field names are part of the persisted snapshot format and
// must stay stable.
type Group struct {
	ChatID     int64  `json:"groupId"`
	CalendarID string `json:"calendarId"`
	Name       string `json:"groupName"`
}

// Snapshot is the persisted document shape for the chat/calendar mapping.
type Snapshot struct {
	Groups []Group `json:"groups"`
}

// Export carries the serialized forms of a snapshot.
type Export struct {
	JSON   string
	Base64 string
	Count  int
}

// defaultName is used when a mapping is created without a display name.
const defaultName = "Unknown Group"

var calendarIDPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateCalendarID reports whether id is an acceptable calendar
// identifier: the "primary" sentinel or an email-shaped address.
func ValidateCalendarID(id string) bool {
	if id == "primary" {
		return true
	}
	return calendarIDPattern.MatchString(id)
}

// IsGroupChat reports whether a chat id addresses a Telegram group or
// channel. Telegram assigns negative ids to multi-member chats.
func IsGroupChat(chatID int64) bool {
	return chatID < 0
}

// IsPrivateChat reports whether a chat id addresses an individual user.
func IsPrivateChat(chatID int64) bool {
	return chatID > 0
}

// Store holds the chat/calendar mapping for one process. It is not safe
// for concurrent mutation; the batch pipeline reads it, and only the
// interactive console mutates it.
type Store struct {
	byID   map[int64]Group
	order  []int64
	logger *slog.Logger
}

// NewStore returns an empty store. If logger is nil, slog.Default() is used.
func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		byID:   make(map[int64]Group),
		logger: logging.WithComponent(logger, "groups"),
	}
}

// Load replaces the store contents with the mappings from a
// base64-encoded JSON snapshot. A malformed snapshot empties the store
// and is logged rather than returned as an error: a deployment with no
// mapping configured yet is a valid state, and callers must be able to
// proceed with zero groups.
func (s *Store) Load(encoded string) {
	s.byID = make(map[int64]Group)
	s.order = nil

	if encoded == "" {
		s.logger.Info("no group mappings configured")
		return
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		s.logger.Error("failed to decode group mapping snapshot", logging.Err(err))
		return
	}

	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		s.logger.Error("failed to parse group mapping snapshot", logging.Err(err))
		return
	}

	for _, g := range snap.Groups {
		if g.Name == "" {
			g.Name = defaultName
		}
		s.Upsert(g.ChatID, g.CalendarID, g.Name)
	}

	s.logger.Info("loaded group mappings", "count", len(s.order))
}

// Upsert inserts or overwrites the mapping for a chat and returns the
// stored record. An overwritten entry keeps its original position in the
// listing order. Calendar-id validation is the caller's responsibility;
// the store accepts whatever it is given so validation and storage stay
// independently testable.
func (s *Store) Upsert(chatID int64, calendarID, name string) Group {
	if name == "" {
		name = defaultName
	}

	g := Group{ChatID: chatID, CalendarID: calendarID, Name: name}
	if _, exists := s.byID[chatID]; !exists {
		s.order = append(s.order, chatID)
	}
	s.byID[chatID] = g
	return g
}

// Remove deletes the mapping for a chat and reports whether one existed.
func (s *Store) Remove(chatID int64) bool {
	if _, exists := s.byID[chatID]; !exists {
		return false
	}
	delete(s.byID, chatID)
	for i, id := range s.order {
		if id == chatID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Get returns the mapping for a chat, if present.
func (s *Store) Get(chatID int64) (Group, bool) {
	g, ok := s.byID[chatID]
	return g, ok
}

// List returns all mappings in insertion order.
func (s *Store) List() []Group {
	out := make([]Group, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

// Len returns the number of mappings.
func (s *Store) Len() int {
	return len(s.order)
}

// UniqueCalendarIDs returns the distinct calendar ids across all
// mappings, in first-seen order. Destinations sharing a calendar are
// served by a single fetch.
func (s *Store) UniqueCalendarIDs() []string {
	seen := make(map[string]bool)
	var out []string
	for _, id := range s.order {
		cal := s.byID[id].CalendarID
		if !seen[cal] {
			seen[cal] = true
			out = append(out, cal)
		}
	}
	return out
}

// GroupsForCalendar returns all mappings that subscribe to a calendar.
func (s *Store) GroupsForCalendar(calendarID string) []Group {
	var out []Group
	for _, id := range s.order {
		if g := s.byID[id]; g.CalendarID == calendarID {
			out = append(out, g)
		}
	}
	return out
}

// ExportSnapshot serializes the current mapping into the snapshot
// document, both as indented JSON and as the base64 form Load accepts.
func (s *Store) ExportSnapshot() (Export, error) {
	snap := Snapshot{Groups: s.List()}
	if snap.Groups == nil {
		snap.Groups = []Group{}
	}

	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return Export{}, fmt.Errorf("failed to marshal group snapshot: %w", err)
	}

	return Export{
		JSON:   string(raw),
		Base64: base64.StdEncoding.EncodeToString(raw),
		Count:  len(snap.Groups),
	}, nil
}
