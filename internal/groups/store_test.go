package groups

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCalendarID(t *testing.T) {
	tests := []struct {
		name  string
		id    string
		valid bool
	}{
		{name: "primary sentinel", id: "primary", valid: true},
		{name: "plain email", id: "team@example.com", valid: true},
		{name: "google group calendar", id: "abc123@group.calendar.google.com", valid: true},
		{name: "empty", id: "", valid: false},
		{name: "missing domain", id: "team@", valid: false},
		{name: "missing local part", id: "@example.com", valid: false},
		{name: "contains whitespace", id: "te am@example.com", valid: false},
		{name: "no tld", id: "team@example", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidateCalendarID(tt.id))
		})
	}
}

func TestChatClassification(t *testing.T) {
	assert.True(t, IsGroupChat(-1001234567))
	assert.False(t, IsGroupChat(1234567))
	assert.True(t, IsPrivateChat(1234567))
	assert.False(t, IsPrivateChat(-42))
}

func TestStoreUpsertAndGet(t *testing.T) {
	s := NewStore(nil)

	g := s.Upsert(-100, "a@example.com", "Team A")
	assert.Equal(t, Group{ChatID: -100, CalendarID: "a@example.com", Name: "Team A"}, g)

	got, ok := s.Get(-100)
	require.True(t, ok)
	assert.Equal(t, g, got)

	// Re-adding overwrites.
	s.Upsert(-100, "b@example.com", "Team B")
	got, _ = s.Get(-100)
	assert.Equal(t, "b@example.com", got.CalendarID)
	assert.Equal(t, "Team B", got.Name)
	assert.Equal(t, 1, s.Len())

	// Missing name falls back to the default.
	g = s.Upsert(200, "primary", "")
	assert.Equal(t, "Unknown Group", g.Name)
}

func TestStoreRemove(t *testing.T) {
	s := NewStore(nil)
	s.Upsert(1, "primary", "One")

	assert.True(t, s.Remove(1))
	assert.False(t, s.Remove(1))

	_, ok := s.Get(1)
	assert.False(t, ok)
}

func TestStoreListOrderIsStable(t *testing.T) {
	s := NewStore(nil)
	s.Upsert(3, "c@example.com", "C")
	s.Upsert(1, "a@example.com", "A")
	s.Upsert(2, "b@example.com", "B")

	// Overwriting must not move an entry.
	s.Upsert(1, "a2@example.com", "A2")

	list := s.List()
	require.Len(t, list, 3)
	assert.Equal(t, int64(3), list[0].ChatID)
	assert.Equal(t, int64(1), list[1].ChatID)
	assert.Equal(t, int64(2), list[2].ChatID)
}

func TestStoreUniqueCalendarIDs(t *testing.T) {
	s := NewStore(nil)
	s.Upsert(1, "primary", "One")
	s.Upsert(2, "a@example.com", "Two")
	s.Upsert(3, "primary", "Three")

	assert.Equal(t, []string{"primary", "a@example.com"}, s.UniqueCalendarIDs())
	assert.Len(t, s.GroupsForCalendar("primary"), 2)
}

func TestStoreLoadMalformedFailsSoft(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
	}{
		{name: "empty", encoded: ""},
		{name: "not base64", encoded: "%%%not-base64%%%"},
		{name: "base64 of non-json", encoded: base64.StdEncoding.EncodeToString([]byte("hello"))},
		{name: "wrong shape", encoded: base64.StdEncoding.EncodeToString([]byte(`{"groups": 42}`))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(nil)
			s.Upsert(1, "primary", "stale")
			s.Load(tt.encoded)
			assert.Equal(t, 0, s.Len(), "malformed snapshot must leave the store empty")
		})
	}
}

func TestStoreSnapshotRoundTrip(t *testing.T) {
	s := NewStore(nil)
	s.Upsert(-1001, "a@example.com", "Alpha")
	s.Upsert(42, "primary", "Direct")
	s.Upsert(-1002, "b@example.com", "Beta")
	s.Remove(-1002)

	export, err := s.ExportSnapshot()
	require.NoError(t, err)
	assert.Equal(t, 2, export.Count)

	restored := NewStore(nil)
	restored.Load(export.Base64)

	assert.Equal(t, s.List(), restored.List())
}

func TestStoreExportEmpty(t *testing.T) {
	export, err := NewStore(nil).ExportSnapshot()
	require.NoError(t, err)
	assert.Equal(t, 0, export.Count)

	restored := NewStore(nil)
	restored.Load(export.Base64)
	assert.Equal(t, 0, restored.Len())
}
